package hmd

import (
	"ovr-stereo/internal/device"
	"ovr-stereo/internal/lens"
	"ovr-stereo/internal/mathutil"
)

// EyeConfig is the per-eye part of RenderInfo, set from the user's profile.
type EyeConfig struct {
	// ReliefInMeters is the distance from the eye to the front of the lens.
	ReliefInMeters float32
	// NoseToPupilInMeters is the distance from the headset centre line to the pupil.
	NoseToPupilInMeters float32
	Distortion          lens.Config
}

// RenderInfo is the resolved rendering description of one headset for one
// profile. It is a snapshot; recompute it when the profile changes.
type RenderInfo struct {
	HmdType device.HmdType

	ResolutionInPixels    mathutil.Sizei
	ScreenSizeInMeters    mathutil.Vec2
	ScreenGapSizeInMeters float32

	CenterFromTopInMeters         float32
	LensSeparationInMeters        float32
	LensDiameterInMeters          float32
	LensSurfaceToMidplateInMeters float32
	EyeCups                       EyeCup

	Shutter device.Shutter

	EyeLeft, EyeRight EyeConfig
}

// AverageRelief is the mean of the two eyes' relief.
func (ri RenderInfo) AverageRelief() float32 {
	return 0.5 * (ri.EyeLeft.ReliefInMeters + ri.EyeRight.ReliefInMeters)
}

// SetEyeRelief puts both eyes at relief and regenerates their lenses.
func (ri *RenderInfo) SetEyeRelief(relief float32, eqn lens.Eqn) error {
	cfg, err := GenerateLensConfigFromEyeRelief(relief, *ri, eqn)
	if err != nil {
		return err
	}
	ri.EyeLeft.ReliefInMeters, ri.EyeRight.ReliefInMeters = relief, relief
	ri.EyeLeft.Distortion, ri.EyeRight.Distortion = cfg, cfg
	return nil
}
