// Package hmd resolves a headset description and a user profile into the
// per-eye rendering setup: eye cup, lens constants, eye positions and the
// lens distortion for each eye.
package hmd

import (
	"errors"
	"fmt"

	"ovr-stereo/internal/device"
	"ovr-stereo/internal/lens"
	"ovr-stereo/internal/logging"
	"ovr-stereo/internal/profile"
)

var (
	// ErrMissingCalibrationData means neither the profile nor the default
	// profile gives the eye-to-plate distance.
	ErrMissingCalibrationData = errors.New("hmd: missing calibration data")
	ErrDescriptorOrder        = errors.New("hmd: distortion descriptors out of order")
	ErrUnknownEyeCup          = errors.New("hmd: unknown eye cup")
)

// Defaults supplies the fallback profile for a device type.
// *profile.Manager implements it.
type Defaults interface {
	DefaultProfile(hmdType device.HmdType) *profile.Profile
}

type builtinDefaults struct{}

func (builtinDefaults) DefaultProfile(t device.HmdType) *profile.Profile {
	return profile.DefaultProfile(t)
}

// Options tune Resolve.
type Options struct {
	// Distortion is the equation the per-eye lens configs are built with.
	Distortion lens.Eqn
	// EyeCupOverride, unless EyeCupNone, replaces the cup from the profile.
	EyeCupOverride EyeCup
}

// DefaultOptions builds CatmullRom10 lenses with no cup override.
func DefaultOptions() Options {
	return Options{Distortion: lens.CatmullRom10}
}

// Resolver turns device info plus a profile into RenderInfo.
type Resolver struct {
	defaults Defaults
}

// NewResolver returns a resolver reading fallback values from d. A nil d
// uses the built-in default profiles.
func NewResolver(d Defaults) *Resolver {
	if d == nil {
		d = builtinDefaults{}
	}
	return &Resolver{defaults: d}
}

// Lens physical constants per cup family.
const (
	dk1LensDiameter       = 0.035
	dk1LensToMidplate     = 0.02357
	dk2LensDiameter       = 0.04
	dk2LensToMidplate     = 0.01965
	defaultLensToMidplate = 0.025
)

// Resolve builds the render info for info worn by the owner of p. A nil p
// uses the default profile for the device type.
func (r *Resolver) Resolve(info device.Info, p *profile.Profile, opts Options) (RenderInfo, error) {
	if !opts.EyeCupOverride.Valid() {
		return RenderInfo{}, fmt.Errorf("hmd: override %v: %w", opts.EyeCupOverride, ErrUnknownEyeCup)
	}
	def := r.defaults.DefaultProfile(info.HmdType)
	if p == nil {
		p = def
	}
	log := logging.Logger()

	ri := RenderInfo{
		HmdType:                       info.HmdType,
		ResolutionInPixels:            info.ResolutionInPixels,
		ScreenSizeInMeters:            info.ScreenSizeInMeters,
		ScreenGapSizeInMeters:         info.ScreenGapSizeInMeters,
		CenterFromTopInMeters:         info.CenterFromTopInMeters,
		LensSeparationInMeters:        info.LensSeparationInMeters,
		LensDiameterInMeters:          dk1LensDiameter,
		LensSurfaceToMidplateInMeters: defaultLensToMidplate,
		EyeCups:                       EyeCupDK1A,
		Shutter:                       info.Shutter,
	}

	// Laser-measured DK1 numbers at 10mm relief. They seed the eyes until
	// the profile and relief tables replace them.
	seed := lens.Identity()
	seed.MetersPerTanAngleAtCenter = 0.0449
	seed.Eqn = lens.RecipPoly4
	seed.K[0], seed.K[1], seed.K[2], seed.K[3] = 1.0, -0.494165344, 0.587046423, -0.841887126
	seed.ChromaticAberration = [4]float32{-0.006, 0, 0.014, 0}
	ri.EyeLeft = EyeConfig{NoseToPupilInMeters: 0.032, ReliefInMeters: 0.012, Distortion: seed}
	ri.EyeRight = ri.EyeLeft

	if code, ok := p.Value(profile.KeyEyeCup); ok {
		if s, ok := code.AsString(); ok {
			ri.EyeCups = EyeCupFromProfile(s)
		}
	}

	switch info.HmdType {
	case device.HmdNone, device.HmdDKProto, device.HmdDK1:
		// A profile left over from another headset must not pick a non-DK1 lens.
		if !ri.EyeCups.isDK1() {
			ri.EyeCups = EyeCupDK1A
		}
	case device.HmdDKHD2Proto:
		ri.EyeCups = EyeCupDKHD2A
	case device.HmdCrystalCoveProto:
		ri.EyeCups = EyeCupPinkA
	case device.HmdDK2:
		ri.EyeCups = EyeCupDK2A
	}
	if opts.EyeCupOverride != EyeCupNone {
		ri.EyeCups = opts.EyeCupOverride
	}

	switch {
	case ri.EyeCups.isDK1(), ri.EyeCups == EyeCupDKHD2A:
		ri.LensDiameterInMeters = dk1LensDiameter
		ri.LensSurfaceToMidplateInMeters = dk1LensToMidplate
		ri.EyeLeft.ReliefInMeters, ri.EyeRight.ReliefInMeters = 0.010, 0.010
	case ri.EyeCups == EyeCupPinkA, ri.EyeCups == EyeCupDK2A:
		ri.LensDiameterInMeters = dk2LensDiameter
		ri.LensSurfaceToMidplateInMeters = dk2LensToMidplate
		ri.EyeLeft.ReliefInMeters, ri.EyeRight.ReliefInMeters = 0.012, 0.012
	default:
		log.Debug("no lens constants for eye cup, keeping defaults", "cup", ri.EyeCups.String())
	}
	log.Debug("resolved eye cup", "hmd", info.HmdType.String(), "cup", ri.EyeCups.String())

	if !p.GetBool(profile.KeyCustomEyeRender, true) {
		p = def
	}

	if nose := p.GetFloats(profile.KeyEyeToNoseDistance, 2); len(nose) == 2 {
		ri.EyeLeft.NoseToPupilInMeters = nose[0]
		ri.EyeRight.NoseToPupilInMeters = nose[1]
	} else {
		// Older profiles carry only the full IPD.
		ipd := p.GetFloat(profile.KeyIPD, profile.DefaultIPD)
		ri.EyeLeft.NoseToPupilInMeters = 0.5 * ipd
		ri.EyeRight.NoseToPupilInMeters = 0.5 * ipd
	}

	plate := p.GetFloats(profile.KeyMaxEyeToPlateDistance, 2)
	if len(plate) != 2 {
		plate = def.GetFloats(profile.KeyMaxEyeToPlateDistance, 2)
	}
	if len(plate) != 2 {
		return RenderInfo{}, fmt.Errorf("hmd: %s for %v: %w", profile.KeyMaxEyeToPlateDistance, info.HmdType, ErrMissingCalibrationData)
	}
	// Plate distance is measured at the maximum dial setting of 10.
	dial := p.GetInt(profile.KeyEyeReliefDial, profile.DefaultEyeReliefDial)
	dialOffset := float32(10-dial) * 0.001
	ri.EyeLeft.ReliefInMeters = plate[0] - ri.LensSurfaceToMidplateInMeters - dialOffset
	ri.EyeRight.ReliefInMeters = plate[1] - ri.LensSurfaceToMidplateInMeters - dialOffset

	for _, eye := range []*EyeConfig{&ri.EyeLeft, &ri.EyeRight} {
		cfg, err := GenerateLensConfigFromEyeRelief(eye.ReliefInMeters, ri, opts.Distortion)
		if err != nil {
			return RenderInfo{}, err
		}
		eye.Distortion = cfg
	}
	return ri, nil
}

// ResolveUser resolves info with user's profile from m. An empty user
// picks the device's default user, or the built-in defaults when none is
// set.
func ResolveUser(m *profile.Manager, info device.Info, user string, opts Options) (RenderInfo, error) {
	key := profile.NewDeviceKey(info)
	var p *profile.Profile
	if user == "" {
		p = m.DefaultUserProfile(key)
	} else {
		var ok bool
		if p, ok = m.Profile(key, user); !ok {
			return RenderInfo{}, fmt.Errorf("hmd: user %q: %w", user, profile.ErrUnknownUser)
		}
	}
	return NewResolver(m).Resolve(info, p, opts)
}
