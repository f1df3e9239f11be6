package stereo

import (
	"fmt"

	"github.com/chewxy/math32"

	"ovr-stereo/internal/hmd"
	"ovr-stereo/internal/lens"
	"ovr-stereo/internal/mathutil"
)

// Geometry of the eye used when a rotating eye can see past the static FOV.
const (
	maxEyeRotation        = 30 * math32.Pi / 180
	eyeballCenterToPupil  = 0.0135
	eyeballLateralPullMax = 0.001

	// minReliefForFov keeps the FOV finite when a profile reports a relief near zero.
	minReliefForFov = 0.006

	physicalFovSteps = 10
)

// DefaultExtraEyeRotation is the eye rotation, in radians, that the
// recommended FOV allows for.
const DefaultExtraEyeRotation = float32(maxEyeRotation)

// DistortionRenderDesc is everything the distortion pass needs for one eye.
type DistortionRenderDesc struct {
	Lens lens.Config
	// LensCenter is the lens axis in screen NDC of the eye's half of the display.
	LensCenter mathutil.Vec2
	// TanEyeAngleScale converts screen NDC offsets from LensCenter to tan-angles.
	TanEyeAngleScale          mathutil.Vec2
	PixelsPerTanAngleAtCenter mathutil.Vec2
}

// ScaleAndOffset2D is the affine map v*Scale + Offset.
type ScaleAndOffset2D struct {
	Scale  mathutil.Vec2
	Offset mathutil.Vec2
}

// Apply maps v.
func (s ScaleAndOffset2D) Apply(v mathutil.Vec2) mathutil.Vec2 {
	return v.Mul(s.Scale).Add(s.Offset)
}

// eyeConfig picks the eye's lens. Anything but the left eye, the centre
// included, looks through the right lens.
func eyeConfig(eye StereoEye, ri hmd.RenderInfo) hmd.EyeConfig {
	if eye == EyeLeft {
		return ri.EyeLeft
	}
	return ri.EyeRight
}

// ComputeDistortionRenderDesc derives the lens placement and scale for eye.
// lensOverride, when non-nil, replaces the eye's own lens config.
func ComputeDistortionRenderDesc(eye StereoEye, ri hmd.RenderInfo, lensOverride *lens.Config) (DistortionRenderDesc, error) {
	cfg := eyeConfig(eye, ri)
	if lensOverride != nil {
		cfg.Distortion = *lensOverride
	}
	if err := cfg.Distortion.Validate(); err != nil {
		return DistortionRenderDesc{}, fmt.Errorf("stereo: %v eye: %w", eye, err)
	}

	screen := ri.ScreenSizeInMeters
	res := ri.ResolutionInPixels
	mpta := cfg.Distortion.MetersPerTanAngleAtCenter

	pixelsPerMeter := mathutil.Vec2{
		float32(res.W) / (screen.X() - ri.ScreenGapSizeInMeters),
		float32(res.H) / screen.Y(),
	}

	desc := DistortionRenderDesc{
		Lens:                      cfg.Distortion,
		PixelsPerTanAngleAtCenter: pixelsPerMeter.Scale(mpta),
		// Each eye sees half the width, and NDC spans 2 units.
		TanEyeAngleScale: mathutil.Vec2{0.25, 0.5}.Mul(screen.Scale(1 / mpta)),
	}

	visibleWidthOfOneEye := 0.5 * (screen.X() - ri.ScreenGapSizeInMeters)
	centerFromLeft := (screen.X() - ri.LensSeparationInMeters) * 0.5
	desc.LensCenter[0] = (centerFromLeft/visibleWidthOfOneEye)*2 - 1
	desc.LensCenter[1] = (ri.CenterFromTopInMeters/screen.Y())*2 - 1
	if eye == EyeRight {
		desc.LensCenter[0] = -desc.LensCenter[0]
	}
	return desc, nil
}

// FovFromEyePosition computes the FOV seen through a lens of the given
// diameter from an eye relief away, offset from the lens axis. A positive
// extraRotation widens each side by what a rotated eye can see, up to 30°.
func FovFromEyePosition(relief, offsetRight, offsetDown, lensDiameter, extraRotation float32) FovPort {
	half := lensDiameter * 0.5
	fov := FovPort{
		UpTan:    (half + offsetDown) / relief,
		DownTan:  (half - offsetDown) / relief,
		LeftTan:  (half + offsetRight) / relief,
		RightTan: (half - offsetRight) / relief,
	}

	if extraRotation > 0 {
		rot := min(extraRotation, maxEyeRotation)
		sin := math32.Sin(rot)
		cos := math32.Cos(rot)

		lateralPull := eyeballLateralPullMax * (rot / maxEyeRotation)
		extraTranslation := eyeballCenterToPupil*sin + lateralPull
		extraRelief := eyeballCenterToPupil * (1 - cos)
		r := relief + extraRelief

		fov.UpTan = max(fov.UpTan, (half+offsetDown+extraTranslation)/r)
		fov.DownTan = max(fov.DownTan, (half-offsetDown+extraTranslation)/r)
		fov.LeftTan = max(fov.LeftTan, (half+offsetRight+extraTranslation)/r)
		fov.RightTan = max(fov.RightTan, (half-offsetRight+extraTranslation)/r)
	}
	return fov
}

// FovFromHmdInfo is the FOV an eye gets through its lens, clamped to what
// the physical screen can show.
func FovFromHmdInfo(eye StereoEye, desc DistortionRenderDesc, ri hmd.RenderInfo, extraRotation float32) FovPort {
	var relief, offset float32
	halfSep := 0.5 * ri.LensSeparationInMeters
	switch eye {
	case EyeRight:
		relief = ri.EyeRight.ReliefInMeters
		offset = ri.EyeRight.NoseToPupilInMeters - halfSep
	default:
		relief = ri.EyeLeft.ReliefInMeters
		offset = -(ri.EyeLeft.NoseToPupilInMeters - halfSep)
	}
	relief = max(relief, minReliefForFov)

	fov := FovFromEyePosition(relief, offset, 0, ri.LensDiameterInMeters, extraRotation)
	return ClampToPhysicalScreenFov(desc, fov)
}

// PhysicalScreenFov measures from the lens centre to each screen edge and
// keeps the widest tan-angle reached. Sampling along the way rather than
// transforming the edge alone copes with distortion curves that fold
// back on themselves beyond the visible area.
func PhysicalScreenFov(desc DistortionRenderDesc) FovPort {
	c := desc.LensCenter
	left := findRange(desc, c, mathutil.Vec2{-1, c.Y()}, physicalFovSteps)
	right := findRange(desc, c, mathutil.Vec2{1, c.Y()}, physicalFovSteps)
	up := findRange(desc, c, mathutil.Vec2{c.X(), -1}, physicalFovSteps)
	down := findRange(desc, c, mathutil.Vec2{c.X(), 1}, physicalFovSteps)

	return FovPort{
		LeftTan:  left.LeftTan,
		RightTan: right.RightTan,
		UpTan:    up.UpTan,
		DownTan:  down.DownTan,
	}
}

func findRange(desc DistortionRenderDesc, from, to mathutil.Vec2, steps int) FovPort {
	var r FovPort
	step := 1 / float32(steps-1)
	delta := to.Sub(from)
	for i := 0; i < steps; i++ {
		sample := from.Add(delta.Scale(float32(i) * step))
		tan := ScreenNDCToTanFov(desc, sample)
		r.LeftTan = max(r.LeftTan, -tan.X())
		r.RightTan = max(r.RightTan, tan.X())
		r.UpTan = max(r.UpTan, -tan.Y())
		r.DownTan = max(r.DownTan, tan.Y())
	}
	return r
}

// ClampToPhysicalScreenFov limits fov to what the screen can display.
func ClampToPhysicalScreenFov(desc DistortionRenderDesc, fov FovPort) FovPort {
	return fov.Min(PhysicalScreenFov(desc))
}

// IdealPixelSize is the render target size that keeps one rendered pixel
// per display pixel at the lens centre, times pixelsPerDisplayPixel.
func IdealPixelSize(desc DistortionRenderDesc, fov FovPort, pixelsPerDisplayPixel float32) mathutil.Sizei {
	ppta := desc.PixelsPerTanAngleAtCenter
	return mathutil.Sizei{
		W: int(0.5 + pixelsPerDisplayPixel*ppta.X()*(fov.LeftTan+fov.RightTan)),
		H: int(0.5 + pixelsPerDisplayPixel*ppta.Y()*(fov.UpTan+fov.DownTan)),
	}
}

// FramebufferViewport is the eye's half of the physical display. The
// right half starts at the rounded-up midpoint.
func FramebufferViewport(eye StereoEye, ri hmd.RenderInfo) mathutil.Recti {
	vp := mathutil.Recti{W: ri.ResolutionInPixels.W / 2, H: ri.ResolutionInPixels.H}
	if eye == EyeRight {
		vp.X = (ri.ResolutionInPixels.W + 1) / 2
	}
	return vp
}

// NDCScaleAndOffsetFromFov maps tan-angles inside fov onto [-1,1]. NDC Y
// points down, so the Y offset has the opposite sense of a projection's.
func NDCScaleAndOffsetFromFov(fov FovPort) ScaleAndOffset2D {
	xs := 2 / (fov.LeftTan + fov.RightTan)
	xo := (fov.LeftTan - fov.RightTan) * xs * 0.5
	ys := 2 / (fov.UpTan + fov.DownTan)
	yo := (fov.UpTan - fov.DownTan) * ys * 0.5
	return ScaleAndOffset2D{
		Scale:  mathutil.Vec2{xs, ys},
		Offset: mathutil.Vec2{xo, yo},
	}
}

// UVScaleAndOffsetFromNDC converts an NDC mapping into texture UVs of the
// part of a render target of size rt that viewport covers.
func UVScaleAndOffsetFromNDC(ndc ScaleAndOffset2D, viewport mathutil.Recti, rt mathutil.Sizei) ScaleAndOffset2D {
	res := ScaleAndOffset2D{
		Scale:  ndc.Scale.Scale(0.5),
		Offset: ndc.Offset.Scale(0.5).Add(mathutil.Vec2{0.5, 0.5}),
	}
	scale := mathutil.Vec2{float32(viewport.W) / float32(rt.W), float32(viewport.H) / float32(rt.H)}
	offset := mathutil.Vec2{float32(viewport.X) / float32(rt.W), float32(viewport.Y) / float32(rt.H)}

	res.Scale = res.Scale.Mul(scale)
	res.Offset = res.Offset.Mul(scale).Add(offset)
	return res
}
