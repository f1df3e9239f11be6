package stereo

import (
	"fmt"

	"ovr-stereo/internal/mathutil"
)

// The forward chain runs screen pixel -> screen NDC -> tan-angle ->
// render target NDC or UV. It mirrors the distortion shader step for step
// so CPU and GPU sample the same texels.

// ScreenNDCToTanFov undistorts a point of the eye's half of the screen.
func ScreenNDCToTanFov(desc DistortionRenderDesc, ndc mathutil.Vec2) mathutil.Vec2 {
	distorted := ndc.Sub(desc.LensCenter).Mul(desc.TanEyeAngleScale)
	return distorted.Scale(desc.Lens.ScaleAtRadiusSquared(distorted.LenSq()))
}

// ScreenNDCToTanFovChroma is ScreenNDCToTanFov for the red, green and
// blue channels.
func ScreenNDCToTanFovChroma(desc DistortionRenderDesc, ndc mathutil.Vec2) (r, g, b mathutil.Vec2) {
	distorted := ndc.Sub(desc.LensCenter).Mul(desc.TanEyeAngleScale)
	s := desc.Lens.ScaleAtRadiusSquaredChroma(distorted.LenSq())
	return distorted.Scale(s[0]), distorted.Scale(s[1]), distorted.Scale(s[2])
}

func TanFovToRendertargetTexUV(eyeToSourceUV ScaleAndOffset2D, tan mathutil.Vec2) mathutil.Vec2 {
	return eyeToSourceUV.Apply(tan)
}

func TanFovToRendertargetNDC(eyeToSourceNDC ScaleAndOffset2D, tan mathutil.Vec2) mathutil.Vec2 {
	return eyeToSourceNDC.Apply(tan)
}

// ScreenPixelToScreenNDC maps a display pixel into [-1,1] across viewport.
func ScreenPixelToScreenNDC(viewport mathutil.Recti, pixel mathutil.Vec2) mathutil.Vec2 {
	return mathutil.Vec2{
		-1 + 2*((pixel.X()-float32(viewport.X))/float32(viewport.W)),
		-1 + 2*((pixel.Y()-float32(viewport.Y))/float32(viewport.H)),
	}
}

func ScreenPixelToTanFov(viewport mathutil.Recti, desc DistortionRenderDesc, pixel mathutil.Vec2) mathutil.Vec2 {
	return ScreenNDCToTanFov(desc, ScreenPixelToScreenNDC(viewport, pixel))
}

func ScreenNDCToRendertargetTexUV(desc DistortionRenderDesc, eyeToSourceUV ScaleAndOffset2D, ndc mathutil.Vec2) mathutil.Vec2 {
	return TanFovToRendertargetTexUV(eyeToSourceUV, ScreenNDCToTanFov(desc, ndc))
}

func ScreenPixelToRendertargetTexUV(viewport mathutil.Recti, desc DistortionRenderDesc, eyeToSourceUV ScaleAndOffset2D, pixel mathutil.Vec2) mathutil.Vec2 {
	return TanFovToRendertargetTexUV(eyeToSourceUV, ScreenPixelToTanFov(viewport, desc, pixel))
}

// TanFovToScreenNDC is the reverse of ScreenNDCToTanFov. It inverts the
// lens curve, which is slow with approx false; per-pixel callers should
// pass approx true and build the lens's inverse approximation first.
func TanFovToScreenNDC(desc DistortionRenderDesc, tan mathutil.Vec2, approx bool) (mathutil.Vec2, error) {
	radius := tan.Len()

	var (
		distortedRadius float32
		err             error
	)
	if approx {
		distortedRadius, err = desc.Lens.DistortionInverseApprox(radius)
	} else {
		distortedRadius, err = desc.Lens.DistortionInverseExact(radius)
	}
	if err != nil {
		return mathutil.Vec2{}, fmt.Errorf("stereo: tan-angle %v to screen: %w", tan, err)
	}

	distorted := tan
	if radius > 0 {
		distorted = tan.Scale(distortedRadius / radius)
	}
	return distorted.Div(desc.TanEyeAngleScale).Add(desc.LensCenter), nil
}

// RendertargetNDCToTanFov is the reverse of TanFovToRendertargetNDC.
func RendertargetNDCToTanFov(eyeToSourceNDC ScaleAndOffset2D, ndc mathutil.Vec2) mathutil.Vec2 {
	return ndc.Sub(eyeToSourceNDC.Offset).Div(eyeToSourceNDC.Scale)
}
