package stereo

import (
	"github.com/golang/geo/r3"

	"ovr-stereo/internal/hmd"
	"ovr-stereo/internal/lens"
	"ovr-stereo/internal/mathutil"
)

// StereoEyeParams is everything a renderer needs to draw and then distort
// one eye.
type StereoEyeParams struct {
	Eye StereoEye
	// ViewAdjust moves the head-centre camera to this eye.
	ViewAdjust mathutil.Mat4

	Distortion         DistortionRenderDesc
	DistortionViewport mathutil.Recti

	RenderedViewport   mathutil.Recti
	Fov                FovPort
	RenderedProjection mathutil.Mat4

	EyeToSourceNDC ScaleAndOffset2D
	EyeToSourceUV  ScaleAndOffset2D
}

// ComputeViewport places an eye's viewport in a render target. A shared
// target holds both eyes side by side; the right one starts at the rounded
// up midpoint.
func ComputeViewport(eye StereoEye, rtSize mathutil.Sizei, shared bool, requested mathutil.Sizei) mathutil.Recti {
	vp := mathutil.Recti{H: min(rtSize.H, requested.H)}
	if eye == EyeCenter || !shared {
		vp.W = min(rtSize.W, requested.W)
		return vp
	}
	vp.W = min(rtSize.W/2, requested.W)
	if eye == EyeRight {
		vp.X = (rtSize.W + 1) / 2
	}
	return vp
}

// EyeVirtualCameraOffset is the eye position relative to the point
// between the eyes, in metres. X points right and Z points back.
func EyeVirtualCameraOffset(ri hmd.RenderInfo, eye StereoEye) r3.Vector {
	center := ri.AverageRelief()
	switch eye {
	case EyeLeft:
		return r3.Vector{
			X: float64(ri.EyeLeft.NoseToPupilInMeters),
			Z: float64(center - ri.EyeLeft.ReliefInMeters),
		}
	case EyeRight:
		return r3.Vector{
			X: float64(-ri.EyeRight.NoseToPupilInMeters),
			Z: float64(center - ri.EyeRight.ReliefInMeters),
		}
	}
	return r3.Vector{}
}

// ComputeStereoEyeParams assembles the parameters for one eye. zoom > 1
// narrows the rendered projection; the distortion mapping keeps using the
// unzoomed fov so the picture grows on screen.
func ComputeStereoEyeParams(ri hmd.RenderInfo, eye StereoEye, desc DistortionRenderDesc, fov FovPort,
	rtSize mathutil.Sizei, viewport mathutil.Recti, rightHanded bool, zNear, zFar, zoom float32) StereoEyeParams {
	if zoom <= 0 {
		zoom = 1
	}
	zoomed := fov.Scale(1 / zoom)
	ndc := NDCScaleAndOffsetFromFov(fov)

	return StereoEyeParams{
		Eye:                eye,
		ViewAdjust:         mathutil.Translation(EyeVirtualCameraOffset(ri, eye)),
		Distortion:         desc,
		DistortionViewport: FramebufferViewport(eye, ri),
		RenderedViewport:   viewport,
		Fov:                fov,
		RenderedProjection: CreateProjection(rightHanded, zoomed, zNear, zFar),
		EyeToSourceNDC:     ndc,
		EyeToSourceUV:      UVScaleAndOffsetFromNDC(ndc, viewport, rtSize),
	}
}

// DistortionAndFov computes the distortion description and the FOV an eye
// should render with. fovOverride, when non-nil, replaces the recommended
// FOV.
func DistortionAndFov(ri hmd.RenderInfo, eye StereoEye, lensOverride *lens.Config, fovOverride *FovPort) (DistortionRenderDesc, FovPort, error) {
	desc, err := ComputeDistortionRenderDesc(eye, ri, lensOverride)
	if err != nil {
		return DistortionRenderDesc{}, FovPort{}, err
	}
	if fovOverride != nil {
		return desc, *fovOverride, nil
	}
	return desc, FovFromHmdInfo(eye, desc, ri, DefaultExtraEyeRotation), nil
}

// RecommendedFov is the FOV an eye should render with. symmetric widens
// it so opposite sides match, for renderers that cannot do off-centre
// projections.
func RecommendedFov(ri hmd.RenderInfo, eye StereoEye, extraRotation float32, symmetric bool) (FovPort, error) {
	desc, err := ComputeDistortionRenderDesc(eye, ri, nil)
	if err != nil {
		return FovPort{}, err
	}
	fov := FovFromHmdInfo(eye, desc, ri, extraRotation)
	if symmetric {
		fov = fov.Symmetric()
	}
	return fov, nil
}

// RecommendedTextureSize is the render target size that fits both eyes at
// pixelDensity rendered pixels per display pixel. fovs holds the left and
// right eye FOV.
func RecommendedTextureSize(ri hmd.RenderInfo, fovs [2]FovPort, pixelDensity float32, shared bool) (mathutil.Sizei, error) {
	var size mathutil.Sizei
	for i, eye := range []StereoEye{EyeLeft, EyeRight} {
		desc, err := ComputeDistortionRenderDesc(eye, ri, nil)
		if err != nil {
			return mathutil.Sizei{}, err
		}
		s := IdealPixelSize(desc, fovs[i], pixelDensity)
		size.W = max(size.W, s.W)
		size.H = max(size.H, s.H)
	}
	if shared {
		size.W *= 2
	}
	return size, nil
}

// EyeSetup gathers the choices a renderer makes once for both eyes.
type EyeSetup struct {
	RenderTargetSize   mathutil.Sizei
	SharedRenderTarget bool
	RightHanded        bool
	ZNear, ZFar        float32
	// Zoom narrows the rendered FOV; 0 means 1.
	Zoom float32

	// Optional overrides. Nil fields use the recommended values.
	Lens          *lens.Config
	Fov           *FovPort
	RequestedSize *mathutil.Sizei
}

// DefaultEyeSetup renders both eyes side by side into one target, with
// the usual near and far planes.
func DefaultEyeSetup(rtSize mathutil.Sizei) EyeSetup {
	return EyeSetup{
		RenderTargetSize:   rtSize,
		SharedRenderTarget: true,
		RightHanded:        true,
		ZNear:              0.01,
		ZFar:               10000,
		Zoom:               1,
	}
}

// Params resolves the full parameter set for eye.
func (s EyeSetup) Params(ri hmd.RenderInfo, eye StereoEye) (StereoEyeParams, error) {
	desc, fov, err := DistortionAndFov(ri, eye, s.Lens, s.Fov)
	if err != nil {
		return StereoEyeParams{}, err
	}

	requested := IdealPixelSize(desc, fov, 1)
	if s.RequestedSize != nil {
		requested = *s.RequestedSize
	}
	vp := ComputeViewport(eye, s.RenderTargetSize, s.SharedRenderTarget, requested)

	return ComputeStereoEyeParams(ri, eye, desc, fov, s.RenderTargetSize, vp,
		s.RightHanded, s.ZNear, s.ZFar, s.Zoom), nil
}
