package stereo

import (
	"github.com/go-gl/mathgl/mgl32"

	"ovr-stereo/internal/mathutil"
)

// CreateProjection builds an off-centre perspective projection for fov,
// row-major. Right-handed projections look down -Z.
func CreateProjection(rightHanded bool, fov FovPort, zNear, zFar float32) mathutil.Mat4 {
	so := NDCScaleAndOffsetFromFov(fov)

	h := float32(1)
	if rightHanded {
		h = -1
	}

	var m mathutil.Mat4
	m.Set(0, 0, so.Scale.X())
	m.Set(0, 2, h*so.Offset.X())

	// World Y is up while NDC Y is down.
	m.Set(1, 1, so.Scale.Y())
	m.Set(1, 2, h*-so.Offset.Y())

	m.Set(2, 2, -h*zFar/(zNear-zFar))
	m.Set(2, 3, (zFar*zNear)/(zNear-zFar))

	m.Set(3, 2, h)
	return m
}

// ProjectionGL is CreateProjection in OpenGL's column-major layout.
func ProjectionGL(rightHanded bool, fov FovPort, zNear, zFar float32) mgl32.Mat4 {
	return CreateProjection(rightHanded, fov, zNear, zFar).GL()
}

// OrthoParams describes a 2D overlay drawn at Distance metres in front of
// the camera, with UnitsX by UnitsY overlay units spanning the half FOV
// TanHalfFovX by TanHalfFovY.
type OrthoParams struct {
	TanHalfFovX, TanHalfFovY float32
	UnitsX, UnitsY           float32
	Distance                 float32
	IPD                      float32
	ZNear, ZFar              float32
}

// OrthoSubProjection derives an orthographic projection for overlay text
// that keeps the parallax of projection. Overlay Y points down.
func OrthoSubProjection(eye StereoEye, projection mathutil.Mat4, p OrthoParams) mathutil.Mat4 {
	offset := p.IPD * 0.5 / p.Distance
	switch eye {
	case EyeCenter:
		offset = 0
	case EyeRight:
		offset = -offset
	}

	scaleX := 2 * p.TanHalfFovX / p.UnitsX
	scaleY := 2 * p.TanHalfFovY / p.UnitsY

	var m mathutil.Mat4
	m.Set(0, 0, projection.At(0, 0)*scaleX)
	m.Set(0, 3, -projection.At(0, 2)+offset*projection.At(0, 0))

	m.Set(1, 1, -projection.At(1, 1)*scaleY)
	m.Set(1, 3, -projection.At(1, 2))

	if d := p.ZNear - p.ZFar; d < 0.001 && d > -0.001 {
		m.Set(2, 3, p.ZFar)
	} else {
		m.Set(2, 2, p.ZFar/d)
		m.Set(2, 3, (p.ZFar*p.ZNear)/d)
	}

	m.Set(3, 3, 1)
	return m
}
