// Package stereo turns a resolved hmd.RenderInfo into per-eye rendering
// geometry: field of view, viewports, projections, the screen/tan-angle
// transform chain and the distortion mesh.
//
// Every function here is pure and works on values, so callers may use
// them from any number of goroutines.
package stereo

import (
	"fmt"

	"github.com/chewxy/math32"

	"ovr-stereo/internal/mathutil"
)

// StereoEye selects which view a computation is for.
type StereoEye int

const (
	EyeCenter StereoEye = iota
	EyeLeft
	EyeRight
)

func (e StereoEye) String() string {
	switch e {
	case EyeCenter:
		return "center"
	case EyeLeft:
		return "left"
	case EyeRight:
		return "right"
	}
	return fmt.Sprintf("StereoEye(%d)", int(e))
}

// FovPort holds the tangents of the four half-angles of a view frustum.
// All four are positive for a frustum that contains the view axis.
type FovPort struct {
	UpTan    float32 `json:"up_tan"`
	DownTan  float32 `json:"down_tan"`
	LeftTan  float32 `json:"left_tan"`
	RightTan float32 `json:"right_tan"`
}

// UniformFov returns a symmetric FovPort with tan on every side.
func UniformFov(tan float32) FovPort {
	return FovPort{UpTan: tan, DownTan: tan, LeftTan: tan, RightTan: tan}
}

// FovFromRadians builds a symmetric FovPort from full horizontal and
// vertical angles.
func FovFromRadians(horizontal, vertical float32) FovPort {
	h := math32.Tan(horizontal * 0.5)
	v := math32.Tan(vertical * 0.5)
	return FovPort{UpTan: v, DownTan: v, LeftTan: h, RightTan: h}
}

func FovFromDegrees(horizontal, vertical float32) FovPort {
	return FovFromRadians(mathutil.Deg2Rad(horizontal), mathutil.Deg2Rad(vertical))
}

func (f FovPort) VerticalRadians() float32 {
	return math32.Atan(f.UpTan) + math32.Atan(f.DownTan)
}

func (f FovPort) HorizontalRadians() float32 {
	return math32.Atan(f.LeftTan) + math32.Atan(f.RightTan)
}

func (f FovPort) VerticalDegrees() float32 {
	return mathutil.Rad2Deg(f.VerticalRadians())
}

func (f FovPort) HorizontalDegrees() float32 {
	return mathutil.Rad2Deg(f.HorizontalRadians())
}

// MaxSideTan is the largest of the four tangents.
func (f FovPort) MaxSideTan() float32 {
	return max(f.UpTan, f.DownTan, f.LeftTan, f.RightTan)
}

// Min is the per-side minimum of f and o.
func (f FovPort) Min(o FovPort) FovPort {
	return FovPort{
		UpTan:    min(f.UpTan, o.UpTan),
		DownTan:  min(f.DownTan, o.DownTan),
		LeftTan:  min(f.LeftTan, o.LeftTan),
		RightTan: min(f.RightTan, o.RightTan),
	}
}

// Max is the per-side maximum of f and o.
func (f FovPort) Max(o FovPort) FovPort {
	return FovPort{
		UpTan:    max(f.UpTan, o.UpTan),
		DownTan:  max(f.DownTan, o.DownTan),
		LeftTan:  max(f.LeftTan, o.LeftTan),
		RightTan: max(f.RightTan, o.RightTan),
	}
}

// Scale multiplies every tangent by s.
func (f FovPort) Scale(s float32) FovPort {
	return FovPort{UpTan: f.UpTan * s, DownTan: f.DownTan * s, LeftTan: f.LeftTan * s, RightTan: f.RightTan * s}
}

// Symmetric widens f so that opposite sides match.
func (f FovPort) Symmetric() FovPort {
	v := max(f.UpTan, f.DownTan)
	h := max(f.LeftTan, f.RightTan)
	return FovPort{UpTan: v, DownTan: v, LeftTan: h, RightTan: h}
}

// TanAngleToRendertargetNDC maps a tan-angle into the NDC space of a
// render target drawn with fov.
func (f FovPort) TanAngleToRendertargetNDC(tan mathutil.Vec2) mathutil.Vec2 {
	return TanFovToRendertargetNDC(NDCScaleAndOffsetFromFov(f), tan)
}
