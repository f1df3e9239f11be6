package stereo

import "ovr-stereo/internal/mathutil"

// Flat, fixed-layout forms of the geometry types, laid out as an
// embedding C API expects them.

// CFovPort is FovPort as four consecutive floats: up, down, left, right.
type CFovPort [4]float32

// CRecti is x, y, w, h as int32.
type CRecti [4]int32

// CMatrix4f is a row-major matrix.
type CMatrix4f [16]float32

func (f FovPort) Flat() CFovPort {
	return CFovPort{f.UpTan, f.DownTan, f.LeftTan, f.RightTan}
}

func FovPortFromFlat(c CFovPort) FovPort {
	return FovPort{UpTan: c[0], DownTan: c[1], LeftTan: c[2], RightTan: c[3]}
}

func FlatRecti(r mathutil.Recti) CRecti {
	return CRecti{int32(r.X), int32(r.Y), int32(r.W), int32(r.H)}
}

func RectiFromFlat(c CRecti) mathutil.Recti {
	return mathutil.Recti{X: int(c[0]), Y: int(c[1]), W: int(c[2]), H: int(c[3])}
}

func FlatMatrix(m mathutil.Mat4) CMatrix4f {
	return CMatrix4f(m)
}

func MatrixFromFlat(c CMatrix4f) mathutil.Mat4 {
	return mathutil.Mat4(c)
}
