package mathutil

import "github.com/chewxy/math32"

// Vec2 is a 2-component float32 vector (value type). Lens math runs in
// float32 so CPU results match the shader side.
type Vec2 [2]float32

func (a Vec2) Add(b Vec2) Vec2 {
	return Vec2{a[0] + b[0], a[1] + b[1]}
}

func (a Vec2) Sub(b Vec2) Vec2 {
	return Vec2{a[0] - b[0], a[1] - b[1]}
}

func (v Vec2) Scale(s float32) Vec2 {
	return Vec2{v[0] * s, v[1] * s}
}

// Mul is the entrywise product.
func (a Vec2) Mul(b Vec2) Vec2 {
	return Vec2{a[0] * b[0], a[1] * b[1]}
}

// Div is the entrywise quotient.
func (a Vec2) Div(b Vec2) Vec2 {
	return Vec2{a[0] / b[0], a[1] / b[1]}
}

func (v Vec2) LenSq() float32 {
	return v[0]*v[0] + v[1]*v[1]
}

func (v Vec2) Len() float32 {
	return math32.Sqrt(v.LenSq())
}

func (v Vec2) X() float32 { return v[0] }
func (v Vec2) Y() float32 { return v[1] }
