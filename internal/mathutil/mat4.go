package mathutil

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/golang/geo/r3"
)

// Mat4 is a 4×4 matrix stored row-major: element (r, c) is m[r*4+c].
// Projections built by the stereo package use this layout; the arithmetic
// is done by mgl32 on the column-major form.
type Mat4 [16]float32

// At returns element (row, col).
func (m Mat4) At(row, col int) float32 {
	return m[row*4+col]
}

// Set assigns element (row, col).
func (m *Mat4) Set(row, col int, v float32) {
	m[row*4+col] = v
}

// Mat4Mul returns a × b.
func Mat4Mul(a, b Mat4) Mat4 {
	return Mat4FromGL(a.GL().Mul4(b.GL()))
}

// Translation builds an affine translation matrix.
func Translation(t r3.Vector) Mat4 {
	return Mat4FromGL(mgl32.Translate3D(float32(t.X), float32(t.Y), float32(t.Z)))
}

// Transpose swaps rows and columns.
func (m Mat4) Transpose() Mat4 {
	return Mat4(mgl32.Mat4(m).Transpose())
}

// GL returns the matrix in OpenGL's column-major layout.
func (m Mat4) GL() mgl32.Mat4 {
	return mgl32.Mat4(m).Transpose()
}

// Mat4FromGL converts a column-major GL matrix back to row-major.
func Mat4FromGL(g mgl32.Mat4) Mat4 {
	return Mat4(g.Transpose())
}
