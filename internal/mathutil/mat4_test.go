package mathutil

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/golang/geo/r3"
)

func TestMat4GLRoundTrip(t *testing.T) {
	var m Mat4
	for i := range m {
		m[i] = float32(i + 1)
	}
	g := m.GL()
	// column-major: element (row 0, col 1) lives at index 4.
	if g[4] != m.At(0, 1) {
		t.Errorf("GL()[4] = %v, want %v", g[4], m.At(0, 1))
	}
	if g.At(2, 3) != m.At(2, 3) {
		t.Errorf("GL().At(2,3) = %v, want %v", g.At(2, 3), m.At(2, 3))
	}
	if back := Mat4FromGL(g); back != m {
		t.Errorf("Mat4FromGL(GL()) = %v, want %v", back, m)
	}
	if tr := m.Transpose(); tr.At(1, 0) != m.At(0, 1) || tr.At(3, 2) != m.At(2, 3) {
		t.Errorf("Transpose = %v", tr)
	}
}

func TestTranslation(t *testing.T) {
	m := Translation(r3.Vector{X: 0.032, Y: -1, Z: 2.5})
	if m.At(0, 3) != 0.032 || m.At(1, 3) != -1 || m.At(2, 3) != 2.5 || m.At(3, 3) != 1 {
		t.Errorf("Translation = %v, want the offset in the last column", m)
	}

	p := m.GL().Mul4x1(mgl32.Vec4{1, 1, 1, 1})
	if !p.ApproxEqual(mgl32.Vec4{1.032, 0, 3.5, 1}) {
		t.Errorf("translated point = %v", p)
	}
}

func TestMat4Mul(t *testing.T) {
	shift := Translation(r3.Vector{X: 1, Y: 2, Z: 3})
	scale := Mat4FromGL(mgl32.Scale3D(2, 2, 2))
	ident := Mat4FromGL(mgl32.Ident4())

	tests := []struct {
		name string
		a, b Mat4
		want Mat4
	}{
		{"identity left", ident, shift, shift},
		{"identity right", shift, ident, shift},
		{"inverse shift", shift, Translation(r3.Vector{X: -1, Y: -2, Z: -3}), ident},
		// Scale after shift scales the offset too.
		{"scale then shift", scale, shift, Mat4{
			2, 0, 0, 2,
			0, 2, 0, 4,
			0, 0, 2, 6,
			0, 0, 0, 1,
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Mat4Mul(tt.a, tt.b)
			if got != tt.want {
				t.Errorf("Mat4Mul = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRectIntersects(t *testing.T) {
	left := Recti{X: 0, Y: 0, W: 640, H: 800}
	right := Recti{X: 640, Y: 0, W: 640, H: 800}
	if left.Intersects(right) {
		t.Error("adjacent halves should not intersect")
	}
	if !left.Contains(639, 799) || left.Contains(640, 0) {
		t.Error("Contains boundary mismatch")
	}
}

func TestAngleAndLength(t *testing.T) {
	if got := Deg2Rad(180); math32.Abs(got-math32.Pi) > 1e-6 {
		t.Errorf("Deg2Rad(180) = %v", got)
	}
	if got := Rad2Deg(math32.Pi / 2); math32.Abs(got-90) > 1e-5 {
		t.Errorf("Rad2Deg(pi/2) = %v", got)
	}
	if got := (Vec2{3, 4}).Len(); got != 5 {
		t.Errorf("Len = %v, want 5", got)
	}
}
