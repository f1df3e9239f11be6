package curvefit

import (
	"testing"

	"github.com/chewxy/math32"
)

func approx(a, b, tol float32) bool {
	return math32.Abs(a-b) <= tol
}

func TestFitCubicPolynomial(t *testing.T) {
	tests := []struct {
		name string
		x, y [4]float32
	}{
		{"inverse lens samples", [4]float32{0, 0.16, 0.64, 2.25}, [4]float32{1, 0.93, 0.81, 0.62}},
		{"negative x", [4]float32{-2, -0.5, 1, 3}, [4]float32{4, 0.25, -1, 9}},
		{"exact cubic", [4]float32{0, 1, 2, 3}, [4]float32{1, 3, 13, 37}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, ok := FitCubicPolynomial(tt.x, tt.y)
			if !ok {
				t.Fatal("FitCubicPolynomial returned false for distinct x")
			}
			for i := range tt.x {
				if got := EvalCubic(c, tt.x[i]); !approx(got, tt.y[i], 1e-4) {
					t.Errorf("cubic(%v) = %v, want %v", tt.x[i], got, tt.y[i])
				}
			}
		})
	}
}

func TestFitCubicPolynomialDuplicateX(t *testing.T) {
	tests := []struct {
		name string
		x    [4]float32
	}{
		{"first two", [4]float32{1, 1, 2, 3}},
		{"first and last", [4]float32{0.5, 1, 2, 0.5}},
		{"all zero", [4]float32{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := FitCubicPolynomial(tt.x, [4]float32{1, 2, 3, 4}); ok {
				t.Errorf("FitCubicPolynomial(%v) = true, want false", tt.x)
			}
		})
	}
}

var dk2Knots = [NumSegments]float32{1.003, 1.02, 1.042, 1.066, 1.094, 1.126, 1.162, 1.203, 1.25, 1.31, 1.38}

func TestEvalCatmullRom10SplineKnots(t *testing.T) {
	if got := EvalCatmullRom10Spline(dk2Knots, 0); got != 1.0 {
		t.Errorf("knot 0 = %v, want 1.0", got)
	}
	for k := 1; k < NumSegments; k++ {
		if got := EvalCatmullRom10Spline(dk2Knots, float32(k)); !approx(got, dk2Knots[k], 1e-6) {
			t.Errorf("knot %d = %v, want %v", k, got, dk2Knots[k])
		}
	}
}

func TestEvalCatmullRom10SplineExtrapolation(t *testing.T) {
	slope := dk2Knots[10] - dk2Knots[9]
	for _, v := range []float32{10.5, 12, 15} {
		want := dk2Knots[10] + slope*(v-10)
		if got := EvalCatmullRom10Spline(dk2Knots, v); !approx(got, want, 1e-4) {
			t.Errorf("spline(%v) = %v, want linear %v", v, got, want)
		}
	}
}

func TestEvalCatmullRom10SplineDeterministic(t *testing.T) {
	for v := float32(0); v < 11; v += 0.37 {
		a := EvalCatmullRom10Spline(dk2Knots, v)
		b := EvalCatmullRom10Spline(dk2Knots, v)
		if a != b {
			t.Fatalf("spline(%v) not reproducible: %v vs %v", v, a, b)
		}
	}
}

func TestInvert(t *testing.T) {
	tests := []struct {
		name string
		f    func(float32) float32
		r    float32
	}{
		{"linear", func(s float32) float32 { return 2 * s }, 1.5},
		{"barrel", func(s float32) float32 { return s * (1 + 0.22*s*s) }, 0.9},
		{"zero", func(s float32) float32 { return s }, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Invert(tt.f, tt.r)
			if got := tt.f(s); !approx(got, tt.r, 1e-3) {
				t.Errorf("f(Invert(%v)) = %v", tt.r, got)
			}
		})
	}
}
