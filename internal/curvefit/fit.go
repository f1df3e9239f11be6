// Package curvefit holds the numeric kernels behind lens distortion: an
// exact cubic fit through four points, the 11-knot Catmull-Rom spline and a
// local-search inverse for monotonic curves.
package curvefit

// FitCubicPolynomial returns the coefficients c of
// y = c[0] + c[1]*x + c[2]*x² + c[3]*x³ passing through the four points.
// ok is false when two x values coincide; c is then meaningless.
func FitCubicPolynomial(x, y [4]float32) (c [4]float32, ok bool) {
	d0 := (x[0] - x[1]) * (x[0] - x[2]) * (x[0] - x[3])
	d1 := (x[1] - x[2]) * (x[1] - x[3]) * (x[1] - x[0])
	d2 := (x[2] - x[3]) * (x[2] - x[0]) * (x[2] - x[1])
	d3 := (x[3] - x[0]) * (x[3] - x[1]) * (x[3] - x[2])
	if d0 == 0 || d1 == 0 || d2 == 0 || d3 == 0 {
		return c, false
	}

	f0 := y[0] / d0
	f1 := y[1] / d1
	f2 := y[2] / d2
	f3 := y[3] / d3

	c[0] = -f0*x[1]*x[2]*x[3] -
		f1*x[0]*x[2]*x[3] -
		f2*x[0]*x[1]*x[3] -
		f3*x[0]*x[1]*x[2]
	c[1] = f0*(x[1]*x[2]+x[2]*x[3]+x[3]*x[1]) +
		f1*(x[0]*x[2]+x[2]*x[3]+x[3]*x[0]) +
		f2*(x[0]*x[1]+x[1]*x[3]+x[3]*x[0]) +
		f3*(x[0]*x[1]+x[1]*x[2]+x[2]*x[0])
	c[2] = -f0*(x[1]+x[2]+x[3]) -
		f1*(x[0]+x[2]+x[3]) -
		f2*(x[0]+x[1]+x[3]) -
		f3*(x[0]+x[1]+x[2])
	c[3] = f0 + f1 + f2 + f3
	return c, true
}

// EvalCubic evaluates the polynomial produced by FitCubicPolynomial.
func EvalCubic(c [4]float32, x float32) float32 {
	return c[0] + x*(c[1]+x*(c[2]+x*c[3]))
}
