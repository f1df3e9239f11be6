package curvefit

import "github.com/chewxy/math32"

// InverseIterations is the fixed step count of Invert.
const InverseIterations = 20

// Invert searches for s with f(s) ≈ r by a shrinking-step local search
// starting at r/4. f must be monotonic around the answer; the result is an
// approximation, not a converged root.
func Invert(f func(float32) float32, r float32) float32 {
	s := r * 0.25
	delta := r * 0.25
	d := math32.Abs(r - f(s))

	for i := 0; i < InverseIterations; i++ {
		up := s + delta
		down := s - delta
		dUp := math32.Abs(r - f(up))
		dDown := math32.Abs(r - f(down))
		switch {
		case dUp < d:
			d = dUp
			s = up
		case dDown < d:
			d = dDown
			s = down
		default:
			delta *= 0.5
		}
	}
	return s
}
