package curvefit

import "github.com/chewxy/math32"

// NumSegments is the knot count of the distortion spline.
const NumSegments = 11

// EvalCatmullRom10Spline evaluates the distortion spline at v, where knot k
// sits at v == k. Knot 0 is fixed at 1.0 and K[0] holds the slope leaving it.
// Past the last knot the curve continues as a straight line.
func EvalCatmullRom10Spline(K [NumSegments]float32, v float32) float32 {
	scaledFloor := math32.Floor(v)
	if scaledFloor < 0 {
		scaledFloor = 0
	}
	if scaledFloor > NumSegments-1 {
		scaledFloor = NumSegments - 1
	}
	t := v - scaledFloor
	k := int(scaledFloor)

	var p0, p1, m0, m1 float32
	switch k {
	case 0:
		p0 = 1.0
		m0 = K[1] - K[0]
		p1 = K[1]
		m1 = 0.5 * (K[2] - K[0])
	case NumSegments - 2:
		p0 = K[NumSegments-2]
		m0 = 0.5 * (K[NumSegments-1] - K[NumSegments-2])
		p1 = K[NumSegments-1]
		m1 = K[NumSegments-1] - K[NumSegments-2]
	case NumSegments - 1:
		p0 = K[NumSegments-1]
		m0 = K[NumSegments-1] - K[NumSegments-2]
		p1 = p0 + m0
		m1 = m0
	default:
		p0 = K[k]
		m0 = 0.5 * (K[k+1] - K[k-1])
		p1 = K[k+1]
		m1 = 0.5 * (K[k+2] - K[k])
	}

	// Hermite basis.
	omt := 1.0 - t
	return (p0*(1.0+2.0*t)+m0*t)*omt*omt + (p1*(1.0+2.0*omt)-m1*omt)*t*t
}
