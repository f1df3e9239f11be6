// Package lens models the radial distortion of one HMD lens: the forward
// scale curve, its inverse and the 36-byte calibration record.
package lens

import (
	"fmt"

	"github.com/chewxy/math32"

	"ovr-stereo/internal/curvefit"
)

// NumCoefficients is the length of K and InvK.
const NumCoefficients = curvefit.NumSegments

// MaxInverseRadius bounds the argument of DistortionInverseExact.
const MaxInverseRadius = 20.0

// Config describes one lens. It is a value type: copy it freely, never
// mutate one shared between goroutines.
type Config struct {
	Eqn Eqn                      `json:"eqn"`
	K   [NumCoefficients]float32 `json:"k"`
	// MaxR is the largest radius (in tan-angle units) the curve was fitted for.
	MaxR float32 `json:"max_r"`

	// MetersPerTanAngleAtCenter converts screen distance to tan-angle at the lens centre.
	MetersPerTanAngleAtCenter float32 `json:"meters_per_tan_angle_at_center"`

	// ChromaticAberration holds red (0,1) and blue (2,3) constant and r² terms.
	ChromaticAberration [4]float32 `json:"chromatic_aberration"`

	InvK    [NumCoefficients]float32 `json:"inv_k"`
	MaxInvR float32                  `json:"max_inv_r"`

	// Override, when set, replaces the CatmullRom10 spline.
	Override Override `json:"-"`
}

// Identity returns a config that leaves every radius unchanged.
func Identity() Config {
	var c Config
	c.Reset()
	return c
}

// Reset sets c to the identity distortion.
func (c *Config) Reset() {
	*c = Config{
		Eqn:                       RecipPoly4,
		MaxR:                      1,
		MaxInvR:                   1,
		MetersPerTanAngleAtCenter: 0.05,
	}
	c.K[0] = 1
	c.InvK[0] = 1
}

// Validate rejects unknown equation kinds.
func (c Config) Validate() error {
	if !c.Eqn.Valid() {
		return fmt.Errorf("lens: validate: %w", ErrUnsupportedDistortionKind)
	}
	return nil
}

// ScaleAtRadiusSquared returns the factor applied to a tan-angle radius
// whose square is rsq. Callers must run Validate first: an unknown Eqn
// is not an error here and silently scales by 1.
func (c Config) ScaleAtRadiusSquared(rsq float32) float32 {
	switch c.Eqn {
	case Poly4:
		return c.K[0] + rsq*(c.K[1]+rsq*(c.K[2]+rsq*c.K[3]))
	case RecipPoly4:
		return 1.0 / (c.K[0] + rsq*(c.K[1]+rsq*(c.K[2]+rsq*c.K[3])))
	case CatmullRom10:
		if c.Override != nil {
			return c.Override.Scale(rsq)
		}
		scaled := float32(NumCoefficients-1) * rsq / (c.MaxR * c.MaxR)
		return curvefit.EvalCatmullRom10Spline(c.K, scaled)
	}
	return 1.0
}

// ScaleAtRadiusSquaredChroma returns the red, green and blue scales.
func (c Config) ScaleAtRadiusSquaredChroma(rsq float32) [3]float32 {
	scale := c.ScaleAtRadiusSquared(rsq)
	return [3]float32{
		scale * (1.0 + c.ChromaticAberration[0] + rsq*c.ChromaticAberration[1]),
		scale,
		scale * (1.0 + c.ChromaticAberration[2] + rsq*c.ChromaticAberration[3]),
	}
}

// DistortionForward maps an undistorted radius to its distorted radius.
func (c Config) DistortionForward(r float32) float32 {
	return r * c.ScaleAtRadiusSquared(r*r)
}

// DistortionInverseExact searches for the radius that DistortionForward
// maps to r. r must lie in [0, MaxInverseRadius].
func (c Config) DistortionInverseExact(r float32) (float32, error) {
	if !(r <= MaxInverseRadius) {
		return 0, fmt.Errorf("lens: inverse of radius %v (max %v): %w", r, MaxInverseRadius, ErrInvalidArgument)
	}
	return curvefit.Invert(c.DistortionForward, r), nil
}

// DistortionInverseApprox evaluates the precomputed inverse coefficients.
// It needs BuildInverseApproximation to have run.
func (c Config) DistortionInverseApprox(r float32) (float32, error) {
	rsq := r * r
	switch c.Eqn {
	case RecipPoly4:
		return r / (c.InvK[0] + rsq*(c.InvK[1]+rsq*(c.InvK[2]+rsq*c.InvK[3]))), nil
	case CatmullRom10:
		if c.Override != nil {
			return r * c.Override.InverseScale(rsq), nil
		}
		scaled := float32(NumCoefficients-1) * rsq / (c.MaxInvR * c.MaxInvR)
		return r * curvefit.EvalCatmullRom10Spline(c.InvK, scaled), nil
	}
	return 0, fmt.Errorf("lens: inverse approximation for %v: %w", c.Eqn, ErrUnsupportedDistortionKind)
}

// BuildInverseApproximation fills InvK from the exact inverse sampled
// across [0, MaxInvR].
func (c *Config) BuildInverseApproximation() error {
	maxR := c.MaxInvR

	switch c.Eqn {
	case RecipPoly4:
		// Sample radii found by trial on production lenses.
		sampleR := [4]float32{0, maxR * 0.4, maxR * 0.8, maxR * 1.5}
		var sampleRSq, sampleFit [4]float32
		for i, r := range sampleR {
			inv, err := c.DistortionInverseExact(r)
			if err != nil {
				return err
			}
			sampleRSq[i] = r * r
			sampleFit[i] = r / inv
		}
		sampleFit[0] = 1.0

		coeffs, ok := curvefit.FitCubicPolynomial(sampleRSq, sampleFit)
		if !ok {
			return fmt.Errorf("lens: inverse fit with MaxInvR %v: %w", maxR, ErrDegenerateFit)
		}
		c.InvK = [NumCoefficients]float32{}
		copy(c.InvK[:4], coeffs[:])

	case CatmullRom10:
		c.InvK[0] = 1.0
		for i := 1; i < NumCoefficients; i++ {
			rsq := float32(i) * maxR * maxR / float32(NumCoefficients-1)
			r := math32.Sqrt(rsq)
			inv, err := c.DistortionInverseExact(r)
			if err != nil {
				return err
			}
			c.InvK[i] = inv / r
		}

	default:
		return fmt.Errorf("lens: inverse approximation for %v: %w", c.Eqn, ErrUnsupportedDistortionKind)
	}
	return nil
}
