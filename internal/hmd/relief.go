package hmd

import (
	"fmt"

	"ovr-stereo/internal/curvefit"
	"ovr-stereo/internal/lens"
	"ovr-stereo/internal/logging"
)

// GenerateLensConfigFromEyeRelief builds the distortion for an eye at the
// given relief by blending the two calibrated curves of ri.EyeCups that
// bracket it. eqn selects the form of the result.
func GenerateLensConfigFromEyeRelief(relief float32, ri RenderInfo, eqn lens.Eqn) (lens.Config, error) {
	return generateFromTable(relief, descriptorsFor(ri.EyeCups), eqn)
}

func generateFromTable(relief float32, table descriptorTable, eqn lens.Eqn) (lens.Config, error) {
	if err := table.validate(); err != nil {
		return lens.Config{}, err
	}
	lower, upper, lerp := table.bracket(relief)
	inv := 1 - lerp
	logging.Logger().Debug("lens relief bracket",
		"relief", relief, "lower", lower.EyeRelief, "upper", upper.EyeRelief, "lerp", lerp)

	lower.Config.MaxR = lower.MaxRadius
	upper.Config.MaxR = upper.MaxRadius

	result := lens.Identity()
	maxValidRadius := inv*lower.MaxRadius + lerp*upper.MaxRadius
	result.MaxR = maxValidRadius

	switch eqn {
	case lens.RecipPoly4:
		var fitX, fitY [4]float32
		fitX[0], fitY[0] = 0, 1
		for i := 1; i < 4; i++ {
			radius := inv*lower.SampleRadius[i-1] + lerp*upper.SampleRadius[i-1]
			rsq := radius * radius
			yLower := lower.Config.ScaleAtRadiusSquared(rsq)
			yUpper := upper.Config.ScaleAtRadiusSquared(rsq)
			fitX[i] = rsq
			fitY[i] = 1 / (inv*yLower + lerp*yUpper)
		}
		k, ok := curvefit.FitCubicPolynomial(fitX, fitY)
		if !ok {
			return lens.Config{}, fmt.Errorf("hmd: refit %v at relief %v: %w", eqn, relief, lens.ErrDegenerateFit)
		}
		result.Eqn = lens.RecipPoly4
		copy(result.K[:4], k[:])

	case lens.CatmullRom10:
		result.Eqn = lens.CatmullRom10
		if lerp == 0 && lower.Config.Eqn == lens.CatmullRom10 && lower.Config.Override == nil {
			// A calibrated relief keeps its knots; resampling the spline
			// at its own knots drifts by an ulp or two.
			result.K = lower.Config.K
			break
		}
		result.K[0] = inv*lower.Config.K[0] + lerp*upper.Config.K[0]
		for i := 1; i < lens.NumCoefficients; i++ {
			rsq := (float32(i) / float32(lens.NumCoefficients-1)) * maxValidRadius * maxValidRadius
			yLower := lower.Config.ScaleAtRadiusSquared(rsq)
			yUpper := upper.Config.ScaleAtRadiusSquared(rsq)
			result.K[i] = inv*yLower + lerp*yUpper
		}

	default:
		return lens.Config{}, fmt.Errorf("hmd: generate %v lens: %w", eqn, lens.ErrUnsupportedDistortionKind)
	}

	result.MaxInvR = result.DistortionForward(maxValidRadius)
	if err := result.BuildInverseApproximation(); err != nil {
		return lens.Config{}, fmt.Errorf("hmd: relief %v: %w", relief, err)
	}

	for i := range result.ChromaticAberration {
		result.ChromaticAberration[i] = inv*lower.Config.ChromaticAberration[i] + lerp*upper.Config.ChromaticAberration[i]
	}
	result.MetersPerTanAngleAtCenter = lower.Config.MetersPerTanAngleAtCenter*inv + upper.Config.MetersPerTanAngleAtCenter*lerp
	return result, nil
}
