package hmd

import (
	"fmt"

	"github.com/chewxy/math32"

	"ovr-stereo/internal/lens"
)

// descriptor is one lens curve measured at a known eye relief.
type descriptor struct {
	EyeRelief float32
	// SampleRadius are the radii the RecipPoly4 refit samples at; zero for
	// spline tables. A fourth sample at radius 0 is implicit.
	SampleRadius [3]float32
	// MaxRadius is how far out the curve was measured.
	MaxRadius float32
	Config    lens.Config
}

// descriptorTable is a set of descriptors in increasing relief order plus
// the one used when no relief is known.
type descriptorTable struct {
	Descriptors []descriptor
	Default     int
}

func splineDescriptor(relief, mpta float32, k [lens.NumCoefficients]float32, chroma [4]float32) descriptor {
	cfg := lens.Identity()
	cfg.Eqn = lens.CatmullRom10
	cfg.K = k
	cfg.MetersPerTanAngleAtCenter = mpta
	cfg.ChromaticAberration = chroma
	return descriptor{EyeRelief: relief, MaxRadius: 1, Config: cfg}
}

var dk1Chroma = [4]float32{-0.006, 0, 0.014, 0}

// dk1Descriptors are the DK1 cups tuned at minimum, middle and maximum dial.
func dk1Descriptors() descriptorTable {
	const mid = float32(0.012760465)
	lo := splineDescriptor(mid-0.005, 0.0425,
		[lens.NumCoefficients]float32{1.0000, 1.06505, 1.14725, 1.2705, 1.48, 1.87, 2.534, 3.6, 5.1, 7.4, 11.0},
		dk1Chroma)
	// Extended to r² = 1.8.
	lo.MaxRadius = math32.Sqrt(1.8)
	return descriptorTable{
		Descriptors: []descriptor{
			lo,
			splineDescriptor(mid, 0.0425,
				[lens.NumCoefficients]float32{1.0, 1.032407264, 1.07160462, 1.11998388, 1.1808606, 1.2590494, 1.361915, 1.5014339, 1.6986004, 1.9940577, 2.4783147},
				dk1Chroma),
			splineDescriptor(mid+0.005, 0.0425,
				[lens.NumCoefficients]float32{1.0102, 1.0371, 1.0831, 1.1353, 1.2, 1.2851, 1.3979, 1.56, 1.8, 2.25, 3.0},
				dk1Chroma),
		},
		Default: 0,
	}
}

func dkhd2Descriptors() descriptorTable {
	k := [lens.NumCoefficients]float32{1.0, 1.0425, 1.0826, 1.130, 1.185, 1.250, 1.338, 1.455, 1.620, 1.840, 2.200}
	return descriptorTable{
		Descriptors: []descriptor{
			splineDescriptor(0.010, 0.0425, k, dk1Chroma),
			splineDescriptor(0.020, 0.0425, k, dk1Chroma),
		},
		Default: 0,
	}
}

// dk2Descriptors cover the Crystal Cove and DK2 lens. The curve is shared;
// only chromatic aberration differs with relief.
func dk2Descriptors() descriptorTable {
	k := [lens.NumCoefficients]float32{1.003, 1.02, 1.042, 1.066, 1.094, 1.126, 1.162, 1.203, 1.25, 1.31, 1.38}
	return descriptorTable{
		Descriptors: []descriptor{
			splineDescriptor(0.008, 0.036, k, [4]float32{-0.0112, -0.015, 0.0187, 0.015}),
			splineDescriptor(0.018, 0.036, k, [4]float32{-0.015, -0.02, 0.025, 0.02}),
		},
		Default: 1,
	}
}

// fallbackDescriptors are the DK1 black-lens numbers, used for any lens
// without its own calibration so rendering still gets something sane.
func fallbackDescriptors() descriptorTable {
	cfg := lens.Identity()
	cfg.Eqn = lens.RecipPoly4
	cfg.MetersPerTanAngleAtCenter = 0.043875
	cfg.K[0], cfg.K[1], cfg.K[2], cfg.K[3] = 1.0, -0.3999, 0.2408, -0.4589
	d := descriptor{
		EyeRelief:    0.005,
		SampleRadius: [3]float32{0.2, 0.4, 0.6},
		MaxRadius:    1,
		Config:       cfg,
	}
	hi := d
	hi.EyeRelief = 0.010
	return descriptorTable{Descriptors: []descriptor{d, hi}, Default: 0}
}

// descriptorsFor picks the calibration table for a cup.
func descriptorsFor(cup EyeCup) descriptorTable {
	switch {
	case cup.isDK1():
		return dk1Descriptors()
	case cup == EyeCupDKHD2A:
		return dkhd2Descriptors()
	case cup == EyeCupPinkA || cup == EyeCupDK2A:
		return dk2Descriptors()
	}
	return fallbackDescriptors()
}

// validate checks the relief ordering the bracketing search relies on.
func (t descriptorTable) validate() error {
	if len(t.Descriptors) == 0 || t.Default < 0 || t.Default >= len(t.Descriptors) {
		return fmt.Errorf("hmd: descriptor table with %d entries, default %d: %w", len(t.Descriptors), t.Default, ErrDescriptorOrder)
	}
	for i := 0; i+1 < len(t.Descriptors); i++ {
		if !(t.Descriptors[i].EyeRelief < t.Descriptors[i+1].EyeRelief) {
			return fmt.Errorf("hmd: descriptor %d relief %v not below %v: %w",
				i, t.Descriptors[i].EyeRelief, t.Descriptors[i+1].EyeRelief, ErrDescriptorOrder)
		}
	}
	return nil
}

// bracket returns the two descriptors around relief and the blend factor
// between them. Zero relief selects the default; out-of-range relief
// clamps to the nearest end.
func (t descriptorTable) bracket(relief float32) (lower, upper descriptor, lerp float32) {
	ds := t.Descriptors
	if relief == 0 {
		return ds[t.Default], ds[t.Default], 0
	}
	for i := 0; i+1 < len(ds); i++ {
		if ds[i].EyeRelief <= relief && ds[i+1].EyeRelief > relief {
			lerp = (relief - ds[i].EyeRelief) / (ds[i+1].EyeRelief - ds[i].EyeRelief)
			return ds[i], ds[i+1], lerp
		}
	}
	if ds[0].EyeRelief > relief {
		return ds[0], ds[0], 0
	}
	last := ds[len(ds)-1]
	return last, last, 0
}
