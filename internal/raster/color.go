package raster

import "github.com/chewxy/math32"

// Precomputed sRGB-to-linear lookup table (256 entries).
var srgbToLinear [256]float32

func init() {
	for i := 0; i < 256; i++ {
		srgbToLinear[i] = math32.Pow(float32(i)/255, 2.2)
	}
}

// linearToSRGB encodes a linear value in [0,1] back to an 8-bit channel.
func linearToSRGB(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	return clamp255(math32.Pow(v, 1/2.2) * 255)
}

func clamp255(v float32) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
