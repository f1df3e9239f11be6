package raster

import "image"

// SampleChannel performs bilinear filtering of one channel (0 red, 1 green,
// 2 blue) with UVs clamped to the edge, and returns it in linear space.
// Outside [0,1] it returns 0 so the render target's border stays black.
// Accesses tex.Pix directly for performance.
func SampleChannel(tex *image.NRGBA, u, v float32, ch int) float32 {
	if u < 0 || u > 1 || v < 0 || v > 1 {
		return 0
	}
	w := tex.Rect.Dx()
	h := tex.Rect.Dy()

	fx := u * float32(w-1)
	fy := v * float32(h-1)
	x0 := int(fx)
	y0 := int(fy)
	x1 := min(x0+1, w-1)
	y1 := min(y0+1, h-1)
	dx := fx - float32(x0)
	dy := fy - float32(y0)

	stride := tex.Stride
	pix := tex.Pix

	// Four texels
	i00 := y0*stride + x0*4 + ch
	i10 := y0*stride + x1*4 + ch
	i01 := y1*stride + x0*4 + ch
	i11 := y1*stride + x1*4 + ch

	w00 := (1 - dx) * (1 - dy)
	w10 := dx * (1 - dy)
	w01 := (1 - dx) * dy
	w11 := dx * dy

	return srgbToLinear[pix[i00]]*w00 + srgbToLinear[pix[i10]]*w10 +
		srgbToLinear[pix[i01]]*w01 + srgbToLinear[pix[i11]]*w11
}
