package postprocess

import "image"

// FlipHorizontal mirrors an image left-to-right.
func FlipHorizontal(img *image.NRGBA) *image.NRGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	out := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		srcOff := y * img.Stride
		dstOff := y * out.Stride
		for x := 0; x < w; x++ {
			mx := w - 1 - x
			si := srcOff + mx*4
			di := dstOff + x*4
			copy(out.Pix[di:di+4], img.Pix[si:si+4])
		}
	}
	return out
}

// SymmetryError compares the left half of a side-by-side frame with the
// mirrored right half and returns the mean absolute colour difference in
// [0,1]. A symmetric headset and profile with a symmetric source image
// scores near 0.
func SymmetryError(img *image.NRGBA) float64 {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	half := w / 2
	if half == 0 || h == 0 {
		return 0
	}

	var sum float64
	for y := 0; y < h; y++ {
		off := y * img.Stride
		for x := 0; x < half; x++ {
			li := off + x*4
			ri := off + (w-1-x)*4
			for c := 0; c < 3; c++ {
				d := int(img.Pix[li+c]) - int(img.Pix[ri+c])
				if d < 0 {
					d = -d
				}
				sum += float64(d)
			}
		}
	}
	return sum / (255.0 * 3 * float64(half*h))
}
