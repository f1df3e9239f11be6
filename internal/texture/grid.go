package texture

import "image"

// Grid returns a size×size test card: a light checkerboard crossed by
// dark lines every size/16 pixels, with red and blue marks on the axes.
// Straight lines make lens distortion and colour fringing easy to see.
func Grid(size int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	cell := max(size/16, 1)
	mid := size / 2
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			v := uint8(220)
			if (x/cell+y/cell)%2 == 1 {
				v = 180
			}
			r, g, b := v, v, v
			switch {
			case x == mid || y == mid:
				r, g, b = 220, 30, 30
			case x%cell == 0 || y%cell == 0:
				r, g, b = 20, 20, 20
			case x == mid+cell/2 || y == mid+cell/2:
				r, g, b = 30, 30, 220
			}
			i := img.PixOffset(x, y)
			img.Pix[i] = r
			img.Pix[i+1] = g
			img.Pix[i+2] = b
			img.Pix[i+3] = 255
		}
	}
	return img
}
