package postprocess

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"
)

// decodeGamma maps an 8-bit channel to 16-bit linear light.
var decodeGamma [256]uint16

func init() {
	for i := range decodeGamma {
		decodeGamma[i] = uint16(math.Pow(float64(i)/255, 2.2)*0xffff + 0.5)
	}
}

// Downsample shrinks a supersampled render to width×height. Filtering
// happens in 16-bit premultiplied linear light, so thin bright lines keep
// their energy and uncovered (transparent) pixels do not bleed black into
// the lens edge.
func Downsample(img *image.NRGBA, width, height int) *image.NRGBA {
	b := img.Bounds()
	if b.Dx() == width && b.Dy() == height {
		return img
	}

	lin := image.NewRGBA64(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			si := img.PixOffset(b.Min.X+x, b.Min.Y+y)
			a := uint32(img.Pix[si+3]) * 0x101
			premul := func(ch int) uint16 {
				return uint16(uint32(decodeGamma[img.Pix[si+ch]]) * a / 0xffff)
			}
			lin.SetRGBA64(x, y, color.RGBA64{R: premul(0), G: premul(1), B: premul(2), A: uint16(a)})
		}
	}

	dst := image.NewRGBA64(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), lin, lin.Bounds(), draw.Src, nil)

	out := image.NewNRGBA(dst.Bounds())
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c := dst.RGBA64At(x, y)
			di := out.PixOffset(x, y)
			if c.A == 0 {
				continue
			}
			a := float64(c.A)
			out.Pix[di] = encodeGamma(float64(c.R) / a)
			out.Pix[di+1] = encodeGamma(float64(c.G) / a)
			out.Pix[di+2] = encodeGamma(float64(c.B) / a)
			out.Pix[di+3] = uint8(c.A >> 8)
		}
	}
	return out
}

// encodeGamma converts straight linear light in [0,1] to 8-bit sRGB.
func encodeGamma(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(math.Pow(v, 1/2.2)*255 + 0.5)
}
