package postprocess

import (
	"image"
	"testing"
)

func halves(w, h int, left, right uint8) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := left
			if x >= w/2 {
				v = right
			}
			i := img.PixOffset(x, y)
			img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = v, v, v, 255
		}
	}
	return img
}

func TestFlipHorizontal(t *testing.T) {
	img := halves(8, 2, 255, 0)
	flipped := FlipHorizontal(img)
	if flipped.NRGBAAt(0, 0).R != 0 || flipped.NRGBAAt(7, 1).R != 255 {
		t.Errorf("flip did not swap halves")
	}
	back := FlipHorizontal(flipped)
	for i := range img.Pix {
		if back.Pix[i] != img.Pix[i] {
			t.Fatalf("double flip differs at byte %d", i)
		}
	}
}

func TestSymmetryError(t *testing.T) {
	tests := []struct {
		name string
		img  *image.NRGBA
		want float64
	}{
		{"uniform", halves(8, 4, 90, 90), 0},
		{"opposite halves", halves(8, 4, 255, 0), 1},
		{"empty", image.NewNRGBA(image.Rect(0, 0, 1, 1)), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SymmetryError(tt.img); got != tt.want {
				t.Errorf("SymmetryError = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDownsample(t *testing.T) {
	img := halves(64, 36, 255, 255)
	small := Downsample(img, 32, 18)
	if small.Bounds().Dx() != 32 || small.Bounds().Dy() != 18 {
		t.Fatalf("bounds = %v", small.Bounds())
	}
	if c := small.NRGBAAt(16, 9); c.R < 250 || c.A != 255 {
		t.Errorf("centre = %v", c)
	}
	if same := Downsample(img, 64, 36); same != img {
		t.Error("downsample to the same size should return the input")
	}
}
