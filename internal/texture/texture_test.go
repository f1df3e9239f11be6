package texture

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/ftrvxmtrx/tga"
)

func writeImage(t *testing.T, path string, img image.Image) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	switch filepath.Ext(path) {
	case ".tga":
		err = tga.Encode(f, img)
	default:
		err = png.Encode(f, img)
	}
	if err != nil {
		t.Fatal(err)
	}
}

func TestGrid(t *testing.T) {
	img := Grid(64)
	if img.Bounds().Dx() != 64 || img.Bounds().Dy() != 64 {
		t.Fatalf("bounds = %v", img.Bounds())
	}
	if c := img.NRGBAAt(32, 10); c.R != 220 || c.G != 30 {
		t.Errorf("vertical axis = %v, want red", c)
	}
	if c := img.NRGBAAt(0, 9); c.R != 20 {
		t.Errorf("grid line = %v, want dark", c)
	}
	for i := 3; i < len(img.Pix); i += 4 {
		if img.Pix[i] != 255 {
			t.Fatal("grid must be opaque")
		}
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	src := Grid(32)

	tests := []struct {
		name    string
		file    string
		write   bool
		wantErr bool
	}{
		{"png", "grid.png", true, false},
		{"tga", "grid.tga", true, false},
		{"missing", "none.png", false, true},
		{"unknown extension", "grid.bmp", true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.file)
			if tt.write {
				writeImage(t, path, src)
			}
			img, err := Load(path)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Load err = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if img.Bounds() != src.Bounds() {
				t.Fatalf("bounds = %v", img.Bounds())
			}
			for _, p := range []image.Point{{0, 0}, {16, 5}, {31, 31}} {
				if got, want := img.NRGBAAt(p.X, p.Y), src.NRGBAAt(p.X, p.Y); got != want {
					t.Errorf("pixel %v = %v, want %v", p, got, want)
				}
			}
		})
	}
}

func TestToNRGBARebasesOrigin(t *testing.T) {
	src := image.NewNRGBA(image.Rect(4, 4, 8, 8))
	src.Pix[0] = 99
	got := toNRGBA(src)
	if got.Bounds().Min != (image.Point{}) || got.Bounds().Dx() != 4 {
		t.Fatalf("bounds = %v", got.Bounds())
	}
	if got.NRGBAAt(0, 0).R != 99 {
		t.Errorf("origin pixel = %v", got.NRGBAAt(0, 0))
	}
}

func TestCache(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "grid.png")
	writeImage(t, path, Grid(16))

	c := NewCache()
	first := c.Resolve(path)
	if first == nil {
		t.Fatal("Resolve returned nil")
	}
	if second := c.Resolve(path); second != first {
		t.Error("second Resolve did not reuse the cached image")
	}

	missing := filepath.Join(dir, "missing.png")
	if _, err := c.Load(missing); err == nil {
		t.Fatal("expected error for missing file")
	}
	// A file created afterwards is not picked up; the failure is cached.
	writeImage(t, missing, Grid(16))
	if img := c.Resolve(missing); img != nil {
		t.Error("failed load was not cached")
	}
}
