package raster

import (
	"image"

	"github.com/chewxy/math32"

	"ovr-stereo/internal/mathutil"
	"ovr-stereo/internal/stereo"
)

// Vertex is a distortion mesh vertex moved to pixel space.
type Vertex struct {
	X, Y  float32
	Shade float32
	TanR  mathutil.Vec2
	TanG  mathutil.Vec2
	TanB  mathutil.Vec2
}

// RasterizeTriangle fills one distortion mesh triangle. Each pixel
// interpolates the per-channel tan-angles, maps them to source UVs with
// eyeToSourceUV and samples the three channels separately, which is where
// the chromatic aberration correction shows up.
//
// This is the HOT PATH, designed for zero allocation in the inner loop.
func RasterizeTriangle(fb *FrameBuffer, v [3]Vertex, tex *image.NRGBA, eyeToSourceUV stereo.ScaleAndOffset2D) {
	x0, y0 := v[0].X, v[0].Y
	x1, y1 := v[1].X, v[1].Y
	x2, y2 := v[2].X, v[2].Y

	// Bounding box
	minX := int(math32.Floor(min(x0, x1, x2)))
	maxX := int(math32.Ceil(max(x0, x1, x2)))
	minY := int(math32.Floor(min(y0, y1, y2)))
	maxY := int(math32.Ceil(max(y0, y1, y2)))

	minX = max(minX, 0)
	maxX = min(maxX, fb.Width-1)
	minY = max(minY, 0)
	maxY = min(maxY, fb.Height-1)
	if minX > maxX || minY > maxY {
		return
	}

	// Barycentric setup
	det := (y1-y2)*(x0-x2) + (x2-x1)*(y0-y2)
	if det > -1e-8 && det < 1e-8 {
		return
	}
	invDet := 1 / det

	// Precompute edge deltas
	dy12 := y1 - y2
	dx21 := x2 - x1
	dy20 := y2 - y0
	dx02 := x0 - x2

	// Pixel loop, sampled at pixel centres
	for sy := minY; sy <= maxY; sy++ {
		dsy := float32(sy) + 0.5 - y2
		rowOff := sy * fb.Width
		for sx := minX; sx <= maxX; sx++ {
			dsx := float32(sx) + 0.5 - x2
			w0 := (dy12*dsx + dx21*dsy) * invDet
			w1 := (dy20*dsx + dx02*dsy) * invDet
			w2 := 1 - w0 - w1

			if w0 < -1e-4 || w1 < -1e-4 || w2 < -1e-4 {
				continue
			}

			shade := w0*v[0].Shade + w1*v[1].Shade + w2*v[2].Shade
			tanR := bary(v[0].TanR, v[1].TanR, v[2].TanR, w0, w1, w2)
			tanG := bary(v[0].TanG, v[1].TanG, v[2].TanG, w0, w1, w2)
			tanB := bary(v[0].TanB, v[1].TanB, v[2].TanB, w0, w1, w2)

			var lr, lg, lb float32
			if tex != nil {
				uvR := stereo.TanFovToRendertargetTexUV(eyeToSourceUV, tanR)
				uvG := stereo.TanFovToRendertargetTexUV(eyeToSourceUV, tanG)
				uvB := stereo.TanFovToRendertargetTexUV(eyeToSourceUV, tanB)
				lr = SampleChannel(tex, uvR.X(), uvR.Y(), 0)
				lg = SampleChannel(tex, uvG.X(), uvG.Y(), 1)
				lb = SampleChannel(tex, uvB.X(), uvB.Y(), 2)
			}

			pxIdx := (rowOff + sx) * 4
			fb.Color[pxIdx] = linearToSRGB(lr * shade)
			fb.Color[pxIdx+1] = linearToSRGB(lg * shade)
			fb.Color[pxIdx+2] = linearToSRGB(lb * shade)
			fb.Color[pxIdx+3] = 255
		}
	}
}

func bary(a, b, c mathutil.Vec2, w0, w1, w2 float32) mathutil.Vec2 {
	return mathutil.Vec2{
		w0*a[0] + w1*b[0] + w2*c[0],
		w0*a[1] + w1*b[1] + w2*c[1],
	}
}
