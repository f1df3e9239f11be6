// Package raster renders what an HMD shows: each eye's source image pulled
// through its distortion mesh onto the physical display.
package raster

import (
	"image"

	"ovr-stereo/internal/stereo"
)

// EyeView is everything the distortion pass needs for one eye.
type EyeView struct {
	Mesh          stereo.DistortionMesh
	EyeToSourceUV stereo.ScaleAndOffset2D
	// Source is the eye's rendered image. Nil draws the shade mask only.
	Source *image.NRGBA
}

// RenderDistortion draws the eyes into a width×height image of the whole
// display. Mesh positions span [-1,1] over the display with Y up.
func RenderDistortion(eyes []EyeView, width, height int) *image.NRGBA {
	fb := NewFrameBuffer(width, height)
	w, h := float32(width), float32(height)

	for _, eye := range eyes {
		verts := make([]Vertex, len(eye.Mesh.Vertices))
		for i, mv := range eye.Mesh.Vertices {
			verts[i] = Vertex{
				X:     (mv.ScreenPosNDC.X() + 1) * 0.5 * w,
				Y:     (1 - mv.ScreenPosNDC.Y()) * 0.5 * h,
				Shade: mv.Shade,
				TanR:  mv.TanEyeAnglesR,
				TanG:  mv.TanEyeAnglesG,
				TanB:  mv.TanEyeAnglesB,
			}
		}

		tex := eye.Source
		if tex == nil {
			tex = white
		}
		idx := eye.Mesh.Indices
		for t := 0; t+2 < len(idx); t += 3 {
			tri := [3]Vertex{verts[idx[t]], verts[idx[t+1]], verts[idx[t+2]]}
			RasterizeTriangle(fb, tri, tex, eye.EyeToSourceUV)
		}
	}

	return fb.Image()
}

// white stands in for a missing source image.
var white = func() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	for i := range img.Pix {
		img.Pix[i] = 255
	}
	return img
}()
