package stereo

import (
	"fmt"

	"github.com/chewxy/math32"

	"ovr-stereo/internal/device"
	"ovr-stereo/internal/hmd"
	"ovr-stereo/internal/mathutil"
)

// The grid size must be a power of two for the Morton index order. 64
// cells per side is indistinguishable from per-pixel distortion.
const (
	meshGridSizeLog2 = 6
	MeshGridSize     = 1 << meshGridSizeLog2
	MeshVertexCount  = (MeshGridSize + 1) * (MeshGridSize + 1)
	MeshTriangles    = MeshGridSize * MeshGridSize * 2

	// fadeBorder is the fraction of NDC over which the edges fade to black.
	fadeBorder = 0.075
)

// MeshVertex is one vertex of the distortion mesh.
type MeshVertex struct {
	// ScreenPosNDC spans [-1,1] over the whole framebuffer, both eyes.
	ScreenPosNDC mathutil.Vec2
	// TimewarpLerp is when, in [0,1], the display scans this vertex out.
	TimewarpLerp float32
	// Shade fades to 0 at the lens and screen edges.
	Shade float32
	// Tan-angles per channel; map them with EyeToSourceUV to sample.
	TanEyeAnglesR mathutil.Vec2
	TanEyeAnglesG mathutil.Vec2
	TanEyeAnglesB mathutil.Vec2
}

// DistortionMesh is an indexed triangle list for one eye.
type DistortionMesh struct {
	Vertices []MeshVertex
	Indices  []uint16
}

// CreateDistortionMesh tessellates the eye's half of the screen. Vertices
// follow the distortion so the grid stays dense where the lens bends most.
func CreateDistortionMesh(desc DistortionRenderDesc, ri hmd.RenderInfo, eye StereoEye, eyeToSourceNDC ScaleAndOffset2D) (DistortionMesh, error) {
	rightEye := eye == EyeRight
	var xOffset float32
	if rightEye {
		xOffset = 1
	}

	mesh := DistortionMesh{
		Vertices: make([]MeshVertex, 0, MeshVertexCount),
		Indices:  make([]uint16, 0, MeshTriangles*3),
	}

	for y := 0; y <= MeshGridSize; y++ {
		for x := 0; x <= MeshGridSize; x++ {
			sourceNDC := mathutil.Vec2{
				2*(float32(x)/MeshGridSize) - 1,
				2*(float32(y)/MeshGridSize) - 1,
			}
			tan := RendertargetNDCToTanFov(eyeToSourceNDC, sourceNDC)

			// Exact inverse; the mesh is built once per configuration.
			screen, err := TanFovToScreenNDC(desc, tan, false)
			if err != nil {
				return DistortionMesh{}, fmt.Errorf("stereo: mesh vertex (%d,%d): %w", x, y, err)
			}
			screen[0] = mathutil.Clamp(screen[0], -1, 1)
			screen[1] = mathutil.Clamp(screen[1], -1, 1)

			var v MeshVertex
			v.TanEyeAnglesR, v.TanEyeAnglesG, v.TanEyeAnglesB = ScreenNDCToTanFovChroma(desc, screen)
			v.TimewarpLerp = timewarpLerp(ri.Shutter.Type, screen, rightEye)

			// Blue lies furthest out, so it reaches the texture edge first.
			blue := TanFovToRendertargetNDC(eyeToSourceNDC, v.TanEyeAnglesB)
			fade := (1 / fadeBorder) * (1 - max(math32.Abs(blue.X()), math32.Abs(blue.Y())))
			fadeScreen := (2 / fadeBorder) * (1 - max(math32.Abs(screen.X()), math32.Abs(screen.Y())))
			v.Shade = mathutil.Clamp(min(fade, fadeScreen), 0, 1)

			v.ScreenPosNDC = mathutil.Vec2{0.5*screen.X() - 0.5 + xOffset, -screen.Y()}
			mesh.Vertices = append(mesh.Vertices, v)
		}
	}

	for tri := 0; tri < MeshGridSize*MeshGridSize; tri++ {
		x, y := mortonDecode(tri)
		first := uint16(x*(MeshGridSize+1) + y)
		right := first + 1
		below := first + MeshGridSize + 1
		diag := below + 1

		// Split the quads so diagonals run away from the centre in every
		// quadrant, keeping edges short across the curve.
		if (x < MeshGridSize/2) != (y < MeshGridSize/2) {
			mesh.Indices = append(mesh.Indices, first, right, diag, diag, below, first)
		} else {
			mesh.Indices = append(mesh.Indices, first, right, below, right, diag, below)
		}
	}
	return mesh, nil
}

// timewarpLerp orders vertices by scan-out time for the shutter type.
func timewarpLerp(shutter device.ShutterType, screen mathutil.Vec2, rightEye bool) float32 {
	switch shutter {
	case device.ShutterRollingLeftToRight:
		// Left eye scans 0 to 0.5, then the right eye 0.5 to 1.
		t := screen.X()*0.25 + 0.25
		if rightEye {
			t += 0.5
		}
		return t
	case device.ShutterRollingRightToLeft:
		t := 0.75 - screen.X()*0.25
		if rightEye {
			t -= 0.5
		}
		return t
	case device.ShutterRollingTopToBottom:
		return screen.Y()*0.5 + 0.5
	}
	return 0
}

// mortonDecode splits the interleaved bits of n into cell coordinates.
func mortonDecode(n int) (x, y int) {
	for bit := 0; bit < 8; bit++ {
		xb := (n >> (2 * bit)) & 1
		yb := (n >> (2*bit + 1)) & 1
		x |= xb << bit
		y |= yb << bit
	}
	return x, y
}
