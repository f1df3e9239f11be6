package main

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"ovr-stereo/internal/device"
	"ovr-stereo/internal/hmd"
	"ovr-stereo/internal/stereo"
)

func TestDescribeMatrixLayouts(t *testing.T) {
	ri, err := hmd.NewResolver(nil).Resolve(device.DebugInfo(device.HmdDK2), nil, hmd.DefaultOptions())
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	row, err := describe(ri, 1, false, false)
	if err != nil {
		t.Fatalf("describe: %v", err)
	}
	gl, err := describe(ri, 1, false, true)
	if err != nil {
		t.Fatalf("describe -gl: %v", err)
	}
	if row.Layout != "row-major" || gl.Layout != "column-major" {
		t.Errorf("layouts = %q, %q", row.Layout, gl.Layout)
	}
	if len(row.Eyes) != 2 || len(gl.Eyes) != 2 {
		t.Fatalf("eyes = %d, %d", len(row.Eyes), len(gl.Eyes))
	}

	for i := range row.Eyes {
		r, g := row.Eyes[i], gl.Eyes[i]
		if got := stereo.MatrixFromFlat(r.Projection).GL(); got != mgl32.Mat4(g.Projection) {
			t.Errorf("%s: GL projection is not the transpose of the row-major one", r.Eye)
		}
		if got := stereo.MatrixFromFlat(r.ViewProjection).GL(); got != mgl32.Mat4(g.ViewProjection) {
			t.Errorf("%s: GL view projection is not the transpose of the row-major one", r.Eye)
		}
		if r.ViewProjection == r.Projection {
			t.Errorf("%s: view projection ignores the eye offset", r.Eye)
		}
		// Row 0 scales x, so its translation term carries the IPD shift.
		if r.ViewProjection[3] == 0 {
			t.Errorf("%s: view projection has no x shift", r.Eye)
		}
	}
}
