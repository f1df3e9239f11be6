package batch

import (
	"encoding/json"
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"

	"ovr-stereo/internal/device"
	"ovr-stereo/internal/hmd"
	"ovr-stereo/internal/lens"
)

func testConfig(t *testing.T, format string) Config {
	t.Helper()
	ri, err := hmd.NewResolver(nil).Resolve(device.DebugInfo(device.HmdDK2), nil, hmd.DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	return Config{
		OutputDir:    t.TempDir(),
		RenderInfo:   ri,
		Distortion:   lens.CatmullRom10,
		Size:         96,
		Supersample:  1,
		Format:       format,
		PixelDensity: 0.25,
		Workers:      2,
	}
}

func TestJobName(t *testing.T) {
	ri := hmd.RenderInfo{HmdType: device.HmdDK2}
	tests := []struct {
		job  Job
		want string
	}{
		{Job{}, "DK2_profile"},
		{Job{ReliefMM: 11}, "DK2_relief11.00mm"},
		{Job{ReliefMM: 8.5}, "DK2_relief08.50mm"},
	}
	for _, tt := range tests {
		if got := JobName(ri, tt.job); got != tt.want {
			t.Errorf("JobName(%v) = %q, want %q", tt.job, got, tt.want)
		}
	}
}

func TestRun(t *testing.T) {
	for _, format := range []string{"tga", "webp"} {
		t.Run(format, func(t *testing.T) {
			cfg := testConfig(t, format)
			results := Run(cfg, []Job{{}, {ReliefMM: 14}})
			if len(results) != 2 {
				t.Fatalf("got %d results", len(results))
			}
			for _, r := range results {
				if !r.Success {
					t.Fatalf("%s failed: %s", r.Name, r.Error)
				}
				if filepath.Ext(r.Image) != "."+format {
					t.Errorf("image %q, want .%s", r.Image, format)
				}
				if _, err := os.Stat(filepath.Join(cfg.OutputDir, r.Image)); err != nil {
					t.Errorf("output missing: %v", err)
				}
				// Default profile eyes mirror each other.
				if r.Symmetry > 0.05 {
					t.Errorf("%s symmetry error %v", r.Name, r.Symmetry)
				}
				if r.TextureSize.W <= 0 || r.Fov[0].LeftTan <= 0 {
					t.Errorf("%s missing fov or size: %+v", r.Name, r)
				}
			}
		})
	}
}

func TestRunFailures(t *testing.T) {
	cfg := testConfig(t, "tga")

	t.Run("unsupported distortion", func(t *testing.T) {
		c := cfg
		c.Distortion = lens.Poly4
		results := Run(c, []Job{{ReliefMM: 12}})
		if results[0].Success || results[0].Error == "" {
			t.Errorf("expected failure, got %+v", results[0])
		}
	})

	t.Run("missing source", func(t *testing.T) {
		c := cfg
		c.Source = filepath.Join(t.TempDir(), "missing.png")
		c.Images = stubImages{}
		results := Run(c, []Job{{}})
		if results[0].Success {
			t.Error("expected failure for missing source")
		}
	})

	t.Run("unknown format", func(t *testing.T) {
		c := cfg
		c.Format = "bmp"
		results := Run(c, []Job{{}})
		if results[0].Success {
			t.Error("expected failure for unknown format")
		}
	})
}

func TestManifest(t *testing.T) {
	cfg := testConfig(t, "tga")
	results := []Result{
		{Name: "DK2_profile", Image: "DK2_profile.tga", Success: true},
		{Name: "DK2_relief20.00mm", ReliefMM: 20, Error: "boom"},
	}
	m := NewManifest(cfg.RenderInfo, "alice", results)
	if _, err := uuid.Parse(m.RunID); err != nil {
		t.Errorf("RunID %q: %v", m.RunID, err)
	}
	if m.Hmd != "DK2" || len(m.Entries) != 2 || m.Entries[1].Error != "boom" {
		t.Errorf("manifest = %+v", m)
	}

	path := filepath.Join(cfg.OutputDir, "manifest.json")
	if err := WriteManifest(path, m); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var back Manifest
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatal(err)
	}
	if back.RunID != m.RunID || back.User != "alice" || back.Entries[0].Image != "DK2_profile.tga" {
		t.Errorf("read back %+v", back)
	}
}

type stubImages struct{}

func (stubImages) Resolve(string) *image.NRGBA { return nil }
