package batch

import (
	"encoding/json"
	"os"
	"time"

	"github.com/google/uuid"

	"ovr-stereo/internal/hmd"
	"ovr-stereo/internal/mathutil"
	"ovr-stereo/internal/stereo"
)

// Manifest describes one batch run.
type Manifest struct {
	RunID   string          `json:"run_id"`
	Created time.Time       `json:"created"`
	Hmd     string          `json:"hmd"`
	EyeCup  string          `json:"eye_cup"`
	User    string          `json:"user,omitempty"`
	Entries []ManifestEntry `json:"entries"`
}

// ManifestEntry represents one preview in the output manifest.
type ManifestEntry struct {
	Name        string         `json:"name"`
	ReliefMM    float32        `json:"relief_mm,omitempty"`
	Image       string         `json:"image,omitempty"`
	FovLeft     stereo.FovPort `json:"fov_left"`
	FovRight    stereo.FovPort `json:"fov_right"`
	TextureSize mathutil.Sizei `json:"texture_size"`
	Symmetry    float64        `json:"symmetry_error"`
	Error       string         `json:"error,omitempty"`
}

// NewManifest starts a manifest with a fresh run id.
func NewManifest(ri hmd.RenderInfo, user string, results []Result) Manifest {
	m := Manifest{
		RunID:   uuid.NewString(),
		Created: time.Now().UTC(),
		Hmd:     ri.HmdType.String(),
		EyeCup:  ri.EyeCups.String(),
		User:    user,
		Entries: make([]ManifestEntry, len(results)),
	}
	for i, r := range results {
		m.Entries[i] = ManifestEntry{
			Name:        r.Name,
			ReliefMM:    r.ReliefMM,
			Image:       r.Image,
			FovLeft:     r.Fov[0],
			FovRight:    r.Fov[1],
			TextureSize: r.TextureSize,
			Symmetry:    r.Symmetry,
			Error:       r.Error,
		}
	}
	return m
}

// WriteManifest writes manifest.json to path.
func WriteManifest(path string, m Manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
