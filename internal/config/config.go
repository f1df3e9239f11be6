package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
)

// Config holds profile paths, the device to simulate and render settings.
type Config struct {
	// Profiles
	ProfileDB      string `json:"profile_db"`
	ProfileBackend string `json:"profile_backend"`
	User           string `json:"user"`

	// Device
	HmdType    string `json:"hmd_type"`
	Distortion string `json:"distortion"`
	EyeCup     string `json:"eye_cup"`

	// Paths
	OutputDir   string `json:"output_dir"`
	SourceImage string `json:"source_image"`

	// Render settings
	Size         int       `json:"size"`
	Supersample  int       `json:"supersample"`
	Format       string    `json:"format"`
	Workers      int       `json:"workers"`
	ReliefsMM    []float32 `json:"reliefs_mm"`
	PixelDensity float32   `json:"pixel_density"`
}

// Load reads a JSON config file and returns Config.
// A missing file yields the zero Config; fields not set keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Config{}, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}

// Resolve fills in any empty fields with defaults.
// CLI flags take priority when non-zero/non-empty.
func (c *Config) Resolve(flags Flags) {
	// CLI flags override config file
	if flags.ProfileDB != "" {
		c.ProfileDB = flags.ProfileDB
	}
	if flags.User != "" {
		c.User = flags.User
	}
	if flags.HmdType != "" {
		c.HmdType = flags.HmdType
	}
	if flags.EyeCup != "" {
		c.EyeCup = flags.EyeCup
	}
	if flags.OutputDir != "" {
		c.OutputDir = flags.OutputDir
	}
	if flags.Size > 0 {
		c.Size = flags.Size
	}
	if flags.Format != "" {
		c.Format = flags.Format
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}

	if c.ProfileDB == "" {
		c.ProfileDB = defaultProfileDir()
	}
	if c.OutputDir == "" {
		c.OutputDir = "distortion-renders"
	} else if !filepath.IsAbs(c.OutputDir) {
		c.OutputDir = filepath.Clean(c.OutputDir)
	}

	if c.ProfileBackend == "" {
		c.ProfileBackend = "json"
	}
	if c.HmdType == "" {
		c.HmdType = "DK2"
	}
	if c.Distortion == "" {
		c.Distortion = "catmullrom10"
	}

	// Defaults for render settings
	if c.Size <= 0 {
		c.Size = 512
	}
	if c.Supersample <= 0 {
		c.Supersample = 2
	}
	if c.Format == "" {
		c.Format = "webp"
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.PixelDensity <= 0 {
		c.PixelDensity = 1
	}
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	ProfileDB string
	User      string
	HmdType   string
	EyeCup    string
	OutputDir string
	Size      int
	Format    string
	Workers   int
}

// defaultProfileDir is where the runtime keeps profiles for this user.
func defaultProfileDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "Oculus")
	}
	cwd, _ := os.Getwd()
	return cwd
}
