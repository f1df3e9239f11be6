package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"ovr-stereo/internal/batch"
	"ovr-stereo/internal/config"
	"ovr-stereo/internal/device"
	"ovr-stereo/internal/hmd"
	"ovr-stereo/internal/lens"
	"ovr-stereo/internal/logging"
	"ovr-stereo/internal/profile"
	"ovr-stereo/internal/texture"
)

func main() {
	// CLI flags
	configFile := flag.String("config", "", "Path to config.json file")
	hmdName := flag.String("hmd", "", "Headset to preview: DK1, DK2, CrystalCove (default: DK2)")
	user := flag.String("user", "", "Profile user (default: device default user)")
	eyeCup := flag.String("eyecup", "", "Eye cup override")
	outputDir := flag.String("out", "", "Output directory (default: distortion-renders)")
	size := flag.Int("size", 0, "Output width in pixels (default: 512)")
	format := flag.String("format", "", "Output format: webp or tga (default: webp)")
	workers := flag.Int("workers", 0, "Number of worker goroutines (default: NumCPU)")
	verbose := flag.Bool("v", false, "Debug logging")

	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logging.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	// Load config
	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	// CLI flags override config file
	cfg.Resolve(config.Flags{
		User:      *user,
		HmdType:   *hmdName,
		EyeCup:    *eyeCup,
		OutputDir: *outputDir,
		Size:      *size,
		Format:    *format,
		Workers:   *workers,
	})

	hmdType, err := device.ParseHmdType(cfg.HmdType)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	eqn, err := lens.ParseEqn(cfg.Distortion)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	cup, err := hmd.ParseEyeCup(cfg.EyeCup)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Resolve the headset for the user
	store, closer, err := profile.OpenStore(cfg.ProfileBackend, cfg.ProfileDB)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening profiles: %v\n", err)
		os.Exit(1)
	}
	defer closer.Close()

	m := profile.NewManager(store, cfg.ProfileDB)
	ri, err := hmd.ResolveUser(m, device.DebugInfo(hmdType), cfg.User, hmd.Options{Distortion: eqn, EyeCupOverride: cup})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error resolving %s: %v\n", cfg.HmdType, err)
		os.Exit(1)
	}

	jobs := []batch.Job{{}}
	for _, mm := range cfg.ReliefsMM {
		if mm > 0 {
			jobs = append(jobs, batch.Job{ReliefMM: mm})
		}
	}

	source := cfg.SourceImage
	if source == "" {
		source = "test grid"
	}
	fmt.Printf("Distortion preview: %s, eye cup %s, %s\n", ri.HmdType, ri.EyeCups, eqn)
	fmt.Printf("Previews: %d, Workers: %d, Source: %s\n", len(jobs), cfg.Workers, source)
	fmt.Printf("Output: %s\n", cfg.OutputDir)
	fmt.Println("------------------------------------------------------------")

	start := time.Now()

	// Run batch
	batchCfg := batch.Config{
		OutputDir:    cfg.OutputDir,
		RenderInfo:   ri,
		Distortion:   eqn,
		Source:       cfg.SourceImage,
		Images:       texture.NewCache(),
		Size:         cfg.Size,
		Supersample:  cfg.Supersample,
		Format:       cfg.Format,
		PixelDensity: cfg.PixelDensity,
		Workers:      cfg.Workers,
	}

	results := batch.Run(batchCfg, jobs)

	elapsed := time.Since(start)
	fmt.Println("------------------------------------------------------------")
	fmt.Printf("Done in %.1fs\n", elapsed.Seconds())

	// Count results
	failed := 0
	for _, r := range results {
		if !r.Success {
			failed++
			fmt.Printf("  %s: %s\n", r.Name, r.Error)
			continue
		}
		fmt.Printf("  %s: fov L %.1fx%.1f R %.1fx%.1f deg, target %dx%d, symmetry %.4f\n",
			r.Image,
			r.Fov[0].HorizontalDegrees(), r.Fov[0].VerticalDegrees(),
			r.Fov[1].HorizontalDegrees(), r.Fov[1].VerticalDegrees(),
			r.TextureSize.W, r.TextureSize.H, r.Symmetry)
	}
	fmt.Printf("Rendered: %d/%d\n", len(results)-failed, len(results))

	// Write manifest
	manifestPath := filepath.Join(cfg.OutputDir, "manifest.json")
	os.MkdirAll(cfg.OutputDir, 0755)
	if err := batch.WriteManifest(manifestPath, batch.NewManifest(ri, cfg.User, results)); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: manifest write failed: %v\n", err)
	} else {
		fmt.Printf("Manifest: %s\n", manifestPath)
	}

	if failed > 0 {
		os.Exit(1)
	}
}
