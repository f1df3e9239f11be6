// Package batch renders distortion previews for a set of eye reliefs on a
// worker pool.
package batch

import (
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"ovr-stereo/internal/hmd"
	"ovr-stereo/internal/lens"
	"ovr-stereo/internal/logging"
	"ovr-stereo/internal/mathutil"
	"ovr-stereo/internal/postprocess"
	"ovr-stereo/internal/raster"
	"ovr-stereo/internal/stereo"
	"ovr-stereo/internal/texture"

	"github.com/HugoSmits86/nativewebp"
	"github.com/ftrvxmtrx/tga"
)

// Config holds all shared resources for a batch run.
type Config struct {
	OutputDir string
	// RenderInfo is the resolved headset; jobs only change its relief.
	RenderInfo hmd.RenderInfo
	Distortion lens.Eqn

	// Source is loaded through Images; empty renders the test grid.
	Source string
	Images texture.Resolver

	Size         int
	Supersample  int
	Format       string
	PixelDensity float32
	Workers      int
}

// Job is one preview. ReliefMM of 0 keeps the profile's relief.
type Job struct {
	ReliefMM float32
}

// Result holds the outcome of processing one job.
type Result struct {
	Name        string
	ReliefMM    float32
	Image       string
	Fov         [2]stereo.FovPort
	TextureSize mathutil.Sizei
	Symmetry    float64
	Success     bool
	Error       string
}

// Run processes all jobs using a worker pool.
func Run(cfg Config, jobs []Job) []Result {
	total := len(jobs)
	results := make([]Result, total)
	var processed atomic.Int64

	start := time.Now()

	// Progress reporter
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				p := processed.Load()
				if p > 0 {
					elapsed := time.Since(start).Seconds()
					rate := float64(p) / elapsed
					fmt.Printf("  [%d/%d] %.2f previews/sec\n", p, total, rate)
				}
			}
		}
	}()

	// Worker pool
	workers := max(cfg.Workers, 1)
	jobChan := make(chan int, workers*2)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobChan {
				results[idx] = processJob(cfg, jobs[idx])
				processed.Add(1)
			}
		}()
	}

	// Send work
	for i := range jobs {
		jobChan <- i
	}
	close(jobChan)

	wg.Wait()
	close(done)

	return results
}

// JobName is the file stem of a job's preview.
func JobName(ri hmd.RenderInfo, job Job) string {
	if job.ReliefMM <= 0 {
		return fmt.Sprintf("%s_profile", ri.HmdType)
	}
	return fmt.Sprintf("%s_relief%05.2fmm", ri.HmdType, job.ReliefMM)
}

func processJob(cfg Config, job Job) Result {
	res := Result{Name: JobName(cfg.RenderInfo, job), ReliefMM: job.ReliefMM}
	fail := func(err error) Result {
		logging.Logger().Warn("preview failed", "job", res.Name, "err", err)
		res.Error = err.Error()
		return res
	}

	ri := cfg.RenderInfo
	if job.ReliefMM > 0 {
		if err := ri.SetEyeRelief(job.ReliefMM*0.001, cfg.Distortion); err != nil {
			return fail(err)
		}
	}

	var src *image.NRGBA
	if cfg.Source != "" && cfg.Images != nil {
		if src = cfg.Images.Resolve(cfg.Source); src == nil {
			return fail(fmt.Errorf("source image %s could not be loaded", cfg.Source))
		}
	}

	views, err := eyeViews(ri, cfg.PixelDensity, src, &res)
	if err != nil {
		return fail(err)
	}

	width := cfg.Size
	height := max(int(float32(cfg.Size)*float32(ri.ResolutionInPixels.H)/float32(ri.ResolutionInPixels.W)+0.5), 1)
	ss := max(cfg.Supersample, 1)

	img := raster.RenderDistortion(views, width*ss, height*ss)
	if ss > 1 {
		img = postprocess.Downsample(img, width, height)
	}

	// The shade mask alone shows whether the two lenses sit symmetrically.
	for i := range views {
		views[i].Source = nil
	}
	res.Symmetry = postprocess.SymmetryError(raster.RenderDistortion(views, width, height))

	res.Image = res.Name + "." + extension(cfg.Format)
	outPath := filepath.Join(cfg.OutputDir, res.Image)
	if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
		return fail(err)
	}
	if err := writeImage(outPath, cfg.Format, img); err != nil {
		return fail(err)
	}

	res.Success = true
	return res
}

// eyeViews builds both eyes' meshes, each eye rendering src into its own
// target of the ideal size.
func eyeViews(ri hmd.RenderInfo, density float32, src *image.NRGBA, res *Result) ([]raster.EyeView, error) {
	views := make([]raster.EyeView, 0, 2)
	for i, eye := range []stereo.StereoEye{stereo.EyeLeft, stereo.EyeRight} {
		desc, fov, err := stereo.DistortionAndFov(ri, eye, nil, nil)
		if err != nil {
			return nil, err
		}
		size := stereo.IdealPixelSize(desc, fov, density)
		res.Fov[i] = fov
		res.TextureSize.W = max(res.TextureSize.W, size.W)
		res.TextureSize.H = max(res.TextureSize.H, size.H)

		vp := mathutil.Recti{W: size.W, H: size.H}
		params := stereo.ComputeStereoEyeParams(ri, eye, desc, fov, size, vp, true, 0.01, 10000, 1)
		mesh, err := stereo.CreateDistortionMesh(desc, ri, eye, params.EyeToSourceNDC)
		if err != nil {
			return nil, err
		}
		views = append(views, raster.EyeView{Mesh: mesh, EyeToSourceUV: params.EyeToSourceUV, Source: src})
	}
	return views, nil
}

func extension(format string) string {
	if format == "tga" {
		return "tga"
	}
	return "webp"
}

func writeImage(path, format string, img *image.NRGBA) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := encode(f, format, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func encode(w io.Writer, format string, img *image.NRGBA) error {
	switch format {
	case "tga":
		if err := tga.Encode(w, img); err != nil {
			return fmt.Errorf("TGA encode: %w", err)
		}
	case "webp", "":
		if err := nativewebp.Encode(w, img, nil); err != nil {
			return fmt.Errorf("WebP encode: %w", err)
		}
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
	return nil
}
