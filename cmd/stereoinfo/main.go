package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"ovr-stereo/internal/config"
	"ovr-stereo/internal/device"
	"ovr-stereo/internal/hmd"
	"ovr-stereo/internal/lens"
	"ovr-stereo/internal/logging"
	"ovr-stereo/internal/mathutil"
	"ovr-stereo/internal/profile"
	"ovr-stereo/internal/stereo"
)

type eyeReport struct {
	Eye            string                      `json:"eye"`
	ReliefMM       float32                     `json:"relief_mm"`
	NoseToPupil    float32                     `json:"nose_to_pupil_m"`
	Desc           stereo.DistortionRenderDesc `json:"distortion"`
	Fov            stereo.FovPort              `json:"fov"`
	FovDegrees     [2]float32                  `json:"fov_degrees"`
	Physical       stereo.FovPort              `json:"physical_fov"`
	IdealSize      mathutil.Sizei              `json:"ideal_size"`
	Viewport       mathutil.Recti              `json:"viewport"`
	Projection     stereo.CMatrix4f            `json:"projection"`
	ViewProjection stereo.CMatrix4f            `json:"view_projection"`
}

type report struct {
	Hmd         string         `json:"hmd"`
	Product     string         `json:"product"`
	EyeCup      string         `json:"eye_cup"`
	Resolution  mathutil.Sizei `json:"resolution"`
	Shutter     string         `json:"shutter"`
	TextureSize mathutil.Sizei `json:"texture_size"`
	Layout      string         `json:"matrix_layout"`
	Eyes        []eyeReport    `json:"eyes"`
}

func main() {
	configFile := flag.String("config", "", "Path to config.json file")
	hmdName := flag.String("hmd", "", "Headset to describe: DK1, DK2, CrystalCove (default: DK2)")
	profileDB := flag.String("profile-db", "", "Profile directory (default: user config dir)")
	user := flag.String("user", "", "Profile user (default: device default user)")
	eyeCup := flag.String("eyecup", "", "Eye cup override, e.g. \"DK2 A\" or B")
	distortion := flag.String("distortion", "", "Distortion equation: catmullrom10, recippoly4")
	density := flag.Float64("density", 1, "Rendered pixels per display pixel at the centre")
	symmetric := flag.Bool("symmetric", false, "Recommend symmetric FOVs")
	glLayout := flag.Bool("gl", false, "Print matrices column-major, as OpenGL expects")
	asJSON := flag.Bool("json", false, "Print JSON instead of text")
	verbose := flag.Bool("v", false, "Debug logging")

	flag.Parse()

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logging.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}
	cfg.Resolve(config.Flags{ProfileDB: *profileDB, User: *user, HmdType: *hmdName, EyeCup: *eyeCup})
	if *distortion != "" {
		cfg.Distortion = *distortion
	}

	ri, err := resolve(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	rep, err := describe(ri, float32(*density), *symmetric, *glLayout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(rep); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}
	printReport(rep)
}

func resolve(cfg config.Config) (hmd.RenderInfo, error) {
	hmdType, err := device.ParseHmdType(cfg.HmdType)
	if err != nil {
		return hmd.RenderInfo{}, err
	}
	eqn, err := lens.ParseEqn(cfg.Distortion)
	if err != nil {
		return hmd.RenderInfo{}, err
	}
	cup, err := hmd.ParseEyeCup(cfg.EyeCup)
	if err != nil {
		return hmd.RenderInfo{}, err
	}

	store, closer, err := profile.OpenStore(cfg.ProfileBackend, cfg.ProfileDB)
	if err != nil {
		return hmd.RenderInfo{}, err
	}
	defer closer.Close()

	m := profile.NewManager(store, cfg.ProfileDB)
	return hmd.ResolveUser(m, device.DebugInfo(hmdType), cfg.User, hmd.Options{Distortion: eqn, EyeCupOverride: cup})
}

func describe(ri hmd.RenderInfo, density float32, symmetric, glLayout bool) (report, error) {
	rep := report{
		Hmd:        ri.HmdType.String(),
		Product:    device.DebugInfo(ri.HmdType).ProductName,
		EyeCup:     ri.EyeCups.String(),
		Resolution: ri.ResolutionInPixels,
		Shutter:    ri.Shutter.Type.String(),
		Layout:     "row-major",
	}
	if glLayout {
		rep.Layout = "column-major"
	}

	var fovs [2]stereo.FovPort
	for i, eye := range []stereo.StereoEye{stereo.EyeLeft, stereo.EyeRight} {
		fov, err := stereo.RecommendedFov(ri, eye, stereo.DefaultExtraEyeRotation, symmetric)
		if err != nil {
			return report{}, err
		}
		fovs[i] = fov
	}
	size, err := stereo.RecommendedTextureSize(ri, fovs, density, true)
	if err != nil {
		return report{}, err
	}
	rep.TextureSize = size

	setup := stereo.DefaultEyeSetup(size)
	for i, eye := range []stereo.StereoEye{stereo.EyeLeft, stereo.EyeRight} {
		setup.Fov = &fovs[i]
		params, err := setup.Params(ri, eye)
		if err != nil {
			return report{}, err
		}
		cfg := ri.EyeLeft
		if eye == stereo.EyeRight {
			cfg = ri.EyeRight
		}
		proj, viewProj := eyeMatrices(setup, params, glLayout)
		rep.Eyes = append(rep.Eyes, eyeReport{
			Eye:            eye.String(),
			ReliefMM:       cfg.ReliefInMeters * 1000,
			NoseToPupil:    cfg.NoseToPupilInMeters,
			Desc:           params.Distortion,
			Fov:            params.Fov,
			FovDegrees:     [2]float32{params.Fov.HorizontalDegrees(), params.Fov.VerticalDegrees()},
			Physical:       stereo.PhysicalScreenFov(params.Distortion),
			IdealSize:      stereo.IdealPixelSize(params.Distortion, params.Fov, density),
			Viewport:       params.RenderedViewport,
			Projection:     proj,
			ViewProjection: viewProj,
		})
	}
	return rep, nil
}

// eyeMatrices returns the eye's projection and view-projection, row-major
// or in OpenGL's column-major order.
func eyeMatrices(setup stereo.EyeSetup, params stereo.StereoEyeParams, glLayout bool) (proj, viewProj stereo.CMatrix4f) {
	vp := mathutil.Mat4Mul(params.RenderedProjection, params.ViewAdjust)
	if !glLayout {
		return stereo.FlatMatrix(params.RenderedProjection), stereo.FlatMatrix(vp)
	}
	zoom := setup.Zoom
	if zoom <= 0 {
		zoom = 1
	}
	gl := stereo.ProjectionGL(setup.RightHanded, params.Fov.Scale(1/zoom), setup.ZNear, setup.ZFar)
	return stereo.CMatrix4f(gl), stereo.CMatrix4f(vp.GL())
}

func printMatrix(name string, m stereo.CMatrix4f) {
	fmt.Printf("  %s:\n", name)
	for r := 0; r < 4; r++ {
		p := m[r*4 : r*4+4]
		fmt.Printf("    % .5f % .5f % .5f % .5f\n", p[0], p[1], p[2], p[3])
	}
}

func printReport(rep report) {
	fmt.Printf("%s (%s)\n", rep.Product, rep.Hmd)
	fmt.Printf("Eye cup: %s, resolution %dx%d, shutter %s\n",
		rep.EyeCup, rep.Resolution.W, rep.Resolution.H, rep.Shutter)
	fmt.Printf("Recommended render target: %dx%d\n", rep.TextureSize.W, rep.TextureSize.H)
	fmt.Printf("Matrices: %s\n", rep.Layout)
	fmt.Println("------------------------------------------------------------")
	for _, e := range rep.Eyes {
		fmt.Printf("%s eye\n", e.Eye)
		fmt.Printf("  relief %.2fmm, nose to pupil %.4fm\n", e.ReliefMM, e.NoseToPupil)
		fmt.Printf("  lens centre (%.4f, %.4f), tan scale (%.4f, %.4f)\n",
			e.Desc.LensCenter.X(), e.Desc.LensCenter.Y(), e.Desc.TanEyeAngleScale.X(), e.Desc.TanEyeAngleScale.Y())
		fmt.Printf("  fov up %.3f down %.3f left %.3f right %.3f (%.1f x %.1f deg)\n",
			e.Fov.UpTan, e.Fov.DownTan, e.Fov.LeftTan, e.Fov.RightTan, e.FovDegrees[0], e.FovDegrees[1])
		fmt.Printf("  physical up %.3f down %.3f left %.3f right %.3f\n",
			e.Physical.UpTan, e.Physical.DownTan, e.Physical.LeftTan, e.Physical.RightTan)
		fmt.Printf("  ideal size %dx%d, viewport %d,%d %dx%d\n",
			e.IdealSize.W, e.IdealSize.H, e.Viewport.X, e.Viewport.Y, e.Viewport.W, e.Viewport.H)
		printMatrix("projection", e.Projection)
		printMatrix("view projection", e.ViewProjection)
	}
}
