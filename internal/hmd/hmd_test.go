package hmd

import (
	"errors"
	"testing"

	"github.com/chewxy/math32"

	"ovr-stereo/internal/device"
	"ovr-stereo/internal/lens"
	"ovr-stereo/internal/profile"
)

func approx(a, b, tol float32) bool {
	return math32.Abs(a-b) <= tol
}

func resolve(t *testing.T, info device.Info, p *profile.Profile, opts Options) RenderInfo {
	t.Helper()
	ri, err := NewResolver(nil).Resolve(info, p, opts)
	if err != nil {
		t.Fatalf("Resolve(%v): %v", info.HmdType, err)
	}
	return ri
}

func TestEyeCupFromProfile(t *testing.T) {
	tests := []struct {
		code string
		want EyeCup
	}{
		{"A", EyeCupDK1A},
		{"B", EyeCupDK1B},
		{"C", EyeCupDK1C},
		{"Orange A", EyeCupOrangeA},
		{"Red A", EyeCupRedA},
		{"Pink A", EyeCupPinkA},
		{"Blue A", EyeCupBlueA},
		{"", EyeCupDK1A},
		{"Unknown", EyeCupDK1A},
	}
	for _, tt := range tests {
		if got := EyeCupFromProfile(tt.code); got != tt.want {
			t.Errorf("EyeCupFromProfile(%q) = %v, want %v", tt.code, got, tt.want)
		}
	}
}

func TestParseEyeCup(t *testing.T) {
	for _, c := range []EyeCup{EyeCupDK2A, EyeCupSunMandalaA, EyeCupDelilah1A} {
		got, err := ParseEyeCup(c.String())
		if err != nil || got != c {
			t.Errorf("ParseEyeCup(%q) = %v, %v", c.String(), got, err)
		}
	}
	if got, err := ParseEyeCup(""); err != nil || got != EyeCupNone {
		t.Errorf("ParseEyeCup(\"\") = %v, %v", got, err)
	}
	if _, err := ParseEyeCup("Green Z"); !errors.Is(err, ErrUnknownEyeCup) {
		t.Errorf("err = %v, want ErrUnknownEyeCup", err)
	}
	if EyeCup(99).Valid() || EyeCup(99).String() != "EyeCup(99)" {
		t.Error("out of range cup reported valid")
	}
}

func TestResolveDK1DefaultProfile(t *testing.T) {
	info := device.DebugInfo(device.HmdDK1)
	ri := resolve(t, info, nil, DefaultOptions())

	if ri.EyeCups != EyeCupDK1A {
		t.Errorf("EyeCups = %v, want DK1 A", ri.EyeCups)
	}
	if ri.EyeLeft.NoseToPupilInMeters != 0.032 || ri.EyeRight.NoseToPupilInMeters != 0.032 {
		t.Errorf("nose to pupil = %v / %v", ri.EyeLeft.NoseToPupilInMeters, ri.EyeRight.NoseToPupilInMeters)
	}
	if ri.LensSurfaceToMidplateInMeters != dk1LensToMidplate || ri.LensDiameterInMeters != dk1LensDiameter {
		t.Errorf("lens constants = %v, %v", ri.LensSurfaceToMidplateInMeters, ri.LensDiameterInMeters)
	}
	// Default plate distance is 17mm of relief at dial 10, dial 3 takes 7mm off.
	if !approx(ri.EyeLeft.ReliefInMeters, 0.010, 1e-6) {
		t.Errorf("relief = %v, want 0.010", ri.EyeLeft.ReliefInMeters)
	}
	if ri.ResolutionInPixels != info.ResolutionInPixels || ri.Shutter != info.Shutter {
		t.Error("physical fields not copied")
	}
	if ri.EyeLeft.Distortion.Eqn != lens.CatmullRom10 {
		t.Errorf("distortion = %v", ri.EyeLeft.Distortion.Eqn)
	}
}

func TestResolveDK2(t *testing.T) {
	ri := resolve(t, device.DebugInfo(device.HmdDK2), nil, DefaultOptions())
	if ri.EyeCups != EyeCupDK2A || ri.LensSurfaceToMidplateInMeters != dk2LensToMidplate {
		t.Fatalf("cup %v, midplate %v", ri.EyeCups, ri.LensSurfaceToMidplateInMeters)
	}
	if !approx(ri.EyeRight.ReliefInMeters, 0.011, 1e-6) {
		t.Errorf("relief = %v, want 0.011", ri.EyeRight.ReliefInMeters)
	}
	if ri.EyeLeft.Distortion.MetersPerTanAngleAtCenter != 0.036 {
		t.Errorf("MetersPerTanAngleAtCenter = %v", ri.EyeLeft.Distortion.MetersPerTanAngleAtCenter)
	}
}

func TestResolveIsDeterministic(t *testing.T) {
	p := profile.DefaultProfile(device.HmdDK2)
	p.SetFloats(profile.KeyEyeToNoseDistance, 0.031, 0.0325)
	a := resolve(t, device.DebugInfo(device.HmdDK2), p, DefaultOptions())
	b := resolve(t, device.DebugInfo(device.HmdDK2), p, DefaultOptions())
	if a != b {
		t.Errorf("two resolves differ:\n%+v\n%+v", a, b)
	}
}

func TestResolveEyeCupSelection(t *testing.T) {
	pink := profile.DefaultProfile(device.HmdDK1)
	pink.SetString(profile.KeyEyeCup, "Pink A")
	cupB := profile.DefaultProfile(device.HmdDK1)
	cupB.SetString(profile.KeyEyeCup, "B")

	tests := []struct {
		name     string
		hmd      device.HmdType
		p        *profile.Profile
		override EyeCup
		want     EyeCup
	}{
		{"stale profile on DK1", device.HmdDK1, pink, EyeCupNone, EyeCupDK1A},
		{"DK1 cup B kept", device.HmdDK1, cupB, EyeCupNone, EyeCupDK1B},
		{"crystal cove", device.HmdCrystalCoveProto, cupB, EyeCupNone, EyeCupPinkA},
		{"DK2 ignores profile", device.HmdDK2, cupB, EyeCupNone, EyeCupDK2A},
		{"override wins", device.HmdDK2, cupB, EyeCupDKHD2A, EyeCupDKHD2A},
		{"uncalibrated override", device.HmdDK1, nil, EyeCupOrangeA, EyeCupOrangeA},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := device.DebugInfo(tt.hmd)
			info.HmdType = tt.hmd
			ri := resolve(t, info, tt.p, Options{Distortion: lens.CatmullRom10, EyeCupOverride: tt.override})
			if ri.EyeCups != tt.want {
				t.Errorf("EyeCups = %v, want %v", ri.EyeCups, tt.want)
			}
		})
	}
}

func TestResolveLegacyIPD(t *testing.T) {
	p := profile.New("")
	p.SetFloat(profile.KeyIPD, 0.060)
	ri := resolve(t, device.DebugInfo(device.HmdDK2), p, DefaultOptions())
	if !approx(ri.EyeLeft.NoseToPupilInMeters, 0.030, 1e-7) || ri.EyeLeft.NoseToPupilInMeters != ri.EyeRight.NoseToPupilInMeters {
		t.Errorf("nose to pupil = %v / %v", ri.EyeLeft.NoseToPupilInMeters, ri.EyeRight.NoseToPupilInMeters)
	}
	// No plate distance in the profile: the default profile supplies it.
	if !approx(ri.EyeLeft.ReliefInMeters, 0.011, 1e-6) {
		t.Errorf("relief = %v", ri.EyeLeft.ReliefInMeters)
	}
}

func TestResolveCustomEyeRenderOff(t *testing.T) {
	p := profile.New("")
	p.SetBool(profile.KeyCustomEyeRender, false)
	p.SetFloats(profile.KeyEyeToNoseDistance, 0.02, 0.02)
	p.SetInt(profile.KeyEyeReliefDial, 10)
	ri := resolve(t, device.DebugInfo(device.HmdDK2), p, DefaultOptions())
	if ri.EyeLeft.NoseToPupilInMeters != profile.DefaultIPD/2 {
		t.Errorf("nose to pupil = %v, want default", ri.EyeLeft.NoseToPupilInMeters)
	}
	if !approx(ri.EyeLeft.ReliefInMeters, 0.011, 1e-6) {
		t.Errorf("relief = %v, want the default dial", ri.EyeLeft.ReliefInMeters)
	}
}

func TestResolveDialMovesRelief(t *testing.T) {
	p := profile.DefaultProfile(device.HmdDK2)
	p.SetInt(profile.KeyEyeReliefDial, 10)
	ri := resolve(t, device.DebugInfo(device.HmdDK2), p, DefaultOptions())
	if !approx(ri.EyeLeft.ReliefInMeters, 0.018, 1e-6) {
		t.Errorf("relief at dial 10 = %v", ri.EyeLeft.ReliefInMeters)
	}
}

func TestResolveErrors(t *testing.T) {
	r := NewResolver(nil)
	if _, err := r.Resolve(device.Info{HmdType: device.HmdNone}, profile.New(""), DefaultOptions()); !errors.Is(err, ErrMissingCalibrationData) {
		t.Errorf("no plate distance: err = %v", err)
	}
	if _, err := r.Resolve(device.DebugInfo(device.HmdDK2), nil, Options{Distortion: lens.CatmullRom10, EyeCupOverride: EyeCup(42)}); !errors.Is(err, ErrUnknownEyeCup) {
		t.Errorf("bad override: err = %v", err)
	}
	if _, err := r.Resolve(device.DebugInfo(device.HmdDK2), nil, Options{Distortion: lens.Poly4}); !errors.Is(err, lens.ErrUnsupportedDistortionKind) {
		t.Errorf("poly4: err = %v", err)
	}
}

type managerDefaults struct{ calls int }

func (d *managerDefaults) DefaultProfile(t device.HmdType) *profile.Profile {
	d.calls++
	p := profile.DefaultProfile(t)
	p.SetFloats(profile.KeyEyeToNoseDistance, 0.03, 0.03)
	return p
}

func TestResolverUsesDefaults(t *testing.T) {
	d := &managerDefaults{}
	ri, err := NewResolver(d).Resolve(device.DebugInfo(device.HmdDK2), nil, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if d.calls != 1 || ri.EyeLeft.NoseToPupilInMeters != 0.03 {
		t.Errorf("defaults calls = %d, nose = %v", d.calls, ri.EyeLeft.NoseToPupilInMeters)
	}
}

func TestGenerateAtCalibratedRelief(t *testing.T) {
	tables := []struct {
		name  string
		table descriptorTable
	}{
		{"DK1", dk1Descriptors()},
		{"DKHD2", dkhd2Descriptors()},
		{"DK2", dk2Descriptors()},
	}
	for _, tt := range tables {
		t.Run(tt.name, func(t *testing.T) {
			for i, d := range tt.table.Descriptors {
				cfg, err := generateFromTable(d.EyeRelief, tt.table, lens.CatmullRom10)
				if err != nil {
					t.Fatalf("descriptor %d: %v", i, err)
				}
				if cfg.K != d.Config.K {
					t.Errorf("descriptor %d: K = %v, want %v", i, cfg.K, d.Config.K)
				}
				if cfg.MaxR != d.MaxRadius {
					t.Errorf("descriptor %d: MaxR = %v, want %v", i, cfg.MaxR, d.MaxRadius)
				}
				if cfg.ChromaticAberration != d.Config.ChromaticAberration {
					t.Errorf("descriptor %d: chroma = %v", i, cfg.ChromaticAberration)
				}
			}
		})
	}
}

func TestGenerateClampsRelief(t *testing.T) {
	for _, cup := range []EyeCup{EyeCupDK1A, EyeCupDKHD2A, EyeCupDK2A} {
		ri := RenderInfo{EyeCups: cup}
		ds := descriptorsFor(cup).Descriptors
		lowest, _ := GenerateLensConfigFromEyeRelief(ds[0].EyeRelief, ri, lens.CatmullRom10)
		below, err := GenerateLensConfigFromEyeRelief(-1, ri, lens.CatmullRom10)
		if err != nil {
			t.Fatal(err)
		}
		if below != lowest {
			t.Errorf("%v: relief -1 differs from lowest calibrated relief", cup)
		}
		highest, _ := GenerateLensConfigFromEyeRelief(ds[len(ds)-1].EyeRelief, ri, lens.CatmullRom10)
		above, _ := GenerateLensConfigFromEyeRelief(1, ri, lens.CatmullRom10)
		if above != highest {
			t.Errorf("%v: relief 1m differs from highest calibrated relief", cup)
		}
	}
}

func TestGenerateZeroReliefUsesDefault(t *testing.T) {
	table := dk2Descriptors()
	cfg, err := GenerateLensConfigFromEyeRelief(0, RenderInfo{EyeCups: EyeCupDK2A}, lens.CatmullRom10)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.ChromaticAberration != table.Descriptors[table.Default].Config.ChromaticAberration {
		t.Errorf("chroma = %v, want the default descriptor's", cfg.ChromaticAberration)
	}
}

func TestGenerateInterpolates(t *testing.T) {
	cfg, err := GenerateLensConfigFromEyeRelief(0.013, RenderInfo{EyeCups: EyeCupDK2A}, lens.CatmullRom10)
	if err != nil {
		t.Fatal(err)
	}
	// Halfway between 8mm and 18mm.
	if !approx(cfg.ChromaticAberration[0], -0.0131, 1e-6) {
		t.Errorf("chroma[0] = %v", cfg.ChromaticAberration[0])
	}
	if cfg.MaxInvR != cfg.DistortionForward(cfg.MaxR) {
		t.Errorf("MaxInvR = %v", cfg.MaxInvR)
	}
}

func TestGenerateInverseApproximation(t *testing.T) {
	for _, relief := range []float32{0.008, 0.011, 0.016} {
		cfg, err := GenerateLensConfigFromEyeRelief(relief, RenderInfo{EyeCups: EyeCupDK2A}, lens.CatmullRom10)
		if err != nil {
			t.Fatal(err)
		}
		for i := 1; i <= 20; i++ {
			r := cfg.MaxR * float32(i) / 20
			back, err := cfg.DistortionInverseApprox(cfg.DistortionForward(r))
			if err != nil {
				t.Fatal(err)
			}
			if !approx(back, r, 0.01*r) {
				t.Errorf("relief %v: inverse(forward(%v)) = %v", relief, r, back)
			}
		}
	}
}

func TestGenerateRecipPoly4(t *testing.T) {
	ri := RenderInfo{EyeCups: EyeCupOrangeA}
	cfg, err := GenerateLensConfigFromEyeRelief(0.007, ri, lens.RecipPoly4)
	if err != nil {
		t.Fatalf("fallback table: %v", err)
	}
	if cfg.Eqn != lens.RecipPoly4 || !approx(cfg.K[0], 1, 1e-5) {
		t.Errorf("cfg = %v, K = %v", cfg.Eqn, cfg.K)
	}
	for _, r := range []float32{0.2, 0.5, 0.9} {
		back, _ := cfg.DistortionInverseApprox(cfg.DistortionForward(r))
		if !approx(back, r, 0.02*r) {
			t.Errorf("inverse(forward(%v)) = %v", r, back)
		}
	}

	// Spline tables carry no sample radii to refit from.
	if _, err := GenerateLensConfigFromEyeRelief(0.01, RenderInfo{EyeCups: EyeCupDK2A}, lens.RecipPoly4); !errors.Is(err, lens.ErrDegenerateFit) {
		t.Errorf("recip on spline table: err = %v", err)
	}
	if _, err := GenerateLensConfigFromEyeRelief(0.01, ri, lens.Poly4); !errors.Is(err, lens.ErrUnsupportedDistortionKind) {
		t.Errorf("poly4: err = %v", err)
	}
}

func TestDescriptorOrder(t *testing.T) {
	bad := dk2Descriptors()
	bad.Descriptors[0], bad.Descriptors[1] = bad.Descriptors[1], bad.Descriptors[0]
	if _, err := generateFromTable(0.01, bad, lens.CatmullRom10); !errors.Is(err, ErrDescriptorOrder) {
		t.Errorf("err = %v, want ErrDescriptorOrder", err)
	}
	for _, cup := range []EyeCup{EyeCupDK1A, EyeCupDKHD2A, EyeCupDK2A, EyeCupBlueA} {
		if err := descriptorsFor(cup).validate(); err != nil {
			t.Errorf("%v table: %v", cup, err)
		}
	}
}

func TestSetEyeRelief(t *testing.T) {
	ri := resolve(t, device.DebugInfo(device.HmdDK2), nil, DefaultOptions())
	want, err := GenerateLensConfigFromEyeRelief(0.015, ri, lens.CatmullRom10)
	if err != nil {
		t.Fatal(err)
	}
	if err := ri.SetEyeRelief(0.015, lens.CatmullRom10); err != nil {
		t.Fatal(err)
	}
	if ri.EyeLeft.ReliefInMeters != 0.015 || ri.EyeRight.ReliefInMeters != 0.015 {
		t.Errorf("relief = %v / %v", ri.EyeLeft.ReliefInMeters, ri.EyeRight.ReliefInMeters)
	}
	if ri.EyeLeft.Distortion != want || ri.EyeRight.Distortion != want {
		t.Error("lens not regenerated for the new relief")
	}

	before := ri
	if err := ri.SetEyeRelief(0.01, lens.Poly4); !errors.Is(err, lens.ErrUnsupportedDistortionKind) {
		t.Errorf("err = %v, want ErrUnsupportedDistortionKind", err)
	}
	if ri != before {
		t.Error("failed SetEyeRelief modified the render info")
	}
}

func TestResolveUser(t *testing.T) {
	m := profile.NewManager(profile.JSONStore{Dir: t.TempDir()}, "")
	if _, err := m.CreateUser("ann", "Ann"); err != nil {
		t.Fatal(err)
	}
	p := profile.New("")
	p.SetFloat(profile.KeyIPD, 0.070)
	if err := m.SetTaggedProfile([]profile.Tag{{Name: profile.TagUser, Value: "ann"}}, p); err != nil {
		t.Fatal(err)
	}
	info := device.DebugInfo(device.HmdDK2)

	ri, err := ResolveUser(m, info, "ann", DefaultOptions())
	if err != nil {
		t.Fatalf("ResolveUser: %v", err)
	}
	if !approx(ri.EyeLeft.NoseToPupilInMeters, 0.035, 1e-6) {
		t.Errorf("nose to pupil = %v, want 0.035", ri.EyeLeft.NoseToPupilInMeters)
	}

	ri, err = ResolveUser(m, info, "", DefaultOptions())
	if err != nil {
		t.Fatalf("ResolveUser default: %v", err)
	}
	if !approx(ri.EyeLeft.NoseToPupilInMeters, profile.DefaultIPD/2, 1e-6) {
		t.Errorf("default nose to pupil = %v", ri.EyeLeft.NoseToPupilInMeters)
	}

	if _, err := ResolveUser(m, info, "nobody", DefaultOptions()); !errors.Is(err, profile.ErrUnknownUser) {
		t.Errorf("unknown user err = %v", err)
	}
}
