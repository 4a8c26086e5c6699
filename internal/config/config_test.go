package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/san-kum/lessonlab/internal/lessons"
	"github.com/san-kum/lessonlab/internal/widgets"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Lesson != "planck_law" {
		t.Errorf("expected lesson planck_law, got %s", cfg.Lesson)
	}
	if cfg.Output.Width <= 0 || cfg.Output.Height <= 0 {
		t.Error("output size should be positive")
	}
	if cfg.Output.Backend != "gonum" {
		t.Errorf("expected gonum backend, got %s", cfg.Output.Backend)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lesson.yaml")
	cfg := DefaultConfig()
	cfg.Lesson = "young_slits"
	cfg.Params = map[string]float64{"lambda": 500, "a": 2}
	cfg.Hidden = []string{"envelope"}

	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(cfg, got); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lesson.yaml")
	if err := os.WriteFile(path, []byte("lesson: sampling\nparams:\n  fs: 12\noutput:\n  format: svg\n"), 0644); err != nil {
		t.Fatal(err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	want := DefaultConfig()
	want.Lesson = "sampling"
	want.Params = map[string]float64{"fs": 12}
	want.Output.Format = "svg"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lesson.yaml")
	if err := os.WriteFile(path, []byte("params: [1, 2\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("planck_law", "sun")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Params["T"] != 5800 {
		t.Errorf("expected T 5800, got %f", cfg.Params["T"])
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if cfg := GetPreset("planck_law", "nonexistent"); cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}
	if cfg := GetPreset("nonexistent", "sun"); cfg != nil {
		t.Error("expected nil for nonexistent lesson")
	}
}

func TestListPresets(t *testing.T) {
	presets := ListPresets("kepler_orbits")
	if diff := cmp.Diff([]string{"binary", "comet", "earth"}, presets); diff != "" {
		t.Errorf("presets mismatch (-want +got):\n%s", diff)
	}
	if presets := ListPresets("nonexistent"); presets != nil {
		t.Error("expected nil for nonexistent lesson")
	}
}

func TestPresetsAreInRange(t *testing.T) {
	reg := lessons.Default()
	for name, presets := range Presets {
		l, err := reg.Get(name)
		if err != nil {
			t.Fatal(err)
		}
		for preset, cfg := range presets {
			if cfg.Lesson != name {
				t.Errorf("%s/%s: lesson field is %s", name, preset, cfg.Lesson)
			}
			p := l.Params()
			for _, param := range cfg.ParamNames() {
				if err := p.Set(param, cfg.Params[param]); err != nil {
					t.Errorf("%s/%s: %v", name, preset, err)
				}
			}
		}
	}
}

func TestApply(t *testing.T) {
	s, err := widgets.NewSession(lessons.NewPlanckLaw())
	if err != nil {
		t.Fatal(err)
	}
	cfg := &Config{
		Params: map[string]float64{"T": 3000},
		Hidden: []string{"Planck"},
		LogY:   true,
	}
	if err := cfg.Apply(s); err != nil {
		t.Fatal(err)
	}

	if got := s.Values().Get("T"); got != 3000 {
		t.Errorf("expected T 3000, got %f", got)
	}
	if !s.Figure().Series("Planck").Hidden {
		t.Error("expected Planck hidden")
	}
	if !s.LogY() || !s.Figure().Panels[0].LogY {
		t.Error("expected log axis")
	}

	var visible []string
	for _, g := range s.Groups() {
		if g.Visible {
			visible = append(visible, g.Name)
		}
	}
	if len(visible) != 0 {
		t.Errorf("expected no visible group, got %v", visible)
	}
}

func TestApplyRejectsUnknownNames(t *testing.T) {
	s, err := widgets.NewSession(lessons.NewPlanckLaw())
	if err != nil {
		t.Fatal(err)
	}
	if err := (&Config{Params: map[string]float64{"nope": 1}}).Apply(s); err == nil {
		t.Error("expected error for unknown parameter")
	}
	if err := (&Config{Hidden: []string{"nope"}}).Apply(s); err == nil {
		t.Error("expected error for unknown group")
	}
}

func TestApplyRejectsBeforeChanging(t *testing.T) {
	s, err := widgets.NewSession(lessons.NewPlanckLaw())
	if err != nil {
		t.Fatal(err)
	}
	before := s.Figure()
	cfg := &Config{
		Params: map[string]float64{"T": 3000},
		Hidden: []string{"Planck", "nope"},
		LogY:   true,
	}
	if err := cfg.Apply(s); !errors.Is(err, widgets.ErrUnknownGroup) {
		t.Fatalf("expected ErrUnknownGroup, got %v", err)
	}
	if got := s.Values().Get("T"); got != 5800 {
		t.Errorf("expected T untouched at 5800, got %f", got)
	}
	if s.Figure() != before {
		t.Error("expected no redraw")
	}
	if s.LogY() {
		t.Error("expected linear axis")
	}

	young, err := widgets.NewSession(lessons.NewYoungSlits())
	if err != nil {
		t.Fatal(err)
	}
	err = (&Config{Params: map[string]float64{"L": 2}, LogY: true}).Apply(young)
	if !errors.Is(err, widgets.ErrNoLogAxis) {
		t.Fatalf("expected ErrNoLogAxis, got %v", err)
	}
	if got := young.Values().Get("L"); got != 1 {
		t.Errorf("expected L untouched at 1, got %f", got)
	}
}

func TestWatch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lesson.yaml")
	cfg := DefaultConfig()
	cfg.Params = map[string]float64{"T": 1000}
	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}

	var mu sync.Mutex
	var seen []float64
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error)
	go func() {
		done <- Watch(ctx, path, func(c *Config) {
			mu.Lock()
			defer mu.Unlock()
			seen = append(seen, c.Params["T"])
		}, nil)
	}()

	last := func() (float64, bool) {
		mu.Lock()
		defer mu.Unlock()
		if len(seen) == 0 {
			return 0, false
		}
		return seen[len(seen)-1], true
	}

	// The watch is registered asynchronously; keep rewriting until seen.
	deadline := time.Now().Add(5 * time.Second)
	for {
		if v, ok := last(); ok && v == 2000 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("config change not observed")
		}
		cfg.Params["T"] = 2000
		if err := Save(path, cfg); err != nil {
			t.Fatal(err)
		}
		time.Sleep(3 * debounce)
	}

	// unrelated files are ignored
	if err := os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("lesson: x\n"), 0644); err != nil {
		t.Fatal(err)
	}
	time.Sleep(3 * debounce)

	cancel()
	if err := <-done; err != nil {
		t.Fatal(err)
	}
	if v, _ := last(); v != 2000 {
		t.Errorf("expected last value 2000 after unrelated write, got %f", v)
	}
}
