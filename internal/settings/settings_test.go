package settings

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/verte-zerg/saytui/internal/model"
	"github.com/verte-zerg/saytui/internal/store"
)

func newTestStore(t *testing.T, dark bool) (*Store, *store.Memory) {
	t.Helper()
	mem := store.NewMemory()
	return New(mem, WithDarkDetector(func() bool { return dark })), mem
}

func TestSetThemeValid(t *testing.T) {
	for _, mode := range []model.ThemeMode{model.ThemeLight, model.ThemeDark, model.ThemeSystem} {
		s, _ := newTestStore(t, false)
		if err := s.SetTheme(mode); err != nil {
			t.Fatalf("set theme %s: %v", mode, err)
		}
		if s.Theme() != mode {
			t.Fatalf("expected theme %s, got %s", mode, s.Theme())
		}
	}
}

func TestSetThemeRejectsUnknown(t *testing.T) {
	s, mem := newTestStore(t, false)
	err := s.SetTheme("sepia")
	if !errors.Is(err, ErrInvalidTheme) {
		t.Fatalf("expected ErrInvalidTheme, got %v", err)
	}
	if s.Theme() != model.ThemeSystem {
		t.Fatalf("expected theme unchanged, got %s", s.Theme())
	}
	if mem.Writes(store.KeySettings) != 0 {
		t.Fatalf("expected no write for rejected theme")
	}
}

func TestToggleThemeCycles(t *testing.T) {
	s, _ := newTestStore(t, false)
	expected := []model.ThemeMode{model.ThemeLight, model.ThemeDark, model.ThemeSystem}
	for i, want := range expected {
		s.ToggleTheme()
		if s.Theme() != want {
			t.Fatalf("step %d: expected %s, got %s", i, want, s.Theme())
		}
	}
	for _, start := range expected {
		if err := s.SetTheme(start); err != nil {
			t.Fatalf("set theme: %v", err)
		}
		for i := 0; i < 3; i++ {
			s.ToggleTheme()
		}
		if s.Theme() != start {
			t.Fatalf("expected 3-cycle back to %s, got %s", start, s.Theme())
		}
	}
}

func TestIsDarkResolvesSystemOnRead(t *testing.T) {
	hostDark := false
	s := New(store.NewMemory(), WithDarkDetector(func() bool { return hostDark }))
	if s.IsDark() {
		t.Fatalf("expected light while host is light")
	}
	hostDark = true
	if !s.IsDark() {
		t.Fatalf("expected system theme to follow host change")
	}
	if err := s.SetTheme(model.ThemeLight); err != nil {
		t.Fatalf("set theme: %v", err)
	}
	if s.IsDark() {
		t.Fatalf("expected explicit light to ignore host")
	}
}

func TestAppearanceHook(t *testing.T) {
	var applied []bool
	s := New(store.NewMemory(),
		WithDarkDetector(func() bool { return true }),
		WithAppearanceHook(func(dark bool) { applied = append(applied, dark) }))
	if err := s.SetTheme(model.ThemeLight); err != nil {
		t.Fatalf("set theme: %v", err)
	}
	s.Reset()
	if len(applied) != 2 || applied[0] || !applied[1] {
		t.Fatalf("unexpected appearance calls: %v", applied)
	}
}

func TestMutatorsPersistOnlyOnChange(t *testing.T) {
	s, mem := newTestStore(t, false)
	s.SetSoundEnabled(true)
	s.HideHelp()
	if mem.Writes(store.KeySettings) != 0 {
		t.Fatalf("expected idempotent setters not to write")
	}
	s.ToggleSound()
	s.ToggleAnimations()
	s.ToggleHelp()
	if mem.Writes(store.KeySettings) != 3 {
		t.Fatalf("expected 3 writes, got %d", mem.Writes(store.KeySettings))
	}
	raw, ok, _ := mem.Get(context.Background(), store.KeySettings)
	if !ok {
		t.Fatalf("expected persisted blob")
	}
	var persisted model.SettingsState
	if err := json.Unmarshal([]byte(raw), &persisted); err != nil {
		t.Fatalf("decode persisted: %v", err)
	}
	if persisted != s.State() {
		t.Fatalf("expected full state persisted, got %+v", persisted)
	}
	if !s.MotionReduced() {
		t.Fatalf("expected disabled animations to reduce motion")
	}
}

func TestLoadMalformedYieldsDefaults(t *testing.T) {
	s, mem := newTestStore(t, false)
	ctx := context.Background()
	if err := mem.Set(ctx, store.KeySettings, "not-json"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	s.ToggleHelp()
	if err := s.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}
	if s.State() != model.DefaultSettings() {
		t.Fatalf("expected defaults, got %+v", s.State())
	}
}

func TestLoadMergesOverDefaults(t *testing.T) {
	s, mem := newTestStore(t, false)
	ctx := context.Background()
	if err := mem.Set(ctx, store.KeySettings, `{"theme":"dark","showHelp":true,"fontSize":14}`); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := s.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}
	want := model.DefaultSettings()
	want.Theme = model.ThemeDark
	want.ShowHelp = true
	if s.State() != want {
		t.Fatalf("expected %+v, got %+v", want, s.State())
	}
}

func TestLoadUnknownThemeFallsBack(t *testing.T) {
	s, mem := newTestStore(t, false)
	ctx := context.Background()
	if err := mem.Set(ctx, store.KeySettings, `{"theme":"sepia","soundEnabled":false}`); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := s.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}
	if s.Theme() != model.ThemeSystem {
		t.Fatalf("expected default theme, got %s", s.Theme())
	}
	if s.SoundEnabled() {
		t.Fatalf("expected stored soundEnabled to survive")
	}
}

func TestLoadReducedMotion(t *testing.T) {
	s, mem := newTestStore(t, false)
	ctx := context.Background()
	if err := mem.Set(ctx, store.KeySettings, `{"reducedMotion":true}`); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := s.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}
	if !s.MotionReduced() {
		t.Fatalf("expected motion reduced after load")
	}
}

func TestExportRoundTrip(t *testing.T) {
	s, _ := newTestStore(t, false)
	if err := s.SetTheme(model.ThemeLight); err != nil {
		t.Fatalf("set theme: %v", err)
	}
	s.ToggleSound()
	s.ToggleHelp()
	exported := s.Export()

	other, mem := newTestStore(t, false)
	ctx := context.Background()
	if err := mem.Set(ctx, store.KeySettings, exported); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := other.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}
	if other.State() != s.State() {
		t.Fatalf("expected round trip %+v, got %+v", s.State(), other.State())
	}
}

func TestResetMatchesFreshStore(t *testing.T) {
	s, _ := newTestStore(t, false)
	if err := s.SetTheme(model.ThemeDark); err != nil {
		t.Fatalf("set theme: %v", err)
	}
	s.ToggleSound()
	s.ToggleAnimations()
	s.ToggleHelp()
	s.Reset()
	fresh, _ := newTestStore(t, false)
	if s.Export() != fresh.Export() {
		t.Fatalf("expected reset export to equal fresh export:\n%s\n%s", s.Export(), fresh.Export())
	}
}

func TestThemeLabel(t *testing.T) {
	s, _ := newTestStore(t, false)
	if s.ThemeLabel() != "System" {
		t.Fatalf("expected System, got %q", s.ThemeLabel())
	}
	s.ToggleTheme()
	if s.ThemeLabel() != "Light" {
		t.Fatalf("expected Light, got %q", s.ThemeLabel())
	}
}
