// Package settings holds presentation preferences and persists them on change.
package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/saytui/internal/model"
	"github.com/verte-zerg/saytui/internal/store"
)

// ErrInvalidTheme is returned by SetTheme for modes outside light, dark and system.
var ErrInvalidTheme = errors.New("invalid theme")

// Option configures a Store.
type Option func(*Store)

// WithDarkDetector sets the host color-scheme detector used to resolve the
// system theme. It is consulted on every IsDark call.
func WithDarkDetector(detect func() bool) Option {
	return func(s *Store) {
		if detect != nil {
			s.darkDetector = detect
		}
	}
}

// WithAppearanceHook registers fn to be called with the effective dark state
// whenever the theme is applied.
func WithAppearanceHook(fn func(dark bool)) Option {
	return func(s *Store) {
		s.onAppearance = fn
	}
}

// WithLogger sets the logger used for persistence failures.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.log = logger
		}
	}
}

// Store owns the settings state.
type Store struct {
	blobs        store.Blobs
	state        model.SettingsState
	darkDetector func() bool
	onAppearance func(dark bool)
	log          *slog.Logger
}

// New returns a Store holding the compiled-in defaults.
func New(blobs store.Blobs, opts ...Option) *Store {
	s := &Store{
		blobs:        blobs,
		state:        model.DefaultSettings(),
		darkDetector: lipgloss.HasDarkBackground,
		log:          slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load replaces the state with the persisted blob merged over the defaults.
// Missing or malformed blobs yield the defaults. Only read failures are
// returned, and the defaults are in effect when that happens.
func (s *Store) Load(ctx context.Context) error {
	raw, ok, err := s.blobs.Get(ctx, store.KeySettings)
	if err != nil {
		s.state = model.DefaultSettings()
		s.applyAppearance()
		return fmt.Errorf("failed to load settings: %w", err)
	}
	if ok {
		s.state = decode(raw)
	} else {
		s.state = model.DefaultSettings()
	}
	s.applyAppearance()
	return nil
}

func decode(raw string) model.SettingsState {
	state := model.DefaultSettings()
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		return model.DefaultSettings()
	}
	if !state.Theme.Valid() {
		state.Theme = model.DefaultSettings().Theme
	}
	return state
}

// State returns a copy of the current settings.
func (s *Store) State() model.SettingsState {
	return s.state
}

// Theme returns the selected theme mode.
func (s *Store) Theme() model.ThemeMode {
	return s.state.Theme
}

// ThemeLabel returns the capitalized theme name.
func (s *Store) ThemeLabel() string {
	t := string(s.state.Theme)
	if t == "" {
		return ""
	}
	return strings.ToUpper(t[:1]) + t[1:]
}

// IsDark reports the effective color scheme. The system mode is resolved
// against the host on each call.
func (s *Store) IsDark() bool {
	switch s.state.Theme {
	case model.ThemeDark:
		return true
	case model.ThemeSystem:
		return s.darkDetector()
	default:
		return false
	}
}

// SoundEnabled reports whether audio feedback is on.
func (s *Store) SoundEnabled() bool {
	return s.state.SoundEnabled
}

// ShowHelp reports whether the help panel is visible.
func (s *Store) ShowHelp() bool {
	return s.state.ShowHelp
}

// MotionReduced reports whether the view should suppress animation.
func (s *Store) MotionReduced() bool {
	return s.state.ReducedMotion || !s.state.AnimationsEnabled
}

// SetTheme selects mode and applies the effective color scheme.
func (s *Store) SetTheme(mode model.ThemeMode) error {
	if !mode.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidTheme, mode)
	}
	s.update(func(st *model.SettingsState) { st.Theme = mode })
	s.applyAppearance()
	return nil
}

// ToggleTheme advances light, dark, system, light.
func (s *Store) ToggleTheme() {
	// Next always yields a valid mode.
	_ = s.SetTheme(s.state.Theme.Next())
}

// SetSoundEnabled turns audio feedback on or off.
func (s *Store) SetSoundEnabled(enabled bool) {
	s.update(func(st *model.SettingsState) { st.SoundEnabled = enabled })
}

// ToggleSound flips audio feedback.
func (s *Store) ToggleSound() {
	s.SetSoundEnabled(!s.state.SoundEnabled)
}

// SetAnimationsEnabled turns animations on or off.
func (s *Store) SetAnimationsEnabled(enabled bool) {
	s.update(func(st *model.SettingsState) { st.AnimationsEnabled = enabled })
}

// ToggleAnimations flips animations.
func (s *Store) ToggleAnimations() {
	s.SetAnimationsEnabled(!s.state.AnimationsEnabled)
}

// ToggleHelp flips help visibility.
func (s *Store) ToggleHelp() {
	s.update(func(st *model.SettingsState) { st.ShowHelp = !st.ShowHelp })
}

// HideHelp hides the help panel.
func (s *Store) HideHelp() {
	s.update(func(st *model.SettingsState) { st.ShowHelp = false })
}

// Export renders the state as indented JSON.
func (s *Store) Export() string {
	data, err := json.MarshalIndent(s.state, "", "  ")
	if err != nil {
		// SettingsState has only plain fields.
		return "{}"
	}
	return string(data)
}

// Reset restores the defaults and reapplies the color scheme.
func (s *Store) Reset() {
	s.update(func(st *model.SettingsState) { *st = model.DefaultSettings() })
	s.applyAppearance()
}

func (s *Store) update(mutate func(*model.SettingsState)) {
	prev := s.state
	mutate(&s.state)
	if s.state == prev {
		return
	}
	s.persist()
}

func (s *Store) persist() {
	data, err := json.Marshal(s.state)
	if err != nil {
		s.log.Warn("Settings: encode failed", "error", err)
		return
	}
	if err := s.blobs.Set(context.Background(), store.KeySettings, string(data)); err != nil {
		s.log.Warn("Settings: persist failed", "error", err)
	}
}

func (s *Store) applyAppearance() {
	if s.onAppearance != nil {
		s.onAppearance(s.IsDark())
	}
}
