package stats

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/verte-zerg/saytui/internal/model"
	"github.com/verte-zerg/saytui/internal/store"
)

// Store owns the usage counters and persists them on every change.
type Store struct {
	blobs store.Blobs
	state model.StatsState
	now   func() time.Time
	log   *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithClock sets the time source used for lastVisit.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
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

// NewStore returns a Store with all counters at zero.
func NewStore(blobs store.Blobs, opts ...Option) *Store {
	s := &Store{
		blobs: blobs,
		now:   time.Now,
		log:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load replaces the counters with the persisted blob merged over the zero
// state. Missing or malformed blobs yield the zero state.
func (s *Store) Load(ctx context.Context) error {
	raw, ok, err := s.blobs.Get(ctx, store.KeyStats)
	if err != nil {
		s.state = model.StatsState{}
		return fmt.Errorf("failed to load stats: %w", err)
	}
	if !ok {
		s.state = model.StatsState{}
		return nil
	}
	s.state = decode(raw)
	return nil
}

func decode(raw string) model.StatsState {
	var state model.StatsState
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		return model.StatsState{}
	}
	for _, c := range []*int64{
		&state.Visits,
		&state.TotalClicks,
		&state.SpeechGenerations,
		&state.TotalCharactersSpoken,
		&state.ThemeSwitches,
		&state.SettingsOpened,
		&state.KeyboardShortcutsUsed,
	} {
		if *c < 0 {
			*c = 0
		}
	}
	return state
}

// State returns a copy of the counters.
func (s *Store) State() model.StatsState {
	return s.state
}

// Summary returns the reporting projection of the counters.
func (s *Store) Summary() model.StatsSummary {
	st := s.state
	return model.StatsSummary{
		TotalVisits:       st.Visits,
		TotalClicks:       st.TotalClicks,
		SpeechGenerations: st.SpeechGenerations,
		CharactersSpoken:  st.TotalCharactersSpoken,
		ThemeSwitches:     st.ThemeSwitches,
		ShortcutsUsed:     st.KeyboardShortcutsUsed,
	}
}

// RecordVisit counts a visit and stamps lastVisit.
func (s *Store) RecordVisit() {
	s.state.Visits++
	s.state.LastVisit = s.now().UTC().Format(time.RFC3339Nano)
	s.persist()
}

// RecordClick counts a click.
func (s *Store) RecordClick() {
	s.state.TotalClicks++
	s.persist()
}

// RecordSpeechGeneration counts one generation of characters runes.
// Negative counts are ignored entirely.
func (s *Store) RecordSpeechGeneration(characters int) {
	if characters < 0 {
		s.log.Debug("Stats: negative character count ignored", "characters", characters)
		return
	}
	s.state.SpeechGenerations++
	s.state.TotalCharactersSpoken += int64(characters)
	s.persist()
}

// RecordThemeSwitch counts a theme change.
func (s *Store) RecordThemeSwitch() {
	s.state.ThemeSwitches++
	s.persist()
}

// RecordSettingsOpen counts a help or settings panel toggle.
func (s *Store) RecordSettingsOpen() {
	s.state.SettingsOpened++
	s.persist()
}

// RecordKeyboardShortcut counts a recognized shortcut.
func (s *Store) RecordKeyboardShortcut() {
	s.state.KeyboardShortcutsUsed++
	s.persist()
}

// Export renders the counters as indented JSON.
func (s *Store) Export() string {
	data, err := json.MarshalIndent(s.state, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(data)
}

// Reset zeroes every counter and clears lastVisit.
func (s *Store) Reset() {
	s.state = model.StatsState{}
	s.persist()
}

func (s *Store) persist() {
	data, err := json.Marshal(s.state)
	if err != nil {
		s.log.Warn("Stats: encode failed", "error", err)
		return
	}
	if err := s.blobs.Set(context.Background(), store.KeyStats, string(data)); err != nil {
		s.log.Warn("Stats: persist failed", "error", err)
	}
}
