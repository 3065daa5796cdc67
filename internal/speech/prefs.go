// Package speech stores voicing preferences and drives the speech engine.
package speech

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/verte-zerg/saytui/internal/model"
	"github.com/verte-zerg/saytui/internal/store"
)

// MaxHistory is the number of recent texts kept.
const MaxHistory = 10

// Preference bounds.
const (
	MinPitch  = 0.0
	MaxPitch  = 2.0
	MinRate   = 0.1
	MaxRate   = 10.0
	MinVolume = 0.0
	MaxVolume = 1.0
)

// Option configures a Prefs.
type Option func(*Prefs)

// WithClock sets the time source for history timestamps.
func WithClock(now func() time.Time) Option {
	return func(p *Prefs) {
		if now != nil {
			p.now = now
		}
	}
}

// WithIDGenerator sets the history ID source.
func WithIDGenerator(gen func() string) Option {
	return func(p *Prefs) {
		if gen != nil {
			p.newID = gen
		}
	}
}

// WithLogger sets the logger used for persistence failures.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Prefs) {
		if logger != nil {
			p.log = logger
		}
	}
}

// Prefs holds the speech preferences and the recent history. Pitch, rate,
// volume and history each persist under their own key.
type Prefs struct {
	blobs   store.Blobs
	prefs   model.SpeechPrefs
	history []model.HistoryEntry
	stored  map[string]bool
	now     func() time.Time
	newID   func() string
	log     *slog.Logger
}

// NewPrefs returns neutral preferences with an empty history.
func NewPrefs(blobs store.Blobs, opts ...Option) *Prefs {
	p := &Prefs{
		blobs:  blobs,
		prefs:  model.DefaultSpeechPrefs(),
		stored: map[string]bool{},
		now:    time.Now,
		newID:  uuid.NewString,
		log:    slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Load reads every persisted key. A malformed value leaves that field at
// its default.
func (p *Prefs) Load(ctx context.Context) error {
	p.prefs = model.DefaultSpeechPrefs()
	p.history = nil
	p.stored = map[string]bool{}

	fields := []struct {
		key      string
		dst      *float64
		min, max float64
	}{
		{store.KeyPitch, &p.prefs.Pitch, MinPitch, MaxPitch},
		{store.KeyRate, &p.prefs.Rate, MinRate, MaxRate},
		{store.KeyVolume, &p.prefs.Volume, MinVolume, MaxVolume},
	}
	for _, f := range fields {
		raw, ok, err := p.blobs.Get(ctx, f.key)
		if err != nil {
			return fmt.Errorf("failed to load speech preferences: %w", err)
		}
		if !ok {
			continue
		}
		var v float64
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			p.log.Debug("Speech: ignoring malformed preference", "key", f.key, "error", err)
			continue
		}
		*f.dst = clamp(v, f.min, f.max)
		p.stored[f.key] = true
	}

	raw, ok, err := p.blobs.Get(ctx, store.KeyHistory)
	if err != nil {
		return fmt.Errorf("failed to load speech history: %w", err)
	}
	if ok {
		var entries []model.HistoryEntry
		if err := json.Unmarshal([]byte(raw), &entries); err != nil {
			p.log.Debug("Speech: ignoring malformed history", "error", err)
		} else {
			if len(entries) > MaxHistory {
				entries = entries[:MaxHistory]
			}
			p.history = entries
		}
	}
	return nil
}

// Prefs returns the current preferences.
func (p *Prefs) Prefs() model.SpeechPrefs {
	return p.prefs
}

// Stored reports whether key held a valid value at load time or has been
// written since.
func (p *Prefs) Stored(key string) bool {
	return p.stored[key]
}

// SetVoice selects the voice for this session.
func (p *Prefs) SetVoice(voice string) {
	p.prefs.Voice = strings.TrimSpace(voice)
}

// SetPitch stores pitch clamped to its bounds.
func (p *Prefs) SetPitch(v float64) {
	p.prefs.Pitch = clamp(v, MinPitch, MaxPitch)
	p.persist(store.KeyPitch, p.prefs.Pitch)
}

// SetRate stores rate clamped to its bounds.
func (p *Prefs) SetRate(v float64) {
	p.prefs.Rate = clamp(v, MinRate, MaxRate)
	p.persist(store.KeyRate, p.prefs.Rate)
}

// SetVolume stores volume clamped to its bounds.
func (p *Prefs) SetVolume(v float64) {
	p.prefs.Volume = clamp(v, MinVolume, MaxVolume)
	p.persist(store.KeyVolume, p.prefs.Volume)
}

// History returns the recent texts, newest first.
func (p *Prefs) History() []model.HistoryEntry {
	out := make([]model.HistoryEntry, len(p.history))
	copy(out, p.history)
	return out
}

// AddToHistory prepends text and drops the oldest entry past MaxHistory.
func (p *Prefs) AddToHistory(text, voice string) model.HistoryEntry {
	entry := model.HistoryEntry{
		ID:        p.newID(),
		Text:      text,
		Voice:     voice,
		Timestamp: p.now().UTC(),
	}
	p.history = append([]model.HistoryEntry{entry}, p.history...)
	if len(p.history) > MaxHistory {
		p.history = p.history[:MaxHistory]
	}
	p.persist(store.KeyHistory, p.history)
	return entry
}

// ClearHistory empties the history.
func (p *Prefs) ClearHistory() {
	p.history = nil
	p.persist(store.KeyHistory, []model.HistoryEntry{})
}

func (p *Prefs) persist(key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		p.log.Warn("Speech: encode failed", "key", key, "error", err)
		return
	}
	if err := p.blobs.Set(context.Background(), key, string(data)); err != nil {
		p.log.Warn("Speech: persist failed", "key", key, "error", err)
		return
	}
	p.stored[key] = true
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
