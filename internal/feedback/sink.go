// Package feedback plays short synthesized tones for UI events.
package feedback

import (
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/speaker"
)

// Category selects a tone.
type Category string

// Tone categories.
const (
	Click   Category = "click"
	Hover   Category = "hover"
	Success Category = "success"
	Error   Category = "error"
)

const (
	DefaultSampleRate = beep.SampleRate(44100)
	DefaultMasterGain = 0.3
)

// Gate reports whether sound is enabled. The settings store satisfies it.
type Gate interface {
	SoundEnabled() bool
}

// Output plays a finished streamer.
type Output interface {
	Play(s beep.Streamer) error
}

type speakerOutput struct {
	sr   beep.SampleRate
	once sync.Once
	err  error
}

// NewSpeakerOutput returns an Output backed by the system speaker. The
// speaker is initialized on first use.
func NewSpeakerOutput(sr beep.SampleRate) Output {
	return &speakerOutput{sr: sr}
}

func (o *speakerOutput) Play(s beep.Streamer) error {
	o.once.Do(func() {
		o.err = speaker.Init(o.sr, o.sr.N(time.Second/10))
	})
	if o.err != nil {
		return fmt.Errorf("failed to initialize speaker: %w", o.err)
	}
	speaker.Play(s)
	return nil
}

// Option configures a Sink.
type Option func(*Sink)

// WithOutput replaces the speaker output.
func WithOutput(out Output) Option {
	return func(s *Sink) {
		s.out = out
	}
}

// WithSampleRate sets the synthesis rate.
func WithSampleRate(sr beep.SampleRate) Option {
	return func(s *Sink) {
		if sr > 0 {
			s.sr = sr
		}
	}
}

// WithMasterGain sets the linear gain applied to every tone.
func WithMasterGain(gain float64) Option {
	return func(s *Sink) {
		if gain >= 0 {
			s.master = gain
		}
	}
}

// WithLogger sets the logger used for playback failures.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Sink) {
		if logger != nil {
			s.log = logger
		}
	}
}

// Sink is the notification sink. Notify never blocks and never fails.
type Sink struct {
	gate   Gate
	out    Output
	sr     beep.SampleRate
	master float64
	log    *slog.Logger
	wg     sync.WaitGroup
}

// New returns a Sink gated on gate. A nil gate always plays.
func New(gate Gate, opts ...Option) *Sink {
	s := &Sink{
		gate:   gate,
		sr:     DefaultSampleRate,
		master: DefaultMasterGain,
		log:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.out == nil {
		s.out = NewSpeakerOutput(s.sr)
	}
	return s
}

// Notify plays the tone for cat in the background. Nothing plays while sound
// is disabled.
func (s *Sink) Notify(cat Category) {
	if s.gate != nil && !s.gate.SoundEnabled() {
		return
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				s.log.Warn("Feedback: playback panicked", "category", cat, "panic", r)
			}
		}()
		if err := s.play(cat); err != nil {
			s.log.Warn("Feedback: playback failed", "category", cat, "error", err)
		}
	}()
}

// Wait blocks until every scheduled tone has been handed to the output.
func (s *Sink) Wait() {
	s.wg.Wait()
}

func (s *Sink) play(cat Category) error {
	st, err := s.Streamer(cat)
	if err != nil {
		return err
	}
	return s.out.Play(st)
}

// Streamer builds the tone for cat with the master gain applied.
func (s *Sink) Streamer(cat Category) (beep.Streamer, error) {
	var st beep.Streamer
	switch cat {
	case Click:
		st = newTone(s.sr, sine, 800, 400, false, 0.3, 0.01, 100*time.Millisecond)
	case Hover:
		st = newTone(s.sr, sine, 600, 600, false, 0.1, 0.01, 50*time.Millisecond)
	case Success:
		st = s.chord()
	case Error:
		st = newTone(s.sr, sawtooth, 150, 100, true, 0.2, 0.01, 200*time.Millisecond)
	default:
		return nil, fmt.Errorf("unknown feedback category %q", cat)
	}
	return &effects.Volume{
		Streamer: st,
		Base:     2,
		Volume:   math.Log2(math.Max(s.master, 1e-6)),
		Silent:   s.master <= 0,
	}, nil
}

// chord arpeggiates C5, E5 and G5.
func (s *Sink) chord() beep.Streamer {
	notes := []float64{523.25, 659.25, 783.99}
	parts := make([]beep.Streamer, 0, len(notes))
	for i, f := range notes {
		offset := time.Duration(i) * 100 * time.Millisecond
		parts = append(parts, beep.Seq(
			beep.Silence(s.sr.N(offset)),
			newTone(s.sr, sine, f, f, false, 0.2, 0.01, 150*time.Millisecond),
		))
	}
	return beep.Mix(parts...)
}
