package speech

import (
	"context"
	"log/slog"
	"sync"

	"github.com/verte-zerg/saytui/internal/model"
)

// Player runs one utterance at a time on a Synthesizer.
type Player struct {
	synth Synthesizer
	log   *slog.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	gen    uint64
	wg     sync.WaitGroup
}

// NewPlayer returns an idle Player.
func NewPlayer(synth Synthesizer, logger *slog.Logger) *Player {
	if logger == nil {
		logger = slog.Default()
	}
	return &Player{synth: synth, log: logger}
}

// Speaking reports whether an utterance is in progress.
func (p *Player) Speaking() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cancel != nil
}

// Start speaks text in the background, cancelling any current utterance.
// done receives the result from the speaking goroutine; a cancelled
// utterance reports context.Canceled.
func (p *Player) Start(text string, prefs model.SpeechPrefs, done func(error)) {
	p.mu.Lock()
	if p.cancel != nil {
		p.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	p.gen++
	gen := p.gen
	p.cancel = cancel
	p.mu.Unlock()

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		err := p.synth.Speak(ctx, text, prefs)
		cancel()

		p.mu.Lock()
		if p.gen == gen {
			p.cancel = nil
		}
		p.mu.Unlock()

		if err != nil {
			p.log.Debug("Speech: utterance ended", "error", err)
		}
		if done != nil {
			done(err)
		}
	}()
}

// Toggle starts text when idle and cancels when speaking. It reports
// whether speech was started.
func (p *Player) Toggle(text string, prefs model.SpeechPrefs, done func(error)) bool {
	if p.Cancel() {
		return false
	}
	p.Start(text, prefs, done)
	return true
}

// Cancel stops the current utterance and reports whether one was running.
func (p *Player) Cancel() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel == nil {
		return false
	}
	p.cancel()
	p.cancel = nil
	return true
}

// Wait blocks until every started utterance has finished.
func (p *Player) Wait() {
	p.wg.Wait()
}
