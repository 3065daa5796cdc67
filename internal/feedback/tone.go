package feedback

import (
	"math"
	"time"

	"github.com/gopxl/beep/v2"
)

type waveform int

const (
	sine waveform = iota
	sawtooth
)

// tone is a single oscillator with a frequency sweep and an exponential gain
// envelope. It drains after its duration.
type tone struct {
	wave     waveform
	from, to float64
	linear   bool
	gainFrom float64
	gainTo   float64
	rate     float64
	total    int

	pos   int
	phase float64
}

func newTone(sr beep.SampleRate, wave waveform, from, to float64, linear bool, gainFrom, gainTo float64, d time.Duration) *tone {
	return &tone{
		wave:     wave,
		from:     from,
		to:       to,
		linear:   linear,
		gainFrom: gainFrom,
		gainTo:   gainTo,
		rate:     float64(sr),
		total:    sr.N(d),
	}
}

func (t *tone) Stream(samples [][2]float64) (n int, ok bool) {
	if t.pos >= t.total {
		return 0, false
	}
	for i := range samples {
		if t.pos >= t.total {
			break
		}
		p := float64(t.pos) / float64(t.total)
		v := t.sample() * ramp(t.gainFrom, t.gainTo, p)
		samples[i][0] = v
		samples[i][1] = v

		t.phase += t.frequency(p) / t.rate
		t.phase -= math.Floor(t.phase)
		t.pos++
		n++
	}
	return n, true
}

func (t *tone) Err() error {
	return nil
}

func (t *tone) sample() float64 {
	if t.wave == sawtooth {
		return 2*t.phase - 1
	}
	return math.Sin(2 * math.Pi * t.phase)
}

func (t *tone) frequency(p float64) float64 {
	if t.linear {
		return t.from + (t.to-t.from)*p
	}
	return ramp(t.from, t.to, p)
}

// ramp interpolates exponentially between two positive values.
func ramp(from, to, p float64) float64 {
	if from <= 0 || to <= 0 {
		return from + (to-from)*p
	}
	return from * math.Pow(to/from, p)
}
