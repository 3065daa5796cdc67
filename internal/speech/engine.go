package speech

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"
	"os/exec"
	"strconv"
	"strings"

	"github.com/verte-zerg/saytui/internal/model"
)

// DefaultCommand is the speech engine used when none is configured.
const DefaultCommand = "espeak-ng"

// ErrEmptyText is returned when there is nothing to speak.
var ErrEmptyText = errors.New("nothing to speak")

// Synthesizer speaks text and returns when speech ends or ctx is cancelled.
type Synthesizer interface {
	Speak(ctx context.Context, text string, prefs model.SpeechPrefs) error
}

// CommandSynthesizer runs an espeak-compatible command. Text is written to
// its standard input.
type CommandSynthesizer struct {
	name string
	args []string
}

// NewCommandSynthesizer parses command into a program and leading arguments.
// An empty command selects DefaultCommand.
func NewCommandSynthesizer(command string) *CommandSynthesizer {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		fields = []string{DefaultCommand}
	}
	return &CommandSynthesizer{name: fields[0], args: fields[1:]}
}

// Name returns the program that will be run.
func (c *CommandSynthesizer) Name() string {
	return c.name
}

// Args returns the full argument list for prefs.
func (c *CommandSynthesizer) Args(prefs model.SpeechPrefs) []string {
	args := append([]string{}, c.args...)
	if prefs.Voice != "" {
		args = append(args, "-v", prefs.Voice)
	}
	wpm := int(math.Round(175 * prefs.Rate))
	pitch := int(math.Round(50 * prefs.Pitch))
	if pitch > 99 {
		pitch = 99
	}
	amplitude := int(math.Round(100 * prefs.Volume))
	args = append(args,
		"-s", strconv.Itoa(max(wpm, 1)),
		"-p", strconv.Itoa(max(pitch, 0)),
		"-a", strconv.Itoa(max(amplitude, 0)),
		"--stdin",
	)
	return args
}

// Speak implements Synthesizer.
func (c *CommandSynthesizer) Speak(ctx context.Context, text string, prefs model.SpeechPrefs) error {
	if strings.TrimSpace(text) == "" {
		return ErrEmptyText
	}
	cmd := exec.CommandContext(ctx, c.name, c.Args(prefs)...)
	cmd.Stdin = strings.NewReader(text)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return fmt.Errorf("failed to run %s: %w: %s", c.name, err, msg)
		}
		return fmt.Errorf("failed to run %s: %w", c.name, err)
	}
	return nil
}
