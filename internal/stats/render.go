package stats

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/verte-zerg/saytui/internal/model"
)

// Export formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// RenderSummary prints the counters as a two-column table.
func RenderSummary(w io.Writer, state model.StatsState) error {
	if _, err := fmt.Fprintln(w, "Usage"); err != nil {
		return err
	}
	lastVisit := "never"
	if state.LastVisit != "" {
		lastVisit = state.LastVisit
		if parsed, err := time.Parse(time.RFC3339Nano, state.LastVisit); err == nil {
			lastVisit = parsed.Local().Format("2006-01-02 15:04")
		}
	}
	rows := [][]string{
		{"Visits", strconv.FormatInt(state.Visits, 10)},
		{"Last visit", lastVisit},
		{"Clicks", strconv.FormatInt(state.TotalClicks, 10)},
		{"Speech generations", strconv.FormatInt(state.SpeechGenerations, 10)},
		{"Characters spoken", strconv.FormatInt(state.TotalCharactersSpoken, 10)},
		{"Theme switches", strconv.FormatInt(state.ThemeSwitches, 10)},
		{"Settings opened", strconv.FormatInt(state.SettingsOpened, 10)},
		{"Shortcuts used", strconv.FormatInt(state.KeyboardShortcutsUsed, 10)},
	}
	lines := formatTable([]string{"Metric", "Value"}, rows, map[int]bool{1: true})
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// Encode writes v in the given export format.
func Encode(w io.Writer, v any, format string) error {
	switch format {
	case "", FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown format %q (want %s or %s)", format, FormatJSON, FormatYAML)
	}
}
