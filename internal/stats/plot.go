package stats

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"

	"github.com/verte-zerg/saytui/internal/model"
)

// Bar is one labelled value in a bar chart.
type Bar struct {
	Label string
	Value int64
}

const (
	minBarWidth         = 10
	barRune             = "█"
	colorReset          = "\x1b[0m"
	terminalWidthBackup = 80
)

var colorPalette = []string{
	"\x1b[36m",
	"\x1b[35m",
	"\x1b[33m",
	"\x1b[32m",
	"\x1b[34m",
}

// CounterBars returns the activity counters as chart bars.
func CounterBars(state model.StatsState) []Bar {
	return []Bar{
		{Label: "Visits", Value: state.Visits},
		{Label: "Clicks", Value: state.TotalClicks},
		{Label: "Speech generations", Value: state.SpeechGenerations},
		{Label: "Theme switches", Value: state.ThemeSwitches},
		{Label: "Settings opened", Value: state.SettingsOpened},
		{Label: "Shortcuts used", Value: state.KeyboardShortcutsUsed},
	}
}

// PlotBars renders bars scaled to the largest value. A non-positive width
// uses the terminal width.
func PlotBars(w io.Writer, bars []Bar, width int, forceColor bool) error {
	if len(bars) == 0 {
		return nil
	}
	if width <= 0 {
		width = terminalWidth()
	}
	labelWidth, valueWidth := 0, 0
	var maxVal int64
	for _, b := range bars {
		labelWidth = max(labelWidth, displayWidth(b.Label))
		valueWidth = max(valueWidth, len(strconv.FormatInt(b.Value, 10)))
		maxVal = max(maxVal, b.Value)
	}
	barWidth := BarWidthFor(width, labelWidth, valueWidth)
	color := shouldUseColor(w, forceColor)

	for i, b := range bars {
		n := scaleBar(b.Value, maxVal, barWidth)
		bar := strings.Repeat(barRune, n)
		if color && n > 0 {
			bar = colorPalette[i%len(colorPalette)] + bar + colorReset
		}
		line := fmt.Sprintf("%s  %s%s %s",
			padCell(b.Label, labelWidth, false),
			bar,
			strings.Repeat(" ", barWidth-n),
			padCell(strconv.FormatInt(b.Value, 10), valueWidth, true))
		if _, err := fmt.Fprintln(w, strings.TrimRight(line, " ")); err != nil {
			return err
		}
	}
	return nil
}

// BarWidthFor returns the bar area left after labels and values.
func BarWidthFor(totalWidth, labelWidth, valueWidth int) int {
	return max(totalWidth-labelWidth-valueWidth-3, minBarWidth)
}

func scaleBar(value, maxVal int64, width int) int {
	if value <= 0 || maxVal <= 0 {
		return 0
	}
	n := int(value * int64(width) / maxVal)
	if n == 0 {
		n = 1
	}
	return n
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

func shouldUseColor(w io.Writer, force bool) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if force {
		return true
	}
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}
