package tui

import (
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
)

type styledRune struct {
	s       string
	width   int
	isSpace bool
}

// buildStyledRunes renders text with words before current marked spoken and
// the current word highlighted. A negative current renders everything as
// pending.
func buildStyledRunes(text []rune, words []wordRange, current int, st styles) []styledRune {
	var cur *wordRange
	if current >= 0 && current < len(words) {
		cur = &words[current]
	}

	out := make([]styledRune, 0, len(text))
	for i, r := range text {
		displayed := r
		if r == '\n' || r == '\t' {
			displayed = ' '
		}
		style := st.pending
		switch {
		case cur != nil && i >= cur.start && i < cur.end:
			style = st.current
		case cur != nil && i < cur.start:
			style = st.spoken
		}
		out = append(out, styledRune{
			s:       style.Render(string(displayed)),
			width:   runewidth.RuneWidth(displayed),
			isSpace: displayed == ' ',
		})
	}
	return out
}

type wordRange struct {
	start int
	end   int
}

func findWords(text []rune) []wordRange {
	words := []wordRange{}
	start := -1
	for i, r := range text {
		if r == ' ' || r == '\n' || r == '\t' {
			if start != -1 {
				words = append(words, wordRange{start: start, end: i})
				start = -1
			}
			continue
		}
		if start == -1 {
			start = i
		}
	}
	if start != -1 {
		words = append(words, wordRange{start: start, end: len(text)})
	}
	return words
}

// wordAt estimates which word is being spoken after elapsed at wpm words
// per minute. It returns -1 when there are no words.
func wordAt(words []wordRange, elapsed time.Duration, wpm float64) int {
	if len(words) == 0 {
		return -1
	}
	if wpm <= 0 || elapsed < 0 {
		return 0
	}
	idx := int(elapsed.Minutes() * wpm)
	if idx >= len(words) {
		return len(words) - 1
	}
	return idx
}

func renderStyledRunes(runes []styledRune) string {
	var b strings.Builder
	for _, item := range runes {
		b.WriteString(item.s)
	}
	return b.String()
}

func wrapStyledRunes(runes []styledRune, width int) string {
	if width <= 0 {
		return renderStyledRunes(runes)
	}
	var out strings.Builder
	line := make([]styledRune, 0, len(runes))
	lineWidth := 0
	lastSpaceIdx := -1

	for i := 0; i < len(runes); {
		item := runes[i]
		if lineWidth+item.width > width && len(line) > 0 {
			if lastSpaceIdx >= 0 {
				out.WriteString(renderStyledRunes(line[:lastSpaceIdx]))
				out.WriteRune('\n')
				line = append([]styledRune{}, line[lastSpaceIdx+1:]...)
				lineWidth = lineWidthOf(line)
				lastSpaceIdx = lastSpaceIndex(line)
			} else {
				out.WriteString(renderStyledRunes(line))
				out.WriteRune('\n')
				line = line[:0]
				lineWidth = 0
				lastSpaceIdx = -1
			}
			continue
		}
		line = append(line, item)
		lineWidth += item.width
		if item.isSpace {
			lastSpaceIdx = len(line) - 1
		}
		i++
	}
	out.WriteString(renderStyledRunes(line))
	return out.String()
}

func lineWidthOf(line []styledRune) int {
	total := 0
	for _, item := range line {
		total += item.width
	}
	return total
}

func lastSpaceIndex(line []styledRune) int {
	for i := len(line) - 1; i >= 0; i-- {
		if line[i].isSpace {
			return i
		}
	}
	return -1
}
