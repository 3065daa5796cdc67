package tui

import (
	"strings"
	"testing"
	"time"
)

func TestFindWords(t *testing.T) {
	words := findWords([]rune("  hello big\nworld "))
	want := []wordRange{{2, 7}, {8, 11}, {12, 17}}
	if len(words) != len(want) {
		t.Fatalf("expected %d words, got %d", len(want), len(words))
	}
	for i := range want {
		if words[i] != want[i] {
			t.Fatalf("word %d: expected %+v, got %+v", i, want[i], words[i])
		}
	}
}

func TestWordAt(t *testing.T) {
	words := findWords([]rune("one two three"))
	if got := wordAt(words, 0, 60); got != 0 {
		t.Fatalf("expected first word, got %d", got)
	}
	if got := wordAt(words, 1500*time.Millisecond, 60); got != 1 {
		t.Fatalf("expected second word, got %d", got)
	}
	if got := wordAt(words, time.Hour, 60); got != 2 {
		t.Fatalf("expected last word, got %d", got)
	}
	if got := wordAt(nil, time.Second, 60); got != -1 {
		t.Fatalf("expected -1 without words, got %d", got)
	}
}

func TestBuildStyledRunesHighlight(t *testing.T) {
	st := newStyles(true)
	text := []rune("ab cd ef")
	runes := buildStyledRunes(text, findWords(text), 1, st)
	if len(runes) != len(text) {
		t.Fatalf("expected %d runes, got %d", len(text), len(runes))
	}
	if runes[0].s != st.spoken.Render("a") {
		t.Fatalf("expected spoken style before current word")
	}
	if runes[3].s != st.current.Render("c") {
		t.Fatalf("expected current style inside current word")
	}
	if runes[6].s != st.pending.Render("e") {
		t.Fatalf("expected pending style after current word")
	}
}

func TestBuildStyledRunesNoHighlight(t *testing.T) {
	st := newStyles(false)
	text := []rune("a\nb")
	runes := buildStyledRunes(text, findWords(text), -1, st)
	if runes[0].s != st.pending.Render("a") {
		t.Fatalf("expected pending style without highlight")
	}
	if !runes[1].isSpace {
		t.Fatalf("expected newline rendered as space")
	}
}

func TestWrapStyledRunesWordBoundary(t *testing.T) {
	runes := []styledRune{
		{s: "a", width: 1},
		{s: "b", width: 1},
		{s: " ", width: 1, isSpace: true},
		{s: "c", width: 1},
		{s: "d", width: 1},
	}
	out := wrapStyledRunes(runes, 3)
	if out != "ab\ncd" {
		t.Fatalf("expected wrap at word boundary, got %q", out)
	}
}

func TestWrapStyledRunesNoSpaces(t *testing.T) {
	runes := []styledRune{
		{s: "a", width: 1},
		{s: "b", width: 1},
		{s: "c", width: 1},
		{s: "d", width: 1},
	}
	out := wrapStyledRunes(runes, 2)
	if strings.Count(out, "\n") != 1 || out != "ab\ncd" {
		t.Fatalf("expected hard wrap, got %q", out)
	}
}
