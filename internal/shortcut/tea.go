package shortcut

import (
	"strings"
	"unicode"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/saytui/internal/model"
)

// FromKeyMsg translates a Bubble Tea key message into a key event. Pastes
// and multi-rune input are not keys and report false.
//
// Terminals deliver chords atomically and never report releases, so the
// caller emits a key-up with no modifiers after each key-down.
func FromKeyMsg(msg tea.KeyMsg) (model.KeyEvent, bool) {
	if msg.Paste {
		return model.KeyEvent{}, false
	}
	ev := model.KeyEvent{}
	ev.Alt = msg.Alt

	switch msg.Type {
	case tea.KeySpace:
		ev.Key = KeySpace
		return ev, true
	case tea.KeyEsc:
		ev.Key = KeyEscape
		return ev, true
	case tea.KeyCtrlUnderscore:
		// Terminals encode ctrl+/ as the unit separator.
		ev.Ctrl = true
		ev.Key = "/"
		return ev, true
	case tea.KeyRunes:
		if len(msg.Runes) != 1 {
			return model.KeyEvent{}, false
		}
		r := msg.Runes[0]
		if r == ' ' {
			ev.Key = KeySpace
			return ev, true
		}
		ev.Shift = unicode.IsUpper(r)
		ev.Key = strings.ToLower(string(r))
		return ev, true
	}

	name := tea.Key{Type: msg.Type}.String()
	if name == "" {
		return model.KeyEvent{}, false
	}
	for {
		if rest, ok := strings.CutPrefix(name, "ctrl+"); ok && rest != "" {
			ev.Ctrl = true
			name = rest
			continue
		}
		if rest, ok := strings.CutPrefix(name, "shift+"); ok && rest != "" {
			ev.Shift = true
			name = rest
			continue
		}
		break
	}
	ev.Key = name
	return ev, true
}
