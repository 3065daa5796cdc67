package shortcut

import (
	"strings"

	"github.com/verte-zerg/saytui/internal/model"
)

// Key names used by the shortcut table.
const (
	KeySpace  = "space"
	KeyEscape = "escape"
)

// Fixed shortcut table.
var (
	PlayPauseKeys           = []string{KeySpace}
	StopKeys                = []string{KeyEscape}
	ToggleThemeShortcuts    = []string{"ctrl+k", "meta+k"}
	ToggleHelpShortcuts     = []string{"ctrl+/", "meta+/"}
	ToggleSettingsShortcuts = []string{"ctrl+s", "meta+s"}
)

// Matches reports whether a key with the given modifiers satisfies shortcut.
// Every modifier named in the shortcut must be held and ctrl or meta must not
// be held unless named. Shift and alt are not consulted, so ctrl+shift+k
// matches ctrl+k.
func Matches(shortcut, key string, mods model.Modifiers) bool {
	parts := strings.Split(shortcut, "+")
	expectedKey := strings.ToLower(parts[len(parts)-1])
	named := map[string]bool{}
	for _, p := range parts[:len(parts)-1] {
		named[strings.ToLower(p)] = true
	}
	if named["ctrl"] != mods.Ctrl {
		return false
	}
	if named["meta"] != mods.Meta {
		return false
	}
	return expectedKey != "" && strings.ToLower(key) == expectedKey
}

func matchesAny(shortcuts []string, key string, mods model.Modifiers) bool {
	for _, s := range shortcuts {
		if Matches(s, key, mods) {
			return true
		}
	}
	return false
}

func containsKey(keys []string, key string) bool {
	for _, k := range keys {
		if k == key {
			return true
		}
	}
	return false
}

// Classify maps a key-down to an action. Rules are checked in priority order
// and the first match wins.
func Classify(key string, mods model.Modifiers) model.Action {
	key = strings.ToLower(key)
	switch {
	case containsKey(PlayPauseKeys, key) && !mods.Ctrl && !mods.Meta:
		return model.ActionPlayPause
	case containsKey(StopKeys, key):
		return model.ActionStop
	case matchesAny(ToggleThemeShortcuts, key, mods):
		return model.ActionToggleTheme
	case matchesAny(ToggleHelpShortcuts, key, mods):
		return model.ActionToggleHelp
	case matchesAny(ToggleSettingsShortcuts, key, mods):
		return model.ActionToggleSettings
	default:
		return model.ActionNone
	}
}
