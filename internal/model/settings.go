package model

// ThemeMode selects the color scheme.
type ThemeMode string

// Supported theme modes.
const (
	ThemeLight  ThemeMode = "light"
	ThemeDark   ThemeMode = "dark"
	ThemeSystem ThemeMode = "system"
)

// Valid reports whether t is one of the supported modes.
func (t ThemeMode) Valid() bool {
	switch t {
	case ThemeLight, ThemeDark, ThemeSystem:
		return true
	default:
		return false
	}
}

// Next returns the mode that follows t in the light, dark, system cycle.
// Unknown modes restart the cycle at light.
func (t ThemeMode) Next() ThemeMode {
	switch t {
	case ThemeLight:
		return ThemeDark
	case ThemeDark:
		return ThemeSystem
	default:
		return ThemeLight
	}
}

// SettingsState holds presentation preferences.
type SettingsState struct {
	Theme             ThemeMode `json:"theme" yaml:"theme"`
	SoundEnabled      bool      `json:"soundEnabled" yaml:"soundEnabled"`
	AnimationsEnabled bool      `json:"animationsEnabled" yaml:"animationsEnabled"`
	ReducedMotion     bool      `json:"reducedMotion" yaml:"reducedMotion"`
	ShowHelp          bool      `json:"showHelp" yaml:"showHelp"`
}

// DefaultSettings returns the compiled-in settings.
func DefaultSettings() SettingsState {
	return SettingsState{
		Theme:             ThemeSystem,
		SoundEnabled:      true,
		AnimationsEnabled: true,
		ReducedMotion:     false,
		ShowHelp:          false,
	}
}

// StatsState holds usage counters.
type StatsState struct {
	Visits                int64  `json:"visits" yaml:"visits"`
	LastVisit             string `json:"lastVisit" yaml:"lastVisit"`
	TotalClicks           int64  `json:"totalClicks" yaml:"totalClicks"`
	SpeechGenerations     int64  `json:"speechGenerations" yaml:"speechGenerations"`
	TotalCharactersSpoken int64  `json:"totalCharactersSpoken" yaml:"totalCharactersSpoken"`
	ThemeSwitches         int64  `json:"themeSwitches" yaml:"themeSwitches"`
	SettingsOpened        int64  `json:"settingsOpened" yaml:"settingsOpened"`
	KeyboardShortcutsUsed int64  `json:"keyboardShortcutsUsed" yaml:"keyboardShortcutsUsed"`
}

// StatsSummary is the reporting projection of StatsState.
type StatsSummary struct {
	TotalVisits       int64 `json:"totalVisits" yaml:"totalVisits"`
	TotalClicks       int64 `json:"totalClicks" yaml:"totalClicks"`
	SpeechGenerations int64 `json:"speechGenerations" yaml:"speechGenerations"`
	CharactersSpoken  int64 `json:"charactersSpoken" yaml:"charactersSpoken"`
	ThemeSwitches     int64 `json:"themeSwitches" yaml:"themeSwitches"`
	ShortcutsUsed     int64 `json:"shortcutsUsed" yaml:"shortcutsUsed"`
}
