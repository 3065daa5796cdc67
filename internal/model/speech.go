package model

import "time"

// SpeechPrefs controls how text is voiced. Rate, Pitch and Volume are
// multipliers where 1 is the engine default.
type SpeechPrefs struct {
	Voice  string  `json:"voice" yaml:"voice"`
	Pitch  float64 `json:"pitch" yaml:"pitch"`
	Rate   float64 `json:"rate" yaml:"rate"`
	Volume float64 `json:"volume" yaml:"volume"`
}

// DefaultSpeechPrefs returns neutral speech preferences.
func DefaultSpeechPrefs() SpeechPrefs {
	return SpeechPrefs{Pitch: 1, Rate: 1, Volume: 1}
}

// HistoryEntry records one spoken text.
type HistoryEntry struct {
	ID        string    `json:"id" yaml:"id"`
	Text      string    `json:"text" yaml:"text"`
	Voice     string    `json:"voice" yaml:"voice"`
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
}

// Profile describes the local user.
type Profile struct {
	Name     string  `json:"name" yaml:"name"`
	Language string  `json:"language" yaml:"language"`
	Voice    string  `json:"voice" yaml:"voice"`
	Rate     float64 `json:"rate" yaml:"rate"`
	Pitch    float64 `json:"pitch" yaml:"pitch"`
}

// UserPreferences are per-user behavior switches.
type UserPreferences struct {
	Theme           ThemeMode `json:"theme" yaml:"theme"`
	AutoPlay        bool      `json:"autoPlay" yaml:"autoPlay"`
	ShowHighlights  bool      `json:"showHighlights" yaml:"showHighlights"`
	SaveHistory     bool      `json:"saveHistory" yaml:"saveHistory"`
	MaxHistoryItems int       `json:"maxHistoryItems" yaml:"maxHistoryItems"`
}

// SavedText is a favorite or user history item.
type SavedText struct {
	ID        string    `json:"id" yaml:"id"`
	InputText string    `json:"inputText" yaml:"inputText"`
	Title     string    `json:"title,omitempty" yaml:"title,omitempty"`
	Language  string    `json:"language,omitempty" yaml:"language,omitempty"`
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
}
