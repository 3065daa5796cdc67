// Package profile keeps the local user's profile, favorites and history.
package profile

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/verte-zerg/saytui/internal/model"
	"github.com/verte-zerg/saytui/internal/store"
)

// DefaultMaxHistoryItems caps the user history.
const DefaultMaxHistoryItems = 100

// StringSet is a set that persists as a sorted JSON array.
type StringSet map[string]struct{}

// Add inserts v.
func (s StringSet) Add(v string) {
	s[v] = struct{}{}
}

// Has reports whether v is present.
func (s StringSet) Has(v string) bool {
	_, ok := s[v]
	return ok
}

// Sorted returns the members in lexical order.
func (s StringSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for v := range s {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// MarshalJSON implements json.Marshaler.
func (s StringSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Sorted())
}

// MarshalYAML renders the set as a sorted sequence.
func (s StringSet) MarshalYAML() (any, error) {
	return s.Sorted(), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *StringSet) UnmarshalJSON(data []byte) error {
	var items []string
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	set := make(StringSet, len(items))
	for _, v := range items {
		set.Add(v)
	}
	*s = set
	return nil
}

// Usage aggregates conversion activity.
type Usage struct {
	TotalConversions int64     `json:"totalConversions" yaml:"totalConversions"`
	TotalCharacters  int64     `json:"totalCharacters" yaml:"totalCharacters"`
	UniqueWords      StringSet `json:"uniqueWords" yaml:"uniqueWords"`
	LanguagesUsed    StringSet `json:"languagesUsed" yaml:"languagesUsed"`
	FavoritesCount   int       `json:"favoritesCount" yaml:"favoritesCount"`
}

// Record is the whole persisted user record.
type Record struct {
	Profile     model.Profile         `json:"profile" yaml:"profile"`
	Preferences model.UserPreferences `json:"preferences" yaml:"preferences"`
	Usage       Usage                 `json:"usage" yaml:"usage"`
	Favorites   []model.SavedText     `json:"favorites" yaml:"favorites"`
	History     []model.SavedText     `json:"history" yaml:"history"`
}

func defaultState() Record {
	return Record{
		Profile: model.Profile{
			Name:     "Guest",
			Language: "en-US",
			Voice:    "default",
			Rate:     1,
			Pitch:    1,
		},
		Preferences: model.UserPreferences{
			Theme:           model.ThemeLight,
			ShowHighlights:  true,
			SaveHistory:     true,
			MaxHistoryItems: DefaultMaxHistoryItems,
		},
		Usage: Usage{
			UniqueWords:   StringSet{},
			LanguagesUsed: StringSet{},
		},
		Favorites: []model.SavedText{},
		History:   []model.SavedText{},
	}
}

// Option configures a Store.
type Option func(*Store)

// WithClock sets the time source for history timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets the logger used for persistence failures.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.log = logger
		}
	}
}

// Store owns the user record. Every mutation persists the whole record.
type Store struct {
	blobs store.Blobs
	st    Record
	now   func() time.Time
	log   *slog.Logger
}

// New returns a Store holding the guest defaults.
func New(blobs store.Blobs, opts ...Option) *Store {
	s := &Store{
		blobs: blobs,
		st:    defaultState(),
		now:   time.Now,
		log:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load replaces the record with the persisted one merged over the defaults.
func (s *Store) Load(ctx context.Context) error {
	s.st = defaultState()
	raw, ok, err := s.blobs.Get(ctx, store.KeyUser)
	if err != nil {
		return fmt.Errorf("failed to load profile: %w", err)
	}
	if !ok {
		return nil
	}
	st := defaultState()
	if err := json.Unmarshal([]byte(raw), &st); err != nil {
		s.log.Debug("Profile: ignoring malformed record", "error", err)
		return nil
	}
	if st.Usage.UniqueWords == nil {
		st.Usage.UniqueWords = StringSet{}
	}
	if st.Usage.LanguagesUsed == nil {
		st.Usage.LanguagesUsed = StringSet{}
	}
	if st.Preferences.MaxHistoryItems <= 0 {
		st.Preferences.MaxHistoryItems = DefaultMaxHistoryItems
	}
	s.st = st
	return nil
}

// Profile returns the user profile.
func (s *Store) Profile() model.Profile {
	return s.st.Profile
}

// Preferences returns the user preferences.
func (s *Store) Preferences() model.UserPreferences {
	return s.st.Preferences
}

// Usage returns a copy of the usage aggregates.
func (s *Store) Usage() Usage {
	u := s.st.Usage
	u.UniqueWords = make(StringSet, len(s.st.Usage.UniqueWords))
	for w := range s.st.Usage.UniqueWords {
		u.UniqueWords.Add(w)
	}
	u.LanguagesUsed = make(StringSet, len(s.st.Usage.LanguagesUsed))
	for l := range s.st.Usage.LanguagesUsed {
		u.LanguagesUsed.Add(l)
	}
	return u
}

// Record returns a copy of the whole user record.
func (s *Store) Record() Record {
	return Record{
		Profile:     s.st.Profile,
		Preferences: s.st.Preferences,
		Usage:       s.Usage(),
		Favorites:   s.Favorites(),
		History:     s.History(),
	}
}

// Favorites returns saved favorites in insertion order.
func (s *Store) Favorites() []model.SavedText {
	return append([]model.SavedText(nil), s.st.Favorites...)
}

// History returns the user history, newest first.
func (s *Store) History() []model.SavedText {
	return append([]model.SavedText(nil), s.st.History...)
}

// IsAuthenticated reports whether the profile has a name.
func (s *Store) IsAuthenticated() bool {
	return s.st.Profile.Name != ""
}

// UpdateProfile applies fn to the profile.
func (s *Store) UpdateProfile(fn func(*model.Profile)) {
	fn(&s.st.Profile)
	s.persist()
}

// UpdatePreferences applies fn to the preferences. A non-positive history
// cap is replaced by the default and the history is trimmed to the cap.
func (s *Store) UpdatePreferences(fn func(*model.UserPreferences)) {
	fn(&s.st.Preferences)
	if s.st.Preferences.MaxHistoryItems <= 0 {
		s.st.Preferences.MaxHistoryItems = DefaultMaxHistoryItems
	}
	s.trimHistory()
	s.persist()
}

// AddToHistory prepends item unless history saving is off. An empty ID is
// filled with a fresh one.
func (s *Store) AddToHistory(item model.SavedText) {
	if !s.st.Preferences.SaveHistory {
		return
	}
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	item.Timestamp = s.now().UTC()
	s.st.History = append([]model.SavedText{item}, s.st.History...)
	s.trimHistory()
	s.persist()
}

func (s *Store) trimHistory() {
	if limit := s.st.Preferences.MaxHistoryItems; len(s.st.History) > limit {
		s.st.History = s.st.History[:limit]
	}
}

// AddToFavorites appends item unless a favorite with its ID exists.
func (s *Store) AddToFavorites(item model.SavedText) bool {
	if s.favoriteIndex(item.ID) >= 0 {
		return false
	}
	s.st.Favorites = append(s.st.Favorites, item)
	s.st.Usage.FavoritesCount++
	s.persist()
	return true
}

// RemoveFromFavorites drops the favorite with id.
func (s *Store) RemoveFromFavorites(id string) bool {
	i := s.favoriteIndex(id)
	if i < 0 {
		return false
	}
	s.st.Favorites = append(s.st.Favorites[:i], s.st.Favorites[i+1:]...)
	s.st.Usage.FavoritesCount--
	s.persist()
	return true
}

// ToggleFavorite adds or removes item and reports whether it is now a
// favorite.
func (s *Store) ToggleFavorite(item model.SavedText) bool {
	if s.RemoveFromFavorites(item.ID) {
		return false
	}
	return s.AddToFavorites(item)
}

func (s *Store) favoriteIndex(id string) int {
	for i, f := range s.st.Favorites {
		if f.ID == id {
			return i
		}
	}
	return -1
}

// RecordConversion adds one conversion of chars characters with the given
// words. An empty lang is not recorded.
func (s *Store) RecordConversion(chars int, words []string, lang string) {
	s.st.Usage.TotalConversions++
	if chars > 0 {
		s.st.Usage.TotalCharacters += int64(chars)
	}
	for _, w := range words {
		if w != "" {
			s.st.Usage.UniqueWords.Add(w)
		}
	}
	if lang != "" {
		s.st.Usage.LanguagesUsed.Add(lang)
	}
	s.persist()
}

// ClearHistory empties the user history.
func (s *Store) ClearHistory() {
	s.st.History = []model.SavedText{}
	s.persist()
}

// ClearFavorites removes every favorite.
func (s *Store) ClearFavorites() {
	s.st.Favorites = []model.SavedText{}
	s.st.Usage.FavoritesCount = 0
	s.persist()
}

// Reset restores the guest defaults.
func (s *Store) Reset() {
	s.st = defaultState()
	s.persist()
}

func (s *Store) persist() {
	data, err := json.Marshal(s.st)
	if err != nil {
		s.log.Warn("Profile: encode failed", "error", err)
		return
	}
	if err := s.blobs.Set(context.Background(), store.KeyUser, string(data)); err != nil {
		s.log.Warn("Profile: persist failed", "error", err)
	}
}
