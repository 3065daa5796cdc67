package shortcut

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/saytui/internal/model"
	"github.com/verte-zerg/saytui/internal/settings"
	"github.com/verte-zerg/saytui/internal/stats"
	"github.com/verte-zerg/saytui/internal/store"
)

type fakePlayer struct {
	toggles int
	cancels int
}

func (f *fakePlayer) TogglePlayback() { f.toggles++ }
func (f *fakePlayer) CancelSpeech()   { f.cancels++ }

type fixture struct {
	hub      *Hub
	disp     *Dispatcher
	settings *settings.Store
	stats    *stats.Store
	player   *fakePlayer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	mem := store.NewMemory()
	f := &fixture{
		hub:      NewHub(),
		settings: settings.New(mem, settings.WithDarkDetector(func() bool { return false })),
		stats:    stats.NewStore(mem),
		player:   &fakePlayer{},
	}
	f.disp = NewDispatcher(f.settings, f.stats, WithPlayback(f.player), WithCanceller(f.player))
	f.disp.Attach(f.hub)
	return f
}

func (f *fixture) press(key string, mods model.Modifiers) *model.KeyEvent {
	ev := &model.KeyEvent{Key: key, Modifiers: mods}
	f.hub.Emit(KeyDown, ev)
	return ev
}

func TestClassify(t *testing.T) {
	ctrl := model.Modifiers{Ctrl: true}
	meta := model.Modifiers{Meta: true}
	tests := []struct {
		name string
		key  string
		mods model.Modifiers
		want model.Action
	}{
		{"space", "space", model.Modifiers{}, model.ActionPlayPause},
		{"space with shift", "space", model.Modifiers{Shift: true}, model.ActionPlayPause},
		{"ctrl space", "space", ctrl, model.ActionNone},
		{"meta space", "space", meta, model.ActionNone},
		{"escape", "escape", model.Modifiers{}, model.ActionStop},
		{"ctrl escape", "escape", ctrl, model.ActionStop},
		{"ctrl k", "k", ctrl, model.ActionToggleTheme},
		{"meta k", "k", meta, model.ActionToggleTheme},
		{"ctrl K", "K", ctrl, model.ActionToggleTheme},
		{"ctrl meta k", "k", model.Modifiers{Ctrl: true, Meta: true}, model.ActionNone},
		{"plain k", "k", model.Modifiers{}, model.ActionNone},
		{"ctrl slash", "/", ctrl, model.ActionToggleHelp},
		{"meta slash", "/", meta, model.ActionToggleHelp},
		{"ctrl s", "s", ctrl, model.ActionToggleSettings},
		{"meta s", "s", meta, model.ActionToggleSettings},
		{"alt s", "s", model.Modifiers{Alt: true}, model.ActionNone},
		{"unmapped", "x", ctrl, model.ActionNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.key, tt.mods); got != tt.want {
				t.Fatalf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestShiftIsNotPartOfMatch(t *testing.T) {
	mods := model.Modifiers{Ctrl: true, Shift: true}
	if !Matches("ctrl+k", "k", mods) {
		t.Fatalf("expected ctrl+shift+k to match ctrl+k")
	}
	if got := Classify("k", mods); got != model.ActionToggleTheme {
		t.Fatalf("expected toggleTheme, got %s", got)
	}
	if !Matches("ctrl+k", "k", model.Modifiers{Ctrl: true, Alt: true}) {
		t.Fatalf("expected alt to be ignored")
	}
}

func TestMatchesIsModifierExact(t *testing.T) {
	if Matches("ctrl+k", "k", model.Modifiers{}) {
		t.Fatalf("expected missing ctrl to fail")
	}
	if Matches("ctrl+k", "k", model.Modifiers{Ctrl: true, Meta: true}) {
		t.Fatalf("expected extra meta to fail")
	}
	if Matches("k", "k", model.Modifiers{Ctrl: true}) {
		t.Fatalf("expected unnamed ctrl to fail")
	}
	if !Matches("k", "K", model.Modifiers{}) {
		t.Fatalf("expected case-insensitive key match")
	}
}

func TestSpaceScenario(t *testing.T) {
	f := newFixture(t)
	ev := f.press("space", model.Modifiers{})
	if f.disp.LastAction() != model.ActionPlayPause {
		t.Fatalf("expected playPause, got %s", f.disp.LastAction())
	}
	if !ev.DefaultPrevented() {
		t.Fatalf("expected default behavior suppressed")
	}
	if got := f.stats.State().KeyboardShortcutsUsed; got != 1 {
		t.Fatalf("expected 1 shortcut, got %d", got)
	}
	if f.player.toggles != 1 {
		t.Fatalf("expected playback toggled once, got %d", f.player.toggles)
	}
}

func TestToggleThemeScenario(t *testing.T) {
	f := newFixture(t)
	before := f.settings.Theme()
	ev := f.press("k", model.Modifiers{Ctrl: true})
	if !ev.DefaultPrevented() {
		t.Fatalf("expected default prevented")
	}
	if f.settings.Theme() != before.Next() {
		t.Fatalf("expected theme %s, got %s", before.Next(), f.settings.Theme())
	}
	st := f.stats.State()
	if st.ThemeSwitches != 1 || st.KeyboardShortcutsUsed != 1 {
		t.Fatalf("unexpected stats %+v", st)
	}
}

func TestStopScenario(t *testing.T) {
	f := newFixture(t)
	f.press("escape", model.Modifiers{})
	if f.player.cancels != 1 {
		t.Fatalf("expected one cancel, got %d", f.player.cancels)
	}
}

func TestToggleSettingsSharesHelpToggle(t *testing.T) {
	f := newFixture(t)
	f.press("s", model.Modifiers{Meta: true})
	if !f.settings.ShowHelp() {
		t.Fatalf("expected help shown by toggleSettings")
	}
	f.press("/", model.Modifiers{Ctrl: true})
	if f.settings.ShowHelp() {
		t.Fatalf("expected help hidden by toggleHelp")
	}
	st := f.stats.State()
	if st.SettingsOpened != 2 || st.KeyboardShortcutsUsed != 2 {
		t.Fatalf("unexpected stats %+v", st)
	}
}

func TestUnmatchedKeyDoesNothing(t *testing.T) {
	f := newFixture(t)
	ev := f.press("a", model.Modifiers{})
	if ev.DefaultPrevented() {
		t.Fatalf("expected default kept for unmatched key")
	}
	if f.stats.State() != (model.StatsState{}) {
		t.Fatalf("expected no stats change, got %+v", f.stats.State())
	}
	if f.disp.LastAction() != model.ActionNone {
		t.Fatalf("expected last action none")
	}
}

func TestModifierSnapshotFollowsKeyUp(t *testing.T) {
	f := newFixture(t)
	f.press("a", model.Modifiers{Ctrl: true, Shift: true})
	if got := f.disp.Modifiers(); !got.Ctrl || !got.Shift {
		t.Fatalf("expected ctrl+shift snapshot, got %+v", got)
	}
	f.hub.Emit(KeyUp, &model.KeyEvent{Key: "shift", Modifiers: model.Modifiers{Ctrl: true}})
	if got := f.disp.Modifiers(); !got.Ctrl || got.Shift {
		t.Fatalf("expected ctrl-only snapshot, got %+v", got)
	}
}

func TestDetachRemovesListeners(t *testing.T) {
	f := newFixture(t)
	if f.hub.ListenerCount() != 2 {
		t.Fatalf("expected 2 listeners, got %d", f.hub.ListenerCount())
	}
	f.disp.Attach(f.hub)
	if f.hub.ListenerCount() != 2 {
		t.Fatalf("expected re-attach to be a no-op, got %d", f.hub.ListenerCount())
	}
	f.disp.Detach()
	if f.hub.ListenerCount() != 0 {
		t.Fatalf("expected no listeners after detach, got %d", f.hub.ListenerCount())
	}
	f.press("space", model.Modifiers{})
	if f.stats.State().KeyboardShortcutsUsed != 0 {
		t.Fatalf("expected detached dispatcher to ignore events")
	}
	f.disp.Detach()
}

func TestAttachMovesBetweenHubs(t *testing.T) {
	f := newFixture(t)
	other := NewHub()
	f.disp.Attach(other)
	if f.hub.ListenerCount() != 0 || other.ListenerCount() != 2 {
		t.Fatalf("expected listeners moved, got %d and %d", f.hub.ListenerCount(), other.ListenerCount())
	}
}

func TestActionHook(t *testing.T) {
	var seen []model.Action
	d := NewDispatcher(settings.New(store.NewMemory()), stats.NewStore(store.NewMemory()),
		WithActionHook(func(a model.Action) { seen = append(seen, a) }))
	d.HandleKeyDown(&model.KeyEvent{Key: "k", Modifiers: model.Modifiers{Ctrl: true}})
	d.HandleKeyDown(&model.KeyEvent{Key: "q"})
	d.HandleKeyDown(&model.KeyEvent{Key: "space"})
	if len(seen) != 2 || seen[0] != model.ActionToggleTheme || seen[1] != model.ActionPlayPause {
		t.Fatalf("unexpected hook calls %v", seen)
	}
}

func TestFromKeyMsg(t *testing.T) {
	tests := []struct {
		name string
		msg  tea.KeyMsg
		key  string
		mods model.Modifiers
	}{
		{"space", tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}, "space", model.Modifiers{}},
		{"esc", tea.KeyMsg{Type: tea.KeyEsc}, "escape", model.Modifiers{}},
		{"ctrl k", tea.KeyMsg{Type: tea.KeyCtrlK}, "k", model.Modifiers{Ctrl: true}},
		{"ctrl s", tea.KeyMsg{Type: tea.KeyCtrlS}, "s", model.Modifiers{Ctrl: true}},
		{"ctrl slash", tea.KeyMsg{Type: tea.KeyCtrlUnderscore}, "/", model.Modifiers{Ctrl: true}},
		{"upper", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'K'}}, "k", model.Modifiers{Shift: true}},
		{"alt rune", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}, Alt: true}, "x", model.Modifiers{Alt: true}},
		{"shift tab", tea.KeyMsg{Type: tea.KeyShiftTab}, "tab", model.Modifiers{Shift: true}},
		{"enter", tea.KeyMsg{Type: tea.KeyEnter}, "enter", model.Modifiers{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, ok := FromKeyMsg(tt.msg)
			if !ok {
				t.Fatalf("expected translation")
			}
			if ev.Key != tt.key || ev.Modifiers != tt.mods {
				t.Fatalf("expected %q %+v, got %q %+v", tt.key, tt.mods, ev.Key, ev.Modifiers)
			}
		})
	}
	if _, ok := FromKeyMsg(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("hello"), Paste: true}); ok {
		t.Fatalf("expected paste to be ignored")
	}
}
