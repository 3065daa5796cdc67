// Package tui provides the Bubble Tea speech interface.
package tui

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/verte-zerg/saytui/internal/feedback"
	"github.com/verte-zerg/saytui/internal/model"
	"github.com/verte-zerg/saytui/internal/profile"
	"github.com/verte-zerg/saytui/internal/settings"
	"github.com/verte-zerg/saytui/internal/shortcut"
	"github.com/verte-zerg/saytui/internal/speech"
	"github.com/verte-zerg/saytui/internal/stats"
)

const (
	baseWPM      = 175
	rateStep     = 0.1
	tickInterval = 100 * time.Millisecond
)

// Speaker runs utterances in the background.
type Speaker interface {
	Toggle(text string, prefs model.SpeechPrefs, done func(error)) bool
	Cancel() bool
	Speaking() bool
}

// Notifier plays feedback tones.
type Notifier interface {
	Notify(cat feedback.Category)
}

// Deps are the services the model composes.
type Deps struct {
	Settings *settings.Store
	Stats    *stats.Store
	Prefs    *speech.Prefs
	Profile  *profile.Store
	Player   Speaker
	Feedback Notifier
	Text     string
}

type speechDoneMsg struct {
	gen uint64
	err error
}

type tickMsg time.Time

// Model implements the Bubble Tea speech UI.
type Model struct {
	settings *settings.Store
	stats    *stats.Store
	prefs    *speech.Prefs
	profile  *profile.Store
	player   Speaker
	notify   Notifier

	hub    *shortcut.Hub
	disp   *shortcut.Dispatcher
	keys   shortcut.KeyMap
	help   help.Model
	editor textarea.Model
	styles styles

	width  int
	height int

	done     chan speechDoneMsg
	gen      uint64
	speaking bool
	ticking  bool
	spoken   []rune
	words    []wordRange
	started  time.Time
	now      func() time.Time

	status  string
	failed  bool
	pending []tea.Cmd
}

// New constructs the UI. The editor starts unfocused so the shortcut table
// is live.
func New(d Deps) *Model {
	m := &Model{
		settings: d.Settings,
		stats:    d.Stats,
		prefs:    d.Prefs,
		profile:  d.Profile,
		player:   d.Player,
		notify:   d.Feedback,
		hub:      shortcut.NewHub(),
		keys:     shortcut.DefaultKeyMap(),
		help:     help.New(),
		editor:   newEditor(),
		done:     make(chan speechDoneMsg, 4),
		now:      time.Now,
	}
	if d.Text != "" {
		m.editor.SetValue(d.Text)
	}
	m.disp = shortcut.NewDispatcher(d.Settings, d.Stats,
		shortcut.WithPlayback(m),
		shortcut.WithCanceller(m),
		shortcut.WithActionHook(m.onAction))
	m.ApplyAppearance(d.Settings.IsDark())
	return m
}

func newEditor() textarea.Model {
	ta := textarea.New()
	ta.Placeholder = "Press i and type the text to speak"
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.SetWidth(60)
	ta.SetHeight(6)
	return ta
}

// ApplyAppearance switches the palette.
func (m *Model) ApplyAppearance(dark bool) {
	m.styles = newStyles(dark)
}

// Init implements tea.Model. It records the visit, attaches the shortcut
// dispatcher and speaks the initial text when auto-play is on.
func (m *Model) Init() tea.Cmd {
	m.stats.RecordVisit()
	m.disp.Attach(m.hub)
	if m.profile.Preferences().AutoPlay && strings.TrimSpace(m.editor.Value()) != "" {
		m.TogglePlayback()
	}
	return tea.Batch(textarea.Blink, m.flush())
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil
	case speechDoneMsg:
		m.finishSpeech(msg)
		return m, nil
	case tickMsg:
		if m.speaking && m.animating() {
			return m, tick()
		}
		m.ticking = false
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	if m.editor.Focused() {
		var cmd tea.Cmd
		m.editor, cmd = m.editor.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m.quit()
	}
	if m.editor.Focused() {
		return m.handleEditorKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		if m.settings.ShowHelp() {
			m.settings.HideHelp()
			m.notify.Notify(feedback.Click)
			return m, nil
		}
		return m.quit()
	case key.Matches(msg, m.keys.Edit):
		m.notify.Notify(feedback.Hover)
		return m, m.editor.Focus()
	}

	ev, ok := shortcut.FromKeyMsg(msg)
	if ok && m.dispatch(ev) {
		return m, m.flush()
	}
	m.handleLocal(msg)
	return m, m.flush()
}

// handleEditorKey gives ctrl chords to the dispatcher first and everything
// else to the textarea. Escape leaves the editor.
func (m *Model) handleEditorKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Leave) {
		m.editor.Blur()
		return m, nil
	}
	if ev, ok := shortcut.FromKeyMsg(msg); ok && (ev.Ctrl || ev.Meta) {
		if m.dispatch(ev) {
			return m, m.flush()
		}
	}
	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	return m, cmd
}

// dispatch emits a key-down and the matching release and reports whether
// a shortcut consumed the key.
func (m *Model) dispatch(ev model.KeyEvent) bool {
	m.hub.Emit(shortcut.KeyDown, &ev)
	m.hub.Emit(shortcut.KeyUp, &model.KeyEvent{Key: ev.Key})
	return ev.DefaultPrevented()
}

func (m *Model) handleLocal(msg tea.KeyMsg) {
	switch {
	case key.Matches(msg, m.keys.ToggleSound):
		m.settings.ToggleSound()
		m.stats.RecordClick()
		m.notify.Notify(feedback.Click)
		m.setStatus("Sound " + onOff(m.settings.SoundEnabled()))
	case key.Matches(msg, m.keys.ToggleMotion):
		m.settings.ToggleAnimations()
		m.stats.RecordClick()
		m.notify.Notify(feedback.Click)
		m.setStatus("Animations " + onOff(m.settings.State().AnimationsEnabled))
		if m.speaking && m.animating() {
			m.scheduleTick()
		}
	case key.Matches(msg, m.keys.Favorite):
		m.toggleFavorite()
	case key.Matches(msg, m.keys.Faster):
		m.adjustRate(rateStep)
	case key.Matches(msg, m.keys.Slower):
		m.adjustRate(-rateStep)
	}
}

func (m *Model) onAction(a model.Action) {
	switch a {
	case model.ActionToggleTheme:
		m.notify.Notify(feedback.Click)
		m.setStatus("Theme " + m.settings.ThemeLabel())
	case model.ActionToggleHelp, model.ActionToggleSettings:
		m.notify.Notify(feedback.Click)
	}
}

// TogglePlayback starts speaking the editor text, or stops current speech.
func (m *Model) TogglePlayback() {
	text := strings.TrimSpace(m.editor.Value())
	if text == "" && !m.player.Speaking() {
		m.setFailure("Nothing to speak")
		m.notify.Notify(feedback.Error)
		return
	}
	prefs := m.prefs.Prefs()
	gen := m.gen + 1
	done := m.done
	started := m.player.Toggle(text, prefs, func(err error) {
		done <- speechDoneMsg{gen: gen, err: err}
	})
	if !started {
		m.setStatus("Stopped")
		return
	}
	m.gen = gen
	m.beginSpeech(text, prefs)
}

// CancelSpeech stops current speech.
func (m *Model) CancelSpeech() {
	if m.player.Cancel() {
		m.setStatus("Stopped")
	}
}

func (m *Model) beginSpeech(text string, prefs model.SpeechPrefs) {
	m.speaking = true
	m.spoken = []rune(text)
	m.words = findWords(m.spoken)
	m.started = m.now()
	m.setStatus("Speaking")

	chars := utf8.RuneCountInString(text)
	lang := m.profile.Profile().Language
	m.stats.RecordSpeechGeneration(chars)
	m.prefs.AddToHistory(text, prefs.Voice)
	m.profile.RecordConversion(chars, profile.Words(text), lang)
	m.profile.AddToHistory(model.SavedText{InputText: text, Title: profile.Title(text), Language: lang})

	m.pending = append(m.pending, waitSpeech(m.done))
	if m.animating() {
		m.scheduleTick()
	}
}

// scheduleTick starts the highlight loop unless one is already running.
func (m *Model) scheduleTick() {
	if m.ticking {
		return
	}
	m.ticking = true
	m.pending = append(m.pending, tick())
}

func (m *Model) finishSpeech(msg speechDoneMsg) {
	if msg.gen != m.gen {
		return
	}
	m.speaking = false
	switch {
	case msg.err == nil:
		m.setStatus("Done")
		m.notify.Notify(feedback.Success)
	case errors.Is(msg.err, context.Canceled):
		m.setStatus("Stopped")
	default:
		m.setFailure(fmt.Sprintf("Speech failed: %v", msg.err))
		m.notify.Notify(feedback.Error)
	}
}

func (m *Model) toggleFavorite() {
	text := strings.TrimSpace(m.editor.Value())
	if text == "" {
		m.setFailure("Nothing to favorite")
		m.notify.Notify(feedback.Error)
		return
	}
	item := model.SavedText{
		ID:        uuid.NewSHA1(uuid.NameSpaceOID, []byte(text)).String(),
		InputText: text,
		Title:     profile.Title(text),
		Language:  m.profile.Profile().Language,
		Timestamp: m.now().UTC(),
	}
	m.stats.RecordClick()
	if m.profile.ToggleFavorite(item) {
		m.setStatus("Added to favorites")
		m.notify.Notify(feedback.Success)
		return
	}
	m.setStatus("Removed from favorites")
	m.notify.Notify(feedback.Click)
}

func (m *Model) adjustRate(delta float64) {
	rate := math.Round((m.prefs.Prefs().Rate+delta)*10) / 10
	m.prefs.SetRate(rate)
	m.stats.RecordClick()
	m.setStatus(fmt.Sprintf("Rate %.1fx", m.prefs.Prefs().Rate))
}

func (m *Model) animating() bool {
	return m.profile.Preferences().ShowHighlights && !m.settings.MotionReduced()
}

func (m *Model) quit() (tea.Model, tea.Cmd) {
	m.player.Cancel()
	m.disp.Detach()
	return m, tea.Quit
}

func (m *Model) flush() tea.Cmd {
	cmds := m.pending
	m.pending = nil
	return tea.Batch(cmds...)
}

func (m *Model) setStatus(s string) {
	m.status = s
	m.failed = false
}

func (m *Model) setFailure(s string) {
	m.status = s
	m.failed = true
}

func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height
	m.help.Width = width
	m.editor.SetWidth(contentWidth(width))
	h := height - 9
	if h < 3 {
		h = 3
	}
	m.editor.SetHeight(h)
}

func contentWidth(width int) int {
	w := int(float64(width) * 0.70)
	if w < 20 {
		w = 20
	}
	return w
}

// View implements tea.Model.
func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(m.styles.title.Render("saytui"))
	b.WriteString("\n\n")
	b.WriteString(m.renderBody())
	b.WriteString("\n")
	if m.status != "" {
		style := m.styles.status
		if m.failed {
			style = m.styles.failure
		}
		b.WriteString(style.Render(m.status))
		b.WriteString("\n")
	}
	m.help.ShowAll = m.settings.ShowHelp()
	b.WriteString(m.help.View(m.keys))
	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

func (m *Model) renderBody() string {
	if !m.speaking || !m.profile.Preferences().ShowHighlights {
		return m.styles.panel.Render(m.editor.View())
	}
	current := -1
	if !m.settings.MotionReduced() {
		wpm := baseWPM * m.prefs.Prefs().Rate
		current = wordAt(m.words, m.now().Sub(m.started), wpm)
	}
	runes := buildStyledRunes(m.spoken, m.words, current, m.styles)
	return m.styles.panel.Render(wrapStyledRunes(runes, contentWidth(m.width)))
}

func (m *Model) renderFooter() string {
	st := m.stats.State()
	segments := []string{
		"Theme " + m.settings.ThemeLabel(),
		"Sound " + onOff(m.settings.SoundEnabled()),
		fmt.Sprintf("Rate %.1fx", m.prefs.Prefs().Rate),
		fmt.Sprintf("%d spoken · %d chars", st.SpeechGenerations, st.TotalCharactersSpoken),
		fmt.Sprintf("%d shortcuts", st.KeyboardShortcutsUsed),
	}
	return m.styles.footer.Render(strings.Join(segments, "  "))
}

func waitSpeech(ch <-chan speechDoneMsg) tea.Cmd {
	return func() tea.Msg {
		return <-ch
	}
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}
