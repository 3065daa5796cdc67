package shortcut

import "github.com/verte-zerg/saytui/internal/model"

// Settings is the part of the settings store the dispatcher mutates.
type Settings interface {
	ToggleTheme()
	ToggleHelp()
}

// Stats is the part of the stats store the dispatcher records into.
type Stats interface {
	RecordKeyboardShortcut()
	RecordThemeSwitch()
	RecordSettingsOpen()
}

// Playback toggles speech playback.
type Playback interface {
	TogglePlayback()
}

// Canceller stops any speech in progress.
type Canceller interface {
	CancelSpeech()
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithPlayback sets the collaborator for playPause.
func WithPlayback(p Playback) Option {
	return func(d *Dispatcher) {
		d.playback = p
	}
}

// WithCanceller sets the collaborator for stop.
func WithCanceller(c Canceller) Option {
	return func(d *Dispatcher) {
		d.canceller = c
	}
}

// WithActionHook registers fn to run after every executed action.
func WithActionHook(fn func(model.Action)) Option {
	return func(d *Dispatcher) {
		d.onAction = fn
	}
}

// Dispatcher tracks the modifier snapshot, classifies key-downs and applies
// the resulting action.
type Dispatcher struct {
	settings  Settings
	stats     Stats
	playback  Playback
	canceller Canceller
	onAction  func(model.Action)

	mods model.Modifiers
	last model.Action

	hub *Hub
	ids []ListenerID
}

// NewDispatcher returns a detached Dispatcher.
func NewDispatcher(settings Settings, stats Stats, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		settings: settings,
		stats:    stats,
		last:     model.ActionNone,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Attach registers the key-down and key-up listeners on hub. Attaching to a
// new hub detaches from the previous one.
func (d *Dispatcher) Attach(hub *Hub) {
	if d.hub == hub {
		return
	}
	d.Detach()
	if hub == nil {
		return
	}
	d.hub = hub
	d.ids = []ListenerID{
		hub.AddListener(KeyDown, func(ev *model.KeyEvent) { d.HandleKeyDown(ev) }),
		hub.AddListener(KeyUp, d.HandleKeyUp),
	}
}

// Detach removes every listener registered by Attach.
func (d *Dispatcher) Detach() {
	if d.hub == nil {
		return
	}
	for _, id := range d.ids {
		d.hub.RemoveListener(id)
	}
	d.ids = nil
	d.hub = nil
}

// Attached reports whether listeners are registered.
func (d *Dispatcher) Attached() bool {
	return d.hub != nil
}

// Modifiers returns the most recent modifier snapshot.
func (d *Dispatcher) Modifiers() model.Modifiers {
	return d.mods
}

// LastAction returns the last executed action, or none.
func (d *Dispatcher) LastAction() model.Action {
	return d.last
}

// HandleKeyUp refreshes the modifier snapshot.
func (d *Dispatcher) HandleKeyUp(ev *model.KeyEvent) {
	d.mods = ev.Modifiers
}

// HandleKeyDown refreshes the modifier snapshot, classifies the key and, for
// anything but none, prevents the default handling and executes the action.
func (d *Dispatcher) HandleKeyDown(ev *model.KeyEvent) model.Action {
	d.mods = ev.Modifiers
	action := Classify(ev.Key, d.mods)
	if action == model.ActionNone {
		return action
	}
	ev.PreventDefault()
	d.execute(action)
	return action
}

func (d *Dispatcher) execute(action model.Action) {
	d.last = action
	d.stats.RecordKeyboardShortcut()

	switch action {
	case model.ActionPlayPause:
		if d.playback != nil {
			d.playback.TogglePlayback()
		}
	case model.ActionStop:
		if d.canceller != nil {
			d.canceller.CancelSpeech()
		}
	case model.ActionToggleTheme:
		d.settings.ToggleTheme()
		d.stats.RecordThemeSwitch()
	case model.ActionToggleHelp:
		d.settings.ToggleHelp()
		d.stats.RecordSettingsOpen()
	case model.ActionToggleSettings:
		// There is no separate settings panel; this shares the help toggle.
		d.settings.ToggleHelp()
		d.stats.RecordSettingsOpen()
	}

	if d.onAction != nil {
		d.onAction(action)
	}
}
