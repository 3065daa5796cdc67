package shortcut

import "github.com/charmbracelet/bubbles/key"

// KeyMap describes the bindings shown in the help panel.
type KeyMap struct {
	PlayPause      key.Binding
	Stop           key.Binding
	ToggleTheme    key.Binding
	ToggleHelp     key.Binding
	ToggleSettings key.Binding
	Edit           key.Binding
	Leave          key.Binding
	ToggleSound    key.Binding
	ToggleMotion   key.Binding
	Favorite       key.Binding
	Faster         key.Binding
	Slower         key.Binding
	Quit           key.Binding
}

// DefaultKeyMap returns the terminal bindings for the fixed shortcut table.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		PlayPause:      key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "play/stop")),
		Stop:           key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "stop")),
		ToggleTheme:    key.NewBinding(key.WithKeys("ctrl+k"), key.WithHelp("ctrl+k", "theme")),
		ToggleHelp:     key.NewBinding(key.WithKeys("ctrl+_"), key.WithHelp("ctrl+/", "help")),
		ToggleSettings: key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "settings")),
		Edit:           key.NewBinding(key.WithKeys("i", "enter"), key.WithHelp("i", "edit text")),
		Leave:          key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "leave editor")),
		ToggleSound:    key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "mute tones")),
		ToggleMotion:   key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "animations")),
		Favorite:       key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "favorite")),
		Faster:         key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "faster")),
		Slower:         key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "slower")),
		Quit:           key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.PlayPause, k.Edit, k.ToggleHelp, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.PlayPause, k.Stop, k.Edit, k.Leave},
		{k.ToggleTheme, k.ToggleHelp, k.ToggleSettings, k.Quit},
		{k.ToggleSound, k.ToggleMotion, k.Favorite, k.Faster, k.Slower},
	}
}
