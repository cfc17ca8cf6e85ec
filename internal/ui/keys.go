package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Send          key.Binding
	Stop          key.Binding
	SwitchFocus   key.Binding
	NewChat       key.Binding
	ToggleSidebar key.Binding
	Clear         key.Binding
	Settings      key.Binding
	Quit          key.Binding

	// settings panel
	Prev  key.Binding
	Next  key.Binding
	Apply key.Binding
	Close key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Send:          key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "send/select")),
		Stop:          key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "stop reply")),
		SwitchFocus:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch focus")),
		NewChat:       key.NewBinding(key.WithKeys("ctrl+n"), key.WithHelp("ctrl+n", "new chat")),
		ToggleSidebar: key.NewBinding(key.WithKeys("ctrl+b"), key.WithHelp("ctrl+b", "sidebar")),
		Clear:         key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("ctrl+l", "clear chat")),
		Settings:      key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "settings")),
		Quit:          key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),

		Prev:  key.NewBinding(key.WithKeys("left", "up", "h", "k", "shift+tab"), key.WithHelp("←", "previous")),
		Next:  key.NewBinding(key.WithKeys("right", "down", "l", "j", "tab"), key.WithHelp("→", "next")),
		Apply: key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "apply")),
		Close: key.NewBinding(key.WithKeys("esc", "ctrl+s"), key.WithHelp("esc", "close")),
	}
}

// ShortHelp implements help.KeyMap
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Send, k.SwitchFocus, k.NewChat, k.Clear, k.Settings, k.ToggleSidebar, k.Quit}
}

// FullHelp implements help.KeyMap
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Send, k.Stop, k.SwitchFocus},
		{k.NewChat, k.Clear, k.ToggleSidebar},
		{k.Settings, k.Quit},
	}
}

// settingsKeys is the help shown inside the settings panel
type settingsKeys keyMap

func (k settingsKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Prev, k.Next, k.Apply, k.Close}
}

func (k settingsKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
