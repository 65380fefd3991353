package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the key bindings of the dashboard.
type keyMap struct {
	SelectWeek key.Binding
	Prev       key.Binding
	Next       key.Binding
	Clear      key.Binding
	Quit       key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		SelectWeek: key.NewBinding(
			key.WithKeys("1", "2", "3", "4"),
			key.WithHelp("1-4", "select week"),
		),
		Prev: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "previous week"),
		),
		Next: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "next week"),
		),
		Clear: key.NewBinding(
			key.WithKeys("esc", "0"),
			key.WithHelp("esc", "all weeks"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.SelectWeek, k.Prev, k.Next, k.Clear, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
