package viewer

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines keybindings for the stream viewer
type KeyMap struct {
	Quit       key.Binding
	Pause      key.Binding
	Expand     key.Binding
	Finish     key.Binding
	ScrollUp   key.Binding
	ScrollDown key.Binding
}

// DefaultKeyMap returns the default keybindings for the viewer
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Pause: key.NewBinding(
			key.WithKeys("p", " "),
			key.WithHelp("p", "pause"),
		),
		Expand: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "expand"),
		),
		Finish: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "finish"),
		),
		ScrollUp: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/up", "scroll up"),
		),
		ScrollDown: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/down", "scroll down"),
		),
	}
}

// ShortHelp returns keybindings for the status line
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Pause, k.Expand, k.Finish, k.Quit}
}
