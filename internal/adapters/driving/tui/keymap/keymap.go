// Package keymap defines keybindings for the reader TUI.
package keymap

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines all keybindings for the reader.
type KeyMap struct {
	// Quit exits the reader.
	Quit key.Binding

	// Toggle plays or pauses.
	Toggle key.Binding

	// Back seeks backwards.
	Back key.Binding

	// Forward seeks forwards.
	Forward key.Binding

	// Restart seeks to the beginning.
	Restart key.Binding

	// Slower decreases words per minute.
	Slower key.Binding

	// Faster increases words per minute.
	Faster key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c", "esc"),
			key.WithHelp("q", "quit"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "play/pause"),
		),
		Back: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "back"),
		),
		Forward: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "forward"),
		),
		Restart: key.NewBinding(
			key.WithKeys("0", "home"),
			key.WithHelp("0", "restart"),
		),
		Slower: key.NewBinding(
			key.WithKeys("-", "down", "j"),
			key.WithHelp("-", "slower"),
		),
		Faster: key.NewBinding(
			key.WithKeys("+", "=", "up", "k"),
			key.WithHelp("+", "faster"),
		),
	}
}
