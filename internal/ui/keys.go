package ui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the key bindings of the task list TUI. List bindings only
// apply while the list has focus so they can be typed into the input.
type KeyMap struct {
	Submit      key.Binding
	FocusToggle key.Binding
	Up          key.Binding
	Down        key.Binding
	Toggle      key.Binding
	Delete      key.Binding
	ClearError  key.Binding
	Quit        key.Binding
	ForceQuit   key.Binding
}

// DefaultKeyMap is the built-in key binding set.
var DefaultKeyMap = KeyMap{
	Submit: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "add"),
	),
	FocusToggle: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "focus"),
	),
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	Toggle: key.NewBinding(
		key.WithKeys("space", " ", "x"),
		key.WithHelp("space", "toggle"),
	),
	Delete: key.NewBinding(
		key.WithKeys("d", "delete"),
		key.WithHelp("d", "delete"),
	),
	ClearError: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "dismiss"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q"),
		key.WithHelp("q", "quit"),
	),
	ForceQuit: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("ctrl+c", "quit"),
	),
}

// inputHelp and listHelp are the bindings shown in the help line.
func (k KeyMap) inputHelp() []key.Binding {
	return []key.Binding{k.Submit, k.FocusToggle, k.ClearError, k.ForceQuit}
}

func (k KeyMap) listHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Toggle, k.Delete, k.FocusToggle, k.Quit}
}
