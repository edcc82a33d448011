package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the dashboard's key bindings.
type KeyMap struct {
	NextFocus key.Binding
	PrevFocus key.Binding
	Apply     key.Binding
	Reset     key.Binding
	Sort      key.Binding
	Up        key.Binding
	Down      key.Binding
	Left      key.Binding
	Right     key.Binding
	Pay       key.Binding
	Cancel    key.Binding
	Quit      key.Binding
	ForceQuit key.Binding
}

// DefaultKeyMap is the standard binding set.
var DefaultKeyMap = KeyMap{
	NextFocus: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
	PrevFocus: key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev field")),
	Apply:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "apply")),
	Reset:     key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "reset")),
	Sort:      key.NewBinding(key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8"), key.WithHelp("1-8", "sort")),
	Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Left:      key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "prev customer")),
	Right:     key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "next customer")),
	Pay:       key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "record payment")),
	Cancel:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	Quit:      key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
	ForceQuit: key.NewBinding(key.WithKeys("ctrl+c")),
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextFocus, k.Apply, k.Reset, k.Sort, k.Pay, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.NextFocus, k.PrevFocus, k.Apply, k.Reset},
		{k.Up, k.Down, k.Left, k.Right},
		{k.Sort, k.Pay, k.Cancel, k.Quit},
	}
}

// dialogKeys is the help shown while the payment dialog is open.
type dialogKeys struct {
	KeyMap
}

func (k dialogKeys) ShortHelp() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch field")),
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "save")),
		k.Cancel,
	}
}

func (k dialogKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
