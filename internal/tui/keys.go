package tui

import "github.com/charmbracelet/bubbles/key"

type mode int

const (
	modeInput mode = iota
	modeList
	modeEdit
)

type keyMap struct {
	mode mode

	// input
	Submit key.Binding
	Leave  key.Binding

	// list
	Up             key.Binding
	Down           key.Binding
	Toggle         key.Binding
	Edit           key.Binding
	Delete         key.Binding
	ToggleAll      key.Binding
	ClearCompleted key.Binding
	NextFilter     key.Binding
	PrevFilter     key.Binding
	FilterAll      key.Binding
	FilterActive   key.Binding
	FilterDone     key.Binding
	FocusInput     key.Binding
	Quit           key.Binding

	// edit
	Save   key.Binding
	Cancel key.Binding

	Dismiss   key.Binding
	ForceQuit key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Submit: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "add")),
		Leave:  key.NewBinding(key.WithKeys("tab", "esc"), key.WithHelp("tab", "list")),

		Up:             key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:           key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Toggle:         key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle")),
		Edit:           key.NewBinding(key.WithKeys("e", "enter"), key.WithHelp("e", "edit")),
		Delete:         key.NewBinding(key.WithKeys("d", "x"), key.WithHelp("d", "delete")),
		ToggleAll:      key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "toggle all")),
		ClearCompleted: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear completed")),
		NextFilter:     key.NewBinding(key.WithKeys("f", "right"), key.WithHelp("f", "filter")),
		PrevFilter:     key.NewBinding(key.WithKeys("left")),
		FilterAll:      key.NewBinding(key.WithKeys("1")),
		FilterActive:   key.NewBinding(key.WithKeys("2")),
		FilterDone:     key.NewBinding(key.WithKeys("3")),
		FocusInput:     key.NewBinding(key.WithKeys("/", "i", "n"), key.WithHelp("n", "new")),
		Quit:           key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),

		Save:   key.NewBinding(key.WithKeys("enter", "tab", "up", "down"), key.WithHelp("enter", "save")),
		Cancel: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),

		Dismiss:   key.NewBinding(key.WithKeys("ctrl+e"), key.WithHelp("ctrl+e", "dismiss")),
		ForceQuit: key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

// ShortHelp implements help.KeyMap for the current mode.
func (k keyMap) ShortHelp() []key.Binding {
	switch k.mode {
	case modeInput:
		return []key.Binding{k.Submit, k.Leave, k.Dismiss, k.ForceQuit}
	case modeEdit:
		return []key.Binding{k.Save, k.Cancel, k.Dismiss}
	}
	return []key.Binding{k.Up, k.Down, k.Toggle, k.Edit, k.Delete, k.ToggleAll, k.ClearCompleted, k.NextFilter, k.FocusInput, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding { return [][]key.Binding{k.ShortHelp()} }
