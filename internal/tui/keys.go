package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit  key.Binding
	Back  key.Binding
	Up    key.Binding
	Down  key.Binding
	Enter key.Binding

	Play      key.Binding
	Settings  key.Binding
	GameModes key.Binding
	Wiki      key.Binding

	Refresh   key.Binding
	Chat      key.Binding
	Players   key.Binding
	Graveyard key.Binding

	New    key.Binding
	Delete key.Binding
}

var keys = keyMap{
	Quit:  key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	Back:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
	Up:    key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:  key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Enter: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),

	Play:      key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "play")),
	Settings:  key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "settings")),
	GameModes: key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "game modes")),
	Wiki:      key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "wiki")),

	Refresh:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	Chat:      key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "chat")),
	Players:   key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "players")),
	Graveyard: key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "graveyard")),

	New:    key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new")),
	Delete: key.NewBinding(key.WithKeys("delete", "x"), key.WithHelp("del/x", "delete")),
}
