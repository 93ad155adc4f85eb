package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Start      key.Binding
	Dictionary key.Binding
	Chapter    key.Binding
	Visibility key.Binding
	Fill       key.Binding
	ReadOnly   key.Binding
	Next       key.Binding
	Reveal     key.Binding
	Help       key.Binding
	Quit       key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Start:      key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "start/stop")),
		Dictionary: key.NewBinding(key.WithKeys("ctrl+d"), key.WithHelp("ctrl+d", "dictionary")),
		Chapter:    key.NewBinding(key.WithKeys("ctrl+g"), key.WithHelp("ctrl+g", "chapter")),
		Visibility: key.NewBinding(key.WithKeys("ctrl+v"), key.WithHelp("ctrl+v", "hide/show word")),
		Fill:       key.NewBinding(key.WithKeys("ctrl+p"), key.WithHelp("ctrl+p", "placeholder fill")),
		ReadOnly:   key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "read-only")),
		Next:       key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "next word (read-only)")),
		Reveal:     key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "translation (read-only)")),
		Help:       key.NewBinding(key.WithKeys("f1"), key.WithHelp("f1", "help")),
		Quit:       key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Start, k.Dictionary, k.Chapter, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Start, k.Dictionary, k.Chapter},
		{k.Visibility, k.Fill, k.ReadOnly},
		{k.Next, k.Reveal},
		{k.Help, k.Quit},
	}
}
