package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Overview    key.Binding
	Activate    key.Binding
	Minimize    key.Binding
	Maximize    key.Binding
	Fullscreen  key.Binding
	Tile        key.Binding
	Untile      key.Binding
	CycleLayout key.Binding
	ShowDesktop key.Binding
	Workspace   key.Binding
	Help        key.Binding
	Quit        key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Overview:    key.NewBinding(key.WithKeys("o", " "), key.WithHelp("o", "multitask view")),
		Activate:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "activate")),
		Minimize:    key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "minimize")),
		Maximize:    key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "maximize")),
		Fullscreen:  key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "fullscreen")),
		Tile:        key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "tile")),
		Untile:      key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "untile")),
		CycleLayout: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "next layout")),
		ShowDesktop: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "show desktop")),
		Workspace: key.NewBinding(
			key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"),
			key.WithHelp("1-9", "workspace"),
		),
		Help: key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit: key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Overview, k.Activate, k.Tile, k.Workspace, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Overview, k.Activate, k.ShowDesktop},
		{k.Minimize, k.Maximize, k.Fullscreen},
		{k.Tile, k.Untile, k.CycleLayout},
		{k.Workspace, k.Help, k.Quit},
	}
}
