package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the application.
type keyMap struct {
	// Global
	Quit       key.Binding
	Help       key.Binding
	CycleTheme key.Binding
	ToggleLogs key.Binding

	// Canvas
	Clear        key.Binding
	Export       key.Binding
	ToggleMulti  key.Binding
	TogglePoints key.Binding
	SiftUp       key.Binding
	SiftDown     key.Binding

	// Device
	Home     key.Binding
	SaveHome key.Binding
	Connect  key.Binding
	JogUp    key.Binding
	JogDown  key.Binding
	JogLeft  key.Binding
	JogRight key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "Quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("h", "?"),
			key.WithHelp("h/?", "Toggle help"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "Cycle theme"),
		),
		ToggleLogs: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "Toggle log pane"),
		),

		Clear: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "Clear canvas"),
		),
		Export: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "Export PDF"),
		),
		ToggleMulti: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "Toggle multi-client"),
		),
		TogglePoints: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "Show sent points"),
		),
		SiftUp: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "Send fewer points"),
		),
		SiftDown: key.NewBinding(
			key.WithKeys("-", "_"),
			key.WithHelp("-", "Send more points"),
		),

		Home: key.NewBinding(
			key.WithKeys("H"),
			key.WithHelp("H", "Move pen home"),
		),
		SaveHome: key.NewBinding(
			key.WithKeys("S"),
			key.WithHelp("S", "Save home"),
		),
		Connect: key.NewBinding(
			key.WithKeys("C"),
			key.WithHelp("C", "Reconnect device"),
		),
		JogUp: key.NewBinding(
			key.WithKeys("up"),
			key.WithHelp("↑", "Jog up"),
		),
		JogDown: key.NewBinding(
			key.WithKeys("down"),
			key.WithHelp("↓", "Jog down"),
		),
		JogLeft: key.NewBinding(
			key.WithKeys("left"),
			key.WithHelp("←", "Jog left"),
		),
		JogRight: key.NewBinding(
			key.WithKeys("right"),
			key.WithHelp("→", "Jog right"),
		),
	}
}

// ShortHelp returns key bindings for the command bar.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Clear, k.ToggleMulti, k.SiftUp, k.SiftDown, k.Export, k.Help, k.Quit}
}

// FullHelp returns key bindings for the help overlay, one group per section.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Clear, k.Export, k.ToggleMulti, k.TogglePoints, k.SiftUp, k.SiftDown},
		{k.Home, k.SaveHome, k.Connect, k.JogUp, k.JogDown, k.JogLeft, k.JogRight},
		{k.ToggleLogs, k.CycleTheme, k.Help, k.Quit},
	}
}
