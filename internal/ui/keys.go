package ui

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines all keybindings for the application
type KeyMap struct {
	// Navigation
	Up     key.Binding
	Down   key.Binding
	Top    key.Binding
	Bottom key.Binding

	// Project actions
	New    key.Binding
	Edit   key.Binding
	Delete key.Binding

	// Presentation
	ToggleView key.Binding
	CycleSort  key.Binding
	Reload     key.Binding
	Dismiss    key.Binding
	ThemeCycle key.Binding
	Help       key.Binding

	// Form
	NextField    key.Binding
	PrevField    key.Binding
	Status       key.Binding
	AddFabric    key.Binding
	RemoveFabric key.Binding
	Submit       key.Binding
	Cancel       key.Binding

	// General
	Quit key.Binding
}

// DefaultKeyMap returns the default keybindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		// Navigation
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Top: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G"),
			key.WithHelp("G", "bottom"),
		),

		// Project actions
		New: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new project"),
		),
		Edit: key.NewBinding(
			key.WithKeys("enter", "e"),
			key.WithHelp("enter/e", "edit"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),

		// Presentation
		ToggleView: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "cards/list"),
		),
		CycleSort: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "sort"),
		),
		Reload: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reload"),
		),
		Dismiss: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "dismiss error"),
		),
		ThemeCycle: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("C-t", "theme"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),

		// Form
		NextField: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next field"),
		),
		PrevField: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("S-tab", "previous field"),
		),
		Status: key.NewBinding(
			key.WithKeys("left", "right"),
			key.WithHelp("←/→", "status"),
		),
		AddFabric: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "add fabric"),
		),
		RemoveFabric: key.NewBinding(
			key.WithKeys("ctrl+d"),
			key.WithHelp("C-d", "remove fabric"),
		),
		Submit: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("C-s", "save"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),

		// General
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp returns short help bindings (for status bar)
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.New, k.Edit, k.Delete, k.ToggleView, k.CycleSort, k.Reload, k.Help}
}

// FullHelp returns full help bindings (for help view), one group per
// section: navigation, projects, presentation, form, system
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Top, k.Bottom},
		{k.New, k.Edit, k.Delete, k.Reload},
		{k.ToggleView, k.CycleSort, k.ThemeCycle, k.Dismiss},
		{k.NextField, k.PrevField, k.Status, k.AddFabric, k.RemoveFabric, k.Submit, k.Cancel},
		{k.Help, k.Quit},
	}
}

// FormHelp returns the bindings shown while the form is open
func (k KeyMap) FormHelp() []key.Binding {
	return []key.Binding{k.NextField, k.Status, k.AddFabric, k.RemoveFabric, k.Submit, k.Cancel}
}
