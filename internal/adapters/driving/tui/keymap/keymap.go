// Package keymap defines keybindings for the TUI.
package keymap

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines all keybindings for the TUI.
type KeyMap struct {
	// Quit exits the application.
	Quit key.Binding

	// Help shows the help view.
	Help key.Binding

	// Back returns to the previous view.
	Back key.Binding

	// Up navigates up in a list.
	Up key.Binding

	// Down navigates down in a list.
	Down key.Binding

	// Select opens the highlighted item.
	Select key.Binding

	// Add creates a document, section or block.
	Add key.Binding

	// Delete removes the highlighted item after a y/n prompt.
	Delete key.Binding

	// Rename renames the highlighted section.
	Rename key.Binding

	// MoveUp moves the highlighted section one place earlier.
	MoveUp key.Binding

	// MoveDown moves the highlighted section one place later.
	MoveDown key.Binding

	// CycleType changes the highlighted block to the next variant.
	CycleType key.Binding

	// EditTitle edits the highlighted block's title.
	EditTitle key.Binding

	// EditValue edits the block's text, or its image URLs for galleries.
	EditValue key.Binding

	// EditImage edits the image URL of an image+text block.
	EditImage key.Binding

	// TogglePosition flips an image+text block between left and right.
	TogglePosition key.Binding

	// Confirm answers yes to a prompt.
	Confirm key.Binding

	// Cancel answers no to a prompt or abandons an edit.
	Cancel key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open"),
		),
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		Rename: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "rename"),
		),
		MoveUp: key.NewBinding(
			key.WithKeys("K", "shift+up"),
			key.WithHelp("K", "move up"),
		),
		MoveDown: key.NewBinding(
			key.WithKeys("J", "shift+down"),
			key.WithHelp("J", "move down"),
		),
		CycleType: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "type"),
		),
		EditTitle: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "title"),
		),
		EditValue: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "value"),
		),
		EditImage: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "image"),
		),
		TogglePosition: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "position"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("y", "Y"),
			key.WithHelp("y", "yes"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("n", "N", "esc"),
			key.WithHelp("n", "no"),
		),
	}
}

// ShortHelp returns a short list of keybindings for the help view.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Quit, k.Help}
}

// SectionsHelp returns keybindings for the section list.
func (k *KeyMap) SectionsHelp() []key.Binding {
	return []key.Binding{k.Select, k.Add, k.Delete, k.Rename, k.MoveUp, k.MoveDown, k.Back}
}

// BlocksHelp returns keybindings for the block list.
func (k *KeyMap) BlocksHelp() []key.Binding {
	return []key.Binding{k.Add, k.Delete, k.CycleType, k.EditTitle, k.EditValue, k.Back}
}

// PromptHelp returns keybindings for a y/n prompt.
func (k *KeyMap) PromptHelp() []key.Binding {
	return []key.Binding{k.Confirm, k.Cancel}
}

// FullHelp returns the full list of keybindings for the help view.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Select, k.Back},
		{k.Add, k.Delete, k.Rename, k.MoveUp, k.MoveDown},
		{k.CycleType, k.EditTitle, k.EditValue, k.EditImage, k.TogglePosition},
		{k.Help, k.Quit},
	}
}

// Matches checks if a key string matches a binding.
func Matches(keyStr string, binding key.Binding) bool {
	for _, k := range binding.Keys() {
		if k == keyStr {
			return true
		}
	}
	return false
}
