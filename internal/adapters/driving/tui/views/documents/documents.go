// Package documents provides the documents list view component for the TUI.
package documents

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/folio/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/folio/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/folio/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/folio/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/folio/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/folio/internal/core/ports/driving"
)

// View lists the documents of the collection and opens one for editing.
type View struct {
	styles  *styles.Styles
	keymap  *keymap.KeyMap
	content driving.ContentService

	list   *list.List
	field  *input.Field
	keys   []string
	err    error
	width  int
	height int
}

// NewView creates a new documents view.
func NewView(s *styles.Styles, km *keymap.KeyMap, content driving.ContentService) *View {
	return &View{
		styles:  s,
		keymap:  km,
		content: content,
		list:    list.New(s, "Documents", "No documents yet. Press a to create one."),
		field:   input.NewField(s),
	}
}

// Init loads the document keys.
func (v *View) Init() tea.Cmd {
	return v.load()
}

func (v *View) load() tea.Cmd {
	content := v.content
	return func() tea.Msg {
		if content == nil {
			return messages.DocumentsLoaded{Err: errors.New("content service not available")}
		}
		keys, err := content.List(context.Background())
		return messages.DocumentsLoaded{Keys: keys, Err: err}
	}
}

// Update handles messages for the documents view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if v.field.Focused() {
			return v.handleFieldKey(msg)
		}
		return v.handleKey(msg)

	case messages.DocumentsLoaded:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.err = nil
		v.keys = msg.Keys
		items := make([]list.Item, len(msg.Keys))
		for i, k := range msg.Keys {
			items[i] = list.Item{Title: k}
		}
		v.list.SetItems(items)
		return v, nil

	case messages.ErrorOccurred:
		v.err = msg.Err
		return v, nil
	}

	if v.field.Focused() {
		var cmd tea.Cmd
		v.field, cmd = v.field.Update(msg)
		return v, cmd
	}
	return v, nil
}

func (v *View) handleKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch k := msg.String(); {
	case keymap.Matches(k, v.keymap.Up), keymap.Matches(k, v.keymap.Down):
		v.list, _ = v.list.Update(msg)
	case keymap.Matches(k, v.keymap.Select):
		if key, ok := v.SelectedKey(); ok {
			return v, selectDocument(key)
		}
	case keymap.Matches(k, v.keymap.Add):
		return v, v.field.Start("Document", "e.g. home", "")
	case k == "r":
		return v, v.load()
	}
	return v, nil
}

func (v *View) handleFieldKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		v.field.Reset()
		return v, nil
	case tea.KeyEnter:
		name := strings.TrimSpace(v.field.Value())
		v.field.Reset()
		if name == "" {
			return v, nil
		}
		return v, selectDocument(name)
	}
	var cmd tea.Cmd
	v.field, cmd = v.field.Update(msg)
	return v, cmd
}

func selectDocument(key string) tea.Cmd {
	return func() tea.Msg {
		return messages.DocumentSelected{Key: key}
	}
}

// View renders the documents view.
func (v *View) View() string {
	var b strings.Builder
	b.WriteString(v.styles.Title.Render("folio"))
	b.WriteString("\n\n")
	b.WriteString(v.list.View())
	if v.field.Focused() {
		b.WriteString("\n\n")
		b.WriteString(v.field.View())
	}
	if v.err != nil {
		b.WriteString("\n\n")
		b.WriteString(v.styles.Error.Render("Error: " + v.err.Error()))
	}
	return b.String()
}

// Hints returns the keybindings relevant to this view.
func (v *View) Hints() []key.Binding {
	return []key.Binding{v.keymap.Select, v.keymap.Add, v.keymap.Quit}
}

// Capturing reports whether the view is consuming text input.
func (v *View) Capturing() bool {
	return v.field.Focused()
}

// SelectedKey returns the highlighted document key.
func (v *View) SelectedKey() (string, bool) {
	if len(v.keys) == 0 {
		return "", false
	}
	return v.keys[v.list.Selected()], true
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.list.SetDimensions(width, height-6)
	v.field.SetWidth(width)
}
