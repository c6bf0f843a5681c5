// Package sections provides the section list view of one document.
package sections

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/folio/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/folio/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/folio/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/folio/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/folio/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/folio/internal/core/domain"
	"github.com/custodia-labs/folio/internal/core/ports/driving"
)

// fieldPurpose says what the open input field will do on enter.
type fieldPurpose int

const (
	fieldNone fieldPurpose = iota
	fieldAdd
	fieldRename
)

// View lists the sections of a document in display order.
type View struct {
	styles *styles.Styles
	keymap *keymap.KeyMap

	page       driving.PageEditor
	list       *list.List
	field      *input.Field
	purpose    fieldPurpose
	confirming string
	err        error
	width      int
	height     int
}

// NewView creates a new sections view.
func NewView(s *styles.Styles, km *keymap.KeyMap) *View {
	return &View{
		styles: s,
		keymap: km,
		list:   list.New(s, "Sections", "No sections yet. Press a to add one."),
		field:  input.NewField(s),
	}
}

// SetPage shows a loaded document.
func (v *View) SetPage(page driving.PageEditor) {
	v.page = page
	v.err = nil
	v.confirming = ""
	v.purpose = fieldNone
	v.field.Reset()
	v.list.SetSelected(0)
	v.Refresh()
}

// Page returns the document being edited.
func (v *View) Page() driving.PageEditor {
	return v.page
}

// Refresh rebuilds the list from the editor's local state.
func (v *View) Refresh() {
	if v.page == nil {
		v.list.SetItems(nil)
		return
	}
	order := v.page.Order()
	items := make([]list.Item, 0, len(order))
	for _, k := range order {
		entry, _ := v.page.Section(k)
		items = append(items, list.Item{
			Title:  k,
			Detail: countBlocks(len(entry.Content)),
		})
	}
	v.list.SetItems(items)
}

func countBlocks(n int) string {
	if n == 1 {
		return "1 block"
	}
	return fmt.Sprintf("%d blocks", n)
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return nil
}

// Update handles messages for the sections view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	if v.page == nil {
		return v, nil
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case v.confirming != "":
			return v.handleConfirmKey(msg)
		case v.field.Focused():
			return v.handleFieldKey(msg)
		}
		return v.handleKey(msg)

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
	k := msg.String()
	selected, ok := v.SelectedKey()

	switch {
	case keymap.Matches(k, v.keymap.Back):
		v.page.Flush()
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewDocuments}
		}
	case keymap.Matches(k, v.keymap.Up), keymap.Matches(k, v.keymap.Down):
		v.list, _ = v.list.Update(msg)
	case keymap.Matches(k, v.keymap.Add):
		v.purpose = fieldAdd
		return v, v.field.Start("New section", "e.g. intro", "")
	case !ok:
		return v, nil
	case keymap.Matches(k, v.keymap.Select):
		return v, func() tea.Msg {
			return messages.SectionSelected{Key: selected}
		}
	case keymap.Matches(k, v.keymap.Delete):
		v.confirming = selected
	case keymap.Matches(k, v.keymap.Rename):
		v.purpose = fieldRename
		return v, v.field.Start("Rename "+selected, "", selected)
	case keymap.Matches(k, v.keymap.MoveUp):
		v.move(selected, v.list.Selected()-1)
	case keymap.Matches(k, v.keymap.MoveDown):
		v.move(selected, v.list.Selected()+1)
	}
	return v, nil
}

func (v *View) move(key string, to int) {
	if to < 0 || to >= v.list.Count() {
		return
	}
	if err := v.page.MoveSection(key, to); err != nil {
		v.err = err
		return
	}
	v.err = nil
	v.Refresh()
	v.list.SetSelected(to)
}

func (v *View) handleConfirmKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	key := v.confirming
	v.confirming = ""
	if !keymap.Matches(msg.String(), v.keymap.Confirm) {
		return v, nil
	}
	if _, err := v.page.DeleteSection(key, domain.AlwaysConfirm); err != nil {
		v.err = err
		return v, nil
	}
	v.err = nil
	v.Refresh()
	return v, nil
}

func (v *View) handleFieldKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		v.closeField()
		return v, nil
	case tea.KeyEnter:
		name := strings.TrimSpace(v.field.Value())
		purpose := v.purpose
		v.closeField()
		v.submit(purpose, name)
		return v, nil
	}
	var cmd tea.Cmd
	v.field, cmd = v.field.Update(msg)
	return v, cmd
}

func (v *View) submit(purpose fieldPurpose, name string) {
	var err error
	switch purpose {
	case fieldAdd:
		err = v.page.AddSection(name)
		if err == nil {
			v.Refresh()
			v.list.SetSelected(v.list.Count() - 1)
		}
	case fieldRename:
		selected, _ := v.SelectedKey()
		if name == selected {
			return
		}
		err = v.page.RenameSection(selected, name)
		if err == nil {
			v.Refresh()
		}
	case fieldNone:
	}
	v.err = err
}

func (v *View) closeField() {
	v.field.Reset()
	v.purpose = fieldNone
}

// View renders the sections view.
func (v *View) View() string {
	if v.page == nil {
		return v.styles.Muted.Render("No document open")
	}

	var b strings.Builder
	b.WriteString(v.styles.Title.Render(v.page.Key()))
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

// Prompt returns the pending y/n question, if any.
func (v *View) Prompt() (string, bool) {
	if v.confirming == "" {
		return "", false
	}
	return fmt.Sprintf("Delete section %q and all its blocks?", v.confirming), true
}

// Hints returns the keybindings relevant to this view.
func (v *View) Hints() []key.Binding {
	return v.keymap.SectionsHelp()
}

// Capturing reports whether the view is consuming text input.
func (v *View) Capturing() bool {
	return v.field.Focused() || v.confirming != ""
}

// SelectedKey returns the highlighted section key.
func (v *View) SelectedKey() (string, bool) {
	if v.page == nil || v.list.IsEmpty() {
		return "", false
	}
	return v.list.Items()[v.list.Selected()].Title, true
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
