// Package blocks provides the block list view of one section.
package blocks

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

// Field names a block attribute edited through the input field.
type Field string

const (
	FieldTitle  Field = "title"
	FieldValue  Field = "value"
	FieldImage  Field = "imageUrl"
	FieldImages Field = "imageUrls"
)

// View lists the blocks of one section and edits them in place.
type View struct {
	styles *styles.Styles
	keymap *keymap.KeyMap

	section    driving.SectionEditor
	list       *list.List
	field      *input.Field
	editing    Field
	confirming bool
	err        error
	width      int
	height     int
}

// NewView creates a new blocks view.
func NewView(s *styles.Styles, km *keymap.KeyMap) *View {
	return &View{
		styles: s,
		keymap: km,
		list:   list.New(s, "Blocks", "No blocks yet. Press a to add one."),
		field:  input.NewField(s),
	}
}

// SetSection shows a section's blocks.
func (v *View) SetSection(section driving.SectionEditor) {
	v.section = section
	v.err = nil
	v.confirming = false
	v.editing = ""
	v.field.Reset()
	v.list.SetSelected(0)
	v.Refresh()
}

// Section returns the section being edited.
func (v *View) Section() driving.SectionEditor {
	return v.section
}

// Refresh rebuilds the list from the editor's local state.
func (v *View) Refresh() {
	if v.section == nil {
		v.list.SetItems(nil)
		return
	}
	blocks := v.section.Blocks()
	items := make([]list.Item, len(blocks))
	for i, b := range blocks {
		items[i] = list.Item{
			Title:  b.BlockTitle(),
			Badge:  v.styles.BlockBadge(b.Type()),
			Detail: Summary(b),
		}
	}
	v.list.SetItems(items)
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return nil
}

// Update handles messages for the blocks view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	if v.section == nil {
		return v, nil
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case v.confirming:
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
	block, ok := v.SelectedBlock()
	index := v.list.Selected()

	switch {
	case keymap.Matches(k, v.keymap.Back):
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewSections}
		}
	case keymap.Matches(k, v.keymap.Up), keymap.Matches(k, v.keymap.Down):
		v.list, _ = v.list.Update(msg)
	case keymap.Matches(k, v.keymap.Add):
		i := v.section.AddBlock()
		v.Refresh()
		v.list.SetSelected(i)
	case !ok:
		return v, nil
	case keymap.Matches(k, v.keymap.Delete):
		v.confirming = true
	case keymap.Matches(k, v.keymap.CycleType):
		v.section.ChangeType(index, block.Type().Next())
		v.Refresh()
	case keymap.Matches(k, v.keymap.EditTitle):
		return v, v.startEdit(index, FieldTitle, "Title", block.BlockTitle())
	case keymap.Matches(k, v.keymap.EditValue):
		switch b := block.(type) {
		case domain.RichText:
			return v, v.startEdit(index, FieldValue, "HTML", b.Value)
		case domain.ImageText:
			return v, v.startEdit(index, FieldValue, "HTML", b.Value)
		case domain.Gallery:
			return v, v.startEdit(index, FieldImages, "Image URLs", strings.Join(b.ImageURLs, ", "))
		case domain.Carousel:
			return v, v.startEdit(index, FieldImages, "Image URLs", strings.Join(b.ImageURLs, ", "))
		}
	case keymap.Matches(k, v.keymap.EditImage):
		if b, isImage := block.(domain.ImageText); isImage {
			return v, v.startEdit(index, FieldImage, "Image URL", b.ImageURL)
		}
	case keymap.Matches(k, v.keymap.TogglePosition):
		if b, isImage := block.(domain.ImageText); isImage {
			b.ImagePosition = flip(b.ImagePosition)
			v.update(index, b)
		}
	}
	return v, nil
}

func flip(p domain.ImagePosition) domain.ImagePosition {
	if p == domain.ImageRight {
		return domain.ImageLeft
	}
	return domain.ImageRight
}

func (v *View) startEdit(index int, f Field, label, value string) tea.Cmd {
	v.section.Edit(index)
	v.editing = f
	return v.field.Start(label, "", value)
}

func (v *View) handleConfirmKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	v.confirming = false
	if !keymap.Matches(msg.String(), v.keymap.Confirm) {
		return v, nil
	}
	if _, ok := v.SelectedBlock(); !ok {
		return v, nil
	}
	v.section.DeleteBlock(v.list.Selected(), domain.AlwaysConfirm)
	v.Refresh()
	return v, nil
}

func (v *View) handleFieldKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		v.closeField()
		return v, nil
	case tea.KeyEnter:
		value := v.field.Value()
		f := v.editing
		v.closeField()
		if block, ok := v.SelectedBlock(); ok {
			v.update(v.list.Selected(), SetField(block, f, value))
		}
		return v, nil
	}
	var cmd tea.Cmd
	v.field, cmd = v.field.Update(msg)
	return v, cmd
}

func (v *View) closeField() {
	v.field.Reset()
	v.editing = ""
	v.section.Done()
}

func (v *View) update(index int, b domain.Block) {
	if err := v.section.UpdateBlock(index, b); err != nil {
		v.err = err
		return
	}
	v.err = nil
	v.Refresh()
}

// SetField returns b with one attribute replaced. Attributes the variant
// does not carry leave b unchanged.
func SetField(b domain.Block, f Field, value string) domain.Block {
	switch x := b.(type) {
	case domain.RichText:
		switch f {
		case FieldTitle:
			x.Title = value
		case FieldValue:
			x.Value = value
		case FieldImage, FieldImages:
		}
		return x
	case domain.ImageText:
		switch f {
		case FieldTitle:
			x.Title = value
		case FieldValue:
			x.Value = value
		case FieldImage:
			x.ImageURL = strings.TrimSpace(value)
		case FieldImages:
		}
		return x
	case domain.Gallery:
		switch f {
		case FieldTitle:
			x.Title = value
		case FieldImages:
			x.ImageURLs = SplitURLs(value)
		case FieldValue, FieldImage:
		}
		return x
	case domain.Carousel:
		switch f {
		case FieldTitle:
			x.Title = value
		case FieldImages:
			x.ImageURLs = SplitURLs(value)
		case FieldValue, FieldImage:
		}
		return x
	}
	return b
}

// SplitURLs parses a comma-separated URL list, dropping blanks.
func SplitURLs(s string) []string {
	urls := []string{}
	for _, u := range strings.Split(s, ",") {
		if u = strings.TrimSpace(u); u != "" {
			urls = append(urls, u)
		}
	}
	return urls
}

// Summary describes a block's content on one line.
func Summary(b domain.Block) string {
	switch x := b.(type) {
	case domain.RichText:
		return textSummary(x.Value)
	case domain.ImageText:
		img := x.ImageURL
		if img == "" {
			img = "no image"
		}
		return fmt.Sprintf("[%s, %s] %s", img, x.ImagePosition, textSummary(x.Value))
	case domain.Gallery:
		return imageCount(len(x.ImageURLs))
	case domain.Carousel:
		return imageCount(len(x.ImageURLs))
	}
	return ""
}

func textSummary(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if s == "" {
		return "(empty)"
	}
	return s
}

func imageCount(n int) string {
	if n == 1 {
		return "1 image"
	}
	return fmt.Sprintf("%d images", n)
}

// View renders the blocks view.
func (v *View) View() string {
	if v.section == nil {
		return v.styles.Muted.Render("No section open")
	}

	var b strings.Builder
	b.WriteString(v.styles.Title.Render(v.section.Key()))
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
	if !v.confirming {
		return "", false
	}
	return fmt.Sprintf("Delete block %d?", v.list.Selected()+1), true
}

// Hints returns the keybindings relevant to this view.
func (v *View) Hints() []key.Binding {
	return v.keymap.BlocksHelp()
}

// Capturing reports whether the view is consuming text input.
func (v *View) Capturing() bool {
	return v.field.Focused() || v.confirming
}

// SelectedBlock returns the highlighted block.
func (v *View) SelectedBlock() (domain.Block, bool) {
	if v.section == nil {
		return nil, false
	}
	blocks := v.section.Blocks()
	i := v.list.Selected()
	if i < 0 || i >= len(blocks) {
		return nil, false
	}
	return blocks[i], true
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
