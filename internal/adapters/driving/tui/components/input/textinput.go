// Package input provides text input components for the TUI.
package input

import (
	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/folio/internal/adapters/driving/tui/styles"
)

// Field is a labelled single-line input used for names, titles, HTML
// values and image URLs.
type Field struct {
	textinput textinput.Model
	styles    *styles.Styles
	label     string
	width     int
}

// NewField creates a new input field.
func NewField(s *styles.Styles) *Field {
	if s == nil {
		s = styles.DefaultStyles()
	}

	ti := textinput.New()
	ti.CharLimit = 4096
	ti.Width = 50
	ti.Cursor.SetMode(cursor.CursorStatic)

	return &Field{
		textinput: ti,
		styles:    s,
		width:     50,
	}
}

// Init initialises the field. The cursor does not blink.
func (f *Field) Init() tea.Cmd {
	return nil
}

// Update handles input messages.
func (f *Field) Update(msg tea.Msg) (*Field, tea.Cmd) {
	var cmd tea.Cmd
	f.textinput, cmd = f.textinput.Update(msg)
	return f, cmd
}

// View renders the field.
func (f *Field) View() string {
	label := f.styles.Title.Render(f.label + ": ")
	in := f.styles.InputField.Render(f.textinput.View())
	//nolint:misspell // lipgloss.Center is the correct constant from the library
	return lipgloss.JoinHorizontal(lipgloss.Center, label, in)
}

// Start focuses the field with a label, placeholder and initial value.
func (f *Field) Start(label, placeholder, value string) tea.Cmd {
	f.label = label
	f.textinput.Placeholder = placeholder
	f.textinput.SetValue(value)
	f.textinput.CursorEnd()
	return f.textinput.Focus()
}

// Label returns what the field is asking for.
func (f *Field) Label() string {
	return f.label
}

// Value returns the current input value.
func (f *Field) Value() string {
	return f.textinput.Value()
}

// SetValue sets the input value.
func (f *Field) SetValue(value string) {
	f.textinput.SetValue(value)
}

// Blur removes focus from the field.
func (f *Field) Blur() {
	f.textinput.Blur()
}

// Focused returns whether the field is active.
func (f *Field) Focused() bool {
	return f.textinput.Focused()
}

// SetWidth sets the width of the field.
func (f *Field) SetWidth(width int) {
	f.width = width
	inputWidth := width - len(f.label) - 8
	if inputWidth < 20 {
		inputWidth = 20
	}
	f.textinput.Width = inputWidth
}

// Width returns the current width.
func (f *Field) Width() int {
	return f.width
}

// Reset clears and blurs the field.
func (f *Field) Reset() {
	f.textinput.Reset()
	f.textinput.Blur()
	f.label = ""
}
