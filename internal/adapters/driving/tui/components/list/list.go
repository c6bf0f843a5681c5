// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/folio/internal/adapters/driving/tui/styles"
)

// Item is one row of a list.
type Item struct {
	// Title is the main text of the row.
	Title string

	// Badge is rendered before the title, already styled.
	Badge string

	// Detail is a muted second line.
	Detail string
}

// List displays items in a navigable, scrolling list.
type List struct {
	heading  string
	empty    string
	items    []Item
	selected int
	styles   *styles.Styles
	width    int
	height   int
}

// New creates a list with a heading and the text shown when it is empty.
func New(s *styles.Styles, heading, empty string) *List {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &List{
		heading: heading,
		empty:   empty,
		styles:  s,
		width:   80,
		height:  20,
	}
}

// Init initialises the list.
func (l *List) Init() tea.Cmd {
	return nil
}

// Update handles list navigation messages.
func (l *List) Update(msg tea.Msg) (*List, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			l.MoveUp()
		case "down", "j":
			l.MoveDown()
		}
	}
	return l, nil
}

// View renders the list.
func (l *List) View() string {
	header := l.styles.Subtitle.Render(fmt.Sprintf("%s (%d)", l.heading, len(l.items)))
	if len(l.items) == 0 {
		return header + "\n\n" + l.styles.Muted.Render(l.empty)
	}

	lines := make([]string, 0, len(l.items)*2+2)
	lines = append(lines, header, "")

	// Each item takes up to two lines.
	visible := (l.height - 2) / 2
	if visible < 1 {
		visible = 1
	}
	start := 0
	if l.selected >= visible {
		start = l.selected - visible + 1
	}
	end := min(start+visible, len(l.items))

	for i := start; i < end; i++ {
		lines = append(lines, l.renderItem(i))
	}
	return strings.Join(lines, "\n")
}

func (l *List) renderItem(i int) string {
	item := l.items[i]
	title := truncate(item.Title, l.width-20)
	if title == "" {
		title = "(untitled)"
	}

	var line string
	if i == l.selected {
		line = l.styles.Selected.Render("> " + title)
	} else {
		line = l.styles.Normal.Render("  " + title)
	}
	if item.Badge != "" {
		line = item.Badge + " " + line
	}
	if item.Detail != "" {
		line += "\n" + l.styles.Muted.Render("    "+truncate(item.Detail, l.width-6))
	}
	return line
}

func truncate(s string, n int) string {
	if n < 10 {
		n = 10
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// SetItems replaces the items, keeping the selection in range.
func (l *List) SetItems(items []Item) {
	l.items = items
	l.SetSelected(l.selected)
}

// Items returns the current items.
func (l *List) Items() []Item {
	return l.items
}

// Selected returns the index of the selected item.
func (l *List) Selected() int {
	return l.selected
}

// SetSelected moves the selection, clamped to the list.
func (l *List) SetSelected(index int) {
	l.selected = max(0, min(index, len(l.items)-1))
}

// MoveUp moves selection up.
func (l *List) MoveUp() {
	if l.selected > 0 {
		l.selected--
	}
}

// MoveDown moves selection down.
func (l *List) MoveDown() {
	if l.selected < len(l.items)-1 {
		l.selected++
	}
}

// SetDimensions sets the component dimensions.
func (l *List) SetDimensions(width, height int) {
	l.width = width
	l.height = height
}

// Count returns the number of items.
func (l *List) Count() int {
	return len(l.items)
}

// IsEmpty returns whether the list is empty.
func (l *List) IsEmpty() bool {
	return len(l.items) == 0
}
