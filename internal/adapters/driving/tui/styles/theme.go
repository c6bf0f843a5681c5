// Package styles holds the TUI palette and the lipgloss styles built from it.
package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/folio/internal/core/domain"
)

// Theme is the TUI palette. Every block variant gets an accent of its own
// so the block list reads at a glance.
type Theme struct {
	Accent  lipgloss.Color
	Text    lipgloss.Color
	Dim     lipgloss.Color
	Surface lipgloss.Color
	Bar     lipgloss.Color
	Edge    lipgloss.Color

	Saved  lipgloss.Color
	Ask    lipgloss.Color
	Failed lipgloss.Color

	// Blocks maps each variant to its badge colour.
	Blocks map[domain.BlockType]lipgloss.Color
}

// DefaultTheme returns the dark palette folio ships with.
func DefaultTheme() *Theme {
	return &Theme{
		Accent:  lipgloss.Color("#2563EB"),
		Text:    lipgloss.Color("#CDD6F4"),
		Dim:     lipgloss.Color("#6C7086"),
		Surface: lipgloss.Color("#1E1E2E"),
		Bar:     lipgloss.Color("#181825"),
		Edge:    lipgloss.Color("#45475A"),

		Saved:  lipgloss.Color("#A6E3A1"),
		Ask:    lipgloss.Color("#F9E2AF"),
		Failed: lipgloss.Color("#F38BA8"),

		Blocks: map[domain.BlockType]lipgloss.Color{
			domain.BlockRichText:  lipgloss.Color("#2563EB"),
			domain.BlockImageText: lipgloss.Color("#D97706"),
			domain.BlockGallery:   lipgloss.Color("#059669"),
			domain.BlockCarousel:  lipgloss.Color("#DB2777"),
		},
	}
}

// Styles are the rendered looks used by views and components.
type Styles struct {
	theme *Theme

	// Title heads a view with the open document or section.
	Title lipgloss.Style

	// Subtitle heads a list with its item count.
	Subtitle lipgloss.Style

	Normal   lipgloss.Style
	Muted    lipgloss.Style
	Selected lipgloss.Style

	// Error, Success and Prompt colour status bar messages.
	Error   lipgloss.Style
	Success lipgloss.Style
	Prompt  lipgloss.Style

	InputField lipgloss.Style
	StatusBar  lipgloss.Style

	// Badge is the base of the block type labels; see BlockBadge.
	Badge lipgloss.Style
}

// NewStyles builds styles from theme, or from the default theme when nil.
func NewStyles(theme *Theme) *Styles {
	if theme == nil {
		theme = DefaultTheme()
	}

	return &Styles{
		theme:    theme,
		Title:    lipgloss.NewStyle().Bold(true).Foreground(theme.Accent),
		Subtitle: lipgloss.NewStyle().Bold(true).Foreground(theme.Text).Underline(true),
		Normal:   lipgloss.NewStyle().Foreground(theme.Text),
		Muted:    lipgloss.NewStyle().Foreground(theme.Dim),
		Selected: lipgloss.NewStyle().Bold(true).Foreground(theme.Text).Background(theme.Accent),
		Error:    lipgloss.NewStyle().Bold(true).Foreground(theme.Failed),
		Success:  lipgloss.NewStyle().Foreground(theme.Saved),
		Prompt:   lipgloss.NewStyle().Bold(true).Foreground(theme.Ask),
		InputField: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Edge).
			Padding(0, 1),
		StatusBar: lipgloss.NewStyle().
			Foreground(theme.Dim).
			Background(theme.Bar).
			Padding(0, 1),
		Badge: lipgloss.NewStyle().
			Foreground(theme.Surface).
			Padding(0, 1),
	}
}

// DefaultStyles returns styles over the default theme.
func DefaultStyles() *Styles {
	return NewStyles(DefaultTheme())
}

// Theme returns the palette the styles were built from.
func (s *Styles) Theme() *Theme {
	return s.theme
}

// BlockBadge renders the label of a block variant in the variant's colour.
// Unknown variants get the dim colour.
func (s *Styles) BlockBadge(t domain.BlockType) string {
	colour, ok := s.theme.Blocks[t]
	if !ok {
		colour = s.theme.Dim
	}
	return s.Badge.Background(colour).Render(t.Label())
}
