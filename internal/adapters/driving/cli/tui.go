package cli

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/folio/internal/adapters/driving/tui"
	"github.com/custodia-labs/folio/internal/logger"
)

// tuiCmd represents the tui command.
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive editor",
	Long: `Launch the interactive terminal editor for the collection.

Pick a document, then add, delete, rename and move its sections, and
edit the blocks of a section: add and delete blocks, cycle their type
and edit titles, text and images. Every change is saved in the
background; failed saves show in the status bar.

Controls:
  ↑/k, ↓/j - Navigate
  Enter    - Open
  Esc      - Back
  ?        - Toggle help
  q        - Quit`,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	// Add panic recovery to get stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	a, err := loadApp(cmd)
	if err != nil {
		return err
	}

	app, err := tui.NewApp(tui.NewPorts(a.Content, a.Editor))
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}
	app.WithContext(cmd.Context())

	// Log lines would tear the alternate screen; failures reach the
	// status bar instead.
	logger.SetOutput(io.Discard)
	defer logger.SetOutput(os.Stderr)
	if a.Notifications != nil {
		remove := a.Notifications.Add(app)
		defer remove()
	}

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
