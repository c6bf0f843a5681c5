package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/folio/internal/core/domain"
)

var watchCmd = &cobra.Command{
	Use:   "watch [document]",
	Short: "Print a document every time it changes",
	Long: `Print the document now and again after every change until interrupted.

The sqlite and memory backends only see changes made by this process;
the file and mongo backends also see changes made elsewhere.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	a, err := loadApp(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	updates := make(chan domain.Document, 1)
	stop, err := a.Content.Watch(ctx, args[0], func(doc domain.Document) {
		// Keep only the newest snapshot if the terminal falls behind.
		select {
		case <-updates:
		default:
		}
		updates <- doc
	})
	if err != nil {
		return fmt.Errorf("failed to watch %s: %w", args[0], err)
	}
	defer stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case doc := <-updates:
			cmd.Printf("--- %s ---\n", time.Now().Format("15:04:05"))
			printDocument(cmd, args[0], doc)
			cmd.Println()
		}
	}
}
