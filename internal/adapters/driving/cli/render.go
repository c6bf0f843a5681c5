package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/folio/internal/core/domain"
)

var renderCmd = &cobra.Command{
	Use:   "render [document...]",
	Short: "Render documents to HTML",
	Long: `Render one or more documents with the page templates.

With --output-dir each document is written to <dir>/<document>.html.
Otherwise the pages are printed to stdout in argument order.

Templates live in ~/.folio/templates and can be edited freely.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRender,
}

// Render flags.
var (
	renderOutputDir string
	renderParallel  int
)

func init() {
	renderCmd.Flags().StringVarP(&renderOutputDir, "output-dir", "o", "", "Write <document>.html files here")
	renderCmd.Flags().IntVarP(&renderParallel, "parallel", "p", 4, "Documents rendered at once")
	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	a, err := loadApp(cmd)
	if err != nil {
		return err
	}
	if renderOutputDir != "" {
		for _, key := range args {
			if err := checkFileName(key); err != nil {
				return err
			}
		}
		if err := os.MkdirAll(renderOutputDir, 0755); err != nil {
			return fmt.Errorf("failed to create %s: %w", renderOutputDir, err)
		}
	}

	pages := make([]bytes.Buffer, len(args))

	g, ctx := errgroup.WithContext(cmd.Context())
	if renderParallel > 0 {
		g.SetLimit(renderParallel)
	}
	for i, key := range args {
		g.Go(func() error {
			doc, err := a.Content.Get(ctx, key)
			if err != nil {
				return fmt.Errorf("failed to get %s: %w", key, err)
			}
			if err := a.Renderer.Render(&pages[i], key, doc); err != nil {
				return err
			}
			if renderOutputDir == "" {
				return nil
			}
			path := filepath.Join(renderOutputDir, key+".html")
			if err := os.WriteFile(path, pages[i].Bytes(), 0644); err != nil {
				return fmt.Errorf("failed to write %s: %w", path, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for i, key := range args {
		if renderOutputDir != "" {
			cmd.Printf("Rendered %s\n", filepath.Join(renderOutputDir, key+".html"))
			continue
		}
		if _, err := pages[i].WriteTo(cmd.OutOrStdout()); err != nil {
			return err
		}
	}
	return nil
}

// checkFileName rejects document keys that would leave the output directory.
func checkFileName(key string) error {
	switch {
	case key == "":
		return &domain.ValidationError{Field: "document", Reason: "is required"}
	case strings.HasPrefix(key, "."):
		return &domain.ValidationError{Field: "document", Reason: fmt.Sprintf("%q must not start with a dot", key)}
	case strings.ContainsAny(key, `/\`):
		return &domain.ValidationError{Field: "document", Reason: fmt.Sprintf("%q must not contain path separators", key)}
	}
	return nil
}
