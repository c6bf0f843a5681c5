package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/folio/internal/core/domain"
	"github.com/custodia-labs/folio/internal/core/ports/driving"
)

var docCmd = &cobra.Command{
	Use:     "doc",
	Aliases: []string{"document"},
	Short:   "List, show, export and import documents",
}

var docListCmd = &cobra.Command{
	Use:   "list",
	Short: "List documents in the collection",
	Args:  cobra.NoArgs,
	RunE:  runDocList,
}

var docShowCmd = &cobra.Command{
	Use:   "show [document]",
	Short: "Show a document's sections and blocks",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocShow,
}

var docExportCmd = &cobra.Command{
	Use:   "export [document]",
	Short: "Write a document as JSON or YAML",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocExport,
}

var docImportCmd = &cobra.Command{
	Use:   "import [document]",
	Short: "Replace a document with JSON or YAML input",
	Long: `Replace a document with the contents of a JSON or YAML file.

The input is checked in full before anything is written, so a bad file
leaves the stored document unchanged.`,
	Args: cobra.ExactArgs(1),
	RunE: runDocImport,
}

// Document flags.
var (
	docFormat string
	docOutput string
	docInput  string
)

func init() {
	docExportCmd.Flags().StringVarP(&docFormat, "format", "f", "json", "Output format: json or yaml")
	docExportCmd.Flags().StringVarP(&docOutput, "output", "o", "", "Output file (default stdout)")
	docImportCmd.Flags().StringVarP(&docFormat, "format", "f", "json", "Input format: json or yaml")
	docImportCmd.Flags().StringVarP(&docInput, "input", "i", "", "Input file (default stdin)")

	docCmd.AddCommand(docListCmd)
	docCmd.AddCommand(docShowCmd)
	docCmd.AddCommand(docExportCmd)
	docCmd.AddCommand(docImportCmd)
	rootCmd.AddCommand(docCmd)
}

func runDocList(cmd *cobra.Command, _ []string) error {
	a, err := loadApp(cmd)
	if err != nil {
		return err
	}

	keys, err := a.Content.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}
	if len(keys) == 0 {
		cmd.Printf("No documents in %s\n", a.Collection)
		return nil
	}

	cmd.Printf("Documents in %s:\n\n", a.Collection)
	for _, key := range keys {
		cmd.Printf("  %s\n", key)
	}
	cmd.Printf("\nTotal: %d documents\n", len(keys))
	return nil
}

func runDocShow(cmd *cobra.Command, args []string) error {
	a, err := loadApp(cmd)
	if err != nil {
		return err
	}

	doc, err := a.Content.Get(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to get document: %w", err)
	}
	printDocument(cmd, args[0], doc)
	return nil
}

func printDocument(cmd *cobra.Command, key string, doc domain.Document) {
	cmd.Printf("Document: %s\n", key)
	order := doc.Order()
	if len(order) == 0 {
		cmd.Println("  (no sections)")
		return
	}
	for _, name := range order {
		sec := doc.Sections[name]
		cmd.Printf("\n%s (index %d)\n", name, sec.Index)
		for i, b := range sec.Content {
			printBlock(cmd, i, b)
		}
	}
}

func runDocExport(cmd *cobra.Command, args []string) error {
	format, err := driving.ParseExportFormat(docFormat)
	if err != nil {
		return err
	}
	a, err := loadApp(cmd)
	if err != nil {
		return err
	}

	var w io.Writer = cmd.OutOrStdout()
	if docOutput != "" {
		f, err := os.Create(docOutput)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", docOutput, err)
		}
		defer f.Close()
		w = f
	}

	if err := a.Content.Export(cmd.Context(), args[0], format, w); err != nil {
		return fmt.Errorf("failed to export %s: %w", args[0], err)
	}
	return nil
}

func runDocImport(cmd *cobra.Command, args []string) error {
	format, err := driving.ParseExportFormat(docFormat)
	if err != nil {
		return err
	}
	a, err := loadApp(cmd)
	if err != nil {
		return err
	}

	r := cmd.InOrStdin()
	if docInput != "" {
		f, err := os.Open(docInput)
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", docInput, err)
		}
		defer f.Close()
		r = f
	}

	if err := a.Content.Import(cmd.Context(), args[0], format, r); err != nil {
		return fmt.Errorf("failed to import %s: %w", args[0], err)
	}
	cmd.Printf("Imported %s\n", args[0])
	return nil
}
