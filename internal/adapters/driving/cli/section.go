package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/folio/internal/core/domain"
)

var sectionCmd = &cobra.Command{
	Use:   "section",
	Short: "Manage the sections of a document",
	Long: `List, add, delete, rename and reorder the named sections of a document.

Sections are shown in display order. Positions start at 0.`,
}

var sectionListCmd = &cobra.Command{
	Use:   "list [document]",
	Short: "List sections in display order",
	Args:  cobra.ExactArgs(1),
	RunE:  runSectionList,
}

var sectionAddCmd = &cobra.Command{
	Use:   "add [document] [section]",
	Short: "Add an empty section after the last one",
	Args:  cobra.ExactArgs(2),
	RunE:  runSectionAdd,
}

var sectionDeleteCmd = &cobra.Command{
	Use:   "delete [document] [section]",
	Short: "Delete a section and its blocks",
	Args:  cobra.ExactArgs(2),
	RunE:  runSectionDelete,
}

var sectionRenameCmd = &cobra.Command{
	Use:   "rename [document] [section] [new-name]",
	Short: "Rename a section, keeping its blocks and position",
	Args:  cobra.ExactArgs(3),
	RunE:  runSectionRename,
}

var sectionMoveCmd = &cobra.Command{
	Use:   "move [document] [section] [position]",
	Short: "Move a section to a position",
	Args:  cobra.ExactArgs(3),
	RunE:  runSectionMove,
}

var sectionReorderCmd = &cobra.Command{
	Use:   "reorder [document] [from] [to]",
	Short: "Move the section at one position to another",
	Args:  cobra.ExactArgs(3),
	RunE:  runSectionReorder,
}

func init() {
	sectionCmd.AddCommand(sectionListCmd)
	sectionCmd.AddCommand(sectionAddCmd)
	sectionCmd.AddCommand(sectionDeleteCmd)
	sectionCmd.AddCommand(sectionRenameCmd)
	sectionCmd.AddCommand(sectionMoveCmd)
	sectionCmd.AddCommand(sectionReorderCmd)
	rootCmd.AddCommand(sectionCmd)
}

func runSectionList(cmd *cobra.Command, args []string) error {
	_, page, err := openPage(cmd, args[0])
	if err != nil {
		return err
	}

	order := page.Order()
	if len(order) == 0 {
		cmd.Printf("No sections in %s\n", args[0])
		return nil
	}

	cmd.Printf("Sections of %s:\n\n", args[0])
	for pos, key := range order {
		sec, _ := page.Section(key)
		cmd.Printf("  %d. %s (index %d, %s)\n", pos, key, sec.Index, plural(len(sec.Content), "block"))
	}
	return nil
}

func runSectionAdd(cmd *cobra.Command, args []string) error {
	a, page, err := openPage(cmd, args[0])
	if err != nil {
		return err
	}
	if err := page.AddSection(args[1]); err != nil {
		return fmt.Errorf("failed to add section: %w", err)
	}
	if err := finish(a, page); err != nil {
		return err
	}
	cmd.Printf("Added section %s\n", args[1])
	return nil
}

func runSectionDelete(cmd *cobra.Command, args []string) error {
	a, page, err := openPage(cmd, args[0])
	if err != nil {
		return err
	}

	confirm := confirmer(cmd)
	if confirm == nil {
		return errNeedsConfirmation
	}
	deleted, err := page.DeleteSection(args[1], confirm)
	if err != nil {
		return fmt.Errorf("failed to delete section: %w", err)
	}
	if !deleted {
		cmd.Println("Cancelled")
		return nil
	}
	if err := finish(a, page); err != nil {
		return err
	}
	cmd.Printf("Deleted section %s\n", args[1])
	return nil
}

func runSectionRename(cmd *cobra.Command, args []string) error {
	a, page, err := openPage(cmd, args[0])
	if err != nil {
		return err
	}
	if err := page.RenameSection(args[1], args[2]); err != nil {
		return fmt.Errorf("failed to rename section: %w", err)
	}
	if err := finish(a, page); err != nil {
		return err
	}
	cmd.Printf("Renamed section %s to %s\n", args[1], args[2])
	return nil
}

func runSectionMove(cmd *cobra.Command, args []string) error {
	to, err := parsePosition("position", args[2])
	if err != nil {
		return err
	}
	a, page, err := openPage(cmd, args[0])
	if err != nil {
		return err
	}
	if err := page.MoveSection(args[1], to); err != nil {
		return fmt.Errorf("failed to move section: %w", err)
	}
	if err := finish(a, page); err != nil {
		return err
	}
	printOrder(cmd, page.Order())
	return nil
}

func runSectionReorder(cmd *cobra.Command, args []string) error {
	from, err := parsePosition("from", args[1])
	if err != nil {
		return err
	}
	to, err := parsePosition("to", args[2])
	if err != nil {
		return err
	}
	a, page, err := openPage(cmd, args[0])
	if err != nil {
		return err
	}
	if err := page.ReorderSections(from, to); err != nil {
		return fmt.Errorf("failed to reorder sections: %w", err)
	}
	if err := finish(a, page); err != nil {
		return err
	}
	printOrder(cmd, page.Order())
	return nil
}

func printOrder(cmd *cobra.Command, order []string) {
	cmd.Println("New order:")
	for pos, key := range order {
		cmd.Printf("  %d. %s\n", pos, key)
	}
}

func parsePosition(name, s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, &domain.ValidationError{Field: name, Reason: fmt.Sprintf("%q is not a position", s)}
	}
	return n, nil
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
