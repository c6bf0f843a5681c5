package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/folio/internal/core/domain"
	"github.com/custodia-labs/folio/internal/core/ports/driving"
)

var blockCmd = &cobra.Command{
	Use:   "block",
	Short: "Manage the content blocks of a section",
	Long: `List, add, update, convert and delete the blocks of one section.

Block types:
  rte       Text only
  imgRte    Text with image
  gallery   Image grid
  carousel  Image slideshow

Changing a block's type keeps its title, and its text when switching
between rte and imgRte. Fields the new type has no place for are dropped.`,
}

var blockListCmd = &cobra.Command{
	Use:   "list [document] [section]",
	Short: "List the blocks of a section",
	Args:  cobra.ExactArgs(2),
	RunE:  runBlockList,
}

var blockAddCmd = &cobra.Command{
	Use:   "add [document] [section]",
	Short: "Append a block (empty text unless flags say otherwise)",
	Args:  cobra.ExactArgs(2),
	RunE:  runBlockAdd,
}

var blockUpdateCmd = &cobra.Command{
	Use:   "update [document] [section] [index]",
	Short: "Change fields of a block",
	Args:  cobra.ExactArgs(3),
	RunE:  runBlockUpdate,
}

var blockConvertCmd = &cobra.Command{
	Use:   "convert [document] [section] [index] [type]",
	Short: "Change the type of a block",
	Args:  cobra.ExactArgs(4),
	RunE:  runBlockConvert,
}

var blockDeleteCmd = &cobra.Command{
	Use:   "delete [document] [section] [index]",
	Short: "Delete a block",
	Args:  cobra.ExactArgs(3),
	RunE:  runBlockDelete,
}

// Block field flags.
const (
	flagType          = "type"
	flagTitle         = "title"
	flagLabel         = "label"
	flagValue         = "value"
	flagImageURL      = "image-url"
	flagImagePosition = "image-position"
	flagImageURLs     = "image-urls"
)

func init() {
	for _, c := range []*cobra.Command{blockAddCmd, blockUpdateCmd} {
		c.Flags().String(flagType, "", "Block type: rte, imgRte, gallery or carousel")
		c.Flags().String(flagTitle, "", "Block title")
		c.Flags().String(flagLabel, "", "Label shown above text blocks")
		c.Flags().String(flagValue, "", "HTML text (rte and imgRte)")
		c.Flags().String(flagImageURL, "", "Image URL (imgRte)")
		c.Flags().String(flagImagePosition, "", "Image side: left or right (imgRte)")
		c.Flags().StringSlice(flagImageURLs, nil, "Image URLs, comma separated (gallery and carousel)")
	}

	blockCmd.AddCommand(blockListCmd)
	blockCmd.AddCommand(blockAddCmd)
	blockCmd.AddCommand(blockUpdateCmd)
	blockCmd.AddCommand(blockConvertCmd)
	blockCmd.AddCommand(blockDeleteCmd)
	rootCmd.AddCommand(blockCmd)
}

func openSection(cmd *cobra.Command, doc, section string) (*App, driving.PageEditor, driving.SectionEditor, error) {
	a, page, err := openPage(cmd, doc)
	if err != nil {
		return nil, nil, nil, err
	}
	ed, err := page.Edit(section)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to open section: %w", err)
	}
	return a, page, ed, nil
}

// blockIndex parses s and checks it against the section's blocks.
func blockIndex(ed driving.SectionEditor, s string) (int, error) {
	i, err := parsePosition("index", s)
	if err != nil {
		return 0, err
	}
	if n := len(ed.Blocks()); i >= n {
		return 0, &domain.ValidationError{
			Field:  "index",
			Reason: fmt.Sprintf("section %s has %s", ed.Key(), plural(n, "block")),
		}
	}
	return i, nil
}

func runBlockList(cmd *cobra.Command, args []string) error {
	_, _, ed, err := openSection(cmd, args[0], args[1])
	if err != nil {
		return err
	}

	blocks := ed.Blocks()
	if len(blocks) == 0 {
		cmd.Printf("No blocks in %s\n", args[1])
		return nil
	}
	for i, b := range blocks {
		printBlock(cmd, i, b)
	}
	return nil
}

func runBlockAdd(cmd *cobra.Command, args []string) error {
	a, page, ed, err := openSection(cmd, args[0], args[1])
	if err != nil {
		return err
	}

	// Build first so bad flags leave the section untouched.
	var next domain.Block
	if blockFlagsChanged(cmd) {
		next, err = buildBlock(cmd, domain.NewBlock(""))
		if err != nil {
			return err
		}
		if err := domain.ValidateBlock(next); err != nil {
			return err
		}
	}

	index := ed.AddBlock()
	if next != nil {
		if err := ed.UpdateBlock(index, next); err != nil {
			return fmt.Errorf("failed to set block fields: %w", err)
		}
	}
	if err := finish(a, page); err != nil {
		return err
	}
	cmd.Printf("Added block %d to %s\n", index, args[1])
	return nil
}

func runBlockUpdate(cmd *cobra.Command, args []string) error {
	a, page, ed, err := openSection(cmd, args[0], args[1])
	if err != nil {
		return err
	}
	index, err := blockIndex(ed, args[2])
	if err != nil {
		return err
	}
	if !blockFlagsChanged(cmd) {
		return &domain.ValidationError{Field: "flags", Reason: "nothing to update"}
	}

	next, err := buildBlock(cmd, ed.Blocks()[index])
	if err != nil {
		return err
	}
	if err := ed.UpdateBlock(index, next); err != nil {
		return fmt.Errorf("failed to update block: %w", err)
	}
	if err := finish(a, page); err != nil {
		return err
	}
	printBlock(cmd, index, ed.Blocks()[index])
	return nil
}

func runBlockConvert(cmd *cobra.Command, args []string) error {
	target, err := domain.ParseBlockType(args[3])
	if err != nil {
		return err
	}
	a, page, ed, err := openSection(cmd, args[0], args[1])
	if err != nil {
		return err
	}
	index, err := blockIndex(ed, args[2])
	if err != nil {
		return err
	}

	ed.ChangeType(index, target)
	if err := finish(a, page); err != nil {
		return err
	}
	printBlock(cmd, index, ed.Blocks()[index])
	return nil
}

func runBlockDelete(cmd *cobra.Command, args []string) error {
	a, page, ed, err := openSection(cmd, args[0], args[1])
	if err != nil {
		return err
	}
	index, err := blockIndex(ed, args[2])
	if err != nil {
		return err
	}

	confirm := confirmer(cmd)
	if confirm == nil {
		return errNeedsConfirmation
	}
	if !ed.DeleteBlock(index, confirm) {
		cmd.Println("Cancelled")
		return nil
	}
	if err := finish(a, page); err != nil {
		return err
	}
	cmd.Printf("Deleted block %d from %s\n", index, args[1])
	return nil
}

func blockFlagsChanged(cmd *cobra.Command) bool {
	for _, name := range []string{flagType, flagTitle, flagLabel, flagValue, flagImageURL, flagImagePosition, flagImageURLs} {
		if cmd.Flags().Changed(name) {
			return true
		}
	}
	return false
}

// buildBlock applies the block flags to base. --type converts base first.
// A flag the resulting type has no field for is an error.
func buildBlock(cmd *cobra.Command, base domain.Block) (domain.Block, error) {
	flags := cmd.Flags()
	str := func(name string) (string, bool) {
		if !flags.Changed(name) {
			return "", false
		}
		v, _ := flags.GetString(name)
		return v, true
	}
	notFor := func(name string, t domain.BlockType) error {
		return &domain.ValidationError{Field: name, Reason: fmt.Sprintf("does not apply to %s blocks", t)}
	}

	b := domain.CloneBlock(base)
	if s, ok := str(flagType); ok {
		t, err := domain.ParseBlockType(s)
		if err != nil {
			return nil, err
		}
		b = domain.Convert(b, t)
	}
	title, setTitle := str(flagTitle)

	switch v := b.(type) {
	case domain.RichText:
		if setTitle {
			v.Title = title
		}
		if s, ok := str(flagLabel); ok {
			v.Label = s
		}
		if s, ok := str(flagValue); ok {
			v.Value = s
		}
		for _, name := range []string{flagImageURL, flagImagePosition, flagImageURLs} {
			if flags.Changed(name) {
				return nil, notFor(name, v.Type())
			}
		}
		return v, nil

	case domain.ImageText:
		if setTitle {
			v.Title = title
		}
		if s, ok := str(flagLabel); ok {
			v.Label = s
		}
		if s, ok := str(flagValue); ok {
			v.Value = s
		}
		if s, ok := str(flagImageURL); ok {
			v.ImageURL = s
		}
		if s, ok := str(flagImagePosition); ok {
			v.ImagePosition = domain.ImagePosition(strings.ToLower(s))
		}
		if flags.Changed(flagImageURLs) {
			return nil, notFor(flagImageURLs, v.Type())
		}
		return v, nil

	case domain.Gallery:
		if setTitle {
			v.Title = title
		}
		if flags.Changed(flagImageURLs) {
			v.ImageURLs, _ = flags.GetStringSlice(flagImageURLs)
		}
		if err := imageOnly(cmd, v.Type()); err != nil {
			return nil, err
		}
		return v, nil

	case domain.Carousel:
		if setTitle {
			v.Title = title
		}
		if flags.Changed(flagImageURLs) {
			v.ImageURLs, _ = flags.GetStringSlice(flagImageURLs)
		}
		if err := imageOnly(cmd, v.Type()); err != nil {
			return nil, err
		}
		return v, nil
	}
	return b, nil
}

func imageOnly(cmd *cobra.Command, t domain.BlockType) error {
	for _, name := range []string{flagLabel, flagValue, flagImageURL, flagImagePosition} {
		if cmd.Flags().Changed(name) {
			return &domain.ValidationError{Field: name, Reason: fmt.Sprintf("does not apply to %s blocks", t)}
		}
	}
	return nil
}

func printBlock(cmd *cobra.Command, index int, b domain.Block) {
	cmd.Printf("  [%d] %s", index, b.Type().Label())
	if title := b.BlockTitle(); title != "" {
		cmd.Printf(" %q", title)
	}
	cmd.Println()

	switch v := domain.CloneBlock(b).(type) {
	case domain.RichText:
		if v.Label != "" {
			cmd.Printf("      label: %s\n", v.Label)
		}
		cmd.Printf("      value: %s\n", summarize(v.Value))
	case domain.ImageText:
		if v.Label != "" {
			cmd.Printf("      label: %s\n", v.Label)
		}
		cmd.Printf("      value: %s\n", summarize(v.Value))
		cmd.Printf("      image: %s (%s)\n", orNone(v.ImageURL), v.ImagePosition)
	case domain.Gallery:
		cmd.Printf("      images: %s\n", orNone(strings.Join(v.ImageURLs, ", ")))
	case domain.Carousel:
		cmd.Printf("      images: %s\n", orNone(strings.Join(v.ImageURLs, ", ")))
	}
	if id := b.BlockID(); id != "" {
		cmd.Printf("      id: %s\n", id)
	}
}

const summaryLen = 60

func summarize(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if s == "" {
		return "(empty)"
	}
	if r := []rune(s); len(r) > summaryLen {
		return string(r[:summaryLen-3]) + "..."
	}
	return s
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}
