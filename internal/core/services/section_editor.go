package services

import (
	"fmt"
	"slices"

	"github.com/custodia-labs/folio/internal/core/domain"
	"github.com/custodia-labs/folio/internal/core/ports/driving"
)

// Ensure SectionEditor implements the interface.
var _ driving.SectionEditor = (*SectionEditor)(nil)

const deleteBlockPrompt = "Are you sure you want to delete this block?"

// SectionEditor edits the blocks of one section. Its state lives in the
// owning PageEditor; every change patches the section's content.
// At most one block is in edit mode at a time.
type SectionEditor struct {
	page    *PageEditor
	key     string
	editing int
}

// Key returns the section key.
func (e *SectionEditor) Key() string {
	e.page.mu.Lock()
	defer e.page.mu.Unlock()
	return e.key
}

// Blocks returns a copy of the section's blocks in display order.
func (e *SectionEditor) Blocks() []domain.Block {
	e.page.mu.Lock()
	defer e.page.mu.Unlock()
	return e.page.doc.Sections[e.key].Clone().Content
}

// AddBlock appends a default rich-text block with a fresh identity,
// puts it in edit mode and returns its position.
func (e *SectionEditor) AddBlock() int {
	e.page.mu.Lock()
	defer e.page.mu.Unlock()

	entry := e.page.entry(e.key)
	entry.Content = append(slices.Clone(entry.Content), domain.NewBlock(e.page.svc.newID()))
	e.page.doc.Sections[e.key] = entry

	index := len(entry.Content) - 1
	e.editing = index
	e.page.commitContent(e.key)
	return index
}

// UpdateBlock replaces the block at index with block. Only the identity
// carries over from the current block, and an image+text block replacing
// another variant starts with its image on the left when block leaves the
// side unset. A validation error leaves the section unchanged.
func (e *SectionEditor) UpdateBlock(index int, block domain.Block) error {
	e.page.mu.Lock()
	defer e.page.mu.Unlock()

	entry := e.page.entry(e.key)
	mustIndex(index, len(entry.Content))

	next := domain.CloneBlock(block)
	if next == nil {
		return domain.ValidateBlock(nil)
	}

	cur := entry.Content[index]
	if next.BlockID() == "" {
		next = domain.WithID(next, cur.BlockID())
	}
	if it, ok := next.(domain.ImageText); ok && cur.Type() != domain.BlockImageText && it.ImagePosition == "" {
		it.ImagePosition = domain.ImageLeft
		next = it
	}
	if err := domain.ValidateBlock(next); err != nil {
		return err
	}

	entry.Content = slices.Clone(entry.Content)
	entry.Content[index] = next
	e.page.doc.Sections[e.key] = entry
	e.page.commitContent(e.key)
	return nil
}

// ChangeType switches the block at index to target, migrating the fields
// the two variants share. It never fails.
func (e *SectionEditor) ChangeType(index int, target domain.BlockType) {
	e.page.mu.Lock()
	defer e.page.mu.Unlock()

	entry := e.page.entry(e.key)
	mustIndex(index, len(entry.Content))

	entry.Content = slices.Clone(entry.Content)
	entry.Content[index] = domain.Convert(entry.Content[index], target)
	e.page.doc.Sections[e.key] = entry
	e.page.commitContent(e.key)
}

// DeleteBlock removes the block at index once confirm approves, shifting
// later blocks down. Edit mode is cleared. It reports whether the block
// was deleted.
func (e *SectionEditor) DeleteBlock(index int, confirm domain.Confirm) bool {
	func() {
		e.page.mu.Lock()
		defer e.page.mu.Unlock()
		mustIndex(index, len(e.page.doc.Sections[e.key].Content))
	}()

	if !confirm.Approve(deleteBlockPrompt) {
		return false
	}

	e.page.mu.Lock()
	defer e.page.mu.Unlock()

	entry := e.page.entry(e.key)
	mustIndex(index, len(entry.Content))
	entry.Content = slices.Delete(slices.Clone(entry.Content), index, index+1)
	e.page.doc.Sections[e.key] = entry

	e.editing = -1
	e.page.commitContent(e.key)
	return true
}

// Edit puts the block at index in edit mode.
func (e *SectionEditor) Edit(index int) {
	e.page.mu.Lock()
	defer e.page.mu.Unlock()
	mustIndex(index, len(e.page.doc.Sections[e.key].Content))
	e.editing = index
}

// Done leaves edit mode.
func (e *SectionEditor) Done() {
	e.page.mu.Lock()
	defer e.page.mu.Unlock()
	e.editing = -1
}

// Editing returns the block in edit mode, if any.
func (e *SectionEditor) Editing() (int, bool) {
	e.page.mu.Lock()
	defer e.page.mu.Unlock()
	return e.editing, e.editing >= 0
}

func mustIndex(index, n int) {
	if index < 0 || index >= n {
		panic(fmt.Sprintf("block index %d out of range [0,%d)", index, n))
	}
}
