package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/custodia-labs/folio/internal/core/domain"
	"github.com/custodia-labs/folio/internal/core/ports/driving"
	"github.com/custodia-labs/folio/internal/logger"
)

// Ensure PageEditor implements the interface.
var _ driving.PageEditor = (*PageEditor)(nil)

// Write operation names, as reported in notifications.
const (
	opLoad          = "load document"
	opAddSection    = "add section"
	opDeleteSection = "delete section"
	opReorder       = "reorder sections"
	opRenameSection = "rename section"
	opUpdateSection = "update section"
	opSaveDocument  = "save document"
)

const deleteSectionPrompt = "Are you sure you want to delete section %q?"

// PageEditor edits the sections of one document. It owns the local copy
// of the document: every mutation applies locally first and is then
// written to the store in the background.
type PageEditor struct {
	svc *EditorService
	key string

	mu       sync.Mutex
	doc      domain.Document
	sections map[string]*SectionEditor
}

func newPageEditor(svc *EditorService, key string) *PageEditor {
	return &PageEditor{
		svc:      svc,
		key:      key,
		doc:      domain.NewDocument(),
		sections: make(map[string]*SectionEditor),
	}
}

// Key returns the document key.
func (p *PageEditor) Key() string {
	return p.key
}

// Load reads the document from the store. An absent document loads as
// empty. On a read failure the administrator is notified once, the
// editor falls back to an empty document and the error is returned.
func (p *PageEditor) Load(ctx context.Context) error {
	doc, err := p.read(ctx)

	p.mu.Lock()
	p.doc = doc
	p.sections = make(map[string]*SectionEditor)
	p.mu.Unlock()

	if err != nil {
		logger.Warn("load %s/%s: %v", p.svc.collection, p.key, err)
		sendNotification(p.svc.notifier, domain.Notification{
			Level:       domain.LevelError,
			Operation:   opLoad,
			DocumentKey: p.key,
			Err:         err,
		})
		return err
	}
	logger.Debug("loaded %s/%s with %d sections", p.svc.collection, p.key, len(doc.Sections))
	return nil
}

func (p *PageEditor) read(ctx context.Context) (domain.Document, error) {
	fields, err := p.svc.store.Get(ctx, p.svc.collection, p.key)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return domain.NewDocument(), nil
	case err != nil:
		return domain.NewDocument(), fmt.Errorf("%w: %w", domain.ErrStoreRead, err)
	}
	doc, err := domain.DecodeDocument(fields)
	if err != nil {
		return domain.NewDocument(), fmt.Errorf("%w: %w", domain.ErrStoreRead, err)
	}
	return doc, nil
}

// Order returns the section keys in display order.
func (p *PageEditor) Order() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.doc.Order()
}

// Section returns a copy of one section.
func (p *PageEditor) Section(key string) (domain.SectionEntry, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	s, ok := p.doc.Sections[key]
	if !ok {
		return domain.SectionEntry{}, false
	}
	return s.Clone(), true
}

// Document returns a copy of the local document.
func (p *PageEditor) Document() domain.Document {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.doc.Clone()
}

// AddSection appends an empty section after the last one.
func (p *PageEditor) AddSection(key string) error {
	if err := domain.ValidateSectionKey(key); err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.doc.Sections[key]; ok {
		return fmt.Errorf("%w: section %q", domain.ErrAlreadyExists, key)
	}
	entry := domain.SectionEntry{Content: []domain.Block{}, Index: p.doc.NextIndex()}
	p.doc.Sections[key] = entry

	p.svc.writes.patch(opAddSection, p.key, domain.SectionPath(key), entry)
	return nil
}

// DeleteSection removes a section once confirm approves. It reports
// whether the section was deleted.
func (p *PageEditor) DeleteSection(key string, confirm domain.Confirm) (bool, error) {
	p.mu.Lock()
	_, ok := p.doc.Sections[key]
	p.mu.Unlock()
	if !ok {
		return false, fmt.Errorf("%w: section %q", domain.ErrNotFound, key)
	}

	// The prompt may block, so it runs without the lock held.
	if !confirm.Approve(fmt.Sprintf(deleteSectionPrompt, key)) {
		return false, nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.doc.Sections, key)
	delete(p.sections, key)

	p.svc.writes.deleteField(opDeleteSection, p.key, domain.SectionPath(key))
	return true, nil
}

// ReorderSections moves the section at position from to position to and
// renumbers every section 0..n-1. The whole document is rewritten.
func (p *PageEditor) ReorderSections(from, to int) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	order := p.doc.Order()
	if from < 0 || from >= len(order) || to < 0 || to >= len(order) {
		return fmt.Errorf("%w: cannot move section %d to %d in %d sections",
			domain.ErrInvalidInput, from, to, len(order))
	}

	moved := order[from]
	order = slices.Delete(order, from, from+1)
	order = slices.Insert(order, to, moved)
	p.doc.Reindex(order)

	p.svc.writes.replace(opReorder, p.key, p.doc.Clone())
	return nil
}

// MoveSection moves the named section to position to.
func (p *PageEditor) MoveSection(key string, to int) error {
	from := slices.Index(p.Order(), key)
	if from < 0 {
		return fmt.Errorf("%w: section %q", domain.ErrNotFound, key)
	}
	return p.ReorderSections(from, to)
}

// RenameSection changes a section's key, keeping its blocks and position.
func (p *PageEditor) RenameSection(oldKey, newKey string) error {
	if err := domain.ValidateSectionKey(newKey); err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	entry, ok := p.doc.Sections[oldKey]
	if !ok {
		return fmt.Errorf("%w: section %q", domain.ErrNotFound, oldKey)
	}
	if oldKey == newKey {
		return nil
	}
	if _, taken := p.doc.Sections[newKey]; taken {
		return fmt.Errorf("%w: section %q", domain.ErrAlreadyExists, newKey)
	}

	delete(p.doc.Sections, oldKey)
	p.doc.Sections[newKey] = entry
	if ed, ok := p.sections[oldKey]; ok {
		delete(p.sections, oldKey)
		ed.key = newKey
		p.sections[newKey] = ed
	}

	p.svc.writes.replace(opRenameSection, p.key, p.doc.Clone())
	return nil
}

// Edit returns the block editor of a section. Repeated calls return the
// same editor, so its edit mode is kept.
func (p *PageEditor) Edit(key string) (driving.SectionEditor, error) {
	ed, err := p.EditSection(key)
	if err != nil {
		return nil, err
	}
	return ed, nil
}

// EditSection is Edit returning the concrete editor.
func (p *PageEditor) EditSection(key string) (*SectionEditor, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.doc.Sections[key]; !ok {
		return nil, fmt.Errorf("%w: section %q", domain.ErrNotFound, key)
	}
	ed, ok := p.sections[key]
	if !ok {
		ed = &SectionEditor{page: p, key: key, editing: -1}
		p.sections[key] = ed
	}
	return ed, nil
}

// SaveAll rewrites the whole document from local state.
func (p *PageEditor) SaveAll() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.svc.writes.replace(opSaveDocument, p.key, p.doc.Clone())
}

// Flush waits for in-flight writes. It does not change what is written.
func (p *PageEditor) Flush() {
	p.svc.writes.flush()
}

// commitContent persists a section's blocks. Caller must hold p.mu.
func (p *PageEditor) commitContent(key string) {
	entry := p.doc.Sections[key]
	p.svc.writes.patch(opUpdateSection, p.key, domain.SectionContentPath(key), entry.Content)
}

// entry returns the section for key, recreating it at the end of the
// document if it was deleted while an editor was open. Caller must hold p.mu.
func (p *PageEditor) entry(key string) domain.SectionEntry {
	entry, ok := p.doc.Sections[key]
	if !ok {
		entry = domain.SectionEntry{Content: []domain.Block{}, Index: p.doc.NextIndex()}
		p.doc.Sections[key] = entry
		p.svc.writes.patch(opAddSection, p.key, domain.SectionPath(key), entry)
	}
	return entry
}
