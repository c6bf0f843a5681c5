package services

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/folio/internal/core/domain"
)

func twoSections() domain.Document {
	return domain.Document{Sections: map[string]domain.SectionEntry{
		"a": {Content: []domain.Block{domain.RichText{ID: "x", Value: "A"}}, Index: 0},
		"b": {Content: []domain.Block{}, Index: 1},
	}}
}

func TestPageEditor_LoadMissingDocumentIsEmpty(t *testing.T) {
	te := newTestEditor(t)

	p := te.open(t, "home")

	assert.Empty(t, p.Order())
	assert.Empty(t, te.notifier.Notifications())
}

func TestPageEditor_LoadFailure(t *testing.T) {
	te := newTestEditor(t)
	te.seed(t, "home", twoSections())
	te.store.failRead = true

	p := te.svc.OpenPage("home")
	err := p.Load(context.Background())

	assert.ErrorIs(t, err, domain.ErrStoreRead)
	assert.Empty(t, p.Order())
	require.Len(t, te.notifier.Notifications(), 1)
	assert.Equal(t, opLoad, te.notifier.Notifications()[0].Operation)
}

func TestPageEditor_AddBlockToNewSection(t *testing.T) {
	te := newTestEditor(t)
	p := te.open(t, "home")

	require.NoError(t, p.AddSection("intro"))
	ed, err := p.EditSection("intro")
	require.NoError(t, err)
	assert.Equal(t, 0, ed.AddBlock())

	want := domain.Document{Sections: map[string]domain.SectionEntry{
		"intro": {Content: []domain.Block{domain.RichText{ID: "block-1"}}, Index: 0},
	}}
	if diff := cmp.Diff(want, p.Document()); diff != "" {
		t.Errorf("local document mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(want, te.stored(t, "home")); diff != "" {
		t.Errorf("stored document mismatch (-want +got):\n%s", diff)
	}
}

func TestPageEditor_AddSectionIndexes(t *testing.T) {
	te := newTestEditor(t)
	te.seed(t, "home", domain.Document{Sections: map[string]domain.SectionEntry{
		"a": {Content: []domain.Block{}, Index: 0},
		"b": {Content: []domain.Block{}, Index: 4},
	}})
	p := te.open(t, "home")

	require.NoError(t, p.AddSection("c"))

	c, ok := p.Section("c")
	require.True(t, ok)
	assert.Equal(t, 5, c.Index)
	assert.Equal(t, []string{"update home sections.c"}, te.calls())
}

func TestPageEditor_AddSectionRejects(t *testing.T) {
	te := newTestEditor(t)
	te.seed(t, "home", twoSections())
	p := te.open(t, "home")

	assert.ErrorIs(t, p.AddSection("a"), domain.ErrAlreadyExists)
	assert.ErrorIs(t, p.AddSection(""), domain.ErrInvalidInput)
	assert.ErrorIs(t, p.AddSection("a.b"), domain.ErrInvalidInput)

	assert.Empty(t, te.calls())
}

func TestPageEditor_MoveBBeforeA(t *testing.T) {
	te := newTestEditor(t)
	te.seed(t, "home", twoSections())
	p := te.open(t, "home")

	require.NoError(t, p.ReorderSections(1, 0))

	assert.Equal(t, []string{"b", "a"}, p.Order())
	stored := te.stored(t, "home")
	assert.Equal(t, 0, stored.Sections["b"].Index)
	assert.Equal(t, 1, stored.Sections["a"].Index)
	assert.Equal(t, []string{"set home"}, te.calls())
}

func TestPageEditor_ReorderRenumbersGaps(t *testing.T) {
	te := newTestEditor(t)
	te.seed(t, "home", domain.Document{Sections: map[string]domain.SectionEntry{
		"a": {Content: []domain.Block{}, Index: 2},
		"b": {Content: []domain.Block{}, Index: 7},
		"c": {Content: []domain.Block{}, Index: 9},
	}})
	p := te.open(t, "home")

	require.NoError(t, p.MoveSection("a", 2))

	doc := te.stored(t, "home")
	assert.Equal(t, []string{"b", "c", "a"}, doc.Order())
	for i, key := range doc.Order() {
		assert.Equal(t, i, doc.Sections[key].Index)
	}
}

func TestPageEditor_ReorderOutOfRange(t *testing.T) {
	te := newTestEditor(t)
	te.seed(t, "home", twoSections())
	p := te.open(t, "home")

	assert.ErrorIs(t, p.ReorderSections(0, 2), domain.ErrInvalidInput)
	assert.ErrorIs(t, p.ReorderSections(-1, 0), domain.ErrInvalidInput)
	assert.ErrorIs(t, p.MoveSection("missing", 0), domain.ErrNotFound)
	assert.Equal(t, []string{"a", "b"}, p.Order())
}

func TestPageEditor_DeleteSection(t *testing.T) {
	te := newTestEditor(t)
	te.seed(t, "home", twoSections())
	p := te.open(t, "home")

	t.Run("declined", func(t *testing.T) {
		deleted, err := p.DeleteSection("a", no)
		require.NoError(t, err)
		assert.False(t, deleted)

		deleted, err = p.DeleteSection("a", nil)
		require.NoError(t, err)
		assert.False(t, deleted)
		assert.Equal(t, []string{"a", "b"}, p.Order())
	})

	t.Run("confirmed", func(t *testing.T) {
		var prompt string
		deleted, err := p.DeleteSection("a", func(s string) bool { prompt = s; return true })
		require.NoError(t, err)
		assert.True(t, deleted)
		assert.Contains(t, prompt, `"a"`)

		assert.Equal(t, []string{"b"}, p.Order())
		stored := te.stored(t, "home")
		assert.NotContains(t, stored.Sections, "a")
		// Remaining indices are left as they were.
		assert.Equal(t, 1, stored.Sections["b"].Index)
	})

	t.Run("missing", func(t *testing.T) {
		_, err := p.DeleteSection("nope", yes)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestPageEditor_RenameSection(t *testing.T) {
	te := newTestEditor(t)
	te.seed(t, "home", twoSections())
	p := te.open(t, "home")

	ed, err := p.EditSection("a")
	require.NoError(t, err)

	require.NoError(t, p.RenameSection("a", "hero"))

	assert.Equal(t, []string{"hero", "b"}, p.Order())
	assert.Equal(t, "hero", ed.Key())
	again, err := p.EditSection("hero")
	require.NoError(t, err)
	assert.Same(t, ed, again)

	stored := te.stored(t, "home")
	assert.NotContains(t, stored.Sections, "a")
	assert.Equal(t, []domain.Block{domain.RichText{ID: "x", Value: "A"}}, stored.Sections["hero"].Content)

	assert.ErrorIs(t, p.RenameSection("hero", "b"), domain.ErrAlreadyExists)
	assert.ErrorIs(t, p.RenameSection("gone", "c"), domain.ErrNotFound)
	assert.ErrorIs(t, p.RenameSection("hero", "x.y"), domain.ErrInvalidInput)
	assert.NoError(t, p.RenameSection("hero", "hero"))
}

func TestPageEditor_WriteFailureKeepsLocalState(t *testing.T) {
	te := newTestEditor(t)
	p := te.open(t, "home")
	te.store.setFailWrite(true)

	require.NoError(t, p.AddSection("intro"))
	te.svc.Flush()

	// No rollback.
	_, ok := p.Section("intro")
	assert.True(t, ok)

	got := te.notifier.Notifications()
	require.Len(t, got, 1)
	assert.Equal(t, opAddSection, got[0].Operation)
	assert.ErrorIs(t, got[0].Err, domain.ErrStoreWrite)
}

func TestPageEditor_SaveAll(t *testing.T) {
	te := newTestEditor(t)
	te.seed(t, "home", twoSections())
	p := te.open(t, "home")
	te.store.setFailWrite(true)
	require.NoError(t, p.AddSection("c"))
	te.svc.Flush()
	te.store.setFailWrite(false)

	p.SaveAll()

	assert.Equal(t, []string{"a", "b", "c"}, te.stored(t, "home").Order())
}

func TestPageEditor_EditMissingSection(t *testing.T) {
	te := newTestEditor(t)
	p := te.open(t, "home")

	_, err := p.Edit("nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPageEditor_DocumentIsACopy(t *testing.T) {
	te := newTestEditor(t)
	te.seed(t, "home", twoSections())
	p := te.open(t, "home")

	doc := p.Document()
	delete(doc.Sections, "a")

	assert.Equal(t, []string{"a", "b"}, p.Order())
}

func TestEditorService_OpenReturnsPageEditor(t *testing.T) {
	te := newTestEditor(t)

	ed := te.svc.Open("home")

	require.NoError(t, ed.Load(context.Background()))
	assert.Equal(t, "home", ed.Key())
}
