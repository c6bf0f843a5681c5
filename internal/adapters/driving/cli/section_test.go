package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/folio/internal/core/domain"
)

func TestSectionCmd_HasSubcommands(t *testing.T) {
	names := make([]string, 0)
	for _, c := range sectionCmd.Commands() {
		names = append(names, c.Name())
	}

	assert.ElementsMatch(t, []string{"list", "add", "delete", "rename", "move", "reorder"}, names)
}

func TestSectionList_Empty(t *testing.T) {
	setup(t)

	out := mustRun(t, "section", "list", "home")

	assert.Contains(t, out, "No sections in home")
}

func TestSectionList_DisplayOrder(t *testing.T) {
	env := setup(t)
	env.seed(t, "home", sampleDocument())

	out := mustRun(t, "section", "list", "home")

	assert.Contains(t, out, "0. hero (index 0, 1 block)")
	assert.Contains(t, out, "1. gallery (index 1, 2 blocks)")
	assert.Contains(t, out, "2. footer (index 2, 0 blocks)")
}

func TestSectionAdd(t *testing.T) {
	env := setup(t)

	mustRun(t, "section", "add", "home", "hero")
	out := mustRun(t, "section", "add", "home", "intro")

	assert.Contains(t, out, "Added section intro")
	doc := env.stored(t, "home")
	assert.Equal(t, []string{"hero", "intro"}, doc.Order())
	assert.Equal(t, 1, doc.Sections["intro"].Index)
	assert.Empty(t, doc.Sections["intro"].Content)
}

func TestSectionAdd_Rejections(t *testing.T) {
	env := setup(t)
	env.seed(t, "home", sampleDocument())

	tests := []struct {
		name    string
		section string
		want    error
	}{
		{"duplicate", "hero", domain.ErrAlreadyExists},
		{"dotted", "a.b", domain.ErrInvalidInput},
		{"blank", " ", domain.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, "", "section", "add", "home", tt.section)
			assert.ErrorIs(t, err, tt.want)
		})
	}
	assert.Len(t, env.stored(t, "home").Sections, 3)
}

func TestSectionDelete_WithYes(t *testing.T) {
	env := setup(t)
	env.seed(t, "home", sampleDocument())

	out := mustRun(t, "--yes", "section", "delete", "home", "hero")

	assert.Contains(t, out, "Deleted section hero")
	doc := env.stored(t, "home")
	assert.NotContains(t, doc.Sections, "hero")
	// Remaining sections keep their indices.
	assert.Equal(t, 1, doc.Sections["gallery"].Index)
}

func TestSectionDelete_Prompt(t *testing.T) {
	env := setup(t)
	env.seed(t, "home", sampleDocument())

	out, err := run(t, "n\n", "section", "delete", "home", "hero")
	require.NoError(t, err)
	assert.Contains(t, out, "[y/N]")
	assert.Contains(t, out, "Cancelled")
	assert.Contains(t, env.stored(t, "home").Sections, "hero")

	out, err = run(t, "y\n", "section", "delete", "home", "hero")
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted section hero")
	assert.NotContains(t, env.stored(t, "home").Sections, "hero")
}

func TestSectionDelete_Missing(t *testing.T) {
	env := setup(t)
	env.seed(t, "home", sampleDocument())

	_, err := run(t, "", "--yes", "section", "delete", "home", "nope")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSectionRename(t *testing.T) {
	env := setup(t)
	env.seed(t, "home", sampleDocument())

	out := mustRun(t, "section", "rename", "home", "hero", "welcome")

	assert.Contains(t, out, "Renamed section hero to welcome")
	doc := env.stored(t, "home")
	assert.Equal(t, []string{"welcome", "gallery", "footer"}, doc.Order())
	assert.Equal(t, "Welcome", doc.Sections["welcome"].Content[0].BlockTitle())

	_, err := run(t, "", "section", "rename", "home", "welcome", "gallery")
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)
}

func TestSectionMove(t *testing.T) {
	env := setup(t)
	env.seed(t, "home", sampleDocument())

	out := mustRun(t, "section", "move", "home", "footer", "0")

	assert.Contains(t, out, "New order:")
	assert.Contains(t, out, "0. footer")
	assert.Equal(t, []string{"footer", "hero", "gallery"}, env.stored(t, "home").Order())
}

func TestSectionReorder(t *testing.T) {
	env := setup(t)
	env.seed(t, "home", sampleDocument())

	mustRun(t, "section", "reorder", "home", "0", "2")

	doc := env.stored(t, "home")
	assert.Equal(t, []string{"gallery", "footer", "hero"}, doc.Order())
	assert.Equal(t, 2, doc.Sections["hero"].Index)
}

func TestSectionReorder_Invalid(t *testing.T) {
	env := setup(t)
	env.seed(t, "home", sampleDocument())

	tests := []struct {
		name string
		args []string
	}{
		{"not a number", []string{"section", "reorder", "home", "x", "1"}},
		{"negative", []string{"section", "move", "home", "hero", "--", "-1"}},
		{"out of range", []string{"section", "reorder", "home", "0", "9"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, "", tt.args...)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
	assert.Equal(t, []string{"hero", "gallery", "footer"}, env.stored(t, "home").Order())
}

func TestSectionAdd_WriteFailure(t *testing.T) {
	env := setup(t)
	env.store.failing = true

	_, err := run(t, "", "section", "add", "home", "hero")

	assert.ErrorIs(t, err, errWritesFailed)
	notes := env.recorder.Notifications()
	require.Len(t, notes, 1)
	assert.ErrorIs(t, notes[0].Err, errQuota)
	assert.Equal(t, "home", notes[0].DocumentKey)
}

func TestParsePosition(t *testing.T) {
	n, err := parsePosition("to", "3")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	_, err = parsePosition("to", "-1")
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "to", verr.Field)
}

func TestPlural(t *testing.T) {
	assert.Equal(t, "1 block", plural(1, "block"))
	assert.Equal(t, "0 blocks", plural(0, "block"))
	assert.Equal(t, "2 sections", plural(2, "section"))
}
