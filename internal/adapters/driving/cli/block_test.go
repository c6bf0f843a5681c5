package cli

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/folio/internal/core/domain"
)

func TestBlockList(t *testing.T) {
	env := setup(t)
	env.seed(t, "home", sampleDocument())

	out := mustRun(t, "block", "list", "home", "gallery")

	assert.Contains(t, out, `[0] Gallery "Photos"`)
	assert.Contains(t, out, "images: https://img/1.png, https://img/2.png")
	assert.Contains(t, out, "[1] Text with Image")
	assert.Contains(t, out, "image: https://img/3.png (right)")
	assert.Contains(t, out, "id: b3")
}

func TestBlockList_Empty(t *testing.T) {
	env := setup(t)
	env.seed(t, "home", sampleDocument())

	out := mustRun(t, "block", "list", "home", "footer")

	assert.Contains(t, out, "No blocks in footer")
}

func TestBlockList_MissingSection(t *testing.T) {
	env := setup(t)
	env.seed(t, "home", sampleDocument())

	_, err := run(t, "", "block", "list", "home", "nope")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestBlockAdd_Default(t *testing.T) {
	env := setup(t)
	env.seed(t, "home", sampleDocument())

	out := mustRun(t, "block", "add", "home", "footer")

	assert.Contains(t, out, "Added block 0 to footer")
	blocks := env.stored(t, "home").Sections["footer"].Content
	require.Len(t, blocks, 1)
	b, ok := blocks[0].(domain.RichText)
	require.True(t, ok)
	assert.NotEmpty(t, b.ID)
	assert.Empty(t, b.Value)
}

func TestBlockAdd_WithFields(t *testing.T) {
	env := setup(t)
	env.seed(t, "home", sampleDocument())

	mustRun(t, "block", "add", "home", "footer",
		"--type", "imgRte", "--title", "About", "--value", "<p>Us</p>",
		"--image-url", "https://img/us.png", "--image-position", "RIGHT")

	blocks := env.stored(t, "home").Sections["footer"].Content
	require.Len(t, blocks, 1)
	b, ok := blocks[0].(domain.ImageText)
	require.True(t, ok)
	assert.Equal(t, "About", b.Title)
	assert.Equal(t, "<p>Us</p>", b.Value)
	assert.Equal(t, "https://img/us.png", b.ImageURL)
	assert.Equal(t, domain.ImageRight, b.ImagePosition)
}

func TestBlockAdd_InvalidFlagsLeaveSectionAlone(t *testing.T) {
	env := setup(t)
	env.seed(t, "home", sampleDocument())

	tests := []struct {
		name string
		args []string
		want error
	}{
		{"unknown type", []string{"--type", "video"}, domain.ErrUnknownBlockType},
		{"images on text", []string{"--image-urls", "a,b"}, domain.ErrInvalidInput},
		{"value on gallery", []string{"--type", "gallery", "--value", "x"}, domain.ErrInvalidInput},
		{"bad position", []string{"--type", "imgRte", "--image-position", "top"}, domain.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"block", "add", "home", "footer"}, tt.args...)
			_, err := run(t, "", args...)
			assert.ErrorIs(t, err, tt.want)
		})
	}
	assert.Empty(t, env.stored(t, "home").Sections["footer"].Content)
}

func TestBlockUpdate(t *testing.T) {
	env := setup(t)
	env.seed(t, "home", sampleDocument())

	out := mustRun(t, "block", "update", "home", "hero", "0", "--value", "<p>Bye</p>")

	assert.Contains(t, out, `[0] Text Only "Welcome"`)
	assert.Equal(t,
		domain.RichText{ID: "b1", Title: "Welcome", Value: "<p>Bye</p>"},
		env.stored(t, "home").Sections["hero"].Content[0])
}

func TestBlockUpdate_ChangesType(t *testing.T) {
	env := setup(t)
	env.seed(t, "home", sampleDocument())

	mustRun(t, "block", "update", "home", "gallery", "0", "--type", "carousel", "--title", "Slides")

	assert.Equal(t,
		domain.Carousel{ID: "b2", Title: "Slides", ImageURLs: []string{"https://img/1.png", "https://img/2.png"}},
		env.stored(t, "home").Sections["gallery"].Content[0])
}

func TestBlockUpdate_Rejections(t *testing.T) {
	env := setup(t)
	env.seed(t, "home", sampleDocument())

	_, err := run(t, "", "block", "update", "home", "hero", "0")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = run(t, "", "block", "update", "home", "hero", "5", "--title", "x")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = run(t, "", "block", "update", "home", "hero", "zero", "--title", "x")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestBlockConvert(t *testing.T) {
	env := setup(t)
	env.seed(t, "home", sampleDocument())

	out := mustRun(t, "block", "convert", "home", "hero", "0", "imgRte")

	assert.Contains(t, out, "Text with Image")
	assert.Equal(t,
		domain.ImageText{ID: "b1", Title: "Welcome", Value: "<p>Hello</p>", ImagePosition: domain.ImageLeft},
		env.stored(t, "home").Sections["hero"].Content[0])

	_, err := run(t, "", "block", "convert", "home", "hero", "0", "video")
	assert.ErrorIs(t, err, domain.ErrUnknownBlockType)
}

func TestBlockDelete(t *testing.T) {
	env := setup(t)
	env.seed(t, "home", sampleDocument())

	out, err := run(t, "no\n", "block", "delete", "home", "gallery", "0")
	require.NoError(t, err)
	assert.Contains(t, out, "Are you sure you want to delete this block? [y/N]")
	assert.Contains(t, out, "Cancelled")
	assert.Len(t, env.stored(t, "home").Sections["gallery"].Content, 2)

	out = mustRun(t, "-y", "block", "delete", "home", "gallery", "0")
	assert.Contains(t, out, "Deleted block 0 from gallery")
	blocks := env.stored(t, "home").Sections["gallery"].Content
	require.Len(t, blocks, 1)
	assert.Equal(t, "b3", blocks[0].BlockID())
}

func TestBlockDelete_OutOfRange(t *testing.T) {
	env := setup(t)
	env.seed(t, "home", sampleDocument())

	_, err := run(t, "", "--yes", "block", "delete", "home", "footer", "0")

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "index", verr.Field)
	assert.Contains(t, verr.Reason, "0 blocks")
}

func TestBlockUpdate_WriteFailure(t *testing.T) {
	env := setup(t)
	env.seed(t, "home", sampleDocument())
	env.store.failing = true

	_, err := run(t, "", "block", "update", "home", "hero", "0", "--title", "x")

	assert.ErrorIs(t, err, errWritesFailed)
	assert.Len(t, env.recorder.Notifications(), 1)
	// The store keeps what it had.
	assert.Equal(t, "Welcome", env.stored(t, "home").Sections["hero"].Content[0].BlockTitle())
}

func TestSummarize(t *testing.T) {
	assert.Equal(t, "(empty)", summarize("  \n "))
	assert.Equal(t, "<p>a b</p>", summarize("<p>a\n\tb</p>"))

	long := summarize(strings.Repeat("a", 100))
	assert.LessOrEqual(t, len([]rune(long)), summaryLen)
}
