package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/folio/internal/core/domain"
)

func TestRender_Stdout(t *testing.T) {
	env := setup(t)
	env.seed(t, "home", sampleDocument())

	out := mustRun(t, "render", "home", "about")

	home := strings.Index(out, "<title>home</title>")
	about := strings.Index(out, "<title>about</title>")
	require.NotEqual(t, -1, home)
	require.NotEqual(t, -1, about)
	assert.Less(t, home, about, "pages follow argument order")
	assert.Contains(t, out, "<h2>Welcome</h2>")
}

func TestRender_OutputDir(t *testing.T) {
	env := setup(t)
	env.seed(t, "home", sampleDocument())
	dir := filepath.Join(t.TempDir(), "site")

	out := mustRun(t, "render", "home", "-o", dir, "--parallel", "1")

	path := filepath.Join(dir, "home.html")
	assert.Contains(t, out, "Rendered "+path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `src="https://img/3.png"`)
}

func TestRender_NeedsDocument(t *testing.T) {
	setup(t)

	_, err := run(t, "", "render")

	assert.Error(t, err)
}

func TestRender_OutputDirRejectsEscapingKeys(t *testing.T) {
	env := setup(t)
	env.seed(t, "home", sampleDocument())
	base := t.TempDir()
	dir := filepath.Join(base, "site")

	for _, key := range []string{"../x", "..", ".hidden", `a\b`, "a/b"} {
		t.Run(key, func(t *testing.T) {
			_, err := run(t, "", "render", "home", key, "-o", dir)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}

	_, err := os.Stat(filepath.Join(base, "x.html"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(dir)
	assert.True(t, os.IsNotExist(err), "nothing is written when a key is rejected")
}
