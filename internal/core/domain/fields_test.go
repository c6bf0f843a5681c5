package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitPath(t *testing.T) {
	parts, err := SplitPath("sections.intro.content")
	require.NoError(t, err)
	assert.Equal(t, []string{"sections", "intro", "content"}, parts)

	for _, bad := range []string{"", ".", "a..b", "a."} {
		_, err := SplitPath(bad)
		assert.ErrorIs(t, err, ErrInvalidInput, bad)
	}
}

func TestSetPath_CreatesIntermediateObjects(t *testing.T) {
	f := Fields{}

	require.NoError(t, SetPath(f, "sections.intro.index", 0))

	v, ok := GetPath(f, "sections.intro.index")
	require.True(t, ok)
	assert.Equal(t, 0, v)
}

func TestSetPath_ReplacesScalarOnTheWay(t *testing.T) {
	f := Fields{"sections": "oops"}

	require.NoError(t, SetPath(f, "sections.a", 1))

	assert.Equal(t, map[string]any{"a": 1}, f["sections"])
}

func TestSetPath_LeavesSiblingsAlone(t *testing.T) {
	f := Fields{"sections": map[string]any{
		"a": map[string]any{"index": 0.0, "content": []any{}},
		"b": map[string]any{"index": 1.0, "content": []any{}},
	}}

	require.NoError(t, SetPath(f, "sections.a.content", []any{"x"}))

	b, _ := GetPath(f, "sections.b")
	assert.Equal(t, map[string]any{"index": 1.0, "content": []any{}}, b)
	a, _ := GetPath(f, "sections.a.content")
	assert.Equal(t, []any{"x"}, a)
}

func TestDeletePath(t *testing.T) {
	f := Fields{"sections": map[string]any{"a": 1, "b": 2}}

	require.NoError(t, DeletePath(f, "sections.a"))
	require.NoError(t, DeletePath(f, "sections.missing.deeper"))

	assert.Equal(t, Fields{"sections": map[string]any{"b": 2}}, f)
}

func TestApplyUpdates(t *testing.T) {
	f := Fields{}

	err := ApplyUpdates(f, map[string]any{
		"sections.a":       map[string]any{"index": 0},
		"sections.a.index": 3,
	})
	require.NoError(t, err)

	v, _ := GetPath(f, "sections.a.index")
	assert.Equal(t, 3, v)
}

func TestToFields(t *testing.T) {
	f, err := ToFields(struct {
		Name string `json:"name"`
	}{"x"})
	require.NoError(t, err)
	assert.Equal(t, Fields{"name": "x"}, f)

	_, err = ToFields([]string{"not", "an", "object"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestFields_Clone(t *testing.T) {
	f := Fields{"a": map[string]any{"b": []any{"c"}}}

	c := f.Clone()
	require.NoError(t, SetPath(c, "a.b", "changed"))

	v, _ := GetPath(f, "a.b")
	assert.Equal(t, []any{"c"}, v)
	assert.Nil(t, Fields(nil).Clone())
}
