package domain

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Fields is a document as a document store holds it: a JSON object
// made of maps, slices, strings, numbers, booleans and nulls.
type Fields map[string]any

// PathSeparator separates the segments of a field path ("sections.intro.content").
const PathSeparator = "."

// SplitPath breaks a field path into segments.
func SplitPath(path string) ([]string, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: empty field path", ErrInvalidInput)
	}
	parts := strings.Split(path, PathSeparator)
	for _, p := range parts {
		if p == "" {
			return nil, fmt.Errorf("%w: empty segment in field path %q", ErrInvalidInput, path)
		}
	}
	return parts, nil
}

// JoinPath builds a field path from segments.
func JoinPath(segments ...string) string {
	return strings.Join(segments, PathSeparator)
}

// GetPath returns the value at path.
func GetPath(f Fields, path string) (any, bool) {
	parts, err := SplitPath(path)
	if err != nil {
		return nil, false
	}
	var cur any = map[string]any(f)
	for _, p := range parts {
		m, ok := asMap(cur)
		if !ok {
			return nil, false
		}
		cur, ok = m[p]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// SetPath writes value at path, creating intermediate objects. A
// non-object found on the way is replaced by an object.
func SetPath(f Fields, path string, value any) error {
	parts, err := SplitPath(path)
	if err != nil {
		return err
	}
	m := map[string]any(f)
	for _, p := range parts[:len(parts)-1] {
		next, ok := asMap(m[p])
		if !ok {
			next = make(map[string]any)
			m[p] = next
		}
		m = next
	}
	m[parts[len(parts)-1]] = value
	return nil
}

// DeletePath removes the value at path. Missing paths are not an error.
func DeletePath(f Fields, path string) error {
	parts, err := SplitPath(path)
	if err != nil {
		return err
	}
	m := map[string]any(f)
	for _, p := range parts[:len(parts)-1] {
		next, ok := asMap(m[p])
		if !ok {
			return nil
		}
		m = next
	}
	delete(m, parts[len(parts)-1])
	return nil
}

// ApplyUpdates applies a set of path → value patches. Paths are applied
// in sorted order so overlapping paths resolve the same way everywhere.
func ApplyUpdates(f Fields, updates map[string]any) error {
	paths := make([]string, 0, len(updates))
	for p := range updates {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	for _, p := range paths {
		if err := SetPath(f, p, updates[p]); err != nil {
			return err
		}
	}
	return nil
}

// Normalize converts any JSON-encodable value into its generic form.
func Normalize(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encoding value: %w", err)
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decoding value: %w", err)
	}
	return out, nil
}

// ToFields converts a JSON-object-shaped value into Fields.
func ToFields(v any) (Fields, error) {
	n, err := Normalize(v)
	if err != nil {
		return nil, err
	}
	m, ok := n.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: value is not an object", ErrInvalidInput)
	}
	return Fields(m), nil
}

// Clone deep-copies f.
func (f Fields) Clone() Fields {
	if f == nil {
		return nil
	}
	return Fields(cloneValue(map[string]any(f)).(map[string]any))
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case Fields:
		return cloneValue(map[string]any(t))
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = cloneValue(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = cloneValue(val)
		}
		return out
	default:
		return v
	}
}

func asMap(v any) (map[string]any, bool) {
	switch t := v.(type) {
	case map[string]any:
		return t, true
	case Fields:
		return t, true
	}
	return nil, false
}
