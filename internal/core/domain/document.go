package domain

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// SectionsField is the top-level field holding a document's sections.
const SectionsField = "sections"

// SectionEntry is a named section as persisted: its blocks in display
// order plus its position among the document's sections.
type SectionEntry struct {
	Content []Block
	Index   int
}

type sectionWire struct {
	Content []json.RawMessage `json:"content"`
	Index   int               `json:"index"`
}

// MarshalJSON writes {"content": [...], "index": n}.
func (s SectionEntry) MarshalJSON() ([]byte, error) {
	content := make([]json.RawMessage, 0, len(s.Content))
	for i, b := range s.Content {
		data, err := json.Marshal(deref(b))
		if err != nil {
			return nil, fmt.Errorf("encoding block %d: %w", i, err)
		}
		content = append(content, data)
	}
	return json.Marshal(sectionWire{Content: content, Index: s.Index})
}

// UnmarshalJSON reads {"content": [...], "index": n}, decoding each
// block by its discriminator.
func (s *SectionEntry) UnmarshalJSON(data []byte) error {
	var w sectionWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	blocks := make([]Block, 0, len(w.Content))
	for i, raw := range w.Content {
		b, err := DecodeBlock(raw)
		if err != nil {
			return fmt.Errorf("block %d: %w", i, err)
		}
		blocks = append(blocks, b)
	}
	s.Content = blocks
	s.Index = w.Index
	return nil
}

// Clone deep-copies the entry.
func (s SectionEntry) Clone() SectionEntry {
	content := make([]Block, len(s.Content))
	for i, b := range s.Content {
		content[i] = CloneBlock(b)
	}
	return SectionEntry{Content: content, Index: s.Index}
}

// Document is the persisted unit: every section of a page keyed by name.
// Display order is carried by each section's Index, never by map order.
type Document struct {
	Sections map[string]SectionEntry `json:"sections"`
}

// NewDocument returns an empty document.
func NewDocument() Document {
	return Document{Sections: make(map[string]SectionEntry)}
}

// Order returns section keys in display order. Equal indices, which a
// hand-edited store can produce, are broken by key.
func (d Document) Order() []string {
	keys := make([]string, 0, len(d.Sections))
	for k := range d.Sections {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := d.Sections[keys[i]], d.Sections[keys[j]]
		if a.Index != b.Index {
			return a.Index < b.Index
		}
		return keys[i] < keys[j]
	})
	return keys
}

// NextIndex returns one past the largest section index, or 0 when empty.
func (d Document) NextIndex() int {
	next := 0
	for _, s := range d.Sections {
		if s.Index+1 > next {
			next = s.Index + 1
		}
	}
	return next
}

// Reindex assigns 0..n-1 to the sections named in order, in that order.
// Sections missing from order keep their relative order after them.
func (d Document) Reindex(order []string) {
	seen := make(map[string]bool, len(order))
	next := 0
	for _, key := range order {
		entry, ok := d.Sections[key]
		if !ok || seen[key] {
			continue
		}
		seen[key] = true
		entry.Index = next
		d.Sections[key] = entry
		next++
	}
	for _, key := range d.Order() {
		if seen[key] {
			continue
		}
		entry := d.Sections[key]
		entry.Index = next
		d.Sections[key] = entry
		next++
	}
}

// Clone deep-copies the document.
func (d Document) Clone() Document {
	out := Document{Sections: make(map[string]SectionEntry, len(d.Sections))}
	for k, s := range d.Sections {
		out.Sections[k] = s.Clone()
	}
	return out
}

// MarshalJSON writes an empty object rather than null for a nil section map.
func (d Document) MarshalJSON() ([]byte, error) {
	sections := d.Sections
	if sections == nil {
		sections = map[string]SectionEntry{}
	}
	return json.Marshal(struct {
		Sections map[string]SectionEntry `json:"sections"`
	}{sections})
}

// Fields converts the document into its stored form.
func (d Document) Fields() (Fields, error) {
	return ToFields(d)
}

// DecodeDocument reads a stored document. Nil fields decode to an empty document.
func DecodeDocument(f Fields) (Document, error) {
	doc := NewDocument()
	if f == nil {
		return doc, nil
	}
	data, err := json.Marshal(f)
	if err != nil {
		return doc, fmt.Errorf("encoding fields: %w", err)
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return NewDocument(), fmt.Errorf("decoding document: %w", err)
	}
	if doc.Sections == nil {
		doc.Sections = make(map[string]SectionEntry)
	}
	return doc, nil
}

// ValidateSectionKey checks that key can name a section.
func ValidateSectionKey(key string) error {
	switch {
	case strings.TrimSpace(key) == "":
		return &ValidationError{Field: "section", Reason: "name is required"}
	case strings.Contains(key, PathSeparator):
		return &ValidationError{Field: "section", Reason: fmt.Sprintf("name must not contain %q", PathSeparator)}
	}
	return nil
}

// SectionPath returns the field path of a section.
func SectionPath(key string) string {
	return JoinPath(SectionsField, key)
}

// SectionContentPath returns the field path of a section's blocks.
func SectionContentPath(key string) string {
	return JoinPath(SectionsField, key, "content")
}
