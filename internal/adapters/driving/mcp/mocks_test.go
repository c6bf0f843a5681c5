package mcp

import (
	"context"
	"io"

	"github.com/custodia-labs/folio/internal/core/domain"
	"github.com/custodia-labs/folio/internal/core/ports/driving"
)

// mockContentService is a mock implementation of driving.ContentService.
type mockContentService struct {
	keys []string
	docs map[string]domain.Document
	err  error
}

var _ driving.ContentService = (*mockContentService)(nil)

func (m *mockContentService) Collection() string { return "cms" }

func (m *mockContentService) Get(_ context.Context, key string) (domain.Document, error) {
	if m.err != nil {
		return domain.NewDocument(), m.err
	}
	if doc, ok := m.docs[key]; ok {
		return doc, nil
	}
	return domain.NewDocument(), nil
}

func (m *mockContentService) List(_ context.Context) ([]string, error) {
	return m.keys, m.err
}

func (m *mockContentService) Watch(_ context.Context, _ string, _ func(domain.Document)) (func(), error) {
	return func() {}, m.err
}

func (m *mockContentService) Export(_ context.Context, _ string, _ driving.ExportFormat, _ io.Writer) error {
	return m.err
}

func (m *mockContentService) Import(_ context.Context, _ string, _ driving.ExportFormat, _ io.Reader) error {
	return m.err
}

func sampleContent() *mockContentService {
	return &mockContentService{
		keys: []string{"home"},
		docs: map[string]domain.Document{
			"home": {Sections: map[string]domain.SectionEntry{
				"gallery": {Index: 1, Content: []domain.Block{
					domain.Gallery{ID: "g1", ImageURLs: []string{"https://img/1.png"}},
				}},
				"intro": {Index: 0, Content: []domain.Block{
					domain.ImageText{ID: "i1", Title: "Hi", Value: "<p>Welcome</p>", ImageURL: "https://img/h.png", ImagePosition: domain.ImageRight},
				}},
			}},
		},
	}
}
