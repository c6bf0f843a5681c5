package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/folio/internal/adapters/driven/notify"
	"github.com/custodia-labs/folio/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/folio/internal/adapters/driving/web"
	"github.com/custodia-labs/folio/internal/core/domain"
	"github.com/custodia-labs/folio/internal/core/ports/driven"
	"github.com/custodia-labs/folio/internal/core/services"
)

const testCollection = "cms"

var errQuota = errors.New("write quota exceeded")

// flakyStore fails every write while failing is set.
type flakyStore struct {
	driven.DocumentStore
	failing bool
}

func (s *flakyStore) Set(ctx context.Context, collection, key string, fields domain.Fields) error {
	if s.failing {
		return errQuota
	}
	return s.DocumentStore.Set(ctx, collection, key, fields)
}

func (s *flakyStore) Update(ctx context.Context, collection, key string, updates map[string]any) error {
	if s.failing {
		return errQuota
	}
	return s.DocumentStore.Update(ctx, collection, key, updates)
}

func (s *flakyStore) DeleteField(ctx context.Context, collection, key, path string) error {
	if s.failing {
		return errQuota
	}
	return s.DocumentStore.DeleteField(ctx, collection, key, path)
}

type testEnv struct {
	store    *flakyStore
	recorder *notify.Recorder
	settings *services.SettingsService
}

// setup installs an App over an in-memory store for the duration of t.
func setup(t *testing.T) *testEnv {
	t.Helper()

	store := &flakyStore{DocumentStore: memory.NewDocumentStore()}
	recorder := notify.NewRecorder()
	fanout := notify.NewFanout(recorder)
	editor := services.NewEditorService(store, fanout, testCollection, 0)

	SetApp(&App{
		Collection:    testCollection,
		Content:       services.NewContentService(store, testCollection),
		Editor:        editor,
		Renderer:      web.NewRenderer(nil),
		Notifications: fanout,
		Failures:      recorder,
		Web:           domain.DefaultSettings().Web,
		Close: func() error {
			editor.Flush()
			return nil
		},
	})
	settings := services.NewSettingsService(memory.NewConfigStore())
	SetSettingsService(settings)

	t.Cleanup(func() {
		closeApp()
		SetApp(nil)
		SetSettingsService(nil)
		resetFlags(rootCmd)
	})
	return &testEnv{store: store, recorder: recorder, settings: settings}
}

// run executes the root command with args and returns everything it printed.
func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	}()

	err := rootCmd.Execute()
	return buf.String(), err
}

// mustRun is run for commands that are expected to succeed.
func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := run(t, "", args...)
	require.NoError(t, err, out)
	return out
}

// resetFlags restores every flag of c and its subcommands to its default,
// since cobra keeps parsed values between executions.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// stored reads a document straight from the store.
func (e *testEnv) stored(t *testing.T, key string) domain.Document {
	t.Helper()
	fields, err := e.store.DocumentStore.Get(context.Background(), testCollection, key)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.NewDocument()
	}
	require.NoError(t, err)
	doc, err := domain.DecodeDocument(fields)
	require.NoError(t, err)
	return doc
}

// seed writes a document straight to the store.
func (e *testEnv) seed(t *testing.T, key string, doc domain.Document) {
	t.Helper()
	fields, err := doc.Fields()
	require.NoError(t, err)
	require.NoError(t, e.store.DocumentStore.Set(context.Background(), testCollection, key, fields))
}

func sampleDocument() domain.Document {
	return domain.Document{Sections: map[string]domain.SectionEntry{
		"hero": {Index: 0, Content: []domain.Block{
			domain.RichText{ID: "b1", Title: "Welcome", Value: "<p>Hello</p>"},
		}},
		"gallery": {Index: 1, Content: []domain.Block{
			domain.Gallery{ID: "b2", Title: "Photos", ImageURLs: []string{"https://img/1.png", "https://img/2.png"}},
			domain.ImageText{ID: "b3", Value: "<p>Side</p>", ImageURL: "https://img/3.png", ImagePosition: domain.ImageRight},
		}},
		"footer": {Index: 2},
	}}
}
