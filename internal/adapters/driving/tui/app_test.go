package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/folio/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/folio/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/folio/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/folio/internal/core/domain"
	"github.com/custodia-labs/folio/internal/core/services"
)

func newTestApp(t *testing.T) (*App, *services.ContentService) {
	t.Helper()
	store := memory.NewDocumentStore()
	content := services.NewContentService(store, "cms")
	editor := services.NewEditorService(store, nil, "cms", 0)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	app, err := NewApp(NewPorts(content, editor))
	require.NoError(t, err)
	app.WithContext(ctx).SetDimensions(100, 40)
	return app, content
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// send delivers msg and then every message its commands produce,
// skipping batches and blocking commands.
func send(a *App, msg tea.Msg) {
	_, cmd := a.Update(msg)
	for cmd != nil {
		next := cmd()
		switch next.(type) {
		case nil, tea.BatchMsg, messages.NotificationReceived:
			return
		}
		_, cmd = a.Update(next)
	}
}

func typeText(a *App, s string) {
	for _, r := range s {
		send(a, runes(string(r)))
	}
}

func TestNewApp_InvalidPorts(t *testing.T) {
	_, err := NewApp(&Ports{})

	assert.ErrorIs(t, err, ErrMissingContentService)
}

func TestApp_StartsOnDocuments(t *testing.T) {
	app, _ := newTestApp(t)

	assert.Equal(t, messages.ViewDocuments, app.CurrentView())
	assert.True(t, app.Ready())
	assert.NotNil(t, app.Init())
	assert.Contains(t, app.View(), "Documents (0)")
}

func TestApp_View_BeforeSize(t *testing.T) {
	store := memory.NewDocumentStore()
	app, err := NewApp(NewPorts(
		services.NewContentService(store, "cms"),
		services.NewEditorService(store, nil, "cms", 0),
	))
	require.NoError(t, err)

	assert.Equal(t, "Initialising...", app.View())
}

func TestApp_EditFlow(t *testing.T) {
	app, content := newTestApp(t)

	// Create a document and open it.
	send(app, runes("a"))
	typeText(app, "home")
	send(app, tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, messages.ViewSections, app.CurrentView())

	// Add a section and open it.
	send(app, runes("a"))
	typeText(app, "intro")
	send(app, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Contains(t, app.View(), "intro")

	send(app, tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, messages.ViewBlocks, app.CurrentView())

	// Add a block, make it a gallery, then title it.
	send(app, runes("a"))
	send(app, runes("t"))
	send(app, runes("t"))
	send(app, runes("e"))
	typeText(app, "Photos")
	send(app, tea.KeyMsg{Type: tea.KeyEnter})

	send(app, tea.KeyMsg{Type: tea.KeyEsc})
	require.Equal(t, messages.ViewSections, app.CurrentView())
	send(app, tea.KeyMsg{Type: tea.KeyEsc})
	require.Equal(t, messages.ViewDocuments, app.CurrentView())

	doc, err := content.Get(context.Background(), "home")
	require.NoError(t, err)
	require.Contains(t, doc.Sections, "intro")
	require.Len(t, doc.Sections["intro"].Content, 1)
	block := doc.Sections["intro"].Content[0]
	assert.Equal(t, domain.BlockGallery, block.Type())
	assert.Equal(t, "Photos", block.BlockTitle())

	assert.Contains(t, app.View(), "home")
}

func TestApp_DeleteSectionAsks(t *testing.T) {
	app, content := newTestApp(t)
	send(app, messages.DocumentSelected{Key: "home"})
	send(app, runes("a"))
	typeText(app, "intro")
	send(app, tea.KeyMsg{Type: tea.KeyEnter})

	send(app, runes("d"))
	app.View()
	assert.Equal(t, status.StatePrompt, app.StatusBar().State())

	// "q" while a prompt is open answers no instead of quitting.
	send(app, runes("q"))
	app.View()
	assert.NotEqual(t, status.StatePrompt, app.StatusBar().State())
	assert.Contains(t, app.View(), "intro")

	send(app, runes("d"))
	send(app, runes("y"))
	app.sectionsView.Page().Flush()

	doc, err := content.Get(context.Background(), "home")
	require.NoError(t, err)
	assert.NotContains(t, doc.Sections, "intro")
}

func TestApp_NotificationReachesStatusBar(t *testing.T) {
	app, _ := newTestApp(t)

	app.Notify(context.Background(), domain.Notification{
		Level:       domain.LevelError,
		Operation:   "add section",
		DocumentKey: "home",
		Err:         errors.New("quota exceeded"),
	})

	msg := app.waitForNotification()()
	got, ok := msg.(messages.NotificationReceived)
	require.True(t, ok)

	_, cmd := app.Update(got)
	assert.NotNil(t, cmd)
	assert.Equal(t, status.StateError, app.StatusBar().State())
	assert.Contains(t, app.View(), "quota exceeded")

	// The next key press acknowledges it.
	send(app, tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, status.StateReady, app.StatusBar().State())
}

func TestApp_NotifyNeverBlocks(t *testing.T) {
	app, _ := newTestApp(t)

	for i := 0; i < notificationBuffer*2; i++ {
		app.Notify(context.Background(), domain.Notification{Operation: "x"})
	}

	assert.Len(t, app.notifications, notificationBuffer)
}

func TestApp_WaitForNotification_StopsWithContext(t *testing.T) {
	store := memory.NewDocumentStore()
	app, err := NewApp(NewPorts(
		services.NewContentService(store, "cms"),
		services.NewEditorService(store, nil, "cms", 0),
	))
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	app.WithContext(ctx)

	assert.Nil(t, app.waitForNotification()())
}

func TestApp_Help(t *testing.T) {
	app, _ := newTestApp(t)

	send(app, runes("?"))
	assert.Equal(t, messages.ViewHelp, app.CurrentView())
	assert.Contains(t, app.View(), "Cycle block type")

	send(app, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, messages.ViewDocuments, app.CurrentView())
}

func TestApp_Quit(t *testing.T) {
	app, _ := newTestApp(t)

	_, cmd := app.Update(runes("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	_, cmd = app.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestApp_OpenFailure(t *testing.T) {
	app, _ := newTestApp(t)

	send(app, messages.DocumentOpened{Err: errors.New("unavailable")})

	assert.Equal(t, messages.ViewDocuments, app.CurrentView())
	assert.Error(t, app.Err())
	assert.Contains(t, app.View(), "unavailable")
}
