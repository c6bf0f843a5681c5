package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/folio/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/folio/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/folio/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/folio/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/folio/internal/adapters/driving/tui/views/blocks"
	"github.com/custodia-labs/folio/internal/adapters/driving/tui/views/documents"
	"github.com/custodia-labs/folio/internal/adapters/driving/tui/views/sections"
	"github.com/custodia-labs/folio/internal/core/domain"
	"github.com/custodia-labs/folio/internal/core/ports/driven"
)

// notificationBuffer bounds how many notifications wait for the UI.
// Further notifications are dropped until the UI catches up.
const notificationBuffer = 32

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	ports  *Ports
	ctx    context.Context
	styles *styles.Styles
	keymap *keymap.KeyMap

	documentsView *documents.View
	sectionsView  *sections.View
	blocksView    *blocks.View
	statusBar     *status.Bar

	// notifications carries background write failures to the status bar.
	notifications chan domain.Notification

	currentView messages.ViewType
	err         error

	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model and can receive notifications.
var (
	_ tea.Model       = (*App)(nil)
	_ driven.Notifier = (*App)(nil)
)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	return &App{
		ports:         ports,
		ctx:           context.Background(),
		styles:        s,
		keymap:        km,
		documentsView: documents.NewView(s, km, ports.Content),
		sectionsView:  sections.NewView(s, km),
		blocksView:    blocks.NewView(s, km),
		statusBar:     status.NewBar(s, km),
		notifications: make(chan domain.Notification, notificationBuffer),
		currentView:   messages.ViewDocuments,
	}, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// Notify queues a notification for the status bar. It never blocks the
// writer that raised it.
func (a *App) Notify(_ context.Context, n domain.Notification) {
	select {
	case a.notifications <- n:
	default:
	}
}

// waitForNotification delivers the next queued notification as a message.
func (a *App) waitForNotification() tea.Cmd {
	ch, ctx := a.notifications, a.ctx
	return func() tea.Msg {
		select {
		case n := <-ch:
			return messages.NotificationReceived{Notification: n}
		case <-ctx.Done():
			return nil
		}
	}
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle("folio"),
		a.documentsView.Init(),
		a.waitForNotification(),
	)
}

// Update implements tea.Model.
//
//nolint:gocyclo // central message handler
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case messages.NotificationReceived:
		a.statusBar.Notify(msg.Notification)
		// The editor's local state stays as it is; redraw from it.
		a.refresh()
		return a, a.waitForNotification()

	case messages.DocumentSelected:
		return a, a.openDocument(msg.Key)

	case messages.DocumentOpened:
		if msg.Err != nil {
			a.err = msg.Err
			a.documentsView, cmd = a.documentsView.Update(messages.ErrorOccurred{Err: msg.Err})
			return a, cmd
		}
		a.err = nil
		a.sectionsView.SetPage(msg.Page)
		a.currentView = messages.ViewSections
		return a, nil

	case messages.SectionSelected:
		section, err := a.sectionsView.Page().Edit(msg.Key)
		if err != nil {
			a.err = err
			a.sectionsView, cmd = a.sectionsView.Update(messages.ErrorOccurred{Err: err})
			return a, cmd
		}
		a.blocksView.SetSection(section)
		a.currentView = messages.ViewBlocks
		return a, nil

	case messages.ViewChanged:
		a.currentView = msg.View
		switch msg.View {
		case messages.ViewDocuments:
			return a, a.documentsView.Init()
		case messages.ViewSections:
			a.sectionsView.Refresh()
		case messages.ViewBlocks, messages.ViewHelp:
		}
		return a, nil

	case messages.ErrorOccurred:
		a.err = msg.Err

	case messages.Quit:
		return a, a.quit()
	}

	return a, a.forward(msg)
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := msg.String()
	if k == "ctrl+c" {
		return a, a.quit()
	}

	if !a.capturing() {
		switch {
		case keymap.Matches(k, a.keymap.Quit):
			return a, a.quit()
		case a.currentView == messages.ViewHelp:
			if keymap.Matches(k, a.keymap.Back) || keymap.Matches(k, a.keymap.Help) {
				a.currentView = messages.ViewSections
				if a.sectionsView.Page() == nil {
					a.currentView = messages.ViewDocuments
				}
			}
			return a, nil
		case keymap.Matches(k, a.keymap.Help):
			a.currentView = messages.ViewHelp
			return a, nil
		}
		// Any other key acknowledges the last notification.
		if a.statusBar.State() != status.StatePrompt {
			a.statusBar.Clear()
		}
	}

	return a, a.forward(msg)
}

func (a *App) forward(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch a.currentView {
	case messages.ViewDocuments:
		a.documentsView, cmd = a.documentsView.Update(msg)
	case messages.ViewSections:
		a.sectionsView, cmd = a.sectionsView.Update(msg)
	case messages.ViewBlocks:
		a.blocksView, cmd = a.blocksView.Update(msg)
	case messages.ViewHelp:
	}
	return cmd
}

func (a *App) openDocument(key string) tea.Cmd {
	editor, ctx := a.ports.Editor, a.ctx
	return func() tea.Msg {
		page := editor.Open(key)
		if err := page.Load(ctx); err != nil {
			return messages.DocumentOpened{Err: fmt.Errorf("loading %s: %w", key, err)}
		}
		return messages.DocumentOpened{Page: page}
	}
}

func (a *App) refresh() {
	switch a.currentView {
	case messages.ViewSections:
		a.sectionsView.Refresh()
	case messages.ViewBlocks:
		a.blocksView.Refresh()
	case messages.ViewDocuments, messages.ViewHelp:
	}
}

// quit waits for queued writes of the open document, then exits.
func (a *App) quit() tea.Cmd {
	if page := a.sectionsView.Page(); page != nil {
		page.Flush()
	}
	return tea.Quit
}

type activeView interface {
	Capturing() bool
}

type prompter interface {
	Prompt() (string, bool)
}

func (a *App) active() activeView {
	switch a.currentView {
	case messages.ViewSections:
		return a.sectionsView
	case messages.ViewBlocks:
		return a.blocksView
	case messages.ViewDocuments, messages.ViewHelp:
	}
	return a.documentsView
}

func (a *App) capturing() bool {
	if a.currentView == messages.ViewHelp {
		return false
	}
	return a.active().Capturing()
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	var body string
	switch a.currentView {
	case messages.ViewSections:
		body = a.sectionsView.View()
		a.statusBar.SetHints(a.sectionsView.Hints())
	case messages.ViewBlocks:
		body = a.blocksView.View()
		a.statusBar.SetHints(a.blocksView.Hints())
	case messages.ViewHelp:
		body = a.viewHelp()
		a.statusBar.SetHints(nil)
	case messages.ViewDocuments:
		body = a.documentsView.View()
		a.statusBar.SetHints(a.documentsView.Hints())
	}

	a.syncPrompt()

	bodyHeight := a.height - 1
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().Height(bodyHeight).Render(body),
		a.statusBar.View(),
	)
}

func (a *App) syncPrompt() {
	p, ok := a.active().(prompter)
	if !ok || a.currentView == messages.ViewHelp {
		return
	}
	question, asking := p.Prompt()
	switch {
	case asking:
		a.statusBar.Ask(question)
	case a.statusBar.State() == status.StatePrompt:
		a.statusBar.Clear()
	}
}

func (a *App) viewHelp() string {
	return a.styles.Title.Render("Help") + `

Navigation:
  j/k, ↑/↓    Move selection
  enter       Open document or section
  esc         Back
  ?           Toggle help
  q, ctrl+c   Quit

Sections:
  a           Add section
  d           Delete section (asks y/n)
  r           Rename section
  K/J         Move section up/down

Blocks:
  a           Add block
  d           Delete block (asks y/n)
  t           Cycle block type
  e           Edit title
  v           Edit text, or image URLs of galleries and carousels
  i           Edit image URL (text with image)
  p           Toggle image position (text with image)

Every change is saved in the background. Failed saves show in the
status bar and are not retried.`
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// StatusBar returns the status bar.
func (a *App) StatusBar() *status.Bar {
	return a.statusBar
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.documentsView.SetDimensions(width, height-1)
	a.sectionsView.SetDimensions(width, height-1)
	a.blocksView.SetDimensions(width, height-1)
	a.statusBar.SetWidth(width)
}
