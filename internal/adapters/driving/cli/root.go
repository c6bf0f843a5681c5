// Package cli is folio's command-line surface.
package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/folio/internal/adapters/driven/notify"
	"github.com/custodia-labs/folio/internal/adapters/driving/web"
	"github.com/custodia-labs/folio/internal/core/domain"
	"github.com/custodia-labs/folio/internal/core/ports/driving"
	"github.com/custodia-labs/folio/internal/logger"
)

// version is set by SetVersion from the build.
var version = "dev"

// Global flags.
var (
	flagVerbose    bool
	flagConfigDir  string
	flagCollection string
	flagYes        bool
)

var rootCmd = &cobra.Command{
	Use:   "folio",
	Short: "Edit and publish CMS page content",
	Long: `folio edits pages built from named sections of content blocks
(rich text, image with text, galleries and carousels) and serves them.

Every edit is saved in the background as soon as it is made.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(flagVerbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Print store traffic to stderr")
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "Configuration directory (default ~/.folio)")
	rootCmd.PersistentFlags().StringVarP(&flagCollection, "collection", "c", "", "Document collection (overrides store.collection)")
	rootCmd.PersistentFlags().BoolVarP(&flagYes, "yes", "y", false, "Answer yes to delete confirmations")
}

// App holds what commands run against once the document store is open.
type App struct {
	// Collection is the collection the services read and write.
	Collection string

	Content  driving.ContentService
	Editor   driving.EditorService
	Renderer *web.Renderer

	// Notifications receives every store failure. Long-running surfaces
	// add themselves to it.
	Notifications *notify.Fanout

	// Failures reports whether any write failed during this run.
	Failures interface{ Failed() bool }

	Web domain.WebSettings

	// Close flushes pending writes and closes the store.
	Close func() error
}

// SettingsFactory opens the settings stored in configDir.
type SettingsFactory func(configDir string) (driving.SettingsService, error)

// Bootstrap opens the document store described by settings and builds
// the services over it.
type Bootstrap func(ctx context.Context, settings domain.Settings, configDir string) (*App, error)

var (
	newSettings     SettingsFactory
	bootstrap       Bootstrap
	settingsService driving.SettingsService
	app             *App
)

// SetVersion sets the version printed by "folio version".
func SetVersion(v string) {
	version = v
}

// SetSettingsFactory sets how commands open the settings.
func SetSettingsFactory(f SettingsFactory) {
	newSettings = f
}

// SetBootstrap sets how commands open the store.
func SetBootstrap(b Bootstrap) {
	bootstrap = b
}

// SetApp installs a ready App, bypassing Bootstrap.
func SetApp(a *App) {
	app = a
}

// SetSettingsService installs a settings service, bypassing SettingsFactory.
func SetSettingsService(s driving.SettingsService) {
	settingsService = s
}

// Execute runs the root command and closes the store afterwards.
func Execute() error {
	defer closeApp()
	return rootCmd.Execute()
}

// loadSettings returns the settings service, opening it on first use.
func loadSettings() (driving.SettingsService, error) {
	if settingsService != nil {
		return settingsService, nil
	}
	if newSettings == nil {
		return nil, errors.New("settings service not configured")
	}
	svc, err := newSettings(flagConfigDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open settings: %w", err)
	}
	settingsService = svc
	return svc, nil
}

// loadApp returns the App, opening the store on first use.
func loadApp(cmd *cobra.Command) (*App, error) {
	if app != nil {
		return app, nil
	}
	if bootstrap == nil {
		return nil, errors.New("document store not configured")
	}

	svc, err := loadSettings()
	if err != nil {
		return nil, err
	}
	settings, err := svc.Get()
	if err != nil {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}
	if flagCollection != "" {
		settings.Store.Collection = flagCollection
	}
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings (see 'folio settings'): %w", err)
	}

	a, err := bootstrap(cmd.Context(), *settings, flagConfigDir)
	if err != nil {
		return nil, err
	}
	app = a
	return app, nil
}

func closeApp() {
	if app == nil || app.Close == nil {
		return
	}
	if err := app.Close(); err != nil {
		logger.Error("closing store: %v", err)
	}
	app = nil
}

// errWritesFailed is returned by one-shot commands when a background
// write failed. The failure itself was already reported.
var errWritesFailed = errors.New("one or more writes failed")

// finish waits for the page's writes and turns any failure into an
// exit status.
func finish(a *App, page driving.PageEditor) error {
	page.Flush()
	if a.Failures != nil && a.Failures.Failed() {
		return errWritesFailed
	}
	return nil
}

// openPage opens and loads a document for editing.
func openPage(cmd *cobra.Command, key string) (*App, driving.PageEditor, error) {
	a, err := loadApp(cmd)
	if err != nil {
		return nil, nil, err
	}
	page := a.Editor.Open(key)
	if err := page.Load(cmd.Context()); err != nil {
		return nil, nil, fmt.Errorf("failed to load %s: %w", key, err)
	}
	return a, page, nil
}
