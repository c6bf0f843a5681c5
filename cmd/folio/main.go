// Command folio edits CMS page content and serves the rendered pages.
package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	configfile "github.com/custodia-labs/folio/internal/adapters/driven/config/file"
	"github.com/custodia-labs/folio/internal/adapters/driven/notify"
	"github.com/custodia-labs/folio/internal/adapters/driven/storage"
	"github.com/custodia-labs/folio/internal/adapters/driving/cli"
	"github.com/custodia-labs/folio/internal/adapters/driving/web"
	"github.com/custodia-labs/folio/internal/core/domain"
	"github.com/custodia-labs/folio/internal/core/ports/driving"
	"github.com/custodia-labs/folio/internal/core/services"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cli.SetVersion(version)
	cli.SetSettingsFactory(openSettings)
	cli.SetBootstrap(bootstrap)

	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}

func openSettings(configDir string) (driving.SettingsService, error) {
	store, err := configfile.NewConfigStore(configDir)
	if err != nil {
		return nil, err
	}
	return services.NewSettingsService(store), nil
}

func bootstrap(ctx context.Context, settings domain.Settings, configDir string) (*cli.App, error) {
	if configDir == "" {
		dir, err := configfile.DefaultDir()
		if err != nil {
			return nil, err
		}
		configDir = dir
	}

	store, err := storage.Open(ctx, settings.Store)
	if err != nil {
		return nil, err
	}

	templates, err := configfile.NewTemplateStore(filepath.Join(configDir, "templates"), web.DefaultTemplates())
	if err != nil {
		return nil, errors.Join(err, store.Close())
	}

	recorder := notify.NewRecorder()
	notifications := notify.NewFanout(notify.Log{}, recorder)
	collection := settings.Store.Collection
	editor := services.NewEditorService(store, notifications, collection, settings.Store.WriteRate)

	return &cli.App{
		Collection:    collection,
		Content:       services.NewContentService(store, collection),
		Editor:        editor,
		Renderer:      web.NewRenderer(templates),
		Notifications: notifications,
		Failures:      recorder,
		Web:           settings.Web,
		Close: func() error {
			editor.Flush()
			return store.Close()
		},
	}, nil
}
