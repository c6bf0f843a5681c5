package services

import (
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/custodia-labs/folio/internal/core/domain"
	"github.com/custodia-labs/folio/internal/core/ports/driven"
	"github.com/custodia-labs/folio/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	keyStoreBackend       = "store.backend"
	keyStoreDataDir       = "store.data_dir"
	keyStoreCollection    = "store.collection"
	keyStoreMongoURI      = "store.mongo_uri"
	keyStoreMongoDatabase = "store.mongo_database"
	keyStoreWriteRate     = "store.write_rate"
	keyWebAddr            = "web.addr"
	keyWebHeaderTimeout   = "web.read_header_timeout"
)

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.Settings, error) {
	defaults := s.GetDefaults()

	settings := &domain.Settings{
		Store: domain.StoreSettings{
			Backend:       s.getBackend(defaults.Store.Backend),
			DataDir:       s.getString(keyStoreDataDir, defaults.Store.DataDir),
			Collection:    s.getString(keyStoreCollection, defaults.Store.Collection),
			MongoURI:      s.configStore.GetString(keyStoreMongoURI),
			MongoDatabase: s.getString(keyStoreMongoDatabase, defaults.Store.MongoDatabase),
			WriteRate:     s.getFloat(keyStoreWriteRate, defaults.Store.WriteRate),
		},
		Web: domain.WebSettings{
			Addr:              s.getString(keyWebAddr, defaults.Web.Addr),
			ReadHeaderTimeout: s.getDuration(keyWebHeaderTimeout, defaults.Web.ReadHeaderTimeout),
		},
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.Settings) error {
	if err := settings.Validate(); err != nil {
		return err
	}

	values := map[string]any{
		keyStoreBackend:       settings.Store.Backend.String(),
		keyStoreDataDir:       settings.Store.DataDir,
		keyStoreCollection:    settings.Store.Collection,
		keyStoreMongoURI:      settings.Store.MongoURI,
		keyStoreMongoDatabase: settings.Store.MongoDatabase,
		keyStoreWriteRate:     settings.Store.WriteRate,
		keyWebAddr:            settings.Web.Addr,
		keyWebHeaderTimeout:   settings.Web.ReadHeaderTimeout.String(),
	}
	if err := s.configStore.SetAll(values); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

// Set updates one setting from its string form.
func (s *SettingsService) Set(key, value string) error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	switch key {
	case keyStoreBackend:
		settings.Store.Backend = domain.StoreBackend(value)
	case keyStoreDataDir:
		settings.Store.DataDir = value
	case keyStoreCollection:
		settings.Store.Collection = value
	case keyStoreMongoURI:
		settings.Store.MongoURI = value
	case keyStoreMongoDatabase:
		settings.Store.MongoDatabase = value
	case keyStoreWriteRate:
		rate, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return &domain.ValidationError{Field: key, Reason: "must be a number"}
		}
		settings.Store.WriteRate = rate
	case keyWebAddr:
		settings.Web.Addr = value
	case keyWebHeaderTimeout:
		d, err := time.ParseDuration(value)
		if err != nil {
			return &domain.ValidationError{Field: key, Reason: "must be a duration such as 10s"}
		}
		settings.Web.ReadHeaderTimeout = d
	default:
		return &domain.ValidationError{Field: key, Reason: "unknown setting"}
	}

	return s.Save(settings)
}

// Keys lists the settable config keys.
func (s *SettingsService) Keys() []string {
	keys := []string{
		keyStoreBackend, keyStoreDataDir, keyStoreCollection, keyStoreMongoURI,
		keyStoreMongoDatabase, keyStoreWriteRate, keyWebAddr, keyWebHeaderTimeout,
	}
	sort.Strings(keys)
	return keys
}

// Validate checks the current settings.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return settings.Validate()
}

// GetDefaults returns default settings. The data directory defaults to
// "data" next to the config file.
func (s *SettingsService) GetDefaults() domain.Settings {
	defaults := domain.DefaultSettings()
	if path := s.configStore.Path(); filepath.IsAbs(path) {
		defaults.Store.DataDir = filepath.Join(filepath.Dir(path), "data")
	}
	return defaults
}

// ConfigPath returns the configuration file path.
func (s *SettingsService) ConfigPath() string {
	return s.configStore.Path()
}

func (s *SettingsService) getString(key, defaultVal string) string {
	if v := s.configStore.GetString(key); v != "" {
		return v
	}
	return defaultVal
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	if _, ok := s.configStore.Get(key); !ok {
		return defaultVal
	}
	return s.configStore.GetFloat(key)
}

func (s *SettingsService) getBackend(defaultVal domain.StoreBackend) domain.StoreBackend {
	b := domain.StoreBackend(s.configStore.GetString(keyStoreBackend))
	if b.IsValid() {
		return b
	}
	return defaultVal
}

func (s *SettingsService) getDuration(key string, defaultVal time.Duration) time.Duration {
	d := s.configStore.GetDuration(key)
	if d <= 0 {
		return defaultVal
	}
	return d
}
