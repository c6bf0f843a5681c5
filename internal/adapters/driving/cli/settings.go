package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/folio/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and change where documents are stored and how pages are served.

Settings live in config.toml inside the config directory (~/.folio by default).`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Change one setting",
	Long: `Change one setting. Keys:

  store.backend            memory, sqlite, file or mongo
  store.data_dir           directory for the sqlite database or JSON files
  store.collection         collection holding the CMS documents
  store.mongo_uri          connection string for the mongo backend
  store.mongo_database     database for the mongo backend
  store.write_rate         max writes per second, 0 for no limit
  web.addr                 listen address for 'folio serve'
  web.read_header_timeout  e.g. 10s`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

var settingsKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List setting keys",
	Args:  cobra.NoArgs,
	RunE:  runSettingsKeys,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsKeysCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	svc, err := loadSettings()
	if err != nil {
		return err
	}

	settings, err := svc.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Store]")
	cmd.Printf("  Backend: %s\n", settings.Store.Backend)
	cmd.Printf("  Collection: %s\n", settings.Store.Collection)
	switch settings.Store.Backend {
	case domain.BackendSQLite, domain.BackendFile:
		cmd.Printf("  Data dir: %s\n", settings.Store.DataDir)
	case domain.BackendMongo:
		cmd.Printf("  Mongo URI: %s\n", maskURI(settings.Store.MongoURI))
		cmd.Printf("  Mongo database: %s\n", settings.Store.MongoDatabase)
	}
	if settings.Store.WriteRate > 0 {
		cmd.Printf("  Write rate: %g/s\n", settings.Store.WriteRate)
	} else {
		cmd.Println("  Write rate: unlimited")
	}
	cmd.Println()

	cmd.Println("[Web]")
	cmd.Printf("  Address: %s\n", settings.Web.Addr)
	cmd.Printf("  Read header timeout: %s\n", settings.Web.ReadHeaderTimeout)
	cmd.Println()

	cmd.Printf("Config file: %s\n", svc.ConfigPath())
	if err := svc.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
		cmd.Println("Run 'folio settings set' to fix configuration issues.")
	} else {
		cmd.Println("Configuration is valid.")
	}
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	svc, err := loadSettings()
	if err != nil {
		return err
	}
	if err := svc.Set(args[0], args[1]); err != nil {
		return fmt.Errorf("failed to set %s: %w", args[0], err)
	}
	cmd.Printf("Set %s\n", args[0])
	return nil
}

func runSettingsKeys(cmd *cobra.Command, _ []string) error {
	svc, err := loadSettings()
	if err != nil {
		return err
	}
	for _, key := range svc.Keys() {
		cmd.Println(key)
	}
	return nil
}

// maskURI hides the password in a connection string.
func maskURI(uri string) string {
	if uri == "" {
		return "(not set)"
	}
	scheme, rest, ok := strings.Cut(uri, "://")
	if !ok {
		return uri
	}
	userinfo, host, ok := strings.Cut(rest, "@")
	if !ok {
		return uri
	}
	user, _, hasPassword := strings.Cut(userinfo, ":")
	if !hasPassword {
		return uri
	}
	return scheme + "://" + user + ":****@" + host
}
