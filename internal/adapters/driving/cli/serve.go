package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/folio/internal/adapters/driving/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve rendered pages over HTTP",
	Long: `Serve the collection's documents as public pages.

Routes:
  GET /<collection>                  document keys (JSON)
  GET /<collection>/<document>       rendered page
  GET /<collection>/<document>.json  stored document

Pages are read on every request, so edits show up on reload.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides web.addr)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	a, err := loadApp(cmd)
	if err != nil {
		return err
	}

	settings := a.Web
	if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
		settings.Addr = addr
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server := web.NewServer(a.Content, a.Renderer, settings)
	cmd.Printf("Serving %s on http://localhost%s/%s\n", a.Collection, settings.Addr, a.Collection)
	return server.ListenAndServe(ctx)
}
