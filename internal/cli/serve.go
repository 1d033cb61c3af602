package cli

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mithrel/kennel/internal/server"
)

func newServeCmd() *cobra.Command {
	var listen string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the catalog as a local JSON API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadedApp(cmd)
			if err != nil {
				return err
			}
			addr := listen
			if addr == "" {
				addr = app.Cfg.HTTPAddr
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			srv := server.New(server.Options{
				Catalog:      app.Catalog,
				Reload:       app.Reload,
				Token:        app.Cfg.AuthToken,
				RefreshEvery: app.Cfg.RefreshEvery,
				Log:          app.Log,
			})
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Serving %d dogs on http://%s\n", app.Catalog.Stats().Total, addr)
			return srv.Run(ctx, addr)
		},
	}
	cmd.Flags().StringVar(&listen, "listen", "", "listen address (overrides http_addr)")
	return cmd
}
