package cli

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newServeCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			c, err := app.start(ctx)
			if err != nil {
				return err
			}
			defer shutdown(c)

			srv, err := c.HTTPServer()
			if err != nil {
				return err
			}

			c.Logger().Info("Starting agency dashboard",
				zap.String("version", app.Version),
				zap.String("address", srv.Address()),
				zap.Bool("demo_mode", c.Config().Demo.Enabled))

			return srv.Start(ctx)
		},
	}
}
