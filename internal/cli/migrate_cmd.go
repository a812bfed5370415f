package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/likelee/agency-dashboard/internal/container"
)

func newMigrateCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := app.load()
			if err != nil {
				return err
			}
			defer rt.logger.Sync()

			cc := rt.cfg.ToContainerConfig(app.Version)
			bundle, err := container.ProvideDatabase(cmd.Context(), &cc.Database, rt.logger)
			if err != nil {
				return err
			}
			defer bundle.DB.Close()

			fmt.Fprintf(cmd.OutOrStdout(), "Applied %d migration(s) to %s\n", bundle.Applied, cc.Database.Path)
			return nil
		},
	}
}
