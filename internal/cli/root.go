// Package cli wires the agency-dashboard commands.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/likelee/agency-dashboard/internal/config"
	"github.com/likelee/agency-dashboard/internal/container"
	"github.com/likelee/agency-dashboard/pkg/utils"
)

// App holds the global flags shared by every command.
type App struct {
	ConfigPath string
	EnvFile    string
	Version    string
}

// NewRootCmd creates the top-level "agency-dashboard" command and registers
// all subcommands against app.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "agency-dashboard",
		Short:         "Agency dashboard back office",
		Version:       app.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&app.ConfigPath, "config", app.ConfigPath, "Path to the YAML config file")
	root.PersistentFlags().StringVar(&app.EnvFile, "env-file", app.EnvFile, "Path to a .env file")

	root.AddCommand(
		newServeCmd(app),
		newMigrateCmd(app),
		newSeedCmd(app),
		newExportCmd(app),
	)

	return root
}

// runtime is a loaded configuration with its logger
type runtime struct {
	cfg    *config.Config
	logger *zap.Logger
}

func (app *App) load() (*runtime, error) {
	cfg, err := config.Load(app.ConfigPath, app.EnvFile)
	if err != nil {
		return nil, err
	}

	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
		Service:    "agency-dashboard",
		Version:    app.Version,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return &runtime{cfg: cfg, logger: logger}, nil
}

// start loads configuration and starts a container. The caller closes the
// returned container and syncs its logger.
func (app *App) start(ctx context.Context) (*container.Container, error) {
	rt, err := app.load()
	if err != nil {
		return nil, err
	}

	c, err := container.NewContainer(rt.cfg.ToContainerConfig(app.Version), rt.logger)
	if err != nil {
		return nil, err
	}
	if err := c.Start(ctx); err != nil {
		c.Close()
		return nil, err
	}
	return c, nil
}

func shutdown(c *container.Container) {
	if err := c.Close(); err != nil {
		c.Logger().Error("Container close failed", zap.Error(err))
	}
	_ = c.Logger().Sync()
}
