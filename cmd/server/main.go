package main

import (
	"fmt"
	"os"

	"github.com/likelee/agency-dashboard/internal/cli"
)

const defaultConfigPath = "configs/config.yaml"

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	app := &cli.App{
		EnvFile: ".env",
		Version: version,
	}
	if _, err := os.Stat(defaultConfigPath); err == nil {
		app.ConfigPath = defaultConfigPath
	}

	if err := cli.NewRootCmd(app).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
