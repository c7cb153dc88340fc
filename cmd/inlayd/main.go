// Command inlayd keeps an editor's inlay hints in sync with a language server.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/rlch/inlay"
)

var version = "dev"

func main() {
	app := &cli.Command{
		Name:    "inlayd",
		Version: version,
		Usage:   "Inlay hint synchronization daemon",
		Flags:   globalFlags(),
		Commands: []*cli.Command{
			serveCommand(),
			previewCommand(),
		},
	}

	err := app.Run(context.Background(), os.Args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// globalFlags are shared by every subcommand.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "config file (default: nearest .inlay.yaml)",
			Sources: cli.EnvVars("INLAY_CONFIG"),
		},
		&cli.StringFlag{
			Name:    "server",
			Usage:   "language server command (overrides config)",
			Sources: cli.EnvVars("INLAY_SERVER"),
		},
		&cli.StringFlag{
			Name:  "log-level",
			Value: "info",
			Usage: "debug, info, warn or error",
		},
	}
}

// newLogger logs to stderr; stdout carries JSON-RPC.
func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}

	config := zap.NewDevelopmentConfig()
	config.OutputPaths = []string{"stderr"}
	config.ErrorOutputPaths = []string{"stderr"}
	config.Level = zap.NewAtomicLevelAt(lvl)

	return config.Build()
}

// loadConfig reads --config, or the nearest config file above dir, falling
// back to defaults. --server replaces the configured command.
func loadConfig(cmd *cli.Command, dir string) (*inlay.Config, error) {
	var (
		cfg *inlay.Config
		err error
	)

	path := cmd.String("config")
	if path != "" {
		cfg, err = inlay.LoadConfigFile(path)
	} else {
		cfg, err = inlay.LoadConfig(dir)
		if errors.Is(err, inlay.ErrConfigNotFound) {
			cfg, err = inlay.DefaultConfig(), nil
		}
	}

	if err != nil {
		return nil, err
	}

	server := cmd.String("server")
	if server != "" {
		cfg.Server.Command = strings.Fields(server)
	}

	if len(cfg.Server.Command) == 0 {
		return nil, inlay.ErrNoServerCommand
	}

	return cfg, nil
}
