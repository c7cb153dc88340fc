package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/rlch/inlay"
	"github.com/rlch/inlay/backend"
	"github.com/rlch/inlay/lsp"
	"github.com/rlch/inlay/preview"
)

var errNoFile = errors.New("usage: inlayd preview FILE")

// languageIDs maps file extensions to LSP language identifiers.
var languageIDs = map[string]string{
	".rs":  "rust",
	".go":  "go",
	".c":   "c",
	".h":   "c",
	".cpp": "cpp",
	".py":  "python",
	".ts":  "typescript",
	".tsx": "typescriptreact",
	".js":  "javascript",
	".zig": "zig",
}

func previewCommand() *cli.Command {
	return &cli.Command{
		Name:      "preview",
		Usage:     "Print a file with its inlay hints inline",
		ArgsUsage: "FILE",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "language",
				Usage: "language ID (default: from the file extension)",
			},
			&cli.StringFlag{
				Name:  "root",
				Usage: "workspace root (default: directory of the config file, or of FILE)",
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Value: time.Minute,
				Usage: "give up after this long",
			},
		},
		Action: runPreview,
	}
}

func runPreview(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 1 {
		return errNoFile
	}

	logger, err := newLogger(cmd.String("log-level"))
	if err != nil {
		return err
	}

	defer func() {
		_ = logger.Sync()
	}()

	path, err := filepath.Abs(cmd.Args().First())
	if err != nil {
		return err
	}

	text, err := os.ReadFile(path) //nolint:gosec // G304: user-supplied path is the point
	if err != nil {
		return err
	}

	cfg, err := loadConfig(cmd, filepath.Dir(path))
	if err != nil {
		return err
	}

	languageID := cmd.String("language")
	if languageID == "" {
		languageID = languageIDs[strings.ToLower(filepath.Ext(path))]
	}

	if languageID == "" {
		return fmt.Errorf("unknown language for %s, use --language", filepath.Base(path))
	}

	ctx, cancel := context.WithTimeout(ctx, cmd.Duration("timeout"))
	defer cancel()

	hints, err := backend.Spawn(ctx, cfg.Server.Command, logger.Named("backend"),
		backend.WithServerConfig(cfg.Server),
		backend.WithClientInfo("inlayd", version),
	)
	if err != nil {
		return err
	}

	defer func() {
		closeCtx, done := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer done()

		err := hints.Close(closeCtx)
		if err != nil {
			logger.Debug("Language server did not stop cleanly", zap.Error(err))
		}
	}()

	root := cmd.String("root")
	if root == "" {
		root = previewRoot(cmd, path)
	}

	_, err = hints.Initialize(ctx, lsp.PathToURI(root))
	if err != nil {
		return err
	}

	file := preview.File{URI: lsp.PathToURI(path), LanguageID: languageID, Text: string(text)}

	decorations, err := preview.Run(ctx, hints, file, cfg.InlayHints, logger)
	if err != nil {
		return err
	}

	return preview.Print(os.Stdout, file.Text, decorations, preview.StylesFor(os.Stdout))
}

// previewRoot guesses the workspace root: the directory holding the config
// file if there is one, otherwise the file's own directory.
func previewRoot(cmd *cli.Command, path string) string {
	cfgPath := cmd.String("config")
	if cfgPath != "" {
		abs, err := filepath.Abs(cfgPath)
		if err == nil {
			return filepath.Dir(abs)
		}
	}

	found, err := inlay.FindConfig(filepath.Dir(path))
	if err == nil {
		return filepath.Dir(found)
	}

	return filepath.Dir(path)
}
