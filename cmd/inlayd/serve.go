package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/urfave/cli/v3"
	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/rlch/inlay/backend"
	"github.com/rlch/inlay/engine"
	"github.com/rlch/inlay/lsp"
)

var errBackendExited = errors.New("language server exited")

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve an editor over stdio",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "metrics-addr",
				Usage:   "serve Prometheus metrics on this address (e.g. :9464)",
				Sources: cli.EnvVars("INLAY_METRICS_ADDR"),
			},
		},
		Action: runServe,
	}
}

func runServe(ctx context.Context, cmd *cli.Command) error {
	logger, err := newLogger(cmd.String("log-level"))
	if err != nil {
		return err
	}

	defer func() {
		_ = logger.Sync()
	}()

	wd, err := os.Getwd()
	if err != nil {
		return err
	}

	cfg, err := loadConfig(cmd, wd)
	if err != nil {
		return err
	}

	logger.Info("Starting inlayd",
		zap.String("version", version),
		zap.Strings("server", cfg.Server.Command),
		zap.String("protocol", string(cfg.Server.Protocol)))

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := engine.NewMetrics(reg)

	ctx, cancel := context.WithCancel(ctx)
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
			logger.Warn("Language server did not stop cleanly", zap.Error(err))
		}
	}()

	// Create a JSON-RPC stream connection over stdio
	conn := jsonrpc2.NewConn(jsonrpc2.NewStream(&readWriteCloser{os.Stdin, os.Stdout}))
	client := protocol.ClientDispatcher(conn, logger)
	server := lsp.NewServer(client, conn, hints, cfg, logger,
		lsp.WithMetrics(metrics),
		lsp.WithVersion(version),
	)
	conn.Go(ctx, protocol.ServerHandler(server, nil))

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer cancel()

		return wait(gctx, conn, server, hints)
	})

	addr := cmd.String("metrics-addr")
	if addr != "" {
		srv := &http.Server{
			Addr:              addr,
			Handler:           promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}),
			ReadHeaderTimeout: 5 * time.Second,
		}

		g.Go(func() error {
			logger.Info("Serving metrics", zap.String("addr", addr))

			err := srv.ListenAndServe()
			if !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("metrics server: %w", err)
			}

			return nil
		})

		g.Go(func() error {
			<-gctx.Done()

			return srv.Shutdown(context.WithoutCancel(gctx))
		})
	}

	return g.Wait()
}

// wait blocks until the editor connection ends, the editor sends exit, or the
// language server goes away.
func wait(ctx context.Context, conn jsonrpc2.Conn, server *lsp.Server, hints *backend.Client) error {
	var backendDone <-chan struct{}
	if hints != nil {
		backendDone = hints.Done()
	}

	select {
	case <-conn.Done():
		err := conn.Err()
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}

		return nil
	case <-server.Done():
		return conn.Close()
	case <-backendDone:
		if server.ShuttingDown() {
			// The server closed the backend itself; exit follows.
			return wait(ctx, conn, server, nil)
		}

		_ = conn.Close()

		return errBackendExited
	case <-ctx.Done():
		return conn.Close()
	}
}

// readWriteCloser wraps separate reader/writer into io.ReadWriteCloser.
type readWriteCloser struct {
	io.Reader
	io.Writer
}

func (rwc *readWriteCloser) Close() error {
	// Close writer if it's closeable
	c, ok := rwc.Writer.(io.Closer)
	if ok {
		return c.Close()
	}

	return nil
}
