package backend

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"sync"

	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
	"go.uber.org/zap"
)

// ErrNoCommand is returned by Spawn when the command is empty.
var ErrNoCommand = errors.New("no server command")

// process is a running language server.
type process struct {
	cmd  *exec.Cmd
	once sync.Once
	err  error
}

func (p *process) wait() error {
	p.once.Do(func() {
		p.err = p.cmd.Wait()

		var exitErr *exec.ExitError
		if errors.As(p.err, &exitErr) {
			// Servers often exit non-zero after exit; that is not our failure.
			p.err = nil
		}
	})

	return p.err
}

// Spawn starts command and connects to it over its stdin and stdout. The
// server's stderr is written to the logger.
func Spawn(ctx context.Context, command []string, logger *zap.Logger, opts ...Option) (*Client, error) {
	if len(command) == 0 {
		return nil, ErrNoCommand
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	cmd := exec.CommandContext(ctx, command[0], command[1:]...) //nolint:gosec // G204: command comes from user config
	cmd.Stderr = zap.NewStdLog(logger.Named("server")).Writer()

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("stdin pipe: %w", err)
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("stdout pipe: %w", err)
	}

	err = cmd.Start()
	if err != nil {
		return nil, fmt.Errorf("start %s: %w", command[0], err)
	}

	logger.Info("Started language server",
		zap.Strings("command", command),
		zap.Int("pid", cmd.Process.Pid))

	conn := Connect(ctx, &pipe{Reader: stdout, WriteCloser: stdin}, logger)

	opts = append([]Option{WithLogger(logger)}, opts...)
	client := NewClient(conn, opts...)
	client.proc = &process{cmd: cmd}

	return client, nil
}

// Connect starts a JSON-RPC connection on rwc, answering the server's own
// requests with a minimal client.
func Connect(ctx context.Context, rwc io.ReadWriteCloser, logger *zap.Logger) jsonrpc2.Conn {
	conn := jsonrpc2.NewConn(jsonrpc2.NewStream(rwc))
	conn.Go(ctx, protocol.ClientHandler(newServerClient(logger), jsonrpc2.MethodNotFoundHandler))

	return conn
}

// pipe joins the server's stdout and stdin.
type pipe struct {
	io.Reader
	io.WriteCloser
}
