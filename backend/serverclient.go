package backend

import (
	"context"

	"go.lsp.dev/protocol"
	"go.uber.org/zap"
)

// serverClient answers the requests and notifications a language server sends
// back to its client. Most of them are logged and otherwise ignored.
type serverClient struct {
	logger *zap.Logger
}

var _ protocol.Client = (*serverClient)(nil)

func newServerClient(logger *zap.Logger) *serverClient {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &serverClient{logger: logger.Named("server")}
}

// LogMessage relays window/logMessage to the logger.
func (c *serverClient) LogMessage(_ context.Context, params *protocol.LogMessageParams) error {
	switch params.Type {
	case protocol.MessageTypeError:
		c.logger.Error(params.Message)
	case protocol.MessageTypeWarning:
		c.logger.Warn(params.Message)
	case protocol.MessageTypeInfo:
		c.logger.Info(params.Message)
	default:
		c.logger.Debug(params.Message)
	}

	return nil
}

// ShowMessage relays window/showMessage to the logger.
func (c *serverClient) ShowMessage(_ context.Context, params *protocol.ShowMessageParams) error {
	c.logger.Info("Server message", zap.String("message", params.Message))

	return nil
}

// Configuration answers workspace/configuration with one null per item, which
// leaves the server on its defaults.
func (c *serverClient) Configuration(_ context.Context, params *protocol.ConfigurationParams) ([]any, error) {
	return make([]any, len(params.Items)), nil
}

func (c *serverClient) Progress(context.Context, *protocol.ProgressParams) error { return nil }
func (c *serverClient) WorkDoneProgressCreate(context.Context, *protocol.WorkDoneProgressCreateParams) error {
	return nil
}
func (c *serverClient) PublishDiagnostics(context.Context, *protocol.PublishDiagnosticsParams) error {
	return nil
}
func (c *serverClient) ShowMessageRequest(
	context.Context, *protocol.ShowMessageRequestParams,
) (*protocol.MessageActionItem, error) {
	return nil, nil //nolint:nilnil // no action chosen
}
func (c *serverClient) Telemetry(context.Context, any) error { return nil }
func (c *serverClient) RegisterCapability(context.Context, *protocol.RegistrationParams) error {
	return nil
}
func (c *serverClient) UnregisterCapability(context.Context, *protocol.UnregistrationParams) error {
	return nil
}
func (c *serverClient) ApplyEdit(context.Context, *protocol.ApplyWorkspaceEditParams) (bool, error) {
	return false, nil
}
func (c *serverClient) WorkspaceFolders(context.Context) ([]protocol.WorkspaceFolder, error) {
	return nil, nil
}
