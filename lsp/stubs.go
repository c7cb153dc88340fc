package lsp

// Methods outside inlay hint synchronization. Initialize advertises none of
// them, so requests fail with MethodNotFound and notifications are dropped.

import (
	"context"

	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
	"go.uber.org/zap"
)

func (s *Server) unsupported(method string) error {
	s.logger.Debug("Unsupported request", zap.String("method", method))

	return jsonrpc2.NewError(jsonrpc2.MethodNotFound, "inlayd does not handle "+method)
}

func (s *Server) ignore(method string) error {
	s.logger.Debug("Ignoring notification", zap.String("method", method))

	return nil
}

func (s *Server) WorkDoneProgressCancel(_ context.Context, _ *protocol.WorkDoneProgressCancelParams) error {
	return s.ignore("window/workDoneProgress/cancel")
}

func (s *Server) LogTrace(_ context.Context, _ *protocol.LogTraceParams) error {
	return s.ignore("$/logTrace")
}

func (s *Server) SetTrace(_ context.Context, _ *protocol.SetTraceParams) error {
	return s.ignore("$/setTrace")
}

func (s *Server) CodeAction(_ context.Context, _ *protocol.CodeActionParams) ([]protocol.CodeAction, error) {
	return nil, s.unsupported("textDocument/codeAction")
}

func (s *Server) CodeLens(_ context.Context, _ *protocol.CodeLensParams) ([]protocol.CodeLens, error) {
	return nil, s.unsupported("textDocument/codeLens")
}

func (s *Server) CodeLensResolve(_ context.Context, _ *protocol.CodeLens) (*protocol.CodeLens, error) {
	return nil, s.unsupported("codeLens/resolve")
}

func (s *Server) ColorPresentation(_ context.Context, _ *protocol.ColorPresentationParams) ([]protocol.ColorPresentation, error) {
	return nil, s.unsupported("textDocument/colorPresentation")
}

func (s *Server) Completion(_ context.Context, _ *protocol.CompletionParams) (*protocol.CompletionList, error) {
	return nil, s.unsupported("textDocument/completion")
}

func (s *Server) CompletionResolve(_ context.Context, _ *protocol.CompletionItem) (*protocol.CompletionItem, error) {
	return nil, s.unsupported("completionItem/resolve")
}

func (s *Server) Declaration(_ context.Context, _ *protocol.DeclarationParams) ([]protocol.Location, error) {
	return nil, s.unsupported("textDocument/declaration")
}

func (s *Server) Definition(_ context.Context, _ *protocol.DefinitionParams) ([]protocol.Location, error) {
	return nil, s.unsupported("textDocument/definition")
}

func (s *Server) DidChangeWatchedFiles(_ context.Context, _ *protocol.DidChangeWatchedFilesParams) error {
	return s.ignore("workspace/didChangeWatchedFiles")
}

func (s *Server) DidChangeWorkspaceFolders(_ context.Context, _ *protocol.DidChangeWorkspaceFoldersParams) error {
	return s.ignore("workspace/didChangeWorkspaceFolders")
}

func (s *Server) DocumentColor(_ context.Context, _ *protocol.DocumentColorParams) ([]protocol.ColorInformation, error) {
	return nil, s.unsupported("textDocument/documentColor")
}

func (s *Server) DocumentHighlight(_ context.Context, _ *protocol.DocumentHighlightParams) ([]protocol.DocumentHighlight, error) {
	return nil, s.unsupported("textDocument/documentHighlight")
}

func (s *Server) DocumentLink(_ context.Context, _ *protocol.DocumentLinkParams) ([]protocol.DocumentLink, error) {
	return nil, s.unsupported("textDocument/documentLink")
}

func (s *Server) DocumentLinkResolve(_ context.Context, _ *protocol.DocumentLink) (*protocol.DocumentLink, error) {
	return nil, s.unsupported("documentLink/resolve")
}

func (s *Server) DocumentSymbol(_ context.Context, _ *protocol.DocumentSymbolParams) ([]any, error) {
	return nil, s.unsupported("textDocument/documentSymbol")
}

func (s *Server) ExecuteCommand(_ context.Context, _ *protocol.ExecuteCommandParams) (any, error) {
	return nil, s.unsupported("workspace/executeCommand")
}

func (s *Server) FoldingRanges(_ context.Context, _ *protocol.FoldingRangeParams) ([]protocol.FoldingRange, error) {
	return nil, s.unsupported("textDocument/foldingRange")
}

func (s *Server) Formatting(_ context.Context, _ *protocol.DocumentFormattingParams) ([]protocol.TextEdit, error) {
	return nil, s.unsupported("textDocument/formatting")
}

func (s *Server) Hover(_ context.Context, _ *protocol.HoverParams) (*protocol.Hover, error) {
	return nil, s.unsupported("textDocument/hover")
}

func (s *Server) Implementation(_ context.Context, _ *protocol.ImplementationParams) ([]protocol.Location, error) {
	return nil, s.unsupported("textDocument/implementation")
}

func (s *Server) OnTypeFormatting(_ context.Context, _ *protocol.DocumentOnTypeFormattingParams) ([]protocol.TextEdit, error) {
	return nil, s.unsupported("textDocument/onTypeFormatting")
}

func (s *Server) PrepareRename(_ context.Context, _ *protocol.PrepareRenameParams) (*protocol.Range, error) {
	return nil, s.unsupported("textDocument/prepareRename")
}

func (s *Server) RangeFormatting(_ context.Context, _ *protocol.DocumentRangeFormattingParams) ([]protocol.TextEdit, error) {
	return nil, s.unsupported("textDocument/rangeFormatting")
}

func (s *Server) References(_ context.Context, _ *protocol.ReferenceParams) ([]protocol.Location, error) {
	return nil, s.unsupported("textDocument/references")
}

func (s *Server) Rename(_ context.Context, _ *protocol.RenameParams) (*protocol.WorkspaceEdit, error) {
	return nil, s.unsupported("textDocument/rename")
}

func (s *Server) SignatureHelp(_ context.Context, _ *protocol.SignatureHelpParams) (*protocol.SignatureHelp, error) {
	return nil, s.unsupported("textDocument/signatureHelp")
}

func (s *Server) Symbols(_ context.Context, _ *protocol.WorkspaceSymbolParams) ([]protocol.SymbolInformation, error) {
	return nil, s.unsupported("workspace/symbol")
}

func (s *Server) TypeDefinition(_ context.Context, _ *protocol.TypeDefinitionParams) ([]protocol.Location, error) {
	return nil, s.unsupported("textDocument/typeDefinition")
}

func (s *Server) WillSave(_ context.Context, _ *protocol.WillSaveTextDocumentParams) error {
	return s.ignore("textDocument/willSave")
}

func (s *Server) WillSaveWaitUntil(_ context.Context, _ *protocol.WillSaveTextDocumentParams) ([]protocol.TextEdit, error) {
	return nil, s.unsupported("textDocument/willSaveWaitUntil")
}

func (s *Server) ShowDocument(_ context.Context, _ *protocol.ShowDocumentParams) (*protocol.ShowDocumentResult, error) {
	return nil, s.unsupported("window/showDocument")
}

func (s *Server) WillCreateFiles(_ context.Context, _ *protocol.CreateFilesParams) (*protocol.WorkspaceEdit, error) {
	return nil, s.unsupported("workspace/willCreateFiles")
}

func (s *Server) DidCreateFiles(_ context.Context, _ *protocol.CreateFilesParams) error {
	return s.ignore("workspace/didCreateFiles")
}

func (s *Server) WillRenameFiles(_ context.Context, _ *protocol.RenameFilesParams) (*protocol.WorkspaceEdit, error) {
	return nil, s.unsupported("workspace/willRenameFiles")
}

func (s *Server) DidRenameFiles(_ context.Context, _ *protocol.RenameFilesParams) error {
	return s.ignore("workspace/didRenameFiles")
}

func (s *Server) WillDeleteFiles(_ context.Context, _ *protocol.DeleteFilesParams) (*protocol.WorkspaceEdit, error) {
	return nil, s.unsupported("workspace/willDeleteFiles")
}

func (s *Server) DidDeleteFiles(_ context.Context, _ *protocol.DeleteFilesParams) error {
	return s.ignore("workspace/didDeleteFiles")
}

func (s *Server) CodeLensRefresh(_ context.Context) error {
	return s.unsupported("workspace/codeLens/refresh")
}

func (s *Server) PrepareCallHierarchy(_ context.Context, _ *protocol.CallHierarchyPrepareParams) ([]protocol.CallHierarchyItem, error) {
	return nil, s.unsupported("textDocument/prepareCallHierarchy")
}

func (s *Server) IncomingCalls(_ context.Context, _ *protocol.CallHierarchyIncomingCallsParams) ([]protocol.CallHierarchyIncomingCall, error) {
	return nil, s.unsupported("callHierarchy/incomingCalls")
}

func (s *Server) OutgoingCalls(_ context.Context, _ *protocol.CallHierarchyOutgoingCallsParams) ([]protocol.CallHierarchyOutgoingCall, error) {
	return nil, s.unsupported("callHierarchy/outgoingCalls")
}

func (s *Server) SemanticTokensFull(_ context.Context, _ *protocol.SemanticTokensParams) (*protocol.SemanticTokens, error) {
	return nil, s.unsupported("textDocument/semanticTokens/full")
}

func (s *Server) SemanticTokensFullDelta(_ context.Context, _ *protocol.SemanticTokensDeltaParams) (any, error) {
	return nil, s.unsupported("textDocument/semanticTokens/full/delta")
}

func (s *Server) SemanticTokensRange(_ context.Context, _ *protocol.SemanticTokensRangeParams) (*protocol.SemanticTokens, error) {
	return nil, s.unsupported("textDocument/semanticTokens/range")
}

func (s *Server) SemanticTokensRefresh(_ context.Context) error {
	return s.unsupported("workspace/semanticTokens/refresh")
}

func (s *Server) LinkedEditingRange(_ context.Context, _ *protocol.LinkedEditingRangeParams) (*protocol.LinkedEditingRanges, error) {
	return nil, s.unsupported("textDocument/linkedEditingRange")
}

func (s *Server) Moniker(_ context.Context, _ *protocol.MonikerParams) ([]protocol.Moniker, error) {
	return nil, s.unsupported("textDocument/moniker")
}
