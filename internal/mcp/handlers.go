package mcp

import (
	"context"
	stderrors "errors"

	"github.com/goccy/go-json"
	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"

	"github.com/hpungsan/pintree/internal/config"
	"github.com/hpungsan/pintree/internal/errors"
	"github.com/hpungsan/pintree/internal/ops"
	"github.com/hpungsan/pintree/internal/session"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	sess   *session.Session
	cfg    *config.Config
	logger *zap.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(sess *session.Session, cfg *config.Config, logger *zap.Logger) *Handlers {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handlers{sess: sess, cfg: cfg, logger: logger}
}

// Request types for each tool

// BrowseRequest represents the arguments for browse.
type BrowseRequest struct {
	Primary   string `json:"primary,omitempty"`
	Secondary string `json:"secondary,omitempty"`
	Tertiary  string `json:"tertiary,omitempty"`
	Query     string `json:"query,omitempty"`
}

// NavigateRequest represents the arguments for navigate.
type NavigateRequest struct {
	Action string `json:"action"`
	Title  string `json:"title,omitempty"`
	Query  string `json:"query,omitempty"`
}

// SearchRequest represents the arguments for search.
type SearchRequest struct {
	Query  string `json:"query"`
	Limit  int    `json:"limit,omitempty"`
	Offset int    `json:"offset,omitempty"`
}

// TreeRequest represents the arguments for tree.
type TreeRequest struct {
	Depth  int    `json:"depth,omitempty"`
	Format string `json:"format,omitempty"`
}

// ExportRequest represents the arguments for export.
type ExportRequest struct {
	Path   string `json:"path,omitempty"`
	Format string `json:"format,omitempty"`
}

// Handler implementations

// HandleBrowse handles the browse tool call.
func (h *Handlers) HandleBrowse(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[BrowseRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Browse(ctx, h.sess, ops.BrowseInput{
		Primary:   input.Primary,
		Secondary: input.Secondary,
		Tertiary:  input.Tertiary,
		Query:     input.Query,
	})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleNavigate handles the navigate tool call.
func (h *Handlers) HandleNavigate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[NavigateRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Navigate(ctx, h.sess, ops.NavigateInput{
		Action: input.Action,
		Title:  input.Title,
		Query:  input.Query,
	})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleSearch handles the search tool call.
func (h *Handlers) HandleSearch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[SearchRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Search(ctx, h.sess, ops.SearchInput{
		Query:  input.Query,
		Limit:  input.Limit,
		Offset: input.Offset,
	})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleStats handles the stats tool call.
func (h *Handlers) HandleStats(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := ops.Stats(ctx, h.sess)
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleTree handles the tree tool call.
func (h *Handlers) HandleTree(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[TreeRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Tree(ctx, h.sess, ops.TreeInput{Depth: input.Depth, Format: input.Format})
	if err != nil {
		return errorResult(err), nil
	}
	if result.Markdown != "" {
		return mcp.NewToolResultText(result.Markdown), nil
	}
	return successResult(result)
}

// HandleLint handles the lint tool call.
func (h *Handlers) HandleLint(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := ops.Lint(ctx, h.sess)
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleReload handles the reload tool call.
func (h *Handlers) HandleReload(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := ops.Reload(ctx, h.sess)
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleExport handles the export tool call.
func (h *Handlers) HandleExport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ExportRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Export(ctx, h.sess, h.cfg, ops.ExportInput{
		Path:   input.Path,
		Format: input.Format,
	})
	if err != nil {
		h.logger.Warn("export failed", zap.String("path", input.Path), zap.Error(err))
		return errorResult(err), nil
	}
	return successResult(result)
}

// Result helpers

// errorResult creates an MCP error result from any error.
// Uses IsError: true so MCP clients recognize failures properly.
// Internal error details are not exposed.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	var pErr *errors.PintreeError
	if stderrors.As(err, &pErr) && pErr.Code != errors.ErrInternal {
		message := pErr.Message
		if err != error(pErr) {
			// Keep context added by wrapping.
			message = err.Error()
		}
		errorObj := map[string]any{
			"code":    pErr.Code,
			"message": message,
			"status":  pErr.Status,
		}
		if pErr.Details != nil {
			errorObj["details"] = pErr.Details
		}
		payload = map[string]any{"error": errorObj}
	} else {
		payload = map[string]any{
			"error": map[string]any{
				"code":    errors.ErrInternal,
				"message": "an internal error occurred",
				"status":  500,
			},
		}
	}

	content, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
