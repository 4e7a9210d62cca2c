// Package mcp exposes the bookmark operations as MCP tools over stdio.
package mcp

import (
	"maps"
	"slices"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/hpungsan/pintree/internal/config"
	"github.com/hpungsan/pintree/internal/session"
)

// KnownTypes lists the type names accepted in disabled_types.
var KnownTypes = []string{typeBookmark}

const typeBookmark = "bookmark"

// toolEntry pairs a tool definition with the type it belongs to and a
// handler factory.
type toolEntry struct {
	typ     string
	def     mcp.Tool
	handler func(*Handlers) server.ToolHandlerFunc
}

var toolRegistry = map[string]toolEntry{
	"bookmark_browse":   {typeBookmark, browseToolDef, func(h *Handlers) server.ToolHandlerFunc { return h.HandleBrowse }},
	"bookmark_navigate": {typeBookmark, navigateToolDef, func(h *Handlers) server.ToolHandlerFunc { return h.HandleNavigate }},
	"bookmark_search":   {typeBookmark, searchToolDef, func(h *Handlers) server.ToolHandlerFunc { return h.HandleSearch }},
	"bookmark_stats":    {typeBookmark, statsToolDef, func(h *Handlers) server.ToolHandlerFunc { return h.HandleStats }},
	"bookmark_tree":     {typeBookmark, treeToolDef, func(h *Handlers) server.ToolHandlerFunc { return h.HandleTree }},
	"bookmark_lint":     {typeBookmark, lintToolDef, func(h *Handlers) server.ToolHandlerFunc { return h.HandleLint }},
	"bookmark_reload":   {typeBookmark, reloadToolDef, func(h *Handlers) server.ToolHandlerFunc { return h.HandleReload }},
	"bookmark_export":   {typeBookmark, exportToolDef, func(h *Handlers) server.ToolHandlerFunc { return h.HandleExport }},
}

// AllToolNames returns every registered tool name, sorted.
func AllToolNames() []string {
	return slices.Sorted(maps.Keys(toolRegistry))
}

// ValidateDisabledTools returns the names that match no registered tool.
func ValidateDisabledTools(names []string) []string {
	return unknownNames(names, func(name string) bool {
		_, ok := toolRegistry[name]
		return ok
	})
}

// ValidateDisabledTypes returns the names that match no known type.
func ValidateDisabledTypes(names []string) []string {
	return unknownNames(names, func(name string) bool {
		return slices.Contains(KnownTypes, name)
	})
}

func unknownNames(names []string, known func(string) bool) []string {
	unknown := []string{}
	for _, name := range names {
		if !known(name) {
			unknown = append(unknown, name)
		}
	}
	return unknown
}

// GetTypeForTool returns the type a registered tool belongs to, or "".
func GetTypeForTool(toolName string) string {
	return toolRegistry[toolName].typ
}

// disabledTools is the set of tools excluded by name or by type.
func disabledTools(cfg *config.Config) map[string]bool {
	disabled := make(map[string]bool, len(cfg.DisabledTools))
	for _, name := range cfg.DisabledTools {
		disabled[name] = true
	}
	for name, entry := range toolRegistry {
		if slices.Contains(cfg.DisabledTypes, entry.typ) {
			disabled[name] = true
		}
	}
	return disabled
}

// NewServer creates an MCP server with every tool not disabled by
// cfg.DisabledTools or cfg.DisabledTypes.
func NewServer(sess *session.Session, cfg *config.Config, logger *zap.Logger, version string) *server.MCPServer {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := server.NewMCPServer(
		"pintree",
		version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
	)

	h := NewHandlers(sess, cfg, logger)
	disabled := disabledTools(cfg)
	for _, name := range AllToolNames() {
		if disabled[name] {
			logger.Debug("tool disabled", zap.String("tool", name))
			continue
		}
		entry := toolRegistry[name]
		s.AddTool(entry.def, entry.handler(h))
	}
	return s
}

// Run starts the MCP server using stdio transport.
func Run(sess *session.Session, cfg *config.Config, logger *zap.Logger, version string) error {
	s := NewServer(sess, cfg, logger, version)
	return server.ServeStdio(s)
}
