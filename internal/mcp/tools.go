package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/hpungsan/pintree/internal/nav"
	"github.com/hpungsan/pintree/internal/ops"
)

var browseToolDef = mcp.NewTool("bookmark_browse",
	mcp.WithDescription("Show the bookmark view for a category path without changing the shared navigation state. "+
		"Levels are selected by folder title; the first top-level category is used when primary is omitted. "+
		"A title that matches nothing stops descent and is reported in misses."),
	mcp.WithString("primary", mcp.Description("Top-level category title")),
	mcp.WithString("secondary", mcp.Description("Child category of primary")),
	mcp.WithString("tertiary", mcp.Description("Child category of secondary")),
	mcp.WithString("query", mcp.Description("Search query; when set the view lists matching links")),
	mcp.WithReadOnlyHintAnnotation(true),
)

var navigateToolDef = mcp.NewTool("bookmark_navigate",
	mcp.WithDescription("Apply one navigation action to the shared navigation state and return the resulting view. "+
		"A selection that matches no folder leaves the state unchanged and sets lookup_miss."),
	mcp.WithString("action",
		mcp.Required(),
		mcp.Enum(nav.KindSelectPrimary, nav.KindSelectSecondary, nav.KindSelectTertiary, nav.KindSearch, nav.KindGoHome),
		mcp.Description("Navigation action"),
	),
	mcp.WithString("title", mcp.Description("Folder title, required for select_* actions")),
	mcp.WithString("query", mcp.Description("Search query for the search action; empty clears the search")),
	mcp.WithDestructiveHintAnnotation(false),
)

var searchToolDef = mcp.NewTool("bookmark_search",
	mcp.WithDescription("Case-insensitive substring search over link titles, URLs and category paths."),
	mcp.WithString("query", mcp.Required(), mcp.Description("Text to search for")),
	mcp.WithNumber("limit", mcp.Min(1), mcp.Max(ops.MaxSearchLimit), mcp.Description("Page size (default 20, max 100)")),
	mcp.WithNumber("offset", mcp.Min(0), mcp.Description("Results to skip")),
	mcp.WithReadOnlyHintAnnotation(true),
)

var statsToolDef = mcp.NewTool("bookmark_stats",
	mcp.WithDescription("Folder and link counts, nesting depth and per-category totals of the loaded bookmarks."),
	mcp.WithReadOnlyHintAnnotation(true),
)

var treeToolDef = mcp.NewTool("bookmark_tree",
	mcp.WithDescription("The transformed bookmark hierarchy as JSON nodes or a markdown outline."),
	mcp.WithNumber("depth", mcp.Min(0), mcp.Description("Folder levels to include; 0 means all")),
	mcp.WithString("format", mcp.Enum(ops.TreeFormatJSON, ops.TreeFormatMarkdown), mcp.Description("Output format (default json)")),
	mcp.WithReadOnlyHintAnnotation(true),
)

var lintToolDef = mcp.NewTool("bookmark_lint",
	mcp.WithDescription("Entries of the source document that were dropped or repaired while loading."),
	mcp.WithReadOnlyHintAnnotation(true),
)

var reloadToolDef = mcp.NewTool("bookmark_reload",
	mcp.WithDescription("Reload the bookmark source and reset navigation to the first category."),
	mcp.WithDestructiveHintAnnotation(false),
	mcp.WithIdempotentHintAnnotation(true),
)

var exportToolDef = mcp.NewTool("bookmark_export",
	mcp.WithDescription("Write the transformed hierarchy to a file. The json format can be loaded back as a source. "+
		"Paths must sit directly in ~/.pintree/exports or a configured allowed path."),
	mcp.WithString("path", mcp.Description("Destination file; defaults to ~/.pintree/exports/<source>-<timestamp>.<ext>")),
	mcp.WithString("format",
		mcp.Enum(ops.FormatJSON, ops.FormatYAML, ops.FormatMarkdown, ops.FormatSQLite),
		mcp.Description("Export format; inferred from the path extension when omitted"),
	),
	mcp.WithDestructiveHintAnnotation(false),
)
