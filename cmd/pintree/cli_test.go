package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"github.com/hpungsan/pintree/internal/config"
	"github.com/hpungsan/pintree/internal/logging"
	"github.com/hpungsan/pintree/internal/nav"
	"github.com/hpungsan/pintree/internal/ops"
)

const testDoc = `[
	{"type": "folder", "title": "Bookmarks bar", "children": [
		{"type": "folder", "title": "Dev", "children": [
			{"type": "folder", "title": "Go", "children": [
				{"type": "folder", "title": "Tools", "children": [
					{"type": "link", "title": "pkg.go.dev", "url": "https://pkg.go.dev"}
				]},
				{"type": "link", "title": "The Go Blog", "url": "https://go.dev/blog"}
			]},
			{"type": "link", "title": "GitHub", "url": "https://github.com"}
		]},
		{"type": "folder", "title": "Reading", "children": []},
		{"type": "link", "title": "No URL"},
		{"type": "link", "title": "Stray", "url": "https://stray.test"}
	]}
]`

// setupTestRuntime writes testDoc to a temp dir and points the config at it.
func setupTestRuntime(t *testing.T) (*runtime, string) {
	t.Helper()
	dir := t.TempDir()
	src := filepath.Join(dir, "bookmarks.json")
	if err := os.WriteFile(src, []byte(testDoc), 0600); err != nil {
		t.Fatalf("failed to write source: %v", err)
	}
	cfg := config.DefaultConfig()
	cfg.Source = src
	cfg.AllowedPaths = []string{dir}
	return newRuntime(cfg, logging.Nop()), dir
}

// runCLI runs args against a fresh app and returns stdout.
func runCLI(t *testing.T, rt *runtime, args ...string) (string, error) {
	t.Helper()
	app := newCLIApp(rt)
	var buf bytes.Buffer
	app.Writer = &buf
	err := app.Run(append([]string{"pintree"}, args...))
	return buf.String(), err
}

func TestCLIBrowse(t *testing.T) {
	rt, _ := setupTestRuntime(t)

	t.Run("default view", func(t *testing.T) {
		out, err := runCLI(t, rt, "browse")
		if err != nil {
			t.Fatalf("browse failed: %v", err)
		}
		var output ops.BrowseOutput
		if err := json.Unmarshal([]byte(out), &output); err != nil {
			t.Fatalf("failed to parse output: %v\nOutput: %s", err, out)
		}
		if output.Phase != nav.PhasePrimary {
			t.Errorf("phase = %s, want %s", output.Phase, nav.PhasePrimary)
		}
		if strings.Join(output.Breadcrumbs, "/") != "Dev" {
			t.Errorf("breadcrumbs = %v, want [Dev]", output.Breadcrumbs)
		}
		if len(output.Links) != 1 || output.Links[0].Title != "GitHub" {
			t.Errorf("links = %+v, want [GitHub]", output.Links)
		}
	})

	t.Run("category path", func(t *testing.T) {
		out, err := runCLI(t, rt, "browse", "-p", "Dev", "-s", "Go")
		if err != nil {
			t.Fatalf("browse failed: %v", err)
		}
		var output ops.BrowseOutput
		if err := json.Unmarshal([]byte(out), &output); err != nil {
			t.Fatalf("failed to parse output: %v", err)
		}
		if output.Phase != nav.PhaseSecondary {
			t.Errorf("phase = %s, want %s", output.Phase, nav.PhaseSecondary)
		}
		if len(output.Folders) != 1 || output.Folders[0].Title != "Tools" {
			t.Errorf("folders = %+v, want [Tools]", output.Folders)
		}
	})

	t.Run("miss is reported", func(t *testing.T) {
		out, err := runCLI(t, rt, "browse", "--primary", "Nope")
		if err != nil {
			t.Fatalf("browse failed: %v", err)
		}
		var output ops.BrowseOutput
		if err := json.Unmarshal([]byte(out), &output); err != nil {
			t.Fatalf("failed to parse output: %v", err)
		}
		if len(output.Misses) != 1 || output.Misses[0].Title != "Nope" {
			t.Errorf("misses = %+v, want one miss for Nope", output.Misses)
		}
	})
}

func TestCLISearch(t *testing.T) {
	rt, _ := setupTestRuntime(t)

	out, err := runCLI(t, rt, "search", "--limit", "2", "https")
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	var output ops.SearchOutput
	if err := json.Unmarshal([]byte(out), &output); err != nil {
		t.Fatalf("failed to parse output: %v", err)
	}
	if len(output.Items) != 2 {
		t.Errorf("items = %d, want 2", len(output.Items))
	}
	if output.Pagination.Total != 4 || !output.Pagination.HasMore {
		t.Errorf("pagination = %+v, want total 4 with more", output.Pagination)
	}

	t.Run("multi-word query", func(t *testing.T) {
		out, err := runCLI(t, rt, "search", "go", "blog")
		if err != nil {
			t.Fatalf("search failed: %v", err)
		}
		var output ops.SearchOutput
		if err := json.Unmarshal([]byte(out), &output); err != nil {
			t.Fatalf("failed to parse output: %v", err)
		}
		if len(output.Items) != 1 || output.Items[0].Title != "The Go Blog" {
			t.Errorf("items = %+v, want [The Go Blog]", output.Items)
		}
	})

	t.Run("query required", func(t *testing.T) {
		if _, err := runCLI(t, rt, "search"); err == nil {
			t.Error("expected error, got nil")
		}
	})
}

func TestCLIStatsAndLint(t *testing.T) {
	rt, _ := setupTestRuntime(t)

	out, err := runCLI(t, rt, "stats")
	if err != nil {
		t.Fatalf("stats failed: %v", err)
	}
	var stats ops.StatsOutput
	if err := json.Unmarshal([]byte(out), &stats); err != nil {
		t.Fatalf("failed to parse output: %v", err)
	}
	if stats.Links != 4 {
		t.Errorf("links = %d, want 4", stats.Links)
	}
	if stats.Issues != 1 {
		t.Errorf("issues = %d, want 1", stats.Issues)
	}

	out, err = runCLI(t, rt, "lint")
	if err != nil {
		t.Fatalf("lint failed: %v", err)
	}
	var lint ops.LintOutput
	if err := json.Unmarshal([]byte(out), &lint); err != nil {
		t.Fatalf("failed to parse output: %v", err)
	}
	if lint.Count != 1 || lint.Dropped != 1 {
		t.Errorf("lint count=%d dropped=%d, want 1 and 1", lint.Count, lint.Dropped)
	}
}

func TestCLITree(t *testing.T) {
	rt, _ := setupTestRuntime(t)

	t.Run("markdown", func(t *testing.T) {
		out, err := runCLI(t, rt, "tree", "--format", "markdown", "--depth", "1")
		if err != nil {
			t.Fatalf("tree failed: %v", err)
		}
		if !strings.Contains(out, "## Dev") {
			t.Errorf("expected Dev heading, got:\n%s", out)
		}
		if strings.Contains(out, "### Go") {
			t.Errorf("depth 1 should not include Go, got:\n%s", out)
		}
	})

	t.Run("json", func(t *testing.T) {
		out, err := runCLI(t, rt, "tree")
		if err != nil {
			t.Fatalf("tree failed: %v", err)
		}
		var output ops.TreeOutput
		if err := json.Unmarshal([]byte(out), &output); err != nil {
			t.Fatalf("failed to parse output: %v", err)
		}
		if len(output.Nodes) == 0 || output.Nodes[0].Title != "Dev" {
			t.Errorf("nodes = %+v, want Dev first", output.Nodes)
		}
	})

	t.Run("unknown format", func(t *testing.T) {
		if _, err := runCLI(t, rt, "tree", "--format", "xml"); err == nil {
			t.Error("expected error, got nil")
		}
	})
}

func TestCLIExport(t *testing.T) {
	rt, dir := setupTestRuntime(t)
	path := filepath.Join(dir, "out.md")

	out, err := runCLI(t, rt, "export", "-o", path)
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}
	var output ops.ExportOutput
	if err := json.Unmarshal([]byte(out), &output); err != nil {
		t.Fatalf("failed to parse output: %v", err)
	}
	if output.Format != ops.FormatMarkdown {
		t.Errorf("format = %s, want %s", output.Format, ops.FormatMarkdown)
	}
	if output.Links != 4 {
		t.Errorf("links = %d, want 4", output.Links)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read export: %v", err)
	}
	if !strings.Contains(string(data), "GitHub") {
		t.Errorf("export missing GitHub:\n%s", data)
	}

	t.Run("outside allowed dirs", func(t *testing.T) {
		if _, err := runCLI(t, rt, "export", "-o", filepath.Join(t.TempDir(), "x.json")); err == nil {
			t.Error("expected error, got nil")
		}
	})
}

// TestCLIErrorHandling tests error handling in CLI commands.
func TestCLIErrorHandling(t *testing.T) {
	rt, dir := setupTestRuntime(t)
	rt.cfg.Source = filepath.Join(dir, "missing.json")
	rt = newRuntime(rt.cfg, logging.Nop())

	for _, cmd := range []string{"browse", "stats", "lint", "tree"} {
		t.Run(cmd+" with missing source returns error", func(t *testing.T) {
			if _, err := runCLI(t, rt, cmd); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}

	t.Run("invalid port", func(t *testing.T) {
		if _, err := runCLI(t, rt, "serve", "--port", "70000"); err == nil {
			t.Error("expected error, got nil")
		}
	})
}

func TestCLIHelpWithoutRuntime(t *testing.T) {
	out, err := runCLI(t, nil, "--help")
	if err != nil {
		t.Fatalf("help failed: %v", err)
	}
	for _, name := range []string{"browse", "search", "export", "serve", "tui"} {
		if !strings.Contains(out, name) {
			t.Errorf("help output missing %q", name)
		}
	}
}

// TestIsCLIMode tests the isCLIMode function.
func TestIsCLIMode(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected bool
	}{
		{"no args", []string{"pintree"}, false},
		{"browse command", []string{"pintree", "browse"}, true},
		{"serve command", []string{"pintree", "serve", "--port", "9000"}, true},
		{"verbose before command", []string{"pintree", "--verbose", "search", "go"}, true},
		{"help flag", []string{"pintree", "--help"}, true},
		{"version flag", []string{"pintree", "--version"}, true},
		{"short help flag", []string{"pintree", "-h"}, true},
		{"short version flag", []string{"pintree", "-v"}, true},
		{"verbose alone defaults to MCP", []string{"pintree", "--verbose"}, false},
		{"unknown arg defaults to MCP", []string{"pintree", "--unknown"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			oldArgs := os.Args
			defer func() { os.Args = oldArgs }()

			os.Args = tt.args
			if got := isCLIMode(); got != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
		})
	}
}

// TestIsHelpOrVersion tests the isHelpOrVersion function.
func TestIsHelpOrVersion(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected bool
	}{
		{"no args", []string{"pintree"}, false},
		{"help command", []string{"pintree", "help"}, true},
		{"help flag", []string{"pintree", "--help"}, true},
		{"version flag", []string{"pintree", "-v"}, true},
		{"browse command", []string{"pintree", "browse"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			oldArgs := os.Args
			defer func() { os.Args = oldArgs }()

			os.Args = tt.args
			if got := isHelpOrVersion(); got != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestHasVerboseFlag(t *testing.T) {
	tests := []struct {
		args     []string
		expected bool
	}{
		{[]string{"pintree"}, false},
		{[]string{"pintree", "--verbose"}, true},
		{[]string{"pintree", "--verbose", "serve"}, true},
		{[]string{"pintree", "serve", "--verbose"}, false},
		{[]string{"pintree", "search", "--verbose"}, false},
	}
	for _, tt := range tests {
		if got := hasVerboseFlag(tt.args); got != tt.expected {
			t.Errorf("hasVerboseFlag(%v) = %v, want %v", tt.args, got, tt.expected)
		}
	}
}

func TestStartWatcherSkipsRemoteSource(t *testing.T) {
	rt, _ := setupTestRuntime(t)
	rt.cfg.Watch = true
	rt.cfg.Source = "https://example.com/bookmarks.json"

	if err := rt.startWatcher(t.Context(), nil); err != nil {
		t.Fatalf("startWatcher: %v", err)
	}
}
