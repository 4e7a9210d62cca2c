package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/hpungsan/pintree/internal/config"
	"github.com/hpungsan/pintree/internal/db"
	"github.com/hpungsan/pintree/internal/logging"
	"github.com/hpungsan/pintree/internal/mcp"
	"github.com/hpungsan/pintree/internal/session"
	"github.com/hpungsan/pintree/internal/source"
	"github.com/hpungsan/pintree/internal/watch"
)

// Version is set via -ldflags at build time.
var Version = "dev"

// cliCommands contains known CLI subcommands.
var cliCommands = map[string]bool{
	"browse": true, "search": true, "stats": true, "tree": true,
	"lint": true, "export": true, "serve": true, "tui": true,
	"help": true,
}

// commandArg returns the first argument that is not a flag.
func commandArg(args []string) string {
	for _, arg := range args[1:] {
		if !strings.HasPrefix(arg, "-") {
			return arg
		}
	}
	return ""
}

// isCLIMode determines if we should run CLI vs MCP server.
func isCLIMode() bool {
	if len(os.Args) < 2 {
		return false // No args → MCP server
	}
	if cliCommands[commandArg(os.Args)] {
		return true
	}
	arg := os.Args[1]
	return arg == "--help" || arg == "-h" || arg == "--version" || arg == "-v"
}

// isHelpOrVersion returns true if the user is requesting help or version info.
func isHelpOrVersion() bool {
	if len(os.Args) < 2 {
		return false
	}
	arg := os.Args[1]
	return arg == "--help" || arg == "-h" || arg == "--version" || arg == "-v" || arg == "help"
}

// hasVerboseFlag reports whether --verbose appears before the command.
// The logger is built before the CLI parses its flags.
func hasVerboseFlag(args []string) bool {
	for _, arg := range args[1:] {
		if arg == "--verbose" || arg == "--verbose=true" {
			return true
		}
		if !strings.HasPrefix(arg, "-") {
			return false
		}
	}
	return false
}

// isTerminal returns true if stdin is a terminal (not piped).
func isTerminal() bool {
	stat, _ := os.Stdin.Stat()
	return (stat.Mode() & os.ModeCharDevice) != 0
}

// printBanner displays a friendly banner when run interactively without args.
func printBanner() {
	fmt.Println(`
         _       _
   _ __ (_)_ __ | |_ _ __ ___  ___
  | '_ \| | '_ \| __| '__/ _ \/ _ \
  | |_) | | | | | |_| | |  __/  __/
  | .__/|_|_| |_|\__|_|  \___|\___|
  |_|

  Bookmark navigator

  Usage: pintree <command> [options]
         pintree --help

  MCP server mode requires piped input.`)
}

// runtime is what every command needs once configuration is loaded.
type runtime struct {
	cfg    *config.Config
	sess   *session.Session
	logger *zap.Logger
}

func newRuntime(cfg *config.Config, logger *zap.Logger) *runtime {
	sess := session.New(session.Options{
		Source:    cfg.Source,
		Timeout:   cfg.FetchTimeout(),
		Transform: cfg.TransformOptions(),
	}, logger)
	return &runtime{cfg: cfg, sess: sess, logger: logger}
}

// startWatcher reloads the session whenever a local source changes.
// It is a no-op unless watching is enabled and the source is a file.
func (rt *runtime) startWatcher(ctx context.Context, g *errgroup.Group) error {
	if !rt.cfg.Watch || source.IsRemote(rt.cfg.Source) {
		return nil
	}
	w, err := watch.New(source.LocalPath(rt.cfg.Source), func(ctx context.Context) {
		if _, err := rt.sess.Load(ctx); err != nil {
			rt.logger.Warn("reload after change failed", zap.Error(err))
		}
	}, watch.WithLogger(rt.logger))
	if err != nil {
		return err
	}
	g.Go(func() error { return w.Run(ctx) })
	return nil
}

func warnUnknownNames(cfg *config.Config, logger *zap.Logger) {
	for _, name := range mcp.ValidateDisabledTools(cfg.DisabledTools) {
		logger.Warn("unknown tool in disabled_tools", zap.String("tool", name))
	}
	for _, name := range mcp.ValidateDisabledTypes(cfg.DisabledTypes) {
		logger.Warn("unknown type in disabled_types", zap.String("type", name))
	}
}

// runMCP loads the source in the background and serves MCP over stdio.
// Tools answer NOT_READY until the first load completes.
func runMCP(rt *runtime) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if _, err := rt.sess.Load(gctx); err != nil {
			rt.logger.Error("initial load failed", zap.Error(err))
		}
		return nil
	})
	if err := rt.startWatcher(gctx, g); err != nil {
		rt.logger.Warn("watcher disabled", zap.Error(err))
	}

	err := mcp.Run(rt.sess, rt.cfg, rt.logger, Version)
	stop()
	if werr := g.Wait(); err == nil {
		err = werr
	}
	return err
}

func main() {
	// No args + interactive terminal → show banner and exit
	if len(os.Args) < 2 && isTerminal() {
		printBanner()
		return
	}

	// Handle --help/--version before config load
	if isHelpOrVersion() {
		app := newCLIApp(nil)
		if err := app.Run(os.Args); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: could not determine home directory: %v\n", err)
		os.Exit(1)
	}
	cwd, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: could not determine working directory: %v\n", err)
		os.Exit(1)
	}

	baseDir := filepath.Join(homeDir, ".pintree")
	if err := db.InitBaseDir(baseDir); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.LoadWithRepo(baseDir, cwd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to load config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "error: invalid config: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(hasVerboseFlag(os.Args))
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	rt := newRuntime(cfg, logger)

	// CLI mode: known subcommand
	if isCLIMode() {
		app := newCLIApp(rt)
		if err := app.Run(os.Args); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// Unknown argument + terminal → show error (don't start MCP server)
	if len(os.Args) >= 2 && isTerminal() {
		fmt.Fprintf(os.Stderr, "error: unknown command %q\n", os.Args[1])
		fmt.Fprintf(os.Stderr, "Run 'pintree --help' for usage.\n")
		os.Exit(1)
	}

	// MCP server mode (default)
	warnUnknownNames(cfg, logger)
	if err := runMCP(rt); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
