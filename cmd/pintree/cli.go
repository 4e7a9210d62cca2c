package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/goccy/go-json"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/hpungsan/pintree/internal/errors"
	"github.com/hpungsan/pintree/internal/ops"
	"github.com/hpungsan/pintree/internal/session"
	"github.com/hpungsan/pintree/internal/tui"
	"github.com/hpungsan/pintree/internal/web"
)

// newCLIApp creates the CLI application with all commands.
// rt is nil when only help or version output is needed.
func newCLIApp(rt *runtime) *cli.App {
	app := &cli.App{
		Name:    "pintree",
		Usage:   "Browse a bookmark export as a three-level category tree",
		Version: Version,
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "verbose", Usage: "Log at debug level to stderr"},
		},
		Commands: []*cli.Command{
			browseCmd(rt),
			searchCmd(rt),
			statsCmd(rt),
			treeCmd(rt),
			lintCmd(rt),
			exportCmd(rt),
			serveCmd(rt),
			tuiCmd(rt),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// load performs the one load a CLI invocation needs.
func load(c *cli.Context, rt *runtime) error {
	if _, err := rt.sess.Load(c.Context); err != nil {
		return outputError(err)
	}
	return nil
}

// browseCmd creates the browse command.
func browseCmd(rt *runtime) *cli.Command {
	return &cli.Command{
		Name:  "browse",
		Usage: "Show the view at a category path",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "primary", Aliases: []string{"p"}, Usage: "Top-level category (defaults to the first)"},
			&cli.StringFlag{Name: "secondary", Aliases: []string{"s"}, Usage: "Second-level category"},
			&cli.StringFlag{Name: "tertiary", Aliases: []string{"t"}, Usage: "Third-level category"},
			&cli.StringFlag{Name: "query", Aliases: []string{"q"}, Usage: "Search query"},
		},
		Action: func(c *cli.Context) error {
			if err := load(c, rt); err != nil {
				return err
			}

			output, err := ops.Browse(c.Context, rt.sess, ops.BrowseInput{
				Primary:   c.String("primary"),
				Secondary: c.String("secondary"),
				Tertiary:  c.String("tertiary"),
				Query:     c.String("query"),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(c.App.Writer, output)
		},
	}
}

// searchCmd creates the search command.
func searchCmd(rt *runtime) *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Search every link by title, URL and category",
		ArgsUsage: "<query>",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Value: ops.DefaultSearchLimit, Usage: "Maximum results"},
			&cli.IntFlag{Name: "offset", Usage: "Results to skip"},
		},
		Action: func(c *cli.Context) error {
			query := strings.Join(c.Args().Slice(), " ")
			if strings.TrimSpace(query) == "" {
				return outputError(errors.NewInvalidRequest("query is required"))
			}
			if err := load(c, rt); err != nil {
				return err
			}

			output, err := ops.Search(c.Context, rt.sess, ops.SearchInput{
				Query:  query,
				Limit:  c.Int("limit"),
				Offset: c.Int("offset"),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(c.App.Writer, output)
		},
	}
}

// statsCmd creates the stats command.
func statsCmd(rt *runtime) *cli.Command {
	return &cli.Command{
		Name:  "stats",
		Usage: "Count folders and links per category",
		Action: func(c *cli.Context) error {
			if err := load(c, rt); err != nil {
				return err
			}

			output, err := ops.Stats(c.Context, rt.sess)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(c.App.Writer, output)
		},
	}
}

// treeCmd creates the tree command.
func treeCmd(rt *runtime) *cli.Command {
	return &cli.Command{
		Name:  "tree",
		Usage: "Print the transformed hierarchy",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "depth", Aliases: []string{"d"}, Usage: "Folder levels to include (0 = all)"},
			&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Value: ops.TreeFormatJSON, Usage: "Output format: json|markdown"},
		},
		Action: func(c *cli.Context) error {
			if err := load(c, rt); err != nil {
				return err
			}

			output, err := ops.Tree(c.Context, rt.sess, ops.TreeInput{
				Depth:  c.Int("depth"),
				Format: c.String("format"),
			})
			if err != nil {
				return outputError(err)
			}

			if c.String("format") == ops.TreeFormatMarkdown {
				_, err := io.WriteString(c.App.Writer, output.Markdown)
				return err
			}
			return outputJSON(c.App.Writer, output)
		},
	}
}

// lintCmd creates the lint command.
func lintCmd(rt *runtime) *cli.Command {
	return &cli.Command{
		Name:  "lint",
		Usage: "List entries dropped or degraded while decoding",
		Action: func(c *cli.Context) error {
			if err := load(c, rt); err != nil {
				return err
			}

			output, err := ops.Lint(c.Context, rt.sess)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(c.App.Writer, output)
		},
	}
}

// exportCmd creates the export command.
func exportCmd(rt *runtime) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Write the transformed hierarchy to a file",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "path", Aliases: []string{"o"}, Usage: "Output path (default: ~/.pintree/exports/)"},
			&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Usage: "json|yaml|markdown|sqlite (default: from extension)"},
		},
		Action: func(c *cli.Context) error {
			if err := load(c, rt); err != nil {
				return err
			}

			output, err := ops.Export(c.Context, rt.sess, rt.cfg, ops.ExportInput{
				Path:   c.String("path"),
				Format: c.String("format"),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(c.App.Writer, output)
		},
	}
}

// serveCmd creates the serve command.
func serveCmd(rt *runtime) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the web UI",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "bind", Value: "127.0.0.1", Usage: "Address to bind"},
			&cli.IntFlag{Name: "port", Value: 8080, Usage: "Port to listen on"},
		},
		Action: func(c *cli.Context) error {
			port := c.Int("port")
			if port <= 0 || port > 65535 {
				return outputError(errors.NewInvalidRequest(fmt.Sprintf("invalid port: %d", port)))
			}

			srv, err := web.NewServer(rt.sess, rt.logger, Version, c.String("bind"), port)
			if err != nil {
				return outputError(err)
			}

			ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
			defer stop()

			g, gctx := errgroup.WithContext(ctx)
			// Pages show the loading panel until this finishes.
			g.Go(func() error {
				if _, err := rt.sess.Load(gctx); err != nil {
					rt.logger.Error("initial load failed", zap.Error(err))
				}
				return nil
			})
			if err := rt.startWatcher(gctx, g); err != nil {
				rt.logger.Warn("watcher disabled", zap.Error(err))
			}
			g.Go(func() error { return web.Run(gctx, srv, rt.logger) })

			return g.Wait()
		},
	}
}

// tuiCmd creates the tui command.
func tuiCmd(rt *runtime) *cli.Command {
	return &cli.Command{
		Name:  "tui",
		Usage: "Browse bookmarks in the terminal",
		Action: func(c *cli.Context) error {
			return tui.Run(tui.AppParams{
				Reload: func(ctx context.Context) (*session.Snapshot, error) {
					return rt.sess.Load(ctx)
				},
			})
		},
	}
}

// Helper functions

// outputJSON writes v to w as indented JSON.
func outputJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	if pErr := errors.As(err); pErr != nil {
		return cli.Exit(fmt.Sprintf("[%s] %s", pErr.Code, pErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}
