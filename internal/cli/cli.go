// Package cli implements the flowboard command-line interface.
//
// This package provides commands for laying out, arranging, rendering, and
// serving diagrams, and for managing the saved-diagram library. The CLI is
// built using cobra and supports verbose logging via the charmbracelet/log
// library.
//
// # Commands
//
// The main commands are:
//   - layout: Recompute node positions (hierarchical or force-directed)
//   - arrange: Align, distribute, snap, or center nodes
//   - render: Export DOT or render SVG/PNG via Graphviz
//   - serve: Run the HTTP diagram API
//   - diagrams: Manage the saved-diagram library
//
// All commands support --verbose (-v) for debug-level logging and --config
// for a non-default flowboard.toml location.
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/flowboard/pkg/buildinfo"
	"github.com/matzehuels/flowboard/pkg/config"
	"github.com/matzehuels/flowboard/pkg/layout"
	"github.com/matzehuels/flowboard/pkg/session"
	"github.com/matzehuels/flowboard/pkg/store"
)

// appName is the application name used for directories and display.
const appName = "flowboard"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger     *log.Logger
	ConfigPath string

	cfg *config.Config // loaded lazily on first use
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: log.NewWithOptions(w, log.Options{
			ReportTimestamp: true,
			TimeFormat:      "15:04:05.00",
			Level:           level,
		}),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:          appName,
		Short:        "Flowboard edits and lays out system-design diagrams",
		Long:         `Flowboard is the graph, history, and layout engine behind an interactive system-design diagram editor. The CLI operates on diagram JSON files and on the saved-diagram library.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				c.SetLogLevel(LogDebug)
			}
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.ConfigPath, "config", "", "path to flowboard.toml")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.arrangeCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.diagramsCommand())

	return root
}

// Config loads the TOML config once and caches it.
func (c *CLI) Config() (config.Config, error) {
	if c.cfg != nil {
		return *c.cfg, nil
	}
	cfg, err := config.Load(c.ConfigPath)
	if err != nil {
		return cfg, err
	}
	c.cfg = &cfg
	return cfg, nil
}

// sessionOptions maps the config into session construction options.
func sessionOptions(cfg config.Config) []session.Option {
	return []session.Option{
		session.WithHistoryLimit(cfg.History.Limit),
		session.WithLayoutOptions(layout.Options{
			RankSpacing:   cfg.Layout.RankSpacing,
			NodeSpacing:   cfg.Layout.NodeSpacing,
			MarginX:       cfg.Layout.MarginX,
			MarginY:       cfg.Layout.MarginY,
			DefaultWidth:  cfg.Layout.DefaultWidth,
			DefaultHeight: cfg.Layout.DefaultHeight,
		}),
		session.WithForceOptions(layout.ForceOptions{
			Iterations: cfg.Layout.ForceIterations,
			K:          cfg.Layout.ForceK,
			Repulsion:  cfg.Layout.ForceRepulsion,
			Attraction: cfg.Layout.ForceAttraction,
		}),
	}
}

// newStore builds the blob store the config selects.
func (c *CLI) newStore(ctx context.Context, cfg config.Config) (store.Store, error) {
	switch cfg.Storage.Backend {
	case "", "file":
		return store.NewFileStore(cfg.Storage.FileDir)
	case "memory":
		return store.NewMemoryStore(), nil
	case "redis":
		return store.NewRedisStore(ctx, store.RedisConfig{
			Addr:     cfg.Storage.RedisAddr,
			Password: cfg.Storage.RedisPassword,
			DB:       cfg.Storage.RedisDB,
		})
	case "mongo":
		return store.NewMongoStore(ctx, store.MongoConfig{
			URI:      cfg.Storage.MongoURI,
			Database: cfg.Storage.MongoDatabase,
		})
	}
	return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
}

// newLibrary opens the configured store and loads the saved collection.
func (c *CLI) newLibrary(ctx context.Context) (*session.Library, func(), error) {
	cfg, err := c.Config()
	if err != nil {
		return nil, nil, err
	}
	st, err := c.newStore(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	lib := session.NewLibrary(st, sessionOptions(cfg)...)
	if err := lib.Load(ctx); err != nil {
		_ = st.Close()
		return nil, nil, err
	}
	return lib, func() { _ = st.Close() }, nil
}

// exitErr prints err styled and returns it for cobra to propagate.
func exitErr(err error) error {
	printError("%s", err)
	return err
}
