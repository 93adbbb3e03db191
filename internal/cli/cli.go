// Package cli implements the spore command-line interface.
//
// This package provides commands for removing overlaps from diagrams,
// compacting them, reporting overlaps, rendering layouts, stepping through
// a run interactively, serving the HTTP API and managing the run history and
// result cache. The CLI is built using cobra and logs via the
// charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - layout: Remove overlaps (and compact) and write the layout
//   - compact: Shorthand for layout --algorithm compact
//   - check: Report overlapping node pairs without moving anything
//   - render: Draw a diagram or a layout as SVG, PNG, PDF, DOT or JSON
//   - inspect: Step through the checkpoints of a run in a TUI
//   - serve: Run the HTTP API
//   - runs: List and show recorded runs
//   - cache: Manage the result cache
//
// # Configuration
//
// Defaults come from spore.toml or spore.yaml in the working directory, or
// from the file named by --config. Flags override the file.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/spore/pkg/buildinfo"
	"github.com/matzehuels/spore/pkg/cache"
	"github.com/matzehuels/spore/pkg/config"
	"github.com/matzehuels/spore/pkg/pipeline"
	"github.com/matzehuels/spore/pkg/store"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "spore"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// ConfigPath is the --config flag; empty means discover.
	ConfigPath string
	// Config is loaded before any command runs.
	Config config.File
	// Verbose forces debug logging regardless of the configured level.
	Verbose bool

	configFile string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Spore removes overlaps from diagrams and compacts them",
		Long: `Spore is a CLI tool for tidying node diagrams: it pushes overlapping boxes
apart while keeping the drawing's structure, and pulls spread-out drawings
back together without creating new overlaps.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := c.loadConfig(); err != nil {
				return err
			}
			level := levelFor(c.Config.Log.Level)
			if c.Verbose {
				level = LogDebug
			}
			c.SetLogLevel(level)
			if c.configFile != "" {
				c.Logger.Debug("loaded config", "path", c.configFile)
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.ConfigPath, "config", "", "config file (default: ./spore.toml or ./spore.yaml)")
	root.PersistentFlags().BoolVarP(&c.Verbose, "verbose", "v", false, "enable verbose logging")

	// Register all subcommands
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.compactCommand())
	root.AddCommand(c.checkCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.runsCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	registerCompletions(root)
	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use. The store is only opened
// when runs are recorded.
func (c *CLI) newRunner(ctx context.Context, noCache, record bool) (*pipeline.Runner, error) {
	ch, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	runner := pipeline.NewRunner(ch, nil, c.Logger)
	if record {
		st, err := c.newStore(ctx)
		if err != nil {
			ch.Close()
			return nil, err
		}
		runner.Store = st
	}
	return runner, nil
}

// newCache opens the configured cache, falling back to the file cache in
// the user cache directory.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	opts := c.Config.Cache
	if opts.Backend == "" {
		opts.Backend = cache.BackendFile
	}
	if opts.Backend == cache.BackendFile && opts.Dir == "" {
		dir, err := cacheDir()
		if err != nil {
			return cache.NewNullCache(), nil
		}
		opts.Dir = dir
	}
	return cache.Open(ctx, opts)
}

// newStore opens the configured run store, falling back to the file store
// in the user config directory.
func (c *CLI) newStore(ctx context.Context) (store.Store, error) {
	opts := c.Config.Store
	if opts.Backend == "" {
		opts.Backend = store.BackendFile
	}
	if opts.Backend == store.BackendFile && opts.Dir == "" {
		dir, err := runsDir()
		if err != nil {
			return nil, err
		}
		opts.Dir = dir
	}
	return store.Open(ctx, opts)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/spore/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// runsDir returns the run history directory (~/.config/spore/runs/).
func runsDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "runs"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "runs"), nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
// An empty string yields nil so the configured formats apply.
func parseFormats(s string) []string {
	if s == "" {
		return nil
	}
	var formats []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			formats = append(formats, f)
		}
	}
	return formats
}

// basePath derives the base output path from the output and input file
// paths. Known output and input extensions are stripped.
func basePath(output, input string) string {
	p := output
	if p == "" {
		p = input
	}
	p = strings.TrimSuffix(p, ".layout.json")
	p = strings.TrimSuffix(p, ".gv.svg")
	ext := filepath.Ext(p)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] || pipeline.DetectInputFormat(p) != "" {
		p = strings.TrimSuffix(p, ext)
	}
	return p
}
