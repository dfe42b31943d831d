// Package cli implements the runmap command-line interface.
//
// # Commands
//
//   - generate: Generate a map from a config and a seed
//   - render: Export a stored map as DOT or SVG
//   - validate: Check a stored map's structure and edge crossings
//   - stats: Generate many seeds and summarize placements and misses
//   - walk: Step through a stored map interactively
//   - serve: Run the HTTP preview API
//   - config: Write or print generation configs
//   - cache: Manage the local map cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, which also
// prints every soft miss the generator records.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/runmap/pkg/buildinfo"
	"github.com/matzehuels/runmap/pkg/cache"
	rerrors "github.com/matzehuels/runmap/pkg/errors"
	"github.com/matzehuels/runmap/pkg/mapgen"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "runmap"

	// cacheNone disables caching for a command.
	cacheNone = "none"
)

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
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "runmap generates branching run maps",
		Long:         `runmap generates layered, non-crossing run maps of typed rooms (battles, elites, shops, rests, events) that converge on a single boss.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.generateCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.validateCommand())
	root.AddCommand(c.statsCommand())
	root.AddCommand(c.walkCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a generation runner backed by the cache at location.
func (c *CLI) newRunner(ctx context.Context, location string) (*mapgen.Runner, error) {
	store, err := openCache(ctx, location)
	if err != nil {
		return nil, err
	}
	return mapgen.NewRunner(store, nil, c.Logger), nil
}

// openCache opens a cache location. An empty location is the local file
// cache, falling back to no cache when the home directory is unknown.
func openCache(ctx context.Context, location string) (cache.Cache, error) {
	if location == "" {
		dir, err := cacheDir()
		if err != nil {
			return cache.NewNullCache(), nil
		}
		location = dir
	}
	return cache.Open(ctx, location)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/runmap/).
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

// =============================================================================
// Options Helpers
// =============================================================================

// loadConfig loads the config at path, or the defaults when path is empty.
func loadConfig(path string) (mapgen.Config, error) {
	if path == "" {
		return mapgen.DefaultConfig(), nil
	}
	return mapgen.LoadConfig(path)
}

// parseSeedFlag parses a --seed value. def is used when s is empty.
func parseSeedFlag(s string, def uint64) (uint64, error) {
	if s == "" {
		return def, nil
	}
	return rerrors.ParseSeed(s)
}
