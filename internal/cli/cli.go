// Package cli implements the cobuy command-line interface.
//
// Every analysis command takes the path of a co-purchase document as its
// first argument, loads it through a [pipeline.Runner] and prints either
// styled text or, with --json, machine-readable output:
//
//	cobuy analyze products.json
//	cobuy node products.json B00X4WHP5E
//	cobuy tree products.json B00X4WHP5E --depth 4 --json
//	cobuy top products.json --by pagerank -n 20
//	cobuy explore products.json
//	cobuy serve --addr :8080
//
// Settings come from $XDG_CONFIG_HOME/cobuy/config.toml (see "cobuy config
// init"); flags override them. Derived metrics are cached under
// $XDG_CACHE_HOME/cobuy unless --no-cache is given.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/cobuy/pkg/buildinfo"
	"github.com/matzehuels/cobuy/pkg/cache"
	"github.com/matzehuels/cobuy/pkg/observability"
	"github.com/matzehuels/cobuy/pkg/pipeline"
)

// appName is used for config and cache directories.
const appName = "cobuy"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configFile string
	cfg        *Config
	noCache    bool
}

// New creates a CLI logging to w at level.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		cfg:    DefaultConfig(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Analyze product co-purchase graphs",
		Long:         `cobuy loads a "frequently bought together" graph and reports connectivity metrics, bounded-depth relationship trees and related products, from the terminal or over an HTTP API.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			if c.Logger.GetLevel() <= log.DebugLevel {
				hooks := observability.NewLogHooks(c.Logger)
				observability.SetAnalysisHooks(hooks)
				observability.SetCacheHooks(hooks)
			}
			return c.loadConfig()
		},
	}
	root.SetVersionTemplate(buildinfo.Template())

	defaultConfig, err := configPath()
	if err != nil {
		defaultConfig = "config.toml"
	}
	root.PersistentFlags().StringVar(&c.configFile, "config", defaultConfig, "configuration file")
	root.PersistentFlags().BoolVar(&c.noCache, "no-cache", false, "disable the result cache")

	root.AddCommand(c.analyzeCommand())
	root.AddCommand(c.nodeCommand())
	root.AddCommand(c.treeCommand())
	root.AddCommand(c.relatedCommand())
	root.AddCommand(c.searchCommand())
	root.AddCommand(c.topCommand())
	root.AddCommand(c.exploreCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

func (c *CLI) loadConfig() error {
	cfg, err := loadConfig(c.configFile)
	if err != nil {
		return err
	}
	c.cfg = cfg
	c.Logger.Debug("configuration loaded", "path", c.configFile, "cache", cfg.Cache.Backend)
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner backed by the configured cache.
// The caller must Close it.
func (c *CLI) newRunner(ctx context.Context) *pipeline.Runner {
	return pipeline.NewRunner(c.newCache(ctx), nil, c.Logger)
}

// newCache opens the configured backend. The cache is advisory, so a
// backend that cannot be opened degrades to no caching with a warning.
func (c *CLI) newCache(ctx context.Context) cache.Cache {
	backend := c.cfg.Cache.Backend
	if c.noCache {
		backend = backendNone
	}

	switch backend {
	case backendFile:
		dir := c.cfg.Cache.Dir
		if dir == "" {
			var err error
			if dir, err = cacheDir(); err != nil {
				c.Logger.Warn("no cache directory, caching disabled", "error", err)
				return cache.NewNullCache()
			}
		}
		fc, err := cache.NewFileCache(dir)
		if err != nil {
			c.Logger.Warn("file cache unavailable, caching disabled", "dir", dir, "error", err)
			return cache.NewNullCache()
		}
		return fc
	case backendRedis:
		rc, err := cache.NewRedisCache(ctx, cache.RedisOptions{
			Addr:     c.cfg.Redis.Addr,
			Password: c.cfg.Redis.Password,
			DB:       c.cfg.Redis.DB,
			Prefix:   c.cfg.Redis.Prefix,
		})
		if err != nil {
			c.Logger.Warn("redis unavailable, caching disabled", "addr", c.cfg.Redis.Addr, "error", err)
			return cache.NewNullCache()
		}
		return rc
	default:
		return cache.NewNullCache()
	}
}

// options returns pipeline options from the configuration.
func (c *CLI) options() pipeline.Options {
	return pipeline.Options{MaxDepth: c.cfg.Analysis.MaxDepth, Logger: c.Logger}
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/cobuy/).
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
