// Package cli implements the packdex command-line interface.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/packdex/packdex/pkg/buildinfo"
	"github.com/packdex/packdex/pkg/cache"
	"github.com/packdex/packdex/pkg/catalog"
	"github.com/packdex/packdex/pkg/config"
	"github.com/packdex/packdex/pkg/integrations"
	"github.com/packdex/packdex/pkg/integrations/github"
	"github.com/packdex/packdex/pkg/storage/memory"
	mongostore "github.com/packdex/packdex/pkg/storage/mongo"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "packdex"

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
	Logger     *log.Logger
	configPath string
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
		Use:          "packdex",
		Short:        "Packdex turns Maven artifacts into a project catalog",
		Long:         `Packdex converts Maven POM descriptors into a deduplicated catalog of projects, releases, and dependency edges, grouped by source repository.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default "+config.DefaultPath()+")")

	// Register all subcommands
	root.AddCommand(c.indexCommand())
	root.AddCommand(c.publishCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

func (c *CLI) loadConfig() (*config.Config, error) {
	return config.Load(c.configPath)
}

// =============================================================================
// Store Factory
// =============================================================================

// store bundles the storage contracts the pipelines and commands consume.
type store interface {
	catalog.PriorState
	catalog.ProjectReader
	catalog.Sink
	SaveBatch(ctx context.Context, result *catalog.BatchResult) error
	Close(ctx context.Context) error
}

// openStore connects to MongoDB when a URI is configured and falls back to
// the in-memory store otherwise.
func (c *CLI) openStore(ctx context.Context, cfg *config.Config) (store, error) {
	if cfg.Storage.URI == "" {
		c.Logger.Debug("no storage uri configured, using in-memory store")
		return memory.NewStore(), nil
	}
	return mongostore.Connect(ctx, cfg.Storage.URI, cfg.Storage.Database)
}

// =============================================================================
// Cache & Metadata Factories
// =============================================================================

// newByteCache selects the cache backend: Redis when configured, the file
// cache otherwise, and the null cache when caching is disabled.
func (c *CLI) newByteCache(ctx context.Context, cfg *config.Config, noCache bool) cache.Cache {
	if noCache {
		return cache.NewNullCache()
	}
	if cfg.Redis.Addr != "" {
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err == nil {
			return rc
		}
		c.Logger.Warn("redis unavailable, falling back to file cache", "err", err)
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache()
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return cache.NewNullCache()
	}
	return fc
}

// newMetadataReader creates the GitHub metadata client backed by bc.
func (c *CLI) newMetadataReader(cfg *config.Config, bc cache.Cache) catalog.RepoMetadataReader {
	var vc integrations.ValueCache = cache.NewJSONCache(bc, cache.TTLMetadata)
	return github.NewClient(cfg.Github.Token, vc)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/packdex/).
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
