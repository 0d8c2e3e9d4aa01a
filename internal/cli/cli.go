package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/floatpos/pkg/buildinfo"
	"github.com/matzehuels/floatpos/pkg/cache"
	"github.com/matzehuels/floatpos/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "floatpos"

	// redisEnv names the environment variable holding a Redis address.
	redisEnv = "FLOATPOS_REDIS"
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

// New creates a new CLI instance logging to w.
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
		Use:   appName,
		Short: "floatpos positions floating elements next to their anchors",
		Long: `floatpos computes where tooltips, popovers and dropdowns go.

A scene file lists named boxes and the positioning jobs to run against them.
Each job places a floating element next to a reference element and runs a
middleware chain (offset, flip, shift, size, arrow, ...) to keep it visible.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.computeCommand())
	root.AddCommand(c.previewCommand())
	root.AddCommand(c.playCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// cacheFlags selects the result cache backend.
type cacheFlags struct {
	noCache bool
	redis   string
}

func (f *cacheFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
	cmd.Flags().StringVar(&f.redis, "redis", os.Getenv(redisEnv), "Redis address for the result cache (env "+redisEnv+")")
}

// Key scopes keep CLI and API results apart in a shared Redis.
const (
	scopeCLI = "cli:"
	scopeAPI = "api:"
)

// newRunner creates a pipeline runner whose cache keys carry scope.
func (c *CLI) newRunner(ctx context.Context, flags cacheFlags, scope string) (*pipeline.Runner, error) {
	backend, err := c.newCache(ctx, flags)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(backend, cache.NewScopedKeyer(nil, scope), c.Logger), nil
}

// newCache opens the Redis cache when an address is given and the file
// cache otherwise. A missing home directory disables caching.
func (c *CLI) newCache(ctx context.Context, flags cacheFlags) (cache.Cache, error) {
	if flags.noCache {
		return cache.NewNullCache(), nil
	}
	if flags.redis != "" {
		c.Logger.Debug("using redis cache", "addr", flags.redis)
		return cache.NewRedisCache(ctx, cache.RedisConfig{Addr: flags.redis})
	}
	dir, err := cacheDir()
	if err != nil {
		c.Logger.Warn("caching disabled", "err", err)
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/floatpos/).
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
