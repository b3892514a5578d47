package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/photostrip/internal/config"
	"github.com/matzehuels/photostrip/pkg/buildinfo"
	"github.com/matzehuels/photostrip/pkg/cache"
	"github.com/matzehuels/photostrip/pkg/gallery"
	"github.com/matzehuels/photostrip/pkg/imagesrc"
	"github.com/matzehuels/photostrip/pkg/pipeline"
	"github.com/matzehuels/photostrip/pkg/template"
	"github.com/matzehuels/photostrip/pkg/template/file"
	"github.com/matzehuels/photostrip/pkg/template/memory"
	"github.com/matzehuels/photostrip/pkg/template/mongo"
	"github.com/matzehuels/photostrip/pkg/template/redis"
	"github.com/matzehuels/photostrip/pkg/template/sqlite"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = config.AppName

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

	configPath string
	verbose    bool
	cfg        *config.Config
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
		Use:   appName,
		Short: "Photostrip composes photo-booth strips",
		Long: `Photostrip lays out photo-booth strips: slots for photos on a fixed-width
canvas, text and sticker overlays, a color, image or template background.

Templates can be stored locally or in SQLite, Redis or MongoDB, and strips
export to PNG, JPEG or a print-ready PDF.`,
		Version:           buildinfo.Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/photostrip/config.toml)")

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.editCommand())
	root.AddCommand(c.templateCommand())
	root.AddCommand(c.galleryCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup runs before every command: it applies --verbose, loads the config
// and attaches the logger to the command context.
func (c *CLI) setup(cmd *cobra.Command, _ []string) error {
	if c.verbose {
		c.SetLogLevel(LogDebug)
	}
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.cfg = cfg
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(withLogger(ctx, c.Logger))
	return nil
}

// config returns the loaded settings, or the defaults before setup ran.
func (c *CLI) config() *config.Config {
	if c.cfg == nil {
		c.cfg = config.Default()
	}
	return c.cfg
}

// =============================================================================
// Factories
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	cc, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cc, nil, c.Logger), nil
}

// newCache picks Redis when configured, else the file cache. Caching is
// best effort: an unusable cache directory falls back to no cache.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	cfg := c.config().Cache
	if cfg.Redis != "" {
		rc, err := cache.NewRedisCache(ctx, cfg.Redis, "", 0)
		if err != nil {
			return nil, fmt.Errorf("connect cache redis %s: %w", cfg.Redis, err)
		}
		return rc, nil
	}
	dir, err := c.cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		c.Logger.Warn("cache disabled", "dir", dir, "error", err)
		return cache.NewNullCache(), nil
	}
	return fc, nil
}

// newResolver resolves photo references: files below root, data URIs and
// remote URLs fetched through cc.
func (c *CLI) newResolver(root string, cc cache.Cache) imagesrc.Resolver {
	return imagesrc.NewMux(root, nil, imagesrc.NewHTTP(cc))
}

// newTemplateStore opens the configured template backend.
func (c *CLI) newTemplateStore(ctx context.Context) (template.Store, error) {
	cfg := c.config().Storage
	switch cfg.Backend {
	case config.BackendMemory:
		return memory.NewStore(), nil
	case config.BackendSQLite:
		dsn := cfg.SQLite
		if dsn == "" {
			dir, err := config.Dir()
			if err != nil {
				return nil, err
			}
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, err
			}
			dsn = filepath.Join(dir, "templates.db")
		}
		return sqlite.NewStore(ctx, dsn)
	case config.BackendRedis:
		return redis.NewStore(ctx, redis.Config{Addr: cfg.Redis, Password: cfg.Password})
	case config.BackendMongo:
		return mongo.NewStore(ctx, mongo.Config{URI: cfg.MongoURI, Database: cfg.MongoDB})
	default:
		return file.NewStore(cfg.Dir)
	}
}

// newGallery opens the configured archive: S3 when a bucket is set, else a
// directory.
func (c *CLI) newGallery(ctx context.Context) (gallery.Sink, error) {
	cfg := c.config().Gallery
	if cfg.S3Bucket != "" {
		return gallery.NewS3(ctx, cfg.S3Bucket, cfg.S3Prefix)
	}
	dir, err := c.galleryDir()
	if err != nil {
		return nil, err
	}
	return gallery.NewDir(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/photostrip/).
func (c *CLI) cacheDir() (string, error) {
	if dir := c.config().Cache.Dir; dir != "" {
		return dir, nil
	}
	return xdgDir("XDG_CACHE_HOME", ".cache")
}

// galleryDir returns the archive directory (~/.local/share/photostrip/gallery/).
func (c *CLI) galleryDir() (string, error) {
	if dir := c.config().Gallery.Dir; dir != "" {
		return dir, nil
	}
	base, err := xdgDir("XDG_DATA_HOME", filepath.Join(".local", "share"))
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "gallery"), nil
}

func xdgDir(env, fallback string) (string, error) {
	if base := os.Getenv(env); base != "" {
		return filepath.Join(base, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, fallback, appName), nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// exportDefaults fills zero export settings from the config.
func (c *CLI) exportDefaults(opts *pipeline.Options) {
	r := c.config().Render
	if opts.Quality == 0 {
		opts.Quality = r.Quality
	}
	if opts.Oversample == 0 {
		opts.Oversample = r.Oversample
	}
	if opts.Copies == 0 {
		opts.Copies = r.Copies
	}
	opts.SetDefaults()
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatPNG}
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = pipeline.NormalizeFormat(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}
