// Package config loads photostrip settings.
//
// Settings are layered, later sources winning:
//
//  1. built-in defaults ([Default])
//  2. the TOML file at $XDG_CONFIG_HOME/photostrip/config.toml
//  3. a .env file in the working directory
//  4. PHOTOSTRIP_* environment variables
//
// Command-line flags are applied on top by the CLI.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/matzehuels/photostrip/pkg/render"
	"github.com/matzehuels/photostrip/pkg/render/sink"
)

// AppName names the config and cache directories.
const AppName = "photostrip"

// EnvPrefix prefixes every environment override.
const EnvPrefix = "PHOTOSTRIP_"

// Storage backends.
const (
	BackendFile   = "file"
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
)

// Backends lists the accepted storage backends.
var Backends = []string{BackendFile, BackendMemory, BackendSQLite, BackendRedis, BackendMongo}

// Config is the full settings tree.
type Config struct {
	Storage Storage `toml:"storage"`
	Render  Render  `toml:"render"`
	Gallery Gallery `toml:"gallery"`
	Server  Server  `toml:"server"`
	Cache   Cache   `toml:"cache"`
}

// Storage selects and configures the template store.
type Storage struct {
	Backend  string `toml:"backend"`
	Dir      string `toml:"dir"`
	SQLite   string `toml:"sqlite_dsn"`
	Redis    string `toml:"redis_addr"`
	Password string `toml:"redis_password"`
	MongoURI string `toml:"mongo_uri"`
	MongoDB  string `toml:"mongo_db"`
}

// Render holds export defaults.
type Render struct {
	Oversample float64 `toml:"oversample"`
	Quality    int     `toml:"quality"`
	Copies     int     `toml:"copies"`
	Root       string  `toml:"root"`
}

// Gallery selects where archived exports go. A non-empty bucket wins over Dir.
type Gallery struct {
	Dir      string `toml:"dir"`
	S3Bucket string `toml:"s3_bucket"`
	S3Prefix string `toml:"s3_prefix"`
}

// Server configures the HTTP API.
type Server struct {
	Addr        string   `toml:"addr"`
	CORSOrigins []string `toml:"cors_origins"`
}

// Cache configures the artifact and image cache. An empty Redis address
// selects the file cache.
type Cache struct {
	Dir   string `toml:"dir"`
	Redis string `toml:"redis_addr"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Storage: Storage{Backend: BackendFile, MongoDB: AppName},
		Render:  Render{Oversample: 3, Quality: 92, Copies: 3, Root: "."},
		Server:  Server{Addr: ":8080", CORSOrigins: []string{"*"}},
	}
}

// Dir returns the config directory, honouring XDG_CONFIG_HOME.
func Dir() (string, error) {
	if base := os.Getenv("XDG_CONFIG_HOME"); base != "" {
		return filepath.Join(base, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", AppName), nil
}

// Path returns the default config file location.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load reads settings from path, or from [Path] when path is empty. A
// missing file is not an error; a malformed one is.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := Path()
		if err != nil {
			return nil, err
		}
		path = p
	}

	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		if !errors.Is(err, fs.ErrNotExist) || explicit {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	// a missing .env is normal
	_ = godotenv.Load()

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that would otherwise fail late.
func (c *Config) Validate() error {
	c.Storage.Backend = strings.ToLower(strings.TrimSpace(c.Storage.Backend))
	valid := false
	for _, b := range Backends {
		if c.Storage.Backend == b {
			valid = true
		}
	}
	if !valid {
		return fmt.Errorf("storage.backend: unknown backend %q (want one of %s)",
			c.Storage.Backend, strings.Join(Backends, ", "))
	}
	if !(c.Render.Oversample > 0) || c.Render.Oversample > render.MaxOversample {
		return fmt.Errorf("render.oversample must be in (0, %d], got %v", render.MaxOversample, c.Render.Oversample)
	}
	if c.Render.Quality < 1 || c.Render.Quality > 100 {
		return fmt.Errorf("render.quality must be in 1..100, got %d", c.Render.Quality)
	}
	if c.Render.Copies < 1 || c.Render.Copies > sink.MaxCopies {
		return fmt.Errorf("render.copies must be in 1..%d, got %d", sink.MaxCopies, c.Render.Copies)
	}
	return nil
}

// Encode writes c as TOML.
func (c *Config) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

type lookupFunc func(string) (string, bool)

func (c *Config) applyEnv(lookup lookupFunc) error {
	strs := map[string]*string{
		"STORAGE_BACKEND":  &c.Storage.Backend,
		"STORAGE_DIR":      &c.Storage.Dir,
		"SQLITE_DSN":       &c.Storage.SQLite,
		"REDIS_ADDR":       &c.Storage.Redis,
		"REDIS_PASSWORD":   &c.Storage.Password,
		"MONGO_URI":        &c.Storage.MongoURI,
		"MONGO_DB":         &c.Storage.MongoDB,
		"RENDER_ROOT":      &c.Render.Root,
		"GALLERY_DIR":      &c.Gallery.Dir,
		"S3_BUCKET":        &c.Gallery.S3Bucket,
		"S3_PREFIX":        &c.Gallery.S3Prefix,
		"SERVER_ADDR":      &c.Server.Addr,
		"CACHE_DIR":        &c.Cache.Dir,
		"CACHE_REDIS_ADDR": &c.Cache.Redis,
	}
	for name, dst := range strs {
		if v, ok := lookup(EnvPrefix + name); ok {
			*dst = v
		}
	}

	if v, ok := lookup(EnvPrefix + "OVERSAMPLE"); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%sOVERSAMPLE: %w", EnvPrefix, err)
		}
		c.Render.Oversample = f
	}
	ints := map[string]*int{
		"QUALITY": &c.Render.Quality,
		"COPIES":  &c.Render.Copies,
	}
	for name, dst := range ints {
		if v, ok := lookup(EnvPrefix + name); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("%s%s: %w", EnvPrefix, name, err)
			}
			*dst = n
		}
	}
	if v, ok := lookup(EnvPrefix + "CORS_ORIGINS"); ok {
		c.Server.CORSOrigins = splitList(v)
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
