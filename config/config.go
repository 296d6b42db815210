package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"
)

// FileName is the default config file looked up in the working directory.
const FileName = "farmq.toml"

type Config struct {
	DatabaseURL string `toml:"database_url"` // FARMQ_DATABASE_URL (optional, empty = files/samples)
	DataDir     string `toml:"data_dir"`     // FARMQ_DATA_DIR (optional)
	ViewsFile   string `toml:"views_file"`   // FARMQ_VIEWS_FILE (default "views.jsonc")
	PageSize    int    `toml:"page_size"`    // FARMQ_PAGE_SIZE (0 = per-dataset default)
	LogLevel    string `toml:"log_level"`    // FARMQ_LOG_LEVEL (default "warn")
	LogJSON     bool   `toml:"log_json"`     // FARMQ_LOG_JSON
}

func Default() Config {
	return Config{
		ViewsFile: "views.jsonc",
		LogLevel:  "warn",
	}
}

// Load builds the config from defaults, then the TOML file, then FARMQ_*
// environment variables. An explicit path must exist; the default file is optional.
func Load(path string) (*Config, error) {
	c := Default()

	explicit := path != ""
	if !explicit {
		path = FileName
	}
	meta, err := toml.DecodeFile(path, &c)
	switch {
	case err == nil:
		if undec := meta.Undecoded(); len(undec) > 0 {
			return nil, fmt.Errorf("%s: unknown key %q", path, undec[0].String())
		}
		if c.ViewsFile != "" && !filepath.IsAbs(c.ViewsFile) {
			c.ViewsFile = filepath.Join(filepath.Dir(path), c.ViewsFile)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("config %s: %w", path, err)
	}

	if err := c.applyEnv(); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("FARMQ_DATABASE_URL"); v != "" {
		c.DatabaseURL = v
	}
	if v := os.Getenv("FARMQ_DATA_DIR"); v != "" {
		c.DataDir = v
	}
	if v := os.Getenv("FARMQ_VIEWS_FILE"); v != "" {
		c.ViewsFile = v
	}
	if v := os.Getenv("FARMQ_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("FARMQ_PAGE_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("FARMQ_PAGE_SIZE: %w", err)
		}
		c.PageSize = n
	}
	if v := os.Getenv("FARMQ_LOG_JSON"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("FARMQ_LOG_JSON: %w", err)
		}
		c.LogJSON = b
	}
	return nil
}

func (c *Config) Validate() error {
	if c.PageSize < 0 {
		return fmt.Errorf("page_size must be non-negative, got %d", c.PageSize)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level %q: want debug, info, warn or error", c.LogLevel)
	}
	return nil
}

// DataFile returns the row file for a dataset inside DataDir, trying the
// supported extensions in order. It returns "" when nothing is found.
func (c *Config) DataFile(dataset string) string {
	if c.DataDir == "" {
		return ""
	}
	for _, ext := range []string{".json", ".yaml", ".yml", ".msgpack"} {
		p := filepath.Join(c.DataDir, dataset+ext)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}
