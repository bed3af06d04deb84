package common

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/sig-0/exilian/cmd/env"
	"github.com/sig-0/exilian/config"
)

// Cfg wraps the flags shared by every command that loads snapshots.
// Flags that are set override the configuration file
type Cfg struct {
	ConfigPath string
	LogLevel   string

	cacheBackend     string
	cacheDir         string
	cacheDSN         string
	thresholdMinutes int
	baseURL          string
	timeoutSec       int
}

func (c *Cfg) RegisterFlags(fs *flag.FlagSet) {
	defaults := config.DefaultConfig()

	fs.StringVar(
		&c.ConfigPath,
		"config",
		"",
		"the path to the exilian TOML configuration, if any",
	)

	fs.StringVar(
		&c.LogLevel,
		"log-level",
		"info",
		"the log level (debug, info, warn, error)",
	)

	fs.StringVar(
		&c.cacheBackend,
		"cache-backend",
		defaults.Cache.Backend,
		"the snapshot cache backend (file, memory, sqlite, postgres)",
	)

	fs.StringVar(
		&c.cacheDir,
		"cache-dir",
		defaults.Cache.Dir,
		"the base directory of the file cache",
	)

	fs.StringVar(
		&c.cacheDSN,
		"cache-dsn",
		"",
		"the DSN of the sqlite / postgres cache",
	)

	fs.IntVar(
		&c.thresholdMinutes,
		"threshold",
		defaults.Cache.ThresholdMinutes,
		"the cache freshness threshold, in minutes",
	)

	fs.StringVar(
		&c.baseURL,
		"base-url",
		defaults.Remote.BaseURL,
		"the poe.ninja data API base URL",
	)

	fs.IntVar(
		&c.timeoutSec,
		"timeout",
		defaults.Remote.TimeoutSec,
		"the remote request timeout, in seconds",
	)
}

// Config reads the configuration file (if any),
// applies the flags set on fs and validates the result
func (c *Cfg) Config(fs *flag.FlagSet) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if c.ConfigPath != "" {
		fileCfg, err := config.Read(c.ConfigPath)
		if err != nil {
			return nil, fmt.Errorf("unable to read config, %w", err)
		}

		cfg = fileCfg
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "cache-backend":
			cfg.Cache.Backend = c.cacheBackend
		case "cache-dir":
			cfg.Cache.Dir = c.cacheDir
		case "cache-dsn":
			cfg.Cache.DSN = c.cacheDSN
		case "threshold":
			cfg.Cache.ThresholdMinutes = c.thresholdMinutes
		case "base-url":
			cfg.Remote.BaseURL = c.baseURL
		case "timeout":
			cfg.Remote.TimeoutSec = c.timeoutSec
		}
	})

	// Fall back to the shared DB URL
	if cfg.Cache.DSN == "" {
		cfg.Cache.DSN = os.Getenv(env.Prefix + env.DBURLSuffix)
	}

	if err := config.ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration, %w", err)
	}

	return cfg, nil
}

// Logger creates a text logger writing to w, at the configured level
func (c *Cfg) Logger(w io.Writer) (*slog.Logger, error) {
	var level slog.Level

	if err := level.UnmarshalText([]byte(strings.TrimSpace(c.LogLevel))); err != nil {
		return nil, fmt.Errorf("invalid log level %q", c.LogLevel)
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
	})), nil
}
