package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/pelletier/go-toml"

	"github.com/sig-0/exilian/dataset"
	"github.com/sig-0/exilian/provider/poeninja"
	"github.com/sig-0/exilian/storage/types"
)

const (
	DefaultListenAddress = "127.0.0.1:8765"

	DefaultBackend          = BackendFile
	DefaultThresholdMinutes = int(dataset.DefaultThreshold / time.Minute)
	DefaultTimeoutSec       = int(poeninja.DefaultTimeout / time.Second)
	DefaultUserAgent        = "exilian"
)

// Cache backends
const (
	BackendFile     = "file"
	BackendMemory   = "memory"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

var (
	ErrInvalidListenAddress   = errors.New("invalid listen address")
	ErrInvalidBackend         = errors.New("invalid cache backend")
	ErrInvalidCacheDir        = errors.New("invalid cache directory")
	ErrMissingDSN             = errors.New("missing database DSN")
	ErrInvalidThreshold       = errors.New("invalid freshness threshold")
	ErrInvalidBaseURL         = errors.New("invalid remote base URL")
	ErrInvalidTimeout         = errors.New("invalid remote timeout")
	ErrInvalidWarmKey         = errors.New("invalid warm key")
	ErrInvalidRefreshInterval = errors.New("invalid refresh interval")
)

var listenAddressRegex = regexp.MustCompile(`^\d{1,3}(\.\d{1,3}){3}:\d+$`)

// Config defines the base-level exilian configuration
type Config struct {
	// The local snapshot cache
	Cache Cache `toml:"cache"`

	// The remote (poe.ninja) API
	Remote Remote `toml:"remote"`

	// The serve-mode HTTP server
	Server Server `toml:"server"`
}

type Cache struct {
	// The cache backend: file, memory, sqlite or postgres
	Backend string `toml:"backend"`

	// The base directory of the file backend
	Dir string `toml:"dir"`

	// The DSN of the sqlite / postgres backends
	DSN string `toml:"dsn"`

	// The age (in minutes) under which cached snapshots are served as-is
	ThresholdMinutes int `toml:"threshold_minutes"`
}

type Remote struct {
	BaseURL    string `toml:"base_url"`
	UserAgent  string `toml:"user_agent"`
	TimeoutSec int    `toml:"timeout_sec"`
}

type Server struct {
	// The associated CORS config, if any
	CORSConfig *CORS `toml:"cors_config"`

	// The address at which the server will be served.
	// Format should be: <IP>:<PORT>
	ListenAddress string `toml:"listen_address"`

	// Keys kept warm in serve mode, as League/Category/Type
	Warm []string `toml:"warm"`

	// How often (in minutes) warm keys are reloaded.
	// Zero means once per freshness threshold
	RefreshIntervalMinutes int `toml:"refresh_interval_minutes"`
}

type CORS struct {
	AllowedOrigins []string `toml:"allowed_origins"`
	AllowedMethods []string `toml:"allowed_methods"`
	AllowedHeaders []string `toml:"allowed_headers"`
}

// DefaultCORSConfig returns the default (permissive, read-only) CORS configuration
func DefaultCORSConfig() *CORS {
	return &CORS{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "HEAD", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	}
}

// DefaultCacheDir returns the user cache directory for exilian
func DefaultCacheDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}

	return filepath.Join(dir, "exilian")
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Cache: Cache{
			Backend:          DefaultBackend,
			Dir:              DefaultCacheDir(),
			ThresholdMinutes: DefaultThresholdMinutes,
		},
		Remote: Remote{
			BaseURL:    poeninja.DefaultBaseURL,
			UserAgent:  DefaultUserAgent,
			TimeoutSec: DefaultTimeoutSec,
		},
		Server: Server{
			ListenAddress: DefaultListenAddress,
			CORSConfig:    DefaultCORSConfig(),
		},
	}
}

// ValidateConfig validates the configuration
func ValidateConfig(config *Config) error {
	switch config.Cache.Backend {
	case BackendFile:
		if config.Cache.Dir == "" {
			return ErrInvalidCacheDir
		}
	case BackendMemory:
	case BackendSQLite, BackendPostgres:
		if config.Cache.DSN == "" {
			return ErrMissingDSN
		}
	default:
		return fmt.Errorf("%w: %q", ErrInvalidBackend, config.Cache.Backend)
	}

	if config.Cache.ThresholdMinutes <= 0 {
		return ErrInvalidThreshold
	}

	// Validate the remote
	u, err := url.Parse(config.Remote.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ErrInvalidBaseURL
	}

	if config.Remote.TimeoutSec <= 0 {
		return ErrInvalidTimeout
	}

	return ValidateServerConfig(&config.Server)
}

// ValidateServerConfig validates the serve-mode configuration
func ValidateServerConfig(config *Server) error {
	// Validate the listen address
	if !listenAddressRegex.MatchString(config.ListenAddress) {
		return ErrInvalidListenAddress
	}

	for _, warm := range config.Warm {
		if _, ok := types.ParseKey(warm); !ok {
			return fmt.Errorf("%w: %q", ErrInvalidWarmKey, warm)
		}
	}

	if config.RefreshIntervalMinutes < 0 {
		return ErrInvalidRefreshInterval
	}

	return nil
}

// Read reads the configuration from the given path.
// Values missing from the file keep their defaults
func Read(path string) (*Config, error) {
	// Read the config file
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Parse it
	var cfg Config

	if err := toml.Unmarshal(content, &cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults(DefaultConfig())

	return &cfg, nil
}

// Write writes the configuration to the given path, as TOML
func Write(config *Config, path string) error {
	content, err := toml.Marshal(config)
	if err != nil {
		return fmt.Errorf("unable to marshal config: %w", err)
	}

	if err = os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("unable to create config directory: %w", err)
	}

	if err = os.WriteFile(path, content, 0o600); err != nil {
		return fmt.Errorf("unable to write config: %w", err)
	}

	return nil
}

// applyDefaults fills unset values from d
func (c *Config) applyDefaults(d *Config) {
	if c.Cache.Backend == "" {
		c.Cache.Backend = d.Cache.Backend
	}

	if c.Cache.Dir == "" {
		c.Cache.Dir = d.Cache.Dir
	}

	if c.Cache.ThresholdMinutes == 0 {
		c.Cache.ThresholdMinutes = d.Cache.ThresholdMinutes
	}

	if c.Remote.BaseURL == "" {
		c.Remote.BaseURL = d.Remote.BaseURL
	}

	if c.Remote.UserAgent == "" {
		c.Remote.UserAgent = d.Remote.UserAgent
	}

	if c.Remote.TimeoutSec == 0 {
		c.Remote.TimeoutSec = d.Remote.TimeoutSec
	}

	if c.Server.ListenAddress == "" {
		c.Server.ListenAddress = d.Server.ListenAddress
	}
}

// Threshold returns the freshness threshold
func (c *Config) Threshold() time.Duration {
	return time.Duration(c.Cache.ThresholdMinutes) * time.Minute
}

// Timeout returns the remote request timeout
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.Remote.TimeoutSec) * time.Second
}

// RefreshInterval returns the warm key reload interval
func (c *Config) RefreshInterval() time.Duration {
	if c.Server.RefreshIntervalMinutes == 0 {
		return c.Threshold()
	}

	return time.Duration(c.Server.RefreshIntervalMinutes) * time.Minute
}

// WarmKeys returns the parsed warm keys. Invalid keys are skipped
func (c *Config) WarmKeys() []types.Key {
	keys := make([]types.Key, 0, len(c.Server.Warm))

	for _, warm := range c.Server.Warm {
		if key, ok := types.ParseKey(warm); ok {
			keys = append(keys, key)
		}
	}

	return keys
}
