package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/pelletier/go-toml/v2"
)

// Config is the persistent application configuration
type Config struct {
	// Endpoint is the base URL of the server exposing GET /search?query=
	Endpoint string `json:"endpoint" toml:"endpoint"`

	// Autocomplete behavior
	DebounceMs int `json:"debounce_ms" toml:"debounce_ms"` // quiet period before a search is issued
	MinChars   int `json:"min_chars" toml:"min_chars"`     // minimum trimmed query length

	// Client settings
	TimeoutMs int     `json:"timeout_ms" toml:"timeout_ms"` // 0 disables the per-request timeout
	RateLimit float64 `json:"rate_limit" toml:"rate_limit"` // requests per second, 0 = unlimited

	// UI Preferences
	UI UIConfig `json:"ui" toml:"ui"`
}

// UIConfig holds UI preferences
type UIConfig struct {
	MaxVisible int    `json:"max_visible" toml:"max_visible"` // rows shown in the results panel
	Prompt     string `json:"prompt" toml:"prompt"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Endpoint:   "http://127.0.0.1:5000", // Flask dev server
		DebounceMs: 300,
		MinChars:   2,
		TimeoutMs:  10000,
		RateLimit:  5,
		UI: UIConfig{
			MaxVisible: 8,
			Prompt:     "› ",
		},
	}
}

// DataDir returns ~/.marquee
func DataDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".marquee")
}

// ConfigPath returns the path to the default config file
func ConfigPath() string {
	return filepath.Join(DataDir(), "config.json")
}

// Load reads config from path, or returns defaults if the file does not exist.
// Files ending in .toml are decoded as TOML, everything else as JSON.
func Load(path string) (*Config, error) {
	if path == "" {
		path = ConfigPath()
	}

	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	if isTOML(path) {
		err = toml.Unmarshal(data, cfg)
	} else {
		err = json.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	return cfg, nil
}

// Save writes config to path, using the codec implied by the extension
func (c *Config) Save(path string) error {
	if path == "" {
		path = ConfigPath()
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	var (
		data []byte
		err  error
	)
	if isTOML(path) {
		data, err = toml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}

// ApplyEnv overrides fields from MARQUEE_* environment variables.
// Unparseable numbers are ignored.
func (c *Config) ApplyEnv() {
	if v := strings.TrimSpace(os.Getenv("MARQUEE_ENDPOINT")); v != "" {
		c.Endpoint = v
	}
	if v := os.Getenv("MARQUEE_DEBOUNCE_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.DebounceMs = n
		}
	}
	if v := os.Getenv("MARQUEE_MIN_CHARS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MinChars = n
		}
	}
}

// Overrides are command-line values that take precedence over both the file
// and the environment. Zero fields leave the config untouched.
type Overrides struct {
	Endpoint string
	Debounce time.Duration
	MinChars int
}

// Apply writes the non-zero overrides into c.
func (o Overrides) Apply(c *Config) {
	if o.Endpoint != "" {
		c.Endpoint = o.Endpoint
	}
	if o.Debounce > 0 {
		c.DebounceMs = int(o.Debounce / time.Millisecond)
	}
	if o.MinChars > 0 {
		c.MinChars = o.MinChars
	}
}

// Validate reports every invalid field at once.
func (c *Config) Validate() error {
	var result *multierror.Error

	if c.Endpoint == "" {
		result = multierror.Append(result, fmt.Errorf("endpoint is required"))
	} else if u, err := url.Parse(c.Endpoint); err != nil {
		result = multierror.Append(result, fmt.Errorf("endpoint: %w", err))
	} else if u.Scheme != "http" && u.Scheme != "https" {
		result = multierror.Append(result, fmt.Errorf("endpoint: unsupported scheme %q", u.Scheme))
	}
	if c.DebounceMs < 0 {
		result = multierror.Append(result, fmt.Errorf("debounce_ms must be >= 0, got %d", c.DebounceMs))
	}
	if c.MinChars < 1 {
		result = multierror.Append(result, fmt.Errorf("min_chars must be >= 1, got %d", c.MinChars))
	}
	if c.TimeoutMs < 0 {
		result = multierror.Append(result, fmt.Errorf("timeout_ms must be >= 0, got %d", c.TimeoutMs))
	}
	if c.RateLimit < 0 {
		result = multierror.Append(result, fmt.Errorf("rate_limit must be >= 0, got %v", c.RateLimit))
	}
	if c.UI.MaxVisible < 1 {
		result = multierror.Append(result, fmt.Errorf("ui.max_visible must be >= 1, got %d", c.UI.MaxVisible))
	}

	return result.ErrorOrNil()
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

// Debounce returns DebounceMs as a duration
func (c *Config) Debounce() time.Duration {
	return time.Duration(c.DebounceMs) * time.Millisecond
}

// Timeout returns TimeoutMs as a duration
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutMs) * time.Millisecond
}
