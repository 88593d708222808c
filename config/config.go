// Package config loads the optional vibedom.yaml configuration and applies
// VIBEDOM_* environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/chrisuehlinger/vibedom/dom"
	"github.com/chrisuehlinger/vibedom/html"
	"github.com/chrisuehlinger/vibedom/network"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "VIBEDOM_"

// Config represents the configuration file.
type Config struct {
	Parser  ParserConfig  `yaml:"parser"`
	Text    TextConfig    `yaml:"text"`
	Network NetworkConfig `yaml:"network"`
	Fonts   FontsConfig   `yaml:"fonts"`
	Log     LogConfig     `yaml:"log"`
}

// ParserConfig contains HTML parser settings.
type ParserConfig struct {
	// TextLengthLimit is the largest text node, in UTF-16 code units, the
	// parser builds before starting a sibling.
	TextLengthLimit int `yaml:"text_length_limit" env:"TEXT_LENGTH_LIMIT"`
}

// TextConfig contains character data settings.
type TextConfig struct {
	SymmetricEvents bool `yaml:"symmetric_events" env:"SYMMETRIC_TEXT_EVENTS"`
}

// NetworkConfig contains resource loading settings.
type NetworkConfig struct {
	Timeout   time.Duration `yaml:"timeout" env:"NETWORK_TIMEOUT"`
	UserAgent string        `yaml:"user_agent" env:"USER_AGENT"`
	CacheSize int           `yaml:"cache_size" env:"CACHE_SIZE"`
	LocalPath string        `yaml:"local_path" env:"LOCAL_PATH"`
}

// FontsConfig contains local font settings.
type FontsConfig struct {
	GoFonts bool     `yaml:"go_fonts" env:"GO_FONTS"`
	Dirs    []string `yaml:"dirs" env:"FONT_DIRS" envSeparator:":"`
}

// LogConfig contains logger settings.
type LogConfig struct {
	Level       string `yaml:"level" env:"LOG_LEVEL"`
	Development bool   `yaml:"development" env:"LOG_DEVELOPMENT"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Parser: ParserConfig{TextLengthLimit: html.DefaultTextLengthLimit},
		Network: NetworkConfig{
			Timeout:   30 * time.Second,
			UserAgent: network.DefaultUserAgent,
			CacheSize: 1000,
		},
		Fonts: FontsConfig{GoFonts: true},
		Log:   LogConfig{Level: "info"},
	}
}

// Load reads the file at path over the defaults, then applies environment
// overrides. A missing file is not an error; an empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse %s: %w", path, err)
			}
		}
	}

	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if c.Parser.TextLengthLimit <= 0 {
		return fmt.Errorf("parser.text_length_limit must be positive, got %d", c.Parser.TextLengthLimit)
	}
	if c.Network.Timeout < 0 {
		return fmt.Errorf("network.timeout must not be negative, got %s", c.Network.Timeout)
	}
	if c.Network.CacheSize < 0 {
		return fmt.Errorf("network.cache_size must not be negative, got %d", c.Network.CacheSize)
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	return nil
}

// TextEventPolicy returns the configured policy for whole-buffer text
// replacements.
func (c *Config) TextEventPolicy() dom.TextEventPolicy {
	if c.Text.SymmetricEvents {
		return dom.SymmetricTextEvents
	}
	return dom.LegacyTextEvents
}

// ParserOptions returns the HTML parser options for this configuration.
func (c *Config) ParserOptions() []html.Option {
	return []html.Option{
		html.WithTextLengthLimit(c.Parser.TextLengthLimit),
		html.WithDocumentOptions(dom.WithTextEventPolicy(c.TextEventPolicy())),
	}
}

// ClientOptions returns the HTTP client options for this configuration.
func (c *Config) ClientOptions() []network.ClientOption {
	opts := []network.ClientOption{}
	if c.Network.Timeout > 0 {
		opts = append(opts, network.WithTimeout(c.Network.Timeout))
	}
	if ua := strings.TrimSpace(c.Network.UserAgent); ua != "" {
		opts = append(opts, network.WithUserAgent(ua))
	}
	return opts
}

// LoaderOptions returns the loader options for this configuration.
func (c *Config) LoaderOptions(logger *zap.Logger) []network.LoaderOption {
	opts := []network.LoaderOption{
		network.WithCache(network.NewCache(c.Network.CacheSize)),
		network.WithLogger(logger),
	}
	if c.Network.LocalPath != "" {
		opts = append(opts, network.WithLocalPath(c.Network.LocalPath))
	}
	return opts
}

// Logger builds the configured logger.
func (c *Config) Logger() (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(c.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("log.level: %w", err)
	}
	zc := zap.NewProductionConfig()
	if c.Log.Development {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc.Build()
}
