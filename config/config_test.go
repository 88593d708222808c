package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrisuehlinger/vibedom/dom"
	"github.com/chrisuehlinger/vibedom/html"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "vibedom.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, html.DefaultTextLengthLimit, cfg.Parser.TextLengthLimit)
	assert.Equal(t, dom.LegacyTextEvents, cfg.TextEventPolicy())
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
parser:
  text_length_limit: 128
text:
  symmetric_events: true
network:
  timeout: 5s
  user_agent: test-agent
  cache_size: 10
fonts:
  go_fonts: false
  dirs: [/usr/share/fonts]
log:
  level: debug
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 128, cfg.Parser.TextLengthLimit)
	assert.Equal(t, dom.SymmetricTextEvents, cfg.TextEventPolicy())
	assert.Equal(t, 5*time.Second, cfg.Network.Timeout)
	assert.Equal(t, "test-agent", cfg.Network.UserAgent)
	assert.Equal(t, 10, cfg.Network.CacheSize)
	assert.False(t, cfg.Fonts.GoFonts)
	assert.Equal(t, []string{"/usr/share/fonts"}, cfg.Fonts.Dirs)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Len(t, cfg.ClientOptions(), 2)
	assert.Len(t, cfg.ParserOptions(), 2)
}

func TestLoadEnvOverrides(t *testing.T) {
	path := writeConfig(t, "parser:\n  text_length_limit: 128\n")
	t.Setenv("VIBEDOM_TEXT_LENGTH_LIMIT", "16")
	t.Setenv("VIBEDOM_SYMMETRIC_TEXT_EVENTS", "true")
	t.Setenv("VIBEDOM_FONT_DIRS", "/a:/b")
	t.Setenv("VIBEDOM_LOCAL_PATH", "/srv/www")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 16, cfg.Parser.TextLengthLimit)
	assert.True(t, cfg.Text.SymmetricEvents)
	assert.Equal(t, []string{"/a", "/b"}, cfg.Fonts.Dirs)
	assert.Equal(t, "/srv/www", cfg.Network.LocalPath)
	assert.Len(t, cfg.LoaderOptions(nil), 3)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(writeConfig(t, "parser: [oops"))
	assert.ErrorContains(t, err, "failed to parse")

	_, err = Load(writeConfig(t, "parser:\n  text_length_limit: 0\n"))
	assert.ErrorContains(t, err, "text_length_limit")

	t.Setenv("VIBEDOM_TEXT_LENGTH_LIMIT", "lots")
	_, err = Load("")
	assert.ErrorContains(t, err, "parse env")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		errMsg string
	}{
		{"defaults", func(*Config) {}, ""},
		{"negative timeout", func(c *Config) { c.Network.Timeout = -time.Second }, "network.timeout"},
		{"negative cache", func(c *Config) { c.Network.CacheSize = -1 }, "network.cache_size"},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.errMsg)
		})
	}
}

func TestLogger(t *testing.T) {
	cfg := Default()
	cfg.Log.Level = "warn"
	logger, err := cfg.Logger()
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(-1))
	assert.True(t, logger.Core().Enabled(1))

	cfg.Log.Level = "nope"
	_, err = cfg.Logger()
	assert.Error(t, err)
}
