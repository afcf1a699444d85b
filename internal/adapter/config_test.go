package adapter

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) string {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
	home := t.TempDir()
	t.Setenv("HOME", home)
	return home
}

func TestLoadConfigDefaults(t *testing.T) {
	isolate(t)

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, DefaultServerURL, cfg.Server.URL)
	assert.Equal(t, 2*time.Minute, cfg.Server.Timeout)
	assert.Equal(t, []string{".pdf"}, cfg.Ingest.Extensions)
	assert.Equal(t, 200, cfg.History.MaxEntries)
	assert.Equal(t, "INFO", cfg.Logging.Level)
	assert.False(t, cfg.IsConfigured())
}

func TestLoadConfigFile(t *testing.T) {
	home := isolate(t)

	dir := filepath.Join(home, ".config", "docsift")
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(`
server:
  url: http://index.local:9000/
  timeout: 30s
ingest:
  extensions: [".pdf", ".PDF"]
  watch_dir: /tmp/inbox
  debounce: 500ms
logging:
  level: debug
`), 0644))

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "http://index.local:9000", cfg.Server.URL)
	assert.Equal(t, 30*time.Second, cfg.Server.Timeout)
	assert.Equal(t, []string{".pdf", ".PDF"}, cfg.Ingest.Extensions)
	assert.Equal(t, "/tmp/inbox", cfg.Ingest.WatchDir)
	assert.Equal(t, 500*time.Millisecond, cfg.Ingest.Debounce)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.IsConfigured())
}

func TestLoadConfigEnvOverride(t *testing.T) {
	isolate(t)
	t.Setenv("DOCSIFT_SERVER_URL", "http://from-env:8000")
	t.Setenv("DOCSIFT_HISTORY_MAX_ENTRIES", "5")

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "http://from-env:8000", cfg.Server.URL)
	assert.Equal(t, 5, cfg.History.MaxEntries)
}

func TestLoadConfigExplicitFileMissing(t *testing.T) {
	home := isolate(t)

	_, err := LoadConfig(filepath.Join(home, "nope.yaml"))
	assert.Error(t, err)
}

func TestSaveConfigRoundTrip(t *testing.T) {
	home := isolate(t)
	path := filepath.Join(home, "out", "config.yaml")

	cfg := DefaultConfig()
	cfg.Server.URL = "http://saved:8000"
	cfg.Ingest.Debounce = 3 * time.Second
	require.NoError(t, SaveConfigAs(cfg, path))

	viper.Reset()
	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "http://saved:8000", loaded.Server.URL)
	assert.Equal(t, 3*time.Second, loaded.Ingest.Debounce)
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLogLevel("debug"))
	assert.Equal(t, slog.LevelWarn, parseLogLevel("WARNING"))
	assert.Equal(t, slog.LevelError, parseLogLevel("ERROR"))
	assert.Equal(t, slog.LevelInfo, parseLogLevel("nonsense"))
	assert.Equal(t, slog.LevelWarn+2, parseLogLevel("warn+2"))
}

func TestSetupLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "docsift.log")

	logger, f, err := SetupLogger(&LoggingConfig{File: path, Level: "DEBUG"})
	require.NoError(t, err)
	logger.Debug("hello", "key", "value")
	require.NoError(t, f.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"hello"`)
	assert.Contains(t, string(data), `"key":"value"`)
	assert.Contains(t, string(data), `"source"`)
}
