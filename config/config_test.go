package config_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/gaurav-prasanna/mailpipe/config"
)

func isolate(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("MAILPIPE_CONFIG_HOME", "")
	t.Chdir(dir)
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := config.Load(viper.New(), "")
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, "en", cfg.Export.Lang)
	assert.Equal(t, "#f4f5f8", cfg.Export.Background)
	assert.Equal(t, 600, cfg.Export.ContentWidth)
	assert.Equal(t, 30*time.Second, cfg.Fetch.Timeout)
}

func TestLoad_FileAndEnv(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
log_level: debug
output_dir: out
export:
  title: Monthly
  content_width: 480
fetch:
  timeout: 5s
`), 0o644))
	t.Setenv("MAILPIPE_EXPORT_LANG", "fr")

	cfg, err := config.Load(viper.New(), path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "out", cfg.OutputDir)
	assert.Equal(t, "Monthly", cfg.Export.Title)
	assert.Equal(t, 480, cfg.Export.ContentWidth)
	assert.Equal(t, "fr", cfg.Export.Lang)
	assert.Equal(t, 5*time.Second, cfg.Fetch.Timeout)
}

func TestLoad_DefaultPlace(t *testing.T) {
	isolate(t)
	dir := filepath.Join(os.Getenv("XDG_CONFIG_HOME"), config.Name)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "mailpipe.yaml"), []byte("log_level: error\n"), 0o644))

	cfg, err := config.Load(viper.New(), "")
	require.NoError(t, err)
	assert.Equal(t, "error", cfg.LogLevel)
}

func TestLoad_Errors(t *testing.T) {
	isolate(t)

	_, err := config.Load(viper.New(), filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	t.Setenv("MAILPIPE_LOG_LEVEL", "chatty")
	_, err = config.Load(viper.New(), "")
	assert.ErrorContains(t, err, "invalid log level")
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	log, err := config.NewLoggerTo("info", zapcore.AddSync(&buf))
	require.NoError(t, err)

	log.Debug("hidden")
	log.Named("export").Info("Written")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "INFO")
	assert.Contains(t, buf.String(), "export")

	nop, err := config.NewLoggerTo(config.LevelNone, zapcore.AddSync(&buf))
	require.NoError(t, err)
	assert.False(t, nop.Core().Enabled(zapcore.ErrorLevel))

	_, err = config.NewLogger("loud")
	assert.Error(t, err)
}
