package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envVars = []string{
	"PPSYNC_LOG_FILE", "PPSYNC_LOG_LEVEL", "PPSYNC_LOG_CONSOLE",
	"PPSYNC_NATS_URL", "PPSYNC_NATS_SUBJECT_PREFIX", "PPSYNC_OBSERVERS_MAX",
}

func clearAllEnv(t *testing.T) {
	t.Helper()
	for _, key := range envVars {
		t.Setenv(key, "")
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "ppsync", cfg.NATS.SubjectPrefix)
	assert.Equal(t, 64, cfg.Dispatcher().MaxObservers)

	l, err := cfg.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelInfo, l)
}

func TestLoad(t *testing.T) {
	for _, tc := range []struct {
		name, file, content string
	}{
		{
			name: "YAML",
			file: "ppsync.yaml",
			content: `
log:
  file: /tmp/sync.slog
  level: debug
  console: true
nats:
  url: nats://localhost:4222
observers:
  max: 8
`,
		},
		{
			name: "TOML",
			file: "ppsync.toml",
			content: `
[log]
file = "/tmp/sync.slog"
level = "debug"
console = true

[nats]
url = "nats://localhost:4222"

[observers]
max = 8
`,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := Load(writeFile(t, tc.file, tc.content))
			require.NoError(t, err)
			assert.Equal(t, "/tmp/sync.slog", cfg.Log.File)
			assert.Equal(t, "debug", cfg.Log.Level)
			assert.True(t, cfg.Log.Console)
			assert.Equal(t, "nats://localhost:4222", cfg.NATS.URL)
			assert.Equal(t, "ppsync", cfg.NATS.SubjectPrefix, "unset keys keep defaults")
			assert.Equal(t, 8, cfg.Observers.Max)
			assert.NoError(t, cfg.Validate())
		})
	}
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(writeFile(t, "ppsync.json", "{}"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "bad.yaml", "log: [unclosed"))
	assert.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	clearAllEnv(t)
	t.Setenv("PPSYNC_LOG_LEVEL", "warn")
	t.Setenv("PPSYNC_LOG_CONSOLE", "true")
	t.Setenv("PPSYNC_NATS_URL", "nats://nats:4222")
	t.Setenv("PPSYNC_OBSERVERS_MAX", "3")

	cfg := Default()
	require.NoError(t, cfg.ApplyEnv())
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.True(t, cfg.Log.Console)
	assert.Equal(t, "nats://nats:4222", cfg.NATS.URL)
	assert.Equal(t, 3, cfg.Observers.Max)
	assert.Empty(t, cfg.Log.File)

	t.Setenv("PPSYNC_OBSERVERS_MAX", "many")
	assert.Error(t, cfg.ApplyEnv())
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Log.Level = "loud"
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Observers.Max = 0
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.NATS.URL = "nats://x"
	cfg.NATS.SubjectPrefix = ""
	assert.Error(t, cfg.Validate())
}
