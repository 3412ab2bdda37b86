package sched

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	assert.Equal(t, DefaultConfig(), Load(""))
	assert.Equal(t, DefaultConfig(), Load(filepath.Join(t.TempDir(), "missing.yml")))
}

func TestLoadOverrides(t *testing.T) {
	cfg := Load(writeConfig(t, `
frame_ms: 33
frames: 10
time_scale: 0.5
isolate_failures: true
log_level: debug
event_log: events.csv
`))
	assert.Equal(t, Config{
		FrameMS:         33,
		Frames:          10,
		TimeScale:       0.5,
		IsolateFailures: true,
		LogLevel:        "debug",
		EventLog:        "events.csv",
	}, cfg)
	assert.Equal(t, slog.LevelDebug, cfg.Level())
}

func TestLoadClamps(t *testing.T) {
	cfg := Load(writeConfig(t, `
frame_ms: -1
frames: -5
time_scale: -2
`))
	assert.Equal(t, 16, cfg.FrameMS)
	assert.Equal(t, 0, cfg.Frames)
	assert.Equal(t, 1.0, cfg.TimeScale)
}

func TestConfigLevel(t *testing.T) {
	for in, want := range map[string]slog.Level{
		"":        slog.LevelInfo,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		" error ": slog.LevelError,
		"bogus":   slog.LevelInfo,
	} {
		assert.Equal(t, want, Config{LogLevel: in}.Level(), in)
	}
}
