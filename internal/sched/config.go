package sched

import (
	"log/slog"
	"os"
	"strings"

	yaml "github.com/goccy/go-yaml"
)

// Config mirrors config.yml
type Config struct {
	FrameMS         int     `yaml:"frame_ms"`         // 16 (by default)
	Frames          int     `yaml:"frames"`           // 180 (by default), 0 runs until canceled
	TimeScale       float64 `yaml:"time_scale"`       // 1.0 (by default), scales delta time only
	IsolateFailures bool    `yaml:"isolate_failures"` // false (by default)
	LogLevel        string  `yaml:"log_level"`        // "info" (by default)
	EventLog        string  `yaml:"event_log"`        // CSV event log path, empty disables it
}

// DefaultConfig holds the values used when the config file is missing
func DefaultConfig() Config {
	return Config{
		FrameMS:   16,
		Frames:    180,
		TimeScale: 1.0,
		LogLevel:  "info",
	}
}

// Load reads YAML and overrides defaults; empty path = defaults only
func Load(path string) Config {
	cfg := DefaultConfig()

	if path == "" {
		return cfg
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg
	}

	_ = yaml.Unmarshal(data, &cfg)

	// sanity clamps
	if cfg.FrameMS <= 0 {
		cfg.FrameMS = 16
	}
	if cfg.Frames < 0 {
		cfg.Frames = 0
	}
	if cfg.TimeScale < 0 {
		cfg.TimeScale = 1.0
	}

	return cfg
}

// Level maps LogLevel onto a slog level, falling back to info.
func (c Config) Level() slog.Level {
	switch strings.ToLower(strings.TrimSpace(c.LogLevel)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
