package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	require.Equal(t, 2, cfg.FramesInFlight)
	require.Equal(t, PresentMailbox, cfg.PresentMode)
}

func TestLoadFlagsOnly(t *testing.T) {
	cfg, err := Load("triangle", []string{"--width", "1024", "--present-mode", "FIFO", "--msaa"})
	require.NoError(t, err)
	require.Equal(t, "triangle", cfg.Title)
	require.Equal(t, 1024, cfg.Width)
	require.Equal(t, 600, cfg.Height)
	require.Equal(t, PresentFIFO, cfg.PresentMode)
	require.True(t, cfg.MSAA)
}

func TestLoadFileThenFlags(t *testing.T) {
	path := writeConfig(t, `
title = "from file"
width = 320
height = 240
frames_in_flight = 3
log_level = "debug"
`)

	cfg, err := Load("cube", []string{"--config", path, "--height", "480"})
	require.NoError(t, err)
	require.Equal(t, "from file", cfg.Title)
	require.Equal(t, 320, cfg.Width)
	require.Equal(t, 480, cfg.Height)
	require.Equal(t, 3, cfg.FramesInFlight)
	require.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadFileNormalizesPresentMode(t *testing.T) {
	path := writeConfig(t, `present_mode = "MAILBOX"`)

	cfg, err := Load("cube", []string{"--config", path})
	require.NoError(t, err)
	require.Equal(t, PresentMailbox, cfg.PresentMode)
}

func TestLoadFileRejectsUnknownPresentMode(t *testing.T) {
	path := writeConfig(t, `present_mode = "vsync"`)

	_, err := Load("cube", []string{"--config", path})
	require.True(t, errors.Is(err, ErrInvalid))
}

func TestLoadFileRejectsUnknownKeys(t *testing.T) {
	path := writeConfig(t, `widht = 10`)

	cfg := DefaultConfig()
	require.Error(t, cfg.LoadFile(path))
}

func TestLoadRejectsBadFlagValue(t *testing.T) {
	_, err := Load("triangle", []string{"--present-mode", "vsync"})
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	cases := map[string]func(*Config){
		"zero width":       func(c *Config) { c.Width = 0 },
		"negative height":  func(c *Config) { c.Height = -1 },
		"no frames":        func(c *Config) { c.FramesInFlight = 0 },
		"too many frames":  func(c *Config) { c.FramesInFlight = MaxFramesInFlight + 1 },
		"bad present mode": func(c *Config) { c.PresentMode = "adaptive" },
		"bad log level":    func(c *Config) { c.LogLevel = "loud" },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := DefaultConfig()
			mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			require.True(t, errors.Is(err, ErrInvalid))
		})
	}
}

func TestParseLevel(t *testing.T) {
	level, err := ParseLevel("WARN")
	require.NoError(t, err)
	require.Equal(t, slog.LevelWarn, level)

	level, err = ParseLevel("")
	require.NoError(t, err)
	require.Equal(t, slog.LevelInfo, level)
}
