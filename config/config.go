// Package config holds the settings shared by the renderer and the example
// programs. Values come from DefaultConfig, then an optional TOML file, then
// command line flags.
package config

import (
	"bytes"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/pflag"
	"golang.org/x/exp/slog"
)

// PresentMode names the swapchain presentation mode the renderer should
// prefer when the surface offers it. FIFO is always available and is used
// as the fallback.
type PresentMode string

const (
	PresentFIFO        PresentMode = "fifo"
	PresentFIFORelaxed PresentMode = "fifo_relaxed"
	PresentMailbox     PresentMode = "mailbox"
	PresentImmediate   PresentMode = "immediate"
)

const MaxFramesInFlight = 3

var ErrInvalid = errors.New("invalid configuration")

type Config struct {
	Title     string `toml:"title"`
	Width     int    `toml:"width"`
	Height    int    `toml:"height"`
	Resizable bool   `toml:"resizable"`

	Validation     bool        `toml:"validation"`
	PresentMode    PresentMode `toml:"present_mode"`
	FramesInFlight int         `toml:"frames_in_flight"`
	MSAA           bool        `toml:"msaa"`
	Anisotropy     bool        `toml:"anisotropy"`

	LogLevel  string `toml:"log_level"`
	ShaderDir string `toml:"shader_dir"`
	// AssetPath is an optional example-specific file (texture or mesh).
	AssetPath string `toml:"asset_path"`
}

func DefaultConfig() Config {
	return Config{
		Title:          "Vulkan",
		Width:          800,
		Height:         600,
		Resizable:      true,
		Validation:     true,
		PresentMode:    PresentMailbox,
		FramesInFlight: 2,
		MSAA:           false,
		Anisotropy:     true,
		LogLevel:       "info",
	}
}

// LoadFile overlays the TOML document at path onto c. Unknown keys are
// rejected so typos do not silently fall back to defaults.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "reading config %s", path)
	}

	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(c); err != nil {
		return errors.Wrapf(err, "parsing config %s", path)
	}
	// Flags are normalized by presentModeValue; unknown values are left for
	// Validate to report.
	if mode, err := ParsePresentMode(string(c.PresentMode)); err == nil {
		c.PresentMode = mode
	}
	return nil
}

// Load builds a Config from defaults, the optional --config file and the
// remaining flags in args. The flag set is returned so callers can print
// usage.
func Load(name string, args []string) (Config, error) {
	cfg := DefaultConfig()
	cfg.Title = name

	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	path := fs.String("config", "", "TOML configuration file")
	cfg.BindFlags(fs)

	if err := fs.Parse(args); err != nil {
		return cfg, err
	}

	if *path != "" {
		// Flags given explicitly win over the file, so re-apply them.
		fileCfg := DefaultConfig()
		fileCfg.Title = name
		if err := fileCfg.LoadFile(*path); err != nil {
			return cfg, err
		}
		overlay := fileCfg
		fs.Visit(func(f *pflag.Flag) {
			overlay.applyFlag(f.Name, &cfg)
		})
		cfg = overlay
	}

	return cfg, cfg.Validate()
}

// BindFlags registers one flag per field, defaulting to the current values.
func (c *Config) BindFlags(fs *pflag.FlagSet) {
	fs.StringVar(&c.Title, "title", c.Title, "window title")
	fs.IntVar(&c.Width, "width", c.Width, "initial window width")
	fs.IntVar(&c.Height, "height", c.Height, "initial window height")
	fs.BoolVar(&c.Resizable, "resizable", c.Resizable, "allow the window to be resized")
	fs.BoolVar(&c.Validation, "validation", c.Validation, "enable VK_LAYER_KHRONOS_validation")
	fs.Var(&presentModeValue{&c.PresentMode}, "present-mode", "preferred present mode (fifo, fifo_relaxed, mailbox, immediate)")
	fs.IntVar(&c.FramesInFlight, "frames-in-flight", c.FramesInFlight, "frames recorded ahead of the GPU")
	fs.BoolVar(&c.MSAA, "msaa", c.MSAA, "render with the maximum usable sample count")
	fs.BoolVar(&c.Anisotropy, "anisotropy", c.Anisotropy, "request anisotropic filtering")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "debug, info, warn or error")
	fs.StringVar(&c.ShaderDir, "shader-dir", c.ShaderDir, "load SPIR-V from this directory instead of the embedded copies")
	fs.StringVar(&c.AssetPath, "asset", c.AssetPath, "texture or mesh file used by the example")
}

func (c *Config) applyFlag(name string, from *Config) {
	switch name {
	case "title":
		c.Title = from.Title
	case "width":
		c.Width = from.Width
	case "height":
		c.Height = from.Height
	case "resizable":
		c.Resizable = from.Resizable
	case "validation":
		c.Validation = from.Validation
	case "present-mode":
		c.PresentMode = from.PresentMode
	case "frames-in-flight":
		c.FramesInFlight = from.FramesInFlight
	case "msaa":
		c.MSAA = from.MSAA
	case "anisotropy":
		c.Anisotropy = from.Anisotropy
	case "log-level":
		c.LogLevel = from.LogLevel
	case "shader-dir":
		c.ShaderDir = from.ShaderDir
	case "asset":
		c.AssetPath = from.AssetPath
	}
}

func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return errors.Wrapf(ErrInvalid, "window size %dx%d", c.Width, c.Height)
	}
	if c.FramesInFlight < 1 || c.FramesInFlight > MaxFramesInFlight {
		return errors.Wrapf(ErrInvalid, "frames in flight must be between 1 and %d, got %d", MaxFramesInFlight, c.FramesInFlight)
	}
	if _, err := ParsePresentMode(string(c.PresentMode)); err != nil {
		return err
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

func ParsePresentMode(s string) (PresentMode, error) {
	switch mode := PresentMode(strings.ToLower(s)); mode {
	case PresentFIFO, PresentFIFORelaxed, PresentMailbox, PresentImmediate:
		return mode, nil
	}
	return "", errors.Wrapf(ErrInvalid, "unknown present mode %q", s)
}

func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, errors.Wrapf(ErrInvalid, "unknown log level %q", s)
}

// Logger returns a text logger on stderr at the configured level.
func (c Config) Logger() *slog.Logger {
	level, err := ParseLevel(c.LogLevel)
	if err != nil {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

type presentModeValue struct {
	mode *PresentMode
}

func (v *presentModeValue) String() string {
	if v.mode == nil {
		return ""
	}
	return string(*v.mode)
}

func (v *presentModeValue) Set(s string) error {
	mode, err := ParsePresentMode(s)
	if err != nil {
		return err
	}
	*v.mode = mode
	return nil
}

func (v *presentModeValue) Type() string {
	return "mode"
}
