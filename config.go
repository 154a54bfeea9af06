package guitex

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

// FrameRecorder receives every flushed frame on the engine thread.
// The data is only valid during the call.
type FrameRecorder interface {
	RecordFrame(format PixelFormat, size Size, data []byte) error
}

// Config is the immutable configuration of a Container.
type Config struct {
	Name             string
	Logger           *slog.Logger
	FullScreenPopups bool
	// DecorationOffset is subtracted from popup screen positions. When nil
	// the engine is asked through DecorationSource, if it implements it.
	DecorationOffset *Point
	CursorAssets     fs.FS
	FrameRecorder    FrameRecorder
}

// Option configures a Container.
type Option func(*Config)

// WithName sets the name of the picture node.
func WithName(name string) Option {
	return func(c *Config) { c.Name = name }
}

// WithLogger sets the container's logger instead of the package logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Config) { c.Logger = l }
}

// WithFullScreenPopups enables or disables compositing popups into the
// frame while the engine is full screen. Enabled by default.
func WithFullScreenPopups(enabled bool) Option {
	return func(c *Config) { c.FullScreenPopups = enabled }
}

// WithDecorationOffset fixes the window decoration offset.
func WithDecorationOffset(p Point) Option {
	return func(c *Config) { c.DecorationOffset = &p }
}

// WithCursorAssets replaces the built-in cursor set.
func WithCursorAssets(assets fs.FS) Option {
	return func(c *Config) { c.CursorAssets = assets }
}

// WithFrameDump records every flushed frame.
func WithFrameDump(r FrameRecorder) Option {
	return func(c *Config) { c.FrameRecorder = r }
}

// NewConfig applies opts over the defaults.
func NewConfig(opts ...Option) Config {
	c := Config{
		Name:             "guitex",
		FullScreenPopups: true,
	}
	for _, opt := range opts {
		opt(&c)
	}
	if c.Logger == nil {
		c.Logger = Logger()
	}
	if c.CursorAssets == nil {
		c.CursorAssets = DefaultCursorAssets()
	}
	return c
}

// FileConfig is the TOML form of the container options.
//
//	name = "hud"
//	fullscreen_popups = true
//	decoration_offset = [0, 24]
//	cursor_dir = "assets/cursors"
//	log_level = "debug"
type FileConfig struct {
	Name             string `toml:"name,omitempty"`
	FullScreenPopups *bool  `toml:"fullscreen_popups,omitempty"`
	DecorationOffset []int  `toml:"decoration_offset,omitempty"`
	CursorDir        string `toml:"cursor_dir,omitempty"`
	LogLevel         string `toml:"log_level,omitempty"`
	FrameDump        string `toml:"frame_dump,omitempty"`
}

// LoadConfig reads a FileConfig from a TOML file.
func LoadConfig(path string) (*FileConfig, error) {
	var fc FileConfig
	if _, err := toml.DecodeFile(path, &fc); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := fc.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &fc, nil
}

// ParseConfig reads a FileConfig from TOML text.
func ParseConfig(data string) (*FileConfig, error) {
	var fc FileConfig
	if _, err := toml.Decode(data, &fc); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := fc.validate(); err != nil {
		return nil, err
	}
	return &fc, nil
}

func (fc *FileConfig) validate() error {
	if fc.DecorationOffset != nil && len(fc.DecorationOffset) != 2 {
		return fmt.Errorf("decoration_offset must have 2 elements, got %d", len(fc.DecorationOffset))
	}
	if fc.LogLevel != "" {
		if _, err := ParseLevel(fc.LogLevel); err != nil {
			return err
		}
	}
	return nil
}

// Options converts the file settings into container options. Logging and
// frame dumps are left to the caller, which owns the handler and the file.
func (fc *FileConfig) Options() []Option {
	var opts []Option
	if fc.Name != "" {
		opts = append(opts, WithName(fc.Name))
	}
	if fc.FullScreenPopups != nil {
		opts = append(opts, WithFullScreenPopups(*fc.FullScreenPopups))
	}
	if len(fc.DecorationOffset) == 2 {
		opts = append(opts, WithDecorationOffset(Point{X: fc.DecorationOffset[0], Y: fc.DecorationOffset[1]}))
	}
	if fc.CursorDir != "" {
		opts = append(opts, WithCursorAssets(os.DirFS(fc.CursorDir)))
	}
	return opts
}

// ParseLevel parses a log level name: debug, info, warn or error.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return 0, fmt.Errorf("invalid log level %q", s)
	}
	return l, nil
}
