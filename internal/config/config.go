package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/kk-code-lab/xv/internal/hexview"
	"github.com/kk-code-lab/xv/internal/search"
)

// Config holds user preferences read from config.toml.
type Config struct {
	LineWidth uint64 `toml:"line_width"`
	Group     uint16 `toml:"group"`
	Visual    string `toml:"visual"`
	Theme     string `toml:"theme"`
	LogFile   string `toml:"log_file"`
	Watch     bool   `toml:"watch"`
	Search    Search `toml:"search"`
}

type Search struct {
	ChunkSize  int    `toml:"chunk_size"`
	QueueDepth int    `toml:"queue_depth"`
	Strategy   string `toml:"strategy"`
}

// Default returns the settings used when no file exists.
func Default() Config {
	return Config{
		LineWidth: hexview.DefaultLineWidth,
		Group:     hexview.DefaultGroup,
		Visual:    hexview.VisualUnicode.String(),
		Theme:     "dark",
		Search: Search{
			ChunkSize:  search.DefaultChunkSize,
			QueueDepth: search.DefaultQueueDepth,
			Strategy:   search.StrategyAuto.String(),
		},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/xv/config.toml or the platform
// equivalent.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "xv", "config.toml"), nil
}

// Load reads path over the defaults. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return Default(), fmt.Errorf("parse %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Default(), fmt.Errorf("parse %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Default(), fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks value ranges and enumerations.
func (c Config) Validate() error {
	if c.LineWidth == 0 {
		return errors.New("line_width must be positive")
	}
	if _, err := hexview.ParseVisualMode(c.Visual); err != nil {
		return err
	}
	switch strings.ToLower(c.Theme) {
	case "", "dark", "light":
	default:
		return fmt.Errorf("unknown theme %q", c.Theme)
	}
	if c.Search.ChunkSize < 0 || c.Search.ChunkSize > search.MaxChunkSize {
		return fmt.Errorf("search.chunk_size must be between 0 and %d", search.MaxChunkSize)
	}
	if c.Search.QueueDepth < 0 {
		return errors.New("search.queue_depth must not be negative")
	}
	if _, err := search.ParseStrategy(c.Search.Strategy); err != nil {
		return err
	}
	return nil
}

// VisualMode returns the parsed visual mode, falling back to Unicode.
func (c Config) VisualMode() hexview.VisualMode {
	m, err := hexview.ParseVisualMode(c.Visual)
	if err != nil {
		return hexview.VisualUnicode
	}
	return m
}

// SearchOptions translates the [search] table into engine options.
func (c Config) SearchOptions() []search.Option {
	var opts []search.Option
	if c.Search.ChunkSize > 0 {
		opts = append(opts, search.WithChunkSize(c.Search.ChunkSize))
	}
	if c.Search.QueueDepth > 0 {
		opts = append(opts, search.WithQueueDepth(c.Search.QueueDepth))
	}
	if s, err := search.ParseStrategy(c.Search.Strategy); err == nil {
		opts = append(opts, search.WithStrategy(s))
	}
	return opts
}
