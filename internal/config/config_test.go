package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kk-code-lab/xv/internal/hexview"
	"github.com/kk-code-lab/xv/internal/search"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
line_width = 32
visual = "cp437"
theme = "light"
watch = true

[search]
queue_depth = 4
strategy = "sequential"
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, uint64(32), cfg.LineWidth)
	assert.Equal(t, uint16(hexview.DefaultGroup), cfg.Group)
	assert.Equal(t, hexview.VisualCP437, cfg.VisualMode())
	assert.Equal(t, "light", cfg.Theme)
	assert.True(t, cfg.Watch)
	assert.Equal(t, search.DefaultChunkSize, cfg.Search.ChunkSize)
	assert.Equal(t, 4, cfg.Search.QueueDepth)
	assert.Len(t, cfg.SearchOptions(), 3)
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := map[string]string{
		"zero width":  "line_width = 0",
		"visual":      `visual = "ebcdic"`,
		"theme":       `theme = "neon"`,
		"strategy":    "[search]\nstrategy = \"io_uring\"",
		"unknown key": "colour = 1",
		"syntax":      "line_width = ",
		"negative qd": "[search]\nqueue_depth = -1",
		"huge chunk":  "[search]\nchunk_size = 1073741824",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			cfg, err := Load(writeConfig(t, body))
			assert.Error(t, err)
			assert.Equal(t, Default(), cfg)
		})
	}
}

func TestDefaultPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	t.Setenv("HOME", "/tmp/home")
	path, err := DefaultPath()
	require.NoError(t, err)
	assert.Equal(t, "config.toml", filepath.Base(path))
	assert.Equal(t, "xv", filepath.Base(filepath.Dir(path)))
}
