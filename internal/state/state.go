package state

import (
	"time"

	"github.com/kk-code-lab/xv/internal/search"
)

type PromptKind int

const (
	PromptNone PromptKind = iota
	PromptSearch
	PromptGoTo
	PromptLineWidth
)

// Label returns the text shown before the prompt input.
func (k PromptKind) Label() string {
	switch k {
	case PromptSearch:
		return "Search (text or :hex): "
	case PromptGoTo:
		return "Go to offset (a + b * c): "
	case PromptLineWidth:
		return "Line width [group]: "
	default:
		return ""
	}
}

// PromptState is the single-line input shown in the status row.
type PromptState struct {
	Kind  PromptKind
	Query string
}

// Active reports whether a prompt is open.
func (p PromptState) Active() bool {
	return p.Kind != PromptNone
}

// AppState is the single source of truth for everything the renderer shows
// besides the bytes themselves.
type AppState struct {
	ScreenWidth  int
	ScreenHeight int

	HelpVisible bool
	Prompt      PromptState
	Theme       string
	AutoReload  bool

	// Status line
	StatusMessage string
	LastError     error
	LastYankTime  time.Time

	// Search
	LastQuery  string
	LastNeedle []byte
	LastSearch search.Stats

	ClipboardAvailable bool
	EditorAvailable    bool
}

// SetStatus replaces the status line message and clears any error.
func (s *AppState) SetStatus(msg string) {
	s.StatusMessage = msg
	s.LastError = nil
}

// SetError shows err in the status line.
func (s *AppState) SetError(err error) {
	s.LastError = err
	if err != nil {
		s.StatusMessage = ""
	}
}

// ThemeName returns the active theme, defaulting to dark.
func (s *AppState) ThemeName() string {
	if s.Theme == "" {
		return "dark"
	}
	return s.Theme
}
