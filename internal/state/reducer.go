package state

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/kk-code-lab/xv/internal/hexview"
	"github.com/kk-code-lab/xv/internal/search"
	"github.com/kk-code-lab/xv/internal/textutil"
)

var ErrNoMatches = errors.New("no matches")

// StateReducer applies actions to the state and the viewing session.
type StateReducer struct {
	reader *hexview.Reader
	logger *zap.Logger
	ctx    context.Context

	// Offset of the last match jumped to; next-match searches after it.
	matchPos   uint64
	matchValid bool
}

// NewStateReducer creates a reducer driving reader. A nil logger discards
// output.
func NewStateReducer(reader *hexview.Reader, logger *zap.Logger) *StateReducer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StateReducer{
		reader: reader,
		logger: logger,
		ctx:    context.Background(),
	}
}

// WithContext sets the context used for searches started by the reducer.
func (r *StateReducer) WithContext(ctx context.Context) *StateReducer {
	r.ctx = ctx
	return r
}

// Reduce applies action, mutating state in place.
func (r *StateReducer) Reduce(state *AppState, action Action) (*AppState, error) {
	switch a := action.(type) {

	// ===== NAVIGATION =====

	case ScrollRowsAction:
		r.reader.ScrollRows(a.Delta)
		return state, nil

	case ScrollColumnsAction:
		r.reader.ScrollColumns(a.Delta)
		return state, nil

	case ScrollPageAction:
		r.reader.ScrollRows(a.Pages * int(r.reader.Window().H))
		return state, nil

	case ScrollToStartAction:
		r.reader.Home()
		return state, nil

	case ScrollToEndAction:
		r.reader.End()
		return state, nil

	// ===== PROMPT =====

	case PromptOpenAction:
		state.HelpVisible = false
		state.Prompt = PromptState{Kind: a.Kind, Query: r.promptDefault(state, a.Kind)}
		return state, nil

	case PromptCharAction:
		if state.Prompt.Active() {
			state.Prompt.Query += string(a.Char)
		}
		return state, nil

	case PromptBackspaceAction:
		if q := state.Prompt.Query; q != "" {
			_, size := utf8.DecodeLastRuneInString(q)
			state.Prompt.Query = q[:len(q)-size]
		}
		return state, nil

	case PromptCancelAction:
		state.Prompt = PromptState{}
		return state, nil

	case PromptSubmitAction:
		prompt := state.Prompt
		state.Prompt = PromptState{}
		err := r.submitPrompt(state, prompt)
		if err != nil {
			state.SetError(err)
		}
		return state, err

	// ===== HIGHLIGHTS =====

	case NextMatchAction:
		err := r.nextMatch(state)
		if err != nil {
			state.SetError(err)
		}
		return state, err

	case ClearHighlightsAction:
		r.reader.ClearHighlights()
		r.matchValid = false
		state.SetStatus("highlights cleared")
		return state, nil

	// ===== FILE =====

	case ReloadAction:
		return state, r.reload(state)

	case FileChangedAction:
		if !state.AutoReload {
			stale, err := r.reader.Stale()
			if err != nil {
				return state, err
			}
			if stale {
				state.SetStatus("file changed on disk (r to reload)")
			}
			return state, nil
		}
		return state, r.reload(state)

	case ToggleAutoReloadAction:
		state.AutoReload = !state.AutoReload
		if state.AutoReload {
			state.SetStatus("auto reload on")
		} else {
			state.SetStatus("auto reload off")
		}
		return state, nil

	// ===== DISPLAY =====

	case ToggleVisualAction:
		mode := r.reader.Visual().Next()
		r.reader.SetVisual(mode)
		state.SetStatus("visual: " + mode.String())
		return state, nil

	case ToggleThemeAction:
		if state.ThemeName() == "dark" {
			state.Theme = "light"
		} else {
			state.Theme = "dark"
		}
		state.SetStatus("theme: " + state.Theme)
		return state, nil

	case HelpToggleAction:
		state.HelpVisible = !state.HelpVisible
		return state, nil

	case HelpHideAction:
		state.HelpVisible = false
		return state, nil

	case ResizeAction:
		state.ScreenWidth = a.Width
		state.ScreenHeight = a.Height
		return state, nil
	}

	return state, nil
}

func (r *StateReducer) promptDefault(state *AppState, kind PromptKind) string {
	switch kind {
	case PromptSearch:
		return state.LastQuery
	case PromptLineWidth:
		return fmt.Sprintf("%d %d", r.reader.LineWidth(), r.reader.Group())
	default:
		return ""
	}
}

func (r *StateReducer) submitPrompt(state *AppState, prompt PromptState) error {
	switch prompt.Kind {
	case PromptSearch:
		return r.search(state, prompt.Query)
	case PromptGoTo:
		offset, err := textutil.ParseOffsetExpr(prompt.Query)
		if err != nil {
			return err
		}
		if err := r.reader.GoToOffset(offset); err != nil {
			return err
		}
		state.SetStatus(fmt.Sprintf("at 0x%X", offset))
		return nil
	case PromptLineWidth:
		return r.setWidths(state, prompt.Query)
	}
	return nil
}

func (r *StateReducer) search(state *AppState, query string) error {
	needle, err := search.ParseQuery(query)
	if err != nil {
		return err
	}
	state.LastQuery = query
	state.LastNeedle = needle

	r.reader.ClearHighlights()
	r.matchValid = false
	stats, err := r.reader.Search(r.ctx, needle)
	state.LastSearch = stats
	if err != nil && !errors.Is(err, search.ErrIncomplete) {
		return err
	}

	if stats.Matches == 0 {
		if err != nil {
			return err
		}
		state.SetStatus(fmt.Sprintf("%q: %s", query, ErrNoMatches))
		return nil
	}

	if jumpErr := r.jumpFrom(r.reader.Layout().Origin()); jumpErr != nil {
		return jumpErr
	}
	if err != nil {
		r.logger.Warn("search incomplete", zap.String("query", query), zap.Error(err))
		return fmt.Errorf("%d matches so far: %w", stats.Matches, err)
	}
	state.SetStatus(fmt.Sprintf("%d matches for %s", stats.Matches, search.FormatHex(needle)))
	return nil
}

func (r *StateReducer) nextMatch(state *AppState) error {
	from := r.reader.Layout().Origin()
	if r.matchValid {
		from = r.matchPos + 1
	}
	if err := r.jumpFrom(from); err != nil {
		return err
	}
	state.SetStatus(fmt.Sprintf("match at 0x%X", r.matchPos))
	return nil
}

// jumpFrom reveals the first match at or after from, wrapping to the start of
// the file.
func (r *StateReducer) jumpFrom(from uint64) error {
	offset, ok := r.reader.NextMatch(from)
	if !ok {
		offset, ok = r.reader.NextMatch(0)
	}
	if !ok {
		return ErrNoMatches
	}
	r.matchPos = offset
	r.matchValid = true
	return r.reader.Reveal(offset)
}

func (r *StateReducer) setWidths(state *AppState, query string) error {
	fields := strings.Fields(query)
	if len(fields) == 0 || len(fields) > 2 {
		return fmt.Errorf("expected \"width [group]\", got %q", query)
	}
	width, err := textutil.ParseNumber(fields[0])
	if err != nil {
		return err
	}
	group := uint64(r.reader.Group())
	if len(fields) == 2 {
		if group, err = textutil.ParseNumber(fields[1]); err != nil {
			return err
		}
		if group > math.MaxUint16 {
			return fmt.Errorf("group %d too large", group)
		}
	}
	if err := r.reader.SetLineWidth(width); err != nil {
		return err
	}
	r.reader.SetGroup(uint16(group))
	state.SetStatus(fmt.Sprintf("line width %d, group %d", width, group))
	return nil
}

func (r *StateReducer) reload(state *AppState) error {
	changed, err := r.reader.Reload()
	if err != nil {
		state.SetError(err)
		return err
	}
	r.logger.Info("reloaded", zap.String("path", r.reader.Path()), zap.Bool("changed", changed))
	if changed {
		state.SetStatus("reloaded: changes highlighted")
	} else {
		state.SetStatus("reloaded: no changes in view")
	}
	return nil
}
