package input

import (
	"unicode"

	"github.com/gdamore/tcell/v2"
	statepkg "github.com/kk-code-lab/xv/internal/state"
)

// InputHandler converts tcell events to Actions
type InputHandler struct {
	actionChan chan statepkg.Action
	state      *statepkg.AppState // Reference to current state for mode checking
}

// NewInputHandler creates a new input handler
func NewInputHandler(actionChan chan statepkg.Action) *InputHandler {
	return &InputHandler{
		actionChan: actionChan,
	}
}

// SetState sets the state reference for mode checking
func (ih *InputHandler) SetState(state *statepkg.AppState) {
	ih.state = state
}

// ProcessEvent converts a tcell event into an Action. It returns false once
// the user asked to quit.
func (ih *InputHandler) ProcessEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return ih.processKeyEvent(ev)
	case *tcell.EventResize:
		w, h := ev.Size()
		ih.actionChan <- statepkg.ResizeAction{Width: w, Height: h}
		return true
	default:
		return true
	}
}

// processKeyEvent handles keyboard input
func (ih *InputHandler) processKeyEvent(ev *tcell.EventKey) bool {
	helpVisible := ih.state != nil && ih.state.HelpVisible
	promptActive := ih.state != nil && ih.state.Prompt.Active()

	if ev.Key() == tcell.KeyCtrlC {
		ih.actionChan <- statepkg.QuitAction{}
		return false
	}

	if helpVisible {
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyF1:
			ih.actionChan <- statepkg.HelpHideAction{}
		case tcell.KeyRune:
			r := ev.Rune()
			if r == '?' || r == 'q' || r == 'Q' {
				ih.actionChan <- statepkg.HelpHideAction{}
			}
		}
		return true
	}

	if promptActive {
		return ih.processPromptKey(ev)
	}

	// Handle special keys first
	switch ev.Key() {
	case tcell.KeyEscape:
		ih.actionChan <- statepkg.QuitAction{}
		return false
	case tcell.KeyCtrlZ:
		ih.actionChan <- statepkg.SuspendAction{}
		return true
	case tcell.KeyF1:
		ih.actionChan <- statepkg.HelpToggleAction{}
		return true
	case tcell.KeyUp:
		ih.actionChan <- statepkg.ScrollRowsAction{Delta: -1}
		return true
	case tcell.KeyDown:
		ih.actionChan <- statepkg.ScrollRowsAction{Delta: 1}
		return true
	case tcell.KeyLeft:
		ih.actionChan <- statepkg.ScrollColumnsAction{Delta: -1}
		return true
	case tcell.KeyRight:
		ih.actionChan <- statepkg.ScrollColumnsAction{Delta: 1}
		return true
	case tcell.KeyPgUp, tcell.KeyCtrlB:
		ih.actionChan <- statepkg.ScrollPageAction{Pages: -1}
		return true
	case tcell.KeyPgDn, tcell.KeyCtrlF:
		ih.actionChan <- statepkg.ScrollPageAction{Pages: 1}
		return true
	case tcell.KeyHome:
		ih.actionChan <- statepkg.ScrollToStartAction{}
		return true
	case tcell.KeyEnd:
		ih.actionChan <- statepkg.ScrollToEndAction{}
		return true
	case tcell.KeyRune:
		return ih.processRune(ev.Rune())
	}

	return true
}

func (ih *InputHandler) processPromptKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape:
		ih.actionChan <- statepkg.PromptCancelAction{}
	case tcell.KeyEnter:
		ih.actionChan <- statepkg.PromptSubmitAction{}
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		ih.actionChan <- statepkg.PromptBackspaceAction{}
	case tcell.KeyRune:
		if r := ev.Rune(); unicode.IsPrint(r) {
			ih.actionChan <- statepkg.PromptCharAction{Char: r}
		}
	}
	return true
}

func (ih *InputHandler) processRune(r rune) bool {
	var action statepkg.Action
	switch r {
	case 'q', 'Q':
		ih.actionChan <- statepkg.QuitAction{}
		return false
	case '?':
		action = statepkg.HelpToggleAction{}
	case 'k':
		action = statepkg.ScrollRowsAction{Delta: -1}
	case 'j':
		action = statepkg.ScrollRowsAction{Delta: 1}
	case 'h':
		action = statepkg.ScrollColumnsAction{Delta: -1}
	case 'l':
		action = statepkg.ScrollColumnsAction{Delta: 1}
	case ' ':
		action = statepkg.ScrollPageAction{Pages: 1}
	case 'f', '/':
		action = statepkg.PromptOpenAction{Kind: statepkg.PromptSearch}
	case 'g':
		action = statepkg.PromptOpenAction{Kind: statepkg.PromptGoTo}
	case 'w':
		action = statepkg.PromptOpenAction{Kind: statepkg.PromptLineWidth}
	case 'n':
		action = statepkg.NextMatchAction{}
	case 'c':
		action = statepkg.ClearHighlightsAction{}
	case 'r':
		action = statepkg.ReloadAction{}
	case 'a':
		action = statepkg.ToggleAutoReloadAction{}
	case 'v':
		action = statepkg.ToggleVisualAction{}
	case 't':
		action = statepkg.ToggleThemeAction{}
	case 'y':
		action = statepkg.YankAction{}
	case 'e':
		action = statepkg.OpenEditorAction{}
	case 'G':
		action = statepkg.ScrollToEndAction{}
	default:
		return true
	}
	ih.actionChan <- action
	return true
}
