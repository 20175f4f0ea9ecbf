package state

// Action is any operation on the application state
type Action interface{}

// ===== NAVIGATION ACTIONS =====

type ScrollRowsAction struct {
	Delta int
}

type ScrollColumnsAction struct {
	Delta int
}

// ScrollPageAction moves by Pages window heights; negative moves up.
type ScrollPageAction struct {
	Pages int
}

type ScrollToStartAction struct{}
type ScrollToEndAction struct{}

// ===== PROMPT ACTIONS =====

type PromptOpenAction struct {
	Kind PromptKind
}

type PromptCharAction struct {
	Char rune
}

type PromptBackspaceAction struct{}
type PromptCancelAction struct{}
type PromptSubmitAction struct{}

// ===== HIGHLIGHT ACTIONS =====

type NextMatchAction struct{}
type ClearHighlightsAction struct{}

// ===== FILE ACTIONS =====

// ReloadAction reopens the file and highlights bytes that changed in the
// visible window.
type ReloadAction struct{}

// FileChangedAction is dispatched by the file watcher.
type FileChangedAction struct {
	Events int
}

type ToggleAutoReloadAction struct{}

// ===== DISPLAY ACTIONS =====

type ToggleVisualAction struct{}
type ToggleThemeAction struct{}
type HelpToggleAction struct{}
type HelpHideAction struct{}

type ResizeAction struct {
	Width  int
	Height int
}

// ===== APPLICATION ACTIONS =====

type YankAction struct{}
type OpenEditorAction struct{}
type SuspendAction struct{}
type QuitAction struct{}
