package render

import (
	"strings"

	statepkg "github.com/kk-code-lab/xv/internal/state"
)

// buildFooterHelpText returns the contextual footer hint string with leading/trailing padding.
func buildFooterHelpText(state *statepkg.AppState) string {
	parts := buildFooterHelpSegments(state)
	if len(parts) == 0 {
		return ""
	}
	return " " + strings.Join(parts, "  ") + " "
}

// buildFooterHelpSegments assembles context-aware help hints for the footer.
func buildFooterHelpSegments(state *statepkg.AppState) []string {
	if state == nil {
		return nil
	}

	segments := contextualHelpSegments(state)
	segments = append(segments, persistentHelpSegments(state)...)

	return segments
}

func contextualHelpSegments(state *statepkg.AppState) []string {
	switch {
	case state.Prompt.Active():
		return []string{
			"↵: submit",
			"Esc: cancel",
		}
	case state.LastNeedle != nil:
		return []string{
			"q: quit",
			"n: next match",
			"c: clear",
			"f: search",
			"g: go to",
		}
	default:
		return []string{
			"q: quit",
			"g: go to",
			"f: search",
			"v: visual",
			"w: width",
			"?: help",
		}
	}
}

func persistentHelpSegments(state *statepkg.AppState) []string {
	if state == nil || state.Prompt.Active() {
		return nil
	}

	segments := []string{}
	if state.AutoReload {
		segments = append(segments, "a: auto reload on")
	} else {
		segments = append(segments, "r: reload")
	}

	if state.ClipboardAvailable {
		segments = append(segments, "y: yank hex")
	}

	if state.EditorAvailable {
		segments = append(segments, "e: edit file")
	}

	return segments
}
