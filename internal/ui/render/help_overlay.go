package render

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	statepkg "github.com/kk-code-lab/xv/internal/state"
	textutil "github.com/kk-code-lab/xv/internal/textutil"
)

type helpOverlayEntry struct {
	keys string
	desc string
}

type helpOverlaySection struct {
	title   string
	entries []helpOverlayEntry
}

func buildHelpOverlayLines(state *statepkg.AppState) []string {
	autoDesc := "Reload automatically on change"
	if state != nil && state.AutoReload {
		autoDesc = "Stop reloading on change"
	}

	sections := []helpOverlaySection{
		{
			title: "Navigation",
			entries: []helpOverlayEntry{
				{keys: "↑/↓ or k/j", desc: "Scroll one row"},
				{keys: "←/→ or h/l", desc: "Scroll one column"},
				{keys: "PgUp/PgDn", desc: "Scroll one page"},
				{keys: "Home/End", desc: "Start / end of file"},
				{keys: "g", desc: "Go to offset (0x10 + 4 * 16)"},
			},
		},
		{
			title: "Search & Highlights",
			entries: []helpOverlayEntry{
				{keys: "f or /", desc: "Search text, or hex after ':'"},
				{keys: "n", desc: "Next match"},
				{keys: "c", desc: "Clear highlights"},
			},
		},
		{
			title: "Display",
			entries: []helpOverlayEntry{
				{keys: "w", desc: "Line width and group size"},
				{keys: "v", desc: "Cycle visual column"},
				{keys: "t", desc: "Toggle theme"},
			},
		},
		{
			title: "File",
			entries: []helpOverlayEntry{
				{keys: "r", desc: "Reload and highlight changes"},
				{keys: "a", desc: autoDesc},
				{keys: "y", desc: "Yank visible bytes as hex"},
				{keys: "e", desc: "Open in external editor ($EDITOR)"},
			},
		},
		{
			title: "Exit",
			entries: []helpOverlayEntry{
				{keys: "q / Esc", desc: "Quit"},
				{keys: "Ctrl+C", desc: "Quit immediately"},
				{keys: "Ctrl+Z", desc: "Suspend"},
				{keys: "? / F1", desc: "Close this help"},
			},
		},
	}

	lines := make([]string, 0, 32)
	for i, section := range sections {
		if i > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, section.title)
		for _, entry := range section.entries {
			lines = append(lines, formatHelpOverlayEntry(entry))
		}
	}

	return lines
}

func formatHelpOverlayEntry(entry helpOverlayEntry) string {
	key := textutil.SanitizeTerminalText(entry.keys)
	desc := textutil.SanitizeTerminalText(entry.desc)
	return fmt.Sprintf("  %-14s %s", key, desc)
}

func (r *Renderer) drawHelpOverlay(state *statepkg.AppState, w, h int) {
	baseStyle := tcell.StyleDefault.Background(r.theme.Background).Foreground(r.theme.Foreground)
	for y := 0; y < h; y++ {
		r.fillLine(0, w, y, baseStyle)
	}

	title := " Help "
	headerStyle := baseStyle.Background(r.theme.FooterBg).Foreground(r.theme.FooterFg).Bold(true)
	titleStart := 0
	titleWidth := r.measureTextWidth(title)
	if w > titleWidth {
		titleStart = (w - titleWidth) / 2
	}
	r.drawTextLine(titleStart, 0, w-titleStart, title, headerStyle)

	lines := buildHelpOverlayLines(state)
	row := 2
	maxRow := h - 1
	for _, line := range lines {
		if row >= maxRow {
			break
		}
		text := strings.TrimRight(line, " ")
		text = textutil.TruncateToWidth(text, w-4)
		r.drawTextLine(2, row, w-4, text, baseStyle)
		row++
	}

	footer := "? toggle · Esc/q close"
	if h > 0 {
		r.drawTextLine(0, h-1, w, textutil.TruncateToWidth(footer, w), headerStyle)
	}
}
