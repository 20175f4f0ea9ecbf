package app

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kk-code-lab/xv/internal/hexview"
	statepkg "github.com/kk-code-lab/xv/internal/state"
)

// commandBuilder creates external commands; tests replace it.
var commandBuilder = exec.Command

func actionName(action statepkg.Action) string {
	return fmt.Sprintf("%T", action)
}

// handleClipboard copies the visible bytes as hex, one window row per line.
func (app *Application) handleClipboard() bool {
	if !app.clipboardAvail || len(app.clipboardCmd) == 0 {
		app.state.SetError(fmt.Errorf("no clipboard command available"))
		return true
	}

	capture := app.reader.Bytes()
	text := formatCaptureHex(capture, int(app.reader.Window().W), runtime.GOOS)
	cmd := commandBuilder(app.clipboardCmd[0], app.clipboardCmd[1:]...)
	cmd.Stdin = strings.NewReader(text)
	if err := cmd.Run(); err != nil {
		app.state.SetError(fmt.Errorf("%s: %w", app.clipboardCmd[0], err))
		return true
	}
	app.state.LastYankTime = time.Now()
	app.state.SetStatus(fmt.Sprintf("yanked %d bytes", len(capture)))
	return true
}

// formatCaptureHex renders capture as space separated hex digits with a line
// break every width bytes.
func formatCaptureHex(capture []byte, width int, goos string) string {
	if width <= 0 {
		width = len(capture)
	}
	newline := "\n"
	if strings.EqualFold(goos, "windows") {
		newline = "\r\n"
	}

	var b strings.Builder
	b.Grow(len(capture) * 3)
	for i, c := range capture {
		if i > 0 {
			if i%width == 0 {
				b.WriteString(newline)
			} else {
				b.WriteByte(' ')
			}
		}
		b.WriteString(hexview.HexDigits[c])
	}
	if len(capture) > 0 {
		b.WriteString(newline)
	}
	return b.String()
}

// handleEditorOpen hands the file to the external editor and reloads it
// afterwards so edits show up highlighted.
func (app *Application) handleEditorOpen() bool {
	if !app.state.EditorAvailable || len(app.editorCmd) == 0 {
		return false
	}

	if err := app.openFileInEditor(app.reader.Path()); err != nil {
		app.logger.Warn("editor failed", zap.Strings("cmd", app.editorCmd), zap.Error(err))
		app.state.SetError(err)
		return true
	}

	if _, err := app.reducer.Reduce(app.state, statepkg.ReloadAction{}); err != nil {
		app.state.SetError(err)
	}
	return true
}

func (app *Application) openFileInEditor(filePath string) error {
	if len(app.editorCmd) == 0 {
		return fmt.Errorf("no editor configured")
	}

	editorArgs := app.editorArgsWithFile(filePath)
	useTTY := runtime.GOOS != "windows"
	var tty *os.File
	var err error

	if useTTY {
		tty, err = os.OpenFile("/dev/tty", os.O_RDWR, 0)
		if err != nil {
			return app.openFileInEditorFallback(editorArgs)
		}
		defer func() {
			_ = tty.Close()
		}()
	}

	if err := app.screen.Suspend(); err != nil {
		return fmt.Errorf("failed to suspend screen: %w", err)
	}

	cmd := commandBuilder(editorArgs[0], editorArgs[1:]...)
	if useTTY {
		cmd.Stdin = tty
		cmd.Stdout = tty
		cmd.Stderr = tty
	} else {
		cmd.Stdin = os.Stdin
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
	}

	runErr := cmd.Run()

	if err := app.screen.Resume(); err != nil {
		return fmt.Errorf("failed to resume screen: %w", err)
	}
	app.screen.Sync()
	if runErr != nil {
		return fmt.Errorf("%s: %w", editorArgs[0], runErr)
	}
	return nil
}

func (app *Application) openFileInEditorFallback(args []string) error {
	if err := app.screen.Suspend(); err != nil {
		return fmt.Errorf("failed to suspend screen: %w", err)
	}
	defer func() {
		_ = app.screen.Resume()
		app.screen.Sync()
	}()

	cmd := commandBuilder(args[0], args[1:]...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}
	return nil
}

func (app *Application) editorArgsWithFile(filePath string) []string {
	args := make([]string, len(app.editorCmd)+1)
	copy(args, app.editorCmd)
	args[len(app.editorCmd)] = filePath
	return args
}
