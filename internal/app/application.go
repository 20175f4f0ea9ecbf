package app

import (
	"context"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/kk-code-lab/xv/internal/hexview"
	statepkg "github.com/kk-code-lab/xv/internal/state"
	"github.com/kk-code-lab/xv/internal/watch"
	inputui "github.com/kk-code-lab/xv/internal/ui/input"
	renderui "github.com/kk-code-lab/xv/internal/ui/render"
)

// Options configures a new Application.
type Options struct {
	Theme      string
	AutoReload bool
	// Watch subscribes to changes of the file so they can be reloaded.
	Watch  bool
	Logger *zap.Logger
}

// Application represents the running app.
type Application struct {
	screen   tcell.Screen
	reader   *hexview.Reader
	state    *statepkg.AppState
	reducer  *statepkg.StateReducer
	renderer *renderui.Renderer
	input    *inputui.InputHandler
	actionCh chan statepkg.Action
	logger   *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc

	watchCh   <-chan []watch.EventInfo
	stopWatch func()

	// Last failed capture, cleared from the status line once a capture succeeds.
	captureErr error

	shouldQuit     bool
	clipboardCmd   []string
	clipboardAvail bool
	editorCmd      []string
}

// Close cleans up resources.
func (app *Application) Close() error {
	app.cancel()
	if app.stopWatch != nil {
		app.stopWatch()
	}
	close(app.actionCh)
	app.screen.Fini()
	return app.reader.Close()
}

// State returns the current application state.
func (app *Application) State() *statepkg.AppState {
	return app.state
}
