package app

import (
	"context"
	"os"
	"os/signal"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/kk-code-lab/xv/internal/hexview"
	statepkg "github.com/kk-code-lab/xv/internal/state"
	"github.com/kk-code-lab/xv/internal/ui/input"
	renderui "github.com/kk-code-lab/xv/internal/ui/render"
	"github.com/kk-code-lab/xv/internal/watch"
)

// NewApplication opens the terminal and starts a viewing session over reader.
// The application owns reader from here on.
func NewApplication(reader *hexview.Reader, opts Options) (*Application, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}

	return newApplication(screen, reader, opts, detectExternalCommands()), nil
}

func newApplication(screen tcell.Screen, reader *hexview.Reader, opts Options, cmds externalCommands) *Application {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	state := &statepkg.AppState{
		Theme:              opts.Theme,
		AutoReload:         opts.AutoReload,
		ClipboardAvailable: len(cmds.clipboard) > 0,
		EditorAvailable:    len(cmds.editor) > 0,
	}
	state.ScreenWidth, state.ScreenHeight = screen.Size()

	ctx, cancel := context.WithCancel(context.Background())
	actionCh := make(chan statepkg.Action, 10)
	inputHandler := input.NewInputHandler(actionCh)
	inputHandler.SetState(state)

	app := &Application{
		screen:         screen,
		reader:         reader,
		state:          state,
		reducer:        statepkg.NewStateReducer(reader, logger).WithContext(ctx),
		renderer:       renderui.NewRenderer(screen),
		input:          inputHandler,
		actionCh:       actionCh,
		logger:         logger,
		ctx:            ctx,
		cancel:         cancel,
		clipboardCmd:   cmds.clipboard,
		clipboardAvail: len(cmds.clipboard) > 0,
		editorCmd:      cmds.editor,
	}

	if opts.Watch {
		events, stop, err := watch.Watch(reader.Path())
		if err != nil {
			// Reloading by hand still works.
			logger.Warn("watch unavailable", zap.String("path", reader.Path()), zap.Error(err))
		} else {
			app.watchCh = events
			app.stopWatch = stop
		}
	}

	return app
}

// Run processes events until the user quits. Close releases the terminal.
func (app *Application) Run() {
	app.redraw()

	eventChan := make(chan tcell.Event)
	go func() {
		for {
			ev := app.screen.PollEvent()
			if ev == nil {
				return
			}
			eventChan <- ev
		}
	}()

	var sigContCh chan os.Signal
	if sigs := contSignals(); len(sigs) > 0 {
		sigContCh = make(chan os.Signal, 1)
		signal.Notify(sigContCh, sigs...)
		defer signal.Stop(sigContCh)
	}

	renderPending := false
	for !app.shouldQuit {
		if renderPending {
			app.redraw()
			renderPending = false
		}

		select {
		case ev := <-eventChan:
			if app.handleEvent(ev) {
				renderPending = true
			}
		case action := <-app.actionCh:
			if app.handleAction(action) {
				renderPending = true
			}
		case events, ok := <-app.watchCh:
			if !ok {
				app.watchCh = nil
				continue
			}
			app.logger.Debug("file changed", zap.Int("events", len(events)))
			if app.handleAction(statepkg.FileChangedAction{Events: len(events)}) {
				renderPending = true
			}
		case <-sigContCh:
			if app.resumeAfterStop() {
				renderPending = true
			}
		}

		if app.processActions() {
			renderPending = true
		}
	}
}

// redraw fits the window to the screen, captures it, and renders.
func (app *Application) redraw() {
	layout := app.renderer.Layout(app.reader)
	app.reader.SetWindowSize(layout.Width, layout.Height)
	if err := app.reader.Capture(); err != nil {
		app.logger.Warn("capture failed", zap.Error(err))
		app.state.SetError(err)
		app.captureErr = err
	} else if app.captureErr != nil {
		if app.state.LastError == app.captureErr {
			app.state.SetError(nil)
		}
		app.captureErr = nil
	}
	app.renderer.Render(app.state, app.reader)
}

func (app *Application) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey, *tcell.EventResize:
		if !app.input.ProcessEvent(ev) {
			app.shouldQuit = true
		}
	case *tcell.EventInterrupt:
		return true
	default:
		return false
	}
	return true
}

func (app *Application) processActions() bool {
	changed := false
	for {
		select {
		case action := <-app.actionCh:
			if app.handleAction(action) {
				changed = true
			}
		default:
			return changed
		}
	}
}

func (app *Application) handleAction(action statepkg.Action) bool {
	if action == nil {
		return false
	}

	switch action.(type) {
	case statepkg.QuitAction:
		app.shouldQuit = true
		return false
	case statepkg.SuspendAction:
		app.suspendToShell()
		app.resumeAfterStop()
		return true
	}

	return app.handleAppAction(action)
}

func (app *Application) handleAppAction(action statepkg.Action) bool {
	switch action.(type) {
	case statepkg.YankAction:
		return app.handleClipboard()
	case statepkg.OpenEditorAction:
		return app.handleEditorOpen()
	case statepkg.ResizeAction:
		app.screen.Sync()
	}

	if _, err := app.reducer.Reduce(app.state, action); err != nil {
		app.logger.Debug("action failed", zap.String("action", actionName(action)), zap.Error(err))
		app.state.SetError(err)
	}
	return true
}
