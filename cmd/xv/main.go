package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"golang.org/x/term"

	apppkg "github.com/kk-code-lab/xv/internal/app"
	"github.com/kk-code-lab/xv/internal/config"
	"github.com/kk-code-lab/xv/internal/fs"
	"github.com/kk-code-lab/xv/internal/hexview"
	"github.com/kk-code-lab/xv/internal/search"
	"github.com/kk-code-lab/xv/internal/textutil"
	"github.com/kk-code-lab/xv/internal/ui/dump"
)

func printHelp(w io.Writer, flags *pflag.FlagSet) {
	fmt.Fprint(w, `xv - Terminal hex viewer

USAGE:
    xv [OPTIONS] FILE

OPTIONS:
`)
	fmt.Fprint(w, flags.FlagUsages())
}

type options struct {
	help       bool
	width      uint64
	group      uint16
	visual     string
	theme      string
	strategy   string
	offset     string
	rows       uint64
	dump       bool
	watch      bool
	configPath string
	logPath    string
}

func newFlagSet(opts *options) *pflag.FlagSet {
	flags := pflag.NewFlagSet("xv", pflag.ContinueOnError)
	flags.BoolVarP(&opts.help, "help", "h", false, "Show this help message and exit")
	flags.Uint64VarP(&opts.width, "width", "w", 0, "Bytes per row")
	flags.Uint16VarP(&opts.group, "group", "g", 0, "Bytes per column group (0 disables groups)")
	flags.StringVar(&opts.visual, "visual", "", "Visual column: unicode, ascii, cp437 or off")
	flags.StringVar(&opts.theme, "theme", "", "Colour theme: dark or light")
	flags.StringVar(&opts.strategy, "search", "", "Search strategy: auto, sequential or pipelined")
	flags.StringVarP(&opts.offset, "offset", "o", "", "Start at this offset (0x10 + 4 * 16)")
	flags.Uint64VarP(&opts.rows, "rows", "n", 0, "Rows to print in dump mode (0 for all)")
	flags.BoolVarP(&opts.dump, "dump", "d", false, "Print the file and exit instead of opening the viewer")
	flags.BoolVar(&opts.watch, "watch", false, "Reload automatically when the file changes")
	flags.StringVar(&opts.configPath, "config", "", "Config file (default $XDG_CONFIG_HOME/xv/config.toml)")
	flags.StringVar(&opts.logPath, "log", "", "Write debug logs to this file")
	return flags
}

func main() {
	// Set UTF-8 as fallback encoding for maximum compatibility
	tcell.SetEncodingFallback(tcell.EncodingFallbackUTF8)

	interactive := term.IsTerminal(int(os.Stdout.Fd()))
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr, interactive))
}

// run executes xv and returns the process exit code.
func run(args []string, stdout, stderr io.Writer, interactive bool) int {
	var opts options
	flags := newFlagSet(&opts)
	flags.SetOutput(stderr)
	if err := flags.Parse(args); err != nil {
		return 2
	}
	if opts.help {
		printHelp(stdout, flags)
		return 0
	}
	if flags.NArg() != 1 {
		printHelp(stderr, flags)
		return 2
	}
	path := flags.Arg(0)

	cfg, err := loadConfig(opts, flags)
	if err != nil {
		fmt.Fprintf(stderr, "xv: %v\n", err)
		return 2
	}

	var offset uint64
	if opts.offset != "" {
		if offset, err = textutil.ParseOffsetExpr(opts.offset); err != nil {
			fmt.Fprintf(stderr, "xv: --offset: %v\n", err)
			return 2
		}
	}

	logger, err := newLogger(cfg.LogFile)
	if err != nil {
		fmt.Fprintf(stderr, "xv: log: %v\n", err)
		return 1
	}
	defer func() {
		_ = logger.Sync()
	}()

	src, err := fs.Open(path)
	if err != nil {
		fmt.Fprintln(stderr, openErrorMessage(path, err))
		return 1
	}

	engine := search.New(append(cfg.SearchOptions(), search.WithLogger(logger))...)
	reader := hexview.NewReader(src, hexview.WithEngine(engine), hexview.WithLogger(logger))
	if err := reader.SetLineWidth(cfg.LineWidth); err != nil {
		_ = reader.Close()
		fmt.Fprintf(stderr, "xv: %v\n", err)
		return 2
	}
	reader.SetGroup(cfg.Group)
	reader.SetVisual(cfg.VisualMode())
	logger.Info("opened", zap.String("path", reader.Path()), zap.Uint64("length", reader.Length()))

	if opts.dump || !interactive {
		defer func() {
			_ = reader.Close()
		}()
		if err := dump.Write(stdout, reader, dump.Options{Offset: offset, Rows: opts.rows}); err != nil {
			fmt.Fprintf(stderr, "xv: %v\n", err)
			return 1
		}
		return 0
	}

	if opts.offset != "" {
		if err := reader.GoToOffset(offset); err != nil {
			_ = reader.Close()
			fmt.Fprintf(stderr, "xv: %v\n", err)
			return 2
		}
	}

	app, err := apppkg.NewApplication(reader, apppkg.Options{
		Theme:      cfg.Theme,
		AutoReload: cfg.Watch,
		Watch:      true,
		Logger:     logger,
	})
	if err != nil {
		_ = reader.Close()
		fmt.Fprintf(stderr, "Error initializing application: %v\n", err)
		return 1
	}
	defer func() {
		_ = app.Close()
	}()

	app.Run()
	return 0
}

// loadConfig reads the config file and applies flag overrides.
func loadConfig(opts options, flags *pflag.FlagSet) (config.Config, error) {
	path := opts.configPath
	if path == "" {
		var err error
		if path, err = config.DefaultPath(); err != nil {
			path = ""
		}
	}

	cfg := config.Default()
	if path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}

	if flags.Changed("width") {
		cfg.LineWidth = opts.width
	}
	if flags.Changed("group") {
		cfg.Group = opts.group
	}
	if flags.Changed("visual") {
		cfg.Visual = opts.visual
	}
	if flags.Changed("theme") {
		cfg.Theme = opts.theme
	}
	if flags.Changed("search") {
		cfg.Search.Strategy = opts.strategy
	}
	if flags.Changed("watch") {
		cfg.Watch = opts.watch
	}
	if flags.Changed("log") {
		cfg.LogFile = opts.logPath
	}
	return cfg, cfg.Validate()
}

// newLogger writes JSON logs to path, or discards them when path is empty.
// The terminal belongs to the viewer, so logs never go to stderr.
func newLogger(path string) (*zap.Logger, error) {
	if path == "" {
		return zap.NewNop(), nil
	}
	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	zcfg.OutputPaths = []string{path}
	zcfg.ErrorOutputPaths = []string{path}
	return zcfg.Build()
}

func openErrorMessage(path string, err error) string {
	var openErr *fs.OpenError
	if errors.As(err, &openErr) {
		switch openErr.Kind {
		case fs.KindNotFound:
			return "File not found: " + path
		case fs.KindPermission:
			return "Permission denied: " + path
		default:
			return fmt.Sprintf("%v: %s", openErr.Err, path)
		}
	}
	return fmt.Sprintf("%v: %s", err, path)
}
