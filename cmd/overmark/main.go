package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/example/overmark/internal/clipboard"
	"github.com/example/overmark/internal/config"
	"github.com/example/overmark/internal/export"
	"github.com/example/overmark/internal/logging"
	"github.com/example/overmark/internal/notify"
)

var (
	version = "dev"
	commit  = ""
	date    = ""
)

type runnable interface{ Run() error }

type root struct {
	fs         *flag.FlagSet
	program    string
	configPath string
	logLevel   string
	notify     bool
	config     *config.Config
	log        zerolog.Logger
}

func (r *root) Program() string { return r.program }

func (r *root) FlagSet() *flag.FlagSet { return r.fs }

func newRoot() *root {
	r := &root{
		fs:      flag.NewFlagSet("overmark", flag.ContinueOnError),
		program: "overmark",
		log:     zerolog.Nop(),
	}
	r.fs.StringVar(&r.configPath, "config", "", "configuration file to load instead of the default search path")
	r.fs.StringVar(&r.logLevel, "log-level", "", "log level (debug, info, warn, error); overrides log.level")
	r.fs.BoolVar(&r.notify, "notify", false, "show a desktop notification after each export")
	r.fs.Usage = usageFunc(r)
	return r
}

// setup loads the configuration and builds the logger. Flags win over the
// file and the environment.
func (r *root) setup() error {
	cfg, err := config.NewLoader(version, r.configPath).Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	r.fs.Visit(func(f *flag.Flag) {
		if f.Name == "notify" {
			cfg.Notify.Export = r.notify
		}
	})
	if r.logLevel != "" {
		cfg.Log.Level = r.logLevel
	}
	r.config = cfg
	r.log = logging.New(os.Stderr, cfg.Log.Level, true)
	if cfg.Path != "" {
		r.log.Debug().Str("path", cfg.Path).Msg("config loaded")
	}
	return nil
}

func (r *root) Run(args []string) error {
	if err := r.fs.Parse(args); err != nil {
		return err
	}
	if r.fs.NArg() < 1 {
		return &UsageError{of: r}
	}
	if err := r.setup(); err != nil {
		return err
	}

	cmdName := r.fs.Arg(0)
	subArgs := r.fs.Args()[1:]

	var (
		cmd runnable
		err error
	)
	switch cmdName {
	case "annotate":
		cmd, err = parseAnnotateCmd(subArgs, r)
	case "export":
		cmd, err = parseExportCmd(subArgs, r)
	case "config":
		cmd, err = parseConfigCmd(subArgs, r)
	case "version":
		cmd = &versionCmd{r: r}
	default:
		err = &UsageError{of: r}
	}
	if err != nil {
		return err
	}
	return cmd.Run()
}

// sink builds the export destination from an output path and the clipboard
// switch.
func (r *root) sink(output string, toClipboard bool) (export.Sink, error) {
	var sinks export.MultiSink
	if output != "" {
		sinks = append(sinks, export.FileSink{Path: output})
	}
	if toClipboard {
		sinks = append(sinks, export.ClipboardSink{Clipboard: clipboard.System{}})
	}
	switch len(sinks) {
	case 0:
		return nil, errors.New("no export destination: set -output or -clipboard")
	case 1:
		return sinks[0], nil
	}
	return sinks, nil
}

func (r *root) notifier() export.Notifier {
	return notify.New(r.config.Notify.Export,
		notify.WithLogger(r.log.With().Str("component", "notify").Logger()))
}

func main() {
	r := newRoot()
	if err := r.Run(os.Args[1:]); err != nil {
		var uerr *UsageError
		switch {
		case errors.Is(err, flag.ErrHelp):
		case errors.As(err, &uerr):
			fmt.Fprintln(os.Stderr, uerr.Error())
			os.Exit(2)
		default:
			fmt.Fprintln(os.Stderr, strings.TrimSpace(err.Error()))
			os.Exit(1)
		}
	}
}
