package main

import (
	"context"
	"flag"
	"fmt"
	"image"

	"github.com/example/overmark/internal/annotation"
	"github.com/example/overmark/internal/capture"
	"github.com/example/overmark/internal/export"
	"github.com/example/overmark/internal/interaction"
	"github.com/example/overmark/internal/overlay"
	"github.com/example/overmark/internal/render"
)

var (
	captureScreenshotFn = capture.Screenshot
	runOverlayFn        = func(w *overlay.Window) { w.Run() }
)

// annotateCmd represents the annotate subcommand.
type annotateCmd struct {
	file        string
	blank       bool
	output      string
	kind        string
	display     string
	interactive bool
	cursor      bool
	clipboard   bool
	shadow      bool
	*root
	fs *flag.FlagSet
}

func (a *annotateCmd) FlagSet() *flag.FlagSet { return a.fs }

func (a *annotateCmd) Program() string { return subProgram(a.root, "annotate") }

func subProgram(r *root, name string) string {
	if r == nil {
		return name
	}
	return r.program + " " + name
}

func parseAnnotateCmd(args []string, r *root) (*annotateCmd, error) {
	cfg := r.config
	fs := flag.NewFlagSet("annotate", flag.ContinueOnError)
	a := &annotateCmd{root: r, fs: fs}
	fs.StringVar(&a.file, "file", "", "image file to annotate")
	fs.BoolVar(&a.blank, "blank", false, "annotate a blank canvas of canvas.width x canvas.height")
	fs.StringVar(&a.output, "output", cfg.Export.Output, "PNG file written on export")
	fs.StringVar(&a.kind, "kind", cfg.Interaction.Kind.String(), "initial annotation kind (rect, arrow, text)")
	fs.StringVar(&a.display, "display", "", "monitor to capture: primary, an index or a name")
	fs.BoolVar(&a.interactive, "interactive", false, "let the screenshot portal ask which area to capture")
	fs.BoolVar(&a.cursor, "cursor", false, "include the mouse pointer in the capture")
	fs.BoolVar(&a.clipboard, "clipboard", cfg.Export.Clipboard, "copy exports to the clipboard")
	fs.BoolVar(&a.shadow, "shadow", cfg.Export.Shadow, "add a drop shadow to exports")
	fs.Usage = usageFunc(a)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, &UsageError{of: a, msg: fmt.Sprintf("unexpected argument %q", fs.Arg(0))}
	}
	if a.file != "" && a.blank {
		return nil, &UsageError{of: a, msg: "-file and -blank are mutually exclusive"}
	}
	if _, err := annotation.ParseKind(a.kind); err != nil {
		return nil, &UsageError{of: a, msg: err.Error()}
	}
	return a, nil
}

// background returns the image the overlay draws on.
func (a *annotateCmd) background() (*image.RGBA, error) {
	switch {
	case a.file != "":
		return capture.LoadFile(a.file)
	case a.blank:
		return capture.Blank(a.config.Canvas.Width, a.config.Canvas.Height)
	}
	img, err := captureScreenshotFn(context.Background(), a.captureOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to capture screen: %w", err)
	}
	return img, nil
}

func (a *annotateCmd) captureOptions() capture.Options {
	return capture.Options{Display: a.display, Interactive: a.interactive, IncludeCursor: a.cursor}
}

func (a *annotateCmd) Run() error {
	bg, err := a.background()
	if err != nil {
		return err
	}
	sink, err := a.sink(a.output, a.clipboard)
	if err != nil {
		return err
	}
	kind, _ := annotation.ParseKind(a.kind)
	cfg := a.config

	exportOpts := []export.Option{export.WithNotifier(a.notifier())}
	if a.shadow {
		exportOpts = append(exportOpts, export.WithShadow(render.DefaultShadow()))
	}
	w, err := overlay.New(bg, sink,
		overlay.WithLogger(a.log),
		overlay.WithController(
			interaction.WithKind(kind),
			interaction.WithStyle(cfg.AnnotationStyle()),
			interaction.WithText(cfg.Style.Text),
			interaction.WithSettings(cfg.Settings()),
		),
		overlay.WithExport(exportOpts...),
	)
	if err != nil {
		return err
	}
	a.log.Info().Int("width", bg.Bounds().Dx()).Int("height", bg.Bounds().Dy()).Stringer("sink", sink).Msg("overlay open")
	runOverlayFn(w)
	return nil
}
