package main

import (
	"flag"
	"fmt"
	"image"
	"os"
	"strconv"
	"strings"

	"github.com/example/overmark/internal/annotation"
	"github.com/example/overmark/internal/capture"
	"github.com/example/overmark/internal/export"
	"github.com/example/overmark/internal/geom"
	"github.com/example/overmark/internal/interaction"
	"github.com/example/overmark/internal/render"
)

// shapeFlag collects repeated -rect, -arrow and -text values.
type shapeFlag struct {
	kind  annotation.Kind
	items *[]annotation.Annotation
	style *annotation.Style
}

func (s shapeFlag) String() string { return "" }

func (s shapeFlag) Set(v string) error {
	a, err := parseShape(s.kind, v, *s.style)
	if err != nil {
		return err
	}
	*s.items = append(*s.items, a)
	return nil
}

// parseShape reads "x,y,w,h" and, for text, a trailing ":label".
func parseShape(kind annotation.Kind, v string, style annotation.Style) (annotation.Annotation, error) {
	label := ""
	if kind == annotation.Text {
		if i := strings.IndexByte(v, ':'); i >= 0 {
			v, label = v[:i], v[i+1:]
		}
	}
	parts := strings.Split(v, ",")
	if len(parts) != 4 {
		return annotation.Annotation{}, fmt.Errorf("%s %q: want x,y,w,h", kind, v)
	}
	var n [4]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return annotation.Annotation{}, fmt.Errorf("%s %q: %w", kind, v, err)
		}
		n[i] = f
	}
	frame := geom.R(n[0], n[1], n[2], n[3])
	if kind != annotation.Arrow {
		frame = frame.Canon()
		if frame.Degenerate() {
			return annotation.Annotation{}, fmt.Errorf("%s %q: zero size", kind, v)
		}
	}
	a := annotation.New(kind, frame, style)
	if kind == annotation.Text {
		a.Text = label
	}
	return a, nil
}

// exportCmd renders annotations onto an image file without a window.
type exportCmd struct {
	file      string
	output    string
	clipboard bool
	shadow    bool
	style     annotation.Style
	items     []annotation.Annotation
	*root
	fs *flag.FlagSet
}

func (e *exportCmd) FlagSet() *flag.FlagSet { return e.fs }

func (e *exportCmd) Program() string { return subProgram(e.root, "export") }

func parseExportCmd(args []string, r *root) (*exportCmd, error) {
	cfg := r.config
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	e := &exportCmd{root: r, fs: fs, style: cfg.AnnotationStyle()}
	fs.StringVar(&e.file, "file", "", "background image (PNG or JPEG); blank canvas when empty")
	fs.StringVar(&e.output, "output", cfg.Export.Output, "PNG file to write")
	fs.BoolVar(&e.clipboard, "clipboard", false, "copy the result to the clipboard")
	fs.BoolVar(&e.shadow, "shadow", cfg.Export.Shadow, "add a drop shadow")
	for _, k := range annotation.Kinds {
		fs.Var(shapeFlag{kind: k, items: &e.items, style: &e.style}, k.String(), "add a "+k.String()+" annotation")
	}
	fs.Usage = usageFunc(e)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if e.output == "" && !e.clipboard {
		return nil, &UsageError{of: e, msg: "an -output file or -clipboard is required"}
	}
	return e, nil
}

func (e *exportCmd) Run() error {
	img, err := e.background()
	if err != nil {
		return err
	}
	sink, err := e.sink(e.output, e.clipboard)
	if err != nil {
		return err
	}
	ctrl := interaction.New(interaction.WithLogger(e.log))
	defer ctrl.Close()
	for _, a := range e.items {
		ctrl.Add(a)
	}

	opts := []export.Option{
		export.WithLogger(e.log.With().Str("component", "export").Logger()),
		export.WithNotifier(e.notifier()),
	}
	if e.shadow {
		opts = append(opts, export.WithShadow(render.DefaultShadow()))
	}
	surface := export.Static{Rect: img.Bounds(), Image: img, Items: ctrl.Annotations().Snapshot()}
	var sig export.Signal
	sig.Request()
	res, err := export.New(surface, sink, opts...).Observe(sig.Requested())
	sig.Reset()
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	fmt.Fprintf(os.Stdout, "%d annotations exported to %s\n", len(surface.Items), res.Sink)
	return nil
}

func (e *exportCmd) background() (*image.RGBA, error) {
	if e.file != "" {
		return capture.LoadFile(e.file)
	}
	return capture.Blank(e.config.Canvas.Width, e.config.Canvas.Height)
}
