// Package config loads overmark settings from defaults, an optional TOML file
// and OVERMARK_* environment variables.
package config

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
	"time"

	"github.com/example/overmark/internal/annotation"
	"github.com/example/overmark/internal/interaction"
)

// Config holds the application configuration.
type Config struct {
	// Path is the file the configuration was read from, if any.
	Path string

	Log struct {
		Level string
	}
	Canvas struct {
		Width  int
		Height int
	}
	Style struct {
		Color     color.RGBA
		LineWidth float64
		FontSize  float64
		Text      string
	}
	Interaction struct {
		Kind           annotation.Kind
		HandleRadius   float64
		MinDrag        float64
		TapJitter      float64
		MarkerLifetime time.Duration
	}
	Export struct {
		Output    string
		Clipboard bool
		Shadow    bool
	}
	Notify struct {
		Export bool
	}
}

// AnnotationStyle returns the style for new annotations.
func (c *Config) AnnotationStyle() annotation.Style {
	return annotation.Style{Color: c.Style.Color, LineWidth: c.Style.LineWidth, FontSize: c.Style.FontSize}
}

// Settings returns the gesture thresholds.
func (c *Config) Settings() interaction.Settings {
	return interaction.Settings{
		HandleRadius:   c.Interaction.HandleRadius,
		MinDrag:        c.Interaction.MinDrag,
		TapJitter:      c.Interaction.TapJitter,
		MarkerLifetime: c.Interaction.MarkerLifetime,
	}
}

// String returns the effective configuration in TOML form.
func (c *Config) String() string {
	var sb strings.Builder
	if c.Path != "" {
		fmt.Fprintf(&sb, "# loaded from %s\n", c.Path)
	}
	sb.WriteString("[log]\n")
	fmt.Fprintf(&sb, "level = %q\n\n", c.Log.Level)

	sb.WriteString("[canvas]\n")
	fmt.Fprintf(&sb, "width = %d\n", c.Canvas.Width)
	fmt.Fprintf(&sb, "height = %d\n\n", c.Canvas.Height)

	sb.WriteString("[style]\n")
	fmt.Fprintf(&sb, "color = %q\n", ToHex(c.Style.Color))
	fmt.Fprintf(&sb, "line_width = %s\n", num(c.Style.LineWidth))
	fmt.Fprintf(&sb, "font_size = %s\n", num(c.Style.FontSize))
	fmt.Fprintf(&sb, "text = %q\n\n", c.Style.Text)

	sb.WriteString("[interaction]\n")
	fmt.Fprintf(&sb, "kind = %q\n", c.Interaction.Kind)
	fmt.Fprintf(&sb, "handle_radius = %s\n", num(c.Interaction.HandleRadius))
	fmt.Fprintf(&sb, "min_drag = %s\n", num(c.Interaction.MinDrag))
	fmt.Fprintf(&sb, "tap_jitter = %s\n", num(c.Interaction.TapJitter))
	fmt.Fprintf(&sb, "marker_lifetime = %q\n\n", c.Interaction.MarkerLifetime)

	sb.WriteString("[export]\n")
	fmt.Fprintf(&sb, "output = %q\n", c.Export.Output)
	fmt.Fprintf(&sb, "clipboard = %v\n", c.Export.Clipboard)
	fmt.Fprintf(&sb, "shadow = %v\n\n", c.Export.Shadow)

	sb.WriteString("[notify]\n")
	fmt.Fprintf(&sb, "export = %v\n", c.Notify.Export)
	return sb.String()
}

func num(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }

// ToHex formats c as #RRGGBB, or #RRGGBBAA when it is not opaque.
func ToHex(c color.RGBA) string {
	if c.A == 0xff {
		return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02X%02X%02X%02X", c.R, c.G, c.B, c.A)
}

// ParseHex reads #RGB, #RRGGBB or #RRGGBBAA.
func ParseHex(s string) (color.RGBA, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) == 6 {
		s += "ff"
	}
	if len(s) != 8 {
		return color.RGBA{}, fmt.Errorf("invalid colour %q", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid colour %q: %w", s, err)
	}
	return color.RGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}
