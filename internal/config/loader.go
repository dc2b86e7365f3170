package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/example/overmark/internal/annotation"
)

// Loader handles loading the configuration.
type Loader struct {
	Version      string // Build version, used to determine dev mode
	OverridePath string // Explicit config file, e.g. from -config
}

// NewLoader creates a new Loader.
func NewLoader(version string, overridePath string) *Loader {
	return &Loader{
		Version:      version,
		OverridePath: overridePath,
	}
}

// Defaults registers every key with its default value.
func Defaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("canvas.width", 1024)
	v.SetDefault("canvas.height", 768)
	v.SetDefault("style.color", "#FF0000")
	v.SetDefault("style.line_width", 2.0)
	v.SetDefault("style.font_size", 16.0)
	v.SetDefault("style.text", "Text")
	v.SetDefault("interaction.kind", "rect")
	v.SetDefault("interaction.handle_radius", 6.0)
	v.SetDefault("interaction.min_drag", 5.0)
	v.SetDefault("interaction.tap_jitter", 3.0)
	v.SetDefault("interaction.marker_lifetime", "5s")
	v.SetDefault("export.output", "")
	v.SetDefault("export.clipboard", true)
	v.SetDefault("export.shadow", false)
	v.SetDefault("notify.export", false)
}

// Load reads defaults, the first config file found and the environment.
func (l *Loader) Load() (*Config, error) {
	v := viper.New()
	Defaults(v)
	v.SetEnvPrefix("OVERMARK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	path := l.GetConfigPath()
	if l.OverridePath != "" && path != l.OverridePath {
		return nil, fmt.Errorf("config %s: %w", l.OverridePath, os.ErrNotExist)
	}
	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}
	cfg, err := decode(v)
	if err != nil {
		if path != "" {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return nil, err
	}
	cfg.Path = path
	return cfg, nil
}

// GetConfigPath returns the path to the configuration file, or empty string if not found.
func (l *Loader) GetConfigPath() string {
	var candidates []string
	if l.OverridePath != "" {
		candidates = append(candidates, l.OverridePath)
	}
	if l.Version == "dev" {
		if wd, err := os.Getwd(); err == nil {
			candidates = append(candidates, filepath.Join(wd, "overmark.toml"))
		}
	}
	if dir, err := os.UserConfigDir(); err == nil {
		candidates = append(candidates, filepath.Join(dir, "overmark", "config.toml"))
	}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".config", "overmark", "config.toml"))
	}
	for _, p := range candidates {
		if st, err := os.Stat(p); err == nil && !st.IsDir() {
			return p
		}
	}
	return ""
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	var errs []error

	cfg.Log.Level = strings.ToLower(strings.TrimSpace(v.GetString("log.level")))
	cfg.Canvas.Width = v.GetInt("canvas.width")
	cfg.Canvas.Height = v.GetInt("canvas.height")
	if cfg.Canvas.Width <= 0 || cfg.Canvas.Height <= 0 {
		errs = append(errs, fmt.Errorf("canvas size %dx%d must be positive", cfg.Canvas.Width, cfg.Canvas.Height))
	}

	col, err := ParseHex(v.GetString("style.color"))
	if err != nil {
		errs = append(errs, fmt.Errorf("style.color: %w", err))
	}
	cfg.Style.Color = col
	cfg.Style.LineWidth = v.GetFloat64("style.line_width")
	cfg.Style.FontSize = v.GetFloat64("style.font_size")
	cfg.Style.Text = v.GetString("style.text")
	errs = append(errs,
		positive("style.line_width", cfg.Style.LineWidth),
		positive("style.font_size", cfg.Style.FontSize))

	kind, err := annotation.ParseKind(v.GetString("interaction.kind"))
	if err != nil {
		errs = append(errs, fmt.Errorf("interaction.kind: %w", err))
	}
	cfg.Interaction.Kind = kind
	cfg.Interaction.HandleRadius = v.GetFloat64("interaction.handle_radius")
	cfg.Interaction.MinDrag = v.GetFloat64("interaction.min_drag")
	cfg.Interaction.TapJitter = v.GetFloat64("interaction.tap_jitter")
	cfg.Interaction.MarkerLifetime = v.GetDuration("interaction.marker_lifetime")
	errs = append(errs,
		positive("interaction.handle_radius", cfg.Interaction.HandleRadius),
		nonNegative("interaction.min_drag", cfg.Interaction.MinDrag),
		nonNegative("interaction.tap_jitter", cfg.Interaction.TapJitter))
	if cfg.Interaction.MarkerLifetime <= 0 {
		errs = append(errs, errors.New("interaction.marker_lifetime must be positive"))
	}

	cfg.Export.Output = v.GetString("export.output")
	cfg.Export.Clipboard = v.GetBool("export.clipboard")
	cfg.Export.Shadow = v.GetBool("export.shadow")
	cfg.Notify.Export = v.GetBool("notify.export")

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func positive(key string, f float64) error {
	if f > 0 {
		return nil
	}
	return fmt.Errorf("%s must be positive, got %s", key, num(f))
}

func nonNegative(key string, f float64) error {
	if f >= 0 {
		return nil
	}
	return fmt.Errorf("%s must not be negative, got %s", key, num(f))
}
