// Package config loads the application configuration from a YAML file.
package config

import (
	"fmt"
	"image/color"
	"log/slog"
	"os"
	"strings"

	"github.com/Carmen-Shannon/oxy-re/common"
	"github.com/Carmen-Shannon/oxy-re/engine"
	"github.com/Carmen-Shannon/oxy-re/engine/renderable"
	"github.com/Carmen-Shannon/oxy-re/engine/renderer"
	"github.com/Carmen-Shannon/oxy-re/engine/scene"
	"github.com/Carmen-Shannon/oxy-re/engine/window"
	"golang.org/x/image/colornames"
	"gopkg.in/yaml.v3"
)

const (
	DefaultTitle      = "oxy-re"
	DefaultWidth      = 800
	DefaultHeight     = 600
	DefaultBackground = "white"
	DefaultLogLevel   = "info"
)

// Config is the application configuration.
type Config struct {
	Window   WindowConfig   `yaml:"window"`
	Renderer RendererConfig `yaml:"renderer"`

	// RecoverSurfaceErrors reconfigures or skips frames on recoverable surface errors instead of crashing.
	RecoverSurfaceErrors bool   `yaml:"recover_surface_errors"`
	Profiling            bool   `yaml:"profiling"`
	LogLevel             string `yaml:"log_level"`
}

// WindowConfig configures the window created on first resume.
type WindowConfig struct {
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}

// RendererConfig configures the renderer.
type RendererConfig struct {
	// Objects is the number of triangles drawn each frame. Nil means renderable.DefaultCount.
	Objects *int `yaml:"objects"`
	// Seed makes the object attributes reproducible. Nil draws a random seed.
	Seed                 *uint64 `yaml:"seed"`
	PresentMode          string  `yaml:"present_mode"`
	AspectMode           string  `yaml:"aspect_mode"`
	Background           string  `yaml:"background"`
	ForceFallbackAdapter bool    `yaml:"force_fallback_adapter"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	c := Config{}
	c.applyDefaults()
	return c
}

// Load reads and parses the YAML file at path. An empty path returns Default.
//
// Parameters:
//   - path: the file to read
//
// Returns:
//   - Config: the parsed configuration with defaults filled in
//   - error: error if the file cannot be read, parsed or validated
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	c, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return c, nil
}

// Parse parses YAML data, fills defaults and validates the result.
func Parse(data []byte) (Config, error) {
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Config{}, err
	}
	c.applyDefaults()
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c *Config) applyDefaults() {
	c.Window.Title = common.Coalesce(c.Window.Title, DefaultTitle)
	c.Window.Width = common.Coalesce(c.Window.Width, DefaultWidth)
	c.Window.Height = common.Coalesce(c.Window.Height, DefaultHeight)
	c.Renderer.Background = common.Coalesce(c.Renderer.Background, DefaultBackground)
	c.LogLevel = common.Coalesce(c.LogLevel, DefaultLogLevel)
}

// Validate reports the first invalid field.
func (c Config) Validate() error {
	if c.Window.Width < 0 || c.Window.Height < 0 {
		return fmt.Errorf("window size %dx%d is negative", c.Window.Width, c.Window.Height)
	}
	if c.Renderer.Objects != nil && *c.Renderer.Objects < 0 {
		return fmt.Errorf("renderer objects %d is negative", *c.Renderer.Objects)
	}
	if _, err := renderer.ParsePresentMode(c.Renderer.PresentMode); err != nil {
		return err
	}
	if _, err := renderer.ParseAspectMode(c.Renderer.AspectMode); err != nil {
		return err
	}
	if _, err := c.Background(); err != nil {
		return err
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Background resolves the background color name from golang.org/x/image/colornames.
func (c Config) Background() (color.Color, error) {
	name := strings.ToLower(strings.TrimSpace(common.Coalesce(c.Renderer.Background, DefaultBackground)))
	col, ok := colornames.Map[name]
	if !ok {
		return nil, fmt.Errorf("unknown background color %q", c.Renderer.Background)
	}
	return col, nil
}

// Level parses the log level name accepted by log/slog.
func (c Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(common.Coalesce(c.LogLevel, DefaultLogLevel))); err != nil {
		return slog.LevelInfo, fmt.Errorf("log level: %w", err)
	}
	return level, nil
}

// ObjectCount returns the configured object count or renderable.DefaultCount.
func (c Config) ObjectCount() int {
	if c.Renderer.Objects == nil {
		return renderable.DefaultCount
	}
	return *c.Renderer.Objects
}

// RendererOptions translates the renderer section into renderer options.
func (c Config) RendererOptions() ([]renderer.RendererBuilderOption, error) {
	presentMode, err := renderer.ParsePresentMode(c.Renderer.PresentMode)
	if err != nil {
		return nil, err
	}
	aspectMode, err := renderer.ParseAspectMode(c.Renderer.AspectMode)
	if err != nil {
		return nil, err
	}
	options := []renderer.RendererBuilderOption{
		renderer.WithObjectCount(c.ObjectCount()),
		renderer.WithPresentMode(presentMode),
		renderer.WithAspectMode(aspectMode),
		renderer.WithForceSoftwareRenderer(c.Renderer.ForceFallbackAdapter),
	}
	if c.Renderer.Seed != nil {
		options = append(options, renderer.WithSeed(*c.Renderer.Seed))
	}
	return options, nil
}

// EngineOptions translates the whole configuration into engine options.
//
// Returns:
//   - []engine.EngineBuilderOption: options for engine.NewEngine
//   - error: error if a field cannot be resolved
func (c Config) EngineOptions() ([]engine.EngineBuilderOption, error) {
	rendererOptions, err := c.RendererOptions()
	if err != nil {
		return nil, err
	}
	background, err := c.Background()
	if err != nil {
		return nil, err
	}
	return []engine.EngineBuilderOption{
		engine.WithWindowOptions(
			window.WithTitle(c.Window.Title),
			window.WithSize(c.Window.Width, c.Window.Height),
		),
		engine.WithRendererOptions(rendererOptions...),
		engine.WithSettings(scene.Settings{Background: background}),
		engine.WithProfiling(c.Profiling),
		engine.WithSurfaceErrorRecovery(c.RecoverSurfaceErrors),
	}, nil
}
