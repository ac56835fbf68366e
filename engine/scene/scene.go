// Package scene describes what to draw as a flat list of shape primitives.
//
// A Scene receives a Canvas once per engine run and records shapes on it. The canvas flattens every
// shape into straight path segments, keeping the command list a plain ordered sequence.
package scene

import (
	"image/color"

	"golang.org/x/image/colornames"
)

// Scene is user content rendered by the engine.
type Scene interface {
	// OnRender records the scene's shapes on c.
	//
	// Parameters:
	//   - c: the canvas to draw on
	OnRender(c *Canvas)
}

// Func adapts an ordinary function to the Scene interface.
type Func func(c *Canvas)

// OnRender calls f(c).
func (f Func) OnRender(c *Canvas) {
	f(c)
}

// Settings holds scene-wide presentation settings.
type Settings struct {
	// Background is the color every frame is cleared to.
	Background color.Color
}

// DefaultSettings returns a white background.
func DefaultSettings() Settings {
	return Settings{Background: colornames.White}
}

// Configurable is implemented by scenes that provide their own Settings.
type Configurable interface {
	Settings() Settings
}

// SettingsOf returns the settings of s, or DefaultSettings if s does not provide any.
// A nil background in the provided settings is replaced by the default.
func SettingsOf(s Scene) Settings {
	c, ok := s.(Configurable)
	if !ok {
		return DefaultSettings()
	}
	settings := c.Settings()
	if settings.Background == nil {
		settings.Background = DefaultSettings().Background
	}
	return settings
}
