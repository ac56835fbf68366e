package engine

import (
	"github.com/Carmen-Shannon/oxy-re/engine/gpu"
	"github.com/Carmen-Shannon/oxy-re/engine/renderer"
	"github.com/Carmen-Shannon/oxy-re/engine/scene"
	"github.com/Carmen-Shannon/oxy-re/engine/window"
)

// EngineBuilderOption is a functional option for configuring an Engine.
// Use the With* functions to create options that are applied directly to the engine instance.
type EngineBuilderOption func(*engine)

// WithProfiling enables or disables performance profiling output.
//
// Parameters:
//   - enabled: if true, enables performance profiling
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiling(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.profilingEnabled = enabled
	}
}

// WithEventSource sets the source of window events rather than letting the engine initialize GLFW.
//
// Parameters:
//   - source: the event source to drive the loop with
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithEventSource(source window.EventSource) EngineBuilderOption {
	return func(e *engine) {
		e.source = source
	}
}

// WithInstance sets the graphics API instance rather than creating a native WebGPU one on first resume.
func WithInstance(instance gpu.Instance) EngineBuilderOption {
	return func(e *engine) {
		e.instance = instance
	}
}

// WithWindowOptions sets the options used to create the window on first resume.
func WithWindowOptions(options ...window.WindowBuilderOption) EngineBuilderOption {
	return func(e *engine) {
		e.windowOptions = append(e.windowOptions, options...)
	}
}

// WithRendererOptions sets the options passed to every renderer the engine creates.
//
// Parameters:
//   - options: renderer options such as object count, seed and present mode. A background set here
//     takes precedence over the scene settings.
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRendererOptions(options ...renderer.RendererBuilderOption) EngineBuilderOption {
	return func(e *engine) {
		e.rendererOptions = append(e.rendererOptions, options...)
	}
}

// WithScene sets the scene Run renders before entering the event loop.
func WithScene(s scene.Scene) EngineBuilderOption {
	return func(e *engine) {
		e.scene = s
	}
}

// WithSettings sets the scene settings used until a scene provides its own.
// A nil background keeps the default.
func WithSettings(settings scene.Settings) EngineBuilderOption {
	return func(e *engine) {
		if settings.Background != nil {
			e.settings = settings
		}
	}
}

// WithSurfaceErrorRecovery controls what a failed frame does. When disabled (default) any draw
// error panics. When enabled, outdated or lost surfaces are reconfigured and the frame is skipped,
// timeouts skip the frame, and every other error still panics.
//
// Parameters:
//   - enabled: true to recover from recoverable surface errors
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithSurfaceErrorRecovery(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.recoverSurfaceErrors = enabled
	}
}
