package engine

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-re/common"
	"github.com/Carmen-Shannon/oxy-re/engine/gpu"
	"github.com/Carmen-Shannon/oxy-re/engine/profiler"
	"github.com/Carmen-Shannon/oxy-re/engine/renderer"
	"github.com/Carmen-Shannon/oxy-re/engine/scene"
	"github.com/Carmen-Shannon/oxy-re/engine/window"
)

// State is the lifecycle state of the engine.
type State int

const (
	// StateSuspended holds no GPU state. A window may be retained from a previous activation.
	StateSuspended State = iota

	// StateActive holds the renderer bound to the window.
	StateActive
)

func (s State) String() string {
	if s == StateActive {
		return "active"
	}
	return "suspended"
}

// engine implements the Engine interface.
// All methods must be called from the goroutine that owns the event source.
type engine struct {
	source   window.EventSource
	instance gpu.Instance

	windowOptions   []window.WindowBuilderOption
	rendererOptions []renderer.RendererBuilderOption

	state State
	// window is kept across suspend so the next resume reuses it.
	window   window.Window
	renderer renderer.Renderer

	profiler         *profiler.Profiler
	profilingEnabled bool

	recoverSurfaceErrors bool

	scene    scene.Scene
	canvas   *scene.Canvas
	settings scene.Settings

	running bool
}

// Engine is the main entry point for the engine.
// It drives the window event loop and owns the renderer while the application is active.
type Engine interface {
	// Window returns the window, or nil before the first resume.
	Window() window.Window

	// Renderer returns the renderer, or nil while suspended.
	Renderer() renderer.Renderer

	// State returns the lifecycle state.
	State() State

	// Canvas returns the canvas recorded by the last RenderScene, or nil.
	Canvas() *scene.Canvas

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// RenderScene invokes s.OnRender once on a fresh canvas. Settings provided by the scene
	// replace the engine's and apply from the next resume.
	//
	// Parameters:
	//   - s: the scene to render
	//
	// Returns:
	//   - *scene.Canvas: the canvas holding the scene's commands
	RenderScene(s scene.Scene) *scene.Canvas

	// Handle dispatches one event.
	//
	// Parameters:
	//   - ev: the event to handle
	//
	// Returns:
	//   - bool: false once the event loop should stop
	Handle(ev window.Event) bool

	// Run renders the configured scene, then pulls and dispatches events until the loop exits.
	// Blocks the calling goroutine, which must be the main OS thread for GLFW.
	Run()

	// Quit asks the event source to exit. The loop stops after the resulting Exiting event.
	Quit()
}

var _ Engine = &engine{}

// NewEngine creates a new Engine with the provided options.
// The event source and GPU instance default to GLFW and native WebGPU and are created on first use.
//
// Parameters:
//   - options: functional options for engine configuration
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		state:    StateSuspended,
		profiler: profiler.NewProfiler(),
		settings: scene.DefaultSettings(),
	}
	for _, opt := range options {
		opt(e)
	}
	return e
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Renderer() renderer.Renderer {
	return e.renderer
}

func (e *engine) State() State {
	return e.state
}

func (e *engine) Canvas() *scene.Canvas {
	return e.canvas
}

// EnableProfiler enables performance profiling output to the log.
func (e *engine) EnableProfiler() {
	e.profilingEnabled = true
}

// DisableProfiler disables performance profiling output.
func (e *engine) DisableProfiler() {
	e.profilingEnabled = false
}

func (e *engine) RenderScene(s scene.Scene) *scene.Canvas {
	if e.canvas != nil {
		e.canvas.Close()
	}
	e.canvas = scene.NewCanvas()
	s.OnRender(e.canvas)
	if _, ok := s.(scene.Configurable); ok {
		e.settings = scene.SettingsOf(s)
	}
	common.Logger().Info("scene rendered", "commands", e.canvas.Len(), "segments", e.canvas.Segments())
	common.Logger().Debug("scene commands", "canvas", e.canvas.String())
	return e.canvas
}

func (e *engine) Run() {
	if e.source == nil {
		source, err := window.NewEventSource()
		if err != nil {
			panic(fmt.Sprintf("failed to initialize windowing: %v", err))
		}
		e.source = source
	}
	if e.scene != nil {
		e.RenderScene(e.scene)
	}

	e.running = true
	for e.running {
		if !e.Handle(e.source.NextEvent()) {
			e.running = false
		}
	}
}

func (e *engine) Quit() {
	if e.source != nil {
		e.source.Exit()
	}
}

func (e *engine) Handle(ev window.Event) bool {
	switch ev := ev.(type) {
	case window.Resumed:
		e.resume()
	case window.Suspended:
		e.suspend()
	case window.AboutToWait:
		if e.state == StateActive {
			e.window.RequestRedraw()
		}
	case window.CloseRequested:
		if e.state == StateActive {
			common.Logger().Info("close requested", "window", ev.Window)
			e.Quit()
		}
	case window.KeyPressed:
		if e.state == StateActive && ev.Key == window.KeyEscape {
			common.Logger().Info("escape pressed", "window", ev.Window)
			e.Quit()
		}
	case window.Resized:
		if e.state == StateActive {
			e.renderer.Resize(ev.Width, ev.Height)
		}
	case window.RedrawRequested:
		if e.state == StateActive {
			e.redraw()
		}
	case window.Exiting:
		e.shutdown()
		return false
	}
	return true
}

// resume bootstraps fresh GPU state for the retained window, or a new window on first resume.
func (e *engine) resume() {
	if e.state == StateActive {
		return
	}
	if e.window == nil {
		w, err := e.source.CreateWindow(e.windowOptions...)
		if err != nil {
			panic(fmt.Sprintf("failed to create window: %v", err))
		}
		e.window = w
	}
	if e.instance == nil {
		e.instance = gpu.NewInstance()
	}

	// Explicit renderer options come last so they win over the scene settings.
	options := append([]renderer.RendererBuilderOption{renderer.WithBackground(e.settings.Background)}, e.rendererOptions...)
	r, err := renderer.NewRenderer(e.instance, e.window, options...)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize GPU state: %v", err))
	}
	e.renderer = r
	e.state = StateActive
	common.Logger().Info("resumed", "window", e.window.ID())
}

// suspend releases GPU state and keeps the window for the next resume.
func (e *engine) suspend() {
	if e.state == StateActive {
		e.renderer.Release()
		e.renderer = nil
		e.state = StateSuspended
		common.Logger().Info("suspended", "window", e.window.ID())
	}
	e.source.SetControlFlow(window.ControlFlowWait)
}

func (e *engine) redraw() {
	err := e.renderer.Draw()
	if err == nil {
		if e.profilingEnabled {
			e.profiler.Tick()
		}
		return
	}

	var surfaceErr *renderer.SurfaceError
	if !e.recoverSurfaceErrors || !errors.As(err, &surfaceErr) {
		panic(fmt.Sprintf("failed to draw frame: %v", err))
	}
	switch {
	case surfaceErr.Reconfigurable():
		common.Logger().Warn("surface reconfigured after acquisition failure", "kind", surfaceErr.Kind)
		e.renderer.Reconfigure()
	case surfaceErr.Kind == gpu.SurfaceErrorTimeout:
		common.Logger().Warn("frame skipped", "kind", surfaceErr.Kind)
	default:
		panic(fmt.Sprintf("failed to draw frame: %v", err))
	}
}

func (e *engine) shutdown() {
	if e.renderer != nil {
		e.renderer.Release()
		e.renderer = nil
	}
	e.state = StateSuspended
	if e.canvas != nil {
		e.canvas.Close()
	}
	if e.instance != nil {
		e.instance.Release()
		e.instance = nil
	}
	common.Logger().Info("exiting")
}
