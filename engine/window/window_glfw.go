package window

import (
	"fmt"
	"runtime"

	"github.com/Carmen-Shannon/oxy-re/common"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// glfwDontCare is GLFW_DONT_CARE, used for unbounded size limits.
const glfwDontCare = -1

// glfwWindow holds the GLFW-specific window state.
type glfwWindow struct {
	parent *engineWindow
	window *glfw.Window
	closed bool
}

// glfwEventSource implements EventSource on the GLFW event queue.
// GLFW callbacks run inside PollEvents/WaitEvents on the calling thread, so no locking is needed.
type glfwEventSource struct {
	windows map[ID]*engineWindow
	nextID  ID

	queue         []Event
	redrawPending map[ID]bool

	flow    ControlFlow
	started bool
	pumped  bool
	exiting bool
	done    bool
}

var _ EventSource = &glfwEventSource{}

// NewEventSource initializes GLFW and returns the event source driving it.
// Locks the calling goroutine to its OS thread; GLFW requires all calls on the main thread.
//
// GLFW reference: https://www.glfw.org/docs/latest/intro_guide.html#thread_safety
//
// Returns:
//   - EventSource: the GLFW event source
//   - error: error if GLFW failed to initialize
func NewEventSource() (EventSource, error) {
	runtime.LockOSThread()

	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize GLFW: %w", err)
	}

	return &glfwEventSource{
		windows:       make(map[ID]*engineWindow),
		nextID:        1,
		redrawPending: make(map[ID]bool),
		flow:          ControlFlowWait,
	}, nil
}

func (s *glfwEventSource) CreateWindow(options ...WindowBuilderOption) (Window, error) {
	if s.done {
		return nil, fmt.Errorf("event source has exited")
	}
	w := newEngineWindow(options...)
	w.id = s.nextID
	w.source = s
	if err := newPlatformWindow(w, s); err != nil {
		return nil, err
	}
	s.nextID++
	s.windows[w.id] = w
	common.Logger().Info("window created", "id", w.id, "title", w.title, "width", w.width, "height", w.height)
	return w, nil
}

func (s *glfwEventSource) NextEvent() Event {
	for {
		if s.exiting {
			s.terminate()
			return Exiting{}
		}
		if !s.started {
			s.started = true
			return Resumed{}
		}
		if len(s.queue) > 0 {
			ev := s.queue[0]
			s.queue = s.queue[1:]
			if rr, ok := ev.(RedrawRequested); ok {
				delete(s.redrawPending, rr.Window)
			}
			return ev
		}
		if s.pumped {
			s.pumped = false
			return AboutToWait{}
		}
		s.pump()
		s.pumped = true
	}
}

// pump collects OS events into the queue. It blocks only when the flow is Wait and nothing is pending.
//
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#WaitEvents
func (s *glfwEventSource) pump() {
	if s.flow == ControlFlowWait && len(s.queue) == 0 && len(s.redrawPending) == 0 {
		glfw.WaitEvents()
		return
	}
	glfw.PollEvents()
}

func (s *glfwEventSource) SetControlFlow(flow ControlFlow) {
	s.flow = flow
}

func (s *glfwEventSource) Exit() {
	s.exiting = true
}

func (s *glfwEventSource) push(ev Event) {
	s.queue = append(s.queue, ev)
}

func (s *glfwEventSource) requestRedraw(id ID) {
	if s.redrawPending[id] {
		return
	}
	s.redrawPending[id] = true
	s.push(RedrawRequested{Window: id})
}

func (s *glfwEventSource) forget(id ID) {
	delete(s.windows, id)
	delete(s.redrawPending, id)
}

// terminate destroys remaining windows and shuts GLFW down. Safe to call repeatedly.
func (s *glfwEventSource) terminate() {
	if s.done {
		return
	}
	s.done = true
	for id, w := range s.windows {
		_ = platformCloseWindow(w)
		delete(s.windows, id)
	}
	s.queue = nil
	glfw.Terminate()
	common.Logger().Info("event source terminated")
}

// newPlatformWindow creates the GLFW window, registers lifecycle callbacks and stores it as the internal window.
//
// GLFW reference: https://www.glfw.org/docs/latest/window_guide.html
// go-gl/glfw: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw
func newPlatformWindow(w *engineWindow, s *glfwEventSource) error {
	// WebGPU provides its own graphics API, so disable OpenGL context creation.
	// Reference: https://www.glfw.org/docs/latest/window_guide.html#window_hints_ctx
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)

	win, err := glfw.CreateWindow(w.width, w.height, w.title, nil, nil)
	if err != nil {
		return fmt.Errorf("failed to create GLFW window: %w", err)
	}
	win.SetSizeLimits(w.minWidth, w.minHeight, w.maxWidth, w.maxHeight)

	gw := &glfwWindow{
		parent: w,
		window: win,
	}
	w.internalWindow = gw

	// The close button only requests a close; the application decides whether to exit.
	// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Window.SetCloseCallback
	win.SetCloseCallback(func(gwin *glfw.Window) {
		gwin.SetShouldClose(false)
		s.push(CloseRequested{Window: w.id})
	})

	// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Window.SetKeyCallback
	win.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		if action == glfw.Press {
			s.push(KeyPressed{Window: w.id, Key: Key(key)})
		}
	})

	// Minimizing releases GPU state the same way a mobile suspend does.
	// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Window.SetIconifyCallback
	win.SetIconifyCallback(func(_ *glfw.Window, iconified bool) {
		if iconified {
			s.push(Suspended{})
		} else {
			s.push(Resumed{})
		}
	})

	// Use framebuffer size callback for pixel-accurate resize events.
	// On high-DPI displays (e.g., macOS Retina), framebuffer size differs from window size.
	// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Window.SetFramebufferSizeCallback
	win.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		w.width = width
		w.height = height
		s.push(Resized{Window: w.id, Width: width, Height: height})
	})

	// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Window.SetRefreshCallback
	win.SetRefreshCallback(func(_ *glfw.Window) {
		s.requestRedraw(w.id)
	})

	// Update stored dimensions to reflect actual framebuffer size (may differ from requested on high-DPI).
	w.width, w.height = win.GetFramebufferSize()

	return nil
}

// platformGetSurfaceDescriptor creates a platform-appropriate wgpu.SurfaceDescriptor from the GLFW window.
// Uses the wgpuglfw bridge package which has per-platform implementations (Windows, X11, Wayland, macOS).
//
// Reference: https://pkg.go.dev/github.com/cogentcore/webgpu/wgpuglfw#GetSurfaceDescriptor
func platformGetSurfaceDescriptor(w *engineWindow) *wgpu.SurfaceDescriptor {
	gw, ok := w.internalWindow.(*glfwWindow)
	if !ok || gw.closed {
		return nil
	}
	return wgpuglfw.GetSurfaceDescriptor(gw.window)
}

// platformCloseWindow destroys the GLFW window.
//
// Parameters:
//   - w: the engineWindow to close
//
// Returns:
//   - error: error if the window is not initialized or already closed
func platformCloseWindow(w *engineWindow) error {
	gw, ok := w.internalWindow.(*glfwWindow)
	if !ok {
		return fmt.Errorf("window is not initialized")
	}
	if gw.closed {
		return fmt.Errorf("window %d is already closed", w.id)
	}
	gw.closed = true
	gw.window.Destroy()
	return nil
}
