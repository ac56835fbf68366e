package window

import (
	"github.com/cogentcore/webgpu/wgpu"
)

// ID identifies a window created by an EventSource.
type ID uint64

// Window is a platform window the renderer can present to.
// A Window outlives any GPU state created for it, so the same value is reused across suspend/resume.
type Window interface {
	// ID returns the identifier carried by this window's events.
	ID() ID

	// InnerSize returns the current drawable area in physical pixels.
	//
	// Returns:
	//   - int: width in pixels
	//   - int: height in pixels
	InnerSize() (int, int)

	// SurfaceDescriptor returns a wgpu.SurfaceDescriptor suitable for creating a WebGPU surface.
	// The descriptor is platform-appropriate (Windows HWND, X11 Xlib, Wayland, macOS Metal, etc.)
	// and is created by the wgpuglfw bridge from the underlying GLFW window.
	//
	// Returns:
	//   - *wgpu.SurfaceDescriptor: the platform-specific surface descriptor, or nil if the window is closed
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// RequestRedraw asks the event source to deliver a RedrawRequested event for this window.
	// Repeated requests before delivery collapse into one event.
	RequestRedraw()

	// Title returns the window title.
	Title() string

	// Close closes the window and releases platform resources.
	//
	// Returns:
	//   - error: error if the window was already closed
	Close() error
}

// engineWindow is the GLFW-backed implementation of the Window interface.
type engineWindow struct {
	// id is assigned by the event source on creation.
	id ID

	// title is the window title displayed in the title bar.
	title string

	// maxWidth is the maximum allowed window width during resize.
	maxWidth int

	// maxHeight is the maximum allowed window height during resize.
	maxHeight int

	// minWidth is the minimum allowed window width during resize.
	minWidth int

	// minHeight is the minimum allowed window height during resize.
	minHeight int

	// width is the current framebuffer width in pixels.
	width int

	// height is the current framebuffer height in pixels.
	height int

	// internalWindow holds the platform-specific window data (glfwWindow).
	internalWindow any

	// source delivers this window's events.
	source *glfwEventSource
}

var _ Window = &engineWindow{}

// newEngineWindow returns the default window attributes with options applied.
//
// Parameters:
//   - options: functional options to configure the window
//
// Returns:
//   - *engineWindow: the configured window (not yet spawned)
func newEngineWindow(options ...WindowBuilderOption) *engineWindow {
	w := &engineWindow{
		title:     "oxy-re",
		maxWidth:  glfwDontCare,
		maxHeight: glfwDontCare,
		minWidth:  1,
		minHeight: 1,
		width:     800,
		height:    600,
	}
	for _, opt := range options {
		opt(w)
	}
	return w
}

func (w *engineWindow) ID() ID {
	return w.id
}

func (w *engineWindow) InnerSize() (int, int) {
	return w.width, w.height
}

func (w *engineWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return platformGetSurfaceDescriptor(w)
}

func (w *engineWindow) RequestRedraw() {
	if w.source != nil {
		w.source.requestRedraw(w.id)
	}
}

func (w *engineWindow) Title() string {
	return w.title
}

func (w *engineWindow) Close() error {
	if w.source != nil {
		w.source.forget(w.id)
	}
	return platformCloseWindow(w)
}
