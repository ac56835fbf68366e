package window

// Event is one notification delivered by an EventSource. The concrete types below form a closed set.
type Event interface {
	isEvent()
}

// Resumed signals the application may create windows and GPU state.
type Resumed struct{}

// Suspended signals the application must release GPU state. Windows stay valid.
type Suspended struct{}

// AboutToWait is delivered once the pending events of an iteration have been dispatched.
type AboutToWait struct{}

// Exiting is the last event delivered before the source shuts down.
type Exiting struct{}

// CloseRequested signals the user asked to close a window.
type CloseRequested struct {
	Window ID
}

// Resized carries the new framebuffer size of a window in physical pixels.
type Resized struct {
	Window ID
	Width  int
	Height int
}

// KeyPressed carries a key press on a focused window. Repeats are not reported.
type KeyPressed struct {
	Window ID
	Key    Key
}

// RedrawRequested signals a window should draw a frame.
type RedrawRequested struct {
	Window ID
}

func (Resumed) isEvent()         {}
func (Suspended) isEvent()       {}
func (AboutToWait) isEvent()     {}
func (Exiting) isEvent()         {}
func (CloseRequested) isEvent()  {}
func (Resized) isEvent()         {}
func (KeyPressed) isEvent()      {}
func (RedrawRequested) isEvent() {}

// ControlFlow controls whether the source blocks for OS events when nothing is pending.
type ControlFlow int

const (
	// ControlFlowWait blocks until an OS event arrives or a redraw is pending.
	ControlFlowWait ControlFlow = iota
	// ControlFlowPoll never blocks.
	ControlFlowPoll
)

func (c ControlFlow) String() string {
	if c == ControlFlowPoll {
		return "poll"
	}
	return "wait"
}

// EventSource is the windowing system: it creates windows and produces lifecycle and window events.
// All methods must be called from the goroutine that created the source.
type EventSource interface {
	// CreateWindow creates and shows a new window.
	//
	// Parameters:
	//   - options: functional options to configure the window
	//
	// Returns:
	//   - Window: the created window
	//   - error: error if the platform refused to create the window
	CreateWindow(options ...WindowBuilderOption) (Window, error)

	// NextEvent blocks until the next event is available and returns it.
	// After Exit is called NextEvent returns Exiting.
	NextEvent() Event

	// SetControlFlow sets how NextEvent waits for OS events.
	SetControlFlow(flow ControlFlow)

	// Exit asks the source to stop. The next call to NextEvent returns Exiting.
	Exit()
}
