package window

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSource() *glfwEventSource {
	return &glfwEventSource{
		windows:       make(map[ID]*engineWindow),
		nextID:        1,
		redrawPending: make(map[ID]bool),
		started:       true,
	}
}

func TestNewEngineWindowDefaults(t *testing.T) {
	w := newEngineWindow()
	assert.Equal(t, "oxy-re", w.Title())
	width, height := w.InnerSize()
	assert.Equal(t, 800, width)
	assert.Equal(t, 600, height)
	assert.Equal(t, glfwDontCare, w.maxWidth)
}

func TestWindowBuilderOptions(t *testing.T) {
	w := newEngineWindow(
		WithTitle("triangles"),
		WithSize(1024, 0),
		WithMinSize(320, 240),
		WithMaxSize(1920, 1080),
	)
	assert.Equal(t, "triangles", w.title)
	assert.Equal(t, 1024, w.width)
	assert.Equal(t, 600, w.height, "zero size keeps the default")
	assert.Equal(t, 320, w.minWidth)
	assert.Equal(t, 240, w.minHeight)
	assert.Equal(t, 1920, w.maxWidth)
	assert.Equal(t, 1080, w.maxHeight)
}

func TestRedrawRequestsCollapse(t *testing.T) {
	s := newTestSource()
	w := newEngineWindow()
	w.id = 7
	w.source = s

	w.RequestRedraw()
	w.RequestRedraw()
	require.Len(t, s.queue, 1)

	assert.Equal(t, RedrawRequested{Window: 7}, s.NextEvent())
	assert.Empty(t, s.redrawPending)

	w.RequestRedraw()
	assert.Len(t, s.queue, 1, "a new request is accepted once the previous one was delivered")
}

func TestQueuedEventsKeepOrder(t *testing.T) {
	s := newTestSource()
	s.push(Resized{Window: 1, Width: 640, Height: 480})
	s.push(CloseRequested{Window: 1})

	assert.Equal(t, Resized{Window: 1, Width: 640, Height: 480}, s.NextEvent())
	assert.Equal(t, CloseRequested{Window: 1}, s.NextEvent())
}

func TestFirstEventIsResumed(t *testing.T) {
	s := newTestSource()
	s.started = false
	s.push(CloseRequested{Window: 1})

	assert.Equal(t, Resumed{}, s.NextEvent())
	assert.Equal(t, CloseRequested{Window: 1}, s.NextEvent())
}

func TestExitReturnsExiting(t *testing.T) {
	s := newTestSource()
	s.done = true
	s.push(CloseRequested{Window: 1})
	s.Exit()

	assert.Equal(t, Exiting{}, s.NextEvent())
	assert.Equal(t, Exiting{}, s.NextEvent())
}

func TestControlFlowString(t *testing.T) {
	assert.Equal(t, "wait", ControlFlowWait.String())
	assert.Equal(t, "poll", ControlFlowPoll.String())
}
