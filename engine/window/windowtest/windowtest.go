// Package windowtest provides scripted fakes of the window package interfaces.
package windowtest

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-re/engine/window"
	"github.com/cogentcore/webgpu/wgpu"
)

// Window is a fake window with a settable size.
type Window struct {
	id     window.ID
	title  string
	Width  int
	Height int

	// Redraws counts RequestRedraw calls.
	Redraws int
	Closed  bool

	source *EventSource
}

var _ window.Window = &Window{}

// NewWindow returns a detached fake window.
func NewWindow(id window.ID, width, height int) *Window {
	return &Window{id: id, title: "fake", Width: width, Height: height}
}

func (w *Window) ID() window.ID         { return w.id }
func (w *Window) InnerSize() (int, int) { return w.Width, w.Height }
func (w *Window) Title() string         { return w.title }

// SurfaceDescriptor returns an empty descriptor; fake GPU instances ignore it.
func (w *Window) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	if w.Closed {
		return nil
	}
	return &wgpu.SurfaceDescriptor{}
}

func (w *Window) RequestRedraw() {
	w.Redraws++
	if w.source != nil && w.source.QueueRedraws {
		w.source.Push(window.RedrawRequested{Window: w.id})
	}
}

func (w *Window) Close() error {
	if w.Closed {
		return fmt.Errorf("window %d is already closed", w.id)
	}
	w.Closed = true
	return nil
}

// EventSource replays a scripted list of events and returns Exiting once the script runs out.
type EventSource struct {
	events []window.Event

	// Width and Height size every created window.
	Width, Height int

	// QueueRedraws makes RequestRedraw append a RedrawRequested event to the script.
	QueueRedraws bool

	// CreateErr, when set, is returned by CreateWindow.
	CreateErr error

	Windows []*Window
	Flow    window.ControlFlow
	Exited  bool

	// Delivered records every event returned by NextEvent.
	Delivered []window.Event
}

var _ window.EventSource = &EventSource{}

// NewEventSource returns a source that replays events in order.
func NewEventSource(events ...window.Event) *EventSource {
	return &EventSource{events: events, Width: 800, Height: 600}
}

// Push appends events to the script.
func (s *EventSource) Push(events ...window.Event) {
	s.events = append(s.events, events...)
}

func (s *EventSource) CreateWindow(options ...window.WindowBuilderOption) (window.Window, error) {
	if s.CreateErr != nil {
		return nil, s.CreateErr
	}
	w := NewWindow(window.ID(len(s.Windows)+1), s.Width, s.Height)
	w.source = s
	s.Windows = append(s.Windows, w)
	return w, nil
}

func (s *EventSource) NextEvent() window.Event {
	var ev window.Event = window.Exiting{}
	if !s.Exited && len(s.events) > 0 {
		ev = s.events[0]
		s.events = s.events[1:]
	}
	s.Delivered = append(s.Delivered, ev)
	return ev
}

func (s *EventSource) SetControlFlow(flow window.ControlFlow) {
	s.Flow = flow
}

func (s *EventSource) Exit() {
	s.Exited = true
}
