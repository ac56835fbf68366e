package renderer

import (
	"fmt"
	"strings"

	"github.com/cogentcore/webgpu/wgpu"
)

// PresentMode controls how rendered frames are presented to the display surface.
type PresentMode int

const (
	// PresentModeAuto uses the first present mode the surface reports.
	PresentModeAuto PresentMode = iota

	// PresentModeVSync waits for the next vertical blank before presenting. Eliminates tearing.
	PresentModeVSync

	// PresentModeUncapped presents frames immediately without waiting for vertical blank.
	// May cause screen tearing but provides the lowest latency.
	PresentModeUncapped

	// PresentModeMailbox replaces the queued frame with the newest one without tearing.
	PresentModeMailbox
)

func (m PresentMode) String() string {
	switch m {
	case PresentModeVSync:
		return "vsync"
	case PresentModeUncapped:
		return "uncapped"
	case PresentModeMailbox:
		return "mailbox"
	default:
		return "auto"
	}
}

// wgpuMode maps the mode onto a wgpu present mode. ok is false for PresentModeAuto.
func (m PresentMode) wgpuMode() (mode wgpu.PresentMode, ok bool) {
	switch m {
	case PresentModeVSync:
		return wgpu.PresentModeFifo, true
	case PresentModeUncapped:
		return wgpu.PresentModeImmediate, true
	case PresentModeMailbox:
		return wgpu.PresentModeMailbox, true
	default:
		return 0, false
	}
}

// ParsePresentMode parses the case-insensitive name of a PresentMode. An empty name is PresentModeAuto.
//
// Parameters:
//   - name: one of "auto", "vsync", "uncapped", "mailbox"
//
// Returns:
//   - PresentMode: the parsed mode
//   - error: error if the name is unknown
func ParsePresentMode(name string) (PresentMode, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "auto":
		return PresentModeAuto, nil
	case "vsync", "fifo":
		return PresentModeVSync, nil
	case "uncapped", "immediate":
		return PresentModeUncapped, nil
	case "mailbox":
		return PresentModeMailbox, nil
	}
	return PresentModeAuto, fmt.Errorf("renderer: unknown present mode %q", name)
}

// AspectMode selects how object scales are corrected for the surface aspect ratio each frame.
type AspectMode int

const (
	// AspectModeLegacy computes the aspect ratio with integer division of width by height and divides
	// every object's horizontal scale by it in place, so the correction compounds frame after frame.
	AspectModeLegacy AspectMode = iota

	// AspectModeExact derives the horizontal scale from the object's base scale and the floating-point
	// aspect ratio, so the result is stable across frames.
	AspectModeExact
)

func (m AspectMode) String() string {
	if m == AspectModeExact {
		return "exact"
	}
	return "legacy"
}

// ParseAspectMode parses "legacy" or "exact", case-insensitively. An empty name is AspectModeLegacy.
func ParseAspectMode(name string) (AspectMode, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "legacy":
		return AspectModeLegacy, nil
	case "exact":
		return AspectModeExact, nil
	}
	return AspectModeLegacy, fmt.Errorf("renderer: unknown aspect mode %q", name)
}

// legacyAspect is width / height in integer arithmetic. A zero height yields 1 so the divide is skipped.
func legacyAspect(width, height uint32) float32 {
	if height == 0 {
		return 1
	}
	return float32(width / height)
}

// exactAspect is width / height in floating point. A zero height yields 1.
func exactAspect(width, height uint32) float32 {
	if height == 0 {
		return 1
	}
	return float32(width) / float32(height)
}
