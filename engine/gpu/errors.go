package gpu

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoAdapter is returned when no adapter satisfies the requested options.
	ErrNoAdapter = errors.New("gpu: no compatible adapter found")

	// ErrNoDevice is returned when the adapter cannot open a device with the required features.
	ErrNoDevice = errors.New("gpu: no device with the required features found")
)

// SurfaceErrorKind classifies a failure to acquire a surface texture.
type SurfaceErrorKind int

const (
	// SurfaceErrorOther is any acquisition failure the driver did not classify.
	SurfaceErrorOther SurfaceErrorKind = iota

	// SurfaceErrorOutdated means the surface configuration no longer matches the window.
	SurfaceErrorOutdated

	// SurfaceErrorLost means the surface must be reconfigured before use.
	SurfaceErrorLost

	// SurfaceErrorTimeout means no texture became available in time.
	SurfaceErrorTimeout

	// SurfaceErrorOutOfMemory means the driver could not allocate the texture.
	SurfaceErrorOutOfMemory
)

func (k SurfaceErrorKind) String() string {
	switch k {
	case SurfaceErrorOutdated:
		return "outdated"
	case SurfaceErrorLost:
		return "lost"
	case SurfaceErrorTimeout:
		return "timeout"
	case SurfaceErrorOutOfMemory:
		return "out of memory"
	default:
		return "other"
	}
}

// SurfaceError is returned when the next surface texture cannot be acquired.
type SurfaceError struct {
	Kind SurfaceErrorKind
	Err  error
}

func (e *SurfaceError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("surface texture acquisition failed: %s", e.Kind)
	}
	return fmt.Sprintf("surface texture acquisition failed: %s: %v", e.Kind, e.Err)
}

func (e *SurfaceError) Unwrap() error {
	return e.Err
}

// Reconfigurable reports whether reconfiguring the surface is expected to resolve the error.
func (e *SurfaceError) Reconfigurable() bool {
	return e.Kind == SurfaceErrorOutdated || e.Kind == SurfaceErrorLost
}

// classifySurfaceError maps a driver error message onto a SurfaceErrorKind.
// The native binding reports acquisition status only as text.
func classifySurfaceError(err error) SurfaceErrorKind {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "outdated"):
		return SurfaceErrorOutdated
	case strings.Contains(msg, "lost"):
		return SurfaceErrorLost
	case strings.Contains(msg, "timeout"):
		return SurfaceErrorTimeout
	case strings.Contains(msg, "memory"):
		return SurfaceErrorOutOfMemory
	default:
		return SurfaceErrorOther
	}
}
