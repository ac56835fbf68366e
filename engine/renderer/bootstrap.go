package renderer

import (
	"errors"
	"fmt"
	"slices"

	"github.com/Carmen-Shannon/oxy-re/common"
	"github.com/Carmen-Shannon/oxy-re/engine/gpu"
	"github.com/Carmen-Shannon/oxy-re/engine/window"
	"github.com/cogentcore/webgpu/wgpu"
)

// SurfaceError is returned by Draw when the next surface texture cannot be acquired.
type SurfaceError = gpu.SurfaceError

// SurfaceConfiguration is the negotiated size and presentation policy of the window surface.
type SurfaceConfiguration = gpu.SurfaceConfiguration

// ErrIncompatibleSurface is returned when the surface reports no supported formats for the adapter.
var ErrIncompatibleSurface = errors.New("renderer: surface is not supported by the adapter")

const deviceLabel = "Main Device"

// gpuState is the device, queue and configured surface bound to one window.
type gpuState struct {
	surface gpu.Surface
	adapter gpu.Adapter
	device  gpu.Device
	queue   gpu.Queue
	config  SurfaceConfiguration
}

// bootstrap creates a surface for win, requests the first compatible adapter and a device,
// and configures the surface at the window's current size.
func bootstrap(instance gpu.Instance, win window.Window, forceFallback bool, preferred PresentMode) (_ *gpuState, err error) {
	s := &gpuState{}
	defer func() {
		if err != nil {
			s.release()
		}
	}()

	s.surface, err = instance.CreateSurface(win.SurfaceDescriptor())
	if err != nil {
		return nil, fmt.Errorf("renderer: create surface: %w", err)
	}

	s.adapter, err = instance.RequestAdapter(gpu.AdapterOptions{
		CompatibleSurface:    s.surface,
		ForceFallbackAdapter: forceFallback,
	})
	if err != nil {
		return nil, fmt.Errorf("renderer: %w", err)
	}

	s.device, err = s.adapter.RequestDevice(deviceLabel)
	if err != nil {
		return nil, fmt.Errorf("renderer: %w", err)
	}
	s.queue = s.device.Queue()

	width, height := win.InnerSize()
	s.config, err = SelectSurfaceConfiguration(s.surface.Capabilities(s.adapter), width, height, preferred)
	if err != nil {
		return nil, err
	}
	s.reconfigure()

	common.Logger().Info("gpu bootstrapped",
		"format", s.config.Format,
		"presentMode", s.config.PresentMode,
		"width", s.config.Width,
		"height", s.config.Height,
		"fallbackAdapter", forceFallback,
	)
	return s, nil
}

// SelectSurfaceConfiguration builds a surface configuration from the surface capabilities.
// An sRGB format is preferred, falling back to the first supported format. The preferred present
// mode is used when supported, otherwise the first supported one. The first alpha mode is used.
// Sizes below 1 are raised to 1.
//
// Parameters:
//   - caps: the capabilities reported by the surface for the adapter
//   - width: the framebuffer width in pixels
//   - height: the framebuffer height in pixels
//   - preferred: the preferred present mode, or PresentModeAuto
//
// Returns:
//   - SurfaceConfiguration: the selected configuration
//   - error: ErrIncompatibleSurface if caps lists no formats
func SelectSurfaceConfiguration(caps gpu.SurfaceCapabilities, width, height int, preferred PresentMode) (SurfaceConfiguration, error) {
	if len(caps.Formats) == 0 {
		return SurfaceConfiguration{}, ErrIncompatibleSurface
	}

	format := caps.Formats[0]
	if i := slices.IndexFunc(caps.Formats, isSRGB); i >= 0 {
		format = caps.Formats[i]
	}

	presentMode := wgpu.PresentModeFifo
	if len(caps.PresentModes) > 0 {
		presentMode = caps.PresentModes[0]
	}
	if mode, ok := preferred.wgpuMode(); ok && slices.Contains(caps.PresentModes, mode) {
		presentMode = mode
	}

	alphaMode := wgpu.CompositeAlphaModeAuto
	if len(caps.AlphaModes) > 0 {
		alphaMode = caps.AlphaModes[0]
	}

	return SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      format,
		Width:       uint32(max(width, 1)),
		Height:      uint32(max(height, 1)),
		PresentMode: presentMode,
		AlphaMode:   alphaMode,
	}, nil
}

func isSRGB(format wgpu.TextureFormat) bool {
	switch format {
	case wgpu.TextureFormatRGBA8UnormSrgb, wgpu.TextureFormatBGRA8UnormSrgb:
		return true
	}
	return false
}

// resize stores the new size and reconfigures the surface. Zero sizes are ignored.
func (s *gpuState) resize(width, height int) bool {
	if width <= 0 || height <= 0 {
		return false
	}
	s.config.Width = uint32(width)
	s.config.Height = uint32(height)
	s.reconfigure()
	return true
}

func (s *gpuState) reconfigure() {
	s.surface.Configure(s.adapter, s.device, s.config)
}

func (s *gpuState) release() {
	if s.device != nil {
		s.device.Release()
		s.device = nil
		s.queue = nil
	}
	if s.adapter != nil {
		s.adapter.Release()
		s.adapter = nil
	}
	if s.surface != nil {
		s.surface.Release()
		s.surface = nil
	}
}
