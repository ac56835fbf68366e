package renderer

import (
	"encoding/binary"
	"errors"
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-re/engine/gpu"
	"github.com/Carmen-Shannon/oxy-re/engine/gpu/gputest"
	"github.com/Carmen-Shannon/oxy-re/engine/window/windowtest"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/colornames"
	"golang.org/x/image/math/f32"
)

func newTestRenderer(t *testing.T, width, height int, options ...RendererBuilderOption) (Renderer, *gputest.Instance, *gputest.Device) {
	t.Helper()
	instance := gputest.NewInstance()
	r, err := NewRenderer(instance, windowtest.NewWindow(1, width, height), options...)
	require.NoError(t, err)
	return r, instance, instance.Adapter.Device
}

func scaleOf(t *testing.T, w gputest.Write) f32.Vec2 {
	t.Helper()
	require.Len(t, w.Data, 8)
	return f32.Vec2{
		math.Float32frombits(binary.LittleEndian.Uint32(w.Data[0:])),
		math.Float32frombits(binary.LittleEndian.Uint32(w.Data[4:])),
	}
}

func TestDrawEndToEnd(t *testing.T) {
	r, instance, device := newTestRenderer(t, 800, 600, WithObjectCount(3), WithSeed(7))

	counts := device.Counts()
	assert.Equal(t, 1, counts.ShaderModules)
	assert.Equal(t, 1, counts.Pipelines)
	assert.Equal(t, 3, counts.BindGroups)
	assert.Equal(t, 6, counts.Buffers, "one data and one scale buffer per object")
	assert.Equal(t, 1, counts.Configures)

	require.NoError(t, r.Draw())

	cmds := device.Commands()
	require.Len(t, cmds, 2+2*3+1)
	assert.Equal(t, "begin", cmds[0].Op)
	assert.Equal(t, "Render Pass", cmds[0].Label)
	assert.Equal(t, wgpu.Color{R: 1, G: 1, B: 1, A: 1}, cmds[0].ClearValue)
	assert.Equal(t, "pipeline", cmds[1].Op)
	assert.Same(t, device.Pipelines[0], cmds[1].Pipeline)
	for i, o := range r.Objects() {
		bind, draw := cmds[2+2*i], cmds[3+2*i]
		assert.Equal(t, "bind", bind.Op)
		assert.Equal(t, uint32(0), bind.Index)
		assert.Equal(t, o.BindGroup(), bind.BindGroup)
		assert.Equal(t, "draw", draw.Op)
		assert.Equal(t, uint32(3), draw.VertexCount)
		assert.Equal(t, uint32(1), draw.InstanceCount)
	}
	assert.Equal(t, "end", cmds[len(cmds)-1].Op)

	assert.Len(t, device.FakeQueue().Writes, 3, "one scale write per object")
	assert.Equal(t, 1, device.Counts().Submits)
	assert.Equal(t, 1, device.Counts().CommandEncoders)
	assert.Equal(t, 1, instance.Surface.Presents)
	assert.Equal(t, uint64(1), r.FrameCount())
}

func TestDrawWithNoObjects(t *testing.T) {
	r, instance, device := newTestRenderer(t, 800, 600, WithObjectCount(0))

	require.NoError(t, r.Draw())
	assert.Empty(t, device.Draws())
	assert.Equal(t, 1, instance.Surface.Presents)
}

func TestNewRendererNegativeCount(t *testing.T) {
	instance := gputest.NewInstance()
	_, err := NewRenderer(instance, windowtest.NewWindow(1, 800, 600), WithObjectCount(-1))
	require.Error(t, err)
	assert.True(t, instance.Surface.Released, "bootstrap state is released on failure")
	assert.True(t, instance.Adapter.Device.Released)
}

func TestNewRendererAdapterAndDeviceErrors(t *testing.T) {
	t.Run("adapter", func(t *testing.T) {
		instance := gputest.NewInstance()
		instance.AdapterErr = errors.New("none")
		_, err := NewRenderer(instance, windowtest.NewWindow(1, 800, 600))
		assert.ErrorIs(t, err, gpu.ErrNoAdapter)
		assert.True(t, instance.Surface.Released)
	})

	t.Run("device", func(t *testing.T) {
		instance := gputest.NewInstance()
		instance.Adapter.DeviceErr = errors.New("features")
		_, err := NewRenderer(instance, windowtest.NewWindow(1, 800, 600))
		assert.ErrorIs(t, err, gpu.ErrNoDevice)
		assert.True(t, instance.Adapter.Released)
	})

	t.Run("shader module", func(t *testing.T) {
		instance := gputest.NewInstance()
		instance.Adapter.Device.FailShaderModule = errors.New("bad wgsl")
		_, err := NewRenderer(instance, windowtest.NewWindow(1, 800, 600))
		assert.ErrorContains(t, err, "bad wgsl")
	})
}

func TestNewRendererSurfaceErrors(t *testing.T) {
	t.Run("create surface", func(t *testing.T) {
		instance := gputest.NewInstance()
		instance.SurfaceErr = errors.New("no handle")
		_, err := NewRenderer(instance, windowtest.NewWindow(1, 800, 600))
		assert.ErrorContains(t, err, "create surface: no handle")
	})

	t.Run("incompatible", func(t *testing.T) {
		instance := gputest.NewInstance()
		instance.Surface = gputest.NewSurface()
		instance.Surface.Caps.Formats = nil
		_, err := NewRenderer(instance, windowtest.NewWindow(1, 800, 600))
		assert.ErrorIs(t, err, ErrIncompatibleSurface)
		assert.True(t, instance.Surface.Released)
		assert.True(t, instance.Adapter.Released)
		assert.True(t, instance.Adapter.Device.Released)
	})
}

func TestForceFallbackAdapter(t *testing.T) {
	instance := gputest.NewInstance()
	_, err := NewRenderer(instance, windowtest.NewWindow(1, 800, 600), WithForceSoftwareRenderer(true))
	require.NoError(t, err)
	assert.True(t, instance.LastOptions.ForceFallbackAdapter)
	assert.Same(t, instance.Surface, instance.LastOptions.CompatibleSurface)
}

func TestResize(t *testing.T) {
	r, instance, _ := newTestRenderer(t, 800, 600, WithObjectCount(1))

	assert.True(t, r.Resize(1024, 768))
	assert.Equal(t, uint32(1024), r.SurfaceConfiguration().Width)
	assert.Equal(t, uint32(768), r.SurfaceConfiguration().Height)
	assert.Equal(t, uint32(1024), instance.Surface.Config.Width)
	configures := instance.Surface.Configures

	assert.True(t, r.Resize(1024, 768), "same size is accepted again")
	assert.Equal(t, configures+1, instance.Surface.Configures)
	assert.Equal(t, uint32(1024), instance.Surface.Config.Width)

	for _, size := range [][2]int{{0, 768}, {1024, 0}, {0, 0}} {
		assert.False(t, r.Resize(size[0], size[1]))
	}
	assert.Equal(t, configures+1, instance.Surface.Configures, "zero sizes never reconfigure")
	assert.Equal(t, uint32(1024), r.SurfaceConfiguration().Width)
	assert.Equal(t, uint32(768), r.SurfaceConfiguration().Height)

	r.Reconfigure()
	assert.Equal(t, configures+2, instance.Surface.Configures)
}

func TestSelectSurfaceConfiguration(t *testing.T) {
	tests := []struct {
		name      string
		caps      gpu.SurfaceCapabilities
		preferred PresentMode
		format    wgpu.TextureFormat
		present   wgpu.PresentMode
		alpha     wgpu.CompositeAlphaMode
	}{
		{
			name: "prefers srgb",
			caps: gpu.SurfaceCapabilities{
				Formats:      []wgpu.TextureFormat{wgpu.TextureFormatBGRA8Unorm, wgpu.TextureFormatBGRA8UnormSrgb},
				PresentModes: []wgpu.PresentMode{wgpu.PresentModeFifo},
				AlphaModes:   []wgpu.CompositeAlphaMode{wgpu.CompositeAlphaModeOpaque, wgpu.CompositeAlphaModePremultiplied},
			},
			format:  wgpu.TextureFormatBGRA8UnormSrgb,
			present: wgpu.PresentModeFifo,
			alpha:   wgpu.CompositeAlphaModeOpaque,
		},
		{
			name: "falls back to first format",
			caps: gpu.SurfaceCapabilities{
				Formats:      []wgpu.TextureFormat{wgpu.TextureFormatRGBA16Float, wgpu.TextureFormatBGRA8Unorm},
				PresentModes: []wgpu.PresentMode{wgpu.PresentModeMailbox, wgpu.PresentModeFifo},
			},
			format:  wgpu.TextureFormatRGBA16Float,
			present: wgpu.PresentModeMailbox,
			alpha:   wgpu.CompositeAlphaModeAuto,
		},
		{
			name: "supported preferred mode",
			caps: gpu.SurfaceCapabilities{
				Formats:      []wgpu.TextureFormat{wgpu.TextureFormatRGBA8UnormSrgb},
				PresentModes: []wgpu.PresentMode{wgpu.PresentModeFifo, wgpu.PresentModeImmediate},
			},
			preferred: PresentModeUncapped,
			format:    wgpu.TextureFormatRGBA8UnormSrgb,
			present:   wgpu.PresentModeImmediate,
			alpha:     wgpu.CompositeAlphaModeAuto,
		},
		{
			name: "unsupported preferred mode",
			caps: gpu.SurfaceCapabilities{
				Formats:      []wgpu.TextureFormat{wgpu.TextureFormatRGBA8UnormSrgb},
				PresentModes: []wgpu.PresentMode{wgpu.PresentModeFifo},
			},
			preferred: PresentModeMailbox,
			format:    wgpu.TextureFormatRGBA8UnormSrgb,
			present:   wgpu.PresentModeFifo,
			alpha:     wgpu.CompositeAlphaModeAuto,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := SelectSurfaceConfiguration(tt.caps, 640, 480, tt.preferred)
			require.NoError(t, err)
			assert.Equal(t, tt.format, cfg.Format)
			assert.Equal(t, tt.present, cfg.PresentMode)
			assert.Equal(t, tt.alpha, cfg.AlphaMode)
			assert.Equal(t, wgpu.TextureUsageRenderAttachment, cfg.Usage)
			assert.Equal(t, uint32(640), cfg.Width)
			assert.Equal(t, uint32(480), cfg.Height)
		})
	}

	_, err := SelectSurfaceConfiguration(gpu.SurfaceCapabilities{}, 640, 480, PresentModeAuto)
	assert.ErrorIs(t, err, ErrIncompatibleSurface)

	cfg, err := SelectSurfaceConfiguration(gputest.NewSurface().Caps, 0, 0, PresentModeAuto)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), cfg.Width)
	assert.Equal(t, uint32(1), cfg.Height)
}

func TestLegacyAspectCompounds(t *testing.T) {
	r, _, device := newTestRenderer(t, 1600, 600, WithObjectCount(2), WithSeed(3))
	base := r.Objects()[0].BaseScale()

	require.NoError(t, r.Draw())
	first := scaleOf(t, device.FakeQueue().Writes[0])
	assert.Equal(t, base[0]/2, first[0], "integer aspect 1600/600 is 2")
	assert.Equal(t, base[1], first[1])

	device.ResetCommands()
	require.NoError(t, r.Draw())
	second := scaleOf(t, device.FakeQueue().Writes[0])
	assert.Equal(t, base[0]/4, second[0], "the divide compounds frame after frame")
	assert.Equal(t, base[1], second[1])
}

func TestLegacyAspectSquareIsStable(t *testing.T) {
	r, _, _ := newTestRenderer(t, 700, 600, WithObjectCount(1), WithSeed(3))
	base := r.Objects()[0].BaseScale()

	for range 3 {
		require.NoError(t, r.Draw())
	}
	assert.Equal(t, base, *r.Objects()[0].Scale(), "integer aspect of 1 leaves scale unchanged")
}

func TestLegacyAspectPortrait(t *testing.T) {
	r, _, _ := newTestRenderer(t, 600, 800, WithObjectCount(1), WithSeed(3))

	require.NoError(t, r.Draw())
	assert.True(t, math.IsInf(float64(r.Objects()[0].Scale()[0]), 1), "integer aspect of 0 divides by zero")
}

func TestExactAspect(t *testing.T) {
	r, _, device := newTestRenderer(t, 1600, 600, WithObjectCount(1), WithSeed(3), WithAspectMode(AspectModeExact))
	base := r.Objects()[0].BaseScale()
	want := base[0] / (float32(1600) / float32(600))

	for range 3 {
		device.ResetCommands()
		require.NoError(t, r.Draw())
		got := scaleOf(t, device.FakeQueue().Writes[0])
		assert.InDelta(t, want, got[0], 1e-7)
		assert.Equal(t, base[1], got[1])
	}
	assert.Equal(t, AspectModeExact, r.AspectMode())
}

func TestDrawSurfaceError(t *testing.T) {
	r, instance, device := newTestRenderer(t, 800, 600, WithObjectCount(2))
	instance.Surface.AcquireErr = &gpu.SurfaceError{Kind: gpu.SurfaceErrorOutdated}

	err := r.Draw()
	var surfaceErr *SurfaceError
	require.ErrorAs(t, err, &surfaceErr)
	assert.Equal(t, gpu.SurfaceErrorOutdated, surfaceErr.Kind)
	assert.True(t, surfaceErr.Reconfigurable())

	assert.Empty(t, device.Commands())
	assert.Zero(t, instance.Surface.Presents)
	assert.Zero(t, r.FrameCount())
}

func TestDrawCommandErrors(t *testing.T) {
	t.Run("scale write", func(t *testing.T) {
		r, instance, device := newTestRenderer(t, 800, 600, WithObjectCount(2))
		device.FakeQueue().WriteErr = errors.New("queue full")

		err := r.Draw()
		assert.ErrorContains(t, err, "object 0: queue full")
		assert.Zero(t, instance.Surface.Presents)
		assert.Zero(t, r.FrameCount())
	})

	t.Run("end pass", func(t *testing.T) {
		r, instance, device := newTestRenderer(t, 800, 600, WithObjectCount(2))
		device.EndErr = errors.New("validation")

		err := r.Draw()
		assert.ErrorContains(t, err, "end render pass: validation")
		assert.Zero(t, instance.Surface.Presents)
		assert.Zero(t, r.FrameCount())
	})
}

func TestBackground(t *testing.T) {
	r, _, device := newTestRenderer(t, 800, 600, WithObjectCount(1), WithBackground(colornames.Black))
	assert.Equal(t, wgpu.Color{A: 1}, r.Background())

	require.NoError(t, r.Draw())
	assert.Equal(t, wgpu.Color{A: 1}, device.Commands()[0].ClearValue)
}

func TestSeedReproducesPool(t *testing.T) {
	a, _, _ := newTestRenderer(t, 800, 600, WithObjectCount(5), WithSeed(11))
	b, _, _ := newTestRenderer(t, 800, 600, WithObjectCount(5), WithSeed(11))

	for i := range a.Objects() {
		assert.Equal(t, a.Objects()[i].Uniform(), b.Objects()[i].Uniform())
		assert.Equal(t, a.Objects()[i].BaseScale(), b.Objects()[i].BaseScale())
	}
}

func TestRelease(t *testing.T) {
	win := windowtest.NewWindow(1, 800, 600)
	instance := gputest.NewInstance()
	r, err := NewRenderer(instance, win, WithObjectCount(2))
	require.NoError(t, err)
	device := instance.Adapter.Device

	r.Release()
	assert.True(t, instance.Surface.Released)
	assert.True(t, instance.Adapter.Released)
	assert.True(t, device.Released)
	assert.True(t, device.Pipelines[0].Released)
	for _, b := range device.Buffers {
		assert.True(t, b.Released)
	}
	assert.Nil(t, r.Objects())
	assert.False(t, win.Closed, "the window outlives the renderer")
	assert.Same(t, win, r.Window())
}

func TestParseModes(t *testing.T) {
	for name, want := range map[string]PresentMode{
		"":         PresentModeAuto,
		"Auto":     PresentModeAuto,
		"vsync":    PresentModeVSync,
		"fifo":     PresentModeVSync,
		"uncapped": PresentModeUncapped,
		"MAILBOX":  PresentModeMailbox,
	} {
		got, err := ParsePresentMode(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}
	_, err := ParsePresentMode("adaptive")
	assert.Error(t, err)

	mode, err := ParseAspectMode("exact")
	require.NoError(t, err)
	assert.Equal(t, AspectModeExact, mode)
	mode, err = ParseAspectMode("")
	require.NoError(t, err)
	assert.Equal(t, AspectModeLegacy, mode)
	_, err = ParseAspectMode("stretch")
	assert.Error(t, err)
}

func TestAspectHelpers(t *testing.T) {
	assert.Equal(t, float32(1), legacyAspect(800, 600))
	assert.Equal(t, float32(2), legacyAspect(1600, 600))
	assert.Equal(t, float32(0), legacyAspect(600, 800))
	assert.Equal(t, float32(1), legacyAspect(800, 0))
	assert.InDelta(t, 1.3333, exactAspect(800, 600), 1e-4)
	assert.Equal(t, float32(1), exactAspect(800, 0))
}
