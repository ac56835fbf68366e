// Package renderer owns the GPU state bound to a window and draws one frame of the renderable pool per call.
package renderer

import (
	"fmt"
	"image/color"
	"math/rand/v2"

	"github.com/Carmen-Shannon/oxy-re/common"
	"github.com/Carmen-Shannon/oxy-re/engine/gpu"
	"github.com/Carmen-Shannon/oxy-re/engine/renderable"
	"github.com/Carmen-Shannon/oxy-re/engine/renderer/assets"
	"github.com/Carmen-Shannon/oxy-re/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-re/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-re/engine/window"
	"github.com/cogentcore/webgpu/wgpu"
)

const (
	shaderLabel        = "Shader"
	pipelineLabel      = "Render"
	commandEncoderName = "Render Encoder"
	renderPassName     = "Render Pass"

	// verticesPerObject is the vertex count of one triangle; the shader generates its corners.
	verticesPerObject = 3
)

// renderer is the implementation of the Renderer interface.
type renderer struct {
	window window.Window
	state  *gpuState

	pipeline pipeline.Pipeline
	pool     renderable.Pool

	// The following properties are set with the builder options before bootstrap.

	objectCount          int
	rng                  *rand.Rand
	presentMode          PresentMode
	aspectMode           AspectMode
	background           wgpu.Color
	forceFallbackAdapter bool

	frames uint64
}

// Renderer is the application state bound to one window: surface, device, queue, surface
// configuration, the compiled pipeline and the object pool.
type Renderer interface {
	// Window returns the window the renderer draws into.
	Window() window.Window

	// SurfaceConfiguration returns the current surface configuration.
	SurfaceConfiguration() SurfaceConfiguration

	// Resize reconfigures the surface for a new framebuffer size. A zero width or height is ignored.
	//
	// Parameters:
	//   - width: the new framebuffer width in pixels
	//   - height: the new framebuffer height in pixels
	//
	// Returns:
	//   - bool: true if the size was accepted and the surface reconfigured
	Resize(width, height int) bool

	// Reconfigure applies the current surface configuration again.
	Reconfigure()

	// Draw renders one frame: every object in pool order, one triangle each, then presents.
	//
	// Returns:
	//   - error: a *SurfaceError if the surface texture could not be acquired, or the GPU error
	//     that stopped the frame
	Draw() error

	// Objects returns the renderable objects in draw order.
	Objects() []renderable.Object

	// Pipeline returns the render pipeline.
	Pipeline() pipeline.Pipeline

	// AspectMode returns the aspect correction mode.
	AspectMode() AspectMode

	// Background returns the clear color of every frame.
	Background() wgpu.Color

	// FrameCount returns the number of frames presented.
	FrameCount() uint64

	// Release releases every GPU object. The window is left open.
	Release()
}

var _ Renderer = &renderer{}

// NewRenderer bootstraps the GPU for win, builds the render pipeline and creates the object pool.
// Builder options are applied before the adapter is requested.
//
// Parameters:
//   - instance: the graphics API instance
//   - win: the window to draw into
//   - options: functional options to configure the renderer
//
// Returns:
//   - Renderer: the renderer
//   - error: error wrapping gpu.ErrNoAdapter or gpu.ErrNoDevice, or any pipeline or resource error
func NewRenderer(instance gpu.Instance, win window.Window, options ...RendererBuilderOption) (Renderer, error) {
	r := &renderer{
		window:      win,
		objectCount: renderable.DefaultCount,
		background:  wgpu.Color{R: 1, G: 1, B: 1, A: 1},
	}
	for _, opt := range options {
		opt(r)
	}
	if r.rng == nil {
		r.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	state, err := bootstrap(instance, win, r.forceFallbackAdapter, r.presentMode)
	if err != nil {
		return nil, err
	}
	r.state = state

	if err := r.init(); err != nil {
		r.Release()
		return nil, err
	}
	return r, nil
}

func (r *renderer) init() error {
	s, err := shader.NewShader(shaderLabel, assets.TriangleWGSL)
	if err != nil {
		return fmt.Errorf("renderer: %w", err)
	}

	r.pipeline = pipeline.NewPipeline(pipelineLabel, s)
	if err := r.pipeline.Build(r.state.device, r.state.config.Format); err != nil {
		return fmt.Errorf("renderer: %w", err)
	}

	r.pool, err = renderable.NewPool(r.state.device, r.pipeline.BindGroupLayout(0), r.objectCount, r.rng)
	if err != nil {
		return fmt.Errorf("renderer: %w", err)
	}

	common.Logger().Info("renderer ready", "objects", r.pool.Len(), "aspectMode", r.aspectMode)
	return nil
}

func (r *renderer) Window() window.Window {
	return r.window
}

func (r *renderer) SurfaceConfiguration() SurfaceConfiguration {
	return r.state.config
}

func (r *renderer) Resize(width, height int) bool {
	if !r.state.resize(width, height) {
		common.Logger().Debug("resize ignored", "width", width, "height", height)
		return false
	}
	common.Logger().Debug("surface resized", "width", width, "height", height)
	return true
}

func (r *renderer) Reconfigure() {
	r.state.reconfigure()
}

func (r *renderer) Draw() error {
	texture, err := r.state.surface.CurrentTexture()
	if err != nil {
		return err
	}
	defer texture.Release()

	view, err := texture.CreateView()
	if err != nil {
		return fmt.Errorf("renderer: create view: %w", err)
	}
	defer view.Release()

	encoder, err := r.state.device.CreateCommandEncoder(commandEncoderName)
	if err != nil {
		return fmt.Errorf("renderer: create command encoder: %w", err)
	}
	defer encoder.Release()

	if err := r.encodePass(encoder, view, texture.Width(), texture.Height()); err != nil {
		return err
	}

	commands, err := encoder.Finish()
	if err != nil {
		return fmt.Errorf("renderer: finish: %w", err)
	}
	defer commands.Release()

	r.state.queue.Submit(commands)
	r.state.surface.Present()
	r.frames++
	return nil
}

// encodePass records one render pass drawing every object into view.
func (r *renderer) encodePass(encoder gpu.CommandEncoder, view gpu.TextureView, width, height uint32) error {
	pass := encoder.BeginRenderPass(gpu.RenderPassDescriptor{
		Label:      renderPassName,
		View:       view,
		LoadOp:     wgpu.LoadOpClear,
		StoreOp:    wgpu.StoreOpStore,
		ClearValue: r.background,
	})
	defer pass.Release()

	pass.SetPipeline(r.pipeline.RenderPipeline())

	legacy := legacyAspect(width, height)
	exact := exactAspect(width, height)
	for i, o := range r.pool.Objects() {
		scale := o.Scale()
		if r.aspectMode == AspectModeExact {
			base := o.BaseScale()
			scale[0] = base[0] / exact
			scale[1] = base[1]
		} else {
			scale[0] /= legacy
		}

		if err := o.WriteScale(r.state.queue); err != nil {
			_ = pass.End()
			return fmt.Errorf("renderer: object %d: %w", i, err)
		}
		pass.SetBindGroup(0, o.BindGroup())
		pass.Draw(verticesPerObject, 1, 0, 0)
	}

	if err := pass.End(); err != nil {
		return fmt.Errorf("renderer: end render pass: %w", err)
	}
	return nil
}

func (r *renderer) Objects() []renderable.Object {
	if r.pool == nil {
		return nil
	}
	return r.pool.Objects()
}

func (r *renderer) Pipeline() pipeline.Pipeline {
	return r.pipeline
}

func (r *renderer) AspectMode() AspectMode {
	return r.aspectMode
}

func (r *renderer) Background() wgpu.Color {
	return r.background
}

func (r *renderer) FrameCount() uint64 {
	return r.frames
}

func (r *renderer) Release() {
	if r.pool != nil {
		r.pool.Release()
		r.pool = nil
	}
	if r.pipeline != nil {
		r.pipeline.Release()
		r.pipeline = nil
	}
	if r.state != nil {
		r.state.release()
		r.state = nil
	}
	common.Logger().Debug("renderer released", "frames", r.frames)
}

// toWGPUColor converts c to a wgpu clear color with components in [0, 1].
func toWGPUColor(c color.Color) wgpu.Color {
	cr, cg, cb, ca := c.RGBA()
	return wgpu.Color{
		R: float64(cr) / 0xffff,
		G: float64(cg) / 0xffff,
		B: float64(cb) / 0xffff,
		A: float64(ca) / 0xffff,
	}
}
