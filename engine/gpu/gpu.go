// Package gpu describes the graphics device capability consumed by the renderer.
//
// The interfaces mirror the WebGPU object model (instance, adapter, device, queue, surface,
// command encoder, render pass) and reuse the plain descriptor enums from
// github.com/cogentcore/webgpu/wgpu, so the renderer can be driven either by the native
// WebGPU implementation returned by NewInstance or by the recording fake in gpu/gputest.
package gpu

import "github.com/cogentcore/webgpu/wgpu"

// Instance is the entry point to the graphics API.
type Instance interface {
	// CreateSurface creates a presentable surface for a platform window.
	//
	// Parameters:
	//   - descriptor: the platform-specific surface descriptor provided by the window
	//
	// Returns:
	//   - Surface: the created surface
	//   - error: an error if the surface could not be created
	CreateSurface(descriptor *wgpu.SurfaceDescriptor) (Surface, error)

	// RequestAdapter selects a physical GPU. Blocks until the request completes.
	//
	// Parameters:
	//   - options: adapter selection options
	//
	// Returns:
	//   - Adapter: the selected adapter
	//   - error: an error if no adapter satisfies the options
	RequestAdapter(options AdapterOptions) (Adapter, error)

	// Release releases the instance.
	Release()
}

// AdapterOptions controls adapter selection.
type AdapterOptions struct {
	// CompatibleSurface restricts selection to adapters that can present to this surface.
	CompatibleSurface Surface
	// ForceFallbackAdapter requests a CPU/software adapter.
	ForceFallbackAdapter bool
}

// Adapter is a handle to one physical GPU.
type Adapter interface {
	// RequestDevice opens a logical device with no optional features. Blocks until the request completes.
	//
	// Parameters:
	//   - label: debug label for the device
	//
	// Returns:
	//   - Device: the logical device
	//   - error: an error if no device with the required features is available
	RequestDevice(label string) (Device, error)

	// Release releases the adapter.
	Release()
}

// SurfaceCapabilities lists what a surface supports on a given adapter.
// Formats, PresentModes and AlphaModes are in the order reported by the driver.
type SurfaceCapabilities struct {
	Formats      []wgpu.TextureFormat
	PresentModes []wgpu.PresentMode
	AlphaModes   []wgpu.CompositeAlphaMode
}

// SurfaceConfiguration is the negotiated size and presentation policy of a surface.
type SurfaceConfiguration struct {
	Usage       wgpu.TextureUsage
	Format      wgpu.TextureFormat
	Width       uint32
	Height      uint32
	PresentMode wgpu.PresentMode
	AlphaMode   wgpu.CompositeAlphaMode
}

// Surface is the drawable target of a window.
type Surface interface {
	// Capabilities reports the formats, present modes and alpha modes supported with the adapter.
	Capabilities(adapter Adapter) SurfaceCapabilities

	// Configure (re)configures the swapchain. Safe to call repeatedly with the same configuration.
	Configure(adapter Adapter, device Device, config SurfaceConfiguration)

	// CurrentTexture acquires the next presentable texture. May block on the compositor.
	// Failures are returned as *SurfaceError.
	CurrentTexture() (SurfaceTexture, error)

	// Present presents the most recently acquired texture.
	Present()

	// Release releases the surface.
	Release()
}

// SurfaceTexture is a presentable texture acquired from a Surface.
type SurfaceTexture interface {
	Width() uint32
	Height() uint32
	CreateView() (TextureView, error)
	Release()
}

// TextureView is a view onto a texture usable as a render attachment.
type TextureView interface {
	Release()
}

// Device is a logical GPU device.
type Device interface {
	// Queue returns the device's command queue.
	Queue() Queue

	CreateShaderModule(descriptor ShaderModuleDescriptor) (ShaderModule, error)
	CreateBindGroupLayout(descriptor *wgpu.BindGroupLayoutDescriptor) (BindGroupLayout, error)
	CreatePipelineLayout(descriptor PipelineLayoutDescriptor) (PipelineLayout, error)
	CreateRenderPipeline(descriptor RenderPipelineDescriptor) (RenderPipeline, error)

	// CreateBuffer creates an uninitialized buffer.
	CreateBuffer(descriptor BufferDescriptor) (Buffer, error)

	// CreateBufferInit creates a buffer initialized with contents.
	CreateBufferInit(descriptor BufferInitDescriptor) (Buffer, error)

	CreateBindGroup(descriptor BindGroupDescriptor) (BindGroup, error)
	CreateCommandEncoder(label string) (CommandEncoder, error)

	// Release releases the device.
	Release()
}

// Queue submits work to a device.
type Queue interface {
	// WriteBuffer schedules a write of data into buffer at offset.
	WriteBuffer(buffer Buffer, offset uint64, data []byte) error

	// Submit submits command buffers for execution.
	Submit(buffers ...CommandBuffer)
}

// ShaderModuleDescriptor describes a WGSL shader module.
type ShaderModuleDescriptor struct {
	Label string
	Code  string
}

// PipelineLayoutDescriptor describes a pipeline layout by its bind group layouts, indexed by group.
type PipelineLayoutDescriptor struct {
	Label            string
	BindGroupLayouts []BindGroupLayout
}

// ProgrammableStage names a shader module entry point.
type ProgrammableStage struct {
	Module     ShaderModule
	EntryPoint string
}

// ColorTarget describes one color attachment of a render pipeline. A nil Blend disables blending.
type ColorTarget struct {
	Format    wgpu.TextureFormat
	Blend     *wgpu.BlendState
	WriteMask wgpu.ColorWriteMask
}

// RenderPipelineDescriptor describes a render pipeline with no vertex buffers and no depth/stencil.
type RenderPipelineDescriptor struct {
	Label       string
	Layout      PipelineLayout
	Vertex      ProgrammableStage
	Fragment    ProgrammableStage
	Targets     []ColorTarget
	Topology    wgpu.PrimitiveTopology
	FrontFace   wgpu.FrontFace
	CullMode    wgpu.CullMode
	SampleCount uint32
}

// BufferDescriptor describes an uninitialized buffer.
type BufferDescriptor struct {
	Label string
	Size  uint64
	Usage wgpu.BufferUsage
}

// BufferInitDescriptor describes a buffer created with initial contents.
type BufferInitDescriptor struct {
	Label    string
	Contents []byte
	Usage    wgpu.BufferUsage
}

// BindGroupEntry binds a whole buffer at a binding index.
type BindGroupEntry struct {
	Binding uint32
	Buffer  Buffer
}

// BindGroupDescriptor describes a bind group against a layout.
type BindGroupDescriptor struct {
	Label   string
	Layout  BindGroupLayout
	Entries []BindGroupEntry
}

// RenderPassDescriptor describes a render pass with a single color attachment.
type RenderPassDescriptor struct {
	Label      string
	View       TextureView
	LoadOp     wgpu.LoadOp
	StoreOp    wgpu.StoreOp
	ClearValue wgpu.Color
}

// CommandEncoder records GPU commands.
type CommandEncoder interface {
	BeginRenderPass(descriptor RenderPassDescriptor) RenderPassEncoder
	Finish() (CommandBuffer, error)
	Release()
}

// RenderPassEncoder records draw commands within a render pass.
type RenderPassEncoder interface {
	SetPipeline(pipeline RenderPipeline)
	SetBindGroup(index uint32, group BindGroup)
	Draw(vertexCount, instanceCount, firstVertex, firstInstance uint32)
	End() error
	Release()
}

// The following are opaque GPU handles.

type (
	ShaderModule    interface{ Release() }
	BindGroupLayout interface{ Release() }
	PipelineLayout  interface{ Release() }
	RenderPipeline  interface{ Release() }
	BindGroup       interface{ Release() }
	CommandBuffer   interface{ Release() }
)

// Buffer is a GPU memory block.
type Buffer interface {
	Size() uint64
	Release()
}
