package gpu

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// wgpuInstance implements Instance on top of the native WebGPU binding.
type wgpuInstance struct {
	ref *wgpu.Instance
}

type wgpuAdapter struct {
	ref *wgpu.Adapter
}

type wgpuSurface struct {
	ref *wgpu.Surface

	// width and height track the last configuration; acquired textures always match it.
	width, height uint32
}

type wgpuSurfaceTexture struct {
	ref           *wgpu.Texture
	width, height uint32
}

type wgpuDevice struct {
	ref   *wgpu.Device
	queue *wgpuQueue
}

type wgpuQueue struct {
	ref *wgpu.Queue
}

type wgpuBuffer struct {
	ref *wgpu.Buffer
}

type wgpuCommandEncoder struct {
	ref *wgpu.CommandEncoder
}

type wgpuRenderPass struct {
	ref *wgpu.RenderPassEncoder
}

type (
	wgpuTextureView     struct{ ref *wgpu.TextureView }
	wgpuShaderModule    struct{ ref *wgpu.ShaderModule }
	wgpuBindGroupLayout struct{ ref *wgpu.BindGroupLayout }
	wgpuPipelineLayout  struct{ ref *wgpu.PipelineLayout }
	wgpuRenderPipeline  struct{ ref *wgpu.RenderPipeline }
	wgpuBindGroup       struct{ ref *wgpu.BindGroup }
	wgpuCommandBuffer   struct{ ref *wgpu.CommandBuffer }
)

var (
	_ Instance          = &wgpuInstance{}
	_ Adapter           = &wgpuAdapter{}
	_ Surface           = &wgpuSurface{}
	_ Device            = &wgpuDevice{}
	_ Queue             = &wgpuQueue{}
	_ CommandEncoder    = &wgpuCommandEncoder{}
	_ RenderPassEncoder = &wgpuRenderPass{}
)

// NewInstance creates a WebGPU instance backed by wgpu-native.
//
// Returns:
//   - Instance: the native graphics API instance
func NewInstance() Instance {
	return &wgpuInstance{ref: wgpu.CreateInstance(nil)}
}

func (i *wgpuInstance) CreateSurface(descriptor *wgpu.SurfaceDescriptor) (Surface, error) {
	if descriptor == nil {
		return nil, fmt.Errorf("gpu: window has no surface descriptor")
	}
	s := i.ref.CreateSurface(descriptor)
	if s == nil {
		return nil, fmt.Errorf("gpu: failed to create surface")
	}
	return &wgpuSurface{ref: s}, nil
}

func (i *wgpuInstance) RequestAdapter(options AdapterOptions) (Adapter, error) {
	opts := &wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: options.ForceFallbackAdapter,
	}
	if s, ok := options.CompatibleSurface.(*wgpuSurface); ok {
		opts.CompatibleSurface = s.ref
	}
	a, err := i.ref.RequestAdapter(opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoAdapter, err)
	}
	if a == nil {
		return nil, ErrNoAdapter
	}
	return &wgpuAdapter{ref: a}, nil
}

func (i *wgpuInstance) Release() {
	i.ref.Release()
}

func (a *wgpuAdapter) RequestDevice(label string) (Device, error) {
	d, err := a.ref.RequestDevice(&wgpu.DeviceDescriptor{
		Label: label,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoDevice, err)
	}
	if d == nil {
		return nil, ErrNoDevice
	}
	return &wgpuDevice{ref: d, queue: &wgpuQueue{ref: d.GetQueue()}}, nil
}

func (a *wgpuAdapter) Release() {
	a.ref.Release()
}

func (s *wgpuSurface) Capabilities(adapter Adapter) SurfaceCapabilities {
	caps := s.ref.GetCapabilities(adapter.(*wgpuAdapter).ref)
	return SurfaceCapabilities{
		Formats:      caps.Formats,
		PresentModes: caps.PresentModes,
		AlphaModes:   caps.AlphaModes,
	}
}

func (s *wgpuSurface) Configure(adapter Adapter, device Device, config SurfaceConfiguration) {
	s.ref.Configure(adapter.(*wgpuAdapter).ref, device.(*wgpuDevice).ref, &wgpu.SurfaceConfiguration{
		Usage:       config.Usage,
		Format:      config.Format,
		Width:       config.Width,
		Height:      config.Height,
		PresentMode: config.PresentMode,
		AlphaMode:   config.AlphaMode,
	})
	s.width, s.height = config.Width, config.Height
}

func (s *wgpuSurface) CurrentTexture() (SurfaceTexture, error) {
	tex, err := s.ref.GetCurrentTexture()
	if err != nil {
		return nil, &SurfaceError{Kind: classifySurfaceError(err), Err: err}
	}
	return &wgpuSurfaceTexture{ref: tex, width: s.width, height: s.height}, nil
}

func (s *wgpuSurface) Present() {
	s.ref.Present()
}

func (s *wgpuSurface) Release() {
	s.ref.Release()
}

func (t *wgpuSurfaceTexture) Width() uint32 {
	return t.width
}

func (t *wgpuSurfaceTexture) Height() uint32 {
	return t.height
}

func (t *wgpuSurfaceTexture) CreateView() (TextureView, error) {
	view, err := t.ref.CreateView(nil)
	if err != nil {
		return nil, err
	}
	return &wgpuTextureView{ref: view}, nil
}

func (t *wgpuSurfaceTexture) Release() {
	t.ref.Release()
}

func (d *wgpuDevice) Queue() Queue {
	return d.queue
}

func (d *wgpuDevice) CreateShaderModule(descriptor ShaderModuleDescriptor) (ShaderModule, error) {
	m, err := d.ref.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: descriptor.Label,
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: descriptor.Code,
		},
	})
	if err != nil {
		return nil, err
	}
	return &wgpuShaderModule{ref: m}, nil
}

func (d *wgpuDevice) CreateBindGroupLayout(descriptor *wgpu.BindGroupLayoutDescriptor) (BindGroupLayout, error) {
	l, err := d.ref.CreateBindGroupLayout(descriptor)
	if err != nil {
		return nil, err
	}
	return &wgpuBindGroupLayout{ref: l}, nil
}

func (d *wgpuDevice) CreatePipelineLayout(descriptor PipelineLayoutDescriptor) (PipelineLayout, error) {
	layouts := make([]*wgpu.BindGroupLayout, len(descriptor.BindGroupLayouts))
	for i, l := range descriptor.BindGroupLayouts {
		layouts[i] = l.(*wgpuBindGroupLayout).ref
	}
	pl, err := d.ref.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            descriptor.Label,
		BindGroupLayouts: layouts,
	})
	if err != nil {
		return nil, err
	}
	return &wgpuPipelineLayout{ref: pl}, nil
}

func (d *wgpuDevice) CreateRenderPipeline(descriptor RenderPipelineDescriptor) (RenderPipeline, error) {
	targets := make([]wgpu.ColorTargetState, len(descriptor.Targets))
	for i, t := range descriptor.Targets {
		targets[i] = wgpu.ColorTargetState{
			Format:    t.Format,
			Blend:     t.Blend,
			WriteMask: t.WriteMask,
		}
	}

	p, err := d.ref.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  descriptor.Label,
		Layout: descriptor.Layout.(*wgpuPipelineLayout).ref,
		Vertex: wgpu.VertexState{
			Module:     descriptor.Vertex.Module.(*wgpuShaderModule).ref,
			EntryPoint: descriptor.Vertex.EntryPoint,
		},
		Fragment: &wgpu.FragmentState{
			Module:     descriptor.Fragment.Module.(*wgpuShaderModule).ref,
			EntryPoint: descriptor.Fragment.EntryPoint,
			Targets:    targets,
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  descriptor.Topology,
			FrontFace: descriptor.FrontFace,
			CullMode:  descriptor.CullMode,
		},
		Multisample: wgpu.MultisampleState{
			Count: descriptor.SampleCount,
			Mask:  0xFFFFFFFF,
		},
		DepthStencil: nil,
	})
	if err != nil {
		return nil, err
	}
	return &wgpuRenderPipeline{ref: p}, nil
}

func (d *wgpuDevice) CreateBuffer(descriptor BufferDescriptor) (Buffer, error) {
	b, err := d.ref.CreateBuffer(&wgpu.BufferDescriptor{
		Label:            descriptor.Label,
		Size:             descriptor.Size,
		Usage:            descriptor.Usage,
		MappedAtCreation: false,
	})
	if err != nil {
		return nil, err
	}
	return &wgpuBuffer{ref: b}, nil
}

func (d *wgpuDevice) CreateBufferInit(descriptor BufferInitDescriptor) (Buffer, error) {
	b, err := d.ref.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    descriptor.Label,
		Contents: descriptor.Contents,
		Usage:    descriptor.Usage,
	})
	if err != nil {
		return nil, err
	}
	return &wgpuBuffer{ref: b}, nil
}

func (d *wgpuDevice) CreateBindGroup(descriptor BindGroupDescriptor) (BindGroup, error) {
	entries := make([]wgpu.BindGroupEntry, len(descriptor.Entries))
	for i, e := range descriptor.Entries {
		entries[i] = wgpu.BindGroupEntry{
			Binding: e.Binding,
			Buffer:  e.Buffer.(*wgpuBuffer).ref,
			Offset:  0,
			Size:    wgpu.WholeSize,
		}
	}
	bg, err := d.ref.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:   descriptor.Label,
		Layout:  descriptor.Layout.(*wgpuBindGroupLayout).ref,
		Entries: entries,
	})
	if err != nil {
		return nil, err
	}
	return &wgpuBindGroup{ref: bg}, nil
}

func (d *wgpuDevice) CreateCommandEncoder(label string) (CommandEncoder, error) {
	e, err := d.ref.CreateCommandEncoder(&wgpu.CommandEncoderDescriptor{
		Label: label,
	})
	if err != nil {
		return nil, err
	}
	return &wgpuCommandEncoder{ref: e}, nil
}

func (d *wgpuDevice) Release() {
	d.ref.Release()
}

func (q *wgpuQueue) WriteBuffer(buffer Buffer, offset uint64, data []byte) error {
	return q.ref.WriteBuffer(buffer.(*wgpuBuffer).ref, offset, data)
}

func (q *wgpuQueue) Submit(buffers ...CommandBuffer) {
	refs := make([]*wgpu.CommandBuffer, len(buffers))
	for i, b := range buffers {
		refs[i] = b.(*wgpuCommandBuffer).ref
	}
	q.ref.Submit(refs...)
}

func (e *wgpuCommandEncoder) BeginRenderPass(descriptor RenderPassDescriptor) RenderPassEncoder {
	pass := e.ref.BeginRenderPass(&wgpu.RenderPassDescriptor{
		Label: descriptor.Label,
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:       descriptor.View.(*wgpuTextureView).ref,
				LoadOp:     descriptor.LoadOp,
				StoreOp:    descriptor.StoreOp,
				ClearValue: descriptor.ClearValue,
			},
		},
	})
	return &wgpuRenderPass{ref: pass}
}

func (e *wgpuCommandEncoder) Finish() (CommandBuffer, error) {
	cb, err := e.ref.Finish(nil)
	if err != nil {
		return nil, err
	}
	return &wgpuCommandBuffer{ref: cb}, nil
}

func (e *wgpuCommandEncoder) Release() {
	e.ref.Release()
}

func (p *wgpuRenderPass) SetPipeline(pipeline RenderPipeline) {
	p.ref.SetPipeline(pipeline.(*wgpuRenderPipeline).ref)
}

func (p *wgpuRenderPass) SetBindGroup(index uint32, group BindGroup) {
	p.ref.SetBindGroup(index, group.(*wgpuBindGroup).ref, nil)
}

func (p *wgpuRenderPass) Draw(vertexCount, instanceCount, firstVertex, firstInstance uint32) {
	p.ref.Draw(vertexCount, instanceCount, firstVertex, firstInstance)
}

func (p *wgpuRenderPass) End() error {
	return p.ref.End()
}

func (p *wgpuRenderPass) Release() {
	p.ref.Release()
}

func (b *wgpuBuffer) Size() uint64 {
	return b.ref.GetSize()
}

func (b *wgpuBuffer) Release() {
	b.ref.Release()
}

func (v *wgpuTextureView) Release()     { v.ref.Release() }
func (m *wgpuShaderModule) Release()    { m.ref.Release() }
func (l *wgpuBindGroupLayout) Release() { l.ref.Release() }
func (l *wgpuPipelineLayout) Release()  { l.ref.Release() }
func (p *wgpuRenderPipeline) Release()  { p.ref.Release() }
func (g *wgpuBindGroup) Release()       { g.ref.Release() }
func (c *wgpuCommandBuffer) Release()   { c.ref.Release() }
