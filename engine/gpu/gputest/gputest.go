// Package gputest provides a recording implementation of the gpu interfaces for tests.
//
// The fake keeps counters of every object created and a log of every command recorded, so tests can
// assert on the work a frame issues without a physical GPU.
package gputest

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-re/engine/gpu"
	"github.com/cogentcore/webgpu/wgpu"
)

// Counts is a snapshot of the objects a Device has created.
type Counts struct {
	ShaderModules    int
	BindGroupLayouts int
	PipelineLayouts  int
	Pipelines        int
	Buffers          int
	BindGroups       int
	CommandEncoders  int
	Submits          int
	Presents         int
	Configures       int
}

// Command is one recorded render pass command.
type Command struct {
	Op            string
	Label         string
	ClearValue    wgpu.Color
	Pipeline      *RenderPipeline
	BindGroup     *BindGroup
	Index         uint32
	VertexCount   uint32
	InstanceCount uint32
}

// Write is one recorded queue write.
type Write struct {
	Buffer *Buffer
	Offset uint64
	Data   []byte
}

// Instance is a fake gpu.Instance. A nil Surface field is filled on first CreateSurface.
type Instance struct {
	Surface  *Surface
	Adapter  *Adapter
	Released bool

	// SurfaceErr, when set, is returned by CreateSurface.
	SurfaceErr error
	// AdapterErr, when set, is returned by RequestAdapter.
	AdapterErr error
	// LastOptions records the options of the last RequestAdapter call.
	LastOptions gpu.AdapterOptions
	// SurfacesCreated counts CreateSurface calls.
	SurfacesCreated int
}

// Adapter is a fake gpu.Adapter. A nil Device field is filled on first RequestDevice.
type Adapter struct {
	Device    *Device
	DeviceErr error
	Released  bool
}

// Surface is a fake gpu.Surface.
type Surface struct {
	Caps gpu.SurfaceCapabilities

	// AcquireErr, when set, is returned by CurrentTexture.
	AcquireErr error

	// Config is the last configuration applied; Configured reports whether Configure was called.
	Config     gpu.SurfaceConfiguration
	Configured bool
	Configures int
	Presents   int
	Released   bool
}

// Device is a fake gpu.Device that records every call.
type Device struct {
	mu sync.Mutex

	queue    *Queue
	counts   Counts
	commands []Command
	labels   []string

	// Modules, Layouts, Pipelines, Buffers and BindGroups are every object created, in order.
	Modules    []*ShaderModule
	Layouts    []*BindGroupLayout
	Pipelines  []*RenderPipeline
	Buffers    []*Buffer
	BindGroups []*BindGroup

	// FailShaderModule, when set, is returned by CreateShaderModule.
	FailShaderModule error
	// EndErr, when set, is returned by RenderPass.End.
	EndErr   error
	Released bool
}

// Queue is a fake gpu.Queue.
type Queue struct {
	device *Device
	Writes []Write

	// WriteErr, when set, is returned by WriteBuffer before any copy.
	WriteErr error
}

// Buffer is a fake gpu.Buffer holding its contents in memory.
type Buffer struct {
	Label    string
	Usage    wgpu.BufferUsage
	Contents []byte
	Released bool
}

// BindGroup is a fake gpu.BindGroup.
type BindGroup struct {
	Label    string
	Layout   *BindGroupLayout
	Entries  []gpu.BindGroupEntry
	Released bool
}

// BindGroupLayout is a fake gpu.BindGroupLayout.
type BindGroupLayout struct {
	Descriptor wgpu.BindGroupLayoutDescriptor
	Released   bool
}

// ShaderModule is a fake gpu.ShaderModule.
type ShaderModule struct {
	Descriptor gpu.ShaderModuleDescriptor
	Released   bool
}

// PipelineLayout is a fake gpu.PipelineLayout.
type PipelineLayout struct {
	Descriptor gpu.PipelineLayoutDescriptor
	Released   bool
}

// RenderPipeline is a fake gpu.RenderPipeline.
type RenderPipeline struct {
	Descriptor gpu.RenderPipelineDescriptor
	Released   bool
}

type surfaceTexture struct {
	width, height uint32
}

type textureView struct{}

type commandEncoder struct {
	device *Device
}

type renderPass struct {
	device *Device
}

type commandBuffer struct{}

var (
	_ gpu.Instance          = &Instance{}
	_ gpu.Adapter           = &Adapter{}
	_ gpu.Surface           = &Surface{}
	_ gpu.Device            = &Device{}
	_ gpu.Queue             = &Queue{}
	_ gpu.Buffer            = &Buffer{}
	_ gpu.CommandEncoder    = &commandEncoder{}
	_ gpu.RenderPassEncoder = &renderPass{}
)

// NewInstance returns a fake instance whose surface supports an sRGB and a linear format, FIFO and
// Mailbox present modes and opaque alpha.
func NewInstance() *Instance {
	return &Instance{
		Surface: NewSurface(),
		Adapter: &Adapter{Device: NewDevice()},
	}
}

// NewSurface returns a fake surface with default capabilities.
func NewSurface() *Surface {
	return &Surface{
		Caps: gpu.SurfaceCapabilities{
			Formats:      []wgpu.TextureFormat{wgpu.TextureFormatBGRA8Unorm, wgpu.TextureFormatBGRA8UnormSrgb},
			PresentModes: []wgpu.PresentMode{wgpu.PresentModeFifo, wgpu.PresentModeMailbox},
			AlphaModes:   []wgpu.CompositeAlphaMode{wgpu.CompositeAlphaModeOpaque},
		},
	}
}

// NewDevice returns an empty recording device.
func NewDevice() *Device {
	d := &Device{}
	d.queue = &Queue{device: d}
	return d
}

func (i *Instance) CreateSurface(descriptor *wgpu.SurfaceDescriptor) (gpu.Surface, error) {
	if i.SurfaceErr != nil {
		return nil, i.SurfaceErr
	}
	if i.Surface == nil {
		i.Surface = NewSurface()
	}
	i.SurfacesCreated++
	i.Surface.Released = false
	return i.Surface, nil
}

func (i *Instance) RequestAdapter(options gpu.AdapterOptions) (gpu.Adapter, error) {
	i.LastOptions = options
	if i.AdapterErr != nil {
		return nil, fmt.Errorf("%w: %v", gpu.ErrNoAdapter, i.AdapterErr)
	}
	if i.Adapter == nil {
		i.Adapter = &Adapter{}
	}
	i.Adapter.Released = false
	return i.Adapter, nil
}

func (i *Instance) Release() {
	i.Released = true
}

func (a *Adapter) RequestDevice(label string) (gpu.Device, error) {
	if a.DeviceErr != nil {
		return nil, fmt.Errorf("%w: %v", gpu.ErrNoDevice, a.DeviceErr)
	}
	if a.Device == nil {
		a.Device = NewDevice()
	}
	a.Device.Released = false
	return a.Device, nil
}

func (a *Adapter) Release() {
	a.Released = true
}

func (s *Surface) Capabilities(adapter gpu.Adapter) gpu.SurfaceCapabilities {
	return s.Caps
}

func (s *Surface) Configure(adapter gpu.Adapter, device gpu.Device, config gpu.SurfaceConfiguration) {
	s.Config = config
	s.Configured = true
	s.Configures++
	if d, ok := device.(*Device); ok {
		d.mu.Lock()
		d.counts.Configures++
		d.mu.Unlock()
	}
}

func (s *Surface) CurrentTexture() (gpu.SurfaceTexture, error) {
	if s.AcquireErr != nil {
		return nil, s.AcquireErr
	}
	return &surfaceTexture{width: s.Config.Width, height: s.Config.Height}, nil
}

func (s *Surface) Present() {
	s.Presents++
}

func (s *Surface) Release() {
	s.Released = true
}

func (t *surfaceTexture) Width() uint32  { return t.width }
func (t *surfaceTexture) Height() uint32 { return t.height }
func (t *surfaceTexture) Release()       {}

func (t *surfaceTexture) CreateView() (gpu.TextureView, error) {
	return &textureView{}, nil
}

func (v *textureView) Release() {}

// Counts returns a snapshot of the objects created so far.
func (d *Device) Counts() Counts {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.counts
}

// Commands returns the render pass commands recorded so far.
func (d *Device) Commands() []Command {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]Command, len(d.commands))
	copy(out, d.commands)
	return out
}

// Draws returns only the draw commands recorded so far.
func (d *Device) Draws() []Command {
	var draws []Command
	for _, c := range d.Commands() {
		if c.Op == "draw" {
			draws = append(draws, c)
		}
	}
	return draws
}

// Labels returns the labels of every object created, in creation order.
func (d *Device) Labels() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]string, len(d.labels))
	copy(out, d.labels)
	return out
}

// ResetCommands clears the command log and the queue write log.
func (d *Device) ResetCommands() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.commands = nil
	d.queue.Writes = nil
}

// FakeQueue returns the device queue with its recorded writes.
func (d *Device) FakeQueue() *Queue {
	return d.queue
}

func (d *Device) Queue() gpu.Queue {
	return d.queue
}

func (d *Device) record(label string, bump func(*Counts)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	bump(&d.counts)
	d.labels = append(d.labels, label)
}

func (d *Device) CreateShaderModule(descriptor gpu.ShaderModuleDescriptor) (gpu.ShaderModule, error) {
	if d.FailShaderModule != nil {
		return nil, d.FailShaderModule
	}
	d.record(descriptor.Label, func(c *Counts) { c.ShaderModules++ })
	m := &ShaderModule{Descriptor: descriptor}
	d.Modules = append(d.Modules, m)
	return m, nil
}

func (d *Device) CreateBindGroupLayout(descriptor *wgpu.BindGroupLayoutDescriptor) (gpu.BindGroupLayout, error) {
	d.record(descriptor.Label, func(c *Counts) { c.BindGroupLayouts++ })
	l := &BindGroupLayout{Descriptor: *descriptor}
	d.Layouts = append(d.Layouts, l)
	return l, nil
}

func (d *Device) CreatePipelineLayout(descriptor gpu.PipelineLayoutDescriptor) (gpu.PipelineLayout, error) {
	d.record(descriptor.Label, func(c *Counts) { c.PipelineLayouts++ })
	return &PipelineLayout{Descriptor: descriptor}, nil
}

func (d *Device) CreateRenderPipeline(descriptor gpu.RenderPipelineDescriptor) (gpu.RenderPipeline, error) {
	d.record(descriptor.Label, func(c *Counts) { c.Pipelines++ })
	p := &RenderPipeline{Descriptor: descriptor}
	d.Pipelines = append(d.Pipelines, p)
	return p, nil
}

func (d *Device) CreateBuffer(descriptor gpu.BufferDescriptor) (gpu.Buffer, error) {
	d.record(descriptor.Label, func(c *Counts) { c.Buffers++ })
	b := &Buffer{Label: descriptor.Label, Usage: descriptor.Usage, Contents: make([]byte, descriptor.Size)}
	d.Buffers = append(d.Buffers, b)
	return b, nil
}

func (d *Device) CreateBufferInit(descriptor gpu.BufferInitDescriptor) (gpu.Buffer, error) {
	d.record(descriptor.Label, func(c *Counts) { c.Buffers++ })
	contents := make([]byte, len(descriptor.Contents))
	copy(contents, descriptor.Contents)
	b := &Buffer{Label: descriptor.Label, Usage: descriptor.Usage, Contents: contents}
	d.Buffers = append(d.Buffers, b)
	return b, nil
}

func (d *Device) CreateBindGroup(descriptor gpu.BindGroupDescriptor) (gpu.BindGroup, error) {
	layout, _ := descriptor.Layout.(*BindGroupLayout)
	d.record(descriptor.Label, func(c *Counts) { c.BindGroups++ })
	g := &BindGroup{Label: descriptor.Label, Layout: layout, Entries: descriptor.Entries}
	d.BindGroups = append(d.BindGroups, g)
	return g, nil
}

func (d *Device) CreateCommandEncoder(label string) (gpu.CommandEncoder, error) {
	d.mu.Lock()
	d.counts.CommandEncoders++
	d.mu.Unlock()
	return &commandEncoder{device: d}, nil
}

func (d *Device) Release() {
	d.Released = true
}

func (q *Queue) WriteBuffer(buffer gpu.Buffer, offset uint64, data []byte) error {
	if q.WriteErr != nil {
		return q.WriteErr
	}
	b, ok := buffer.(*Buffer)
	if !ok {
		return fmt.Errorf("gputest: foreign buffer %T", buffer)
	}
	if offset+uint64(len(data)) > uint64(len(b.Contents)) {
		return fmt.Errorf("gputest: write of %d bytes at %d overflows buffer %q of %d bytes", len(data), offset, b.Label, len(b.Contents))
	}
	copy(b.Contents[offset:], data)

	recorded := make([]byte, len(data))
	copy(recorded, data)
	q.device.mu.Lock()
	q.Writes = append(q.Writes, Write{Buffer: b, Offset: offset, Data: recorded})
	q.device.mu.Unlock()
	return nil
}

func (q *Queue) Submit(buffers ...gpu.CommandBuffer) {
	q.device.mu.Lock()
	q.device.counts.Submits++
	q.device.mu.Unlock()
}

func (e *commandEncoder) BeginRenderPass(descriptor gpu.RenderPassDescriptor) gpu.RenderPassEncoder {
	e.device.appendCommand(Command{Op: "begin", Label: descriptor.Label, ClearValue: descriptor.ClearValue})
	return &renderPass{device: e.device}
}

func (e *commandEncoder) Finish() (gpu.CommandBuffer, error) {
	return &commandBuffer{}, nil
}

func (e *commandEncoder) Release() {}

func (d *Device) appendCommand(c Command) {
	d.mu.Lock()
	d.commands = append(d.commands, c)
	d.mu.Unlock()
}

func (p *renderPass) SetPipeline(pipeline gpu.RenderPipeline) {
	rp, _ := pipeline.(*RenderPipeline)
	p.device.appendCommand(Command{Op: "pipeline", Pipeline: rp})
}

func (p *renderPass) SetBindGroup(index uint32, group gpu.BindGroup) {
	bg, _ := group.(*BindGroup)
	p.device.appendCommand(Command{Op: "bind", BindGroup: bg, Index: index})
}

func (p *renderPass) Draw(vertexCount, instanceCount, firstVertex, firstInstance uint32) {
	p.device.appendCommand(Command{Op: "draw", VertexCount: vertexCount, InstanceCount: instanceCount})
}

func (p *renderPass) End() error {
	p.device.appendCommand(Command{Op: "end"})
	return p.device.EndErr
}

func (p *renderPass) Release() {}

func (c *commandBuffer) Release() {}

func (b *Buffer) Size() uint64 {
	return uint64(len(b.Contents))
}

func (b *Buffer) Release() {
	b.Released = true
}

func (g *BindGroup) Release()       { g.Released = true }
func (l *BindGroupLayout) Release() { l.Released = true }
func (m *ShaderModule) Release()    { m.Released = true }
func (l *PipelineLayout) Release()  { l.Released = true }
func (p *RenderPipeline) Release()  { p.Released = true }
