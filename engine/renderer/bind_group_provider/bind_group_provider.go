package bind_group_provider

import (
	"fmt"
	"sort"

	"github.com/Carmen-Shannon/oxy-re/engine/gpu"
	"github.com/cogentcore/webgpu/wgpu"
)

// bufferSpec describes one buffer the provider creates on Init.
type bufferSpec struct {
	label    string
	size     uint64
	contents []byte
	usage    wgpu.BufferUsage
}

// bindGroupProvider is the unexported implementation of BindGroupProvider.
type bindGroupProvider struct {
	// label is a debug label used for the bind group.
	label string

	// specs describe the buffers to create, keyed by binding index.
	specs map[int]bufferSpec

	// The following fields are GPU allocated resources and must be released when no longer needed.
	// They are populated by Init.

	// bindGroup is the GPU bind group created for this provider, or nil if not initialized.
	bindGroup gpu.BindGroup
	// buffers holds the GPU buffers created for this provider, keyed by binding index.
	buffers map[int]gpu.Buffer
}

// BindGroupProvider owns the buffers and the bind group for one set of shader bindings.
// Buffers are declared with options at construction and created on the GPU by Init.
//
// Usage pattern:
//  1. Create a provider with WithUniform/WithUniformInit for every binding
//  2. Call Init with the device and the pipeline's bind group layout
//  3. Update buffers with Write (or a BufferWrite) before each draw
//  4. Bind BindGroup() in the render pass
//  5. Release when the owning GPU state is torn down
type BindGroupProvider interface {
	// Label returns the debug label for this provider.
	Label() string

	// Init creates the declared buffers and a bind group referencing each of them whole.
	//
	// Parameters:
	//   - device: the device to allocate on
	//   - layout: the bind group layout the bind group must match
	//
	// Returns:
	//   - error: error if the provider is already initialized or a GPU object could not be created
	Init(device gpu.Device, layout gpu.BindGroupLayout) error

	// BindGroup returns the created bind group for shader binding.
	// Returns nil if GPU resources have not been initialized.
	//
	// Returns:
	//   - gpu.BindGroup: the bind group or nil
	BindGroup() gpu.BindGroup

	// Buffer returns the buffer created for a binding, or nil if none.
	//
	// Parameters:
	//   - binding: the binding index
	//
	// Returns:
	//   - gpu.Buffer: the buffer or nil
	Buffer(binding int) gpu.Buffer

	// Buffers returns all buffers associated with this provider, keyed by binding index.
	Buffers() map[int]gpu.Buffer

	// Write schedules a write of data into the buffer at binding.
	//
	// Parameters:
	//   - queue: the queue to schedule the write on
	//   - binding: the binding index of the target buffer
	//   - offset: the byte offset into the buffer
	//   - data: the bytes to write
	//
	// Returns:
	//   - error: error if the binding has no buffer or the write does not fit
	Write(queue gpu.Queue, binding int, offset uint64, data []byte) error

	// Release releases the bind group and every buffer. The provider may be initialized again.
	Release()
}

// Compile-time check that bindGroupProvider implements BindGroupProvider
var _ BindGroupProvider = &bindGroupProvider{}

// NewBindGroupProvider creates a new BindGroupProvider with the provided options.
//
// Parameters:
//   - label: debug label for the bind group
//   - options: a variadic list of options declaring the provider's buffers
//
// Returns:
//   - BindGroupProvider: a new, uninitialized provider
func NewBindGroupProvider(label string, options ...BindGroupProviderOption) BindGroupProvider {
	p := &bindGroupProvider{
		label:   label,
		specs:   make(map[int]bufferSpec),
		buffers: make(map[int]gpu.Buffer),
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

func (p *bindGroupProvider) Label() string {
	return p.label
}

func (p *bindGroupProvider) BindGroup() gpu.BindGroup {
	return p.bindGroup
}

func (p *bindGroupProvider) Buffer(binding int) gpu.Buffer {
	return p.buffers[binding]
}

func (p *bindGroupProvider) Buffers() map[int]gpu.Buffer {
	return p.buffers
}

func (p *bindGroupProvider) Init(device gpu.Device, layout gpu.BindGroupLayout) (err error) {
	if p.bindGroup != nil {
		return fmt.Errorf("bind group %s: already initialized", p.label)
	}
	if layout == nil {
		return fmt.Errorf("bind group %s: no layout", p.label)
	}
	defer func() {
		if err != nil {
			p.Release()
		}
	}()

	bindings := make([]int, 0, len(p.specs))
	for b := range p.specs {
		bindings = append(bindings, b)
	}
	sort.Ints(bindings)

	entries := make([]gpu.BindGroupEntry, 0, len(bindings))
	for _, b := range bindings {
		spec := p.specs[b]
		var buf gpu.Buffer
		if spec.contents != nil {
			buf, err = device.CreateBufferInit(gpu.BufferInitDescriptor{
				Label:    spec.label,
				Contents: spec.contents,
				Usage:    spec.usage,
			})
		} else {
			buf, err = device.CreateBuffer(gpu.BufferDescriptor{
				Label: spec.label,
				Size:  spec.size,
				Usage: spec.usage,
			})
		}
		if err != nil {
			return fmt.Errorf("bind group %s: create buffer for binding %d: %w", p.label, b, err)
		}
		p.buffers[b] = buf
		entries = append(entries, gpu.BindGroupEntry{Binding: uint32(b), Buffer: buf})
	}

	p.bindGroup, err = device.CreateBindGroup(gpu.BindGroupDescriptor{
		Label:   p.label,
		Layout:  layout,
		Entries: entries,
	})
	if err != nil {
		return fmt.Errorf("bind group %s: %w", p.label, err)
	}
	return nil
}

func (p *bindGroupProvider) Write(queue gpu.Queue, binding int, offset uint64, data []byte) error {
	buf := p.buffers[binding]
	if buf == nil {
		return fmt.Errorf("bind group %s: no buffer at binding %d", p.label, binding)
	}
	if offset+uint64(len(data)) > buf.Size() {
		return fmt.Errorf("bind group %s: write of %d bytes at offset %d exceeds buffer size %d", p.label, len(data), offset, buf.Size())
	}
	return queue.WriteBuffer(buf, offset, data)
}

func (p *bindGroupProvider) Release() {
	if p.bindGroup != nil {
		p.bindGroup.Release()
		p.bindGroup = nil
	}
	for i, buf := range p.buffers {
		if buf != nil {
			buf.Release()
		}
		delete(p.buffers, i)
	}
}
