package bind_group_provider

import "github.com/cogentcore/webgpu/wgpu"

// uniformUsage lets a buffer be bound as a uniform and written from the queue.
const uniformUsage = wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst

// BindGroupProviderOption is a functional option used to configure a BindGroupProvider during construction.
type BindGroupProviderOption func(*bindGroupProvider)

// WithUniform declares an uninitialized uniform buffer of size bytes at binding.
// Its contents are undefined until the first write.
//
// Parameters:
//   - binding: the binding index for this buffer
//   - label: the debug label of the buffer
//   - size: the buffer size in bytes
//
// Returns:
//   - BindGroupProviderOption: a function that declares the buffer
func WithUniform(binding int, label string, size uint64) BindGroupProviderOption {
	return func(p *bindGroupProvider) {
		p.specs[binding] = bufferSpec{label: label, size: size, usage: uniformUsage}
	}
}

// WithUniformInit declares a uniform buffer at binding initialized with contents.
//
// Parameters:
//   - binding: the binding index for this buffer
//   - label: the debug label of the buffer
//   - contents: the initial bytes; the buffer is sized to fit them
//
// Returns:
//   - BindGroupProviderOption: a function that declares the buffer
func WithUniformInit(binding int, label string, contents []byte) BindGroupProviderOption {
	return func(p *bindGroupProvider) {
		data := make([]byte, len(contents))
		copy(data, contents)
		p.specs[binding] = bufferSpec{label: label, size: uint64(len(data)), contents: data, usage: uniformUsage}
	}
}
