package shader

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-re/engine/renderer/assets"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTriangleShaderLayout(t *testing.T) {
	s, err := NewShader("triangle", assets.TriangleWGSL)
	require.NoError(t, err)

	assert.Equal(t, "vs", s.VertexEntryPoint())
	assert.Equal(t, "fs", s.FragmentEntryPoint())
	assert.Equal(t, 1, s.BindGroupCount())
	assert.Equal(t, []int{0, 1}, s.Bindings(0))

	desc := s.BindGroupLayoutDescriptor(0)
	require.Len(t, desc.Entries, 2)

	data := desc.Entries[0]
	assert.Equal(t, uint32(0), data.Binding)
	assert.Equal(t, wgpu.ShaderStageVertex|wgpu.ShaderStageFragment, data.Visibility)
	assert.Equal(t, wgpu.BufferBindingTypeUniform, data.Buffer.Type)
	assert.Equal(t, uint64(32), data.Buffer.MinBindingSize)

	scale := desc.Entries[1]
	assert.Equal(t, uint32(1), scale.Binding)
	assert.Equal(t, wgpu.ShaderStageVertex, scale.Visibility)
	assert.Equal(t, wgpu.BufferBindingTypeUniform, scale.Buffer.Type)
	assert.Equal(t, uint64(8), scale.Buffer.MinBindingSize)

	assert.Equal(t, "data", s.BindGroupVarName(0, 0))
	b, ok := s.BindGroupFromVarName(0, "scale")
	assert.True(t, ok)
	assert.Equal(t, 1, b)
	assert.Equal(t, uint64(32), s.MinBindingSize(0, 0))
	assert.Equal(t, uint64(0), s.MinBindingSize(3, 0))
}

func TestVisibilityFollowsHelperCalls(t *testing.T) {
	src := `
@group(0) @binding(0) var<uniform> tint: vec4f;
@group(0) @binding(1) var<uniform> unused: vec4f;

fn shade() -> vec4f {
    return tint;
}

@vertex
fn main_vs(@builtin(vertex_index) i: u32) -> @builtin(position) vec4f {
    // tint is not used here
    /* nor here: tint */
    return vec4f(0.0, 0.0, 0.0, 1.0);
}

@fragment
fn main_fs() -> @location(0) vec4f {
    return shade();
}
`
	s, err := NewShader("helpers", src)
	require.NoError(t, err)
	assert.Equal(t, "main_vs", s.VertexEntryPoint())
	assert.Equal(t, "main_fs", s.FragmentEntryPoint())

	entries := s.BindGroupLayoutDescriptor(0).Entries
	require.Len(t, entries, 2)
	assert.Equal(t, wgpu.ShaderStageFragment, entries[0].Visibility)
	assert.Equal(t, wgpu.ShaderStageNone, entries[1].Visibility)
}

func TestVisibilityIgnoresMemberAccess(t *testing.T) {
	src := `
struct Out {
    @builtin(position) position: vec4f,
    @location(0) scale: vec2f,
}
@group(0) @binding(0) var<uniform> scale: vec2f;

@vertex
fn vs() -> Out {
    var out: Out;
    out.scale = vec2f(1.0, 1.0);
    return out;
}

@fragment
fn fs() -> @location(0) vec4f {
    return vec4f(scale, 0.0, 1.0);
}
`
	s, err := NewShader("member", src)
	require.NoError(t, err)
	assert.Equal(t, wgpu.ShaderStageFragment, s.BindGroupLayoutDescriptor(0).Entries[0].Visibility)
}

func TestNewShaderErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{
			name: "no fragment entry point",
			src:  `@vertex fn vs() -> @builtin(position) vec4f { return vec4f(); }`,
		},
		{
			name: "no vertex entry point",
			src:  `@fragment fn fs() -> @location(0) vec4f { return vec4f(); }`,
		},
		{
			name: "texture binding",
			src: `@group(0) @binding(0) var tex: texture_2d<f32>;
@vertex fn vs() -> @builtin(position) vec4f { return vec4f(); }
@fragment fn fs() -> @location(0) vec4f { return vec4f(); }`,
		},
		{
			name: "duplicate binding",
			src: `@group(0) @binding(0) var<uniform> a: f32;
@group(0) @binding(0) var<uniform> b: f32;
@vertex fn vs() -> @builtin(position) vec4f { return vec4f(a); }
@fragment fn fs() -> @location(0) vec4f { return vec4f(b); }`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewShader(tt.name, tt.src)
			assert.Error(t, err)
		})
	}
}

func TestResolveTypeLayout(t *testing.T) {
	structs := computeStructSizes(parseStructBlocks(`
struct Inner { a: vec3f, b: f32, }
struct Outer { inner: Inner, c: vec2f, }
`))

	tests := []struct {
		typeName string
		size     uint64
		align    uint64
	}{
		{"f32", 4, 4},
		{"vec3f", 12, 16},
		{"Inner", 16, 16},
		{"Outer", 32, 16},
		{"array<vec4f, 4>", 64, 16},
		{"array<vec3f, 2>", 32, 16},
		{"array<f32>", 4, 4},
	}
	for _, tt := range tests {
		t.Run(tt.typeName, func(t *testing.T) {
			layout, ok := resolveTypeLayout(tt.typeName, structs)
			require.True(t, ok)
			assert.Equal(t, tt.size, layout.size)
			assert.Equal(t, tt.align, layout.align)
		})
	}

	_, ok := resolveTypeLayout("Missing", structs)
	assert.False(t, ok)
}

func TestStripComments(t *testing.T) {
	src := "a /* x /* nested */ y */ b // trailing\nc"
	assert.Equal(t, "a  b \nc\n", stripComments(src))
}
