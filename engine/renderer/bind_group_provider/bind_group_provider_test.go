package bind_group_provider

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-re/engine/gpu/gputest"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLayout(t *testing.T, device *gputest.Device) *gputest.BindGroupLayout {
	t.Helper()
	l, err := device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{Label: "layout"})
	require.NoError(t, err)
	return l.(*gputest.BindGroupLayout)
}

func TestInitCreatesBuffersAndBindGroup(t *testing.T) {
	device := gputest.NewDevice()
	layout := newLayout(t, device)

	p := NewBindGroupProvider("Data Bind Group Descriptor",
		WithUniform(1, "Scale Buffer Descriptor", 8),
		WithUniformInit(0, "Data Buffer Descriptor", []byte{1, 2, 3, 4}),
	)
	require.NoError(t, p.Init(device, layout))

	assert.Equal(t, 2, device.Counts().Buffers)
	assert.Equal(t, 1, device.Counts().BindGroups)

	require.Len(t, device.BindGroups, 1)
	bg := device.BindGroups[0]
	assert.Same(t, layout, bg.Layout)
	require.Len(t, bg.Entries, 2)
	assert.Equal(t, uint32(0), bg.Entries[0].Binding)
	assert.Equal(t, uint32(1), bg.Entries[1].Binding)

	data := p.Buffer(0).(*gputest.Buffer)
	assert.Equal(t, []byte{1, 2, 3, 4}, data.Contents)
	assert.Equal(t, wgpu.BufferUsageUniform|wgpu.BufferUsageCopyDst, data.Usage)
	assert.Equal(t, uint64(8), p.Buffer(1).Size())

	assert.Error(t, p.Init(device, layout), "second Init must fail")
}

func TestWrite(t *testing.T) {
	device := gputest.NewDevice()
	p := NewBindGroupProvider("bg", WithUniform(1, "scale", 8))
	require.NoError(t, p.Init(device, newLayout(t, device)))

	require.NoError(t, p.Write(device.Queue(), 1, 0, []byte{9, 9, 9, 9, 8, 8, 8, 8}))
	assert.Equal(t, []byte{9, 9, 9, 9, 8, 8, 8, 8}, p.Buffer(1).(*gputest.Buffer).Contents)

	err := BufferWrite{Provider: p, Binding: 1, Offset: 4, Data: []byte{7, 7, 7, 7}}.Apply(device.Queue())
	require.NoError(t, err)
	assert.Equal(t, []byte{9, 9, 9, 9, 7, 7, 7, 7}, p.Buffer(1).(*gputest.Buffer).Contents)

	assert.Error(t, p.Write(device.Queue(), 0, 0, []byte{1}), "no buffer at binding 0")
	assert.Error(t, p.Write(device.Queue(), 1, 4, make([]byte, 8)), "write past the end")
	assert.Len(t, device.FakeQueue().Writes, 2)
}

func TestRelease(t *testing.T) {
	device := gputest.NewDevice()
	layout := newLayout(t, device)
	p := NewBindGroupProvider("bg", WithUniform(0, "a", 16), WithUniform(1, "b", 8))
	require.NoError(t, p.Init(device, layout))

	p.Release()
	assert.Nil(t, p.BindGroup())
	assert.Empty(t, p.Buffers())
	for _, b := range device.Buffers {
		assert.True(t, b.Released)
	}
	assert.True(t, device.BindGroups[0].Released)

	require.NoError(t, p.Init(device, layout), "a released provider can be initialized again")
	assert.Equal(t, 2, device.Counts().BindGroups)
}

func TestInitWithoutLayout(t *testing.T) {
	p := NewBindGroupProvider("bg", WithUniform(0, "a", 16))
	assert.Error(t, p.Init(gputest.NewDevice(), nil))
}
