package renderable

import (
	"encoding/binary"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/Carmen-Shannon/oxy-re/engine/gpu/gputest"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/math/f32"
)

func setup(t *testing.T) (*gputest.Device, *gputest.BindGroupLayout) {
	t.Helper()
	device := gputest.NewDevice()
	l, err := device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{Label: "Bind Group Layout 0"})
	require.NoError(t, err)
	return device, l.(*gputest.BindGroupLayout)
}

func floats(b []byte) []float32 {
	out := make([]float32, len(b)/4)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return out
}

func TestNewObjectBuffers(t *testing.T) {
	device, layout := setup(t)
	u := Uniform{Color: f32.Vec4{0.1, 0.2, 0.3, 1}, Offset: f32.Vec2{-0.5, 0.25}}

	o, err := NewObject(device, layout, u, f32.Vec2{0.2, 0.2})
	require.NoError(t, err)

	counts := device.Counts()
	assert.Equal(t, 2, counts.Buffers)
	assert.Equal(t, 1, counts.BindGroups)
	assert.Equal(t, []string{"Bind Group Layout 0", "Data Buffer Descriptor", "Scale Buffer Descriptor", "Data Bind Group Descriptor"}, device.Labels())

	data := device.Buffers[0]
	assert.Len(t, data.Contents, 32)
	assert.Equal(t, []float32{0.1, 0.2, 0.3, 1, -0.5, 0.25, 0, 0}, floats(data.Contents))

	scale := device.Buffers[1]
	assert.Len(t, scale.Contents, ScaleSize)

	assert.Same(t, device.BindGroups[0], o.BindGroup())
}

func TestWriteScale(t *testing.T) {
	device, layout := setup(t)
	o, err := NewObject(device, layout, Uniform{}, f32.Vec2{0.2, 0.2})
	require.NoError(t, err)

	o.Scale()[0] /= 2
	require.NoError(t, o.WriteScale(device.Queue()))

	writes := device.FakeQueue().Writes
	require.Len(t, writes, 1)
	assert.Same(t, device.Buffers[1], writes[0].Buffer)
	assert.Equal(t, []float32{0.1, 0.2}, floats(writes[0].Data))
	assert.Equal(t, f32.Vec2{0.2, 0.2}, o.BaseScale())
}

func TestUniformIsImmutable(t *testing.T) {
	device, layout := setup(t)
	u := Uniform{Color: f32.Vec4{1, 0, 0, 1}}
	o, err := NewObject(device, layout, u, f32.Vec2{0.1, 0.1})
	require.NoError(t, err)

	got := o.Uniform()
	got.Color[0] = 0
	u.Color[1] = 1

	assert.Equal(t, f32.Vec4{1, 0, 0, 1}, o.Uniform().Color)
	assert.Equal(t, []float32{1, 0, 0, 1}, floats(device.Buffers[0].Contents)[:4])
}

func TestNewPool(t *testing.T) {
	device, layout := setup(t)
	p, err := NewPool(device, layout, 3, rand.New(rand.NewPCG(1, 2)))
	require.NoError(t, err)

	assert.Equal(t, 3, p.Len())
	assert.Len(t, p.Objects(), 3)
	assert.Equal(t, 6, device.Counts().Buffers)
	assert.Equal(t, 3, device.Counts().BindGroups)
}

func TestNewPoolAttributeRanges(t *testing.T) {
	device, layout := setup(t)
	p, err := NewPool(device, layout, 500, rand.New(rand.NewPCG(42, 7)))
	require.NoError(t, err)

	for _, o := range p.Objects() {
		u := o.Uniform()
		for _, c := range u.Color[:3] {
			assert.GreaterOrEqual(t, c, float32(0))
			assert.Less(t, c, float32(1))
		}
		assert.Equal(t, float32(1), u.Color[3])
		for _, v := range u.Offset {
			assert.GreaterOrEqual(t, v, float32(-0.9))
			assert.LessOrEqual(t, v, float32(0.9))
		}
		assert.Equal(t, f32.Vec2{}, u.Padding)

		s := o.BaseScale()
		assert.Equal(t, s[0], s[1], "one factor for both axes")
		assert.GreaterOrEqual(t, s[0], float32(0.1))
		assert.Less(t, s[0], float32(0.3))
	}
}

type fixedSource uint64

func (s fixedSource) Uint64() uint64 { return uint64(s) }

func TestRandomOffsetIsInclusive(t *testing.T) {
	assert.Equal(t, float32(-0.9), randomOffset(rand.New(fixedSource(0))))
	assert.Equal(t, float32(0.9), randomOffset(rand.New(fixedSource(math.MaxUint64))))
}

func TestNewPoolSeedReproduces(t *testing.T) {
	device, layout := setup(t)
	a, err := NewPool(device, layout, 10, rand.New(rand.NewPCG(9, 9)))
	require.NoError(t, err)
	b, err := NewPool(device, layout, 10, rand.New(rand.NewPCG(9, 9)))
	require.NoError(t, err)

	for i := range a.Objects() {
		assert.Equal(t, a.Objects()[i].Uniform(), b.Objects()[i].Uniform())
		assert.Equal(t, a.Objects()[i].BaseScale(), b.Objects()[i].BaseScale())
	}
}

func TestNewPoolEdgeCounts(t *testing.T) {
	device, layout := setup(t)

	p, err := NewPool(device, layout, 0, rand.New(rand.NewPCG(1, 1)))
	require.NoError(t, err)
	assert.Zero(t, p.Len())

	_, err = NewPool(device, layout, -1, rand.New(rand.NewPCG(1, 1)))
	assert.Error(t, err)
}

func TestPoolRelease(t *testing.T) {
	device, layout := setup(t)
	p, err := NewPool(device, layout, 2, rand.New(rand.NewPCG(3, 4)))
	require.NoError(t, err)

	p.Release()
	assert.Zero(t, p.Len())
	for _, b := range device.Buffers {
		assert.True(t, b.Released)
	}
	for _, g := range device.BindGroups {
		assert.True(t, g.Released)
	}
}
