// Package renderable holds the per-object GPU state drawn by the frame renderer:
// an immutable color/offset uniform and a mutable scale uniform bound together in one bind group.
package renderable

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-re/common"
	"github.com/Carmen-Shannon/oxy-re/engine/gpu"
	bgp "github.com/Carmen-Shannon/oxy-re/engine/renderer/bind_group_provider"
	"golang.org/x/image/math/f32"
)

const (
	// DataBinding is the binding index of the color/offset block.
	DataBinding = 0
	// ScaleBinding is the binding index of the scale vector.
	ScaleBinding = 1

	// ScaleSize is the byte size of the scale buffer.
	ScaleSize = 8
)

// Uniform is the color/offset block bound at DataBinding. Its layout matches the WGSL
// struct { color: vec4f, offset: vec2f, padding: vec2f } and occupies 32 bytes.
type Uniform struct {
	Color   f32.Vec4
	Offset  f32.Vec2
	Padding f32.Vec2
}

// object is the implementation of the Object interface.
type object struct {
	// uniform is written to the GPU once at creation and never changes.
	uniform Uniform

	// baseScale is the scale the object was created with.
	baseScale f32.Vec2

	// scale is the in-memory scale pushed to the GPU by WriteScale.
	scale f32.Vec2

	provider bgp.BindGroupProvider
}

// Object is one renderable triangle.
type Object interface {
	// Uniform returns a copy of the immutable color/offset block.
	Uniform() Uniform

	// Scale returns a pointer to the in-memory scale. Changes reach the GPU on the next WriteScale.
	Scale() *f32.Vec2

	// BaseScale returns the scale the object was created with.
	BaseScale() f32.Vec2

	// WriteScale pushes the in-memory scale to the scale buffer.
	//
	// Parameters:
	//   - queue: the queue to schedule the write on
	//
	// Returns:
	//   - error: error if the write could not be scheduled
	WriteScale(queue gpu.Queue) error

	// BindGroup returns the bind group to set at slot 0 before drawing.
	BindGroup() gpu.BindGroup

	// Release releases the object's buffers and bind group.
	Release()
}

var _ Object = &object{}

// NewObject creates the GPU resources for one object: a color/offset buffer initialized from
// uniform, an uninitialized scale buffer and a bind group referencing both.
//
// Parameters:
//   - device: the device to allocate on
//   - layout: bind group layout 0 of the render pipeline
//   - uniform: the color/offset block
//   - scale: the initial scale
//
// Returns:
//   - Object: the created object
//   - error: error if a GPU resource could not be created
func NewObject(device gpu.Device, layout gpu.BindGroupLayout, uniform Uniform, scale f32.Vec2) (Object, error) {
	o := &object{
		uniform:   uniform,
		baseScale: scale,
		scale:     scale,
	}
	o.provider = bgp.NewBindGroupProvider("Data Bind Group Descriptor",
		bgp.WithUniformInit(DataBinding, "Data Buffer Descriptor", common.StructToBytes(&o.uniform)),
		bgp.WithUniform(ScaleBinding, "Scale Buffer Descriptor", ScaleSize),
	)
	if err := o.provider.Init(device, layout); err != nil {
		return nil, fmt.Errorf("renderable: %w", err)
	}
	return o, nil
}

func (o *object) Uniform() Uniform {
	return o.uniform
}

func (o *object) Scale() *f32.Vec2 {
	return &o.scale
}

func (o *object) BaseScale() f32.Vec2 {
	return o.baseScale
}

func (o *object) WriteScale(queue gpu.Queue) error {
	return bgp.BufferWrite{
		Provider: o.provider,
		Binding:  ScaleBinding,
		Data:     common.StructToBytes(&o.scale),
	}.Apply(queue)
}

func (o *object) BindGroup() gpu.BindGroup {
	return o.provider.BindGroup()
}

func (o *object) Release() {
	o.provider.Release()
}
