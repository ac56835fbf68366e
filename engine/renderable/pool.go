package renderable

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/Carmen-Shannon/oxy-re/common"
	"github.com/Carmen-Shannon/oxy-re/engine/gpu"
	"golang.org/x/image/math/f32"
)

// DefaultCount is the number of objects created when no count is configured.
const DefaultCount = 100

const (
	minScale  = 0.1
	maxScale  = 0.3
	maxOffset = 0.9
)

// Pool is the fixed, ordered collection of objects drawn every frame.
type Pool interface {
	// Objects returns the objects in draw order.
	Objects() []Object

	// Len returns the number of objects.
	Len() int

	// Release releases every object.
	Release()
}

type pool struct {
	objects []Object
}

var _ Pool = &pool{}

// NewPool creates exactly count objects with random attributes drawn from rng:
// RGB uniform in [0, 1) with alpha 1, offset uniform in [-0.9, 0.9] per axis,
// and one scale factor uniform in [0.1, 0.3) applied to both axes.
//
// Parameters:
//   - device: the device to allocate on
//   - layout: bind group layout 0 of the render pipeline
//   - count: the number of objects to create
//   - rng: the random source; a fixed seed reproduces the same pool
//
// Returns:
//   - Pool: the created pool
//   - error: error if count is negative or an object could not be created
func NewPool(device gpu.Device, layout gpu.BindGroupLayout, count int, rng *rand.Rand) (Pool, error) {
	if count < 0 {
		return nil, fmt.Errorf("renderable: negative object count %d", count)
	}
	p := &pool{objects: make([]Object, 0, count)}
	for range count {
		s := min(minScale+rng.Float32()*(maxScale-minScale), math.Nextafter32(maxScale, 0))
		u := Uniform{
			Color:  f32.Vec4{rng.Float32(), rng.Float32(), rng.Float32(), 1.0},
			Offset: f32.Vec2{randomOffset(rng), randomOffset(rng)},
		}
		o, err := NewObject(device, layout, u, f32.Vec2{s, s})
		if err != nil {
			p.Release()
			return nil, err
		}
		p.objects = append(p.objects, o)
	}
	common.Logger().Debug("renderable pool created", "count", count)
	return p, nil
}

// randomOffset samples [-maxOffset, maxOffset] with both ends reachable.
func randomOffset(rng *rand.Rand) float32 {
	t := float64(rng.Uint32()) / math.MaxUint32
	return float32(min(max(t*2*maxOffset-maxOffset, -maxOffset), maxOffset))
}

func (p *pool) Objects() []Object {
	return p.objects
}

func (p *pool) Len() int {
	return len(p.objects)
}

func (p *pool) Release() {
	for _, o := range p.objects {
		o.Release()
	}
	p.objects = nil
}
