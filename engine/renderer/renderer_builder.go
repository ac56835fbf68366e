package renderer

import (
	"image/color"
	"math/rand/v2"
)

// RendererBuilderOption is a functional option applied to a renderer during construction via NewRenderer.
type RendererBuilderOption func(*renderer)

// WithObjectCount sets the number of renderable objects. Negative counts make NewRenderer fail.
//
// Parameters:
//   - count: the number of objects to create
//
// Returns:
//   - RendererBuilderOption: a function that applies the object count option to a renderer
func WithObjectCount(count int) RendererBuilderOption {
	return func(r *renderer) {
		r.objectCount = count
	}
}

// WithSeed seeds the random source used to generate the objects, so the same seed yields the same pool.
func WithSeed(seed uint64) RendererBuilderOption {
	return func(r *renderer) {
		r.rng = rand.New(rand.NewPCG(seed, seed))
	}
}

// WithRand sets the random source used to generate the objects.
func WithRand(rng *rand.Rand) RendererBuilderOption {
	return func(r *renderer) {
		r.rng = rng
	}
}

// WithPresentMode sets the preferred surface present mode which controls how frames are delivered to
// the display. An unsupported mode falls back to the first mode the surface reports.
//
// Parameters:
//   - mode: the PresentMode to prefer
//
// Returns:
//   - RendererBuilderOption: a function that applies the present mode option to a renderer
func WithPresentMode(mode PresentMode) RendererBuilderOption {
	return func(r *renderer) {
		r.presentMode = mode
	}
}

// WithAspectMode sets how object scales are corrected for the surface aspect ratio.
func WithAspectMode(mode AspectMode) RendererBuilderOption {
	return func(r *renderer) {
		r.aspectMode = mode
	}
}

// WithBackground sets the color every frame is cleared to. Defaults to white.
func WithBackground(c color.Color) RendererBuilderOption {
	return func(r *renderer) {
		if c != nil {
			r.background = toWGPUColor(c)
		}
	}
}

// WithForceSoftwareRenderer forces WGPU to use a CPU/software fallback adapter instead of
// hardware GPU acceleration. This requires a software Vulkan ICD to be installed on the system
// (e.g. SwiftShader or lavapipe).
//
// Parameters:
//   - force: true to force the software fallback adapter, false to use hardware (default)
//
// Returns:
//   - RendererBuilderOption: a function that applies the force software renderer option to a renderer
func WithForceSoftwareRenderer(force bool) RendererBuilderOption {
	return func(r *renderer) {
		r.forceFallbackAdapter = force
	}
}
