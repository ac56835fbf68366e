package scene

// CanvasBuilderOption is a functional option for configuring a Canvas.
type CanvasBuilderOption func(c *Canvas)

// WithTolerance sets the flattening tolerance. Values <= 0 are ignored.
//
// Parameters:
//   - tolerance: the maximum distance between a curve and its polyline
//
// Returns:
//   - CanvasBuilderOption: option function to apply
func WithTolerance(tolerance float64) CanvasBuilderOption {
	return func(c *Canvas) {
		if tolerance > 0 {
			c.tolerance = tolerance
		}
	}
}

// WithWorkers sets the number of goroutines DrawAll flattens with. Defaults to one less than
// the number of CPUs; lower values reduce scheduling overhead for small batches.
//
// Parameters:
//   - n: the number of workers (minimum 1)
//
// Returns:
//   - CanvasBuilderOption: option function to apply
func WithWorkers(n int) CanvasBuilderOption {
	return func(c *Canvas) {
		c.workers = max(n, 1)
	}
}
