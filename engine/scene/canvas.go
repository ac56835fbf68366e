package scene

import (
	"fmt"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-re/common"
)

// DrawCommand is one flattened shape on a canvas.
type DrawCommand struct {
	Path  []PathCommand
	Style Style
}

// Canvas is an ordered list of flattened draw commands. Commands appear in the order shapes were drawn.
// Draw and DrawAll are safe for concurrent use. Close must not overlap a DrawAll batch.
type Canvas struct {
	mu *sync.RWMutex

	tolerance float64
	commands  []DrawCommand

	// pool flattens DrawAll batches. Workers persist across batches until Close.
	pool    worker.DynamicWorkerPool
	workers int
}

// NewCanvas creates an empty canvas flattening at DefaultTolerance.
//
// Parameters:
//   - options: functional options for tolerance and batch workers
//
// Returns:
//   - *Canvas: the canvas
func NewCanvas(options ...CanvasBuilderOption) *Canvas {
	c := &Canvas{
		mu:        &sync.RWMutex{},
		tolerance: DefaultTolerance,
		workers:   max(runtime.NumCPU()-1, 1),
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

// Tolerance returns the flattening tolerance.
func (c *Canvas) Tolerance() float64 {
	return c.tolerance
}

// Draw flattens s and appends it to the command list.
//
// Parameters:
//   - s: the shape to draw
func (c *Canvas) Draw(s Shape) {
	cmd := DrawCommand{Path: Flatten(s, c.tolerance), Style: s.ShapeStyle()}
	c.mu.Lock()
	c.commands = append(c.commands, cmd)
	c.mu.Unlock()
}

// DrawAll flattens shapes in parallel and appends them in argument order.
//
// Parameters:
//   - shapes: the shapes to draw
func (c *Canvas) DrawAll(shapes ...Shape) {
	if len(shapes) == 0 {
		return
	}
	pool := c.workerPool()

	// A WaitGroup is the per-batch barrier; pool.Wait only returns once workers go idle.
	results := make([]DrawCommand, len(shapes))
	var wg sync.WaitGroup
	for i, s := range shapes {
		wg.Add(1)
		pool.SubmitTask(worker.Task{
			ID: i,
			Do: func() (any, error) {
				defer wg.Done()
				results[i] = DrawCommand{Path: Flatten(s, c.tolerance), Style: s.ShapeStyle()}
				return nil, nil
			},
		})
	}
	wg.Wait()

	c.mu.Lock()
	c.commands = append(c.commands, results...)
	c.mu.Unlock()
	common.Logger().Debug("canvas batch flattened", "shapes", len(shapes), "workers", c.workers)
}

// workerPool returns the batch pool, starting it on first use.
func (c *Canvas) workerPool() worker.DynamicWorkerPool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pool == nil {
		// Queue size of 256 keeps submission non-blocking for typical batches.
		c.pool = worker.NewDynamicWorkerPool(c.workers, 256, 1*time.Second)
	}
	return c.pool
}

// Commands returns a copy of the command list.
func (c *Canvas) Commands() []DrawCommand {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]DrawCommand, len(c.commands))
	copy(out, c.commands)
	return out
}

// Len returns the number of commands.
func (c *Canvas) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.commands)
}

// Segments returns the total number of path commands across all draw commands.
func (c *Canvas) Segments() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	n := 0
	for _, cmd := range c.commands {
		n += len(cmd.Path)
	}
	return n
}

// Reset clears the command list.
func (c *Canvas) Reset() {
	c.mu.Lock()
	c.commands = nil
	c.mu.Unlock()
}

// Close stops the batch workers. The canvas can still be drawn on; DrawAll starts a new pool.
func (c *Canvas) Close() {
	c.mu.Lock()
	pool := c.pool
	c.pool = nil
	c.mu.Unlock()
	if pool != nil {
		pool.Stop()
	}
}

// String renders the command list in SVG path syntax, one shape per line.
func (c *Canvas) String() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var b strings.Builder
	for i, cmd := range c.commands {
		if i > 0 {
			b.WriteByte('\n')
		}
		for j, pc := range cmd.Path {
			if j > 0 {
				b.WriteByte(' ')
			}
			if pc.Verb == ClosePath {
				b.WriteString(pc.Verb.String())
				continue
			}
			fmt.Fprintf(&b, "%s%g,%g", pc.Verb, pc.Point.X, pc.Point.Y)
		}
	}
	return b.String()
}
