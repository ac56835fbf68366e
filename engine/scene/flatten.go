package scene

import (
	"fmt"
	"math"
)

// DefaultTolerance is the maximum distance, in canvas units, between a curve and its flattened polyline.
const DefaultTolerance = 1.0

// Verb is the kind of a PathCommand.
type Verb uint8

const (
	MoveTo Verb = iota
	LineTo
	ClosePath
)

func (v Verb) String() string {
	switch v {
	case MoveTo:
		return "M"
	case LineTo:
		return "L"
	case ClosePath:
		return "Z"
	}
	return fmt.Sprintf("Verb(%d)", uint8(v))
}

// PathCommand is one segment of a flattened path. Point is unused for ClosePath.
type PathCommand struct {
	Verb  Verb
	Point Point
}

// Flatten converts a shape into straight path segments whose distance from the true outline
// never exceeds tolerance. Tolerances <= 0 use DefaultTolerance. Circles, ellipses and arcs with a
// non-positive radius produce no segments.
//
// Parameters:
//   - s: the shape to flatten
//   - tolerance: the maximum deviation from the true outline
//
// Returns:
//   - []PathCommand: the path, starting with a MoveTo
func Flatten(s Shape, tolerance float64) []PathCommand {
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}

	switch d := s.(type) {
	case PointDescriptor:
		return []PathCommand{{Verb: MoveTo, Point: d.At}, {Verb: ClosePath}}
	case LineDescriptor:
		return []PathCommand{{Verb: MoveTo, Point: d.From}, {Verb: LineTo, Point: d.To}}
	case RectDescriptor:
		x0, y0 := d.Origin.X, d.Origin.Y
		x1, y1 := x0+d.Width, y0+d.Height
		return polygon(Point{x0, y0}, Point{x1, y0}, Point{x1, y1}, Point{x0, y1})
	case TriangleDescriptor:
		return polygon(d.A, d.B, d.C)
	case QuadDescriptor:
		return polygon(d.A, d.B, d.C, d.D)
	case CircleDescriptor:
		return ellipse(d.Center, d.Radius, d.Radius, 0, tolerance)
	case EllipseDescriptor:
		return ellipse(d.Center, d.RadiusX, d.RadiusY, d.Rotation, tolerance)
	case ArcDescriptor:
		return arc(d, tolerance)
	}
	return nil
}

func polygon(points ...Point) []PathCommand {
	path := make([]PathCommand, 0, len(points)+1)
	for i, p := range points {
		verb := LineTo
		if i == 0 {
			verb = MoveTo
		}
		path = append(path, PathCommand{Verb: verb, Point: p})
	}
	return append(path, PathCommand{Verb: ClosePath})
}

func ellipse(center Point, rx, ry, rotation, tolerance float64) []PathCommand {
	if rx <= 0 || ry <= 0 {
		return nil
	}
	n := max(arcSegments(max(rx, ry), 2*math.Pi, tolerance), 3)
	path := make([]PathCommand, 0, n+1)
	for i := range n {
		verb := LineTo
		if i == 0 {
			verb = MoveTo
		}
		theta := 2 * math.Pi * float64(i) / float64(n)
		path = append(path, PathCommand{Verb: verb, Point: ellipsePoint(center, rx, ry, rotation, theta)})
	}
	return append(path, PathCommand{Verb: ClosePath})
}

func arc(d ArcDescriptor, tolerance float64) []PathCommand {
	if d.RadiusX <= 0 || d.RadiusY <= 0 {
		return nil
	}
	n := arcSegments(max(d.RadiusX, d.RadiusY), d.SweepAngle, tolerance)
	path := make([]PathCommand, 0, n+1)
	path = append(path, PathCommand{Verb: MoveTo, Point: ellipsePoint(d.Center, d.RadiusX, d.RadiusY, d.Rotation, d.StartAngle)})
	for i := 1; i <= n; i++ {
		theta := d.StartAngle + d.SweepAngle*float64(i)/float64(n)
		path = append(path, PathCommand{Verb: LineTo, Point: ellipsePoint(d.Center, d.RadiusX, d.RadiusY, d.Rotation, theta)})
	}
	return path
}

// arcSegments returns how many chords approximate an arc of the given radius and sweep so that
// the sagitta of each chord, radius*(1-cos(step/2)), stays within tolerance.
func arcSegments(radius, sweep, tolerance float64) int {
	sweep = math.Abs(sweep)
	if sweep == 0 {
		return 1
	}
	step := math.Pi / 2
	if tolerance < radius {
		step = min(step, 2*math.Acos(1-tolerance/radius))
	}
	return max(1, int(math.Ceil(sweep/step)))
}

func ellipsePoint(center Point, rx, ry, rotation, theta float64) Point {
	x, y := rx*math.Cos(theta), ry*math.Sin(theta)
	sin, cos := math.Sincos(rotation)
	return Point{
		X: center.X + x*cos - y*sin,
		Y: center.Y + x*sin + y*cos,
	}
}
