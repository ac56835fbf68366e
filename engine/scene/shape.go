package scene

import (
	"image/color"

	"golang.org/x/image/colornames"
)

// Point is a position in canvas units.
type Point struct {
	X, Y float64
}

// Style describes how a shape is painted. A nil Fill or Stroke leaves that part unpainted.
type Style struct {
	Fill        color.Color
	Stroke      color.Color
	StrokeWidth float64
}

// DefaultStyle fills with black and draws no stroke.
func DefaultStyle() Style {
	return Style{Fill: colornames.Black}
}

// Shape is one of the descriptor types in this file. The set is closed: Flatten handles every variant.
type Shape interface {
	// ShapeStyle returns the style the shape is painted with.
	ShapeStyle() Style

	isShape()
}

// PointDescriptor is a single point.
type PointDescriptor struct {
	At    Point
	Style Style
}

// LineDescriptor is a straight segment from From to To.
type LineDescriptor struct {
	From, To Point
	Style    Style
}

// CircleDescriptor is a circle around Center.
type CircleDescriptor struct {
	Center Point
	Radius float64
	Style  Style
}

// RectDescriptor is an axis-aligned rectangle with its top-left corner at Origin.
type RectDescriptor struct {
	Origin        Point
	Width, Height float64
	Style         Style
}

// EllipseDescriptor is an ellipse around Center, rotated by Rotation radians.
type EllipseDescriptor struct {
	Center           Point
	RadiusX, RadiusY float64
	Rotation         float64
	Style            Style
}

// ArcDescriptor is an open elliptical arc starting at StartAngle and sweeping SweepAngle radians.
// A negative sweep runs clockwise.
type ArcDescriptor struct {
	Center                 Point
	RadiusX, RadiusY       float64
	StartAngle, SweepAngle float64
	Rotation               float64
	Style                  Style
}

// TriangleDescriptor is the closed triangle A, B, C.
type TriangleDescriptor struct {
	A, B, C Point
	Style   Style
}

// QuadDescriptor is the closed quadrilateral A, B, C, D.
type QuadDescriptor struct {
	A, B, C, D Point
	Style      Style
}

func (d PointDescriptor) ShapeStyle() Style    { return d.Style }
func (d LineDescriptor) ShapeStyle() Style     { return d.Style }
func (d CircleDescriptor) ShapeStyle() Style   { return d.Style }
func (d RectDescriptor) ShapeStyle() Style     { return d.Style }
func (d EllipseDescriptor) ShapeStyle() Style  { return d.Style }
func (d ArcDescriptor) ShapeStyle() Style      { return d.Style }
func (d TriangleDescriptor) ShapeStyle() Style { return d.Style }
func (d QuadDescriptor) ShapeStyle() Style     { return d.Style }

func (PointDescriptor) isShape()    {}
func (LineDescriptor) isShape()     {}
func (CircleDescriptor) isShape()   {}
func (RectDescriptor) isShape()     {}
func (EllipseDescriptor) isShape()  {}
func (ArcDescriptor) isShape()      {}
func (TriangleDescriptor) isShape() {}
func (QuadDescriptor) isShape()     {}

// Circle returns a circle descriptor with the default style.
func Circle(x, y, radius float64) CircleDescriptor {
	return CircleDescriptor{Center: Point{x, y}, Radius: radius, Style: DefaultStyle()}
}

// Rect returns a rectangle descriptor with the default style.
func Rect(x, y, width, height float64) RectDescriptor {
	return RectDescriptor{Origin: Point{x, y}, Width: width, Height: height, Style: DefaultStyle()}
}

// Line returns a line descriptor stroked black with width 1.
func Line(x0, y0, x1, y1 float64) LineDescriptor {
	return LineDescriptor{
		From:  Point{x0, y0},
		To:    Point{x1, y1},
		Style: Style{Stroke: colornames.Black, StrokeWidth: 1},
	}
}
