package engine

import (
	"math"

	"github.com/vikrantan5/PenSilc/internal/document"
	"github.com/vikrantan5/PenSilc/internal/geom"
)

type ShapeKind string

const (
	ShapeRectangle ShapeKind = "rectangle"
	ShapeSquare    ShapeKind = "square"
	ShapeCircle    ShapeKind = "circle"
	ShapeEllipse   ShapeKind = "ellipse"
	ShapeTriangle  ShapeKind = "triangle"
	ShapeArrow     ShapeKind = "arrow"
)

func (k ShapeKind) Valid() bool {
	switch k {
	case ShapeRectangle, ShapeSquare, ShapeCircle, ShapeEllipse, ShapeTriangle, ShapeArrow:
		return true
	}
	return false
}

const (
	// MinShapeSize is the drag extent below which a shape gesture counts as
	// a stray click.
	MinShapeSize = 10.0

	shapePreviewID = "temp-shape-preview"
	linePreviewID  = "temp-line-preview"
)

// ShapeTooSmall reports whether a drag from start to end is too short on both
// axes to produce a shape.
func ShapeTooSmall(start, end geom.Point) bool {
	return math.Abs(end.X-start.X) < MinShapeSize && math.Abs(end.Y-start.Y) < MinShapeSize
}

// BuildShape computes the shape spanned by a drag from start to end.
func BuildShape(kind ShapeKind, start, end geom.Point, base document.Base) document.Object {
	d := end.Sub(start)
	box := geom.RectFromCorners(start, end)

	switch kind {
	case ShapeSquare:
		size := max(box.Width, box.Height)
		return document.Rectangle{Base: base, At: box.Min(), Width: size, Height: size}

	case ShapeCircle:
		r := max(box.Width, box.Height) / 2
		c := start
		if end.X > start.X {
			c.X += r
		} else {
			c.X -= r
		}
		if end.Y > start.Y {
			c.Y += r
		} else {
			c.Y -= r
		}
		return document.Circle{Base: base, Center: c, Radius: r}

	case ShapeEllipse:
		return document.Ellipse{
			Base:    base,
			Center:  start.Add(d.Div(2)),
			RadiusX: math.Abs(d.X) / 2,
			RadiusY: math.Abs(d.Y) / 2,
		}

	case ShapeTriangle:
		return document.Triangle{
			Base: base,
			At:   geom.Pt((start.X+end.X)/2, start.Y),
			Offsets: [3]geom.Point{
				{},
				geom.Pt(d.X/2, d.Y),
				geom.Pt(-d.X/2, d.Y),
			},
		}

	case ShapeArrow:
		base.Style.Fill = base.Style.Stroke
		return document.Arrow{Base: base, At: start, Offsets: [2]geom.Point{{}, d}}
	}

	return document.Rectangle{Base: base, At: box.Min(), Width: box.Width, Height: box.Height}
}

// BuildLine returns the straight line from start to end.
func BuildLine(start, end geom.Point, base document.Base) document.Line {
	return document.Line{Base: base, At: start, Offsets: [2]geom.Point{{}, end.Sub(start)}}
}
