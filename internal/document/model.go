package document

import (
	"strings"

	"github.com/vikrantan5/PenSilc/internal/geom"
)

// Kind is the wire tag of a drawable object. The values match the records
// already stored in the notes table.
type Kind string

const (
	KindPath      Kind = "line"
	KindLine      Kind = "straightline"
	KindRectangle Kind = "rect"
	KindCircle    Kind = "circle"
	KindEllipse   Kind = "ellipse"
	KindTriangle  Kind = "triangle"
	KindArrow     Kind = "arrow"
	KindText      Kind = "text"
	KindGroup     Kind = "group"
)

// Canvas extent in scene units. Panning past it is allowed.
const (
	CanvasWidth  = 10000
	CanvasHeight = 10000
)

const (
	FillNone          = "transparent"
	DefaultStroke     = "#000000"
	DefaultFontFamily = "Arial"
	DefaultFontSize   = 16
	LightBackground   = "#ffffff"
	DarkBackground    = "#0f0f0f"
)

type Style struct {
	Stroke      string
	StrokeWidth float64
	Fill        string
	Opacity     float64

	// Set while dark mode has replaced Stroke/Fill.
	OriginalStroke string
	OriginalFill   string
}

func DefaultStyle() Style {
	return Style{
		Stroke:      DefaultStroke,
		StrokeWidth: 2,
		Fill:        FillNone,
		Opacity:     1,
	}
}

// HasFill reports whether the fill paints anything.
func (s Style) HasFill() bool {
	switch strings.ToLower(strings.TrimSpace(s.Fill)) {
	case "", "none", FillNone:
		return false
	}
	return true
}

// Base carries the attributes every drawable shares.
type Base struct {
	ID        string
	Style     Style
	Draggable bool
}

func (b Base) ObjectID() string   { return b.ID }
func (b Base) ObjectStyle() Style { return b.Style }
func (b Base) IsDraggable() bool  { return b.Draggable }

// Object is one entry of a scene. The set of implementations is closed.
type Object interface {
	ObjectID() string
	ObjectStyle() Style
	IsDraggable() bool
	Kind() Kind
	// Bounds is the axis-aligned box in the coordinate space the object
	// lives in (scene space, or group space for group children).
	Bounds() geom.Rect
	Translate(d geom.Point) Object
	WithID(id string) Object
	WithStyle(s Style) Object
	WithDraggable(v bool) Object

	object()
}

// Path is a freehand stroke.
type Path struct {
	Base
	Points []geom.Point
}

// Line is a straight segment: anchor plus two offsets, the first of which is
// normally the origin.
type Line struct {
	Base
	At      geom.Point
	Offsets [2]geom.Point
}

type Rectangle struct {
	Base
	At     geom.Point
	Width  float64
	Height float64
}

type Circle struct {
	Base
	Center geom.Point
	Radius float64
}

type Ellipse struct {
	Base
	Center  geom.Point
	RadiusX float64
	RadiusY float64
}

type Triangle struct {
	Base
	At      geom.Point
	Offsets [3]geom.Point
}

// Arrow points from Offsets[0] (tail) to Offsets[1] (head).
type Arrow struct {
	Base
	At      geom.Point
	Offsets [2]geom.Point
}

type Align string

const (
	AlignLeft   Align = "left"
	AlignCenter Align = "center"
	AlignRight  Align = "right"
)

type Text struct {
	Base
	At         geom.Point
	Content    string
	FontSize   float64
	FontFamily string
	Bold       bool
	Italic     bool
	Underline  bool
	Align      Align
	Width      float64
}

// LineHeight is the estimated height of one line of text.
func (t Text) LineHeight() float64 {
	size := t.FontSize
	if size <= 0 {
		size = DefaultFontSize
	}
	return size * 1.2
}

// FontStyle is the CSS font-style shorthand of the bold and italic flags.
func (t Text) FontStyle() string { return fontStyle(t.Bold, t.Italic) }

// Lines returns the content split on hard line breaks.
func (t Text) Lines() []string {
	return strings.Split(t.Content, "\n")
}

// Group holds copies of other objects. Children coordinates are relative to
// At, so moving the group only moves its anchor.
type Group struct {
	Base
	At       geom.Point
	Width    float64
	Height   float64
	Children Scene
}

// Absolute returns the children translated into the group's parent space.
func (g Group) Absolute() Scene {
	out := make(Scene, len(g.Children))
	for i, c := range g.Children {
		out[i] = c.Translate(g.At)
	}
	return out
}

func (Path) Kind() Kind      { return KindPath }
func (Line) Kind() Kind      { return KindLine }
func (Rectangle) Kind() Kind { return KindRectangle }
func (Circle) Kind() Kind    { return KindCircle }
func (Ellipse) Kind() Kind   { return KindEllipse }
func (Triangle) Kind() Kind  { return KindTriangle }
func (Arrow) Kind() Kind     { return KindArrow }
func (Text) Kind() Kind      { return KindText }
func (Group) Kind() Kind     { return KindGroup }

func (Path) object()      {}
func (Line) object()      {}
func (Rectangle) object() {}
func (Circle) object()    {}
func (Ellipse) object()   {}
func (Triangle) object()  {}
func (Arrow) object()     {}
func (Text) object()      {}
func (Group) object()     {}

// --- Bounds ---

func (p Path) Bounds() geom.Rect { return geom.BoundsOf(p.Points) }

func (l Line) Bounds() geom.Rect { return geom.BoundsOf(l.Absolute()) }

func (r Rectangle) Bounds() geom.Rect {
	return geom.Rect{X: r.At.X, Y: r.At.Y, Width: r.Width, Height: r.Height}.Normalize()
}

func (c Circle) Bounds() geom.Rect {
	return geom.Rect{X: c.Center.X - c.Radius, Y: c.Center.Y - c.Radius, Width: 2 * c.Radius, Height: 2 * c.Radius}
}

func (e Ellipse) Bounds() geom.Rect {
	return geom.Rect{X: e.Center.X - e.RadiusX, Y: e.Center.Y - e.RadiusY, Width: 2 * e.RadiusX, Height: 2 * e.RadiusY}
}

func (t Triangle) Bounds() geom.Rect { return geom.BoundsOf(t.Absolute()) }

func (a Arrow) Bounds() geom.Rect { return geom.BoundsOf(a.Absolute()) }

func (t Text) Bounds() geom.Rect {
	return geom.Rect{X: t.At.X, Y: t.At.Y, Width: t.Width, Height: t.LineHeight() * float64(len(t.Lines()))}
}

func (g Group) Bounds() geom.Rect {
	return geom.Rect{X: g.At.X, Y: g.At.Y, Width: g.Width, Height: g.Height}
}

// Absolute returns the endpoints in the line's parent space.
func (l Line) Absolute() []geom.Point { return geom.Offset(l.Offsets[:], l.At) }

// Absolute returns the vertices in the triangle's parent space.
func (t Triangle) Absolute() []geom.Point { return geom.Offset(t.Offsets[:], t.At) }

// Absolute returns tail and head in the arrow's parent space.
func (a Arrow) Absolute() []geom.Point { return geom.Offset(a.Offsets[:], a.At) }

// Normalize flips negative extents so Width and Height are non-negative.
func (r Rectangle) Normalize() Rectangle {
	b := r.Bounds()
	r.At = b.Min()
	r.Width, r.Height = b.Width, b.Height
	return r
}

// --- Translate ---

func (p Path) Translate(d geom.Point) Object {
	p.Points = geom.Offset(p.Points, d)
	return p
}

func (l Line) Translate(d geom.Point) Object      { l.At = l.At.Add(d); return l }
func (r Rectangle) Translate(d geom.Point) Object { r.At = r.At.Add(d); return r }
func (c Circle) Translate(d geom.Point) Object    { c.Center = c.Center.Add(d); return c }
func (e Ellipse) Translate(d geom.Point) Object   { e.Center = e.Center.Add(d); return e }
func (t Triangle) Translate(d geom.Point) Object  { t.At = t.At.Add(d); return t }
func (a Arrow) Translate(d geom.Point) Object     { a.At = a.At.Add(d); return a }
func (t Text) Translate(d geom.Point) Object      { t.At = t.At.Add(d); return t }
func (g Group) Translate(d geom.Point) Object     { g.At = g.At.Add(d); return g }

// --- WithID ---

func (p Path) WithID(id string) Object      { p.ID = id; return p }
func (l Line) WithID(id string) Object      { l.ID = id; return l }
func (r Rectangle) WithID(id string) Object { r.ID = id; return r }
func (c Circle) WithID(id string) Object    { c.ID = id; return c }
func (e Ellipse) WithID(id string) Object   { e.ID = id; return e }
func (t Triangle) WithID(id string) Object  { t.ID = id; return t }
func (a Arrow) WithID(id string) Object     { a.ID = id; return a }
func (t Text) WithID(id string) Object      { t.ID = id; return t }
func (g Group) WithID(id string) Object     { g.ID = id; return g }

// --- WithStyle ---

func (p Path) WithStyle(s Style) Object      { p.Style = s; return p }
func (l Line) WithStyle(s Style) Object      { l.Style = s; return l }
func (r Rectangle) WithStyle(s Style) Object { r.Style = s; return r }
func (c Circle) WithStyle(s Style) Object    { c.Style = s; return c }
func (e Ellipse) WithStyle(s Style) Object   { e.Style = s; return e }
func (t Triangle) WithStyle(s Style) Object  { t.Style = s; return t }
func (a Arrow) WithStyle(s Style) Object     { a.Style = s; return a }
func (t Text) WithStyle(s Style) Object      { t.Style = s; return t }
func (g Group) WithStyle(s Style) Object     { g.Style = s; return g }

// --- WithDraggable ---

func (p Path) WithDraggable(v bool) Object      { p.Draggable = v; return p }
func (l Line) WithDraggable(v bool) Object      { l.Draggable = v; return l }
func (r Rectangle) WithDraggable(v bool) Object { r.Draggable = v; return r }
func (c Circle) WithDraggable(v bool) Object    { c.Draggable = v; return c }
func (e Ellipse) WithDraggable(v bool) Object   { e.Draggable = v; return e }
func (t Triangle) WithDraggable(v bool) Object  { t.Draggable = v; return t }
func (a Arrow) WithDraggable(v bool) Object     { a.Draggable = v; return a }
func (t Text) WithDraggable(v bool) Object      { t.Draggable = v; return t }
func (g Group) WithDraggable(v bool) Object     { g.Draggable = v; return g }

// SceneData is a note's persisted canvas.
type SceneData struct {
	Objects    Scene  `json:"objects"`
	Background string `json:"background"`
}

// NewEmptyScene creates the canvas of a freshly created note.
func NewEmptyScene() SceneData {
	return SceneData{Objects: Scene{}, Background: LightBackground}
}
