package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vikrantan5/PenSilc/internal/document"
	"github.com/vikrantan5/PenSilc/internal/geom"
)

func base(id string) document.Base {
	return document.Base{ID: id, Style: document.DefaultStyle(), Draggable: true}
}

func sampleObjects() []document.Object {
	return []document.Object{
		document.Path{Base: base("p"), Points: []geom.Point{geom.Pt(0, 0), geom.Pt(100, 0), geom.Pt(100, 100)}},
		document.Path{Base: base("dot"), Points: []geom.Point{geom.Pt(50, 50)}},
		document.Line{Base: base("l"), At: geom.Pt(10, 10), Offsets: [2]geom.Point{{}, geom.Pt(80, 0)}},
		document.Rectangle{Base: base("r"), At: geom.Pt(0, 0), Width: 100, Height: 50},
		document.Circle{Base: base("c"), Center: geom.Pt(50, 50), Radius: 25},
		document.Ellipse{Base: base("e"), Center: geom.Pt(50, 50), RadiusX: 40, RadiusY: 10},
		document.Triangle{Base: base("t"), At: geom.Pt(50, 0), Offsets: [3]geom.Point{{}, geom.Pt(25, 50), geom.Pt(-25, 50)}},
		document.Arrow{Base: base("a"), At: geom.Pt(0, 0), Offsets: [2]geom.Point{{}, geom.Pt(60, 30)}},
		document.Text{Base: base("x"), At: geom.Pt(0, 0), Content: "hi", FontSize: 20, Width: 120},
		document.Group{Base: base("g"), At: geom.Pt(30, 30), Width: 40, Height: 40},
	}
}

func TestIsPointNearObject_TranslationInvariant(t *testing.T) {
	samples := []geom.Point{
		geom.Pt(0, 0), geom.Pt(50, 50), geom.Pt(105, 3), geom.Pt(-19, 25),
		geom.Pt(130, 60), geom.Pt(75, 49), geom.Pt(50, 79), geom.Pt(200, 200),
	}
	shifts := []geom.Point{geom.Pt(13, -7), geom.Pt(-4000, 2500.5), geom.Pt(0.125, 0.375)}

	for _, obj := range sampleObjects() {
		for _, d := range shifts {
			moved := obj.Translate(d)
			for _, p := range samples {
				for _, threshold := range []float64{0, SelectRadius, EraserRadius} {
					assert.Equal(t,
						IsPointNearObject(p, obj, threshold),
						IsPointNearObject(p.Add(d), moved, threshold),
						"%s at %v shifted %v threshold %v", obj.ObjectID(), p, d, threshold)
				}
			}
		}
	}
}

func TestIsPointNearObject_Kinds(t *testing.T) {
	objs := map[string]document.Object{}
	for _, o := range sampleObjects() {
		objs[o.ObjectID()] = o
	}

	cases := []struct {
		id   string
		p    geom.Point
		near bool
	}{
		{"p", geom.Pt(50, 20), true},
		{"p", geom.Pt(50, 21), false},
		{"p", geom.Pt(120, 50), true},
		{"dot", geom.Pt(50, 70), true},
		{"dot", geom.Pt(50, 71), false},
		{"r", geom.Pt(-20, -20), true},
		{"r", geom.Pt(-21, 0), false},
		{"c", geom.Pt(50, 95), true},
		{"c", geom.Pt(50, 96), false},
		{"e", geom.Pt(50, 64), true},
		{"e", geom.Pt(50, 76), false},
		{"t", geom.Pt(10, 45), true},
		{"t", geom.Pt(50, 71), false},
		{"a", geom.Pt(80, 50), true},
		{"a", geom.Pt(81, 50), false},
		{"x", geom.Pt(60, 44), true},
		{"x", geom.Pt(60, 45), false},
		{"g", geom.Pt(10, 10), true},
		{"l", geom.Pt(50, 30), true},
		{"l", geom.Pt(50, 31), false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.near, IsPointNearObject(tc.p, objs[tc.id], EraserRadius), "%s at %v", tc.id, tc.p)
	}
}

func TestIsObjectInRect(t *testing.T) {
	area := geom.Rect{X: 0, Y: 0, Width: 100, Height: 100}

	stroke := document.Path{Base: base("p"), Points: []geom.Point{geom.Pt(-50, -50), geom.Pt(50, 50), geom.Pt(150, 150)}}
	assert.True(t, IsObjectInRect(stroke, area))

	crossing := document.Path{Base: base("q"), Points: []geom.Point{geom.Pt(-50, 50), geom.Pt(150, 50)}}
	assert.False(t, IsObjectInRect(crossing, area), "paths match on their points only")

	overlapping := document.Rectangle{Base: base("r"), At: geom.Pt(90, 90), Width: 50, Height: 50}
	assert.True(t, IsObjectInRect(overlapping, area))

	outside := document.Circle{Base: base("c"), Center: geom.Pt(200, 200), Radius: 10}
	assert.False(t, IsObjectInRect(outside, area))

	inverted := geom.Rect{X: 100, Y: 100, Width: -100, Height: -100}
	assert.True(t, IsObjectInRect(overlapping, inverted))
}

func TestHitTest_Topmost(t *testing.T) {
	scene := document.Scene{
		document.Rectangle{Base: base("bottom"), At: geom.Pt(0, 0), Width: 100, Height: 100},
		document.Rectangle{Base: base("top"), At: geom.Pt(50, 50), Width: 100, Height: 100},
	}
	assert.Equal(t, "top", HitTest(scene, geom.Pt(75, 75), 0))
	assert.Equal(t, "bottom", HitTest(scene, geom.Pt(10, 10), 0))
	assert.Equal(t, "", HitTest(scene, geom.Pt(500, 500), 0))
}

func TestSelectionBounds(t *testing.T) {
	scene := document.Scene{
		document.Rectangle{Base: base("a"), At: geom.Pt(0, 0), Width: 10, Height: 10},
		document.Circle{Base: base("b"), Center: geom.Pt(50, 50), Radius: 10},
	}
	assert.Equal(t, geom.Rect{X: 0, Y: 0, Width: 60, Height: 60}, SelectionBounds(scene, []string{"a", "b", "missing"}))
	assert.Equal(t, geom.Rect{}, SelectionBounds(scene, nil))
}
