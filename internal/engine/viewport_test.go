package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vikrantan5/PenSilc/internal/geom"
)

func TestViewport_RoundTrip(t *testing.T) {
	views := []Viewport{
		NewViewport(),
		{Zoom: 2.5, Pan: geom.Pt(-120, 40)},
		{Zoom: 0.1, Pan: geom.Pt(3000, -7000)},
		{Zoom: 1.3, Pan: geom.Pt(0.25, 0.75)},
	}
	points := []geom.Point{geom.Pt(0, 0), geom.Pt(640, 480), geom.Pt(-12.5, 99.125)}

	for _, v := range views {
		for _, p := range points {
			got := v.ToScreen(v.ToScene(p))
			assert.True(t, got.Eq(p, 1e-9), "view %+v point %v got %v", v, p, got)
		}
	}
}

func TestViewport_ToScene(t *testing.T) {
	v := Viewport{Zoom: 2, Pan: geom.Pt(100, 50)}
	assert.Equal(t, geom.Pt(50, 25), v.ToScene(geom.Pt(200, 100)))
	assert.Equal(t, geom.Pt(200, 100), v.ToScreen(geom.Pt(50, 25)))
}

func TestViewport_WheelIsAnchored(t *testing.T) {
	v := Viewport{Zoom: 1.2, Pan: geom.Pt(30, -10)}
	pointer := geom.Pt(400, 300)
	before := v.ToScene(pointer)

	in := v.Wheel(pointer, -100)
	assert.InDelta(t, 1.2*WheelStep, in.Zoom, 1e-12)
	assert.True(t, in.ToScene(pointer).Eq(before, 1e-9))

	out := v.Wheel(pointer, 100)
	assert.InDelta(t, 1.2/WheelStep, out.Zoom, 1e-12)
	assert.True(t, out.ToScene(pointer).Eq(before, 1e-9))

	assert.Equal(t, v, v.Wheel(pointer, 0))
}

func TestViewport_ZoomIsClamped(t *testing.T) {
	v := NewViewport()
	for range 200 {
		v = v.Wheel(geom.Pt(10, 10), -1)
	}
	assert.Equal(t, MaxZoom, v.Zoom)

	for range 400 {
		v = v.Wheel(geom.Pt(10, 10), 1)
	}
	assert.Equal(t, MinZoom, v.Zoom)
}

func TestViewport_PanIsUnbounded(t *testing.T) {
	v := NewViewport().PanBy(geom.Pt(-50000, 25000))
	assert.Equal(t, geom.Pt(-50000, 25000), v.Pan)
}

func TestViewport_VisibleRect(t *testing.T) {
	v := Viewport{Zoom: 2, Pan: geom.Pt(-100, -100)}
	assert.Equal(t, geom.Rect{X: 50, Y: 50, Width: 400, Height: 300}, v.VisibleRect(800, 600))
}
