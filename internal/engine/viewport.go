package engine

import "github.com/vikrantan5/PenSilc/internal/geom"

const (
	MinZoom = 0.1
	MaxZoom = 3.0

	// WheelStep is the zoom factor applied per wheel notch.
	WheelStep = 1.05
)

// Viewport maps screen pixels to scene units: screen = scene*Zoom + Pan.
type Viewport struct {
	Zoom float64    `json:"zoom"`
	Pan  geom.Point `json:"pan"`
}

func NewViewport() Viewport {
	return Viewport{Zoom: 1}
}

func clampZoom(z float64) float64 {
	return max(MinZoom, min(MaxZoom, z))
}

// Matrix returns the scene-to-screen transform.
func (v Viewport) Matrix() geom.Matrix2D {
	return geom.Translate(v.Pan.X, v.Pan.Y).Multiply(geom.Scale(v.Zoom, v.Zoom))
}

// ToScene converts a screen position to scene coordinates.
func (v Viewport) ToScene(screen geom.Point) geom.Point {
	return v.Matrix().Invert().Apply(screen)
}

// ToScreen converts a scene position to screen coordinates.
func (v Viewport) ToScreen(scene geom.Point) geom.Point {
	return v.Matrix().Apply(scene)
}

// ZoomAt changes the zoom, clamped, keeping the scene point under screen
// fixed.
func (v Viewport) ZoomAt(screen geom.Point, zoom float64) Viewport {
	anchor := v.ToScene(screen)
	v.Zoom = clampZoom(zoom)
	v.Pan = screen.Sub(anchor.Mul(v.Zoom))
	return v
}

// Wheel zooms out for positive deltaY and in otherwise, anchored at screen.
func (v Viewport) Wheel(screen geom.Point, deltaY float64) Viewport {
	if deltaY == 0 {
		return v
	}
	z := v.Zoom * WheelStep
	if deltaY > 0 {
		z = v.Zoom / WheelStep
	}
	return v.ZoomAt(screen, z)
}

// PanBy shifts the view by a screen-space delta. Panning is unbounded.
func (v Viewport) PanBy(delta geom.Point) Viewport {
	v.Pan = v.Pan.Add(delta)
	return v
}

// VisibleRect returns the scene rectangle covered by a screen of the given
// size.
func (v Viewport) VisibleRect(width, height float64) geom.Rect {
	return geom.RectFromCorners(v.ToScene(geom.Point{}), v.ToScene(geom.Pt(width, height)))
}
