package engine

import (
	"math"

	"github.com/vikrantan5/PenSilc/internal/document"
	"github.com/vikrantan5/PenSilc/internal/geom"
)

const (
	// EraserRadius is how close, in scene units, the eraser must pass.
	EraserRadius = 20.0

	// SelectRadius is the slack given to clicks in select mode.
	SelectRadius = 4.0
)

// IsPointNearObject reports whether p lies within threshold of obj.
func IsPointNearObject(p geom.Point, obj document.Object, threshold float64) bool {
	switch o := obj.(type) {
	case document.Path:
		return geom.DistancePointToPolyline(p, o.Points) <= threshold

	case document.Rectangle:
		return o.Bounds().Expand(threshold).Contains(p)

	case document.Circle:
		return p.Dist(o.Center) <= o.Radius+threshold

	case document.Ellipse:
		if o.RadiusX <= 0 || o.RadiusY <= 0 {
			// Degenerate ellipse is a segment along its non-zero axis.
			return o.Bounds().Expand(threshold).Contains(p)
		}
		dx := (p.X - o.Center.X) / o.RadiusX
		dy := (p.Y - o.Center.Y) / o.RadiusY
		return math.Hypot(dx, dy) <= 1+threshold/max(o.RadiusX, o.RadiusY)

	case document.Text:
		return o.Bounds().Expand(threshold).Contains(p)

	case document.Line, document.Arrow, document.Triangle, document.Group:
		return o.Bounds().Expand(threshold).Contains(p)
	}
	return false
}

// IsObjectInRect reports whether obj should be picked up by an area
// selection. Paths match when any of their points is inside; everything else
// matches when its center is inside or its bounds overlap the area.
func IsObjectInRect(obj document.Object, area geom.Rect) bool {
	area = area.Normalize()

	if p, ok := obj.(document.Path); ok {
		for _, pt := range p.Points {
			if area.Contains(pt) {
				return true
			}
		}
		return false
	}

	b := obj.Bounds()
	return area.Contains(b.Center()) || b.Overlaps(area)
}

// HitTest returns the id of the topmost object near p, or the empty string.
func HitTest(scene document.Scene, p geom.Point, threshold float64) string {
	for i := len(scene) - 1; i >= 0; i-- {
		if IsPointNearObject(p, scene[i], threshold) {
			return scene[i].ObjectID()
		}
	}
	return ""
}

// ObjectsNear returns the ids of every object within threshold of p.
func ObjectsNear(scene document.Scene, p geom.Point, threshold float64) map[string]bool {
	hits := make(map[string]bool)
	for _, o := range scene {
		if IsPointNearObject(p, o, threshold) {
			hits[o.ObjectID()] = true
		}
	}
	return hits
}

// SelectionBounds returns the combined bounding box of the given ids.
func SelectionBounds(scene document.Scene, ids []string) geom.Rect {
	var result geom.Rect
	first := true
	for _, id := range ids {
		obj, ok := scene.Find(id)
		if !ok {
			continue
		}
		b := obj.Bounds()
		if first {
			result = b
			first = false
			continue
		}
		result = result.Union(b)
	}
	return result
}
