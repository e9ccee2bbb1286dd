package geom

import "math"

var inf = math.Inf(1)

// DistancePointToSegment returns the distance from p to the closest point of
// segment ab. The projection is clamped to the segment; a degenerate segment
// (a == b) reduces to the distance from p to a.
func DistancePointToSegment(p, a, b Point) float64 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return p.Dist(a)
	}

	t := ((p.X-a.X)*dx + (p.Y-a.Y)*dy) / lenSq
	t = max(0, min(1, t))

	return p.Dist(Point{a.X + t*dx, a.Y + t*dy})
}

// DistancePointToPolyline returns the smallest distance from p to any segment
// of the polyline. A single point polyline is treated as a degenerate segment.
// An empty polyline is infinitely far away.
func DistancePointToPolyline(p Point, pts []Point) float64 {
	switch len(pts) {
	case 0:
		return inf
	case 1:
		return p.Dist(pts[0])
	}
	best := inf
	for i := 0; i+1 < len(pts); i++ {
		best = min(best, DistancePointToSegment(p, pts[i], pts[i+1]))
	}
	return best
}
