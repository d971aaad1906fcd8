package geometry

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// toRing converts a vertex list into a closed orb ring.
func toRing(poly []Point) orb.Ring {
	ring := make(orb.Ring, 0, len(poly)+1)
	for _, p := range poly {
		ring = append(ring, orb.Point{p.X, p.Y})
	}
	if len(ring) > 0 && !ring.Closed() {
		ring = append(ring, ring[0])
	}
	return ring
}

// Centroid returns the area centroid of the polygon. Degenerate (zero-area)
// outlines fall back to the mean of their vertices.
func Centroid(poly []Point) Point {
	if len(poly) == 0 {
		return Point{}
	}
	if len(poly) >= 3 {
		c, area := planar.CentroidArea(orb.Polygon{toRing(poly)})
		if math.Abs(area) > epsilon {
			return XZ(c[0], c[1])
		}
	}
	return VertexMean(poly)
}

// VertexMean is the arithmetic mean of the vertices.
func VertexMean(poly []Point) Point {
	if len(poly) == 0 {
		return Point{}
	}
	var sx, sy float64
	for _, p := range poly {
		sx += p.X
		sy += p.Y
	}
	n := float64(len(poly))
	return XZ(sx/n, sy/n)
}

// Area returns the absolute planar area of the polygon.
func Area(poly []Point) float64 {
	if len(poly) < 3 {
		return 0
	}
	return math.Abs(planar.Area(orb.Polygon{toRing(poly)}))
}

// Contains reports whether p lies inside the polygon (boundary included).
func Contains(poly []Point, p Point) bool {
	if len(poly) < 3 {
		return false
	}
	return planar.PolygonContains(orb.Polygon{toRing(poly)}, orb.Point{p.X, p.Y})
}

// DistanceToPolygon is zero for points inside the polygon and otherwise the
// distance to the nearest edge of its boundary.
func DistanceToPolygon(poly []Point, p Point) float64 {
	switch len(poly) {
	case 0:
		return math.Inf(1)
	case 1:
		return Distance(poly[0], p)
	}
	if Contains(poly, p) {
		return 0
	}
	best := math.Inf(1)
	for i := range poly {
		a := poly[i]
		b := poly[(i+1)%len(poly)]
		if d := PointSegmentDistance(p, a, b); d < best {
			best = d
		}
	}
	return best
}

// DistinctVertices counts vertices after removing consecutive duplicates and
// a closing vertex equal to the first.
func DistinctVertices(poly []Point) int {
	n := 0
	for i, p := range poly {
		if i > 0 && samePoint(poly[i-1], p) {
			continue
		}
		n++
	}
	if n > 1 && samePoint(poly[0], poly[len(poly)-1]) {
		n--
	}
	return n
}
