package geometry

import (
	"math"
	"sort"

	"github.com/golang/geo/r2"
)

// Point is a planar world position: X is the world x axis, Y the world z axis.
type Point = r2.Point

// XZ builds a Point from world x/z coordinates.
func XZ(x, z float64) Point { return r2.Point{X: x, Y: z} }

// Distance returns the planar distance between a and b.
func Distance(a, b Point) float64 {
	return a.Sub(b).Norm()
}

// PointSegmentDistance returns the distance from p to the segment ab.
func PointSegmentDistance(p, a, b Point) float64 {
	_, snapped := projectOnSegment(p, a, b)
	return Distance(p, snapped)
}

// projectOnSegment returns the clamped parameter t in [0,1] and the snapped point.
func projectOnSegment(p, a, b Point) (float64, Point) {
	v := b.Sub(a)
	denom := v.Dot(v)
	t := 0.0
	if denom > 0 {
		t = p.Sub(a).Dot(v) / denom
	}
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return t, a.Add(v.Mul(t))
}

// Project finds the segment index i (between line[i] and line[i+1])
// closest to p, and returns the clamped projection parameter along that
// segment and the snapped point. A single-point line snaps to that point.
func Project(line []Point, p Point) (int, float64, Point) {
	if len(line) == 0 {
		return -1, 0, p
	}
	if len(line) == 1 {
		return 0, 0, line[0]
	}
	bestIdx := -1
	bestT := 0.0
	var bestSnap Point
	bestDist := math.MaxFloat64
	for i := 0; i+1 < len(line); i++ {
		t, snapped := projectOnSegment(p, line[i], line[i+1])
		d := Distance(p, snapped)
		if d < bestDist {
			bestDist = d
			bestIdx = i
			bestT = t
			bestSnap = snapped
		}
	}
	return bestIdx, bestT, bestSnap
}

// CumulativeLengths returns the arc length at each vertex of line.
func CumulativeLengths(line []Point) []float64 {
	cum := make([]float64, len(line))
	for i := 1; i < len(line); i++ {
		cum[i] = cum[i-1] + Distance(line[i-1], line[i])
	}
	return cum
}

// TotalLength is the last cumulative length, or 0 for an empty line.
func TotalLength(cum []float64) float64 {
	if len(cum) == 0 {
		return 0
	}
	return cum[len(cum)-1]
}

// ProjectMileage returns the arc length along line of the point closest to p.
func ProjectMileage(line []Point, cum []float64, p Point) float64 {
	idx, t, _ := Project(line, p)
	if idx < 0 || idx >= len(cum) {
		return 0
	}
	if idx+1 >= len(cum) {
		return cum[idx]
	}
	return cum[idx] + t*(cum[idx+1]-cum[idx])
}

// PointAtMileage interpolates the position at arc length m, clamped to the line.
func PointAtMileage(line []Point, cum []float64, m float64) Point {
	if len(line) == 0 {
		return Point{}
	}
	if m <= 0 || len(line) == 1 {
		return line[0]
	}
	if m >= TotalLength(cum) {
		return line[len(line)-1]
	}
	i := segmentAt(cum, m)
	segLen := cum[i+1] - cum[i]
	t := 0.0
	if segLen > 0 {
		t = (m - cum[i]) / segLen
	}
	return line[i].Add(line[i+1].Sub(line[i]).Mul(t))
}

// segmentAt returns i such that cum[i] <= m < cum[i+1].
func segmentAt(cum []float64, m float64) int {
	i := sort.Search(len(cum), func(k int) bool { return cum[k] > m }) - 1
	if i < 0 {
		i = 0
	}
	if i > len(cum)-2 {
		i = len(cum) - 2
	}
	return i
}

// SliceByMileage returns the ordered sub-polyline between mileages from and to.
// Both ends are interpolated; interior vertices are copied. When to <= from
// the result is the degenerate two-point slice [at(from), at(to)].
func SliceByMileage(line []Point, cum []float64, from, to float64) []Point {
	if len(line) == 0 {
		return nil
	}
	total := TotalLength(cum)
	from = clamp(from, 0, total)
	to = clamp(to, 0, total)
	start := PointAtMileage(line, cum, from)
	end := PointAtMileage(line, cum, to)
	if to <= from {
		return []Point{start, end}
	}
	out := []Point{start}
	for i, m := range cum {
		if m > from && m < to {
			out = append(out, line[i])
		}
	}
	return append(out, end)
}

// DedupeJoin appends b to a, dropping b's first point when it repeats a's last.
func DedupeJoin(a, b []Point) []Point {
	out := make([]Point, 0, len(a)+len(b))
	out = append(out, a...)
	for i, p := range b {
		if i == 0 && len(out) > 0 && samePoint(out[len(out)-1], p) {
			continue
		}
		out = append(out, p)
	}
	return out
}

const epsilon = 1e-9

func samePoint(a, b Point) bool {
	return math.Abs(a.X-b.X) < epsilon && math.Abs(a.Y-b.Y) < epsilon
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
