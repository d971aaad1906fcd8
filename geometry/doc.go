// Package geometry provides the planar helpers used by the rail router.
//
// All functions work on world (x, z) coordinates; the vertical axis is ignored.
// Points are golang/geo r2 points, polygons are delegated to orb/planar.
//
// The package covers:
//   - point, segment and polygon distances
//   - nearest-segment projection of a point onto a polyline
//   - cumulative arc length, mileage projection and mileage slicing
//   - polygon centroid, area and point-in-polygon
package geometry
