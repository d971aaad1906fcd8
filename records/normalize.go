package records

import (
	"math"
	"sort"

	"github.com/theoremus-urban-solutions/rail-router/geometry"
)

// Normalize resolves raw records into a typed Dataset. Malformed records are
// skipped and counted in Stats; Normalize never fails as a whole.
// When two records share an id within a class, the first one wins.
func Normalize(recs []Record) (*Dataset, Stats) {
	ds := NewDataset()
	stats := newStats()
	for _, r := range recs {
		if r == nil {
			stats.skip("nil")
			continue
		}
		class, ok := classOf(r)
		if !ok {
			stats.skip("unknown_class")
			continue
		}
		id := stringField(r, fieldID)
		if id == "" {
			stats.skip("missing_id")
			continue
		}
		switch class {
		case ClassStation:
			if _, dup := ds.Stations[id]; dup {
				stats.skip("duplicate_station")
				continue
			}
			ds.Stations[id] = normalizeStation(id, r)
		case ClassPlatform:
			if _, dup := ds.Platforms[id]; dup {
				stats.skip("duplicate_platform")
				continue
			}
			ds.Platforms[id] = normalizePlatform(id, r)
		case ClassLine:
			if _, dup := ds.Lines[id]; dup {
				stats.skip("duplicate_line")
				continue
			}
			l, ok := normalizeLine(id, r)
			if !ok {
				stats.skip("line_geometry")
				continue
			}
			ds.Lines[id] = l
		case ClassBuildingPolygon, ClassBuildingPoint:
			if _, dup := ds.Buildings[id]; dup {
				stats.skip("duplicate_building")
				continue
			}
			b, ok := normalizeBuilding(id, class, r)
			if !ok {
				stats.skip("building_geometry")
				continue
			}
			ds.Buildings[id] = b
		}
		stats.Accepted[class]++
	}
	return ds, stats
}

func normalizeStation(id string, r Record) *Station {
	s := &Station{ID: id, Name: stringField(r, fieldName)}
	if s.Name == "" {
		s.Name = id
	}
	if v, ok := lookup(r, fieldCoord); ok {
		s.Coord, _ = toCoord(v)
	}
	if v, ok := lookup(r, fieldStationPlatforms); ok {
		s.PlatformIDs = toIDList(v)
	}
	if v, ok := lookup(r, fieldStationBuilding); ok {
		s.BuildingIDs = toIDList(v)
	}
	return s
}

func normalizePlatform(id string, r Record) *Platform {
	p := &Platform{
		ID:       id,
		Name:     stringField(r, fieldName),
		Active:   boolField(r, fieldPlatformActive, true),
		Junction: !boolField(r, fieldPlatformConnect, true),
	}
	if v, ok := lookup(r, fieldCoord); ok {
		p.Coord, _ = toCoord(v)
	}
	if v, ok := lookup(r, fieldPlatformLines); ok {
		p.Lines = normalizeMemberships(v)
	}
	return p
}

// normalizeMemberships accepts a list of membership objects or bare line ids.
func normalizeMemberships(v any) []LineMembership {
	list, ok := v.([]any)
	if !ok {
		list = make([]any, 0)
		for _, id := range toIDList(v) {
			list = append(list, id)
		}
	}
	out := make([]LineMembership, 0, len(list))
	for _, e := range list {
		if m, ok := normalizeMembership(e); ok {
			out = append(out, m)
		}
	}
	return out
}

func normalizeMembership(e any) (LineMembership, bool) {
	if id, ok := toString(e); ok {
		return LineMembership{LineID: id, Available: true, CanBoard: true, CanAlight: true}, true
	}
	r, ok := e.(map[string]any)
	if !ok {
		return LineMembership{}, false
	}
	m := LineMembership{
		LineID:         stringField(r, fieldMemberLine),
		Available:      boolField(r, fieldMemberAvailable, true),
		Overtaking:     boolField(r, fieldMemberOvertake, false),
		ForcedPassNext: boolField(r, fieldMemberNextOT, false),
		CanBoard:       boolField(r, fieldMemberBoard, true),
		CanAlight:      boolField(r, fieldMemberAlight, true),
		Operator:       stringField(r, fieldOperator),
	}
	if m.LineID == "" {
		return LineMembership{}, false
	}
	if v, ok := lookup(r, fieldMemberMileage); ok {
		if f, err := toFloat(v); err == nil && !math.IsNaN(f) {
			m.Mileage, m.HasMileage = f, true
		}
	}
	return m, true
}

func normalizeLine(id string, r Record) (*Line, bool) {
	v, ok := lookup(r, fieldLinePoints)
	if !ok {
		return nil, false
	}
	pts := toPointList(v)
	if len(pts) < 2 {
		return nil, false
	}
	l := &Line{
		ID:        id,
		Name:      stringField(r, fieldName),
		Color:     "#888888",
		Operator:  stringField(r, fieldOperator),
		Points:    pts,
		CumLength: geometry.CumulativeLengths(pts),
	}
	if l.Name == "" {
		l.Name = id
	}
	if c, ok := lookup(r, fieldLineColor); ok {
		if color, ok := NormalizeColor(c); ok {
			l.Color = color
		}
	}
	if d, ok := lookup(r, fieldLineDirection); ok {
		if n, err := toInt(d); err == nil {
			l.Direction = n
		}
	}
	return l, true
}

func normalizeBuilding(id string, class Class, r Record) (*Building, bool) {
	b := &Building{ID: id, Name: stringField(r, fieldName), Kind: BuildingPoint}
	if v, ok := lookup(r, fieldBuildingStations); ok {
		b.StationIDs = toIDList(v)
	}

	var point *geometry.Point
	if v, ok := lookup(r, fieldCoord); ok {
		if c, ok := toCoord(v); ok {
			p := c.Planar()
			point = &p
		}
	}

	if class == ClassBuildingPolygon {
		var poly []geometry.Point
		if v, ok := lookup(r, fieldBuildingPolygon); ok {
			poly = toPointList(v)
		}
		if geometry.DistinctVertices(poly) >= 3 {
			b.Kind = BuildingPolygon
			b.Polygon = poly
			b.Point = geometry.Centroid(poly)
			return b, true
		}
		// Degraded outline: keep the declared point or the vertex mean.
		if point == nil && len(poly) > 0 {
			p := geometry.VertexMean(poly)
			point = &p
		}
	}

	if point == nil {
		return nil, false
	}
	b.Point = *point
	return b, true
}

// SortedIDs returns the keys of m in ascending order.
func SortedIDs[T any](m map[string]T) []string {
	ids := make([]string, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
