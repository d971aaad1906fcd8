package records

import "strings"

// Record is one raw, loosely typed input record.
type Record = map[string]any

// Field resolution table. Each entry lists the accepted key variants in
// priority order; the first key present with a non-nil value wins. The data
// has been authored under several conventions over time and all of them are
// still in circulation.
var (
	fieldClass = []string{"class", "Class", "type", "kind"}
	fieldID    = []string{"id", "ID", "Id", "uuid"}
	fieldName  = []string{"name", "Name", "title", "label"}
	fieldCoord = []string{"coord", "coordinate", "Coordinate", "pos", "position", "xyz", "point"}

	// station
	fieldStationPlatforms = []string{"platforms", "Platforms", "PLFs", "plf", "platform_ids"}
	fieldStationBuilding  = []string{"building", "Building", "STBuilding", "buildings", "building_id", "stb"}

	// platform
	fieldPlatformActive  = []string{"Situation", "situation", "active", "enabled"}
	fieldPlatformConnect = []string{"Connect", "connect", "passenger"}
	fieldPlatformLines   = []string{"lines", "Lines", "RLEs", "rle", "routes"}

	// line membership
	fieldMemberLine      = []string{"line", "Line", "id", "ID", "rle"}
	fieldMemberAvailable = []string{"available", "Available", "avaliable", "Avaliable"}
	fieldMemberOvertake  = []string{"Overtaking", "overtaking", "OT", "pass"}
	fieldMemberNextOT    = []string{"NextOT", "nextOT", "next_ot", "nextOvertaking"}
	fieldMemberMileage   = []string{"mileage", "Mileage", "km", "distance"}
	fieldMemberBoard     = []string{"getin", "board", "boarding", "GetIn"}
	fieldMemberAlight    = []string{"getout", "alight", "alighting", "GetOut"}
	fieldOperator        = []string{"group", "Group", "operator", "route_family", "company"}

	// line
	fieldLineColor     = []string{"color", "colour", "Color"}
	fieldLineDirection = []string{"direction", "Direction", "dir"}
	fieldLinePoints    = []string{"points", "PLpoints", "path", "coords", "polyline"}

	// building
	fieldBuildingPolygon  = []string{"polygon", "points", "vertices", "outline"}
	fieldBuildingStations = []string{"stations", "Stations", "STAs", "station_ids", "stationGroup"}
)

var classAliases = map[string]Class{
	"sta":              ClassStation,
	"station":          ClassStation,
	"plf":              ClassPlatform,
	"platform":         ClassPlatform,
	"rle":              ClassLine,
	"line":             ClassLine,
	"stb":              ClassBuildingPolygon,
	"building":         ClassBuildingPolygon,
	"building_polygon": ClassBuildingPolygon,
	"sbp":              ClassBuildingPoint,
	"building_point":   ClassBuildingPoint,
}

// lookup returns the first present, non-nil value among keys.
func lookup(r Record, keys []string) (any, bool) {
	for _, k := range keys {
		if v, ok := r[k]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

func classOf(r Record) (Class, bool) {
	v, ok := lookup(r, fieldClass)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	if !ok {
		return "", false
	}
	c, ok := classAliases[strings.ToLower(strings.TrimSpace(s))]
	return c, ok
}
