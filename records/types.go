package records

import (
	"github.com/theoremus-urban-solutions/rail-router/geometry"
)

// Class is the record discriminator after normalisation.
type Class string

const (
	ClassStation         Class = "station"
	ClassPlatform        Class = "platform"
	ClassLine            Class = "line"
	ClassBuildingPolygon Class = "building_polygon"
	ClassBuildingPoint   Class = "building_point"
)

// Line direction codes.
const (
	DirectionUp        = 0
	DirectionDown      = 1
	DirectionConnector = 4
)

// Coord is a world coordinate triple.
type Coord struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Planar drops the vertical axis.
func (c Coord) Planar() geometry.Point { return geometry.XZ(c.X, c.Z) }

type Station struct {
	ID          string
	Name        string
	Coord       Coord
	PlatformIDs []string
	BuildingIDs []string
}

// LineMembership is one line entry on a platform.
type LineMembership struct {
	LineID         string
	Available      bool
	Overtaking     bool
	ForcedPassNext bool
	Mileage        float64
	HasMileage     bool
	CanBoard       bool
	CanAlight      bool
	Operator       string
}

type Platform struct {
	ID       string
	Name     string
	Coord    Coord
	Active   bool
	Junction bool
	Lines    []LineMembership
}

// Passenger reports whether the platform can serve passengers at all.
func (p *Platform) Passenger() bool { return p.Active && !p.Junction }

type Line struct {
	ID        string
	Name      string
	Color     string
	Direction int
	Operator  string
	Points    []geometry.Point
	CumLength []float64
}

// Length is the total arc length of the line.
func (l *Line) Length() float64 { return geometry.TotalLength(l.CumLength) }

// Mainline reports whether the direction code is a primary running direction.
func (l *Line) Mainline() bool {
	return l.Direction == DirectionUp || l.Direction == DirectionDown
}

// Connector reports whether the line is a branch/connector.
func (l *Line) Connector() bool { return l.Direction == DirectionConnector }

type BuildingKind string

const (
	BuildingPolygon BuildingKind = "polygon"
	BuildingPoint   BuildingKind = "point"
)

type Building struct {
	ID         string
	Name       string
	Kind       BuildingKind
	Point      geometry.Point
	Polygon    []geometry.Point
	StationIDs []string
}

// Dataset is the typed snapshot of one world.
type Dataset struct {
	Stations  map[string]*Station
	Platforms map[string]*Platform
	Lines     map[string]*Line
	Buildings map[string]*Building
}

func NewDataset() *Dataset {
	return &Dataset{
		Stations:  map[string]*Station{},
		Platforms: map[string]*Platform{},
		Lines:     map[string]*Line{},
		Buildings: map[string]*Building{},
	}
}

// Stats counts accepted and skipped records per class.
type Stats struct {
	Accepted map[Class]int
	Skipped  map[string]int
}

func newStats() Stats {
	return Stats{Accepted: map[Class]int{}, Skipped: map[string]int{}}
}

func (s Stats) skip(reason string) { s.Skipped[reason]++ }
