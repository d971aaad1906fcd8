package planner

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/theoremus-urban-solutions/rail-router/geometry"
	"github.com/theoremus-urban-solutions/rail-router/network"
)

// Mode selects the scalar the solver minimises.
type Mode string

const (
	ModeTime      Mode = "time"
	ModeTransfers Mode = "transfers"
	ModeDistance  Mode = "distance"
)

// ParseMode accepts a mode name case-insensitively. Empty means time.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeTime:
		return ModeTime, nil
	case ModeTransfers:
		return ModeTransfers, nil
	case ModeDistance:
		return ModeDistance, nil
	}
	return "", fmt.Errorf("unknown mode %q", s)
}

func (m Mode) orDefault() Mode {
	if m == "" {
		return ModeTime
	}
	return m
}

// Coordinate is a planar world position.
type Coordinate struct {
	X float64 `json:"x"`
	Z float64 `json:"z"`
}

func (c Coordinate) point() geometry.Point { return geometry.XZ(c.X, c.Z) }

func coordinateOf(p geometry.Point) Coordinate { return Coordinate{X: p.X, Z: p.Y} }

// Query asks for a journey between two buildings.
type Query struct {
	WorldID         string                    `json:"worldId"`
	StartBuildingID string                    `json:"startBuildingId" validate:"required"`
	EndBuildingID   string                    `json:"endBuildingId" validate:"required"`
	Mode            Mode                      `json:"mode" validate:"omitempty,oneof=time transfers distance"`
	Tunables        *network.TunableOverrides `json:"tunables,omitempty" validate:"omitempty"`
}

// CoordinateQuery asks for a journey between the buildings nearest to two
// coordinates.
type CoordinateQuery struct {
	WorldID  string                    `json:"worldId"`
	Start    Coordinate                `json:"start"`
	End      Coordinate                `json:"end"`
	Mode     Mode                      `json:"mode" validate:"omitempty,oneof=time transfers distance"`
	Tunables *network.TunableOverrides `json:"tunables,omitempty" validate:"omitempty"`
}

var validate = validator.New()

// Validate checks the struct tags of a Query or CoordinateQuery.
func Validate(q any) error {
	if err := validate.Struct(q); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidQuery, err)
	}
	return nil
}
