package planner

import (
	"errors"
	"fmt"
	"math"

	"github.com/theoremus-urban-solutions/rail-router/geometry"
	"github.com/theoremus-urban-solutions/rail-router/network"
	"github.com/theoremus-urban-solutions/rail-router/records"
)

var (
	ErrInvalidQuery    = errors.New("invalid query")
	ErrUnknownBuilding = errors.New("unknown building")
	ErrNoPlatforms     = errors.New("building has no usable passenger platforms")
	ErrNoPath          = errors.New("no path between buildings")
	ErrNoGraph         = errors.New("graph not loaded")
)

// PlanBuildings finds the best journey between two buildings. It never
// panics and never returns an error; every failure is a not-ok Result.
//
// A query whose start and end resolve to the same building succeeds with an
// empty plan.
func PlanBuildings(g *network.Graph, q Query) (res Result) {
	defer recoverInto(&res)

	if err := Validate(q); err != nil {
		return Failure(CodeInvalidQuery, err.Error())
	}
	if g == nil {
		return Failure(CodeInternal, ErrNoGraph.Error())
	}
	mode := q.Mode.orDefault()
	if q.Tunables != nil {
		g = withTunables(g, *q.Tunables)
	}

	starts, fail := buildingNodes(g, q.StartBuildingID, network.DepartKey)
	if fail != nil {
		return *fail
	}
	ends, fail := buildingNodes(g, q.EndBuildingID, network.ArriveKey)
	if fail != nil {
		return *fail
	}

	var out Result
	if q.StartBuildingID == q.EndBuildingID {
		out = emptyResult(Result{OK: true})
	} else {
		goal := make(map[network.NodeKey]bool, len(ends))
		for _, k := range ends {
			goal[k] = true
		}
		sol := Solve(g, starts, func(k network.NodeKey) bool { return goal[k] }, mode)
		if !sol.Found {
			return annotate(Failure(CodeNoPath, fmt.Sprintf("%s: %s -> %s", ErrNoPath, q.StartBuildingID, q.EndBuildingID)), q, mode)
		}
		out = Reconstruct(g, sol.Edges)
	}
	return annotate(out, q, mode)
}

// PlanCoordinates resolves both coordinates to buildings and delegates to
// PlanBuildings.
func PlanCoordinates(g *network.Graph, cq CoordinateQuery) (res Result) {
	defer recoverInto(&res)

	if err := Validate(cq); err != nil {
		return Failure(CodeInvalidQuery, err.Error())
	}
	if g == nil {
		return Failure(CodeInternal, ErrNoGraph.Error())
	}
	start, ok := ResolveBuilding(g.Dataset, cq.Start)
	if !ok {
		return Failure(CodeUnknownBuilding, fmt.Sprintf("%s near (%g, %g)", ErrUnknownBuilding, cq.Start.X, cq.Start.Z))
	}
	end, ok := ResolveBuilding(g.Dataset, cq.End)
	if !ok {
		return Failure(CodeUnknownBuilding, fmt.Sprintf("%s near (%g, %g)", ErrUnknownBuilding, cq.End.X, cq.End.Z))
	}
	return PlanBuildings(g, Query{
		WorldID:         cq.WorldID,
		StartBuildingID: start,
		EndBuildingID:   end,
		Mode:            cq.Mode,
		Tunables:        cq.Tunables,
	})
}

// ResolveBuilding maps a coordinate to a building: the smallest polygon
// containing it, otherwise the nearest building by boundary or point
// distance. Ties go to the lower id.
func ResolveBuilding(ds *records.Dataset, c Coordinate) (string, bool) {
	p := c.point()
	ids := records.SortedIDs(ds.Buildings)

	bestID, bestArea := "", math.Inf(1)
	for _, id := range ids {
		b := ds.Buildings[id]
		if b.Kind != records.BuildingPolygon || !geometry.Contains(b.Polygon, p) {
			continue
		}
		if a := geometry.Area(b.Polygon); a < bestArea {
			bestID, bestArea = id, a
		}
	}
	if bestID != "" {
		return bestID, true
	}

	bestDist := math.Inf(1)
	for _, id := range ids {
		b := ds.Buildings[id]
		d := geometry.Distance(b.Point, p)
		if b.Kind == records.BuildingPolygon {
			d = geometry.DistanceToPolygon(b.Polygon, p)
		}
		if d < bestDist {
			bestID, bestDist = id, d
		}
	}
	return bestID, bestID != ""
}

// buildingNodes returns one node per passenger platform of a building,
// departures for the origin and arrivals for the destination.
func buildingNodes(g *network.Graph, buildingID string, key func(string) network.NodeKey) ([]network.NodeKey, *Result) {
	if _, ok := g.Dataset.Buildings[buildingID]; !ok {
		f := Failure(CodeUnknownBuilding, fmt.Sprintf("%s: %s", ErrUnknownBuilding, buildingID))
		return nil, &f
	}
	pids := g.BuildingPlatforms(buildingID)
	if len(pids) == 0 {
		f := Failure(CodeNoPlatforms, fmt.Sprintf("%s: %s", ErrNoPlatforms, buildingID))
		return nil, &f
	}
	keys := make([]network.NodeKey, len(pids))
	for i, pid := range pids {
		keys[i] = key(pid)
	}
	return keys, nil
}

// withTunables rebuilds the graph when a query overrides its costs.
func withTunables(g *network.Graph, o network.TunableOverrides) *network.Graph {
	merged := g.Tunables.Apply(o)
	if merged == g.Tunables {
		return g
	}
	return network.Build(g.Dataset, merged)
}

func annotate(r Result, q Query, mode Mode) Result {
	r.WorldID = q.WorldID
	r.StartBuildingID = q.StartBuildingID
	r.EndBuildingID = q.EndBuildingID
	r.Mode = mode
	return r
}

func recoverInto(res *Result) {
	if r := recover(); r != nil {
		*res = Failure(CodeInternal, fmt.Sprintf("internal error: %v", r))
	}
}
