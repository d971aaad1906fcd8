package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theoremus-urban-solutions/rail-router/network"
	"github.com/theoremus-urban-solutions/rail-router/records"
)

func TestResolveBuilding(t *testing.T) {
	ds := demoGraph(t).Dataset

	tests := []struct {
		name string
		at   Coordinate
		want string
	}{
		{"inside polygon", Coordinate{X: 1, Z: 1}, "bA"},
		{"inside interchange", Coordinate{X: 505, Z: 50}, "bX"},
		{"nearest point building", Coordinate{X: 200, Z: 5}, "bB"},
		{"nearest polygon boundary", Coordinate{X: 480, Z: 50}, "bX"},
		{"far away", Coordinate{X: 705, Z: -400}, "bE"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ResolveBuilding(ds, tt.at)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveBuilding_SmallestPolygonAndTies(t *testing.T) {
	ds, _ := records.Normalize([]records.Record{
		{"class": "STB", "id": "outer", "polygon": []any{[]any{0, 0}, []any{100, 0}, []any{100, 100}, []any{0, 100}}},
		{"class": "STB", "id": "inner", "polygon": []any{[]any{40, 40}, []any{60, 40}, []any{60, 60}, []any{40, 60}}},
		{"class": "SBP", "id": "p2", "coord": []any{200.0, 10.0}},
		{"class": "SBP", "id": "p1", "coord": []any{200.0, -10.0}},
	})

	got, ok := ResolveBuilding(ds, Coordinate{X: 50, Z: 50})
	require.True(t, ok)
	assert.Equal(t, "inner", got)

	got, _ = ResolveBuilding(ds, Coordinate{X: 10, Z: 10})
	assert.Equal(t, "outer", got)

	got, _ = ResolveBuilding(ds, Coordinate{X: 300, Z: 0})
	assert.Equal(t, "p1", got, "equal distance resolves to the lower id")

	_, ok = ResolveBuilding(records.NewDataset(), Coordinate{})
	assert.False(t, ok)
}

func TestPlanCoordinates(t *testing.T) {
	g := demoGraph(t)

	res := PlanCoordinates(g, CoordinateQuery{WorldID: "demo", Start: Coordinate{X: 2, Z: 3}, End: Coordinate{X: 201, Z: 1}})
	require.True(t, res.OK, res.Reason)
	assert.Equal(t, "bA", res.StartBuildingID)
	assert.Equal(t, "bB", res.EndBuildingID)
	assert.Equal(t, "demo", res.WorldID)
	require.Len(t, res.Segments, 1)

	res = PlanCoordinates(g, CoordinateQuery{Start: Coordinate{X: 2, Z: 3}, End: Coordinate{X: 201, Z: 1}, Mode: "walk"})
	assert.Equal(t, CodeInvalidQuery, res.Code)

	empty := network.Build(records.NewDataset(), network.DefaultTunables())
	res = PlanCoordinates(empty, CoordinateQuery{})
	assert.Equal(t, CodeUnknownBuilding, res.Code)

	res = PlanCoordinates(nil, CoordinateQuery{})
	assert.Equal(t, CodeInternal, res.Code)
}
