package planner

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theoremus-urban-solutions/rail-router/network"
	"github.com/theoremus-urban-solutions/rail-router/records"
)

func demoGraph(t *testing.T) *network.Graph {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("..", "testdata", "worlds", "demo.json"))
	require.NoError(t, err)
	var env struct {
		Records []records.Record `json:"records"`
	}
	require.NoError(t, json.Unmarshal(data, &env))
	ds, _ := records.Normalize(env.Records)
	return network.Build(ds, network.DefaultTunables())
}

func ptr(v float64) *float64 { return &v }

func route(g *network.Graph, from, to string, mode Mode) Result {
	return PlanBuildings(g, Query{WorldID: "demo", StartBuildingID: from, EndBuildingID: to, Mode: mode})
}

func TestPlanBuildings_AdjacentStops(t *testing.T) {
	res := route(demoGraph(t), "bA", "bB", ModeTime)

	require.True(t, res.OK, res.Reason)
	assert.Equal(t, 0, res.TransferCount)
	assert.InDelta(t, 200, res.TotalDistance, 1e-9)
	assert.InDelta(t, 10, res.TotalTimeSeconds, 1e-9)
	require.Len(t, res.Segments, 1)

	rail := res.Segments[0].Rail
	require.NotNil(t, rail)
	assert.Equal(t, SegmentRail, res.Segments[0].Type)
	assert.Equal(t, "Red", rail.Label)
	assert.Equal(t, "#e53935", rail.Color)
	assert.Equal(t, "Alder", rail.FromStation)
	assert.Equal(t, "Birch", rail.ToStation)
	assert.Empty(t, rail.Via)
	assert.Equal(t, []Coordinate{{0, 0}, {200, 0}}, rail.Coordinates)

	assert.Equal(t, []UsedLine{{ID: "R", Name: "Red", Color: "#e53935"}}, res.UsedLines)
	assert.Equal(t, "bA", res.StartBuildingID)
	assert.Equal(t, ModeTime, res.Mode)
}

func TestPlanBuildings_ViaStationsSkipJunctions(t *testing.T) {
	res := route(demoGraph(t), "bA", "bC", "")

	require.True(t, res.OK, res.Reason)
	require.Len(t, res.Segments, 1)
	assert.Equal(t, []string{"Birch", "Cross"}, res.Segments[0].Rail.Via)
	assert.InDelta(t, 1000, res.TotalDistance, 1e-9)
	assert.InDelta(t, 50, res.TotalTimeSeconds, 1e-9)
	assert.Equal(t, ModeTime, res.Mode)
}

func TestPlanBuildings_StationTransfer(t *testing.T) {
	res := route(demoGraph(t), "bB", "bD", ModeTime)

	require.True(t, res.OK, res.Reason)
	assert.Equal(t, 1, res.TransferCount)
	assert.InDelta(t, 1300, res.TotalDistance, 1e-9)
	assert.InDelta(t, 15+100/network.DefaultTransferWalkSpeed+45, res.TotalTimeSeconds, 1e-9)

	require.Len(t, res.Segments, 3)
	assert.Equal(t, "Red", res.Segments[0].Rail.Label)
	assert.Equal(t, "Green", res.Segments[2].Rail.Label)

	tr := res.Segments[1].Transfer
	require.NotNil(t, tr)
	assert.Equal(t, network.TransferStation, tr.TransferType)
	assert.True(t, tr.CountsAsTransfer)
	assert.Equal(t, "Cross", tr.Station)
	assert.Equal(t, "Cross", tr.FromStation)
	assert.Equal(t, "Cross Green", tr.ToStation)
	assert.InDelta(t, 100, tr.Distance, 1e-9)

	stationTransfers := 0
	for _, s := range res.Segments {
		if s.Transfer != nil && s.Transfer.TransferType == network.TransferStation {
			stationTransfers++
		}
	}
	assert.Equal(t, 1, stationTransfers)

	require.Len(t, res.Overlay.Segments, 3)
	assert.Equal(t, []Coordinate{{500, 0}, {500, 100}}, res.Overlay.Segments[1].Coordinates)
	assert.Equal(t, []Coordinate{{200, 0}, {500, 0}, {500, 100}, {500, 1000}}, res.Overlay.AllCoordinates)
	assert.Equal(t, []UsedLine{
		{ID: "R", Name: "Red", Color: "#e53935"},
		{ID: "G", Name: "Green", Color: "#43a047"},
	}, res.UsedLines)
}

func TestPlanBuildings_MergeAtJunctionIsVisible(t *testing.T) {
	res := route(demoGraph(t), "bE", "bC", ModeTime)

	require.True(t, res.OK, res.Reason)
	assert.Equal(t, 0, res.TransferCount)
	assert.InDelta(t, 600, res.TotalDistance, 1e-9)
	require.Len(t, res.Segments, 3)

	assert.Equal(t, "Link", res.Segments[0].Rail.Label)
	assert.Equal(t, "Elm", res.Segments[0].Rail.FromStation)
	assert.Equal(t, "Junction", res.Segments[0].Rail.ToStation)

	merge := res.Segments[1].Transfer
	require.NotNil(t, merge)
	assert.Equal(t, network.TransferMerge, merge.TransferType)
	assert.Equal(t, "Junction", merge.Station)
	assert.Equal(t, "K", merge.FromLine)
	assert.Equal(t, "R", merge.ToLine)
	assert.False(t, merge.CountsAsTransfer)

	assert.Equal(t, "Red", res.Segments[2].Rail.Label)
	assert.Equal(t, "Cedar", res.Segments[2].Rail.ToStation)
}

func TestPlanBuildings_Failures(t *testing.T) {
	g := demoGraph(t)

	tests := []struct {
		name   string
		query  Query
		code   string
		reason string
	}{
		{"destination without passenger platforms", Query{StartBuildingID: "bA", EndBuildingID: "bJ"}, CodeNoPlatforms, "usable passenger platforms"},
		{"origin without passenger platforms", Query{StartBuildingID: "bJ", EndBuildingID: "bA"}, CodeNoPlatforms, "bJ"},
		{"unknown start", Query{StartBuildingID: "nope", EndBuildingID: "bA"}, CodeUnknownBuilding, "nope"},
		{"unknown end", Query{StartBuildingID: "bA", EndBuildingID: "nope"}, CodeUnknownBuilding, "nope"},
		{"against the direction of travel", Query{StartBuildingID: "bC", EndBuildingID: "bA"}, CodeNoPath, "no path"},
		{"bad mode", Query{StartBuildingID: "bA", EndBuildingID: "bB", Mode: "fastest"}, CodeInvalidQuery, "Mode"},
		{"missing start", Query{EndBuildingID: "bB"}, CodeInvalidQuery, "StartBuildingID"},
		{"negative tunable", Query{StartBuildingID: "bA", EndBuildingID: "bB", Tunables: &network.TunableOverrides{RailSpeed: ptr(-1)}}, CodeInvalidQuery, "RailSpeed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := PlanBuildings(g, tt.query)
			assert.False(t, res.OK)
			assert.Equal(t, tt.code, res.Code)
			assert.Contains(t, res.Reason, tt.reason)
			assert.NotNil(t, res.Segments)
			assert.NotNil(t, res.UsedLines)
		})
	}
}

func TestPlanBuildings_SameBuilding(t *testing.T) {
	res := route(demoGraph(t), "bX", "bX", ModeTransfers)

	require.True(t, res.OK)
	assert.Empty(t, res.Segments)
	assert.Zero(t, res.TotalDistance)
	assert.Zero(t, res.TotalTimeSeconds)
	assert.Zero(t, res.TransferCount)

	// resolution checks still apply
	res = route(demoGraph(t), "bJ", "bJ", ModeTime)
	assert.False(t, res.OK)
	assert.Equal(t, CodeNoPlatforms, res.Code)
}

func TestPlanBuildings_Idempotent(t *testing.T) {
	g := demoGraph(t)
	first := route(g, "bB", "bD", ModeTransfers)
	second := route(g, "bB", "bD", ModeTransfers)
	assert.Equal(t, first, second)
}

func TestPlanBuildings_NilGraphAndPanics(t *testing.T) {
	res := PlanBuildings(nil, Query{StartBuildingID: "a", EndBuildingID: "b"})
	assert.Equal(t, CodeInternal, res.Code)

	res = PlanBuildings(&network.Graph{}, Query{StartBuildingID: "a", EndBuildingID: "b"})
	assert.False(t, res.OK)
	assert.Equal(t, CodeInternal, res.Code)
	assert.Contains(t, res.Reason, "internal error")
}

func TestPlanBuildings_TransferCountConsistency(t *testing.T) {
	g := demoGraph(t)
	ids := records.SortedIDs(g.Dataset.Buildings)

	for _, from := range ids {
		for _, to := range ids {
			for _, mode := range []Mode{ModeTime, ModeTransfers, ModeDistance} {
				res := route(g, from, to, mode)
				if !res.OK {
					continue
				}
				counted := 0
				for _, s := range res.Segments {
					if s.Transfer != nil && s.Transfer.CountsAsTransfer {
						counted++
					}
				}
				assert.Equal(t, res.TransferCount, counted, "%s -> %s (%s)", from, to, mode)
			}
		}
	}
}

func TestPlanBuildings_ModeMonotonicity(t *testing.T) {
	g := demoGraph(t)
	ids := records.SortedIDs(g.Dataset.Buildings)

	for _, from := range ids {
		for _, to := range ids {
			byTime := route(g, from, to, ModeTime)
			byTransfers := route(g, from, to, ModeTransfers)
			require.Equal(t, byTime.OK, byTransfers.OK)
			if byTime.OK {
				assert.LessOrEqual(t, byTransfers.TransferCount, byTime.TransferCount, "%s -> %s", from, to)
			}
		}
	}
}

// shortcutWorld has a long direct line S-T and a short two-line path through
// an interchange M whose walk is heavily discounted.
func shortcutWorld(t *testing.T) *network.Graph {
	t.Helper()
	ds, _ := records.Normalize([]records.Record{
		{"class": "STA", "id": "sS", "name": "Start", "coord": []any{0.0, 0.0}, "platforms": []any{"pS"}, "building": "bS"},
		{"class": "STA", "id": "sT", "name": "Terminus", "coord": []any{1000.0, 0.0}, "platforms": []any{"pT"}, "building": "bT"},
		{"class": "STA", "id": "sM1", "name": "Mid West", "coord": []any{450.0, 0.0}, "platforms": []any{"pM1"}, "building": "bM"},
		{"class": "STA", "id": "sM2", "name": "Mid East", "coord": []any{550.0, 0.0}, "platforms": []any{"pM2"}, "building": "bM"},
		{"class": "SBP", "id": "bS", "coord": []any{0.0, 0.0}},
		{"class": "SBP", "id": "bT", "coord": []any{1000.0, 0.0}},
		{"class": "SBP", "id": "bM", "coord": []any{500.0, 0.0}},
		{"class": "PLF", "id": "pS", "coord": []any{0.0, 0.0}, "lines": []any{"L1", "L2"}},
		{"class": "PLF", "id": "pT", "coord": []any{1000.0, 0.0}, "lines": []any{"L1", "L3"}},
		{"class": "PLF", "id": "pM1", "coord": []any{450.0, 0.0}, "lines": []any{"L2"}},
		{"class": "PLF", "id": "pM2", "coord": []any{550.0, 0.0}, "lines": []any{"L3"}},
		{"class": "RLE", "id": "L1", "name": "Loop", "group": "loop", "points": []any{
			[]any{0.0, 0.0}, []any{0.0, 2000.0}, []any{1000.0, 2000.0}, []any{1000.0, 0.0},
		}},
		{"class": "RLE", "id": "L2", "name": "West", "group": "west", "points": []any{[]any{0.0, 0.0}, []any{450.0, 0.0}}},
		{"class": "RLE", "id": "L3", "name": "East", "group": "east", "points": []any{[]any{550.0, 0.0}, []any{1000.0, 0.0}}},
	})
	return network.Build(ds, network.DefaultTunables())
}

func TestPlanBuildings_Modes(t *testing.T) {
	g := shortcutWorld(t)
	cheapWalk := &network.TunableOverrides{StationTransferCostDivisor: ptr(100)}

	tests := []struct {
		mode      Mode
		transfers int
		distance  float64
	}{
		{ModeTime, 1, 1000},
		{ModeTransfers, 0, 5000},
		{ModeDistance, 1, 1000},
	}
	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			res := PlanBuildings(g, Query{StartBuildingID: "bS", EndBuildingID: "bT", Mode: tt.mode, Tunables: cheapWalk})
			require.True(t, res.OK, res.Reason)
			assert.Equal(t, tt.transfers, res.TransferCount)
			assert.InDelta(t, tt.distance, res.TotalDistance, 1e-9)
		})
	}

	// reported time stays undiscounted
	res := PlanBuildings(g, Query{StartBuildingID: "bS", EndBuildingID: "bT", Mode: ModeTime, Tunables: cheapWalk})
	assert.InDelta(t, 22.5+100/network.DefaultTransferWalkSpeed+22.5, res.TotalTimeSeconds, 1e-9)
}

// platformChangeWorld has two lines of different operators meeting end to
// start at the ordinary platform pP, so S to T needs one same-platform
// change. pP's own station sits in building bP.
func platformChangeWorld(t *testing.T, sharedOperator bool) *network.Graph {
	t.Helper()
	second := "green"
	if sharedOperator {
		second = "red"
	}
	ds, _ := records.Normalize([]records.Record{
		{"class": "STA", "id": "sS", "name": "Start", "coord": []any{0.0, 0.0}, "platforms": []any{"pS"}, "building": "bS"},
		{"class": "STA", "id": "sP", "name": "Pivot", "coord": []any{100.0, 0.0}, "platforms": []any{"pP"}, "building": "bP"},
		{"class": "STA", "id": "sT", "name": "Terminus", "coord": []any{200.0, 0.0}, "platforms": []any{"pT"}, "building": "bT"},
		{"class": "SBP", "id": "bS", "coord": []any{0.0, 0.0}},
		{"class": "SBP", "id": "bP", "coord": []any{100.0, 0.0}},
		{"class": "SBP", "id": "bT", "coord": []any{200.0, 0.0}},
		{"class": "PLF", "id": "pS", "coord": []any{0.0, 0.0}, "lines": []any{"L1"}},
		{"class": "PLF", "id": "pP", "coord": []any{100.0, 0.0}, "lines": []any{"L1", "L3"}},
		{"class": "PLF", "id": "pT", "coord": []any{200.0, 0.0}, "lines": []any{"L3"}},
		{"class": "RLE", "id": "L1", "name": "First", "group": "red", "points": []any{[]any{0.0, 0.0}, []any{100.0, 0.0}}},
		{"class": "RLE", "id": "L3", "name": "Second", "group": second, "points": []any{[]any{100.0, 0.0}, []any{200.0, 0.0}}},
	})
	return network.Build(ds, network.DefaultTunables())
}

func TestPlanBuildings_SamePlatformChangeCosts(t *testing.T) {
	g := platformChangeWorld(t, false)

	for _, mode := range []Mode{ModeTime, ModeTransfers, ModeDistance} {
		t.Run(string(mode), func(t *testing.T) {
			res := route(g, "bS", "bT", mode)
			require.True(t, res.OK, res.Reason)
			assert.Equal(t, 1, res.TransferCount)
			assert.InDelta(t, 200, res.TotalDistance, 1e-9)
			assert.InDelta(t, 5+network.DefaultSamePlatformTransferCost+5, res.TotalTimeSeconds, 1e-9)

			require.Len(t, res.Segments, 3)
			assert.Equal(t, []string{"L1"}, res.Segments[0].Rail.LineIDs)
			tr := res.Segments[1].Transfer
			require.NotNil(t, tr)
			assert.Equal(t, network.TransferSamePlatform, tr.TransferType)
			assert.True(t, tr.CountsAsTransfer)
			assert.Equal(t, "Pivot", tr.Station)
			assert.Equal(t, "L1", tr.FromLine)
			assert.Equal(t, "L3", tr.ToLine)
			assert.Equal(t, []string{"L3"}, res.Segments[2].Rail.LineIDs)
		})
	}
}

func TestPlanBuildings_SamePlatformChangeFreeWhenConfigured(t *testing.T) {
	g := platformChangeWorld(t, false)
	res := PlanBuildings(g, Query{
		StartBuildingID: "bS",
		EndBuildingID:   "bT",
		Tunables:        &network.TunableOverrides{SamePlatformTransferCost: ptr(0)},
	})
	require.True(t, res.OK, res.Reason)
	assert.Equal(t, 1, res.TransferCount)
	assert.InDelta(t, 10, res.TotalTimeSeconds, 1e-9)
}

func TestPlanBuildings_ThroughRunAtPlatform(t *testing.T) {
	res := route(platformChangeWorld(t, true), "bS", "bT", ModeTime)

	require.True(t, res.OK, res.Reason)
	assert.Equal(t, 0, res.TransferCount)
	assert.InDelta(t, 10, res.TotalTimeSeconds, 1e-9)
	require.Len(t, res.Segments, 3)
	assert.Equal(t, network.TransferThroughRun, res.Segments[1].Transfer.TransferType)
	assert.False(t, res.Segments[1].Transfer.CountsAsTransfer)
}

func TestSolve_TotalsMatchEdges(t *testing.T) {
	g := shortcutWorld(t)
	sol := Solve(g, []network.NodeKey{network.DepartKey("pS")}, func(k network.NodeKey) bool {
		return k == network.ArriveKey("pT")
	}, ModeTime)

	require.True(t, sol.Found)
	assert.Equal(t, network.ArriveKey("pT"), sol.Goal)

	var sum Totals
	for i, e := range sol.Edges {
		sum = sum.add(e)
		if i > 0 {
			assert.Equal(t, sol.Edges[i-1].To, e.From, "edges must chain")
		}
	}
	assert.Equal(t, sol.Totals, sum)
	assert.Equal(t, network.DepartKey("pS"), sol.Edges[0].From)
}

func TestSolve_NotFound(t *testing.T) {
	g := shortcutWorld(t)
	sol := Solve(g, []network.NodeKey{network.DepartKey("pT")}, func(k network.NodeKey) bool {
		return k == network.ArriveKey("pS")
	}, ModeDistance)
	assert.False(t, sol.Found)
	assert.Empty(t, sol.Edges)
}

func TestParseMode(t *testing.T) {
	for in, want := range map[string]Mode{"": ModeTime, "TIME": ModeTime, " transfers ": ModeTransfers, "distance": ModeDistance} {
		got, err := ParseMode(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseMode("teleport")
	assert.Error(t, err)
}

func TestResultJSON_EmptyListsEncodeAsArrays(t *testing.T) {
	data, err := json.Marshal(Failure(CodeNoPath, "none"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"segments":[]`)
	assert.Contains(t, string(data), `"usedLines":[]`)
	assert.Contains(t, string(data), `"allCoordinates":[]`)
}
