package planner

import (
	"strings"

	"github.com/theoremus-urban-solutions/rail-router/geometry"
	"github.com/theoremus-urban-solutions/rail-router/network"
)

// railAcc is the rail segment currently being folded.
type railAcc struct {
	open         bool
	lineIDs      []string
	points       []geometry.Point
	via          []string
	distance     float64
	time         float64
	fromPlatform string
	toPlatform   string
}

type planAcc struct {
	segments []Segment
	overlay  []OverlaySegment
	rail     railAcc
}

// Reconstruct folds a solved edge sequence into a user-facing plan.
func Reconstruct(g *network.Graph, edges []network.Edge) Result {
	acc := planAcc{}
	for _, e := range edges {
		acc = step(g, acc, e)
	}
	acc = closeRail(g, acc)

	var totals Totals
	for _, e := range edges {
		totals = totals.add(e)
	}

	return emptyResult(Result{
		OK:               true,
		TotalDistance:    totals.Distance,
		TotalTimeSeconds: totals.RealTime,
		TransferCount:    totals.Transfers,
		Segments:         acc.segments,
		Overlay: Overlay{
			Segments:       acc.overlay,
			AllCoordinates: flatten(acc.overlay),
		},
		UsedLines: usedLines(g, acc.segments),
	})
}

func step(g *network.Graph, acc planAcc, e network.Edge) planAcc {
	switch {
	case e.Kind == network.EdgeRide:
		return extendRail(g, acc, e)
	case e.Kind == network.EdgeBoard || e.Kind == network.EdgeAlight:
		return closeRail(g, acc)
	case e.Hidden:
		return acc
	}
	acc = closeRail(g, acc)
	return appendTransfer(g, acc, e)
}

func extendRail(g *network.Graph, acc planAcc, e network.Edge) planAcc {
	r := acc.rail
	if !r.open {
		r = railAcc{open: true, fromPlatform: e.From.Platform}
	} else if o, ok := g.Occurrence(e.From); ok && o.StopAllowed && !o.Junction {
		r.via = appendUnique(r.via, g.StationName(e.From.Platform))
	}
	r.lineIDs = appendUnique(r.lineIDs, e.Line)
	r.points = geometry.DedupeJoin(r.points, e.Geometry)
	r.distance += e.Distance
	r.time += e.RealTime
	r.toPlatform = e.To.Platform
	acc.rail = r
	return acc
}

func closeRail(g *network.Graph, acc planAcc) planAcc {
	r := acc.rail
	if !r.open {
		return acc
	}
	names := make([]string, 0, len(r.lineIDs))
	color := ""
	for _, id := range r.lineIDs {
		l := g.Dataset.Lines[id]
		if l == nil {
			names = append(names, id)
			continue
		}
		names = append(names, l.Name)
		if color == "" {
			color = l.Color
		}
	}
	coords := toCoordinates(r.points)
	via := r.via
	if via == nil {
		via = []string{}
	}

	acc.segments = append(acc.segments, Segment{
		Type: SegmentRail,
		Rail: &RailSegment{
			LineIDs:     r.lineIDs,
			Label:       strings.Join(names, " / "),
			Color:       color,
			FromStation: g.StationName(r.fromPlatform),
			ToStation:   g.StationName(r.toPlatform),
			Via:         via,
			Distance:    r.distance,
			TimeSeconds: r.time,
			Coordinates: coords,
		},
	})
	acc.overlay = append(acc.overlay, OverlaySegment{
		Type:        SegmentRail,
		LineIDs:     r.lineIDs,
		Color:       color,
		Coordinates: coords,
	})
	acc.rail = railAcc{}
	return acc
}

func appendTransfer(g *network.Graph, acc planAcc, e network.Edge) planAcc {
	ts := &TransferSegment{
		TransferType:     e.Transfer,
		Station:          g.StationName(e.From.Platform),
		CountsAsTransfer: e.TransferInc > 0,
		Distance:         e.Distance,
		TimeSeconds:      e.RealTime,
	}
	if e.Kind == network.EdgeWalk {
		ts.FromStation = stationLabel(g, e.FromStation)
		ts.ToStation = stationLabel(g, e.ToStation)
	} else {
		ts.FromLine = e.From.Line
		ts.ToLine = e.To.Line
	}
	acc.segments = append(acc.segments, Segment{Type: SegmentTransfer, Transfer: ts})

	if e.Transfer == network.TransferStation {
		a, b := g.Dataset.Stations[e.FromStation], g.Dataset.Stations[e.ToStation]
		if a != nil && b != nil {
			acc.overlay = append(acc.overlay, OverlaySegment{
				Type:        SegmentTransfer,
				Coordinates: []Coordinate{coordinateOf(a.Coord.Planar()), coordinateOf(b.Coord.Planar())},
			})
		}
	}
	return acc
}

func stationLabel(g *network.Graph, stationID string) string {
	if st := g.Dataset.Stations[stationID]; st != nil && st.Name != "" {
		return st.Name
	}
	return stationID
}

func usedLines(g *network.Graph, segments []Segment) []UsedLine {
	var out []UsedLine
	seen := map[string]bool{}
	for _, s := range segments {
		if s.Rail == nil {
			continue
		}
		for _, id := range s.Rail.LineIDs {
			if seen[id] {
				continue
			}
			seen[id] = true
			u := UsedLine{ID: id, Name: id}
			if l := g.Dataset.Lines[id]; l != nil {
				u.Name, u.Color = l.Name, l.Color
			}
			out = append(out, u)
		}
	}
	return out
}

func flatten(overlay []OverlaySegment) []Coordinate {
	var out []Coordinate
	for _, s := range overlay {
		for _, c := range s.Coordinates {
			if n := len(out); n > 0 && out[n-1] == c {
				continue
			}
			out = append(out, c)
		}
	}
	return out
}

func toCoordinates(pts []geometry.Point) []Coordinate {
	out := make([]Coordinate, len(pts))
	for i, p := range pts {
		out[i] = coordinateOf(p)
	}
	return out
}

func appendUnique(list []string, v string) []string {
	for _, s := range list {
		if s == v {
			return list
		}
	}
	return append(list, v)
}
