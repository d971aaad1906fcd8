package network

import (
	"github.com/theoremus-urban-solutions/rail-router/geometry"
	"github.com/theoremus-urban-solutions/rail-router/records"
)

// Build constructs the routing graph for a normalised dataset.
func Build(ds *records.Dataset, t Tunables) *Graph {
	t = t.WithDefaults()
	idx := BuildStationIndex(ds)
	occ := BuildOccupancy(ds)
	g := newGraph(ds, idx, occ, t)

	for _, pid := range records.SortedIDs(ds.Platforms) {
		if ds.Platforms[pid].Passenger() {
			g.platformSet[pid] = struct{}{}
		}
	}

	for _, lineID := range records.SortedIDs(occ) {
		g.addLine(ds.Lines[lineID], occ[lineID])
	}
	g.addWalkEdges()
	g.addSwitchEdges()
	return g
}

// addLine registers ride nodes, ride edges and board/alight edges of a line.
func (g *Graph) addLine(line *records.Line, occs []Occurrence) {
	var prev *Occurrence
	for i := range occs {
		o := occs[i]
		if !o.Node() {
			continue
		}
		key := RideKey(o.PlatformID, line.ID)
		g.occByNode[key] = o

		if !o.Junction && o.StopAllowed && g.HasPlatformNode(o.PlatformID) {
			if o.Membership.CanBoard {
				g.addEdge(Edge{From: DepartKey(o.PlatformID), To: key, Kind: EdgeBoard})
			}
			if o.Membership.CanAlight {
				g.addEdge(Edge{From: key, To: ArriveKey(o.PlatformID), Kind: EdgeAlight})
			}
		}

		if prev != nil {
			dist := o.Mileage - prev.Mileage
			if dist < 0 {
				dist = 0
			}
			time := dist / g.Tunables.RailSpeed
			g.addEdge(Edge{
				From:     RideKey(prev.PlatformID, line.ID),
				To:       key,
				Kind:     EdgeRide,
				Distance: dist,
				Time:     time,
				RealTime: time,
				Line:     line.ID,
				Geometry: geometry.SliceByMileage(line.Points, line.CumLength, prev.Mileage, o.Mileage),
			})
		}
		prev = &occs[i]
	}
}

// addWalkEdges connects the arrival of every passenger platform in a
// building to the departure of every other one.
func (g *Graph) addWalkEdges() {
	ds := g.Dataset
	seen := map[[2]string]struct{}{}
	for _, bid := range records.SortedIDs(ds.Buildings) {
		pids := g.BuildingPlatforms(bid)
		for _, a := range pids {
			for _, b := range pids {
				if a == b {
					continue
				}
				pair := [2]string{a, b}
				if _, dup := seen[pair]; dup {
					continue
				}
				seen[pair] = struct{}{}
				g.addEdge(g.walkEdge(a, b))
			}
		}
	}
}

func (g *Graph) walkEdge(fromPlatform, toPlatform string) Edge {
	sa := g.StationID(fromPlatform)
	sb := g.StationID(toPlatform)
	e := Edge{
		From:        ArriveKey(fromPlatform),
		To:          DepartKey(toPlatform),
		Kind:        EdgeWalk,
		FromStation: sa,
		ToStation:   sb,
	}
	if sa == sb {
		e.Transfer = TransferSameStation
		e.Hidden = true
		return e
	}
	stA := g.Dataset.Stations[sa]
	stB := g.Dataset.Stations[sb]
	dist := geometry.Distance(stA.Coord.Planar(), stB.Coord.Planar())
	real := dist / g.Tunables.TransferWalkSpeed
	e.Transfer = TransferStation
	e.Distance = dist
	e.RealTime = real
	e.Time = real / g.Tunables.StationTransferCostDivisor
	e.TransferInc = 1
	return e
}

// addSwitchEdges connects every ordered pair of ride nodes on one platform.
func (g *Graph) addSwitchEdges() {
	byPlatform := map[string][]Occurrence{}
	for _, lineID := range records.SortedIDs(g.Occurrences) {
		for _, o := range g.Occurrences[lineID] {
			if o.Node() {
				byPlatform[o.PlatformID] = append(byPlatform[o.PlatformID], o)
			}
		}
	}

	for _, pid := range records.SortedIDs(byPlatform) {
		occs := byPlatform[pid]
		for _, a := range occs {
			for _, b := range occs {
				if a.LineID == b.LineID {
					continue
				}
				if e, ok := g.switchEdge(a, b); ok {
					g.addEdge(e)
				}
			}
		}
	}
}

func (g *Graph) switchEdge(a, b Occurrence) (Edge, bool) {
	junction := a.Junction || b.Junction
	if !junction && (!a.Membership.CanAlight || !b.Membership.CanBoard) {
		return Edge{}, false
	}
	la := g.Dataset.Lines[a.LineID]
	lb := g.Dataset.Lines[b.LineID]
	station := g.StationID(a.PlatformID)
	e := Edge{
		From:        RideKey(a.PlatformID, a.LineID),
		To:          RideKey(b.PlatformID, b.LineID),
		Kind:        EdgeSwitch,
		Transfer:    classifySwitch(a, b, la, lb, junction),
		FromStation: station,
		ToStation:   station,
	}

	if e.Transfer == TransferSamePlatform && !junction {
		e.Time = g.Tunables.SamePlatformTransferCost
		e.RealTime = g.Tunables.SamePlatformTransferCost
		e.TransferInc = 1
	}
	if junction && !e.Transfer.Topological() {
		e.Hidden = true
	}
	return e, true
}
