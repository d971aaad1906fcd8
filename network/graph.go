package network

import (
	"fmt"

	"github.com/theoremus-urban-solutions/rail-router/geometry"
	"github.com/theoremus-urban-solutions/rail-router/records"
)

// NodeKind tags a NodeKey.
type NodeKind uint8

// A passenger platform has two nodes. Departures are boarded from and
// walked to; arrivals are alighted onto and walked from. There is no edge
// from a platform's arrival to its own departure, so changing lines on one
// platform always goes through a switch edge.
const (
	DepartNode NodeKind = iota + 1
	ArriveNode
	RideNode
)

// NodeKey identifies a graph node by value. Platform nodes leave Line empty.
type NodeKey struct {
	Kind     NodeKind
	Platform string
	Line     string
}

func DepartKey(platformID string) NodeKey {
	return NodeKey{Kind: DepartNode, Platform: platformID}
}

func ArriveKey(platformID string) NodeKey {
	return NodeKey{Kind: ArriveNode, Platform: platformID}
}

func RideKey(platformID, lineID string) NodeKey {
	return NodeKey{Kind: RideNode, Platform: platformID, Line: lineID}
}

func (k NodeKey) String() string {
	switch k.Kind {
	case RideNode:
		return fmt.Sprintf("ride(%s@%s)", k.Platform, k.Line)
	case ArriveNode:
		return fmt.Sprintf("arrive(%s)", k.Platform)
	}
	return fmt.Sprintf("depart(%s)", k.Platform)
}

// EdgeKind is the movement an edge represents.
type EdgeKind string

const (
	EdgeRide   EdgeKind = "ride"
	EdgeBoard  EdgeKind = "board"
	EdgeAlight EdgeKind = "alight"
	EdgeWalk   EdgeKind = "walk"
	EdgeSwitch EdgeKind = "switch"
)

// Edge is a directed, weighted graph edge.
type Edge struct {
	From NodeKey
	To   NodeKey
	Kind EdgeKind

	Distance    float64
	Time        float64 // effective seconds, used for optimisation
	RealTime    float64 // reported seconds
	TransferInc int

	Transfer TransferType
	Hidden   bool

	// ride edges
	Line     string
	Geometry []geometry.Point

	// walk/switch edges: where the transfer happens
	FromStation string
	ToStation   string
}

// Graph is the routing graph of one world. It is read-only after Build and
// safe for concurrent queries.
type Graph struct {
	Dataset     *records.Dataset
	Index       *StationIndex
	Occurrences map[string][]Occurrence
	Tunables    Tunables

	adj         map[NodeKey][]Edge
	occByNode   map[NodeKey]Occurrence
	platformSet map[string]struct{}
	edgeCount   int
}

func newGraph(ds *records.Dataset, idx *StationIndex, occ map[string][]Occurrence, t Tunables) *Graph {
	return &Graph{
		Dataset:     ds,
		Index:       idx,
		Occurrences: occ,
		Tunables:    t,
		adj:         map[NodeKey][]Edge{},
		occByNode:   map[NodeKey]Occurrence{},
		platformSet: map[string]struct{}{},
	}
}

func (g *Graph) addEdge(e Edge) {
	g.adj[e.From] = append(g.adj[e.From], e)
	g.edgeCount++
}

// Outgoing returns the edges leaving k. The slice must not be modified.
func (g *Graph) Outgoing(k NodeKey) []Edge { return g.adj[k] }

// Edges calls fn for every edge in the graph.
func (g *Graph) Edges(fn func(Edge)) {
	for _, es := range g.adj {
		for _, e := range es {
			fn(e)
		}
	}
}

// EdgeCount is the number of edges.
func (g *Graph) EdgeCount() int { return g.edgeCount }

// Occurrence returns the occurrence behind a ride node.
func (g *Graph) Occurrence(k NodeKey) (Occurrence, bool) {
	o, ok := g.occByNode[k]
	return o, ok
}

// HasPlatformNode reports whether a passenger platform node exists.
func (g *Graph) HasPlatformNode(platformID string) bool {
	_, ok := g.platformSet[platformID]
	return ok
}

// PlatformNodeCount is the number of passenger platforms, each of which has
// a departure and an arrival node.
func (g *Graph) PlatformNodeCount() int { return len(g.platformSet) }

// RideNodeCount is the number of ride nodes.
func (g *Graph) RideNodeCount() int { return len(g.occByNode) }

// BuildingPlatforms returns the passenger platform nodes of a building.
func (g *Graph) BuildingPlatforms(buildingID string) []string {
	return g.Index.BuildingPlatforms(g.Dataset, buildingID)
}

// StationName resolves the display name of the station owning a platform,
// falling back to the platform name or id.
func (g *Graph) StationName(platformID string) string {
	if sid, ok := g.Index.StationOfPlatform(platformID); ok {
		if st := g.Dataset.Stations[sid]; st != nil {
			return st.Name
		}
	}
	if p := g.Dataset.Platforms[platformID]; p != nil && p.Name != "" {
		return p.Name
	}
	return platformID
}

// StationID returns the station owning a platform, or "".
func (g *Graph) StationID(platformID string) string {
	sid, _ := g.Index.StationOfPlatform(platformID)
	return sid
}
