// Package planner answers route queries against a network.Graph.
//
// PlanBuildings and PlanCoordinates are the entry points. They validate the
// query, resolve the endpoints to passenger platform nodes, run a
// multi-source Dijkstra (Solve) and fold the winning edge list into rail and
// transfer segments (Reconstruct). Failures come back as a Result with
// OK=false and one of the Code* values.
package planner
