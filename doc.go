/*
Package railrouter plans journeys across a virtual world's rail network.

Raw station, platform, line and building records come from a source.Source.
A Repository normalises them, builds a network.Graph per world and caches it.
A Service answers route queries against cached graphs.

# Basic Usage

	src := source.NewFileSource("./worlds")
	repo := railrouter.NewRepository(src, railrouter.RepositoryOptions{CacheSize: 8})
	svc := railrouter.NewService(repo, planner.ModeTime, logger)

	res := svc.Route(ctx, planner.Query{
		WorldID:         "main",
		StartBuildingID: "b-central",
		EndBuildingID:   "b-harbour",
	})
	if !res.OK {
		log.Printf("no route: %s (%s)", res.Reason, res.Code)
	}

# Caching

Graphs are cached in an LRU keyed by world id and source identity. Concurrent
loads of one world are coalesced. With a snapshot directory, normalised
datasets are also written to disk as gob files and reused on the next start.
Invalidate drops both.

# Packages

  - geometry: planar distances, projections and polygons
  - records: record normalisation and dataset snapshots
  - network: station index, occupancy and graph construction
  - planner: solver, reconstruction and query entry points
  - source: file, HTTP, SQLite and in-memory record sources
  - config: YAML configuration
  - server: HTTP API
*/
package railrouter
