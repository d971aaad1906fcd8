package network

import (
	"sort"

	"github.com/theoremus-urban-solutions/rail-router/records"
)

// StationIndex relates stations, buildings and platforms in both directions.
type StationIndex struct {
	stationToBuildings map[string]map[string]struct{}
	buildingToStations map[string]map[string]struct{}
	platformStation    map[string]string // platform_id -> first owning station_id
}

// BuildStationIndex resolves building membership for every station.
//
// Station-declared building references are registered first; each building's
// declared station group is then merged in as a fallback source. Both
// authoring conventions are honoured and relations are de-duplicated.
// References to unknown ids are ignored.
func BuildStationIndex(ds *records.Dataset) *StationIndex {
	idx := &StationIndex{
		stationToBuildings: map[string]map[string]struct{}{},
		buildingToStations: map[string]map[string]struct{}{},
		platformStation:    map[string]string{},
	}

	for _, sid := range records.SortedIDs(ds.Stations) {
		for _, bid := range ds.Stations[sid].BuildingIDs {
			if _, ok := ds.Buildings[bid]; ok {
				idx.link(sid, bid)
			}
		}
	}

	for _, bid := range records.SortedIDs(ds.Buildings) {
		for _, sid := range ds.Buildings[bid].StationIDs {
			if _, ok := ds.Stations[sid]; ok {
				idx.link(sid, bid)
			}
		}
	}

	for _, sid := range records.SortedIDs(ds.Stations) {
		for _, pid := range ds.Stations[sid].PlatformIDs {
			if _, seen := idx.platformStation[pid]; !seen {
				idx.platformStation[pid] = sid
			}
		}
	}
	return idx
}

func (idx *StationIndex) link(stationID, buildingID string) {
	if idx.stationToBuildings[stationID] == nil {
		idx.stationToBuildings[stationID] = map[string]struct{}{}
	}
	if idx.buildingToStations[buildingID] == nil {
		idx.buildingToStations[buildingID] = map[string]struct{}{}
	}
	idx.stationToBuildings[stationID][buildingID] = struct{}{}
	idx.buildingToStations[buildingID][stationID] = struct{}{}
}

// BuildingsOfStation returns the sorted building ids of a station.
func (idx *StationIndex) BuildingsOfStation(stationID string) []string {
	return sortedSet(idx.stationToBuildings[stationID])
}

// StationsOfBuilding returns the sorted station ids of a building.
func (idx *StationIndex) StationsOfBuilding(buildingID string) []string {
	return sortedSet(idx.buildingToStations[buildingID])
}

// StationOfPlatform returns the station owning a platform, if any.
func (idx *StationIndex) StationOfPlatform(platformID string) (string, bool) {
	sid, ok := idx.platformStation[platformID]
	return sid, ok
}

// BuildingPlatforms returns the sorted passenger platforms reachable from a
// building through its stations.
func (idx *StationIndex) BuildingPlatforms(ds *records.Dataset, buildingID string) []string {
	seen := map[string]struct{}{}
	for _, sid := range idx.StationsOfBuilding(buildingID) {
		st := ds.Stations[sid]
		if st == nil {
			continue
		}
		for _, pid := range st.PlatformIDs {
			if p := ds.Platforms[pid]; p != nil && p.Passenger() {
				seen[pid] = struct{}{}
			}
		}
	}
	return sortedSet(seen)
}

func sortedSet(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
