package network

import (
	"sort"

	"github.com/theoremus-urban-solutions/rail-router/geometry"
	"github.com/theoremus-urban-solutions/rail-router/records"
)

// Occurrence is one platform position along a line.
type Occurrence struct {
	PlatformID  string
	LineID      string
	Mileage     float64
	Junction    bool
	StopAllowed bool
	Membership  records.LineMembership
}

// Node reports whether the occurrence gets a ride node (stop or junction).
func (o Occurrence) Node() bool { return o.StopAllowed || o.Junction }

// BuildOccupancy orders every platform occurrence of every line by mileage
// and decides whether the train stops there. The result maps line id to its
// occurrences, sorted ascending by mileage.
func BuildOccupancy(ds *records.Dataset) map[string][]Occurrence {
	byLine := map[string][]Occurrence{}
	for _, pid := range records.SortedIDs(ds.Platforms) {
		p := ds.Platforms[pid]
		if !p.Active {
			continue
		}
		for _, m := range p.Lines {
			if !m.Available {
				continue
			}
			line := ds.Lines[m.LineID]
			if line == nil {
				continue
			}
			byLine[line.ID] = append(byLine[line.ID], Occurrence{
				PlatformID: p.ID,
				LineID:     line.ID,
				Mileage:    occurrenceMileage(line, p, m),
				Junction:   p.Junction,
				Membership: m,
			})
		}
	}

	for lineID, occs := range byLine {
		byLine[lineID] = sweepOccurrences(occs)
	}
	return byLine
}

// occurrenceMileage prefers the explicit hint, clamped to the line, and
// otherwise projects the platform onto the polyline.
func occurrenceMileage(line *records.Line, p *records.Platform, m records.LineMembership) float64 {
	total := line.Length()
	if m.HasMileage {
		v := m.Mileage
		if v < 0 {
			v = 0
		}
		if v > total {
			v = total
		}
		return v
	}
	return geometry.ProjectMileage(line.Points, line.CumLength, p.Coord.Planar())
}

// sweepOccurrences sorts by mileage, evaluates stop permission in one pass
// and drops repeated (platform, line) pairs. A NextOT flag on an occurrence
// forces the following one to pass through.
func sweepOccurrences(occs []Occurrence) []Occurrence {
	sort.SliceStable(occs, func(i, j int) bool {
		if occs[i].Mileage != occs[j].Mileage {
			return occs[i].Mileage < occs[j].Mileage
		}
		return occs[i].PlatformID < occs[j].PlatformID
	})

	out := make([]Occurrence, 0, len(occs))
	seen := map[string]struct{}{}
	forcedPass := false
	for _, o := range occs {
		if _, dup := seen[o.PlatformID]; dup {
			continue
		}
		seen[o.PlatformID] = struct{}{}
		o.StopAllowed = !o.Junction && !forcedPass && !o.Membership.Overtaking
		forcedPass = o.Membership.ForcedPassNext
		out = append(out, o)
	}
	return out
}
