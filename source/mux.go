package source

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/theoremus-urban-solutions/rail-router/records"
)

// ErrNotListable is returned by ListWorlds for sources that cannot
// enumerate their worlds.
var ErrNotListable = errors.New("source cannot list worlds")

// Lister is implemented by sources that can enumerate their worlds.
type Lister interface {
	Worlds(ctx context.Context) ([]string, error)
}

// ListWorlds returns the sorted world ids of src.
func ListWorlds(ctx context.Context, src Source) ([]string, error) {
	l, ok := src.(Lister)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotListable, src.Identity())
	}
	ids, err := l.Worlds(ctx)
	if err != nil {
		return nil, err
	}
	sort.Strings(ids)
	return ids, nil
}

// Mux sends each world to the source registered for it and every other world
// to a fallback. A nil fallback knows no worlds.
type Mux struct {
	fallback Source
	routes   map[string]Source
}

func NewMux(fallback Source) *Mux {
	return &Mux{fallback: fallback, routes: map[string]Source{}}
}

// Handle routes worldID to src.
func (m *Mux) Handle(worldID string, src Source) {
	m.routes[worldID] = src
}

func (m *Mux) sourceFor(worldID string) Source {
	if src, ok := m.routes[worldID]; ok {
		return src
	}
	return m.fallback
}

// Identity changes whenever any routed source does.
func (m *Mux) Identity() string {
	parts := make([]string, 0, len(m.routes)+1)
	if m.fallback != nil {
		parts = append(parts, m.fallback.Identity())
	}
	ids := make([]string, 0, len(m.routes))
	for id := range m.routes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		parts = append(parts, id+"="+m.routes[id].Identity())
	}
	return "mux:" + strings.Join(parts, ",")
}

func (m *Mux) Fetch(ctx context.Context, worldID string) ([]records.Record, error) {
	src := m.sourceFor(worldID)
	if src == nil {
		return nil, fmt.Errorf("%w: %s", ErrWorldNotFound, worldID)
	}
	return src.Fetch(ctx, worldID)
}

// Worlds lists the routed worlds plus whatever the fallback can list. A
// fallback that cannot list contributes nothing.
func (m *Mux) Worlds(ctx context.Context) ([]string, error) {
	seen := map[string]struct{}{}
	for id := range m.routes {
		seen[id] = struct{}{}
	}
	if m.fallback != nil {
		ids, err := ListWorlds(ctx, m.fallback)
		if err != nil && !errors.Is(err, ErrNotListable) {
			return nil, err
		}
		for _, id := range ids {
			seen[id] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	sort.Strings(out)
	return out, nil
}
