package source

import (
	"context"
	"fmt"
	"sync"

	"github.com/theoremus-urban-solutions/rail-router/records"
)

// MemorySource serves records held in memory.
type MemorySource struct {
	mu     sync.RWMutex
	worlds map[string][]records.Record
	name   string
}

func NewMemorySource(name string) *MemorySource {
	return &MemorySource{worlds: map[string][]records.Record{}, name: name}
}

func (s *MemorySource) Identity() string { return "memory:" + s.name }

// Set replaces the records of a world.
func (s *MemorySource) Set(worldID string, recs []records.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.worlds[worldID] = recs
}

func (s *MemorySource) Fetch(ctx context.Context, worldID string) ([]records.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	recs, ok := s.worlds[worldID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrWorldNotFound, worldID)
	}
	return recs, nil
}

func (s *MemorySource) Worlds(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.worlds))
	for id := range s.worlds {
		out = append(out, id)
	}
	return out, ctx.Err()
}
