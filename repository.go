package railrouter

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bluele/gcache"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/theoremus-urban-solutions/rail-router/internal"
	"github.com/theoremus-urban-solutions/rail-router/network"
	"github.com/theoremus-urban-solutions/rail-router/records"
	"github.com/theoremus-urban-solutions/rail-router/source"
)

const defaultCacheSize = 16

// GraphHandle is a built, read-only graph of one world.
type GraphHandle struct {
	WorldID      string
	Identity     string
	Graph        *network.Graph
	Stats        records.Stats
	LoadedAt     time.Time
	FromSnapshot bool
}

// RepositoryOptions configures a Repository.
type RepositoryOptions struct {
	CacheSize   int
	TTL         time.Duration
	SnapshotDir string
	Tunables    network.Tunables
	Logger      *zap.Logger
}

// Repository loads, builds and caches world graphs. Concurrent loads of the
// same world share one build.
type Repository struct {
	src   source.Source
	opts  RepositoryOptions
	cache gcache.Cache
	group singleflight.Group
	log   *zap.Logger
}

func NewRepository(src source.Source, opts RepositoryOptions) *Repository {
	size := opts.CacheSize
	if size <= 0 {
		size = defaultCacheSize
	}
	b := gcache.New(size).LRU()
	if opts.TTL > 0 {
		b = b.Expiration(opts.TTL)
	}
	opts.Tunables = opts.Tunables.WithDefaults()
	return &Repository{
		src:   src,
		opts:  opts,
		cache: b.Build(),
		log:   internal.OrNop(opts.Logger),
	}
}

func (r *Repository) key(worldID string) string {
	return worldID + "@" + r.src.Identity()
}

// Load returns the graph of a world, building it on a cache miss.
func (r *Repository) Load(ctx context.Context, worldID string) (*GraphHandle, error) {
	if worldID == "" {
		return nil, errors.New("world id is required")
	}
	key := r.key(worldID)
	if v, err := r.cache.Get(key); err == nil {
		return v.(*GraphHandle), nil
	}

	v, err, shared := r.group.Do(key, func() (any, error) {
		if v, err := r.cache.Get(key); err == nil {
			return v, nil
		}
		h, err := r.build(ctx, worldID)
		if err != nil {
			return nil, err
		}
		if err := r.cache.Set(key, h); err != nil {
			r.log.Warn("failed to cache graph", zap.String("world", worldID), zap.Error(err))
		}
		return h, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		r.log.Debug("graph load shared", zap.String("world", worldID))
	}
	return v.(*GraphHandle), nil
}

func (r *Repository) build(ctx context.Context, worldID string) (*GraphHandle, error) {
	start := time.Now()
	ds, stats, fromSnapshot, err := r.dataset(ctx, worldID)
	if err != nil {
		return nil, err
	}
	g := network.Build(ds, r.opts.Tunables)

	r.log.Info("graph built",
		zap.String("world", worldID),
		zap.Bool("snapshot", fromSnapshot),
		zap.Int("stations", len(ds.Stations)),
		zap.Int("platforms", len(ds.Platforms)),
		zap.Int("lines", len(ds.Lines)),
		zap.Int("buildings", len(ds.Buildings)),
		zap.Int("platformNodes", g.PlatformNodeCount()),
		zap.Int("rideNodes", g.RideNodeCount()),
		zap.Int("edges", g.EdgeCount()),
		zap.Duration("took", time.Since(start)),
	)
	if n := skippedTotal(stats); n > 0 {
		r.log.Warn("records skipped", zap.String("world", worldID), zap.Int("count", n), zap.Any("reasons", stats.Skipped))
	}

	return &GraphHandle{
		WorldID:      worldID,
		Identity:     r.src.Identity(),
		Graph:        g,
		Stats:        stats,
		LoadedAt:     time.Now(),
		FromSnapshot: fromSnapshot,
	}, nil
}

// dataset reads the snapshot when present, otherwise fetches and normalises
// records and writes a fresh snapshot.
func (r *Repository) dataset(ctx context.Context, worldID string) (*records.Dataset, records.Stats, bool, error) {
	path := r.snapshotPath(worldID)
	if path != "" {
		ds, err := records.DeserializeDatasetFromFile(path)
		switch {
		case err == nil:
			return ds, records.Stats{Accepted: map[records.Class]int{}, Skipped: map[string]int{}}, true, nil
		case !errors.Is(err, fs.ErrNotExist):
			r.log.Warn("ignoring unreadable snapshot", zap.String("path", path), zap.Error(err))
		}
	}

	raw, err := r.src.Fetch(ctx, worldID)
	if err != nil {
		return nil, records.Stats{}, false, fmt.Errorf("failed to load world %s: %w", worldID, err)
	}
	ds, stats := records.Normalize(raw)

	if path != "" {
		if err := records.SerializeDatasetToFile(ds, path); err != nil {
			r.log.Warn("failed to write snapshot", zap.String("path", path), zap.Error(err))
		}
	}
	return ds, stats, false, nil
}

func (r *Repository) snapshotPath(worldID string) string {
	if r.opts.SnapshotDir == "" {
		return ""
	}
	name := strings.NewReplacer("/", "_", `\`, "_", ":", "_", "..", "_").Replace(r.key(worldID))
	return filepath.Join(r.opts.SnapshotDir, name+".gob")
}

// Invalidate drops the cached graph and snapshot of a world. It reports
// whether a cached graph was present.
func (r *Repository) Invalidate(worldID string) bool {
	removed := r.cache.Remove(r.key(worldID))
	if path := r.snapshotPath(worldID); path != "" {
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			r.log.Warn("failed to remove snapshot", zap.String("path", path), zap.Error(err))
		}
	}
	r.log.Info("graph invalidated", zap.String("world", worldID), zap.Bool("cached", removed))
	return removed
}

// Purge drops every cached graph. Snapshots are kept.
func (r *Repository) Purge() {
	r.cache.Purge()
}

// Cached returns the number of graphs currently cached.
func (r *Repository) Cached() int {
	return r.cache.Len(true)
}

// Worlds lists the worlds the source can serve. Sources that cannot
// enumerate return source.ErrNotListable.
func (r *Repository) Worlds(ctx context.Context) ([]string, error) {
	return source.ListWorlds(ctx, r.src)
}

// Tunables are the cost parameters graphs are built with.
func (r *Repository) Tunables() network.Tunables {
	return r.opts.Tunables
}

func skippedTotal(s records.Stats) int {
	n := 0
	for _, c := range s.Skipped {
		n += c
	}
	return n
}
