package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	railrouter "github.com/theoremus-urban-solutions/rail-router"
	"github.com/theoremus-urban-solutions/rail-router/config"
	"github.com/theoremus-urban-solutions/rail-router/planner"
	"github.com/theoremus-urban-solutions/rail-router/source"
)

func TestParseXZ(t *testing.T) {
	c, err := parseXZ(" 12.5, -3 ")
	require.NoError(t, err)
	assert.Equal(t, planner.Coordinate{X: 12.5, Z: -3}, c)

	for _, bad := range []string{"", "1", "1,2,3", "a,2", "1,b"} {
		_, err := parseXZ(bad)
		assert.Error(t, err, bad)
	}
}

func TestOpenSource(t *testing.T) {
	ctx := context.Background()

	src, closeSrc, err := openSource(ctx, config.SourceConfig{Kind: "file", Path: "worlds"})
	require.NoError(t, err)
	assert.Equal(t, "file:worlds", src.Identity())
	assert.NoError(t, closeSrc())

	src, _, err = openSource(ctx, config.SourceConfig{Kind: "http", URL: "http://maps.local/worlds/"})
	require.NoError(t, err)
	assert.Equal(t, "http:http://maps.local/worlds", src.Identity())

	_, _, err = openSource(ctx, config.SourceConfig{Kind: "http"})
	assert.Error(t, err)

	_, _, err = openSource(ctx, config.SourceConfig{Kind: "ftp"})
	assert.Error(t, err)
}

func TestImportThenRoute(t *testing.T) {
	ctx := context.Background()
	db := filepath.Join(t.TempDir(), "worlds.db")

	n, err := importFile(ctx, db, "demo", filepath.Join("..", "..", "testdata", "worlds", "demo.json"))
	require.NoError(t, err)
	assert.Positive(t, n)

	src, closeSrc, err := openSource(ctx, config.SourceConfig{Kind: "sqlite", Path: db})
	require.NoError(t, err)
	defer func() { _ = closeSrc() }()
	assert.Equal(t, "sqlite:"+db, src.Identity())

	svc := railrouter.NewService(railrouter.NewRepository(src, railrouter.RepositoryOptions{}), planner.ModeTime, nil)
	res, err := oneshot(ctx, svc, "demo", "bA", "bC", "", "", "distance")
	require.NoError(t, err)
	require.True(t, res.OK, res.Reason)
	assert.InDelta(t, 1000, res.TotalDistance, 1e-9)

	res, err = oneshot(ctx, svc, "demo", "", "", "0,0", "200,0", "")
	require.NoError(t, err)
	assert.True(t, res.OK, res.Reason)
	assert.Equal(t, "bB", res.EndBuildingID)

	_, err = oneshot(ctx, svc, "demo", "bA", "", "", "", "")
	assert.Error(t, err)
	_, err = oneshot(ctx, svc, "demo", "bA", "bC", "", "", "warp")
	assert.Error(t, err)

	_, err = importFile(ctx, db, "demo", "records.txt")
	assert.Error(t, err)
}

func TestExportThenImport(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	src := source.NewFileSource(filepath.Join("..", "..", "testdata", "worlds"))

	pb := filepath.Join(dir, "demo.pb")
	n, err := exportFile(ctx, src, "demo", pb)
	require.NoError(t, err)
	assert.Positive(t, n)

	db := filepath.Join(dir, "worlds.db")
	imported, err := importFile(ctx, db, "copy", pb)
	require.NoError(t, err)
	assert.Equal(t, n, imported)

	_, err = exportFile(ctx, src, "demo", filepath.Join(dir, "demo.csv"))
	assert.Error(t, err)
	_, err = exportFile(ctx, src, "missing", filepath.Join(dir, "missing.json"))
	assert.ErrorIs(t, err, source.ErrWorldNotFound)
}

func TestOpenWorldSources(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	db := filepath.Join(dir, "legacy.db")
	_, err := importFile(ctx, db, "legacy", filepath.Join("..", "..", "testdata", "worlds", "demo.json"))
	require.NoError(t, err)

	cfg := config.AppConfig{
		Source: config.SourceConfig{Kind: "file", Path: filepath.Join("..", "..", "testdata", "worlds")},
		Worlds: []config.World{
			{ID: "demo"},
			{ID: "legacy", Source: &config.SourceConfig{Kind: "sqlite", Path: db}},
		},
	}
	src, closeSrc, err := openWorldSources(ctx, cfg)
	require.NoError(t, err)
	defer func() { _ = closeSrc() }()

	svc := newService(cfg, src, nil)
	for _, world := range []string{"demo", "legacy"} {
		res, err := oneshot(ctx, svc, world, "bA", "bC", "", "", "distance")
		require.NoError(t, err)
		assert.True(t, res.OK, "%s: %s", world, res.Reason)
	}

	worlds, err := svc.Worlds(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"demo", "legacy"}, worlds)

	cfg.Worlds = append(cfg.Worlds, config.World{ID: "broken", Source: &config.SourceConfig{Kind: "ftp"}})
	_, closeBroken, err := openWorldSources(ctx, cfg)
	assert.Error(t, err)
	assert.NoError(t, closeBroken())
}

var _ source.Source = (*source.SQLiteSource)(nil)
