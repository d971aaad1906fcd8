package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	railrouter "github.com/theoremus-urban-solutions/rail-router"
	"github.com/theoremus-urban-solutions/rail-router/config"
	"github.com/theoremus-urban-solutions/rail-router/internal"
	"github.com/theoremus-urban-solutions/rail-router/planner"
	"github.com/theoremus-urban-solutions/rail-router/server"
	"github.com/theoremus-urban-solutions/rail-router/source"
)

func main() {
	mode := flag.String("mode", "oneshot", "oneshot|serve|import|export")
	configPath := flag.String("config", "", "config file (default: search config.yml)")
	worldName := flag.String("world", "", "world id or name from config.worlds[]")
	from := flag.String("from", "", "start building id")
	to := flag.String("to", "", "end building id")
	by := flag.String("by", "", "time|transfers|distance (default from config)")
	fromXZ := flag.String("fromXZ", "", "start coordinate x,z (instead of -from)")
	toXZ := flag.String("toXZ", "", "end coordinate x,z (instead of -to)")
	file := flag.String("file", "", "record file to read (import) or write (export)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fail(err)
	}
	if *mode != "serve" {
		// keep stdout for results
		cfg.Logging.Output = "stderr"
	}
	logger, err := internal.NewLogger(cfg.Logging)
	if err != nil {
		fail(err)
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()
	world, srcCfg := cfg.SelectWorld(*worldName)

	switch *mode {
	case "oneshot":
		if world.ID == "" {
			fail(fmt.Errorf("no world selected; pass -world or configure worlds[]"))
		}
		src, closeSrc, err := openSource(ctx, srcCfg)
		if err != nil {
			fail(err)
		}
		defer func() { _ = closeSrc() }()

		res, err := oneshot(ctx, newService(cfg, src, logger), world.ID, *from, *to, *fromXZ, *toXZ, *by)
		if err != nil {
			fail(err)
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(res)
		if !res.OK {
			os.Exit(2)
		}

	case "serve":
		src, closeSrc, err := openWorldSources(ctx, cfg)
		if err != nil {
			fail(err)
		}
		defer func() { _ = closeSrc() }()

		srv := server.New(cfg.Server, newService(cfg, src, logger), logger)
		srv.Start()
		srv.HandleGracefulShutdown(ctx)

	case "import":
		if world.ID == "" || *file == "" {
			fail(fmt.Errorf("import needs -world and -file"))
		}
		if srcCfg.Kind != "sqlite" {
			fail(fmt.Errorf("import needs a sqlite source, configured kind is %q", srcCfg.Kind))
		}
		n, err := importFile(ctx, srcCfg.Path, world.ID, *file)
		if err != nil {
			fail(err)
		}
		logger.Info("records imported", zap.String("world", world.ID), zap.String("db", srcCfg.Path), zap.Int("count", n))

	case "export":
		if world.ID == "" || *file == "" {
			fail(fmt.Errorf("export needs -world and -file"))
		}
		src, closeSrc, err := openSource(ctx, srcCfg)
		if err != nil {
			fail(err)
		}
		defer func() { _ = closeSrc() }()

		n, err := exportFile(ctx, src, world.ID, *file)
		if err != nil {
			fail(err)
		}
		logger.Info("records exported", zap.String("world", world.ID), zap.String("source", src.Identity()), zap.String("file", *file), zap.Int("count", n))

	default:
		fail(fmt.Errorf("unknown mode %q", *mode))
	}
}

func newService(cfg config.AppConfig, src source.Source, logger *zap.Logger) *railrouter.Service {
	repo := railrouter.NewRepository(src, railrouter.RepositoryOptions{
		CacheSize:   cfg.Cache.Size,
		TTL:         time.Duration(cfg.Cache.TTLMinutes) * time.Minute,
		SnapshotDir: cfg.Cache.SnapshotDir,
		Tunables:    cfg.Routing.Tunables(),
		Logger:      logger,
	})
	return railrouter.NewService(repo, planner.Mode(cfg.Routing.DefaultMode), logger)
}

func oneshot(ctx context.Context, svc *railrouter.Service, worldID, from, to, fromXZ, toXZ, by string) (planner.Result, error) {
	var mode planner.Mode
	if by != "" {
		m, err := planner.ParseMode(by)
		if err != nil {
			return planner.Result{}, err
		}
		mode = m
	}

	if fromXZ != "" || toXZ != "" {
		start, err := parseXZ(fromXZ)
		if err != nil {
			return planner.Result{}, err
		}
		end, err := parseXZ(toXZ)
		if err != nil {
			return planner.Result{}, err
		}
		return svc.RouteCoordinates(ctx, planner.CoordinateQuery{WorldID: worldID, Start: start, End: end, Mode: mode}), nil
	}

	if from == "" || to == "" {
		return planner.Result{}, fmt.Errorf("pass -from and -to, or -fromXZ and -toXZ")
	}
	return svc.Route(ctx, planner.Query{WorldID: worldID, StartBuildingID: from, EndBuildingID: to, Mode: mode}), nil
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, "railroute:", err)
	os.Exit(1)
}
