package railrouter

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/theoremus-urban-solutions/rail-router/internal"
	"github.com/theoremus-urban-solutions/rail-router/planner"
)

// Service answers route queries for any world known to its repository.
type Service struct {
	repo        *Repository
	defaultMode planner.Mode
	log         *zap.Logger
}

func NewService(repo *Repository, defaultMode planner.Mode, logger *zap.Logger) *Service {
	if defaultMode == "" {
		defaultMode = planner.ModeTime
	}
	return &Service{repo: repo, defaultMode: defaultMode, log: internal.OrNop(logger)}
}

// Repository returns the underlying graph repository.
func (s *Service) Repository() *Repository { return s.repo }

// Route plans a building-to-building journey. Load failures are reported as
// a not-ok Result with code load_failed.
func (s *Service) Route(ctx context.Context, q planner.Query) planner.Result {
	if q.Mode == "" {
		q.Mode = s.defaultMode
	}
	if q.WorldID == "" {
		return planner.Failure(planner.CodeInvalidQuery, "worldId is required")
	}
	if err := planner.Validate(q); err != nil {
		return planner.Failure(planner.CodeInvalidQuery, err.Error())
	}

	h, err := s.repo.Load(ctx, q.WorldID)
	if err != nil {
		s.log.Error("world load failed", zap.String("world", q.WorldID), zap.Error(err))
		return s.loadFailed(q.WorldID, err)
	}

	start := time.Now()
	res := planner.PlanBuildings(h.Graph, q)
	s.logResult(res, time.Since(start))
	return res
}

// RouteCoordinates plans a journey between the buildings nearest to two
// coordinates.
func (s *Service) RouteCoordinates(ctx context.Context, cq planner.CoordinateQuery) planner.Result {
	if cq.Mode == "" {
		cq.Mode = s.defaultMode
	}
	if cq.WorldID == "" {
		return planner.Failure(planner.CodeInvalidQuery, "worldId is required")
	}
	if err := planner.Validate(cq); err != nil {
		return planner.Failure(planner.CodeInvalidQuery, err.Error())
	}

	h, err := s.repo.Load(ctx, cq.WorldID)
	if err != nil {
		s.log.Error("world load failed", zap.String("world", cq.WorldID), zap.Error(err))
		return s.loadFailed(cq.WorldID, err)
	}

	start := time.Now()
	res := planner.PlanCoordinates(h.Graph, cq)
	s.logResult(res, time.Since(start))
	return res
}

// Worlds lists the worlds this service can route in.
func (s *Service) Worlds(ctx context.Context) ([]string, error) {
	return s.repo.Worlds(ctx)
}

// Invalidate drops the cached graph of a world.
func (s *Service) Invalidate(worldID string) bool {
	return s.repo.Invalidate(worldID)
}

func (s *Service) loadFailed(worldID string, err error) planner.Result {
	res := planner.Failure(planner.CodeLoadFailed, err.Error())
	res.WorldID = worldID
	return res
}

func (s *Service) logResult(res planner.Result, took time.Duration) {
	if !res.OK {
		s.log.Info("route not found",
			zap.String("world", res.WorldID),
			zap.String("code", res.Code),
			zap.String("reason", res.Reason),
		)
		return
	}
	s.log.Debug("route planned",
		zap.String("world", res.WorldID),
		zap.String("from", res.StartBuildingID),
		zap.String("to", res.EndBuildingID),
		zap.String("mode", string(res.Mode)),
		zap.Float64("distance", res.TotalDistance),
		zap.Float64("seconds", res.TotalTimeSeconds),
		zap.Int("transfers", res.TransferCount),
		zap.Duration("took", took),
	)
}
