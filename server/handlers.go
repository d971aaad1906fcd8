package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/theoremus-urban-solutions/rail-router/planner"
	"github.com/theoremus-urban-solutions/rail-router/source"
)

type healthResponse struct {
	Status       string `json:"status"`
	CachedWorlds int    `json:"cachedWorlds"`
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, healthResponse{
		Status:       "ok",
		CachedWorlds: s.svc.Repository().Cached(),
	})
}

type worldsResponse struct {
	Worlds []string `json:"worlds"`
}

func (s *Server) handleWorlds(c *gin.Context) {
	ids, err := s.svc.Worlds(c.Request.Context())
	switch {
	case errors.Is(err, source.ErrNotListable):
		c.JSON(http.StatusNotImplemented, gin.H{"error": err.Error()})
	case err != nil:
		s.log.Error("failed to list worlds", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	default:
		if ids == nil {
			ids = []string{}
		}
		c.JSON(http.StatusOK, worldsResponse{Worlds: ids})
	}
}

func (s *Server) handleWorldRoute(c *gin.Context) {
	mode, err := planner.ParseMode(c.Query("mode"))
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	q := planner.Query{
		WorldID:         c.Param("world"),
		StartBuildingID: c.Query("from"),
		EndBuildingID:   c.Query("to"),
		Mode:            mode,
	}
	s.route(c, q)
}

func (s *Server) handleRoute(c *gin.Context) {
	var q planner.Query
	if err := c.ShouldBindJSON(&q); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}
	mode, err := planner.ParseMode(string(q.Mode))
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	q.Mode = mode
	s.route(c, q)
}

func (s *Server) route(c *gin.Context, q planner.Query) {
	if q.WorldID == "" {
		badRequest(c, "worldId is required")
		return
	}
	if err := planner.Validate(q); err != nil {
		badRequest(c, err.Error())
		return
	}
	respond(c, s.svc.Route(c.Request.Context(), q))
}

func (s *Server) handleRouteCoordinates(c *gin.Context) {
	var cq planner.CoordinateQuery
	if err := c.ShouldBindJSON(&cq); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}
	mode, err := planner.ParseMode(string(cq.Mode))
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	cq.Mode = mode
	if cq.WorldID == "" {
		badRequest(c, "worldId is required")
		return
	}
	respond(c, s.svc.RouteCoordinates(c.Request.Context(), cq))
}

func (s *Server) handleInvalidate(c *gin.Context) {
	world := c.Param("world")
	c.JSON(http.StatusOK, gin.H{
		"world":       world,
		"invalidated": s.svc.Invalidate(world),
	})
}

// respond writes engine results. Every result is 200 except invalid
// queries the service rejected itself.
func respond(c *gin.Context, res planner.Result) {
	if !res.OK && res.Code == planner.CodeInvalidQuery {
		c.JSON(http.StatusBadRequest, res)
		return
	}
	c.JSON(http.StatusOK, res)
}

func badRequest(c *gin.Context, reason string) {
	c.JSON(http.StatusBadRequest, planner.Failure(planner.CodeInvalidQuery, reason))
}
