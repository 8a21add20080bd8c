package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tippliga/internal/models"
	"tippliga/internal/repository"
	"tippliga/internal/settlement"
)

// SettlementHandler exposes the inbound trigger plus the run audit trail.
// The trigger is delivered at least once by the scheduling collaborator;
// redelivery is safe because the coordinator no-ops on already-scored
// fixtures.
type SettlementHandler struct {
	Coordinator *settlement.Coordinator
	Repo        repository.Repository
	Logger      *zap.Logger
}

func (h *SettlementHandler) Register(r *gin.Engine) {
	group := r.Group("/api/v1/settlements")
	group.POST("", h.trigger)
	group.GET("", h.list)
}

type triggerRequest struct {
	FixtureID string `json:"fixture_id"`
	HomeScore int    `json:"home_score"`
	AwayScore int    `json:"away_score"`
	Status    string `json:"status"`
}

func (h *SettlementHandler) trigger(c *gin.Context) {
	if h.Coordinator == nil {
		Error(c, http.StatusInternalServerError, "coordinator unavailable", nil)
		return
	}
	var req triggerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid body", nil)
		return
	}
	req.FixtureID = strings.TrimSpace(req.FixtureID)
	req.Status = strings.ToLower(strings.TrimSpace(req.Status))
	if req.Status == "" {
		req.Status = models.FixtureStatusFinished
	}

	result, err := h.Coordinator.Settle(c.Request.Context(), settlement.Trigger{
		FixtureID: req.FixtureID,
		HomeScore: req.HomeScore,
		AwayScore: req.AwayScore,
		Status:    req.Status,
	})
	switch {
	case errors.Is(err, settlement.ErrInvalidTrigger):
		Error(c, http.StatusBadRequest, err.Error(), nil)
		return
	case errors.Is(err, settlement.ErrFixtureNotFound):
		Error(c, http.StatusNotFound, err.Error(), nil)
		return
	case err != nil:
		if h.Logger != nil {
			h.Logger.Error("settlement failed",
				zap.String("fixture_id", req.FixtureID), zap.Error(err))
		}
		Error(c, http.StatusInternalServerError, "settlement failed", nil)
		return
	}

	Ok(c, gin.H{
		"run_id":             result.RunID,
		"fixture_id":         result.FixtureID,
		"status":             result.Status,
		"predictions_scored": result.PredictionsScored,
		"streaks_updated":    result.StreaksUpdated,
		"upset":              result.Upset,
	}, nil)
}

func (h *SettlementHandler) list(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "repo unavailable", nil)
		return
	}
	params := repository.ListSettlementRunsParams{
		Limit:  queryInt(c, "limit", 100),
		Offset: queryInt(c, "offset", 0),
	}
	if v := strings.TrimSpace(c.Query("fixture_id")); v != "" {
		params.FixtureID = strPtr(v)
	}
	if v := strings.TrimSpace(c.Query("status")); v != "" {
		params.Status = strPtr(v)
	}
	items, err := h.Repo.ListSettlementRuns(c.Request.Context(), params)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, items, map[string]any{"count": len(items)})
}
