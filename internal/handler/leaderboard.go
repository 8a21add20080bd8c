package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"tippliga/internal/repository"
)

type LeaderboardHandler struct {
	Repo repository.Repository
}

func (h *LeaderboardHandler) Register(r *gin.Engine) {
	r.GET("/api/v1/leaderboard", h.leaderboard)
	group := r.Group("/api/v1/predictors")
	group.GET("/:id", h.get)
	group.GET("/:id/predictions", h.predictions)
}

func (h *LeaderboardHandler) leaderboard(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "repo unavailable", nil)
		return
	}
	orderBy := strings.TrimSpace(c.Query("order_by"))
	if orderBy == "" {
		orderBy = "total_points"
	}
	items, err := h.Repo.ListPredictors(c.Request.Context(), repository.ListPredictorsParams{
		Limit:   queryInt(c, "limit", 100),
		Offset:  queryInt(c, "offset", 0),
		OrderBy: orderBy,
		Asc:     boolPtr(false),
	})
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, items, map[string]any{"count": len(items)})
}

func (h *LeaderboardHandler) get(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "repo unavailable", nil)
		return
	}
	id := strings.TrimSpace(c.Param("id"))
	predictor, err := h.Repo.GetPredictor(c.Request.Context(), id)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	if predictor == nil {
		Error(c, http.StatusNotFound, "predictor not found", nil)
		return
	}
	Ok(c, predictor, nil)
}

func (h *LeaderboardHandler) predictions(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "repo unavailable", nil)
		return
	}
	id := strings.TrimSpace(c.Param("id"))
	items, err := h.Repo.ListPredictions(c.Request.Context(), repository.ListPredictionsParams{
		Limit:       queryInt(c, "limit", 100),
		Offset:      queryInt(c, "offset", 0),
		PredictorID: strPtr(id),
		OrderBy:     "scored_at",
	})
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, items, map[string]any{"count": len(items)})
}
