package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"tippliga/internal/repository"
)

type FixtureHandler struct {
	Repo repository.Repository
}

func (h *FixtureHandler) Register(r *gin.Engine) {
	group := r.Group("/api/v1/fixtures")
	group.GET("/:id", h.get)
	group.GET("/:id/predictions", h.predictions)
}

func (h *FixtureHandler) get(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "repo unavailable", nil)
		return
	}
	id := strings.TrimSpace(c.Param("id"))
	fixture, err := h.Repo.GetFixture(c.Request.Context(), id)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	if fixture == nil {
		Error(c, http.StatusNotFound, "fixture not found", nil)
		return
	}
	quota, err := h.Repo.GetFixtureQuota(c.Request.Context(), id)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, gin.H{"fixture": fixture, "quota": quota}, nil)
}

func (h *FixtureHandler) predictions(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "repo unavailable", nil)
		return
	}
	id := strings.TrimSpace(c.Param("id"))
	items, err := h.Repo.ListPredictions(c.Request.Context(), repository.ListPredictionsParams{
		Limit:     queryInt(c, "limit", 200),
		Offset:    queryInt(c, "offset", 0),
		FixtureID: strPtr(id),
		OrderBy:   "total_points",
	})
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, items, map[string]any{"count": len(items)})
}
