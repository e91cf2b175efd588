package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/alligatorO15/finboard/internal/dashboard"
)

type StatsHandler struct {
	dashboard *dashboard.Dashboard
}

func NewStatsHandler(d *dashboard.Dashboard) *StatsHandler {
	return &StatsHandler{dashboard: d}
}

func (h *StatsHandler) Get(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"range": h.dashboard.Selector().Snapshot(),
		"tiles": h.dashboard.Tiles(),
	})
}
