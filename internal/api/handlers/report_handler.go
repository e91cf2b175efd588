package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/alligatorO15/finboard/internal/dashboard"
	"github.com/alligatorO15/finboard/internal/report"
)

type ReportHandler struct {
	dashboard *dashboard.Dashboard
}

func NewReportHandler(d *dashboard.Dashboard) *ReportHandler {
	return &ReportHandler{dashboard: d}
}

func (h *ReportHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, h.dashboard.Statuses())
}

func (h *ReportHandler) Get(c *gin.Context) {
	r, err := h.dashboard.Report(c.Param("name"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, r.Status())
}

// Refresh fetches one report for the selected range. Fetch failures are
// part of the returned state, so the response is 200 either way.
func (h *ReportHandler) Refresh(c *gin.Context) {
	r, err := h.dashboard.Report(c.Param("name"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	q, ok := h.query(c)
	if !ok {
		return
	}

	if err := h.dashboard.Refresh(c.Request.Context(), q, r.Name()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, r.Status())
}

func (h *ReportHandler) RefreshAll(c *gin.Context) {
	q, ok := h.query(c)
	if !ok {
		return
	}

	if err := h.dashboard.Refresh(c.Request.Context(), q); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, h.dashboard.Statuses())
}

func (h *ReportHandler) History(c *gin.Context) {
	limit := 0
	if l := c.Query("limit"); l != "" {
		parsed, err := strconv.Atoi(l)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a non-negative integer"})
			return
		}
		limit = parsed
	}

	snaps, err := h.dashboard.History(c.Request.Context(), c.Param("name"), limit)
	if err != nil {
		switch {
		case errors.Is(err, dashboard.ErrHistoryDisabled), errors.Is(err, dashboard.ErrUnknownReport):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load history"})
		}
		return
	}
	c.JSON(http.StatusOK, snaps)
}

// query builds the fetch query from the selector and the optional
// growthRate and type parameters, answering 400 on bad input.
func (h *ReportHandler) query(c *gin.Context) (report.Query, bool) {
	var rate *decimal.Decimal
	if g := c.Query("growthRate"); g != "" {
		parsed, err := decimal.NewFromString(g)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "growthRate must be a number"})
			return report.Query{}, false
		}
		rate = &parsed
	}

	q := h.dashboard.Query(rate)
	if t := c.Query("type"); t != "" {
		dsoType, err := report.ParseDSOType(t)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return report.Query{}, false
		}
		q.Type = dsoType
	}
	return q, true
}
