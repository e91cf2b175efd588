package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/alligatorO15/finboard/internal/daterange"
)

type RangeHandler struct {
	selector *daterange.Selector
}

func NewRangeHandler(selector *daterange.Selector) *RangeHandler {
	return &RangeHandler{selector: selector}
}

type setRangeRequest struct {
	SelectedRange string `json:"selectedRange" binding:"required"`
	Start         string `json:"start"`
	End           string `json:"end"`
}

func (h *RangeHandler) Get(c *gin.Context) {
	c.JSON(http.StatusOK, h.selector.Snapshot())
}

// Set selects a preset. Bounds are only accepted together with the custom
// preset and are applied in the same step.
func (h *RangeHandler) Set(c *gin.Context) {
	var req setRangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	preset, err := daterange.ParsePreset(req.SelectedRange)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	hasBounds := req.Start != "" || req.End != ""
	switch {
	case hasBounds && preset != daterange.Custom:
		c.JSON(http.StatusBadRequest, gin.H{"error": "start and end require the custom range"})
		return
	case hasBounds:
		start, err := parseDate(req.Start)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start: " + err.Error()})
			return
		}
		end, err := parseDate(req.End)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end: " + err.Error()})
			return
		}
		err = h.selector.SetCustomRange(start, end)
	default:
		err = h.selector.SetRange(preset)
	}
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, daterange.ErrInvalidArgument) {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, h.selector.Snapshot())
}

// parseDate accepts a calendar date in local time or an RFC 3339 timestamp.
func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, errors.New("date is required")
	}
	if t, err := time.ParseInLocation("2006-01-02", s, time.Local); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}
