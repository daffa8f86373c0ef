package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apierrors "github.com/aoigj100a/todo-fullstack-sub000/internal/errors"
	"github.com/aoigj100a/todo-fullstack-sub000/internal/services"
)

type StatsHandler struct {
	statsService *services.StatsService
}

func NewStatsHandler(statsService *services.StatsService) *StatsHandler {
	return &StatsHandler{
		statsService: statsService,
	}
}

// Overview returns the aggregate dashboard for a named time range
// (7days, 30days or thisMonth; default 7days).
func (h *StatsHandler) Overview(c *gin.Context) {
	stats, err := h.statsService.Overview(c.Request.Context(), c.Query("timeRange"))
	if err != nil {
		if errors.Is(err, services.ErrInvalidTimeRange) {
			apierrors.BadRequest(c, err.Error())
			return
		}
		apierrors.InternalError(c, err)
		return
	}

	apierrors.OK(c, http.StatusOK, stats)
}

// CompletionTime returns the completion-duration summary and distribution.
func (h *StatsHandler) CompletionTime(c *gin.Context) {
	stats, err := h.statsService.CompletionTime(c.Request.Context())
	if err != nil {
		apierrors.InternalError(c, err)
		return
	}

	apierrors.OK(c, http.StatusOK, stats)
}

// Productivity returns hour-of-day and day-of-week breakdowns plus weekly
// turnover rates.
func (h *StatsHandler) Productivity(c *gin.Context) {
	stats, err := h.statsService.Productivity(c.Request.Context())
	if err != nil {
		apierrors.InternalError(c, err)
		return
	}

	apierrors.OK(c, http.StatusOK, stats)
}

// TimeSeries returns gap-filled created/completed series for an explicit
// dateFrom/dateTo range.
func (h *StatsHandler) TimeSeries(c *gin.Context) {
	stats, err := h.statsService.TimeSeries(c.Request.Context(), c.Query("dateFrom"), c.Query("dateTo"))
	if err != nil {
		if errors.Is(err, services.ErrInvalidDate) {
			apierrors.BadRequest(c, err.Error())
			return
		}
		apierrors.InternalError(c, err)
		return
	}

	apierrors.OK(c, http.StatusOK, stats)
}
