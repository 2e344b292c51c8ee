package handlers

import (
	"net/http"
	"time"

	portssvc "github.com/SscSPs/mma_fx/internal/core/ports/services"
	"github.com/SscSPs/mma_fx/internal/dto"
	"github.com/gin-gonic/gin"
)

// analyticsHandler serves read-only conversion reports.
type analyticsHandler struct {
	analyticsService portssvc.AnalyticsSvc
	now              func() time.Time
}

func newAnalyticsHandler(as portssvc.AnalyticsSvc) *analyticsHandler {
	return &analyticsHandler{analyticsService: as, now: time.Now}
}

// registerAnalyticsRoutes registers the per-user analytics routes.
func registerAnalyticsRoutes(users *gin.RouterGroup, as portssvc.AnalyticsSvc) {
	h := newAnalyticsHandler(as)

	analytics := users.Group("/analytics")
	{
		analytics.GET("/history", h.history)
		analytics.GET("/pairs", h.pairs)
		analytics.GET("/timeseries", h.timeSeries)
		analytics.GET("/stats", h.stats)
		analytics.GET("/trends", h.trends)
		analytics.GET("/exposure", h.exposure)
		analytics.GET("/efficiency", h.efficiency)
	}
}

// history godoc
// @Summary Conversion history, newest first
// @Tags analytics
// @Produce  json
// @Param   userID path string true "User ID"
// @Success 200 {array} domain.ConversionHistoryEntry
// @Router /users/{userID}/analytics/history [get]
func (h *analyticsHandler) history(c *gin.Context) {
	history, err := h.analyticsService.History(c.Request.Context(), c.Param("userID"))
	if err != nil {
		respondError(c, err, "Failed to load conversion history")
		return
	}
	c.JSON(http.StatusOK, history)
}

// pairs godoc
// @Summary Distinct currency pairs with counts
// @Tags analytics
// @Produce  json
// @Param   userID path string true "User ID"
// @Success 200 {array} domain.CurrencyPair
// @Router /users/{userID}/analytics/pairs [get]
func (h *analyticsHandler) pairs(c *gin.Context) {
	pairs, err := h.analyticsService.CurrencyPairs(c.Request.Context(), c.Param("userID"))
	if err != nil {
		respondError(c, err, "Failed to load currency pairs")
		return
	}
	c.JSON(http.StatusOK, pairs)
}

// timeSeries godoc
// @Summary Daily average rate of one pair
// @Tags analytics
// @Produce  json
// @Param   userID path string true "User ID"
// @Param   from query string true "Source currency"
// @Param   to query string true "Target currency"
// @Param   days query int false "Number of days" default(30)
// @Success 200 {array} domain.RatePoint
// @Router /users/{userID}/analytics/timeseries [get]
func (h *analyticsHandler) timeSeries(c *gin.Context) {
	var q dto.TimeSeriesQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondBindError(c, err)
		return
	}
	points, err := h.analyticsService.RateTimeSeries(c.Request.Context(), c.Param("userID"), q.From, q.To, q.Days)
	if err != nil {
		respondError(c, err, "Failed to load rate time series")
		return
	}
	c.JSON(http.StatusOK, points)
}

// stats godoc
// @Summary Aggregate conversion statistics
// @Tags analytics
// @Produce  json
// @Param   userID path string true "User ID"
// @Success 200 {object} domain.ConversionStats
// @Router /users/{userID}/analytics/stats [get]
func (h *analyticsHandler) stats(c *gin.Context) {
	stats, err := h.analyticsService.Stats(c.Request.Context(), c.Param("userID"))
	if err != nil {
		respondError(c, err, "Failed to compute conversion stats")
		return
	}
	c.JSON(http.StatusOK, stats)
}

// trends godoc
// @Summary Daily conversion activity over a trailing window
// @Tags analytics
// @Produce  json
// @Param   userID path string true "User ID"
// @Param   days query int false "Number of days" default(7)
// @Success 200 {array} domain.TrendPoint
// @Router /users/{userID}/analytics/trends [get]
func (h *analyticsHandler) trends(c *gin.Context) {
	var q dto.TrendsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondBindError(c, err)
		return
	}
	points, err := h.analyticsService.Trends(c.Request.Context(), c.Param("userID"), h.now(), q.Days)
	if err != nil {
		respondError(c, err, "Failed to compute trends")
		return
	}
	c.JSON(http.StatusOK, points)
}

// exposure godoc
// @Summary Net position per original currency
// @Tags analytics
// @Produce  json
// @Param   userID path string true "User ID"
// @Success 200 {object} map[string]string
// @Router /users/{userID}/analytics/exposure [get]
func (h *analyticsHandler) exposure(c *gin.Context) {
	exposure, err := h.analyticsService.Exposure(c.Request.Context(), c.Param("userID"))
	if err != nil {
		respondError(c, err, "Failed to compute currency exposure")
		return
	}
	c.JSON(http.StatusOK, exposure)
}

// efficiency godoc
// @Summary Heuristic comparison of realised rates with the best observed rate
// @Tags analytics
// @Produce  json
// @Param   userID path string true "User ID"
// @Success 200 {object} domain.ConversionEfficiency
// @Router /users/{userID}/analytics/efficiency [get]
func (h *analyticsHandler) efficiency(c *gin.Context) {
	eff, err := h.analyticsService.Efficiency(c.Request.Context(), c.Param("userID"))
	if err != nil {
		respondError(c, err, "Failed to compute conversion efficiency")
		return
	}
	c.JSON(http.StatusOK, eff)
}
