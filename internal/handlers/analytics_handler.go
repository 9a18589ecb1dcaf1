package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fintrack/internal/analytics"
	"fintrack/internal/services"
)

// AnalyticsHandler serves chart datasets and the dashboard.
type AnalyticsHandler struct {
	analyticsService services.AnalyticsServicer
	dashboardService services.DashboardServicer
}

// NewAnalyticsHandler creates a new AnalyticsHandler.
func NewAnalyticsHandler(analyticsService services.AnalyticsServicer, dashboardService services.DashboardServicer) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService, dashboardService: dashboardService}
}

// RangeQuery selects the reporting window.
type RangeQuery struct {
	Range string `form:"range" binding:"time_range"`
}

func bindRange(c *gin.Context) (analytics.Range, error) {
	var q RangeQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		return "", bindError(err)
	}
	return analytics.ParseRange(q.Range)
}

// CategoryBreakdown handles the expense-by-category report.
// @Summary     Expenses by category
// @Description Expense totals per category within the range, largest first
// @Tags        analytics
// @Produce     json
// @Param       range query string false "thisWeek, thisMonth (default), last3Months or thisYear"
// @Success     200 {object} services.BreakdownReport "Category breakdown"
// @Failure     400 {object} ErrorResponse "Unsupported range"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /analytics/categories [get]
func (h *AnalyticsHandler) CategoryBreakdown(c *gin.Context) {
	r, err := bindRange(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	report, err := h.analyticsService.CategoryBreakdown(c.Request.Context(), r)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// DailySeries handles the daily expense time series.
// @Summary     Daily expenses
// @Description Expense totals per calendar day within the range, oldest first
// @Tags        analytics
// @Produce     json
// @Param       range query string false "thisWeek, thisMonth (default), last3Months or thisYear"
// @Success     200 {object} services.SeriesReport "Daily series"
// @Failure     400 {object} ErrorResponse "Unsupported range"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /analytics/daily [get]
func (h *AnalyticsHandler) DailySeries(c *gin.Context) {
	r, err := bindRange(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	report, err := h.analyticsService.DailySeries(c.Request.Context(), r)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// GetDashboard handles the landing-page overview.
// @Summary     Dashboard
// @Description Month summary, recent transactions, budget and goal progress
// @Tags        dashboard
// @Produce     json
// @Success     200 {object} services.Dashboard "Dashboard"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /dashboard [get]
func (h *AnalyticsHandler) GetDashboard(c *gin.Context) {
	dashboard, err := h.dashboardService.GetDashboard(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, dashboard)
}
