package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"carteira/internal/services"
)

// DashboardHandler serves the portfolio overview.
type DashboardHandler struct {
	dashboardService services.DashboardServicer
	now              func() time.Time
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(dashboardService services.DashboardServicer) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService, now: time.Now}
}

// GetDashboard returns the caller's portfolio overview.
// @Summary     Dashboard
// @Description Totals per asset class, recent records and the monthly evolution of the current year
// @Tags        dashboard
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} services.Dashboard "Overview"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /dashboard [get]
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	uc, err := getUserContext(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	dash, err := h.dashboardService.GetDashboard(c.Request.Context(), uc, h.now())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, dash)
}
