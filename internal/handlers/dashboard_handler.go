package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/swasthsathi/telehealth-service/internal/services"
	"github.com/swasthsathi/telehealth-service/internal/utils"
)

type DashboardHandler struct {
	BaseHandler
	dashboardService services.DashboardService
}

func NewDashboardHandler(dashboardService services.DashboardService, logger utils.Logger) *DashboardHandler {
	return &DashboardHandler{
		BaseHandler:      NewBaseHandler(logger),
		dashboardService: dashboardService,
	}
}

// GetAdminStats returns platform-wide aggregate counts.
func (h *DashboardHandler) GetAdminStats(c *gin.Context) {
	h.LogRequest(c, "Getting admin dashboard stats")

	stats, err := h.dashboardService.GetAdminStats(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}
