package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/replydeck/backend/internal/services"
	"github.com/replydeck/backend/pkg/response"
	"gorm.io/gorm"
)

type DashboardHandler struct {
	dashboardService *services.DashboardService
}

func NewDashboardHandler(db *gorm.DB) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: services.NewDashboardService(db),
	}
}

func (h *DashboardHandler) GetStats(c *gin.Context) {
	stats, err := h.dashboardService.GetStats()
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}

	response.Success(c, stats)
}

func (h *DashboardHandler) GetReplyTrend(c *gin.Context) {
	days, _ := strconv.Atoi(c.DefaultQuery("days", "7"))

	trend, err := h.dashboardService.GetReplyTrend(days)
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}

	response.Success(c, trend)
}
