package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/replydeck/backend/internal/middleware"
	"github.com/replydeck/backend/internal/services"
	"github.com/replydeck/backend/pkg/response"
)

type SystemHandler struct {
	configService    *services.SystemConfigService
	logService       *services.SystemLogService
	schedulerService *services.SchedulerService
}

func NewSystemHandler(configService *services.SystemConfigService, logService *services.SystemLogService, schedulerService *services.SchedulerService) *SystemHandler {
	return &SystemHandler{
		configService:    configService,
		logService:       logService,
		schedulerService: schedulerService,
	}
}

func (h *SystemHandler) GetSchedulerConfig(c *gin.Context) {
	response.Success(c, h.configService.GetSchedulerConfig())
}

// UpdateSchedulerConfig persists the new interval and applies it to the
// running cron without a restart.
func (h *SystemHandler) UpdateSchedulerConfig(c *gin.Context) {
	var req services.UpdateSchedulerConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if req.IntervalMinutes != nil && (*req.IntervalMinutes < 1 || *req.IntervalMinutes > 59) {
		response.BadRequest(c, "interval_minutes must be between 1 and 59")
		return
	}

	if err := h.configService.UpdateSchedulerConfig(&req); err != nil {
		response.ServerError(c, err.Error())
		return
	}

	if h.schedulerService != nil {
		h.schedulerService.Reschedule()
	}

	userID := middleware.GetUserID(c)
	services.LogInfo("system", "scheduler_config_updated", "Scheduler configuration updated", &userID, c.ClientIP(), c.Request.UserAgent(), req)

	response.Success(c, h.configService.GetSchedulerConfig())
}

func (h *SystemHandler) ListLogs(c *gin.Context) {
	var req services.SystemLogListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	resp, err := h.logService.List(&req)
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}

	response.Success(c, resp)
}

func (h *SystemHandler) GetLogModules(c *gin.Context) {
	modules, err := h.logService.GetModules()
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}

	response.Success(c, modules)
}
