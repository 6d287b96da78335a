package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/replydeck/backend/internal/middleware"
	"github.com/replydeck/backend/internal/services"
	"github.com/replydeck/backend/pkg/response"
)

type AutoReplyHandler struct {
	settingsService  *services.SettingsService
	autoReplyService *services.AutoReplyService
	holidayService   *services.HolidayService
}

func NewAutoReplyHandler(settingsService *services.SettingsService, autoReplyService *services.AutoReplyService, holidayService *services.HolidayService) *AutoReplyHandler {
	return &AutoReplyHandler{
		settingsService:  settingsService,
		autoReplyService: autoReplyService,
		holidayService:   holidayService,
	}
}

func (h *AutoReplyHandler) GetSettings(c *gin.Context) {
	setting, err := h.settingsService.Get()
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}

	response.Success(c, setting)
}

func (h *AutoReplyHandler) UpdateSettings(c *gin.Context) {
	var req services.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	setting, err := h.settingsService.Update(&req)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	userID := middleware.GetUserID(c)
	services.LogInfo("auto_reply", "settings_updated", "Auto-reply settings updated", &userID, c.ClientIP(), c.Request.UserAgent(), req)

	response.Success(c, setting)
}

// Trigger kicks off a manual run through the task queue and returns
// immediately.
func (h *AutoReplyHandler) Trigger(c *gin.Context) {
	userID := middleware.GetUserID(c)

	queue := services.GetTaskQueue()
	if queue == nil {
		response.ServerError(c, "task queue not initialized")
		return
	}

	runID := uuid.NewString()
	if err := queue.Enqueue(&services.AutoReplyTask{
		RunID:       runID,
		Trigger:     services.TriggerManual,
		RequestedBy: userID,
	}); err != nil {
		response.ServerError(c, err.Error())
		return
	}

	services.LogInfo("auto_reply", "manual_trigger", "Auto-reply run triggered manually", &userID, c.ClientIP(), c.Request.UserAgent(), nil)
	response.Success(c, gin.H{"run_id": runID, "async": queue.IsAsync()})
}

func (h *AutoReplyHandler) ListRuns(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	runs, total, err := h.autoReplyService.ListRuns(page, pageSize)
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}

	response.Paged(c, total, page, pageSize, runs)
}

func (h *AutoReplyHandler) GetRun(c *gin.Context) {
	run, err := h.autoReplyService.GetRun(c.Param("run_id"))
	if err != nil {
		response.NotFound(c, "run not found")
		return
	}

	response.Success(c, run)
}

func (h *AutoReplyHandler) GetCountries(c *gin.Context) {
	response.Success(c, h.holidayService.GetSupportedCountries())
}
