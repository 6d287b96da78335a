package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/replydeck/backend/internal/services"
	"github.com/replydeck/backend/pkg/response"
)

type LLMConfigHandler struct {
	llmConfigService *services.LLMConfigService
	generatorService *services.GeneratorService
}

func NewLLMConfigHandler(llmConfigService *services.LLMConfigService, generatorService *services.GeneratorService) *LLMConfigHandler {
	return &LLMConfigHandler{
		llmConfigService: llmConfigService,
		generatorService: generatorService,
	}
}

func (h *LLMConfigHandler) List(c *gin.Context) {
	configs, err := h.llmConfigService.List()
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}

	response.Success(c, configs)
}

func (h *LLMConfigHandler) GetByID(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid config id")
		return
	}

	config, err := h.llmConfigService.GetByID(uint(id))
	if err != nil {
		response.NotFound(c, "config not found")
		return
	}

	response.Success(c, config)
}

func (h *LLMConfigHandler) Create(c *gin.Context) {
	var req services.LLMConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	config, err := h.llmConfigService.Create(&req)
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}

	response.Created(c, config)
}

func (h *LLMConfigHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid config id")
		return
	}

	var req services.LLMConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	config, err := h.llmConfigService.Update(uint(id), &req)
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}

	response.Success(c, config)
}

func (h *LLMConfigHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid config id")
		return
	}

	if err := h.llmConfigService.Delete(uint(id)); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	response.Success(c, gin.H{"message": "config deleted successfully"})
}

// Test runs a throwaway generation through the config to verify it works.
func (h *LLMConfigHandler) Test(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid config id")
		return
	}

	if err := h.llmConfigService.Test(h.generatorService, uint(id)); err != nil {
		response.Success(c, gin.H{"ok": false, "error": err.Error()})
		return
	}

	response.Success(c, gin.H{"ok": true})
}
