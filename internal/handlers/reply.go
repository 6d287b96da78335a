package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/replydeck/backend/internal/services"
	"github.com/replydeck/backend/pkg/response"
	"gorm.io/gorm"
)

type ReplyHandler struct {
	replyService *services.ReplyService
}

func NewReplyHandler(db *gorm.DB) *ReplyHandler {
	return &ReplyHandler{
		replyService: services.NewReplyService(db),
	}
}

func (h *ReplyHandler) List(c *gin.Context) {
	var req services.ReplyListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	resp, err := h.replyService.List(&req)
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}

	response.Success(c, resp)
}

type createManualReplyRequest struct {
	CommentID uint   `json:"comment_id" binding:"required"`
	Content   string `json:"content" binding:"required"`
}

// CreateManual records a human-written reply.
func (h *ReplyHandler) CreateManual(c *gin.Context) {
	var req createManualReplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	reply, err := h.replyService.CreateManual(req.CommentID, req.Content)
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}

	response.Created(c, reply)
}

func (h *ReplyHandler) ListByComment(c *gin.Context) {
	commentID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid comment id")
		return
	}

	replies, err := h.replyService.ListByComment(uint(commentID))
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}

	response.Success(c, replies)
}
