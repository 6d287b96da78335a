package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/replydeck/backend/internal/services"
	"github.com/replydeck/backend/pkg/response"
	"gorm.io/gorm"
)

type CommentHandler struct {
	commentService *services.CommentService
	replyService   *services.ReplyService
}

func NewCommentHandler(db *gorm.DB) *CommentHandler {
	return &CommentHandler{
		commentService: services.NewCommentService(db),
		replyService:   services.NewReplyService(db),
	}
}

func (h *CommentHandler) List(c *gin.Context) {
	var req services.CommentListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	resp, err := h.commentService.List(&req)
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}

	response.Success(c, resp)
}

func (h *CommentHandler) GetByID(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid comment id")
		return
	}

	comment, err := h.commentService.GetByID(uint(id))
	if err != nil {
		response.NotFound(c, "comment not found")
		return
	}

	replies, err := h.replyService.ListByComment(comment.ID)
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}

	response.Success(c, gin.H{"comment": comment, "replies": replies})
}

// Create is the ingestion endpoint platform webhooks or importers hit.
func (h *CommentHandler) Create(c *gin.Context) {
	var req services.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	comment, err := h.commentService.Create(&req)
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}

	response.Created(c, comment)
}

type updateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *CommentHandler) UpdateStatus(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid comment id")
		return
	}

	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	comment, err := h.commentService.UpdateStatus(uint(id), req.Status)
	if err != nil {
		if err == gorm.ErrInvalidValue {
			response.BadRequest(c, "invalid status")
			return
		}
		response.NotFound(c, "comment not found")
		return
	}

	response.Success(c, comment)
}

func (h *CommentHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid comment id")
		return
	}

	if err := h.commentService.Delete(uint(id)); err != nil {
		response.ServerError(c, err.Error())
		return
	}

	response.Success(c, gin.H{"message": "comment deleted successfully"})
}
