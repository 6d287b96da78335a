package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/replydeck/backend/internal/middleware"
	"github.com/replydeck/backend/internal/services"
	"github.com/replydeck/backend/pkg/response"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.authService.Login(&req)
	if err != nil {
		services.LogWarning("auth", "login_failed", "Login failed for "+req.Username, nil, c.ClientIP(), c.Request.UserAgent(), nil)
		response.Unauthorized(c, err.Error())
		return
	}

	services.LogInfo("auth", "login", "User logged in", &result.User.ID, c.ClientIP(), c.Request.UserAgent(), nil)
	response.Success(c, result)
}

func (h *AuthHandler) GetAuthConfig(c *gin.Context) {
	response.Success(c, h.authService.GetAuthConfig())
}

// Logout exists for frontend symmetry; tokens are stateless and simply
// expire.
func (h *AuthHandler) Logout(c *gin.Context) {
	userID := middleware.GetUserID(c)
	services.LogInfo("auth", "logout", "User logged out", &userID, c.ClientIP(), c.Request.UserAgent(), nil)
	response.Success(c, gin.H{"message": "logged out"})
}

func (h *AuthHandler) Me(c *gin.Context) {
	userID := middleware.GetUserID(c)

	user, err := h.authService.GetUserByID(userID)
	if err != nil {
		response.NotFound(c, "user not found")
		return
	}

	response.Success(c, user)
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req services.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	userID := middleware.GetUserID(c)
	if err := h.authService.ChangePassword(userID, &req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	response.Success(c, gin.H{"message": "password changed successfully"})
}
