package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/drwijaya/green-productions/internal/erp/service"
)

type AuthHandler struct {
	svc *service.AuthService
}

func NewAuthHandler(svc *service.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

// Login POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var input struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	user, tokens, err := h.svc.Login(c.Request.Context(), input.Username, input.Password)
	if err != nil {
		RespondError(c, err)
		return
	}

	Success(c, gin.H{
		"user":   user,
		"tokens": tokens,
	})
}

// Refresh POST /auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	var input struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	tokens, err := h.svc.RefreshToken(c.Request.Context(), input.RefreshToken)
	if err != nil {
		Error(c, 40102, err.Error())
		return
	}

	Success(c, tokens)
}

// Logout POST /auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	var input struct {
		RefreshToken string `json:"refresh_token"`
	}
	c.ShouldBindJSON(&input)

	if input.RefreshToken != "" {
		h.svc.Logout(c.Request.Context(), input.RefreshToken)
	}

	Success(c, gin.H{"message": "logged out"})
}

// Me GET /auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.svc.GetCurrentUser(c.Request.Context(), GetUserID(c))
	if err != nil {
		RespondError(c, err)
		return
	}

	Success(c, user)
}

// ChangePassword POST /auth/password
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var input struct {
		OldPassword string `json:"old_password" binding:"required"`
		NewPassword string `json:"new_password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	if err := h.svc.ChangePassword(c.Request.Context(), GetUserID(c), input.OldPassword, input.NewPassword); err != nil {
		RespondError(c, err)
		return
	}

	Success(c, gin.H{"message": "password changed"})
}
