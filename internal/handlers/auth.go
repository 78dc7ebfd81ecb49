package handlers

import (
	"errors"
	"net/http"
	"time"

	"showwise/internal/auth"
	"showwise/internal/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Login handles username/password authentication and JWT token generation
func (h *Handler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.handleError(c, http.StatusBadRequest, "Invalid login request", err)
		return
	}

	account, err := h.Accounts.GetByUsername(c.Request.Context(), req.Username)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			h.handleError(c, http.StatusUnauthorized, "Invalid username or password", err)
			return
		}
		h.handleError(c, http.StatusInternalServerError, "Failed to process login", err)
		return
	}
	if err := auth.CheckPassword(account.HashedPass, req.Password); err != nil {
		h.handleError(c, http.StatusUnauthorized, "Invalid username or password", err)
		return
	}

	token, expiresAt, err := h.Tokens.GenerateToken(account.Username, account.IsAdmin)
	if err != nil {
		h.handleError(c, http.StatusInternalServerError, "Failed to generate token", err)
		return
	}

	if err := h.Accounts.TouchLogin(c.Request.Context(), account.Username, time.Now()); err != nil {
		h.Log.Warn("failed to update last login", zap.String("username", account.Username), zap.Error(err))
	}

	c.JSON(http.StatusOK, gin.H{
		"token":      token,
		"expires_at": expiresAt,
		"account":    account,
	})
}

// GetCurrentUser returns the authenticated user's account
func (h *Handler) GetCurrentUser(c *gin.Context) {
	account, err := h.Accounts.GetByUsername(c.Request.Context(), auth.Username(c))
	if err != nil {
		h.storeError(c, "Account", err)
		return
	}
	c.JSON(http.StatusOK, account)
}
