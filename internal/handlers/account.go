package handlers

import (
	"net/http"
	"strings"
	"time"

	"showwise/internal/auth"
	"showwise/internal/models"

	"github.com/gin-gonic/gin"
)

// CreateAccount handles new user registration
func (h *Handler) CreateAccount(c *gin.Context) {
	var req models.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.handleError(c, http.StatusBadRequest, "Invalid input", err)
		return
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		h.handleError(c, http.StatusBadRequest, err.Error(), err)
		return
	}

	account := models.Account{
		Username:   req.Username,
		HashedPass: hashed,
		LastLogin:  time.Now(),
	}
	if email := strings.TrimSpace(req.Email); email != "" {
		account.Email = &email
	}

	if err := h.Accounts.Create(c.Request.Context(), &account); err != nil {
		h.storeError(c, "Account", err)
		return
	}
	c.JSON(http.StatusCreated, account)
}

// LinkDiscord links the caller's account to a Discord user so reminders can mention them.
// Sending empty fields unlinks.
func (h *Handler) LinkDiscord(c *gin.Context) {
	var req models.LinkDiscordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.handleError(c, http.StatusBadRequest, "Invalid input", err)
		return
	}

	discordID := strings.TrimSpace(req.DiscordID)
	for _, r := range discordID {
		if r < '0' || r > '9' {
			c.JSON(http.StatusBadRequest, gin.H{"error": "discord_id must be a numeric snowflake"})
			return
		}
	}

	account, err := h.Accounts.LinkDiscord(c.Request.Context(), auth.Username(c), discordID, strings.TrimSpace(req.DiscordUsername))
	if err != nil {
		h.storeError(c, "Discord link", err)
		return
	}
	c.JSON(http.StatusOK, account)
}
