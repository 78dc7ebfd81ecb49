package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"showwise/internal/auth"
	"showwise/internal/models"
	"showwise/internal/notify"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// EventStore is the event persistence the handlers need
type EventStore interface {
	Create(ctx context.Context, event *models.Event) error
	GetEvent(ctx context.Context, id uint) (*models.Event, error)
	List(ctx context.Context, from, to time.Time) ([]models.Event, error)
	Update(ctx context.Context, event *models.Event) error
	Delete(ctx context.Context, id uint) error
	AssignCrew(ctx context.Context, assignment *models.CrewAssignment) error
	RemoveCrew(ctx context.Context, id uint) (*models.CrewAssignment, error)
}

// AccountStore is the account persistence the handlers need
type AccountStore interface {
	Create(ctx context.Context, account *models.Account) error
	GetByUsername(ctx context.Context, username string) (*models.Account, error)
	TouchLogin(ctx context.Context, username string, at time.Time) error
	LinkDiscord(ctx context.Context, username, discordID, discordUsername string) (*models.Account, error)
}

// Scheduler registers and fires event reminders
type Scheduler interface {
	Schedule(event *models.Event) []notify.Task
	Cancel(eventID uint) int
	Pending(eventID uint) []notify.Task
	Fire(ctx context.Context, eventID uint, kind notify.Kind) notify.Outcome
	Location() *time.Location
}

// CrewMailer tells crew members about new assignments
type CrewMailer interface {
	SendCrewAssignment(ctx context.Context, address, name string, event *models.Event, role string) error
}

const announceTimeout = 30 * time.Second

// Handler serves the HTTP API
type Handler struct {
	Events    EventStore
	Accounts  AccountStore
	Scheduler Scheduler
	Tracker   notify.Tracker
	Announcer notify.Announcer
	Mailer    CrewMailer
	Tokens    *auth.TokenIssuer
	Log       *zap.Logger

	background sync.WaitGroup
}

// Wait blocks until background announcements have finished
func (h *Handler) Wait() {
	h.background.Wait()
}

// Register mounts every route on the router
func (h *Handler) Register(router gin.IRouter) {
	router.GET("/health", h.HealthHandler)

	// Auth routes (no auth required)
	router.POST("/auth/login", h.Login)
	router.POST("/accounts", h.CreateAccount)

	protected := router.Group("")
	protected.Use(auth.AuthMiddleware(h.Tokens))
	{
		protected.GET("/auth/me", h.GetCurrentUser)
		protected.PUT("/accounts/me/discord", h.LinkDiscord)

		protected.POST("/events", h.CreateEvent)
		protected.GET("/events", h.ListEvents)
		protected.GET("/events/:id", h.GetEvent)
		protected.PUT("/events/:id", h.UpdateEvent)
		protected.DELETE("/events/:id", h.DeleteEvent)
		protected.GET("/events/:id/notifications", h.GetNotifications)
		protected.POST("/events/:id/notifications/:kind/fire", h.FireNotification)

		protected.POST("/crew/assign", h.AssignCrew)
		protected.DELETE("/crew/:id", h.RemoveCrew)
	}
}

// handleError provides a consistent way to handle and log errors
func (h *Handler) handleError(c *gin.Context, status int, message string, err error) {
	if status >= http.StatusInternalServerError {
		h.Log.Error(message, zap.String("path", c.FullPath()), zap.Error(err))
	} else {
		h.Log.Debug(message, zap.String("path", c.FullPath()), zap.Error(err))
	}
	c.JSON(status, gin.H{"error": message})
}

// storeError maps a store error to a response
func (h *Handler) storeError(c *gin.Context, what string, err error) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		h.handleError(c, http.StatusNotFound, what+" not found", err)
	case errors.Is(err, models.ErrConflict):
		h.handleError(c, http.StatusConflict, what+" already exists", err)
	default:
		h.handleError(c, http.StatusInternalServerError, "Failed to process "+what, err)
	}
}

// HealthHandler is a simple health check endpoint
func (h *Handler) HealthHandler(c *gin.Context) {
	c.String(http.StatusOK, "OK")
}

func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return uint(id), true
}
