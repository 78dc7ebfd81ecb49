package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"showwise/internal/auth"
	"showwise/internal/models"
	"showwise/internal/notify"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CreateEvent stores a new event, announces it and schedules its reminders
func (h *Handler) CreateEvent(c *gin.Context) {
	var req models.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.handleError(c, http.StatusBadRequest, "Invalid input", err)
		return
	}

	event := models.Event{
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		StartsAt:    req.StartsAt,
		EndsAt:      req.StartsAt.Add(models.DefaultEventDuration),
		Location:    req.Location,
		CreatedBy:   auth.Username(c),
	}
	if req.EndsAt != nil {
		event.EndsAt = *req.EndsAt
	}
	if !event.EndsAt.After(event.StartsAt) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ends_at must be after starts_at"})
		return
	}

	if err := h.Events.Create(c.Request.Context(), &event); err != nil {
		h.storeError(c, "Event", err)
		return
	}

	h.announceCreated(c.Request.Context(), event)
	tasks := h.Scheduler.Schedule(&event)

	c.JSON(http.StatusCreated, gin.H{"event": event, "scheduled": tasks})
}

// announceCreated posts the "New Event" announcement in the background. It outlives
// the request and is bounded by announceTimeout; failures are only logged.
func (h *Handler) announceCreated(ctx context.Context, event models.Event) {
	if h.Announcer == nil {
		return
	}
	a := notify.ComposeCreated(&event, h.Scheduler.Location())
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), announceTimeout)

	h.background.Add(1)
	go func() {
		defer h.background.Done()
		defer cancel()
		if err := h.Announcer.Announce(ctx, a); err != nil {
			h.Log.Warn("failed to announce new event", zap.Uint("event_id", event.ID), zap.Error(err))
		}
	}()
}

// ListEvents returns events, optionally bounded by RFC3339 from/to query parameters
func (h *Handler) ListEvents(c *gin.Context) {
	var from, to time.Time
	for name, dst := range map[string]*time.Time{"from": &from, "to": &to} {
		raw := c.Query(name)
		if raw == "" {
			continue
		}
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			h.handleError(c, http.StatusBadRequest, "Invalid "+name+" time, expected RFC3339", err)
			return
		}
		*dst = t
	}

	events, err := h.Events.List(c.Request.Context(), from, to)
	if err != nil {
		h.storeError(c, "Events", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": events, "count": len(events)})
}

func (h *Handler) GetEvent(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	event, err := h.Events.GetEvent(c.Request.Context(), id)
	if err != nil {
		h.storeError(c, "Event", err)
		return
	}
	c.JSON(http.StatusOK, event)
}

// UpdateEvent edits an event. A changed start time replaces its pending reminders.
func (h *Handler) UpdateEvent(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req models.UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.handleError(c, http.StatusBadRequest, "Invalid input", err)
		return
	}

	event, err := h.Events.GetEvent(c.Request.Context(), id)
	if err != nil {
		h.storeError(c, "Event", err)
		return
	}

	startChanged := false
	if req.Title != nil {
		event.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		event.Description = *req.Description
	}
	if req.Location != nil {
		event.Location = *req.Location
	}
	if req.StartsAt != nil && !req.StartsAt.Equal(event.StartsAt) {
		duration := event.EndsAt.Sub(event.StartsAt)
		event.StartsAt = *req.StartsAt
		event.EndsAt = event.StartsAt.Add(duration)
		startChanged = true
	}
	if req.EndsAt != nil {
		event.EndsAt = *req.EndsAt
	}
	if event.Title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title must not be empty"})
		return
	}
	if !event.EndsAt.After(event.StartsAt) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ends_at must be after starts_at"})
		return
	}

	if err := h.Events.Update(c.Request.Context(), event); err != nil {
		h.storeError(c, "Event", err)
		return
	}

	resp := gin.H{"event": event}
	if startChanged {
		resp["scheduled"] = h.Scheduler.Schedule(event)
	}
	c.JSON(http.StatusOK, resp)
}

// DeleteEvent removes an event and cancels its pending reminders
func (h *Handler) DeleteEvent(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.Events.Delete(c.Request.Context(), id); err != nil {
		h.storeError(c, "Event", err)
		return
	}
	cancelled := h.Scheduler.Cancel(id)
	c.JSON(http.StatusOK, gin.H{"deleted": id, "cancelled_reminders": cancelled})
}
