package handlers

import (
	"errors"
	"net/http"

	"showwise/internal/notify"

	"github.com/gin-gonic/gin"
)

// GetNotifications lists the event's pending reminders and the ones already delivered
func (h *Handler) GetNotifications(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if _, err := h.Events.GetEvent(c.Request.Context(), id); err != nil {
		h.storeError(c, "Event", err)
		return
	}

	delivered, err := h.Tracker.Deliveries(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, http.StatusInternalServerError, "Failed to load notification record", err)
		return
	}
	pending := h.Scheduler.Pending(id)
	if pending == nil {
		pending = []notify.Task{}
	}
	if delivered == nil {
		delivered = []notify.Delivery{}
	}
	c.JSON(http.StatusOK, gin.H{"pending": pending, "delivered": delivered})
}

var outcomeStatus = map[notify.Outcome]int{
	notify.OutcomeSent:       http.StatusOK,
	notify.OutcomeSuppressed: http.StatusOK,
	notify.OutcomeAbandoned:  http.StatusNotFound,
	notify.OutcomeFailed:     http.StatusBadGateway,
}

// FireNotification runs a reminder now. Firing a reminder that was already delivered
// is a no-op reported as suppressed.
func (h *Handler) FireNotification(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	kind, err := notify.ParseKind(c.Param("kind"))
	if err != nil {
		if errors.Is(err, notify.ErrUnknownKind) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.handleError(c, http.StatusInternalServerError, "Failed to parse kind", err)
		return
	}

	outcome := h.Scheduler.Fire(c.Request.Context(), id, kind)
	c.JSON(outcomeStatus[outcome], gin.H{"event_id": id, "kind": kind, "outcome": outcome})
}
