package handlers

import (
	"context"
	"net/http"
	"strings"

	"showwise/internal/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AssignCrew puts a crew member on an event and mails them if they have an address.
// Reminders pick the new crew up when they fire, so nothing is rescheduled.
func (h *Handler) AssignCrew(c *gin.Context) {
	var req models.AssignCrewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.handleError(c, http.StatusBadRequest, "Invalid input", err)
		return
	}

	assignment := models.CrewAssignment{
		EventID:    req.EventID,
		CrewMember: strings.TrimSpace(req.CrewMember),
		Role:       req.Role,
	}
	if err := h.Events.AssignCrew(c.Request.Context(), &assignment); err != nil {
		h.storeError(c, "Event", err)
		return
	}

	h.mailAssignment(c.Request.Context(), &assignment)
	c.JSON(http.StatusCreated, assignment)
}

func (h *Handler) mailAssignment(ctx context.Context, assignment *models.CrewAssignment) {
	if h.Mailer == nil {
		return
	}
	account, err := h.Accounts.GetByUsername(ctx, assignment.CrewMember)
	if err != nil || account.Email == nil {
		return
	}
	event, err := h.Events.GetEvent(ctx, assignment.EventID)
	if err != nil {
		h.Log.Warn("failed to load event for assignment mail", zap.Uint("event_id", assignment.EventID), zap.Error(err))
		return
	}
	if err := h.Mailer.SendCrewAssignment(ctx, *account.Email, account.Username, event, assignment.Role); err != nil {
		h.Log.Warn("failed to send assignment mail",
			zap.String("crew_member", assignment.CrewMember),
			zap.Uint("event_id", assignment.EventID),
			zap.Error(err),
		)
	}
}

func (h *Handler) RemoveCrew(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	assignment, err := h.Events.RemoveCrew(c.Request.Context(), id)
	if err != nil {
		h.storeError(c, "Assignment", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"removed": assignment})
}
