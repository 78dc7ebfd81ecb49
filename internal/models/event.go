package models

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

// ErrNotFound is returned by stores when the requested record does not exist
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when a unique field is already taken
var ErrConflict = errors.New("already exists")

// DefaultEventDuration is applied when an event is created without an end time
const DefaultEventDuration = 3 * time.Hour

// Event represents a production event crew can be assigned to
type Event struct {
	ID              uint             `gorm:"primaryKey" json:"id"`
	Title           string           `gorm:"size:200;not null" json:"title"`
	Description     string           `gorm:"type:text" json:"description"`
	StartsAt        time.Time        `gorm:"not null;index" json:"starts_at"`
	EndsAt          time.Time        `json:"ends_at"`
	Location        string           `gorm:"size:200" json:"location"`
	CreatedBy       string           `gorm:"size:80" json:"created_by"`
	CrewAssignments []CrewAssignment `gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE" json:"crew_assignments"`
	CreatedAt       time.Time        `gorm:"not null" json:"created_at"`
	UpdatedAt       time.Time        `gorm:"not null" json:"updated_at"`
}

// BeforeCreate hook fills in timestamps and the default end time
func (e *Event) BeforeCreate(tx *gorm.DB) error {
	now := time.Now()
	if e.CreatedAt.IsZero() {
		e.CreatedAt = now
	}
	if e.UpdatedAt.IsZero() {
		e.UpdatedAt = now
	}
	if e.EndsAt.IsZero() {
		e.EndsAt = e.StartsAt.Add(DefaultEventDuration)
	}
	return nil
}

// CrewNames returns the usernames of everyone assigned to the event, in assignment order
func (e *Event) CrewNames() []string {
	names := make([]string, 0, len(e.CrewAssignments))
	for _, a := range e.CrewAssignments {
		names = append(names, a.CrewMember)
	}
	return names
}

// CrewAssignment links a crew member (by username) to an event
type CrewAssignment struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	EventID     uint      `gorm:"not null;index" json:"event_id"`
	CrewMember  string    `gorm:"size:80;not null" json:"crew_member"`
	Role        string    `gorm:"size:100" json:"role"`
	AssignedVia string    `gorm:"size:20;default:webapp" json:"assigned_via"`
	AssignedAt  time.Time `gorm:"not null" json:"assigned_at"`
}

// BeforeCreate hook is called before creating a new assignment
func (a *CrewAssignment) BeforeCreate(tx *gorm.DB) error {
	if a.AssignedAt.IsZero() {
		a.AssignedAt = time.Now()
	}
	if a.AssignedVia == "" {
		a.AssignedVia = "webapp"
	}
	return nil
}

// CreateEventRequest represents the data needed to create a new event
type CreateEventRequest struct {
	Title       string     `json:"title" binding:"required,max=200"`
	Description string     `json:"description"`
	StartsAt    time.Time  `json:"starts_at" binding:"required"`
	EndsAt      *time.Time `json:"ends_at"`
	Location    string     `json:"location" binding:"max=200"`
}

// UpdateEventRequest carries the optional fields of an event edit
type UpdateEventRequest struct {
	Title       *string    `json:"title" binding:"omitempty,max=200"`
	Description *string    `json:"description"`
	StartsAt    *time.Time `json:"starts_at"`
	EndsAt      *time.Time `json:"ends_at"`
	Location    *string    `json:"location" binding:"omitempty,max=200"`
}

// AssignCrewRequest represents a crew assignment submitted from the web app
type AssignCrewRequest struct {
	EventID    uint   `json:"event_id" binding:"required"`
	CrewMember string `json:"crew_member" binding:"required"`
	Role       string `json:"role" binding:"max=100"`
}
