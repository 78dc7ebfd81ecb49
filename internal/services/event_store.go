package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"showwise/internal/models"

	"gorm.io/gorm"
)

// EventStore is the system of record for events and crew assignments
type EventStore struct {
	db *gorm.DB
}

func NewEventStore(db *gorm.DB) *EventStore {
	return &EventStore{db: db}
}

// Create inserts a new event
func (s *EventStore) Create(ctx context.Context, event *models.Event) error {
	if err := s.db.WithContext(ctx).Create(event).Error; err != nil {
		return fmt.Errorf("failed to create event: %w", err)
	}
	return nil
}

// GetEvent loads an event with its current crew assignments
func (s *EventStore) GetEvent(ctx context.Context, id uint) (*models.Event, error) {
	var event models.Event
	err := s.db.WithContext(ctx).
		Preload("CrewAssignments", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		First(&event, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load event %d: %w", id, err)
	}
	return &event, nil
}

// List returns events starting in [from, to), ordered by start. Zero bounds are open.
func (s *EventStore) List(ctx context.Context, from, to time.Time) ([]models.Event, error) {
	query := s.db.WithContext(ctx).Preload("CrewAssignments").Order("starts_at asc")
	if !from.IsZero() {
		query = query.Where("starts_at >= ?", from)
	}
	if !to.IsZero() {
		query = query.Where("starts_at < ?", to)
	}

	var events []models.Event
	if err := query.Find(&events).Error; err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return events, nil
}

// Update saves the event's own columns; crew assignments are managed separately
func (s *EventStore) Update(ctx context.Context, event *models.Event) error {
	event.UpdatedAt = time.Now()
	res := s.db.WithContext(ctx).Model(event).
		Select("title", "description", "starts_at", "ends_at", "location", "updated_at").
		Updates(event)
	if res.Error != nil {
		return fmt.Errorf("failed to update event %d: %w", event.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return models.ErrNotFound
	}
	return nil
}

// Delete removes an event and its crew assignments
func (s *EventStore) Delete(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("event_id = ?", id).Delete(&models.CrewAssignment{}).Error; err != nil {
			return fmt.Errorf("failed to delete crew of event %d: %w", id, err)
		}
		res := tx.Delete(&models.Event{}, id)
		if res.Error != nil {
			return fmt.Errorf("failed to delete event %d: %w", id, res.Error)
		}
		if res.RowsAffected == 0 {
			return models.ErrNotFound
		}
		return nil
	})
}

// AssignCrew adds a crew member to an existing event
func (s *EventStore) AssignCrew(ctx context.Context, assignment *models.CrewAssignment) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Event{}).Where("id = ?", assignment.EventID).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check event %d: %w", assignment.EventID, err)
	}
	if count == 0 {
		return models.ErrNotFound
	}
	if err := s.db.WithContext(ctx).Create(assignment).Error; err != nil {
		return fmt.Errorf("failed to assign crew: %w", err)
	}
	return nil
}

// RemoveCrew deletes an assignment and returns it
func (s *EventStore) RemoveCrew(ctx context.Context, id uint) (*models.CrewAssignment, error) {
	var assignment models.CrewAssignment
	err := s.db.WithContext(ctx).First(&assignment, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load assignment %d: %w", id, err)
	}
	if err := s.db.WithContext(ctx).Delete(&assignment).Error; err != nil {
		return nil, fmt.Errorf("failed to remove assignment %d: %w", id, err)
	}
	return &assignment, nil
}
