package services

import (
	"context"
	"fmt"

	"showwise/internal/models"
	"showwise/internal/notify"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormTracker persists the notification record in the notification_sent table so
// delivered reminders survive a restart
type GormTracker struct {
	db *gorm.DB
}

func NewGormTracker(db *gorm.DB) *GormTracker {
	return &GormTracker{db: db}
}

// IsSent checks if the reminder has been sent for this event already
func (t *GormTracker) IsSent(ctx context.Context, eventID uint, kind notify.Kind) (bool, error) {
	var count int64
	err := t.db.WithContext(ctx).Model(&models.NotificationSent{}).
		Where("event_id = ? AND kind = ?", eventID, string(kind)).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check notification record: %w", err)
	}
	return count > 0, nil
}

// MarkSent records the delivery; a concurrent insert of the same pair is ignored
func (t *GormTracker) MarkSent(ctx context.Context, d notify.Delivery) error {
	record := models.NotificationSent{
		EventID:  d.EventID,
		Kind:     string(d.Kind),
		Mentions: d.Mentions,
		SentAt:   d.SentAt,
	}
	err := t.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&record).Error
	if err != nil {
		return fmt.Errorf("failed to record notification: %w", err)
	}
	return nil
}

func (t *GormTracker) Deliveries(ctx context.Context, eventID uint) ([]notify.Delivery, error) {
	var records []models.NotificationSent
	err := t.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("sent_at asc").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load notification records: %w", err)
	}

	deliveries := make([]notify.Delivery, 0, len(records))
	for _, r := range records {
		kind, err := notify.ParseKind(r.Kind)
		if err != nil {
			continue
		}
		deliveries = append(deliveries, notify.Delivery{
			EventID:  r.EventID,
			Kind:     kind,
			Mentions: []string(r.Mentions),
			SentAt:   r.SentAt,
		})
	}
	return deliveries, nil
}
