package models

import (
	"time"

	"gorm.io/datatypes"
)

// NotificationSent tracks which reminders have been delivered to avoid duplicates
type NotificationSent struct {
	ID       uint                        `gorm:"primaryKey" json:"id"`
	EventID  uint                        `gorm:"not null;uniqueIndex:idx_notification_event_kind" json:"event_id"`
	Kind     string                      `gorm:"size:20;not null;uniqueIndex:idx_notification_event_kind" json:"kind"` // one_week_before, one_day_before or day_of
	Mentions datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"mentions"`
	SentAt   time.Time                   `gorm:"not null" json:"sent_at"`
}
