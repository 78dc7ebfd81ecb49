package services

import (
	"context"
	"fmt"

	"showwise/internal/models"
	"showwise/internal/notify"

	"gorm.io/gorm"
)

// ParticipantResolver maps crew usernames to the Discord ids and e-mail addresses
// stored on their accounts
type ParticipantResolver struct {
	db *gorm.DB
}

func NewParticipantResolver(db *gorm.DB) *ParticipantResolver {
	return &ParticipantResolver{db: db}
}

// Resolve returns one participant per assignment, in assignment order. Crew members
// without an account, or without a linked Discord id, get an empty handle.
func (r *ParticipantResolver) Resolve(ctx context.Context, event *models.Event) ([]notify.Participant, error) {
	names := event.CrewNames()
	if len(names) == 0 {
		return nil, nil
	}

	var accounts []models.Account
	if err := r.db.WithContext(ctx).Where("username IN ?", names).Find(&accounts).Error; err != nil {
		return nil, fmt.Errorf("failed to load crew accounts: %w", err)
	}
	byName := make(map[string]models.Account, len(accounts))
	for _, a := range accounts {
		byName[a.Username] = a
	}

	participants := make([]notify.Participant, 0, len(names))
	for _, name := range names {
		p := notify.Participant{Name: name}
		if a, ok := byName[name]; ok {
			if a.DiscordID != nil {
				p.Handle = *a.DiscordID
			}
			if a.Email != nil {
				p.Email = *a.Email
			}
		}
		participants = append(participants, p)
	}
	return participants, nil
}
