package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"showwise/internal/models"

	"gorm.io/gorm"
)

// AccountStore manages sign-in accounts and their linked chat handles
type AccountStore struct {
	db *gorm.DB
}

func NewAccountStore(db *gorm.DB) *AccountStore {
	return &AccountStore{db: db}
}

func isDuplicate(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "duplicate key")
}

// Create inserts an account; a taken username, e-mail or Discord id yields models.ErrConflict
func (s *AccountStore) Create(ctx context.Context, account *models.Account) error {
	if err := s.db.WithContext(ctx).Create(account).Error; err != nil {
		if isDuplicate(err) {
			return fmt.Errorf("account %q: %w", account.Username, models.ErrConflict)
		}
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

func (s *AccountStore) GetByUsername(ctx context.Context, username string) (*models.Account, error) {
	var account models.Account
	err := s.db.WithContext(ctx).Where("username = ?", username).First(&account).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load account %q: %w", username, err)
	}
	return &account, nil
}

// TouchLogin records a successful sign-in
func (s *AccountStore) TouchLogin(ctx context.Context, username string, at time.Time) error {
	return s.db.WithContext(ctx).Model(&models.Account{}).
		Where("username = ?", username).
		Update("last_login", at).Error
}

// LinkDiscord sets the account's Discord id and display name. An empty id unlinks.
func (s *AccountStore) LinkDiscord(ctx context.Context, username, discordID, discordUsername string) (*models.Account, error) {
	var id *string
	if discordID != "" {
		id = &discordID
	}
	res := s.db.WithContext(ctx).Model(&models.Account{}).
		Where("username = ?", username).
		Updates(map[string]interface{}{
			"discord_id":       id,
			"discord_username": discordUsername,
			"updated_at":       time.Now(),
		})
	if res.Error != nil {
		if isDuplicate(res.Error) {
			return nil, fmt.Errorf("discord id %s: %w", discordID, models.ErrConflict)
		}
		return nil, fmt.Errorf("failed to link discord for %q: %w", username, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, models.ErrNotFound
	}
	return s.GetByUsername(ctx, username)
}
