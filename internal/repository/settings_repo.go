package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/t3ch-N/mAGICAL-clone-sub001/internal/model"
)

// SettingsRepository tournament settings (single row).
type SettingsRepository interface {
	Get(ctx context.Context) (*model.TournamentSettings, error)
	Upsert(ctx context.Context, s *model.TournamentSettings) error
}

type settingsRepo struct {
	db *gorm.DB
}

// NewSettingsRepo creates a SettingsRepository.
func NewSettingsRepo(db *gorm.DB) SettingsRepository {
	return &settingsRepo{db: db}
}

// Get returns the row, creating it with column defaults on first use.
func (r *settingsRepo) Get(ctx context.Context) (*model.TournamentSettings, error) {
	var s model.TournamentSettings
	err := r.db.WithContext(ctx).Where("singleton = ?", true).First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		s = model.TournamentSettings{
			Singleton:               true,
			RegistrationOpen:        true,
			ProAmMaxParticipants:    120,
			DefaultSlotCapacity:     3,
			VolunteerMarshalMinimum: 300,
			VolunteerScorerMaximum:  72,
		}
		if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&s).Error; err != nil {
			return nil, err
		}
		return &s, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Upsert writes every column, zero values included.
func (r *settingsRepo) Upsert(ctx context.Context, s *model.TournamentSettings) error {
	s.Singleton = true
	return r.db.WithContext(ctx).Save(s).Error
}
