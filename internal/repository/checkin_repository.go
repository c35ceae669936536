package repository

import (
	"context"

	"github.com/blaisecz/habit-lab/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CheckinRepository interface {
	ListByExperiment(ctx context.Context, experimentID uuid.UUID) ([]domain.Checkin, error)
}

type checkinRepository struct {
	db *gorm.DB
}

func NewCheckinRepository(db *gorm.DB) CheckinRepository {
	return &checkinRepository{db: db}
}

func (r *checkinRepository) ListByExperiment(ctx context.Context, experimentID uuid.UUID) ([]domain.Checkin, error) {
	var checkins []domain.Checkin
	err := r.db.WithContext(ctx).
		Where("experiment_id = ?", experimentID).
		Order("checkin_time ASC").
		Find(&checkins).Error
	return checkins, err
}
