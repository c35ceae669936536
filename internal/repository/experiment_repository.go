package repository

import (
	"context"

	"github.com/blaisecz/habit-lab/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ExperimentRepository interface {
	Create(ctx context.Context, exp *domain.Experiment) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Experiment, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Experiment, error)
	HasActive(ctx context.Context, userID uuid.UUID) (bool, error)
	Update(ctx context.Context, exp *domain.Experiment) error
	// SaveWithCheckin persists a check-in and the experiment state it
	// produced in one transaction, so a failed write can never leave a
	// check-in recorded against a stale stage.
	SaveWithCheckin(ctx context.Context, exp *domain.Experiment, checkin *domain.Checkin) error
}

type experimentRepository struct {
	db *gorm.DB
}

func NewExperimentRepository(db *gorm.DB) ExperimentRepository {
	return &experimentRepository{db: db}
}

func (r *experimentRepository) Create(ctx context.Context, exp *domain.Experiment) error {
	return r.db.WithContext(ctx).Create(exp).Error
}

func (r *experimentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Experiment, error) {
	var exp domain.Experiment
	err := r.db.WithContext(ctx).First(&exp, "id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &exp, nil
}

func (r *experimentRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Experiment, error) {
	var exps []domain.Experiment
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("start_time ASC").
		Find(&exps).Error
	return exps, err
}

func (r *experimentRepository) HasActive(ctx context.Context, userID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Experiment{}).
		Where("user_id = ? AND is_active = ?", userID, true).
		Count(&count).Error
	return count > 0, err
}

func (r *experimentRepository) Update(ctx context.Context, exp *domain.Experiment) error {
	return r.db.WithContext(ctx).Save(exp).Error
}

func (r *experimentRepository) SaveWithCheckin(ctx context.Context, exp *domain.Experiment, checkin *domain.Checkin) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(checkin).Error; err != nil {
			return err
		}
		return tx.Save(exp).Error
	})
}
