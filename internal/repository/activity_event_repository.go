package repository

import (
	"context"
	"time"

	"github.com/blaisecz/habit-lab/internal/domain"
	"github.com/blaisecz/habit-lab/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ActivityEventRepository interface {
	// Upsert inserts events keyed by (user, type, source id); re-imported
	// events refresh their attributes in place.
	Upsert(ctx context.Context, events []domain.ActivityEvent) error
	// ListForAnalysis returns a user's events from the given instant
	// onwards, ordered by start time, the order the day-window extraction
	// relies on.
	ListForAnalysis(ctx context.Context, userID uuid.UUID, from time.Time) ([]domain.ActivityEvent, error)
	List(ctx context.Context, userID uuid.UUID, filter domain.ActivityEventFilter) ([]domain.ActivityEvent, error)
}

type activityEventRepository struct {
	db *gorm.DB
}

func NewActivityEventRepository(db *gorm.DB) ActivityEventRepository {
	return &activityEventRepository{db: db}
}

func (r *activityEventRepository) Upsert(ctx context.Context, events []domain.ActivityEvent) error {
	if len(events) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "type"}, {Name: "source_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"start_time", "end_time", "duration_minutes", "steps",
				"distance_meters", "awake_minutes", "raw_payload",
			}),
		}).
		Create(&events).Error
}

func (r *activityEventRepository) ListForAnalysis(ctx context.Context, userID uuid.UUID, from time.Time) ([]domain.ActivityEvent, error) {
	var events []domain.ActivityEvent
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND end_time >= ?", userID, from).
		Order("start_time ASC").
		Find(&events).Error
	return events, err
}

func (r *activityEventRepository) List(ctx context.Context, userID uuid.UUID, filter domain.ActivityEventFilter) ([]domain.ActivityEvent, error) {
	query := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("start_time DESC")

	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}
	if filter.From != nil {
		query = query.Where("start_time >= ?", filter.From)
	}
	if filter.To != nil {
		query = query.Where("start_time <= ?", filter.To)
	}

	if filter.Cursor != "" {
		cursor, err := pagination.DecodeCursor(filter.Cursor)
		if err == nil && cursor != nil {
			// For DESC order: records strictly after the cursor position.
			query = query.Where(
				"(start_time < ?) OR (start_time = ? AND id < ?)",
				cursor.StartTime, cursor.StartTime, cursor.ID,
			)
		}
	}

	// Fetch one extra to determine if there are more results
	limit := pagination.NormalizeLimit(filter.Limit)
	query = query.Limit(limit + 1)

	var events []domain.ActivityEvent
	if err := query.Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}
