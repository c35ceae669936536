package service

import (
	"context"

	"github.com/blaisecz/habit-lab/internal/domain"
	"github.com/blaisecz/habit-lab/internal/repository"
	"github.com/blaisecz/habit-lab/pkg/pagination"
	"github.com/google/uuid"
)

type ActivityEventService interface {
	List(ctx context.Context, userID uuid.UUID, filter domain.ActivityEventFilter) (*domain.ActivityEventListResponse, error)
}

type activityEventService struct {
	repo     repository.ActivityEventRepository
	userRepo repository.UserRepository
}

func NewActivityEventService(repo repository.ActivityEventRepository, userRepo repository.UserRepository) ActivityEventService {
	return &activityEventService{
		repo:     repo,
		userRepo: userRepo,
	}
}

// List returns imported wearable events, newest first, with cursor
// pagination.
func (s *activityEventService) List(ctx context.Context, userID uuid.UUID, filter domain.ActivityEventFilter) (*domain.ActivityEventListResponse, error) {
	exists, err := s.userRepo.Exists(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, domain.ErrNotFound
	}

	events, err := s.repo.List(ctx, userID, filter)
	if err != nil {
		return nil, err
	}

	// The repository fetches limit+1 rows to detect a next page.
	limit := pagination.NormalizeLimit(filter.Limit)
	hasMore := len(events) > limit
	if hasMore {
		events = events[:limit]
	}

	resp := &domain.ActivityEventListResponse{
		Data: make([]domain.ActivityEventResponse, 0, len(events)),
	}
	for i := range events {
		resp.Data = append(resp.Data, events[i].ToResponse())
	}
	resp.Pagination.HasMore = hasMore
	if hasMore && len(events) > 0 {
		last := events[len(events)-1]
		cursor := pagination.Cursor{StartTime: last.StartTime, ID: last.ID}
		resp.Pagination.NextCursor = cursor.Encode()
	}
	return resp, nil
}
