package handler

import (
	"context"
	"time"

	"github.com/blaisecz/habit-lab/internal/domain"
	"github.com/google/uuid"
)

// MockUserService is a mock implementation of UserService
type MockUserService struct {
	createFunc  func(ctx context.Context, req *domain.CreateUserRequest) (*domain.User, error)
	getByIDFunc func(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

func (m *MockUserService) Create(ctx context.Context, req *domain.CreateUserRequest) (*domain.User, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, req)
	}
	return &domain.User{ID: uuid.New(), Timezone: req.Timezone}, nil
}

func (m *MockUserService) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, domain.ErrNotFound
}

// MockExperimentService is a mock implementation of ExperimentService
type MockExperimentService struct {
	startFunc    func(ctx context.Context, userID uuid.UUID, req *domain.StartExperimentRequest) (*domain.Experiment, error)
	checkinFunc  func(ctx context.Context, userID, experimentID uuid.UUID, req *domain.CheckinRequest) (*domain.CheckinResponse, error)
	snapshotFunc func(ctx context.Context, userID, experimentID uuid.UUID) (*domain.StageSnapshotResponse, error)
	cancelFunc   func(ctx context.Context, userID, experimentID uuid.UUID, req *domain.CancelExperimentRequest) ([]domain.ExperimentSummary, error)
	listFunc     func(ctx context.Context, userID uuid.UUID) ([]domain.ExperimentSummary, error)
}

func (m *MockExperimentService) Start(ctx context.Context, userID uuid.UUID, req *domain.StartExperimentRequest) (*domain.Experiment, error) {
	if m.startFunc != nil {
		return m.startFunc(ctx, userID, req)
	}
	return domain.NewExperiment(userID, req.Type, time.Now().UTC(), time.UTC)
}

func (m *MockExperimentService) RecordCheckin(ctx context.Context, userID, experimentID uuid.UUID, req *domain.CheckinRequest) (*domain.CheckinResponse, error) {
	if m.checkinFunc != nil {
		return m.checkinFunc(ctx, userID, experimentID, req)
	}
	return &domain.CheckinResponse{Day: 1}, nil
}

func (m *MockExperimentService) Snapshot(ctx context.Context, userID, experimentID uuid.UUID) (*domain.StageSnapshotResponse, error) {
	if m.snapshotFunc != nil {
		return m.snapshotFunc(ctx, userID, experimentID)
	}
	return &domain.StageSnapshotResponse{IsActive: true}, nil
}

func (m *MockExperimentService) Cancel(ctx context.Context, userID, experimentID uuid.UUID, req *domain.CancelExperimentRequest) ([]domain.ExperimentSummary, error) {
	if m.cancelFunc != nil {
		return m.cancelFunc(ctx, userID, experimentID, req)
	}
	return []domain.ExperimentSummary{}, nil
}

func (m *MockExperimentService) List(ctx context.Context, userID uuid.UUID) ([]domain.ExperimentSummary, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, userID)
	}
	return []domain.ExperimentSummary{}, nil
}

// MockSummaryService is a mock implementation of SummaryService
type MockSummaryService struct {
	generateFunc func(ctx context.Context, userID, experimentID uuid.UUID) (*domain.SummaryResponse, error)
}

func (m *MockSummaryService) Generate(ctx context.Context, userID, experimentID uuid.UUID) (*domain.SummaryResponse, error) {
	if m.generateFunc != nil {
		return m.generateFunc(ctx, userID, experimentID)
	}
	return &domain.SummaryResponse{}, nil
}

// MockActivityEventService is a mock implementation of ActivityEventService
type MockActivityEventService struct {
	listFunc func(ctx context.Context, userID uuid.UUID, filter domain.ActivityEventFilter) (*domain.ActivityEventListResponse, error)
}

func (m *MockActivityEventService) List(ctx context.Context, userID uuid.UUID, filter domain.ActivityEventFilter) (*domain.ActivityEventListResponse, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, userID, filter)
	}
	return &domain.ActivityEventListResponse{
		Data:       []domain.ActivityEventResponse{},
		Pagination: domain.PaginationResponse{HasMore: false},
	}, nil
}

// MockSyncService is a mock implementation of wearable.SyncService
type MockSyncService struct {
	syncedIDs [][]string
	err       error
}

func (m *MockSyncService) SyncUser(ctx context.Context, user *domain.User) (int, error) {
	return 0, m.err
}

func (m *MockSyncService) SyncAll(ctx context.Context) error {
	return m.err
}

func (m *MockSyncService) SyncFeedUsers(ctx context.Context, feedUserIDs []string) error {
	m.syncedIDs = append(m.syncedIDs, feedUserIDs)
	return m.err
}
