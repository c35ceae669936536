package service

import (
	"context"
	"sort"
	"time"

	"github.com/blaisecz/habit-lab/internal/domain"
	"github.com/google/uuid"
)

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	users map[uuid.UUID]*domain.User
	err   error
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{users: make(map[uuid.UUID]*domain.User)}
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	if m.err != nil {
		return m.err
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	user.CreatedAt = time.Now()
	m.users[user.ID] = user
	return nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	user, ok := m.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return user, nil
}

func (m *MockUserRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	_, ok := m.users[id]
	return ok, nil
}

func (m *MockUserRepository) ListWithFeedCredentials(ctx context.Context) ([]domain.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	var result []domain.User
	for _, user := range m.users {
		if user.FeedUserID != "" && user.FeedAccessToken != "" {
			result = append(result, *user)
		}
	}
	return result, nil
}

// MockExperimentRepository is a mock implementation of ExperimentRepository
type MockExperimentRepository struct {
	experiments map[uuid.UUID]*domain.Experiment
	checkins    *MockCheckinRepository
	err         error
	savedCount  int
}

func NewMockExperimentRepository() *MockExperimentRepository {
	return &MockExperimentRepository{experiments: make(map[uuid.UUID]*domain.Experiment)}
}

func (m *MockExperimentRepository) Create(ctx context.Context, exp *domain.Experiment) error {
	if m.err != nil {
		return m.err
	}
	if exp.ID == uuid.Nil {
		exp.ID = uuid.New()
	}
	exp.CreatedAt = time.Now()
	m.experiments[exp.ID] = exp
	return nil
}

func (m *MockExperimentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Experiment, error) {
	if m.err != nil {
		return nil, m.err
	}
	exp, ok := m.experiments[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return exp, nil
}

func (m *MockExperimentRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Experiment, error) {
	if m.err != nil {
		return nil, m.err
	}
	var result []domain.Experiment
	for _, exp := range m.experiments {
		if exp.UserID == userID {
			result = append(result, *exp)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].StartTime.Before(result[j].StartTime)
	})
	return result, nil
}

func (m *MockExperimentRepository) HasActive(ctx context.Context, userID uuid.UUID) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	for _, exp := range m.experiments {
		if exp.UserID == userID && exp.IsActive {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockExperimentRepository) Update(ctx context.Context, exp *domain.Experiment) error {
	if m.err != nil {
		return m.err
	}
	m.experiments[exp.ID] = exp
	m.savedCount++
	return nil
}

func (m *MockExperimentRepository) SaveWithCheckin(ctx context.Context, exp *domain.Experiment, checkin *domain.Checkin) error {
	if m.err != nil {
		return m.err
	}
	m.experiments[exp.ID] = exp
	m.savedCount++
	if m.checkins != nil {
		m.checkins.add(*checkin)
	}
	return nil
}

// MockCheckinRepository is a mock implementation of CheckinRepository
type MockCheckinRepository struct {
	checkins []domain.Checkin
	err      error
}

func NewMockCheckinRepository() *MockCheckinRepository {
	return &MockCheckinRepository{}
}

func (m *MockCheckinRepository) add(c domain.Checkin) {
	m.checkins = append(m.checkins, c)
}

func (m *MockCheckinRepository) ListByExperiment(ctx context.Context, experimentID uuid.UUID) ([]domain.Checkin, error) {
	if m.err != nil {
		return nil, m.err
	}
	var result []domain.Checkin
	for _, c := range m.checkins {
		if c.ExperimentID == experimentID {
			result = append(result, c)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CheckinTime.Before(result[j].CheckinTime)
	})
	return result, nil
}

// MockActivityEventRepository is a mock implementation of ActivityEventRepository
type MockActivityEventRepository struct {
	events []domain.ActivityEvent
	err    error
}

func NewMockActivityEventRepository() *MockActivityEventRepository {
	return &MockActivityEventRepository{}
}

func (m *MockActivityEventRepository) Upsert(ctx context.Context, events []domain.ActivityEvent) error {
	if m.err != nil {
		return m.err
	}
	for _, ev := range events {
		replaced := false
		for i := range m.events {
			if m.events[i].UserID == ev.UserID && m.events[i].Type == ev.Type && m.events[i].SourceID == ev.SourceID {
				ev.ID = m.events[i].ID
				m.events[i] = ev
				replaced = true
				break
			}
		}
		if !replaced {
			if ev.ID == uuid.Nil {
				ev.ID = uuid.New()
			}
			m.events = append(m.events, ev)
		}
	}
	return nil
}

func (m *MockActivityEventRepository) ListForAnalysis(ctx context.Context, userID uuid.UUID, from time.Time) ([]domain.ActivityEvent, error) {
	if m.err != nil {
		return nil, m.err
	}
	var result []domain.ActivityEvent
	for _, ev := range m.events {
		if ev.UserID == userID && !ev.EndTime.Before(from) {
			result = append(result, ev)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].StartTime.Before(result[j].StartTime)
	})
	return result, nil
}

func (m *MockActivityEventRepository) List(ctx context.Context, userID uuid.UUID, filter domain.ActivityEventFilter) ([]domain.ActivityEvent, error) {
	if m.err != nil {
		return nil, m.err
	}
	var result []domain.ActivityEvent
	for _, ev := range m.events {
		if ev.UserID != userID {
			continue
		}
		if filter.Type != nil && ev.Type != *filter.Type {
			continue
		}
		result = append(result, ev)
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].StartTime.After(result[j].StartTime)
	})
	return result, nil
}

// MockSummaryLLM is a mock implementation of llm.SummaryLLM
type MockSummaryLLM struct {
	output  *domain.LLMSummaryOutput
	lastCtx *domain.SummaryContext
	err     error
}

func (m *MockSummaryLLM) GenerateSummary(ctx context.Context, summaryCtx *domain.SummaryContext) (*domain.LLMSummaryOutput, error) {
	m.lastCtx = summaryCtx
	if m.err != nil {
		return nil, m.err
	}
	if m.output != nil {
		return m.output, nil
	}
	return &domain.LLMSummaryOutput{Summary: "ok"}, nil
}
