package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/blaisecz/habit-lab/internal/domain"
	"github.com/google/uuid"
)

func seedEvents(t *testing.T, repo *MockActivityEventRepository, userID uuid.UUID, n int) {
	t.Helper()
	base := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	events := make([]domain.ActivityEvent, 0, n)
	for i := 0; i < n; i++ {
		start := base.Add(time.Duration(i) * 24 * time.Hour)
		events = append(events, domain.ActivityEvent{
			UserID:    userID,
			Type:      domain.ActivityMove,
			SourceID:  start.Format("2006-01-02"),
			StartTime: start,
			EndTime:   start.Add(12 * time.Hour),
			Steps:     9000 + i,
		})
	}
	if err := repo.Upsert(context.Background(), events); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
}

func TestActivityEventService_List(t *testing.T) {
	users := NewMockUserRepository()
	userID := uuid.New()
	users.users[userID] = &domain.User{ID: userID, Timezone: "UTC"}

	repo := NewMockActivityEventRepository()
	seedEvents(t, repo, userID, 5)
	svc := NewActivityEventService(repo, users)

	resp, err := svc.List(context.Background(), userID, domain.ActivityEventFilter{Limit: 3})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}

	if len(resp.Data) != 3 {
		t.Fatalf("page size = %d, want 3", len(resp.Data))
	}
	if !resp.Pagination.HasMore {
		t.Error("HasMore = false, want true")
	}
	if resp.Pagination.NextCursor == "" {
		t.Error("expected a next cursor")
	}
	// Newest first.
	if !resp.Data[0].StartTime.After(resp.Data[1].StartTime) {
		t.Error("events not ordered newest first")
	}
}

func TestActivityEventService_List_LastPage(t *testing.T) {
	users := NewMockUserRepository()
	userID := uuid.New()
	users.users[userID] = &domain.User{ID: userID, Timezone: "UTC"}

	repo := NewMockActivityEventRepository()
	seedEvents(t, repo, userID, 2)
	svc := NewActivityEventService(repo, users)

	resp, err := svc.List(context.Background(), userID, domain.ActivityEventFilter{Limit: 5})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}

	if len(resp.Data) != 2 {
		t.Fatalf("page size = %d, want 2", len(resp.Data))
	}
	if resp.Pagination.HasMore {
		t.Error("HasMore = true, want false")
	}
	if resp.Pagination.NextCursor != "" {
		t.Errorf("NextCursor = %q, want empty", resp.Pagination.NextCursor)
	}
}

func TestActivityEventService_List_TypeFilter(t *testing.T) {
	users := NewMockUserRepository()
	userID := uuid.New()
	users.users[userID] = &domain.User{ID: userID, Timezone: "UTC"}

	repo := NewMockActivityEventRepository()
	seedEvents(t, repo, userID, 2)
	sleepType := domain.ActivitySleep
	svc := NewActivityEventService(repo, users)

	resp, err := svc.List(context.Background(), userID, domain.ActivityEventFilter{Type: &sleepType})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(resp.Data) != 0 {
		t.Errorf("sleep events = %d, want 0", len(resp.Data))
	}
}

func TestActivityEventService_List_UnknownUser(t *testing.T) {
	svc := NewActivityEventService(NewMockActivityEventRepository(), NewMockUserRepository())

	_, err := svc.List(context.Background(), uuid.New(), domain.ActivityEventFilter{})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("List() error = %v, want ErrNotFound", err)
	}
}
