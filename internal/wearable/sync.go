package wearable

import (
	"context"
	"time"

	"github.com/blaisecz/habit-lab/internal/domain"
	"github.com/blaisecz/habit-lab/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

// SyncService pulls events from the wearable feed into the local store.
type SyncService interface {
	// SyncUser refreshes one user's events for every local day in the
	// lookback window.
	SyncUser(ctx context.Context, user *domain.User) (int, error)
	// SyncAll refreshes every user that has feed credentials.
	SyncAll(ctx context.Context) error
	// SyncFeedUsers refreshes the users the feed names in a webhook ping.
	// Unknown feed ids are ignored; an empty list syncs everyone.
	SyncFeedUsers(ctx context.Context, feedUserIDs []string) error
}

type syncService struct {
	client    FeedClient
	eventRepo repository.ActivityEventRepository
	userRepo  repository.UserRepository
	lookback  time.Duration
	log       *zap.Logger
	now       func() time.Time
}

func NewSyncService(
	client FeedClient,
	eventRepo repository.ActivityEventRepository,
	userRepo repository.UserRepository,
	lookback time.Duration,
	log *zap.Logger,
) SyncService {
	return &syncService{
		client:    client,
		eventRepo: eventRepo,
		userRepo:  userRepo,
		lookback:  lookback,
		log:       log,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *syncService) SyncUser(ctx context.Context, user *domain.User) (int, error) {
	if s.client == nil || user.FeedAccessToken == "" {
		return 0, nil
	}

	// The feed reports events by the user's local day; walk the lookback
	// window in their timezone so no boundary day is skipped.
	loc := user.Location()
	today := s.now().In(loc)
	days := int(s.lookback/(24*time.Hour)) + 1

	var events []domain.ActivityEvent
	for back := 0; back < days; back++ {
		day := today.AddDate(0, 0, -back)
		for _, pull := range []struct {
			kind feedKind
			as   domain.ActivityType
		}{
			{kindSleeps, domain.ActivitySleep},
			{kindMoves, domain.ActivityMove},
		} {
			items, err := s.client.FetchDay(ctx, user.FeedAccessToken, pull.kind, day)
			if err != nil {
				return 0, err
			}
			for _, item := range items {
				events = append(events, toActivityEvent(user.ID, pull.as, item))
			}
		}
	}

	if len(events) == 0 {
		return 0, nil
	}
	if err := s.eventRepo.Upsert(ctx, events); err != nil {
		return 0, err
	}
	return len(events), nil
}

func (s *syncService) SyncAll(ctx context.Context) error {
	users, err := s.userRepo.ListWithFeedCredentials(ctx)
	if err != nil {
		return err
	}

	for i := range users {
		user := &users[i]
		count, err := s.SyncUser(ctx, user)
		if err != nil {
			// One user's feed trouble must not starve the rest.
			s.log.Error("feed sync failed",
				zap.String("user_id", user.ID.String()),
				zap.Error(err))
			continue
		}
		if count > 0 {
			s.log.Info("feed sync imported events",
				zap.String("user_id", user.ID.String()),
				zap.Int("events", count))
		}
	}
	return nil
}

func (s *syncService) SyncFeedUsers(ctx context.Context, feedUserIDs []string) error {
	if len(feedUserIDs) == 0 {
		return s.SyncAll(ctx)
	}

	users, err := s.userRepo.ListWithFeedCredentials(ctx)
	if err != nil {
		return err
	}

	wanted := make(map[string]bool, len(feedUserIDs))
	for _, id := range feedUserIDs {
		wanted[id] = true
	}

	for i := range users {
		user := &users[i]
		if !wanted[user.FeedUserID] {
			continue
		}
		if _, err := s.SyncUser(ctx, user); err != nil {
			s.log.Error("webhook sync failed",
				zap.String("user_id", user.ID.String()),
				zap.Error(err))
		}
	}
	return nil
}

// toActivityEvent converts a feed item to the stored event shape. Feed
// durations are seconds; the store keeps minutes.
func toActivityEvent(userID uuid.UUID, actType domain.ActivityType, item FeedItem) domain.ActivityEvent {
	duration := item.Details.Duration
	if actType == domain.ActivityMove {
		duration = item.Details.ActiveSeconds
	}
	return domain.ActivityEvent{
		UserID:          userID,
		Type:            actType,
		SourceID:        item.XID,
		StartTime:       item.Start(),
		EndTime:         item.End(),
		DurationMinutes: duration / 60,
		Steps:           item.Details.Steps,
		DistanceMeters:  item.Details.Distance,
		AwakeMinutes:    item.Details.AwakeSeconds / 60,
		RawPayload:      datatypes.JSON(item.Raw),
	}
}
