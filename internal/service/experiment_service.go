package service

import (
	"context"
	"time"

	"github.com/blaisecz/habit-lab/internal/domain"
	"github.com/blaisecz/habit-lab/internal/engine"
	"github.com/blaisecz/habit-lab/internal/repository"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// eventLookback pads the analysis window so sleep events that start before
// the experiment's first day boundary (the sleep day runs from the prior
// evening) are still loaded.
const eventLookback = 48 * time.Hour

type ExperimentService interface {
	Start(ctx context.Context, userID uuid.UUID, req *domain.StartExperimentRequest) (*domain.Experiment, error)
	RecordCheckin(ctx context.Context, userID, experimentID uuid.UUID, req *domain.CheckinRequest) (*domain.CheckinResponse, error)
	Snapshot(ctx context.Context, userID, experimentID uuid.UUID) (*domain.StageSnapshotResponse, error)
	Cancel(ctx context.Context, userID, experimentID uuid.UUID, req *domain.CancelExperimentRequest) ([]domain.ExperimentSummary, error)
	List(ctx context.Context, userID uuid.UUID) ([]domain.ExperimentSummary, error)
}

type experimentService struct {
	repo        repository.ExperimentRepository
	checkinRepo repository.CheckinRepository
	eventRepo   repository.ActivityEventRepository
	userRepo    repository.UserRepository
	now         func() time.Time
}

func NewExperimentService(
	repo repository.ExperimentRepository,
	checkinRepo repository.CheckinRepository,
	eventRepo repository.ActivityEventRepository,
	userRepo repository.UserRepository,
) ExperimentService {
	return &experimentService{
		repo:        repo,
		checkinRepo: checkinRepo,
		eventRepo:   eventRepo,
		userRepo:    userRepo,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// Start opens a new experiment with the baseline stage running from today.
// A user can run at most one active experiment at a time.
func (s *experimentService) Start(ctx context.Context, userID uuid.UUID, req *domain.StartExperimentRequest) (*domain.Experiment, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if _, ok := engine.StrategyFor(req.Type); !ok {
		return nil, domain.ErrInvalidInput
	}

	hasActive, err := s.repo.HasActive(ctx, userID)
	if err != nil {
		return nil, err
	}
	if hasActive {
		return nil, domain.ErrConflict
	}

	exp, err := domain.NewExperiment(userID, req.Type, s.now(), user.Location())
	if err != nil {
		return nil, err
	}
	exp.SelfEfficacy = req.SelfEfficacy
	exp.AppEfficacy = req.AppEfficacy
	exp.ExperimentEfficacy = req.ExperimentEfficacy

	if err := s.repo.Create(ctx, exp); err != nil {
		return nil, err
	}
	return exp, nil
}

// RecordCheckin appends today's self-report, runs the staging pipeline and
// persists the check-in together with the resulting experiment state.
func (s *experimentService) RecordCheckin(ctx context.Context, userID, experimentID uuid.UUID, req *domain.CheckinRequest) (*domain.CheckinResponse, error) {
	tracer := otel.Tracer("habit-lab-api/experiments")
	ctx, span := tracer.Start(ctx, "ExperimentService.RecordCheckin",
		trace.WithAttributes(
			attribute.String("user.id", userID.String()),
			attribute.String("experiment.id", experimentID.String()),
		),
	)
	defer span.End()

	exp, user, err := s.loadOwned(ctx, userID, experimentID)
	if err != nil {
		return nil, err
	}
	if exp.IsTerminal() {
		return nil, domain.ErrInvalidState
	}

	run, checkin, err := s.buildRun(ctx, exp, user, req)
	if err != nil {
		return nil, err
	}

	resp, err := run.ProcessCheckin(checkin)
	if err != nil {
		return nil, err
	}

	if err := s.repo.SaveWithCheckin(ctx, exp, checkin); err != nil {
		return nil, err
	}

	span.SetAttributes(
		attribute.Int("experiment.stage", resp.CurrentStage),
		attribute.Bool("experiment.complete", resp.IsComplete),
	)
	return resp, nil
}

// Snapshot builds the read-only stage view without advancing the stage
// machine or persisting anything.
func (s *experimentService) Snapshot(ctx context.Context, userID, experimentID uuid.UUID) (*domain.StageSnapshotResponse, error) {
	exp, user, err := s.loadOwned(ctx, userID, experimentID)
	if err != nil {
		return nil, err
	}

	run, _, err := s.buildRun(ctx, exp, user, nil)
	if err != nil {
		return nil, err
	}
	return run.Snapshot()
}

// Cancel abandons an active experiment and returns the refreshed listing.
func (s *experimentService) Cancel(ctx context.Context, userID, experimentID uuid.UUID, req *domain.CancelExperimentRequest) ([]domain.ExperimentSummary, error) {
	exp, _, err := s.loadOwned(ctx, userID, experimentID)
	if err != nil {
		return nil, err
	}
	if exp.IsTerminal() {
		return nil, domain.ErrInvalidState
	}

	now := s.now()
	exp.IsActive = false
	exp.IsCancelled = true
	exp.CancelReason = req.Reason
	exp.EndTime = &now

	if err := s.repo.Update(ctx, exp); err != nil {
		return nil, err
	}
	return s.List(ctx, userID)
}

// List returns one summary row per experiment the user has run, oldest
// first.
func (s *experimentService) List(ctx context.Context, userID uuid.UUID) ([]domain.ExperimentSummary, error) {
	exists, err := s.userRepo.Exists(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, domain.ErrNotFound
	}

	exps, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	summaries := make([]domain.ExperimentSummary, 0, len(exps))
	for i := range exps {
		summaries = append(summaries, exps[i].ToSummary(now))
	}
	return summaries, nil
}

// loadOwned fetches an experiment and its owner, hiding other users'
// experiments behind ErrNotFound.
func (s *experimentService) loadOwned(ctx context.Context, userID, experimentID uuid.UUID) (*domain.Experiment, *domain.User, error) {
	exp, err := s.repo.GetByID(ctx, experimentID)
	if err != nil {
		return nil, nil, err
	}
	if exp.UserID != userID {
		return nil, nil, domain.ErrNotFound
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	return exp, user, nil
}

// buildRun loads the experiment's check-in and wearable history and
// assembles the in-memory staging run. When req is non-nil a new check-in
// stamped with the current time is appended to the history and returned for
// persistence.
func (s *experimentService) buildRun(ctx context.Context, exp *domain.Experiment, user *domain.User, req *domain.CheckinRequest) (*engine.Run, *domain.Checkin, error) {
	checkins, err := s.checkinRepo.ListByExperiment(ctx, exp.ID)
	if err != nil {
		return nil, nil, err
	}

	events, err := s.eventRepo.ListForAnalysis(ctx, user.ID, exp.StartTime.Add(-eventLookback))
	if err != nil {
		return nil, nil, err
	}

	var checkin *domain.Checkin
	if req != nil {
		checkin = &domain.Checkin{
			ID:                    uuid.New(),
			ExperimentID:          exp.ID,
			CheckinTime:           s.now(),
			DidFollowInstructions: req.DidFollowInstructions,
			Happiness:             req.Happiness,
			Stress:                req.Stress,
			Productivity:          req.Productivity,
			LeisureTime:           req.LeisureTime,
			AppVersion:            req.AppVersion,
		}
		checkins = append(checkins, *checkin)
	}

	run, err := engine.NewRun(exp, checkins, events, user.Location(), s.now())
	if err != nil {
		return nil, nil, err
	}
	return run, checkin, nil
}
