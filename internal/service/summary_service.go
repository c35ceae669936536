package service

import (
	"context"
	"time"

	"github.com/blaisecz/habit-lab/internal/domain"
	"github.com/blaisecz/habit-lab/internal/engine"
	"github.com/blaisecz/habit-lab/internal/llm"
	"github.com/blaisecz/habit-lab/internal/repository"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// SummaryService narrates finished experiments with an LLM.
type SummaryService interface {
	// Generate builds the narration for a finished experiment.
	Generate(ctx context.Context, userID, experimentID uuid.UUID) (*domain.SummaryResponse, error)
}

type summaryService struct {
	repo      repository.ExperimentRepository
	userRepo  repository.UserRepository
	llmClient llm.SummaryLLM
	now       func() time.Time
}

func NewSummaryService(repo repository.ExperimentRepository, userRepo repository.UserRepository, llmClient llm.SummaryLLM) SummaryService {
	return &summaryService{
		repo:      repo,
		userRepo:  userRepo,
		llmClient: llmClient,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *summaryService) Generate(ctx context.Context, userID, experimentID uuid.UUID) (*domain.SummaryResponse, error) {
	tracer := otel.Tracer("habit-lab-api/summary")
	ctx, span := tracer.Start(ctx, "SummaryService.Generate",
		trace.WithAttributes(
			attribute.String("user.id", userID.String()),
			attribute.String("experiment.id", experimentID.String()),
		),
	)
	defer span.End()

	exists, err := s.userRepo.Exists(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, domain.ErrNotFound
	}

	exp, err := s.repo.GetByID(ctx, experimentID)
	if err != nil {
		return nil, err
	}
	if exp.UserID != userID {
		return nil, domain.ErrNotFound
	}
	if !exp.IsTerminal() {
		return nil, domain.ErrInvalidState
	}

	strategy, ok := engine.StrategyFor(exp.Type)
	if !ok {
		return nil, domain.ErrDataIntegrity
	}

	results, err := exp.StageResultList()
	if err != nil {
		return nil, err
	}
	restarts, err := exp.RestartCounts()
	if err != nil {
		return nil, err
	}

	summaryCtx := &domain.SummaryContext{
		Type:             exp.Type,
		Behavior:         strategy.Behavior,
		Outcome:          strategy.Outcome,
		Maximize:         !strategy.MinimizesResult,
		Days:             exp.DaysElapsed(s.now()),
		IsCancelled:      exp.IsCancelled,
		ResultValue:      exp.ResultValue,
		ResultConfidence: exp.ResultConfidence,
		RestartCounts:    restarts[:],
		StageResults:     results,
	}

	narrative, err := s.llmClient.GenerateSummary(ctx, summaryCtx)
	if err != nil {
		return nil, err
	}

	return &domain.SummaryResponse{
		ExperimentID:     exp.ID.String(),
		Type:             exp.Type,
		ResultValue:      exp.ResultValue,
		ResultConfidence: exp.ResultConfidence,
		Narrative:        *narrative,
	}, nil
}
