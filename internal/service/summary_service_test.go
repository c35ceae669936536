package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/blaisecz/habit-lab/internal/domain"
	"github.com/blaisecz/habit-lab/internal/llm"
	"github.com/google/uuid"
)

func TestSummaryService_Generate(t *testing.T) {
	users := NewMockUserRepository()
	userID := uuid.New()
	users.users[userID] = &domain.User{ID: userID, Timezone: "UTC"}

	repo := NewMockExperimentRepository()
	start := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	end := start.Add(20 * 24 * time.Hour)

	exp, err := domain.NewExperiment(userID, domain.TypeLeisureHappiness, start, time.UTC)
	if err != nil {
		t.Fatalf("NewExperiment() error = %v", err)
	}
	exp.IsActive = false
	exp.EndTime = &end
	exp.CurrentStage = domain.NumStages + 1
	exp.ResultValue = 90
	exp.ResultConfidence = 0.7
	if err := exp.SetStageResultList([]domain.StageResult{
		{Stage: 1, Target: 90, MeanOutput: 8, MinOutput: 7, MaxOutput: 9},
		{Stage: 2, Target: 30, MeanOutput: 4, MinOutput: 3, MaxOutput: 5},
		{Stage: 3, Target: 60, MeanOutput: 6, MinOutput: 5, MaxOutput: 7},
	}); err != nil {
		t.Fatalf("SetStageResultList() error = %v", err)
	}
	repo.experiments[exp.ID] = exp

	mock := &MockSummaryLLM{output: &domain.LLMSummaryOutput{
		Summary:      "90 minutes of leisure worked best.",
		Observations: []string{"stage 1 had the highest happiness"},
		Guidance:     []string{"protect a 90 minute block daily"},
	}}

	svc := NewSummaryService(repo, users, mock).(*summaryService)
	svc.now = func() time.Time { return end }

	resp, err := svc.Generate(context.Background(), userID, exp.ID)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if resp.ResultValue != 90 || resp.ResultConfidence != 0.7 {
		t.Errorf("result = (%v, %v), want (90, 0.7)", resp.ResultValue, resp.ResultConfidence)
	}
	if resp.Narrative.Summary != "90 minutes of leisure worked best." {
		t.Errorf("Narrative.Summary = %q", resp.Narrative.Summary)
	}

	if mock.lastCtx == nil {
		t.Fatal("LLM was not called")
	}
	if mock.lastCtx.Behavior != "daily leisure minutes" || mock.lastCtx.Outcome != "self-reported happiness" {
		t.Errorf("context labels = (%q, %q)", mock.lastCtx.Behavior, mock.lastCtx.Outcome)
	}
	if !mock.lastCtx.Maximize {
		t.Error("leisure experiment should maximize the outcome")
	}
	if mock.lastCtx.Days != 21 {
		t.Errorf("Days = %d, want 21", mock.lastCtx.Days)
	}
	if len(mock.lastCtx.StageResults) != 3 {
		t.Errorf("StageResults = %d, want 3", len(mock.lastCtx.StageResults))
	}
}

func TestSummaryService_Generate_ActiveRejected(t *testing.T) {
	users := NewMockUserRepository()
	userID := uuid.New()
	users.users[userID] = &domain.User{ID: userID, Timezone: "UTC"}

	repo := NewMockExperimentRepository()
	exp, err := domain.NewExperiment(userID, domain.TypeLeisureHappiness, time.Now().UTC(), time.UTC)
	if err != nil {
		t.Fatalf("NewExperiment() error = %v", err)
	}
	repo.experiments[exp.ID] = exp

	svc := NewSummaryService(repo, users, &MockSummaryLLM{})
	_, err = svc.Generate(context.Background(), userID, exp.ID)
	if !errors.Is(err, domain.ErrInvalidState) {
		t.Errorf("Generate() error = %v, want ErrInvalidState", err)
	}
}

func TestSummaryService_Generate_LLMUnavailable(t *testing.T) {
	users := NewMockUserRepository()
	userID := uuid.New()
	users.users[userID] = &domain.User{ID: userID, Timezone: "UTC"}

	repo := NewMockExperimentRepository()
	now := time.Now().UTC()
	exp, err := domain.NewExperiment(userID, domain.TypeSleepVariabilityStress, now, time.UTC)
	if err != nil {
		t.Fatalf("NewExperiment() error = %v", err)
	}
	exp.IsActive = false
	exp.EndTime = &now
	exp.IsCancelled = true
	repo.experiments[exp.ID] = exp

	svc := NewSummaryService(repo, users, &MockSummaryLLM{err: llm.ErrOpenAIUnavailable})
	_, err = svc.Generate(context.Background(), userID, exp.ID)
	if !errors.Is(err, llm.ErrOpenAIUnavailable) {
		t.Errorf("Generate() error = %v, want ErrOpenAIUnavailable", err)
	}
}
