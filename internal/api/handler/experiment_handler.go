package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/blaisecz/habit-lab/internal/api/validation"
	"github.com/blaisecz/habit-lab/internal/domain"
	"github.com/blaisecz/habit-lab/internal/llm"
	"github.com/blaisecz/habit-lab/internal/service"
	"github.com/blaisecz/habit-lab/pkg/problem"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type ExperimentHandler struct {
	service        service.ExperimentService
	summaryService service.SummaryService
}

func NewExperimentHandler(service service.ExperimentService, summaryService service.SummaryService) *ExperimentHandler {
	return &ExperimentHandler{
		service:        service,
		summaryService: summaryService,
	}
}

// Start handles POST /v1/users/{userId}/experiments
// @Summary Start an experiment
// @Description Open a new experiment with the baseline stage running from today. A user can run only one active experiment at a time.
// @Tags experiments
// @Accept json
// @Produce json
// @Param userId path string true "User UUID" format(uuid)
// @Param request body domain.StartExperimentRequest true "Experiment type and efficacy self-ratings"
// @Success 201 {object} domain.Experiment
// @Failure 400 {object} problem.Problem "Invalid request body"
// @Failure 404 {object} problem.Problem "User not found"
// @Failure 409 {object} problem.Problem "Another experiment is already active"
// @Failure 500 {object} problem.Problem "Server error"
// @Router /users/{userId}/experiments [post]
func (h *ExperimentHandler) Start(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "userId"))
	if err != nil {
		problem.BadRequest("Invalid user ID format").Write(w)
		return
	}

	var req domain.StartExperimentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		problem.BadRequest("Invalid JSON body").Write(w)
		return
	}

	if fieldErrors := validation.Validate(req); fieldErrors != nil {
		problem.ValidationError("Request body contains invalid fields", fieldErrors).Write(w)
		return
	}

	exp, err := h.service.Start(r.Context(), userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			problem.NotFound("User not found").Write(w)
		case errors.Is(err, domain.ErrConflict):
			problem.Conflict("An active experiment already exists").Write(w)
		case errors.Is(err, domain.ErrInvalidInput):
			problem.BadRequest("Unknown experiment type").Write(w)
		default:
			problem.InternalError("Failed to start experiment").Write(w)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(exp)
}

// List handles GET /v1/users/{userId}/experiments
// @Summary List experiments
// @Description List all of a user's experiments, oldest first.
// @Tags experiments
// @Produce json
// @Param userId path string true "User UUID" format(uuid)
// @Success 200 {array} domain.ExperimentSummary
// @Failure 400 {object} problem.Problem "Invalid user ID"
// @Failure 404 {object} problem.Problem "User not found"
// @Failure 500 {object} problem.Problem "Server error"
// @Router /users/{userId}/experiments [get]
func (h *ExperimentHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "userId"))
	if err != nil {
		problem.BadRequest("Invalid user ID format").Write(w)
		return
	}

	summaries, err := h.service.List(r.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			problem.NotFound("User not found").Write(w)
			return
		}
		problem.InternalError("Failed to list experiments").Write(w)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(summaries)
}

// Checkin handles POST /v1/users/{userId}/experiments/{experimentId}/checkins
// @Summary Record a daily check-in
// @Description Record today's self-report and advance the experiment's stage machine. The ratings answer about the previous day.
// @Tags experiments
// @Accept json
// @Produce json
// @Param userId path string true "User UUID" format(uuid)
// @Param experimentId path string true "Experiment UUID" format(uuid)
// @Param request body domain.CheckinRequest true "Daily self-report"
// @Success 200 {object} domain.CheckinResponse "Stage state after processing, with final results if the experiment completed"
// @Failure 400 {object} problem.Problem "Invalid request body"
// @Failure 404 {object} problem.Problem "User or experiment not found"
// @Failure 409 {object} problem.Problem "Experiment already finished or cancelled"
// @Failure 500 {object} problem.Problem "Server error"
// @Router /users/{userId}/experiments/{experimentId}/checkins [post]
func (h *ExperimentHandler) Checkin(w http.ResponseWriter, r *http.Request) {
	userID, experimentID, ok := parseIDs(w, r)
	if !ok {
		return
	}

	var req domain.CheckinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		problem.BadRequest("Invalid JSON body").Write(w)
		return
	}

	if fieldErrors := validation.Validate(req); fieldErrors != nil {
		problem.ValidationError("Request body contains invalid fields", fieldErrors).Write(w)
		return
	}

	resp, err := h.service.RecordCheckin(r.Context(), userID, experimentID, &req)
	if err != nil {
		writeExperimentError(w, err, "Failed to record check-in")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// Snapshot handles GET /v1/users/{userId}/experiments/{experimentId}
// @Summary Get the current stage view
// @Description Read the current stage's day-by-day inputs, outputs and today's target without advancing anything.
// @Tags experiments
// @Produce json
// @Param userId path string true "User UUID" format(uuid)
// @Param experimentId path string true "Experiment UUID" format(uuid)
// @Success 200 {object} domain.StageSnapshotResponse
// @Failure 400 {object} problem.Problem "Invalid ID"
// @Failure 404 {object} problem.Problem "User or experiment not found"
// @Failure 500 {object} problem.Problem "Server error"
// @Router /users/{userId}/experiments/{experimentId} [get]
func (h *ExperimentHandler) Snapshot(w http.ResponseWriter, r *http.Request) {
	userID, experimentID, ok := parseIDs(w, r)
	if !ok {
		return
	}

	snap, err := h.service.Snapshot(r.Context(), userID, experimentID)
	if err != nil {
		writeExperimentError(w, err, "Failed to read experiment")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(snap)
}

// Cancel handles POST /v1/users/{userId}/experiments/{experimentId}/cancel
// @Summary Cancel an experiment
// @Description Abandon an active experiment with a reason and return the refreshed experiment listing.
// @Tags experiments
// @Accept json
// @Produce json
// @Param userId path string true "User UUID" format(uuid)
// @Param experimentId path string true "Experiment UUID" format(uuid)
// @Param request body domain.CancelExperimentRequest true "Cancellation reason"
// @Success 200 {array} domain.ExperimentSummary
// @Failure 400 {object} problem.Problem "Invalid request body"
// @Failure 404 {object} problem.Problem "User or experiment not found"
// @Failure 409 {object} problem.Problem "Experiment already finished or cancelled"
// @Failure 500 {object} problem.Problem "Server error"
// @Router /users/{userId}/experiments/{experimentId}/cancel [post]
func (h *ExperimentHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	userID, experimentID, ok := parseIDs(w, r)
	if !ok {
		return
	}

	var req domain.CancelExperimentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		problem.BadRequest("Invalid JSON body").Write(w)
		return
	}

	if fieldErrors := validation.Validate(req); fieldErrors != nil {
		problem.ValidationError("Request body contains invalid fields", fieldErrors).Write(w)
		return
	}

	summaries, err := h.service.Cancel(r.Context(), userID, experimentID, &req)
	if err != nil {
		writeExperimentError(w, err, "Failed to cancel experiment")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(summaries)
}

// Summary handles GET /v1/users/{userId}/experiments/{experimentId}/summary
// @Summary Narrate a finished experiment
// @Description Generate an LLM-written narrative of a finished experiment's results.
// @Tags experiments
// @Produce json
// @Param userId path string true "User UUID" format(uuid)
// @Param experimentId path string true "Experiment UUID" format(uuid)
// @Success 200 {object} domain.SummaryResponse
// @Failure 400 {object} problem.Problem "Invalid ID"
// @Failure 404 {object} problem.Problem "User or experiment not found"
// @Failure 409 {object} problem.Problem "Experiment still running"
// @Failure 503 {object} problem.Problem "LLM not configured"
// @Failure 500 {object} problem.Problem "Server error"
// @Router /users/{userId}/experiments/{experimentId}/summary [get]
func (h *ExperimentHandler) Summary(w http.ResponseWriter, r *http.Request) {
	userID, experimentID, ok := parseIDs(w, r)
	if !ok {
		return
	}

	resp, err := h.summaryService.Generate(r.Context(), userID, experimentID)
	if err != nil {
		if errors.Is(err, llm.ErrOpenAIUnavailable) {
			problem.New(http.StatusServiceUnavailable, "llm-unavailable",
				"Service Unavailable", "Summary generation is not configured").Write(w)
			return
		}
		writeExperimentError(w, err, "Failed to generate summary")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// parseIDs extracts the user and experiment UUIDs from the URL, writing a
// 400 problem on malformed input.
func parseIDs(w http.ResponseWriter, r *http.Request) (uuid.UUID, uuid.UUID, bool) {
	userID, err := uuid.Parse(chi.URLParam(r, "userId"))
	if err != nil {
		problem.BadRequest("Invalid user ID format").Write(w)
		return uuid.Nil, uuid.Nil, false
	}
	experimentID, err := uuid.Parse(chi.URLParam(r, "experimentId"))
	if err != nil {
		problem.BadRequest("Invalid experiment ID format").Write(w)
		return uuid.Nil, uuid.Nil, false
	}
	return userID, experimentID, true
}

func writeExperimentError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		problem.NotFound("Experiment not found").Write(w)
	case errors.Is(err, domain.ErrInvalidState):
		problem.InvalidState("Experiment is no longer active").Write(w)
	case errors.Is(err, domain.ErrDataIntegrity):
		problem.InternalError("Experiment record is inconsistent").Write(w)
	default:
		problem.InternalError(fallback).Write(w)
	}
}
