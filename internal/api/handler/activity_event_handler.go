package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/blaisecz/habit-lab/internal/domain"
	"github.com/blaisecz/habit-lab/internal/service"
	"github.com/blaisecz/habit-lab/pkg/problem"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type ActivityEventHandler struct {
	service service.ActivityEventService
}

func NewActivityEventHandler(service service.ActivityEventService) *ActivityEventHandler {
	return &ActivityEventHandler{service: service}
}

// List handles GET /v1/users/{userId}/activity-events
// @Summary List imported wearable events
// @Description List a user's imported wearable events, newest first, with cursor pagination.
// @Tags activity-events
// @Produce json
// @Param userId path string true "User UUID" format(uuid)
// @Param type query string false "Filter by event type" Enums(sleep, move, workout)
// @Param from query string false "Only events starting at or after this RFC3339 timestamp"
// @Param to query string false "Only events starting at or before this RFC3339 timestamp"
// @Param limit query integer false "Page size" default(20) minimum(1) maximum(100)
// @Param cursor query string false "Opaque pagination cursor from a previous page"
// @Success 200 {object} domain.ActivityEventListResponse
// @Failure 400 {object} problem.Problem "Invalid query parameters"
// @Failure 404 {object} problem.Problem "User not found"
// @Failure 500 {object} problem.Problem "Server error"
// @Router /users/{userId}/activity-events [get]
func (h *ActivityEventHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "userId"))
	if err != nil {
		problem.BadRequest("Invalid user ID format").Write(w)
		return
	}

	filter, fieldErrors := parseEventFilter(r)
	if fieldErrors != nil {
		problem.ValidationError("Invalid query parameters", fieldErrors).Write(w)
		return
	}

	response, err := h.service.List(r.Context(), userID, filter)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			problem.NotFound("User not found").Write(w)
			return
		}
		problem.InternalError("Failed to list activity events").Write(w)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

func parseEventFilter(r *http.Request) (domain.ActivityEventFilter, []problem.FieldError) {
	var filter domain.ActivityEventFilter
	var fieldErrors []problem.FieldError

	if typeStr := r.URL.Query().Get("type"); typeStr != "" {
		switch t := domain.ActivityType(typeStr); t {
		case domain.ActivitySleep, domain.ActivityMove, domain.ActivityWorkout:
			filter.Type = &t
		default:
			fieldErrors = append(fieldErrors, problem.FieldError{
				Field:   "type",
				Message: "must be one of: sleep, move, workout",
			})
		}
	}

	if fromStr := r.URL.Query().Get("from"); fromStr != "" {
		from, err := time.Parse(time.RFC3339, fromStr)
		if err != nil {
			fieldErrors = append(fieldErrors, problem.FieldError{
				Field:   "from",
				Message: "must be a valid RFC3339 timestamp",
			})
		} else {
			filter.From = &from
		}
	}

	if toStr := r.URL.Query().Get("to"); toStr != "" {
		to, err := time.Parse(time.RFC3339, toStr)
		if err != nil {
			fieldErrors = append(fieldErrors, problem.FieldError{
				Field:   "to",
				Message: "must be a valid RFC3339 timestamp",
			})
		} else {
			filter.To = &to
		}
	}

	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit < 1 {
			fieldErrors = append(fieldErrors, problem.FieldError{
				Field:   "limit",
				Message: "must be a positive integer",
			})
		} else {
			filter.Limit = limit
		}
	}

	filter.Cursor = r.URL.Query().Get("cursor")

	if len(fieldErrors) > 0 {
		return filter, fieldErrors
	}
	return filter, nil
}
