package handler

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"

	"github.com/blaisecz/habit-lab/internal/wearable"
	"github.com/blaisecz/habit-lab/pkg/problem"
)

// FeedHandler receives webhook pings from the wearable feed vendor.
type FeedHandler struct {
	sync   wearable.SyncService
	secret string
}

func NewFeedHandler(sync wearable.SyncService, secret string) *FeedHandler {
	return &FeedHandler{
		sync:   sync,
		secret: secret,
	}
}

// feedWebhookPayload is the vendor's ping body: which feed accounts have
// fresh data.
type feedWebhookPayload struct {
	Events []struct {
		UserXID string `json:"user_xid"`
	} `json:"events"`
}

// Webhook handles POST /v1/feed/webhook
// @Summary Wearable feed webhook
// @Description Receive a data-available ping from the feed vendor and refresh the named users' events.
// @Tags feed
// @Accept json
// @Produce json
// @Param X-Feed-Secret header string true "Shared webhook secret"
// @Success 202 {object} map[string]string
// @Failure 401 {object} problem.Problem "Bad or missing secret"
// @Failure 400 {object} problem.Problem "Invalid payload"
// @Failure 500 {object} problem.Problem "Server error"
// @Router /feed/webhook [post]
func (h *FeedHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	if h.secret == "" || subtle.ConstantTimeCompare([]byte(r.Header.Get("X-Feed-Secret")), []byte(h.secret)) != 1 {
		problem.New(http.StatusUnauthorized, "unauthorized", "Unauthorized", "Invalid webhook secret").Write(w)
		return
	}

	var payload feedWebhookPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		problem.BadRequest("Invalid JSON body").Write(w)
		return
	}

	ids := make([]string, 0, len(payload.Events))
	for _, ev := range payload.Events {
		if ev.UserXID != "" {
			ids = append(ids, ev.UserXID)
		}
	}

	if err := h.sync.SyncFeedUsers(r.Context(), ids); err != nil {
		problem.InternalError("Failed to sync feed data").Write(w)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]string{"status": "accepted"})
}
