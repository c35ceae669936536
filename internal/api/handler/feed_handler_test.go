package handler

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestFeedHandler_Webhook(t *testing.T) {
	tests := []struct {
		name           string
		secret         string
		headerSecret   string
		body           string
		wantStatusCode int
		wantSyncedIDs  []string
	}{
		{
			name:           "valid ping with user ids",
			secret:         "s3cret",
			headerSecret:   "s3cret",
			body:           `{"events": [{"user_xid": "feed-1"}, {"user_xid": "feed-2"}]}`,
			wantStatusCode: http.StatusAccepted,
			wantSyncedIDs:  []string{"feed-1", "feed-2"},
		},
		{
			name:           "empty events list syncs everyone",
			secret:         "s3cret",
			headerSecret:   "s3cret",
			body:           `{"events": []}`,
			wantStatusCode: http.StatusAccepted,
			wantSyncedIDs:  []string{},
		},
		{
			name:           "wrong secret",
			secret:         "s3cret",
			headerSecret:   "guess",
			body:           `{}`,
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:           "secret not configured",
			secret:         "",
			headerSecret:   "",
			body:           `{}`,
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:           "invalid JSON",
			secret:         "s3cret",
			headerSecret:   "s3cret",
			body:           `{events}`,
			wantStatusCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sync := &MockSyncService{}
			handler := NewFeedHandler(sync, tt.secret)

			req := httptest.NewRequest(http.MethodPost, "/v1/feed/webhook", bytes.NewBufferString(tt.body))
			if tt.headerSecret != "" {
				req.Header.Set("X-Feed-Secret", tt.headerSecret)
			}
			rec := httptest.NewRecorder()

			handler.Webhook(rec, req)

			if rec.Code != tt.wantStatusCode {
				t.Errorf("Webhook() status = %d, want %d, body: %s", rec.Code, tt.wantStatusCode, rec.Body.String())
			}

			if tt.wantSyncedIDs != nil {
				if len(sync.syncedIDs) != 1 {
					t.Fatalf("sync calls = %d, want 1", len(sync.syncedIDs))
				}
				got := sync.syncedIDs[0]
				if len(got) != len(tt.wantSyncedIDs) {
					t.Fatalf("synced ids = %v, want %v", got, tt.wantSyncedIDs)
				}
				for i := range got {
					if got[i] != tt.wantSyncedIDs[i] {
						t.Errorf("synced ids = %v, want %v", got, tt.wantSyncedIDs)
					}
				}
			}
		})
	}
}
