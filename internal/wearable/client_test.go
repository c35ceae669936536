package wearable

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestFeedClient_FetchDay(t *testing.T) {
	var gotAuth, gotDate string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if r.URL.Path != "/users/@me/sleeps" {
			http.NotFound(w, r)
			return
		}

		if r.URL.Query().Get("page") == "2" {
			fmt.Fprint(w, `{"data": {"items": [
				{"xid": "s2", "time_created": 1710022200, "time_completed": 1710051000, "details": {}}
			]}}`)
			return
		}

		gotDate = r.URL.Query().Get("date")
		fmt.Fprint(w, `{"data": {"items": [
			{"xid": "s1", "time_created": 1709935800, "time_completed": 1709964600,
			 "details": {"tz": "UTC", "duration": 27000, "awake": 1200}}
		], "links": {"next": "/users/@me/sleeps?page=2"}}}`)
	}))
	defer server.Close()

	client := NewFeedClient(server.URL)
	items, err := client.FetchDay(context.Background(), "tok", kindSleeps, time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("FetchDay() error = %v", err)
	}

	if gotAuth != "Bearer tok" {
		t.Errorf("Authorization = %q, want Bearer tok", gotAuth)
	}
	if gotDate != "20240309" {
		t.Errorf("date param = %q, want 20240309", gotDate)
	}

	if len(items) != 2 {
		t.Fatalf("items = %d, want 2 across pages", len(items))
	}
	if items[0].XID != "s1" || items[1].XID != "s2" {
		t.Errorf("item ids = %q, %q", items[0].XID, items[1].XID)
	}
	if items[0].Details.Duration != 27000 {
		t.Errorf("duration = %d, want 27000", items[0].Details.Duration)
	}
	if len(items[0].Raw) == 0 {
		t.Error("raw payload not retained")
	}
}

func TestFeedClient_FetchDay_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewFeedClient(server.URL)
	_, err := client.FetchDay(context.Background(), "bad", kindSleeps, time.Now())
	if err == nil {
		t.Fatal("expected error on 401")
	}
}

func TestNewFeedClient_EmptyBaseURL(t *testing.T) {
	if client := NewFeedClient(""); client != nil {
		t.Error("expected nil client without a base URL")
	}
}
