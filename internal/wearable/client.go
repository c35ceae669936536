// Package wearable imports activity events from the wearable vendor's feed
// API: a polling sync for every user with feed credentials plus a webhook
// trigger for immediate refreshes.
package wearable

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

var (
	// ErrFeedRequest indicates the feed API could not be reached.
	ErrFeedRequest = errors.New("feed request failed")
	// ErrFeedStatus indicates the feed API answered with a non-2xx status.
	ErrFeedStatus = errors.New("unexpected feed response status")
)

// feedKind is the feed API's name for an event collection.
type feedKind string

const (
	kindSleeps feedKind = "sleeps"
	kindMoves  feedKind = "moves"
)

// FeedItem is one event as the feed API reports it. Durations are seconds;
// the sync layer converts to minutes before persisting.
type FeedItem struct {
	XID           string          `json:"xid"`
	Date          string          `json:"date"`
	TimeCreated   int64           `json:"time_created"`
	TimeCompleted int64           `json:"time_completed"`
	Details       FeedItemDetails `json:"details"`
	Raw           json.RawMessage `json:"-"`
}

// FeedItemDetails carries the type-specific attributes of a feed event.
type FeedItemDetails struct {
	Timezone      string `json:"tz"`
	Steps         int    `json:"steps"`
	Distance      int    `json:"distance"`
	AwakeSeconds  int    `json:"awake"`
	Duration      int    `json:"duration"`
	ActiveSeconds int    `json:"active_time"`
}

// Start returns the event's start instant.
func (it FeedItem) Start() time.Time {
	return time.Unix(it.TimeCreated, 0).UTC()
}

// End returns the event's end instant.
func (it FeedItem) End() time.Time {
	return time.Unix(it.TimeCompleted, 0).UTC()
}

// FeedClient fetches a user's events from the wearable feed API.
type FeedClient interface {
	// FetchDay returns all events of one kind reported for a local calendar
	// day, following the feed's pagination links.
	FetchDay(ctx context.Context, accessToken string, kind feedKind, day time.Time) ([]FeedItem, error)
}

type httpFeedClient struct {
	baseURL string
	client  *http.Client
}

// NewFeedClient builds a feed client against the given API base URL.
// Returns nil if baseURL is empty, which disables the sync.
func NewFeedClient(baseURL string) FeedClient {
	if baseURL == "" {
		return nil
	}
	return &httpFeedClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *httpFeedClient) FetchDay(ctx context.Context, accessToken string, kind feedKind, day time.Time) ([]FeedItem, error) {
	endpoint := fmt.Sprintf("%s/users/@me/%s?date=%s", c.baseURL, kind, day.Format("20060102"))

	var items []FeedItem
	// The feed pages with absolute "next" links; cap the walk defensively.
	for page := 0; endpoint != "" && page < 20; page++ {
		pageItems, next, err := c.fetchPage(ctx, accessToken, endpoint)
		if err != nil {
			return nil, err
		}
		items = append(items, pageItems...)
		endpoint = next
	}
	return items, nil
}

func (c *httpFeedClient) fetchPage(ctx context.Context, accessToken, endpoint string) ([]FeedItem, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrFeedRequest, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrFeedRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, "", fmt.Errorf("%w: %d", ErrFeedStatus, resp.StatusCode)
	}

	var body struct {
		Data struct {
			Items []json.RawMessage `json:"items"`
			Links struct {
				Next string `json:"next"`
			} `json:"links"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrFeedRequest, err)
	}

	items := make([]FeedItem, 0, len(body.Data.Items))
	for _, raw := range body.Data.Items {
		var item FeedItem
		if err := json.Unmarshal(raw, &item); err != nil {
			return nil, "", fmt.Errorf("%w: %v", ErrFeedRequest, err)
		}
		item.Raw = raw
		items = append(items, item)
	}

	next := body.Data.Links.Next
	if next != "" {
		if resolved, err := c.resolveLink(next); err == nil {
			next = resolved
		}
	}
	return items, next, nil
}

// resolveLink turns a possibly relative pagination link into an absolute
// URL on the configured base.
func (c *httpFeedClient) resolveLink(link string) (string, error) {
	u, err := url.Parse(link)
	if err != nil {
		return "", err
	}
	if u.IsAbs() {
		return link, nil
	}
	base, err := url.Parse(c.baseURL)
	if err != nil {
		return "", err
	}
	return base.ResolveReference(u).String(), nil
}
