package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ActivityType tags a raw event imported from the wearable feed.
type ActivityType string

const (
	ActivitySleep   ActivityType = "sleep"
	ActivityMove    ActivityType = "move"
	ActivityWorkout ActivityType = "workout"
)

// ActivityEvent is one interval-valued observation from the wearable feed.
// Events are upserted by (user, type, source id): re-importing the same
// source event refreshes its attributes, never duplicates it.
type ActivityEvent struct {
	ID       uuid.UUID    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID   uuid.UUID    `gorm:"type:uuid;not null;uniqueIndex:idx_events_user_type_source;index:idx_events_user_start" json:"user_id"`
	Type     ActivityType `gorm:"type:varchar(16);not null;uniqueIndex:idx_events_user_type_source" json:"type"`
	SourceID string       `gorm:"type:varchar(64);not null;uniqueIndex:idx_events_user_type_source" json:"source_id"`

	StartTime time.Time `gorm:"not null;index:idx_events_user_start" json:"start_time"`
	EndTime   time.Time `gorm:"not null" json:"end_time"`

	// Type-specific attributes. Durations are minutes; the sync job converts
	// from whatever unit the feed reports.
	DurationMinutes int `gorm:"not null;default:0" json:"duration_minutes"`
	Steps           int `gorm:"not null;default:0" json:"steps"`
	DistanceMeters  int `gorm:"not null;default:0" json:"distance_meters"`
	AwakeMinutes    int `gorm:"not null;default:0" json:"awake_minutes"`

	RawPayload datatypes.JSON `gorm:"type:jsonb" json:"-"`
	CreatedAt  time.Time      `gorm:"autoCreateTime" json:"created_at"`

	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (ActivityEvent) TableName() string {
	return "activity_events"
}

// ActivityEventResponse is the API view of a raw event.
type ActivityEventResponse struct {
	ID              uuid.UUID    `json:"id"`
	Type            ActivityType `json:"type"`
	SourceID        string       `json:"source_id"`
	StartTime       time.Time    `json:"start_time"`
	EndTime         time.Time    `json:"end_time"`
	DurationMinutes int          `json:"duration_minutes"`
	Steps           int          `json:"steps"`
	DistanceMeters  int          `json:"distance_meters"`
	AwakeMinutes    int          `json:"awake_minutes"`
}

func (e *ActivityEvent) ToResponse() ActivityEventResponse {
	return ActivityEventResponse{
		ID:              e.ID,
		Type:            e.Type,
		SourceID:        e.SourceID,
		StartTime:       e.StartTime,
		EndTime:         e.EndTime,
		DurationMinutes: e.DurationMinutes,
		Steps:           e.Steps,
		DistanceMeters:  e.DistanceMeters,
		AwakeMinutes:    e.AwakeMinutes,
	}
}

// ActivityEventListResponse is a paginated event listing.
type ActivityEventListResponse struct {
	Data       []ActivityEventResponse `json:"data"`
	Pagination PaginationResponse      `json:"pagination"`
}

// PaginationResponse contains cursor pagination metadata.
type PaginationResponse struct {
	NextCursor string `json:"next_cursor,omitempty"`
	HasMore    bool   `json:"has_more"`
}

// ActivityEventFilter contains filter parameters for listing events.
type ActivityEventFilter struct {
	Type   *ActivityType
	From   *time.Time
	To     *time.Time
	Limit  int
	Cursor string
}
