package domain

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Timezone        string    `gorm:"type:varchar(64);not null;default:'UTC'" json:"timezone"`
	FeedUserID      string    `gorm:"type:varchar(64);index" json:"feed_user_id,omitempty"`
	FeedAccessToken string    `gorm:"type:varchar(256)" json:"-"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (User) TableName() string {
	return "users"
}

// Location resolves the user's IANA timezone, falling back to UTC.
func (u *User) Location() *time.Location {
	if u.Timezone != "" {
		if loc, err := time.LoadLocation(u.Timezone); err == nil {
			return loc
		}
	}
	return time.UTC
}

// CreateUserRequest is the request body for creating a user.
// @Description Request payload for registering a participant.
type CreateUserRequest struct {
	// IANA timezone used as the participant's day boundary
	Timezone string `json:"timezone" validate:"required,timezone" example:"Europe/Prague"`
	// Optional wearable feed account id
	FeedUserID string `json:"feed_user_id,omitempty" validate:"omitempty,max=64"`
	// Optional wearable feed access token
	FeedAccessToken string `json:"feed_access_token,omitempty" validate:"omitempty,max=256"`
}

// UserResponse is the response body for user endpoints.
type UserResponse struct {
	ID         uuid.UUID `json:"id"`
	Timezone   string    `json:"timezone"`
	FeedUserID string    `json:"feed_user_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:         u.ID,
		Timezone:   u.Timezone,
		FeedUserID: u.FeedUserID,
		CreatedAt:  u.CreatedAt,
	}
}
