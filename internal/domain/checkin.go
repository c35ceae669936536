package domain

import (
	"time"

	"github.com/google/uuid"
)

// Checkin is one daily self-report for an experiment. The ratings answer
// questions about the previous day, so the check-in recorded on day D+1
// carries the data for day D.
type Checkin struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	ExperimentID uuid.UUID `gorm:"type:uuid;not null;index:idx_checkins_experiment_time" json:"experiment_id"`
	CheckinTime  time.Time `gorm:"not null;index:idx_checkins_experiment_time" json:"checkin_time"`

	DidFollowInstructions int `gorm:"not null" json:"did_follow_instructions"`
	Happiness             int `gorm:"not null" json:"happiness"`
	Stress                int `gorm:"not null" json:"stress"`
	Productivity          int `gorm:"not null" json:"productivity"`
	LeisureTime           int `gorm:"not null" json:"leisure_time"`

	AppVersion string    `gorm:"type:varchar(64);not null;default:''" json:"app_version,omitempty"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`

	Experiment Experiment `gorm:"foreignKey:ExperimentID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Checkin) TableName() string {
	return "checkins"
}

// Rating extracts a named self-reported value from the check-in.
func (c *Checkin) Rating(name RatingName) float64 {
	switch name {
	case RatingHappiness:
		return float64(c.Happiness)
	case RatingStress:
		return float64(c.Stress)
	case RatingProductivity:
		return float64(c.Productivity)
	case RatingLeisureTime:
		return float64(c.LeisureTime)
	}
	return 0
}

// RatingName identifies one of the four self-reported measures.
type RatingName string

const (
	RatingHappiness    RatingName = "happiness"
	RatingStress       RatingName = "stress"
	RatingProductivity RatingName = "productivity"
	RatingLeisureTime  RatingName = "leisure_time"
)

// CheckinRequest is the request body for recording a daily check-in.
// @Description Daily self-report ratings; each answers about the previous day.
type CheckinRequest struct {
	// How well the participant followed yesterday's instructions (0-10)
	DidFollowInstructions int `json:"did_follow_instructions" validate:"min=0,max=10"`
	// Happiness rating for yesterday (0-10)
	Happiness int `json:"happiness" validate:"min=0,max=10"`
	// Stress rating for yesterday (0-10)
	Stress int `json:"stress" validate:"min=0,max=10"`
	// Productivity rating for yesterday (0-10)
	Productivity int `json:"productivity" validate:"min=0,max=10"`
	// Minutes of leisure time yesterday
	LeisureTime int `json:"leisure_time" validate:"min=0,max=1440"`
	// Reporting client version
	AppVersion string `json:"app_version,omitempty" validate:"omitempty,max=64"`
}
