// Package seed fills the database with sample users, wearable events and
// experiments for local development.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/blaisecz/habit-lab/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const seededDays = 14

// Run seeds the database with sample data. Safe to call multiple times.
func Run(db *gorm.DB) error {
	if err := db.AutoMigrate(&domain.User{}, &domain.Experiment{}, &domain.Checkin{}, &domain.ActivityEvent{}); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}

	users := []domain.User{
		{ID: uuid.MustParse("11111111-1111-1111-1111-111111111111"), Timezone: "Europe/Amsterdam"},
		{ID: uuid.MustParse("22222222-2222-2222-2222-222222222222"), Timezone: "America/New_York", FeedUserID: "feed-sample", FeedAccessToken: "seed-token"},
		{ID: uuid.MustParse("33333333-3333-3333-3333-333333333333"), Timezone: "Asia/Tokyo"},
	}

	for _, user := range users {
		if err := db.Where("id = ?", user.ID).FirstOrCreate(&user).Error; err != nil {
			return fmt.Errorf("failed to create user %s: %w", user.ID, err)
		}
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	for _, user := range users {
		if err := seedActivityEvents(db, user, rng); err != nil {
			return err
		}
	}

	if err := seedFinishedExperiment(db, users[0]); err != nil {
		return err
	}
	if err := seedActiveExperiment(db, users[1], rng); err != nil {
		return err
	}

	log.Println("Seed completed")
	return nil
}

// seedActivityEvents writes a sleep and a move event for each recent day.
func seedActivityEvents(db *gorm.DB, user domain.User, rng *rand.Rand) error {
	now := time.Now().UTC()
	for i := 0; i < seededDays; i++ {
		date := now.AddDate(0, 0, -i)
		bedtime := time.Date(date.Year(), date.Month(), date.Day(), 22+rng.Intn(2), rng.Intn(60), 0, 0, time.UTC)
		wakeup := bedtime.Add(time.Duration(6+rng.Intn(3)) * time.Hour)

		sleep := domain.ActivityEvent{
			UserID:          user.ID,
			Type:            domain.ActivitySleep,
			SourceID:        fmt.Sprintf("seed-sleep-%s-%d", user.ID, i),
			StartTime:       bedtime,
			EndTime:         wakeup,
			DurationMinutes: int(wakeup.Sub(bedtime).Minutes()) - rng.Intn(30),
			AwakeMinutes:    rng.Intn(40),
		}
		if err := upsertEvent(db, sleep); err != nil {
			return err
		}

		moveStart := time.Date(date.Year(), date.Month(), date.Day(), 7, 0, 0, 0, time.UTC)
		move := domain.ActivityEvent{
			UserID:          user.ID,
			Type:            domain.ActivityMove,
			SourceID:        fmt.Sprintf("seed-move-%s-%d", user.ID, i),
			StartTime:       moveStart,
			EndTime:         moveStart.Add(14 * time.Hour),
			DurationMinutes: 60 + rng.Intn(120),
			Steps:           6000 + rng.Intn(8000),
			DistanceMeters:  4000 + rng.Intn(6000),
		}
		if err := upsertEvent(db, move); err != nil {
			return err
		}
	}
	return nil
}

func upsertEvent(db *gorm.DB, event domain.ActivityEvent) error {
	err := db.Where("user_id = ? AND type = ? AND source_id = ?", event.UserID, event.Type, event.SourceID).
		FirstOrCreate(&event).Error
	if err != nil {
		return fmt.Errorf("failed to create activity event %s: %w", event.SourceID, err)
	}
	return nil
}

// seedFinishedExperiment writes one completed leisure experiment with
// results, so listing and summary endpoints have data on a fresh install.
func seedFinishedExperiment(db *gorm.DB, user domain.User) error {
	start := time.Now().UTC().AddDate(0, 0, -40)
	end := start.AddDate(0, 0, 28)

	exp, err := domain.NewExperiment(user.ID, domain.TypeLeisureHappiness, start, time.UTC)
	if err != nil {
		return err
	}
	exp.ID = uuid.MustParse("aaaaaaaa-1111-1111-1111-111111111111")
	exp.IsActive = false
	exp.EndTime = &end
	exp.CurrentStage = domain.NumStages + 1
	exp.SelfEfficacy = 7
	exp.AppEfficacy = 8
	exp.ExperimentEfficacy = 6
	exp.ResultValue = 90
	exp.ResultConfidence = 0.6

	startDay := domain.DateOf(start)
	for stage := 0; stage <= domain.NumStages; stage++ {
		w := domain.StageWindow{
			Start: startDay.AddDays(stage * 7),
			End:   startDay.AddDays((stage + 1) * 7),
		}
		if err := exp.SetStageWindow(stage, w); err != nil {
			return err
		}
	}
	if err := exp.SetStageTargets([domain.NumStageSlots]float64{30, 90, 30, 60}); err != nil {
		return err
	}
	if err := exp.SetStageResultList([]domain.StageResult{
		{Stage: 1, Target: 90, MeanOutput: 7.6, MinOutput: 7, MaxOutput: 8, Inputs: []float64{85, 95, 90, 92, 88}, Outputs: []float64{7, 8, 8, 8, 7}},
		{Stage: 2, Target: 30, MeanOutput: 4.2, MinOutput: 3, MaxOutput: 5, Inputs: []float64{35, 28, 32, 30, 25}, Outputs: []float64{4, 5, 4, 4, 4}},
		{Stage: 3, Target: 60, MeanOutput: 5.8, MinOutput: 5, MaxOutput: 7, Inputs: []float64{55, 62, 60, 58, 65}, Outputs: []float64{6, 5, 6, 7, 5}},
	}); err != nil {
		return err
	}

	if err := db.Where("id = ?", exp.ID).FirstOrCreate(exp).Error; err != nil {
		return fmt.Errorf("failed to create finished experiment: %w", err)
	}
	return nil
}

// seedActiveExperiment writes one experiment a few days into its baseline,
// with matching check-ins.
func seedActiveExperiment(db *gorm.DB, user domain.User, rng *rand.Rand) error {
	loc := user.Location()
	start := time.Now().UTC().AddDate(0, 0, -3)

	exp, err := domain.NewExperiment(user.ID, domain.TypeSleepDurationProductivity, start, loc)
	if err != nil {
		return err
	}
	exp.ID = uuid.MustParse("bbbbbbbb-2222-2222-2222-222222222222")
	exp.SelfEfficacy = 6
	exp.AppEfficacy = 7
	exp.ExperimentEfficacy = 7

	if err := db.Where("id = ?", exp.ID).FirstOrCreate(exp).Error; err != nil {
		return fmt.Errorf("failed to create active experiment: %w", err)
	}

	for day := 1; day <= 3; day++ {
		checkin := domain.Checkin{
			ExperimentID:          exp.ID,
			CheckinTime:           start.AddDate(0, 0, day),
			DidFollowInstructions: 5 + rng.Intn(5),
			Happiness:             4 + rng.Intn(5),
			Stress:                2 + rng.Intn(5),
			Productivity:          4 + rng.Intn(5),
			LeisureTime:           30 + rng.Intn(90),
			AppVersion:            "seed",
		}
		err := db.Where("experiment_id = ? AND checkin_time = ?", checkin.ExperimentID, checkin.CheckinTime).
			FirstOrCreate(&checkin).Error
		if err != nil {
			return fmt.Errorf("failed to create check-in: %w", err)
		}
	}
	return nil
}
