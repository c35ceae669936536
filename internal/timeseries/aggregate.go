// Package timeseries turns irregular interval events into one value per
// calendar day. All functions walk a half-open [start, end) date range and
// emit exactly end-start values; where a day has no usable data they emit an
// explicit nil rather than zero, because downstream validity checks treat
// "no data" and 0 differently.
package timeseries

import (
	"math"
	"time"

	"github.com/blaisecz/habit-lab/internal/domain"
)

// OverlapDuration sums, for each day, the minutes of every event interval
// that overlaps the day window [midnight+offset, midnight+offset+24h),
// clipped to the window. Days without events yield 0, not nil: a day with no
// sleep recorded genuinely slept 0 minutes in the window.
func OverlapDuration(events []domain.ActivityEvent, start, end domain.Date, loc *time.Location, offset time.Duration) []float64 {
	var durations []float64
	for day := start; day.Before(end); day = day.AddDays(1) {
		dayStart := day.Time(loc).Add(offset)
		dayEnd := dayStart.Add(24 * time.Hour)

		total := 0.0
		for _, ev := range events {
			if ev.EndTime.Before(dayStart) || ev.StartTime.After(dayEnd) {
				continue
			}
			from := maxTime(dayStart, ev.StartTime)
			to := minTime(dayEnd, ev.EndTime)
			total += math.Round(to.Sub(from).Minutes())
		}
		durations = append(durations, total)
	}
	return durations
}

// EfficiencyRatio computes, for each day, 1 - awake/duration over the events
// whose start instant falls strictly inside the day window. Days with no
// qualifying events yield nil.
func EfficiencyRatio(events []domain.ActivityEvent, start, end domain.Date, loc *time.Location, offset time.Duration) []*float64 {
	var ratios []*float64
	for day := start; day.Before(end); day = day.AddDays(1) {
		dayStart := day.Time(loc).Add(offset)
		dayEnd := dayStart.Add(24 * time.Hour)

		duration := 0.0
		awake := 0.0
		for _, ev := range events {
			if ev.StartTime.After(dayStart) && !ev.StartTime.After(dayEnd) {
				duration += math.Round(ev.EndTime.Sub(ev.StartTime).Minutes())
				awake += float64(ev.AwakeMinutes)
			}
		}
		if duration > 0 {
			ratio := 1.0 - awake/duration
			ratios = append(ratios, &ratio)
		} else {
			ratios = append(ratios, nil)
		}
	}
	return ratios
}

// FirstEventStart reports, for each day, the start instant of the first
// event (in input order) whose start falls within the day window, or nil.
func FirstEventStart(events []domain.ActivityEvent, start, end domain.Date, loc *time.Location, offset time.Duration) []*time.Time {
	var starts []*time.Time
	for day := start; day.Before(end); day = day.AddDays(1) {
		dayStart := day.Time(loc).Add(offset)
		dayEnd := dayStart.Add(24 * time.Hour)

		var first *time.Time
		for i := range events {
			st := events[i].StartTime
			if !st.Before(dayStart) && st.Before(dayEnd) {
				first = &events[i].StartTime
				break
			}
		}
		starts = append(starts, first)
	}
	return starts
}

// SameDayScalar picks, for each day, the value of one numeric attribute on
// the first event whose start instant's local calendar date equals the day
// exactly (no offset), defaulting to 0. Used for raw daily totals like step
// counts, where the feed emits one rollup event per day.
func SameDayScalar(events []domain.ActivityEvent, start, end domain.Date, loc *time.Location, value func(domain.ActivityEvent) float64) []float64 {
	var totals []float64
	for day := start; day.Before(end); day = day.AddDays(1) {
		total := 0.0
		for _, ev := range events {
			if domain.DateOf(ev.StartTime.In(loc)) == day {
				total = value(ev)
				break
			}
		}
		totals = append(totals, total)
	}
	return totals
}

func minTime(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}

func maxTime(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}
