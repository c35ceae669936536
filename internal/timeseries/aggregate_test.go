package timeseries

import (
	"math"
	"sort"
	"testing"
	"time"
	_ "time/tzdata" // Embed timezone database for CI/minimal containers

	"github.com/google/uuid"

	"github.com/blaisecz/habit-lab/internal/domain"
)

// All cases use the same frame: clock frozen at 2012-01-14 09:00 UTC and an
// America/New_York day boundary, so the -5h sleep window for a day lines up
// with that day's UTC midnight-to-midnight span.

var (
	frameNow    = time.Date(2012, time.January, 14, 9, 0, 0, 0, time.UTC)
	sleepOffset = -5 * time.Hour
)

func newYork(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	return loc
}

type eventList struct {
	events []domain.ActivityEvent
}

func (l *eventList) add(startOffsetHours, endOffsetHours float64, awakeMinutes, steps int) {
	l.events = append(l.events, domain.ActivityEvent{
		ID:           uuid.New(),
		Type:         domain.ActivitySleep,
		StartTime:    frameNow.Add(time.Duration(startOffsetHours * float64(time.Hour))),
		EndTime:      frameNow.Add(time.Duration(endOffsetHours * float64(time.Hour))),
		AwakeMinutes: awakeMinutes,
		Steps:        steps,
	})
	sort.SliceStable(l.events, func(i, j int) bool {
		return l.events[i].StartTime.Before(l.events[j].StartTime)
	})
}

func dayOffset(days int) domain.Date {
	return domain.DateOf(frameNow.AddDate(0, 0, days))
}

func TestOverlapDuration(t *testing.T) {
	loc := newYork(t)
	var l eventList
	l.add(-8, -2, 60, 0) // 01:00-07:00 UTC today

	got := OverlapDuration(l.events, dayOffset(-1), dayOffset(1), loc, sleepOffset)
	wantDense(t, got, []float64{0, 360})

	got = OverlapDuration(l.events, dayOffset(0), dayOffset(1), loc, sleepOffset)
	wantDense(t, got, []float64{360})

	got = OverlapDuration(l.events, dayOffset(-1), dayOffset(0), loc, sleepOffset)
	wantDense(t, got, []float64{0})

	// A sleep spanning the window boundary splits across both days.
	l.add(-36, -24, 0, 0) // Jan 12 21:00 - Jan 13 09:00 UTC
	got = OverlapDuration(l.events, dayOffset(-4), dayOffset(1), loc, sleepOffset)
	wantDense(t, got, []float64{0, 0, 180, 540, 360})

	// A second block the same day accumulates.
	l.add(-20, -10, 0, 0) // Jan 13 13:00 - 23:00 UTC
	got = OverlapDuration(l.events, dayOffset(-4), dayOffset(1), loc, sleepOffset)
	wantDense(t, got, []float64{0, 0, 180, 540 + 600, 360})
}

func TestEfficiencyRatio(t *testing.T) {
	loc := newYork(t)
	var l eventList
	l.add(-8, -2, 60, 0) // 6h in bed, 1h awake

	got := EfficiencyRatio(l.events, dayOffset(-1), dayOffset(1), loc, sleepOffset)
	wantSparse(t, got, []*float64{nil, f(5.0 / 6)})

	got = EfficiencyRatio(l.events, dayOffset(0), dayOffset(1), loc, sleepOffset)
	wantSparse(t, got, []*float64{f(5.0 / 6)})

	got = EfficiencyRatio(l.events, dayOffset(-1), dayOffset(0), loc, sleepOffset)
	wantSparse(t, got, []*float64{nil})

	l.add(-36, -24, 180, 0) // 12h in bed, 3h awake
	got = EfficiencyRatio(l.events, dayOffset(-4), dayOffset(1), loc, sleepOffset)
	wantSparse(t, got, []*float64{nil, nil, f(9.0 / 12), nil, f(5.0 / 6)})

	l.add(-20, -10, 60, 0) // 10h in bed, 1h awake
	got = EfficiencyRatio(l.events, dayOffset(-4), dayOffset(1), loc, sleepOffset)
	wantSparse(t, got, []*float64{nil, nil, f(9.0 / 12), f(9.0 / 10), f(5.0 / 6)})
}

func TestFirstEventStart(t *testing.T) {
	loc := newYork(t)
	var l eventList
	l.add(-8, -2, 0, 0) // starts 01:00 UTC today

	minutes := func(starts []*time.Time) []*float64 {
		out := make([]*float64, len(starts))
		for i, st := range starts {
			if st != nil {
				m := float64(st.UTC().Hour()*60 + st.UTC().Minute())
				out[i] = &m
			}
		}
		return out
	}

	got := FirstEventStart(l.events, dayOffset(-1), dayOffset(1), loc, sleepOffset)
	wantSparse(t, minutes(got), []*float64{nil, f(60)})

	l.add(-36, -24, 0, 0) // starts Jan 12 21:00 UTC
	got = FirstEventStart(l.events, dayOffset(-4), dayOffset(1), loc, sleepOffset)
	wantSparse(t, minutes(got), []*float64{nil, nil, f(1260), nil, f(60)})

	l.add(-20, -10, 0, 0) // starts Jan 13 13:00 UTC
	got = FirstEventStart(l.events, dayOffset(-4), dayOffset(1), loc, sleepOffset)
	wantSparse(t, minutes(got), []*float64{nil, nil, f(1260), f(780), f(60)})

	// A late-evening nap does not displace the day's first sleep block.
	l.add(-9.5, -9, 0, 0) // starts Jan 13 23:30 UTC
	got = FirstEventStart(l.events, dayOffset(-4), dayOffset(1), loc, sleepOffset)
	wantSparse(t, minutes(got), []*float64{nil, nil, f(1260), f(780), f(60)})
}

func TestSameDayScalar(t *testing.T) {
	loc := newYork(t)
	var l eventList
	l.add(0, 2, 0, 1000)

	steps := func(ev domain.ActivityEvent) float64 { return float64(ev.Steps) }

	got := SameDayScalar(l.events, dayOffset(-1), dayOffset(1), loc, steps)
	wantDense(t, got, []float64{0, 1000})

	l.add(-36, -24, 0, 20000)
	got = SameDayScalar(l.events, dayOffset(-4), dayOffset(1), loc, steps)
	wantDense(t, got, []float64{0, 0, 20000, 0, 1000})
}

func f(v float64) *float64 { return &v }

func wantDense(t *testing.T, got, want []float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-9 {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func wantSparse(t *testing.T, got, want []*float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("length %d, want %d", len(got), len(want))
	}
	for i := range want {
		switch {
		case (got[i] == nil) != (want[i] == nil):
			t.Fatalf("index %d: got %v, want %v", i, got[i], want[i])
		case got[i] != nil && math.Abs(*got[i]-*want[i]) > 1e-9:
			t.Fatalf("index %d: got %v, want %v", i, *got[i], *want[i])
		}
	}
}
