// Package engine implements the experiment staging and analysis core: the
// per-type input/output extraction strategies, the stage state machine, the
// adaptive target assignment, and the final result calculation.
package engine

import (
	"math"
	"time"

	"github.com/blaisecz/habit-lab/internal/domain"
	"github.com/blaisecz/habit-lab/internal/timeseries"
)

// sleepDayOffset shifts the sleep day window so a night that starts before
// midnight belongs to the day it starts: the window for day D runs from
// 7pm on D-1 to 7pm on D.
const sleepDayOffset = -5 * time.Hour

const minutesPerDay = 24 * 60

// Ranges holds the five named bands used both to classify a baseline
// measurement and to define per-stage targets.
type Ranges struct {
	Under float64
	N1    float64
	N2    float64
	N3    float64
	Over  float64
}

// band picks a named band value.
func (r Ranges) band(name string) float64 {
	switch name {
	case "under":
		return r.Under
	case "N1":
		return r.N1
	case "N2":
		return r.N2
	case "N3":
		return r.N3
	case "over":
		return r.Over
	}
	return 0
}

// Strategy describes one experiment type: how to derive the day-by-day
// input and output sequences and the policy constants driving staging.
type Strategy struct {
	Type domain.ExperimentType

	// Behavior and Outcome are the human-readable names of the manipulated
	// input and the measured output, used in reports and LLM prompts.
	Behavior string
	Outcome  string

	Ranges      Ranges
	RangeSize   float64
	StableRange float64

	// UsesVariability marks types whose input is a deviation from a personal
	// baseline average rather than a raw magnitude.
	UsesVariability bool
	// MinimizesResult marks types where the best outcome is the lowest mean.
	MinimizesResult bool

	Inputs  func(r *Run, start, end domain.Date, useVariability bool) []*float64
	Outputs func(r *Run, start, end domain.Date) []*float64
}

// InputAverage aggregates baseline inputs into the personal anchor. All
// current types use the nil-filtered mean.
func (s *Strategy) InputAverage(values []float64) float64 {
	return mean(values)
}

var strategies = map[domain.ExperimentType]*Strategy{
	domain.TypeStepsSleepEfficiency: {
		Type:        domain.TypeStepsSleepEfficiency,
		Behavior:    "daily step count",
		Outcome:     "sleep efficiency",
		Ranges:      Ranges{Under: 6500, N1: 8000, N2: 11000, N3: 14000, Over: 15500},
		RangeSize:   1500,
		StableRange: 0.1,
		Inputs: func(r *Run, start, end domain.Date, _ bool) []*float64 {
			steps := timeseries.SameDayScalar(r.eventsOfType(domain.ActivityMove), start, end, r.loc,
				func(ev domain.ActivityEvent) float64 { return float64(ev.Steps) })
			return asPresent(steps)
		},
		Outputs: func(r *Run, start, end domain.Date) []*float64 {
			return timeseries.EfficiencyRatio(r.eventsOfType(domain.ActivitySleep), start, end, r.loc, sleepDayOffset)
		},
	},
	domain.TypeSleepDurationProductivity: {
		Type:        domain.TypeSleepDurationProductivity,
		Behavior:    "nightly sleep duration",
		Outcome:     "self-reported productivity",
		Ranges:      Ranges{Under: 6 * 60, N1: 6.5 * 60, N2: 7.5 * 60, N3: 8.5 * 60, Over: 9 * 60},
		RangeSize:   30,
		StableRange: 3,
		Inputs: func(r *Run, start, end domain.Date, _ bool) []*float64 {
			durations := timeseries.OverlapDuration(r.eventsOfType(domain.ActivitySleep), start, end, r.loc, sleepDayOffset)
			return asPresent(durations)
		},
		Outputs: func(r *Run, start, end domain.Date) []*float64 {
			return r.checkinValues(start, end, domain.RatingProductivity)
		},
	},
	domain.TypeSleepVariabilityStress: {
		Type:            domain.TypeSleepVariabilityStress,
		Behavior:        "bedtime variability",
		Outcome:         "self-reported stress",
		Ranges:          Ranges{Under: 15, N1: 30, N2: 60, N3: 90, Over: 105},
		RangeSize:       15,
		StableRange:     3,
		UsesVariability: true,
		MinimizesResult: true,
		Inputs:          sleepStartVariabilityInputs,
		Outputs: func(r *Run, start, end domain.Date) []*float64 {
			return r.checkinValues(start, end, domain.RatingStress)
		},
	},
	domain.TypeLeisureHappiness: {
		Type:        domain.TypeLeisureHappiness,
		Behavior:    "daily leisure minutes",
		Outcome:     "self-reported happiness",
		Ranges:      Ranges{Under: 15, N1: 30, N2: 60, N3: 90, Over: 105},
		RangeSize:   15,
		StableRange: 3,
		Inputs: func(r *Run, start, end domain.Date, _ bool) []*float64 {
			return r.checkinValues(start, end, domain.RatingLeisureTime)
		},
		Outputs: func(r *Run, start, end domain.Date) []*float64 {
			return r.checkinValues(start, end, domain.RatingHappiness)
		},
	},
}

// StrategyFor returns the strategy for an experiment type. The type set is
// closed; unknown tags get (nil, false).
func StrategyFor(t domain.ExperimentType) (*Strategy, bool) {
	s, ok := strategies[t]
	return s, ok
}

// sleepStartVariabilityInputs derives the signed deviation of each night's
// sleep-start offset from the personal average. The minute offsets are
// measured from a fixed anchor one day before the range start, advancing a
// day per index, so consecutive nights stay comparable even across
// midnight. Deviations are sign-flipped on alternating days: the protocol
// asks for +target one day and -target the next, and flipping here lets the
// rest of the pipeline treat the sequence as unsigned magnitudes.
func sleepStartVariabilityInputs(r *Run, start, end domain.Date, useVariability bool) []*float64 {
	starts := timeseries.FirstEventStart(r.eventsOfType(domain.ActivitySleep), start, end, r.loc, sleepDayOffset)

	minutes := make([]*float64, len(starts))
	for i, st := range starts {
		if st == nil {
			continue
		}
		anchor := start.AddDays(i - 1).Time(r.loc)
		m := math.Round(st.Sub(anchor).Minutes())
		minutes[i] = &m
	}

	if !useVariability {
		return minutes
	}

	average := 0.0
	if r.exp.InitialStageAverage != nil {
		average = *r.exp.InitialStageAverage
	} else {
		average = math.Mod(meanPtr(minutes), minutesPerDay)
		if average < 0 {
			average += minutesPerDay
		}
	}

	variances := make([]*float64, len(minutes))
	for i, m := range minutes {
		if m == nil {
			continue
		}
		v := *m - average
		if i%2 == 1 {
			v = -v
		}
		variances[i] = &v
	}
	return variances
}

// asPresent wraps a dense value sequence as an all-present optional
// sequence.
func asPresent(values []float64) []*float64 {
	out := make([]*float64, len(values))
	for i := range values {
		v := values[i]
		out[i] = &v
	}
	return out
}

// mean averages a dense sequence; empty input yields 0.
func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// meanPtr averages the present values of an optional sequence.
func meanPtr(values []*float64) float64 {
	var present []float64
	for _, v := range values {
		if v != nil {
			present = append(present, *v)
		}
	}
	return mean(present)
}
