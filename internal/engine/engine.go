package engine

import (
	"fmt"
	"math"
	"time"

	"github.com/blaisecz/habit-lab/internal/domain"
)

// stageLengthDays is the nominal length of every stage window.
const stageLengthDays = 7

// Run binds one experiment to the data needed to evaluate it: its
// check-ins, the owner's activity events (ordered by start time), the
// owner's day boundary, and the evaluation instant. A Run mutates only the
// experiment it wraps; callers persist the record after a successful
// transition, never during one.
type Run struct {
	exp      *domain.Experiment
	checkins []domain.Checkin
	events   []domain.ActivityEvent
	loc      *time.Location
	now      time.Time
	strategy *Strategy
}

// NewRun builds the evaluation context for one experiment.
func NewRun(exp *domain.Experiment, checkins []domain.Checkin, events []domain.ActivityEvent, loc *time.Location, now time.Time) (*Run, error) {
	strategy, ok := StrategyFor(exp.Type)
	if !ok {
		return nil, fmt.Errorf("unknown experiment type %q: %w", exp.Type, domain.ErrInvalidInput)
	}
	return &Run{
		exp:      exp,
		checkins: checkins,
		events:   events,
		loc:      loc,
		now:      now,
		strategy: strategy,
	}, nil
}

func (r *Run) today() domain.Date {
	return domain.DateOf(r.now.In(r.loc))
}

// eventsOfType filters the run's events, preserving start-time order.
func (r *Run) eventsOfType(t domain.ActivityType) []domain.ActivityEvent {
	var out []domain.ActivityEvent
	for _, ev := range r.events {
		if ev.Type == t {
			out = append(out, ev)
		}
	}
	return out
}

// checkinValues extracts one self-reported rating per day over [start, end).
// Day D's value comes from the first check-in whose local date is D+1 (the
// check-in asks about yesterday); days without one yield nil.
func (r *Run) checkinValues(start, end domain.Date, rating domain.RatingName) []*float64 {
	var values []*float64
	for day := start; day.Before(end); day = day.AddDays(1) {
		reportDay := day.AddDays(1)
		var value *float64
		for i := range r.checkins {
			if domain.DateOf(r.checkins[i].CheckinTime.In(r.loc)) == reportDay {
				v := r.checkins[i].Rating(rating)
				value = &v
				break
			}
		}
		values = append(values, value)
	}
	return values
}

// stageWindow resolves the date window of a stage attempt. For stages past
// the last slot it degenerates to the completion date, so post-completion
// views see an empty range. clip caps the end at today, which is how every
// data read excludes days that have not been reported yet.
func (r *Run) stageWindow(stage int, clip bool) (domain.StageWindow, bool, error) {
	if stage >= domain.NumStageSlots {
		if r.exp.EndTime == nil {
			return domain.StageWindow{}, false, nil
		}
		d := domain.DateOf(r.exp.EndTime.In(r.loc))
		return domain.StageWindow{Start: d, End: d}, true, nil
	}

	windows, err := r.exp.StageWindows()
	if err != nil {
		return domain.StageWindow{}, false, err
	}
	w := windows[stage]
	if w == nil {
		return domain.StageWindow{}, false, nil
	}

	out := *w
	if clip && r.today().Before(out.End) {
		out.End = r.today()
	}
	return out, true, nil
}

// StageData derives the day-by-day input and output sequences for a stage,
// up to (excluding) today. rawInputs forces magnitude inputs even for
// variability types; target assignment and the participant-facing view both
// need the unadjusted series.
func (r *Run) StageData(stage int, rawInputs bool) ([]*float64, []*float64, error) {
	w, ok, err := r.stageWindow(stage, true)
	if err != nil || !ok {
		return nil, nil, err
	}
	useVariability := r.strategy.UsesVariability && !rawInputs
	inputs := r.strategy.Inputs(r, w.Start, w.End, useVariability)
	outputs := r.strategy.Outputs(r, w.Start, w.End)
	return inputs, outputs, nil
}

type dayPair struct {
	input  float64
	output float64
}

// validDays pairs up the days of a stage where both input and output are
// present and, once a target is assigned, the input landed within
// target±range.
func (r *Run) validDays(stage int) ([]dayPair, error) {
	inputs, outputs, err := r.StageData(stage, false)
	if err != nil {
		return nil, err
	}
	target, err := r.exp.Target(stage)
	if err != nil {
		return nil, err
	}

	var pairs []dayPair
	for i := 0; i < len(inputs) && i < len(outputs); i++ {
		in, out := inputs[i], outputs[i]
		if in == nil || out == nil {
			continue
		}
		if target != nil {
			if *in < *target-r.strategy.RangeSize || *in > *target+r.strategy.RangeSize {
				continue
			}
		}
		pairs = append(pairs, dayPair{input: *in, output: *out})
	}
	return pairs, nil
}

// missedDays counts days of the current stage where input or output is
// absent. Missing the target does not make a day missed.
func (r *Run) missedDays() (int, error) {
	inputs, outputs, err := r.StageData(r.exp.CurrentStage, false)
	if err != nil {
		return 0, err
	}
	missed := 0
	for i := 0; i < len(inputs) && i < len(outputs); i++ {
		if inputs[i] == nil || outputs[i] == nil {
			missed++
		}
	}
	return missed, nil
}

// isOutputStable checks whether the last five reported outputs of the
// current stage sit within the type's stability tolerance. The baseline
// stage never ends early, so it is never stable.
func (r *Run) isOutputStable() (bool, error) {
	if r.exp.CurrentStage == 0 {
		return false, nil
	}
	_, outputs, err := r.StageData(r.exp.CurrentStage, false)
	if err != nil {
		return false, err
	}

	var recent []float64
	for _, out := range outputs {
		if out != nil {
			recent = append(recent, *out)
		}
	}
	if len(recent) > 5 {
		recent = recent[len(recent)-5:]
	}
	if len(recent) == 0 {
		return false, nil
	}

	lo, hi := recent[0], recent[0]
	for _, v := range recent {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return hi-lo <= r.strategy.StableRange, nil
}

// transition is the outcome of one end-of-stage evaluation.
type transition struct {
	End       bool
	Early     bool
	Restarted bool
}

// evaluate applies the end-of-stage decision rules in order:
//  1. too many missed days -> restart
//  2. enough valid days with stable outputs -> end early (targeted stages)
//  3. not enough achievable valid days left -> restart (targeted stages)
//  4. window elapsed -> end on time
//  5. otherwise continue
func (r *Run) evaluate() (transition, error) {
	stage := r.exp.CurrentStage
	w, ok, err := r.stageWindow(stage, false)
	if err != nil {
		return transition{}, err
	}
	if !ok {
		return transition{}, fmt.Errorf("stage %d has no recorded date window: %w", stage, domain.ErrDataIntegrity)
	}

	stageDay := w.Start.DaysUntil(r.today())
	missed, err := r.missedDays()
	if err != nil {
		return transition{}, err
	}
	valid, err := r.validDays(stage)
	if err != nil {
		return transition{}, err
	}
	stable, err := r.isOutputStable()
	if err != nil {
		return transition{}, err
	}

	if (stage > 0 && missed >= 2) || (stage == 0 && missed > 2) {
		return transition{Restarted: true}, nil
	}

	if stage > 0 {
		if len(valid) >= 5 && stable {
			return transition{End: true, Early: true}, nil
		}
		if stageDay >= 4 {
			daysLeft := stageLengthDays - stageDay
			if len(valid)+daysLeft < 4 {
				return transition{Restarted: true}, nil
			}
		}
	}

	if stageDay == stageLengthDays {
		return transition{End: true}, nil
	}

	return transition{}, nil
}

// restartCurrentStage resets the current stage's window to start today and
// bumps its restart counter. The stage number itself never changes on
// restart.
func (r *Run) restartCurrentStage() error {
	stage := r.exp.CurrentStage
	if err := r.exp.IncrementRestartCount(stage); err != nil {
		return err
	}
	today := r.today()
	return r.exp.SetStageWindow(stage, domain.StageWindow{Start: today, End: today.AddDays(stageLengthDays)})
}

// endStage advances to the next stage. Leaving the baseline assigns the
// adaptive targets from the baseline inputs; advancing past the last stage
// completes the experiment.
func (r *Run) endStage() error {
	if r.exp.CurrentStage == 0 {
		inputs, _, err := r.StageData(0, true)
		if err != nil {
			return err
		}
		if err := r.assignStageTargets(inputs); err != nil {
			return err
		}
	}

	r.exp.CurrentStage++

	if r.exp.CurrentStage > domain.NumStages {
		r.exp.IsActive = false
		end := r.now
		r.exp.EndTime = &end
		return nil
	}

	today := r.today()
	return r.exp.SetStageWindow(r.exp.CurrentStage, domain.StageWindow{Start: today, End: today.AddDays(stageLengthDays)})
}

// assignStageTargets classifies the baseline against the type's bands and
// resolves the fixed target sequence for stages 1..N. Idempotent for a
// given baseline: the classification is a pure function of the inputs.
func (r *Run) assignStageTargets(baselineInputs []*float64) error {
	var present []float64
	for _, v := range baselineInputs {
		if v != nil {
			present = append(present, *v)
		}
	}
	if len(present) == 0 {
		return fmt.Errorf("baseline stage has no inputs: %w", domain.ErrDataIntegrity)
	}

	average := r.strategy.InputAverage(present)
	lo, hi := present[0], present[0]
	for _, v := range present {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	variability := hi - lo

	targetValue := average
	if r.strategy.UsesVariability {
		targetValue = variability
	}

	ranges := r.strategy.Ranges
	rangeSize := r.strategy.RangeSize
	var names [domain.NumStageSlots]string
	switch {
	case targetValue <= ranges.Under:
		names = [domain.NumStageSlots]string{"under", "N1", "N3", "N2"}
	case targetValue <= ranges.N1+rangeSize:
		names = [domain.NumStageSlots]string{"N1", "N3", "N1", "N2"}
	case targetValue <= ranges.N2+rangeSize:
		names = [domain.NumStageSlots]string{"N2", "N3", "N1", "N2"}
	case targetValue <= ranges.N3+rangeSize:
		names = [domain.NumStageSlots]string{"N3", "N1", "N3", "N2"}
	default:
		names = [domain.NumStageSlots]string{"over", "N3", "N1", "N2"}
	}

	var targets [domain.NumStageSlots]float64
	for i, name := range names {
		targets[i] = ranges.band(name)
	}
	if err := r.exp.SetStageTargets(targets); err != nil {
		return err
	}
	r.exp.InitialStageAverage = &average
	return nil
}

// DailyTarget is the concrete number shown to the participant for one day
// of a stage. Variability types oscillate around the frozen baseline
// average: above it on odd days in the stage, below it on even days.
func (r *Run) DailyTarget(stage, dayInStage int) (*float64, error) {
	target, err := r.exp.Target(stage)
	if err != nil {
		return nil, err
	}
	if !r.strategy.UsesVariability || target == nil {
		return target, nil
	}
	if r.exp.InitialStageAverage == nil {
		return nil, fmt.Errorf("variability target without baseline average: %w", domain.ErrDataIntegrity)
	}

	base := *r.exp.InitialStageAverage
	daily := base - *target
	if ((dayInStage%2)+2)%2 == 1 {
		daily = base + *target
	}
	return &daily, nil
}

// CalculateResults computes the per-stage summaries, picks the best stage,
// and scores the confidence from distributional overlap. Runs once, when
// the experiment transitions into the complete state.
func (r *Run) CalculateResults() error {
	targets, err := r.exp.StageTargets()
	if err != nil {
		return err
	}

	minimize := r.strategy.MinimizesResult
	bestStage := 0
	bestOutput := math.Inf(-1)
	if minimize {
		bestOutput = math.Inf(1)
	}

	results := make([]domain.StageResult, 0, domain.NumStages)
	for stage := 1; stage <= domain.NumStages; stage++ {
		pairs, err := r.validDays(stage)
		if err != nil {
			return err
		}
		if len(pairs) == 0 {
			return fmt.Errorf("stage %d completed with no valid days: %w", stage, domain.ErrDataIntegrity)
		}
		if targets[stage] == nil {
			return fmt.Errorf("stage %d has no assigned target: %w", stage, domain.ErrDataIntegrity)
		}

		inputs := make([]float64, len(pairs))
		outputs := make([]float64, len(pairs))
		sum := 0.0
		minOut, maxOut := pairs[0].output, pairs[0].output
		for i, p := range pairs {
			inputs[i] = p.input
			outputs[i] = p.output
			sum += p.output
			minOut = math.Min(minOut, p.output)
			maxOut = math.Max(maxOut, p.output)
		}
		meanOut := sum / float64(len(pairs))

		if (!minimize && meanOut > bestOutput) || (minimize && meanOut < bestOutput) {
			bestOutput = meanOut
			bestStage = stage
		}

		results = append(results, domain.StageResult{
			Stage:      stage,
			Target:     *targets[stage],
			MeanOutput: meanOut,
			MinOutput:  minOut,
			MaxOutput:  maxOut,
			Inputs:     inputs,
			Outputs:    outputs,
		})
	}

	best := results[bestStage-1]

	// Confidence: how much of every other stage's output distribution lands
	// on the wrong side of the winner's extreme. The worst overlap across
	// stages decides the score.
	maxOverlap := math.Inf(-1)
	if minimize {
		maxOverlap = math.Inf(1)
	}
	for _, res := range results {
		if res.Stage == bestStage {
			continue
		}
		overlapping := 0
		for _, v := range res.Outputs {
			if (minimize && v <= best.MaxOutput) || (!minimize && v >= best.MinOutput) {
				overlapping++
			}
		}
		overlap := float64(overlapping) / float64(len(res.Outputs))
		if minimize {
			maxOverlap = math.Min(maxOverlap, overlap)
		} else {
			maxOverlap = math.Max(maxOverlap, overlap)
		}
	}

	confidence := math.Round((1.0-maxOverlap)*100) / 100
	if confidence > 0.9 {
		confidence = 0.9
	}

	r.exp.ResultValue = best.Target
	r.exp.ResultConfidence = confidence
	return r.exp.SetStageResultList(results)
}

// ProcessCheckin runs the full daily pipeline for a check-in that has
// already been appended to the run's check-in list: evaluate the stage
// transition, apply a restart or advancement, and build the
// post-transition view (including final results when the experiment just
// completed).
func (r *Run) ProcessCheckin(checkin *domain.Checkin) (*domain.CheckinResponse, error) {
	resp := &domain.CheckinResponse{
		Day: domain.DateOf(r.exp.StartTime.In(r.loc)).DaysUntil(domain.DateOf(checkin.CheckinTime.In(r.loc))) + 1,
	}

	tr, err := r.evaluate()
	if err != nil {
		return nil, err
	}

	if tr.Restarted {
		if err := r.restartCurrentStage(); err != nil {
			return nil, err
		}
		resp.RestartedStage = true
	}
	if tr.End {
		if err := r.endStage(); err != nil {
			return nil, err
		}
		resp.NewStage = true
		resp.EndedEarly = tr.Early
	}

	if err := r.fillStageView(&resp.StageInputs, &resp.StageOutputs, &resp.Target); err != nil {
		return nil, err
	}
	resp.CurrentStage = r.exp.CurrentStage

	if !r.exp.IsActive {
		if err := r.CalculateResults(); err != nil {
			return nil, err
		}
		resp.IsComplete = true
		resp.ResultValue = &r.exp.ResultValue
		resp.ResultConfidence = &r.exp.ResultConfidence
		results, err := r.exp.StageResultList()
		if err != nil {
			return nil, err
		}
		resp.StageResults = results
	}

	return resp, nil
}

// Snapshot builds the read-only stage view with no transition applied.
func (r *Run) Snapshot() (*domain.StageSnapshotResponse, error) {
	resp := &domain.StageSnapshotResponse{
		CurrentStage: r.exp.CurrentStage,
		IsActive:     r.exp.IsActive,
	}
	if err := r.fillStageView(&resp.StageInputs, &resp.StageOutputs, &resp.Target); err != nil {
		return nil, err
	}
	return resp, nil
}

// fillStageView populates the participant-facing stage sequences and
// today's target. The view always shows raw magnitudes, never
// variability-adjusted inputs.
func (r *Run) fillStageView(inputs, outputs *[]*float64, target **float64) error {
	in, out, err := r.StageData(r.exp.CurrentStage, true)
	if err != nil {
		return err
	}
	daily, err := r.DailyTarget(r.exp.CurrentStage, len(in)-1)
	if err != nil {
		return err
	}
	*inputs = in
	*outputs = out
	*target = daily
	return nil
}
