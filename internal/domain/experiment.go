package domain

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ExperimentType tags one of the four supported experiment designs.
type ExperimentType string

const (
	TypeStepsSleepEfficiency      ExperimentType = "stepssleepefficiency"
	TypeSleepDurationProductivity ExperimentType = "sleepdurationproductivity"
	TypeSleepVariabilityStress    ExperimentType = "sleepvariabilitystress"
	TypeLeisureHappiness          ExperimentType = "leisurehappiness"
)

// NumStages is the number of targeted stages following the baseline stage.
// Per-stage arrays carry NumStages+1 slots (baseline plus targets); an
// experiment whose current stage exceeds NumStages is complete.
const NumStages = 3

// NumStageSlots is the fixed length of every per-stage array.
const NumStageSlots = NumStages + 1

// StageWindow is the half-open [Start, End) date range of one stage attempt.
type StageWindow struct {
	Start Date
	End   Date
}

type stageWindowJSON [2]Date

// StageResult summarizes one targeted stage for the final report.
type StageResult struct {
	Stage      int       `json:"stage"`
	Target     float64   `json:"target"`
	MeanOutput float64   `json:"mean_output"`
	MinOutput  float64   `json:"min_output"`
	MaxOutput  float64   `json:"max_output"`
	Inputs     []float64 `json:"inputs"`
	Outputs    []float64 `json:"outputs"`
}

// Experiment is the aggregate under test: one participant running one
// adaptive single-subject study. The per-stage list fields are stored as
// fixed-length JSON arrays (null for absent slots) for compatibility with
// historical records; use the typed accessors instead of touching the raw
// columns.
type Experiment struct {
	ID     uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID uuid.UUID      `gorm:"type:uuid;not null;index:idx_experiments_user_start" json:"user_id"`
	Type   ExperimentType `gorm:"column:experiment_type;type:varchar(32);not null" json:"type"`

	StartTime    time.Time  `gorm:"not null;index:idx_experiments_user_start,sort:desc" json:"start_time"`
	EndTime      *time.Time `json:"end_time,omitempty"`
	IsActive     bool       `gorm:"not null;default:false" json:"is_active"`
	IsCancelled  bool       `gorm:"not null;default:false" json:"is_cancelled"`
	CancelReason string     `gorm:"type:text;not null;default:''" json:"cancel_reason,omitempty"`

	// Baseline anchor, frozen when stage targets are assigned.
	InitialStageAverage *float64 `json:"initial_stage_average,omitempty"`

	ResultValue      float64        `gorm:"not null;default:0" json:"result_value"`
	ResultConfidence float64        `gorm:"not null;default:0" json:"result_confidence"`
	StageResults     datatypes.JSON `gorm:"type:jsonb" json:"-"`

	StageDates        datatypes.JSON `gorm:"type:jsonb" json:"-"`
	StageTargetValues datatypes.JSON `gorm:"type:jsonb" json:"-"`
	StageRestartCount datatypes.JSON `gorm:"type:jsonb" json:"-"`

	CurrentStage int `gorm:"not null;default:0" json:"current_stage"`

	SelfEfficacy       int `gorm:"not null" json:"self_efficacy"`
	AppEfficacy        int `gorm:"not null" json:"app_efficacy"`
	ExperimentEfficacy int `gorm:"not null" json:"experiment_efficacy"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Experiment) TableName() string {
	return "experiments"
}

// NewExperiment builds a freshly started experiment with the baseline stage
// window set to [today, today+7).
func NewExperiment(userID uuid.UUID, expType ExperimentType, now time.Time, loc *time.Location) (*Experiment, error) {
	exp := &Experiment{
		ID:        uuid.New(),
		UserID:    userID,
		Type:      expType,
		StartTime: now,
		IsActive:  true,
	}

	if err := exp.resetStageArrays(); err != nil {
		return nil, err
	}

	today := DateOf(now.In(loc))
	if err := exp.SetStageWindow(0, StageWindow{Start: today, End: today.AddDays(7)}); err != nil {
		return nil, err
	}
	return exp, nil
}

func (e *Experiment) resetStageArrays() error {
	empty := [NumStageSlots]*stageWindowJSON{}
	dates, err := json.Marshal(empty)
	if err != nil {
		return err
	}
	targets, err := json.Marshal([NumStageSlots]*float64{})
	if err != nil {
		return err
	}
	restarts, err := json.Marshal([NumStageSlots]int{})
	if err != nil {
		return err
	}
	results, err := json.Marshal([]StageResult{})
	if err != nil {
		return err
	}
	e.StageDates = dates
	e.StageTargetValues = targets
	e.StageRestartCount = restarts
	e.StageResults = results
	return nil
}

// IsComplete reports whether the experiment advanced past the last stage.
func (e *Experiment) IsComplete() bool {
	return e.CurrentStage > NumStages
}

// IsTerminal reports whether the experiment can no longer accept check-ins.
func (e *Experiment) IsTerminal() bool {
	return !e.IsActive
}

// DaysElapsed counts calendar days from start to end (or now), inclusive.
func (e *Experiment) DaysElapsed(now time.Time) int {
	end := now
	if e.EndTime != nil {
		end = *e.EndTime
	}
	return DateOf(e.StartTime).DaysUntil(DateOf(end)) + 1
}

// StageWindows decodes the per-stage date windows.
func (e *Experiment) StageWindows() ([NumStageSlots]*StageWindow, error) {
	var raw []*stageWindowJSON
	var out [NumStageSlots]*StageWindow
	if err := decodeStageArray(e.StageDates, &raw); err != nil {
		return out, err
	}
	for i, pair := range raw {
		if pair != nil {
			out[i] = &StageWindow{Start: pair[0], End: pair[1]}
		}
	}
	return out, nil
}

// SetStageWindow records the date window for one stage attempt, replacing
// any previous attempt's window.
func (e *Experiment) SetStageWindow(stage int, w StageWindow) error {
	if stage < 0 || stage >= NumStageSlots {
		return fmt.Errorf("stage %d out of range: %w", stage, ErrDataIntegrity)
	}
	var raw []*stageWindowJSON
	if err := decodeStageArray(e.StageDates, &raw); err != nil {
		return err
	}
	raw[stage] = &stageWindowJSON{w.Start, w.End}
	data, err := json.Marshal(raw)
	if err != nil {
		return err
	}
	e.StageDates = data
	return nil
}

// StageTargets decodes the per-stage target values.
func (e *Experiment) StageTargets() ([NumStageSlots]*float64, error) {
	var raw []*float64
	var out [NumStageSlots]*float64
	if err := decodeStageArray(e.StageTargetValues, &raw); err != nil {
		return out, err
	}
	copy(out[:], raw)
	return out, nil
}

// Target returns the stored numeric target for a stage, or nil for the
// baseline, unassigned stages, and any stage past the last slot.
func (e *Experiment) Target(stage int) (*float64, error) {
	if stage < 0 || stage >= NumStageSlots {
		return nil, nil
	}
	targets, err := e.StageTargets()
	if err != nil {
		return nil, err
	}
	return targets[stage], nil
}

// SetStageTargets stores the resolved numeric targets for all stage slots.
func (e *Experiment) SetStageTargets(targets [NumStageSlots]float64) error {
	ptrs := make([]*float64, NumStageSlots)
	for i := range targets {
		v := targets[i]
		ptrs[i] = &v
	}
	data, err := json.Marshal(ptrs)
	if err != nil {
		return err
	}
	e.StageTargetValues = data
	return nil
}

// RestartCounts decodes the per-stage restart counters.
func (e *Experiment) RestartCounts() ([NumStageSlots]int, error) {
	var raw []int
	var out [NumStageSlots]int
	if err := decodeStageArray(e.StageRestartCount, &raw); err != nil {
		return out, err
	}
	copy(out[:], raw)
	return out, nil
}

// IncrementRestartCount bumps the restart counter for one stage.
func (e *Experiment) IncrementRestartCount(stage int) error {
	if stage < 0 || stage >= NumStageSlots {
		return fmt.Errorf("stage %d out of range: %w", stage, ErrDataIntegrity)
	}
	var raw []int
	if err := decodeStageArray(e.StageRestartCount, &raw); err != nil {
		return err
	}
	raw[stage]++
	data, err := json.Marshal(raw)
	if err != nil {
		return err
	}
	e.StageRestartCount = data
	return nil
}

// StageResultList decodes the stored per-stage summaries.
func (e *Experiment) StageResultList() ([]StageResult, error) {
	if len(e.StageResults) == 0 {
		return nil, nil
	}
	var results []StageResult
	if err := json.Unmarshal(e.StageResults, &results); err != nil {
		return nil, fmt.Errorf("stage results malformed: %w", ErrDataIntegrity)
	}
	return results, nil
}

// SetStageResultList stores the per-stage summaries.
func (e *Experiment) SetStageResultList(results []StageResult) error {
	data, err := json.Marshal(results)
	if err != nil {
		return err
	}
	e.StageResults = data
	return nil
}

// decodeStageArray unmarshals a fixed-length per-stage JSON column and
// enforces the NumStageSlots length contract.
func decodeStageArray(data datatypes.JSON, out any) error {
	if len(data) == 0 {
		return fmt.Errorf("stage array missing: %w", ErrDataIntegrity)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("stage array malformed: %w", ErrDataIntegrity)
	}
	length := 0
	switch v := out.(type) {
	case *[]*stageWindowJSON:
		length = len(*v)
	case *[]*float64:
		length = len(*v)
	case *[]int:
		length = len(*v)
	default:
		return fmt.Errorf("unsupported stage array type %T", out)
	}
	if length != NumStageSlots {
		return fmt.Errorf("stage array has %d slots, want %d: %w", length, NumStageSlots, ErrDataIntegrity)
	}
	return nil
}

// StartExperimentRequest is the request body for starting an experiment.
// @Description Experiment type plus the participant's efficacy self-ratings.
type StartExperimentRequest struct {
	// One of the four supported experiment types
	Type ExperimentType `json:"type" validate:"required,oneof=stepssleepefficiency sleepdurationproductivity sleepvariabilitystress leisurehappiness"`
	// Confidence in oneself to change the behavior (0-10)
	SelfEfficacy int `json:"self_efficacy" validate:"min=0,max=10"`
	// Confidence in the app (0-10)
	AppEfficacy int `json:"app_efficacy" validate:"min=0,max=10"`
	// Confidence in the experiment design (0-10)
	ExperimentEfficacy int `json:"experiment_efficacy" validate:"min=0,max=10"`
}

// CancelExperimentRequest is the request body for cancelling an experiment.
type CancelExperimentRequest struct {
	// Free-text reason the participant gave up
	Reason string `json:"reason" validate:"required,max=2000"`
}

// CheckinResponse is the post-transition view returned after a check-in.
// @Description Stage state after the daily check-in was processed.
type CheckinResponse struct {
	// 1-based day of the experiment this check-in landed on
	Day          int `json:"day"`
	CurrentStage int `json:"current_stage"`
	// Day-by-day input values for the current stage so far (null = no data)
	StageInputs []*float64 `json:"stage_inputs"`
	// Day-by-day output values for the current stage so far (null = no data)
	StageOutputs []*float64 `json:"stage_outputs"`
	// Today's behavioral target (null during baseline and after completion)
	Target           *float64      `json:"target"`
	RestartedStage   bool          `json:"restarted_stage,omitempty"`
	NewStage         bool          `json:"new_stage,omitempty"`
	EndedEarly       bool          `json:"ended_early,omitempty"`
	IsComplete       bool          `json:"is_complete,omitempty"`
	ResultValue      *float64      `json:"result_value,omitempty"`
	ResultConfidence *float64      `json:"result_confidence,omitempty"`
	StageResults     []StageResult `json:"stage_results,omitempty"`
}

// StageSnapshotResponse is the read-only stage view (no transition applied).
type StageSnapshotResponse struct {
	CurrentStage int        `json:"current_stage"`
	StageInputs  []*float64 `json:"stage_inputs"`
	StageOutputs []*float64 `json:"stage_outputs"`
	Target       *float64   `json:"target"`
	IsActive     bool       `json:"is_active"`
}

// ExperimentSummary is one row of the experiment listing.
type ExperimentSummary struct {
	Key              uuid.UUID      `json:"key"`
	Days             int            `json:"days"`
	ResultValue      float64        `json:"result_value"`
	ResultConfidence float64        `json:"result_confidence"`
	Type             ExperimentType `json:"type"`
	StartTime        time.Time      `json:"start_time"`
	EndTime          *time.Time     `json:"end_time,omitempty"`
	IsCancelled      bool           `json:"is_cancelled"`
	IsActive         bool           `json:"is_active"`
}

// ToSummary builds the listing row for this experiment.
func (e *Experiment) ToSummary(now time.Time) ExperimentSummary {
	return ExperimentSummary{
		Key:              e.ID,
		Days:             e.DaysElapsed(now),
		ResultValue:      e.ResultValue,
		ResultConfidence: e.ResultConfidence,
		Type:             e.Type,
		StartTime:        e.StartTime,
		EndTime:          e.EndTime,
		IsCancelled:      e.IsCancelled,
		IsActive:         e.IsActive,
	}
}
