package domain

// SummaryContext is the JSON payload handed to the LLM when narrating a
// finished experiment.
type SummaryContext struct {
	Type             ExperimentType `json:"type"`
	Behavior         string         `json:"behavior"`
	Outcome          string         `json:"outcome"`
	Maximize         bool           `json:"maximize"`
	Days             int            `json:"days"`
	IsCancelled      bool           `json:"is_cancelled"`
	ResultValue      float64        `json:"result_value"`
	ResultConfidence float64        `json:"result_confidence"`
	RestartCounts    []int          `json:"restart_counts"`
	StageResults     []StageResult  `json:"stage_results"`
}

// LLMSummaryOutput is the structured narration returned by the LLM.
type LLMSummaryOutput struct {
	Summary      string   `json:"summary"`
	Observations []string `json:"observations"`
	Guidance     []string `json:"guidance"`
}

// SummaryResponse is returned by the experiment summary endpoint.
type SummaryResponse struct {
	ExperimentID     string           `json:"experiment_id"`
	Type             ExperimentType   `json:"type"`
	ResultValue      float64          `json:"result_value"`
	ResultConfidence float64          `json:"result_confidence"`
	Narrative        LLMSummaryOutput `json:"narrative"`
}
