package model

import "time"

// RunResult is everything the core produces for one chain run
type RunResult struct {
	ID              string               `json:"id,omitempty"`
	OriginalText    string               `json:"original_text"`
	Chain           []string             `json:"chain"`
	Steps           []Step               `json:"results"`
	DriftRecords    []DriftRecord        `json:"analysis"`
	StepAnalyses    []StepAnalysis       `json:"step_analyses"`
	Mutations       []Mutation           `json:"mutations"`
	KeywordLineages []KeywordLineage     `json:"keyword_lineages"`
	KeywordTrees    []TransformationTree `json:"keyword_trees"`
	OverallDrift    float64              `json:"overall_drift"`
	FinalText       string               `json:"final_text"`
	Complete        bool                 `json:"complete"`            // Every hop produced text
	Cancelled       bool                 `json:"cancelled,omitempty"` // Run stopped by ctx
	CancelReason    string               `json:"cancel_reason,omitempty"`
	PersistError    string               `json:"persist_error,omitempty"`
	StartedAt       time.Time            `json:"started_at"`
	Duration        time.Duration        `json:"duration_ns"`
}

// RunRecord is what the core hands to a run sink for persistence
type RunRecord struct {
	ID           string        `json:"id"`
	OriginalText string        `json:"original_text"`
	Chain        []string      `json:"chain"`
	Steps        []Step        `json:"results"`
	DriftRecords []DriftRecord `json:"analysis"`
	OverallDrift float64       `json:"overall_drift"`
	FinalText    string        `json:"final_text"`
	Timestamp    time.Time     `json:"timestamp"`
}

// Record builds the sink-facing record from a run result
func (r *RunResult) Record() RunRecord {
	return RunRecord{
		ID:           r.ID,
		OriginalText: r.OriginalText,
		Chain:        r.Chain,
		Steps:        r.Steps,
		DriftRecords: r.DriftRecords,
		OverallDrift: r.OverallDrift,
		FinalText:    r.FinalText,
		Timestamp:    r.StartedAt,
	}
}
