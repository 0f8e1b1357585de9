package model

// ChangeClass classifies how much a single hop changed the text
type ChangeClass string

const (
	ChangeMinimal     ChangeClass = "minimal"
	ChangeStable      ChangeClass = "stable"
	ChangeModerate    ChangeClass = "moderate"
	ChangeSignificant ChangeClass = "significant"
	ChangeCritical    ChangeClass = "critical"
)

// Label returns a human-readable label for the class
func (c ChangeClass) Label() string {
	switch c {
	case ChangeMinimal:
		return "Minimal change"
	case ChangeStable:
		return "Stable step"
	case ChangeModerate:
		return "Moderate drift"
	case ChangeSignificant:
		return "Significant shift"
	case ChangeCritical:
		return "Critical shift"
	default:
		return "Unknown"
	}
}

// ReasonType names a diagnostic reason for drift
type ReasonType string

const (
	ReasonRarePair         ReasonType = "rare_pair"
	ReasonWordLoss         ReasonType = "word_loss"
	ReasonSemanticShift    ReasonType = "semantic_shift"
	ReasonConceptExpansion ReasonType = "concept_expansion"
)

// Impact indicates how strongly a reason contributes to drift
type Impact string

const (
	ImpactMedium Impact = "medium"
	ImpactHigh   Impact = "high"
)

// Reason is one diagnostic explanation attached to a step analysis
type Reason struct {
	Type        ReasonType `json:"type"`
	Description string     `json:"description"`
	Impact      Impact     `json:"impact"`
}

// TokenDelta describes which tokens a hop lost, gained and kept
type TokenDelta struct {
	Lost           []string `json:"lost"`
	Gained         []string `json:"gained"`
	Preserved      []string `json:"preserved"`
	LostCount      int      `json:"lost_count"`
	GainedCount    int      `json:"gained_count"`
	PreservedCount int      `json:"preserved_count"`
}

// StepAnalysis is the deep diagnostic for one pair of consecutive steps
type StepAnalysis struct {
	StepIndex           int         `json:"step"` // Index of the later step of the pair
	FromLang            string      `json:"from_lang"`
	ToLang              string      `json:"to_lang"`
	Provider            string      `json:"service"`
	PreviousText        string      `json:"previous_text"`
	CurrentText         string      `json:"current_text"`
	LocalSimilarity     float64     `json:"local_similarity"`
	LocalDrift          float64     `json:"local_drift"`
	Method              string      `json:"method"`
	EditSimilarity      float64     `json:"edit_similarity"` // Character-level, independent of Method
	ChangeClass         ChangeClass `json:"change_type"`
	ChangeLabel         string      `json:"change_label"`
	Tokens              TokenDelta  `json:"tokens"`
	LengthChange        int         `json:"length_change"`
	LengthChangePercent int         `json:"length_change_percent"`
	Reasons             []Reason    `json:"reasons"`
	Confidence          float64     `json:"confidence"`
}

// HasReason reports whether the analysis carries a reason of the given type
func (a StepAnalysis) HasReason(t ReasonType) bool {
	for _, r := range a.Reasons {
		if r.Type == t {
			return true
		}
	}
	return false
}

// MutationType classifies an anomalous event detected across a run
type MutationType string

const (
	MutationCriticalDrift     MutationType = "critical_drift"
	MutationWordDisappearance MutationType = "word_disappearance"
	MutationNewConcept        MutationType = "new_concept"
)

// Mutation is a flagged anomaly at a particular step of a run
type Mutation struct {
	Type        MutationType           `json:"type"`
	StepIndex   int                    `json:"step"`
	Language    string                 `json:"language"`
	Description string                 `json:"description"`
	Detail      map[string]interface{} `json:"detail,omitempty"`
}
