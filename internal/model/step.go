package model

// ProviderOriginal marks step 0, which carries the untranslated input
const ProviderOriginal = "original"

// Step is one entry of a chain traversal. Index 0 is the original text.
// Steps are never modified after the orchestrator records them.
type Step struct {
	Index          int     `json:"step"`
	Language       string  `json:"language"`
	Text           *string `json:"text"`             // nil when the hop failed
	Provider       string  `json:"service"`          // Provider that produced the text
	SourceLanguage string  `json:"from,omitempty"`   // Language the hop translated from
	Error          string  `json:"error,omitempty"`  // Failure reason for a nil-text step
	Cached         bool    `json:"cached,omitempty"` // Served from the translation cache
}

// HasText reports whether the step produced text
func (s Step) HasText() bool {
	return s.Text != nil
}

// TextOrEmpty returns the step text, or "" for a failed step
func (s Step) TextOrEmpty() string {
	if s.Text == nil {
		return ""
	}
	return *s.Text
}

// StringPtr returns a pointer to a copy of s
func StringPtr(s string) *string {
	return &s
}

// Similarity methods
const (
	MethodEmbedding = "embedding"
	MethodJaccard   = "jaccard"
)

// DriftRecord is the chain-level drift measurement for one non-original step
type DriftRecord struct {
	StepIndex            int     `json:"step"`
	Language             string  `json:"language"`
	SimilarityToOriginal float64 `json:"similarity"`
	LocalDrift           float64 `json:"local_drift"`
	Method               string  `json:"method"` // MethodEmbedding or MethodJaccard
	Text                 string  `json:"text"`
}
