package model

// LineageStatus is the final fate of a tracked keyword
type LineageStatus string

const (
	LineagePreserved LineageStatus = "preserved"
	LineageLost      LineageStatus = "lost"
)

// Keyword is a salient term extracted from a text
type Keyword struct {
	Stem      string   `json:"stem"`
	Primary   string   `json:"primary"`
	Variants  []string `json:"variants"`
	Frequency int      `json:"frequency"`
}

// LineageLink records whether a keyword survived into one step
type LineageLink struct {
	Step     int     `json:"step"`
	Language string  `json:"language"`
	Word     *string `json:"word"`
	Found    bool    `json:"found"`
}

// KeywordLineage is the per-step survival record of one keyword
type KeywordLineage struct {
	Keyword          string        `json:"keyword"`
	Variants         []string      `json:"variants"`
	Chain            []LineageLink `json:"chain"`
	FinalStatus      LineageStatus `json:"final_status"`
	LostAtStep       *int          `json:"lost_at_step"`
	PreservationRate float64       `json:"preservation_rate"`
}

// TreeNode is one node of a keyword transformation tree
type TreeNode struct {
	ID       string  `json:"id"`
	Step     int     `json:"step"`
	Language string  `json:"language"`
	Word     *string `json:"word"`
	Status   string  `json:"status"` // "active" or "lost"
	Parent   *string `json:"parent"`
}

// TransformationTree links the lineage of one keyword into parent/child nodes
type TransformationTree struct {
	RootKeyword string        `json:"root_keyword"`
	Nodes       []TreeNode    `json:"nodes"`
	FinalStatus LineageStatus `json:"final_status"`
}
