package drift

import "github.com/ppiankov/driftchain/internal/model"

type threshold struct {
	above float64
	class model.ChangeClass
}

// classes is evaluated top-down; the first threshold the similarity
// strictly exceeds wins
var classes = []threshold{
	{0.95, model.ChangeMinimal},
	{0.85, model.ChangeStable},
	{0.70, model.ChangeModerate},
	{0.50, model.ChangeSignificant},
}

// Classify maps a local similarity to a change class
func Classify(similarity float64) model.ChangeClass {
	for _, t := range classes {
		if similarity > t.above {
			return t.class
		}
	}
	return model.ChangeCritical
}
