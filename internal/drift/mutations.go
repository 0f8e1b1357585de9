package drift

import (
	"fmt"
	"strings"

	"github.com/ppiankov/driftchain/internal/model"
)

const (
	criticalDriftThreshold   = 0.4
	wordDisappearanceMinLost = 5
	snippetLength            = 50
)

// FindMutations flags anomalous hops. Analyses are matched to steps by
// step index; one hop may produce several mutations.
func FindMutations(steps []model.Step, analyses []model.StepAnalysis) []model.Mutation {
	mutations := []model.Mutation{}

	for _, a := range analyses {
		language := a.ToLang
		if a.StepIndex >= 0 && a.StepIndex < len(steps) {
			language = steps[a.StepIndex].Language
		}

		// 1. Critical drift
		if a.LocalDrift > criticalDriftThreshold {
			mutations = append(mutations, model.Mutation{
				Type:      model.MutationCriticalDrift,
				StepIndex: a.StepIndex,
				Language:  language,
				Description: fmt.Sprintf("Critical drift at step %d: %s → %s",
					a.StepIndex, snippet(a.PreviousText), snippet(a.CurrentText)),
				Detail: map[string]interface{}{
					"drift": a.LocalDrift,
				},
			})
		}

		// 2. Mass word disappearance
		if a.Tokens.LostCount > wordDisappearanceMinLost {
			mutations = append(mutations, model.Mutation{
				Type:        model.MutationWordDisappearance,
				StepIndex:   a.StepIndex,
				Language:    language,
				Description: fmt.Sprintf("Mass word disappearance: %s", strings.Join(firstN(a.Tokens.Lost, 3), ", ")),
				Detail: map[string]interface{}{
					"lost_words": a.Tokens.Lost,
				},
			})
		}

		// 3. New concept
		if a.HasReason(model.ReasonConceptExpansion) {
			mutations = append(mutations, model.Mutation{
				Type:        model.MutationNewConcept,
				StepIndex:   a.StepIndex,
				Language:    language,
				Description: fmt.Sprintf("New concepts appeared: %s", strings.Join(firstN(a.Tokens.Gained, 3), ", ")),
				Detail: map[string]interface{}{
					"new_words": a.Tokens.Gained,
				},
			})
		}
	}

	return mutations
}

func snippet(text string) string {
	r := []rune(text)
	if len(r) <= snippetLength {
		return text
	}
	return string(r[:snippetLength])
}
