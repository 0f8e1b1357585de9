package drift

import (
	"strings"
	"testing"

	"github.com/ppiankov/driftchain/internal/model"
)

func threeStepRun() []model.Step {
	return []model.Step{
		{Index: 0, Language: "en", Text: model.StringPtr("a b c")},
		{Index: 1, Language: "ru", Text: model.StringPtr("a b c")},
		{Index: 2, Language: "ja", Text: model.StringPtr("a x")},
	}
}

func TestFindMutations_CriticalDriftOnly(t *testing.T) {
	analyses := []model.StepAnalysis{
		{
			StepIndex:  1,
			LocalDrift: 0.0,
		},
		{
			StepIndex:    2,
			LocalDrift:   0.5,
			PreviousText: "a b c",
			CurrentText:  "a x",
			Tokens: model.TokenDelta{
				Lost:      []string{"b", "c"},
				LostCount: 2,
			},
		},
	}

	mutations := FindMutations(threeStepRun(), analyses)

	if len(mutations) != 1 {
		t.Fatalf("expected exactly 1 mutation, got %d: %+v", len(mutations), mutations)
	}
	m := mutations[0]
	if m.Type != model.MutationCriticalDrift {
		t.Errorf("expected critical_drift, got %s", m.Type)
	}
	if m.StepIndex != 2 || m.Language != "ja" {
		t.Errorf("expected step 2 (ja), got step %d (%s)", m.StepIndex, m.Language)
	}
	if !strings.Contains(m.Description, "a b c → a x") {
		t.Errorf("expected description to quote both texts, got %q", m.Description)
	}
}

func TestFindMutations_MultiplePerHop(t *testing.T) {
	lost := []string{"one", "two", "three", "four", "five", "six"}
	gained := []string{"uno", "dos", "tres", "cuatro", "cinco", "seis", "siete"}

	analyses := []model.StepAnalysis{
		{
			StepIndex:  1,
			LocalDrift: 0.9,
			Tokens: model.TokenDelta{
				Lost:        lost,
				LostCount:   len(lost),
				Gained:      gained,
				GainedCount: len(gained),
			},
			Reasons: []model.Reason{{Type: model.ReasonConceptExpansion}},
		},
	}

	mutations := FindMutations(threeStepRun(), analyses)

	if len(mutations) != 3 {
		t.Fatalf("expected 3 mutations, got %d", len(mutations))
	}
	wantTypes := []model.MutationType{
		model.MutationCriticalDrift,
		model.MutationWordDisappearance,
		model.MutationNewConcept,
	}
	for i, want := range wantTypes {
		if mutations[i].Type != want {
			t.Errorf("mutation %d: expected %s, got %s", i, want, mutations[i].Type)
		}
	}
	if mutations[1].Description != "Mass word disappearance: one, two, three" {
		t.Errorf("unexpected description %q", mutations[1].Description)
	}
	if mutations[2].Description != "New concepts appeared: uno, dos, tres" {
		t.Errorf("unexpected description %q", mutations[2].Description)
	}
}

func TestFindMutations_SnippetsTruncated(t *testing.T) {
	long := strings.Repeat("ж", 80)
	analyses := []model.StepAnalysis{
		{StepIndex: 1, LocalDrift: 0.6, PreviousText: long, CurrentText: "short"},
	}

	mutations := FindMutations(threeStepRun(), analyses)

	if len(mutations) != 1 {
		t.Fatalf("expected 1 mutation, got %d", len(mutations))
	}
	if strings.Contains(mutations[0].Description, strings.Repeat("ж", 51)) {
		t.Error("expected previous text to be cut to 50 characters")
	}
}

func TestFindMutations_Empty(t *testing.T) {
	if got := FindMutations(nil, nil); len(got) != 0 {
		t.Errorf("expected no mutations, got %+v", got)
	}
}
