// Package keywords tracks whether the salient terms of the original text
// survive each hop of a translation chain.
package keywords

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/ppiankov/driftchain/internal/model"
	"github.com/ppiankov/driftchain/internal/textsim"
)

// MaxKeywords is the number of keywords extracted from a text
const MaxKeywords = 10

// Extract returns the top keywords of text, most frequent first.
// Ties keep the order in which stems first appear.
func Extract(text, lang string) []model.Keyword {
	sw := Stopwords(lang)

	var order []string
	groups := make(map[string]*model.Keyword)

	for _, token := range textsim.Tokenize(text) {
		if sw[token] || utf8.RuneCountInString(token) <= 2 {
			continue
		}

		stem := textsim.Stem(token, lang)
		kw, ok := groups[stem]
		if !ok {
			kw = &model.Keyword{Stem: stem, Primary: token}
			groups[stem] = kw
			order = append(order, stem)
		}
		kw.Frequency++
		if !contains(kw.Variants, token) {
			kw.Variants = append(kw.Variants, token)
		}
	}

	keywords := make([]model.Keyword, 0, len(order))
	for _, stem := range order {
		keywords = append(keywords, *groups[stem])
	}
	sort.SliceStable(keywords, func(i, j int) bool {
		return keywords[i].Frequency > keywords[j].Frequency
	})

	if len(keywords) > MaxKeywords {
		keywords = keywords[:MaxKeywords]
	}
	return keywords
}

// Track extracts keywords from the original (steps[0]) and follows each one
// through the remaining steps. A keyword survives into a step when any of
// its variants and any token of the step contain one another; steps
// without text count as not found.
func Track(steps []model.Step) []model.KeywordLineage {
	if len(steps) == 0 || !steps[0].HasText() {
		return []model.KeywordLineage{}
	}

	original := steps[0]
	keywords := Extract(original.TextOrEmpty(), original.Language)

	// Tokenize each step once for all keywords
	stepTokens := make([][]string, len(steps))
	for i, s := range steps[1:] {
		stepTokens[i+1] = textsim.Tokenize(s.TextOrEmpty())
	}

	lineages := make([]model.KeywordLineage, 0, len(keywords))
	for _, kw := range keywords {
		chain := []model.LineageLink{{
			Step:     original.Index,
			Language: original.Language,
			Word:     model.StringPtr(kw.Primary),
			Found:    true,
		}}

		for i, s := range steps[1:] {
			link := model.LineageLink{Step: s.Index, Language: s.Language}
			if match, ok := findVariant(kw.Variants, stepTokens[i+1]); ok {
				link.Word = model.StringPtr(match)
				link.Found = true
			}
			chain = append(chain, link)
		}

		lineages = append(lineages, newLineage(kw, chain))
	}

	return lineages
}

func newLineage(kw model.Keyword, chain []model.LineageLink) model.KeywordLineage {
	lineage := model.KeywordLineage{
		Keyword:     kw.Primary,
		Variants:    kw.Variants,
		Chain:       chain,
		FinalStatus: model.LineageLost,
	}

	if chain[len(chain)-1].Found {
		lineage.FinalStatus = model.LineagePreserved
	}

	// LostAtStep opens the trailing run of misses, so a keyword that
	// disappears and comes back is not lost
	found := 0
	for i, link := range chain {
		if link.Found {
			found++
			lineage.LostAtStep = nil
		} else if lineage.LostAtStep == nil {
			lost := i
			lineage.LostAtStep = &lost
		}
	}
	lineage.PreservationRate = float64(found) / float64(len(chain))

	return lineage
}

// findVariant returns the first token that contains, or is contained in, a variant
func findVariant(variants, tokens []string) (string, bool) {
	for _, token := range tokens {
		for _, v := range variants {
			if strings.Contains(token, v) || strings.Contains(v, token) {
				return token, true
			}
		}
	}
	return "", false
}

// BuildTree links each lineage into a chain of parent/child nodes
func BuildTree(lineages []model.KeywordLineage) []model.TransformationTree {
	trees := make([]model.TransformationTree, 0, len(lineages))

	for _, l := range lineages {
		nodes := make([]model.TreeNode, len(l.Chain))
		for i, link := range l.Chain {
			status := "active"
			if !link.Found {
				status = "lost"
			}

			var parent *string
			if i > 0 {
				parent = model.StringPtr(nodeID(l.Keyword, i-1))
			}

			nodes[i] = model.TreeNode{
				ID:       nodeID(l.Keyword, i),
				Step:     link.Step,
				Language: link.Language,
				Word:     link.Word,
				Status:   status,
				Parent:   parent,
			}
		}

		trees = append(trees, model.TransformationTree{
			RootKeyword: l.Keyword,
			Nodes:       nodes,
			FinalStatus: l.FinalStatus,
		})
	}

	return trees
}

func nodeID(keyword string, i int) string {
	return fmt.Sprintf("%s_%d", keyword, i)
}

func contains(items []string, s string) bool {
	for _, item := range items {
		if item == s {
			return true
		}
	}
	return false
}
