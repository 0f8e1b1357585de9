// Package presets holds the named language chains offered to users
package presets

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownPreset is returned by Get for an id that does not exist
var ErrUnknownPreset = errors.New("unknown preset")

// Preset is a named, curated language chain
type Preset struct {
	ID          string   `json:"id" yaml:"id"`
	Name        string   `json:"name" yaml:"name"`
	Languages   []string `json:"languages" yaml:"languages"`
	Difficulty  int      `json:"difficulty" yaml:"difficulty"` // 1 (gentle) to 5 (brutal)
	Description string   `json:"description" yaml:"description"`
}

var presets = map[string]Preset{
	"babel-tower": {
		Name:        "Tower of Babel",
		Languages:   []string{"ru", "ar", "he", "fa", "tr", "ru"},
		Difficulty:  3,
		Description: "Religious and cultural context",
	},
	"silk-road": {
		Name:        "Silk Road",
		Languages:   []string{"ru", "zh", "vi", "th", "hi", "ru"},
		Difficulty:  2,
		Description: "An Asian odyssey",
	},
	"viking-lost": {
		Name:        "Lost Vikings",
		Languages:   []string{"ru", "is", "no", "sv", "fi", "ru"},
		Difficulty:  4,
		Description: "A Scandinavian maze",
	},
	"isolate-extreme": {
		Name:        "Language Isolate",
		Languages:   []string{"ru", "eu", "ko", "ka", "mt", "hu", "ru"},
		Difficulty:  5,
		Description: "Only isolates and rare families",
	},
	"metaphor-killer": {
		Name:        "Metaphor Killer",
		Languages:   []string{"ru", "ja", "ar", "fi", "is", "ru"},
		Difficulty:  4,
		Description: "For poetry and idioms",
	},
}

// All returns every preset sorted by id
func All() []Preset {
	all := make([]Preset, 0, len(presets))
	for id := range presets {
		p, _ := Get(id)
		all = append(all, p)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return all
}

// Get returns a copy of the preset with the given id
func Get(id string) (Preset, error) {
	p, ok := presets[id]
	if !ok {
		return Preset{}, fmt.Errorf("%w: %s", ErrUnknownPreset, id)
	}
	p.ID = id
	p.Languages = append([]string(nil), p.Languages...)
	return p, nil
}
