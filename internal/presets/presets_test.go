package presets

import (
	"errors"
	"testing"
)

func TestAll_SortedAndValid(t *testing.T) {
	all := All()

	if len(all) != 5 {
		t.Fatalf("expected 5 presets, got %d", len(all))
	}
	for i, p := range all {
		if i > 0 && all[i-1].ID >= p.ID {
			t.Errorf("presets not sorted by id: %s before %s", all[i-1].ID, p.ID)
		}
		if len(p.Languages) < 3 {
			t.Errorf("preset %s has a chain shorter than 3", p.ID)
		}
		if p.Difficulty < 1 || p.Difficulty > 5 {
			t.Errorf("preset %s has difficulty %d out of range", p.ID, p.Difficulty)
		}
		if p.Languages[0] != p.Languages[len(p.Languages)-1] {
			t.Errorf("preset %s should return to its starting language", p.ID)
		}
	}
}

func TestGet(t *testing.T) {
	p, err := Get("silk-road")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if p.ID != "silk-road" || p.Difficulty != 2 || len(p.Languages) != 6 {
		t.Errorf("unexpected preset: %+v", p)
	}

	// Callers must not be able to modify the catalogue
	p.Languages[1] = "xx"
	again, _ := Get("silk-road")
	if again.Languages[1] != "zh" {
		t.Error("expected Get to return a copy of the languages")
	}
}

func TestGet_Unknown(t *testing.T) {
	_, err := Get("atlantis")
	if !errors.Is(err, ErrUnknownPreset) {
		t.Errorf("expected ErrUnknownPreset, got %v", err)
	}
}
