package textsim

import (
	"math"
	"reflect"
	"testing"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"punctuation", "Hello, world! It's fine.", []string{"hello", "world", "it", "s", "fine"}},
		{"cyrillic", "Привет, Мир", []string{"привет", "мир"}},
		{"digits and underscore", "route_66 is 2 lanes", []string{"route_66", "is", "2", "lanes"}},
		{"empty", "   ", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tokenize(tt.text)
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Tokenize(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestUnique_KeepsFirstAppearanceOrder(t *testing.T) {
	got := Unique([]string{"b", "a", "b", "c", "a"})
	want := []string{"b", "a", "c"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Unique = %v, want %v", got, want)
	}
}

func TestJaccard(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{"identical", "the cat sat", "the cat sat", 1},
		{"case insensitive", "The Cat", "the cat", 1},
		{"disjoint", "a b", "c d", 0},
		{"partial", "a b c", "b c d", 0.5},
		{"duplicates ignored", "a a b", "a b b", 1},
		{"first empty", "", "a b", 0},
		{"second empty", "a b", "   ", 0},
		{"both empty", "", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Jaccard(tt.a, tt.b)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Jaccard(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestJaccard_Symmetric(t *testing.T) {
	a, b := "the quick brown fox", "a quick red fox jumps"
	if Jaccard(a, b) != Jaccard(b, a) {
		t.Errorf("expected Jaccard to be symmetric")
	}
}

func TestEditSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{"identical", "hello", "hello", 1},
		{"kitten", "kitten", "sitting", 1 - 3.0/7.0},
		{"both empty", "", "", 1},
		{"one empty", "", "abc", 0},
		{"runes not bytes", "мир", "мор", 1 - 1.0/3.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EditSimilarity(tt.a, tt.b)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("EditSimilarity(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestClamp01(t *testing.T) {
	if Clamp01(-0.2) != 0 || Clamp01(1.3) != 1 || Clamp01(0.4) != 0.4 {
		t.Error("Clamp01 did not bound values to [0,1]")
	}
}

func TestStem(t *testing.T) {
	if got := Stem("running", "en"); got != "run" {
		t.Errorf("Stem(running) = %q, want run", got)
	}
	if Stem("connections", "en") != Stem("connection", "en") {
		t.Error("expected plural and singular to share a stem")
	}
	// Unknown languages use the English algorithm
	if Stem("running", "xx") != Stem("running", "en") {
		t.Error("expected fallback to English stemmer")
	}
}
