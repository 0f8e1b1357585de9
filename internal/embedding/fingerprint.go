package embedding

import (
	"fmt"
	"math"

	"github.com/ppiankov/driftchain/internal/model"
	"github.com/ppiankov/driftchain/internal/textsim"
)

// Fingerprint is the semantic vector of a text, or the reason there is none.
// It is either Available or Unavailable.
type Fingerprint interface {
	fingerprint()
}

// Available holds an embedding vector
type Available struct {
	Vector []float32
}

// Unavailable records why a text could not be fingerprinted
type Unavailable struct {
	Reason string
}

func (Available) fingerprint()   {}
func (Unavailable) fingerprint() {}

// IsAvailable reports whether fp carries a vector
func IsAvailable(fp Fingerprint) bool {
	_, ok := fp.(Available)
	return ok
}

// Compare returns the similarity of two texts in [0, 1] and the method used.
// Cosine similarity is used when both fingerprints are available and of the
// same dimension; anything else falls back to Jaccard over the texts.
func Compare(a, b Fingerprint, textA, textB string) (float64, string) {
	va, okA := a.(Available)
	vb, okB := b.(Available)
	if okA && okB {
		if sim, err := CosineSimilarity(va.Vector, vb.Vector); err == nil {
			return textsim.Clamp01(sim), model.MethodEmbedding
		}
	}
	return textsim.Jaccard(textA, textB), model.MethodJaccard
}

// CosineSimilarity calculates the cosine similarity between two vectors.
// Returns a value between -1 and 1; a zero vector has similarity 0.
func CosineSimilarity(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("vectors must have the same length: %d != %d", len(a), len(b))
	}
	if len(a) == 0 {
		return 0, fmt.Errorf("empty vectors")
	}

	var dotProduct, aMagnitude, bMagnitude float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dotProduct += x * y
		aMagnitude += x * x
		bMagnitude += y * y
	}

	if aMagnitude == 0 || bMagnitude == 0 {
		return 0, nil
	}

	return dotProduct / (math.Sqrt(aMagnitude) * math.Sqrt(bMagnitude)), nil
}
