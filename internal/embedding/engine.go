// Package embedding fingerprints texts as semantic vectors and measures how
// far each step of a chain has drifted from the original.
// Supported engines: Hugging Face Inference API, OpenAI, Ollama (local) and
// Google GenAI. Any engine failure degrades to lexical (Jaccard) similarity.
package embedding

import (
	"context"
	"fmt"
	"strings"

	"github.com/ppiankov/driftchain/internal/model"
	"github.com/ppiankov/driftchain/internal/util"
)

// Engine generates vector embeddings for text
type Engine interface {
	// Embed generates an embedding for a single text
	Embed(ctx context.Context, text string) ([]float32, error)

	// Name returns the engine name, including the model
	Name() string
}

// NoneEngine disables fingerprinting; every similarity is lexical
type NoneEngine struct{}

// Embed always fails
func (NoneEngine) Embed(context.Context, string) ([]float32, error) {
	return nil, fmt.Errorf("fingerprinting disabled")
}

// Name returns the engine name
func (NoneEngine) Name() string { return "none" }

// NewEngine creates an embedding engine based on configuration
func NewEngine(ctx context.Context, cfg model.EmbeddingConfig, httpCfg model.HTTPConfig) (Engine, error) {
	client := util.NewHTTPClient(httpCfg)

	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "huggingface", "hf":
		return NewHuggingFaceEngine(cfg.BaseURL, cfg.Model, cfg.APIKey, client), nil
	case "openai":
		return NewOpenAIEngine(cfg.APIKey, cfg.BaseURL, cfg.Model)
	case "ollama":
		return NewOllamaEngine(cfg.BaseURL, cfg.Model, client), nil
	case "genai", "gemini":
		return NewGenAIEngine(ctx, cfg.APIKey, cfg.Model, cfg.TaskType, client)
	case "none", "":
		return NoneEngine{}, nil
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s (use huggingface, openai, ollama, genai or none)", cfg.Provider)
	}
}
