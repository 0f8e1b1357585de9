package embedding

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"
)

// GenAIEngine generates embeddings using Google's Gemini API
type GenAIEngine struct {
	client   *genai.Client
	model    string
	taskType string
}

var genaiTaskTypes = map[string]bool{
	"SEMANTIC_SIMILARITY": true,
	"CLASSIFICATION":      true,
	"CLUSTERING":          true,
	"RETRIEVAL_DOCUMENT":  true,
	"RETRIEVAL_QUERY":     true,
	"QUESTION_ANSWERING":  true,
	"FACT_VERIFICATION":   true,
}

// NewGenAIEngine creates a new GenAI embedding engine.
// Unknown task types fall back to SEMANTIC_SIMILARITY.
func NewGenAIEngine(ctx context.Context, apiKey, model, taskType string, client *http.Client) (*GenAIEngine, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GenAI API key is required")
	}

	if model == "" {
		model = "gemini-embedding-001"
	}

	taskType = strings.ToUpper(strings.TrimSpace(taskType))
	if !genaiTaskTypes[taskType] {
		taskType = "SEMANTIC_SIMILARITY"
	}

	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: client,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &GenAIEngine{
		client:   c,
		model:    model,
		taskType: taskType,
	}, nil
}

// Embed generates an embedding for a single text
func (e *GenAIEngine) Embed(ctx context.Context, text string) ([]float32, error) {
	contents := []*genai.Content{
		genai.NewContentFromText(text, genai.RoleUser),
	}

	result, err := e.client.Models.EmbedContent(ctx, e.model, contents, &genai.EmbedContentConfig{
		TaskType: e.taskType,
	})
	if err != nil {
		return nil, fmt.Errorf("GenAI embed failed: %w", err)
	}

	if len(result.Embeddings) == 0 {
		return nil, fmt.Errorf("no embeddings returned")
	}

	return result.Embeddings[0].Values, nil
}

// Name returns the engine name
func (e *GenAIEngine) Name() string {
	return fmt.Sprintf("genai:%s", e.model)
}
