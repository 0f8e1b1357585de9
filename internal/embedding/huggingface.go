package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const (
	defaultHFBaseURL = "https://router.huggingface.co/hf-inference/models"
	defaultHFModel   = "sentence-transformers/paraphrase-multilingual-mpnet-base-v2"
)

// HuggingFaceEngine calls the feature-extraction pipeline of the
// Hugging Face Inference API
type HuggingFaceEngine struct {
	baseURL string
	model   string
	token   string
	client  *http.Client
}

type hfRequest struct {
	Inputs  string    `json:"inputs"`
	Options hfOptions `json:"options"`
}

type hfOptions struct {
	WaitForModel bool `json:"wait_for_model"`
}

// NewHuggingFaceEngine creates a new Hugging Face engine
func NewHuggingFaceEngine(baseURL, model, token string, client *http.Client) *HuggingFaceEngine {
	if baseURL == "" {
		baseURL = defaultHFBaseURL
	}
	if model == "" {
		model = defaultHFModel
	}
	return &HuggingFaceEngine{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		model:   model,
		token:   token,
		client:  client,
	}
}

// Embed generates an embedding for a single text
func (e *HuggingFaceEngine) Embed(ctx context.Context, text string) ([]float32, error) {
	body, err := json.Marshal(hfRequest{Inputs: text, Options: hfOptions{WaitForModel: true}})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/%s/pipeline/feature-extraction", e.baseURL, e.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if e.token != "" {
		req.Header.Set("Authorization", "Bearer "+e.token)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("huggingface request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("huggingface returned status %d: %s", resp.StatusCode, string(respBody))
	}

	return parseHFVector(respBody)
}

// parseHFVector accepts a pooled vector [...] or a matrix [[...], ...].
// A matrix of token embeddings is mean-pooled.
func parseHFVector(body []byte) ([]float32, error) {
	var flat []float32
	if err := json.Unmarshal(body, &flat); err == nil {
		return flat, nil
	}

	var matrix [][]float32
	if err := json.Unmarshal(body, &matrix); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}
	if len(matrix) == 0 {
		return nil, fmt.Errorf("empty embedding")
	}
	if len(matrix) == 1 {
		return matrix[0], nil
	}

	dims := len(matrix[0])
	pooled := make([]float32, dims)
	for _, row := range matrix {
		if len(row) != dims {
			return nil, fmt.Errorf("ragged embedding matrix")
		}
		for i, v := range row {
			pooled[i] += v
		}
	}
	for i := range pooled {
		pooled[i] /= float32(len(matrix))
	}
	return pooled, nil
}

// Name returns the engine name
func (e *HuggingFaceEngine) Name() string {
	return fmt.Sprintf("huggingface:%s", e.model)
}
