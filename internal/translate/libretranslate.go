package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// LibreTranslateProvider uses a LibreTranslate instance (public or self-hosted)
type LibreTranslateProvider struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
}

type libreRequest struct {
	Q      string `json:"q"`
	Source string `json:"source"`
	Target string `json:"target"`
	Format string `json:"format"`
	APIKey string `json:"api_key,omitempty"`
}

type libreResponse struct {
	TranslatedText string `json:"translatedText"`
	Error          string `json:"error,omitempty"`
}

// NewLibreTranslateProvider creates a new LibreTranslate provider
func NewLibreTranslateProvider(endpoint, apiKey string, client *http.Client) *LibreTranslateProvider {
	if endpoint == "" {
		endpoint = "https://libretranslate.com/translate"
	}
	return &LibreTranslateProvider{
		endpoint:   endpoint,
		apiKey:     apiKey,
		httpClient: client,
	}
}

// Name returns the provider name
func (p *LibreTranslateProvider) Name() string {
	return "libretranslate"
}

// Translate translates text via POST /translate
func (p *LibreTranslateProvider) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	body, err := json.Marshal(libreRequest{
		Q:      text,
		Source: sourceLang,
		Target: targetLang,
		Format: "text",
		APIKey: p.apiKey,
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	var payload libreResponse
	if err := json.Unmarshal(respBody, &payload); err != nil {
		if resp.StatusCode != http.StatusOK {
			return "", fmt.Errorf("API error (%d): %s", resp.StatusCode, truncate(string(respBody), 200))
		}
		return "", fmt.Errorf("unmarshal response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("API error (%d): %s", resp.StatusCode, payload.Error)
	}

	out := strings.TrimSpace(payload.TranslatedText)
	if out == "" {
		return "", fmt.Errorf("empty translation")
	}
	return out, nil
}
