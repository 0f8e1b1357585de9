package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// MyMemoryProvider uses the MyMemory translation memory API
// (1000 free requests a day, more with a contact email)
type MyMemoryProvider struct {
	endpoint   string
	email      string
	httpClient *http.Client
}

type myMemoryResponse struct {
	ResponseData struct {
		TranslatedText string `json:"translatedText"`
	} `json:"responseData"`
	// MyMemory sends the status as a number on success and sometimes as a string on errors
	ResponseStatus  json.RawMessage `json:"responseStatus"`
	ResponseDetails string          `json:"responseDetails"`
}

// NewMyMemoryProvider creates a new MyMemory provider
func NewMyMemoryProvider(endpoint, email string, client *http.Client) *MyMemoryProvider {
	if endpoint == "" {
		endpoint = "https://api.mymemory.translated.net/get"
	}
	return &MyMemoryProvider{
		endpoint:   endpoint,
		email:      email,
		httpClient: client,
	}
}

// Name returns the provider name
func (p *MyMemoryProvider) Name() string {
	return "mymemory"
}

// Translate translates text via the MyMemory GET API
func (p *MyMemoryProvider) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	params := url.Values{}
	params.Set("q", text)
	params.Set("langpair", sourceLang+"|"+targetLang)
	if p.email != "" {
		params.Set("de", p.email)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("API error (%d)", resp.StatusCode)
	}

	var payload myMemoryResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}

	if status := parseStatus(payload.ResponseStatus); status != http.StatusOK {
		return "", fmt.Errorf("MyMemory API error (%d): %s", status, payload.ResponseDetails)
	}

	out := strings.TrimSpace(html.UnescapeString(payload.ResponseData.TranslatedText))
	if out == "" {
		return "", fmt.Errorf("empty translation")
	}
	return out, nil
}

func parseStatus(raw json.RawMessage) int {
	s := strings.Trim(strings.TrimSpace(string(raw)), `"`)
	status, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return status
}
