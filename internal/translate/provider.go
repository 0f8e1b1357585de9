// Package translate drives text through a chain of languages using a
// rotating set of unreliable translation providers.
package translate

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ppiankov/driftchain/internal/model"
	"github.com/ppiankov/driftchain/internal/util"
)

// Provider translates text between two languages
type Provider interface {
	// Name returns the provider name, used for rotation, caching and confidence priors
	Name() string

	// Translate returns text translated from sourceLang to targetLang
	Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error)
}

var (
	// ErrAllProvidersFailed is returned when a hop exhausts its attempt budget
	ErrAllProvidersFailed = errors.New("all translation providers failed")

	// ErrNoProviders is returned when the rotation is empty
	ErrNoProviders = errors.New("no translation providers configured")
)

// ProviderError is a single failed provider attempt
type ProviderError struct {
	Provider string
	From     string
	To       string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s %s→%s: %v", e.Provider, e.From, e.To, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// NewProvider creates a provider by name
func NewProvider(name string, cfg *model.Config) (Provider, error) {
	client := util.NewHTTPClient(cfg.HTTP)

	switch strings.ToLower(strings.TrimSpace(name)) {
	case "google":
		return NewGoogleProvider(cfg.Translation.GoogleURL, cfg.HTTP.UserAgent, client), nil

	case "mymemory":
		return NewMyMemoryProvider(cfg.Translation.MyMemoryURL, cfg.Translation.MyMemoryEmail, client), nil

	case "libretranslate":
		return NewLibreTranslateProvider(cfg.Translation.LibreTranslateURL, cfg.Translation.LibreTranslateAPIKey, client), nil

	case "openai":
		return NewOpenAIProvider(cfg.Translation.LLMAPIKey, cfg.Translation.LLMBaseURL, cfg.Translation.LLMModel)

	case "ollama":
		return NewOllamaProvider(cfg.Translation.LLMBaseURL, cfg.Translation.LLMModel, client)

	case "anthropic", "claude":
		return NewAnthropicProvider(cfg.Translation.AnthropicAPIKey, cfg.Translation.AnthropicBaseURL, cfg.Translation.AnthropicModel, client)

	default:
		return nil, fmt.Errorf("unknown translation provider: %s (supported: google, mymemory, libretranslate, openai, ollama, anthropic)", name)
	}
}

// NewProviders builds the rotation in configured order
func NewProviders(cfg *model.Config) ([]Provider, error) {
	if len(cfg.Translation.Providers) == 0 {
		return nil, ErrNoProviders
	}

	providers := make([]Provider, 0, len(cfg.Translation.Providers))
	for _, name := range cfg.Translation.Providers {
		p, err := NewProvider(name, cfg)
		if err != nil {
			return nil, err
		}
		providers = append(providers, p)
	}
	return providers, nil
}
