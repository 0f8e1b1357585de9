package model

import "time"

// Config is the complete driftchain configuration.
// Defaults come from DefaultConfig and are overlaid by the config file,
// DRIFTCHAIN_* environment variables and CLI flags.
type Config struct {
	Translation TranslationConfig `yaml:"translation" mapstructure:"translation"`
	Embedding   EmbeddingConfig   `yaml:"embedding" mapstructure:"embedding"`
	Cache       CacheConfig       `yaml:"cache" mapstructure:"cache"`
	Store       StoreConfig       `yaml:"store" mapstructure:"store"`
	HTTP        HTTPConfig        `yaml:"http" mapstructure:"http"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	Analysis    AnalysisConfig    `yaml:"analysis" mapstructure:"analysis"`
	Output      OutputConfig      `yaml:"output" mapstructure:"output"`
}

// TranslationConfig controls the translation providers and the chain orchestrator
type TranslationConfig struct {
	Providers   []string      `yaml:"providers" mapstructure:"providers"`       // Rotation order
	MaxAttempts int           `yaml:"max_attempts" mapstructure:"max_attempts"` // Per-hop budget (raised to the provider count)
	HopDelay    time.Duration `yaml:"hop_delay" mapstructure:"hop_delay"`       // Minimum spacing between hops
	ProviderRPS float64       `yaml:"provider_rps" mapstructure:"provider_rps"` // Per-provider request rate across runs (0 = unlimited)
	CacheTTL    time.Duration `yaml:"cache_ttl" mapstructure:"cache_ttl"`

	// Stricter rates for providers with tighter free-tier quotas
	ProviderRPSOverrides map[string]float64 `yaml:"provider_rps_overrides,omitempty" mapstructure:"provider_rps_overrides"`

	GoogleURL            string `yaml:"google_url" mapstructure:"google_url"`
	MyMemoryURL          string `yaml:"mymemory_url" mapstructure:"mymemory_url"`
	MyMemoryEmail        string `yaml:"mymemory_email,omitempty" mapstructure:"mymemory_email"`
	LibreTranslateURL    string `yaml:"libretranslate_url" mapstructure:"libretranslate_url"`
	LibreTranslateAPIKey string `yaml:"libretranslate_api_key,omitempty" mapstructure:"libretranslate_api_key"`

	// LLM-backed providers (openai, ollama)
	LLMModel   string `yaml:"llm_model,omitempty" mapstructure:"llm_model"`
	LLMBaseURL string `yaml:"llm_base_url,omitempty" mapstructure:"llm_base_url"`
	LLMAPIKey  string `yaml:"-" mapstructure:"llm_api_key"`

	AnthropicModel   string `yaml:"anthropic_model,omitempty" mapstructure:"anthropic_model"`
	AnthropicBaseURL string `yaml:"anthropic_base_url,omitempty" mapstructure:"anthropic_base_url"`
	AnthropicAPIKey  string `yaml:"-" mapstructure:"anthropic_api_key"`
}

// EmbeddingConfig controls the fingerprinting service
type EmbeddingConfig struct {
	Provider  string        `yaml:"provider" mapstructure:"provider"` // huggingface, openai, ollama, genai, none
	Model     string        `yaml:"model,omitempty" mapstructure:"model"` // Empty = engine default
	APIKey    string        `yaml:"-" mapstructure:"api_key"`
	BaseURL   string        `yaml:"base_url,omitempty" mapstructure:"base_url"`
	TaskType  string        `yaml:"task_type,omitempty" mapstructure:"task_type"` // genai only
	CallDelay time.Duration `yaml:"call_delay" mapstructure:"call_delay"`         // Minimum spacing between embedding calls
	CacheTTL  time.Duration `yaml:"cache_ttl" mapstructure:"cache_ttl"`
}

// CacheConfig controls the shared result cache
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir       string        `yaml:"dir,omitempty" mapstructure:"dir"` // Empty = memory only
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
}

// StoreConfig controls run persistence
type StoreConfig struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	Path    string `yaml:"path" mapstructure:"path"`
}

// HTTPConfig holds settings shared by all HTTP-backed providers
type HTTPConfig struct {
	Timeout    time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent  string        `yaml:"user_agent" mapstructure:"user_agent"`
	HTTPProxy  string        `yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy string        `yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
	NoProxy    string        `yaml:"no_proxy,omitempty" mapstructure:"no_proxy"`
}

// ConcurrencyConfig controls batch processing
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// AnalysisConfig holds the drift analyzer priors
type AnalysisConfig struct {
	RareLanguages      []string           `yaml:"rare_languages" mapstructure:"rare_languages"`
	ProviderConfidence map[string]float64 `yaml:"provider_confidence" mapstructure:"provider_confidence"`
	DefaultConfidence  float64            `yaml:"default_confidence" mapstructure:"default_confidence"`
	MaxTextLength      int                `yaml:"max_text_length" mapstructure:"max_text_length"`
}

// OutputConfig controls CLI output
type OutputConfig struct {
	Verbose bool `yaml:"verbose" mapstructure:"verbose"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Translation: TranslationConfig{
			Providers:         []string{"google", "mymemory", "libretranslate"},
			MaxAttempts:       3,
			HopDelay:          500 * time.Millisecond,
			ProviderRPS:       2,
			CacheTTL:          time.Hour,
			GoogleURL:         "https://translate.googleapis.com/translate_a/single",
			MyMemoryURL:       "https://api.mymemory.translated.net/get",
			LibreTranslateURL: "https://libretranslate.com/translate",

			ProviderRPSOverrides: map[string]float64{
				"mymemory": 1,
			},
		},
		Embedding: EmbeddingConfig{
			Provider:  "huggingface",
			TaskType:  "SEMANTIC_SIMILARITY",
			CallDelay: 300 * time.Millisecond,
			CacheTTL:  time.Hour,
		},
		Cache: CacheConfig{
			Enabled:   true,
			MemoryTTL: time.Hour,
			DiskTTL:   24 * time.Hour,
		},
		Store: StoreConfig{
			Enabled: true,
			Path:    "driftchain.db",
		},
		HTTP: HTTPConfig{
			Timeout:   20 * time.Second,
			UserAgent: "driftchain/0.1 (+https://github.com/ppiankov/driftchain)",
		},
		Concurrency: ConcurrencyConfig{
			Workers: 2,
		},
		Analysis: AnalysisConfig{
			RareLanguages: []string{"eu", "ka", "is", "mt", "cy", "hy"},
			ProviderConfidence: map[string]float64{
				"google":         0.85,
				"mymemory":       0.70,
				"libretranslate": 0.75,
			},
			DefaultConfidence: 0.70,
			MaxTextLength:     5000,
		},
	}
}
