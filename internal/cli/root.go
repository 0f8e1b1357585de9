package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/ppiankov/driftchain/internal/model"
)

// Version is the driftchain release
const Version = "0.1.0"

var (
	cfgFile string
	verbose bool
	logger  = zap.NewNop()
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "driftchain",
	Short: "driftchain - measure meaning drift across translation chains",
	Long: `driftchain sends a text through a chain of languages, one machine
translation hop at a time, and measures how far its meaning drifts.

Every hop is compared to the original and to the previous hop, classified,
explained, and checked for lost or invented keywords.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := newLogger(verbose)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

// Execute runs the root command. Ctrl-C cancels the current run; completed
// hops are still analyzed and reported.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "driftchain v%s\n", Version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.driftchain/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	_ = viper.BindPFlag("output.verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	if err := registerDefaults(viper.GetViper(), model.DefaultConfig()); err != nil {
		fmt.Fprintf(os.Stderr, "Error registering config defaults: %v\n", err)
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}

		viper.AddConfigPath(filepath.Join(home, ".driftchain"))
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// DRIFTCHAIN_TRANSLATION_HOP_DELAY overrides translation.hop_delay
	viper.SetEnvPrefix("DRIFTCHAIN")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// registerDefaults makes every config key known to viper so environment
// variables can override keys the config file does not mention
func registerDefaults(v *viper.Viper, cfg *model.Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal defaults: %w", err)
	}
	var tree map[string]interface{}
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return fmt.Errorf("unmarshal defaults: %w", err)
	}

	for key, value := range flatten("", tree) {
		v.SetDefault(key, value)
	}
	return nil
}

func flatten(prefix string, tree map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{})
	for k, v := range tree {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		if sub, ok := v.(map[string]interface{}); ok {
			for sk, sv := range flatten(key, sub) {
				out[sk] = sv
			}
			continue
		}
		out[key] = v
	}
	return out
}

// loadConfig overlays file, environment and flag values on the defaults
func loadConfig(v *viper.Viper) (*model.Config, error) {
	// Defaults live in viper, so decoding into a zero Config never merges
	// a default list or map with a configured one
	if err := registerDefaults(v, model.DefaultConfig()); err != nil {
		return nil, err
	}
	cfg := &model.Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	applyEnvKeys(cfg, os.Getenv)

	// Normalize provider names so config and flags agree
	for i, p := range cfg.Translation.Providers {
		cfg.Translation.Providers[i] = strings.ToLower(strings.TrimSpace(p))
	}
	cfg.Embedding.Provider = strings.ToLower(strings.TrimSpace(cfg.Embedding.Provider))

	return cfg, nil
}

// applyEnvKeys fills API keys the config left empty from the conventional
// environment variables of each service
func applyEnvKeys(cfg *model.Config, getenv func(string) string) {
	firstSet := func(names ...string) string {
		for _, n := range names {
			if v := getenv(n); v != "" {
				return v
			}
		}
		return ""
	}

	if cfg.Translation.LLMAPIKey == "" {
		cfg.Translation.LLMAPIKey = firstSet("OPENAI_API_KEY")
	}
	if cfg.Translation.AnthropicAPIKey == "" {
		cfg.Translation.AnthropicAPIKey = firstSet("ANTHROPIC_API_KEY")
	}
	if cfg.Translation.LibreTranslateAPIKey == "" {
		cfg.Translation.LibreTranslateAPIKey = firstSet("LIBRETRANSLATE_API_KEY")
	}
	if cfg.Translation.LLMBaseURL == "" && containsString(cfg.Translation.Providers, "ollama") {
		cfg.Translation.LLMBaseURL = firstSet("OLLAMA_BASE_URL")
	}

	if cfg.Embedding.APIKey == "" {
		switch cfg.Embedding.Provider {
		case "huggingface", "hf":
			cfg.Embedding.APIKey = firstSet("HUGGINGFACE_TOKEN", "HF_TOKEN")
		case "openai":
			cfg.Embedding.APIKey = firstSet("OPENAI_API_KEY")
		case "genai", "gemini":
			cfg.Embedding.APIKey = firstSet("GEMINI_API_KEY", "GOOGLE_API_KEY")
		}
	}
	if cfg.Embedding.BaseURL == "" && cfg.Embedding.Provider == "ollama" {
		cfg.Embedding.BaseURL = firstSet("OLLAMA_BASE_URL")
	}
}

// newLogger builds the CLI logger: warnings only by default, debug with --verbose
func newLogger(verbose bool) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	config.Encoding = "console"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return config.Build()
}

// parseChain splits a comma-separated language list
func parseChain(s string) []string {
	var chain []string
	for _, part := range strings.Split(s, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part != "" {
			chain = append(chain, part)
		}
	}
	return chain
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
