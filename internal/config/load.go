package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// defaults mirrors the values the card assistant has always shipped with.
var defaults = map[string]any{
	"server.port":      8080,
	"server.log_level": "info",

	"openai.api_key":     "",
	"openai.model":       "gpt-3.5-turbo",
	"openai.base_url":    "",
	"openai.temperature": 0.7,
	"openai.max_tokens":  300,

	"azure.endpoint":    "",
	"azure.api_key":     "",
	"azure.model":       "",
	"azure.temperature": 0.7,
	"azure.top_p":       0.95,
	"azure.max_tokens":  300,

	"gemini.api_key":     "",
	"gemini.model":       "gemini-2.0-flash",
	"gemini.base_url":    "",
	"gemini.temperature": 0.7,
	"gemini.top_p":       0.95,
	"gemini.max_tokens":  300,

	"pipeline.base_provider":        "openai",
	"pipeline.enrich_provider":      "azure",
	"pipeline.prompt_template_path": "",
	"pipeline.timeout_seconds":      120,
}

// Load reads configuration from defaults, an optional YAML config file and
// environment variables, in increasing order of precedence. Environment
// variable names are the upper-cased keys with dots replaced by underscores
// (openai.api_key -> OPENAI_API_KEY).
//
// Returns a populated Config struct or an error if loading/validation fails.
func Load(configFile string) (*Config, error) {
	v := viper.New()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// The enricher token budget has historically used its own variable name.
	if err := v.BindEnv("azure.max_tokens", "AZURE_MAX_TOKENS", "AZURE_ENRICHER_MAX_TOKENS"); err != nil {
		return nil, fmt.Errorf("failed to bind environment variable: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks field-level constraints on a Config.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.New("config validation failed: config is nil")
	}
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}
