package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	OpenAI   OpenAIConfig   `mapstructure:"openai"`
	Azure    AzureConfig    `mapstructure:"azure"`
	Gemini   GeminiConfig   `mapstructure:"gemini"`
	Pipeline PipelineConfig `mapstructure:"pipeline" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// OpenAIConfig configures the standard chat-completion backend.
// Credentials are checked when the backend is constructed, not here, so an
// unused provider may stay unconfigured.
type OpenAIConfig struct {
	APIKey      string  `mapstructure:"api_key"`
	Model       string  `mapstructure:"model"`
	BaseURL     string  `mapstructure:"base_url" validate:"omitempty,url"`
	Temperature float32 `mapstructure:"temperature" validate:"gte=0,lte=2"`
	MaxTokens   int     `mapstructure:"max_tokens" validate:"gte=0"`
}

// AzureConfig configures the custom HTTP chat backend.
type AzureConfig struct {
	Endpoint    string  `mapstructure:"endpoint" validate:"omitempty,url"`
	APIKey      string  `mapstructure:"api_key"`
	Model       string  `mapstructure:"model"`
	Temperature float32 `mapstructure:"temperature" validate:"gte=0,lte=2"`
	TopP        float32 `mapstructure:"top_p" validate:"gte=0,lte=1"`
	MaxTokens   int     `mapstructure:"max_tokens" validate:"gte=0"`
}

// GeminiConfig configures the Gemini backend.
type GeminiConfig struct {
	APIKey      string  `mapstructure:"api_key"`
	Model       string  `mapstructure:"model"`
	BaseURL     string  `mapstructure:"base_url" validate:"omitempty,url"`
	Temperature float32 `mapstructure:"temperature" validate:"gte=0,lte=2"`
	TopP        float32 `mapstructure:"top_p" validate:"gte=0,lte=1"`
	MaxTokens   int     `mapstructure:"max_tokens" validate:"gte=0"`
}

// PipelineConfig selects which backend serves each stage and where prompt
// templates come from.
type PipelineConfig struct {
	BaseProvider       string `mapstructure:"base_provider" validate:"required,oneof=openai azure gemini"`
	EnrichProvider     string `mapstructure:"enrich_provider" validate:"required,oneof=openai azure gemini"`
	PromptTemplatePath string `mapstructure:"prompt_template_path"`
	TimeoutSeconds     int    `mapstructure:"timeout_seconds" validate:"gte=0"`
}
