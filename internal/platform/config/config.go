package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// LLM providers supported by the decision agent.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// Config holds application configuration.
type Config struct {
	Port         string `validate:"required,numeric"`
	IsProduction bool
	LogLevel     string `validate:"oneof=debug info warn error"`

	// LLM / embeddings
	LLMProvider   string `validate:"oneof=gemini openai"`
	GeminiAPIKey  string
	OpenAIAPIKey  string
	OpenAIBaseURL string `validate:"omitempty,url"`

	// Empty model names select the provider adapter's default.
	LLMModel       string
	LLMTemperature float64 `validate:"gte=0,lte=2"`
	EmbeddingModel string

	// Data providers
	CoinGeckoAPIKey    string
	CoinGeckoBaseURL   string `validate:"required,url"`
	OpenWeatherAPIKey  string
	OpenWeatherBaseURL string        `validate:"required,url"`
	ProviderTimeout    time.Duration `validate:"gt=0"`

	// Notifications
	TelegramBotToken   string
	TelegramChatID     string
	TelegramBaseURL    string        `validate:"required,url"`
	NotifyQueueSize    int           `validate:"gte=1"`
	NotifyDrainTimeout time.Duration `validate:"gte=0"`

	// Tracing (posthog)
	TracingAPIKey   string
	TracingEndpoint string `validate:"required,url"`

	// HTTP surface
	UploadDir          string `validate:"required"`
	MaxUploadBytes     int64  `validate:"gt=0"`
	RateLimit          string `validate:"required"`
	CORSAllowedOrigins []string

	// Agent / policy
	AgentMaxSteps             int `validate:"gte=1"`
	PolicyChunkSize           int `validate:"gt=0"`
	PolicyChunkOverlap        int `validate:"gte=0,ltfield=PolicyChunkSize"`
	PolicyTopK                int `validate:"gte=1"`
	PolicyClearOnFailedUpload bool
}

// APIStatus reports which external credentials are configured, never their values.
func (c *Config) APIStatus() map[string]bool {
	return map[string]bool{
		"gemini":    c.GeminiAPIKey != "",
		"openai":    c.OpenAIAPIKey != "",
		"coingecko": c.CoinGeckoAPIKey != "",
		"weather":   c.OpenWeatherAPIKey != "",
		"telegram":  c.TelegramBotToken != "" && c.TelegramChatID != "",
		"tracing":   c.TracingAPIKey != "",
	}
}

// LLMAPIKey returns the key of the selected LLM provider.
func (c *Config) LLMAPIKey() string {
	if c.LLMProvider == ProviderOpenAI {
		return c.OpenAIAPIKey
	}
	return c.GeminiAPIKey
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LLM_PROVIDER", ProviderGemini)
	viper.SetDefault("GEMINI_API_KEY", "")
	viper.SetDefault("OPENAI_API_KEY", "")
	viper.SetDefault("OPENAI_BASE_URL", "")
	viper.SetDefault("LLM_MODEL", "")
	viper.SetDefault("LLM_TEMPERATURE", 0.3)
	viper.SetDefault("EMBEDDING_MODEL", "")
	viper.SetDefault("COINGECKO_API_KEY", "")
	viper.SetDefault("COINGECKO_BASE_URL", "https://api.coingecko.com/api/v3")
	viper.SetDefault("OPENWEATHER_API_KEY", "")
	viper.SetDefault("OPENWEATHER_BASE_URL", "https://api.openweathermap.org")
	viper.SetDefault("PROVIDER_TIMEOUT", "10s")
	viper.SetDefault("TELEGRAM_BOT_TOKEN", "")
	viper.SetDefault("TELEGRAM_CHAT_ID", "")
	viper.SetDefault("TELEGRAM_BASE_URL", "https://api.telegram.org")
	viper.SetDefault("NOTIFY_QUEUE_SIZE", 32)
	viper.SetDefault("NOTIFY_DRAIN_TIMEOUT", "10s")
	viper.SetDefault("TRACING_API_KEY", "")
	viper.SetDefault("TRACING_ENDPOINT", "https://eu.i.posthog.com")
	viper.SetDefault("UPLOAD_DIR", os.TempDir())
	viper.SetDefault("MAX_UPLOAD_BYTES", 16*1024*1024)
	viper.SetDefault("RATE_LIMIT", "30-M")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	viper.SetDefault("AGENT_MAX_STEPS", 15)
	viper.SetDefault("POLICY_CHUNK_SIZE", 1000)
	viper.SetDefault("POLICY_CHUNK_OVERLAP", 200)
	viper.SetDefault("POLICY_TOP_K", 3)
	viper.SetDefault("POLICY_CLEAR_ON_FAILED_UPLOAD", false)

	// Values from .env (already exported by godotenv) and the real environment override the defaults.
	viper.AutomaticEnv()

	cfg := &Config{
		Port:                      viper.GetString("PORT"),
		IsProduction:              viper.GetBool("IS_PRODUCTION"),
		LogLevel:                  strings.ToLower(viper.GetString("LOG_LEVEL")),
		LLMProvider:               strings.ToLower(viper.GetString("LLM_PROVIDER")),
		GeminiAPIKey:              viper.GetString("GEMINI_API_KEY"),
		OpenAIAPIKey:              viper.GetString("OPENAI_API_KEY"),
		OpenAIBaseURL:             viper.GetString("OPENAI_BASE_URL"),
		LLMModel:                  viper.GetString("LLM_MODEL"),
		LLMTemperature:            viper.GetFloat64("LLM_TEMPERATURE"),
		EmbeddingModel:            viper.GetString("EMBEDDING_MODEL"),
		CoinGeckoAPIKey:           viper.GetString("COINGECKO_API_KEY"),
		CoinGeckoBaseURL:          strings.TrimRight(viper.GetString("COINGECKO_BASE_URL"), "/"),
		OpenWeatherAPIKey:         viper.GetString("OPENWEATHER_API_KEY"),
		OpenWeatherBaseURL:        strings.TrimRight(viper.GetString("OPENWEATHER_BASE_URL"), "/"),
		TelegramBotToken:          viper.GetString("TELEGRAM_BOT_TOKEN"),
		TelegramChatID:            viper.GetString("TELEGRAM_CHAT_ID"),
		TelegramBaseURL:           strings.TrimRight(viper.GetString("TELEGRAM_BASE_URL"), "/"),
		NotifyQueueSize:           viper.GetInt("NOTIFY_QUEUE_SIZE"),
		TracingAPIKey:             viper.GetString("TRACING_API_KEY"),
		TracingEndpoint:           viper.GetString("TRACING_ENDPOINT"),
		UploadDir:                 viper.GetString("UPLOAD_DIR"),
		MaxUploadBytes:            viper.GetInt64("MAX_UPLOAD_BYTES"),
		RateLimit:                 viper.GetString("RATE_LIMIT"),
		CORSAllowedOrigins:        splitList(viper.GetString("CORS_ALLOWED_ORIGINS")),
		AgentMaxSteps:             viper.GetInt("AGENT_MAX_STEPS"),
		PolicyChunkSize:           viper.GetInt("POLICY_CHUNK_SIZE"),
		PolicyChunkOverlap:        viper.GetInt("POLICY_CHUNK_OVERLAP"),
		PolicyTopK:                viper.GetInt("POLICY_TOP_K"),
		PolicyClearOnFailedUpload: viper.GetBool("POLICY_CLEAR_ON_FAILED_UPLOAD"),
	}

	cfg.ProviderTimeout = parseDuration("PROVIDER_TIMEOUT", 10*time.Second)
	cfg.NotifyDrainTimeout = parseDuration("NOTIFY_DRAIN_TIMEOUT", 10*time.Second)

	if cfg.LLMAPIKey() == "" {
		log.Printf("Warning: no API key configured for LLM provider %q.\n", cfg.LLMProvider)
	}
	if cfg.OpenWeatherAPIKey == "" {
		log.Println("Warning: OPENWEATHER_API_KEY not set. Weather checks will fall back to moderate conditions.")
	}
	if cfg.TelegramBotToken == "" || cfg.TelegramChatID == "" {
		log.Println("Warning: TELEGRAM_BOT_TOKEN or TELEGRAM_CHAT_ID not set. Notifications are disabled.")
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func parseDuration(key string, fallback time.Duration) time.Duration {
	raw := viper.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil {
		if raw != "" {
			log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, fallback.String())
		}
		return fallback
	}
	return d
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
