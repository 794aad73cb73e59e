package conf

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/anthropics/recap-bot/internal/biz/usecase"
	"github.com/anthropics/recap-bot/internal/service"
)

// Config represents application configuration
type Config struct {
	// Discord configuration (optional, enables the Discord adapter)
	Discord DiscordConfig

	// Telegram configuration (optional, enables the Telegram adapter)
	Telegram TelegramConfig

	// LLM provider configuration (optional)
	LLM LLMConfig

	// Summary configuration
	Summary SummaryConfig

	// Payment configuration
	Payment PaymentConfig

	// HTTP gateway configuration
	HTTP HTTPConfig

	// Callback store configuration
	Callbacks CallbackConfig

	// Debug mode
	Debug bool
}

// DiscordConfig contains Discord configuration
type DiscordConfig struct {
	BotToken string
}

// TelegramConfig contains Telegram configuration
type TelegramConfig struct {
	BotToken string
}

// LLMConfig contains LLM provider configuration
type LLMConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

// SummaryConfig contains summary window and output configuration
type SummaryConfig struct {
	DefaultLookbackMinutes int
	MaxChars               int
	LLMTimeoutSeconds      int
	FallbackLines          int
}

// PaymentConfig contains payment gating configuration. An empty PayTo
// disables the payment gate entirely.
type PaymentConfig struct {
	Amount           string
	Currency         string
	PayTo            string
	Network          string
	FacilitatorURL   string
	TokenTTLMinutes  int
	SweepIntervalMin int
}

// HTTPConfig contains HTTP gateway configuration
type HTTPConfig struct {
	Addr string
}

// CallbackConfig contains pending-callback store configuration
type CallbackConfig struct {
	DBPath string
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() *Config {
	// Callback DB path. Empty keeps pending callbacks in memory only.
	callbackDBPath := os.Getenv("CALLBACK_DB_PATH")
	if callbackDBPath == "" {
		if homeDir, err := os.UserHomeDir(); err == nil {
			callbackDBPath = filepath.Join(homeDir, ".recap-bot", "callbacks.db")
		}
	}

	httpAddr := os.Getenv("HTTP_ADDR")
	if httpAddr == "" {
		httpAddr = ":8080"
	}

	amount := os.Getenv("PRICE_AMOUNT")
	if amount == "" {
		amount = "0.25"
	}
	currency := os.Getenv("PRICE_CURRENCY")
	if currency == "" {
		currency = "USDC"
	}
	network := os.Getenv("PAYMENT_NETWORK")
	if network == "" {
		network = "base"
	}

	return &Config{
		Discord: DiscordConfig{
			BotToken: os.Getenv("DISCORD_BOT_TOKEN"),
		},
		Telegram: TelegramConfig{
			BotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		},
		LLM: LLMConfig{
			APIKey:  os.Getenv("OPENAI_API_KEY"),
			BaseURL: os.Getenv("OPENAI_BASE_URL"),
			Model:   os.Getenv("OPENAI_MODEL"),
		},
		Summary: SummaryConfig{
			DefaultLookbackMinutes: envInt("DEFAULT_LOOKBACK_MINUTES", 60),
			MaxChars:               envInt("SUMMARY_MAX_CHARS", 1200),
			LLMTimeoutSeconds:      envInt("LLM_TIMEOUT_SECONDS", 25),
			FallbackLines:          envInt("FALLBACK_LINES", 8),
		},
		Payment: PaymentConfig{
			Amount:           amount,
			Currency:         currency,
			PayTo:            os.Getenv("PAYMENT_PAY_TO"),
			Network:          network,
			FacilitatorURL:   os.Getenv("FACILITATOR_URL"),
			TokenTTLMinutes:  envInt("PAYMENT_TOKEN_TTL_MINUTES", 15),
			SweepIntervalMin: envInt("SWEEP_INTERVAL_MINUTES", 30),
		},
		HTTP: HTTPConfig{
			Addr: httpAddr,
		},
		Callbacks: CallbackConfig{
			DBPath: callbackDBPath,
		},
		Debug: os.Getenv("DEBUG") == "true",
	}
}

func envInt(key string, def int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return def
}

// PaymentsEnabled reports whether the payment gate is active
func (c *Config) PaymentsEnabled() bool {
	return c.Payment.PayTo != ""
}

// ToSummaryConfig converts to the summary usecase configuration
func (c *Config) ToSummaryConfig() usecase.SummaryConfig {
	return usecase.SummaryConfig{
		DefaultLookbackMinutes: c.Summary.DefaultLookbackMinutes,
		MaxChars:               c.Summary.MaxChars,
		LLMTimeout:             time.Duration(c.Summary.LLMTimeoutSeconds) * time.Second,
		FallbackLines:          c.Summary.FallbackLines,
	}
}

// ToPriceConfig converts to the recap service price configuration
func (c *Config) ToPriceConfig() service.PriceConfig {
	return service.PriceConfig{
		Amount:   c.Payment.Amount,
		Currency: c.Payment.Currency,
		PayTo:    c.Payment.PayTo,
		Network:  c.Payment.Network,
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Discord.BotToken == "" && c.Telegram.BotToken == "" {
		return &ConfigError{Field: "DISCORD_BOT_TOKEN/TELEGRAM_BOT_TOKEN", Message: "at least one platform token is required"}
	}
	return nil
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}
