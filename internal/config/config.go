package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	configPathEnv     = "COMPANY_SCOUT_CONFIG"
	logLevelEnv       = "COMPANY_SCOUT_LOG_LEVEL"
	llmAPIKeyEnv      = "GROQ_API_KEY"
	llmModelEnv       = "GROQ_MODEL"
	leadsDSNEnv       = "LEADS_DSN"
	telegramTokenEnv  = "TELEGRAM_BOT_TOKEN"
	telegramChatIDEnv = "TELEGRAM_CHAT_ID"
	maxPerSourceEnv   = "COMPANY_SCOUT_MAX_PER_SOURCE"
)

// Config holds high-level settings required across the application.
type Config struct {
	Logging       LoggingConfig      `yaml:"logging"`
	LLM           LLMConfig          `yaml:"llm"`
	Retrieval     RetrievalConfig    `yaml:"retrieval"`
	Extraction    ExtractionConfig   `yaml:"extraction"`
	Catalog       CatalogConfig      `yaml:"catalog"`
	Export        ExportConfig       `yaml:"export"`
	Storage       StorageConfig      `yaml:"storage"`
	Notifications NotificationConfig `yaml:"notifications"`
	Sources       []SourceConfig     `yaml:"sources"`
}

// LoggingConfig selects the slog level and output format.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// LLMConfig defines how to contact the OpenAI-compatible chat API.
type LLMConfig struct {
	Endpoint    string        `yaml:"endpoint"`
	Model       string        `yaml:"model"`
	APIKey      string        `yaml:"apiKey"`
	Temperature float64       `yaml:"temperature"`
	MaxTokens   int           `yaml:"maxTokens"`
	Timeout     time.Duration `yaml:"timeout"`
}

// RetrievalConfig controls pacing and limits for search backends.
type RetrievalConfig struct {
	Pacing       time.Duration `yaml:"pacing"`
	Timeout      time.Duration `yaml:"timeout"`
	UserAgent    string        `yaml:"userAgent"`
	MaxPerSource int           `yaml:"maxPerSource"`
}

// ExtractionConfig bounds language-model calls per article.
type ExtractionConfig struct {
	MaxContentChars int           `yaml:"maxContentChars"`
	MaxAttempts     int           `yaml:"maxAttempts"`
	Backoff         time.Duration `yaml:"backoff"`
}

// CatalogConfig overrides the built-in domain vocabulary.
type CatalogConfig struct {
	Sectors       []string `yaml:"sectors"`
	LeadSignals   []string `yaml:"leadSignals"`
	TimelineYears []string `yaml:"timelineYears"`
}

// ExportConfig shapes the TSV artifact.
type ExportConfig struct {
	IncludeTimeline *bool  `yaml:"includeTimeline"`
	Dir             string `yaml:"dir"`
}

// TimelineColumn reports whether the Detailed Timeline column is emitted.
func (e ExportConfig) TimelineColumn() bool {
	return e.IncludeTimeline == nil || *e.IncludeTimeline
}

// StorageConfig points at the optional SQLite lead archive.
type StorageConfig struct {
	DSN string `yaml:"dsn"`
}

// NotificationConfig encapsulates outbound channels (Telegram, etc.).
type NotificationConfig struct {
	Telegram TelegramConfig `yaml:"telegram"`
	TopN     int            `yaml:"topN"`
}

// TelegramConfig wires all data required to send messages.
type TelegramConfig struct {
	BotToken string `yaml:"botToken"`
	ChatID   string `yaml:"chatId"`
}

// SourceConfig registers an adapter under a name, optionally pointing it at a different base URL.
type SourceConfig struct {
	Name    string `yaml:"name"`
	Adapter string `yaml:"adapter"`
	BaseURL string `yaml:"baseUrl"`
}

// Load reads YAML configuration (if present), a .env file (if present) and applies environment overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	// A missing .env is the normal case outside local development.
	_ = godotenv.Load()
	cfg.applyEnvOverrides()

	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}

	if v := os.Getenv(llmAPIKeyEnv); v != "" {
		c.LLM.APIKey = v
	}

	if v := os.Getenv(llmModelEnv); v != "" {
		c.LLM.Model = v
	}

	if v := os.Getenv(leadsDSNEnv); v != "" {
		c.Storage.DSN = v
	}

	if v := os.Getenv(telegramTokenEnv); v != "" {
		c.Notifications.Telegram.BotToken = v
	}

	if v := os.Getenv(telegramChatIDEnv); v != "" {
		c.Notifications.Telegram.ChatID = v
	}

	if v := os.Getenv(maxPerSourceEnv); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Retrieval.MaxPerSource = n
		} else {
			log.Printf("config: ignoring invalid %s=%q", maxPerSourceEnv, v)
		}
	}
}

func mergeConfig(base, override Config) Config {
	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}
	if override.Logging.Format != "" {
		base.Logging.Format = override.Logging.Format
	}

	if override.LLM.Endpoint != "" {
		base.LLM.Endpoint = override.LLM.Endpoint
	}
	if override.LLM.Model != "" {
		base.LLM.Model = override.LLM.Model
	}
	if override.LLM.APIKey != "" {
		base.LLM.APIKey = override.LLM.APIKey
	}
	if override.LLM.Temperature > 0 {
		base.LLM.Temperature = override.LLM.Temperature
	}
	if override.LLM.MaxTokens > 0 {
		base.LLM.MaxTokens = override.LLM.MaxTokens
	}
	if override.LLM.Timeout > 0 {
		base.LLM.Timeout = override.LLM.Timeout
	}

	if override.Retrieval.Pacing > 0 {
		base.Retrieval.Pacing = override.Retrieval.Pacing
	}
	if override.Retrieval.Timeout > 0 {
		base.Retrieval.Timeout = override.Retrieval.Timeout
	}
	if override.Retrieval.UserAgent != "" {
		base.Retrieval.UserAgent = override.Retrieval.UserAgent
	}
	if override.Retrieval.MaxPerSource > 0 {
		base.Retrieval.MaxPerSource = override.Retrieval.MaxPerSource
	}

	if override.Extraction.MaxContentChars > 0 {
		base.Extraction.MaxContentChars = override.Extraction.MaxContentChars
	}
	if override.Extraction.MaxAttempts > 0 {
		base.Extraction.MaxAttempts = override.Extraction.MaxAttempts
	}
	if override.Extraction.Backoff > 0 {
		base.Extraction.Backoff = override.Extraction.Backoff
	}

	if len(override.Catalog.Sectors) > 0 {
		base.Catalog.Sectors = override.Catalog.Sectors
	}
	if len(override.Catalog.LeadSignals) > 0 {
		base.Catalog.LeadSignals = override.Catalog.LeadSignals
	}
	if len(override.Catalog.TimelineYears) > 0 {
		base.Catalog.TimelineYears = override.Catalog.TimelineYears
	}

	if override.Export.IncludeTimeline != nil {
		base.Export.IncludeTimeline = override.Export.IncludeTimeline
	}
	if override.Export.Dir != "" {
		base.Export.Dir = override.Export.Dir
	}

	if override.Storage.DSN != "" {
		base.Storage = override.Storage
	}

	if override.Notifications.Telegram.BotToken != "" {
		base.Notifications.Telegram.BotToken = override.Notifications.Telegram.BotToken
	}
	if override.Notifications.Telegram.ChatID != "" {
		base.Notifications.Telegram.ChatID = override.Notifications.Telegram.ChatID
	}
	if override.Notifications.TopN > 0 {
		base.Notifications.TopN = override.Notifications.TopN
	}

	if len(override.Sources) > 0 {
		base.Sources = override.Sources
	}

	return base
}

func defaultConfig() Config {
	return Config{
		Logging: LoggingConfig{Level: "info", Format: "text"},
		LLM: LLMConfig{
			Endpoint:    "https://api.groq.com/openai/v1/",
			Model:       "llama-3.3-70b-versatile",
			Temperature: 0.1,
			MaxTokens:   1000,
			Timeout:     30 * time.Second,
		},
		Retrieval: RetrievalConfig{
			Pacing:       time.Second,
			Timeout:      15 * time.Second,
			MaxPerSource: 10,
		},
		Extraction: ExtractionConfig{
			MaxContentChars: 3000,
			MaxAttempts:     2,
			Backoff:         2 * time.Second,
		},
		Export:        ExportConfig{Dir: "."},
		Notifications: NotificationConfig{TopN: 5},
		Sources: []SourceConfig{
			{Name: "google_news", Adapter: "google_news"},
			{Name: "bing_news", Adapter: "bing_news"},
			{Name: "duckduckgo", Adapter: "duckduckgo"},
		},
	}
}
