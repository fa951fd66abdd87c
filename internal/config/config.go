// Package config loads interviewer settings from a YAML file, a .env file,
// INTERVIEWER_* environment variables and command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/abhisek/interviewer/internal/llm"
)

const (
	appName   = "interviewer"
	envPrefix = "INTERVIEWER"
)

// Config is the fully resolved application configuration.
type Config struct {
	LLM       LLMConfig       `mapstructure:"llm"`
	Questions QuestionsConfig `mapstructure:"questions"`
	Sessions  SessionsConfig  `mapstructure:"sessions"`
	Store     StoreConfig     `mapstructure:"store"`
	Log       LogConfig       `mapstructure:"log"`
}

// LLMConfig selects and configures the semantic model backend.
// An empty provider means "discover from the standard API key variables",
// and "none" disables the model tier entirely.
type LLMConfig struct {
	Provider       string         `mapstructure:"provider"`
	Timeout        time.Duration  `mapstructure:"timeout"`
	MaxInputTokens int            `mapstructure:"max-input-tokens"`
	Anthropic      ProviderConfig `mapstructure:"anthropic"`
	OpenAI         ProviderConfig `mapstructure:"openai"`
	Gemini         ProviderConfig `mapstructure:"gemini"`
	OpenRouter     ProviderConfig `mapstructure:"openrouter"`
	Ollama         ProviderConfig `mapstructure:"ollama"`

	// Purposes tunes calls per component, keyed by answer-scoring,
	// intro-critique or intent.
	Purposes map[string]PurposeConfig `mapstructure:"purposes"`
}

// PurposeConfig overrides the model budget for one purpose.
type PurposeConfig struct {
	Model       string        `mapstructure:"model"`
	Timeout     time.Duration `mapstructure:"timeout"`
	MaxAttempts int           `mapstructure:"max-attempts"`
}

// ProviderConfig holds the settings shared by every model provider.
type ProviderConfig struct {
	APIKey  string `mapstructure:"api-key"`
	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"base-url"`
}

// QuestionsConfig selects the question corpus backend.
type QuestionsConfig struct {
	Backend       string              `mapstructure:"backend"` // builtin, yaml, elasticsearch
	File          string              `mapstructure:"file"`
	Timeout       time.Duration       `mapstructure:"timeout"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
}

// ElasticsearchConfig points at the cluster holding imported question documents.
type ElasticsearchConfig struct {
	Addresses []string `mapstructure:"addresses"`
	Username  string   `mapstructure:"username"`
	Password  string   `mapstructure:"password"`
	Index     string   `mapstructure:"index"`
}

// SessionsConfig selects where per-user interview sessions live.
type SessionsConfig struct {
	Backend string        `mapstructure:"backend"` // memory, redis
	Redis   RedisConfig   `mapstructure:"redis"`
	TTL     time.Duration `mapstructure:"ttl"`
}

// RedisConfig configures the shared session store.
type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// StoreConfig configures the exchange log database.
type StoreConfig struct {
	Driver string `mapstructure:"driver"` // sqlite, postgres
	DSN    string `mapstructure:"dsn"`
}

// LogConfig controls logger construction.
type LogConfig struct {
	JSON  bool `mapstructure:"json"`
	Debug bool `mapstructure:"debug"`
}

// Load resolves configuration into v. When file is empty an optional
// interviewer.yaml in the working directory is used.
func Load(v *viper.Viper, file string) (*Config, error) {
	loadEnvFile()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", file, err)
		}
	} else {
		v.AddConfigPath(".")
		v.SetConfigName(appName)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// loadEnvFile loads .env from the working directory if present.
// Variables already set in the environment win.
func loadEnvFile() {
	if _, err := os.Stat(".env"); err == nil {
		_ = godotenv.Load(".env")
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("llm.provider", "")
	v.SetDefault("llm.timeout", 30*time.Second)
	v.SetDefault("llm.max-input-tokens", 3000)
	for _, p := range []string{"anthropic", "openai", "gemini", "openrouter", "ollama"} {
		v.SetDefault("llm."+p+".api-key", "")
		v.SetDefault("llm."+p+".model", "")
		v.SetDefault("llm."+p+".base-url", "")
	}

	v.SetDefault("questions.backend", "builtin")
	v.SetDefault("questions.file", "")
	v.SetDefault("questions.timeout", 5*time.Second)
	v.SetDefault("questions.elasticsearch.addresses", []string{"http://localhost:9200"})
	v.SetDefault("questions.elasticsearch.username", "")
	v.SetDefault("questions.elasticsearch.password", "")
	v.SetDefault("questions.elasticsearch.index", "questions-*")

	v.SetDefault("sessions.backend", "memory")
	v.SetDefault("sessions.ttl", 24*time.Hour)
	v.SetDefault("sessions.redis.address", "localhost:6379")
	v.SetDefault("sessions.redis.password", "")
	v.SetDefault("sessions.redis.db", 0)

	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.dsn", "")

	v.SetDefault("log.json", false)
	v.SetDefault("log.debug", false)
}

// Validate checks enumerated settings and backend prerequisites.
func (c *Config) Validate() error {
	switch c.Questions.Backend {
	case "builtin":
	case "yaml":
		if c.Questions.File == "" {
			return fmt.Errorf("questions.file is required for the yaml backend")
		}
	case "elasticsearch":
		if len(c.Questions.Elasticsearch.Addresses) == 0 {
			return fmt.Errorf("questions.elasticsearch.addresses is required")
		}
	default:
		return fmt.Errorf("unknown questions backend: %q", c.Questions.Backend)
	}

	switch c.Sessions.Backend {
	case "memory":
	case "redis":
		if c.Sessions.Redis.Address == "" {
			return fmt.Errorf("sessions.redis.address is required for the redis backend")
		}
	default:
		return fmt.Errorf("unknown sessions backend: %q", c.Sessions.Backend)
	}

	switch c.Store.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("unknown store driver: %q", c.Store.Driver)
	}
	for name := range c.LLM.Purposes {
		if !slices.Contains(llm.Purposes, llm.Purpose(name)) {
			return fmt.Errorf("unknown llm purpose: %q", name)
		}
	}
	if c.Store.Driver == "postgres" && c.Store.DSN == "" {
		return fmt.Errorf("store.dsn is required for postgres")
	}
	return nil
}

// Resolve converts the LLM section into an llm.Config. The second return
// value is false when no model backend is configured or discoverable.
func (c LLMConfig) Resolve() (llm.Config, bool) {
	var cfg llm.Config
	switch c.Provider {
	case "none":
		return llm.Config{}, false
	case "":
		discovered, ok := llm.DiscoverConfig()
		if !ok {
			return llm.Config{}, false
		}
		cfg = discovered
	default:
		cfg = llm.DefaultConfig()
		cfg.Provider = c.Provider
	}

	overlay(&cfg.Anthropic.APIKey, c.Anthropic.APIKey)
	overlay(&cfg.Anthropic.Model, c.Anthropic.Model)
	overlay(&cfg.OpenAI.APIKey, c.OpenAI.APIKey)
	overlay(&cfg.OpenAI.Model, c.OpenAI.Model)
	overlay(&cfg.OpenAI.BaseURL, c.OpenAI.BaseURL)
	overlay(&cfg.Gemini.APIKey, c.Gemini.APIKey)
	overlay(&cfg.Gemini.Model, c.Gemini.Model)
	overlay(&cfg.OpenRouter.APIKey, c.OpenRouter.APIKey)
	overlay(&cfg.OpenRouter.Model, c.OpenRouter.Model)
	overlay(&cfg.OpenRouter.BaseURL, c.OpenRouter.BaseURL)
	overlay(&cfg.Ollama.Model, c.Ollama.Model)
	overlay(&cfg.Ollama.Host, c.Ollama.BaseURL)

	if c.Timeout > 0 {
		cfg.Timeout = c.Timeout
	}
	if c.MaxInputTokens > 0 {
		cfg.MaxInputTokens = c.MaxInputTokens
	}

	overrides := make(llm.Policies, len(c.Purposes))
	for name, pc := range c.Purposes {
		overrides[llm.Purpose(name)] = llm.Policy{Model: pc.Model, Timeout: pc.Timeout, MaxAttempts: pc.MaxAttempts}
	}
	cfg.Policies = cfg.Policies.Merge(overrides)
	return cfg, true
}

func overlay(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
