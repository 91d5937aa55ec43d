// Package config provides configuration for the scheduler server.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/benchanjamin/cf-ai-group-scheduler/internal/adapter/llm"
)

// Config holds the scheduler configuration.
type Config struct {
	// Server settings
	HTTPPort     int
	InternalPort int
	InternalURL  string

	// Database
	DatabaseURL string

	// LLM gateway
	LiteLLMURL    string
	LiteLLMAPIKey string
	LLMModel      string
	LLMTimeout    time.Duration
	MockLLM       bool

	// Sessions
	InactivityPeriod  time.Duration
	AlarmPollInterval time.Duration
}

// Keys understood by Load. Each is read from the environment variable of the
// same name, upper-cased.
const (
	KeyHTTPPort          = "http_port"
	KeyInternalPort      = "internal_port"
	KeyInternalURL       = "internal_url"
	KeyDatabaseURL       = "database_url"
	KeyLiteLLMURL        = "litellm_url"
	KeyLiteLLMAPIKey     = "litellm_api_key"
	KeyLLMModel          = "llm_model"
	KeyLLMTimeoutMS      = "llm_timeout_ms"
	KeyInactivityDays    = "inactivity_days"
	KeyAlarmPollInterval = "alarm_poll_interval_ms"
	KeyLLMMode           = "llm_mode"
)

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyHTTPPort, 8080)
	v.SetDefault(KeyInternalPort, 8081)
	v.SetDefault(KeyInternalURL, "http://localhost:8081")
	v.SetDefault(KeyDatabaseURL, "file:scheduler.db?cache=shared&mode=rwc")
	v.SetDefault(KeyLiteLLMURL, "http://localhost:4000")
	v.SetDefault(KeyLiteLLMAPIKey, "")
	v.SetDefault(KeyLLMModel, "llama-3.3-70b-instruct")
	v.SetDefault(KeyLLMTimeoutMS, 30000)
	v.SetDefault(KeyInactivityDays, 30)
	v.SetDefault(KeyAlarmPollInterval, 60000)
	v.SetDefault(KeyLLMMode, "")
}

// Load reads configuration from v, falling back to environment variables and
// defaults. A nil v uses a fresh viper instance.
func Load(v *viper.Viper) (*Config, error) {
	if v == nil {
		v = viper.New()
	}
	SetDefaults(v)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		HTTPPort:          v.GetInt(KeyHTTPPort),
		InternalPort:      v.GetInt(KeyInternalPort),
		InternalURL:       strings.TrimRight(v.GetString(KeyInternalURL), "/"),
		DatabaseURL:       v.GetString(KeyDatabaseURL),
		LiteLLMURL:        strings.TrimRight(v.GetString(KeyLiteLLMURL), "/"),
		LiteLLMAPIKey:     v.GetString(KeyLiteLLMAPIKey),
		LLMModel:          v.GetString(KeyLLMModel),
		LLMTimeout:        time.Duration(v.GetInt(KeyLLMTimeoutMS)) * time.Millisecond,
		MockLLM:           strings.EqualFold(v.GetString(KeyLLMMode), llm.ModeMock),
		InactivityPeriod:  time.Duration(v.GetInt(KeyInactivityDays)) * 24 * time.Hour,
		AlarmPollInterval: time.Duration(v.GetInt(KeyAlarmPollInterval)) * time.Millisecond,
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects values the server cannot run with.
func (c *Config) Validate() error {
	if c.HTTPPort <= 0 || c.InternalPort <= 0 {
		return fmt.Errorf("invalid port configuration: http=%d internal=%d", c.HTTPPort, c.InternalPort)
	}
	if c.DatabaseURL == "" {
		return fmt.Errorf("database url is required")
	}
	if c.InternalURL == "" {
		return fmt.Errorf("internal url is required")
	}
	if c.LLMTimeout <= 0 {
		return fmt.Errorf("llm timeout must be positive")
	}
	if c.InactivityPeriod <= 0 {
		return fmt.Errorf("inactivity period must be positive")
	}
	if c.AlarmPollInterval <= 0 {
		return fmt.Errorf("alarm poll interval must be positive")
	}
	return nil
}
