package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/nexusnu/webclient/internal/pkg/helpers"
)

// Config structure represents the web client configuration
type Config struct {
	Server struct {
		Port               string `yaml:"port" env:"SERVER_PORT"`
		Mode               string `yaml:"mode" env:"SERVER_MODE"`
		SessionSecret      string `yaml:"session_secret" env:"SESSION_SECRET"`
		SessionIdleTimeout string `yaml:"session_idle_timeout" env:"SESSION_IDLE_TIMEOUT"`
		SecureCookies      bool   `yaml:"secure_cookies" env:"SESSION_SECURE_COOKIES"`
	} `yaml:"server"`

	Backend struct {
		BaseURL string `yaml:"base_url" env:"API_URL"`
		Timeout string `yaml:"timeout" env:"API_TIMEOUT"`
	} `yaml:"backend"`

	Jobs struct {
		RapidAPIKey  string `yaml:"rapid_api_key" env:"RAPIDAPI_KEY"`
		RapidAPIHost string `yaml:"rapid_api_host" env:"RAPIDAPI_HOST"`
		BaseURL      string `yaml:"base_url" env:"JSEARCH_BASE_URL"`
		Timeout      string `yaml:"timeout" env:"JSEARCH_TIMEOUT"`
	} `yaml:"jobs"`

	Chat struct {
		MessagePollInterval string `yaml:"message_poll_interval" env:"CHAT_MESSAGE_POLL_INTERVAL"`
		UnreadPollInterval  string `yaml:"unread_poll_interval" env:"CHAT_UNREAD_POLL_INTERVAL"`
		PollIdleTimeout     string `yaml:"poll_idle_timeout" env:"CHAT_POLL_IDLE_TIMEOUT"`
	} `yaml:"chat"`

	Skills struct {
		Debounce  string `yaml:"debounce" env:"SKILLS_DEBOUNCE"`
		MaxSkills int    `yaml:"max_skills" env:"SKILLS_MAX"`
	} `yaml:"skills"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`
}

// LoadConfig loads configuration from a file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}
	setDefaults(config)

	// The file is optional; defaults plus environment are enough to run
	if _, err := os.Stat(configPath); err == nil {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(file, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := loadFromEnv(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults sets default values for the configuration
func setDefaults(config *Config) {
	config.Server.Port = "3000"
	config.Server.Mode = "development"
	config.Server.SessionIdleTimeout = "2h"

	config.Backend.BaseURL = "http://localhost:5000/api"
	config.Backend.Timeout = "15s"

	config.Jobs.RapidAPIHost = "jsearch.p.rapidapi.com"
	config.Jobs.BaseURL = "https://jsearch.p.rapidapi.com"
	config.Jobs.Timeout = "15s"

	config.Chat.MessagePollInterval = "5s"
	config.Chat.UnreadPollInterval = "30s"
	config.Chat.PollIdleTimeout = "2m"

	config.Skills.Debounce = "250ms"
	config.Skills.MaxSkills = 50

	config.Logging.Level = "info"
	config.Logging.Format = "json"
}

// loadFromEnv overrides configuration with environment variables
func loadFromEnv(config *Config) error {
	return processStructFields(config)
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	if config.Server.SessionSecret == "" {
		return fmt.Errorf("session secret is required")
	}
	if len(config.Server.SessionSecret) < 32 {
		return fmt.Errorf("session secret must be at least 32 bytes")
	}

	u, err := url.Parse(config.Backend.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid backend base url %q", config.Backend.BaseURL)
	}

	durations := map[string]string{
		"server.session_idle_timeout": config.Server.SessionIdleTimeout,
		"backend.timeout":             config.Backend.Timeout,
		"jobs.timeout":                config.Jobs.Timeout,
		"chat.message_poll_interval":  config.Chat.MessagePollInterval,
		"chat.unread_poll_interval":   config.Chat.UnreadPollInterval,
		"chat.poll_idle_timeout":      config.Chat.PollIdleTimeout,
		"skills.debounce":             config.Skills.Debounce,
	}
	for name, value := range durations {
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid %s format: %w", name, err)
		}
		if d <= 0 {
			return fmt.Errorf("%s must be positive", name)
		}
	}

	if config.Skills.MaxSkills <= 0 {
		return fmt.Errorf("skills.max_skills must be positive")
	}

	switch strings.ToLower(config.Logging.Format) {
	case "json", "pretty", "console":
	default:
		return fmt.Errorf("unknown log format %q", config.Logging.Format)
	}

	return nil
}

// IsProduction reports whether the server runs in production mode
func (c *Config) IsProduction() bool {
	return c.Server.Mode == "production" || c.Server.Mode == "release"
}

// SessionIdleTimeout returns the idle eviction window for client sessions
func (c *Config) SessionIdleTimeout() time.Duration {
	return helpers.ParseDuration(c.Server.SessionIdleTimeout, 2*time.Hour)
}

// BackendTimeout returns the request timeout for the NexusNU API
func (c *Config) BackendTimeout() time.Duration {
	return helpers.ParseDuration(c.Backend.Timeout, 15*time.Second)
}

// JobsTimeout returns the request timeout for JSearch
func (c *Config) JobsTimeout() time.Duration {
	return helpers.ParseDuration(c.Jobs.Timeout, 15*time.Second)
}

// MessagePollInterval returns the open conversation refresh period
func (c *Config) MessagePollInterval() time.Duration {
	return helpers.ParseDuration(c.Chat.MessagePollInterval, 5*time.Second)
}

// UnreadPollInterval returns the unread badge refresh period
func (c *Config) UnreadPollInterval() time.Duration {
	return helpers.ParseDuration(c.Chat.UnreadPollInterval, 30*time.Second)
}

// PollIdleTimeout returns how long polls keep running without a request
// from the browser
func (c *Config) PollIdleTimeout() time.Duration {
	return helpers.ParseDuration(c.Chat.PollIdleTimeout, 2*time.Minute)
}

// SkillDebounce returns the skill search debounce window
func (c *Config) SkillDebounce() time.Duration {
	return helpers.ParseDuration(c.Skills.Debounce, 250*time.Millisecond)
}

// GetEnv gets an environment variable or returns a default value
func GetEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
