package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("SESSION_SECRET", testSecret)

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Backend.BaseURL != "http://localhost:5000/api" {
		t.Errorf("base url %q", cfg.Backend.BaseURL)
	}
	if cfg.MessagePollInterval() != 5*time.Second {
		t.Errorf("message poll %v", cfg.MessagePollInterval())
	}
	if cfg.UnreadPollInterval() != 30*time.Second {
		t.Errorf("unread poll %v", cfg.UnreadPollInterval())
	}
	if cfg.SkillDebounce() != 250*time.Millisecond {
		t.Errorf("debounce %v", cfg.SkillDebounce())
	}
	if cfg.Skills.MaxSkills != 50 {
		t.Errorf("max skills %d", cfg.Skills.MaxSkills)
	}
}

func TestLoadConfigFileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := strings.Join([]string{
		"server:",
		"  port: \"9000\"",
		"  session_secret: " + testSecret,
		"backend:",
		"  base_url: http://api.internal:5000/api",
		"jobs:",
		"  rapid_api_key: from-file",
	}, "\n")
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("RAPIDAPI_KEY", "from-env")
	t.Setenv("SKILLS_MAX", "10")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != "9000" {
		t.Errorf("port %q", cfg.Server.Port)
	}
	if cfg.Backend.BaseURL != "http://api.internal:5000/api" {
		t.Errorf("base url %q", cfg.Backend.BaseURL)
	}
	if cfg.Jobs.RapidAPIKey != "from-env" {
		t.Errorf("env should win over file, got %q", cfg.Jobs.RapidAPIKey)
	}
	if cfg.Skills.MaxSkills != 10 {
		t.Errorf("max skills %d", cfg.Skills.MaxSkills)
	}
}

func TestLoadConfigValidation(t *testing.T) {
	dir := t.TempDir()
	cases := map[string]map[string]string{
		"missing secret": {},
		"short secret":   {"SESSION_SECRET": "short"},
		"bad url":        {"SESSION_SECRET": testSecret, "API_URL": "not a url"},
		"bad duration":   {"SESSION_SECRET": testSecret, "CHAT_MESSAGE_POLL_INTERVAL": "soon"},
		"bad int":        {"SESSION_SECRET": testSecret, "SKILLS_MAX": "many"},
		"bad bool":       {"SESSION_SECRET": testSecret, "SESSION_SECURE_COOKIES": "sometimes"},
		"bad idle":       {"SESSION_SECRET": testSecret, "CHAT_POLL_IDLE_TIMEOUT": "-1m"},
		"bad format":     {"SESSION_SECRET": testSecret, "LOG_FORMAT": "xml"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			t.Setenv("SESSION_SECRET", "")
			os.Unsetenv("SESSION_SECRET")
			for k, v := range env {
				t.Setenv(k, v)
			}
			if _, err := LoadConfig(filepath.Join(dir, "none.yaml")); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}
