// Package config loads the gateway's operator-supplied configuration from
// environment variables, with an optional YAML file overlay applied first.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the one immutable value loaded at process start and threaded
// explicitly into every constructor. Nothing in this repo reads the
// environment after Load returns.
type Config struct {
	// GatewayAddr is the Gateway's listen address.
	GatewayAddr string `yaml:"gateway_addr"`
	// BrokerAddr is the Broker's listen address, used only when the broker
	// runs as a separate process from the gateway.
	BrokerAddr string `yaml:"broker_addr"`
	// BrokerBaseURL, when set, tells the gateway to resolve tokens over
	// HTTPS against a broker running elsewhere instead of the bound broker
	// embedded in this process.
	BrokerBaseURL string `yaml:"oauth_broker_url"`
	// UserID is the single operator identity this deployment serves.
	UserID string `yaml:"user_id"`

	GitHubClientID     string `yaml:"github_client_id"`
	GitHubClientSecret string `yaml:"github_client_secret"`
	GitHubHost         string `yaml:"github_host"`
	GitHubScope        string `yaml:"github_scope"`

	GoogleClientID     string `yaml:"google_client_id"`
	GoogleClientSecret string `yaml:"google_client_secret"`
	GoogleScope        string `yaml:"google_scope"`

	// BrokerPublicURL is the broker's own externally-reachable base URL,
	// used to build each provider's redirect_uri as
	// <BrokerPublicURL>/callback/{provider} per SPEC_FULL §4.5. Distinct
	// from BrokerBaseURL, which points the gateway at a broker running
	// elsewhere rather than describing this broker's own address.
	BrokerPublicURL string `yaml:"broker_public_url"`

	SupabaseURL string `yaml:"supabase_url"`
	SupabaseKey string `yaml:"supabase_key"`

	AnthropicAPIKey string `yaml:"anthropic_api_key"`

	TokenStorePath          string `yaml:"token_store_path"`
	TokenStoreEncryptionKey string `yaml:"token_store_encryption_key"`

	LogLevel string `yaml:"log_level"`

	UpstreamTimeout  time.Duration `yaml:"upstream_timeout"`
	AnthropicTimeout time.Duration `yaml:"anthropic_timeout"`
}

// Default returns the configuration's zero-value defaults before any
// environment or file overlay is applied.
func Default() Config {
	return Config{
		GatewayAddr:      ":8080",
		BrokerAddr:       ":8081",
		GitHubHost:       "github.com",
		GitHubScope:      "repo",
		GoogleScope:      "https://www.googleapis.com/auth/calendar https://www.googleapis.com/auth/drive https://www.googleapis.com/auth/gmail.modify",
		BrokerPublicURL:  "http://localhost:8081",
		LogLevel:         "info",
		UpstreamTimeout:  30 * time.Second,
		AnthropicTimeout: 60 * time.Second,
	}
}

// Load builds a Config starting from Default, overlaying an optional YAML
// file (configPath, may be empty), then overlaying environment variables
// (which always win on conflict).
func Load(configPath string) (Config, error) {
	cfg := Default()

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return Config{}, fmt.Errorf("config: reading %s: %w", configPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parsing %s: %w", configPath, err)
		}
	}

	cfg.GatewayAddr = getEnv("GATEWAY_ADDR", cfg.GatewayAddr)
	cfg.BrokerAddr = getEnv("BROKER_ADDR", cfg.BrokerAddr)
	cfg.BrokerBaseURL = getEnv("OAUTH_BROKER_URL", cfg.BrokerBaseURL)
	cfg.UserID = getEnv("USER_ID", cfg.UserID)

	cfg.GitHubClientID = getEnv("GITHUB_CLIENT_ID", cfg.GitHubClientID)
	cfg.GitHubClientSecret = getEnv("GITHUB_CLIENT_SECRET", cfg.GitHubClientSecret)
	cfg.GitHubHost = getEnv("GITHUB_HOST", cfg.GitHubHost)
	cfg.GitHubScope = getEnv("GITHUB_SCOPE", cfg.GitHubScope)

	cfg.GoogleClientID = getEnv("GOOGLE_CLIENT_ID", cfg.GoogleClientID)
	cfg.GoogleClientSecret = getEnv("GOOGLE_CLIENT_SECRET", cfg.GoogleClientSecret)
	cfg.GoogleScope = getEnv("GOOGLE_SCOPE", cfg.GoogleScope)

	cfg.BrokerPublicURL = getEnv("BROKER_PUBLIC_URL", cfg.BrokerPublicURL)

	cfg.SupabaseURL = getEnv("SUPABASE_URL", cfg.SupabaseURL)
	cfg.SupabaseKey = getEnv("SUPABASE_KEY", cfg.SupabaseKey)

	cfg.AnthropicAPIKey = getEnv("ANTHROPIC_API_KEY", cfg.AnthropicAPIKey)

	cfg.TokenStorePath = getEnv("TOKEN_STORE_PATH", cfg.TokenStorePath)
	cfg.TokenStoreEncryptionKey = getEnv("TOKEN_STORE_ENCRYPTION_KEY", cfg.TokenStoreEncryptionKey)

	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)

	cfg.UpstreamTimeout = getEnvDuration("UPSTREAM_TIMEOUT", cfg.UpstreamTimeout)
	cfg.AnthropicTimeout = getEnvDuration("ANTHROPIC_TIMEOUT", cfg.AnthropicTimeout)

	if cfg.UserID == "" {
		return Config{}, fmt.Errorf("config: USER_ID is required")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
