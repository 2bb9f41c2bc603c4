package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	keys := []string{
		"GATEWAY_ADDR", "BROKER_ADDR", "OAUTH_BROKER_URL", "USER_ID",
		"GITHUB_CLIENT_ID", "GITHUB_CLIENT_SECRET", "GITHUB_HOST", "GITHUB_SCOPE",
		"GOOGLE_CLIENT_ID", "GOOGLE_CLIENT_SECRET", "GOOGLE_SCOPE",
		"SUPABASE_URL", "SUPABASE_KEY", "ANTHROPIC_API_KEY",
		"TOKEN_STORE_PATH", "TOKEN_STORE_ENCRYPTION_KEY", "LOG_LEVEL",
		"UPSTREAM_TIMEOUT", "ANTHROPIC_TIMEOUT", "BROKER_PUBLIC_URL",
	}
	for _, k := range keys {
		t.Setenv(k, "")
	}
}

func TestLoad_RequiresUserID(t *testing.T) {
	clearEnv(t)
	_, err := Load("")
	require.Error(t, err)
	require.Contains(t, err.Error(), "USER_ID")
}

func TestLoad_AppliesDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("USER_ID", "jason")
	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, ":8080", cfg.GatewayAddr)
	require.Equal(t, ":8081", cfg.BrokerAddr)
	require.Equal(t, "github.com", cfg.GitHubHost)
	require.Equal(t, "info", cfg.LogLevel)
	require.Equal(t, 30*time.Second, cfg.UpstreamTimeout)
}

func TestLoad_EnvOverridesYAML(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("user_id: from-yaml\ngateway_addr: \":9000\"\n"), 0o600))

	t.Setenv("USER_ID", "from-env")
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "from-env", cfg.UserID)
	require.Equal(t, ":9000", cfg.GatewayAddr)
}

func TestLoad_MissingConfigFileIsError(t *testing.T) {
	clearEnv(t)
	t.Setenv("USER_ID", "jason")
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestLoad_DerivesGoogleAndGitHubScopeDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("USER_ID", "jason")
	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "repo", cfg.GitHubScope)
	require.Contains(t, cfg.GoogleScope, "gmail.modify")
}
