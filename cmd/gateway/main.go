// Command gateway runs the MCP Gateway: the JSON-RPC tool-dispatch HTTP
// service, with an embedded OAuth Broker by default (bound transport) per
// SPEC_FULL §4.4. Grounded on
// apps/edge-mcp/cmd/server/main.go's flag/config/wiring/shutdown sequence.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	sdk "github.com/anthropics/anthropic-sdk-go"

	"github.com/jleacox/mcp-gateway/internal/anthropic"
	"github.com/jleacox/mcp-gateway/internal/authresolver"
	"github.com/jleacox/mcp-gateway/internal/broker"
	"github.com/jleacox/mcp-gateway/internal/config"
	"github.com/jleacox/mcp-gateway/internal/gateway"
	"github.com/jleacox/mcp-gateway/internal/logging"
	"github.com/jleacox/mcp-gateway/internal/metrics"
	"github.com/jleacox/mcp-gateway/internal/oauthflow"
	"github.com/jleacox/mcp-gateway/internal/registry"
	"github.com/jleacox/mcp-gateway/internal/tokenstore"
	"github.com/jleacox/mcp-gateway/internal/tools/calendar"
	"github.com/jleacox/mcp-gateway/internal/tools/drive"
	"github.com/jleacox/mcp-gateway/internal/tools/github"
	"github.com/jleacox/mcp-gateway/internal/tools/gmail"
	"github.com/jleacox/mcp-gateway/internal/tools/supabase"
)

var version = "1.0.0"

func main() {
	configFile := flag.String("config", "", "Path to an optional YAML config overlay")
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	if *showVersion {
		fmt.Printf("mcp-gateway v%s\n", version)
		os.Exit(0)
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "mcp-gateway: %s\n", err)
		os.Exit(1)
	}

	log := logging.NewAtLevel("gateway", parseLevel(cfg.LogLevel))
	log.Info("starting", logging.Fields{"version": version, "addr": cfg.GatewayAddr})

	store, err := tokenstore.New(cfg.TokenStorePath, cfg.TokenStoreEncryptionKey)
	if err != nil {
		log.Fatal("opening token store", logging.Fields{"error": err.Error()})
	}

	providers := map[tokenstore.Provider]broker.ProviderConfig{
		tokenstore.ProviderGitHub: {
			AuthEndpoint:  fmt.Sprintf("https://%s/login/oauth/authorize", cfg.GitHubHost),
			TokenEndpoint: fmt.Sprintf("https://%s/login/oauth/access_token", cfg.GitHubHost),
			ClientID:      cfg.GitHubClientID,
			ClientSecret:  cfg.GitHubClientSecret,
			Scope:         cfg.GitHubScope,
			RedirectURI:   cfg.BrokerPublicURL + "/callback/github",
		},
		tokenstore.ProviderGoogle: {
			AuthEndpoint:  "https://accounts.google.com/o/oauth2/v2/auth",
			TokenEndpoint: "https://oauth2.googleapis.com/token",
			ClientID:      cfg.GoogleClientID,
			ClientSecret:  cfg.GoogleClientSecret,
			Scope:         cfg.GoogleScope,
			RedirectURI:   cfg.BrokerPublicURL + "/callback/google",
		},
	}
	b := broker.New(store, providers, log.WithPrefix("broker"))

	staticKeys := authresolver.StaticKeys{
		tokenstore.ProviderSupabase: cfg.SupabaseKey,
	}

	var resolver authresolver.Resolver
	if cfg.BrokerBaseURL != "" {
		resolver = authresolver.NewHTTP(cfg.BrokerBaseURL, nil, staticKeys)
		log.Info("auth resolver using HTTP transport", logging.Fields{"broker_url": cfg.BrokerBaseURL})
	} else {
		resolver = authresolver.NewBound(b, staticKeys)
		log.Info("auth resolver using bound transport", nil)
	}

	upstreamClient := &http.Client{Timeout: cfg.UpstreamTimeout}

	var anthropicClient *anthropic.Client
	if cfg.AnthropicAPIKey != "" {
		anthropicClient = anthropic.NewFromAPIKey(cfg.AnthropicAPIKey, sdk.ModelClaude3_5SonnetLatest)
	} else {
		log.Warn("ANTHROPIC_API_KEY not set, gmail_extract_dates_from_email will fall back to regex only", nil)
	}

	reg := registry.New()
	mustRegister(log, reg, github.New(resolver, cfg.UserID, cfg.GitHubHost))
	mustRegister(log, reg, calendar.New(resolver, cfg.UserID, upstreamClient))
	mustRegister(log, reg, drive.New(resolver, cfg.UserID, upstreamClient))
	mustRegister(log, reg, gmail.New(resolver, cfg.UserID, upstreamClient, anthropicClient))
	if cfg.SupabaseURL != "" {
		mustRegister(log, reg, supabase.New(resolver, cfg.UserID, cfg.SupabaseURL, cfg.SupabaseKey, upstreamClient))
	} else {
		log.Warn("SUPABASE_URL not set, supabase_* tools are unavailable", nil)
	}
	log.Info("registered tools", logging.Fields{"count": len(reg.List())})

	metricsCollector := metrics.New()
	handler := gateway.NewHandler(reg, log.WithPrefix("handler"), metricsCollector)
	server := gateway.NewServer(handler, log.WithPrefix("http"))

	if cfg.BrokerBaseURL == "" {
		oauthflow.New(b, log.WithPrefix("oauth")).Register(server.Engine())
		log.Info("oauth flow routes mounted on gateway process", nil)
	}

	httpServer := gateway.NewHTTPServer(cfg.GatewayAddr, server.Engine())

	shutdownDone := make(chan struct{})
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		log.Info("received shutdown signal", logging.Fields{"signal": sig.String()})

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		_ = gateway.Shutdown(ctx, httpServer, log)
		close(shutdownDone)
	}()

	log.Info("listening", logging.Fields{"addr": cfg.GatewayAddr})
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("server error", logging.Fields{"error": err.Error()})
	}

	<-shutdownDone
	log.Info("shutdown complete", nil)
}

func mustRegister(log logging.Logger, reg *registry.Registry, p registry.Provider) {
	if err := reg.Register(p); err != nil {
		log.Fatal("registering provider", logging.Fields{"provider": p.Name(), "error": err.Error()})
	}
}

func parseLevel(level string) logging.Level {
	switch level {
	case "debug":
		return logging.LevelDebug
	case "warn":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}
