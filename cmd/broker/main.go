// Command broker runs the OAuth Broker as its own process, for
// deployments where the Gateway and Broker are not co-resident and talk
// over the Auth Resolver's HTTP fallback transport instead of the bound
// in-process binding, per SPEC_FULL §1/§4.4. Most of this wiring mirrors
// cmd/gateway/main.go's provider-config construction and shutdown
// sequence; only the surface served differs (the OAuth routes instead of
// the JSON-RPC endpoint).
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

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jleacox/mcp-gateway/internal/broker"
	"github.com/jleacox/mcp-gateway/internal/config"
	"github.com/jleacox/mcp-gateway/internal/gateway"
	"github.com/jleacox/mcp-gateway/internal/logging"
	"github.com/jleacox/mcp-gateway/internal/oauthflow"
	"github.com/jleacox/mcp-gateway/internal/tokenstore"
)

var version = "1.0.0"

func main() {
	configFile := flag.String("config", "", "Path to an optional YAML config overlay")
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	if *showVersion {
		fmt.Printf("mcp-oauth-broker v%s\n", version)
		os.Exit(0)
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "mcp-oauth-broker: %s\n", err)
		os.Exit(1)
	}

	log := logging.NewAtLevel("broker", parseLevel(cfg.LogLevel))
	log.Info("starting", logging.Fields{"version": version, "addr": cfg.BrokerAddr})

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
	b := broker.New(store, providers, log.WithPrefix("oauth"))

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))
	oauthflow.New(b, log.WithPrefix("routes")).Register(engine)

	httpServer := gateway.NewHTTPServer(cfg.BrokerAddr, engine)

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

	log.Info("listening", logging.Fields{"addr": cfg.BrokerAddr})
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("server error", logging.Fields{"error": err.Error()})
	}

	<-shutdownDone
	log.Info("shutdown complete", nil)
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
