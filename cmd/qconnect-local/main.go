package main

// @title           Amazon Q Business Connectors API
// @version         1.0
// @description     Setup and operations endpoints connecting Amazon Q Business to Salesforce, ServiceNow, SharePoint and Zendesk.

// @host      localhost:8080
// @BasePath  /
// @schemes   http

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/custodia-labs/qbusiness-connectors/internal/adapters/driving/http"
	"github.com/custodia-labs/qbusiness-connectors/internal/config"
	"github.com/custodia-labs/qbusiness-connectors/internal/core/domain"
	"github.com/custodia-labs/qbusiness-connectors/internal/runtime"
)

var version = "dev"

const usage = `usage: qconnect-local [serve | hash-secret <secret> | issue-token <subject> [ttl]]`

func main() {
	// Get run mode from environment (RUN_MODE) or command line arg
	mode := getEnv("RUN_MODE", "serve")
	if len(os.Args) > 1 {
		mode = os.Args[1]
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	switch mode {
	case "serve":
		runServer(cfg, logger)
	case "hash-secret":
		if len(os.Args) < 3 {
			log.Fatal(usage)
		}
		_, verifier := runtime.NewAuthorizer(cfg, logger)
		hash, err := verifier.HashSecret(os.Args[2])
		if err != nil {
			log.Fatalf("Failed to hash secret: %v", err)
		}
		fmt.Println(hash)
	case "issue-token":
		if len(os.Args) < 3 {
			log.Fatal(usage)
		}
		ttl := 24 * time.Hour
		if len(os.Args) > 3 {
			if ttl, err = time.ParseDuration(os.Args[3]); err != nil {
				log.Fatalf("Invalid token lifetime %q: %v", os.Args[3], err)
			}
		}
		_, verifier := runtime.NewAuthorizer(cfg, logger)
		now := time.Now()
		token, err := verifier.IssueToken(&domain.CallerClaims{
			Subject:   os.Args[2],
			Issuer:    "qconnect-local",
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(ttl).Unix(),
		})
		if err != nil {
			log.Fatalf("Failed to issue token: %v", err)
		}
		fmt.Println(token)
	default:
		log.Fatal(usage)
	}
}

func runServer(cfg *config.Config, logger *slog.Logger) {
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	log.Printf("qconnect-local %s starting", version)

	container, err := runtime.New(context.Background(), cfg, logger)
	if err != nil {
		log.Fatalf("Failed to initialise services: %v", err)
	}
	defer container.Close()

	authorizer, _ := runtime.NewAuthorizer(cfg, logger)

	serverCfg := http.DefaultConfig()
	serverCfg.Port = cfg.LocalPort
	serverCfg.Version = version
	serverCfg.Logger = logger
	if cfg.AllowedOrigin != "" {
		serverCfg.AllowedOrigins = strings.Split(cfg.AllowedOrigin, ",")
	}

	server := http.NewServer(serverCfg, container.Router(cfg, logger), authorizer)
	if err := server.Start(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
