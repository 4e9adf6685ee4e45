// Command qconnect-lambda is the connector function behind API Gateway.
// One binary serves every route; HANDLER_NAME pins a deployment to one.
package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/custodia-labs/qbusiness-connectors/internal/config"
	"github.com/custodia-labs/qbusiness-connectors/internal/runtime"
)

var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	// Clients are built once per cold start and reused across invocations
	container, err := runtime.New(context.Background(), cfg, logger)
	if err != nil {
		log.Fatalf("Failed to initialise services: %v", err)
	}
	defer container.Close()

	router := container.Router(cfg, logger)
	logger.Info("connector function ready",
		"version", version,
		"handler", cfg.HandlerName,
		"routes", len(router.Routes()),
	)

	lambda.Start(router.Invoke)
}
