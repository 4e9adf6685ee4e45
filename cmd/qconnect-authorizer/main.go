// Command qconnect-authorizer is the API Gateway request authorizer.
package main

import (
	"log"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/custodia-labs/qbusiness-connectors/internal/adapters/driving/authorizer"
	"github.com/custodia-labs/qbusiness-connectors/internal/config"
	"github.com/custodia-labs/qbusiness-connectors/internal/runtime"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	svc, _ := runtime.NewAuthorizer(cfg, logger)
	handler := authorizer.NewHandler(svc, logger)

	logger.Info("authorizer ready",
		"header", cfg.AuthorizerHeaderName,
		"hashed", cfg.AuthorizerHeaderValueHash != "",
		"bearer_tokens", cfg.BearerTokens(),
	)

	lambda.Start(handler.Handle)
}
