// Package http serves the Lambda router over plain HTTP for local
// development, applying the same authorizer rules API Gateway would.
package http

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/custodia-labs/qbusiness-connectors/internal/adapters/driving/lambda"
	"github.com/custodia-labs/qbusiness-connectors/internal/core/ports/driving"
)

// Server represents the local HTTP server
type Server struct {
	httpServer *http.Server
	mux        *http.ServeMux
	version    string

	router     *lambda.Router
	authorizer driving.AuthorizerService
	logger     *slog.Logger
}

// Config holds server configuration
type Config struct {
	Host           string
	Port           int
	Version        string
	AllowedOrigins []string
	Logger         *slog.Logger
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Host:    "127.0.0.1",
		Port:    8080,
		Version: "dev",
	}
}

// NewServer creates a new HTTP server. A nil authorizer lets every request
// through.
func NewServer(cfg Config, router *lambda.Router, authorizer driving.AuthorizerService) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		mux:        http.NewServeMux(),
		version:    cfg.Version,
		router:     router,
		authorizer: authorizer,
		logger:     logger.With("adapter", "http"),
	}

	s.setupRoutes()

	var handler http.Handler = s.mux
	handler = NewCORSMiddleware(cfg.AllowedOrigins).Handler(handler)
	handler = NewLoggingMiddleware(s.logger).Handler(handler)
	handler = NewRecoveryMiddleware(s.logger).Handler(handler)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Handler returns the fully wrapped handler.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	authMiddleware := NewAuthorizerMiddleware(s.authorizer, s.logger)

	// Health endpoints (no auth)
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("GET /version", s.handleVersion)
	s.mux.HandleFunc("GET /routes", s.handleRoutes)
	s.mux.HandleFunc("GET /swagger/doc.json", s.handleSwagger)

	// Connector routes, authorized like API Gateway
	s.mux.Handle("/{route}", authMiddleware.Authorize(http.HandlerFunc(s.handleInvoke)))
}

// Start starts the HTTP server with graceful shutdown
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Starting server on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Println("Server stopped")
	return nil
}

// Stop stops the server
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
