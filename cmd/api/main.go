package main

import (
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/codleo/cod-order-capture/internal/api/rest"
	"github.com/codleo/cod-order-capture/internal/api/rest/handler"
	"github.com/codleo/cod-order-capture/internal/api/rest/middleware"
	"github.com/codleo/cod-order-capture/internal/authz"
	"github.com/codleo/cod-order-capture/internal/config"
	"github.com/codleo/cod-order-capture/internal/database"
	"github.com/codleo/cod-order-capture/internal/ingest"
	"github.com/codleo/cod-order-capture/internal/repository/postgres"
	"github.com/codleo/cod-order-capture/internal/version"
	"github.com/codleo/cod-order-capture/internal/webhook"
	"github.com/codleo/cod-order-capture/pkg/keyfetcher"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger.Info("api_starting", "version", version.Version)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("config_load_failed", "error", err)
		os.Exit(1)
	}

	// The store connection is established lazily: the first request that
	// needs the pool triggers the connect, and concurrent requests share the
	// same in-flight attempt.
	db := database.NewConnector(cfg.DatabaseURL)
	defer db.Close()

	orderRepo := postgres.NewOrderRepository(db)
	ingestor := ingest.NewIngestor(orderRepo, webhook.NewVerifier(cfg.WebhookSecret), logger)

	jwtMiddleware := middleware.NewJWTAuthMiddleware(middleware.JWTConfig{
		KeyFetcher: keyfetcher.FromBase64(cfg.PublicKeyBase64),
		Issuer:     cfg.JWTIssuer,
		Audience:   cfg.JWTAudience,
	})

	authorizer, err := authz.NewAuthorizer(nil)
	if err != nil {
		logger.Error("authorizer_init_failed", "error", err)
		os.Exit(1)
	}

	mux := rest.NewMuxWithHandlers(&rest.RouterConfig{
		OrderHandler:   handler.NewOrderHandler(ingestor, orderRepo, logger),
		WebhookHandler: handler.NewWebhookHandler(ingestor, logger),
		AuthMiddleware: jwtMiddleware,
		Authorize:      middleware.NewAuthorizeMiddleware(authorizer, logger),
	})

	// HTTP server with sensible timeouts
	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	logger.Info("api_listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("api_serve_failed", "error", err)
		os.Exit(1)
	}
}
