package rest

import (
	"net/http"

	"github.com/codleo/cod-order-capture/internal/api/rest/handler"
	"github.com/codleo/cod-order-capture/internal/api/rest/middleware"
)

// RouterConfig holds the handlers and middleware the router wires together.
type RouterConfig struct {
	OrderHandler   *handler.OrderHandler
	WebhookHandler *handler.WebhookHandler
	AuthMiddleware *middleware.JWTAuthMiddleware
	Authorize      *middleware.AuthorizeMiddleware
}

// NewMuxWithHandlers initializes a new HTTP mux with routes defined by the given RouterConfig.
// The webhook route stays outside the JWT middleware: it authenticates with
// a payload signature, not a session token. The listing route additionally
// requires the admin role.
func NewMuxWithHandlers(cfg *RouterConfig) *http.ServeMux {
	router := http.NewServeMux()

	router.Handle("GET /health", http.HandlerFunc(handleHealthCheck))
	router.Handle("POST /webhook/orders-create", http.HandlerFunc(cfg.WebhookHandler.OrdersCreate))

	router.Handle("POST /orders", cfg.AuthMiddleware.Handler(http.HandlerFunc(cfg.OrderHandler.CreateOrder)))
	router.Handle("GET /orders", cfg.AuthMiddleware.Handler(
		cfg.Authorize.Require("/orders", "list", http.HandlerFunc(cfg.OrderHandler.ListOrders)),
	))
	router.Handle("GET /orders/{id}", cfg.AuthMiddleware.Handler(http.HandlerFunc(cfg.OrderHandler.GetOrderByID)))

	return router
}

// handleHealthCheck returns a basic health status.
func handleHealthCheck(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"healthy"}`))
}
