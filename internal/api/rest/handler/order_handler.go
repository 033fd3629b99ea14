package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/codleo/cod-order-capture/internal/api/rest/middleware"
	"github.com/codleo/cod-order-capture/internal/domain"
	"github.com/codleo/cod-order-capture/internal/query"
	"github.com/codleo/cod-order-capture/internal/repository"
)

// OrderReader defines the retrieval operations the handler needs
type OrderReader interface {
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	Query(ctx context.Context, q query.Query) ([]*domain.Order, int64, error)
}

// OrderIngestor captures an order submitted by an authenticated caller
type OrderIngestor interface {
	IngestTrusted(ctx context.Context, payload map[string]any) (*domain.Order, error)
}

// OrderHandler handles HTTP requests for order capture and retrieval
type OrderHandler struct {
	ingestor OrderIngestor
	reader   OrderReader
	logger   *slog.Logger
}

// NewOrderHandler creates a new OrderHandler instance
func NewOrderHandler(ingestor OrderIngestor, reader OrderReader, logger *slog.Logger) *OrderHandler {
	return &OrderHandler{
		ingestor: ingestor,
		reader:   reader,
		logger:   logger,
	}
}

// CreateOrderResponse represents the response for a captured order
type CreateOrderResponse struct {
	Success bool          `json:"success"`
	Stored  *domain.Order `json:"stored"`
}

// ListOrdersResponse represents one page of orders with pagination metadata
type ListOrdersResponse struct {
	Success    bool             `json:"success"`
	Orders     []*domain.Order  `json:"orders"`
	Pagination query.Pagination `json:"pagination"`
}

// GetOrderResponse represents a single retrieved order
type GetOrderResponse struct {
	Success bool          `json:"success"`
	Order   *domain.Order `json:"order"`
}

// CreateOrder handles POST /orders - captures an order from an authenticated caller
func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentityFromContext(r.Context())
	if !ok {
		h.logger.Error("Caller identity not found in context")
		WriteErrorResponse(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	// The payload has no fixed schema; accept any JSON object and store it
	// verbatim.
	var payload map[string]any
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload == nil {
		WriteErrorResponse(w, http.StatusBadRequest, "Request body must be a JSON object")
		return
	}

	order, err := h.ingestor.IngestTrusted(r.Context(), payload)
	if err != nil {
		h.logger.Error("Failed to store order", "error", err, "user_id", identity.ID)
		WriteErrorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	WriteJSONResponse(w, http.StatusOK, CreateOrderResponse{Success: true, Stored: order})
}

// ListOrders handles GET /orders - paginated, searchable, sortable listing
func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	plan := query.Plan(r.URL.Query())

	orders, total, err := h.reader.Query(r.Context(), plan)
	if err != nil {
		h.logger.Error("Failed to list orders", "error", err)
		WriteMessageResponse(w, http.StatusInternalServerError, "Server error")
		return
	}

	WriteJSONResponse(w, http.StatusOK, ListOrdersResponse{
		Success:    true,
		Orders:     orders,
		Pagination: query.Paginate(plan.Page, plan.Limit, total),
	})
}

// GetOrderByID handles GET /orders/{id} - retrieves an order by ID
func (h *OrderHandler) GetOrderByID(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	order, err := h.reader.GetByID(r.Context(), id)
	if err != nil {
		var notFoundErr *repository.NotFoundError
		if errors.As(err, &notFoundErr) {
			WriteMessageResponse(w, http.StatusNotFound, "Order not found")
			return
		}

		h.logger.Error("Failed to retrieve order", "order_id", id, "error", err)
		WriteErrorResponse(w, http.StatusInternalServerError, "Failed to retrieve order")
		return
	}

	WriteJSONResponse(w, http.StatusOK, GetOrderResponse{Success: true, Order: order})
}
