package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/codleo/cod-order-capture/internal/domain"
	"github.com/codleo/cod-order-capture/internal/ingest"
	"github.com/codleo/cod-order-capture/internal/webhook"
)

// WebhookIngestor captures an order delivered by the commerce platform
type WebhookIngestor interface {
	IngestWebhook(ctx context.Context, rawBody []byte, claimedSignature string) (*domain.Order, error)
}

// WebhookHandler handles inbound platform webhook deliveries. Failures on
// this path carry no error detail: the platform only needs an
// accepted/unauthorized signal.
type WebhookHandler struct {
	ingestor WebhookIngestor
	logger   *slog.Logger
}

// NewWebhookHandler creates a new WebhookHandler instance
func NewWebhookHandler(ingestor WebhookIngestor, logger *slog.Logger) *WebhookHandler {
	return &WebhookHandler{
		ingestor: ingestor,
		logger:   logger,
	}
}

// OrdersCreate handles POST /webhook/orders-create
func (h *WebhookHandler) OrdersCreate(w http.ResponseWriter, r *http.Request) {
	// The signature covers the exact bytes on the wire, so the body must be
	// read raw before any JSON decoding.
	rawBody, err := io.ReadAll(r.Body)
	if err != nil {
		h.logger.Warn("Failed to read webhook body", "error", err)
		WriteMessageResponse(w, http.StatusBadRequest, "Invalid payload")
		return
	}

	order, err := h.ingestor.IngestWebhook(r.Context(), rawBody, r.Header.Get(webhook.SignatureHeader))
	if err != nil {
		switch {
		case errors.Is(err, ingest.ErrVerificationFailed):
			h.logger.Warn("Webhook signature verification failed")
			WriteMessageResponse(w, http.StatusUnauthorized, "Unauthorized")
		case errors.Is(err, ingest.ErrMalformedBody):
			h.logger.Warn("Webhook payload is not a JSON object")
			WriteMessageResponse(w, http.StatusBadRequest, "Invalid payload")
		default:
			h.logger.Error("Failed to store webhook order", "error", err)
			WriteMessageResponse(w, http.StatusInternalServerError, "Server error")
		}
		return
	}

	WriteJSONResponse(w, http.StatusOK, CreateOrderResponse{Success: true, Stored: order})
}
