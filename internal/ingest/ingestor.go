// Package ingest orchestrates the capture of a single incoming order. Orders
// arrive in two modes: already-authenticated API submissions, and raw
// platform webhook deliveries that must pass signature verification before
// their bytes are interpreted as JSON.
package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/codleo/cod-order-capture/internal/domain"
)

var (
	// ErrVerificationFailed indicates the webhook signature did not match
	// the payload. No store write occurs.
	ErrVerificationFailed = errors.New("webhook signature verification failed")

	// ErrMalformedBody indicates the request body is not a JSON object.
	// No store write occurs.
	ErrMalformedBody = errors.New("request body is not a JSON object")
)

// OrderStore is the persistence surface the ingestor writes through.
type OrderStore interface {
	Insert(ctx context.Context, payload map[string]any) (*domain.Order, error)
}

// SignatureVerifier authenticates raw webhook payloads.
type SignatureVerifier interface {
	Verify(rawBody []byte, claimedSignature string) bool
}

// Ingestor converges both entry modes onto a single stored-order outcome.
// Resubmitting an identical payload creates a second, distinct order; no
// deduplication is performed.
type Ingestor struct {
	store    OrderStore
	verifier SignatureVerifier
	logger   *slog.Logger
}

// NewIngestor creates a new Ingestor instance
func NewIngestor(store OrderStore, verifier SignatureVerifier, logger *slog.Logger) *Ingestor {
	return &Ingestor{
		store:    store,
		verifier: verifier,
		logger:   logger,
	}
}

// IngestTrusted stores an order whose caller was already authenticated by
// the identity layer.
func (i *Ingestor) IngestTrusted(ctx context.Context, payload map[string]any) (*domain.Order, error) {
	order, err := i.store.Insert(ctx, payload)
	if err != nil {
		return nil, fmt.Errorf("store order: %w", err)
	}

	i.logger.Info("Order captured", "order_id", order.ID, "mode", "api")
	return order, nil
}

// IngestWebhook verifies the raw delivery bytes against the claimed
// signature, decodes them as a JSON object, and stores the result. The
// signature check runs over the exact bytes received, strictly before any
// JSON decoding.
func (i *Ingestor) IngestWebhook(ctx context.Context, rawBody []byte, claimedSignature string) (*domain.Order, error) {
	if !i.verifier.Verify(rawBody, claimedSignature) {
		return nil, ErrVerificationFailed
	}

	var payload map[string]any
	if err := json.Unmarshal(rawBody, &payload); err != nil {
		return nil, ErrMalformedBody
	}
	if payload == nil {
		// "null" decodes without error but is not a structured document.
		return nil, ErrMalformedBody
	}

	order, err := i.store.Insert(ctx, payload)
	if err != nil {
		return nil, fmt.Errorf("store webhook order: %w", err)
	}

	i.logger.Info("Order captured", "order_id", order.ID, "mode", "webhook")
	return order, nil
}
