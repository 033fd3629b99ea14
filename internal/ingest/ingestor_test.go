package ingest

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/codleo/cod-order-capture/internal/domain"
)

type mockOrderStore struct {
	mock.Mock
}

func (m *mockOrderStore) Insert(ctx context.Context, payload map[string]any) (*domain.Order, error) {
	args := m.Called(ctx, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

// stubVerifier accepts exactly one signature value.
type stubVerifier struct {
	accept string
}

func (v stubVerifier) Verify(_ []byte, claimedSignature string) bool {
	return claimedSignature == v.accept
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func storedOrder(payload map[string]any) *domain.Order {
	return &domain.Order{
		ID:        uuid.New(),
		CreatedAt: time.Now().UTC(),
		Payload:   payload,
	}
}

func TestIngestor_IngestTrusted(t *testing.T) {
	payload := map[string]any{"customer": map[string]any{"name": "Ravi Kumar"}}

	testCases := map[string]struct {
		storeErr      error
		expectedError string
	}{
		"should store the payload verbatim": {},
		"should wrap store failures": {
			storeErr:      errors.New("connection refused"),
			expectedError: "store order",
		},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			store := new(mockOrderStore)
			if tc.storeErr != nil {
				store.On("Insert", mock.Anything, payload).Return(nil, tc.storeErr)
			} else {
				store.On("Insert", mock.Anything, payload).Return(storedOrder(payload), nil)
			}

			ingestor := NewIngestor(store, stubVerifier{}, discardLogger())
			order, err := ingestor.IngestTrusted(context.Background(), payload)

			if tc.expectedError != "" {
				assert.ErrorContains(t, err, tc.expectedError)
				assert.Nil(t, order)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, payload, order.Payload)
			}
			store.AssertExpectations(t)
		})
	}
}

func TestIngestor_IngestWebhook(t *testing.T) {
	const goodSignature = "valid-signature"

	testCases := map[string]struct {
		rawBody         string
		signature       string
		storeErr        error
		expectedError   error
		expectedErrText string
		expectInsert    bool
	}{
		"should store a verified JSON object": {
			rawBody:      `{"order_id": 42}`,
			signature:    goodSignature,
			expectInsert: true,
		},
		"should reject an invalid signature before decoding": {
			rawBody:       `{"order_id": 42}`,
			signature:     "tampered",
			expectedError: ErrVerificationFailed,
		},
		"should reject invalid JSON after verification": {
			rawBody:       `{"order_id": `,
			signature:     goodSignature,
			expectedError: ErrMalformedBody,
		},
		"should reject a JSON array body": {
			rawBody:       `[1, 2, 3]`,
			signature:     goodSignature,
			expectedError: ErrMalformedBody,
		},
		"should reject a JSON null body": {
			rawBody:       `null`,
			signature:     goodSignature,
			expectedError: ErrMalformedBody,
		},
		"should wrap store failures": {
			rawBody:         `{"order_id": 42}`,
			signature:       goodSignature,
			storeErr:        errors.New("connection refused"),
			expectedErrText: "store webhook order",
			expectInsert:    true,
		},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			store := new(mockOrderStore)
			if tc.expectInsert {
				if tc.storeErr != nil {
					store.On("Insert", mock.Anything, mock.Anything).Return(nil, tc.storeErr)
				} else {
					payload := map[string]any{"order_id": float64(42)}
					store.On("Insert", mock.Anything, payload).Return(storedOrder(payload), nil)
				}
			}

			ingestor := NewIngestor(store, stubVerifier{accept: goodSignature}, discardLogger())
			order, err := ingestor.IngestWebhook(context.Background(), []byte(tc.rawBody), tc.signature)

			switch {
			case tc.expectedError != nil:
				assert.ErrorIs(t, err, tc.expectedError)
				assert.Nil(t, order)
				store.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
			case tc.expectedErrText != "":
				assert.ErrorContains(t, err, tc.expectedErrText)
				assert.Nil(t, order)
			default:
				assert.NoError(t, err)
				assert.Equal(t, float64(42), order.Payload["order_id"])
			}
			store.AssertExpectations(t)
		})
	}
}

func TestIngestor_NoDeduplication(t *testing.T) {
	payload := map[string]any{"order_id": float64(42)}

	store := new(mockOrderStore)
	store.On("Insert", mock.Anything, payload).Return(storedOrder(payload), nil).Once()
	store.On("Insert", mock.Anything, payload).Return(storedOrder(payload), nil).Once()

	ingestor := NewIngestor(store, stubVerifier{}, discardLogger())

	first, err := ingestor.IngestTrusted(context.Background(), payload)
	assert.NoError(t, err)
	second, err := ingestor.IngestTrusted(context.Background(), payload)
	assert.NoError(t, err)

	// Resubmitting an identical payload creates a second, distinct order.
	assert.NotEqual(t, first.ID, second.ID)
	store.AssertExpectations(t)
}
