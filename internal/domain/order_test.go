package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrder_MarshalJSON(t *testing.T) {
	id := uuid.New()
	createdAt := time.Date(2026, 8, 1, 10, 30, 0, 0, time.UTC)

	testCases := map[string]struct {
		order  Order
		verify func(t *testing.T, doc map[string]any)
	}{
		"should flatten payload fields beside id and createdAt": {
			order: Order{
				ID:        id,
				CreatedAt: createdAt,
				Payload: map[string]any{
					"customer":     map[string]any{"name": "Ravi Kumar"},
					"main_product": map[string]any{"title": "Wireless Earbuds"},
					"quantity":     float64(2),
				},
			},
			verify: func(t *testing.T, doc map[string]any) {
				assert.Equal(t, id.String(), doc["id"])
				assert.Equal(t, "2026-08-01T10:30:00Z", doc["createdAt"])
				assert.Equal(t, map[string]any{"name": "Ravi Kumar"}, doc["customer"])
				assert.Equal(t, map[string]any{"title": "Wireless Earbuds"}, doc["main_product"])
				assert.Equal(t, float64(2), doc["quantity"])
			},
		},
		"should render a nil payload as system fields only": {
			order: Order{ID: id, CreatedAt: createdAt},
			verify: func(t *testing.T, doc map[string]any) {
				assert.Len(t, doc, 2)
				assert.Equal(t, id.String(), doc["id"])
			},
		},
		"should let system fields win over same-named payload keys": {
			order: Order{
				ID:        id,
				CreatedAt: createdAt,
				Payload: map[string]any{
					"id":        "caller-supplied",
					"createdAt": "caller-supplied",
				},
			},
			verify: func(t *testing.T, doc map[string]any) {
				assert.Equal(t, id.String(), doc["id"])
				assert.Equal(t, "2026-08-01T10:30:00Z", doc["createdAt"])
			},
		},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			raw, err := json.Marshal(tc.order)
			require.NoError(t, err)

			var doc map[string]any
			require.NoError(t, json.Unmarshal(raw, &doc))
			tc.verify(t, doc)
		})
	}
}
