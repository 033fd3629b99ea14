package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Order represents a captured cash-on-delivery order. The payload is the
// caller-supplied document stored verbatim; id and createdAt are system
// generated at insert time and never change afterwards.
type Order struct {
	ID        uuid.UUID      `json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	Payload   map[string]any `json:"payload"`
}

// MarshalJSON renders the order as a single flat document: every payload
// field at the top level with the generated id and createdAt beside them.
// System fields win over same-named payload keys in the rendered view; the
// stored payload itself is never mutated.
func (o Order) MarshalJSON() ([]byte, error) {
	doc := make(map[string]any, len(o.Payload)+2)
	for k, v := range o.Payload {
		doc[k] = v
	}
	doc["id"] = o.ID.String()
	doc["createdAt"] = o.CreatedAt.UTC().Format(time.RFC3339Nano)

	return json.Marshal(doc)
}
