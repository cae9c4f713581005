package catalog

import (
	"encoding/json"
	"time"
)

const (
	EventProductCreated = "ProductCreated"
	EventProductUpdated = "ProductUpdated"
	EventProductDeleted = "ProductDeleted"
	EventReviewCreated  = "ReviewCreated"
	EventReviewUpdated  = "ReviewUpdated"
	EventReviewDeleted  = "ReviewDeleted"
)

type Envelope struct {
	EventID       string          `json:"event_id"`      // uuid
	EventType     string          `json:"event_type"`    // salah satu const di atas
	EventVersion  int             `json:"event_version"` // 1
	OccurredAt    time.Time       `json:"occurred_at"`   // RFC3339
	Producer      string          `json:"producer"`      // e.g., "catalog-api"
	TraceID       string          `json:"trace_id,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"` // product_id
	Payload       json.RawMessage `json:"payload"`
}

// ---- Payload per event ----

type ProductPayload struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name,omitempty"`
	Price     string `json:"price,omitempty"`
}

type ReviewPayload struct {
	ReviewID  int64 `json:"review_id"`
	ProductID int64 `json:"product_id"`
	Rating    int   `json:"rating,omitempty"`
}
