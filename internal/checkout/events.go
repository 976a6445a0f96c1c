package checkout

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const (
	EventPurchaseCompleted = "PurchaseCompleted"

	TopicPurchaseCompleted = "purchase.completed"
)

type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	TraceID       string          `json:"trace_id,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"`
	Payload       json.RawMessage `json:"payload"`
}

type PurchasedLine struct {
	ProductID   uuid.UUID `json:"product_id"`
	AmountCents int64     `json:"amount_cents"`
}

type PurchaseCompletedPayload struct {
	UserID     uuid.UUID       `json:"user_id"`
	Lines      []PurchasedLine `json:"lines"`
	TotalCents int64           `json:"total_cents"`
}

// PartitionKey keeps all purchase events of one user in order.
func PartitionKey(userID uuid.UUID) []byte { return []byte(userID.String()) }
