package booking

import (
	"encoding/json"
	"time"
)

const (
	EventOrderPlaced        = "OrderPlaced"
	EventOrderStatusChanged = "OrderStatusChanged"
)

type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	TraceID       string          `json:"trace_id,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"` // order_id
	Payload       json.RawMessage `json:"payload"`
}

type PlacedLine struct {
	ProductID  string    `json:"product_id"`
	Quantity   int       `json:"quantity"`
	StartAt    time.Time `json:"startDate"`
	EndAt      time.Time `json:"endDate"`
	TotalPrice float64   `json:"total_price"`
}

type OrderPlacedPayload struct {
	OrderID    string       `json:"order_id"`
	ExternalID string       `json:"external_id"`
	Customer   Customer     `json:"customer"`
	Lines      []PlacedLine `json:"lines"`
	Total      float64      `json:"total"`
}

type OrderStatusChangedPayload struct {
	OrderID string `json:"order_id"`
	Status  Status `json:"status"`
}
