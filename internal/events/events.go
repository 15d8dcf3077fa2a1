package events

import (
	"encoding/json"
	"time"
)

const (
	EventProductChanged   = "ProductChanged"
	EventCheckoutComposed = "CheckoutComposed"
	EventSettingsSaved    = "SettingsSaved"
)

type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	CorrelationID string          `json:"correlation_id,omitempty"` // aggregate id
	Payload       json.RawMessage `json:"payload"`
}

// ---- payloads ----

const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

type ProductChangedPayload struct {
	ProductID string `json:"product_id"`
	Action    string `json:"action"`
	Local     bool   `json:"local"` // applied to the fallback dataset only
}

type CheckoutComposedPayload struct {
	CartID     string `json:"cart_id"`
	Lines      int    `json:"lines"`
	TotalItems int    `json:"total_items"`
	Total      string `json:"total"` // 2dp
}

type SettingsSavedPayload struct {
	Section string `json:"section"` // site | footer
	Synced  bool   `json:"synced"`
}
