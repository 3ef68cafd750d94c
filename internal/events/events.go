package events

import "time"

// Event is the message shape carried on the catalog-events topic.
type Event struct {
	Type      string                 `json:"type"`
	ProductID string                 `json:"product_id"`
	Data      map[string]interface{} `json:"data,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

const (
	TypeVariantGenerated = "variant.generated"
	TypeVariantCreated   = "variant.created"
	TypeVariantUpdated   = "variant.updated"
	TypeVariantDeleted   = "variant.deleted"
)
