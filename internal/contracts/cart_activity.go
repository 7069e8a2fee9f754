package contracts

import (
	"time"

	"github.com/andreasstove999/ecommerce-system/cart-session-service-go/internal/events"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	CartActivityEventName           = "CartActivity"
	CartActivityEventVersion        = 1
	CartActivityEnvelopedSchemaPath = "contracts/events/cart/CartActivity.v1.enveloped.schema.json"
	CartSessionServiceProducer      = "cart-session-service"
)

type EventEnvelope struct {
	EventName     string              `json:"eventName"`
	EventVersion  int                 `json:"eventVersion"`
	EventID       string              `json:"eventId"`
	CorrelationID string              `json:"correlationId,omitempty"`
	CausationID   string              `json:"causationId,omitempty"`
	Producer      string              `json:"producer"`
	PartitionKey  string              `json:"partitionKey"`
	Sequence      int64               `json:"sequence"`
	OccurredAt    time.Time           `json:"occurredAt"`
	Schema        string              `json:"schema"`
	Payload       CartActivityPayload `json:"payload"`
}

type CartActivityPayload struct {
	CartID      string          `json:"cartId"`
	EventType   string          `json:"eventType"`
	ItemName    string          `json:"itemName,omitempty"`
	Quantity    int             `json:"quantity"`
	Total       decimal.Decimal `json:"total"`
	CartVersion int64           `json:"cartVersion"`
	Timestamp   time.Time       `json:"timestamp"`
}

type EnvelopeOptions struct {
	PartitionKey  string
	Sequence      int64
	Producer      string
	SchemaPath    string
	CorrelationID string
	CausationID   string
	EventID       string
	OccurredAt    time.Time
}

func BuildCartActivityEvent(ev events.Event, opts EnvelopeOptions) EventEnvelope {
	eventID := opts.EventID
	if eventID == "" {
		eventID = uuid.NewString()
	}

	occurredAt := opts.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = time.Now().UTC()
	}

	schemaPath := opts.SchemaPath
	if schemaPath == "" {
		schemaPath = CartActivityEnvelopedSchemaPath
	}

	producer := opts.Producer
	if producer == "" {
		producer = CartSessionServiceProducer
	}

	partitionKey := opts.PartitionKey
	if partitionKey == "" {
		partitionKey = ev.CartID
	}

	return EventEnvelope{
		EventName:     CartActivityEventName,
		EventVersion:  CartActivityEventVersion,
		EventID:       eventID,
		CorrelationID: opts.CorrelationID,
		CausationID:   opts.CausationID,
		Producer:      producer,
		PartitionKey:  partitionKey,
		Sequence:      opts.Sequence,
		OccurredAt:    occurredAt,
		Schema:        schemaPath,
		Payload: CartActivityPayload{
			CartID:      ev.CartID,
			EventType:   string(ev.Type),
			ItemName:    ev.ItemName,
			Quantity:    ev.Quantity,
			Total:       ev.Total,
			CartVersion: ev.Version,
			Timestamp:   occurredAt,
		},
	}
}
