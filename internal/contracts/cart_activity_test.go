package contracts

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/andreasstove999/ecommerce-system/cart-session-service-go/internal/events"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func TestBuildCartActivityEvent(t *testing.T) {
	now := time.Date(2025, time.June, 1, 10, 0, 0, 0, time.UTC)
	ev := events.Event{
		CartID:   "a9c9bf1d-32f2-46a0-9243-97c2cf8a6c4a",
		Type:     events.TypeItemAdded,
		ItemName: "APPLE",
		Quantity: 2,
		Total:    decimal.RequireFromString("0.70"),
		Version:  3,
	}

	env := BuildCartActivityEvent(ev, EnvelopeOptions{
		PartitionKey:  ev.CartID,
		Sequence:      42,
		Producer:      CartSessionServiceProducer,
		SchemaPath:    CartActivityEnvelopedSchemaPath,
		CorrelationID: "53b0fd3e-8d6b-49af-8c1f-12cf4182c2f7",
		EventID:       "73b0fd3e-8d6b-49af-8c1f-12cf4182c2f7",
		OccurredAt:    now,
	})

	if env.EventName != CartActivityEventName {
		t.Fatalf("unexpected event name %s", env.EventName)
	}
	if env.EventVersion != CartActivityEventVersion {
		t.Fatalf("unexpected event version %d", env.EventVersion)
	}
	if env.EventID != "73b0fd3e-8d6b-49af-8c1f-12cf4182c2f7" {
		t.Fatalf("expected provided event id to be used, got %s", env.EventID)
	}
	if env.PartitionKey != ev.CartID {
		t.Fatalf("expected partition key %s, got %s", ev.CartID, env.PartitionKey)
	}
	if env.Sequence != 42 {
		t.Fatalf("expected sequence to be 42, got %d", env.Sequence)
	}
	if env.Schema != CartActivityEnvelopedSchemaPath {
		t.Fatalf("unexpected schema path %s", env.Schema)
	}
	if env.Payload.Timestamp != now {
		t.Fatalf("expected payload timestamp to mirror occurredAt, got %s", env.Payload.Timestamp)
	}
	if env.Payload.EventType != "ITEM_ADDED" {
		t.Fatalf("unexpected payload event type %s", env.Payload.EventType)
	}
	if env.Payload.CartVersion != 3 || env.Payload.Quantity != 2 {
		t.Fatalf("payload fields not copied correctly: %+v", env.Payload)
	}
	if !env.Payload.Total.Equal(ev.Total) {
		t.Fatalf("unexpected payload total %s", env.Payload.Total)
	}
}

func TestBuildCartActivityEventDefaults(t *testing.T) {
	ev := events.Event{CartID: "cart-1", Type: events.TypeCartCleared, Version: 5}

	env := BuildCartActivityEvent(ev, EnvelopeOptions{Sequence: 1})

	if _, err := uuid.Parse(env.EventID); err != nil {
		t.Fatalf("expected generated event id to be a uuid, got %q", env.EventID)
	}
	if env.OccurredAt.IsZero() {
		t.Fatalf("expected occurredAt to be set")
	}
	if env.Producer != CartSessionServiceProducer {
		t.Fatalf("expected default producer, got %s", env.Producer)
	}
	if env.Schema != CartActivityEnvelopedSchemaPath {
		t.Fatalf("expected default schema path, got %s", env.Schema)
	}
	if env.PartitionKey != "cart-1" {
		t.Fatalf("expected cart id as default partition key, got %s", env.PartitionKey)
	}
}

func TestCartActivityEnvelopeJSON(t *testing.T) {
	ev := events.Event{
		CartID:   "cart-1",
		Type:     events.TypeItemRemoved,
		ItemName: "MELON",
		Total:    decimal.RequireFromString("0.35"),
		Version:  6,
	}
	env := BuildCartActivityEvent(ev, EnvelopeOptions{Sequence: 7})

	data, err := json.Marshal(env)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if decoded["eventName"] != "CartActivity" {
		t.Fatalf("unexpected eventName %v", decoded["eventName"])
	}
	payload, ok := decoded["payload"].(map[string]any)
	if !ok {
		t.Fatalf("expected payload object, got %T", decoded["payload"])
	}
	if payload["eventType"] != "ITEM_REMOVED" {
		t.Fatalf("unexpected payload eventType %v", payload["eventType"])
	}
	if payload["cartId"] != "cart-1" {
		t.Fatalf("unexpected payload cartId %v", payload["cartId"])
	}
	if _, present := payload["itemName"]; !present {
		t.Fatalf("expected itemName in payload")
	}
}
