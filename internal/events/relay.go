package events

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// EnvelopeBuilder turns a cart event plus its sequence number into the wire
// envelope. It lives in the contracts package; the indirection keeps this
// package free of an import cycle.
type EnvelopeBuilder func(ev Event, sequence int64) any

// RabbitRelay mirrors every cart event onto the shared events exchange so
// other services can follow cart activity.
type RabbitRelay struct {
	ch       *amqp.Channel
	seqRepo  SequenceRepository
	envelope EnvelopeBuilder
}

func NewRabbitRelay(conn *amqp.Connection, seqRepo SequenceRepository, envelope EnvelopeBuilder) (*RabbitRelay, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if err := declareEventsExchange(ch); err != nil {
		return nil, fmt.Errorf("declare events exchange: %w", err)
	}

	return &RabbitRelay{ch: ch, seqRepo: seqRepo, envelope: envelope}, nil
}

func (r *RabbitRelay) PublishCartEvent(ctx context.Context, ev Event) error {
	seq, err := r.seqRepo.NextSequence(ctx, ev.CartID)
	if err != nil {
		return fmt.Errorf("reserve sequence: %w", err)
	}

	body, err := json.Marshal(r.envelope(ev, seq))
	if err != nil {
		return fmt.Errorf("marshal %s envelope: %w", ev.Type, err)
	}

	return r.ch.PublishWithContext(ctx,
		EventsExchange,
		CartActivityRoutingKey,
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
}

func (r *RabbitRelay) Close() error {
	return r.ch.Close()
}
