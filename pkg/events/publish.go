package events

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	watermillsql "github.com/ThreeDotsLabs/watermill-sql/v3/pkg/sql"
	"github.com/ThreeDotsLabs/watermill/message"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

// Metadata keys set on every message built by NewMessage.
const (
	MetaEventID      = "event_id"
	MetaEventVersion = "event_version"
)

// Envelope is implemented by event payloads so NewMessage can stamp metadata
// without knowing the concrete type.
type Envelope interface {
	ID() string
	SchemaVersion() int
}

// NewMessage marshals payload to JSON and injects the trace context from ctx.
func NewMessage(ctx context.Context, payload Envelope) (*message.Message, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("events: marshal payload: %w", err)
	}
	msg := message.NewMessage(watermill.NewUUID(), body)
	msg.Metadata.Set(MetaEventID, payload.ID())
	msg.Metadata.Set(MetaEventVersion, fmt.Sprint(payload.SchemaVersion()))
	injectTrace(ctx, msg)
	return msg, nil
}

func injectTrace(ctx context.Context, msgs ...*message.Message) {
	carrier := propagation.MapCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, carrier)
	for _, msg := range msgs {
		for k, v := range carrier {
			msg.Metadata.Set(k, v)
		}
	}
}

// NewTxPublisher returns a publisher whose writes join tx. The schema must
// already exist, which NewEventBus guarantees.
func (b *EventBus) NewTxPublisher(tx *sql.Tx) (message.Publisher, error) {
	pub, err := watermillsql.NewPublisher(tx, publisherConfig(false), b.wlog)
	if err != nil {
		return nil, fmt.Errorf("events: new tx publisher: %w", err)
	}
	return wrapForwarder(pub, b.opts.UseForwarder), nil
}

// PublishTx encodes each payload and publishes it to topic inside tx.
func (b *EventBus) PublishTx(ctx context.Context, tx *sql.Tx, topic string, payloads ...Envelope) error {
	if len(payloads) == 0 {
		return nil
	}
	pub, err := b.NewTxPublisher(tx)
	if err != nil {
		return err
	}
	msgs := make([]*message.Message, 0, len(payloads))
	for _, p := range payloads {
		msg, err := NewMessage(ctx, p)
		if err != nil {
			return err
		}
		msgs = append(msgs, msg)
	}
	if err := pub.Publish(topic, msgs...); err != nil { //nolint:contextcheck
		return fmt.Errorf("events: publish to %s: %w", topic, err)
	}
	return nil
}

// Publish sends msgs to topic outside any transaction.
func (b *EventBus) Publish(ctx context.Context, topic string, msgs ...*message.Message) error {
	injectTrace(ctx, msgs...)
	if err := b.publisher.Publish(topic, msgs...); err != nil { //nolint:contextcheck
		return fmt.Errorf("events: publish to %s: %w", topic, err)
	}
	return nil
}
