// Package events is the catalog's transactional outbox and subscriber pool,
// built on Watermill's PostgreSQL transport.
//
// Publishers write messages inside the same *sql.Tx as the data change, so a
// rolled-back commit never leaks an event. Subscribers sharing a consumer
// group split the stream between them; handlers must be idempotent because a
// failed handler is retried and then nacked for redelivery.
package events

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	watermillsql "github.com/ThreeDotsLabs/watermill-sql/v3/pkg/sql"
	"github.com/ThreeDotsLabs/watermill/components/forwarder"
	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/ghuser/catalog/pkg/logger"
)

const (
	maxRetries      = 3
	retryBaseDelay  = time.Second
	shutdownTimeout = 30 * time.Second
	forwarderTopic  = "catalog_outbox"
)

// Options tunes an EventBus.
type Options struct {
	// ConsumerGroup names the subscriber group. Empty means broadcast.
	ConsumerGroup string
	// UseForwarder routes every publish through an outbox topic that a
	// background forwarder drains. Call StartForwarder after construction.
	UseForwarder bool
}

// EventBus publishes and consumes catalog events through PostgreSQL.
type EventBus struct {
	db         *sql.DB
	log        logger.Logger
	wlog       *slogAdapter
	opts       Options
	publisher  message.Publisher
	subscriber *watermillsql.Subscriber
	fwd        *forwarder.Forwarder

	wg sync.WaitGroup
}

// NewEventBus wires a Watermill publisher and subscriber onto db. The schema
// tables are created on first use. The bus does not own db; Close leaves it
// open.
func NewEventBus(db *sql.DB, opts Options, log logger.Logger) (*EventBus, error) {
	if db == nil {
		return nil, errors.New("events: nil database")
	}
	wlog := &slogAdapter{log: log}

	pub, err := watermillsql.NewPublisher(db, publisherConfig(true), wlog)
	if err != nil {
		return nil, fmt.Errorf("events: new publisher: %w", err)
	}

	sub, err := watermillsql.NewSubscriber(db, subscriberConfig(opts.ConsumerGroup), wlog)
	if err != nil {
		_ = pub.Close()
		return nil, fmt.Errorf("events: new subscriber: %w", err)
	}

	return &EventBus{
		db:         db,
		log:        log,
		wlog:       wlog,
		opts:       opts,
		publisher:  wrapForwarder(pub, opts.UseForwarder),
		subscriber: sub,
	}, nil
}

func publisherConfig(autoInit bool) watermillsql.PublisherConfig {
	return watermillsql.PublisherConfig{
		SchemaAdapter:        watermillsql.DefaultPostgreSQLSchema{},
		AutoInitializeSchema: autoInit,
	}
}

func subscriberConfig(group string) watermillsql.SubscriberConfig {
	return watermillsql.SubscriberConfig{
		SchemaAdapter:    watermillsql.DefaultPostgreSQLSchema{},
		OffsetsAdapter:   watermillsql.DefaultPostgreSQLOffsetsAdapter{},
		InitializeSchema: true,
		ConsumerGroup:    group,
	}
}

func wrapForwarder(pub message.Publisher, enabled bool) message.Publisher {
	if !enabled {
		return pub
	}
	return forwarder.NewPublisher(pub, forwarder.PublisherConfig{ForwarderTopic: forwarderTopic})
}

// StartForwarder runs the outbox forwarder until ctx is cancelled. It returns
// once the forwarder is accepting messages.
func (b *EventBus) StartForwarder(ctx context.Context) error {
	switch {
	case !b.opts.UseForwarder:
		return errors.New("events: forwarder not enabled")
	case b.fwd != nil:
		return errors.New("events: forwarder already started")
	}

	outbox, err := watermillsql.NewSubscriber(b.db, subscriberConfig("catalog-forwarder"), b.wlog)
	if err != nil {
		return fmt.Errorf("events: forwarder subscriber: %w", err)
	}
	target, err := watermillsql.NewPublisher(b.db, publisherConfig(true), b.wlog)
	if err != nil {
		_ = outbox.Close()
		return fmt.Errorf("events: forwarder publisher: %w", err)
	}
	fwd, err := forwarder.NewForwarder(outbox, target, b.wlog, forwarder.Config{ForwarderTopic: forwarderTopic})
	if err != nil {
		_ = target.Close()
		_ = outbox.Close()
		return fmt.Errorf("events: new forwarder: %w", err)
	}
	b.fwd = fwd

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		if err := fwd.Run(ctx); err != nil {
			b.log.ErrorContext(ctx, "events: forwarder stopped", "error", err)
		}
	}()

	select {
	case <-fwd.Running():
		return nil
	case <-ctx.Done():
		return fmt.Errorf("events: waiting for forwarder: %w", ctx.Err())
	}
}

// Ping checks the bus's database connection.
func (b *EventBus) Ping(ctx context.Context) error {
	if err := b.db.PingContext(ctx); err != nil {
		return fmt.Errorf("events: ping: %w", err)
	}
	return nil
}

// Close stops the subscriber and forwarder, waits up to shutdownTimeout for
// in-flight handlers, then closes the publisher.
func (b *EventBus) Close() error {
	var errs []error
	if err := b.subscriber.Close(); err != nil {
		errs = append(errs, fmt.Errorf("events: close subscriber: %w", err))
	}
	if b.fwd != nil {
		if err := b.fwd.Close(); err != nil {
			errs = append(errs, fmt.Errorf("events: close forwarder: %w", err))
		}
	}

	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(shutdownTimeout):
		b.log.Error("events: timed out waiting for handlers")
	}

	if err := b.publisher.Close(); err != nil {
		errs = append(errs, fmt.Errorf("events: close publisher: %w", err))
	}
	return errors.Join(errs...)
}
