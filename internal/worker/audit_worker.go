package worker

import (
	"context"
	"time"

	"lendit/internal/events"

	"github.com/rs/zerolog"
)

// AuditStore persists consumed events. Implemented by database.DB.
type AuditStore interface {
	InsertAuditRecord(ctx context.Context, eventType string, payload []byte) error
}

// AuditWorker drains domain events from the bus into the audit log.
// Handlers on the bus run synchronously, so Handle only enqueues and the
// writes happen on the worker goroutine with retries.
type AuditWorker struct {
	store  AuditStore
	retry  RetryPolicy
	queue  chan *events.Event
	logger *zerolog.Logger
}

func NewAuditWorker(store AuditStore, retry RetryPolicy, logger *zerolog.Logger) *AuditWorker {
	if retry.MaxRetries == 0 {
		retry.MaxRetries = 3
	}
	if retry.InitialDelay == 0 {
		retry.InitialDelay = 100 * time.Millisecond
	}
	if retry.MaxDelay == 0 {
		retry.MaxDelay = 5 * time.Second
	}
	return &AuditWorker{
		store:  store,
		retry:  retry,
		queue:  make(chan *events.Event, 256),
		logger: logger,
	}
}

// SubscribeAll registers the worker for every audited event type.
func (w *AuditWorker) SubscribeAll(bus *events.EventBus) {
	for _, eventType := range []string{
		events.EventBookingCreated,
		events.EventBookingApproved,
		events.EventBookingRejected,
		events.EventCommentCreated,
		events.EventItemCreated,
	} {
		bus.Subscribe(eventType, w.Handle)
	}
}

// Handle enqueues an event without blocking the publisher. A full queue
// drops the event with a warning; the audit trail is best effort.
func (w *AuditWorker) Handle(event *events.Event) error {
	select {
	case w.queue <- event:
	default:
		w.logger.Warn().Str("event_type", event.Type).Msg("audit queue full, dropping event")
	}
	return nil
}

// Start consumes the queue until ctx is canceled.
func (w *AuditWorker) Start(ctx context.Context) {
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case event := <-w.queue:
				w.persist(ctx, event)
			}
		}
	}()
}

func (w *AuditWorker) persist(ctx context.Context, event *events.Event) {
	var err error
	for attempt := 1; attempt <= w.retry.MaxRetries; attempt++ {
		if err = w.store.InsertAuditRecord(ctx, event.Type, event.Payload); err == nil {
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(w.retry.NextDelay(attempt)):
		}
	}
	w.logger.Error().Err(err).Str("event_type", event.Type).Msg("audit record dropped after retries")
}
