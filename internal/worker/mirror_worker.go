package worker

import (
	"context"
	"encoding/json"
	"time"

	"bookman/internal/events"

	"github.com/rs/zerolog"
)

const queueSize = 128

// SheetsMirror is the subset of the sheets service the worker uses.
type SheetsMirror interface {
	AppendBooking(ctx context.Context, p events.BookingEventPayload) error
	MarkDeleted(ctx context.Context, bookingID int64) error
}

type mirrorTask struct {
	eventType string
	payload   events.BookingEventPayload
}

// MirrorWorker consumes booking events from a bounded queue and applies
// them to the Google Sheets mirror with backoff retries. The submission
// path never waits on it: enqueue is non-blocking and drops on overflow.
type MirrorWorker struct {
	mirror SheetsMirror
	retry  RetryPolicy
	queue  chan mirrorTask
	log    zerolog.Logger
}

func NewMirrorWorker(mirror SheetsMirror, retry RetryPolicy, logger *zerolog.Logger) *MirrorWorker {
	var log zerolog.Logger
	if logger != nil {
		log = logger.With().Str("component", "sheets-mirror").Logger()
	}

	return &MirrorWorker{
		mirror: mirror,
		retry:  retry.withDefaults(),
		queue:  make(chan mirrorTask, queueSize),
		log:    log,
	}
}

// Attach subscribes the worker to booking events on the bus.
func (w *MirrorWorker) Attach(bus *events.EventBus) {
	bus.Subscribe(events.EventBookingCreated, w.enqueue)
	bus.Subscribe(events.EventBookingDeleted, w.enqueue)
}

func (w *MirrorWorker) enqueue(event *events.Event) error {
	var payload events.BookingEventPayload
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		w.log.Error().Err(err).Msg("failed to decode booking event")
		return nil
	}

	select {
	case w.queue <- mirrorTask{eventType: event.Type, payload: payload}:
	default:
		w.log.Warn().Int64("booking_id", payload.BookingID).Msg("mirror queue full, dropping task")
	}
	return nil
}

// Run processes tasks until the context is canceled.
func (w *MirrorWorker) Run(ctx context.Context) {
	w.log.Info().Msg("sheets mirror worker started")
	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("sheets mirror worker stopped")
			return
		case task := <-w.queue:
			w.process(ctx, task)
		}
	}
}

func (w *MirrorWorker) process(ctx context.Context, task mirrorTask) {
	for attempt := 1; attempt <= w.retry.MaxRetries; attempt++ {
		err := w.apply(ctx, task)
		if err == nil {
			return
		}

		w.log.Warn().Err(err).
			Str("event", task.eventType).
			Int64("booking_id", task.payload.BookingID).
			Int("attempt", attempt).
			Msg("mirror task failed")

		if attempt == w.retry.MaxRetries {
			w.log.Error().
				Str("event", task.eventType).
				Int64("booking_id", task.payload.BookingID).
				Msg("mirror task dropped after retries")
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(w.retry.NextDelay(attempt)):
		}
	}
}

func (w *MirrorWorker) apply(ctx context.Context, task mirrorTask) error {
	opCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	switch task.eventType {
	case events.EventBookingDeleted:
		return w.mirror.MarkDeleted(opCtx, task.payload.BookingID)
	default:
		return w.mirror.AppendBooking(opCtx, task.payload)
	}
}
