package notify

import (
	"context"
	"encoding/json"
	"time"

	"bookman/internal/domain"
	"bookman/internal/events"
	"bookman/internal/metrics"
	"bookman/internal/models"

	"github.com/rs/zerolog"
)

const sendTimeout = 15 * time.Second

// Dispatcher fans booking_created events out to the configured
// notification channels. Delivery is fire-and-forget: failures are
// logged and counted but never reach the submitter.
type Dispatcher struct {
	notifiers []domain.Notifier
	log       zerolog.Logger
}

func NewDispatcher(notifiers []domain.Notifier, logger *zerolog.Logger) *Dispatcher {
	var log zerolog.Logger
	if logger != nil {
		log = logger.With().Str("component", "notify").Logger()
	}
	return &Dispatcher{notifiers: notifiers, log: log}
}

// Attach subscribes the dispatcher to the event bus.
func (d *Dispatcher) Attach(bus *events.EventBus) {
	bus.Subscribe(events.EventBookingCreated, d.handleBookingCreated)
}

func (d *Dispatcher) handleBookingCreated(event *events.Event) error {
	var payload events.BookingEventPayload
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		d.log.Error().Err(err).Msg("failed to decode booking event")
		return nil
	}

	booking := &models.Booking{
		ID:      payload.BookingID,
		Title:   payload.Title,
		Name:    payload.Name,
		Email:   payload.Email,
		Date:    payload.Date,
		Time:    payload.Time,
		Service: payload.Service,
	}

	for _, n := range d.notifiers {
		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		err := n.NotifyBookingCreated(ctx, booking, payload.EditURL)
		cancel()

		if err != nil {
			metrics.IncNotification(n.Name(), "error")
			d.log.Error().Err(err).
				Str("channel", n.Name()).
				Int64("booking_id", booking.ID).
				Msg("notification failed")
			continue
		}
		metrics.IncNotification(n.Name(), "sent")
	}
	return nil
}
