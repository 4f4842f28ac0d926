package domain

import (
	"context"

	"bookman/internal/models"
)

// RecordStore persists booking records and their metadata.
type RecordStore interface {
	CreateBooking(ctx context.Context, booking *models.Booking) error
	SetBookingMeta(ctx context.Context, bookingID int64, meta map[string]string) error
	UpdateBookingTitle(ctx context.Context, bookingID int64, title string) error
	GetBooking(ctx context.Context, id int64) (*models.Booking, error)
	ListPublished(ctx context.Context) ([]*models.Booking, error)
	DeleteBooking(ctx context.Context, id int64) error
}

// NonceStore issues and consumes scope-bound anti-forgery tokens.
// Tokens are single-use: Consume invalidates on first success.
type NonceStore interface {
	Issue(ctx context.Context, scope string) (string, error)
	Consume(ctx context.Context, scope, token string) (bool, error)
}

// Notifier delivers a booking notification over one channel.
type Notifier interface {
	Name() string
	NotifyBookingCreated(ctx context.Context, booking *models.Booking, editURL string) error
}

// EventPublisher publishes domain events to in-process subscribers.
type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}
