package service

import (
	"context"
	"errors"
	"fmt"

	"bookman/internal/database"
	"bookman/internal/domain"
	"bookman/internal/events"
	"bookman/internal/models"

	"github.com/rs/zerolog"
)

// ErrMissingFields is returned when a required field is empty after
// sanitization.
var ErrMissingFields = errors.New("required field is empty")

// Submission carries the raw, untrusted form field values. Absent
// fields are empty strings.
type Submission struct {
	Name    string
	Email   string
	Date    string
	Time    string
	Service string
}

// BookingService owns booking creation, editing and deletion semantics.
type BookingService struct {
	store   domain.RecordStore
	bus     domain.EventPublisher
	baseURL string
	log     zerolog.Logger
}

func NewBookingService(store domain.RecordStore, bus domain.EventPublisher, baseURL string, logger *zerolog.Logger) *BookingService {
	var log zerolog.Logger
	if logger != nil {
		log = logger.With().Str("component", "booking-service").Logger()
	}
	return &BookingService{
		store:   store,
		bus:     bus,
		baseURL: baseURL,
		log:     log,
	}
}

// EditURL returns the admin management link for a record.
func (s *BookingService) EditURL(id int64) string {
	return fmt.Sprintf("%s/admin/bookings/edit?id=%d", s.baseURL, id)
}

func (s *BookingService) sanitize(sub Submission) Submission {
	return Submission{
		Name:    SanitizeText(sub.Name),
		Email:   SanitizeEmail(sub.Email),
		Date:    SanitizeText(sub.Date),
		Time:    SanitizeText(sub.Time),
		Service: SanitizeText(sub.Service),
	}
}

// Create validates a submission and persists it. All-or-nothing: no
// record row exists when an error other than meta attachment is
// returned. The record insert and the meta attachment are two separate
// store operations with no transaction around them.
func (s *BookingService) Create(ctx context.Context, sub Submission) (*models.Booking, error) {
	clean := s.sanitize(sub)

	if clean.Name == "" || clean.Email == "" || clean.Date == "" || clean.Time == "" {
		return nil, ErrMissingFields
	}

	booking := &models.Booking{
		Title:   models.ComposeTitle(clean.Name, clean.Date, clean.Time),
		Name:    clean.Name,
		Email:   clean.Email,
		Date:    clean.Date,
		Time:    clean.Time,
		Service: clean.Service,
		Status:  models.StatusPublish,
	}

	if err := s.store.CreateBooking(ctx, booking); err != nil {
		return nil, fmt.Errorf("create booking record: %w", err)
	}

	if err := s.store.SetBookingMeta(ctx, booking.ID, booking.Meta()); err != nil {
		// The record already exists; the meta gap is the accepted
		// inconsistency window. Surface the error to the caller.
		return nil, fmt.Errorf("attach booking meta: %w", err)
	}

	s.publish(events.EventBookingCreated, booking)

	s.log.Info().Int64("booking_id", booking.ID).Str("date", booking.Date).Str("time", booking.Time).Msg("booking created")
	return booking, nil
}

// Update sanitizes and rewrites the five metadata entries of an
// existing record and recomputes its title.
func (s *BookingService) Update(ctx context.Context, id int64, sub Submission) (*models.Booking, error) {
	booking, err := s.store.GetBooking(ctx, id)
	if err != nil {
		return nil, err
	}

	clean := s.sanitize(sub)
	booking.Name = clean.Name
	booking.Email = clean.Email
	booking.Date = clean.Date
	booking.Time = clean.Time
	booking.Service = clean.Service
	booking.Title = models.ComposeTitle(clean.Name, clean.Date, clean.Time)

	if err := s.store.SetBookingMeta(ctx, id, booking.Meta()); err != nil {
		return nil, fmt.Errorf("update booking meta: %w", err)
	}
	if err := s.store.UpdateBookingTitle(ctx, id, booking.Title); err != nil {
		return nil, err
	}

	s.log.Info().Int64("booking_id", id).Msg("booking updated")
	return booking, nil
}

// Get returns one booking with its metadata.
func (s *BookingService) Get(ctx context.Context, id int64) (*models.Booking, error) {
	return s.store.GetBooking(ctx, id)
}

// List returns all publicly-listed bookings in store default order.
func (s *BookingService) List(ctx context.Context) ([]*models.Booking, error) {
	return s.store.ListPublished(ctx)
}

// Delete permanently removes one booking. database.ErrNotFound is
// passed through when the record is already gone.
func (s *BookingService) Delete(ctx context.Context, id int64) error {
	booking, err := s.store.GetBooking(ctx, id)
	if err != nil {
		return err
	}

	if err := s.store.DeleteBooking(ctx, id); err != nil {
		return err
	}

	s.publish(events.EventBookingDeleted, booking)

	s.log.Info().Int64("booking_id", id).Msg("booking deleted")
	return nil
}

// DeleteMany deletes each id independently with no atomicity across
// entries; a failure partway through leaves earlier deletions in
// place. Returns the number actually removed.
func (s *BookingService) DeleteMany(ctx context.Context, ids []int64) int {
	deleted := 0
	for _, id := range ids {
		if err := s.Delete(ctx, id); err != nil {
			if !errors.Is(err, database.ErrNotFound) {
				s.log.Error().Err(err).Int64("booking_id", id).Msg("bulk delete entry failed")
			}
			continue
		}
		deleted++
	}
	return deleted
}

func (s *BookingService) publish(eventType string, booking *models.Booking) {
	if s.bus == nil {
		return
	}
	payload := events.BookingEventPayload{
		BookingID: booking.ID,
		Title:     booking.Title,
		Name:      booking.Name,
		Email:     booking.Email,
		Date:      booking.Date,
		Time:      booking.Time,
		Service:   booking.Service,
		EditURL:   s.EditURL(booking.ID),
	}
	if err := s.bus.PublishJSON(eventType, payload); err != nil {
		s.log.Error().Err(err).Str("event", eventType).Msg("failed to publish event")
	}
}
