package service

import (
	"context"
	"os"
	"testing"

	"bookman/internal/database"
	"bookman/internal/events"
	"bookman/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (*BookingService, *database.DB, *events.EventBus) {
	t.Helper()

	logger := zerolog.New(os.Stdout)
	db, err := database.NewDB(":memory:", &logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	bus := events.NewEventBus()
	svc := NewBookingService(db, bus, "http://localhost:8080", &logger)
	return svc, db, bus
}

func validSubmission() Submission {
	return Submission{
		Name:    "Ada",
		Email:   "ada@example.com",
		Date:    "2024-05-01",
		Time:    "14:00",
		Service: "Consult",
	}
}

func TestCreateBooking(t *testing.T) {
	svc, db, _ := newTestService(t)
	ctx := context.Background()

	booking, err := svc.Create(ctx, validSubmission())
	require.NoError(t, err)
	require.NotZero(t, booking.ID)

	assert.Equal(t, "Ada — 2024-05-01 14:00", booking.Title)
	assert.Equal(t, models.StatusPublish, booking.Status)

	stored, err := db.GetBooking(ctx, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada", stored.Name)
	assert.Equal(t, "ada@example.com", stored.Email)
	assert.Equal(t, "2024-05-01", stored.Date)
	assert.Equal(t, "14:00", stored.Time)
	assert.Equal(t, "Consult", stored.Service)
}

func TestCreateBookingSanitizesFields(t *testing.T) {
	svc, db, _ := newTestService(t)
	ctx := context.Background()

	sub := Submission{
		Name:    "  <b>Ada</b>  ",
		Email:   " <ada@example.com> ",
		Date:    "2024-05-01",
		Time:    "14:00",
		Service: "<script>x</script>Consult",
	}

	booking, err := svc.Create(ctx, sub)
	require.NoError(t, err)

	stored, err := db.GetBooking(ctx, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada", stored.Name)
	assert.Equal(t, "ada@example.com", stored.Email)
	assert.Equal(t, "xConsult", stored.Service)
}

func TestCreateBookingMissingRequiredField(t *testing.T) {
	svc, db, _ := newTestService(t)
	ctx := context.Background()

	for _, mutate := range []func(*Submission){
		func(s *Submission) { s.Name = "" },
		func(s *Submission) { s.Email = "" },
		func(s *Submission) { s.Date = "" },
		func(s *Submission) { s.Time = "" },
		func(s *Submission) { s.Name = "   " },
		func(s *Submission) { s.Email = "not-an-email" }, // sanitizes to empty
	} {
		sub := validSubmission()
		mutate(&sub)

		_, err := svc.Create(ctx, sub)
		assert.ErrorIs(t, err, ErrMissingFields)
	}

	// All-or-nothing: no partial records were persisted.
	count, err := db.CountBookings(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestCreateBookingOptionalService(t *testing.T) {
	svc, _, _ := newTestService(t)

	sub := validSubmission()
	sub.Service = ""

	booking, err := svc.Create(context.Background(), sub)
	require.NoError(t, err)
	assert.Empty(t, booking.Service)
}

func TestCreateBookingNotIdempotent(t *testing.T) {
	svc, db, _ := newTestService(t)
	ctx := context.Background()

	first, err := svc.Create(ctx, validSubmission())
	require.NoError(t, err)
	second, err := svc.Create(ctx, validSubmission())
	require.NoError(t, err)

	// Identical payloads create two distinct records; double-booking a
	// slot is allowed.
	assert.NotEqual(t, first.ID, second.ID)

	count, err := db.CountBookings(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestCreateBookingPublishesEvent(t *testing.T) {
	svc, _, bus := newTestService(t)

	var got []*events.Event
	bus.Subscribe(events.EventBookingCreated, func(e *events.Event) error {
		got = append(got, e)
		return nil
	})

	booking, err := svc.Create(context.Background(), validSubmission())
	require.NoError(t, err)

	require.Len(t, got, 1)
	assert.Contains(t, string(got[0].Payload), `"name":"Ada"`)
	assert.Contains(t, string(got[0].Payload), svc.EditURL(booking.ID))
}

func TestUpdateBooking(t *testing.T) {
	svc, db, _ := newTestService(t)
	ctx := context.Background()

	booking, err := svc.Create(ctx, validSubmission())
	require.NoError(t, err)

	updated, err := svc.Update(ctx, booking.ID, Submission{
		Name:  "Grace",
		Email: "grace@example.com",
		Date:  "2024-06-02",
		Time:  "09:30",
	})
	require.NoError(t, err)
	assert.Equal(t, "Grace — 2024-06-02 09:30", updated.Title)

	stored, err := db.GetBooking(ctx, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, "Grace", stored.Name)
	assert.Equal(t, "Grace — 2024-06-02 09:30", stored.Title)
	assert.Empty(t, stored.Service)
}

func TestDeleteBooking(t *testing.T) {
	svc, _, bus := newTestService(t)
	ctx := context.Background()

	var deleted []*events.Event
	bus.Subscribe(events.EventBookingDeleted, func(e *events.Event) error {
		deleted = append(deleted, e)
		return nil
	})

	booking, err := svc.Create(ctx, validSubmission())
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, booking.ID))
	assert.Len(t, deleted, 1)

	_, err = svc.Get(ctx, booking.ID)
	assert.ErrorIs(t, err, database.ErrNotFound)

	// Second delete finds nothing and changes nothing.
	err = svc.Delete(ctx, booking.ID)
	assert.ErrorIs(t, err, database.ErrNotFound)
}

func TestDeleteMany(t *testing.T) {
	svc, db, _ := newTestService(t)
	ctx := context.Background()

	var ids []int64
	for i := 0; i < 3; i++ {
		b, err := svc.Create(ctx, validSubmission())
		require.NoError(t, err)
		ids = append(ids, b.ID)
	}

	// One missing id; the rest are still deleted independently.
	deleted := svc.DeleteMany(ctx, append(ids, 9999))
	assert.Equal(t, 3, deleted)

	count, err := db.CountBookings(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}
