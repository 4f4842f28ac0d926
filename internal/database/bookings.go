package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"bookman/internal/models"
)

// CreateBooking inserts the record row only. Metadata is attached by a
// separate SetBookingMeta call; there is deliberately no transaction
// spanning the two.
func (db *DB) CreateBooking(ctx context.Context, booking *models.Booking) error {
	if booking.Status == "" {
		booking.Status = models.StatusPublish
	}

	query := `INSERT INTO bookings (title, status, created_at, updated_at) VALUES (?, ?, ?, ?)`
	now := time.Now()
	result, err := db.ExecContext(ctx, query, booking.Title, booking.Status, now, now)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	booking.ID = id
	booking.CreatedAt = now
	booking.UpdatedAt = now

	return nil
}

// SetBookingMeta upserts the given key-value entries for a record.
func (db *DB) SetBookingMeta(ctx context.Context, bookingID int64, meta map[string]string) error {
	query := `INSERT INTO booking_meta (booking_id, meta_key, meta_value) VALUES (?, ?, ?)
              ON CONFLICT(booking_id, meta_key) DO UPDATE SET meta_value = excluded.meta_value`
	for key, value := range meta {
		if _, err := db.ExecContext(ctx, query, bookingID, key, value); err != nil {
			return fmt.Errorf("failed to set booking meta %s: %w", key, err)
		}
	}
	return nil
}

// UpdateBookingTitle rewrites the derived title after an edit.
func (db *DB) UpdateBookingTitle(ctx context.Context, bookingID int64, title string) error {
	query := `UPDATE bookings SET title = ?, updated_at = ? WHERE id = ?`
	result, err := db.ExecContext(ctx, query, title, time.Now(), bookingID)
	if err != nil {
		return fmt.Errorf("failed to update booking title: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

func (db *DB) GetBooking(ctx context.Context, id int64) (*models.Booking, error) {
	var booking models.Booking
	query := `SELECT id, title, status, created_at, updated_at FROM bookings WHERE id = ?`
	err := db.QueryRowContext(ctx, query, id).Scan(
		&booking.ID, &booking.Title, &booking.Status, &booking.CreatedAt, &booking.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}

	meta, err := db.getMeta(ctx, id)
	if err != nil {
		return nil, err
	}
	booking.ApplyMeta(meta)

	return &booking, nil
}

func (db *DB) getMeta(ctx context.Context, bookingID int64) (map[string]string, error) {
	query := `SELECT meta_key, meta_value FROM booking_meta WHERE booking_id = ?`
	rows, err := db.QueryContext(ctx, query, bookingID)
	if err != nil {
		return nil, fmt.Errorf("failed to get booking meta: %w", err)
	}
	defer rows.Close()

	meta := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("failed to scan booking meta: %w", err)
		}
		meta[key] = value
	}
	return meta, rows.Err()
}

// ListPublished returns all publicly-listed bookings, newest first.
// No pagination or filtering; this matches the admin list contract.
func (db *DB) ListPublished(ctx context.Context) ([]*models.Booking, error) {
	query := `SELECT id, title, status, created_at, updated_at
              FROM bookings WHERE status = ? ORDER BY created_at DESC, id DESC`
	rows, err := db.QueryContext(ctx, query, models.StatusPublish)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	defer rows.Close()

	var bookings []*models.Booking
	for rows.Next() {
		b := &models.Booking{}
		err := rows.Scan(&b.ID, &b.Title, &b.Status, &b.CreatedAt, &b.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, b := range bookings {
		meta, err := db.getMeta(ctx, b.ID)
		if err != nil {
			return nil, err
		}
		b.ApplyMeta(meta)
	}

	return bookings, nil
}

// DeleteBooking permanently removes a record and its metadata.
// There is no soft trash.
func (db *DB) DeleteBooking(ctx context.Context, id int64) error {
	if _, err := db.ExecContext(ctx, `DELETE FROM booking_meta WHERE booking_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete booking meta: %w", err)
	}

	result, err := db.ExecContext(ctx, `DELETE FROM bookings WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete booking: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// CountBookings returns the total number of records regardless of status.
func (db *DB) CountBookings(ctx context.Context) (int, error) {
	var count int
	err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM bookings`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count bookings: %w", err)
	}
	return count, nil
}
