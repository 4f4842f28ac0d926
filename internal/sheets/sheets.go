package sheets

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"bookman/internal/events"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"
)

const bookingsRange = "Bookings!A:H"

// Service mirrors booking rows into one Google Sheet. The mirror is a
// convenience copy; the SQLite store stays the source of truth.
type Service struct {
	api           *sheetsapi.Service
	spreadsheetID string
}

func NewService(credentialsFile, spreadsheetID string) (*Service, error) {
	ctx := context.Background()

	credentialsJSON, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("unable to read credentials file: %w", err)
	}

	jwtConfig, err := google.JWTConfigFromJSON(credentialsJSON, sheetsapi.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("unable to parse credentials: %w", err)
	}

	api, err := sheetsapi.NewService(ctx, option.WithHTTPClient(jwtConfig.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("unable to create sheets service: %w", err)
	}

	return &Service{api: api, spreadsheetID: spreadsheetID}, nil
}

// AppendBooking appends one row for a created booking.
func (s *Service) AppendBooking(ctx context.Context, p events.BookingEventPayload) error {
	values := &sheetsapi.ValueRange{
		Values: [][]interface{}{{
			p.BookingID, p.Name, p.Email, p.Date, p.Time, p.Service, "created", p.EditURL,
		}},
	}

	_, err := s.api.Spreadsheets.Values.
		Append(s.spreadsheetID, bookingsRange, values).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("append booking row: %w", err)
	}
	return nil
}

// MarkDeleted flags the row of a deleted booking. The sheet is scanned
// by the id column; a missing row is not an error since the mirror is
// best-effort.
func (s *Service) MarkDeleted(ctx context.Context, bookingID int64) error {
	resp, err := s.api.Spreadsheets.Values.
		Get(s.spreadsheetID, "Bookings!A:A").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("read booking id column: %w", err)
	}

	want := strconv.FormatInt(bookingID, 10)
	for i, row := range resp.Values {
		if len(row) == 0 {
			continue
		}
		if fmt.Sprint(row[0]) != want {
			continue
		}

		cell := fmt.Sprintf("Bookings!G%d", i+1)
		update := &sheetsapi.ValueRange{Values: [][]interface{}{{"deleted"}}}
		_, err := s.api.Spreadsheets.Values.
			Update(s.spreadsheetID, cell, update).
			ValueInputOption("RAW").
			Context(ctx).
			Do()
		if err != nil {
			return fmt.Errorf("mark booking row deleted: %w", err)
		}
		return nil
	}

	return nil
}
