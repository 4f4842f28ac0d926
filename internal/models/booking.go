package models

import (
	"fmt"
	"time"
)

// Booking is a stored appointment request. The record itself carries only
// the derived title and publication status; the five visitor-supplied
// fields live in the meta table under fixed keys.
type Booking struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Date      string    `json:"date"` // YYYY-MM-DD, stored as text, never parsed
	Time      string    `json:"time"` // HH:MM, stored as text, never parsed
	Service   string    `json:"service"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ComposeTitle builds the display title from name, date and time.
func ComposeTitle(name, date, timeOfDay string) string {
	return fmt.Sprintf("%s — %s %s", name, date, timeOfDay)
}

// Meta returns the five metadata entries keyed by their storage names.
func (b *Booking) Meta() map[string]string {
	return map[string]string{
		MetaName:    b.Name,
		MetaEmail:   b.Email,
		MetaDate:    b.Date,
		MetaTime:    b.Time,
		MetaService: b.Service,
	}
}

// ApplyMeta fills the visitor-supplied fields from stored metadata.
func (b *Booking) ApplyMeta(meta map[string]string) {
	b.Name = meta[MetaName]
	b.Email = meta[MetaEmail]
	b.Date = meta[MetaDate]
	b.Time = meta[MetaTime]
	b.Service = meta[MetaService]
}
