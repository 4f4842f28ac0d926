package notify

import (
	"fmt"

	"bookman/internal/models"
)

// Subject builds the admin notification subject line.
func Subject(b *models.Booking) string {
	return fmt.Sprintf("New booking from %s on %s at %s", b.Name, b.Date, b.Time)
}

// Body lists all five fields plus a direct management link.
func Body(b *models.Booking, editURL string) string {
	return fmt.Sprintf(
		"Name: %s\nEmail: %s\nDate: %s\nTime: %s\nService: %s\n\nManage it here: %s",
		b.Name, b.Email, b.Date, b.Time, b.Service, editURL,
	)
}
