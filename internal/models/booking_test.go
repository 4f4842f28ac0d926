package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComposeTitle(t *testing.T) {
	assert.Equal(t, "Ada — 2024-05-01 14:00", ComposeTitle("Ada", "2024-05-01", "14:00"))
	assert.Equal(t, " —  ", ComposeTitle("", "", ""))
}

func TestMetaRoundTrip(t *testing.T) {
	b := &Booking{
		Name:    "Ada",
		Email:   "ada@example.com",
		Date:    "2024-05-01",
		Time:    "14:00",
		Service: "Consult",
	}

	meta := b.Meta()
	assert.Equal(t, "Ada", meta[MetaName])
	assert.Equal(t, "ada@example.com", meta[MetaEmail])

	var restored Booking
	restored.ApplyMeta(meta)
	assert.Equal(t, b.Name, restored.Name)
	assert.Equal(t, b.Email, restored.Email)
	assert.Equal(t, b.Date, restored.Date)
	assert.Equal(t, b.Time, restored.Time)
	assert.Equal(t, b.Service, restored.Service)
}

func TestApplyMetaMissingKeys(t *testing.T) {
	var b Booking
	b.ApplyMeta(map[string]string{MetaName: "Ada"})

	assert.Equal(t, "Ada", b.Name)
	assert.Empty(t, b.Email)
	assert.Empty(t, b.Service)
}

func TestDeleteNonceScopePerRecord(t *testing.T) {
	assert.Equal(t, "bm_delete_booking_7", DeleteNonceScope(7))
	assert.NotEqual(t, DeleteNonceScope(7), DeleteNonceScope(8))
	assert.Equal(t, "bm_edit_booking_7", EditNonceScope(7))
}
