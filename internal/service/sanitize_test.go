package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "Ada Lovelace", "Ada Lovelace"},
		{"trims whitespace", "  Ada  ", "Ada"},
		{"collapses runs", "Ada \t\n Lovelace", "Ada Lovelace"},
		{"strips tags", "<script>alert(1)</script>Ada", "alert(1)Ada"},
		{"strips partial tag", "Ada <b>bold", "Ada bold"},
		{"control chars become spaces", "Ada\x00\x07Lovelace", "Ada Lovelace"},
		{"empty", "", ""},
		{"only markup", "<br>", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeText(tt.input))
		})
	}
}

func TestSanitizeEmail(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "ada@example.com", "ada@example.com"},
		{"trims", "  ada@example.com  ", "ada@example.com"},
		{"lowercases", "Ada@Example.COM", "ada@example.com"},
		{"drops illegal chars", "ada lovelace@example.com", "adalovelace@example.com"},
		{"drops angle brackets", "<ada@example.com>", "ada@example.com"},
		{"no at sign", "not-an-email", ""},
		{"missing domain", "ada@", ""},
		{"missing local part", "@example.com", ""},
		{"two at signs", "ada@@example.com", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeEmail(tt.input))
		})
	}
}
