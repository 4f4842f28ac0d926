package service

import (
	"strings"
	"unicode"
)

// SanitizeText strips markup and control characters from free-text
// input and collapses runs of whitespace. It never rejects; bad input
// just shrinks.
func SanitizeText(raw string) string {
	var sb strings.Builder
	sb.Grow(len(raw))

	inTag := false
	for _, r := range raw {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case inTag:
			// drop tag contents
		case unicode.IsControl(r):
			sb.WriteRune(' ')
		default:
			sb.WriteRune(r)
		}
	}

	return strings.TrimSpace(strings.Join(strings.Fields(sb.String()), " "))
}

// emailLocalSpecials are the printable specials RFC 5322 allows in the
// local part; everything outside this set and alphanumerics is dropped.
const emailLocalSpecials = "!#$%&'*+-/=?^_`{|}~.@"

// SanitizeEmail lowercases an address and drops characters that cannot
// appear in one. Malformed addresses are not hard-rejected beyond this;
// an address that sanitizes to empty fails the required field check
// instead.
func SanitizeEmail(raw string) string {
	raw = strings.ToLower(strings.TrimSpace(raw))

	var sb strings.Builder
	sb.Grow(len(raw))
	for _, r := range raw {
		if r > unicode.MaxASCII {
			continue
		}
		if unicode.IsLetter(r) || unicode.IsDigit(r) || strings.ContainsRune(emailLocalSpecials, r) {
			sb.WriteRune(r)
		}
	}

	out := sb.String()
	// An address needs a local part, one @, and a domain.
	at := strings.Index(out, "@")
	if at <= 0 || at != strings.LastIndex(out, "@") || at == len(out)-1 {
		return ""
	}
	return out
}
