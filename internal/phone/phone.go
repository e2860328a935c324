// Package phone canonicalizes phone numbers for cross-sheet matching.
//
// The open and closed sheets assign independent row ids, so the phone number
// is the only join key between them, and operators type it with arbitrary
// punctuation. Everything that compares phones goes through Canonical first.
package phone

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

const defaultRegion = "BR"

// Canonical reduces a phone number to a stable comparison key. Numbers that
// parse as valid are rendered in E.164; anything else falls back to its bare
// digits so two differently punctuated copies of the same cell still match.
func Canonical(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if num, err := phonenumbers.Parse(raw, defaultRegion); err == nil && phonenumbers.IsValidNumber(num) {
		return phonenumbers.Format(num, phonenumbers.E164)
	}
	return digits(raw)
}

// Equal reports whether two raw phone values refer to the same number.
func Equal(a, b string) bool {
	ca, cb := Canonical(a), Canonical(b)
	if ca == "" || cb == "" {
		return false
	}
	return ca == cb
}

func digits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
