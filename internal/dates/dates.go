// Package dates normalizes the heterogeneous date text found on the sheets
// into canonical calendar dates and back into display strings.
package dates

import (
	"fmt"
	"strings"
	"time"
)

// Layouts accepted by Parse, most specific first. The sheet mixes ISO dates
// written by the backend with slash dates typed by operators.
var parseLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"2/1/2006",
	"02/01/06",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"02-01-2006",
}

var monthAbbrev = [...]string{
	"jan", "fev", "mar", "abr", "mai", "jun",
	"jul", "ago", "set", "out", "nov", "dez",
}

// Parse converts date text into a canonical date at midnight local time.
// It returns false for anything unparseable; callers fall back to showing
// the raw text.
func Parse(text string) (time.Time, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return time.Time{}, false
	}
	for _, layout := range parseLayouts {
		t, err := time.ParseInLocation(layout, text, time.Local)
		if err != nil {
			continue
		}
		// Midnight local, dropping any time-of-day the layout captured.
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.Local), true
	}
	return time.Time{}, false
}

// FormatShort renders a date as "02/fev/26", the compact form used on cards.
func FormatShort(t time.Time) string {
	return fmt.Sprintf("%02d/%s/%02d", t.Day(), monthAbbrev[t.Month()-1], t.Year()%100)
}

// FormatSlash renders a date as "02/01/2006", the form used in status labels
// and scheduling cells.
func FormatSlash(t time.Time) string {
	return t.Format("02/01/2006")
}
