package dates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantDay   int
		wantMonth time.Month
		wantYear  int
		wantOK    bool
	}{
		{name: "ISO date", input: "2026-02-05", wantDay: 5, wantMonth: time.February, wantYear: 2026, wantOK: true},
		{name: "slash date", input: "05/02/2026", wantDay: 5, wantMonth: time.February, wantYear: 2026, wantOK: true},
		{name: "single digit slash date", input: "5/2/2026", wantDay: 5, wantMonth: time.February, wantYear: 2026, wantOK: true},
		{name: "ISO with time keeps only the day", input: "2026-02-05 14:30:00", wantDay: 5, wantMonth: time.February, wantYear: 2026, wantOK: true},
		{name: "impossible month", input: "13/45/2024", wantOK: false},
		{name: "impossible day", input: "32/01/2024", wantOK: false},
		{name: "free text", input: "amanhã de manhã", wantOK: false},
		{name: "empty", input: "", wantOK: false},
		{name: "whitespace", input: "   ", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Parse(tt.input)
			require.Equal(t, tt.wantOK, ok)
			if !tt.wantOK {
				return
			}
			assert.Equal(t, tt.wantDay, got.Day())
			assert.Equal(t, tt.wantMonth, got.Month())
			assert.Equal(t, tt.wantYear, got.Year())
			assert.Equal(t, 0, got.Hour(), "time-of-day is pinned to midnight local")
		})
	}
}

func TestParseFormatRoundTrip(t *testing.T) {
	for _, input := range []string{"2026-02-05", "05/02/2026"} {
		parsed, ok := Parse(input)
		require.True(t, ok, input)

		reparsed, ok := Parse(FormatSlash(parsed))
		require.True(t, ok)
		assert.Equal(t, parsed.Day(), reparsed.Day())
		assert.Equal(t, parsed.Month(), reparsed.Month())
		assert.Equal(t, parsed.Year(), reparsed.Year())
	}
}

func TestFormatShort(t *testing.T) {
	d := time.Date(2026, time.February, 5, 0, 0, 0, 0, time.Local)
	assert.Equal(t, "05/fev/26", FormatShort(d))

	d = time.Date(2025, time.December, 31, 0, 0, 0, 0, time.Local)
	assert.Equal(t, "31/dez/25", FormatShort(d))
}

func TestFormatSlash(t *testing.T) {
	d := time.Date(2026, time.February, 5, 0, 0, 0, 0, time.Local)
	assert.Equal(t, "05/02/2026", FormatSlash(d))
}
