package numeric

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   float64
		wantOK bool
	}{
		{name: "pt-BR full formatting", input: "1.234,56", want: 1234.56, wantOK: true},
		{name: "plain decimal point", input: "1234.5", want: 1234.5, wantOK: true},
		{name: "currency with thousands dot", input: "R$ 2.000", want: 2000, wantOK: true},
		{name: "decimal comma only", input: "12,5", want: 12.5, wantOK: true},
		{name: "dot with two trailing digits is decimal", input: "10.25", want: 10.25, wantOK: true},
		{name: "plain integer", input: "42", want: 42, wantOK: true},
		{name: "negative", input: "-3,5", want: -3.5, wantOK: true},
		{name: "html wrapped", input: "<b>Total:</b>&nbsp;1.500,00", want: 1500, wantOK: true},
		{name: "number inside sentence", input: "meta atual: 120 renovações", want: 120, wantOK: true},
		{name: "multiple thousands groups", input: "1.234.567", want: 1234567, wantOK: true},
		{name: "trailing punctuation", input: "25,", want: 25, wantOK: true},
		{name: "no digits", input: "no digits here", want: 0, wantOK: false},
		{name: "empty", input: "", want: 0, wantOK: false},
		{name: "only markup", input: "<div></div>", want: 0, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Extract(tt.input)
			require.Equal(t, tt.wantOK, ok)
			assert.InDelta(t, tt.want, got, 0.0001)
		})
	}
}
