package phone

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonical(t *testing.T) {
	// A valid BR mobile normalizes to E.164 regardless of punctuation.
	assert.Equal(t, "+5519998765432", Canonical("(19) 99876-5432"))
	assert.Equal(t, "+5519998765432", Canonical("19998765432"))
	assert.Equal(t, "+5519998765432", Canonical("+55 19 99876-5432"))

	// Short or junk values fall back to bare digits.
	assert.Equal(t, "111", Canonical("111"))
	assert.Equal(t, "123", Canonical("1-2-3"))
	assert.Equal(t, "", Canonical("  "))
}

func TestEqual(t *testing.T) {
	assert.True(t, Equal("(19) 99876-5432", "19998765432"))
	assert.True(t, Equal("111", "1 1 1"))
	assert.False(t, Equal("111", "222"))
	assert.False(t, Equal("", ""), "blank phones never match each other")
	assert.False(t, Equal("111", ""))
}
