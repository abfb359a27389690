package formatter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "—", FormatDuration(0))
	assert.Equal(t, "45s", FormatDuration(45*time.Second))
	assert.Equal(t, "12m", FormatDuration(12*time.Minute))
	assert.Equal(t, "2h 05m", FormatDuration(2*time.Hour+5*time.Minute))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "exactly10!", Truncate("exactly10!", 10))
	assert.Equal(t, "truncated…", Truncate("truncated text", 10))
}

func TestShortID(t *testing.T) {
	assert.Equal(t, "abc", ShortID("abc"))
	assert.Equal(t, "12345678", ShortID("123456789abcdef"))
}

func TestJoinKeywords(t *testing.T) {
	assert.Equal(t, "", JoinKeywords(nil, 3))
	assert.Equal(t, "a, b", JoinKeywords([]string{"a", "b"}, 3))
	assert.Equal(t, "a, b, c", JoinKeywords([]string{"a", "b", "c", "d"}, 3))
}
