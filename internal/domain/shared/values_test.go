package shared

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatTimestamp_RoundTrip(t *testing.T) {
	ts := time.Date(2026, 3, 4, 5, 6, 7, 891234567, time.FixedZone("X", 3600))

	formatted := FormatTimestamp(ts)
	assert.Equal(t, "2026-03-04T04:06:07.891Z", formatted)

	parsed, err := ParseTimestamp(formatted)
	require.NoError(t, err)
	assert.True(t, parsed.Equal(Normalize(ts)))
	assert.Equal(t, formatted, FormatTimestamp(parsed))
}

func TestParseTimestamp_Invalid(t *testing.T) {
	_, err := ParseTimestamp("yesterday")
	assert.Error(t, err)
}

func TestNewID_Unique(t *testing.T) {
	assert.NotEqual(t, NewID(), NewID())
	assert.Len(t, NewID(), 36)
}

func TestNextTimestamp(t *testing.T) {
	now := time.Date(2026, 10, 15, 12, 0, 0, 250_000_000, time.UTC)

	t.Run("Should use the clock when it is past every previous stamp", func(t *testing.T) {
		assert.Equal(t, Normalize(now), NextTimestamp(now, now.Add(-time.Second)))
		assert.Equal(t, Normalize(now), NextTimestamp(now))
	})

	t.Run("Should step one millisecond past a stamp from the same millisecond", func(t *testing.T) {
		next := NextTimestamp(now.Add(400*time.Microsecond), now)
		assert.Equal(t, Normalize(now).Add(time.Millisecond), next)
		assert.NotEqual(t, FormatTimestamp(now), FormatTimestamp(next))
	})

	t.Run("Should step past the latest stamp when the clock runs behind", func(t *testing.T) {
		ahead := now.Add(5 * time.Millisecond)
		assert.Equal(t, ahead.Add(time.Millisecond), NextTimestamp(now, now, ahead, now.Add(time.Millisecond)))
	})
}
