// Package shared holds the small value helpers every aggregate uses.
package shared

import (
	"time"

	"github.com/google/uuid"
)

// TimestampLayout is the wire and storage format of every updatedAt value.
// Millisecond precision keeps optimistic-lock comparisons exact after a
// round trip through JSON.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// Clock returns the current time. Services and repositories take one so
// tests can pin time.
type Clock func() time.Time

// SystemClock is the production clock.
func SystemClock() time.Time {
	return time.Now()
}

// Normalize truncates t to the precision persisted in storage.
func Normalize(t time.Time) time.Time {
	return t.UTC().Truncate(time.Millisecond)
}

// FormatTimestamp renders t in TimestampLayout.
func FormatTimestamp(t time.Time) string {
	return Normalize(t).Format(TimestampLayout)
}

// NextTimestamp returns the updatedAt for a write replacing versions stamped
// at previous. It is now, or one millisecond past the latest previous stamp
// when the clock has not moved on, so every write changes the lock value.
func NextTimestamp(now time.Time, previous ...time.Time) time.Time {
	next := Normalize(now)
	for _, p := range previous {
		if p = Normalize(p); !next.After(p) {
			next = p.Add(time.Millisecond)
		}
	}
	return next
}

// ParseTimestamp accepts any RFC 3339 timestamp and normalizes it.
func ParseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, err
	}
	return Normalize(t), nil
}

// NewID generates a new random identifier.
func NewID() string {
	return uuid.New().String()
}
