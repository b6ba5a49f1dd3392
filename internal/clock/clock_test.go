package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustClock(t *testing.T, scale int, testMode bool) *Clock {
	t.Helper()
	c, err := New(scale, testMode)
	require.NoError(t, err)
	return c
}

func TestNewRejectsNonPositiveScale(t *testing.T) {
	for _, scale := range []int{0, -1, -1000} {
		_, err := New(scale, false)
		assert.ErrorIs(t, err, ErrInvalidScale)
	}
}

func TestDueAfterRealTime(t *testing.T) {
	c := mustClock(t, 1, false)
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		minutes int
		days    int
		want    time.Time
	}{
		{"one minute", 1, 0, now.Add(time.Minute)},
		{"ten minutes", 10, 0, now.Add(10 * time.Minute)},
		{"one day", 0, 1, now.Add(24 * time.Hour)},
		{"mixed components sum", 30, 2, now.Add(48*time.Hour + 30*time.Minute)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.DueAfter(now, tt.minutes, tt.days))
		})
	}
}

func TestDueAfterCompressesTime(t *testing.T) {
	// At 1000x, one day of scheduled time passes in 86.4 seconds.
	c := mustClock(t, 1000, true)
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, now.Add(86400*time.Millisecond), c.DueAfter(now, 0, 1))
	assert.Equal(t, now.Add(60*time.Millisecond), c.DueAfter(now, 1, 0))
	assert.Equal(t, now.Add(600*time.Millisecond), c.DueAfter(now, 10, 0))
}

func TestIsDue(t *testing.T) {
	c := mustClock(t, 1, false)
	due := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	assert.False(t, c.IsDue(due, due.Add(-time.Second)))
	assert.True(t, c.IsDue(due, due), "boundary now == due is due")
	assert.True(t, c.IsDue(due, due.Add(time.Second)))
}

func TestRemainingNormalMode(t *testing.T) {
	c := mustClock(t, 1, false)
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		due  time.Time
		want string
	}{
		{"past is now", now.Add(-time.Hour), "now"},
		{"under a minute truncates to zero", now.Add(30 * time.Second), "0min"},
		{"minutes", now.Add(59 * time.Minute), "59min"},
		{"hours truncate", now.Add(90 * time.Minute), "1h"},
		{"just under a day", now.Add(1439 * time.Minute), "23h"},
		{"days", now.Add(1440 * time.Minute), "1d"},
		{"days truncate", now.Add(50 * time.Hour), "2d"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Remaining(tt.due, now))
		})
	}
}

func TestRemainingTestMode(t *testing.T) {
	c := mustClock(t, 1000, true)
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, "now", c.Remaining(now.Add(-time.Second), now))
	assert.Equal(t, "5.5s", c.Remaining(now.Add(5500*time.Millisecond), now))
	assert.Equal(t, "59.9s", c.Remaining(now.Add(59900*time.Millisecond), now))
	assert.Equal(t, "1.5min", c.Remaining(now.Add(90*time.Second), now))
}

func TestFormatParseRoundTrip(t *testing.T) {
	c := mustClock(t, 1, false)
	stamp := time.Date(2024, 3, 1, 12, 34, 56, 0, time.Local)

	parsed, err := c.Parse(c.Format(stamp))
	require.NoError(t, err)
	assert.True(t, parsed.Equal(stamp))
}

func TestParseLegacyDateOnly(t *testing.T) {
	c := mustClock(t, 1, false)

	parsed, err := c.Parse("2023-11-05")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2023, 11, 5, 0, 0, 0, 0, time.Local), parsed)
}

func TestParseRejectsMalformedTimestamps(t *testing.T) {
	c := mustClock(t, 1, false)

	for _, input := range []string{"", "not a date", "2024-13-45 99:00:00", "05/11/2023"} {
		_, err := c.Parse(input)
		assert.ErrorIs(t, err, ErrInvalidTimestamp, "input %q", input)
	}
}
