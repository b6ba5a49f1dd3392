package clock

import (
	"errors"
	"fmt"
	"time"
)

// Layout is the storage format for due timestamps.
const Layout = "2006-01-02 15:04:05"

// legacyLayout is the date-only format written by older databases.
const legacyLayout = "2006-01-02"

var (
	// ErrInvalidTimestamp indicates a stored due time that cannot be parsed
	// under any accepted format. Check with errors.Is.
	ErrInvalidTimestamp = errors.New("clock: invalid timestamp")
	// ErrInvalidScale indicates a non-positive time scale.
	ErrInvalidScale = errors.New("clock: time scale must be positive")
)

// Clock maps scheduling intervals to concrete due timestamps. In test mode
// elapsed time is compressed by the scale factor (reference: 1000x, so one
// day passes in 86.4 seconds) and remaining-time strings are rendered in
// real seconds or minutes.
type Clock struct {
	scale    int
	testMode bool
}

// New creates a Clock with the given time scale. Scale 1 is real time.
func New(scale int, testMode bool) (*Clock, error) {
	if scale <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidScale, scale)
	}
	return &Clock{scale: scale, testMode: testMode}, nil
}

// Scale returns the configured time-scale factor.
func (c *Clock) Scale() int { return c.scale }

// TestMode reports whether the clock runs in accelerated test mode.
func (c *Clock) TestMode() bool { return c.testMode }

// DueAfter returns the due timestamp for an interval expressed as minutes
// and/or days of scheduled time, compressed by the time scale.
func (c *Clock) DueAfter(now time.Time, minutes, days int) time.Time {
	seconds := int64(minutes)*60 + int64(days)*86400
	return now.Add(time.Duration(seconds) * time.Second / time.Duration(c.scale))
}

// IsDue reports whether the due timestamp has been reached. The boundary
// now == due counts as due.
func (c *Clock) IsDue(due, now time.Time) bool {
	return !now.Before(due)
}

// Remaining formats the time left until due in human-readable form.
// Past timestamps render as "now". Units truncate rather than round.
func (c *Clock) Remaining(due, now time.Time) string {
	diff := due.Sub(now)
	if diff < 0 {
		return "now"
	}

	if c.testMode {
		seconds := diff.Seconds()
		if seconds < 60 {
			return fmt.Sprintf("%.1fs", seconds)
		}
		return fmt.Sprintf("%.1fmin", seconds/60)
	}

	minutes := int(diff.Minutes())
	switch {
	case minutes < 60:
		return fmt.Sprintf("%dmin", minutes)
	case minutes < 1440:
		return fmt.Sprintf("%dh", minutes/60)
	default:
		return fmt.Sprintf("%dd", minutes/1440)
	}
}

// Format renders a timestamp in the storage layout.
func (c *Clock) Format(t time.Time) string {
	return t.Format(Layout)
}

// Parse reads a stored due timestamp. Date-only values from legacy databases
// are accepted as midnight; anything else fails with ErrInvalidTimestamp.
func (c *Clock) Parse(s string) (time.Time, error) {
	if t, err := time.ParseInLocation(Layout, s, time.Local); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation(legacyLayout, s, time.Local); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTimestamp, s)
}
