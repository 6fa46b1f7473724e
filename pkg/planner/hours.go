// Package planner finds meeting times that fall inside every participant's
// local business hours.
package planner

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidWindow is returned for business-hours windows that end before they start.
var ErrInvalidWindow = errors.New("invalid business hours window")

const minutesPerDay = 24 * 60

// TimeOfDay is an hour and minute with no date or zone.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// ParseTimeOfDay parses "HH:MM".
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("parsing time of day %q: %w", s, err)
	}
	return TimeOfDay{Hour: t.Hour(), Minute: t.Minute()}, nil
}

// Minutes returns the number of minutes since midnight.
func (t TimeOfDay) Minutes() int {
	return t.Hour*60 + t.Minute
}

// Add returns the time of day the given number of minutes later. Only the clock advances; a
// result past midnight wraps to the small hours.
func (t TimeOfDay) Add(minutes int) TimeOfDay {
	m := ((t.Minutes()+minutes)%minutesPerDay + minutesPerDay) % minutesPerDay
	return TimeOfDay{Hour: m / 60, Minute: m % 60}
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// MarshalText implements encoding.TextMarshaler.
func (t TimeOfDay) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *TimeOfDay) UnmarshalText(b []byte) error {
	parsed, err := ParseTimeOfDay(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Window is a daily business-hours interval, compared in each participant's own
// local time.
type Window struct {
	Start TimeOfDay `json:"start" yaml:"start"`
	End   TimeOfDay `json:"end" yaml:"end"`
}

// DefaultWindow is 09:00-17:00.
func DefaultWindow() Window {
	return Window{Start: TimeOfDay{Hour: 9}, End: TimeOfDay{Hour: 17}}
}

// Validate checks that the window does not end before it starts.
func (w Window) Validate() error {
	if w.End.Minutes() < w.Start.Minutes() {
		return fmt.Errorf("%w: %s-%s", ErrInvalidWindow, w.Start, w.End)
	}
	return nil
}

func (w Window) contains(t TimeOfDay) bool {
	m := t.Minutes()
	return m >= w.Start.Minutes() && m <= w.End.Minutes()
}

func (w Window) String() string {
	return w.Start.String() + "-" + w.End.String()
}

// IsSuitable reports whether a meeting starting at localStart and lasting
// durationMinutes both starts and ends inside the window. Both boundaries are
// inclusive. The end is compared as a bare time of day: 23:50 plus 30 minutes
// is 00:20, which lies before any window that does not start at midnight.
func IsSuitable(localStart TimeOfDay, durationMinutes int, w Window) bool {
	if !w.contains(localStart) {
		return false
	}
	return w.contains(localStart.Add(durationMinutes))
}
