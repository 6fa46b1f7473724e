// Package tzconvert provides foolproof timezone conversion utilities.
// All zone math is delegated to the IANA database shipped with Go; nothing here
// encodes DST rules of its own. Instants are stored as time.Time and projected
// into a zone only for display.
package tzconvert

import (
	"errors"
	"fmt"
	"strings"
	"time"
	_ "time/tzdata" // results must not depend on the host's zoneinfo
)

var (
	// ErrUnknownZone is returned for zone identifiers the database cannot resolve.
	ErrUnknownZone = errors.New("unknown time zone")
	// ErrInvalidInstant is returned when a date, time and zone do not name a real instant.
	ErrInvalidInstant = errors.New("invalid date/time")
)

const (
	dateLayout  = "2006-01-02"
	clockLayout = "15:04"
)

// WallClock is the projection of an instant into a zone. It carries no zone of
// its own; recompute it from the instant whenever it is needed.
type WallClock struct {
	Year   int        `json:"year"`
	Month  time.Month `json:"month"`
	Day    int        `json:"day"`
	Hour   int        `json:"hour"`
	Minute int        `json:"minute"`
	Second int        `json:"second"`
}

// String formats the wall clock as "2006-01-02 15:04:05".
func (w WallClock) String() string {
	return fmt.Sprintf("%04d-%02d-%02d %02d:%02d:%02d", w.Year, int(w.Month), w.Day, w.Hour, w.Minute, w.Second)
}

// Clock formats the time of day as "15:04".
func (w WallClock) Clock() string {
	return fmt.Sprintf("%02d:%02d", w.Hour, w.Minute)
}

// LoadZone resolves an IANA zone identifier.
// "UTC" is accepted; the empty string and "Local" are not, since they would
// silently resolve to whatever the host happens to be configured with.
func LoadZone(id string) (*time.Location, error) {
	id = strings.TrimSpace(id)
	if id == "" || id == "Local" {
		return nil, fmt.Errorf("%w: %q", ErrUnknownZone, id)
	}
	loc, err := time.LoadLocation(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownZone, id)
	}
	return loc, nil
}

// IsValidZone reports whether id names a zone in the database.
func IsValidZone(id string) bool {
	_, err := LoadZone(id)
	return err == nil
}

// Interpret reads date ("2006-01-02") and clock ("15:04") as wall-clock time in loc.
// Seconds are always zero. Wall clocks that do not exist in loc, such as
// 01:30 on the morning clocks spring forward, return ErrInvalidInstant.
// Ambiguous wall clocks during a fall-back transition resolve the way
// time.Date does and are not an error.
func Interpret(date, clock string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		return time.Time{}, fmt.Errorf("%w: no zone", ErrInvalidInstant)
	}
	d, err := time.Parse(dateLayout, strings.TrimSpace(date))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q", ErrInvalidInstant, date)
	}
	c, err := time.Parse(clockLayout, strings.TrimSpace(clock))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: time %q", ErrInvalidInstant, clock)
	}

	t := time.Date(d.Year(), d.Month(), d.Day(), c.Hour(), c.Minute(), 0, 0, loc)

	// time.Date normalizes nonexistent wall clocks instead of failing, so the
	// only reliable check is that the projection round-trips.
	if t.Year() != d.Year() || t.Month() != d.Month() || t.Day() != d.Day() ||
		t.Hour() != c.Hour() || t.Minute() != c.Minute() {
		return time.Time{}, fmt.Errorf("%w: %s %s does not exist in %s", ErrInvalidInstant, date, clock, loc)
	}
	return t, nil
}

// Project returns the wall clock of instant in loc.
func Project(instant time.Time, loc *time.Location) WallClock {
	t := instant.In(loc)
	return WallClock{
		Year:   t.Year(),
		Month:  t.Month(),
		Day:    t.Day(),
		Hour:   t.Hour(),
		Minute: t.Minute(),
		Second: t.Second(),
	}
}

// IsDST reports whether instant falls in a daylight-saving period in loc.
func IsDST(instant time.Time, loc *time.Location) bool {
	return instant.In(loc).IsDST()
}

// OffsetAt returns loc's offset from UTC at instant, in minutes east of UTC.
// Example: America/New_York in July returns -240, Asia/Kolkata returns 330.
func OffsetAt(instant time.Time, loc *time.Location) int {
	_, seconds := instant.In(loc).Zone()
	return seconds / 60
}

// FormatOffset renders an offset in minutes as "+05:30" (long) or "+0530" (short).
func FormatOffset(minutes int, long bool) string {
	sign := '+'
	if minutes < 0 {
		sign = '-'
		minutes = -minutes
	}
	if long {
		return fmt.Sprintf("%c%02d:%02d", sign, minutes/60, minutes%60)
	}
	return fmt.Sprintf("%c%02d%02d", sign, minutes/60, minutes%60)
}
