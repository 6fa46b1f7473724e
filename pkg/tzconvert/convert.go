package tzconvert

import (
	"fmt"
	"time"
)

// DayShift labels how the target calendar day relates to the source day.
type DayShift int

const (
	// SameDay means no shift was detected.
	SameDay DayShift = iota
	// NextDay means the target wall clock is on the following day.
	NextDay
	// PreviousDay means the target wall clock is on the preceding day.
	PreviousDay
)

func (d DayShift) String() string {
	switch d {
	case NextDay:
		return "next day"
	case PreviousDay:
		return "previous day"
	default:
		return ""
	}
}

// MarshalText implements encoding.TextMarshaler.
func (d DayShift) MarshalText() ([]byte, error) {
	switch d {
	case NextDay:
		return []byte("next_day"), nil
	case PreviousDay:
		return []byte("previous_day"), nil
	default:
		return []byte("same_day"), nil
	}
}

// Delta is the wall-clock difference between target and source.
// Hours and Minutes carry the same sign; each is truncated toward zero.
type Delta struct {
	Hours   int `json:"hours"`
	Minutes int `json:"minutes"`
}

// Label renders the delta as "3h 0m ahead" or "5h 30m behind".
// Equal wall clocks return the empty string.
func (d Delta) Label() string {
	total := d.Hours*60 + d.Minutes
	if total == 0 {
		return ""
	}
	direction := "ahead"
	if total < 0 {
		direction = "behind"
	}
	return fmt.Sprintf("%dh %dm %s", abs(d.Hours), abs(d.Minutes), direction)
}

// Conversion is the result of converting a wall clock between two zones.
type Conversion struct {
	Instant      time.Time `json:"instant"`
	SourceZone   string    `json:"source_zone"`
	TargetZone   string    `json:"target_zone"`
	Source       WallClock `json:"source"`
	Target       WallClock `json:"target"`
	TargetOffset string    `json:"target_offset"`
	Delta        Delta     `json:"delta"`
	DayShift     DayShift  `json:"day_shift"`
}

// Convert interprets date and clock in sourceZone and projects the resulting
// instant into targetZone.
// Example: Convert("2024-06-10", "23:00", "Europe/London", "Europe/Moscow")
// yields 01:00 on June 11, a delta of 2h 0m ahead and NextDay.
func Convert(date, clock, sourceZone, targetZone string) (*Conversion, error) {
	src, err := LoadZone(sourceZone)
	if err != nil {
		return nil, fmt.Errorf("source zone: %w", err)
	}
	dst, err := LoadZone(targetZone)
	if err != nil {
		return nil, fmt.Errorf("target zone: %w", err)
	}

	instant, err := Interpret(date, clock, src)
	if err != nil {
		return nil, err
	}

	source := Project(instant, src)
	target := Project(instant, dst)
	targetOffset := OffsetAt(instant, dst)
	diff := targetOffset - OffsetAt(instant, src)

	return &Conversion{
		Instant:      instant.UTC(),
		SourceZone:   sourceZone,
		TargetZone:   targetZone,
		Source:       source,
		Target:       target,
		TargetOffset: FormatOffset(targetOffset, true),
		Delta:        Delta{Hours: diff / 60, Minutes: diff % 60},
		DayShift:     DetectDayShift(source.Day, target.Day),
	}, nil
}

// DetectDayShift compares day-of-month numbers only. It treats a difference of
// one, or day 1 against a day from 28 on, as a one-day shift. Larger shifts
// near month boundaries are not recognized.
func DetectDayShift(sourceDay, targetDay int) DayShift {
	diff := targetDay - sourceDay
	switch {
	case diff == 1 || (targetDay == 1 && sourceDay >= 28):
		return NextDay
	case diff == -1 || (sourceDay == 1 && targetDay >= 28):
		return PreviousDay
	default:
		return SameDay
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
