package planner

import (
	"errors"
	"fmt"
	"iter"
	"slices"
	"time"

	"github.com/codeGROOVE-dev/tzmeet/pkg/constants"
	"github.com/codeGROOVE-dev/tzmeet/pkg/tzconvert"
)

var (
	// ErrNoParticipants is returned when scanning without anyone to schedule for.
	ErrNoParticipants = errors.New("at least one participant is required")
	// ErrInvalidDuration is returned for durations outside 1..1440 minutes.
	ErrInvalidDuration = errors.New("invalid meeting duration")
)

// Durations lists the meeting lengths offered to users, in minutes.
var Durations = []int{15, 30, 45, 60, 90, 120}

// LocalStart is a slot's start time seen from one participant's zone.
type LocalStart struct {
	ParticipantID string `json:"participant_id"`
	Clock         string `json:"clock"` // 15:04
}

// Slot is one candidate meeting start.
type Slot struct {
	StartUTC time.Time    `json:"start_utc"`
	Label    string       `json:"label"` // UTC 15:04
	Suitable bool         `json:"suitable"`
	Local    []LocalStart `json:"local"`
}

type resolved struct {
	id  string
	loc *time.Location
}

// Scan checks every half hour of date, 00:00 to 23:30 UTC, against each
// participant's business hours. A slot is suitable only when the meeting starts
// and ends inside the window for all participants.
//
// Inputs are validated before the sequence is returned. The sequence is pure:
// ranging over it again yields identical slots.
func Scan(date string, participants []Participant, durationMinutes int, window Window) (iter.Seq[Slot], error) {
	day, err := tzconvert.Interpret(date, "00:00", time.UTC)
	if err != nil {
		return nil, err
	}
	if durationMinutes < 1 || durationMinutes > minutesPerDay {
		return nil, fmt.Errorf("%w: %d minutes", ErrInvalidDuration, durationMinutes)
	}
	if err := window.Validate(); err != nil {
		return nil, err
	}
	if len(participants) == 0 {
		return nil, ErrNoParticipants
	}

	zones := make([]resolved, 0, len(participants))
	for _, p := range participants {
		loc, err := tzconvert.LoadZone(p.Zone)
		if err != nil {
			return nil, fmt.Errorf("participant %q: %w", p.Name, err)
		}
		zones = append(zones, resolved{id: p.ID, loc: loc})
	}

	return func(yield func(Slot) bool) {
		for i := range constants.SlotsPerDay {
			start := day.Add(time.Duration(i) * constants.SlotInterval)
			slot := Slot{
				StartUTC: start,
				Label:    start.Format("15:04"),
				Suitable: true,
				Local:    make([]LocalStart, 0, len(zones)),
			}
			for _, z := range zones {
				w := tzconvert.Project(start, z.loc)
				slot.Local = append(slot.Local, LocalStart{ParticipantID: z.id, Clock: w.Clock()})
				if slot.Suitable && !IsSuitable(TimeOfDay{Hour: w.Hour, Minute: w.Minute}, durationMinutes, window) {
					slot.Suitable = false
				}
			}
			if !yield(slot) {
				return
			}
		}
	}, nil
}

// Collect materializes a scan.
func Collect(seq iter.Seq[Slot]) []Slot {
	return slices.Collect(seq)
}

// SuitableOnly filters a scan down to the slots everyone can attend.
func SuitableOnly(seq iter.Seq[Slot]) iter.Seq[Slot] {
	return func(yield func(Slot) bool) {
		for s := range seq {
			if s.Suitable && !yield(s) {
				return
			}
		}
	}
}

// Hourly keeps the slots that start on the hour, the planner table's view.
func Hourly(slots []Slot) []Slot {
	out := make([]Slot, 0, len(slots)/2)
	for i, s := range slots {
		if i%2 == 0 {
			out = append(out, s)
		}
	}
	return out
}
