// Package calendar exports a chosen meeting slot as an iCalendar invitation.
package calendar

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/codeGROOVE-dev/tzmeet/pkg/planner"
	"github.com/codeGROOVE-dev/tzmeet/pkg/tzconvert"
	"github.com/google/uuid"
)

const productID = "-//codeGROOVE//tzmeet//EN"

// DefaultSummary titles invitations created without one.
const DefaultSummary = "Meeting"

// MeetingICS renders a VCALENDAR holding one event that starts at slot and
// lasts durationMinutes. The description lists each participant's local start.
func MeetingICS(slot planner.Slot, durationMinutes int, participants []planner.Participant, summary string) (string, error) {
	if slot.StartUTC.IsZero() {
		return "", errors.New("slot has no start time")
	}
	if durationMinutes < 1 {
		return "", fmt.Errorf("%w: %d minutes", planner.ErrInvalidDuration, durationMinutes)
	}
	summary = strings.TrimSpace(summary)
	if summary == "" {
		summary = DefaultSummary
	}

	var desc strings.Builder
	for _, p := range participants {
		loc, err := tzconvert.LoadZone(p.Zone)
		if err != nil {
			return "", fmt.Errorf("participant %q: %w", p.Name, err)
		}
		local := slot.StartUTC.In(loc)
		abbr, _ := local.Zone()
		fmt.Fprintf(&desc, "%s (%s): %s %s\n", p.Name, p.Zone, local.Format("Mon Jan 2 15:04"), abbr)
	}

	cal := ical.NewCalendar()
	cal.SetProductId(productID)
	cal.SetMethod(ical.MethodPublish)

	start := slot.StartUTC.UTC()
	event := cal.AddEvent(uuid.NewString() + "@tzmeet")
	event.SetDtStampTime(time.Now().UTC())
	event.SetStartAt(start)
	event.SetEndAt(start.Add(time.Duration(durationMinutes) * time.Minute))
	event.SetSummary(summary)
	if desc.Len() > 0 {
		event.SetDescription(strings.TrimRight(desc.String(), "\n"))
	}
	return cal.Serialize(), nil
}

// Event is the subset of a parsed invitation tests and clients care about.
type Event struct {
	Start       time.Time
	End         time.Time
	UID         string
	Summary     string
	Description string
}

// Parse reads the events of an iCalendar document.
func Parse(r io.Reader) ([]Event, error) {
	cal, err := ical.ParseCalendar(r)
	if err != nil {
		return nil, fmt.Errorf("parsing calendar: %w", err)
	}
	var out []Event
	for _, ve := range cal.Events() {
		var e Event
		if p := ve.GetProperty(ical.ComponentPropertyUniqueId); p != nil {
			e.UID = p.Value
		}
		if p := ve.GetProperty(ical.ComponentPropertySummary); p != nil {
			e.Summary = p.Value
		}
		if p := ve.GetProperty(ical.ComponentPropertyDescription); p != nil {
			e.Description = p.Value
		}
		if e.Start, err = ve.GetStartAt(); err != nil {
			return nil, fmt.Errorf("event %s start: %w", e.UID, err)
		}
		if e.End, err = ve.GetEndAt(); err != nil {
			return nil, fmt.Errorf("event %s end: %w", e.UID, err)
		}
		out = append(out, e)
	}
	return out, nil
}
