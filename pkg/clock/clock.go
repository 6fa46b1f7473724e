// Package clock describes the wall clock of a zone at an instant and keeps the
// ordered list of clocks shown on a world-clock board.
package clock

import (
	"fmt"
	"strings"
	"time"

	"github.com/codeGROOVE-dev/tzmeet/pkg/tzconvert"
)

// Description is what a single clock face shows.
type Description struct {
	Zone         string `json:"zone"`
	Label        string `json:"label,omitempty"`
	LocalTime    string `json:"local_time"`   // 15:04:05
	Date         string `json:"date"`         // Mon, Jan 2, 2006
	Offset       string `json:"offset"`       // +05:30
	OffsetShort  string `json:"offset_short"` // +0530
	Abbreviation string `json:"abbreviation"`
	IsDST        bool   `json:"is_dst"`
	IsDaytime    bool   `json:"is_daytime"`
}

// Describe projects instant into zone.
func Describe(zone string, instant time.Time) (*Description, error) {
	loc, err := tzconvert.LoadZone(zone)
	if err != nil {
		return nil, err
	}

	local := instant.In(loc)
	abbr, _ := local.Zone()
	offset := tzconvert.OffsetAt(instant, loc)

	return &Description{
		Zone:         zone,
		LocalTime:    local.Format("15:04:05"),
		Date:         local.Format("Mon, Jan 2, 2006"),
		Offset:       tzconvert.FormatOffset(offset, true),
		OffsetShort:  tzconvert.FormatOffset(offset, false),
		Abbreviation: abbr,
		IsDST:        tzconvert.IsDST(instant, loc),
		IsDaytime:    local.Hour() >= 6 && local.Hour() < 18,
	}, nil
}

// DSTAtNoon reports whether zone observes DST at 12:00 local time on date.
// Noon keeps the check clear of the early-morning transition hours.
func DSTAtNoon(date, zone string) (bool, error) {
	loc, err := tzconvert.LoadZone(zone)
	if err != nil {
		return false, err
	}
	noon, err := tzconvert.Interpret(date, "12:00", loc)
	if err != nil {
		return false, fmt.Errorf("dst check: %w", err)
	}
	return tzconvert.IsDST(noon, loc), nil
}

// LabelFor derives a display label from the city part of a zone identifier.
// Example: "America/Argentina/Buenos_Aires" becomes "Buenos Aires".
func LabelFor(zone string) string {
	city := zone
	if i := strings.LastIndex(zone, "/"); i >= 0 {
		city = zone[i+1:]
	}
	if city == "" {
		return zone
	}
	return strings.ReplaceAll(city, "_", " ")
}
