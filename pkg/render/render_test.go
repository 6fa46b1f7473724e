package render

import (
	"strings"
	"testing"
	"time"

	"github.com/codeGROOVE-dev/tzmeet/pkg/clock"
	"github.com/codeGROOVE-dev/tzmeet/pkg/geo"
	"github.com/codeGROOVE-dev/tzmeet/pkg/landmarks"
	"github.com/codeGROOVE-dev/tzmeet/pkg/planner"
	"github.com/codeGROOVE-dev/tzmeet/pkg/tzconvert"
	"github.com/codeGROOVE-dev/tzmeet/pkg/weather"
	"github.com/fatih/color"
)

func init() {
	color.NoColor = true
}

func TestSlots(t *testing.T) {
	participants := []planner.Participant{
		{ID: "local", Name: "Me", Zone: "Europe/London"},
		{ID: "b", Name: "Bartholomew Longname", Zone: "America/New_York"},
	}
	seq, err := planner.Scan("2024-01-15", participants, 60, planner.DefaultWindow())
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	out := Slots(Plan{
		Slots:        planner.Hourly(planner.Collect(seq)),
		Participants: participants,
		Window:       planner.DefaultWindow(),
		Duration:     60,
	})

	if !strings.Contains(out, "business hours 09:00-17:00") {
		t.Errorf("missing header:\n%s", out)
	}
	if !strings.Contains(out, "Bartholome… ") {
		t.Errorf("long name not truncated:\n%s", out)
	}
	if !strings.Contains(out, "✓ 14:00") || !strings.Contains(out, "✓ 16:00") {
		t.Errorf("suitable rows not marked:\n%s", out)
	}
	if strings.Contains(out, "✓ 13:00") {
		t.Errorf("13:00 marked suitable:\n%s", out)
	}
	if !strings.Contains(out, "3 of 24 slots work for everyone") {
		t.Errorf("missing summary:\n%s", out)
	}
}

func TestSlotsNoneSuitable(t *testing.T) {
	participants := []planner.Participant{{ID: "a", Name: "A", Zone: "Asia/Tokyo"}, {ID: "b", Name: "B", Zone: "America/New_York"}}
	seq, _ := planner.Scan("2024-01-15", participants, 30, planner.DefaultWindow())
	out := Slots(Plan{Slots: planner.Collect(seq), Participants: participants, Window: planner.DefaultWindow(), Duration: 30})
	if !strings.Contains(out, "No slot fits") {
		t.Errorf("missing empty notice:\n%s", out)
	}
}

func TestClocks(t *testing.T) {
	b := clock.NewBoard("Asia/Tokyo")
	out := Clocks(b.Snapshot(time.Date(2024, 7, 4, 16, 30, 0, 0, time.UTC)))
	for _, want := range []string{"☾ Local Time", "01:30:00", "☀ New York", "12:30:00", "UTC-04:00 EDT DST"} {
		if !strings.Contains(out, want) {
			t.Errorf("clocks missing %q:\n%s", want, out)
		}
	}
}

func TestConversion(t *testing.T) {
	c, err := tzconvert.Convert("2024-01-15", "23:00", "Europe/London", "Europe/Moscow")
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	out := Conversion(c, false, false)
	for _, want := range []string{"2024-01-15 23:00:00", "2024-01-16 02:00:00 +03:00", "3h 0m ahead, next day"} {
		if !strings.Contains(out, want) {
			t.Errorf("conversion missing %q:\n%s", want, out)
		}
	}

	same, _ := tzconvert.Convert("2024-01-15", "12:00", "UTC", "Etc/UTC")
	if out := Conversion(same, false, false); !strings.Contains(out, "same time") {
		t.Errorf("same-zone conversion:\n%s", out)
	}
}

func TestReport(t *testing.T) {
	c, err := tzconvert.Convert("2024-07-01", "09:00", "America/New_York", "Europe/London")
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	travel, _ := geo.Travel("America/New_York", "Europe/London")
	info, _ := landmarks.Lookup("Europe/London")
	coords, _ := geo.Lookup("Europe/London")
	r := Report{
		Conversion:  c,
		SourceDST:   true,
		TargetDST:   true,
		Weather:     &weather.Data{Location: "London", Description: "Overcast", Temperature: 18, Humidity: 70, WindSpeed: 9},
		Travel:      travel,
		Landmark:    info,
		Coordinates: &coords,
	}

	html, err := ReportHTML(r)
	if err != nil {
		t.Fatalf("ReportHTML: %v", err)
	}
	if !strings.Contains(html, "<h2>Weather in London</h2>") {
		t.Errorf("html missing weather:\n%s", html)
	}

	out, err := ReportMarkdown(r)
	if err != nil {
		t.Fatalf("ReportMarkdown: %v", err)
	}
	for _, want := range []string{"## Weather in London", "5570 km", "Big Ben", "5h 0m ahead"} {
		if !strings.Contains(out, want) {
			t.Errorf("markdown missing %q:\n%s", want, out)
		}
	}

	bare, err := ReportMarkdown(Report{Conversion: c})
	if err != nil {
		t.Fatalf("ReportMarkdown(bare): %v", err)
	}
	if strings.Contains(bare, "Weather") || strings.Contains(bare, "Travel") {
		t.Errorf("bare report shows extras:\n%s", bare)
	}

	if _, err := ReportHTML(Report{}); err == nil {
		t.Error("ReportHTML accepted a report without conversion")
	}
}
