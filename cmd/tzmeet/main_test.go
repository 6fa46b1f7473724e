package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/codeGROOVE-dev/tzmeet/pkg/tzconvert"
	"github.com/fatih/color"
)

func init() {
	color.NoColor = true
}

type cli struct {
	t      *testing.T
	dir    string
	config string
}

func newCLI(t *testing.T) *cli {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("TZ", "Europe/London")
	t.Setenv("TZMEET_CONFIG", "")
	return &cli{t: t, dir: dir, config: filepath.Join(dir, "tzmeet", "config.yaml")}
}

func (c *cli) run(args ...string) (string, error) {
	c.t.Helper()
	a := &app{now: func() time.Time { return time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC) }}
	root := newRootCmd(a)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append(args, "--config", c.config, "--no-weather"))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func (c *cli) mustRun(args ...string) string {
	c.t.Helper()
	out, err := c.run(args...)
	if err != nil {
		c.t.Fatalf("tzmeet %s: %v\n%s", strings.Join(args, " "), err, out)
	}
	return out
}

func TestVersion(t *testing.T) {
	c := newCLI(t)
	if out := c.mustRun("version"); !strings.Contains(out, "tzmeet dev") {
		t.Errorf("version = %q", out)
	}
	if _, err := os.Stat(c.config); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("version created a config file: %v", err)
	}
}

func TestConvertCommand(t *testing.T) {
	c := newCLI(t)
	out := c.mustRun("convert", "23:00", "--date", "2024-01-15", "--from", "Europe/London", "--to", "Europe/Moscow")
	for _, want := range []string{"2024-01-16 02:00:00", "3h 0m ahead", "next day"} {
		if !strings.Contains(out, want) {
			t.Errorf("convert missing %q:\n%s", want, out)
		}
	}
	if _, err := os.Stat(c.config); err != nil {
		t.Errorf("first run did not write the config: %v", err)
	}

	// The previous conversion's zones are the defaults.
	out = c.mustRun("convert", "12:00", "--date", "2024-01-15")
	if !strings.Contains(out, "Europe/Moscow") || !strings.Contains(out, "2024-01-15 15:00:00") {
		t.Errorf("convert with remembered zones:\n%s", out)
	}

	if out := c.mustRun("zones", "--recent"); !strings.HasPrefix(out, "Europe/Moscow\nEurope/London\n") {
		t.Errorf("recent zones:\n%s", out)
	}

	if _, err := c.run("convert", "09:00", "--from", "Atlantis/Capital"); !errors.Is(err, tzconvert.ErrUnknownZone) {
		t.Errorf("unknown zone: %v", err)
	}
	if _, err := c.run("convert", "25:00"); !errors.Is(err, tzconvert.ErrInvalidInstant) {
		t.Errorf("bad time: %v", err)
	}
}

func TestPlanCommand(t *testing.T) {
	c := newCLI(t)
	ics := filepath.Join(c.dir, "sync.ics")
	out := c.mustRun("plan", "--date", "2024-01-15", "--with", "Ana=America/New_York",
		"--slot", "14:00", "--ics", ics, "--summary", "Weekly sync")
	for _, want := range []string{"✓ 14:00", "3 of 24 slots work for everyone", "written to " + ics} {
		if !strings.Contains(out, want) {
			t.Errorf("plan missing %q:\n%s", want, out)
		}
	}
	data, err := os.ReadFile(ics)
	if err != nil {
		t.Fatalf("reading invitation: %v", err)
	}
	if !strings.Contains(string(data), "DTSTART:20240115T140000Z") || !strings.Contains(string(data), "SUMMARY:Weekly sync") {
		t.Errorf("invitation:\n%s", data)
	}

	out = c.mustRun("plan", "--date", "2024-01-15", "--with", "Ana=America/New_York", "--all", "--start", "10:00", "--end", "18:00")
	if !strings.Contains(out, "business hours 10:00-18:00") || !strings.Contains(out, "of 48 slots") {
		t.Errorf("plan --all with custom hours:\n%s", out)
	}

	for _, args := range [][]string{
		{"plan", "--with", "Ana"},
		{"plan", "--with", "Ana=Nowhere"},
		{"plan", "--start", "nine"},
		{"plan", "--ics", filepath.Join(c.dir, "x.ics")},
	} {
		if _, err := c.run(args...); err == nil {
			t.Errorf("tzmeet %s succeeded", strings.Join(args, " "))
		}
	}
}

func TestZonesCommand(t *testing.T) {
	c := newCLI(t)
	out := c.mustRun("zones", "tokyo")
	if !strings.Contains(out, "UTC+09:00") || !strings.Contains(out, "Asia/Tokyo") {
		t.Errorf("zones tokyo:\n%s", out)
	}
	if out := c.mustRun("zones", "--lat", "35.68", "--lon", "139.69"); strings.TrimSpace(out) != "Asia/Tokyo" {
		t.Errorf("zone at coordinates = %q", out)
	}
	if _, err := c.run("zones", "xyzzy"); err == nil {
		t.Error("zones accepted a query that matches nothing")
	}
	if out := c.mustRun("zones", "--recent"); !strings.Contains(out, "No recent zones") {
		t.Errorf("empty recent list:\n%s", out)
	}
}

func TestExtrasCommand(t *testing.T) {
	c := newCLI(t)
	out := c.mustRun("extras", "Europe/Paris", "--from", "Europe/London")
	for _, want := range []string{"Europe/London", "344 km", "Eiffel"} {
		if !strings.Contains(out, want) {
			t.Errorf("extras missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Weather") {
		t.Errorf("weather shown with lookups disabled:\n%s", out)
	}

	out = c.mustRun("extras", "Europe/Paris", "--from", "Europe/London", "--format", "html")
	if !strings.Contains(out, "<h2>Travel</h2>") {
		t.Errorf("html extras:\n%s", out)
	}
	if _, err := c.run("extras", "Europe/Paris", "--format", "pdf"); err == nil {
		t.Error("extras accepted an unknown format")
	}
}

func TestSettingsCommands(t *testing.T) {
	c := newCLI(t)
	good := filepath.Join(c.dir, "good.json")
	doc := `{"recentTimezones":["Asia/Tokyo","America/Chicago"],"sourceZone":"Asia/Tokyo","targetZone":"UTC","analytics":false}`
	if err := os.WriteFile(good, []byte(doc), 0o600); err != nil {
		t.Fatal(err)
	}
	if out := c.mustRun("settings", "import", good); !strings.Contains(out, "Imported 2 recent zones") {
		t.Errorf("import:\n%s", out)
	}
	if out := c.mustRun("zones", "--recent"); out != "Asia/Tokyo\nAmerica/Chicago\n" {
		t.Errorf("recent after import = %q", out)
	}

	out := c.mustRun("settings", "export")
	for _, want := range []string{`"recentTimezones"`, `"Asia/Tokyo"`, `"sourceZone": "Asia/Tokyo"`} {
		if !strings.Contains(out, want) {
			t.Errorf("export missing %s:\n%s", want, out)
		}
	}

	bad := filepath.Join(c.dir, "bad.json")
	if err := os.WriteFile(bad, []byte(`{"recentTimezones":["Mars/Olympus"]}`), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := c.run("settings", "import", bad); !errors.Is(err, tzconvert.ErrUnknownZone) {
		t.Errorf("import of unknown zone: %v", err)
	}
	if out := c.mustRun("zones", "--recent"); out != "Asia/Tokyo\nAmerica/Chicago\n" {
		t.Errorf("failed import changed recent zones: %q", out)
	}
}

func TestClocksCommand(t *testing.T) {
	c := newCLI(t)
	out := c.mustRun("clocks", "Asia/Kolkata")
	for _, want := range []string{"World clock", "Local Time", "12:00:00", "Kolkata", "17:30:00"} {
		if !strings.Contains(out, want) {
			t.Errorf("clocks missing %q:\n%s", want, out)
		}
	}
	if _, err := c.run("clocks", "--local-zone", "Nowhere/Special"); !errors.Is(err, tzconvert.ErrUnknownZone) {
		t.Errorf("bad --local-zone: %v", err)
	}
}
