package landmarks

import (
	"slices"
	"testing"
)

func TestZones(t *testing.T) {
	zones, err := Zones()
	if err != nil {
		t.Fatalf("Zones: %v", err)
	}
	if len(zones) != 14 {
		t.Errorf("guide covers %d zones, want 14", len(zones))
	}
	if zones[0] != "Europe/London" || zones[len(zones)-1] != "America/Chicago" {
		t.Errorf("guide order = %v", zones)
	}
}

func TestLookup(t *testing.T) {
	tests := []struct {
		zone     string
		wantZone string
		wantOK   bool
	}{
		{"Europe/London", "Europe/London", true},
		{"asia/hong_kong", "Asia/Hong_Kong", true},
		{"US/Pacific", "", false},
		{"Asia/Kolkata", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := Lookup(tt.zone)
		if ok != tt.wantOK {
			t.Errorf("Lookup(%q) ok = %v, want %v", tt.zone, ok, tt.wantOK)
			continue
		}
		if ok && got.Zone != tt.wantZone {
			t.Errorf("Lookup(%q) = %s, want %s", tt.zone, got.Zone, tt.wantZone)
		}
	}
}

func TestLookupContent(t *testing.T) {
	london, ok := Lookup("Europe/London")
	if !ok {
		t.Fatal("no entry for London")
	}
	if !slices.Contains(london.FamousPlaces, "Big Ben") {
		t.Errorf("London famous places = %v", london.FamousPlaces)
	}
	if london.Population != "9 million (Greater London)" {
		t.Errorf("London population = %q", london.Population)
	}

	chicago, _ := Lookup("America/Chicago")
	if len(chicago.CulturalBehavior) == 0 || chicago.CulturalBehavior[0] != "Respect for traditions" {
		t.Errorf("Chicago cultural behavior = %v", chicago.CulturalBehavior)
	}

	// Lookups hand out copies.
	london.FamousPlaces = nil
	again, _ := Lookup("Europe/London")
	if len(again.FamousPlaces) == 0 {
		t.Error("mutating a lookup result changed the guide")
	}
}
