package geo

import "testing"

func TestLookup(t *testing.T) {
	tests := []struct {
		zone    string
		wantLat float64
		wantOK  bool
	}{
		{"Europe/London", 51.5074, true},
		{"America/Argentina/Buenos_Aires", -34.6037, true},
		{"asia/TOKYO", 35.6762, true},
		{"UTC", 0, false},
		{"Europe/", 0, false},
		{"Antarctica/Troll", 0, false},
	}
	for _, tt := range tests {
		got, ok := Lookup(tt.zone)
		if ok != tt.wantOK || got.Lat != tt.wantLat {
			t.Errorf("Lookup(%q) = %+v, %v; want lat %v, %v", tt.zone, got, ok, tt.wantLat, tt.wantOK)
		}
	}
}

func TestDistance(t *testing.T) {
	london, _ := Lookup("Europe/London")
	paris, _ := Lookup("Europe/Paris")
	newYork, _ := Lookup("America/New_York")

	tests := []struct {
		name string
		a, b Coordinates
		want int
	}{
		{"london paris", london, paris, 344},
		{"new york london", newYork, london, 5570},
		{"same point", london, london, 0},
	}
	for _, tt := range tests {
		if got := Distance(tt.a, tt.b); got != tt.want {
			t.Errorf("%s: Distance = %d, want %d", tt.name, got, tt.want)
		}
		if got := Distance(tt.b, tt.a); got != tt.want {
			t.Errorf("%s: Distance not symmetric: %d", tt.name, got)
		}
	}
}

func TestTravel(t *testing.T) {
	info, ok := Travel("America/New_York", "Europe/London")
	if !ok {
		t.Fatal("Travel returned no data")
	}
	if info.DistanceKm != 5570 {
		t.Errorf("DistanceKm = %d, want 5570", info.DistanceKm)
	}
	want := map[string]float64{
		"plane": 7.0,
		"train": 22.3,
		"car":   61.9,
		"bus":   79.6,
		"bike":  278.5,
		"foot":  1114.0,
	}
	for mode, hours := range want {
		got, ok := info.Hours(mode)
		if !ok || got != hours {
			t.Errorf("Hours(%s) = %v, %v; want %v", mode, got, ok, hours)
		}
	}
	if _, ok := info.Hours("rocket"); ok {
		t.Error("Hours(rocket) reported a value")
	}

	if _, ok := Travel("UTC", "Europe/London"); ok {
		t.Error("Travel from UTC should have no data")
	}
	if _, ok := Travel("Europe/London", "Etc/GMT+5"); ok {
		t.Error("Travel to Etc/GMT+5 should have no data")
	}
}

func TestFormatHours(t *testing.T) {
	tests := map[float64]string{
		0.4:    "24m",
		7.0:    "7.0h",
		22.3:   "22.3h",
		278.5:  "12d",
		1114.0: "46d",
	}
	for in, want := range tests {
		if got := FormatHours(in); got != want {
			t.Errorf("FormatHours(%v) = %q, want %q", in, got, want)
		}
	}
}
