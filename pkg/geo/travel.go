package geo

import (
	"fmt"
	"math"
)

// Mode is a way of getting somewhere at a typical cruising speed.
type Mode struct {
	Name     string
	SpeedKmh float64
}

// Modes are listed fastest first.
var Modes = []Mode{
	{Name: "plane", SpeedKmh: 800},
	{Name: "train", SpeedKmh: 250},
	{Name: "car", SpeedKmh: 90},
	{Name: "bus", SpeedKmh: 70},
	{Name: "bike", SpeedKmh: 20},
	{Name: "foot", SpeedKmh: 5},
}

// Leg is the time one mode needs to cover a distance.
type Leg struct {
	Mode  string  `json:"mode"`
	Hours float64 `json:"hours"`
}

// TravelInfo is the distance between two zones and how long each mode takes.
type TravelInfo struct {
	From       Coordinates `json:"from"`
	To         Coordinates `json:"to"`
	Legs       []Leg       `json:"legs"`
	DistanceKm int         `json:"distance_km"`
}

// Hours returns the travel time for mode, or false if the mode is unknown.
func (t *TravelInfo) Hours(mode string) (float64, bool) {
	for _, l := range t.Legs {
		if l.Mode == mode {
			return l.Hours, true
		}
	}
	return 0, false
}

// Travel estimates the trip between the cities of two zones. It returns false
// when either zone has no known coordinates.
func Travel(fromZone, toZone string) (*TravelInfo, bool) {
	from, ok := Lookup(fromZone)
	if !ok {
		return nil, false
	}
	to, ok := Lookup(toZone)
	if !ok {
		return nil, false
	}

	km := Distance(from, to)
	info := &TravelInfo{From: from, To: to, DistanceKm: km, Legs: make([]Leg, 0, len(Modes))}
	for _, m := range Modes {
		info.Legs = append(info.Legs, Leg{Mode: m.Name, Hours: math.Round(float64(km)/m.SpeedKmh*10) / 10})
	}
	return info, true
}

// FormatHours renders a duration in hours the way travel panels show it:
// "45m" below an hour, "7.0h" up to two days, "46d" beyond.
func FormatHours(h float64) string {
	switch {
	case h < 1:
		return fmt.Sprintf("%dm", int(math.Round(h*60)))
	case h < 48:
		return fmt.Sprintf("%.1fh", h)
	default:
		return fmt.Sprintf("%dd", int(math.Round(h/24)))
	}
}
