// Package landmarks holds a small guide of sights and customs for major cities.
package landmarks

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed landmarks.yaml
var guideYAML []byte

// Info describes what a city is known for.
type Info struct {
	Zone                 string   `yaml:"zone" json:"zone"`
	CulturalSignificance string   `yaml:"cultural_significance" json:"cultural_significance"`
	Population           string   `yaml:"population" json:"population"`
	FamousPlaces         []string `yaml:"famous_places" json:"famous_places"`
	HistoricalFacts      []string `yaml:"historical_facts" json:"historical_facts"`
	Architecture         []string `yaml:"architecture" json:"architecture,omitempty"`
	Museums              []string `yaml:"museums" json:"museums,omitempty"`
	NaturalAttractions   []string `yaml:"natural_attractions" json:"natural_attractions,omitempty"`
	ModernLandmarks      []string `yaml:"modern_landmarks" json:"modern_landmarks,omitempty"`
	ReligiousPlaces      []string `yaml:"religious_places" json:"religious_places,omitempty"`
	SeasonalEvents       []string `yaml:"seasonal_events" json:"seasonal_events,omitempty"`
	CulturalBehavior     []string `yaml:"cultural_behavior" json:"cultural_behavior,omitempty"`
	LocalCustoms         []string `yaml:"local_customs" json:"local_customs,omitempty"`
	FoodHabits           []string `yaml:"food_habits" json:"food_habits,omitempty"`
	Festivals            []string `yaml:"festivals" json:"festivals,omitempty"`
	Languages            []string `yaml:"languages" json:"languages,omitempty"`
	BusinessEtiquette    []string `yaml:"business_etiquette" json:"business_etiquette,omitempty"`
}

var guide = sync.OnceValues(func() ([]Info, error) {
	var out []Info
	if err := yaml.Unmarshal(guideYAML, &out); err != nil {
		return nil, fmt.Errorf("decoding landmarks: %w", err)
	}
	return out, nil
})

// Lookup finds the guide entry for zone. The last path segment of zone is
// matched case-insensitively as a substring of the guide's zone ids, first
// match wins.
func Lookup(zone string) (*Info, bool) {
	entries, err := guide()
	if err != nil {
		return nil, false
	}
	seg := zone
	if i := strings.LastIndex(zone, "/"); i >= 0 {
		seg = zone[i+1:]
	}
	seg = strings.ToLower(seg)
	if seg == "" {
		return nil, false
	}
	for i := range entries {
		if strings.Contains(strings.ToLower(entries[i].Zone), seg) {
			info := entries[i]
			return &info, true
		}
	}
	return nil, false
}

// Zones lists the zones the guide covers, in guide order.
func Zones() ([]string, error) {
	entries, err := guide()
	if err != nil {
		return nil, err
	}
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Zone
	}
	return out, nil
}
