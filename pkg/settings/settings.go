// Package settings exports and imports a user's zone preferences as JSON.
package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"

	"github.com/codeGROOVE-dev/tzmeet/pkg/tzconvert"
	"github.com/codeGROOVE-dev/tzmeet/pkg/zones"
)

// FileName is the conventional name of an exported settings file.
const FileName = "timezone-settings.json"

// Settings is the exported document.
type Settings struct {
	SourceZone      string   `json:"sourceZone"`
	TargetZone      string   `json:"targetZone"`
	RecentTimezones []string `json:"recentTimezones"`
	Analytics       bool     `json:"analytics"`
}

// Capture builds a document from the live recent list and the last conversion's zones.
func Capture(recent *zones.Recent, source, target string, analytics bool) Settings {
	s := Settings{SourceZone: source, TargetZone: target, Analytics: analytics}
	if recent != nil {
		s.RecentTimezones = recent.List()
	}
	if s.RecentTimezones == nil {
		s.RecentTimezones = []string{}
	}
	return s
}

// Validate checks every zone in the document.
func (s Settings) Validate() error {
	for _, z := range s.RecentTimezones {
		if !tzconvert.IsValidZone(z) {
			return fmt.Errorf("recent timezones: %w: %q", tzconvert.ErrUnknownZone, z)
		}
	}
	if s.SourceZone != "" && !tzconvert.IsValidZone(s.SourceZone) {
		return fmt.Errorf("sourceZone: %w: %q", tzconvert.ErrUnknownZone, s.SourceZone)
	}
	if s.TargetZone != "" && !tzconvert.IsValidZone(s.TargetZone) {
		return fmt.Errorf("targetZone: %w: %q", tzconvert.ErrUnknownZone, s.TargetZone)
	}
	return nil
}

// ApplyRecent replaces the contents of r with the document's recent list,
// keeping its most-recent-first order.
func (s Settings) ApplyRecent(r *zones.Recent) {
	r.Clear()
	for _, z := range slices.Backward(s.RecentTimezones) {
		r.Add(z)
	}
}

// Export writes s as JSON.
func Export(w io.Writer, s Settings) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("encoding settings: %w", err)
	}
	return nil
}

// Import reads and validates a settings document.
func Import(r io.Reader) (Settings, error) {
	var s Settings
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return Settings{}, fmt.Errorf("decoding settings: %w", err)
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Load reads settings from path. A missing file yields empty settings.
func Load(path string) (Settings, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Settings{RecentTimezones: []string{}}, nil
		}
		return Settings{}, fmt.Errorf("opening settings: %w", err)
	}
	defer f.Close() //nolint:errcheck // read-only
	return Import(f)
}

// Save writes settings to path atomically.
func Save(path string, s Settings) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("creating settings directory: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".settings-*.json")
	if err != nil {
		return fmt.Errorf("creating temp settings file: %w", err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // gone after a successful rename

	if err := Export(tmp, s); err != nil {
		_ = tmp.Close() //nolint:errcheck // already failing
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close() //nolint:errcheck // already failing
		return fmt.Errorf("syncing temp settings file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp settings file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replacing settings file: %w", err)
	}
	return nil
}
