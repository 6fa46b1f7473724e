// Package zones lists the selectable time zones, remembers recent choices and
// detects a zone from the host or from coordinates.
package zones

import (
	"cmp"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/bradfitz/latlong"
	"github.com/codeGROOVE-dev/tzmeet/pkg/tzconvert"
)

// Zone is one entry of the directory.
type Zone struct {
	ID            string `json:"id"`
	Offset        string `json:"offset"` // +05:30
	Abbreviation  string `json:"abbreviation"`
	OffsetMinutes int    `json:"offset_minutes"`
}

// Directory serves the zone catalog sorted by current offset.
type Directory struct {
	cache     *OffsetCache
	logger    *slog.Logger
	localZone string
}

// NewDirectory builds a directory around cache. localZone, when valid and not
// already in the catalog, is listed as well.
func NewDirectory(localZone string, cache *OffsetCache, logger *slog.Logger) *Directory {
	if logger == nil {
		logger = slog.Default()
	}
	if cache == nil {
		cache = NewOffsetCache(0, logger)
	}
	return &Directory{cache: cache, logger: logger, localZone: localZone}
}

// Available returns every selectable zone ordered by UTC offset, west to east.
// Zones with equal offsets keep their catalog order.
func (d *Directory) Available() ([]Zone, error) {
	ids := Catalog
	if d.localZone != "" && tzconvert.IsValidZone(d.localZone) && !slices.Contains(Catalog, d.localZone) {
		ids = append([]string{d.localZone}, Catalog...)
	}

	out := make([]Zone, 0, len(ids))
	for _, id := range ids {
		entry, err := d.cache.Offset(id)
		if err != nil {
			if errors.Is(err, ErrCacheClosed) {
				return nil, err
			}
			// Older tzdata releases lack a handful of catalog ids.
			d.logger.Debug("skipping zone", "zone", id, "error", err)
			continue
		}
		out = append(out, Zone{
			ID:            id,
			OffsetMinutes: entry.OffsetMinutes,
			Offset:        tzconvert.FormatOffset(entry.OffsetMinutes, true),
			Abbreviation:  entry.Abbreviation,
		})
	}
	slices.SortStableFunc(out, func(a, b Zone) int {
		return cmp.Compare(a.OffsetMinutes, b.OffsetMinutes)
	})
	return out, nil
}

// Search filters Available by a case-insensitive substring of the zone id.
// Spaces in the query match underscores, so "new york" finds America/New_York.
func (d *Directory) Search(query string) ([]Zone, error) {
	all, err := d.Available()
	if err != nil {
		return nil, err
	}
	q := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(query), " ", "_"))
	if q == "" {
		return all, nil
	}
	return slices.DeleteFunc(all, func(z Zone) bool {
		return !strings.Contains(strings.ToLower(z.ID), q)
	}), nil
}

// DetectFromCoordinates returns the zone containing a point.
func DetectFromCoordinates(lat, lon float64) (string, error) {
	name := latlong.LookupZoneName(lat, lon)
	if name == "" || !tzconvert.IsValidZone(name) {
		return "", fmt.Errorf("%w: no zone at %.4f,%.4f", tzconvert.ErrUnknownZone, lat, lon)
	}
	return name, nil
}

// DetectLocal guesses the host's zone from $TZ or the /etc/localtime link,
// falling back to UTC.
func DetectLocal() string {
	if tz := strings.TrimPrefix(os.Getenv("TZ"), ":"); tzconvert.IsValidZone(tz) {
		return tz
	}
	if target, err := os.Readlink("/etc/localtime"); err == nil {
		if _, zone, ok := strings.Cut(target, "zoneinfo/"); ok && tzconvert.IsValidZone(zone) {
			return zone
		}
	}
	return "UTC"
}
