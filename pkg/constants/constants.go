// Package constants defines shared constants for the tzmeet application.
package constants

import "time"

// SlotInterval is the spacing of candidate meeting start times.
const SlotInterval = 30 * time.Minute

// SlotsPerDay is the number of candidate start times scanned for one UTC day (00:00 through 23:30).
const SlotsPerDay = int(24 * time.Hour / SlotInterval)

// DefaultDurationMinutes is the meeting length used when none is given.
const DefaultDurationMinutes = 60

// MaxRecentTimezones caps the most-recently-used zone list.
const MaxRecentTimezones = 5

// OffsetCacheTTL is how long a cached zone offset stays valid.
// Offsets change at DST transitions, so entries must not outlive a day.
const OffsetCacheTTL = 24 * time.Hour

// WeatherCacheTTL is how long a weather API response is reused.
const WeatherCacheTTL = 10 * time.Minute
