// Package tzmeet ties zone conversion, world clocks, meeting planning and the
// optional city extras together behind one Service.
package tzmeet

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/codeGROOVE-dev/tzmeet/pkg/calendar"
	"github.com/codeGROOVE-dev/tzmeet/pkg/clock"
	"github.com/codeGROOVE-dev/tzmeet/pkg/constants"
	"github.com/codeGROOVE-dev/tzmeet/pkg/geo"
	"github.com/codeGROOVE-dev/tzmeet/pkg/landmarks"
	"github.com/codeGROOVE-dev/tzmeet/pkg/planner"
	"github.com/codeGROOVE-dev/tzmeet/pkg/tzconvert"
	"github.com/codeGROOVE-dev/tzmeet/pkg/weather"
	"github.com/codeGROOVE-dev/tzmeet/pkg/zones"
)

var (
	// ErrSlotNotFound is returned when a requested slot label is not on the grid.
	ErrSlotNotFound = errors.New("slot not found")
	// ErrWeatherDisabled is returned by weather calls on a service built WithNoWeather.
	ErrWeatherDisabled = errors.New("weather lookups are disabled")
)

// Service is safe for concurrent use.
type Service struct {
	logger    *slog.Logger
	offsets   *zones.OffsetCache
	directory *zones.Directory
	weather   *weather.Client
	recent    *zones.Recent
	latest    weather.Latest
	localZone string
	window    planner.Window
	duration  int
}

// NewWithLogger creates a Service with a custom logger. Without WithLocalZone
// the host zone is detected; an explicit zone that does not resolve is an error.
func NewWithLogger(_ context.Context, logger *slog.Logger, opts ...Option) (*Service, error) {
	if logger == nil {
		logger = slog.Default()
	}
	o := &OptionHolder{}
	for _, opt := range opts {
		opt(o)
	}

	local := o.localZone
	if local == "" {
		local = zones.DetectLocal()
		logger.Debug("using detected local zone", "zone", local)
	} else if _, err := tzconvert.LoadZone(local); err != nil {
		return nil, fmt.Errorf("local zone: %w", err)
	}

	window := planner.DefaultWindow()
	if o.window != nil {
		if err := o.window.Validate(); err != nil {
			return nil, fmt.Errorf("business hours: %w", err)
		}
		window = *o.window
	}
	duration := o.duration
	if duration <= 0 {
		duration = constants.DefaultDurationMinutes
	}

	offsets := zones.NewOffsetCache(o.offsetTTL, logger)
	s := &Service{
		logger:    logger,
		offsets:   offsets,
		directory: zones.NewDirectory(local, offsets, logger),
		recent:    zones.NewRecent(constants.MaxRecentTimezones),
		localZone: local,
		window:    window,
		duration:  duration,
	}

	if o.noWeather {
		logger.Info("weather lookups disabled")
	} else {
		var wopts []weather.Option
		if o.retryAttempts > 0 {
			wopts = append(wopts, weather.WithRetry(o.retryAttempts, o.retryDelay))
		}
		s.weather = weather.NewClient(o.weatherBaseURL, o.httpClient, logger, wopts...)
	}

	logger.Debug("service ready", "local_zone", local, "window", window.String(), "duration", duration)
	return s, nil
}

// New creates a Service with the default logger.
func New(ctx context.Context, opts ...Option) (*Service, error) {
	return NewWithLogger(ctx, slog.Default(), opts...)
}

// Close releases the session caches.
func (s *Service) Close() error {
	return s.offsets.Close()
}

// LocalZone is the zone of the person using the service.
func (s *Service) LocalZone() string { return s.localZone }

// Window is the default business-hours window.
func (s *Service) Window() planner.Window { return s.window }

// Duration is the default meeting length in minutes.
func (s *Service) Duration() int { return s.duration }

// Recent is the session's most-recently-used zone list.
func (s *Service) Recent() *zones.Recent { return s.recent }

// Conversion is a converted wall clock plus both zones' DST state at noon.
type Conversion struct {
	*tzconvert.Conversion
	SourceDST bool `json:"source_dst"`
	TargetDST bool `json:"target_dst"`
}

// Convert converts a wall clock between zones and remembers both zones as recent.
func (s *Service) Convert(date, clock24, sourceZone, targetZone string) (*Conversion, error) {
	c, err := tzconvert.Convert(date, clock24, sourceZone, targetZone)
	if err != nil {
		return nil, err
	}
	srcDST, err := clock.DSTAtNoon(date, sourceZone)
	if err != nil {
		return nil, err
	}
	dstDST, err := clock.DSTAtNoon(date, targetZone)
	if err != nil {
		return nil, err
	}
	s.recent.Add(sourceZone)
	s.recent.Add(targetZone)
	s.logger.Debug("converted", "source", sourceZone, "target", targetZone, "instant", c.Instant)
	return &Conversion{Conversion: c, SourceDST: srcDST, TargetDST: dstDST}, nil
}

// Describe returns clock faces for each zone at now.
func (s *Service) Describe(zoneIDs []string, now time.Time) ([]clock.Description, error) {
	out := make([]clock.Description, 0, len(zoneIDs))
	for _, z := range zoneIDs {
		d, err := clock.Describe(z, now)
		if err != nil {
			return nil, err
		}
		d.Label = clock.LabelFor(z)
		out = append(out, *d)
	}
	return out, nil
}

// Board returns a world-clock board seeded with the local zone and extra
// clocks. Invalid extra zones are skipped with a warning.
func (s *Service) Board(extra ...ClockSpec) *clock.Board {
	b := clock.NewBoard(s.localZone)
	for _, c := range extra {
		if _, err := b.Add(c.Zone, c.Label); err != nil {
			s.logger.Warn("skipping clock", "zone", c.Zone, "error", err)
		}
	}
	return b
}

// ClockSpec names an extra board clock.
type ClockSpec struct {
	Zone  string
	Label string
}

// Zones lists selectable zones matching query, sorted by offset.
func (s *Service) Zones(query string) ([]zones.Zone, error) {
	return s.directory.Search(query)
}

// ScanRequest describes a meeting to plan. Zero values fall back to the
// service defaults.
type ScanRequest struct {
	Window       *planner.Window       `json:"window,omitempty"`
	Date         string                `json:"date"`
	Participants []planner.Participant `json:"participants"`
	Duration     int                   `json:"duration"`
	IncludeLocal bool                  `json:"include_local"`
}

// ScanResult is a completed scan.
type ScanResult struct {
	Participants []planner.Participant `json:"participants"`
	Slots        []planner.Slot        `json:"slots"`
	Window       planner.Window        `json:"window"`
	Date         string                `json:"date"`
	Duration     int                   `json:"duration"`
	Suitable     int                   `json:"suitable"`
}

func (s *Service) participants(req ScanRequest) ([]planner.Participant, error) {
	sess, err := planner.NewSession(s.localZone)
	if err != nil {
		return nil, err
	}
	for _, p := range req.Participants {
		if _, err := sess.Add(p.Name, p.Zone); err != nil {
			return nil, err
		}
	}
	all := sess.Participants()
	// Caller-supplied ids survive so clients can match columns to their own rows.
	for i, p := range req.Participants {
		if p.ID != "" && p.ID != planner.LocalParticipantID {
			all[i+1].ID = p.ID
		}
	}
	if !req.IncludeLocal {
		all = all[1:]
	}
	return all, nil
}

// Scan evaluates every half-hour slot of the requested day.
func (s *Service) Scan(req ScanRequest) (*ScanResult, error) {
	if req.Duration == 0 {
		req.Duration = s.duration
	}
	window := s.window
	if req.Window != nil {
		window = *req.Window
	}
	participants, err := s.participants(req)
	if err != nil {
		return nil, err
	}

	seq, err := planner.Scan(req.Date, participants, req.Duration, window)
	if err != nil {
		return nil, err
	}
	res := &ScanResult{
		Participants: participants,
		Slots:        planner.Collect(seq),
		Window:       window,
		Date:         req.Date,
		Duration:     req.Duration,
	}
	for _, slot := range res.Slots {
		if slot.Suitable {
			res.Suitable++
		}
	}
	s.logger.Debug("scanned", "date", req.Date, "participants", len(participants), "suitable", res.Suitable)
	return res, nil
}

// MeetingICS plans req and exports the slot starting at label ("HH:MM" UTC)
// as an iCalendar invitation.
func (s *Service) MeetingICS(req ScanRequest, label, summary string) (string, error) {
	res, err := s.Scan(req)
	if err != nil {
		return "", err
	}
	for _, slot := range res.Slots {
		if slot.Label == label {
			if !slot.Suitable {
				s.logger.Info("exporting a slot outside someone's business hours", "slot", label)
			}
			return calendar.MeetingICS(slot, res.Duration, res.Participants, summary)
		}
	}
	return "", fmt.Errorf("%w: %q", ErrSlotNotFound, label)
}

// Extras is optional context about a conversion's target city. Each field is
// nil when that data is unavailable.
type Extras struct {
	Weather     *weather.Data    `json:"weather"`
	Travel      *geo.TravelInfo  `json:"travel"`
	Landmark    *landmarks.Info  `json:"landmark"`
	Coordinates *geo.Coordinates `json:"coordinates"`
}

// Extras gathers weather, travel, landmarks and map coordinates for a trip
// from one zone to another. Missing data never fails the call.
func (s *Service) Extras(ctx context.Context, fromZone, toZone string) *Extras {
	out := &Extras{}
	if c, ok := geo.Lookup(toZone); ok {
		out.Coordinates = &c
	}
	if t, ok := geo.Travel(fromZone, toZone); ok {
		out.Travel = t
	}
	if l, ok := landmarks.Lookup(toZone); ok {
		out.Landmark = l
	}
	if s.weather != nil {
		w, err := s.weather.Current(ctx, toZone)
		switch {
		case err == nil:
			out.Weather = w
		case errors.Is(err, weather.ErrNoCoordinates):
			s.logger.Debug("no weather for zone", "zone", toZone)
		default:
			s.logger.Warn("weather lookup failed", "zone", toZone, "error", err)
		}
	}
	return out
}

// RefreshWeather fetches zone's weather for the session's weather panel.
// It reports false when a later refresh superseded this one.
func (s *Service) RefreshWeather(ctx context.Context, zone string) (*weather.Data, bool, error) {
	if s.weather == nil {
		return nil, false, ErrWeatherDisabled
	}
	return s.latest.Refresh(ctx, s.weather, zone)
}

// CurrentWeather is the last weather applied by RefreshWeather.
func (s *Service) CurrentWeather() *weather.Data {
	return s.latest.Current()
}
