package tzmeet

import (
	"time"

	"github.com/codeGROOVE-dev/tzmeet/pkg/httpcache"
	"github.com/codeGROOVE-dev/tzmeet/pkg/planner"
)

// Option configures a Service.
type Option func(*OptionHolder)

// OptionHolder holds configuration options.
type OptionHolder struct {
	httpClient     httpcache.HTTPClient
	window         *planner.Window
	localZone      string
	weatherBaseURL string
	duration       int
	retryAttempts  uint
	retryDelay     time.Duration
	offsetTTL      time.Duration
	noWeather      bool
}

// WithLocalZone sets the user's own zone. The host zone is used otherwise.
func WithLocalZone(zone string) Option {
	return func(o *OptionHolder) {
		o.localZone = zone
	}
}

// WithWindow sets the default business-hours window.
func WithWindow(w planner.Window) Option {
	return func(o *OptionHolder) {
		o.window = &w
	}
}

// WithDuration sets the default meeting length in minutes.
func WithDuration(minutes int) Option {
	return func(o *OptionHolder) {
		o.duration = minutes
	}
}

// WithWeatherBaseURL points weather lookups at another Open-Meteo compatible API.
func WithWeatherBaseURL(u string) Option {
	return func(o *OptionHolder) {
		o.weatherBaseURL = u
	}
}

// WithHTTPClient sets the client used for outbound requests.
func WithHTTPClient(c httpcache.HTTPClient) Option {
	return func(o *OptionHolder) {
		o.httpClient = c
	}
}

// WithWeatherRetry overrides the weather client's retry policy.
func WithWeatherRetry(attempts uint, delay time.Duration) Option {
	return func(o *OptionHolder) {
		o.retryAttempts = attempts
		o.retryDelay = delay
	}
}

// WithNoWeather disables weather lookups entirely.
func WithNoWeather() Option {
	return func(o *OptionHolder) {
		o.noWeather = true
	}
}

// WithOffsetTTL sets how long zone offsets are cached.
func WithOffsetTTL(ttl time.Duration) Option {
	return func(o *OptionHolder) {
		o.offsetTTL = ttl
	}
}
