// Package weather fetches current conditions for a zone's city from Open-Meteo.
package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/codeGROOVE-dev/retry"
	"github.com/codeGROOVE-dev/tzmeet/pkg/clock"
	"github.com/codeGROOVE-dev/tzmeet/pkg/constants"
	"github.com/codeGROOVE-dev/tzmeet/pkg/geo"
	"github.com/codeGROOVE-dev/tzmeet/pkg/httpcache"
)

// DefaultBaseURL is the public Open-Meteo API.
const DefaultBaseURL = "https://api.open-meteo.com/v1"

// ErrNoCoordinates is returned for zones that cannot be placed on the map.
var ErrNoCoordinates = errors.New("no coordinates for zone")

// Data is the current weather at a zone's city.
type Data struct {
	Zone        string `json:"zone"`
	Location    string `json:"location"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Code        int    `json:"code"`
	Temperature int    `json:"temperature"` // °C
	Humidity    int    `json:"humidity"`    // %
	WindSpeed   int    `json:"wind_speed"`  // km/h
}

// Client talks to the forecast endpoint.
type Client struct {
	http     *httpcache.CachedHTTPClient
	logger   *slog.Logger
	baseURL  string
	delay    time.Duration
	attempts uint
}

// Option configures a Client.
type Option func(*Client)

// WithRetry overrides how often and how fast failed requests are retried.
func WithRetry(attempts uint, delay time.Duration) Option {
	return func(c *Client) {
		c.attempts = attempts
		c.delay = delay
	}
}

// NewClient creates a client for baseURL with responses cached in memory.
// An empty baseURL uses DefaultBaseURL.
func NewClient(baseURL string, httpClient httpcache.HTTPClient, logger *slog.Logger, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if logger == nil {
		logger = slog.Default()
	}
	cache := httpcache.NewOtterCache(constants.WeatherCacheTTL, logger)
	c := &Client{
		http:     httpcache.NewCachedHTTPClient(cache, httpClient, logger),
		logger:   logger,
		baseURL:  baseURL,
		attempts: 3,
		delay:    500 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type forecast struct {
	Current struct {
		Temperature float64 `json:"temperature_2m"`
		Humidity    float64 `json:"relative_humidity_2m"`
		WindSpeed   float64 `json:"wind_speed_10m"`
		WeatherCode int     `json:"weather_code"`
	} `json:"current"`
}

// Current returns the weather at zone's city. Zones without coordinates
// return ErrNoCoordinates.
func (c *Client) Current(ctx context.Context, zone string) (*Data, error) {
	coords, ok := geo.Lookup(zone)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoCoordinates, zone)
	}

	q := url.Values{}
	q.Set("latitude", strconv.FormatFloat(coords.Lat, 'f', -1, 64))
	q.Set("longitude", strconv.FormatFloat(coords.Lon, 'f', -1, 64))
	q.Set("current", "temperature_2m,relative_humidity_2m,wind_speed_10m,weather_code")
	q.Set("timezone", zone)
	apiURL := c.baseURL + "/forecast?" + q.Encode()

	body, err := c.fetch(ctx, apiURL)
	if err != nil {
		return nil, err
	}

	var f forecast
	if err := json.Unmarshal(body, &f); err != nil {
		return nil, fmt.Errorf("decoding forecast: %w", err)
	}

	cond := Describe(f.Current.WeatherCode)
	return &Data{
		Zone:        zone,
		Location:    clock.LabelFor(zone),
		Description: cond.Description,
		Icon:        cond.Icon,
		Code:        f.Current.WeatherCode,
		Temperature: round(f.Current.Temperature),
		Humidity:    round(f.Current.Humidity),
		WindSpeed:   round(f.Current.WindSpeed),
	}, nil
}

func (c *Client) fetch(ctx context.Context, apiURL string) ([]byte, error) {
	var body []byte
	err := retry.Do(
		func() error {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, http.NoBody)
			if err != nil {
				return retry.Unrecoverable(err)
			}
			req.Header.Set("Accept", "application/json")

			resp, err := c.http.Do(ctx, req)
			if err != nil {
				return err
			}
			defer func() {
				if err := resp.Body.Close(); err != nil {
					c.logger.Debug("failed to close response body", "error", err)
				}
			}()

			data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
			if err != nil {
				return fmt.Errorf("reading forecast: %w", err)
			}
			switch {
			case resp.StatusCode == http.StatusOK:
				body = data
				return nil
			case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError:
				return fmt.Errorf("HTTP %d: %s", resp.StatusCode, preview(data))
			default:
				return retry.Unrecoverable(fmt.Errorf("HTTP %d: %s", resp.StatusCode, preview(data)))
			}
		},
		retry.Context(ctx),
		retry.Attempts(c.attempts),
		retry.Delay(c.delay),
		retry.MaxDelay(10*time.Second),
		retry.DelayType(retry.FullJitterBackoffDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			c.logger.Debug("retrying weather fetch", "attempt", n+1, "url", apiURL, "error", err)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("fetching weather: %w", err)
	}
	return body, nil
}

func preview(b []byte) string {
	if len(b) > 200 {
		b = b[:200]
	}
	return string(b)
}

// round rounds half up, so -2.5 becomes -2.
func round(f float64) int {
	return int(math.Floor(f + 0.5))
}
