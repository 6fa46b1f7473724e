package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/codeGROOVE-dev/tzmeet/pkg/config"
	"github.com/codeGROOVE-dev/tzmeet/pkg/tzconvert"
	"github.com/codeGROOVE-dev/tzmeet/pkg/tzmeet"
)

func newTestServer(t *testing.T, perMinute int) *server {
	t.Helper()
	svc, err := tzmeet.New(context.Background(), tzmeet.WithLocalZone("UTC"), tzmeet.WithNoWeather())
	if err != nil {
		t.Fatalf("tzmeet.New: %v", err)
	}
	s := newServer(svc, nil, perMinute, tzmeet.ClockSpec{Zone: "Asia/Kolkata", Label: "Bangalore"})
	s.now = func() time.Time { return time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC) }
	t.Cleanup(func() {
		_ = s.close()   //nolint:errcheck // test cleanup
		_ = svc.Close() //nolint:errcheck // test cleanup
	})
	return s
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, http.NoBody)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(v); err != nil {
		t.Fatalf("decoding %q: %v", rec.Body.String(), err)
	}
}

func TestHomeAndHealth(t *testing.T) {
	h := newTestServer(t, 0).routes()

	rec := do(t, h, http.MethodGet, "/", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "business hours 09:00-17:00") {
		t.Errorf("home = %d\n%s", rec.Code, rec.Body.String())
	}
	if rec.Header().Get("X-Request-ID") == "" || rec.Header().Get("X-Frame-Options") != "DENY" {
		t.Errorf("missing middleware headers: %v", rec.Header())
	}

	if rec := do(t, h, http.MethodGet, "/nope", ""); rec.Code != http.StatusNotFound {
		t.Errorf("unknown path = %d", rec.Code)
	}

	rec = do(t, h, http.MethodGet, "/healthz", "")
	var health map[string]string
	decodeBody(t, rec, &health)
	if health["status"] != "ok" {
		t.Errorf("healthz = %v", health)
	}
}

func TestConvertEndpoint(t *testing.T) {
	h := newTestServer(t, 0).routes()

	rec := do(t, h, http.MethodPost, "/api/v1/convert",
		`{"date":"2024-01-15","time":"23:00","source_zone":"Europe/London","target_zone":"Europe/Moscow"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("convert = %d: %s", rec.Code, rec.Body.String())
	}
	if rec.Header().Get("Cache-Control") == "" {
		t.Error("api response is cacheable")
	}
	var got struct {
		Target struct {
			Day  int `json:"day"`
			Hour int `json:"hour"`
		} `json:"target"`
		TargetOffset string `json:"target_offset"`
		DayShift     string `json:"day_shift"`
		DeltaLabel   string `json:"delta_label"`
		SourceDST    bool   `json:"source_dst"`
	}
	decodeBody(t, rec, &got)
	if got.Target.Day != 16 || got.Target.Hour != 2 || got.TargetOffset != "+03:00" {
		t.Errorf("target = %+v", got)
	}
	if got.DayShift != "next_day" || got.DeltaLabel != "3h 0m ahead" || got.SourceDST {
		t.Errorf("labels = %+v", got)
	}
}

func TestErrorMapping(t *testing.T) {
	h := newTestServer(t, 0).routes()
	tests := []struct {
		name   string
		method string
		target string
		body   string
		status int
		code   string
	}{
		{"unknown zone", http.MethodPost, "/api/v1/convert", `{"date":"2024-01-15","time":"09:00","source_zone":"Mars/Base","target_zone":"UTC"}`, http.StatusBadRequest, "UNKNOWN_ZONE"},
		{"skipped wall clock", http.MethodPost, "/api/v1/convert", `{"date":"2024-03-31","time":"01:30","source_zone":"Europe/London","target_zone":"UTC"}`, http.StatusUnprocessableEntity, "INVALID_INSTANT"},
		{"bad json", http.MethodPost, "/api/v1/convert", `{"date":`, http.StatusBadRequest, "BAD_JSON"},
		{"no participants", http.MethodPost, "/api/v1/scan", `{"date":"2024-01-15"}`, http.StatusBadRequest, "INVALID_REQUEST"},
		{"bad window", http.MethodPost, "/api/v1/scan", `{"date":"2024-01-15","include_local":true,"window":{"start":"18:00","end":"09:00"}}`, http.StatusBadRequest, "INVALID_REQUEST"},
		{"missing slot", http.MethodPost, "/api/v1/meeting.ics", `{"date":"2024-01-15","include_local":true,"slot":"25:00"}`, http.StatusNotFound, "SLOT_NOT_FOUND"},
		{"unknown clock", http.MethodGet, "/api/v1/clocks?zone=Nowhere", "", http.StatusBadRequest, "UNKNOWN_ZONE"},
		{"extras without target", http.MethodGet, "/api/v1/extras", "", http.StatusBadRequest, "UNKNOWN_ZONE"},
		{"report format", http.MethodPost, "/api/v1/report?format=pdf", `{"date":"2024-01-15","time":"09:00","source_zone":"UTC","target_zone":"UTC"}`, http.StatusBadRequest, "BAD_FORMAT"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, tt.method, tt.target, tt.body)
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tt.status, rec.Body.String())
			}
			var resp errorResponse
			decodeBody(t, rec, &resp)
			if resp.Code != tt.code || resp.Error == "" {
				t.Errorf("error body = %+v, want code %s", resp, tt.code)
			}
		})
	}
}

func TestZonesEndpoint(t *testing.T) {
	h := newTestServer(t, 0).routes()

	rec := do(t, h, http.MethodGet, "/api/v1/zones?q=tokyo", "")
	if rec.Header().Get("X-Cache") != "miss" {
		t.Errorf("first lookup X-Cache = %q", rec.Header().Get("X-Cache"))
	}
	var got struct {
		LocalZone string `json:"local_zone"`
		Zones     []struct {
			ID     string `json:"id"`
			Offset string `json:"offset"`
		} `json:"zones"`
	}
	decodeBody(t, rec, &got)
	if got.LocalZone != "UTC" || len(got.Zones) != 1 || got.Zones[0].ID != "Asia/Tokyo" || got.Zones[0].Offset != "+09:00" {
		t.Errorf("zones = %+v", got)
	}

	rec = do(t, h, http.MethodGet, "/api/v1/zones?q=Tokyo", "")
	if rec.Header().Get("X-Cache") != "memory-hit" {
		t.Errorf("second lookup X-Cache = %q", rec.Header().Get("X-Cache"))
	}
}

func TestClocksEndpoint(t *testing.T) {
	h := newTestServer(t, 0).routes()

	var got struct {
		Clocks []struct {
			Label     string `json:"label"`
			LocalTime string `json:"local_time"`
			IsDaytime bool   `json:"is_daytime"`
		} `json:"clocks"`
	}
	decodeBody(t, do(t, h, http.MethodGet, "/api/v1/clocks", ""), &got)
	// Local, UTC, New York, London and the configured Bangalore clock.
	if len(got.Clocks) != 5 {
		t.Fatalf("board = %+v", got.Clocks)
	}
	if last := got.Clocks[4]; last.Label != "Bangalore" || last.LocalTime != "17:30:00" || !last.IsDaytime {
		t.Errorf("configured clock = %+v", last)
	}

	decodeBody(t, do(t, h, http.MethodGet, "/api/v1/clocks?zone=Pacific/Auckland&zone=America/Los_Angeles", ""), &got)
	if len(got.Clocks) != 2 || got.Clocks[0].LocalTime != "01:00:00" || got.Clocks[1].LocalTime != "04:00:00" {
		t.Errorf("clocks = %+v", got.Clocks)
	}
}

func TestScanEndpoint(t *testing.T) {
	h := newTestServer(t, 0).routes()

	rec := do(t, h, http.MethodPost, "/api/v1/scan",
		`{"date":"2024-01-15","duration":60,"participants":[{"name":"Ana","zone":"Europe/London"},{"name":"Ben","zone":"America/New_York"}]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("scan = %d: %s", rec.Code, rec.Body.String())
	}
	var got struct {
		Slots []struct {
			Label    string `json:"label"`
			Suitable bool   `json:"suitable"`
			Local    []struct {
				Clock string `json:"clock"`
			} `json:"local"`
		} `json:"slots"`
		Window struct {
			Start string `json:"start"`
			End   string `json:"end"`
		} `json:"window"`
		Suitable int `json:"suitable"`
	}
	decodeBody(t, rec, &got)
	if len(got.Slots) != 48 || got.Suitable != 5 {
		t.Fatalf("scan = %d slots, %d suitable", len(got.Slots), got.Suitable)
	}
	if s := got.Slots[28]; s.Label != "14:00" || !s.Suitable || s.Local[1].Clock != "09:00" {
		t.Errorf("slot 14:00 = %+v", s)
	}
	if got.Window.Start != "09:00" || got.Window.End != "17:00" {
		t.Errorf("window = %+v", got.Window)
	}
}

func TestMeetingEndpoint(t *testing.T) {
	h := newTestServer(t, 0).routes()

	rec := do(t, h, http.MethodPost, "/api/v1/meeting.ics",
		`{"date":"2024-01-15","duration":30,"participants":[{"name":"Ana","zone":"Europe/London"}],"slot":"10:30","summary":"Standup"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("meeting = %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/calendar") {
		t.Errorf("Content-Type = %q", ct)
	}
	for _, want := range []string{"BEGIN:VCALENDAR", "DTSTART:20240115T103000Z", "DTEND:20240115T110000Z", "SUMMARY:Standup"} {
		if !strings.Contains(rec.Body.String(), want) {
			t.Errorf("calendar missing %q:\n%s", want, rec.Body.String())
		}
	}
}

func TestExtrasAndReport(t *testing.T) {
	h := newTestServer(t, 0).routes()

	type travel struct {
		DistanceKm int `json:"distance_km"`
	}
	type landmark struct {
		Zone string `json:"zone"`
	}
	var x struct {
		Weather  any       `json:"weather"`
		Travel   *travel   `json:"travel"`
		Landmark *landmark `json:"landmark"`
	}
	decodeBody(t, do(t, h, http.MethodGet, "/api/v1/extras?from=Europe/London&to=Europe/Paris", ""), &x)
	if x.Weather != nil {
		t.Errorf("weather present with lookups disabled")
	}
	if x.Travel == nil || x.Travel.DistanceKm != 344 || x.Landmark == nil || x.Landmark.Zone != "Europe/Paris" {
		t.Errorf("extras = %+v", x)
	}

	rec := do(t, h, http.MethodPost, "/api/v1/report?format=markdown",
		`{"date":"2024-07-01","time":"09:00","source_zone":"America/New_York","target_zone":"Europe/London"}`)
	if rec.Code != http.StatusOK || !strings.HasPrefix(rec.Header().Get("Content-Type"), "text/markdown") {
		t.Fatalf("report = %d %q", rec.Code, rec.Header().Get("Content-Type"))
	}
	for _, want := range []string{"5h 0m ahead", "5570 km", "Big Ben"} {
		if !strings.Contains(rec.Body.String(), want) {
			t.Errorf("report missing %q:\n%s", want, rec.Body.String())
		}
	}
}

func TestRateLimit(t *testing.T) {
	h := newTestServer(t, 2).routes()
	for i := range 2 {
		if rec := do(t, h, http.MethodGet, "/api/v1/zones?q=x", ""); rec.Code != http.StatusOK {
			t.Fatalf("request %d = %d", i, rec.Code)
		}
	}
	rec := do(t, h, http.MethodGet, "/api/v1/zones?q=x", "")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("third request = %d", rec.Code)
	}
	var resp errorResponse
	decodeBody(t, rec, &resp)
	if resp.Code != "RATE_LIMITED" {
		t.Errorf("error body = %+v", resp)
	}

	if rec := do(t, h, http.MethodGet, "/healthz", ""); rec.Code != http.StatusOK {
		t.Errorf("healthz limited: %d", rec.Code)
	}
}

func TestRateLimiterWindow(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rl := newRateLimiter(1)
	rl.now = func() time.Time { return now }

	if !rl.allow("a") || rl.allow("a") {
		t.Fatal("limit of one not enforced")
	}
	if !rl.allow("b") {
		t.Error("limit shared between clients")
	}
	now = now.Add(61 * time.Second)
	if !rl.allow("a") {
		t.Error("window did not slide")
	}
}

func TestPanicRecovery(t *testing.T) {
	s := newTestServer(t, 0)
	h := s.wrap(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	if rec := do(t, h, http.MethodGet, "/", ""); rec.Code != http.StatusInternalServerError {
		t.Errorf("panic = %d", rec.Code)
	}
}

func TestApplyOverrides(t *testing.T) {
	t.Setenv("TZMEET_LISTEN", "")
	t.Setenv("TZMEET_WEATHER_URL", "http://weather.test")

	cfg := config.DefaultConfig()
	err := applyOverrides(cfg, overrides{listen: ":9090", localZone: "Asia/Tokyo", noWeather: true})
	if err != nil {
		t.Fatalf("applyOverrides: %v", err)
	}
	if cfg.Listen != ":9090" || cfg.LocalZone != "Asia/Tokyo" || !cfg.DisableWeather || cfg.WeatherBaseURL != "http://weather.test" {
		t.Errorf("config after overrides = %+v", cfg)
	}

	tests := []struct {
		name string
		zone string
	}{
		{"unknown zone", "Mars/Olympus_Mons"},
		{"host local", "Local"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.DefaultConfig()
			if err := applyOverrides(cfg, overrides{localZone: tt.zone}); !errors.Is(err, tzconvert.ErrUnknownZone) {
				t.Errorf("applyOverrides(local zone %q) = %v, want ErrUnknownZone", tt.zone, err)
			}
		})
	}
}
