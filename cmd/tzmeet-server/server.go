package main

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net"
	"net/http"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/codeGROOVE-dev/tzmeet/pkg/clock"
	"github.com/codeGROOVE-dev/tzmeet/pkg/httpcache"
	"github.com/codeGROOVE-dev/tzmeet/pkg/planner"
	"github.com/codeGROOVE-dev/tzmeet/pkg/render"
	"github.com/codeGROOVE-dev/tzmeet/pkg/tzconvert"
	"github.com/codeGROOVE-dev/tzmeet/pkg/tzmeet"
	"github.com/google/uuid"
)

//go:embed templates/home.html
var homeTemplate string

var homePage = template.Must(template.New("home").Parse(homeTemplate))

const maxBodyBytes = 64 << 10

type rateLimiter struct {
	requests map[string][]time.Time
	now      func() time.Time
	limit    int
	mu       sync.Mutex
}

func newRateLimiter(perMinute int) *rateLimiter {
	return &rateLimiter{
		requests: make(map[string][]time.Time),
		now:      time.Now,
		limit:    perMinute,
	}
}

func (rl *rateLimiter) allow(ip string) bool {
	if rl.limit <= 0 {
		return true
	}
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	cutoff := now.Add(-time.Minute)

	var valid []time.Time
	for _, t := range rl.requests[ip] {
		if t.After(cutoff) {
			valid = append(valid, t)
		}
	}

	if len(valid) >= rl.limit {
		rl.requests[ip] = valid
		return false
	}

	rl.requests[ip] = append(valid, now)
	return true
}

type server struct {
	svc     *tzmeet.Service
	cache   *httpcache.OtterCache
	board   *clock.Board
	limiter *rateLimiter
	logger  *slog.Logger
	now     func() time.Time
}

func newServer(svc *tzmeet.Service, logger *slog.Logger, perMinute int, clocks ...tzmeet.ClockSpec) *server {
	if logger == nil {
		logger = slog.Default()
	}
	return &server{
		svc:     svc,
		cache:   httpcache.NewOtterCache(10*time.Minute, logger),
		board:   svc.Board(clocks...),
		limiter: newRateLimiter(perMinute),
		logger:  logger,
		now:     time.Now,
	}
}

func (s *server) close() error {
	return s.cache.Close()
}

func (s *server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleHome)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /api/v1/zones", s.handleZones)
	mux.HandleFunc("POST /api/v1/convert", s.handleConvert)
	mux.HandleFunc("POST /api/v1/report", s.handleReport)
	mux.HandleFunc("GET /api/v1/clocks", s.handleClocks)
	mux.HandleFunc("POST /api/v1/scan", s.handleScan)
	mux.HandleFunc("POST /api/v1/meeting.ics", s.handleMeeting)
	mux.HandleFunc("GET /api/v1/extras", s.handleExtras)

	antiCSRF := http.NewCrossOriginProtection()
	return s.wrap(antiCSRF.Handler(mux))
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func (s *server) wrap(handler http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.NewString()
		w.Header().Set("X-Request-ID", requestID)

		defer func() {
			if err := recover(); err != nil {
				const size = 64 << 10
				buf := make([]byte, size)
				buf = buf[:runtime.Stack(buf, false)]
				s.logger.Error("PANIC: Request handler crashed",
					"error", err,
					"path", r.URL.Path,
					"method", r.Method,
					"request_id", requestID,
					"client_ip", clientIP(r),
					"stack", string(buf))
				http.Error(w, "Internal server error", http.StatusInternalServerError)
			}
		}()

		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		w.Header().Set("Permissions-Policy", "geolocation=(), microphone=(), camera=(), payment=(), usb=(), bluetooth=()")
		w.Header().Set("Content-Security-Policy",
			"default-src 'self'; "+
				"script-src 'self' 'unsafe-inline'; "+
				"style-src 'self' 'unsafe-inline'; "+
				"img-src 'self' data: https:; "+
				"connect-src 'self'")

		if strings.HasPrefix(r.URL.Path, "/api/") {
			w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, private")
			w.Header().Set("Pragma", "no-cache")
			w.Header().Set("Expires", "0")

			if !s.limiter.allow(clientIP(r)) {
				s.logger.Warn("Rate limit exceeded",
					"request_id", requestID,
					"client_ip", clientIP(r),
					"path", r.URL.Path)
				s.writeError(w, http.StatusTooManyRequests, errorResponse{
					Error:   "Rate limit exceeded",
					Details: "Too many requests from this address. Please wait a minute and try again.",
					Code:    "RATE_LIMITED",
				})
				return
			}
		}

		handler.ServeHTTP(w, r)
	})
}

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
	Code    string `json:"code,omitempty"`
}

func (s *server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Failed to encode response",
			"request_id", w.Header().Get("X-Request-ID"),
			"error", err)
	}
}

func (s *server) writeError(w http.ResponseWriter, status int, resp errorResponse) {
	s.writeJSON(w, status, resp)
}

// fail maps service errors onto HTTP statuses and error codes.
func (s *server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	resp := errorResponse{Error: "Request failed", Details: err.Error(), Code: "INTERNAL_ERROR"}

	switch {
	case errors.Is(err, tzconvert.ErrUnknownZone):
		status = http.StatusBadRequest
		resp.Error, resp.Code = "Unknown time zone", "UNKNOWN_ZONE"
	case errors.Is(err, tzconvert.ErrInvalidInstant):
		status = http.StatusUnprocessableEntity
		resp.Error, resp.Code = "Invalid date or time", "INVALID_INSTANT"
	case errors.Is(err, planner.ErrNoParticipants),
		errors.Is(err, planner.ErrEmptyName),
		errors.Is(err, planner.ErrInvalidDuration),
		errors.Is(err, planner.ErrInvalidWindow):
		status = http.StatusBadRequest
		resp.Error, resp.Code = "Invalid meeting request", "INVALID_REQUEST"
	case errors.Is(err, tzmeet.ErrSlotNotFound):
		status = http.StatusNotFound
		resp.Error, resp.Code = "Slot not found", "SLOT_NOT_FOUND"
	default:
		resp.Details = "An unexpected error occurred. Please try again."
	}

	level := slog.LevelInfo
	if status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	s.logger.Log(r.Context(), level, "Request failed",
		"request_id", w.Header().Get("X-Request-ID"),
		"path", r.URL.Path,
		"status", status,
		"error", err)
	s.writeError(w, status, resp)
}

func (s *server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		s.logger.Info("Invalid request body",
			"request_id", w.Header().Get("X-Request-ID"),
			"path", r.URL.Path,
			"error", err)
		s.writeError(w, http.StatusBadRequest, errorResponse{
			Error:   "Invalid request",
			Details: "The request body is not valid JSON for this endpoint.",
			Code:    "BAD_JSON",
		})
		return false
	}
	return true
}

func (s *server) handleHome(w http.ResponseWriter, r *http.Request) {
	data := struct {
		LocalZone string
		Window    string
		Duration  int
	}{s.svc.LocalZone(), s.svc.Window().String(), s.svc.Duration()}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := homePage.Execute(w, data); err != nil {
		s.logger.Error("Template execution failed",
			"request_id", w.Header().Get("X-Request-ID"),
			"error", err,
			"path", r.URL.Path)
	}
}

func (s *server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": serverVersion})
}

func (s *server) handleZones(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	cacheKey := "zones?q=" + strings.ToLower(strings.TrimSpace(q))
	if data, _, found := s.cache.Get(cacheKey); found {
		w.Header().Set("X-Cache", "memory-hit")
		s.writeRaw(w, data)
		return
	}

	list, err := s.svc.Zones(q)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	data, err := json.Marshal(map[string]any{"local_zone": s.svc.LocalZone(), "zones": list})
	if err != nil {
		s.fail(w, r, fmt.Errorf("encoding zones: %w", err))
		return
	}
	s.cache.Set(cacheKey, data, "")
	w.Header().Set("X-Cache", "miss")
	s.writeRaw(w, data)
}

func (s *server) writeRaw(w http.ResponseWriter, data []byte) {
	w.Header().Set("Content-Type", "application/json")
	if _, err := w.Write(data); err != nil {
		s.logger.Error("Failed to write response",
			"request_id", w.Header().Get("X-Request-ID"),
			"error", err)
	}
}

type convertRequest struct {
	Date       string `json:"date"`
	Time       string `json:"time"`
	SourceZone string `json:"source_zone"`
	TargetZone string `json:"target_zone"`
}

func (s *server) handleConvert(w http.ResponseWriter, r *http.Request) {
	var req convertRequest
	if !s.decode(w, r, &req) {
		return
	}
	c, err := s.svc.Convert(req.Date, req.Time, req.SourceZone, req.TargetZone)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.logger.Info("Conversion completed",
		"request_id", w.Header().Get("X-Request-ID"),
		"source", req.SourceZone,
		"target", req.TargetZone,
		"instant", c.Instant)
	s.writeJSON(w, http.StatusOK, struct {
		*tzmeet.Conversion
		DeltaLabel string `json:"delta_label"`
		DayLabel   string `json:"day_label"`
	}{c, c.Delta.Label(), c.DayShift.String()})
}

// handleReport renders a conversion together with its extras as HTML, or as
// Markdown when ?format=markdown.
func (s *server) handleReport(w http.ResponseWriter, r *http.Request) {
	var req convertRequest
	if !s.decode(w, r, &req) {
		return
	}
	c, err := s.svc.Convert(req.Date, req.Time, req.SourceZone, req.TargetZone)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	x := s.svc.Extras(r.Context(), req.SourceZone, req.TargetZone)
	report := render.Report{
		Conversion:  c.Conversion,
		SourceDST:   c.SourceDST,
		TargetDST:   c.TargetDST,
		Weather:     x.Weather,
		Travel:      x.Travel,
		Landmark:    x.Landmark,
		Coordinates: x.Coordinates,
	}

	var out, contentType string
	switch format := r.URL.Query().Get("format"); format {
	case "", "html":
		out, err = render.ReportHTML(report)
		contentType = "text/html; charset=utf-8"
	case "markdown", "md":
		out, err = render.ReportMarkdown(report)
		contentType = "text/markdown; charset=utf-8"
	default:
		s.writeError(w, http.StatusBadRequest, errorResponse{
			Error:   "Unknown format",
			Details: fmt.Sprintf("Format %q is not supported. Use html or markdown.", format),
			Code:    "BAD_FORMAT",
		})
		return
	}
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", contentType)
	if _, err := w.Write([]byte(out)); err != nil {
		s.logger.Error("Failed to write report",
			"request_id", w.Header().Get("X-Request-ID"),
			"error", err)
	}
}

func (s *server) handleClocks(w http.ResponseWriter, r *http.Request) {
	now := s.now()
	ids := r.URL.Query()["zone"]

	var descs []clock.Description
	if len(ids) == 0 {
		descs = s.board.Snapshot(now)
	} else {
		var err error
		descs, err = s.svc.Describe(ids, now)
		if err != nil {
			s.fail(w, r, err)
			return
		}
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"now": now.UTC(), "clocks": descs})
}

func (s *server) handleScan(w http.ResponseWriter, r *http.Request) {
	var req tzmeet.ScanRequest
	if !s.decode(w, r, &req) {
		return
	}
	res, err := s.svc.Scan(req)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.logger.Info("Scan completed",
		"request_id", w.Header().Get("X-Request-ID"),
		"date", res.Date,
		"participants", len(res.Participants),
		"suitable", res.Suitable)
	s.writeJSON(w, http.StatusOK, res)
}

func (s *server) handleMeeting(w http.ResponseWriter, r *http.Request) {
	var req struct {
		tzmeet.ScanRequest

		Slot    string `json:"slot"`
		Summary string `json:"summary"`
	}
	if !s.decode(w, r, &req) {
		return
	}
	ics, err := s.svc.MeetingICS(req.ScanRequest, strings.TrimSpace(req.Slot), req.Summary)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="meeting.ics"`)
	if _, err := w.Write([]byte(ics)); err != nil {
		s.logger.Error("Failed to write calendar",
			"request_id", w.Header().Get("X-Request-ID"),
			"error", err)
	}
}

func (s *server) handleExtras(w http.ResponseWriter, r *http.Request) {
	from := r.URL.Query().Get("from")
	if from == "" {
		from = s.svc.LocalZone()
	}
	to := r.URL.Query().Get("to")
	for _, z := range []string{from, to} {
		if _, err := tzconvert.LoadZone(z); err != nil {
			s.fail(w, r, err)
			return
		}
	}

	cacheKey := "extras?from=" + from + "&to=" + to
	if data, _, found := s.cache.Get(cacheKey); found {
		w.Header().Set("X-Cache", "memory-hit")
		s.writeRaw(w, data)
		return
	}

	x := s.svc.Extras(r.Context(), from, to)
	data, err := json.Marshal(x)
	if err != nil {
		s.fail(w, r, fmt.Errorf("encoding extras: %w", err))
		return
	}
	// Results without weather are not cached so a transient upstream failure
	// clears on the next request.
	if x.Weather != nil {
		s.cache.Set(cacheKey, data, "")
	}
	w.Header().Set("X-Cache", "miss")
	s.writeRaw(w, data)
}
