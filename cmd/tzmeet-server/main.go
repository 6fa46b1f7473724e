// Package main implements the tzmeet web server for time zone conversion and
// meeting planning.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/codeGROOVE-dev/tzmeet/pkg/config"
	"github.com/codeGROOVE-dev/tzmeet/pkg/tzmeet"
)

const serverVersion = "v1.0.0"

var (
	configPath = flag.String("config", "", "YAML config file (or set TZMEET_CONFIG)")
	listen     = flag.String("listen", "", "Listen address, overrides the config (or set TZMEET_LISTEN)")
	localZone  = flag.String("local-zone", "", "Server's own zone, overrides the config (or set TZ)")
	weatherURL = flag.String("weather-url", "", "Open-Meteo compatible API base URL (or set TZMEET_WEATHER_URL)")
	noWeather  = flag.Bool("no-weather", false, "Disable weather lookups")
	rateLimit  = flag.Int("rate-limit", 60, "Requests per minute per client IP")
	verbose    = flag.Bool("verbose", false, "Enable verbose logging")
	version    = flag.Bool("version", false, "Show version")
)

func loadConfig(logger *slog.Logger) (*config.Config, error) {
	path := *configPath
	if path == "" {
		path = os.Getenv("TZMEET_CONFIG")
	}
	if path == "" {
		logger.Debug("No config file given, using defaults")
		return config.DefaultConfig(), nil
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	logger.Info("Loaded config", "path", path)
	return cfg, nil
}

// overrides are the command-line settings layered over the config file.
type overrides struct {
	listen     string
	localZone  string
	weatherURL string
	noWeather  bool
}

// applyOverrides layers flags and environment over cfg and validates the result.
func applyOverrides(cfg *config.Config, o overrides) error {
	if o.listen == "" {
		o.listen = os.Getenv("TZMEET_LISTEN")
	}
	if o.listen != "" {
		cfg.Listen = o.listen
	}
	if o.localZone != "" {
		cfg.LocalZone = o.localZone
	}
	if o.weatherURL == "" {
		o.weatherURL = os.Getenv("TZMEET_WEATHER_URL")
	}
	if o.weatherURL != "" {
		cfg.WeatherBaseURL = o.weatherURL
	}
	if o.noWeather {
		cfg.DisableWeather = true
	}
	return cfg.Validate()
}

func main() {
	flag.Parse()

	if *version {
		fmt.Println("tzmeet server " + serverVersion)
		return
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	cfg, err := loadConfig(logger)
	if err != nil {
		logger.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	if err := applyOverrides(cfg, overrides{
		listen:     *listen,
		localZone:  *localZone,
		weatherURL: *weatherURL,
		noWeather:  *noWeather,
	}); err != nil {
		logger.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	logger.Info("Server configuration",
		"listen", cfg.Listen,
		"local_zone", cfg.LocalZone,
		"business_hours", cfg.BusinessHours.String(),
		"duration", cfg.DurationMinutes,
		"weather", !cfg.DisableWeather,
		"rate_limit", *rateLimit,
		"verbose", *verbose)

	opts := []tzmeet.Option{
		tzmeet.WithLocalZone(cfg.LocalZone),
		tzmeet.WithWindow(cfg.BusinessHours),
		tzmeet.WithDuration(cfg.DurationMinutes),
		tzmeet.WithWeatherBaseURL(cfg.WeatherBaseURL),
	}
	if cfg.DisableWeather {
		opts = append(opts, tzmeet.WithNoWeather())
	}
	svc, err := tzmeet.NewWithLogger(context.Background(), logger, opts...)
	if err != nil {
		logger.Error("Failed to create service", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.Error("Failed to close service", "error", err)
		}
	}()

	clocks := make([]tzmeet.ClockSpec, 0, len(cfg.Clocks))
	for _, c := range cfg.Clocks {
		clocks = append(clocks, tzmeet.ClockSpec{Zone: c.Zone, Label: c.Label})
	}
	server := newServer(svc, logger, *rateLimit, clocks...)
	defer func() {
		if err := server.close(); err != nil {
			logger.Error("Failed to close response cache", "error", err)
		}
	}()

	srv := &http.Server{
		Addr:              cfg.Listen,
		Handler:           server.routes(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		logger.Info("Server starting", "listen", cfg.Listen)
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Shutdown failed", "error", err)
	}
	logger.Info("Server stopped")
}
