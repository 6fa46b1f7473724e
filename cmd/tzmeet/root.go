package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/codeGROOVE-dev/tzmeet/pkg/config"
	"github.com/codeGROOVE-dev/tzmeet/pkg/settings"
	"github.com/codeGROOVE-dev/tzmeet/pkg/tzconvert"
	"github.com/codeGROOVE-dev/tzmeet/pkg/tzmeet"
	"github.com/spf13/cobra"
)

// app is the state shared by every subcommand.
type app struct {
	cfg    *config.Config
	svc    *tzmeet.Service
	logger *slog.Logger
	now    func() time.Time

	configPath string
	localZone  string
	verbose    bool
	noWeather  bool
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "tzmeet",
		Short:         "Convert times between zones and find meeting slots that work for everyone",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd.Context())
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			return a.close()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "YAML config file (or set TZMEET_CONFIG)")
	flags.StringVar(&a.localZone, "local-zone", "", "Your own zone, overrides the config")
	flags.BoolVar(&a.verbose, "verbose", false, "Enable verbose logging")
	flags.BoolVar(&a.noWeather, "no-weather", false, "Disable weather lookups")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newConvertCmd(a))
	root.AddCommand(newClocksCmd(a))
	root.AddCommand(newPlanCmd(a))
	root.AddCommand(newZonesCmd(a))
	root.AddCommand(newExtrasCmd(a))
	root.AddCommand(newSettingsCmd(a))

	return root
}

func (a *app) setup(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if a.now == nil {
		a.now = time.Now
	}

	level := slog.LevelError
	if a.verbose {
		level = slog.LevelDebug
	}
	a.logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	path := a.configPath
	if path == "" {
		path = os.Getenv("TZMEET_CONFIG")
	}
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	if a.localZone != "" {
		if _, err := tzconvert.LoadZone(a.localZone); err != nil {
			return fmt.Errorf("--local-zone: %w", err)
		}
		cfg.LocalZone = a.localZone
	}
	if a.noWeather {
		cfg.DisableWeather = true
	}
	a.cfg = cfg

	opts := []tzmeet.Option{
		tzmeet.WithLocalZone(cfg.LocalZone),
		tzmeet.WithWindow(cfg.BusinessHours),
		tzmeet.WithDuration(cfg.DurationMinutes),
		tzmeet.WithWeatherBaseURL(cfg.WeatherBaseURL),
	}
	if cfg.DisableWeather {
		opts = append(opts, tzmeet.WithNoWeather())
	}
	svc, err := tzmeet.NewWithLogger(ctx, a.logger, opts...)
	if err != nil {
		return err
	}
	a.svc = svc

	// Recent zones survive between runs through the settings file.
	if _, err := a.loadSettings(); err != nil {
		a.logger.Warn("ignoring unreadable settings", "path", cfg.SettingsPath, "error", err)
	}
	return nil
}

func (a *app) close() error {
	if a.svc == nil {
		return nil
	}
	err := a.svc.Close()
	a.svc = nil
	return err
}

// loadSettings reads the settings file and replays its recent zones into the service.
func (a *app) loadSettings() (settings.Settings, error) {
	s, err := settings.Load(a.cfg.SettingsPath)
	if err != nil {
		return settings.Settings{}, err
	}
	s.ApplyRecent(a.svc.Recent())
	return s, nil
}

// saveSettings stores the recent zones and the last conversion's zones.
func (a *app) saveSettings(source, target string) error {
	prev, err := settings.Load(a.cfg.SettingsPath)
	if err != nil && !errors.Is(err, tzconvert.ErrUnknownZone) {
		return err
	}
	return settings.Save(a.cfg.SettingsPath, settings.Capture(a.svc.Recent(), source, target, prev.Analytics))
}

// lastZones returns the zones of the previous conversion, falling back to the
// local zone and UTC.
func (a *app) lastZones() (string, string) {
	source, target := a.svc.LocalZone(), "UTC"
	s, err := settings.Load(a.cfg.SettingsPath)
	if err != nil {
		return source, target
	}
	if s.SourceZone != "" {
		source = s.SourceZone
	}
	if s.TargetZone != "" {
		target = s.TargetZone
	}
	return source, target
}

// today is the current date in zone.
func (a *app) today(zone string) string {
	loc, err := tzconvert.LoadZone(zone)
	if err != nil {
		loc = time.UTC
	}
	return a.now().In(loc).Format("2006-01-02")
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version info",
		// Printing the version must not load or create a config file.
		PersistentPreRunE:  func(*cobra.Command, []string) error { return nil },
		PersistentPostRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "tzmeet %s (commit=%s, built=%s)\n", Version, CommitSHA, BuildDate)
		},
	}
}
