package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/codeGROOVE-dev/tzmeet/pkg/planner"
	"github.com/codeGROOVE-dev/tzmeet/pkg/render"
	"github.com/codeGROOVE-dev/tzmeet/pkg/tzmeet"
	"github.com/spf13/cobra"
)

// parseParticipant reads "Name=Zone".
func parseParticipant(s string) (planner.Participant, error) {
	name, zone, ok := strings.Cut(s, "=")
	if !ok {
		return planner.Participant{}, fmt.Errorf("participant %q: want Name=Zone", s)
	}
	return planner.Participant{Name: strings.TrimSpace(name), Zone: strings.TrimSpace(zone)}, nil
}

func newPlanCmd(a *app) *cobra.Command {
	var (
		date, start, end string
		slot, ics, title string
		with             []string
		duration         int
		all, noMe        bool
	)
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Find meeting slots inside everyone's business hours",
		Long: `Scan a day in half-hour steps and show, for every participant, the local
start time of each slot. Slots where the whole meeting fits everyone's
business hours are marked with a check.

With --ics and --slot the chosen slot is written as an iCalendar invitation.`,
		Example: `  tzmeet plan --with Ana=America/New_York --with Raj=Asia/Kolkata
  tzmeet plan --date 2024-01-15 --duration 30 --with Ana=America/New_York --slot 14:00 --ics standup.ics`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			req := tzmeet.ScanRequest{
				Date:         date,
				Duration:     duration,
				IncludeLocal: !noMe,
			}
			if req.Date == "" {
				req.Date = a.today(a.svc.LocalZone())
			}
			for _, w := range with {
				p, err := parseParticipant(w)
				if err != nil {
					return err
				}
				req.Participants = append(req.Participants, p)
			}
			if start != "" || end != "" {
				window := a.svc.Window()
				if start != "" {
					t, err := planner.ParseTimeOfDay(start)
					if err != nil {
						return fmt.Errorf("--start: %w", err)
					}
					window.Start = t
				}
				if end != "" {
					t, err := planner.ParseTimeOfDay(end)
					if err != nil {
						return fmt.Errorf("--end: %w", err)
					}
					window.End = t
				}
				req.Window = &window
			}

			res, err := a.svc.Scan(req)
			if err != nil {
				return err
			}
			slots := res.Slots
			if !all {
				slots = planner.Hourly(slots)
			}
			fmt.Fprint(cmd.OutOrStdout(), render.Slots(render.Plan{
				Slots:        slots,
				Participants: res.Participants,
				Window:       res.Window,
				Duration:     res.Duration,
			}))

			if ics == "" {
				return nil
			}
			if slot == "" {
				return fmt.Errorf("--ics needs --slot")
			}
			out, err := a.svc.MeetingICS(req, slot, title)
			if err != nil {
				return err
			}
			if err := os.WriteFile(ics, []byte(out), 0o600); err != nil {
				return fmt.Errorf("writing invitation: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Invitation for %s UTC written to %s\n", slot, ics)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&date, "date", "", "Day to plan as YYYY-MM-DD (default today in your zone)")
	flags.IntVar(&duration, "duration", 0, fmt.Sprintf("Meeting length in minutes, usually one of %v (default from config)", planner.Durations))
	flags.StringArrayVar(&with, "with", nil, "Participant as Name=Zone, repeatable")
	flags.BoolVar(&noMe, "no-me", false, "Leave yourself out of the participant list")
	flags.BoolVar(&all, "all", false, "Show every half-hour slot instead of hourly rows")
	flags.StringVar(&start, "start", "", "Business hours start as HH:MM (default from config)")
	flags.StringVar(&end, "end", "", "Business hours end as HH:MM (default from config)")
	flags.StringVar(&slot, "slot", "", "UTC start of the slot to export, as HH:MM")
	flags.StringVar(&ics, "ics", "", "Write the chosen slot to this .ics file")
	flags.StringVar(&title, "summary", "", "Invitation title")
	return cmd
}
