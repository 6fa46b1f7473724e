package main

import (
	"fmt"
	"time"

	"github.com/codeGROOVE-dev/tzmeet/pkg/render"
	"github.com/codeGROOVE-dev/tzmeet/pkg/tzconvert"
	"github.com/spf13/cobra"
)

func newConvertCmd(a *app) *cobra.Command {
	var date, from, to string
	cmd := &cobra.Command{
		Use:   "convert [HH:MM]",
		Short: "Convert a wall-clock time from one zone to another",
		Long: `Convert a wall-clock time from one zone to another.

Without --from or --to the zones of the previous conversion are used, or your
local zone and UTC on first use. Without a time the current time is converted.`,
		Example: `  tzmeet convert 09:00 --from America/New_York --to Europe/London
  tzmeet convert 23:00 --date 2024-06-10 --to Europe/Moscow`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lastFrom, lastTo := a.lastZones()
			if from == "" {
				from = lastFrom
			}
			if to == "" {
				to = lastTo
			}
			loc, err := tzconvert.LoadZone(from)
			if err != nil {
				return fmt.Errorf("--from: %w", err)
			}

			now := a.now().In(loc)
			clock := now.Format("15:04")
			if len(args) == 1 {
				clock = args[0]
			}
			if date == "" {
				date = now.Format(time.DateOnly)
			}

			c, err := a.svc.Convert(date, clock, from, to)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), render.Conversion(c.Conversion, c.SourceDST, c.TargetDST))

			if err := a.saveSettings(from, to); err != nil {
				a.logger.Warn("failed to save settings", "path", a.cfg.SettingsPath, "error", err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "Date as YYYY-MM-DD (default today in the source zone)")
	cmd.Flags().StringVar(&from, "from", "", "Source zone")
	cmd.Flags().StringVar(&to, "to", "", "Target zone")
	return cmd
}
