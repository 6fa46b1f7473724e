package main

import (
	"fmt"
	"strings"

	"github.com/codeGROOVE-dev/tzmeet/pkg/zones"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newZonesCmd(a *app) *cobra.Command {
	var (
		recent   bool
		lat, lon float64
	)
	cmd := &cobra.Command{
		Use:   "zones [query]",
		Short: "List selectable zones sorted by UTC offset",
		Example: `  tzmeet zones america
  tzmeet zones --recent
  tzmeet zones --lat 35.68 --lon 139.69`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			dim := color.New(color.FgHiBlack)

			if cmd.Flags().Changed("lat") || cmd.Flags().Changed("lon") {
				zone, err := zones.DetectFromCoordinates(lat, lon)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, zone)
				return nil
			}

			if recent {
				list := a.svc.Recent().List()
				if len(list) == 0 {
					fmt.Fprintln(out, dim.Sprint("No recent zones yet"))
				}
				for _, z := range list {
					fmt.Fprintln(out, z)
				}
				return nil
			}

			query := ""
			if len(args) == 1 {
				query = args[0]
			}
			list, err := a.svc.Zones(query)
			if err != nil {
				return err
			}
			if len(list) == 0 {
				return fmt.Errorf("no zone matches %q", query)
			}
			for _, z := range list {
				marker := "  "
				if z.ID == a.svc.LocalZone() {
					marker = color.New(color.FgGreen).Sprint("* ")
				}
				fmt.Fprintf(out, "%sUTC%s  %s %s\n", marker, z.Offset, dim.Sprint(padRight(z.Abbreviation, 6)), z.ID)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&recent, "recent", false, "Show recently used zones instead")
	cmd.Flags().Float64Var(&lat, "lat", 0, "Latitude: print the zone containing this point")
	cmd.Flags().Float64Var(&lon, "lon", 0, "Longitude: print the zone containing this point")
	return cmd
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}
