package main

import (
	"context"
	"fmt"
	"time"

	"github.com/codeGROOVE-dev/tzmeet/pkg/render"
	"github.com/codeGROOVE-dev/tzmeet/pkg/tzconvert"
	"github.com/spf13/cobra"
)

func newExtrasCmd(a *app) *cobra.Command {
	var from, format string
	cmd := &cobra.Command{
		Use:   "extras ZONE",
		Short: "Show the time, weather, travel times and city guide for a zone",
		Example: `  tzmeet extras Asia/Tokyo
  tzmeet extras Europe/Paris --from America/New_York --format html > paris.html`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			to := args[0]
			if from == "" {
				from = a.svc.LocalZone()
			}
			loc, err := tzconvert.LoadZone(from)
			if err != nil {
				return fmt.Errorf("--from: %w", err)
			}
			now := a.now().In(loc)
			c, err := a.svc.Convert(now.Format(time.DateOnly), now.Format("15:04"), from, to)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
			defer cancel()
			x := a.svc.Extras(ctx, from, to)

			report := render.Report{
				Conversion:  c.Conversion,
				SourceDST:   c.SourceDST,
				TargetDST:   c.TargetDST,
				Weather:     x.Weather,
				Travel:      x.Travel,
				Landmark:    x.Landmark,
				Coordinates: x.Coordinates,
			}
			var out string
			switch format {
			case "markdown", "md":
				out, err = render.ReportMarkdown(report)
			case "html":
				out, err = render.ReportHTML(report)
			default:
				return fmt.Errorf("--format %q: want markdown or html", format)
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "Zone you would travel from (default your zone)")
	cmd.Flags().StringVar(&format, "format", "markdown", "Output format: markdown or html")
	return cmd
}
