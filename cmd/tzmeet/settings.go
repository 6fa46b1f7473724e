package main

import (
	"fmt"
	"io"
	"os"

	"github.com/codeGROOVE-dev/tzmeet/pkg/settings"
	"github.com/spf13/cobra"
)

func newSettingsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Export or import recent zones and the last conversion",
	}

	cmd.AddCommand(&cobra.Command{
		Use:     "export [FILE]",
		Short:   "Write settings as JSON to FILE or stdout",
		Example: "  tzmeet settings export " + settings.FileName,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, target := a.lastZones()
			prev, err := settings.Load(a.cfg.SettingsPath)
			if err != nil {
				return err
			}
			doc := settings.Capture(a.svc.Recent(), source, target, prev.Analytics)

			if len(args) == 0 {
				return settings.Export(cmd.OutOrStdout(), doc)
			}
			if err := settings.Save(args[0], doc); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Settings exported to %s\n", args[0])
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "import FILE",
		Short: "Replace settings with a previously exported file (- for stdin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var r io.Reader = cmd.InOrStdin()
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("opening settings: %w", err)
				}
				defer func() {
					if err := f.Close(); err != nil {
						a.logger.Debug("failed to close settings file", "error", err)
					}
				}()
				r = f
			}

			doc, err := settings.Import(r)
			if err != nil {
				return err
			}
			doc.ApplyRecent(a.svc.Recent())
			if err := settings.Save(a.cfg.SettingsPath, doc); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d recent zones\n", len(doc.RecentTimezones))
			return nil
		},
	})
	return cmd
}
