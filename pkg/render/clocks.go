package render

import (
	"fmt"
	"strings"

	"github.com/codeGROOVE-dev/tzmeet/pkg/clock"
	"github.com/codeGROOVE-dev/tzmeet/pkg/tzconvert"
	"github.com/fatih/color"
)

// Clocks renders one line per clock: day or night marker, label, time,
// date and offset, with a DST tag where it applies.
func Clocks(descs []clock.Description) string {
	var out strings.Builder
	out.WriteString("🕑 World clock\n")
	out.WriteString(strings.Repeat("─", 50) + "\n")

	day := color.New(color.FgYellow)
	night := color.New(color.FgBlue)
	bold := color.New(color.Bold)
	dim := color.New(color.FgHiBlack)

	for _, d := range descs {
		marker := night.Sprint("☾")
		if d.IsDaytime {
			marker = day.Sprint("☀")
		}
		line := fmt.Sprintf("%s %s %s  %s  %s",
			marker, pad(d.Label, 16), bold.Sprint(d.LocalTime), d.Date, dim.Sprintf("UTC%s %s", d.Offset, d.Abbreviation))
		if d.IsDST {
			line += " " + day.Sprint("DST")
		}
		out.WriteString(line + "\n")
	}
	return out.String()
}

// Conversion renders a converter result. The DST flags are those of the
// source and target zones at noon on the converted date.
func Conversion(c *tzconvert.Conversion, sourceDST, targetDST bool) string {
	var out strings.Builder
	bold := color.New(color.Bold)
	dim := color.New(color.FgHiBlack)
	warn := color.New(color.FgYellow)

	dst := func(on bool) string {
		if on {
			return " " + warn.Sprint("(DST)")
		}
		return ""
	}

	out.WriteString(fmt.Sprintf("%s  %s%s\n", pad(c.SourceZone, 24), bold.Sprint(c.Source.String()), dst(sourceDST)))
	out.WriteString(fmt.Sprintf("%s  %s %s%s\n", pad(c.TargetZone, 24), bold.Sprint(c.Target.String()), dim.Sprint(c.TargetOffset), dst(targetDST)))

	var notes []string
	if label := c.Delta.Label(); label != "" {
		notes = append(notes, label)
	} else {
		notes = append(notes, "same time")
	}
	if shift := c.DayShift.String(); shift != "" {
		notes = append(notes, warn.Sprint(shift))
	}
	out.WriteString(dim.Sprint("→ ") + strings.Join(notes, ", ") + "\n")
	return out.String()
}
