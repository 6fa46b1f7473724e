// Package render turns planner, clock and conversion results into terminal
// text and shareable reports.
package render

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/codeGROOVE-dev/tzmeet/pkg/planner"
	"github.com/fatih/color"
)

const columnWidth = 12

// Plan is a finished scan together with the inputs that produced it.
type Plan struct {
	Slots        []planner.Slot
	Participants []planner.Participant
	Window       planner.Window
	Duration     int
}

// Slots renders the planner table: one row per slot, one column per
// participant. A participant's cell is green when the meeting fits their
// business hours and red when it does not; the marker column shows ✓ for
// slots everyone can attend.
func Slots(p Plan) string {
	var out strings.Builder

	out.WriteString(fmt.Sprintf("📅 Meeting slots (%d min, business hours %s)\n", p.Duration, p.Window))

	header := fmt.Sprintf("%-9s  ", "UTC")
	for _, part := range p.Participants {
		header += pad(part.Name, columnWidth)
	}
	out.WriteString(header + "\n")
	out.WriteString(strings.Repeat("─", utf8.RuneCountInString(header)) + "\n")

	fits := color.New(color.FgGreen)
	misses := color.New(color.FgRed)
	dim := color.New(color.FgHiBlack)
	marked := color.New(color.FgGreen, color.Bold)

	suitable := 0
	for _, slot := range p.Slots {
		marker := "  "
		if slot.Suitable {
			marker = marked.Sprint("✓") + " "
			suitable++
		}

		line := marker + fmt.Sprintf("%-7s  ", slot.Label)
		for i, local := range slot.Local {
			cell := pad(local.Clock, columnWidth)
			if i >= len(p.Participants) {
				line += cell
				continue
			}
			start, err := planner.ParseTimeOfDay(local.Clock)
			switch {
			case err != nil:
				line += dim.Sprint(cell)
			case planner.IsSuitable(start, p.Duration, p.Window):
				line += fits.Sprint(cell)
			default:
				line += misses.Sprint(cell)
			}
		}
		out.WriteString(strings.TrimRight(line, " ") + "\n")
	}

	if suitable == 0 {
		out.WriteString(dim.Sprint("No slot fits everyone's business hours") + "\n")
	} else {
		out.WriteString(fmt.Sprintf("%d of %d slots work for everyone\n", suitable, len(p.Slots)))
	}
	return out.String()
}

// pad truncates or pads s to width runes.
func pad(s string, width int) string {
	n := utf8.RuneCountInString(s)
	if n >= width {
		r := []rune(s)
		return string(r[:width-2]) + "… "
	}
	return s + strings.Repeat(" ", width-n)
}
