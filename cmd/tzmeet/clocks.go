package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/codeGROOVE-dev/tzmeet/pkg/clock"
	"github.com/codeGROOVE-dev/tzmeet/pkg/render"
	"github.com/codeGROOVE-dev/tzmeet/pkg/tzmeet"
	"github.com/codeGROOVE-dev/tzmeet/pkg/weather"
	"github.com/spf13/cobra"
)

func newClocksCmd(a *app) *cobra.Command {
	var watch bool
	cmd := &cobra.Command{
		Use:   "clocks [ZONE...]",
		Short: "Show the current time around the world",
		Long: `Show the current time in your zone, UTC, New York, London, the clocks from
the config file and any zones given as arguments.

With --watch the board refreshes every second; tab moves the weather panel
between cities and q quits.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			extra := make([]tzmeet.ClockSpec, 0, len(a.cfg.Clocks)+len(args))
			for _, c := range a.cfg.Clocks {
				extra = append(extra, tzmeet.ClockSpec{Zone: c.Zone, Label: c.Label})
			}
			for _, z := range args {
				extra = append(extra, tzmeet.ClockSpec{Zone: z})
			}
			board := a.svc.Board(extra...)

			if !watch {
				fmt.Fprint(cmd.OutOrStdout(), render.Clocks(board.Snapshot(a.now())))
				return nil
			}
			m := newClockModel(cmd.Context(), board, a.svc, a.now)
			_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithOutput(cmd.OutOrStdout())).Run()
			return err
		},
	}
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Keep the board open and tick every second")
	return cmd
}

var (
	accentColor = lipgloss.Color("#5FAFAF")
	subtleColor = lipgloss.Color("#666666")
	dayColor    = lipgloss.Color("#D7AF5F")
	nightColor  = lipgloss.Color("#5F87AF")

	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(accentColor).MarginBottom(1)
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(accentColor)
	subtleStyle   = lipgloss.NewStyle().Foreground(subtleColor)
	dayStyle      = lipgloss.NewStyle().Foreground(dayColor)
	nightStyle    = lipgloss.NewStyle().Foreground(nightColor)
	panelStyle    = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(subtleColor).
			Padding(0, 2).
			MarginTop(1)
)

// weatherSource is the part of the service the clock board needs.
type weatherSource interface {
	RefreshWeather(ctx context.Context, zone string) (*weather.Data, bool, error)
}

type tickMsg time.Time

type weatherMsg struct {
	err  error
	data *weather.Data
	zone string
	ok   bool
}

// clockModel is the live world-clock board.
type clockModel struct {
	ctx        context.Context
	board      *clock.Board
	weather    weatherSource
	now        func() time.Time
	current    *weather.Data
	weatherErr error
	items      []clock.Description
	focus      int
}

func newClockModel(ctx context.Context, board *clock.Board, ws weatherSource, now func() time.Time) clockModel {
	if ctx == nil {
		ctx = context.Background()
	}
	m := clockModel{ctx: ctx, board: board, weather: ws, now: now}
	m.items = board.Snapshot(now())
	return m
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// fetchWeather loads weather for the focused clock. Only the newest request's
// answer is shown; older ones come back with ok=false.
func (m clockModel) fetchWeather() tea.Cmd {
	if m.weather == nil || len(m.items) == 0 {
		return nil
	}
	zone := m.items[m.focus].Zone
	ctx := m.ctx
	ws := m.weather
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
		defer cancel()
		d, ok, err := ws.RefreshWeather(ctx, zone)
		return weatherMsg{zone: zone, data: d, ok: ok, err: err}
	}
}

func (m clockModel) Init() tea.Cmd {
	return tea.Batch(tick(), m.fetchWeather())
}

func (m clockModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.items = m.board.Snapshot(m.now())
		if m.focus >= len(m.items) {
			m.focus = max(len(m.items)-1, 0)
		}
		return m, tick()

	case weatherMsg:
		if len(m.items) == 0 || msg.zone != m.items[m.focus].Zone {
			return m, nil
		}
		switch {
		case msg.err != nil:
			m.current = nil
			m.weatherErr = msg.err
		case msg.ok:
			m.current = msg.data
			m.weatherErr = nil
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "tab", "down", "j":
			return m.moveFocus(1)
		case "shift+tab", "up", "k":
			return m.moveFocus(-1)
		}
	}
	return m, nil
}

func (m clockModel) moveFocus(delta int) (tea.Model, tea.Cmd) {
	if len(m.items) == 0 {
		return m, nil
	}
	m.focus = (m.focus + delta + len(m.items)) % len(m.items)
	m.current = nil
	m.weatherErr = nil
	return m, m.fetchWeather()
}

func (m clockModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("🕑 World clock"))
	b.WriteString("\n")

	for i, d := range m.items {
		marker := nightStyle.Render("☾")
		if d.IsDaytime {
			marker = dayStyle.Render("☀")
		}
		label := fmt.Sprintf("%-16s %s", d.Label, d.LocalTime)
		if i == m.focus {
			label = selectedStyle.Render("▸ " + label)
		} else {
			label = "  " + label
		}
		line := fmt.Sprintf("%s %s  %s", marker, label, subtleStyle.Render(fmt.Sprintf("%s  UTC%s %s", d.Date, d.Offset, d.Abbreviation)))
		if d.IsDST {
			line += " " + dayStyle.Render("DST")
		}
		b.WriteString(line + "\n")
	}

	if panel := m.weatherPanel(); panel != "" {
		b.WriteString(panelStyle.Render(panel))
		b.WriteString("\n")
	}
	b.WriteString(subtleStyle.Render("tab next city • shift+tab previous • q quit"))
	b.WriteString("\n")
	return b.String()
}

func (m clockModel) weatherPanel() string {
	switch {
	case m.current != nil:
		w := m.current
		return fmt.Sprintf("%s: %s, %d°C\nhumidity %d%%, wind %d km/h", w.Location, w.Description, w.Temperature, w.Humidity, w.WindSpeed)
	case errors.Is(m.weatherErr, tzmeet.ErrWeatherDisabled):
		return ""
	case errors.Is(m.weatherErr, weather.ErrNoCoordinates):
		return subtleStyle.Render("No weather for this zone")
	case m.weatherErr != nil:
		return subtleStyle.Render("Weather unavailable")
	default:
		return ""
	}
}
