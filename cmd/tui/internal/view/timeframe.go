package view

import (
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
)

// Timeframe is a preset date range, relative to today, or a custom one.
type Timeframe int

const (
	TimeframeToday Timeframe = iota
	TimeframeThisWeek
	TimeframeLastWeek
	TimeframeThisMonth
	TimeframeLastMonth
	TimeframeAll
	TimeframeCustom
)

var timeframeNames = map[Timeframe]string{
	TimeframeToday:     "Today",
	TimeframeThisWeek:  "This Week",
	TimeframeLastWeek:  "Last Week",
	TimeframeThisMonth: "This Month",
	TimeframeLastMonth: "Last Month",
	TimeframeAll:       "All Time",
	TimeframeCustom:    "Custom Range",
}

func (t Timeframe) String() string {
	if name, ok := timeframeNames[t]; ok {
		return name
	}

	return "Unknown"
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// monday is the Monday starting the week of t. Weeks run Monday to Sunday.
func monday(t time.Time) time.Time {
	back := (int(t.Weekday()) + 6) % 7
	return midnight(t).AddDate(0, 0, -back)
}

// timeframeToDateRange returns the first and the last day, both inclusive, of tf relative
// to now.
func timeframeToDateRange(tf Timeframe, now time.Time) (first, last time.Time) {
	today := midnight(now)
	month := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	switch tf {
	case TimeframeToday:
		return today, today
	case TimeframeThisWeek:
		return monday(now), today
	case TimeframeLastWeek:
		start := monday(now).AddDate(0, 0, -7)
		return start, start.AddDate(0, 0, 6)
	case TimeframeThisMonth:
		return month, today
	case TimeframeLastMonth:
		return month.AddDate(0, -1, 0), month.AddDate(0, 0, -1)
	}

	return time.Time{}, time.Time{}
}

// halfOpen turns an inclusive day range into [first midnight, midnight after last).
func halfOpen(first, last time.Time) (time.Time, time.Time) {
	from := time.Date(first.Year(), first.Month(), first.Day(), 0, 0, 0, 0, time.Local)
	to := time.Date(last.Year(), last.Month(), last.Day(), 0, 0, 0, 0, time.Local).AddDate(0, 0, 1)

	return from, to
}

// TimeframeSelectedMsg is emitted once a range is picked. The range is [From, To); both
// are zero when All is true.
type TimeframeSelectedMsg struct {
	From time.Time
	To   time.Time
	All  bool
}

func (m TimeframeSelectedMsg) Label() string {
	if m.All {
		return TimeframeAll.String()
	}

	return fmt.Sprintf("%s to %s", FormatDate(m.From), FormatDate(m.To.AddDate(0, 0, -1)))
}

var errEndBeforeStart = errors.New("end date is before start date")

func parseDay(s string) (time.Time, error) {
	d, err := time.ParseInLocation(time.DateOnly, strings.TrimSpace(s), time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("use YYYY-MM-DD")
	}

	return d, nil
}

// customRange validates a typed in range and converts it to a selection.
func customRange(start, end string) (TimeframeSelectedMsg, error) {
	first, err := parseDay(start)
	if err != nil {
		return TimeframeSelectedMsg{}, fmt.Errorf("start date: %w", err)
	}

	last, err := parseDay(end)
	if err != nil {
		return TimeframeSelectedMsg{}, fmt.Errorf("end date: %w", err)
	}

	if last.Before(first) {
		return TimeframeSelectedMsg{}, errEndBeforeStart
	}

	from, to := halfOpen(first, last)

	return TimeframeSelectedMsg{From: from, To: to}, nil
}

func selectTimeframe(tf Timeframe, now time.Time) TimeframeSelectedMsg {
	if tf == TimeframeAll {
		return TimeframeSelectedMsg{All: true}
	}

	from, to := halfOpen(timeframeToDateRange(tf, now))

	return TimeframeSelectedMsg{From: from, To: to}
}

// TimeframePicker lets the user pick a preset range or type in a custom one. It emits a
// TimeframeSelectedMsg.
type TimeframePicker struct {
	cursor   Timeframe
	minFrame Timeframe

	custom *huh.Form
	dates  *struct{ Start, End string }
	err    error
}

// NewTimeframePicker offers the presets from minFrame on.
func NewTimeframePicker(minFrame Timeframe) TimeframePicker {
	return TimeframePicker{
		cursor:   minFrame,
		minFrame: minFrame,
		dates:    &struct{ Start, End string }{},
	}
}

func (m TimeframePicker) Init() tea.Cmd {
	return nil
}

func (m TimeframePicker) Update(msg tea.Msg) (TimeframePicker, tea.Cmd) {
	if m.custom != nil {
		return m.updateCustom(msg)
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.Type {
	case tea.KeyUp:
		m.cursor = max(m.cursor-1, m.minFrame)
	case tea.KeyDown:
		m.cursor = min(m.cursor+1, TimeframeCustom)
	case tea.KeyEnter:
		if m.cursor == TimeframeCustom {
			m.err = nil
			m.custom = m.customForm()

			return m, m.custom.Init()
		}

		selected := selectTimeframe(m.cursor, time.Now())

		return m, func() tea.Msg { return selected }
	}

	return m, nil
}

func (m TimeframePicker) updateCustom(msg tea.Msg) (TimeframePicker, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.custom = nil
		m.err = nil

		return m, nil
	}

	form, cmd := m.custom.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.custom = f
	}

	if m.custom.State != huh.StateCompleted {
		return m, cmd
	}

	selected, err := customRange(m.dates.Start, m.dates.End)
	if err != nil {
		m.err = err
		m.custom = m.customForm()

		return m, m.custom.Init()
	}

	m.custom = nil
	m.err = nil

	return m, func() tea.Msg { return selected }
}

func (m TimeframePicker) customForm() *huh.Form {
	day := func(s string) error {
		_, err := parseDay(s)
		return err
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Key("start").Title("Start Date").Placeholder("YYYY-MM-DD").
				CharLimit(10).Value(&m.dates.Start).Validate(day),
			huh.NewInput().Key("end").Title("End Date").Placeholder("YYYY-MM-DD").
				CharLimit(10).Value(&m.dates.End).Validate(day),
		),
	).WithWidth(30).WithShowHelp(false)
}

func (m TimeframePicker) View() string {
	var sb strings.Builder

	if m.custom != nil {
		sb.WriteString("Enter Custom Range (inclusive):\n\n")
		sb.WriteString(m.custom.View())
		sb.WriteString("\n(Esc to go back)")
	} else {
		sb.WriteString("Select Timeframe:\n\n")

		for tf := m.minFrame; tf <= TimeframeCustom; tf++ {
			if tf == m.cursor {
				sb.WriteString(activeStyle("> " + tf.String()))
			} else {
				sb.WriteString("  " + tf.String())
			}

			sb.WriteString("\n")
		}

		sb.WriteString("\n(Enter to select, Esc to back)")
	}

	if m.err != nil {
		sb.WriteString(errorStyle.Render(fmt.Sprintf("\n\nError: %v", m.err)))
	}

	return sb.String()
}

// IsSelecting reports whether the preset list is showing, so Esc belongs to the parent.
func (m TimeframePicker) IsSelecting() bool {
	return m.custom == nil
}

// Reset returns the picker to the preset list.
func (m *TimeframePicker) Reset() {
	m.cursor = m.minFrame
	m.custom = nil
	m.err = nil
	m.dates.Start, m.dates.End = "", ""
}
