package formatter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/planboard/internal/calendar"
	"github.com/alexanderramin/planboard/internal/domain"
)

// GridOptions controls month and week grid rendering. Zero widths and
// limits fall back to per-view defaults.
type GridOptions struct {
	Today     domain.Date
	Cursor    domain.Date
	CellWidth int
	MaxEvents int
}

func (o GridOptions) withDefaults(width, maxEvents int) GridOptions {
	if o.CellWidth <= 2 {
		o.CellWidth = width
	}
	if o.MaxEvents <= 0 {
		o.MaxEvents = maxEvents
	}
	return o
}

var weekdayNames = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// MonthTitle returns the grid's label, e.g. "April 2025".
func MonthTitle(g calendar.MonthGrid) string {
	return fmt.Sprintf("%s %d", g.Month, g.Year)
}

// WeekRange labels a week, collapsing the shared month and year:
// "Apr 6 - 12, 2025", "Mar 30 - Apr 5, 2025" or "Dec 28, 2025 - Jan 3, 2026".
func WeekRange(g calendar.WeekGrid) string {
	s, e := g.Start, g.End
	switch {
	case s.Year != e.Year:
		return fmt.Sprintf("%s %d, %d - %s %d, %d", shortMonth(s), s.Day, s.Year, shortMonth(e), e.Day, e.Year)
	case s.Month != e.Month:
		return fmt.Sprintf("%s %d - %s %d, %d", shortMonth(s), s.Day, shortMonth(e), e.Day, e.Year)
	default:
		return fmt.Sprintf("%s %d - %d, %d", shortMonth(s), s.Day, e.Day, e.Year)
	}
}

// FormatMonth renders a month grid, Sunday first, with up to MaxEvents
// entries per day and a "+N more" line for the rest.
func FormatMonth(g calendar.MonthGrid, opts GridOptions) string {
	opts = opts.withDefaults(14, 3)

	var b strings.Builder
	b.WriteString(Header(MonthTitle(g)))
	b.WriteString("\n\n")
	b.WriteString(weekdayHeader(opts.CellWidth))
	for _, row := range g.Weeks {
		b.WriteString(renderRow(row[:], opts, monthDayLabel))
	}
	return b.String()
}

// FormatWeek renders seven day columns from Sunday to Saturday.
func FormatWeek(g calendar.WeekGrid, opts GridOptions) string {
	opts = opts.withDefaults(16, 6)

	var b strings.Builder
	b.WriteString(Header("Week of " + WeekRange(g)))
	b.WriteString("\n\n")
	b.WriteString(weekdayHeader(opts.CellWidth))
	b.WriteString(renderRow(g.Days[:], opts, weekDayLabel))
	return b.String()
}

// FormatAgenda renders date groups in order, one line per event.
func FormatAgenda(groups []calendar.DateGroup, today domain.Date) string {
	if len(groups) == 0 {
		return Dim("No events.") + "\n"
	}

	var b strings.Builder
	for i, g := range groups {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(StyleBold.Render(HumanDate(g.Date)))
		if !today.IsZero() {
			b.WriteString("  " + Dim(RelativeDay(g.Date, today)))
		}
		b.WriteString("\n")
		for _, e := range g.Events {
			b.WriteString("  " + FormatEventLine(e) + "\n")
		}
	}
	return b.String()
}

// FormatEventLine is the one-line summary used in agendas and lists.
func FormatEventLine(e domain.CalendarEvent) string {
	clock := e.Time
	if clock == "" {
		clock = "all day"
	}

	title := e.Title
	switch e.Status {
	case domain.StatusCompleted, domain.StatusCancelled:
		title = StyleStrike.Render(title)
	}

	parts := []string{
		padRight(Dim(clock), 8) + TypeStyle(e.Type).Render(TypeIcon(e.Type)) + " " + title,
		PriorityPill(e.Priority),
	}
	if e.Status != domain.StatusUpcoming {
		parts = append(parts, StatusPill(e.Status))
	}
	if len(e.AssignedTo) > 0 {
		parts = append(parts, Dim("@"+strings.Join(e.AssignedTo, ", @")))
	}
	parts = append(parts, TruncID(e.ID))
	return strings.Join(parts, "  ")
}

// FormatEvent renders the detail panel for one event.
func FormatEvent(e domain.CalendarEvent) string {
	rows := [][2]string{
		{"Type", TypeBadge(e.Type)},
		{"Date", HumanDate(e.Date)},
		{"Time", orDash(e.Time)},
		{"Duration", orDash(e.Duration)},
		{"Location", orDash(e.Location)},
		{"Status", StatusPill(e.Status)},
		{"Priority", PriorityPill(e.Priority)},
		{"Assigned", orDash(strings.Join(e.AssignedTo, ", "))},
		{"Tags", orDash(formatTags(e.Tags))},
		{"ID", Dim(e.ID)},
	}

	var b strings.Builder
	for i, r := range rows {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(padRight(Dim(r[0]), 10) + r[1])
	}
	if e.Description != "" {
		b.WriteString("\n\n" + e.Description)
	}
	return RenderBox(e.Title, b.String())
}

// FormatPeople lists directory names with how many events each is assigned.
func FormatPeople(names []string, counts map[string]int) string {
	if len(names) == 0 {
		return Dim("No people match.") + "\n"
	}
	rows := make([][]string, 0, len(names))
	for _, n := range names {
		rows = append(rows, []string{n, strconv.Itoa(counts[n])})
	}
	return RenderTable([]string{"NAME", "EVENTS"}, rows)
}

type dayLabelFunc func(d domain.Date) string

func monthDayLabel(d domain.Date) string { return strconv.Itoa(d.Day) }

func weekDayLabel(d domain.Date) string { return fmt.Sprintf("%s %d", shortMonth(d), d.Day) }

func weekdayHeader(width int) string {
	cells := make([]string, len(weekdayNames))
	for i, n := range weekdayNames {
		cells[i] = padRight(StyleHeader.Render(n), width)
	}
	return strings.Join(cells, Dim("│")) + "\n" + separator(width)
}

func separator(width int) string {
	segs := make([]string, 7)
	for i := range segs {
		segs[i] = strings.Repeat("─", width)
	}
	return Dim(strings.Join(segs, "┼")) + "\n"
}

// renderRow draws seven cells side by side. Every cell gets the same
// height: one label line plus MaxEvents entry lines.
func renderRow(cells []calendar.DayCell, opts GridOptions, label dayLabelFunc) string {
	height := 1 + opts.MaxEvents
	columns := make([][]string, len(cells))
	for i, c := range cells {
		columns[i] = cellLines(c, opts, label)
	}

	var b strings.Builder
	for line := 0; line < height; line++ {
		parts := make([]string, len(columns))
		for i, col := range columns {
			text := ""
			if line < len(col) {
				text = col[line]
			}
			parts[i] = padRight(text, opts.CellWidth)
		}
		b.WriteString(strings.Join(parts, Dim("│")))
		b.WriteString("\n")
	}
	b.WriteString(separator(opts.CellWidth))
	return b.String()
}

func cellLines(c calendar.DayCell, opts GridOptions, label dayLabelFunc) []string {
	if c.IsBlank() {
		return nil
	}

	day := label(c.Date)
	if c.Date == opts.Cursor {
		day = "[" + day + "]"
	}
	if c.Date == opts.Today {
		day = StyleHeader.Render(day)
	}
	lines := []string{day}

	width := opts.CellWidth - 2
	shown := c.Events
	overflow := 0
	if len(shown) > opts.MaxEvents {
		overflow = len(shown) - (opts.MaxEvents - 1)
		shown = shown[:opts.MaxEvents-1]
	}
	for _, e := range shown {
		text := Truncate(e.Title, width)
		if e.Status == domain.StatusCompleted || e.Status == domain.StatusCancelled {
			text = StyleStrike.Render(text)
		}
		lines = append(lines, TypeStyle(e.Type).Render(TypeIcon(e.Type))+" "+text)
	}
	if overflow > 0 {
		lines = append(lines, Dim(fmt.Sprintf("+%d more", overflow)))
	}
	return lines
}

func shortMonth(d domain.Date) string {
	return d.Month.String()[:3]
}

func formatTags(tags []string) string {
	if len(tags) == 0 {
		return ""
	}
	return "#" + strings.Join(tags, " #")
}

func orDash(s string) string {
	if s == "" {
		return Dim("--")
	}
	return s
}
