package calendar

import (
	"slices"
	"strings"
	"time"

	"github.com/alexanderramin/planboard/internal/domain"
)

// DayCell is one square of a month or week grid. Padding cells before the
// first and after the last day of a month have a zero Date and no events.
type DayCell struct {
	Date   domain.Date
	Events []domain.CalendarEvent
}

func (c DayCell) IsBlank() bool { return c.Date.IsZero() }

// WeekRow is a Sunday-to-Saturday row.
type WeekRow [7]DayCell

type MonthGrid struct {
	Year  int
	Month time.Month
	// Offset is the weekday of the 1st (0 = Sunday), i.e. the number of
	// leading blank cells.
	Offset int
	Days   int
	Weeks  []WeekRow
}

// Cell returns the cell for day-of-month day, if it exists.
func (g MonthGrid) Cell(day int) (DayCell, bool) {
	if day < 1 || day > g.Days {
		return DayCell{}, false
	}
	idx := g.Offset + day - 1
	return g.Weeks[idx/7][idx%7], true
}

type WeekGrid struct {
	Start domain.Date
	End   domain.Date
	Days  [7]DayCell
}

// DateGroup is a run of list entries sharing one date.
type DateGroup struct {
	Date   domain.Date
	Events []domain.CalendarEvent
}

// ProjectMonth lays events out on the month containing ref. Events dated
// outside that month are dropped.
func ProjectMonth(events []domain.CalendarEvent, ref domain.Date) MonthGrid {
	first := ref.FirstOfMonth()
	g := MonthGrid{
		Year:   first.Year,
		Month:  first.Month,
		Offset: int(first.Weekday()),
		Days:   domain.DaysIn(first.Year, first.Month),
	}
	byDate := bucketByDate(events)

	total := g.Offset + g.Days
	rows := (total + 6) / 7
	g.Weeks = make([]WeekRow, rows)
	for day := 1; day <= g.Days; day++ {
		date := domain.Date{Year: g.Year, Month: g.Month, Day: day}
		idx := g.Offset + day - 1
		g.Weeks[idx/7][idx%7] = DayCell{Date: date, Events: byDate[date]}
	}
	return g
}

// ProjectWeek lays events out on the Sunday-to-Saturday week containing ref.
func ProjectWeek(events []domain.CalendarEvent, ref domain.Date) WeekGrid {
	start := ref.StartOfWeek()
	g := WeekGrid{Start: start, End: start.AddDays(6)}
	byDate := bucketByDate(events)
	for i := range g.Days {
		date := start.AddDays(i)
		g.Days[i] = DayCell{Date: date, Events: byDate[date]}
	}
	return g
}

// ProjectList sorts events by (date, time) and groups consecutive entries
// sharing a date. Every input event lands in exactly one group; ties keep
// their input order.
func ProjectList(events []domain.CalendarEvent) []DateGroup {
	sorted := slices.Clone(events)
	SortByDateTime(sorted)

	var groups []DateGroup
	for _, e := range sorted {
		if n := len(groups); n > 0 && groups[n-1].Date == e.Date {
			groups[n-1].Events = append(groups[n-1].Events, e)
			continue
		}
		groups = append(groups, DateGroup{Date: e.Date, Events: []domain.CalendarEvent{e}})
	}
	return groups
}

func bucketByDate(events []domain.CalendarEvent) map[domain.Date][]domain.CalendarEvent {
	out := make(map[domain.Date][]domain.CalendarEvent)
	for _, e := range events {
		out[e.Date] = append(out[e.Date], e)
	}
	for date, bucket := range out {
		SortByDateTime(bucket)
		out[date] = bucket
	}
	return out
}

// SortByDateTime orders events by date, then time of day. All-day events
// (empty time) come first; ties keep their order.
func SortByDateTime(events []domain.CalendarEvent) {
	slices.SortStableFunc(events, func(a, b domain.CalendarEvent) int {
		if c := a.Date.Compare(b.Date); c != 0 {
			return c
		}
		return strings.Compare(clockKey(a.Time), clockKey(b.Time))
	})
}

// clockKey is the HH:MM of t. Rows stored before times were normalised may
// hold other text; those compare as written, after every valid time.
func clockKey(t string) string {
	if c, err := domain.ParseClock(t); err == nil {
		return c
	}
	return "~" + t
}
