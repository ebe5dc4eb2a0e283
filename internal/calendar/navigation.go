package calendar

import (
	"time"

	"github.com/alexanderramin/planboard/internal/domain"
)

// Navigator holds the reference date and view mode of one rendering
// session.
type Navigator struct {
	ref  domain.Date
	mode domain.ViewMode
	now  func() time.Time
}

type NavigatorOption func(*Navigator)

// WithNavigatorClock overrides the clock used by Today.
func WithNavigatorClock(now func() time.Time) NavigatorOption {
	return func(n *Navigator) { n.now = now }
}

// NewNavigator starts at ref in the given mode. A zero ref means today and
// an unknown mode means month.
func NewNavigator(ref domain.Date, mode domain.ViewMode, opts ...NavigatorOption) *Navigator {
	n := &Navigator{ref: ref, mode: mode, now: time.Now}
	for _, opt := range opts {
		opt(n)
	}
	if n.ref.IsZero() {
		n.ref = domain.DateOf(n.now())
	}
	if !n.mode.Known() {
		n.mode = domain.ViewMonth
	}
	return n
}

func (n *Navigator) ReferenceDate() domain.Date { return n.ref }
func (n *Navigator) Mode() domain.ViewMode      { return n.mode }

// SetViewMode switches the projection; the reference date is untouched.
func (n *Navigator) SetViewMode(mode domain.ViewMode) {
	if mode.Known() {
		n.mode = mode
	}
}

// SetReferenceDate jumps directly to d.
func (n *Navigator) SetReferenceDate(d domain.Date) {
	if !d.IsZero() {
		n.ref = d
	}
}

// Next advances by one week in week mode and one clamped month otherwise.
func (n *Navigator) Next() domain.Date {
	n.ref = n.step(1)
	return n.ref
}

// Previous is the inverse step of Next.
func (n *Navigator) Previous() domain.Date {
	n.ref = n.step(-1)
	return n.ref
}

// Today resets the reference date to the current day.
func (n *Navigator) Today() domain.Date {
	n.ref = domain.DateOf(n.now())
	return n.ref
}

func (n *Navigator) step(dir int) domain.Date {
	if n.mode == domain.ViewWeek {
		return n.ref.AddDays(7 * dir)
	}
	return n.ref.AddMonthsClamped(dir)
}
