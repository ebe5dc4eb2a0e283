package calendar

import (
	"testing"
	"time"

	"github.com/alexanderramin/planboard/internal/domain"
	"github.com/alexanderramin/planboard/internal/testutil"
	"github.com/stretchr/testify/assert"
)

func TestNavigator_MonthNextClampsWithoutSkipping(t *testing.T) {
	n := NewNavigator(testutil.Date(2025, time.January, 31), domain.ViewMonth)
	assert.Equal(t, testutil.Date(2025, time.February, 28), n.Next())
	assert.Equal(t, testutil.Date(2025, time.March, 28), n.Next())
}

func TestNavigator_MonthNextLeapYear(t *testing.T) {
	n := NewNavigator(testutil.Date(2024, time.January, 31), domain.ViewMonth)
	assert.Equal(t, testutil.Date(2024, time.February, 29), n.Next())
	assert.Equal(t, testutil.Date(2024, time.March, 29), n.Next())
}

func TestNavigator_MonthPreviousAcrossYear(t *testing.T) {
	n := NewNavigator(testutil.Date(2025, time.March, 31), domain.ViewMonth)
	assert.Equal(t, testutil.Date(2025, time.February, 28), n.Previous())
	assert.Equal(t, testutil.Date(2025, time.January, 28), n.Previous())
	assert.Equal(t, testutil.Date(2024, time.December, 28), n.Previous())
}

func TestNavigator_WeekStepsSevenDays(t *testing.T) {
	n := NewNavigator(testutil.Date(2025, time.December, 29), domain.ViewWeek)
	assert.Equal(t, testutil.Date(2026, time.January, 5), n.Next())
	assert.Equal(t, testutil.Date(2025, time.December, 29), n.Previous())
	assert.Equal(t, testutil.Date(2025, time.December, 22), n.Previous())
}

func TestNavigator_ListReusesMonthSteps(t *testing.T) {
	n := NewNavigator(testutil.Date(2025, time.January, 31), domain.ViewList)
	assert.Equal(t, testutil.Date(2025, time.February, 28), n.Next())
}

func TestNavigator_SetViewModeKeepsReferenceDate(t *testing.T) {
	ref := testutil.Date(2025, time.April, 5)
	n := NewNavigator(ref, domain.ViewMonth)
	n.SetViewMode(domain.ViewWeek)
	assert.Equal(t, domain.ViewWeek, n.Mode())
	assert.Equal(t, ref, n.ReferenceDate())

	n.SetViewMode("year")
	assert.Equal(t, domain.ViewWeek, n.Mode(), "unknown modes are ignored")
}

func TestNavigator_Today(t *testing.T) {
	n := NewNavigator(testutil.Date(2020, time.June, 1), domain.ViewMonth,
		WithNavigatorClock(testutil.FixedClock()))
	assert.Equal(t, testutil.Date(2025, time.April, 5), n.Today())
	assert.Equal(t, testutil.Date(2025, time.April, 5), n.ReferenceDate())
}

func TestNavigator_Defaults(t *testing.T) {
	n := NewNavigator(domain.Date{}, "", WithNavigatorClock(testutil.FixedClock()))
	assert.Equal(t, testutil.Date(2025, time.April, 5), n.ReferenceDate())
	assert.Equal(t, domain.ViewMonth, n.Mode())

	n.SetReferenceDate(testutil.Date(2025, time.May, 1))
	n.SetReferenceDate(domain.Date{})
	assert.Equal(t, testutil.Date(2025, time.May, 1), n.ReferenceDate())
}
