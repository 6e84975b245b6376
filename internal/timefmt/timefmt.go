// Package timefmt renders launch timestamps as short human strings
// relative to "now". All functions are pure; the caller supplies both the
// reference instant and the display time zone.
//
// Local-relative forms (Today, Yesterday, Last Wednesday) use the
// configured zone. Coarse precisions (day and wider) deliberately format
// in UTC: the source datum carries no time-of-day, and localizing it
// would imply precision the record does not have.
package timefmt

import (
	"fmt"
	"strconv"
	"time"

	"github.com/mkrebs/padwatch/internal/model"
)

const (
	clockLayout    = "3:04 PM"
	weekdayLayout  = "Monday 3:04 PM"
	absoluteLayout = "Monday, January 2 3:04 PM"
)

// Unknown is the visible fallback for precisions with no defined
// rendering (quarter, half).
const Unknown = "Unknown"

// Format renders t at the given precision, relative to now, in loc.
func Format(t time.Time, p model.Precision, now time.Time, loc *time.Location) string {
	switch p {
	case model.PrecisionDay:
		return formatDay(t, now)
	case model.PrecisionMonth:
		return formatMonth(t, now)
	case model.PrecisionYear:
		return formatYear(t, now)
	case model.PrecisionQuarter, model.PrecisionHalf:
		return Unknown
	default:
		return formatExact(t, now, loc)
	}
}

// formatExact handles minute/hour-level timestamps.
func formatExact(t, now time.Time, loc *time.Location) string {
	lt := t.In(loc)
	ln := now.In(loc)

	// Beyond a week either way: fully absolute.
	if t.After(now.Add(7*24*time.Hour)) || t.Before(now.Add(-7*24*time.Hour)) {
		return lt.Format(absoluteLayout)
	}

	switch {
	case sameDate(lt, ln):
		return "Today " + lt.Format(clockLayout)
	case sameDate(lt, ln.AddDate(0, 0, -1)):
		return "Yesterday " + lt.Format(clockLayout)
	case t.Before(now):
		return "Last " + lt.Format(weekdayLayout)
	default:
		return lt.Format(weekdayLayout)
	}
}

// formatDay renders a date-only timestamp as its UTC weekday name.
// The comparison is by weekday name, not calendar date: a date-precision
// record only supports "is it this weekday" display.
func formatDay(t, now time.Time) string {
	ut := t.UTC()
	if ut.Weekday() == now.UTC().Weekday() {
		return "Today"
	}
	return ut.Weekday().String()
}

// formatMonth renders a month-only timestamp as its UTC month name.
func formatMonth(t, now time.Time) string {
	ut := t.UTC()
	un := now.UTC()
	if ut.Year() == un.Year() && ut.Month() == un.Month() {
		return "This Month"
	}
	return ut.Month().String()
}

// formatYear renders a year-only timestamp as a four-digit year.
func formatYear(t, now time.Time) string {
	if t.UTC().Year() == now.UTC().Year() {
		return "This Year"
	}
	return strconv.Itoa(t.UTC().Year())
}

// sameDate reports whether a and b fall on the same calendar date in
// their own locations.
func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// Countdown renders the offset between now and t in launch-clock style:
// "T-1h38m" before the instant, "T+12m" after, rounded to the minute.
// Coarse precisions have no meaningful countdown and render as empty.
func Countdown(t, now time.Time, p model.Precision) string {
	if p.Coarse() {
		return ""
	}
	d := t.Sub(now).Round(time.Minute)
	sign := "-"
	if d < 0 {
		sign = "+"
		d = -d
	}
	h := int(d / time.Hour)
	m := int(d % time.Hour / time.Minute)
	if h == 0 {
		return fmt.Sprintf("T%s%dm", sign, m)
	}
	return fmt.Sprintf("T%s%dh%02dm", sign, h, m)
}
