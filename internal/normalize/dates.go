package normalize

import "time"

// Bucket keys for period-limited rules. Dates are civil dates with no time
// zone significance; keys are stable strings so items land in the same
// bucket regardless of input order.

// DayKey returns the calendar-day bucket key.
func DayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// WeekKey returns the Monday-anchored week bucket key (the Monday's date).
func WeekKey(t time.Time) string {
	offset := (int(t.Weekday()) + 6) % 7 // Monday=0 ... Sunday=6
	return t.AddDate(0, 0, -offset).Format("2006-01-02")
}

// MonthKey returns the calendar-month bucket key.
func MonthKey(t time.Time) string {
	return t.Format("2006-01")
}

// YearKey returns the calendar-year bucket key.
func YearKey(t time.Time) string {
	return t.Format("2006")
}
