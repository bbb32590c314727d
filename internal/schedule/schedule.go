// Package schedule holds the pure date arithmetic for recurring financial
// entries: resolving a due day against an arbitrary month and expanding
// installment plans into concrete calendar dates.
package schedule

import "time"

// DaysInMonth returns the number of days in the month containing t.
// Day zero of the following month is the last day of this one, so leap
// years fall out of the calendar itself.
func DaysInMonth(t time.Time) int {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, t.Location()).Day()
}

// DueDate resolves dueDay against the month of reference. When dueDay
// exceeds the month length (31 in February, say) the result clamps to the
// last day of that month instead of rolling over.
func DueDate(reference time.Time, dueDay int) time.Time {
	day := dueDay
	if last := DaysInMonth(reference); day > last {
		day = last
	}
	return time.Date(reference.Year(), reference.Month(), day, 0, 0, 0, 0, reference.Location())
}

// AddMonths advances t by the given number of calendar months, clamping the
// day-of-month so Jan 31 + 1 month lands on the end of February rather than
// spilling into March.
func AddMonths(t time.Time, months int) time.Time {
	year, month, day := t.Date()
	first := time.Date(year, month+time.Month(months), 1, 0, 0, 0, 0, t.Location())
	if last := DaysInMonth(first); day > last {
		day = last
	}
	return time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, t.Location())
}

// MonthStart truncates t to the first day of its month.
func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// SameMonth reports whether a and b fall in the same calendar month.
func SameMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}

// InstallmentDates expands an installment plan into its due dates: exactly
// count dates, installment i resolved against start advanced by i calendar
// months. The increment is always taken from the original start date so a
// short month in the middle of the plan does not drag later installments
// off their day.
func InstallmentDates(start time.Time, dueDay, count int) []time.Time {
	if count <= 0 {
		return nil
	}
	dates := make([]time.Time, 0, count)
	for i := 0; i < count; i++ {
		dates = append(dates, DueDate(AddMonths(start, i), dueDay))
	}
	return dates
}
