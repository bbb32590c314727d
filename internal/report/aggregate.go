package report

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mbarcellos/finance-tracker/internal/entry"
	"github.com/mbarcellos/finance-tracker/internal/schedule"
)

// Predicate selects entries for an aggregation pass.
type Predicate func(e *entry.Entry) bool

// SumWhere totals the amounts of the entries matching pred. Empty input and
// empty matches both return decimal zero.
func SumWhere(entries []*entry.Entry, pred Predicate) decimal.Decimal {
	total := decimal.Zero
	for _, e := range entries {
		if pred(e) {
			total = total.Add(e.Amount)
		}
	}
	return total
}

// CountWhere counts the entries matching pred.
func CountWhere(entries []*entry.Entry, pred Predicate) int {
	count := 0
	for _, e := range entries {
		if pred(e) {
			count++
		}
	}
	return count
}

// FilterWhere returns the entries matching pred, preserving order.
func FilterWhere(entries []*entry.Entry, pred Predicate) []*entry.Entry {
	var matched []*entry.Entry
	for _, e := range entries {
		if pred(e) {
			matched = append(matched, e)
		}
	}
	return matched
}

// All combines predicates conjunctively.
func All(preds ...Predicate) Predicate {
	return func(e *entry.Entry) bool {
		for _, p := range preds {
			if !p(e) {
				return false
			}
		}
		return true
	}
}

func Any(e *entry.Entry) bool { return true }

func ByStatus(status entry.Status) Predicate {
	return func(e *entry.Entry) bool { return e.Status == status }
}

func ByKind(kinds ...entry.Kind) Predicate {
	return func(e *entry.Entry) bool {
		for _, k := range kinds {
			if e.Kind == k {
				return true
			}
		}
		return false
	}
}

func ByResponsible(resp entry.Responsible) Predicate {
	return func(e *entry.Entry) bool { return e.Responsible == resp }
}

// PaidInMonth matches paid entries whose paid_date falls in the month of
// reference.
func PaidInMonth(reference time.Time) Predicate {
	return func(e *entry.Entry) bool {
		if e.Status != entry.StatusPaid || e.PaidDate == nil {
			return false
		}
		return schedule.SameMonth(*e.PaidDate, reference)
	}
}

// StartedInMonth matches entries whose start_date falls in the month of
// reference.
func StartedInMonth(reference time.Time) Predicate {
	return func(e *entry.Entry) bool {
		return schedule.SameMonth(e.StartDate, reference)
	}
}

// StartedOnOrBefore matches entries whose start_date is on or before the
// cutoff. Installment contributions in the projection use this cumulative
// filter.
func StartedOnOrBefore(cutoff time.Time) Predicate {
	return func(e *entry.Entry) bool {
		return !dateOnly(e.StartDate).After(dateOnly(cutoff))
	}
}

// Overdue matches pending entries whose start_date has passed. Lateness is
// judged on start_date, not the resolved due date.
func Overdue(today time.Time) Predicate {
	return func(e *entry.Entry) bool {
		return e.IsOverdue(today)
	}
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
