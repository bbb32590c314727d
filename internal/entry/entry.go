package entry

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	entryDatamodel "github.com/mbarcellos/finance-tracker/internal/core/datamodel/entry"
	"github.com/mbarcellos/finance-tracker/internal/schedule"
)

// Type tags a record as an income or an expense. Both share the same shape.
type Type string

const (
	TypeIncome  Type = "income"
	TypeExpense Type = "expense"
)

func (t Type) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

// Kind describes the recurrence of an entry.
type Kind string

const (
	KindFixed       Kind = "fixed"       // recurs every month
	KindSingle      Kind = "single"      // one-time
	KindInstallment Kind = "installment" // fixed count of monthly occurrences
)

func (k Kind) Valid() bool {
	return k == KindFixed || k == KindSingle || k == KindInstallment
}

// Responsible identifies who in the shared group carries the entry.
type Responsible string

const (
	ResponsiblePerson1 Responsible = "person1"
	ResponsiblePerson2 Responsible = "person2"
	ResponsibleBoth    Responsible = "both"
)

func (r Responsible) Valid() bool {
	return r == ResponsiblePerson1 || r == ResponsiblePerson2 || r == ResponsibleBoth
}

// Status is the stored lifecycle state. Overdue is a derived view, never
// persisted.
type Status string

const (
	StatusPending Status = "pending"
	StatusPaid    Status = "paid"
)

// Entry is a single income or expense record.
type Entry struct {
	ID                 int64           `json:"id"`
	Type               Type            `json:"type"`
	Description        string          `json:"description"`
	Amount             decimal.Decimal `json:"amount"`
	CategoryID         int64           `json:"category_id"`
	CategoryName       string          `json:"category_name,omitempty"`
	CategoryColor      string          `json:"category_color,omitempty"`
	EntryDate          time.Time       `json:"-"`
	StartDate          time.Time       `json:"-"`
	DueDay             int             `json:"due_day"`
	Kind               Kind            `json:"kind"`
	Responsible        Responsible     `json:"responsible"`
	TotalInstallments  *int            `json:"total_installments,omitempty"`
	CurrentInstallment *int            `json:"current_installment,omitempty"`
	Status             Status          `json:"status"`
	PaidDate           *time.Time      `json:"-"`
	CreatedBy          int64           `json:"created_by"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

// IsOverdue reports whether the entry is late as of today. Paid entries are
// never overdue. Lateness is judged on start_date, not the resolved due
// date, matching how the overdue listing has always worked.
func (e *Entry) IsOverdue(today time.Time) bool {
	if e.Status == StatusPaid {
		return false
	}
	return dateOnly(e.StartDate).Before(dateOnly(today))
}

// DueDate resolves the entry's due day against the month of reference.
// A zero reference falls back to the entry's start date.
func (e *Entry) DueDate(reference time.Time) time.Time {
	if reference.IsZero() {
		reference = e.StartDate
	}
	return schedule.DueDate(reference, e.DueDay)
}

// InstallmentDates returns the due date of every installment, in order.
// Entries that are not installment plans expand to nothing.
func (e *Entry) InstallmentDates() []time.Time {
	if e.Kind != KindInstallment || e.TotalInstallments == nil {
		return nil
	}
	return schedule.InstallmentDates(e.StartDate, e.DueDay, *e.TotalInstallments)
}

// MarkPaid moves the entry to paid and records the payment date. Calling it
// on an already-paid entry just refreshes paid_date.
func (e *Entry) MarkPaid(paidDate time.Time) {
	e.Status = StatusPaid
	d := dateOnly(paidDate)
	e.PaidDate = &d
	e.UpdatedAt = time.Now()
}

// MarkPending moves the entry back to pending and clears the payment date.
func (e *Entry) MarkPending() {
	e.Status = StatusPending
	e.PaidDate = nil
	e.UpdatedAt = time.Now()
}

// InstallmentInfo renders "current/total" for installment entries, empty
// otherwise.
func (e *Entry) InstallmentInfo() string {
	if e.Kind != KindInstallment || e.TotalInstallments == nil {
		return ""
	}
	current := 1
	if e.CurrentInstallment != nil {
		current = *e.CurrentInstallment
	}
	return fmt.Sprintf("%d/%d", current, *e.TotalInstallments)
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func ToDataModel(e *Entry) *entryDatamodel.Entry {
	return &entryDatamodel.Entry{
		ID:                 e.ID,
		Type:               string(e.Type),
		Description:        e.Description,
		Amount:             e.Amount,
		CategoryID:         e.CategoryID,
		EntryDate:          e.EntryDate,
		StartDate:          e.StartDate,
		DueDay:             e.DueDay,
		Kind:               string(e.Kind),
		Responsible:        string(e.Responsible),
		TotalInstallments:  e.TotalInstallments,
		CurrentInstallment: e.CurrentInstallment,
		Status:             string(e.Status),
		PaidDate:           e.PaidDate,
		CreatedBy:          e.CreatedBy,
		CreatedAt:          e.CreatedAt,
		UpdatedAt:          e.UpdatedAt,
	}
}

func FromDataModel(m *entryDatamodel.Entry) *Entry {
	return &Entry{
		ID:                 m.ID,
		Type:               Type(m.Type),
		Description:        m.Description,
		Amount:             m.Amount,
		CategoryID:         m.CategoryID,
		EntryDate:          m.EntryDate,
		StartDate:          m.StartDate,
		DueDay:             m.DueDay,
		Kind:               Kind(m.Kind),
		Responsible:        Responsible(m.Responsible),
		TotalInstallments:  m.TotalInstallments,
		CurrentInstallment: m.CurrentInstallment,
		Status:             Status(m.Status),
		PaidDate:           m.PaidDate,
		CreatedBy:          m.CreatedBy,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}
}

func FromDataModelSlice(models []*entryDatamodel.Entry) []*Entry {
	result := make([]*Entry, len(models))
	for i, m := range models {
		result[i] = FromDataModel(m)
	}
	return result
}
