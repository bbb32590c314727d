package entry

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mbarcellos/finance-tracker/internal"
	"github.com/mbarcellos/finance-tracker/internal/category"
)

const dateLayout = "2006-01-02"

// CreateEntryDTO is the payload for creating an income or expense. The type
// tag comes from the route, not the body.
type CreateEntryDTO struct {
	Description        string          `json:"description"`
	Amount             decimal.Decimal `json:"amount"`
	CategoryID         int64           `json:"category_id"`
	EntryDate          string          `json:"entry_date,omitempty"`
	StartDate          string          `json:"start_date,omitempty"`
	DueDay             int             `json:"due_day"`
	Kind               Kind            `json:"kind"`
	Responsible        Responsible     `json:"responsible"`
	TotalInstallments  *int            `json:"total_installments,omitempty"`
	CurrentInstallment *int            `json:"current_installment,omitempty"`
}

// QuickEntryDTO is the compact payload of the quick-entry endpoint; it
// carries the type tag inline and defaults both dates to today.
type QuickEntryDTO struct {
	Type              Type            `json:"type"`
	Description       string          `json:"description"`
	Amount            decimal.Decimal `json:"amount"`
	CategoryID        int64           `json:"category_id"`
	Responsible       Responsible     `json:"responsible"`
	DueDay            int             `json:"due_day"`
	Kind              Kind            `json:"kind,omitempty"`
	TotalInstallments *int            `json:"total_installments,omitempty"`
}

// UpdateEntryDTO carries optional field edits. Status is not editable here;
// it only moves through the mark_paid/mark_pending transitions.
type UpdateEntryDTO struct {
	Description       *string          `json:"description,omitempty"`
	Amount            *decimal.Decimal `json:"amount,omitempty"`
	CategoryID        *int64           `json:"category_id,omitempty"`
	EntryDate         *string          `json:"entry_date,omitempty"`
	StartDate         *string          `json:"start_date,omitempty"`
	DueDay            *int             `json:"due_day,omitempty"`
	Kind              *Kind            `json:"kind,omitempty"`
	Responsible       *Responsible     `json:"responsible,omitempty"`
	TotalInstallments *int             `json:"total_installments,omitempty"`
}

// MarkPaidDTO optionally overrides the payment date.
type MarkPaidDTO struct {
	PaidDate string `json:"paid_date,omitempty"`
}

// ListFilters narrows entry listings. Zero values mean "no filter".
type ListFilters struct {
	Kind        Kind
	Status      Status
	Responsible Responsible
	CategoryID  int64
	DateFrom    time.Time
	DateTo      time.Time
}

// Validate runs the field-level checks shared by the create and quick-entry
// payloads and returns every failure at once.
func (d CreateEntryDTO) Validate() *internal.AppError {
	var errs []internal.ValidationError

	if d.Description == "" {
		errs = append(errs, fieldError("description", "description is required", internal.ErrCodeValidationFailed))
	}
	errs = append(errs, validateAmount(d.Amount)...)
	if d.CategoryID <= 0 {
		errs = append(errs, fieldError("category_id", "category is required", internal.ErrCodeValidationFailed))
	}
	errs = append(errs, validateDueDay(d.DueDay)...)
	if !d.Kind.Valid() {
		errs = append(errs, fieldError("kind", "kind must be fixed, single or installment", internal.ErrCodeInvalidEntryKind))
	}
	if !d.Responsible.Valid() {
		errs = append(errs, fieldError("responsible", "responsible must be person1, person2 or both", internal.ErrCodeInvalidResponsible))
	}
	errs = append(errs, validateInstallments(d.Kind, d.TotalInstallments)...)

	if d.EntryDate != "" {
		if _, err := time.Parse(dateLayout, d.EntryDate); err != nil {
			errs = append(errs, fieldError("entry_date", "entry_date must be a YYYY-MM-DD date", internal.ErrCodeValidationFailed))
		}
	}
	if d.StartDate != "" {
		if _, err := time.Parse(dateLayout, d.StartDate); err != nil {
			errs = append(errs, fieldError("start_date", "start_date must be a YYYY-MM-DD date", internal.ErrCodeValidationFailed))
		}
	}

	if len(errs) > 0 {
		return internal.NewValidationFieldErrors(errs)
	}
	return nil
}

func (d QuickEntryDTO) Validate() *internal.AppError {
	var errs []internal.ValidationError

	if !d.Type.Valid() {
		errs = append(errs, fieldError("type", "type must be income or expense", internal.ErrCodeValidationFailed))
	}
	if d.Description == "" {
		errs = append(errs, fieldError("description", "description is required", internal.ErrCodeValidationFailed))
	}
	errs = append(errs, validateAmount(d.Amount)...)
	if d.CategoryID <= 0 {
		errs = append(errs, fieldError("category_id", "category is required", internal.ErrCodeValidationFailed))
	}
	errs = append(errs, validateDueDay(d.DueDay)...)
	if !d.Responsible.Valid() {
		errs = append(errs, fieldError("responsible", "responsible must be person1, person2 or both", internal.ErrCodeInvalidResponsible))
	}

	kind := d.Kind
	if kind == "" {
		kind = KindSingle
	}
	if !kind.Valid() {
		errs = append(errs, fieldError("kind", "kind must be fixed, single or installment", internal.ErrCodeInvalidEntryKind))
	}
	errs = append(errs, validateInstallments(kind, d.TotalInstallments)...)

	if len(errs) > 0 {
		return internal.NewValidationFieldErrors(errs)
	}
	return nil
}

func validateAmount(amount decimal.Decimal) []internal.ValidationError {
	var errs []internal.ValidationError
	if amount.LessThanOrEqual(decimal.Zero) {
		errs = append(errs, fieldError("amount", "amount must be greater than zero", internal.ErrCodeInvalidAmount))
	}
	if amount.Exponent() < -2 {
		errs = append(errs, fieldError("amount", "amount must have at most 2 decimal places", internal.ErrCodeInvalidAmount))
	}
	return errs
}

func validateDueDay(dueDay int) []internal.ValidationError {
	if dueDay < 1 || dueDay > 31 {
		return []internal.ValidationError{
			fieldError("due_day", "due_day must be between 1 and 31", internal.ErrCodeInvalidDueDay),
		}
	}
	return nil
}

func validateInstallments(kind Kind, total *int) []internal.ValidationError {
	if kind != KindInstallment {
		return nil
	}
	if total == nil {
		return []internal.ValidationError{
			fieldError("total_installments", "total_installments is required for installment entries", internal.ErrCodeMissingInstallments),
		}
	}
	if *total < 2 {
		return []internal.ValidationError{
			fieldError("total_installments", "installment entries must have at least 2 installments", internal.ErrCodeMissingInstallments),
		}
	}
	return nil
}

func fieldError(field, message string, code internal.ErrorCode) internal.ValidationError {
	return internal.ValidationError{Field: field, Message: message, Code: string(code)}
}

// validateCategory enforces the category/type invariant at construction
// time: an income entry takes an income category, an expense entry an
// expense category.
func validateCategory(typ Type, cat *category.Category) *internal.AppError {
	if cat == nil {
		return internal.ErrCategoryNotFound
	}
	if string(cat.Type) != string(typ) {
		return internal.NewValidationFieldError("category_id",
			"category type does not match entry type", internal.ErrCodeCategoryMismatch)
	}
	return nil
}

// EntryResponse is the wire shape of an entry: ISO dates, fixed-point
// amounts and the derived overdue flag.
type EntryResponse struct {
	ID                 int64       `json:"id"`
	Type               Type        `json:"type"`
	Description        string      `json:"description"`
	Amount             string      `json:"amount"`
	CategoryID         int64       `json:"category_id"`
	CategoryName       string      `json:"category_name,omitempty"`
	CategoryColor      string      `json:"category_color,omitempty"`
	EntryDate          string      `json:"entry_date"`
	StartDate          string      `json:"start_date"`
	DueDay             int         `json:"due_day"`
	Kind               Kind        `json:"kind"`
	Responsible        Responsible `json:"responsible"`
	TotalInstallments  *int        `json:"total_installments,omitempty"`
	CurrentInstallment *int        `json:"current_installment,omitempty"`
	InstallmentInfo    string      `json:"installment_info,omitempty"`
	Status             Status      `json:"status"`
	PaidDate           *string     `json:"paid_date,omitempty"`
	IsOverdue          bool        `json:"is_overdue"`
	CreatedAt          time.Time   `json:"created_at"`
	UpdatedAt          time.Time   `json:"updated_at"`
}

func (e *Entry) ToResponse(today time.Time) EntryResponse {
	resp := EntryResponse{
		ID:                 e.ID,
		Type:               e.Type,
		Description:        e.Description,
		Amount:             e.Amount.StringFixed(2),
		CategoryID:         e.CategoryID,
		CategoryName:       e.CategoryName,
		CategoryColor:      e.CategoryColor,
		EntryDate:          e.EntryDate.Format(dateLayout),
		StartDate:          e.StartDate.Format(dateLayout),
		DueDay:             e.DueDay,
		Kind:               e.Kind,
		Responsible:        e.Responsible,
		TotalInstallments:  e.TotalInstallments,
		CurrentInstallment: e.CurrentInstallment,
		InstallmentInfo:    e.InstallmentInfo(),
		Status:             e.Status,
		IsOverdue:          e.IsOverdue(today),
		CreatedAt:          e.CreatedAt,
		UpdatedAt:          e.UpdatedAt,
	}
	if e.PaidDate != nil {
		paid := e.PaidDate.Format(dateLayout)
		resp.PaidDate = &paid
	}
	return resp
}

func ToResponseSlice(entries []*Entry, today time.Time) []EntryResponse {
	result := make([]EntryResponse, len(entries))
	for i, e := range entries {
		result[i] = e.ToResponse(today)
	}
	return result
}
