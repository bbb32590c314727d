package cashflow

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mbarcellos/finance-tracker/internal"
	"github.com/mbarcellos/finance-tracker/internal/entry"
)

const dateLayout = "2006-01-02"

// CreateCashFlowDTO takes a signed amount; a negative value is a valid
// downward correction.
type CreateCashFlowDTO struct {
	Description string            `json:"description"`
	Amount      decimal.Decimal   `json:"amount"`
	FlowType    FlowType          `json:"flow_type"`
	Date        string            `json:"date,omitempty"`
	Responsible entry.Responsible `json:"responsible"`
}

func (d CreateCashFlowDTO) Validate() *internal.AppError {
	var errs []internal.ValidationError

	if d.Description == "" {
		errs = append(errs, internal.ValidationError{
			Field: "description", Message: "description is required", Code: string(internal.ErrCodeValidationFailed),
		})
	}
	if d.Amount.IsZero() {
		errs = append(errs, internal.ValidationError{
			Field: "amount", Message: "amount is required", Code: string(internal.ErrCodeInvalidAmount),
		})
	}
	if d.Amount.Exponent() < -2 {
		errs = append(errs, internal.ValidationError{
			Field: "amount", Message: "amount must have at most 2 decimal places", Code: string(internal.ErrCodeInvalidAmount),
		})
	}
	if !d.FlowType.Valid() {
		errs = append(errs, internal.ValidationError{
			Field: "flow_type", Message: "flow_type must be initial, adjustment or transfer", Code: string(internal.ErrCodeValidationFailed),
		})
	}
	if !d.Responsible.Valid() {
		errs = append(errs, internal.ValidationError{
			Field: "responsible", Message: "responsible must be person1, person2 or both", Code: string(internal.ErrCodeInvalidResponsible),
		})
	}
	if d.Date != "" {
		if _, err := time.Parse(dateLayout, d.Date); err != nil {
			errs = append(errs, internal.ValidationError{
				Field: "date", Message: "date must be a YYYY-MM-DD date", Code: string(internal.ErrCodeValidationFailed),
			})
		}
	}

	if len(errs) > 0 {
		return internal.NewValidationFieldErrors(errs)
	}
	return nil
}

type UpdateCashFlowDTO struct {
	Description *string            `json:"description,omitempty"`
	Amount      *decimal.Decimal   `json:"amount,omitempty"`
	FlowType    *FlowType          `json:"flow_type,omitempty"`
	Date        *string            `json:"date,omitempty"`
	Responsible *entry.Responsible `json:"responsible,omitempty"`
}

// CashFlowResponse serves the signed stored amount as a fixed-point string.
type CashFlowResponse struct {
	ID          int64             `json:"id"`
	Description string            `json:"description"`
	Amount      string            `json:"amount"`
	FlowType    FlowType          `json:"flow_type"`
	Date        string            `json:"date"`
	Responsible entry.Responsible `json:"responsible"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

func (c *CashFlow) ToResponse() CashFlowResponse {
	return CashFlowResponse{
		ID:          c.ID,
		Description: c.Description,
		Amount:      c.Amount.StringFixed(2),
		FlowType:    c.FlowType,
		Date:        c.Date.Format(dateLayout),
		Responsible: c.Responsible,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func ToResponseSlice(flows []*CashFlow) []CashFlowResponse {
	result := make([]CashFlowResponse, len(flows))
	for i, c := range flows {
		result[i] = c.ToResponse()
	}
	return result
}
