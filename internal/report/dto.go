package report

import (
	"time"

	"github.com/shopspring/decimal"
)

// MetricsSnapshot is one consistent read of the group's financial position.
// Every component is computed independently; all are zero on an empty
// dataset.
type MetricsSnapshot struct {
	CurrentBalance       decimal.Decimal
	MonthlyFixedExpenses decimal.Decimal
	TotalDebt            decimal.Decimal
	MonthlyIncome        decimal.Decimal
	PaidAmount           decimal.Decimal
	PendingAmount        decimal.Decimal
	OverdueAmount        decimal.Decimal
	OverdueCount         int
}

// MetricsResponse is the wire shape: fixed-point strings plus the integer
// overdue count.
type MetricsResponse struct {
	CurrentBalance       string `json:"current_balance"`
	MonthlyFixedExpenses string `json:"monthly_fixed_expenses"`
	TotalDebt            string `json:"total_debt"`
	MonthlyIncome        string `json:"monthly_income"`
	PaidAmount           string `json:"paid_amount"`
	PendingAmount        string `json:"pending_amount"`
	OverdueAmount        string `json:"overdue_amount"`
	OverdueCount         int    `json:"overdue_count"`
}

func (m MetricsSnapshot) ToResponse() MetricsResponse {
	return MetricsResponse{
		CurrentBalance:       m.CurrentBalance.StringFixed(2),
		MonthlyFixedExpenses: m.MonthlyFixedExpenses.StringFixed(2),
		TotalDebt:            m.TotalDebt.StringFixed(2),
		MonthlyIncome:        m.MonthlyIncome.StringFixed(2),
		PaidAmount:           m.PaidAmount.StringFixed(2),
		PendingAmount:        m.PendingAmount.StringFixed(2),
		OverdueAmount:        m.OverdueAmount.StringFixed(2),
		OverdueCount:         m.OverdueCount,
	}
}

// MonthlyProjection is one row of the rolling projection. EstimatedBalance
// is that month alone; AccumulatedBalance is the running total seeded by the
// current cash flow sum.
type MonthlyProjection struct {
	Year                int
	Month               int
	MonthName           string
	TotalIncome         decimal.Decimal
	FixedExpenses       decimal.Decimal
	InstallmentExpenses decimal.Decimal
	TotalExpenses       decimal.Decimal
	EstimatedBalance    decimal.Decimal
	AccumulatedBalance  decimal.Decimal
}

type MonthlyProjectionResponse struct {
	Year                int    `json:"year"`
	Month               int    `json:"month"`
	MonthName           string `json:"month_name"`
	TotalIncome         string `json:"total_income"`
	FixedExpenses       string `json:"fixed_expenses"`
	InstallmentExpenses string `json:"installment_expenses"`
	TotalExpenses       string `json:"total_expenses"`
	EstimatedBalance    string `json:"estimated_balance"`
	AccumulatedBalance  string `json:"accumulated_balance"`
}

func (p MonthlyProjection) ToResponse() MonthlyProjectionResponse {
	return MonthlyProjectionResponse{
		Year:                p.Year,
		Month:               p.Month,
		MonthName:           p.MonthName,
		TotalIncome:         p.TotalIncome.StringFixed(2),
		FixedExpenses:       p.FixedExpenses.StringFixed(2),
		InstallmentExpenses: p.InstallmentExpenses.StringFixed(2),
		TotalExpenses:       p.TotalExpenses.StringFixed(2),
		EstimatedBalance:    p.EstimatedBalance.StringFixed(2),
		AccumulatedBalance:  p.AccumulatedBalance.StringFixed(2),
	}
}

func ToProjectionResponses(projections []MonthlyProjection) []MonthlyProjectionResponse {
	result := make([]MonthlyProjectionResponse, len(projections))
	for i, p := range projections {
		result[i] = p.ToResponse()
	}
	return result
}

// SummaryResponse is the wire shape of a cached monthly snapshot.
type SummaryResponse struct {
	UserID              int64     `json:"user_id"`
	Year                int       `json:"year"`
	Month               int       `json:"month"`
	TotalIncome         string    `json:"total_income"`
	TotalExpenses       string    `json:"total_expenses"`
	FixedExpenses       string    `json:"fixed_expenses"`
	InstallmentExpenses string    `json:"installment_expenses"`
	Balance             string    `json:"balance"`
	PaidAmount          string    `json:"paid_amount"`
	PendingAmount       string    `json:"pending_amount"`
	OverdueAmount       string    `json:"overdue_amount"`
	CalculatedAt        time.Time `json:"calculated_at"`
}
