package summary

import (
	"time"

	"github.com/shopspring/decimal"
)

// FinancialSummary is a cached per-(user, year, month) snapshot of computed
// aggregates. It is derivable from entries and cash flows and is recomputed
// on demand; never treated as the source of truth.
type FinancialSummary struct {
	ID                  int64           `gorm:"primaryKey"`
	UserID              int64           `gorm:"column:user_id;not null;uniqueIndex:idx_summaries_user_period"`
	Year                int             `gorm:"column:year;not null;uniqueIndex:idx_summaries_user_period"`
	Month               int             `gorm:"column:month;not null;uniqueIndex:idx_summaries_user_period"`
	TotalIncome         decimal.Decimal `gorm:"column:total_income;type:decimal(14,2)"`
	TotalExpenses       decimal.Decimal `gorm:"column:total_expenses;type:decimal(14,2)"`
	FixedExpenses       decimal.Decimal `gorm:"column:fixed_expenses;type:decimal(14,2)"`
	InstallmentExpenses decimal.Decimal `gorm:"column:installment_expenses;type:decimal(14,2)"`
	Balance             decimal.Decimal `gorm:"column:balance;type:decimal(14,2)"`
	PaidAmount          decimal.Decimal `gorm:"column:paid_amount;type:decimal(14,2)"`
	PendingAmount       decimal.Decimal `gorm:"column:pending_amount;type:decimal(14,2)"`
	OverdueAmount       decimal.Decimal `gorm:"column:overdue_amount;type:decimal(14,2)"`
	CalculatedAt        time.Time       `gorm:"column:calculated_at"`
}

func (FinancialSummary) TableName() string {
	return "financial_summaries"
}
