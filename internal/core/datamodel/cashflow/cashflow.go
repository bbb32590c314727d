package cashflow

import (
	"time"

	"github.com/shopspring/decimal"
)

// CashFlow is the persistence model for manual balance movements outside
// the income/expense stream. Amount is signed.
type CashFlow struct {
	ID          int64           `gorm:"primaryKey"`
	Description string          `gorm:"column:description;not null"`
	Amount      decimal.Decimal `gorm:"column:amount;type:decimal(12,2);not null"`
	FlowType    string          `gorm:"column:flow_type;not null"`
	Date        time.Time       `gorm:"column:date;type:date;not null"`
	Responsible string          `gorm:"column:responsible;not null"`
	CreatedBy   int64           `gorm:"column:created_by;not null;index"`
	CreatedAt   time.Time       `gorm:"column:created_at"`
	UpdatedAt   time.Time       `gorm:"column:updated_at"`
}

func (CashFlow) TableName() string {
	return "cash_flows"
}
