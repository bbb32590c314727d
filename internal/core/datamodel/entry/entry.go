package entry

import (
	"time"

	"github.com/shopspring/decimal"
)

// Entry is the persistence model shared by incomes and expenses; the Type
// column tells them apart. Overdue is never stored, it is derived at read
// time from status and start_date.
type Entry struct {
	ID                 int64           `gorm:"primaryKey"`
	Type               string          `gorm:"column:type;not null;index"`
	Description        string          `gorm:"column:description;not null"`
	Amount             decimal.Decimal `gorm:"column:amount;type:decimal(12,2);not null"`
	CategoryID         int64           `gorm:"column:category_id;not null"`
	EntryDate          time.Time       `gorm:"column:entry_date;type:date;not null"`
	StartDate          time.Time       `gorm:"column:start_date;type:date;not null"`
	DueDay             int             `gorm:"column:due_day;not null"`
	Kind               string          `gorm:"column:kind;not null"`
	Responsible        string          `gorm:"column:responsible;not null"`
	TotalInstallments  *int            `gorm:"column:total_installments"`
	CurrentInstallment *int            `gorm:"column:current_installment"`
	Status             string          `gorm:"column:status;default:pending"`
	PaidDate           *time.Time      `gorm:"column:paid_date;type:date"`
	CreatedBy          int64           `gorm:"column:created_by;not null;index"`
	CreatedAt          time.Time       `gorm:"column:created_at"`
	UpdatedAt          time.Time       `gorm:"column:updated_at"`
}

func (Entry) TableName() string {
	return "entries"
}
