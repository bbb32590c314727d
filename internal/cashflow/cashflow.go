package cashflow

import (
	"time"

	"github.com/shopspring/decimal"

	cashflowDatamodel "github.com/mbarcellos/finance-tracker/internal/core/datamodel/cashflow"
	"github.com/mbarcellos/finance-tracker/internal/entry"
)

// FlowType classifies a manual balance movement: the opening balance, a
// correction, or a transfer between the partners.
type FlowType string

const (
	FlowInitial    FlowType = "initial"
	FlowAdjustment FlowType = "adjustment"
	FlowTransfer   FlowType = "transfer"
)

func (f FlowType) Valid() bool {
	return f == FlowInitial || f == FlowAdjustment || f == FlowTransfer
}

// CashFlow is a manual balance movement outside the income/expense stream.
// Amount keeps the sign it was entered with, so a negative adjustment
// lowers the balance and the running balance stays a plain sum.
type CashFlow struct {
	ID          int64
	Description string
	Amount      decimal.Decimal
	FlowType    FlowType
	Date        time.Time
	Responsible entry.Responsible
	CreatedBy   int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ListFilters narrows cash flow listings. Zero values mean "no filter".
type ListFilters struct {
	FlowType    FlowType
	Responsible entry.Responsible
	DateFrom    time.Time
	DateTo      time.Time
}

func ToDataModel(c *CashFlow) *cashflowDatamodel.CashFlow {
	return &cashflowDatamodel.CashFlow{
		ID:          c.ID,
		Description: c.Description,
		Amount:      c.Amount,
		FlowType:    string(c.FlowType),
		Date:        c.Date,
		Responsible: string(c.Responsible),
		CreatedBy:   c.CreatedBy,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func FromDataModel(m *cashflowDatamodel.CashFlow) *CashFlow {
	return &CashFlow{
		ID:          m.ID,
		Description: m.Description,
		Amount:      m.Amount,
		FlowType:    FlowType(m.FlowType),
		Date:        m.Date,
		Responsible: entry.Responsible(m.Responsible),
		CreatedBy:   m.CreatedBy,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func FromDataModelSlice(models []*cashflowDatamodel.CashFlow) []*CashFlow {
	result := make([]*CashFlow, len(models))
	for i, m := range models {
		result[i] = FromDataModel(m)
	}
	return result
}
