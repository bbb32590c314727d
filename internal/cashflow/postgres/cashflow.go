package postgres

import (
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/mbarcellos/finance-tracker/internal/cashflow"
	cashflowDatamodel "github.com/mbarcellos/finance-tracker/internal/core/datamodel/cashflow"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) List(groupIDs []int64, filters cashflow.ListFilters) ([]*cashflowDatamodel.CashFlow, error) {
	query := r.db.Where("created_by IN ?", groupIDs)

	if filters.FlowType != "" {
		query = query.Where("flow_type = ?", string(filters.FlowType))
	}
	if filters.Responsible != "" {
		query = query.Where("responsible = ?", string(filters.Responsible))
	}
	if !filters.DateFrom.IsZero() {
		query = query.Where("date >= ?", filters.DateFrom)
	}
	if !filters.DateTo.IsZero() {
		query = query.Where("date <= ?", filters.DateTo)
	}

	var models []*cashflowDatamodel.CashFlow
	if err := query.Order("date DESC, id DESC").Find(&models).Error; err != nil {
		return nil, err
	}
	return models, nil
}

func (r *Repository) GetByID(id int64) (*cashflowDatamodel.CashFlow, error) {
	var model cashflowDatamodel.CashFlow
	err := r.db.Where("id = ?", id).First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &model, nil
}

func (r *Repository) Create(model *cashflowDatamodel.CashFlow) error {
	return r.db.Create(model).Error
}

func (r *Repository) Update(model *cashflowDatamodel.CashFlow) error {
	return r.db.Save(model).Error
}

func (r *Repository) Delete(id int64) error {
	return r.db.Delete(&cashflowDatamodel.CashFlow{}, id).Error
}

// SumAmounts totals the signed amounts for the group. NULL (no rows)
// scans as zero.
func (r *Repository) SumAmounts(groupIDs []int64) (decimal.Decimal, error) {
	var raw decimal.NullDecimal
	err := r.db.Model(&cashflowDatamodel.CashFlow{}).
		Where("created_by IN ?", groupIDs).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&raw).Error
	if err != nil {
		return decimal.Zero, err
	}
	if !raw.Valid {
		return decimal.Zero, nil
	}
	return raw.Decimal, nil
}
