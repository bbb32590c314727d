package postgres

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	summaryDatamodel "github.com/mbarcellos/finance-tracker/internal/core/datamodel/summary"
)

type SummaryRepository struct {
	db *gorm.DB
}

func NewSummaryRepository(db *gorm.DB) *SummaryRepository {
	return &SummaryRepository{db: db}
}

// Upsert writes the snapshot, replacing any existing row for the same
// (user, year, month) period.
func (r *SummaryRepository) Upsert(s *summaryDatamodel.FinancialSummary) error {
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "year"}, {Name: "month"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"total_income", "total_expenses", "fixed_expenses", "installment_expenses",
			"balance", "paid_amount", "pending_amount", "overdue_amount", "calculated_at",
		}),
	}).Create(s).Error
}

func (r *SummaryRepository) ListByUser(userID int64) ([]*summaryDatamodel.FinancialSummary, error) {
	var models []*summaryDatamodel.FinancialSummary
	err := r.db.Where("user_id = ?", userID).
		Order("year DESC, month DESC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return models, nil
}
