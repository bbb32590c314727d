package postgres

import (
	"errors"

	"gorm.io/gorm"

	entryDatamodel "github.com/mbarcellos/finance-tracker/internal/core/datamodel/entry"
	"github.com/mbarcellos/finance-tracker/internal/entry"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) List(typ entry.Type, groupIDs []int64, filters entry.ListFilters) ([]*entryDatamodel.Entry, error) {
	query := r.db.Where("type = ? AND created_by IN ?", string(typ), groupIDs)

	if filters.Kind != "" {
		query = query.Where("kind = ?", string(filters.Kind))
	}
	if filters.Status != "" {
		query = query.Where("status = ?", string(filters.Status))
	}
	if filters.Responsible != "" {
		query = query.Where("responsible = ?", string(filters.Responsible))
	}
	if filters.CategoryID > 0 {
		query = query.Where("category_id = ?", filters.CategoryID)
	}
	if !filters.DateFrom.IsZero() {
		query = query.Where("entry_date >= ?", filters.DateFrom)
	}
	if !filters.DateTo.IsZero() {
		query = query.Where("entry_date <= ?", filters.DateTo)
	}

	var models []*entryDatamodel.Entry
	if err := query.Order("entry_date DESC, id DESC").Find(&models).Error; err != nil {
		return nil, err
	}
	return models, nil
}

func (r *Repository) GetByID(id int64) (*entryDatamodel.Entry, error) {
	var model entryDatamodel.Entry
	err := r.db.Where("id = ?", id).First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &model, nil
}

func (r *Repository) Create(model *entryDatamodel.Entry) error {
	return r.db.Create(model).Error
}

func (r *Repository) Update(model *entryDatamodel.Entry) error {
	return r.db.Save(model).Error
}

func (r *Repository) Delete(id int64) error {
	return r.db.Delete(&entryDatamodel.Entry{}, id).Error
}
