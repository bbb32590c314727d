package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/mbarcellos/finance-tracker/internal/category"
	categoryDatamodel "github.com/mbarcellos/finance-tracker/internal/core/datamodel/category"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) ListVisible(groupIDs []int64, typ category.Type) ([]*categoryDatamodel.Category, error) {
	query := r.db.Where("is_default = ? OR created_by IN ?", true, groupIDs)
	if typ != "" {
		query = query.Where("type = ?", string(typ))
	}

	var models []*categoryDatamodel.Category
	if err := query.Order("name ASC").Find(&models).Error; err != nil {
		return nil, err
	}
	return models, nil
}

func (r *Repository) GetByID(id int64) (*categoryDatamodel.Category, error) {
	var model categoryDatamodel.Category
	err := r.db.Where("id = ?", id).First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &model, nil
}

func (r *Repository) FindByNameTypeOwner(name string, typ category.Type, ownerID int64) (*categoryDatamodel.Category, error) {
	var model categoryDatamodel.Category
	err := r.db.Where("name = ? AND type = ? AND created_by = ?", name, string(typ), ownerID).
		First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &model, nil
}

func (r *Repository) Create(model *categoryDatamodel.Category) error {
	return r.db.Create(model).Error
}

func (r *Repository) Update(model *categoryDatamodel.Category) error {
	return r.db.Save(model).Error
}

func (r *Repository) Delete(id int64) error {
	return r.db.Delete(&categoryDatamodel.Category{}, id).Error
}
