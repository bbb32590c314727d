package postgres

import (
	"errors"
	"time"

	"gorm.io/gorm"

	userDatamodel "github.com/mbarcellos/finance-tracker/internal/core/datamodel/user"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) GetByID(id int64) (*userDatamodel.User, error) {
	var model userDatamodel.User
	err := r.db.Where("id = ?", id).First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &model, nil
}

func (r *Repository) GetByEmail(email string) (*userDatamodel.User, error) {
	var model userDatamodel.User
	err := r.db.Where("email = ?", email).First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &model, nil
}

func (r *Repository) Update(u *userDatamodel.User) error {
	u.UpdatedAt = time.Now()
	return r.db.Save(u).Error
}

func (r *Repository) SetPartner(userID int64, partnerID *int64) error {
	return r.db.Model(&userDatamodel.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"partner_id": partnerID,
			"updated_at": time.Now(),
		}).Error
}
