package postgres

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/mbarcellos/finance-tracker/internal/auth"
	userDatamodel "github.com/mbarcellos/finance-tracker/internal/core/datamodel/user"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
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

func (r *Repository) GetSessionUser(userID int64) (*auth.SessionUser, error) {
	var model userDatamodel.User
	err := r.db.Where("id = ? AND is_active = ?", userID, true).First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &auth.SessionUser{
		ID:        model.ID,
		Email:     model.Email,
		PartnerID: model.PartnerID,
	}, nil
}

func (r *Repository) CreateUser(u *userDatamodel.User) error {
	return r.db.Create(u).Error
}

func (r *Repository) UpdatePassword(userID int64, passwordHash string) error {
	return r.db.Model(&userDatamodel.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"password_hash": passwordHash,
			"updated_at":    time.Now(),
		}).Error
}

func (r *Repository) SetResetToken(userID int64, token string, expiresAt time.Time) error {
	return r.db.Model(&userDatamodel.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"reset_token":      token,
			"reset_expires_at": expiresAt,
		}).Error
}

func (r *Repository) GetByResetToken(token string) (*userDatamodel.User, error) {
	var model userDatamodel.User
	err := r.db.Where("reset_token = ?", token).First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &model, nil
}

func (r *Repository) ClearResetToken(userID int64) error {
	return r.db.Model(&userDatamodel.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"reset_token":      nil,
			"reset_expires_at": nil,
		}).Error
}
