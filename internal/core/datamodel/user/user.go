package user

import "time"

// User is the persistence model for accounts. PartnerID is a nullable
// self-reference; the shared financial group is always the user plus that
// one partner, never a deeper chain.
type User struct {
	ID             int64      `gorm:"primaryKey"`
	Email          string     `gorm:"column:email;uniqueIndex;not null"`
	PasswordHash   string     `gorm:"column:password_hash;not null"`
	FirstName      string     `gorm:"column:first_name;not null"`
	LastName       string     `gorm:"column:last_name;not null"`
	Phone          *string    `gorm:"column:phone"`
	BirthDate      *time.Time `gorm:"column:birth_date;type:date"`
	PartnerID      *int64     `gorm:"column:partner_id"`
	IsActive       bool       `gorm:"column:is_active;default:true"`
	ResetToken     *string    `gorm:"column:reset_token"`
	ResetExpiresAt *time.Time `gorm:"column:reset_expires_at"`
	CreatedAt      time.Time  `gorm:"column:created_at"`
	UpdatedAt      time.Time  `gorm:"column:updated_at"`
}

func (User) TableName() string {
	return "users"
}
