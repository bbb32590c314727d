package user

import (
	"strings"
	"time"

	userDatamodel "github.com/mbarcellos/finance-tracker/internal/core/datamodel/user"
)

// User is the domain model for an account. PartnerID links at most one
// other user into a shared financial view.
type User struct {
	ID           int64      `json:"id"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	FirstName    string     `json:"first_name"`
	LastName     string     `json:"last_name"`
	Phone        *string    `json:"phone,omitempty"`
	BirthDate    *time.Time `json:"birth_date,omitempty"`
	PartnerID    *int64     `json:"partner_id,omitempty"`
	IsActive     bool       `json:"is_active"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// SharedUserIDs returns the visibility scope for financial queries: the
// user plus the linked partner when one is set. Always exactly that set,
// never a deeper traversal.
func (u *User) SharedUserIDs() []int64 {
	ids := []int64{u.ID}
	if u.PartnerID != nil {
		ids = append(ids, *u.PartnerID)
	}
	return ids
}

func (u *User) HasPartner() bool {
	return u.PartnerID != nil
}

func ToDataModel(u *User) *userDatamodel.User {
	return &userDatamodel.User{
		ID:           u.ID,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Phone:        u.Phone,
		BirthDate:    u.BirthDate,
		PartnerID:    u.PartnerID,
		IsActive:     u.IsActive,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func FromDataModel(m *userDatamodel.User) *User {
	return &User{
		ID:           m.ID,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		FirstName:    m.FirstName,
		LastName:     m.LastName,
		Phone:        m.Phone,
		BirthDate:    m.BirthDate,
		PartnerID:    m.PartnerID,
		IsActive:     m.IsActive,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}
