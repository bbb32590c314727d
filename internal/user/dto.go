package user

import (
	"time"

	"github.com/mbarcellos/finance-tracker/internal"
)

type UpdateProfileDTO struct {
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Phone     *string `json:"phone,omitempty"`
	BirthDate *string `json:"birth_date,omitempty"`
}

func (d UpdateProfileDTO) Validate() *internal.AppError {
	if d.BirthDate != nil && *d.BirthDate != "" {
		if _, err := time.Parse("2006-01-02", *d.BirthDate); err != nil {
			return internal.NewValidationFieldError("birth_date",
				"birth_date must be a YYYY-MM-DD date", internal.ErrCodeValidationFailed)
		}
	}
	return nil
}

type LinkPartnerDTO struct {
	Email string `json:"email"`
}

func (d LinkPartnerDTO) Validate() *internal.AppError {
	if d.Email == "" {
		return internal.NewValidationFieldError("email", "email is required", internal.ErrCodeValidationFailed)
	}
	return nil
}

// ProfileResponse is the wire shape of a user profile; the partner is
// summarized rather than embedded in full.
type ProfileResponse struct {
	ID        int64            `json:"id"`
	Email     string           `json:"email"`
	FirstName string           `json:"first_name"`
	LastName  string           `json:"last_name"`
	FullName  string           `json:"full_name"`
	Phone     *string          `json:"phone,omitempty"`
	BirthDate *string          `json:"birth_date,omitempty"`
	Partner   *PartnerResponse `json:"partner,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
}

type PartnerResponse struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
}

func (u *User) ToProfileResponse(partner *User) ProfileResponse {
	resp := ProfileResponse{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		FullName:  u.FullName(),
		Phone:     u.Phone,
		CreatedAt: u.CreatedAt,
	}
	if u.BirthDate != nil {
		birth := u.BirthDate.Format("2006-01-02")
		resp.BirthDate = &birth
	}
	if partner != nil {
		resp.Partner = &PartnerResponse{
			ID:       partner.ID,
			Email:    partner.Email,
			FullName: partner.FullName(),
		}
	}
	return resp
}
