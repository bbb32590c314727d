package user

import (
	"log/slog"
	"time"

	"github.com/mbarcellos/finance-tracker/internal"
	userDatamodel "github.com/mbarcellos/finance-tracker/internal/core/datamodel/user"
)

type RepositoryAPI interface {
	GetByID(id int64) (*userDatamodel.User, error)
	GetByEmail(email string) (*userDatamodel.User, error)
	Update(u *userDatamodel.User) error
	SetPartner(userID int64, partnerID *int64) error
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (s *Service) GetByID(id int64) (*User, error) {
	model, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if model == nil {
		return nil, internal.ErrUserNotFound
	}
	return FromDataModel(model), nil
}

// Profile resolves a user together with the linked partner summary.
func (s *Service) Profile(id int64) (*ProfileResponse, error) {
	u, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	var partner *User
	if u.PartnerID != nil {
		partner, err = s.GetByID(*u.PartnerID)
		if err != nil {
			s.logger.Warn("partner lookup failed", "user_id", u.ID, "partner_id", *u.PartnerID, "error", err)
			partner = nil
		}
	}

	resp := u.ToProfileResponse(partner)
	return &resp, nil
}

func (s *Service) UpdateProfile(id int64, dto UpdateProfileDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	u, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	if dto.FirstName != nil {
		u.FirstName = *dto.FirstName
	}
	if dto.LastName != nil {
		u.LastName = *dto.LastName
	}
	if dto.Phone != nil {
		u.Phone = dto.Phone
	}
	if dto.BirthDate != nil && *dto.BirthDate != "" {
		birth, _ := time.Parse("2006-01-02", *dto.BirthDate)
		u.BirthDate = &birth
	}
	u.UpdatedAt = time.Now()

	if err := s.repo.Update(ToDataModel(u)); err != nil {
		s.logger.Error("failed to update profile", "error", err, "user_id", id)
		return nil, err
	}

	return u, nil
}

// LinkPartner joins two accounts into a shared financial view. The link is
// written on both rows so either side resolves the same group.
func (s *Service) LinkPartner(userID int64, dto LinkPartnerDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	u, err := s.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if u.HasPartner() {
		return nil, internal.ErrPartnerConflict
	}

	partnerModel, err := s.repo.GetByEmail(dto.Email)
	if err != nil {
		return nil, err
	}
	if partnerModel == nil {
		return nil, internal.ErrPartnerNotFound
	}
	partner := FromDataModel(partnerModel)

	if partner.ID == userID {
		return nil, internal.NewValidationFieldError("email",
			"cannot link a user to themselves", internal.ErrCodeValidationFailed)
	}
	if partner.HasPartner() {
		return nil, internal.ErrPartnerConflict
	}

	if err := s.repo.SetPartner(userID, &partner.ID); err != nil {
		s.logger.Error("failed to link partner", "error", err, "user_id", userID)
		return nil, err
	}
	if err := s.repo.SetPartner(partner.ID, &userID); err != nil {
		s.logger.Error("failed to link partner back-reference", "error", err, "partner_id", partner.ID)
		return nil, err
	}

	s.logger.Info("partner linked", "user_id", userID, "partner_id", partner.ID)
	u.PartnerID = &partner.ID
	return u, nil
}

// UnlinkPartner dissolves the shared view on both sides.
func (s *Service) UnlinkPartner(userID int64) error {
	u, err := s.GetByID(userID)
	if err != nil {
		return err
	}
	if !u.HasPartner() {
		return internal.NewStateError("no partner is linked", internal.ErrCodePartnerConflict)
	}

	partnerID := *u.PartnerID
	if err := s.repo.SetPartner(userID, nil); err != nil {
		s.logger.Error("failed to unlink partner", "error", err, "user_id", userID)
		return err
	}
	if err := s.repo.SetPartner(partnerID, nil); err != nil {
		s.logger.Error("failed to unlink partner back-reference", "error", err, "partner_id", partnerID)
		return err
	}

	s.logger.Info("partner unlinked", "user_id", userID, "partner_id", partnerID)
	return nil
}
