package auth

import (
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	userDatamodel "github.com/mbarcellos/finance-tracker/internal/core/datamodel/user"
)

type RepositoryAPI interface {
	GetByEmail(email string) (*userDatamodel.User, error)
	GetSessionUser(userID int64) (*SessionUser, error)
	CreateUser(u *userDatamodel.User) error
	UpdatePassword(userID int64, passwordHash string) error
	SetResetToken(userID int64, token string, expiresAt time.Time) error
	GetByResetToken(token string) (*userDatamodel.User, error)
	ClearResetToken(userID int64) error
}

type Service struct {
	repo           RepositoryAPI
	tokenGenerator TokenGenerator
	bcryptCost     int
	resetTokenTTL  time.Duration
	logger         *slog.Logger
}

func NewService(repo RepositoryAPI, tokenGen TokenGenerator, bcryptCost int, resetTokenTTL time.Duration, logger *slog.Logger) *Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	if resetTokenTTL <= 0 {
		resetTokenTTL = time.Hour
	}
	return &Service{
		repo:           repo,
		tokenGenerator: tokenGen,
		bcryptCost:     bcryptCost,
		resetTokenTTL:  resetTokenTTL,
		logger:         logger,
	}
}

// Register creates a new account and immediately issues a token pair so the
// client can log the user straight in.
func (s *Service) Register(dto RegisterDTO) (*SessionUser, AuthTokens, error) {
	if err := dto.Validate(); err != nil {
		return nil, AuthTokens{}, err
	}

	existing, err := s.repo.GetByEmail(dto.Email)
	if err != nil {
		return nil, AuthTokens{}, err
	}
	if existing != nil {
		return nil, AuthTokens{}, ValidationError{Msg: "email is already registered"}
	}

	hash, err := HashPassword(dto.Password, s.bcryptCost)
	if err != nil {
		return nil, AuthTokens{}, err
	}

	now := time.Now()
	model := &userDatamodel.User{
		Email:        dto.Email,
		PasswordHash: hash,
		FirstName:    dto.FirstName,
		LastName:     dto.LastName,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if dto.Phone != "" {
		model.Phone = &dto.Phone
	}
	if dto.BirthDate != "" {
		if birth, perr := time.Parse("2006-01-02", dto.BirthDate); perr == nil {
			model.BirthDate = &birth
		} else {
			return nil, AuthTokens{}, ValidationError{Msg: "birth_date must be a YYYY-MM-DD date"}
		}
	}

	if err := s.repo.CreateUser(model); err != nil {
		s.logger.Error("failed to create user", "error", err, "email", dto.Email)
		return nil, AuthTokens{}, err
	}

	tokens, err := s.issueTokens(model.ID, model.Email)
	if err != nil {
		return nil, AuthTokens{}, err
	}

	s.logger.Info("user registered", "user_id", model.ID)
	return &SessionUser{ID: model.ID, Email: model.Email}, tokens, nil
}

// Authenticate validates credentials and returns tokens
func (s *Service) Authenticate(dto LoginDTO) (AuthTokens, error) {
	if err := dto.Validate(); err != nil {
		return AuthTokens{}, err
	}

	model, err := s.repo.GetByEmail(dto.Email)
	if err != nil || model == nil {
		return AuthTokens{}, ErrInvalidCredentials
	}
	if !model.IsActive {
		return AuthTokens{}, ErrUserInactive
	}

	if err := VerifyPassword(model.PasswordHash, dto.Password); err != nil {
		return AuthTokens{}, ErrInvalidCredentials
	}

	return s.issueTokens(model.ID, model.Email)
}

// RefreshTokens validates a refresh token and returns a new pair.
func (s *Service) RefreshTokens(refreshToken string) (AuthTokens, error) {
	claims, err := s.tokenGenerator.ValidateToken(refreshToken)
	if err != nil {
		return AuthTokens{}, err
	}

	return s.issueTokens(claims.UserID, claims.Email)
}

// ValidateAccessToken validates an access token and returns its claims.
func (s *Service) ValidateAccessToken(tokenString string) (*Claims, error) {
	return s.tokenGenerator.ValidateToken(tokenString)
}

// GetSessionUser loads the request identity, including the partner link
// that scopes financial queries.
func (s *Service) GetSessionUser(userID int64) (*SessionUser, error) {
	return s.repo.GetSessionUser(userID)
}

func (s *Service) ChangePassword(userID int64, dto ChangePasswordDTO) error {
	if err := dto.Validate(); err != nil {
		return err
	}

	su, err := s.repo.GetSessionUser(userID)
	if err != nil {
		return err
	}
	model, err := s.repo.GetByEmail(su.Email)
	if err != nil || model == nil {
		return ErrInvalidCredentials
	}

	if err := VerifyPassword(model.PasswordHash, dto.CurrentPassword); err != nil {
		return ErrInvalidCredentials
	}

	hash, err := HashPassword(dto.NewPassword, s.bcryptCost)
	if err != nil {
		return err
	}

	if err := s.repo.UpdatePassword(userID, hash); err != nil {
		s.logger.Error("failed to update password", "error", err, "user_id", userID)
		return err
	}

	s.logger.Info("password changed", "user_id", userID)
	return nil
}

// RequestPasswordReset issues a reset token for the account. Delivery is
// the caller's concern; the token is returned so an email integration can
// build the reset link.
func (s *Service) RequestPasswordReset(dto PasswordResetRequestDTO) (string, error) {
	if err := dto.Validate(); err != nil {
		return "", err
	}

	model, err := s.repo.GetByEmail(dto.Email)
	if err != nil {
		return "", err
	}
	if model == nil {
		// do not reveal whether the address exists
		return "", nil
	}

	token, err := GenerateRandomToken()
	if err != nil {
		return "", err
	}

	expiresAt := time.Now().Add(s.resetTokenTTL)
	if err := s.repo.SetResetToken(model.ID, token, expiresAt); err != nil {
		s.logger.Error("failed to store reset token", "error", err, "user_id", model.ID)
		return "", err
	}

	s.logger.Info("password reset requested", "user_id", model.ID)
	return token, nil
}

func (s *Service) ConfirmPasswordReset(dto PasswordResetConfirmDTO) error {
	if err := dto.Validate(); err != nil {
		return err
	}

	model, err := s.repo.GetByResetToken(dto.Token)
	if err != nil {
		return err
	}
	if model == nil || model.ResetExpiresAt == nil || model.ResetExpiresAt.Before(time.Now()) {
		return ErrInvalidToken
	}

	hash, err := HashPassword(dto.NewPassword, s.bcryptCost)
	if err != nil {
		return err
	}

	if err := s.repo.UpdatePassword(model.ID, hash); err != nil {
		return err
	}
	if err := s.repo.ClearResetToken(model.ID); err != nil {
		s.logger.Warn("failed to clear reset token", "error", err, "user_id", model.ID)
	}

	s.logger.Info("password reset confirmed", "user_id", model.ID)
	return nil
}

func (s *Service) issueTokens(userID int64, email string) (AuthTokens, error) {
	accessToken, err := s.tokenGenerator.GenerateAccessToken(userID, email)
	if err != nil {
		return AuthTokens{}, err
	}

	refreshToken, err := s.tokenGenerator.GenerateRefreshToken(userID, email)
	if err != nil {
		return AuthTokens{}, err
	}

	return AuthTokens{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// GenerateRandomToken generates a cryptographically secure random token
func GenerateRandomToken() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
