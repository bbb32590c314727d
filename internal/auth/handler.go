package auth

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"

	"github.com/mbarcellos/finance-tracker/internal/transport"
)

type ServiceAPI interface {
	Register(dto RegisterDTO) (*SessionUser, AuthTokens, error)
	Authenticate(dto LoginDTO) (AuthTokens, error)
	RefreshTokens(refreshToken string) (AuthTokens, error)
	ValidateAccessToken(tokenString string) (*Claims, error)
	GetSessionUser(userID int64) (*SessionUser, error)
	ChangePassword(userID int64, dto ChangePasswordDTO) error
	RequestPasswordReset(dto PasswordResetRequestDTO) (string, error)
	ConfirmPasswordReset(dto PasswordResetConfirmDTO) error
}

type Handler struct {
	*transport.BaseHandler
	service ServiceAPI
}

func NewHandler(service ServiceAPI, lg *slog.Logger) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		service:     service,
	}
}

// RegisterRoutes mounts the public auth endpoints.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/auth/register", h.Register)
	r.Post("/auth/login", h.Login)
	r.Post("/auth/refresh", h.Refresh)
	r.Post("/auth/logout", h.Logout)
	r.Post("/auth/password-reset", h.RequestPasswordReset)
	r.Post("/auth/password-reset/confirm", h.ConfirmPasswordReset)
}

// RegisterProtectedRoutes mounts endpoints that require a session.
func (h *Handler) RegisterProtectedRoutes(r chi.Router) {
	r.Post("/auth/change-password", h.ChangePassword)
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var dto RegisterDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, tokens, err := h.service.Register(dto)
	if err != nil {
		h.handleAuthError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"user": map[string]interface{}{
			"id":    user.ID,
			"email": user.Email,
		},
		"access_token":  tokens.AccessToken,
		"refresh_token": tokens.RefreshToken,
	})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var dto LoginDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	tokens, err := h.service.Authenticate(dto)
	if err != nil {
		h.handleAuthError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, tokens)
}

func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	var dto RefreshTokenDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := dto.Validate(); err != nil {
		h.handleAuthError(w, err)
		return
	}

	tokens, err := h.service.RefreshTokens(dto.RefreshToken)
	if err != nil {
		h.handleAuthError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, tokens)
}

// Logout is stateless; tokens simply expire. The endpoint exists so
// clients have a uniform call to clear their session against.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.WriteJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var dto ChangePasswordDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.service.ChangePassword(user.ID, dto); err != nil {
		h.handleAuthError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]string{"message": "password updated"})
}

func (h *Handler) RequestPasswordReset(w http.ResponseWriter, r *http.Request) {
	var dto PasswordResetRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if _, err := h.service.RequestPasswordReset(dto); err != nil {
		h.handleAuthError(w, err)
		return
	}

	// the same response regardless of whether the account exists
	h.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "if the account exists, a reset link has been sent",
	})
}

func (h *Handler) ConfirmPasswordReset(w http.ResponseWriter, r *http.Request) {
	var dto PasswordResetConfirmDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.service.ConfirmPasswordReset(dto); err != nil {
		h.handleAuthError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]string{"message": "password has been reset"})
}

// Middleware validates the bearer token and loads the session user,
// including the partner link, into the request context.
func (h *Handler) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := h.ExtractTokenFromHeader(r)
		if token == "" {
			h.WriteError(w, http.StatusUnauthorized, "authentication required")
			return
		}

		claims, err := h.service.ValidateAccessToken(token)
		if err != nil {
			h.handleAuthError(w, err)
			return
		}

		user, err := h.service.GetSessionUser(claims.UserID)
		if err != nil || user == nil {
			h.WriteError(w, http.StatusUnauthorized, "invalid session")
			return
		}

		next.ServeHTTP(w, r.WithContext(ContextWithUser(r.Context(), user)))
	})
}

func (h *Handler) handleAuthError(w http.ResponseWriter, err error) {
	var validationErr ValidationError
	switch {
	case errors.As(err, &validationErr):
		h.WriteError(w, http.StatusBadRequest, validationErr.Msg)
	case errors.Is(err, ErrInvalidCredentials):
		h.WriteError(w, http.StatusUnauthorized, "invalid email or password")
	case errors.Is(err, ErrUserInactive):
		h.WriteError(w, http.StatusForbidden, "account is inactive")
	case errors.Is(err, ErrTokenExpired):
		h.WriteError(w, http.StatusUnauthorized, "token expired")
	case errors.Is(err, ErrInvalidToken):
		h.WriteError(w, http.StatusUnauthorized, "invalid token")
	default:
		h.HandleServiceError(w, err)
	}
}
