package user

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"

	"github.com/mbarcellos/finance-tracker/internal/auth"
	"github.com/mbarcellos/finance-tracker/internal/transport"
)

type ServiceAPI interface {
	Profile(id int64) (*ProfileResponse, error)
	UpdateProfile(id int64, dto UpdateProfileDTO) (*User, error)
	LinkPartner(userID int64, dto LinkPartnerDTO) (*User, error)
	UnlinkPartner(userID int64) error
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

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/users/me", h.GetProfile)
	r.Patch("/users/me", h.UpdateProfile)
	r.Put("/users/me/partner", h.LinkPartner)
	r.Delete("/users/me/partner", h.UnlinkPartner)
}

func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	session, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	profile, err := h.service.Profile(session.ID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, profile)
}

func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	session, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var dto UpdateProfileDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if _, err := h.service.UpdateProfile(session.ID, dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	profile, err := h.service.Profile(session.ID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, profile)
}

func (h *Handler) LinkPartner(w http.ResponseWriter, r *http.Request) {
	session, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var dto LinkPartnerDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if _, err := h.service.LinkPartner(session.ID, dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	profile, err := h.service.Profile(session.ID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, profile)
}

func (h *Handler) UnlinkPartner(w http.ResponseWriter, r *http.Request) {
	session, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	if err := h.service.UnlinkPartner(session.ID); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]string{"message": "partner unlinked"})
}
