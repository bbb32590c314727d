package cashflow

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi"

	"github.com/mbarcellos/finance-tracker/internal/auth"
	"github.com/mbarcellos/finance-tracker/internal/entry"
	"github.com/mbarcellos/finance-tracker/internal/transport"
)

type ServiceAPI interface {
	List(groupIDs []int64, filters ListFilters) ([]*CashFlow, error)
	Get(id int64, groupIDs []int64) (*CashFlow, error)
	Create(userID int64, dto CreateCashFlowDTO) (*CashFlow, error)
	Update(id int64, groupIDs []int64, dto UpdateCashFlowDTO) (*CashFlow, error)
	Delete(id int64, groupIDs []int64) error
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
	r.Route("/cashflow", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{id}", h.Get)
		r.Patch("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	session, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	filters, err := parseListFilters(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	flows, serr := h.service.List(session.SharedUserIDs(), filters)
	if serr != nil {
		h.HandleServiceError(w, serr)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"cash_flows": ToResponseSlice(flows),
	})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	session, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid cash flow id")
		return
	}

	c, serr := h.service.Get(id, session.SharedUserIDs())
	if serr != nil {
		h.HandleServiceError(w, serr)
		return
	}

	h.WriteJSON(w, http.StatusOK, c.ToResponse())
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	session, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var dto CreateCashFlowDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	c, err := h.service.Create(session.ID, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, c.ToResponse())
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	session, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid cash flow id")
		return
	}

	var dto UpdateCashFlowDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	c, serr := h.service.Update(id, session.SharedUserIDs(), dto)
	if serr != nil {
		h.HandleServiceError(w, serr)
		return
	}

	h.WriteJSON(w, http.StatusOK, c.ToResponse())
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	session, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid cash flow id")
		return
	}

	if serr := h.service.Delete(id, session.SharedUserIDs()); serr != nil {
		h.HandleServiceError(w, serr)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func parseListFilters(r *http.Request) (ListFilters, error) {
	q := r.URL.Query()
	filters := ListFilters{
		FlowType:    FlowType(q.Get("flow_type")),
		Responsible: entry.Responsible(q.Get("responsible")),
	}

	if filters.FlowType != "" && !filters.FlowType.Valid() {
		return filters, errInvalidFilter("flow_type must be initial, adjustment or transfer")
	}
	if raw := q.Get("date_from"); raw != "" {
		d, err := time.Parse(dateLayout, raw)
		if err != nil {
			return filters, errInvalidFilter("date_from must be a YYYY-MM-DD date")
		}
		filters.DateFrom = d
	}
	if raw := q.Get("date_to"); raw != "" {
		d, err := time.Parse(dateLayout, raw)
		if err != nil {
			return filters, errInvalidFilter("date_to must be a YYYY-MM-DD date")
		}
		filters.DateTo = d
	}

	return filters, nil
}

type errInvalidFilter string

func (e errInvalidFilter) Error() string { return string(e) }
