package entry

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi"

	"github.com/mbarcellos/finance-tracker/internal/auth"
	"github.com/mbarcellos/finance-tracker/internal/transport"
)

type ServiceAPI interface {
	List(typ Type, groupIDs []int64, filters ListFilters) ([]*Entry, error)
	Overdue(typ Type, groupIDs []int64, today time.Time) ([]*Entry, error)
	Get(id int64, typ Type, groupIDs []int64) (*Entry, error)
	Create(ctx context.Context, typ Type, userID int64, groupIDs []int64, dto CreateEntryDTO) (*Entry, error)
	Update(ctx context.Context, id int64, typ Type, groupIDs []int64, dto UpdateEntryDTO) (*Entry, error)
	Delete(ctx context.Context, id int64, typ Type, groupIDs []int64) error
	MarkPaid(ctx context.Context, id int64, typ Type, groupIDs []int64, dto MarkPaidDTO) (*Entry, error)
	MarkPending(ctx context.Context, id int64, typ Type, groupIDs []int64) (*Entry, error)
	QuickEntry(ctx context.Context, userID int64, groupIDs []int64, dto QuickEntryDTO) (*Entry, error)
}

// Handler serves both /incomes and /expenses; the entry type is fixed by
// the mount point, never read from the body.
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
	h.mountTyped(r, "/incomes", TypeIncome)
	h.mountTyped(r, "/expenses", TypeExpense)
	r.Post("/financial/quick-entry", h.QuickEntry)
}

func (h *Handler) mountTyped(r chi.Router, prefix string, typ Type) {
	r.Route(prefix, func(r chi.Router) {
		r.Get("/", h.list(typ))
		r.Post("/", h.create(typ))
		r.Get("/overdue", h.overdue(typ))
		r.Get("/{id}", h.get(typ))
		r.Patch("/{id}", h.update(typ))
		r.Delete("/{id}", h.delete(typ))
		r.Post("/{id}/mark_paid", h.markPaid(typ))
		r.Post("/{id}/mark_pending", h.markPending(typ))
	})
}

func (h *Handler) list(typ Type) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
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

		entries, serr := h.service.List(typ, session.SharedUserIDs(), filters)
		if serr != nil {
			h.HandleServiceError(w, serr)
			return
		}

		h.WriteJSON(w, http.StatusOK, map[string]interface{}{
			"entries": ToResponseSlice(entries, time.Now()),
		})
	}
}

func (h *Handler) overdue(typ Type) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := auth.UserFromContext(r.Context())
		if !ok {
			h.WriteError(w, http.StatusUnauthorized, "authentication required")
			return
		}

		entries, err := h.service.Overdue(typ, session.SharedUserIDs(), time.Now())
		if err != nil {
			h.HandleServiceError(w, err)
			return
		}

		h.WriteJSON(w, http.StatusOK, map[string]interface{}{
			"entries": ToResponseSlice(entries, time.Now()),
		})
	}
}

func (h *Handler) get(typ Type) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := auth.UserFromContext(r.Context())
		if !ok {
			h.WriteError(w, http.StatusUnauthorized, "authentication required")
			return
		}

		id, err := parseID(r)
		if err != nil {
			h.WriteError(w, http.StatusBadRequest, "invalid entry id")
			return
		}

		e, serr := h.service.Get(id, typ, session.SharedUserIDs())
		if serr != nil {
			h.HandleServiceError(w, serr)
			return
		}

		h.WriteJSON(w, http.StatusOK, e.ToResponse(time.Now()))
	}
}

func (h *Handler) create(typ Type) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := auth.UserFromContext(r.Context())
		if !ok {
			h.WriteError(w, http.StatusUnauthorized, "authentication required")
			return
		}

		var dto CreateEntryDTO
		if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
			h.WriteError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		e, err := h.service.Create(r.Context(), typ, session.ID, session.SharedUserIDs(), dto)
		if err != nil {
			h.HandleServiceError(w, err)
			return
		}

		h.WriteJSON(w, http.StatusCreated, e.ToResponse(time.Now()))
	}
}

func (h *Handler) update(typ Type) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := auth.UserFromContext(r.Context())
		if !ok {
			h.WriteError(w, http.StatusUnauthorized, "authentication required")
			return
		}

		id, err := parseID(r)
		if err != nil {
			h.WriteError(w, http.StatusBadRequest, "invalid entry id")
			return
		}

		var dto UpdateEntryDTO
		if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
			h.WriteError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		e, serr := h.service.Update(r.Context(), id, typ, session.SharedUserIDs(), dto)
		if serr != nil {
			h.HandleServiceError(w, serr)
			return
		}

		h.WriteJSON(w, http.StatusOK, e.ToResponse(time.Now()))
	}
}

func (h *Handler) delete(typ Type) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := auth.UserFromContext(r.Context())
		if !ok {
			h.WriteError(w, http.StatusUnauthorized, "authentication required")
			return
		}

		id, err := parseID(r)
		if err != nil {
			h.WriteError(w, http.StatusBadRequest, "invalid entry id")
			return
		}

		if serr := h.service.Delete(r.Context(), id, typ, session.SharedUserIDs()); serr != nil {
			h.HandleServiceError(w, serr)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func (h *Handler) markPaid(typ Type) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := auth.UserFromContext(r.Context())
		if !ok {
			h.WriteError(w, http.StatusUnauthorized, "authentication required")
			return
		}

		id, err := parseID(r)
		if err != nil {
			h.WriteError(w, http.StatusBadRequest, "invalid entry id")
			return
		}

		var dto MarkPaidDTO
		if r.ContentLength > 0 {
			if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
				h.WriteError(w, http.StatusBadRequest, "invalid request body")
				return
			}
		}

		e, serr := h.service.MarkPaid(r.Context(), id, typ, session.SharedUserIDs(), dto)
		if serr != nil {
			h.HandleServiceError(w, serr)
			return
		}

		h.WriteJSON(w, http.StatusOK, e.ToResponse(time.Now()))
	}
}

func (h *Handler) markPending(typ Type) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := auth.UserFromContext(r.Context())
		if !ok {
			h.WriteError(w, http.StatusUnauthorized, "authentication required")
			return
		}

		id, err := parseID(r)
		if err != nil {
			h.WriteError(w, http.StatusBadRequest, "invalid entry id")
			return
		}

		e, serr := h.service.MarkPending(r.Context(), id, typ, session.SharedUserIDs())
		if serr != nil {
			h.HandleServiceError(w, serr)
			return
		}

		h.WriteJSON(w, http.StatusOK, e.ToResponse(time.Now()))
	}
}

func (h *Handler) QuickEntry(w http.ResponseWriter, r *http.Request) {
	session, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var dto QuickEntryDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	e, err := h.service.QuickEntry(r.Context(), session.ID, session.SharedUserIDs(), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, e.ToResponse(time.Now()))
}

func parseID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

func parseListFilters(r *http.Request) (ListFilters, error) {
	q := r.URL.Query()
	filters := ListFilters{
		Kind:        Kind(q.Get("kind")),
		Status:      Status(q.Get("status")),
		Responsible: Responsible(q.Get("responsible")),
	}

	if raw := q.Get("category_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return filters, errInvalidFilter("category_id must be an integer")
		}
		filters.CategoryID = id
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
