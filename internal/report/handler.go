package report

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi"

	"github.com/mbarcellos/finance-tracker/internal/auth"
	"github.com/mbarcellos/finance-tracker/internal/transport"
)

const defaultProjectionMonths = 4

type ServiceAPI interface {
	ComputeMetrics(groupIDs []int64, today time.Time) (MetricsSnapshot, error)
	Project(groupIDs []int64, monthsAhead int, start time.Time) ([]MonthlyProjection, error)
	SummariesForPeriod(userID int64, year, month int) ([]SummaryResponse, error)
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
	r.Get("/financial/metrics", h.Metrics)
	r.Get("/financial/planning", h.Planning)
	r.Get("/financial/summaries", h.Summaries)
}

func (h *Handler) Metrics(w http.ResponseWriter, r *http.Request) {
	session, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	snapshot, err := h.service.ComputeMetrics(session.SharedUserIDs(), time.Now())
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, snapshot.ToResponse())
}

func (h *Handler) Planning(w http.ResponseWriter, r *http.Request) {
	session, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	months := defaultProjectionMonths
	if raw := r.URL.Query().Get("months"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			h.WriteError(w, http.StatusBadRequest, "months must be a positive integer")
			return
		}
		months = parsed
	}

	projections, err := h.service.Project(session.SharedUserIDs(), months, time.Now())
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"projections": ToProjectionResponses(projections),
	})
}

func (h *Handler) Summaries(w http.ResponseWriter, r *http.Request) {
	session, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	year, err := parsePeriodParam(r, "year", 0)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "year must be a positive integer")
		return
	}
	month, err := parsePeriodParam(r, "month", 12)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "month must be an integer between 1 and 12")
		return
	}

	summaries, err := h.service.SummariesForPeriod(session.ID, year, month)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"summaries": summaries,
	})
}

// parsePeriodParam reads an optional positive integer query parameter,
// returning 0 when it is absent. A max of 0 means unbounded.
func parsePeriodParam(r *http.Request, name string, max int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 || (max > 0 && v > max) {
		return 0, strconv.ErrSyntax
	}
	return v, nil
}
