package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"

	"github.com/mbarcellos/finance-tracker/internal/auth"
	"github.com/mbarcellos/finance-tracker/internal/cashflow"
	"github.com/mbarcellos/finance-tracker/internal/category"
	"github.com/mbarcellos/finance-tracker/internal/entry"
	"github.com/mbarcellos/finance-tracker/internal/report"
	"github.com/mbarcellos/finance-tracker/internal/transport/middleware"
	"github.com/mbarcellos/finance-tracker/internal/transport/swagger"
	"github.com/mbarcellos/finance-tracker/internal/user"
)

// Handlers bundles every feature handler the router mounts.
type Handlers struct {
	Auth     *auth.Handler
	User     *user.Handler
	Category *category.Handler
	Entry    *entry.Handler
	CashFlow *cashflow.Handler
	Report   *report.Handler
}

// RegisterAllRoutes wires the middleware chain and mounts the API under
// /api/v1. Everything except auth and health sits behind the session
// middleware.
func RegisterAllRoutes(router *chi.Mux, db *sql.DB, handlers Handlers, allowedOrigins string, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	router.Use(middleware.CORS(allowedOrigins))
	router.Use(middleware.RequestID)
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))

	// OpenAPI document and Swagger UI live at the root, outside the API
	// prefix.
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	router.Handle("/swagger/*", swagger.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		handlers.Auth.RegisterRoutes(r)

		r.Group(func(pr chi.Router) {
			pr.Use(handlers.Auth.Middleware)

			handlers.Auth.RegisterProtectedRoutes(pr)
			handlers.User.RegisterRoutes(pr)
			handlers.Category.RegisterRoutes(pr)
			handlers.Entry.RegisterRoutes(pr)
			handlers.CashFlow.RegisterRoutes(pr)
			handlers.Report.RegisterRoutes(pr)
		})
	})
}
