// internal/api/router.go
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"realty-sales/internal/api/handler"
	"realty-sales/internal/api/middleware"
)

// NewRouter sets up and returns a new HTTP router.
func NewRouter(pendingSaleHandler *handler.PendingSaleHandler, jwtSecret []byte, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	// Global middlewares
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(handler.DefaultTimeout))

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	// All workflow routes require an authenticated actor.
	r.Group(func(r chi.Router) {
		r.Use(middleware.Authenticator(jwtSecret))

		r.Route("/pending-sales", func(r chi.Router) {
			r.Post("/", pendingSaleHandler.Create)
			r.Get("/{pendingSaleID}", pendingSaleHandler.GetByID)
			r.Post("/{pendingSaleID}/unit-manager-assignments", pendingSaleHandler.SubmitUnitManagerAssignments)
			r.Post("/{pendingSaleID}/sales-director-approval", pendingSaleHandler.SubmitSalesDirectorApproval)
			r.Post("/{pendingSaleID}/rejection", pendingSaleHandler.Reject)
		})

		r.Get("/divisions/{divisionID}/pending-sales", pendingSaleHandler.ListByDivision)
		r.Get("/agents/{agentID}", pendingSaleHandler.GetAgent)
	})

	return r
}
