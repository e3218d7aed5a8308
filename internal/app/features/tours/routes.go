// internal/app/features/tours/routes.go
package tours

import (
	"github.com/go-chi/chi/v5"

	"github.com/dalemusser/tourhub/internal/app/system/auth"
	"github.com/dalemusser/tourhub/internal/domain/models"
)

// Routes returns the tours subrouter, mounted under /api/v1/tours.
// Listing requires a login; deleting additionally requires an admin or
// lead-guide role.
func Routes(h *Handler, mw *auth.Middleware) chi.Router {
	r := chi.NewRouter()

	r.Get("/top-5-cheap", h.HandleTop5Cheap)
	r.Get("/tour-stats", h.HandleStats)
	r.Get("/monthly-plan/{year}", h.HandleMonthlyPlan)

	r.With(mw.Require).Get("/", h.HandleList)
	r.Post("/", h.HandleCreate)

	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", h.HandleGet)
		r.Patch("/", h.HandleUpdate)
		r.With(mw.Require, mw.RequireRole(models.RoleAdmin, models.RoleLeadGuide)).
			Delete("/", h.HandleDelete)
	})

	return r
}
