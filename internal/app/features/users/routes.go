// internal/app/features/users/routes.go
package users

import (
	"github.com/go-chi/chi/v5"

	"github.com/dalemusser/tourhub/internal/app/system/auth"
	"github.com/dalemusser/tourhub/internal/domain/models"
)

// Register adds the users resource CRUD to the users router, alongside
// the account endpoints from features/accounts. Mutations and listing
// are admin-only; /me is available to any logged-in user.
func Register(r chi.Router, h *Handler, mw *auth.Middleware) {
	r.Group(func(r chi.Router) {
		r.Use(mw.Require)

		r.Get("/me", h.HandleGetMe)

		r.Group(func(r chi.Router) {
			r.Use(mw.RequireRole(models.RoleAdmin))

			r.Get("/", h.HandleList)
			r.Post("/", h.HandleCreate)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.HandleGet)
				r.Patch("/", h.HandleUpdate)
				r.Delete("/", h.HandleDelete)
			})
		})
	})
}
