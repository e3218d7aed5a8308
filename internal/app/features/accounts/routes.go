// internal/app/features/accounts/routes.go
package accounts

import (
	"github.com/go-chi/chi/v5"

	"github.com/dalemusser/tourhub/internal/app/system/auth"
)

// Register adds the account endpoints to the users router. The CRUD
// endpoints for the users resource live in features/users and share
// the same mount point.
func Register(r chi.Router, h *Handler, mw *auth.Middleware) {
	r.Post("/signup", h.HandleSignup)
	r.Post("/login", h.HandleLogin)
	r.Post("/forgotPassword", h.HandleForgotPassword)
	r.Patch("/resetPassword/{token}", h.HandleResetPassword)

	r.Group(func(r chi.Router) {
		r.Use(mw.Require)
		r.Patch("/updateMyPassword", h.HandleUpdatePassword)
	})
}
