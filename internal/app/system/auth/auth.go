// internal/app/system/auth/auth.go

// Package auth provides bearer-token authentication middleware and
// role-based route guards.
package auth

import (
	"context"
	"net/http"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	apierrors "github.com/dalemusser/tourhub/internal/app/features/errors"
	"github.com/dalemusser/tourhub/internal/app/system/timeouts"
	"github.com/dalemusser/tourhub/internal/app/system/token"
	"github.com/dalemusser/tourhub/internal/domain/models"
)

type contextKey string

const userKey contextKey = "auth.user"

// UserResolver loads the account behind a verified token. The users
// store satisfies it; tests substitute a fake.
type UserResolver interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
}

// Middleware authenticates requests via the Authorization header.
type Middleware struct {
	Tokens *token.Manager
	Users  UserResolver
	Errors *apierrors.ErrorLogger
}

// Require rejects requests that do not carry a valid bearer token for a
// live account. Token verification, account lookup, and the
// password-change check all short-circuit with 401 so no protected
// handler runs with a partial identity.
func (m *Middleware) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := bearerToken(r)
		if raw == "" {
			m.Errors.Write(w, r, apierrors.New(apierrors.KindUnauthenticated,
				"You are not logged in! Please log in to get access."))
			return
		}

		claims, err := m.Tokens.Verify(raw)
		if err != nil {
			m.Errors.Write(w, r, apierrors.New(apierrors.KindUnauthenticated,
				"Invalid token. Please log in again!"))
			return
		}

		id, err := primitive.ObjectIDFromHex(claims.UserID)
		if err != nil {
			m.Errors.Write(w, r, apierrors.New(apierrors.KindUnauthenticated,
				"Invalid token. Please log in again!"))
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
		defer cancel()

		user, err := m.Users.GetByID(ctx, id)
		if err != nil {
			m.Errors.Write(w, r, apierrors.New(apierrors.KindUnauthenticated,
				"The user belonging to this token does no longer exist."))
			return
		}

		if user.ChangedPasswordAfter(claims.IssuedAt) {
			m.Errors.Write(w, r, apierrors.New(apierrors.KindUnauthenticated,
				"User recently changed password! Please log in again."))
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
	})
}

// RequireRole restricts a route to the given roles. It must run after
// Require, which places the user in the request context.
func (m *Middleware) RequireRole(roles ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := CurrentUser(r)
			if user == nil {
				m.Errors.Write(w, r, apierrors.New(apierrors.KindUnauthenticated,
					"You are not logged in! Please log in to get access."))
				return
			}
			if _, ok := allowed[user.Role]; !ok {
				m.Errors.Write(w, r, apierrors.New(apierrors.KindForbidden,
					"You do not have permission to perform this action"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// WithUser returns a context carrying the authenticated user.
func WithUser(ctx context.Context, u *models.User) context.Context {
	return context.WithValue(ctx, userKey, u)
}

// CurrentUser returns the authenticated user, or nil if the request did
// not pass through Require.
func CurrentUser(r *http.Request) *models.User {
	u, _ := r.Context().Value(userKey).(*models.User)
	return u
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
