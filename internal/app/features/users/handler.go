// internal/app/features/users/handler.go

// Package users implements the users resource CRUD for administrators.
package users

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	apierrors "github.com/dalemusser/tourhub/internal/app/features/errors"
	"github.com/dalemusser/tourhub/internal/app/features/shared"
	userstore "github.com/dalemusser/tourhub/internal/app/store/users"
	"github.com/dalemusser/tourhub/internal/app/system/auth"
	"github.com/dalemusser/tourhub/internal/app/system/timeouts"
)

// Handler holds the dependencies for the users endpoints.
type Handler struct {
	Users  *userstore.Store
	Errors *apierrors.ErrorLogger
	Log    *zap.Logger
}

// NewHandler constructs a users Handler.
func NewHandler(users *userstore.Store, errs *apierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{Users: users, Errors: errs, Log: logger}
}

// HandleList serves GET /.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	users, err := h.Users.List(ctx, nil, nil)
	if err != nil {
		h.Errors.Write(w, r, err)
		return
	}
	shared.List(w, "users", users, len(users))
}

// HandleGetMe serves GET /me for the logged-in user.
func (h *Handler) HandleGetMe(w http.ResponseWriter, r *http.Request) {
	user := auth.CurrentUser(r)
	if user == nil {
		h.Errors.Write(w, r, apierrors.New(apierrors.KindUnauthenticated,
			"You are not logged in! Please log in to get access."))
		return
	}
	shared.Data(w, http.StatusOK, "user", user)
}

type createRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"passwordConfirm"`
	Role            string `json:"role"`
}

// HandleCreate serves POST /. Unlike signup, an admin may set the role.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := shared.Decode(r, &req); err != nil {
		h.Errors.Write(w, r, apierrors.New(apierrors.KindBadRequest, "invalid JSON body"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	user, err := h.Users.Create(ctx, userstore.NewUser{
		Name:            req.Name,
		Email:           req.Email,
		Password:        req.Password,
		PasswordConfirm: req.PasswordConfirm,
		Role:            req.Role,
	})
	if err != nil {
		if errors.Is(err, userstore.ErrDuplicateEmail) {
			h.Errors.Write(w, r, apierrors.New(apierrors.KindBadRequest, err.Error()))
			return
		}
		var apiErr *apierrors.Error
		if errors.As(err, &apiErr) {
			h.Errors.Write(w, r, err)
			return
		}
		h.Errors.Write(w, r, apierrors.New(apierrors.KindBadRequest, err.Error()))
		return
	}

	h.Log.Info("user created", zap.String("user_id", user.ID.Hex()), zap.String("role", user.Role))
	shared.Data(w, http.StatusCreated, "user", user)
}

// HandleGet serves GET /{id}.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := h.userID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	user, err := h.Users.GetByID(ctx, id)
	if err != nil {
		h.writeUserErr(w, r, err)
		return
	}
	shared.Data(w, http.StatusOK, "user", user)
}

type updateRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
	Role  *string `json:"role"`
	Photo *string `json:"photo"`
}

// HandleUpdate serves PATCH /{id}. Passwords cannot be changed here;
// that goes through the reset or updateMyPassword flows.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := h.userID(w, r)
	if !ok {
		return
	}

	var req updateRequest
	if err := shared.Decode(r, &req); err != nil {
		h.Errors.Write(w, r, apierrors.New(apierrors.KindBadRequest, "invalid JSON body"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	user, err := h.Users.UpdateByID(ctx, id, userstore.Update{
		Name:  req.Name,
		Email: req.Email,
		Role:  req.Role,
		Photo: req.Photo,
	})
	if err != nil {
		h.writeUserErr(w, r, err)
		return
	}
	shared.Data(w, http.StatusOK, "user", user)
}

// HandleDelete serves DELETE /{id}.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.userID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Users.DeleteByID(ctx, id); err != nil {
		h.writeUserErr(w, r, err)
		return
	}
	h.Log.Info("user deleted", zap.String("user_id", id.Hex()))
	shared.NoContent(w)
}

func (h *Handler) userID(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.Errors.Write(w, r, apierrors.New(apierrors.KindBadRequest, "invalid user ID"))
		return primitive.NilObjectID, false
	}
	return id, true
}

func (h *Handler) writeUserErr(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, userstore.ErrNotFound) {
		h.Errors.Write(w, r, apierrors.New(apierrors.KindNotFound, "No user found with that ID"))
		return
	}
	if errors.Is(err, userstore.ErrDuplicateEmail) {
		h.Errors.Write(w, r, apierrors.New(apierrors.KindBadRequest, err.Error()))
		return
	}
	h.Errors.Write(w, r, err)
}
