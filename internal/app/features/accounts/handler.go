// internal/app/features/accounts/handler.go

// Package accounts implements signup, login, and the password reset
// lifecycle under /api/v1/users.
package accounts

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	apierrors "github.com/dalemusser/tourhub/internal/app/features/errors"
	"github.com/dalemusser/tourhub/internal/app/features/shared"
	userstore "github.com/dalemusser/tourhub/internal/app/store/users"
	"github.com/dalemusser/tourhub/internal/app/system/auth"
	"github.com/dalemusser/tourhub/internal/app/system/authutil"
	"github.com/dalemusser/tourhub/internal/app/system/mailer"
	"github.com/dalemusser/tourhub/internal/app/system/timeouts"
	"github.com/dalemusser/tourhub/internal/app/system/token"
)

// Handler holds the dependencies for the account endpoints.
type Handler struct {
	Users    *userstore.Store
	Tokens   *token.Manager
	Mail     mailer.Sender
	BaseURL  string
	SiteName string
	Errors   *apierrors.ErrorLogger
	Log      *zap.Logger
}

// NewHandler constructs an accounts Handler.
func NewHandler(users *userstore.Store, tokens *token.Manager, mail mailer.Sender,
	baseURL, siteName string, errs *apierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Users:    users,
		Tokens:   tokens,
		Mail:     mail,
		BaseURL:  baseURL,
		SiteName: siteName,
		Errors:   errs,
		Log:      logger,
	}
}

type signupRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"passwordConfirm"`
}

// HandleSignup creates an account and returns a fresh token. The role
// is never taken from the request body; everyone signs up as a plain
// user and admins promote later.
func (h *Handler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
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
	})
	if err != nil {
		if errors.Is(err, userstore.ErrDuplicateEmail) {
			h.Errors.Write(w, r, apierrors.New(apierrors.KindBadRequest, err.Error()))
			return
		}
		h.Errors.Write(w, r, err)
		return
	}

	signed, err := h.Tokens.Issue(user.ID.Hex())
	if err != nil {
		h.Errors.Write(w, r, err)
		return
	}

	h.Log.Info("account created", zap.String("user_id", user.ID.Hex()))
	shared.JSON(w, http.StatusCreated, shared.Envelope{
		Token: signed,
		Data:  map[string]any{"user": user},
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleLogin verifies credentials and returns a token.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := shared.Decode(r, &req); err != nil {
		h.Errors.Write(w, r, apierrors.New(apierrors.KindBadRequest, "invalid JSON body"))
		return
	}
	if req.Email == "" || req.Password == "" {
		h.Errors.Write(w, r, apierrors.New(apierrors.KindBadRequest,
			"Please provide email and password!"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	user, err := h.Users.GetByEmailWithPassword(ctx, req.Email)
	if err != nil || !authutil.CheckPassword(req.Password, user.PasswordHash) {
		// Same response for unknown email and wrong password.
		h.Errors.Write(w, r, apierrors.New(apierrors.KindUnauthenticated,
			"Incorrect email or password"))
		return
	}

	signed, err := h.Tokens.Issue(user.ID.Hex())
	if err != nil {
		h.Errors.Write(w, r, err)
		return
	}

	shared.JSON(w, http.StatusCreated, shared.Envelope{Token: signed})
}

type forgotRequest struct {
	Email string `json:"email"`
}

// HandleForgotPassword issues a reset token and emails the reset link.
// The raw token never appears in the response. If the email cannot be
// sent, the pending token is cleared so it cannot linger.
func (h *Handler) HandleForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req forgotRequest
	if err := shared.Decode(r, &req); err != nil || req.Email == "" {
		h.Errors.Write(w, r, apierrors.New(apierrors.KindBadRequest, "Please provide your email"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	raw, user, err := h.Users.CreatePasswordResetToken(ctx, req.Email)
	if err != nil {
		if errors.Is(err, userstore.ErrNotFound) {
			h.Errors.Write(w, r, apierrors.New(apierrors.KindNotFound,
				"There is no user with email address."))
			return
		}
		h.Errors.Write(w, r, err)
		return
	}

	resetURL := fmt.Sprintf("%s/api/v1/users/resetPassword/%s", h.BaseURL, raw)
	email := mailer.BuildResetEmail(mailer.ResetEmailData{
		SiteName:  h.SiteName,
		ResetURL:  resetURL,
		ExpiresIn: formatExpiry(h.Users.ResetExpiry()),
	})
	email.To = user.Email

	if err := h.Mail.Send(email); err != nil {
		h.Log.Error("reset email failed", zap.String("user_id", user.ID.Hex()), zap.Error(err))
		if clearErr := h.Users.ClearPasswordResetToken(ctx, user.ID); clearErr != nil {
			h.Log.Error("clear reset token failed", zap.Error(clearErr))
		}
		h.Errors.Write(w, r, apierrors.Wrap(apierrors.KindInternal,
			"There was an error sending the email. Try again later!", err))
		return
	}

	h.Log.Info("reset email sent", zap.String("user_id", user.ID.Hex()))
	shared.JSON(w, http.StatusOK, shared.Envelope{Message: "Token sent to email!"})
}

type resetRequest struct {
	Password        string `json:"password"`
	PasswordConfirm string `json:"passwordConfirm"`
}

// HandleResetPassword consumes a raw reset token from the URL, sets the
// new password, and logs the user straight in.
func (h *Handler) HandleResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetRequest
	if err := shared.Decode(r, &req); err != nil {
		h.Errors.Write(w, r, apierrors.New(apierrors.KindBadRequest, "invalid JSON body"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	user, err := h.Users.ResetPassword(ctx, chi.URLParam(r, "token"),
		req.Password, req.PasswordConfirm)
	if err != nil {
		if errors.Is(err, userstore.ErrResetTokenInvalid) {
			h.Errors.Write(w, r, apierrors.New(apierrors.KindTokenInvalid,
				"Token is invalid or has expired"))
			return
		}
		h.Errors.Write(w, r, err)
		return
	}

	signed, err := h.Tokens.Issue(user.ID.Hex())
	if err != nil {
		h.Errors.Write(w, r, err)
		return
	}

	h.Log.Info("password reset", zap.String("user_id", user.ID.Hex()))
	shared.JSON(w, http.StatusOK, shared.Envelope{Token: signed})
}

type updatePasswordRequest struct {
	PasswordCurrent string `json:"passwordCurrent"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"passwordConfirm"`
}

// HandleUpdatePassword changes the password for the logged-in user
// after re-checking their current one, then issues a fresh token since
// the old ones just died.
func (h *Handler) HandleUpdatePassword(w http.ResponseWriter, r *http.Request) {
	user := auth.CurrentUser(r)
	if user == nil {
		h.Errors.Write(w, r, apierrors.New(apierrors.KindUnauthenticated,
			"You are not logged in! Please log in to get access."))
		return
	}

	var req updatePasswordRequest
	if err := shared.Decode(r, &req); err != nil {
		h.Errors.Write(w, r, apierrors.New(apierrors.KindBadRequest, "invalid JSON body"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Users.UpdatePassword(ctx, user.ID, req.PasswordCurrent,
		req.Password, req.PasswordConfirm); err != nil {
		var apiErr *apierrors.Error
		if errors.As(err, &apiErr) {
			h.Errors.Write(w, r, err)
			return
		}
		h.Errors.Write(w, r, apierrors.New(apierrors.KindUnauthenticated, err.Error()))
		return
	}

	signed, err := h.Tokens.Issue(user.ID.Hex())
	if err != nil {
		h.Errors.Write(w, r, err)
		return
	}
	shared.JSON(w, http.StatusOK, shared.Envelope{Token: signed})
}

// formatExpiry renders a duration for email copy, e.g. "10 minutes".
func formatExpiry(d time.Duration) string {
	if d >= time.Hour && d%time.Hour == 0 {
		n := int(d / time.Hour)
		if n == 1 {
			return "1 hour"
		}
		return fmt.Sprintf("%d hours", n)
	}
	n := int(d / time.Minute)
	if n <= 1 {
		return "1 minute"
	}
	return fmt.Sprintf("%d minutes", n)
}
