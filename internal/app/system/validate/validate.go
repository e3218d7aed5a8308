// Package validate holds the per-entity validation functions run before
// every create and update. Constraints live here as explicit code, not
// in the data layer, so the store never persists an unchecked document.
package validate

import (
	"fmt"

	apierrors "github.com/dalemusser/tourhub/internal/app/features/errors"
	"github.com/dalemusser/tourhub/internal/app/system/authutil"
	"github.com/dalemusser/tourhub/internal/domain/models"
)

// Result collects field errors for one entity. The zero value is valid.
type Result struct {
	fields []apierrors.FieldError
}

// Add records a field error.
func (r *Result) Add(field, message string) {
	r.fields = append(r.fields, apierrors.FieldError{Field: field, Message: message})
}

// OK reports whether no field errors were recorded.
func (r *Result) OK() bool { return len(r.fields) == 0 }

// Err returns a validation *apierrors.Error, or nil when the result is ok.
func (r *Result) Err() error {
	if r.OK() {
		return nil
	}
	return apierrors.Validation(r.fields)
}

// NewUserInput is the payload checked before creating a user.
// Fields are expected to be normalized already.
type NewUserInput struct {
	Name            string
	Email           string
	Password        string
	PasswordConfirm string
}

// NewUser validates a signup payload. The password-confirm equality
// check happens here, at write time; the confirm value is discarded by
// the store and never persisted.
func NewUser(in NewUserInput) *Result {
	var r Result

	if in.Name == "" {
		r.Add("name", "please tell us your name")
	}
	if in.Email == "" {
		r.Add("email", "please provide your email")
	} else if !authutil.IsValidEmail(in.Email) {
		r.Add("email", "please provide a valid email")
	}
	if err := authutil.ValidatePassword(in.Password); err != nil {
		r.Add("password", err.Error())
	}
	if in.PasswordConfirm != in.Password {
		r.Add("passwordConfirm", "passwords do not match")
	}

	return &r
}

// NewPassword validates a password change or reset payload.
func NewPassword(password, passwordConfirm string) *Result {
	var r Result

	if err := authutil.ValidatePassword(password); err != nil {
		r.Add("password", err.Error())
	}
	if passwordConfirm != password {
		r.Add("passwordConfirm", "passwords do not match")
	}

	return &r
}

// Tour validates a tour document before it is persisted. The caller is
// responsible for having derived the slug and sanitized the text fields.
func Tour(t *models.Tour) *Result {
	var r Result

	if n := len(t.Name); n < models.TourNameMinLen || n > models.TourNameMaxLen {
		r.Add("name", fmt.Sprintf("a tour name must be between %d and %d characters",
			models.TourNameMinLen, models.TourNameMaxLen))
	}
	if t.Duration <= 0 {
		r.Add("duration", "a tour must have a duration")
	}
	if t.MaxGroupSize <= 0 {
		r.Add("maxGroupSize", "a tour must have a group size")
	}
	if !models.ValidDifficulty(t.Difficulty) {
		r.Add("difficulty", "difficulty is either easy, medium, or difficult")
	}
	if t.RatingsAverage < 1 || t.RatingsAverage > 5 {
		r.Add("ratingsAverage", "rating must be between 1.0 and 5.0")
	}
	if t.Price <= 0 {
		r.Add("price", "a tour must have a price")
	}
	if t.PriceDiscount != nil && *t.PriceDiscount >= t.Price {
		r.Add("priceDiscount", fmt.Sprintf("discount price (%v) must be below the regular price", *t.PriceDiscount))
	}
	if t.Summary == "" {
		r.Add("summary", "a tour must have a summary")
	}

	return &r
}
