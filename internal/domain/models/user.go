// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Roles a user can hold. Guides lead tours; lead guides additionally
// manage them; admins manage everything.
const (
	RoleAdmin     = "admin"
	RoleUser      = "user"
	RoleGuide     = "guide"
	RoleLeadGuide = "lead-guide"
)

// DefaultPhoto is used when a user signs up without a photo.
const DefaultPhoto = "default.jpg"

// User represents an account in the users collection.
//
// PasswordHash is never serialized to clients (json:"-") and is only
// loaded from the database by the store's with-password lookup.
// The reset-token field holds the SHA-256 hex of the raw token that was
// handed to the user; the raw value itself is never persisted.
type User struct {
	ID    primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name  string             `bson:"name" json:"name"`
	Email string             `bson:"email" json:"email"`
	Photo string             `bson:"photo,omitempty" json:"photo,omitempty"`
	Role  string             `bson:"role" json:"role"`

	PasswordHash         string     `bson:"password_hash,omitempty" json:"-"`
	PasswordChangedAt    *time.Time `bson:"password_changed_at,omitempty" json:"-"`
	PasswordResetToken   string     `bson:"password_reset_token,omitempty" json:"-"`
	PasswordResetExpires *time.Time `bson:"password_reset_expires,omitempty" json:"-"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// ValidRole reports whether role is one of the known user roles.
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleUser, RoleGuide, RoleLeadGuide:
		return true
	}
	return false
}

// ChangedPasswordAfter reports whether the user changed their password
// after the given token issue time. Tokens minted before a password
// change are implicitly invalidated by this check.
func (u *User) ChangedPasswordAfter(issuedAt time.Time) bool {
	if u.PasswordChangedAt == nil {
		return false
	}
	// Compare at second precision; JWT iat claims carry no sub-second part.
	return u.PasswordChangedAt.Truncate(time.Second).After(issuedAt.Truncate(time.Second))
}
