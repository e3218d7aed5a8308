// internal/app/store/users/userstore.go
package userstore

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/dalemusser/tourhub/internal/app/system/authutil"
	"github.com/dalemusser/tourhub/internal/app/system/normalize"
	"github.com/dalemusser/tourhub/internal/app/system/validate"
	"github.com/dalemusser/tourhub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ResetTokenLength is the raw reset token size in bytes (64 hex chars).
const ResetTokenLength = 32

// DefaultResetExpiry is how long a password reset token stays valid.
const DefaultResetExpiry = 10 * time.Minute

var (
	// ErrNotFound is returned when no user matches the lookup.
	ErrNotFound = errors.New("user not found")
	// ErrDuplicateEmail is returned when the email is already registered.
	ErrDuplicateEmail = errors.New("a user with this email already exists")
	// ErrResetTokenInvalid is returned when a reset token does not match
	// any live record or has expired.
	ErrResetTokenInvalid = errors.New("reset token is invalid or has expired")
)

type Store struct {
	c           *mongo.Collection
	resetExpiry time.Duration
}

// New creates a users Store. If resetExpiry is zero or negative,
// DefaultResetExpiry is used.
func New(db *mongo.Database, resetExpiry time.Duration) *Store {
	if resetExpiry <= 0 {
		resetExpiry = DefaultResetExpiry
	}
	return &Store{c: db.Collection("users"), resetExpiry: resetExpiry}
}

// ResetExpiry returns the configured reset token lifetime.
func (s *Store) ResetExpiry() time.Duration {
	return s.resetExpiry
}

// publicProjection excludes the credential fields from general reads.
// Password material is only loaded by the WithPassword lookups.
var publicProjection = bson.M{
	"password_hash":          0,
	"password_reset_token":   0,
	"password_reset_expires": 0,
}

// NewUser is the input for Create. PasswordConfirm is checked and then
// discarded; only the bcrypt hash of Password is persisted.
type NewUser struct {
	Name            string
	Email           string
	Password        string
	PasswordConfirm string
	Role            string
	Photo           string
}

// Create validates, normalizes, and inserts a new user.
func (s *Store) Create(ctx context.Context, in NewUser) (*models.User, error) {
	in.Name = normalize.Name(in.Name)
	in.Email = normalize.Email(in.Email)

	if err := validate.NewUser(validate.NewUserInput{
		Name:            in.Name,
		Email:           in.Email,
		Password:        in.Password,
		PasswordConfirm: in.PasswordConfirm,
	}).Err(); err != nil {
		return nil, err
	}

	role := normalize.Role(in.Role)
	if role == "" {
		role = models.RoleUser
	}
	if !models.ValidRole(role) {
		return nil, fmt.Errorf("invalid role %q", role)
	}

	hash, err := authutil.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	photo := in.Photo
	if photo == "" {
		photo = models.DefaultPhoto
	}

	now := time.Now()
	u := models.User{
		ID:           primitive.NewObjectID(),
		Name:         in.Name,
		Email:        in.Email,
		Photo:        photo,
		Role:         role,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}

	u.PasswordHash = ""
	return &u, nil
}

// GetByID loads a user by ObjectID without credential fields.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	err := s.c.FindOne(ctx, bson.M{"_id": id},
		options.FindOne().SetProjection(publicProjection)).Decode(&u)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// GetByEmail loads a user by normalized email without credential fields.
func (s *Store) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := s.c.FindOne(ctx, bson.M{"email": normalize.Email(email)},
		options.FindOne().SetProjection(publicProjection)).Decode(&u)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// GetByEmailWithPassword loads a user by email including the stored
// password hash. Used by login only.
func (s *Store) GetByEmailWithPassword(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := s.c.FindOne(ctx, bson.M{"email": normalize.Email(email)}).Decode(&u)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// List returns users without credential fields.
func (s *Store) List(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.User, error) {
	if filter == nil {
		filter = bson.M{}
	}
	if opts == nil {
		opts = options.Find()
	}
	opts.SetProjection(publicProjection)

	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	users := []models.User{}
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// Update holds the fields an admin may change on a user. Nil pointers
// leave the stored value untouched. Passwords are never updated through
// here; use ResetPassword or UpdatePassword.
type Update struct {
	Name  *string
	Email *string
	Role  *string
	Photo *string
}

// UpdateByID applies an Update and returns the fresh document.
func (s *Store) UpdateByID(ctx context.Context, id primitive.ObjectID, upd Update) (*models.User, error) {
	set := bson.M{"updated_at": time.Now()}
	if upd.Name != nil {
		set["name"] = normalize.Name(*upd.Name)
	}
	if upd.Email != nil {
		email := normalize.Email(*upd.Email)
		if !authutil.IsValidEmail(email) {
			return nil, fmt.Errorf("invalid email %q", email)
		}
		set["email"] = email
	}
	if upd.Role != nil {
		role := normalize.Role(*upd.Role)
		if !models.ValidRole(role) {
			return nil, fmt.Errorf("invalid role %q", role)
		}
		set["role"] = role
	}
	if upd.Photo != nil {
		set["photo"] = *upd.Photo
	}

	var u models.User
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().
			SetReturnDocument(options.After).
			SetProjection(publicProjection),
	).Decode(&u)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		if wafflemongo.IsDup(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}
	return &u, nil
}

// DeleteByID removes a user.
func (s *Store) DeleteByID(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// CreatePasswordResetToken generates a reset token for the user with the
// given email, stores its SHA-256 hex plus expiry, and returns the raw
// token. The raw value goes out by email and is never persisted.
func (s *Store) CreatePasswordResetToken(ctx context.Context, email string) (string, *models.User, error) {
	u, err := s.GetByEmail(ctx, email)
	if err != nil {
		return "", nil, err
	}

	raw := generateResetToken()
	hashed := hashResetToken(raw)
	expires := time.Now().Add(s.resetExpiry)

	_, err = s.c.UpdateOne(ctx,
		bson.M{"_id": u.ID},
		bson.M{"$set": bson.M{
			"password_reset_token":   hashed,
			"password_reset_expires": expires,
		}},
	)
	if err != nil {
		return "", nil, err
	}
	return raw, u, nil
}

// ClearPasswordResetToken removes any pending reset token, e.g. after a
// failed email delivery so the dead token cannot linger.
func (s *Store) ClearPasswordResetToken(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$unset": bson.M{
			"password_reset_token":   "",
			"password_reset_expires": "",
		}},
	)
	return err
}

// ResetPassword consumes a raw reset token: it finds the user whose
// stored token hash matches and has not expired, validates the new
// password, and replaces the credential. password_changed_at is stamped
// so tokens issued before the change stop working.
func (s *Store) ResetPassword(ctx context.Context, rawToken, password, passwordConfirm string) (*models.User, error) {
	var u models.User
	err := s.c.FindOne(ctx, bson.M{
		"password_reset_token":   hashResetToken(rawToken),
		"password_reset_expires": bson.M{"$gt": time.Now()},
	}).Decode(&u)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrResetTokenInvalid
		}
		return nil, err
	}

	if err := validate.NewPassword(password, passwordConfirm).Err(); err != nil {
		return nil, err
	}

	if err := s.setPassword(ctx, u.ID, password); err != nil {
		return nil, err
	}

	u.PasswordHash = ""
	u.PasswordResetToken = ""
	u.PasswordResetExpires = nil
	return &u, nil
}

// UpdatePassword replaces the credential for a logged-in user after
// checking their current password.
func (s *Store) UpdatePassword(ctx context.Context, id primitive.ObjectID, current, password, passwordConfirm string) error {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrNotFound
		}
		return err
	}
	if !authutil.CheckPassword(current, u.PasswordHash) {
		return errors.New("your current password is wrong")
	}
	if err := validate.NewPassword(password, passwordConfirm).Err(); err != nil {
		return err
	}
	return s.setPassword(ctx, id, password)
}

// setPassword writes the new hash, stamps password_changed_at slightly
// in the past so a token issued in the same second still verifies, and
// clears any pending reset token.
func (s *Store) setPassword(ctx context.Context, id primitive.ObjectID, password string) error {
	hash, err := authutil.HashPassword(password)
	if err != nil {
		return err
	}
	changedAt := time.Now().Add(-time.Second)
	_, err = s.c.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{
			"$set": bson.M{
				"password_hash":       hash,
				"password_changed_at": changedAt,
				"updated_at":          time.Now(),
			},
			"$unset": bson.M{
				"password_reset_token":   "",
				"password_reset_expires": "",
			},
		},
	)
	return err
}

func generateResetToken() string {
	b := make([]byte, ResetTokenLength)
	if _, err := rand.Read(b); err != nil {
		panic("crypto/rand.Read failed: " + err.Error())
	}
	return hex.EncodeToString(b)
}

func hashResetToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
