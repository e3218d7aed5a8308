package userstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	apierrors "github.com/dalemusser/tourhub/internal/app/features/errors"
	"github.com/dalemusser/tourhub/internal/app/system/authutil"
	"github.com/dalemusser/tourhub/internal/domain/models"
	"github.com/dalemusser/tourhub/internal/testutil"
)

func TestCreateAndLookup(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db, 0)
	ctx := context.Background()

	u, err := store.Create(ctx, NewUser{
		Name:            "  Ada Lovelace ",
		Email:           "Ada@Example.COM",
		Password:        "pass1234",
		PasswordConfirm: "pass1234",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if u.Email != "ada@example.com" {
		t.Errorf("email not normalized: %q", u.Email)
	}
	if u.Name != "Ada Lovelace" {
		t.Errorf("name not trimmed: %q", u.Name)
	}
	if u.Role != models.RoleUser {
		t.Errorf("default role = %q, want %q", u.Role, models.RoleUser)
	}
	if u.PasswordHash != "" {
		t.Error("Create must not return the password hash")
	}

	got, err := store.GetByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.PasswordHash != "" {
		t.Error("GetByID must project out the password hash")
	}

	withPw, err := store.GetByEmailWithPassword(ctx, "ada@example.com")
	if err != nil {
		t.Fatalf("GetByEmailWithPassword: %v", err)
	}
	if !authutil.CheckPassword("pass1234", withPw.PasswordHash) {
		t.Error("stored hash should verify the original password")
	}
}

func TestCreate_Validation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db, 0)
	ctx := context.Background()

	_, err := store.Create(ctx, NewUser{
		Name:            "Bob",
		Email:           "bob@example.com",
		Password:        "pass1234",
		PasswordConfirm: "different",
	})
	var apiErr *apierrors.Error
	if !errors.As(err, &apiErr) || apiErr.Kind != apierrors.KindValidation {
		t.Fatalf("expected validation error for mismatched confirm, got %v", err)
	}
}

func TestCreate_DuplicateEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db, 0)
	ctx := context.Background()

	in := NewUser{
		Name:            "Carol",
		Email:           "carol@example.com",
		Password:        "pass1234",
		PasswordConfirm: "pass1234",
	}
	if _, err := store.Create(ctx, in); err != nil {
		t.Fatalf("first Create: %v", err)
	}

	// The duplicate check relies on the unique email index.
	_, err := db.Collection("users").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		t.Fatalf("create index: %v", err)
	}

	if _, err := store.Create(ctx, in); !errors.Is(err, ErrDuplicateEmail) {
		t.Errorf("second Create = %v, want ErrDuplicateEmail", err)
	}
}

func TestResetPasswordFlow(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db, 0)
	ctx := context.Background()

	u, err := store.Create(ctx, NewUser{
		Name:            "Dana",
		Email:           "dana@example.com",
		Password:        "pass1234",
		PasswordConfirm: "pass1234",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	raw, forUser, err := store.CreatePasswordResetToken(ctx, "dana@example.com")
	if err != nil {
		t.Fatalf("CreatePasswordResetToken: %v", err)
	}
	if forUser.ID != u.ID {
		t.Error("reset token should be for the looked-up user")
	}
	if len(raw) != ResetTokenLength*2 {
		t.Errorf("raw token length = %d, want %d hex chars", len(raw), ResetTokenLength*2)
	}

	// The raw token must not be persisted.
	var doc bson.M
	if err := db.Collection("users").FindOne(ctx, bson.M{"_id": u.ID}).Decode(&doc); err != nil {
		t.Fatalf("load user doc: %v", err)
	}
	if stored, _ := doc["password_reset_token"].(string); stored == raw {
		t.Error("raw reset token must never be stored")
	}

	reset, err := store.ResetPassword(ctx, raw, "newpass99", "newpass99")
	if err != nil {
		t.Fatalf("ResetPassword: %v", err)
	}
	if reset.ID != u.ID {
		t.Error("ResetPassword returned the wrong user")
	}

	// Token is single use.
	if _, err := store.ResetPassword(ctx, raw, "another99", "another99"); !errors.Is(err, ErrResetTokenInvalid) {
		t.Errorf("reused token = %v, want ErrResetTokenInvalid", err)
	}

	// New password works; the change is stamped.
	after, err := store.GetByEmailWithPassword(ctx, "dana@example.com")
	if err != nil {
		t.Fatalf("GetByEmailWithPassword: %v", err)
	}
	if !authutil.CheckPassword("newpass99", after.PasswordHash) {
		t.Error("new password should verify")
	}
	if after.PasswordChangedAt == nil {
		t.Error("password_changed_at should be stamped after a reset")
	}
	if after.ChangedPasswordAfter(time.Now().Add(time.Minute)) {
		t.Error("future-issued tokens should still pass the change check")
	}
}

func TestResetPassword_BadToken(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db, 0)

	_, err := store.ResetPassword(context.Background(), "deadbeef", "newpass99", "newpass99")
	if !errors.Is(err, ErrResetTokenInvalid) {
		t.Errorf("ResetPassword with unknown token = %v, want ErrResetTokenInvalid", err)
	}
}

func TestClearPasswordResetToken(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db, 0)
	ctx := context.Background()

	u, err := store.Create(ctx, NewUser{
		Name:            "Evan",
		Email:           "evan@example.com",
		Password:        "pass1234",
		PasswordConfirm: "pass1234",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	raw, _, err := store.CreatePasswordResetToken(ctx, "evan@example.com")
	if err != nil {
		t.Fatalf("CreatePasswordResetToken: %v", err)
	}
	if err := store.ClearPasswordResetToken(ctx, u.ID); err != nil {
		t.Fatalf("ClearPasswordResetToken: %v", err)
	}

	if _, err := store.ResetPassword(ctx, raw, "newpass99", "newpass99"); !errors.Is(err, ErrResetTokenInvalid) {
		t.Errorf("cleared token = %v, want ErrResetTokenInvalid", err)
	}
}

func TestUpdateAndDelete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db, 0)
	ctx := context.Background()

	u, err := store.Create(ctx, NewUser{
		Name:            "Fay",
		Email:           "fay@example.com",
		Password:        "pass1234",
		PasswordConfirm: "pass1234",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	name := "Fay Wray"
	role := models.RoleGuide
	updated, err := store.UpdateByID(ctx, u.ID, Update{Name: &name, Role: &role})
	if err != nil {
		t.Fatalf("UpdateByID: %v", err)
	}
	if updated.Name != "Fay Wray" || updated.Role != models.RoleGuide {
		t.Errorf("update not applied: %+v", updated)
	}

	if err := store.DeleteByID(ctx, u.ID); err != nil {
		t.Fatalf("DeleteByID: %v", err)
	}
	if _, err := store.GetByID(ctx, u.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByID after delete = %v, want ErrNotFound", err)
	}
	if err := store.DeleteByID(ctx, u.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second DeleteByID = %v, want ErrNotFound", err)
	}
}
