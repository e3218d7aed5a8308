package testutil

import (
	"context"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/dalemusser/tourhub/internal/app/system/authutil"
	"github.com/dalemusser/tourhub/internal/app/system/slugify"
	"github.com/dalemusser/tourhub/internal/domain/models"
)

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser inserts a user with the given role and password and
// returns the stored document.
func (f *Fixtures) CreateUser(ctx context.Context, name, email, role, password string) models.User {
	f.t.Helper()

	hash, err := authutil.HashPassword(password)
	if err != nil {
		f.t.Fatalf("hash fixture password: %v", err)
	}

	now := time.Now().UTC()
	user := models.User{
		ID:           primitive.NewObjectID(),
		Name:         name,
		Email:        email,
		Photo:        models.DefaultPhoto,
		Role:         role,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if _, err := f.db.Collection("users").InsertOne(ctx, user); err != nil {
		f.t.Fatalf("create test user: %v", err)
	}
	return user
}

// CreateAdmin inserts an admin user.
func (f *Fixtures) CreateAdmin(ctx context.Context, name, email, password string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, name, email, models.RoleAdmin, password)
}

// CreateTour inserts a tour with sensible defaults; override fields via
// the returned document and an UpdateOne when a test needs more.
func (f *Fixtures) CreateTour(ctx context.Context, name string, price float64, difficulty string) models.Tour {
	f.t.Helper()

	now := time.Now().UTC()
	tour := models.Tour{
		ID:              primitive.NewObjectID(),
		Name:            name,
		Slug:            slugify.Slug(name),
		Duration:        5,
		MaxGroupSize:    10,
		Difficulty:      difficulty,
		RatingsAverage:  4.5,
		RatingsQuantity: 3,
		Price:           price,
		Summary:         "A test tour for the suite",
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if _, err := f.db.Collection("tours").InsertOne(ctx, tour); err != nil {
		f.t.Fatalf("create test tour: %v", err)
	}
	return tour
}

// CreateSecretTour inserts a tour flagged secret, which general reads
// must never return.
func (f *Fixtures) CreateSecretTour(ctx context.Context, name string, price float64) models.Tour {
	f.t.Helper()

	tour := f.CreateTour(ctx, name, price, models.DifficultyMedium)
	_, err := f.db.Collection("tours").UpdateOne(ctx,
		map[string]any{"_id": tour.ID},
		map[string]any{"$set": map[string]any{"secret_tour": true}},
	)
	if err != nil {
		f.t.Fatalf("flag secret tour: %v", err)
	}
	tour.SecretTour = true
	return tour
}
