// internal/app/store/tours/tourstore.go
package tourstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/tourhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/tourhub/internal/app/system/listquery"
	"github.com/dalemusser/tourhub/internal/app/system/normalize"
	"github.com/dalemusser/tourhub/internal/app/system/slugify"
	"github.com/dalemusser/tourhub/internal/app/system/validate"
	"github.com/dalemusser/tourhub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	// ErrNotFound is returned when no tour matches the lookup.
	ErrNotFound = errors.New("tour not found")
	// ErrDuplicateName is returned when a tour with that name exists.
	ErrDuplicateName = errors.New("a tour with this name already exists")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("tours")}
}

// visible prepends the secret-tour exclusion to a filter. Every general
// read goes through this so secret tours never leak.
func visible(filter bson.M) bson.M {
	if filter == nil {
		filter = bson.M{}
	}
	filter["secret_tour"] = bson.M{"$ne": true}
	return filter
}

// prepare normalizes and sanitizes client-supplied fields and derives
// the slug from the name. Called before every insert and full update.
func prepare(t *models.Tour) {
	t.Name = htmlsanitize.PlainText(normalize.Name(t.Name))
	t.Slug = slugify.Slug(t.Name)
	t.Difficulty = normalize.Difficulty(t.Difficulty)
	t.Summary = htmlsanitize.PlainText(t.Summary)
	t.Description = htmlsanitize.Sanitize(t.Description)
}

// Create validates and inserts a new tour.
func (s *Store) Create(ctx context.Context, t models.Tour) (*models.Tour, error) {
	prepare(&t)
	if t.RatingsAverage == 0 {
		t.RatingsAverage = 4.5
	}
	if err := validate.Tour(&t).Err(); err != nil {
		return nil, err
	}

	t.ID = primitive.NewObjectID()
	now := time.Now()
	t.CreatedAt = now
	t.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, t); err != nil {
		if wafflemongo.IsDup(err) {
			return nil, ErrDuplicateName
		}
		return nil, err
	}
	return &t, nil
}

// GetByID loads a visible tour by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Tour, error) {
	var t models.Tour
	err := s.c.FindOne(ctx, visible(bson.M{"_id": id})).Decode(&t)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

// List returns visible tours matching the parsed query options.
func (s *Store) List(ctx context.Context, q listquery.Options) ([]models.Tour, error) {
	opts := options.Find().SetSkip(q.Skip).SetLimit(q.Limit)
	if q.Sort != nil {
		opts.SetSort(q.Sort)
	} else {
		opts.SetSort(bson.D{{Key: "created_at", Value: -1}})
	}
	if q.Fields != nil {
		opts.SetProjection(q.Fields)
	}

	cur, err := s.c.Find(ctx, visible(q.Filter), opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	tours := []models.Tour{}
	if err := cur.All(ctx, &tours); err != nil {
		return nil, err
	}
	return tours, nil
}

// Update holds the fields a tour update may change. Nil pointers leave
// the stored value untouched.
type Update struct {
	Name          *string
	Duration      *int
	MaxGroupSize  *int
	Difficulty    *string
	Price         *float64
	PriceDiscount *float64
	Summary       *string
	Description   *string
	ImageCover    *string
	Images        []string
	StartDates    []time.Time
	SecretTour    *bool
}

// UpdateByID merges upd into the stored tour, re-validates the merged
// document, and persists it. The slug follows the name.
func (s *Store) UpdateByID(ctx context.Context, id primitive.ObjectID, upd Update) (*models.Tour, error) {
	current, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	merged := *current
	if upd.Name != nil {
		merged.Name = *upd.Name
	}
	if upd.Duration != nil {
		merged.Duration = *upd.Duration
	}
	if upd.MaxGroupSize != nil {
		merged.MaxGroupSize = *upd.MaxGroupSize
	}
	if upd.Difficulty != nil {
		merged.Difficulty = *upd.Difficulty
	}
	if upd.Price != nil {
		merged.Price = *upd.Price
	}
	if upd.PriceDiscount != nil {
		merged.PriceDiscount = upd.PriceDiscount
	}
	if upd.Summary != nil {
		merged.Summary = *upd.Summary
	}
	if upd.Description != nil {
		merged.Description = *upd.Description
	}
	if upd.ImageCover != nil {
		merged.ImageCover = *upd.ImageCover
	}
	if upd.Images != nil {
		merged.Images = upd.Images
	}
	if upd.StartDates != nil {
		merged.StartDates = upd.StartDates
	}
	if upd.SecretTour != nil {
		merged.SecretTour = *upd.SecretTour
	}

	prepare(&merged)
	if err := validate.Tour(&merged).Err(); err != nil {
		return nil, err
	}
	merged.UpdatedAt = time.Now()

	res, err := s.c.ReplaceOne(ctx, bson.M{"_id": id}, merged)
	if err != nil {
		if wafflemongo.IsDup(err) {
			return nil, ErrDuplicateName
		}
		return nil, err
	}
	if res.MatchedCount == 0 {
		return nil, ErrNotFound
	}
	return &merged, nil
}

// DeleteByID removes a tour.
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
