// internal/domain/models/tour.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Difficulty levels a tour can be rated at.
const (
	DifficultyEasy      = "easy"
	DifficultyMedium    = "medium"
	DifficultyDifficult = "difficult"
)

// Tour name length bounds enforced on create and update.
const (
	TourNameMinLen = 10
	TourNameMaxLen = 40
)

// Tour represents a document in the tours collection.
//
// Slug is derived from Name before every save; it is never accepted
// from clients. Tours flagged SecretTour are excluded from all general
// reads and aggregations by the store layer.
type Tour struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name            string             `bson:"name" json:"name"`
	Slug            string             `bson:"slug" json:"slug"`
	Duration        int                `bson:"duration" json:"duration"`
	MaxGroupSize    int                `bson:"max_group_size" json:"maxGroupSize"`
	Difficulty      string             `bson:"difficulty" json:"difficulty"`
	RatingsAverage  float64            `bson:"ratings_average" json:"ratingsAverage"`
	RatingsQuantity int                `bson:"ratings_quantity" json:"ratingsQuantity"`
	Price           float64            `bson:"price" json:"price"`
	PriceDiscount   *float64           `bson:"price_discount,omitempty" json:"priceDiscount,omitempty"`
	Summary         string             `bson:"summary" json:"summary"`
	Description     string             `bson:"description,omitempty" json:"description,omitempty"`
	ImageCover      string             `bson:"image_cover,omitempty" json:"imageCover,omitempty"`
	Images          []string           `bson:"images,omitempty" json:"images,omitempty"`
	StartDates      []time.Time        `bson:"start_dates,omitempty" json:"startDates,omitempty"`
	SecretTour      bool               `bson:"secret_tour" json:"-"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// ValidDifficulty reports whether d is one of the known difficulty levels.
func ValidDifficulty(d string) bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyDifficult:
		return true
	}
	return false
}
