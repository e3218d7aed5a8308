// internal/app/store/tours/stats.go
package tourstore

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func yearStart(year int) time.Time {
	return time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
}

func yearEnd(year int) time.Time {
	return time.Date(year, time.December, 31, 23, 59, 59, 0, time.UTC)
}

// TourStats is one per-difficulty aggregation row.
type TourStats struct {
	Difficulty string  `bson:"_id" json:"difficulty"`
	NumTours   int     `bson:"num_tours" json:"numTours"`
	NumRatings int     `bson:"num_ratings" json:"numRatings"`
	AvgRating  float64 `bson:"avg_rating" json:"avgRating"`
	AvgPrice   float64 `bson:"avg_price" json:"avgPrice"`
	MinPrice   float64 `bson:"min_price" json:"minPrice"`
	MaxPrice   float64 `bson:"max_price" json:"maxPrice"`
}

// Stats groups well-rated tours by difficulty and reports rating and
// price aggregates, sorted by average price ascending. Secret tours are
// excluded before any grouping.
func (s *Store) Stats(ctx context.Context) ([]TourStats, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"secret_tour": bson.M{"$ne": true}}}},
		{{Key: "$match", Value: bson.M{"ratings_average": bson.M{"$gte": 4.5}}}},
		{{Key: "$group", Value: bson.M{
			"_id":         bson.M{"$toLower": "$difficulty"},
			"num_tours":   bson.M{"$sum": 1},
			"num_ratings": bson.M{"$sum": "$ratings_quantity"},
			"avg_rating":  bson.M{"$avg": "$ratings_average"},
			"avg_price":   bson.M{"$avg": "$price"},
			"min_price":   bson.M{"$min": "$price"},
			"max_price":   bson.M{"$max": "$price"},
		}}},
		{{Key: "$sort", Value: bson.M{"avg_price": 1}}},
	}

	cur, err := s.c.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	stats := []TourStats{}
	if err := cur.All(ctx, &stats); err != nil {
		return nil, err
	}
	return stats, nil
}

// MonthlyPlanEntry is one month's worth of tour starts in a year.
type MonthlyPlanEntry struct {
	Month         int      `bson:"month" json:"month"`
	NumTourStarts int      `bson:"num_tour_starts" json:"numTourStarts"`
	Tours         []string `bson:"tours" json:"tours"`
}

// MonthlyPlan unwinds start dates within the given year and reports,
// per month, how many tours start and which ones, busiest month first.
func (s *Store) MonthlyPlan(ctx context.Context, year int) ([]MonthlyPlanEntry, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"secret_tour": bson.M{"$ne": true}}}},
		{{Key: "$unwind", Value: "$start_dates"}},
		{{Key: "$match", Value: bson.M{
			"start_dates": bson.M{
				"$gte": yearStart(year),
				"$lte": yearEnd(year),
			},
		}}},
		{{Key: "$group", Value: bson.M{
			"_id":             bson.M{"$month": "$start_dates"},
			"num_tour_starts": bson.M{"$sum": 1},
			"tours":           bson.M{"$push": "$name"},
		}}},
		{{Key: "$addFields", Value: bson.M{"month": "$_id"}}},
		{{Key: "$project", Value: bson.M{"_id": 0}}},
		{{Key: "$sort", Value: bson.M{"num_tour_starts": -1}}},
		{{Key: "$limit", Value: 12}},
	}

	cur, err := s.c.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	plan := []MonthlyPlanEntry{}
	if err := cur.All(ctx, &plan); err != nil {
		return nil, err
	}
	return plan, nil
}
