// internal/app/system/indexes/indexes.go

// Package indexes creates the MongoDB indexes the stores rely on.
package indexes

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// EnsureAll creates every index the application needs. Index creation
// is idempotent, so this runs on every startup. Failures are collected
// so one bad index does not mask the rest.
func EnsureAll(ctx context.Context, db *mongo.Database, logger *zap.Logger) error {
	var errs []error

	if err := ensureUserIndexes(ctx, db); err != nil {
		errs = append(errs, fmt.Errorf("users: %w", err))
	}
	if err := ensureTourIndexes(ctx, db); err != nil {
		errs = append(errs, fmt.Errorf("tours: %w", err))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	logger.Info("indexes ensured")
	return nil
}

func ensureUserIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("users").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "password_reset_token", Value: 1}},
			Options: options.Index().SetPartialFilterExpression(bson.M{
				"password_reset_token": bson.M{"$exists": true},
			}),
		},
	})
	return err
}

func ensureTourIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("tours").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "slug", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "price", Value: 1}, {Key: "ratings_average", Value: -1}},
		},
	})
	return err
}
