package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collections names the three collections used by the service.
type Collections struct {
	Businesses string
	Questions  string
	Reviews    string
}

// EnsureIndexes creates the indexes the repositories rely on. It is idempotent.
func EnsureIndexes(ctx context.Context, db *mongo.Database, names Collections) error {
	specs := map[string][]mongo.IndexModel{
		names.Businesses: {
			{Keys: bson.D{{Key: "ownerEmail", Value: 1}}, Options: options.Index().SetUnique(true).SetName("ownerEmail_unique")},
		},
		names.Questions: {
			{Keys: bson.D{{Key: "businessId", Value: 1}, {Key: "order", Value: 1}}, Options: options.Index().SetName("business_order")},
		},
		names.Reviews: {
			{Keys: bson.D{{Key: "businessId", Value: 1}, {Key: "createdAt", Value: -1}}, Options: options.Index().SetName("business_createdAt")},
			{Keys: bson.D{{Key: "processed", Value: 1}, {Key: "createdAt", Value: 1}}, Options: options.Index().SetName("processed_createdAt")},
		},
	}
	for collection, models := range specs {
		if _, err := db.Collection(collection).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create indexes on %s: %w", collection, err)
		}
	}
	return nil
}
