package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const geometryIndexName = "geometry_2dsphere"

// EnsureIndexes initializes the spatial schema for both collections. The
// presence of the 2dsphere index is the schema marker: when it already
// exists the call is a no-op, so running this on every start is safe.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	for _, name := range []string{listingCollectionName, subscriptionCollectionName} {
		coll := db.Collection(name)

		exists, err := hasIndex(ctx, coll, geometryIndexName)
		if err != nil {
			return fmt.Errorf("failed to inspect indexes of %s: %w", name, err)
		}
		if exists {
			continue
		}

		models := []mongo.IndexModel{
			{
				Keys:    bson.D{{Key: "geometry", Value: "2dsphere"}},
				Options: options.Index().SetName(geometryIndexName).SetSparse(true),
			},
			{
				Keys: bson.D{{Key: "owner_id", Value: 1}},
			},
		}
		if _, err := coll.Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("failed to create indexes on %s: %w", name, err)
		}
	}
	return nil
}

func hasIndex(ctx context.Context, coll *mongo.Collection, name string) (bool, error) {
	cursor, err := coll.Indexes().List(ctx)
	if err != nil {
		return false, err
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var idx struct {
			Name string `bson:"name"`
		}
		if err := cursor.Decode(&idx); err != nil {
			return false, err
		}
		if idx.Name == name {
			return true, nil
		}
	}
	return false, cursor.Err()
}
