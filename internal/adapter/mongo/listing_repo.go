package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/subkultur/teilwas-bot/internal/domain/entity"
	"github.com/subkultur/teilwas-bot/internal/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const listingCollectionName = "listings"

const earthRadiusMeters = 6371000.0

type listingRepository struct {
	collection *mongo.Collection
}

func NewListingRepository(db *mongo.Database) repository.ListingRepository {
	return &listingRepository{collection: db.Collection(listingCollectionName)}
}

func (r *listingRepository) Insert(ctx context.Context, listing *entity.Listing) (string, error) {
	// The GeoJSON geometry travels inside the same document, so the row and
	// its spatial representation commit as one atomic write.
	doc := toListingDocument(listing)

	res, err := r.collection.InsertOne(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("failed to insert listing: %w", repository.ErrWriteFailed)
	}

	objectID, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("unexpected inserted ID type: %w", repository.ErrWriteFailed)
	}
	listing.ID = objectID.Hex()
	return listing.ID, nil
}

func (r *listingRepository) Delete(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		// Malformed ids cannot reference a stored row; deleting them is the
		// same no-op as deleting an unknown id.
		return nil
	}
	if _, err := r.collection.DeleteOne(ctx, bson.M{"_id": objID}); err != nil {
		return fmt.Errorf("failed to delete listing %s: %w", id, repository.ErrWriteFailed)
	}
	return nil
}

func (r *listingRepository) ListByOwner(ctx context.Context, ownerID int64) ([]*entity.Listing, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"owner_id": ownerID}, findOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to list listings of owner %d: %w", ownerID, repository.ErrReadFailed)
	}
	return decodeListings(ctx, cursor)
}

func (r *listingRepository) FindMatching(ctx context.Context, q repository.ListingQuery) ([]*entity.Listing, error) {
	now := q.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}

	filter := bson.M{
		"owner_id":   bson.M{"$ne": q.RequesterID},
		"expires_at": bson.M{"$gt": now.Truncate(24 * time.Hour)},
		// A row whose geometry never materialized must be invisible to
		// matching, not a query fault.
		"geometry.type": "Point",
	}
	if q.Category != entity.CategoryAll {
		filter["category"] = string(q.Category)
	}
	if q.Direction != entity.DirectionAll {
		filter["direction"] = string(q.Direction)
	}
	if q.Location != nil {
		filter["geometry"] = bson.M{
			"$geoWithin": bson.M{
				"$centerSphere": bson.A{
					bson.A{q.Location.Longitude, q.Location.Latitude},
					q.RadiusMeters / earthRadiusMeters,
				},
			},
		}
	}

	findOptions := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to query matching listings: %w", repository.ErrReadFailed)
	}
	return decodeListings(ctx, cursor)
}

func decodeListings(ctx context.Context, cursor *mongo.Cursor) ([]*entity.Listing, error) {
	defer cursor.Close(ctx)

	var listings []*entity.Listing
	for cursor.Next(ctx) {
		var doc listingDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode listing document: %w", repository.ErrReadFailed)
		}
		listings = append(listings, toDomainListing(&doc))
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("listing cursor failed: %w", repository.ErrReadFailed)
	}
	return listings, nil
}
