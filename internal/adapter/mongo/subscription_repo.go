package mongo

import (
	"context"
	"fmt"

	"github.com/subkultur/teilwas-bot/internal/domain/entity"
	"github.com/subkultur/teilwas-bot/internal/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const subscriptionCollectionName = "subscriptions"

type subscriptionRepository struct {
	collection *mongo.Collection
}

func NewSubscriptionRepository(db *mongo.Database) repository.SubscriptionRepository {
	return &subscriptionRepository{collection: db.Collection(subscriptionCollectionName)}
}

func (r *subscriptionRepository) Insert(ctx context.Context, sub *entity.Subscription) (string, error) {
	doc := toSubscriptionDocument(sub)

	res, err := r.collection.InsertOne(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("failed to insert subscription: %w", repository.ErrWriteFailed)
	}

	objectID, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("unexpected inserted ID type: %w", repository.ErrWriteFailed)
	}
	sub.ID = objectID.Hex()
	return sub.ID, nil
}

func (r *subscriptionRepository) Delete(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil
	}
	if _, err := r.collection.DeleteOne(ctx, bson.M{"_id": objID}); err != nil {
		return fmt.Errorf("failed to delete subscription %s: %w", id, repository.ErrWriteFailed)
	}
	return nil
}

func (r *subscriptionRepository) ListByOwner(ctx context.Context, ownerID int64) ([]*entity.Subscription, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"owner_id": ownerID}, findOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscriptions of owner %d: %w", ownerID, repository.ErrReadFailed)
	}
	return decodeSubscriptions(ctx, cursor)
}

// FindMatching narrows by category/direction in the store and applies the
// per-subscription radius containment in Go, since every subscription
// carries its own radius and a single spatial predicate cannot express that.
func (r *subscriptionRepository) FindMatching(ctx context.Context, q repository.SubscriptionQuery) ([]*entity.Subscription, error) {
	filter := bson.M{
		"owner_id":  bson.M{"$ne": q.RequesterID},
		"category":  bson.M{"$in": bson.A{string(q.Category), string(entity.CategoryAll)}},
		"direction": bson.M{"$in": bson.A{string(q.Direction), string(entity.DirectionAll)}},
	}

	findOptions := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to query matching subscriptions: %w", repository.ErrReadFailed)
	}
	candidates, err := decodeSubscriptions(ctx, cursor)
	if err != nil {
		return nil, err
	}

	var matched []*entity.Subscription
	for _, sub := range candidates {
		if sub.Location == nil || sub.Location.DistanceMeters(q.Location) <= sub.RadiusMeters {
			matched = append(matched, sub)
		}
	}
	return matched, nil
}

func decodeSubscriptions(ctx context.Context, cursor *mongo.Cursor) ([]*entity.Subscription, error) {
	defer cursor.Close(ctx)

	var subs []*entity.Subscription
	for cursor.Next(ctx) {
		var doc subscriptionDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode subscription document: %w", repository.ErrReadFailed)
		}
		subs = append(subs, toDomainSubscription(&doc))
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("subscription cursor failed: %w", repository.ErrReadFailed)
	}
	return subs, nil
}
