package repository

import (
	"context"
	"time"

	"github.com/subkultur/teilwas-bot/internal/domain/entity"
)

// ListingQuery selects listings visible to a searching user. Category and
// Direction equal to the "all" sentinels drop the respective predicate.
// A nil Location drops the radius predicate entirely; when set, RadiusMeters
// bounds the great-circle distance from Location.
type ListingQuery struct {
	RequesterID  int64
	Category     entity.Category
	Direction    entity.Direction
	Location     *entity.Location
	RadiusMeters float64
	Now          time.Time
}

// SubscriptionQuery selects subscriptions matched by a newly created
// listing. Category/Direction carry the listing's concrete values; the
// adapter widens each to include subscriptions storing "all".
type SubscriptionQuery struct {
	RequesterID int64
	Category    entity.Category
	Direction   entity.Direction
	Location    entity.Location
}

type ListingRepository interface {
	Insert(ctx context.Context, listing *entity.Listing) (string, error)
	// Delete removes a listing by id; deleting an unknown id is a no-op.
	Delete(ctx context.Context, id string) error
	// ListByOwner returns the user's own listings in insertion order,
	// including expired ones.
	ListByOwner(ctx context.Context, ownerID int64) ([]*entity.Listing, error)
	// FindMatching returns non-expired listings from other users satisfying
	// the query, in insertion order.
	FindMatching(ctx context.Context, q ListingQuery) ([]*entity.Listing, error)
}

type SubscriptionRepository interface {
	Insert(ctx context.Context, sub *entity.Subscription) (string, error)
	Delete(ctx context.Context, id string) error
	ListByOwner(ctx context.Context, ownerID int64) ([]*entity.Subscription, error)
	// FindMatching returns other users' subscriptions whose criteria match
	// the given listing attributes, radius containment included.
	FindMatching(ctx context.Context, q SubscriptionQuery) ([]*entity.Subscription, error)
}

type SessionRepository interface {
	// Get returns the user's active session, or ErrNotFound when idle.
	Get(ctx context.Context, userID int64) (*entity.Session, error)
	Save(ctx context.Context, session *entity.Session) error
	Delete(ctx context.Context, userID int64) error
}
