package mongo

import (
	"time"

	"github.com/subkultur/teilwas-bot/internal/domain/entity"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// geoPoint is a GeoJSON Point as MongoDB's 2dsphere index expects it:
// coordinates are [longitude, latitude].
type geoPoint struct {
	Type        string     `bson:"type"`
	Coordinates [2]float64 `bson:"coordinates"`
}

func newGeoPoint(loc entity.Location) geoPoint {
	return geoPoint{
		Type:        "Point",
		Coordinates: [2]float64{loc.Longitude, loc.Latitude},
	}
}

func (p geoPoint) toLocation() entity.Location {
	return entity.Location{Latitude: p.Coordinates[1], Longitude: p.Coordinates[0]}
}

type listingDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	OwnerID     int64              `bson:"owner_id"`
	OwnerLocale string             `bson:"owner_locale"`
	Category    string             `bson:"category"`
	Direction   string             `bson:"direction"`
	Description string             `bson:"description"`
	Geometry    geoPoint           `bson:"geometry"`
	CreatedAt   time.Time          `bson:"created_at"`
	ExpiresAt   time.Time          `bson:"expires_at"`
}

func toListingDocument(l *entity.Listing) *listingDocument {
	return &listingDocument{
		OwnerID:     l.OwnerID,
		OwnerLocale: l.OwnerLocale,
		Category:    string(l.Category),
		Direction:   string(l.Direction),
		Description: l.Description,
		Geometry:    newGeoPoint(l.Location),
		CreatedAt:   l.CreatedAt,
		ExpiresAt:   l.ExpiresAt,
	}
}

func toDomainListing(d *listingDocument) *entity.Listing {
	return &entity.Listing{
		ID:          d.ID.Hex(),
		OwnerID:     d.OwnerID,
		OwnerLocale: d.OwnerLocale,
		Category:    entity.Category(d.Category),
		Direction:   entity.Direction(d.Direction),
		Location:    d.Geometry.toLocation(),
		Description: d.Description,
		CreatedAt:   d.CreatedAt,
		ExpiresAt:   d.ExpiresAt,
	}
}

type subscriptionDocument struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	OwnerID      int64              `bson:"owner_id"`
	OwnerLocale  string             `bson:"owner_locale"`
	Category     string             `bson:"category"`
	Direction    string             `bson:"direction"`
	Geometry     *geoPoint          `bson:"geometry,omitempty"`
	RadiusMeters float64            `bson:"radius_meters,omitempty"`
	CreatedAt    time.Time          `bson:"created_at"`
}

func toSubscriptionDocument(s *entity.Subscription) *subscriptionDocument {
	doc := &subscriptionDocument{
		OwnerID:      s.OwnerID,
		OwnerLocale:  s.OwnerLocale,
		Category:     string(s.Category),
		Direction:    string(s.Direction),
		RadiusMeters: s.RadiusMeters,
		CreatedAt:    s.CreatedAt,
	}
	if s.Location != nil {
		gp := newGeoPoint(*s.Location)
		doc.Geometry = &gp
	}
	return doc
}

func toDomainSubscription(d *subscriptionDocument) *entity.Subscription {
	sub := &entity.Subscription{
		ID:           d.ID.Hex(),
		OwnerID:      d.OwnerID,
		OwnerLocale:  d.OwnerLocale,
		Category:     entity.Category(d.Category),
		Direction:    entity.Direction(d.Direction),
		RadiusMeters: d.RadiusMeters,
		CreatedAt:    d.CreatedAt,
	}
	if d.Geometry != nil {
		loc := d.Geometry.toLocation()
		sub.Location = &loc
	}
	return sub
}
