package mongo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/subkultur/teilwas-bot/internal/domain/entity"
)

func TestGeoPointCoordinateOrder(t *testing.T) {
	loc := entity.Location{Latitude: 52.52, Longitude: 13.405}
	p := newGeoPoint(loc)

	// GeoJSON stores [longitude, latitude], the reverse of the domain type.
	assert.Equal(t, "Point", p.Type)
	assert.Equal(t, [2]float64{13.405, 52.52}, p.Coordinates)
	assert.Equal(t, loc, p.toLocation())
}

func TestListingDocumentConversion(t *testing.T) {
	listing := &entity.Listing{
		OwnerID:     7,
		OwnerLocale: "de",
		Category:    entity.CategoryClothes,
		Direction:   entity.DirectionSearch,
		Location:    entity.Location{Latitude: 48.1351, Longitude: 11.582},
		Description: "warm jacket",
		CreatedAt:   time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		ExpiresAt:   entity.NeverExpires,
	}

	got := toDomainListing(toListingDocument(listing))
	listing.ID = got.ID // assigned by the store, not the converter
	assert.Equal(t, listing, got)
}

func TestSubscriptionDocumentConversion(t *testing.T) {
	t.Run("WithRadius", func(t *testing.T) {
		loc := entity.Location{Latitude: 52.52, Longitude: 13.405}
		sub := &entity.Subscription{
			OwnerID:      7,
			OwnerLocale:  "en",
			Category:     entity.CategoryAll,
			Direction:    entity.DirectionOffer,
			Location:     &loc,
			RadiusMeters: 5000,
			CreatedAt:    time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
		}

		doc := toSubscriptionDocument(sub)
		require.NotNil(t, doc.Geometry)

		got := toDomainSubscription(doc)
		sub.ID = got.ID
		assert.Equal(t, sub, got)
	})

	t.Run("Anywhere", func(t *testing.T) {
		sub := &entity.Subscription{
			OwnerID:   7,
			Category:  entity.CategoryFood,
			Direction: entity.DirectionAll,
		}

		doc := toSubscriptionDocument(sub)
		assert.Nil(t, doc.Geometry, "anywhere subscriptions store no geometry")

		got := toDomainSubscription(doc)
		assert.Nil(t, got.Location)
		assert.Zero(t, got.RadiusMeters)
	})
}
