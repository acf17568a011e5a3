package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubscriptionMatches(t *testing.T) {
	center := Location{Latitude: 52.5200, Longitude: 13.4050}
	// Roughly 8 km north of center.
	nearby := Location{Latitude: 52.5920, Longitude: 13.4050}
	// Roughly 255 km away.
	farAway := Location{Latitude: 53.5511, Longitude: 9.9937}

	listing := &Listing{
		Category:  CategoryFood,
		Direction: DirectionOffer,
		Location:  nearby,
	}

	t.Run("ExactCriteria", func(t *testing.T) {
		sub := &Subscription{Category: CategoryFood, Direction: DirectionOffer}
		assert.True(t, sub.Matches(listing))
	})

	t.Run("AllWildcards", func(t *testing.T) {
		sub := &Subscription{Category: CategoryAll, Direction: DirectionAll}
		assert.True(t, sub.Matches(listing))
	})

	t.Run("CategoryMismatch", func(t *testing.T) {
		sub := &Subscription{Category: CategorySkill, Direction: DirectionAll}
		assert.False(t, sub.Matches(listing))
	})

	t.Run("DirectionMismatch", func(t *testing.T) {
		sub := &Subscription{Category: CategoryAll, Direction: DirectionSearch}
		assert.False(t, sub.Matches(listing))
	})

	t.Run("WithinRadius", func(t *testing.T) {
		sub := &Subscription{
			Category:     CategoryAll,
			Direction:    DirectionAll,
			Location:     &center,
			RadiusMeters: 10000,
		}
		assert.True(t, sub.Matches(listing))
	})

	t.Run("OutsideRadius", func(t *testing.T) {
		sub := &Subscription{
			Category:     CategoryAll,
			Direction:    DirectionAll,
			Location:     &center,
			RadiusMeters: 5000,
		}
		assert.False(t, sub.Matches(listing))
	})

	t.Run("NilLocationMeansAnywhere", func(t *testing.T) {
		sub := &Subscription{Category: CategoryAll, Direction: DirectionAll}
		distant := &Listing{Category: CategoryFood, Direction: DirectionOffer, Location: farAway}
		assert.True(t, sub.Matches(distant))
	})
}

func TestSessionDistanceMeters(t *testing.T) {
	t.Run("Unset", func(t *testing.T) {
		s := NewSession(1, 1, "en", FlowSearch, "distance")
		_, bounded, err := s.DistanceMeters()
		assert.NoError(t, err)
		assert.False(t, bounded)
	})

	t.Run("Kilometers", func(t *testing.T) {
		s := NewSession(1, 1, "en", FlowSearch, "distance")
		s.Set(FieldDistanceKM, "5")
		meters, bounded, err := s.DistanceMeters()
		assert.NoError(t, err)
		assert.True(t, bounded)
		assert.Equal(t, 5000.0, meters)
	})

	t.Run("EverywhereWins", func(t *testing.T) {
		s := NewSession(1, 1, "en", FlowSearch, "distance")
		s.Set(FieldDistanceKM, "5")
		s.Set(FieldEverywhere, "1")
		_, bounded, err := s.DistanceMeters()
		assert.NoError(t, err)
		assert.False(t, bounded)
	})

	t.Run("CorruptRadiusIsAnErrorNotEverywhere", func(t *testing.T) {
		s := NewSession(1, 1, "en", FlowSearch, "distance")
		s.Set(FieldDistanceKM, "ten")
		_, bounded, err := s.DistanceMeters()
		assert.Error(t, err)
		assert.False(t, bounded)
	})
}

func TestSessionLocationRoundTrip(t *testing.T) {
	s := NewSession(1, 1, "en", FlowAdd, "location")
	assert.Nil(t, s.GetLocation())

	loc := Location{Latitude: 48.1351, Longitude: 11.5820}
	s.SetLocation(loc)

	got := s.GetLocation()
	assert.NotNil(t, got)
	assert.Equal(t, loc, *got)
}
