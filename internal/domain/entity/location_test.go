package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistanceMeters(t *testing.T) {
	berlin := Location{Latitude: 52.5200, Longitude: 13.4050}
	potsdam := Location{Latitude: 52.3906, Longitude: 13.0645}
	hamburg := Location{Latitude: 53.5511, Longitude: 9.9937}

	t.Run("ZeroForSamePoint", func(t *testing.T) {
		assert.Equal(t, 0.0, berlin.DistanceMeters(berlin))
	})

	t.Run("Symmetric", func(t *testing.T) {
		assert.InDelta(t, berlin.DistanceMeters(hamburg), hamburg.DistanceMeters(berlin), 0.001)
	})

	t.Run("KnownDistances", func(t *testing.T) {
		// Berlin-Potsdam is roughly 27 km, Berlin-Hamburg roughly 255 km.
		assert.InDelta(t, 27000, berlin.DistanceMeters(potsdam), 1500)
		assert.InDelta(t, 255000, berlin.DistanceMeters(hamburg), 3000)
	})

	t.Run("SmallOffsetStaysLocal", func(t *testing.T) {
		near := Location{Latitude: berlin.Latitude + 0.001, Longitude: berlin.Longitude}
		d := berlin.DistanceMeters(near)
		assert.Greater(t, d, 100.0)
		assert.Less(t, d, 130.0)
	})
}
