package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestListingExpired(t *testing.T) {
	now := time.Date(2026, 8, 29, 14, 30, 0, 0, time.UTC)

	tests := []struct {
		name      string
		expiresAt time.Time
		expired   bool
	}{
		{"Tomorrow", time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC), false},
		{"Today", time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC), true},
		{"Yesterday", time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC), true},
		{"Never", NeverExpires, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := &Listing{ExpiresAt: tt.expiresAt}
			assert.Equal(t, tt.expired, l.Expired(now))
		})
	}
}

func TestValidListingCategory(t *testing.T) {
	assert.True(t, ValidListingCategory(CategoryFood))
	assert.True(t, ValidListingCategory(CategorySkill))
	assert.False(t, ValidListingCategory(CategoryAll))
	assert.False(t, ValidListingCategory(Category("bogus")))
}

func TestValidListingDirection(t *testing.T) {
	assert.True(t, ValidListingDirection(DirectionOffer))
	assert.True(t, ValidListingDirection(DirectionSearch))
	assert.False(t, ValidListingDirection(DirectionAll))
}
