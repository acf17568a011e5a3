package entity

import "time"

type Category string

const (
	CategoryFood    Category = "food"
	CategoryThing   Category = "thing"
	CategoryClothes Category = "clothes"
	CategorySkill   Category = "skill"
	CategoryAll     Category = "all"
)

type Direction string

const (
	DirectionOffer  Direction = "offer"
	DirectionSearch Direction = "search"
	DirectionAll    Direction = "all"
)

// NeverExpires is the far-future sentinel stored for listings without an
// expiry date. Rendered to users as "never".
var NeverExpires = time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC)

// Listing is a posted offer or want-ad. Once committed it is owned by the
// store; the only mutation allowed afterwards is deletion by its creator.
type Listing struct {
	ID          string
	OwnerID     int64
	OwnerLocale string
	Category    Category
	Direction   Direction
	Location    Location
	Description string
	CreatedAt   time.Time
	ExpiresAt   time.Time
}

// Expired reports whether the listing is no longer visible to searches.
// Expiry has day resolution; a listing expiring today is already expired.
func (l *Listing) Expired(now time.Time) bool {
	return !l.ExpiresAt.After(now.UTC().Truncate(24 * time.Hour))
}

// ValidListingCategory reports whether c is one of the four concrete
// categories a listing may carry ("all" is reserved for queries).
func ValidListingCategory(c Category) bool {
	switch c {
	case CategoryFood, CategoryThing, CategoryClothes, CategorySkill:
		return true
	}
	return false
}

// ValidListingDirection reports whether d may be stored on a listing.
func ValidListingDirection(d Direction) bool {
	return d == DirectionOffer || d == DirectionSearch
}
