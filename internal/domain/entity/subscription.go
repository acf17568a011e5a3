package entity

import "time"

// Subscription is a standing request to be notified of future matching
// listings. Category and direction may be "all"; a nil Location means
// "anywhere" and implies no radius.
type Subscription struct {
	ID           string
	OwnerID      int64
	OwnerLocale  string
	Category     Category
	Direction    Direction
	Location     *Location
	RadiusMeters float64
	CreatedAt    time.Time
}

// Matches reports whether a listing satisfies this subscription's criteria.
// The subscription owner's own listings are the caller's concern; this only
// evaluates category, direction and radius containment.
func (s *Subscription) Matches(l *Listing) bool {
	if s.Category != CategoryAll && s.Category != l.Category {
		return false
	}
	if s.Direction != DirectionAll && s.Direction != l.Direction {
		return false
	}
	if s.Location == nil {
		return true
	}
	return s.Location.DistanceMeters(l.Location) <= s.RadiusMeters
}

// ValidSubscriptionCategory reports whether c may be stored on a
// subscription; unlike listings, "all" is allowed.
func ValidSubscriptionCategory(c Category) bool {
	return c == CategoryAll || ValidListingCategory(c)
}

// ValidSubscriptionDirection reports whether d may be stored on a
// subscription.
func ValidSubscriptionDirection(d Direction) bool {
	return d == DirectionAll || ValidListingDirection(d)
}
