package service

import (
	"time"

	"github.com/subkultur/teilwas-bot/internal/domain/entity"
)

// SubjectListingCreated carries one event per committed listing. The
// notifier consumes it after the store commit; delivery is at-most-once by
// design, a crash between commit and fan-out loses the notifications but
// never the listing.
const SubjectListingCreated = "teilwas.listing.created"

type ListingCreatedEvent struct {
	EventID     string           `json:"event_id"`
	ListingID   string           `json:"listing_id"`
	OwnerID     int64            `json:"owner_id"`
	OwnerLocale string           `json:"owner_locale"`
	Category    entity.Category  `json:"category"`
	Direction   entity.Direction `json:"direction"`
	Location    entity.Location  `json:"location"`
	Description string           `json:"description"`
	ExpiresAt   time.Time        `json:"expires_at"`
	CreatedAt   time.Time        `json:"created_at"`
}
