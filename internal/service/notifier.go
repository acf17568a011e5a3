package service

import (
	"context"
	"encoding/json"

	natsadapter "github.com/subkultur/teilwas-bot/internal/adapter/nats"
	"github.com/subkultur/teilwas-bot/internal/domain/entity"
	"github.com/subkultur/teilwas-bot/internal/i18n"
	"github.com/subkultur/teilwas-bot/internal/platform/logger"
	"github.com/subkultur/teilwas-bot/internal/render"
	"github.com/subkultur/teilwas-bot/internal/repository"
	"github.com/subkultur/teilwas-bot/internal/transport"
)

// Notifier is the fan-out engine: for every listing.created event it finds
// the matching subscriptions, collapses them to one notification per
// subscriber, and delivers a localized text plus a map of the new listing's
// location. Delivery is best effort per recipient.
type Notifier struct {
	subs       repository.SubscriptionRepository
	sender     transport.Sender
	renderer   render.MapRenderer
	translator i18n.Translator
	log        logger.Logger
}

func NewNotifier(
	subs repository.SubscriptionRepository,
	sender transport.Sender,
	renderer render.MapRenderer,
	translator i18n.Translator,
	log logger.Logger,
) *Notifier {
	return &Notifier{
		subs:       subs,
		sender:     sender,
		renderer:   renderer,
		translator: translator,
		log:        log,
	}
}

// Start consumes listing.created events until the subscription is torn down.
func (n *Notifier) Start(subscriber natsadapter.MessageSubscriber) (natsadapter.Unsubscriber, error) {
	return subscriber.Subscribe(SubjectListingCreated, func(data []byte) {
		var event ListingCreatedEvent
		if err := json.Unmarshal(data, &event); err != nil {
			n.log.Errorf("Notifier: failed to decode %s event: %v", SubjectListingCreated, err)
			return
		}
		n.FanOut(context.Background(), event)
	})
}

// FanOut notifies every matching subscriber exactly once. A failure for one
// recipient is logged and does not affect the others.
func (n *Notifier) FanOut(ctx context.Context, event ListingCreatedEvent) {
	matched, err := n.subs.FindMatching(ctx, repository.SubscriptionQuery{
		RequesterID: event.OwnerID,
		Category:    event.Category,
		Direction:   event.Direction,
		Location:    event.Location,
	})
	if err != nil {
		n.log.Errorf("Notifier.FanOut: matching query failed for listing %s: %v", event.ListingID, err)
		return
	}
	if len(matched) == 0 {
		return
	}

	// A user holding several matching subscriptions still gets one message.
	recipients := make(map[int64]string, len(matched))
	order := make([]int64, 0, len(matched))
	for _, sub := range matched {
		if _, seen := recipients[sub.OwnerID]; seen {
			continue
		}
		recipients[sub.OwnerID] = sub.OwnerLocale
		order = append(order, sub.OwnerID)
	}

	image, err := n.renderer.RenderMap(ctx, []entity.Location{event.Location})
	if err != nil {
		n.log.Errorf("Notifier.FanOut: map rendering failed for listing %s: %v", event.ListingID, err)
		image = nil
	}

	n.log.Infof("Notifier.FanOut: listing %s matches %d subscriber(s)", event.ListingID, len(order))

	for _, userID := range order {
		locale := recipients[userID]
		text := n.translator.Translate(i18n.KeyNotifyMatch, locale,
			string(event.Category),
			string(event.Direction),
			i18n.FormatExpiry(event.ExpiresAt, locale, n.translator),
			event.Description,
		)
		if err := n.sender.SendText(ctx, userID, text, transport.RemoveKeyboard()); err != nil {
			n.log.Errorf("Notifier.FanOut: text delivery to user %d failed: %v", userID, err)
			continue
		}
		if image == nil {
			continue
		}
		caption := n.translator.Translate(i18n.KeyNotifyMapCaption, locale)
		if err := n.sender.SendPhoto(ctx, userID, image, caption); err != nil {
			n.log.Errorf("Notifier.FanOut: map delivery to user %d failed: %v", userID, err)
		}
	}
}
