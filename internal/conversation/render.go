package conversation

import (
	"context"
	"fmt"

	"github.com/subkultur/teilwas-bot/internal/domain/entity"
	"github.com/subkultur/teilwas-bot/internal/i18n"
	"github.com/subkultur/teilwas-bot/internal/transport"
)

func (m *Machine) categoryKeyboard(locale string, includeAll bool) *transport.Keyboard {
	t := func(key string) string { return m.translator.Translate(key, locale) }
	rows := [][]string{
		{t(i18n.KeyButtonFood), t(i18n.KeyButtonThing)},
		{t(i18n.KeyButtonClothes), t(i18n.KeyButtonSkill)},
	}
	if includeAll {
		rows = append(rows, []string{t(i18n.KeyButtonAll)})
	}
	return transport.ReplyKeyboard(rows...)
}

func (m *Machine) directionKeyboard(locale string, includeAll bool) *transport.Keyboard {
	t := func(key string) string { return m.translator.Translate(key, locale) }
	rows := [][]string{{t(i18n.KeyButtonOffer), t(i18n.KeyButtonSearch)}}
	if includeAll {
		rows = append(rows, []string{t(i18n.KeyButtonAll)})
	}
	return transport.ReplyKeyboard(rows...)
}

func (m *Machine) distanceKeyboard(locale string) *transport.Keyboard {
	return transport.ReplyKeyboard(
		[]string{m.translator.Translate(i18n.KeyButtonEverywhere, locale)},
		[]string{"5", "10", "50", "100"},
	)
}

// showSelection sends the numbered entries followed by one map image with
// a marker per entry, numbered in the same order.
func (m *Machine) showSelection(ctx context.Context, chatID int64, locale string, items []entity.SelectionItem) {
	points := make([]entity.Location, 0, len(items))
	for i, item := range items {
		points = append(points, item.Location)
		m.reply(ctx, chatID, locale, i18n.KeyResultEntry, []interface{}{
			i + 1,
			string(item.Category),
			string(item.Direction),
			i18n.FormatExpiry(item.ExpiresAt, locale, m.translator),
			item.Description,
		}, nil)
	}
	m.sendMap(ctx, chatID, locale, points)
}

// showSubscriptionSelection renders subscriptions; entries without a
// location read as "anywhere" and contribute no map marker.
func (m *Machine) showSubscriptionSelection(ctx context.Context, chatID int64, locale string, subs []*entity.Subscription) {
	var points []entity.Location
	for i, sub := range subs {
		where := m.translator.Translate(i18n.KeyAnywhere, locale)
		if sub.Location != nil {
			where = fmt.Sprintf("%.0f km", sub.RadiusMeters/1000)
			points = append(points, *sub.Location)
		}
		m.reply(ctx, chatID, locale, i18n.KeySubsEntry, []interface{}{
			i + 1,
			string(sub.Category),
			string(sub.Direction),
			where,
		}, nil)
	}
	m.sendMap(ctx, chatID, locale, points)
}

func (m *Machine) sendMap(ctx context.Context, chatID int64, locale string, points []entity.Location) {
	if len(points) == 0 {
		return
	}
	image, err := m.renderer.RenderMap(ctx, points)
	if err != nil {
		m.log.Errorf("Machine.sendMap: map rendering failed for chat %d: %v", chatID, err)
		return
	}
	caption := m.translator.Translate(i18n.KeyResultMapCaption, locale)
	if err := m.sender.SendPhoto(ctx, chatID, image, caption); err != nil {
		m.log.Errorf("Machine.sendMap: photo delivery to chat %d failed: %v", chatID, err)
	}
}

func (m *Machine) showOwnListings(ctx context.Context, u transport.Update) {
	listings, err := m.listings.ListOwn(ctx, u.UserID)
	if err != nil {
		m.reply(ctx, u.ChatID, u.Locale, i18n.KeyStoreFailure, nil, transport.RemoveKeyboard())
		return
	}
	if len(listings) == 0 {
		m.reply(ctx, u.ChatID, u.Locale, i18n.KeyListNone, nil, transport.RemoveKeyboard())
		return
	}
	m.showSelection(ctx, u.ChatID, u.Locale, snapshotListings(listings))
}

func (m *Machine) showOwnSubscriptions(ctx context.Context, u transport.Update) {
	subs, err := m.subscriptions.ListOwn(ctx, u.UserID)
	if err != nil {
		m.reply(ctx, u.ChatID, u.Locale, i18n.KeyStoreFailure, nil, transport.RemoveKeyboard())
		return
	}
	if len(subs) == 0 {
		m.reply(ctx, u.ChatID, u.Locale, i18n.KeySubsNone, nil, transport.RemoveKeyboard())
		return
	}
	m.showSubscriptionSelection(ctx, u.ChatID, u.Locale, subs)
}
