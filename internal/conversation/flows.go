package conversation

import (
	"context"
	"fmt"
	"time"

	"github.com/subkultur/teilwas-bot/internal/domain/entity"
	"github.com/subkultur/teilwas-bot/internal/i18n"
	"github.com/subkultur/teilwas-bot/internal/repository"
	"github.com/subkultur/teilwas-bot/internal/transport"
)

// Step names shared across flows.
const (
	stepCategory    = "category"
	stepDirection   = "direction"
	stepDistance    = "distance"
	stepLocation    = "location"
	stepDescription = "description"
	stepExpiresAt   = "expires_at"
	stepSelection   = "selection"
)

const fieldPick = "pick"

// expiry round-trips through the session field map in this layout.
const expiryFieldLayout = "2006-01-02"

type Prompt struct {
	Key      string
	Args     []interface{}
	Keyboard *transport.Keyboard
}

// Step is one wizard state as data: what to ask, how to judge the answer,
// and where to go next. Validate mutates the session only on success; Next
// returning "" marks the terminal step, after which the flow commits. Enter,
// when set, runs once as the step becomes active (result-set capture lives
// here); returning proceed=false ends the flow without a commit.
type Step struct {
	Prompt   func(m *Machine, s *entity.Session) Prompt
	Validate func(m *Machine, s *entity.Session, u transport.Update) error
	Next     func(s *entity.Session) string
	Enter    func(ctx context.Context, m *Machine, s *entity.Session) (proceed bool, err error)
}

type Flow struct {
	First string
	Steps map[string]*Step
	// Commit runs the flow's terminal action against the store and/or the
	// fan-out, then the machine returns the user to idle.
	Commit func(ctx context.Context, m *Machine, s *entity.Session) error
	// FinalizeOnError discards the session even when Commit fails, so a
	// failing delete or subscribe cannot leave the user stuck mid-flow.
	FinalizeOnError bool
}

func newFlows() map[string]*Flow {
	return map[string]*Flow{
		entity.FlowAdd:                addFlow(),
		entity.FlowSearch:             searchFlow(),
		entity.FlowSubscribe:          subscribeFlow(),
		entity.FlowDelete:             deleteFlow(),
		entity.FlowDeleteSubscription: deleteSubscriptionFlow(),
	}
}

func addFlow() *Flow {
	return &Flow{
		First: stepCategory,
		Steps: map[string]*Step{
			stepCategory: {
				Prompt: func(m *Machine, s *entity.Session) Prompt {
					return Prompt{Key: i18n.KeyAddPromptType, Keyboard: m.categoryKeyboard(s.Locale, false)}
				},
				Validate: func(m *Machine, s *entity.Session, u transport.Update) error {
					cat, err := parseCategory(u.Text, s.Locale, m.translator, false)
					if err != nil {
						return err
					}
					s.Set(entity.FieldCategory, string(cat))
					return nil
				},
				Next: func(*entity.Session) string { return stepDirection },
			},
			stepDirection: {
				Prompt: func(m *Machine, s *entity.Session) Prompt {
					return Prompt{Key: i18n.KeyAddPromptKind, Keyboard: m.directionKeyboard(s.Locale, false)}
				},
				Validate: func(m *Machine, s *entity.Session, u transport.Update) error {
					dir, err := parseDirection(u.Text, s.Locale, m.translator, false)
					if err != nil {
						return err
					}
					s.Set(entity.FieldDirection, string(dir))
					return nil
				},
				Next: func(*entity.Session) string { return stepLocation },
			},
			stepLocation: {
				Prompt: func(m *Machine, s *entity.Session) Prompt {
					return Prompt{
						Key:      i18n.KeyAddPromptWhere,
						Args:     []interface{}{s.Get(entity.FieldCategory)},
						Keyboard: transport.RemoveKeyboard(),
					}
				},
				Validate: validateLocation,
				Next:     func(*entity.Session) string { return stepDescription },
			},
			stepDescription: {
				Prompt: func(m *Machine, s *entity.Session) Prompt {
					return Prompt{Key: i18n.KeyAddPromptDesc, Args: []interface{}{s.Get(entity.FieldCategory)}}
				},
				Validate: func(m *Machine, s *entity.Session, u transport.Update) error {
					clean, err := sanitizeDescription(u.Text)
					if err != nil {
						return err
					}
					s.Set(entity.FieldDescription, clean)
					return nil
				},
				Next: func(*entity.Session) string { return stepExpiresAt },
			},
			stepExpiresAt: {
				Prompt: func(m *Machine, s *entity.Session) Prompt {
					return Prompt{
						Key:      i18n.KeyAddPromptExpires,
						Keyboard: transport.ReplyKeyboard([]string{m.translator.Translate(i18n.KeyButtonNever, s.Locale)}),
					}
				},
				Validate: func(m *Machine, s *entity.Session, u transport.Update) error {
					expires, err := parseExpiry(u.Text, s.Locale, m.translator, time.Now())
					if err != nil {
						return err
					}
					s.Set(entity.FieldExpiresAt, expires.Format(expiryFieldLayout))
					return nil
				},
				Next: func(*entity.Session) string { return "" },
			},
		},
		Commit: commitAdd,
	}
}

func commitAdd(ctx context.Context, m *Machine, s *entity.Session) error {
	expires, err := time.ParseInLocation(expiryFieldLayout, s.Get(entity.FieldExpiresAt), time.UTC)
	if err != nil {
		return fmt.Errorf("corrupt expiry field in session of user %d: %w", s.UserID, err)
	}
	loc := s.GetLocation()
	if loc == nil {
		return fmt.Errorf("missing location in session of user %d", s.UserID)
	}

	listing := &entity.Listing{
		OwnerID:     s.UserID,
		OwnerLocale: s.Locale,
		Category:    entity.Category(s.Get(entity.FieldCategory)),
		Direction:   entity.Direction(s.Get(entity.FieldDirection)),
		Location:    *loc,
		Description: s.Get(entity.FieldDescription),
		ExpiresAt:   expires,
	}
	if err := m.listings.Add(ctx, listing); err != nil {
		return err
	}

	m.reply(ctx, s.ChatID, s.Locale, i18n.KeyAddDone, []interface{}{
		s.Get(entity.FieldCategory),
		s.Get(entity.FieldDirection),
		i18n.FormatExpiry(expires, s.Locale, m.translator),
		s.Get(entity.FieldDescription),
	}, transport.RemoveKeyboard())
	return nil
}

func searchFlow() *Flow {
	return &Flow{
		First: stepCategory,
		Steps: map[string]*Step{
			stepCategory: {
				Prompt: func(m *Machine, s *entity.Session) Prompt {
					return Prompt{Key: i18n.KeySearchPromptType, Keyboard: m.categoryKeyboard(s.Locale, true)}
				},
				Validate: func(m *Machine, s *entity.Session, u transport.Update) error {
					cat, err := parseCategory(u.Text, s.Locale, m.translator, true)
					if err != nil {
						return err
					}
					s.Set(entity.FieldCategory, string(cat))
					return nil
				},
				Next: func(*entity.Session) string { return stepDirection },
			},
			stepDirection: {
				Prompt: func(m *Machine, s *entity.Session) Prompt {
					return Prompt{Key: i18n.KeySearchPromptKind, Keyboard: m.directionKeyboard(s.Locale, true)}
				},
				Validate: func(m *Machine, s *entity.Session, u transport.Update) error {
					dir, err := parseDirection(u.Text, s.Locale, m.translator, true)
					if err != nil {
						return err
					}
					s.Set(entity.FieldDirection, string(dir))
					return nil
				},
				Next: func(*entity.Session) string { return stepDistance },
			},
			stepDistance: {
				Prompt: func(m *Machine, s *entity.Session) Prompt {
					return Prompt{Key: i18n.KeySearchPromptDist, Keyboard: m.distanceKeyboard(s.Locale)}
				},
				Validate: validateDistance,
				Next:     nextAfterDistance(stepSelection),
			},
			stepLocation: {
				Prompt: func(m *Machine, s *entity.Session) Prompt {
					return Prompt{
						Key:      i18n.KeySearchPromptLoc,
						Args:     []interface{}{s.Get(entity.FieldCategory)},
						Keyboard: transport.RemoveKeyboard(),
					}
				},
				Validate: validateLocation,
				Next:     func(*entity.Session) string { return stepSelection },
			},
			stepSelection: {
				Enter: enterSearchResults,
				Prompt: func(m *Machine, s *entity.Session) Prompt {
					return Prompt{Key: i18n.KeySearchPick}
				},
				Validate: validateSelection,
				Next:     func(*entity.Session) string { return "" },
			},
		},
		Commit: commitSearchPick,
	}
}

// enterSearchResults runs the matching query and captures the ordered
// result snapshot into the session. Later selection resolves against this
// snapshot, never a fresh query, so the entry acted on is exactly the one
// that was displayed.
func enterSearchResults(ctx context.Context, m *Machine, s *entity.Session) (bool, error) {
	radius, bounded, err := s.DistanceMeters()
	if err != nil {
		return false, err
	}
	q := repository.ListingQuery{
		RequesterID: s.UserID,
		Category:    entity.Category(s.Get(entity.FieldCategory)),
		Direction:   entity.Direction(s.Get(entity.FieldDirection)),
	}
	if bounded {
		q.Location = s.GetLocation()
		q.RadiusMeters = radius
	}

	results, err := m.listings.Search(ctx, q)
	if err != nil {
		return false, err
	}
	if len(results) == 0 {
		m.reply(ctx, s.ChatID, s.Locale, i18n.KeySearchNone, nil, transport.RemoveKeyboard())
		return false, nil
	}

	s.Selection = snapshotListings(results)
	m.reply(ctx, s.ChatID, s.Locale, i18n.KeySearchFound, []interface{}{len(results)}, transport.RemoveKeyboard())
	m.showSelection(ctx, s.ChatID, s.Locale, s.Selection)
	return true, nil
}

func commitSearchPick(ctx context.Context, m *Machine, s *entity.Session) error {
	n, err := parseSelection(s.Get(fieldPick), len(s.Selection))
	if err != nil {
		return err
	}
	item := s.Selection[n-1]

	m.reply(ctx, s.ChatID, s.Locale, i18n.KeySearchPicked, []interface{}{n}, transport.RemoveKeyboard())

	// Best-effort note to the entry's owner, localized to the owner.
	ownerText := m.translator.Translate(i18n.KeySearchOwnerNote, item.OwnerLocale, item.Description)
	if err := m.sender.SendText(ctx, item.OwnerID, ownerText, nil); err != nil {
		m.log.Errorf("commitSearchPick: owner notification to user %d failed: %v", item.OwnerID, err)
	}
	return nil
}

func subscribeFlow() *Flow {
	return &Flow{
		First: stepCategory,
		Steps: map[string]*Step{
			stepCategory: {
				Prompt: func(m *Machine, s *entity.Session) Prompt {
					return Prompt{Key: i18n.KeySearchPromptType, Keyboard: m.categoryKeyboard(s.Locale, true)}
				},
				Validate: func(m *Machine, s *entity.Session, u transport.Update) error {
					cat, err := parseCategory(u.Text, s.Locale, m.translator, true)
					if err != nil {
						return err
					}
					s.Set(entity.FieldCategory, string(cat))
					return nil
				},
				Next: func(*entity.Session) string { return stepDirection },
			},
			stepDirection: {
				Prompt: func(m *Machine, s *entity.Session) Prompt {
					return Prompt{Key: i18n.KeySearchPromptKind, Keyboard: m.directionKeyboard(s.Locale, true)}
				},
				Validate: func(m *Machine, s *entity.Session, u transport.Update) error {
					dir, err := parseDirection(u.Text, s.Locale, m.translator, true)
					if err != nil {
						return err
					}
					s.Set(entity.FieldDirection, string(dir))
					return nil
				},
				Next: func(*entity.Session) string { return stepDistance },
			},
			stepDistance: {
				Prompt: func(m *Machine, s *entity.Session) Prompt {
					return Prompt{Key: i18n.KeySearchPromptDist, Keyboard: m.distanceKeyboard(s.Locale)}
				},
				Validate: validateDistance,
				// "Everywhere" skips location collection and commits directly.
				Next: nextAfterDistance(""),
			},
			stepLocation: {
				Prompt: func(m *Machine, s *entity.Session) Prompt {
					return Prompt{
						Key:      i18n.KeySearchPromptLoc,
						Args:     []interface{}{s.Get(entity.FieldCategory)},
						Keyboard: transport.RemoveKeyboard(),
					}
				},
				Validate: validateLocation,
				Next:     func(*entity.Session) string { return "" },
			},
		},
		Commit:          commitSubscribe,
		FinalizeOnError: true,
	}
}

func commitSubscribe(ctx context.Context, m *Machine, s *entity.Session) error {
	sub := &entity.Subscription{
		OwnerID:     s.UserID,
		OwnerLocale: s.Locale,
		Category:    entity.Category(s.Get(entity.FieldCategory)),
		Direction:   entity.Direction(s.Get(entity.FieldDirection)),
	}
	radius, bounded, err := s.DistanceMeters()
	if err != nil {
		return err
	}
	if bounded {
		sub.Location = s.GetLocation()
		sub.RadiusMeters = radius
	}
	if err := m.subscriptions.Subscribe(ctx, sub); err != nil {
		return err
	}
	m.reply(ctx, s.ChatID, s.Locale, i18n.KeySubscribeDone, nil, transport.RemoveKeyboard())
	return nil
}

func deleteFlow() *Flow {
	return &Flow{
		First: stepSelection,
		Steps: map[string]*Step{
			stepSelection: {
				Enter: func(ctx context.Context, m *Machine, s *entity.Session) (bool, error) {
					listings, err := m.listings.ListOwn(ctx, s.UserID)
					if err != nil {
						return false, err
					}
					if len(listings) == 0 {
						m.reply(ctx, s.ChatID, s.Locale, i18n.KeyListNone, nil, transport.RemoveKeyboard())
						return false, nil
					}
					s.Selection = snapshotListings(listings)
					m.showSelection(ctx, s.ChatID, s.Locale, s.Selection)
					return true, nil
				},
				Prompt: func(m *Machine, s *entity.Session) Prompt {
					return Prompt{Key: i18n.KeyDeletePrompt}
				},
				Validate: validateSelection,
				Next:     func(*entity.Session) string { return "" },
			},
		},
		Commit: func(ctx context.Context, m *Machine, s *entity.Session) error {
			n, err := parseSelection(s.Get(fieldPick), len(s.Selection))
			if err != nil {
				return err
			}
			if err := m.listings.Delete(ctx, s.Selection[n-1].ID); err != nil {
				return err
			}
			m.reply(ctx, s.ChatID, s.Locale, i18n.KeyDeleteDone, []interface{}{n}, transport.RemoveKeyboard())
			return nil
		},
		FinalizeOnError: true,
	}
}

func deleteSubscriptionFlow() *Flow {
	return &Flow{
		First: stepSelection,
		Steps: map[string]*Step{
			stepSelection: {
				Enter: func(ctx context.Context, m *Machine, s *entity.Session) (bool, error) {
					subs, err := m.subscriptions.ListOwn(ctx, s.UserID)
					if err != nil {
						return false, err
					}
					if len(subs) == 0 {
						m.reply(ctx, s.ChatID, s.Locale, i18n.KeySubsNone, nil, transport.RemoveKeyboard())
						return false, nil
					}
					s.Selection = snapshotSubscriptions(subs)
					m.showSubscriptionSelection(ctx, s.ChatID, s.Locale, subs)
					return true, nil
				},
				Prompt: func(m *Machine, s *entity.Session) Prompt {
					return Prompt{Key: i18n.KeyDeleteSubPrompt}
				},
				Validate: validateSelection,
				Next:     func(*entity.Session) string { return "" },
			},
		},
		Commit: func(ctx context.Context, m *Machine, s *entity.Session) error {
			n, err := parseSelection(s.Get(fieldPick), len(s.Selection))
			if err != nil {
				return err
			}
			if err := m.subscriptions.Delete(ctx, s.Selection[n-1].ID); err != nil {
				return err
			}
			m.reply(ctx, s.ChatID, s.Locale, i18n.KeyDeleteSubDone, []interface{}{n}, transport.RemoveKeyboard())
			return nil
		},
		FinalizeOnError: true,
	}
}

// Shared step pieces.

func validateLocation(m *Machine, s *entity.Session, u transport.Update) error {
	if u.Location == nil {
		return invalid(i18n.KeyBadLocation)
	}
	s.SetLocation(*u.Location)
	return nil
}

func validateDistance(m *Machine, s *entity.Session, u transport.Update) error {
	km, everywhere, err := parseDistance(u.Text, s.Locale, m.translator)
	if err != nil {
		return err
	}
	if everywhere {
		s.Set(entity.FieldEverywhere, "1")
	} else {
		s.Set(entity.FieldDistanceKM, fmt.Sprintf("%d", km))
	}
	return nil
}

// nextAfterDistance branches on the everywhere sentinel: it skips the
// location step and jumps straight to dest (the terminal action when dest
// is empty).
func nextAfterDistance(dest string) func(s *entity.Session) string {
	return func(s *entity.Session) string {
		if s.Get(entity.FieldEverywhere) != "" {
			return dest
		}
		return stepLocation
	}
}

func validateSelection(m *Machine, s *entity.Session, u transport.Update) error {
	n, err := parseSelection(u.Text, len(s.Selection))
	if err != nil {
		return err
	}
	s.Set(fieldPick, fmt.Sprintf("%d", n))
	return nil
}

func snapshotListings(listings []*entity.Listing) []entity.SelectionItem {
	items := make([]entity.SelectionItem, 0, len(listings))
	for _, l := range listings {
		items = append(items, entity.SelectionItem{
			ID:          l.ID,
			OwnerID:     l.OwnerID,
			OwnerLocale: l.OwnerLocale,
			Category:    l.Category,
			Direction:   l.Direction,
			Description: l.Description,
			Location:    l.Location,
			ExpiresAt:   l.ExpiresAt,
		})
	}
	return items
}

func snapshotSubscriptions(subs []*entity.Subscription) []entity.SelectionItem {
	items := make([]entity.SelectionItem, 0, len(subs))
	for _, sub := range subs {
		item := entity.SelectionItem{
			ID:          sub.ID,
			OwnerID:     sub.OwnerID,
			OwnerLocale: sub.OwnerLocale,
			Category:    sub.Category,
			Direction:   sub.Direction,
		}
		if sub.Location != nil {
			item.Location = *sub.Location
		}
		items = append(items, item)
	}
	return items
}
