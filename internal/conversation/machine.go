package conversation

import (
	"context"
	"errors"
	"strings"

	"github.com/subkultur/teilwas-bot/internal/domain/entity"
	"github.com/subkultur/teilwas-bot/internal/i18n"
	"github.com/subkultur/teilwas-bot/internal/platform/logger"
	"github.com/subkultur/teilwas-bot/internal/render"
	"github.com/subkultur/teilwas-bot/internal/repository"
	"github.com/subkultur/teilwas-bot/internal/service"
	"github.com/subkultur/teilwas-bot/internal/transport"
)

// Machine drives the per-user wizard flows. Messages from different users
// are handled fully in parallel; messages from one user are serialized
// through a per-user lock, since each depends on reading and then writing
// that user's session.
type Machine struct {
	sessions      repository.SessionRepository
	listings      *service.ListingService
	subscriptions *service.SubscriptionService
	sender        transport.Sender
	renderer      render.MapRenderer
	translator    i18n.Translator
	log           logger.Logger
	flows         map[string]*Flow
	locks         keyedMutex
}

func NewMachine(
	sessions repository.SessionRepository,
	listings *service.ListingService,
	subscriptions *service.SubscriptionService,
	sender transport.Sender,
	renderer render.MapRenderer,
	translator i18n.Translator,
	log logger.Logger,
) *Machine {
	return &Machine{
		sessions:      sessions,
		listings:      listings,
		subscriptions: subscriptions,
		sender:        sender,
		renderer:      renderer,
		translator:    translator,
		log:           log,
		flows:         newFlows(),
	}
}

// HandleUpdate processes one inbound event to completion. It is safe to
// call concurrently; see the per-user serialization note on Machine.
func (m *Machine) HandleUpdate(ctx context.Context, u transport.Update) {
	unlock := m.locks.lock(u.UserID)
	defer unlock()

	if isCancel(u) {
		m.handleCancel(ctx, u)
		return
	}
	if u.Command != "" {
		m.handleCommand(ctx, u)
		return
	}
	m.handleStep(ctx, u)
}

// isCancel recognizes the global interrupt: the /cancel command, its alias,
// or the bare word "cancel" in any case, regardless of the active step.
func isCancel(u transport.Update) bool {
	if u.Command == "cancel" || u.Command == "c" {
		return true
	}
	return strings.EqualFold(strings.TrimSpace(u.Text), "cancel")
}

// handleCancel discards the session if one exists. Cancelling while idle is
// a no-op: no second acknowledgement, nothing to roll back.
func (m *Machine) handleCancel(ctx context.Context, u transport.Update) {
	if _, err := m.sessions.Get(ctx, u.UserID); err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			m.log.Errorf("Machine.handleCancel: session read failed for user %d: %v", u.UserID, err)
		}
		return
	}
	if err := m.sessions.Delete(ctx, u.UserID); err != nil {
		m.log.Errorf("Machine.handleCancel: session delete failed for user %d: %v", u.UserID, err)
	}
	m.log.Infof("Machine.handleCancel: user %d cancelled active flow", u.UserID)
	m.reply(ctx, u.ChatID, u.Locale, i18n.KeyCancelled, nil, transport.RemoveKeyboard())
}

func (m *Machine) handleCommand(ctx context.Context, u transport.Update) {
	switch u.Command {
	case "add", "a":
		m.startFlow(ctx, u, entity.FlowAdd)
	case "search", "s":
		m.startFlow(ctx, u, entity.FlowSearch)
	case "subscribe":
		m.startFlow(ctx, u, entity.FlowSubscribe)
	case "delete", "d":
		m.startFlow(ctx, u, entity.FlowDelete)
	case "delete_subscription":
		m.startFlow(ctx, u, entity.FlowDeleteSubscription)
	case "list", "l":
		m.showOwnListings(ctx, u)
	case "list_subscriptions":
		m.showOwnSubscriptions(ctx, u)
	default:
		m.reply(ctx, u.ChatID, u.Locale, i18n.KeyUnknownCommand, nil, nil)
	}
}

// startFlow supersedes any active wizard; partial data from the prior flow
// is dropped without carryover. Commands that start no flow (the list
// commands, unknown input) leave an active wizard in place.
func (m *Machine) startFlow(ctx context.Context, u transport.Update, flowName string) {
	if err := m.sessions.Delete(ctx, u.UserID); err != nil {
		m.log.Errorf("Machine.startFlow: session reset failed for user %d: %v", u.UserID, err)
	}

	flow := m.flows[flowName]
	session := entity.NewSession(u.UserID, u.ChatID, u.Locale, flowName, flow.First)
	m.enterStep(ctx, session)
}

// enterStep activates the session's current step: it runs the step's side
// effect if any, then sends the prompt and persists the session. A step
// whose side effect ends the flow (for example an empty result set) leaves
// the user idle.
func (m *Machine) enterStep(ctx context.Context, s *entity.Session) {
	flow := m.flows[s.Flow]
	step := flow.Steps[s.Step]

	if step.Enter != nil {
		proceed, err := step.Enter(ctx, m, s)
		if err != nil {
			m.log.Errorf("Machine.enterStep: %s/%s failed for user %d: %v", s.Flow, s.Step, s.UserID, err)
			m.reply(ctx, s.ChatID, s.Locale, i18n.KeyStoreFailure, nil, transport.RemoveKeyboard())
			// Same finalization rule as a failed commit: unless the flow
			// finalizes on error, the stored session is left untouched at
			// the prior step, so resending the last input retries.
			if flow.FinalizeOnError {
				m.discard(ctx, s.UserID)
			}
			return
		}
		if !proceed {
			m.discard(ctx, s.UserID)
			return
		}
	}

	prompt := step.Prompt(m, s)
	m.reply(ctx, s.ChatID, s.Locale, prompt.Key, prompt.Args, prompt.Keyboard)

	if err := m.sessions.Save(ctx, s); err != nil {
		m.log.Errorf("Machine.enterStep: session save failed for user %d: %v", s.UserID, err)
	}
}

func (m *Machine) handleStep(ctx context.Context, u transport.Update) {
	session, err := m.sessions.Get(ctx, u.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			m.reply(ctx, u.ChatID, u.Locale, i18n.KeyUnknownCommand, nil, nil)
			return
		}
		m.log.Errorf("Machine.handleStep: session read failed for user %d: %v", u.UserID, err)
		m.reply(ctx, u.ChatID, u.Locale, i18n.KeyStoreFailure, nil, nil)
		return
	}

	flow := m.flows[session.Flow]
	step := flow.Steps[session.Step]

	if err := step.Validate(m, session, u); err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			// Same step, untouched session: just restate the prompt error.
			m.reply(ctx, u.ChatID, session.Locale, verr.Key, verr.Args, nil)
			return
		}
		m.log.Errorf("Machine.handleStep: %s/%s validation failed unexpectedly for user %d: %v", session.Flow, session.Step, u.UserID, err)
		m.reply(ctx, u.ChatID, session.Locale, i18n.KeyStoreFailure, nil, nil)
		return
	}

	next := step.Next(session)
	if next != "" {
		session.Step = next
		m.enterStep(ctx, session)
		return
	}

	// Terminal step: run the flow's commit action.
	if err := flow.Commit(ctx, m, session); err != nil {
		m.log.Errorf("Machine.handleStep: %s commit failed for user %d: %v", session.Flow, u.UserID, err)
		m.reply(ctx, u.ChatID, session.Locale, i18n.KeyStoreFailure, nil, transport.RemoveKeyboard())
		if flow.FinalizeOnError {
			m.discard(ctx, u.UserID)
		} else if err := m.sessions.Save(ctx, session); err != nil {
			m.log.Errorf("Machine.handleStep: session save failed for user %d: %v", u.UserID, err)
		}
		return
	}
	m.discard(ctx, u.UserID)
}

func (m *Machine) discard(ctx context.Context, userID int64) {
	if err := m.sessions.Delete(ctx, userID); err != nil {
		m.log.Errorf("Machine.discard: session delete failed for user %d: %v", userID, err)
	}
}

func (m *Machine) reply(ctx context.Context, chatID int64, locale, key string, args []interface{}, keyboard *transport.Keyboard) {
	text := m.translator.Translate(key, locale, args...)
	if err := m.sender.SendText(ctx, chatID, text, keyboard); err != nil {
		m.log.Errorf("Machine.reply: send to chat %d failed: %v", chatID, err)
	}
}
