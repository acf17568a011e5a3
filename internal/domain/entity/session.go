package entity

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Flow names. Each is one multi-step wizard.
const (
	FlowAdd                = "add"
	FlowSearch             = "search"
	FlowDelete             = "delete"
	FlowSubscribe          = "subscribe"
	FlowDeleteSubscription = "delete_subscription"
)

// Well-known session field keys.
const (
	FieldCategory    = "category"
	FieldDirection   = "direction"
	FieldDistanceKM  = "distance_km"
	FieldEverywhere  = "everywhere"
	FieldLocation    = "location"
	FieldDescription = "description"
	FieldExpiresAt   = "expires_at"
)

// SelectionItem is one row of an ordered result snapshot captured into a
// session. Resolving a user's pick goes through this snapshot, never a fresh
// query, so the id acted on is exactly the one that was displayed.
type SelectionItem struct {
	ID          string    `json:"id"`
	OwnerID     int64     `json:"owner_id"`
	OwnerLocale string    `json:"owner_locale"`
	Category    Category  `json:"category"`
	Direction   Direction `json:"direction"`
	Description string    `json:"description"`
	Location    Location  `json:"location"`
	ExpiresAt   time.Time `json:"expires_at,omitempty"`
}

// Session is the per-user wizard state: the active flow, the active step and
// the fields collected so far. At most one session exists per user; starting
// a new flow replaces any prior one.
type Session struct {
	UserID    int64             `json:"user_id"`
	ChatID    int64             `json:"chat_id"`
	Locale    string            `json:"locale"`
	Flow      string            `json:"flow"`
	Step      string            `json:"step"`
	Fields    map[string]string `json:"fields"`
	Selection []SelectionItem   `json:"selection,omitempty"`
	StartedAt time.Time         `json:"started_at"`
}

func NewSession(userID, chatID int64, locale, flow, step string) *Session {
	return &Session{
		UserID:    userID,
		ChatID:    chatID,
		Locale:    locale,
		Flow:      flow,
		Step:      step,
		Fields:    map[string]string{},
		StartedAt: time.Now().UTC(),
	}
}

func (s *Session) Set(field, value string) {
	if s.Fields == nil {
		s.Fields = map[string]string{}
	}
	s.Fields[field] = value
}

func (s *Session) Get(field string) string {
	return s.Fields[field]
}

func (s *Session) SetLocation(loc Location) {
	data, _ := json.Marshal(loc)
	s.Set(FieldLocation, string(data))
}

// GetLocation returns the collected location, or nil if none was stored
// (the "everywhere" branch skips the location step entirely).
func (s *Session) GetLocation() *Location {
	raw := s.Get(FieldLocation)
	if raw == "" {
		return nil
	}
	var loc Location
	if err := json.Unmarshal([]byte(raw), &loc); err != nil {
		return nil
	}
	return &loc
}

// DistanceMeters returns the collected search radius converted to meters.
// bounded is false when the user chose "everywhere" or no distance was
// collected. A stored radius that no longer parses is corruption, reported
// as an error rather than silently widening the search.
func (s *Session) DistanceMeters() (meters float64, bounded bool, err error) {
	if s.Get(FieldEverywhere) != "" {
		return 0, false, nil
	}
	raw := s.Get(FieldDistanceKM)
	if raw == "" {
		return 0, false, nil
	}
	km, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false, fmt.Errorf("corrupt distance field %q in session of user %d: %w", raw, s.UserID, err)
	}
	return float64(km) * 1000, true, nil
}
