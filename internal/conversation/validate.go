package conversation

import (
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/subkultur/teilwas-bot/internal/domain/entity"
	"github.com/subkultur/teilwas-bot/internal/i18n"
)

// categoryLabels maps each category to the button-label key shown for it,
// so input is accepted both as the canonical value and as the localized
// label the keyboard displayed.
var categoryLabels = map[entity.Category]string{
	entity.CategoryFood:    i18n.KeyButtonFood,
	entity.CategoryThing:   i18n.KeyButtonThing,
	entity.CategoryClothes: i18n.KeyButtonClothes,
	entity.CategorySkill:   i18n.KeyButtonSkill,
	entity.CategoryAll:     i18n.KeyButtonAll,
}

var directionLabels = map[entity.Direction]string{
	entity.DirectionOffer:  i18n.KeyButtonOffer,
	entity.DirectionSearch: i18n.KeyButtonSearch,
	entity.DirectionAll:    i18n.KeyButtonAll,
}

func matchesLabel(text, canonical, labelKey, locale string, tr i18n.Translator) bool {
	if strings.EqualFold(text, canonical) {
		return true
	}
	return strings.EqualFold(text, tr.Translate(labelKey, locale))
}

func parseCategory(text, locale string, tr i18n.Translator, allowAll bool) (entity.Category, error) {
	text = strings.TrimSpace(text)
	for cat, labelKey := range categoryLabels {
		if cat == entity.CategoryAll && !allowAll {
			continue
		}
		if matchesLabel(text, string(cat), labelKey, locale, tr) {
			return cat, nil
		}
	}
	return "", invalid(i18n.KeyBadCategory)
}

func parseDirection(text, locale string, tr i18n.Translator, allowAll bool) (entity.Direction, error) {
	text = strings.TrimSpace(text)
	for dir, labelKey := range directionLabels {
		if dir == entity.DirectionAll && !allowAll {
			continue
		}
		if matchesLabel(text, string(dir), labelKey, locale, tr) {
			return dir, nil
		}
	}
	return "", invalid(i18n.KeyBadDirection)
}

// parseDistance accepts the "everywhere" sentinel or a non-negative integer
// number of kilometers. The sentinel is reported separately, never encoded
// as a magic number.
func parseDistance(text, locale string, tr i18n.Translator) (km int, everywhere bool, err error) {
	text = strings.TrimSpace(text)
	if matchesLabel(text, "everywhere", i18n.KeyButtonEverywhere, locale, tr) {
		return 0, true, nil
	}
	km, convErr := strconv.Atoi(text)
	if convErr != nil || km < 0 {
		return 0, false, invalid(i18n.KeyBadDistance)
	}
	return km, false, nil
}

// parseExpiry accepts "never" (case-insensitive), a bare number of days, or
// an explicit DD.MM.YYYY date. Explicit dates must be strictly after today.
func parseExpiry(text, locale string, tr i18n.Translator, now time.Time) (time.Time, error) {
	text = strings.TrimSpace(text)
	today := now.UTC().Truncate(24 * time.Hour)

	if matchesLabel(text, "never", i18n.KeyButtonNever, locale, tr) {
		return entity.NeverExpires, nil
	}

	if days, err := strconv.Atoi(text); err == nil {
		if days < 1 {
			return time.Time{}, invalid(i18n.KeyBadDate)
		}
		return today.AddDate(0, 0, days), nil
	}

	parsed, err := time.ParseInLocation("2.1.2006", text, time.UTC)
	if err != nil {
		return time.Time{}, invalid(i18n.KeyBadDate)
	}
	if !parsed.After(today) {
		return time.Time{}, invalid(i18n.KeyBadDate)
	}
	return parsed, nil
}

// sanitizeDescription strips everything except letters, digits, a small
// punctuation subset and whitespace. An empty result is invalid.
func sanitizeDescription(text string) (string, error) {
	var b strings.Builder
	for _, r := range text {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r):
			b.WriteRune(r)
		case strings.ContainsRune(".,;:!()", r):
			b.WriteRune(r)
		}
	}
	clean := strings.TrimSpace(b.String())
	if clean == "" {
		return "", invalid(i18n.KeyBadDescription)
	}
	return clean, nil
}

// parseSelection validates a 1-based pick against the captured snapshot
// size. The bound is inclusive on both ends.
func parseSelection(text string, max int) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || n < 1 || n > max {
		return 0, invalid(i18n.KeyBadSelection, max)
	}
	return n, nil
}
