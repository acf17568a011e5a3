package conversation

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/subkultur/teilwas-bot/internal/domain/entity"
	"github.com/subkultur/teilwas-bot/internal/i18n"
)

func assertInvalid(t *testing.T, err error, key string) {
	t.Helper()
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, key, verr.Key)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestParseCategory(t *testing.T) {
	tr := i18n.NewCatalog()

	tests := []struct {
		name     string
		input    string
		allowAll bool
		want     entity.Category
		wantErr  bool
	}{
		{name: "CanonicalValue", input: "food", want: entity.CategoryFood},
		{name: "ButtonLabel", input: "Clothes", want: entity.CategoryClothes},
		{name: "CaseInsensitive", input: "SKILL", want: entity.CategorySkill},
		{name: "SurroundingSpace", input: "  thing ", want: entity.CategoryThing},
		{name: "AllWhenAllowed", input: "All", allowAll: true, want: entity.CategoryAll},
		{name: "AllWhenForbidden", input: "All", wantErr: true},
		{name: "Garbage", input: "spaceship", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseCategory(tt.input, "en", tr, tt.allowAll)
			if tt.wantErr {
				assertInvalid(t, err, i18n.KeyBadCategory)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseDirection(t *testing.T) {
	tr := i18n.NewCatalog()

	got, err := parseDirection("Offer", "en", tr, false)
	require.NoError(t, err)
	assert.Equal(t, entity.DirectionOffer, got)

	got, err = parseDirection("search", "en", tr, true)
	require.NoError(t, err)
	assert.Equal(t, entity.DirectionSearch, got)

	_, err = parseDirection("all", "en", tr, false)
	assertInvalid(t, err, i18n.KeyBadDirection)

	got, err = parseDirection("all", "en", tr, true)
	require.NoError(t, err)
	assert.Equal(t, entity.DirectionAll, got)
}

func TestParseDistance(t *testing.T) {
	tr := i18n.NewCatalog()

	t.Run("Everywhere", func(t *testing.T) {
		_, everywhere, err := parseDistance("Everywhere", "en", tr)
		require.NoError(t, err)
		assert.True(t, everywhere)
	})

	t.Run("Kilometers", func(t *testing.T) {
		km, everywhere, err := parseDistance("50", "en", tr)
		require.NoError(t, err)
		assert.False(t, everywhere)
		assert.Equal(t, 50, km)
	})

	t.Run("Zero", func(t *testing.T) {
		km, everywhere, err := parseDistance("0", "en", tr)
		require.NoError(t, err)
		assert.False(t, everywhere)
		assert.Equal(t, 0, km)
	})

	t.Run("Negative", func(t *testing.T) {
		_, _, err := parseDistance("-5", "en", tr)
		assertInvalid(t, err, i18n.KeyBadDistance)
	})

	t.Run("NotANumber", func(t *testing.T) {
		_, _, err := parseDistance("far", "en", tr)
		assertInvalid(t, err, i18n.KeyBadDistance)
	})
}

func TestParseExpiry(t *testing.T) {
	tr := i18n.NewCatalog()
	now := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)

	t.Run("Never", func(t *testing.T) {
		got, err := parseExpiry("never", "en", tr, now)
		require.NoError(t, err)
		assert.Equal(t, entity.NeverExpires, got)
	})

	t.Run("NeverButtonLabel", func(t *testing.T) {
		got, err := parseExpiry("Never", "en", tr, now)
		require.NoError(t, err)
		assert.Equal(t, entity.NeverExpires, got)
	})

	t.Run("DayCount", func(t *testing.T) {
		got, err := parseExpiry("14", "en", tr, now)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC), got)
	})

	t.Run("ZeroDays", func(t *testing.T) {
		_, err := parseExpiry("0", "en", tr, now)
		assertInvalid(t, err, i18n.KeyBadDate)
	})

	t.Run("ExplicitDate", func(t *testing.T) {
		got, err := parseExpiry("24.12.2026", "en", tr, now)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2026, 12, 24, 0, 0, 0, 0, time.UTC), got)
	})

	t.Run("DateWithoutLeadingZeros", func(t *testing.T) {
		got, err := parseExpiry("1.9.2026", "en", tr, now)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), got)
	})

	t.Run("TodayIsNotFuture", func(t *testing.T) {
		_, err := parseExpiry("29.08.2026", "en", tr, now)
		assertInvalid(t, err, i18n.KeyBadDate)
	})

	t.Run("PastDate", func(t *testing.T) {
		_, err := parseExpiry("01.01.2020", "en", tr, now)
		assertInvalid(t, err, i18n.KeyBadDate)
	})

	t.Run("Garbage", func(t *testing.T) {
		_, err := parseExpiry("next tuesday", "en", tr, now)
		assertInvalid(t, err, i18n.KeyBadDate)
	})
}

func TestSanitizeDescription(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "Plain", input: "fresh bread, still warm!", want: "fresh bread, still warm!"},
		{name: "StripsMarkup", input: "<b>free</b> couch *now*", want: "bfreeb couch now"},
		{name: "KeepsUnicodeLetters", input: "Gemüse übrig", want: "Gemüse übrig"},
		{name: "TrimsResult", input: "  bike  ", want: "bike"},
		{name: "OnlyStrippedChars", input: "***", wantErr: true},
		{name: "Empty", input: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := sanitizeDescription(tt.input)
			if tt.wantErr {
				assertInvalid(t, err, i18n.KeyBadDescription)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseSelection(t *testing.T) {
	t.Run("BoundsInclusive", func(t *testing.T) {
		n, err := parseSelection("1", 3)
		require.NoError(t, err)
		assert.Equal(t, 1, n)

		n, err = parseSelection("3", 3)
		require.NoError(t, err)
		assert.Equal(t, 3, n)
	})

	t.Run("OutOfRange", func(t *testing.T) {
		_, err := parseSelection("0", 3)
		assertInvalid(t, err, i18n.KeyBadSelection)

		_, err = parseSelection("4", 3)
		assertInvalid(t, err, i18n.KeyBadSelection)
	})

	t.Run("NotANumber", func(t *testing.T) {
		_, err := parseSelection("first", 3)
		assertInvalid(t, err, i18n.KeyBadSelection)
	})

	t.Run("CarriesBoundInMessage", func(t *testing.T) {
		_, err := parseSelection("9", 5)
		var verr *ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Equal(t, []interface{}{5}, verr.Args)
	})
}
