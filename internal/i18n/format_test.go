package i18n

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/subkultur/teilwas-bot/internal/domain/entity"
)

func TestFormatExpiry(t *testing.T) {
	tr := NewCatalog()

	assert.Equal(t, "never", FormatExpiry(entity.NeverExpires, "en", tr))
	assert.Equal(t, "24.12.2026", FormatExpiry(time.Date(2026, 12, 24, 0, 0, 0, 0, time.UTC), "en", tr))
	assert.Equal(t, "01.02.2027", FormatExpiry(time.Date(2027, 2, 1, 0, 0, 0, 0, time.UTC), "en", tr))
}

func TestTranslateFallsBackToEnglish(t *testing.T) {
	tr := NewCatalog()

	assert.Equal(t, "Cancelled.", tr.Translate(KeyCancelled, "de"))
	assert.Equal(t, "Cancelled.", tr.Translate(KeyCancelled, ""))
	// Unknown keys degrade to the key itself rather than an empty string.
	assert.Equal(t, "no.such.key", tr.Translate("no.such.key", "en"))
}
