package i18n

import (
	"time"

	"github.com/subkultur/teilwas-bot/internal/domain/entity"
)

// FormatExpiry renders an expiry date for display: the far-future sentinel
// becomes the localized "never", everything else DD.MM.YYYY.
func FormatExpiry(t time.Time, locale string, tr Translator) string {
	if t.Equal(entity.NeverExpires) || t.After(entity.NeverExpires) {
		return tr.Translate(KeyExpiresNever, locale)
	}
	return t.Format("02.01.2006")
}
