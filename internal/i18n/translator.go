package i18n

import "fmt"

// Translator resolves an opaque message key for a locale. Args are applied
// positionally; the core never builds user-facing strings itself.
type Translator interface {
	Translate(key, locale string, args ...interface{}) string
}

// Message keys used by the bot core.
const (
	KeyCancelled        = "cancelled"
	KeyUnknownCommand   = "unknown_command"
	KeyStoreFailure     = "store_failure"
	KeyAddPromptType    = "add.prompt_type"
	KeyAddPromptKind    = "add.prompt_kind"
	KeyAddPromptWhere   = "add.prompt_where"
	KeyAddPromptDesc    = "add.prompt_description"
	KeyAddPromptExpires = "add.prompt_expires"
	KeyAddDone          = "add.done"
	KeySearchPromptType = "search.prompt_type"
	KeySearchPromptKind = "search.prompt_kind"
	KeySearchPromptDist = "search.prompt_distance"
	KeySearchPromptLoc  = "search.prompt_location"
	KeySearchFound      = "search.found"
	KeySearchNone       = "search.none"
	KeySearchPick       = "search.pick"
	KeySearchPicked     = "search.picked"
	KeySearchOwnerNote  = "search.owner_note"
	KeySubscribeDone    = "subscribe.done"
	KeyListNone         = "list.none"
	KeySubsNone         = "subscriptions.none"
	KeySubsEntry        = "subscriptions.entry"
	KeyDeletePrompt     = "delete.prompt"
	KeyDeleteDone       = "delete.done"
	KeyDeleteSubPrompt  = "delete_subscription.prompt"
	KeyDeleteSubDone    = "delete_subscription.done"
	KeyResultEntry      = "result.entry"
	KeyResultMapCaption = "result.map_caption"
	KeyNotifyMatch      = "notify.match"
	KeyNotifyMapCaption = "notify.map_caption"
	KeyExpiresNever     = "expires.never"
	KeyAnywhere         = "anywhere"
	KeyBadCategory      = "invalid.category"
	KeyBadDirection     = "invalid.direction"
	KeyBadDistance      = "invalid.distance"
	KeyBadLocation      = "invalid.location"
	KeyBadDate          = "invalid.date"
	KeyBadSelection     = "invalid.selection"
	KeyBadDescription   = "invalid.description"
)

// Button labels are translated too; validators compare canonical values,
// not labels.
const (
	KeyButtonFood       = "button.food"
	KeyButtonThing      = "button.thing"
	KeyButtonClothes    = "button.clothes"
	KeyButtonSkill      = "button.skill"
	KeyButtonAll        = "button.all"
	KeyButtonOffer      = "button.offer"
	KeyButtonSearch     = "button.search"
	KeyButtonEverywhere = "button.everywhere"
	KeyButtonNever      = "button.never"
)

type catalogTranslator struct {
	catalogs map[string]map[string]string
	fallback string
}

// NewCatalog returns the built-in translator with the English catalog.
// Additional locales can be layered on by external callers.
func NewCatalog() Translator {
	return &catalogTranslator{
		catalogs: map[string]map[string]string{"en": english},
		fallback: "en",
	}
}

func (t *catalogTranslator) Translate(key, locale string, args ...interface{}) string {
	catalog, ok := t.catalogs[locale]
	if !ok {
		catalog = t.catalogs[t.fallback]
	}
	format, ok := catalog[key]
	if !ok {
		if format, ok = t.catalogs[t.fallback][key]; !ok {
			return key
		}
	}
	if len(args) == 0 {
		return format
	}
	return fmt.Sprintf(format, args...)
}
