package i18n

var english = map[string]string{
	KeyCancelled:      "Cancelled.",
	KeyUnknownCommand: "I did not understand that. Try /add, /search, /subscribe or /list.",
	KeyStoreFailure:   "Something went wrong on my side. Please try again later.",

	KeyAddPromptType:    "What type of thing do you want to share?",
	KeyAddPromptKind:    "Do you want to offer it or are you searching?",
	KeyAddPromptWhere:   "Where is that %s?",
	KeyAddPromptDesc:    "Please describe the %s.",
	KeyAddPromptExpires: "Please enter an expiration date in DD.MM.YYYY format or a number of days or 'never'.",
	KeyAddDone:          "Thanks for sharing! Details:\nType: %s\nKind: %s\nExpires at: %s\nDescription: %s",

	KeySearchPromptType: "What type of thing do you want to search?",
	KeySearchPromptKind: "Do you search for an offer?",
	KeySearchPromptDist: "Do you want to search within a specific distance (in kilometers)?",
	KeySearchPromptLoc:  "Where are you searching for %s?",
	KeySearchFound:      "Found %d entries! Details:",
	KeySearchNone:       "Found nothing! Consider creating a search entry.",
	KeySearchPick:       "Pick one by entering its #.",
	KeySearchPicked:     "You picked #%d. I sent a notification to the user that entered that offer.",
	KeySearchOwnerNote:  "Someone is interested in your entry: %s",

	KeySubscribeDone: "Subscribed! I will notify you when a matching entry appears.",

	KeyListNone:  "Could not find any entries.",
	KeySubsNone:  "You have no subscriptions.",
	KeySubsEntry: "# %d\nType: %s\nKind: %s\nWhere: %s",
	KeyAnywhere:  "anywhere",

	KeyDeletePrompt:    "Which entry do you want to delete?",
	KeyDeleteDone:      "Entry #%d was successfully deleted.",
	KeyDeleteSubPrompt: "Which subscription do you want to delete?",
	KeyDeleteSubDone:   "Subscription #%d was successfully deleted.",

	KeyResultEntry:      "# %d\nType: %s\nKind: %s\nExpires at: %s\nDescription: %s",
	KeyResultMapCaption: "Result locations",
	KeyNotifyMatch:      "A new entry matches your subscription!\nType: %s\nKind: %s\nExpires at: %s\nDescription: %s",
	KeyNotifyMapCaption: "Entry location",
	KeyExpiresNever:     "never",

	KeyBadCategory:    "Bad type. Choose your type from the keyboard.",
	KeyBadDirection:   "Bad offer type. Choose your offer type from the keyboard.",
	KeyBadDistance:    "Bad distance. Please enter a number of kilometers.",
	KeyBadLocation:    "Bad location. Please share a location.",
	KeyBadDate:        "Please enter a valid future expiration date in DD.MM.YYYY format or a number of days or 'never'.",
	KeyBadSelection:   "Bad selection index. Insert a number from 1 to %d.",
	KeyBadDescription: "Please enter a short text description.",

	KeyButtonFood:       "Food",
	KeyButtonThing:      "Thing",
	KeyButtonClothes:    "Clothes",
	KeyButtonSkill:      "Skill",
	KeyButtonAll:        "All",
	KeyButtonOffer:      "Offer",
	KeyButtonSearch:     "Search",
	KeyButtonEverywhere: "Everywhere",
	KeyButtonNever:      "Never",
}
