// Package i18n translates messages returned by the API.
//
// Messages are keyed by their English text. Messages without a
// translation are returned unchanged.
package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Default is the language used when no supported language matches.
var Default = language.English

// ContextKey is the key the negotiated language is stored under in
// request contexts.
const ContextKey = "locale"

// Supported lists all languages with translations, Default first.
var Supported = []language.Tag{language.English, language.Italian}

var matcher = language.NewMatcher(Supported)

var italian = map[string]string{
	// Authentication
	"Invalid email or password":                                "Email o password non validi",
	"Email already registered":                                 "Email già registrata",
	"Password must be at least 6 characters":                   "La password deve contenere almeno 6 caratteri",
	"Invalid email or password format":                         "Formato email o password non valido",
	"Service temporarily unavailable. Please try again later.": "Servizio temporaneamente non disponibile. Riprova più tardi.",
	"Invalid or expired session":                               "Sessione non valida o scaduta",
	"Reset link sent to your email":                            "Link di reset inviato alla tua email",
	"Password updated successfully":                            "Password aggiornata con successo",
	"an authenticated user is required":                        "è richiesto un utente autenticato",
	"only super administrators can manage administrators":      "solo i super amministratori possono gestire gli amministratori",

	// Forms
	"Email is required":                  "L'email è obbligatoria",
	"Please enter a valid email address": "Inserisci un indirizzo email valido",
	"Password is required":               "La password è obbligatoria",
	"First name is required":             "Il nome è obbligatorio",
	"Passwords don't match":              "Le password non coincidono",
	"Name is required":                   "Il nome è obbligatorio",
	"Category is required":               "La categoria è obbligatoria",
	"Invalid form data":                  "Dati del modulo non validi",

	// Budgets, transactions and analytics
	"invalid date format":                             "formato data non valido",
	"amount must be numeric":                          "l'importo deve essere numerico",
	"end date must not be before start date":          "la data di fine non può precedere la data di inizio",
	"the subcategory does not belong to the category": "la sottocategoria non appartiene alla categoria",
	"failed to load budgets":                          "caricamento dei budget fallito",
	"failed to update budget":                         "aggiornamento del budget fallito",
	"failed to load transactions":                     "caricamento delle transazioni fallito",
	"failed to load analytics data":                   "caricamento dei dati di analisi fallito",
	"Failed to create transaction":                    "Creazione transazione fallita",
}

var cat = build()

func build() catalog.Catalog {
	b := catalog.NewBuilder(catalog.Fallback(Default))
	for key, translation := range italian {
		// SetString only fails for invalid tags
		_ = b.SetString(language.English, key, key)
		_ = b.SetString(language.Italian, key, translation)
	}
	return b
}

// Match returns the supported language that best matches an
// Accept-Language header value.
func Match(acceptLanguage string) language.Tag {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return Default
	}

	_, index, confidence := matcher.Match(tags...)
	if confidence == language.No {
		return Default
	}
	return Supported[index]
}

// Printer returns a printer for the best match of an Accept-Language
// header value.
func Printer(acceptLanguage string) *message.Printer {
	return NewPrinter(Match(acceptLanguage))
}

// NewPrinter returns a printer for tag that knows all translations.
func NewPrinter(tag language.Tag) *message.Printer {
	return message.NewPrinter(tag, message.Catalog(cat))
}

// Translate returns msg in the language tag. Unknown messages are
// returned unchanged.
func Translate(tag language.Tag, msg string) string {
	if _, ok := italian[msg]; !ok {
		return msg
	}

	return NewPrinter(tag).Sprintf(msg)
}

// TranslateFields translates every value of a field to message map.
func TranslateFields(tag language.Tag, fields map[string]string) map[string]string {
	translated := make(map[string]string, len(fields))
	for field, msg := range fields {
		translated[field] = Translate(tag, msg)
	}
	return translated
}
