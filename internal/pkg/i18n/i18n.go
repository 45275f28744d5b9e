package i18n

import (
	"net/http"

	"golang.org/x/text/language"
)

// Lang is a UI language the clients ship.
type Lang string

const (
	German Lang = "de"
	Arabic Lang = "ar"
)

// Default is used when nothing matches.
const Default = German

var matcher = language.NewMatcher([]language.Tag{
	language.German,
	language.Arabic,
})

// Parse negotiates an Accept-Language header or a bare tag like "ar-EG".
func Parse(accept string) Lang {
	if accept == "" {
		return Default
	}
	tags, _, err := language.ParseAcceptLanguage(accept)
	if err != nil || len(tags) == 0 {
		return Default
	}
	_, index, confidence := matcher.Match(tags...)
	if confidence == language.No {
		return Default
	}
	if index == 1 {
		return Arabic
	}
	return German
}

// FromRequest prefers an explicit ?lang= query parameter over the header.
func FromRequest(r *http.Request) Lang {
	if q := r.URL.Query().Get("lang"); q != "" {
		return Parse(q)
	}
	return Parse(r.Header.Get("Accept-Language"))
}

// Pick returns the text for lang.
func Pick(lang Lang, de, ar string) string {
	if lang == Arabic {
		return ar
	}
	return de
}
