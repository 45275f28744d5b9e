package i18n

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want Lang
	}{
		{"", German},
		{"de-DE,de;q=0.9", German},
		{"ar", Arabic},
		{"ar-EG,en;q=0.5", Arabic},
		{"fr-FR", German},
		{"%%%", German},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Parse(tt.in), "Parse(%q)", tt.in)
	}
}

func TestFromRequest_QueryWins(t *testing.T) {
	r := httptest.NewRequest("GET", "/x?lang=ar", nil)
	r.Header.Set("Accept-Language", "de")
	assert.Equal(t, Arabic, FromRequest(r))
}

func TestPick(t *testing.T) {
	assert.Equal(t, "Hallo", Pick(German, "Hallo", "مرحبا"))
	assert.Equal(t, "مرحبا", Pick(Arabic, "Hallo", "مرحبا"))
}
