package binder

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// countryCodes maps normalised country names (lower case, no accents) to
// ISO 3166-1 alpha-2 codes. Two-letter codes are also accepted directly.
var countryCodes = map[string]string{
	"argentina":            "AR",
	"bolivia":              "BO",
	"brasil":               "BR",
	"brazil":               "BR",
	"canada":               "CA",
	"chile":                "CL",
	"colombia":             "CO",
	"costa rica":           "CR",
	"cuba":                 "CU",
	"ecuador":              "EC",
	"el salvador":          "SV",
	"espana":               "ES",
	"spain":                "ES",
	"estados unidos":       "US",
	"united states":        "US",
	"usa":                  "US",
	"eua":                  "US",
	"france":               "FR",
	"francia":              "FR",
	"franca":               "FR",
	"germany":              "DE",
	"alemania":             "DE",
	"alemanha":             "DE",
	"guatemala":            "GT",
	"honduras":             "HN",
	"italia":               "IT",
	"italy":                "IT",
	"mexico":               "MX",
	"nicaragua":            "NI",
	"panama":               "PA",
	"paraguay":             "PY",
	"paraguai":             "PY",
	"peru":                 "PE",
	"portugal":             "PT",
	"puerto rico":          "PR",
	"republica dominicana": "DO",
	"reino unido":          "GB",
	"united kingdom":       "GB",
	"uk":                   "GB",
	"uruguay":              "UY",
	"uruguai":              "UY",
	"venezuela":            "VE",
}

// FlagEmoji returns the flag for a country name or ISO code, or a pin when
// the country is unknown.
func FlagEmoji(country string) string {
	key := normaliseCountry(country)
	code, ok := countryCodes[key]
	if !ok && len(key) == 2 && isASCIILetters(key) {
		code, ok = strings.ToUpper(key), true
	}
	if !ok {
		return locationPin
	}
	var b strings.Builder
	for _, r := range code {
		b.WriteRune(0x1F1E6 + (r - 'A'))
	}
	return b.String()
}

// normaliseCountry lower-cases and strips diacritics: "México" -> "mexico".
func normaliseCountry(s string) string {
	var b strings.Builder
	for _, r := range norm.NFD.String(strings.ToLower(strings.TrimSpace(s))) {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(r)
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

func isASCIILetters(s string) bool {
	for _, r := range s {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}
