package binder

import (
	"math"
	"net/url"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	initialsFallback = "?"
	maxInitials      = 2
	maxStars         = 5
	locationPin      = "📍"
	waBaseURL        = "https://wa.me/"
)

// Initials returns the upper-cased first rune of each whitespace-separated
// token, at most two of them. An empty name yields "?".
func Initials(name string) string {
	var b strings.Builder
	n := 0
	for _, tok := range strings.Fields(name) {
		if n == maxInitials {
			break
		}
		r, _ := utf8.DecodeRuneInString(tok)
		if r == utf8.RuneError {
			continue
		}
		b.WriteRune(unicode.ToUpper(r))
		n++
	}
	if n == 0 {
		return initialsFallback
	}
	return b.String()
}

// FormatLocation joins city and country. With flag set the result is
// prefixed with the country's flag emoji or a pin for unknown countries.
// ok is false when neither part is present.
func FormatLocation(city, country string, flag bool) (string, bool) {
	city = strings.TrimSpace(city)
	country = strings.TrimSpace(country)

	var loc string
	switch {
	case city != "" && country != "":
		loc = city + ", " + country
	case city != "":
		loc = city
	case country != "":
		loc = country
	default:
		return "", false
	}
	if flag {
		loc = FlagEmoji(country) + " " + loc
	}
	return loc, true
}

// WhatsAppDigits strips every non-digit from a phone string.
func WhatsAppDigits(number string) string {
	var b strings.Builder
	for _, r := range number {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ContactURL builds the wa.me deep link. ok is false when the number holds
// no digits. template may contain {name}; noun replaces an empty name.
func ContactURL(number, name, template, noun string) (string, bool) {
	digits := WhatsAppDigits(strings.TrimSpace(number))
	if digits == "" {
		return "", false
	}
	if template == "" {
		template = DefaultContactMessage
	}
	who := strings.TrimSpace(name)
	if who == "" {
		who = noun
	}
	msg := strings.ReplaceAll(template, "{name}", who)
	return waBaseURL + digits + "?text=" + escapeComponent(msg), true
}

// escapeComponent matches JavaScript's encodeURIComponent for the characters
// that matter in a query value: spaces become %20, not '+'.
func escapeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// FormatScore renders a decimal string with one decimal place. A comma is
// accepted as decimal separator when no dot is present.
func FormatScore(raw string) (Metric, bool) {
	s := strings.TrimSpace(raw)
	if !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	f, ok := parseFinite(s)
	if !ok {
		return Metric{}, false
	}
	return Metric{Text: strconv.FormatFloat(f, 'f', 1, 64), Target: f, Decimals: 1}, true
}

// FormatCount renders an integer string. A trailing '+' and thousands
// separators are tolerated and fractions are floored.
func FormatCount(raw string) (Metric, bool) {
	s := strings.TrimSpace(raw)
	s = strings.TrimSuffix(s, "+")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, "_", "")
	f, ok := parseFinite(strings.TrimSpace(s))
	if !ok {
		return Metric{}, false
	}
	n := math.Floor(f)
	return Metric{Text: strconv.FormatFloat(n, 'f', 0, 64), Target: n}, true
}

func parseFinite(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// Stars renders a rating as filled stars, clamped to 0..5.
func Stars(rating int) (string, int) {
	if rating < 0 {
		rating = 0
	}
	if rating > maxStars {
		rating = maxStars
	}
	return strings.Repeat("★", rating), rating
}

// UsableImageURL reports whether s is an absolute http(s) URL that may be
// probed and placed in an image slot.
func UsableImageURL(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	u, err := url.Parse(s)
	if err != nil || u.Host == "" {
		return "", false
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return u.String(), true
	}
	return "", false
}
