package binder

import (
	"encoding/base64"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestInitials(t *testing.T) {
	Convey("Given profile names", t, func() {
		Convey("Two tokens yield two initials", func() {
			So(Initials("Ana María"), ShouldEqual, "AM")
		})
		Convey("Only the first two tokens count", func() {
			So(Initials("juan carlos de la cruz"), ShouldEqual, "JC")
		})
		Convey("Non-ASCII first letters are upper-cased", func() {
			So(Initials("élodie ñúñez"), ShouldEqual, "ÉÑ")
		})
		Convey("Empty and blank names yield a question mark", func() {
			So(Initials(""), ShouldEqual, "?")
			So(Initials("   "), ShouldEqual, "?")
		})
	})
}

func TestFormatLocation(t *testing.T) {
	Convey("Given city and country parts", t, func() {
		loc, ok := FormatLocation("São Paulo", "Brasil", false)
		So(ok, ShouldBeTrue)
		So(loc, ShouldEqual, "São Paulo, Brasil")

		loc, ok = FormatLocation("", " Chile ", false)
		So(ok, ShouldBeTrue)
		So(loc, ShouldEqual, "Chile")

		loc, ok = FormatLocation("Lima", "", false)
		So(ok, ShouldBeTrue)
		So(loc, ShouldEqual, "Lima")

		_, ok = FormatLocation(" ", "", false)
		So(ok, ShouldBeFalse)

		Convey("The flag variant prefixes the emoji", func() {
			loc, ok := FormatLocation("Ciudad de México", "México", true)
			So(ok, ShouldBeTrue)
			So(loc, ShouldEqual, "🇲🇽 Ciudad de México, México")

			loc, _ = FormatLocation("Atlantis", "Atlantida", true)
			So(loc, ShouldStartWith, "📍 ")
		})
	})
}

func TestFlagEmoji(t *testing.T) {
	Convey("Country names and codes map to regional indicators", t, func() {
		So(FlagEmoji("Brasil"), ShouldEqual, "🇧🇷")
		So(FlagEmoji("ESPAÑA"), ShouldEqual, "🇪🇸")
		So(FlagEmoji("co"), ShouldEqual, "🇨🇴")
		So(FlagEmoji("República  Dominicana"), ShouldEqual, "🇩🇴")
		So(FlagEmoji(""), ShouldEqual, "📍")
		So(FlagEmoji("Narnia"), ShouldEqual, "📍")
	})
}

func TestContactURL(t *testing.T) {
	Convey("Given a phone number and a name", t, func() {
		u, ok := ContactURL("+57 300 123 4567", "Ana", "", "there")
		So(ok, ShouldBeTrue)
		So(u, ShouldStartWith, "https://wa.me/573001234567?text=")
		So(u, ShouldEqual, "https://wa.me/573001234567?text=Hi%20Ana%2C%20I%20found%20your%20profile%20and%20would%20like%20to%20talk.")

		Convey("An absent name uses the noun", func() {
			u, ok := ContactURL("5511999999999", "", "Olá {name}!", "você")
			So(ok, ShouldBeTrue)
			So(u, ShouldContainSubstring, "Ol%C3%A1%20voc%C3%AA%21")
		})

		Convey("A number without digits yields no link", func() {
			_, ok := ContactURL("call me", "Ana", "", "there")
			So(ok, ShouldBeFalse)
		})
	})
}

func TestFormatNumbers(t *testing.T) {
	Convey("Scores keep one decimal", t, func() {
		m, ok := FormatScore("4.85")
		So(ok, ShouldBeTrue)
		So(m.Text, ShouldEqual, "4.8")
		So(m.Decimals, ShouldEqual, 1)

		m, ok = FormatScore("4,9")
		So(ok, ShouldBeTrue)
		So(m.Text, ShouldEqual, "4.9")

		_, ok = FormatScore("great")
		So(ok, ShouldBeFalse)
		_, ok = FormatScore("NaN")
		So(ok, ShouldBeFalse)
	})

	Convey("Counts are integers", t, func() {
		m, ok := FormatCount("120+")
		So(ok, ShouldBeTrue)
		So(m.Text, ShouldEqual, "120")
		So(m.Target, ShouldEqual, 120)

		m, ok = FormatCount("1,500")
		So(ok, ShouldBeTrue)
		So(m.Text, ShouldEqual, "1500")

		m, ok = FormatCount("7.9")
		So(ok, ShouldBeTrue)
		So(m.Text, ShouldEqual, "7")

		_, ok = FormatCount("")
		So(ok, ShouldBeFalse)
	})
}

func TestStars(t *testing.T) {
	Convey("Ratings are clamped to five stars", t, func() {
		s, n := Stars(4)
		So(s, ShouldEqual, "★★★★")
		So(n, ShouldEqual, 4)
		s, n = Stars(9)
		So(s, ShouldEqual, "★★★★★")
		So(n, ShouldEqual, 5)
		s, n = Stars(-2)
		So(s, ShouldEqual, "")
		So(n, ShouldEqual, 0)
	})
}

func TestUsableImageURL(t *testing.T) {
	Convey("Only absolute http(s) URLs are usable", t, func() {
		_, ok := UsableImageURL("https://cdn.example.com/a.png")
		So(ok, ShouldBeTrue)
		_, ok = UsableImageURL("  http://example.com/b.jpg ")
		So(ok, ShouldBeTrue)
		_, ok = UsableImageURL("javascript:alert(1)")
		So(ok, ShouldBeFalse)
		_, ok = UsableImageURL("/relative.png")
		So(ok, ShouldBeFalse)
		_, ok = UsableImageURL("")
		So(ok, ShouldBeFalse)
	})
}

func TestAvatar(t *testing.T) {
	Convey("The synthesized avatar carries the initials", t, func() {
		svg := AvatarSVG("Ana María")
		So(svg, ShouldContainSubstring, ">AM</text>")
		So(svg, ShouldStartWith, "<svg")

		Convey("The colour is stable for a name", func() {
			So(AvatarSVG("Ana María"), ShouldEqual, svg)
		})

		Convey("The data URI decodes back to the SVG", func() {
			uri := AvatarDataURI("Ana María")
			So(uri, ShouldStartWith, "data:image/svg+xml;base64,")
			raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(uri, "data:image/svg+xml;base64,"))
			So(err, ShouldBeNil)
			So(string(raw), ShouldEqual, svg)
		})

		Convey("Markup in names is escaped", func() {
			So(AvatarSVG("<b"), ShouldContainSubstring, "&lt;")
		})
	})
}
