package binder

import (
	"testing"

	"github.com/okian/vitrine/internal/domain/profile"
	. "github.com/smartystreets/goconvey/convey"
)

func TestResolveEmptyRecord(t *testing.T) {
	Convey("Given an empty record", t, func() {
		ph := DefaultPlaceholders()
		v := Resolve(profile.Record{}, Probes{}, Options{})

		Convey("Every absent text field shows its placeholder", func() {
			So(v.Name, ShouldEqual, ph.Name)
			So(v.Title, ShouldEqual, ph.Title)
			So(v.Description, ShouldEqual, ph.Description)
			So(v.Location, ShouldEqual, ph.Location)
			So(v.Score.Text, ShouldEqual, ph.Score)
			So(v.Score.Placeholder, ShouldBeTrue)
			So(v.Projects.Text, ShouldEqual, ph.ProjectCount)
			So(v.Experience.Text, ShouldEqual, ph.YearsExperience)
			So(v.PageTitle, ShouldEqual, ph.Name)
		})

		Convey("Skills collapse to one placeholder badge", func() {
			So(v.Skills, ShouldResemble, []string{ph.Skills})
			So(v.SkillsEmpty, ShouldBeTrue)
		})

		Convey("The avatar is synthesized and optional elements are hidden", func() {
			So(v.Avatar.Synthesized, ShouldBeTrue)
			So(v.Avatar.Initials, ShouldEqual, "?")
			So(v.Banner.Visible, ShouldBeFalse)
			So(v.Contact.Visible, ShouldBeFalse)
			So(v.Subtitle, ShouldBeEmpty)
			So(v.Features, ShouldBeEmpty)
			So(v.Testimonials, ShouldBeEmpty)
		})

		Convey("All fallbacks are reported", func() {
			So(v.Fallbacks, ShouldResemble, []string{
				FieldName, FieldTitle, FieldDescription,
				FieldScore, FieldProjectCount, FieldYearsExperience,
				FieldLocation, FieldPhoto, FieldBanner, FieldSkills, FieldContact,
			})
		})
	})
}

func TestResolveFullRecord(t *testing.T) {
	Convey("Given a complete record with successful probes", t, func() {
		rec := profile.Record{
			Name:            "  Ana María ",
			Title:           "Designer",
			Subtitle:        "Design systems",
			Description:     "Builds things",
			PhotoURL:        "https://cdn.example.com/ana.png",
			BannerURL:       "https://cdn.example.com/banner.jpg",
			Skills:          []string{"Figma", " ", "UX", "Research"},
			Score:           "4.9",
			ProjectCount:    "120",
			YearsExperience: "10",
			City:            "Bogotá",
			Country:         "Colombia",
			WhatsApp:        "+57 300 123 4567",
			Features:        []string{"Fast", ""},
			Testimonials: []profile.Testimonial{
				{Name: "Leo", Text: "Great work", Rating: 5},
				{Name: "Empty"},
				{Text: "Unsigned praise", Rating: 3},
			},
		}
		v := Resolve(rec, Probes{Photo: true, Banner: true}, Options{FlagEmoji: true, Language: "es"})

		So(v.Name, ShouldEqual, "Ana María")
		So(v.PageTitle, ShouldEqual, "Ana María · Designer")
		So(v.Subtitle, ShouldEqual, "Design systems")
		So(v.Language, ShouldEqual, "es")
		So(v.Score.Text, ShouldEqual, "4.9")
		So(v.Score.Target, ShouldEqual, 4.9)
		So(v.Projects.Text, ShouldEqual, "120")
		So(v.Location, ShouldEqual, "🇨🇴 Bogotá, Colombia")
		So(v.Fallbacks, ShouldBeEmpty)

		Convey("Skills keep their order and drop blanks", func() {
			So(v.Skills, ShouldResemble, []string{"Figma", "UX", "Research"})
			So(v.SkillsEmpty, ShouldBeFalse)
		})

		Convey("Images use the probed URLs", func() {
			So(v.Avatar.URL, ShouldEqual, "https://cdn.example.com/ana.png")
			So(v.Avatar.Synthesized, ShouldBeFalse)
			So(v.Avatar.Alt, ShouldEqual, "Ana María")
			So(v.Banner.Visible, ShouldBeTrue)
		})

		Convey("The contact link is built", func() {
			So(v.Contact.Visible, ShouldBeTrue)
			So(v.Contact.URL, ShouldStartWith, "https://wa.me/573001234567?text=Hi%20Ana%20Mar%C3%ADa")
		})

		Convey("Empty features and testimonials are skipped", func() {
			So(v.Features, ShouldResemble, []string{"Fast"})
			So(len(v.Testimonials), ShouldEqual, 2)
			So(v.Testimonials[0].Stars, ShouldEqual, "★★★★★")
		})

		Convey("A testimonial without an author gets the placeholder author", func() {
			So(v.Testimonials[1].Name, ShouldEqual, DefaultPlaceholders().Author)
			pt := Resolve(rec, Probes{}, Options{Placeholders: Placeholders{Author: "Anônimo"}})
			So(pt.Testimonials[1].Name, ShouldEqual, "Anônimo")
		})

		Convey("A failed probe falls back to the synthesized avatar", func() {
			v := Resolve(rec, Probes{}, Options{})
			So(v.Avatar.Synthesized, ShouldBeTrue)
			So(v.Avatar.Initials, ShouldEqual, "AM")
			So(v.Banner.Visible, ShouldBeFalse)
			So(v.Fallbacks, ShouldResemble, []string{FieldPhoto, FieldBanner})
		})
	})
}

func TestResolvePlaceholderOverrides(t *testing.T) {
	Convey("Given partial placeholder overrides", t, func() {
		opts := Options{Placeholders: Placeholders{Name: "Nome indisponível"}}
		v := Resolve(profile.Record{Title: "Dev"}, Probes{}, opts)

		So(v.Name, ShouldEqual, "Nome indisponível")
		So(v.Description, ShouldEqual, DefaultPlaceholders().Description)
		So(v.PageTitle, ShouldEqual, "Nome indisponível · Dev")
	})
}

func TestResolveLanguage(t *testing.T) {
	Convey("The record language is used when no override is set", t, func() {
		v := Resolve(profile.Record{Language: "pt-BR"}, Probes{}, Options{})
		So(v.Language, ShouldEqual, "pt-BR")
	})
}

func TestPlaceholdersMerge(t *testing.T) {
	Convey("Merge fills only empty fields", t, func() {
		p := Placeholders{Score: "-"}.Merge(DefaultPlaceholders())
		So(p.Score, ShouldEqual, "-")
		So(p.Name, ShouldEqual, DefaultPlaceholders().Name)
	})
}
