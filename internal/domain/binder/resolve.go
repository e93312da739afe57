package binder

import (
	"strings"

	"github.com/okian/vitrine/internal/domain/profile"
)

// Field names reported in View.Fallbacks.
const (
	FieldName            = "name"
	FieldTitle           = "title"
	FieldDescription     = "description"
	FieldScore           = "score"
	FieldProjectCount    = "projectCount"
	FieldYearsExperience = "yearsExperience"
	FieldLocation        = "location"
	FieldPhoto           = "photo"
	FieldBanner          = "banner"
	FieldSkills          = "skills"
	FieldContact         = "contact"
)

// Resolve maps a record onto display values. It has no side effects and
// never fails: each absent field becomes a placeholder, a synthesized
// avatar or a hidden element.
func Resolve(rec profile.Record, probes Probes, opts Options) View {
	ph := opts.Placeholders.Merge(DefaultPlaceholders())
	v := View{
		Language:     firstNonEmpty(opts.Language, rec.Language),
		Skills:       []string{},
		Features:     []string{},
		Testimonials: []TestimonialView{},
		Fallbacks:    []string{},
	}

	text := func(field, value, placeholder string) string {
		if s := strings.TrimSpace(value); s != "" {
			return s
		}
		v.Fallbacks = append(v.Fallbacks, field)
		return placeholder
	}

	v.Name = text(FieldName, rec.Name, ph.Name)
	v.Title = text(FieldTitle, rec.Title, ph.Title)
	v.Description = text(FieldDescription, rec.Description, ph.Description)
	v.Subtitle = strings.TrimSpace(rec.Subtitle)
	v.PageTitle = v.Name
	if strings.TrimSpace(rec.Title) != "" {
		v.PageTitle = v.Name + " · " + v.Title
	}

	metric := func(field string, m Metric, ok bool, placeholder string) Metric {
		if ok {
			return m
		}
		v.Fallbacks = append(v.Fallbacks, field)
		return Metric{Text: placeholder, Placeholder: true}
	}
	score, ok := FormatScore(rec.Score)
	v.Score = metric(FieldScore, score, ok, ph.Score)
	projects, ok := FormatCount(rec.ProjectCount)
	v.Projects = metric(FieldProjectCount, projects, ok, ph.ProjectCount)
	years, ok := FormatCount(rec.YearsExperience)
	v.Experience = metric(FieldYearsExperience, years, ok, ph.YearsExperience)

	if loc, ok := FormatLocation(rec.City, rec.Country, opts.FlagEmoji); ok {
		v.Location = loc
	} else {
		v.Location = ph.Location
		v.Fallbacks = append(v.Fallbacks, FieldLocation)
	}

	v.Avatar = resolveAvatar(rec, probes.Photo, v.Name)
	if v.Avatar.Synthesized {
		v.Fallbacks = append(v.Fallbacks, FieldPhoto)
	}

	if u, ok := UsableImageURL(rec.BannerURL); ok && probes.Banner {
		v.Banner = Image{URL: u, Visible: true}
	} else {
		v.Fallbacks = append(v.Fallbacks, FieldBanner)
	}

	for _, s := range rec.Skills {
		if s = strings.TrimSpace(s); s != "" {
			v.Skills = append(v.Skills, s)
		}
	}
	if len(v.Skills) == 0 {
		v.Skills = append(v.Skills, ph.Skills)
		v.SkillsEmpty = true
		v.Fallbacks = append(v.Fallbacks, FieldSkills)
	}

	if u, ok := ContactURL(rec.WhatsApp, rec.Name, opts.ContactMessage, ph.ContactNoun); ok {
		v.Contact = Link{URL: u, Visible: true}
	} else {
		v.Fallbacks = append(v.Fallbacks, FieldContact)
	}

	for _, f := range rec.Features {
		if f = strings.TrimSpace(f); f != "" {
			v.Features = append(v.Features, f)
		}
	}

	for _, t := range rec.Testimonials {
		quote := strings.TrimSpace(t.Text)
		if quote == "" {
			continue
		}
		stars, rating := Stars(t.Rating)
		v.Testimonials = append(v.Testimonials, TestimonialView{
			Name:   firstNonEmpty(strings.TrimSpace(t.Name), ph.Author),
			Role:   strings.TrimSpace(t.Role),
			Text:   quote,
			Rating: rating,
			Stars:  stars,
		})
	}
	return v
}

// resolveAvatar uses the photo only when it is an http(s) URL whose probe
// succeeded; otherwise the initials avatar is synthesized. displayName is
// the resolved name used for the alt text.
func resolveAvatar(rec profile.Record, probed bool, displayName string) Image {
	if u, ok := UsableImageURL(rec.PhotoURL); ok && probed {
		return Image{URL: u, Alt: displayName, Visible: true}
	}
	return Image{
		URL:         AvatarDataURI(rec.Name),
		Alt:         displayName,
		Visible:     true,
		Synthesized: true,
		Initials:    Initials(rec.Name),
	}
}

func firstNonEmpty(values ...string) string {
	for _, s := range values {
		if s = strings.TrimSpace(s); s != "" {
			return s
		}
	}
	return ""
}
