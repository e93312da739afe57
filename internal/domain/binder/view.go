// Package binder maps a profile record onto template slots.
//
// Binding is split in two: Resolve is a pure function from record (plus
// image probe outcomes) to display values, and Writer pushes a resolved View
// into any Slots implementation. Only the second step touches a document.
package binder

// Placeholders are the fixed strings shown when a field is absent.
type Placeholders struct {
	Name            string `koanf:"name" json:"name"`
	Title           string `koanf:"title" json:"title"`
	Description     string `koanf:"description" json:"description"`
	Score           string `koanf:"score" json:"score"`
	ProjectCount    string `koanf:"project_count" json:"projectCount"`
	YearsExperience string `koanf:"years_experience" json:"yearsExperience"`
	Location        string `koanf:"location" json:"location"`
	Skills          string `koanf:"skills" json:"skills"`
	// ContactNoun replaces the name in the contact message when the name is absent.
	ContactNoun string `koanf:"contact_noun" json:"contactNoun"`
	// Author names a testimonial whose author is absent.
	Author string `koanf:"author" json:"author"`
	// Error is the message of the error-state view.
	Error string `koanf:"error" json:"error"`
}

// DefaultPlaceholders returns the English placeholder set.
func DefaultPlaceholders() Placeholders {
	return Placeholders{
		Name:            "Name unavailable",
		Title:           "Title unavailable",
		Description:     "No description available",
		Score:           "N/A",
		ProjectCount:    "N/A",
		YearsExperience: "N/A",
		Location:        "Location unavailable",
		Skills:          "No skills available",
		ContactNoun:     "there",
		Author:          "Anonymous",
		Error:           "This profile could not be displayed. Please try again later.",
	}
}

// Merge returns p with every empty field taken from fallback.
func (p Placeholders) Merge(fallback Placeholders) Placeholders {
	pick := func(a, b string) string {
		if a != "" {
			return a
		}
		return b
	}
	return Placeholders{
		Name:            pick(p.Name, fallback.Name),
		Title:           pick(p.Title, fallback.Title),
		Description:     pick(p.Description, fallback.Description),
		Score:           pick(p.Score, fallback.Score),
		ProjectCount:    pick(p.ProjectCount, fallback.ProjectCount),
		YearsExperience: pick(p.YearsExperience, fallback.YearsExperience),
		Location:        pick(p.Location, fallback.Location),
		Skills:          pick(p.Skills, fallback.Skills),
		ContactNoun:     pick(p.ContactNoun, fallback.ContactNoun),
		Author:          pick(p.Author, fallback.Author),
		Error:           pick(p.Error, fallback.Error),
	}
}

// DefaultContactMessage is the WhatsApp message template; {name} is replaced.
const DefaultContactMessage = "Hi {name}, I found your profile and would like to talk."

// Options tune Resolve for one skin.
type Options struct {
	Placeholders Placeholders
	// FlagEmoji prefixes the location with the country's flag.
	FlagEmoji bool
	// ContactMessage is the message template for the contact link.
	ContactMessage string
	// Language overrides the record's language for the page.
	Language string
}

// Probes carries the outcome of the optional image preloads.
type Probes struct {
	Photo  bool
	Banner bool
}

// Metric is a numeric display value with its counter target.
type Metric struct {
	Text        string  `json:"text"`
	Target      float64 `json:"target"`
	Decimals    int     `json:"decimals"`
	Placeholder bool    `json:"placeholder"`
}

// Image is a resolved image slot.
type Image struct {
	URL         string `json:"url,omitempty"`
	Alt         string `json:"alt,omitempty"`
	Visible     bool   `json:"visible"`
	Synthesized bool   `json:"synthesized"`
	Initials    string `json:"initials,omitempty"`
}

// Link is a resolved action control.
type Link struct {
	URL     string `json:"url,omitempty"`
	Visible bool   `json:"visible"`
}

// TestimonialView is a display-ready testimonial card.
type TestimonialView struct {
	Name   string `json:"name"`
	Role   string `json:"role,omitempty"`
	Text   string `json:"text"`
	Rating int    `json:"rating"`
	Stars  string `json:"stars"`
}

// View is the fully resolved page content. Every text field is non-empty
// unless the matching element is hidden.
type View struct {
	Language     string            `json:"language,omitempty"`
	PageTitle    string            `json:"pageTitle"`
	Name         string            `json:"name"`
	Title        string            `json:"title"`
	Subtitle     string            `json:"subtitle,omitempty"`
	Description  string            `json:"description"`
	Score        Metric            `json:"score"`
	Projects     Metric            `json:"projects"`
	Experience   Metric            `json:"experience"`
	Location     string            `json:"location"`
	Avatar       Image             `json:"avatar"`
	Banner       Image             `json:"banner"`
	Skills       []string          `json:"skills"`
	SkillsEmpty  bool              `json:"skillsEmpty"`
	Contact      Link              `json:"contact"`
	Features     []string          `json:"features"`
	Testimonials []TestimonialView `json:"testimonials"`
	// Fallbacks names the fields that were replaced by placeholders.
	Fallbacks []string `json:"fallbacks"`
}
