// Package profile contains the profile record carried by page payloads.
//
// A Record is a flat value of optional fields. It is built once per request
// (decoded or defaulted) and never mutated afterwards; helpers that need a
// variation return a copy.
package profile

// Record is the decoded profile payload. Every field is optional.
type Record struct {
	Name            string        `json:"name,omitempty" yaml:"name,omitempty"`
	Title           string        `json:"title,omitempty" yaml:"title,omitempty"`
	Subtitle        string        `json:"subtitle,omitempty" yaml:"subtitle,omitempty"`
	Description     string        `json:"description,omitempty" yaml:"description,omitempty"`
	PhotoURL        string        `json:"photoUrl,omitempty" yaml:"photoUrl,omitempty"`
	BannerURL       string        `json:"bannerUrl,omitempty" yaml:"bannerUrl,omitempty"`
	Skills          []string      `json:"skills" yaml:"skills,omitempty"`
	Score           string        `json:"score,omitempty" yaml:"score,omitempty"`
	ProjectCount    string        `json:"projectCount,omitempty" yaml:"projectCount,omitempty"`
	YearsExperience string        `json:"yearsExperience,omitempty" yaml:"yearsExperience,omitempty"`
	City            string        `json:"city,omitempty" yaml:"city,omitempty"`
	Country         string        `json:"country,omitempty" yaml:"country,omitempty"`
	WhatsApp        string        `json:"whatsappNumber,omitempty" yaml:"whatsappNumber,omitempty"`
	Language        string        `json:"language,omitempty" yaml:"language,omitempty"`
	Features        []string      `json:"features" yaml:"features,omitempty"`
	Testimonials    []Testimonial `json:"testimonials" yaml:"testimonials,omitempty"`
}

// Testimonial is a quote shown by skins that carry a testimonials section.
type Testimonial struct {
	Name   string `json:"name,omitempty" yaml:"name,omitempty"`
	Role   string `json:"role,omitempty" yaml:"role,omitempty"`
	Text   string `json:"text,omitempty" yaml:"text,omitempty"`
	Rating int    `json:"rating,omitempty" yaml:"rating,omitempty"`
}

// Clone returns a deep copy so callers can derive variations safely.
func (r Record) Clone() Record {
	out := r
	if r.Skills != nil {
		out.Skills = append([]string{}, r.Skills...)
	}
	if r.Features != nil {
		out.Features = append([]string{}, r.Features...)
	}
	if r.Testimonials != nil {
		out.Testimonials = append([]Testimonial{}, r.Testimonials...)
	}
	return out
}
