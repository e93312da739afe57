package profile

import "github.com/google/go-cmp/cmp"

// Default returns the sample profile shown in preview mode and whenever a
// payload cannot be decoded. Every call returns an equal, independent value.
func Default() Record {
	return Record{
		Name:            "Ana Souza",
		Title:           "Product Designer",
		Subtitle:        "Design systems and mobile experiences",
		Description:     "Designer focused on clear, accessible interfaces. Ten years shaping products for startups and agencies across Latin America.",
		Skills:          []string{"UX Research", "UI Design", "Figma", "Design Systems", "Prototyping"},
		Score:           "4.9",
		ProjectCount:    "120",
		YearsExperience: "10",
		City:            "São Paulo",
		Country:         "Brasil",
		Language:        "en",
		Features:        []string{"Verified profile", "AI-assisted matching", "Secure payments", "24/7 support"},
		Testimonials: []Testimonial{
			{
				Name:   "María González",
				Role:   "Marketing Director",
				Text:   "Found the right designer for our project in less than 24 hours.",
				Rating: 5,
			},
			{
				Name:   "Carlos Mendoza",
				Role:   "Freelance UI/UX",
				Text:   "Clients I would never have reached otherwise. Professional and easy to use.",
				Rating: 5,
			},
		},
	}
}

// IsDefault reports whether r equals the default record field for field.
func IsDefault(r Record) bool {
	return Equal(r, Default())
}

// Equal compares two records field for field, treating nil and empty lists
// as different so round trips can be checked exactly.
func Equal(a, b Record) bool {
	return cmp.Equal(a, b)
}
