package binder

import (
	"context"
	"fmt"
	"strconv"

	"github.com/okian/vitrine/pkg/logger"
	"github.com/okian/vitrine/pkg/metrics"
)

// Writer pushes resolved views into a Slots adapter.
type Writer struct {
	required []string
	logger   logger.Logger
}

// NewWriter creates a Writer. By default only the content slot is required.
func NewWriter(opts ...WriterOption) *Writer {
	w := &Writer{required: []string{SlotContent}}
	for _, opt := range opts {
		opt(w)
	}
	w.logger = logger.OrGlobal(w.logger).Named("binder")
	return w
}

// Write binds v into slots. Missing optional slots are skipped; a missing
// required slot aborts with ErrSlotMissing before anything is written.
func (w *Writer) Write(ctx context.Context, v View, slots Slots) error {
	for _, name := range w.required {
		if !slots.Has(name) {
			return fmt.Errorf("%w: %s", ErrSlotMissing, name)
		}
	}

	set := func(slot string, ok bool) {
		if !ok {
			w.logger.Debug(ctx, "slot not present in template; skipped", logger.String("slot", slot))
			metrics.RecordMissingSlot(slot)
		}
	}

	if v.Language != "" {
		slots.SetLanguage(v.Language)
	}
	set(SlotPageTitle, slots.SetText(SlotPageTitle, v.PageTitle))
	set(SlotName, slots.SetText(SlotName, v.Name))
	set(SlotTitle, slots.SetText(SlotTitle, v.Title))
	set(SlotDescription, slots.SetText(SlotDescription, v.Description))
	if v.Subtitle != "" {
		slots.SetText(SlotSubtitle, v.Subtitle)
		slots.Show(SlotSubtitle)
	} else {
		slots.Hide(SlotSubtitle)
	}

	w.writeMetric(slots, SlotScore, v.Score, set)
	w.writeMetric(slots, SlotProjects, v.Projects, set)
	w.writeMetric(slots, SlotExperience, v.Experience, set)

	set(SlotLocation, slots.SetText(SlotLocation, v.Location))

	set(SlotAvatar, slots.SetAttr(SlotAvatar, "src", v.Avatar.URL))
	slots.SetAttr(SlotAvatar, "alt", v.Avatar.Alt)
	slots.SetAttr(SlotAvatar, "data-synthesized", strconv.FormatBool(v.Avatar.Synthesized))

	if v.Banner.Visible {
		set(SlotBanner, slots.SetAttr(SlotBanner, "style", backgroundImage(v.Banner.URL)))
		slots.SetAttr(SlotBanner, "data-src", v.Banner.URL)
		slots.Show(SlotBanner)
	} else {
		slots.RemoveAttr(SlotBanner, "style")
		slots.Hide(SlotBanner)
	}

	w.writeSkills(slots, v, set)

	if v.Contact.Visible {
		set(SlotContact, slots.SetAttr(SlotContact, "href", v.Contact.URL))
		slots.SetAttr(SlotContact, "target", "_blank")
		slots.SetAttr(SlotContact, "rel", "noopener noreferrer")
		slots.Show(SlotContact)
	} else {
		slots.RemoveAttr(SlotContact, "href")
		slots.Hide(SlotContact)
	}

	writeList(slots, SlotFeatures, SlotFeatureList, len(v.Features), func(i int) Element {
		return Element{Tag: "li", Class: "feature-item", Text: v.Features[i]}
	})
	writeList(slots, SlotTestimonials, SlotQuoteList, len(v.Testimonials), func(i int) Element {
		return testimonialCard(v.Testimonials[i])
	})

	slots.Hide(SlotError)
	slots.Show(SlotContent)
	slots.Hide(SlotLoading)
	return nil
}

// WriteError replaces the main content with the error-state view.
func (w *Writer) WriteError(ctx context.Context, slots Slots, message string) error {
	if !slots.Has(SlotError) {
		return fmt.Errorf("%w: %s", ErrSlotMissing, SlotError)
	}
	slots.Hide(SlotContent)
	slots.Hide(SlotLoading)
	slots.SetText(SlotErrorMessage, message)
	slots.Show(SlotError)
	w.logger.Debug(ctx, "error view written")
	return nil
}

func (w *Writer) writeMetric(slots Slots, slot string, m Metric, set func(string, bool)) {
	set(slot, slots.SetText(slot, m.Text))
	if m.Placeholder {
		slots.RemoveAttr(slot, "data-target")
		slots.SetAttr(slot, "data-placeholder", "true")
		return
	}
	slots.SetAttr(slot, "data-target", strconv.FormatFloat(m.Target, 'f', m.Decimals, 64))
	slots.SetAttr(slot, "data-decimals", strconv.Itoa(m.Decimals))
}

func (w *Writer) writeSkills(slots Slots, v View, set func(string, bool)) {
	if !slots.Clear(SlotSkills) {
		set(SlotSkills, false)
		return
	}
	for i, s := range v.Skills {
		el := Element{
			Tag:   "span",
			Class: "skill-badge",
			Text:  s,
			Attrs: []Attr{{Name: "style", Value: "--badge-index:" + strconv.Itoa(i)}},
		}
		if v.SkillsEmpty {
			el.Class = "skill-badge skill-badge--empty"
		}
		slots.Append(SlotSkills, el)
	}
}

// writeList fills list with n elements and toggles the enclosing section.
func writeList(slots Slots, section, list string, n int, item func(int) Element) {
	if n == 0 {
		slots.Hide(section)
		return
	}
	if !slots.Clear(list) {
		slots.Hide(section)
		return
	}
	for i := 0; i < n; i++ {
		slots.Append(list, item(i))
	}
	slots.Show(section)
}

func testimonialCard(t TestimonialView) Element {
	author := []Element{{Tag: "h4", Class: "testimonial-name", Text: t.Name}}
	if t.Role != "" {
		author = append(author, Element{Tag: "p", Class: "testimonial-role", Text: t.Role})
	}
	if t.Rating > 0 {
		author = append(author, Element{
			Tag:   "div",
			Class: "rating",
			Text:  t.Stars,
			Attrs: []Attr{{Name: "aria-label", Value: strconv.Itoa(t.Rating) + "/5"}},
		})
	}
	return Element{
		Tag:   "div",
		Class: "testimonial-card",
		Children: []Element{
			{Tag: "blockquote", Class: "testimonial-text", Text: "“" + t.Text + "”"},
			{Tag: "div", Class: "testimonial-author", Children: author},
		},
	}
}

// backgroundImage builds a style value for url. Quotes, parentheses,
// backslashes and whitespace are percent-encoded so the URL cannot escape
// the CSS string.
func backgroundImage(url string) string {
	var b []byte
	for i := 0; i < len(url); i++ {
		c := url[i]
		switch c {
		case '"', '\'', '(', ')', '\\', ' ', '\t', '\n', '\r', '\f', ';', '<', '>':
			b = append(b, fmt.Sprintf("%%%02X", c)...)
		default:
			b = append(b, c)
		}
	}
	return `background-image:url("` + string(b) + `")`
}
