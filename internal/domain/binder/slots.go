package binder

// Slot names understood by the writer. Skins map them to CSS selectors.
const (
	SlotPageTitle    = "page-title"
	SlotContent      = "content"
	SlotLoading      = "loading"
	SlotError        = "error"
	SlotErrorMessage = "error-message"
	SlotName         = "name"
	SlotTitle        = "title"
	SlotSubtitle     = "subtitle"
	SlotDescription  = "description"
	SlotScore        = "score"
	SlotProjects     = "projects"
	SlotExperience   = "experience"
	SlotLocation     = "location"
	SlotAvatar       = "avatar"
	SlotBanner       = "banner"
	SlotSkills       = "skills"
	SlotContact      = "contact"
	SlotFeatures     = "features"
	SlotFeatureList  = "feature-list"
	SlotTestimonials = "testimonials"
	SlotQuoteList    = "testimonial-list"
)

// AllSlots lists every slot name in write order.
var AllSlots = []string{
	SlotPageTitle, SlotContent, SlotLoading, SlotError, SlotErrorMessage,
	SlotName, SlotTitle, SlotSubtitle, SlotDescription,
	SlotScore, SlotProjects, SlotExperience, SlotLocation,
	SlotAvatar, SlotBanner, SlotSkills, SlotContact,
	SlotFeatures, SlotFeatureList, SlotTestimonials, SlotQuoteList,
}

// Attr is one element attribute.
type Attr struct {
	Name  string
	Value string
}

// Element describes a node appended into a slot. Text is always inserted
// as a text node, never parsed as markup.
type Element struct {
	Tag      string
	Class    string
	Text     string
	Attrs    []Attr
	Children []Element
}

// Slots is the document adapter the writer binds into. Every method is a
// no-op returning false when the slot does not exist in the document.
type Slots interface {
	Has(slot string) bool
	SetText(slot, text string) bool
	SetAttr(slot, name, value string) bool
	RemoveAttr(slot, name string) bool
	Hide(slot string) bool
	Show(slot string) bool
	Clear(slot string) bool
	Append(slot string, el Element) bool
	SetLanguage(lang string)
}
