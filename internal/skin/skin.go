// Package skin holds the embedded page templates a profile can be shown in.
//
// A skin pairs an HTML document with the selectors of its slots, the
// placeholder strings of its language and a few presentation switches.
package skin

import (
	"embed"
	"fmt"
	"sort"
	"strings"

	"github.com/okian/vitrine/internal/domain/binder"
)

// Built-in skin names.
const (
	Card    = "card"
	Perfil  = "perfil"
	Landing = "landing"
)

//go:embed templates/*.html
var templates embed.FS

// Skin is one page template.
type Skin struct {
	Name     string
	Language string
	// Document is the raw HTML template.
	Document []byte
	// Selectors maps slot names to CSS selectors; unlisted slots use
	// [data-slot="name"].
	Selectors      map[string]string
	Placeholders   binder.Placeholders
	ContactMessage string
	FlagEmoji      bool
}

// Options builds the resolve options for this skin. Non-empty fields of
// override win over the skin's own placeholders; message replaces the
// contact template when set.
func (s Skin) Options(override binder.Placeholders, message string) binder.Options {
	msg := s.ContactMessage
	if message != "" {
		msg = message
	}
	return binder.Options{
		Placeholders:   override.Merge(s.Placeholders),
		FlagEmoji:      s.FlagEmoji,
		ContactMessage: msg,
	}
}

func builtins() ([]Skin, error) {
	defs := []Skin{
		{
			Name:           Card,
			Language:       "en",
			Placeholders:   binder.DefaultPlaceholders(),
			ContactMessage: binder.DefaultContactMessage,
		},
		{
			Name:     Perfil,
			Language: "pt-BR",
			Selectors: map[string]string{
				binder.SlotPageTitle:    "#titulo-pagina",
				binder.SlotLoading:      "#carregando",
				binder.SlotContent:      "#perfil",
				binder.SlotError:        "#erro",
				binder.SlotErrorMessage: "#mensagem-erro",
				binder.SlotBanner:       "#capa",
				binder.SlotAvatar:       "#foto",
				binder.SlotName:         "#nome",
				binder.SlotTitle:        "#profissao",
				binder.SlotSubtitle:     "#subtitulo",
				binder.SlotLocation:     "#localizacao",
				binder.SlotScore:        "#avaliacao",
				binder.SlotProjects:     "#projetos",
				binder.SlotExperience:   "#experiencia",
				binder.SlotDescription:  "#descricao",
				binder.SlotSkills:       "#habilidades",
				binder.SlotContact:      "#contato",
			},
			Placeholders: binder.Placeholders{
				Name:            "Nome não disponível",
				Title:           "Profissão não informada",
				Description:     "Descrição não disponível",
				Score:           "N/D",
				ProjectCount:    "N/D",
				YearsExperience: "N/D",
				Location:        "Localização não informada",
				Skills:          "Nenhuma habilidade informada",
				ContactNoun:     "tudo bem",
				Author:          "Anônimo",
				Error:           "Não foi possível exibir este perfil. Tente novamente mais tarde.",
			},
			ContactMessage: "Olá {name}, vi seu perfil e gostaria de conversar.",
			FlagEmoji:      true,
		},
		{
			Name:     Landing,
			Language: "es",
			Selectors: map[string]string{
				binder.SlotName:        "#hero-title",
				binder.SlotTitle:       "#hero-subtitle",
				binder.SlotSubtitle:    "#hero-tagline",
				binder.SlotDescription: "#hero-description",
				binder.SlotQuoteList:   "#testimonials-track",
			},
			Placeholders: binder.Placeholders{
				Name:            "Nombre no disponible",
				Title:           "Título no disponible",
				Description:     "Descripción no disponible",
				Score:           "N/D",
				ProjectCount:    "N/D",
				YearsExperience: "N/D",
				Location:        "Ubicación no disponible",
				Skills:          "Sin habilidades registradas",
				ContactNoun:     "equipo",
				Author:          "Anónimo",
				Error:           "No pudimos mostrar esta página. Inténtalo de nuevo más tarde.",
			},
			ContactMessage: "Hola {name}, vi tu perfil y me gustaría conversar.",
			FlagEmoji:      true,
		},
	}

	for i := range defs {
		doc, err := templates.ReadFile("templates/" + defs[i].Name + ".html")
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrTemplate, defs[i].Name, err)
		}
		defs[i].Document = doc
	}
	return defs, nil
}

// Registry resolves skins by name.
type Registry struct {
	skins map[string]Skin
	def   string
}

// NewRegistry loads the built-in skins.
func NewRegistry(opts ...Option) (*Registry, error) {
	defs, err := builtins()
	if err != nil {
		return nil, err
	}
	r := &Registry{skins: make(map[string]Skin, len(defs)), def: Card}
	for _, s := range defs {
		r.skins[s.Name] = s
	}
	for _, opt := range opts {
		opt(r)
	}
	if _, ok := r.skins[r.def]; !ok {
		return nil, fmt.Errorf("%w: default %q", ErrUnknownSkin, r.def)
	}
	return r, nil
}

// Get returns the named skin. Names are case-insensitive.
func (r *Registry) Get(name string) (Skin, error) {
	s, ok := r.skins[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Skin{}, fmt.Errorf("%w: %q", ErrUnknownSkin, name)
	}
	return s, nil
}

// Lookup returns the named skin, or the default one for an empty name.
func (r *Registry) Lookup(name string) (Skin, error) {
	if strings.TrimSpace(name) == "" {
		return r.Default(), nil
	}
	return r.Get(name)
}

// Default returns the default skin.
func (r *Registry) Default() Skin {
	return r.skins[r.def]
}

// Names lists the registered skins in alphabetical order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.skins))
	for n := range r.skins {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
