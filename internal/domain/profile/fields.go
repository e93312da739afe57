package profile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Aliases lists, per canonical key, every JSON key accepted for the field.
// Earlier entries win when a payload carries more than one of them. The
// extra spellings come from the Portuguese and Spanish page variants.
var Aliases = map[string][]string{
	"name":            {"name", "nome", "nombre"},
	"title":           {"title", "titulo", "título", "cargo", "profissao", "profesion"},
	"subtitle":        {"subtitle", "subtitulo", "subtítulo"},
	"description":     {"description", "descricao", "descrição", "descripcion", "descripción", "bio", "sobre"},
	"photoUrl":        {"photoUrl", "photo", "foto", "fotoUrl", "avatar"},
	"bannerUrl":       {"bannerUrl", "banner", "capa", "portada"},
	"skills":          {"skills", "habilidades"},
	"score":           {"score", "rating", "avaliacao", "nota", "calificacion"},
	"projectCount":    {"projectCount", "projects", "projetos", "proyectos"},
	"yearsExperience": {"yearsExperience", "experience", "experiencia", "anosExperiencia"},
	"city":            {"city", "cidade", "ciudad"},
	"country":         {"country", "pais", "país"},
	"whatsappNumber":  {"whatsappNumber", "whatsapp", "telefone", "telefono", "phone"},
	"language":        {"language", "lang", "idioma"},
	"features":        {"features", "caracteristicas", "características", "recursos"},
	"testimonials":    {"testimonials", "testimonios", "depoimentos"},
}

// statsAliases name the nested statistics object and the keys read from it
// when the top-level metric is absent.
var (
	statsAliases      = []string{"stats", "statistics", "estadisticas", "estatisticas"}
	statsFieldAliases = map[string][]string{
		"score":           {"score", "satisfaction", "satisfaccion", "satisfacao", "satisfação", "rating"},
		"projectCount":    {"projectCount", "projects", "proyectos", "projetos"},
		"yearsExperience": {"yearsExperience", "experience", "experiencia"},
	}
)

var testimonialAliases = map[string][]string{
	"name":   {"name", "nome", "nombre"},
	"role":   {"role", "cargo"},
	"text":   {"text", "texto"},
	"rating": {"rating", "nota"},
}

// object is a decoded JSON object with alias-aware lookups.
type object map[string]json.RawMessage

func parseObject(data []byte) (object, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, ErrNotObject
	}
	var obj object
	if err := json.Unmarshal(trimmed, &obj); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotObject, err)
	}
	return obj, nil
}

// lookup returns the first present alias. Exact matches beat
// case-insensitive ones, mirroring encoding/json.
func (o object) lookup(aliases []string) (json.RawMessage, bool) {
	for _, a := range aliases {
		if raw, ok := o[a]; ok {
			return raw, true
		}
	}
	for _, a := range aliases {
		for k, raw := range o {
			if strings.EqualFold(k, a) {
				return raw, true
			}
		}
	}
	return nil, false
}

func (o object) text(aliases []string) string {
	raw, ok := o.lookup(aliases)
	if !ok {
		return ""
	}
	s, _ := decodeText(raw)
	return s
}

func (o object) list(aliases []string) []string {
	raw, ok := o.lookup(aliases)
	if !ok {
		return nil
	}
	return decodeList(raw)
}

// decodeText accepts a JSON string or number. Numbers keep their literal
// text so 4.9 and "4.9" decode the same way.
func decodeText(raw json.RawMessage) (string, bool) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return "", false
	}
	switch t := v.(type) {
	case string:
		return t, true
	case json.Number:
		return t.String(), true
	default:
		return "", false
	}
}

// decodeList accepts an array of strings/numbers or a comma-separated string.
func decodeList(raw json.RawMessage) []string {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		s, ok := decodeText(raw)
		if !ok {
			return nil
		}
		return splitList(s)
	}
	if items == nil {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := decodeText(item); ok {
			out = append(out, s)
		}
	}
	return out
}

func splitList(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// UnmarshalJSON decodes a payload object, accepting every alias in Aliases.
// Fields of an unexpected JSON type are treated as absent.
func (r *Record) UnmarshalJSON(data []byte) error {
	obj, err := parseObject(data)
	if err != nil {
		return err
	}
	*r = fromObject(obj)
	return nil
}

func fromObject(obj object) Record {
	rec := Record{
		Name:            obj.text(Aliases["name"]),
		Title:           obj.text(Aliases["title"]),
		Subtitle:        obj.text(Aliases["subtitle"]),
		Description:     obj.text(Aliases["description"]),
		PhotoURL:        obj.text(Aliases["photoUrl"]),
		BannerURL:       obj.text(Aliases["bannerUrl"]),
		Skills:          obj.list(Aliases["skills"]),
		Score:           obj.text(Aliases["score"]),
		ProjectCount:    obj.text(Aliases["projectCount"]),
		YearsExperience: obj.text(Aliases["yearsExperience"]),
		City:            obj.text(Aliases["city"]),
		Country:         obj.text(Aliases["country"]),
		WhatsApp:        obj.text(Aliases["whatsappNumber"]),
		Language:        obj.text(Aliases["language"]),
		Features:        obj.list(Aliases["features"]),
	}

	if raw, ok := obj.lookup(statsAliases); ok {
		if stats, err := parseObject(raw); err == nil {
			fill := func(dst *string, key string) {
				if *dst == "" {
					*dst = stats.text(statsFieldAliases[key])
				}
			}
			fill(&rec.Score, "score")
			fill(&rec.ProjectCount, "projectCount")
			fill(&rec.YearsExperience, "yearsExperience")
		}
	}

	if raw, ok := obj.lookup(Aliases["testimonials"]); ok {
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err == nil && items != nil {
			rec.Testimonials = make([]Testimonial, 0, len(items))
			for _, item := range items {
				var t Testimonial
				if err := json.Unmarshal(item, &t); err == nil {
					rec.Testimonials = append(rec.Testimonials, t)
				}
			}
		}
	}
	return rec
}

// UnmarshalJSON decodes a testimonial object with alias support.
func (t *Testimonial) UnmarshalJSON(data []byte) error {
	obj, err := parseObject(data)
	if err != nil {
		return err
	}
	*t = Testimonial{
		Name:   obj.text(testimonialAliases["name"]),
		Role:   obj.text(testimonialAliases["role"]),
		Text:   obj.text(testimonialAliases["text"]),
		Rating: parseRating(obj.text(testimonialAliases["rating"])),
	}
	return nil
}

func parseRating(s string) int {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) {
		return 0
	}
	return int(math.Round(f))
}
