// Package dom binds template slots onto a parsed HTML document.
//
// A Document wraps a goquery tree and resolves slot names to CSS selectors.
// Slots without an explicit selector are looked up as [data-slot="name"].
// All text is inserted as text nodes, so values from a payload can never
// introduce markup.
package dom

import (
	"bytes"
	"fmt"
	"io"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/okian/vitrine/internal/domain/binder"
)

const (
	attrHidden     = "hidden"
	attrAriaHidden = "aria-hidden"
	defaultTag     = "span"
)

// Document is a mutable HTML document addressed by slot names.
type Document struct {
	doc       *goquery.Document
	selectors map[string]string
}

var _ binder.Slots = (*Document)(nil)

// Parse reads an HTML document. selectors maps slot names to CSS selectors
// and may be nil.
func Parse(r io.Reader, selectors map[string]string) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	sel := make(map[string]string, len(selectors))
	for k, v := range selectors {
		sel[k] = v
	}
	return &Document{doc: doc, selectors: sel}, nil
}

// ParseBytes is Parse over an in-memory template.
func ParseBytes(b []byte, selectors map[string]string) (*Document, error) {
	return Parse(bytes.NewReader(b), selectors)
}

// Selector returns the CSS selector used for slot.
func (d *Document) Selector(slot string) string {
	if s, ok := d.selectors[slot]; ok && s != "" {
		return s
	}
	return fmt.Sprintf("[data-slot=%q]", slot)
}

func (d *Document) find(slot string) *goquery.Selection {
	return d.doc.Find(d.Selector(slot))
}

// Has reports whether the slot matches at least one element.
func (d *Document) Has(slot string) bool {
	return d.find(slot).Length() > 0
}

// SetText replaces the slot's children with a single text node.
func (d *Document) SetText(slot, text string) bool {
	s := d.find(slot)
	if s.Length() == 0 {
		return false
	}
	s.SetText(text)
	return true
}

// SetAttr sets an attribute on every element of the slot.
func (d *Document) SetAttr(slot, name, value string) bool {
	s := d.find(slot)
	if s.Length() == 0 {
		return false
	}
	s.SetAttr(name, value)
	return true
}

// RemoveAttr removes an attribute from every element of the slot.
func (d *Document) RemoveAttr(slot, name string) bool {
	s := d.find(slot)
	if s.Length() == 0 {
		return false
	}
	s.RemoveAttr(name)
	return true
}

// Hide marks the slot hidden for rendering and assistive technology.
func (d *Document) Hide(slot string) bool {
	s := d.find(slot)
	if s.Length() == 0 {
		return false
	}
	s.SetAttr(attrHidden, "")
	s.SetAttr(attrAriaHidden, "true")
	return true
}

// Show undoes Hide.
func (d *Document) Show(slot string) bool {
	s := d.find(slot)
	if s.Length() == 0 {
		return false
	}
	s.RemoveAttr(attrHidden)
	s.RemoveAttr(attrAriaHidden)
	return true
}

// Clear removes all children of the slot.
func (d *Document) Clear(slot string) bool {
	s := d.find(slot)
	if s.Length() == 0 {
		return false
	}
	s.Empty()
	return true
}

// Append adds el as the last child of the slot.
func (d *Document) Append(slot string, el binder.Element) bool {
	s := d.find(slot)
	if s.Length() == 0 {
		return false
	}
	s.AppendNodes(buildNode(el))
	return true
}

// SetLanguage sets the lang attribute of the root element.
func (d *Document) SetLanguage(lang string) {
	d.doc.Find("html").SetAttr("lang", lang)
}

// Text returns the text content of the slot.
func (d *Document) Text(slot string) (string, bool) {
	s := d.find(slot)
	if s.Length() == 0 {
		return "", false
	}
	return s.First().Text(), true
}

// Attr returns an attribute of the slot's first element.
func (d *Document) Attr(slot, name string) (string, bool) {
	return d.find(slot).First().Attr(name)
}

// Hidden reports whether the slot's first element carries the hidden attribute.
func (d *Document) Hidden(slot string) bool {
	_, ok := d.find(slot).First().Attr(attrHidden)
	return ok
}

// Children returns the number of element children of the slot.
func (d *Document) Children(slot string) int {
	return d.find(slot).First().Children().Length()
}

// Missing lists the slots in names that match nothing.
func (d *Document) Missing(names ...string) []string {
	var out []string
	for _, n := range names {
		if !d.Has(n) {
			out = append(out, n)
		}
	}
	return out
}

// Language returns the lang attribute of the root element.
func (d *Document) Language() string {
	lang, _ := d.doc.Find("html").Attr("lang")
	return lang
}

// Render writes the document as HTML.
func (d *Document) Render(w io.Writer) error {
	for _, n := range d.doc.Nodes {
		if err := html.Render(w, n); err != nil {
			return fmt.Errorf("%w: %w", ErrRender, err)
		}
	}
	return nil
}

// Bytes renders the document into memory.
func (d *Document) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := d.Render(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func buildNode(el binder.Element) *html.Node {
	tag := el.Tag
	if tag == "" {
		tag = defaultTag
	}
	n := &html.Node{Type: html.ElementNode, Data: tag, DataAtom: atom.Lookup([]byte(tag))}
	if el.Class != "" {
		n.Attr = append(n.Attr, html.Attribute{Key: "class", Val: el.Class})
	}
	for _, a := range el.Attrs {
		n.Attr = append(n.Attr, html.Attribute{Key: a.Name, Val: a.Value})
	}
	if el.Text != "" {
		n.AppendChild(&html.Node{Type: html.TextNode, Data: el.Text})
	}
	for _, c := range el.Children {
		n.AppendChild(buildNode(c))
	}
	return n
}
