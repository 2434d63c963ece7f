// Package render binds report content into the page template. Page wraps
// the parsed document; the fragment renderers turn document values into
// markup for its containers.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/TobiSchelling/hotelreport/internal/logger"
)

// Page is a parsed report page addressed by container id. Missing
// containers are skipped, so a trimmed template still renders.
type Page struct {
	doc *goquery.Document
}

// ParsePage parses an HTML document.
func ParsePage(r io.Reader) (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing page: %w", err)
	}
	return &Page{doc: doc}, nil
}

// NewPage parses an HTML document held in a string.
func NewPage(html string) (*Page, error) {
	return ParsePage(strings.NewReader(html))
}

// Document exposes the underlying goquery document for inspection.
func (p *Page) Document() *goquery.Document {
	return p.doc
}

func (p *Page) byID(id string) *goquery.Selection {
	sel := p.doc.Find("#" + id)
	if sel.Length() == 0 {
		logger.Log.Debugf("render: container %q not found", id)
	}
	return sel.First()
}

// Append adds fragment after the existing children of container id.
func (p *Page) Append(id, fragment string) {
	p.byID(id).AppendHtml(fragment)
}

// Clear removes all children of the given containers.
func (p *Page) Clear(ids ...string) {
	for _, id := range ids {
		p.byID(id).Empty()
	}
}

// SetText replaces the content of container id with escaped text.
func (p *Page) SetText(id, text string) {
	p.byID(id).SetText(text)
}

// SetHTML replaces the content of container id with markup.
func (p *Page) SetHTML(id, markup string) {
	p.byID(id).SetHtml(markup)
}

// SetAttr sets an attribute on container id.
func (p *Page) SetAttr(id, key, value string) {
	p.byID(id).SetAttr(key, value)
}

// SetTextAll replaces the text of every element matching selector.
func (p *Page) SetTextAll(selector, text string) {
	p.doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
		s.SetText(text)
	})
}

// Text returns the text content of container id.
func (p *Page) Text(id string) string {
	return p.doc.Find("#" + id).First().Text()
}

// Remove deletes every element matching selector.
func (p *Page) Remove(selector string) {
	p.doc.Find(selector).Remove()
}

// PageIDs returns the ids of the .page sections in document order.
func (p *Page) PageIDs() []string {
	var ids []string
	p.doc.Find(".page").Each(func(_ int, s *goquery.Selection) {
		if id, ok := s.Attr("id"); ok && id != "" {
			ids = append(ids, id)
		}
	})
	return ids
}

// HTML serializes the whole document.
func (p *Page) HTML() (string, error) {
	out, err := p.doc.Html()
	if err != nil {
		return "", fmt.Errorf("serializing page: %w", err)
	}
	return out, nil
}

// Clone returns an independent copy of the page.
func (p *Page) Clone() (*Page, error) {
	out, err := p.HTML()
	if err != nil {
		return nil, err
	}
	return NewPage(out)
}
