package scraper

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Document is the parsed form of one fetched page. Extraction and frontier
// building only see this capability set, never the underlying HTML library,
// so both can be tested with fixture documents and no network.
type Document struct {
	doc *goquery.Document
}

// ParseDocument builds a Document from raw HTML.
func ParseDocument(body []byte) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return &Document{doc: doc}, nil
}

// StructuredDataBlocks returns the raw contents of every
// <script type="application/ld+json"> block, in document order.
func (d *Document) StructuredDataBlocks() []string {
	var blocks []string
	d.doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, s *goquery.Selection) {
		if raw := strings.TrimSpace(s.Text()); raw != "" {
			blocks = append(blocks, raw)
		}
	})
	return blocks
}

// FallbackTitle returns the best page-level title candidate: og:title when
// present, otherwise the <title> text. Empty string when neither exists.
func (d *Document) FallbackTitle() string {
	if og, ok := d.doc.Find(`meta[property="og:title"]`).Attr("content"); ok {
		if og = strings.TrimSpace(og); og != "" {
			return og
		}
	}
	return strings.TrimSpace(d.doc.Find("title").First().Text())
}

// FallbackImage returns the og:image content, if any.
func (d *Document) FallbackImage() string {
	img, _ := d.doc.Find(`meta[property="og:image"]`).Attr("content")
	return strings.TrimSpace(img)
}

// CanonicalLink returns the href of <link rel="canonical">, if any.
func (d *Document) CanonicalLink() string {
	href, _ := d.doc.Find(`link[rel="canonical"]`).Attr("href")
	return strings.TrimSpace(href)
}

// Links returns every anchor href whose path matches the given shape
// predicate, in document order. Hrefs are returned as written; resolution
// against a base URL is the frontier builder's job.
func (d *Document) Links(match func(href string) bool) []string {
	var hrefs []string
	d.doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, ok := s.Attr("href")
		if !ok {
			return
		}
		href = strings.TrimSpace(href)
		if href != "" && match(href) {
			hrefs = append(hrefs, href)
		}
	})
	return hrefs
}
