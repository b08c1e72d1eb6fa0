package scraper

import (
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"go-multisite-scraper/internal/extract"
)

// FieldError explains why one field of a detail page came back empty.
type FieldError struct {
	Field    string
	Selector string
	Reason   string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("field %s: %s (selector %q)", e.Field, e.Reason, e.Selector)
}

// Field is the outcome of extracting one value. Err is a *FieldError when
// Value is empty.
type Field struct {
	Value string
	Err   error
}

const (
	reasonNoMatch   = "no element matched"
	reasonEmptyText = "element has no text"
)

// Detail is a parsed HTML snapshot of one page. Every field is looked up
// independently so one missing element never hides the others.
type Detail struct {
	doc  *goquery.Document
	site string
	link string
	env  Env
}

// ParseDetail parses an HTML snapshot. Scripts and styles are dropped so
// body text fallbacks only see visible copy.
func ParseDetail(html, link, site string, env Env) (*Detail, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", link, err)
	}
	doc.Find("script, style, noscript, template").Remove()
	return &Detail{doc: doc, site: site, link: link, env: env}, nil
}

// Doc exposes the parsed document.
func (d *Detail) Doc() *goquery.Document {
	return d.doc
}

// Link is the page the snapshot was taken from.
func (d *Detail) Link() string {
	return d.link
}

// Lookup returns the text of the first selector that yields any.
func (d *Detail) Lookup(field string, selectors ...string) Field {
	reason := reasonNoMatch
	for _, sel := range selectors {
		s := d.doc.Find(sel).First()
		if s.Length() == 0 {
			continue
		}
		if text := extract.CleanText(s.Text()); text != "" {
			return Field{Value: text}
		}
		reason = reasonEmptyText
	}
	return Field{Err: &FieldError{Field: field, Selector: strings.Join(selectors, ", "), Reason: reason}}
}

// LookupAll joins the text of every element matched by selector.
func (d *Detail) LookupAll(field, selector, sep string) Field {
	var parts []string
	d.doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
		if text := extract.CleanText(s.Text()); text != "" {
			parts = append(parts, text)
		}
	})
	if len(parts) == 0 {
		return Field{Err: &FieldError{Field: field, Selector: selector, Reason: reasonNoMatch}}
	}
	return Field{Value: strings.Join(parts, sep)}
}

// AfterHeading returns the text of the element that follows the first
// heading (matched by headingSel) whose text contains one of the names,
// case-insensitively.
func (d *Detail) AfterHeading(field, headingSel string, names ...string) Field {
	var value string
	matched := false
	d.doc.Find(headingSel).EachWithBreak(func(_ int, h *goquery.Selection) bool {
		text := strings.ToLower(extract.CleanText(h.Text()))
		for _, name := range names {
			if strings.Contains(text, strings.ToLower(name)) {
				matched = true
				value = extract.CleanText(h.Next().Text())
				return value == ""
			}
		}
		return true
	})
	if value != "" {
		return Field{Value: value}
	}

	reason := reasonNoMatch
	if matched {
		reason = reasonEmptyText
	}
	return Field{Err: &FieldError{
		Field:    field,
		Selector: fmt.Sprintf("%s ~ %q + *", headingSel, strings.Join(names, "|")),
		Reason:   reason,
	}}
}

// Body is the visible text of the whole page.
func (d *Detail) Body() string {
	return extract.CleanText(d.doc.Find("body").Text())
}

// Text resolves a field result to a value, recording the failure when the
// field is empty.
func (d *Detail) Text(f Field) string {
	if f.Err != nil {
		d.miss(f.Err)
	}
	return f.Value
}

// Or returns the first field with a value. When all are empty the last
// error is kept.
func Or(fields ...Field) Field {
	var last Field
	for _, f := range fields {
		if f.Value != "" {
			return f
		}
		last = f
	}
	return last
}

func (d *Detail) miss(err error) {
	field := "unknown"
	var fe *FieldError
	if errors.As(err, &fe) {
		field = fe.Field
	}
	d.env.logger().Debug("field not found",
		zap.String("site", d.site),
		zap.String("link", d.link),
		zap.Error(err),
	)
	d.env.Metrics.IncFieldMiss(d.site, field)
}
