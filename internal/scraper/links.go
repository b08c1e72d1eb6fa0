package scraper

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// CanonicalLink resolves href against base and strips the query and
// fragment, which carry tracking ids that make one posting look like many.
func CanonicalLink(base *url.URL, href string) (string, bool) {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") || strings.HasPrefix(strings.ToLower(href), "javascript:") {
		return "", false
	}

	ref, err := url.Parse(href)
	if err != nil {
		return "", false
	}
	abs := ref
	if base != nil {
		abs = base.ResolveReference(ref)
	}
	if abs.Scheme != "http" && abs.Scheme != "https" {
		return "", false
	}

	abs.RawQuery = ""
	abs.ForceQuery = false
	abs.Fragment = ""
	abs.RawFragment = ""
	return abs.String(), true
}

// CollectLinks returns the distinct absolute links matched by selector whose
// path contains pathPart, in page order, capped at max (max <= 0 is no cap).
func CollectLinks(doc *goquery.Document, baseURL, selector, pathPart string, max int) []string {
	base, err := url.Parse(baseURL)
	if err != nil {
		base = nil
	}

	var links []string
	seen := make(map[string]bool)
	doc.Find(selector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		href, _ := s.Attr("href")
		link, ok := CanonicalLink(base, href)
		if !ok || seen[link] {
			return true
		}
		if pathPart != "" {
			u, err := url.Parse(link)
			if err != nil || !strings.Contains(u.Path, pathPart) {
				return true
			}
		}
		seen[link] = true
		links = append(links, link)
		return max <= 0 || len(links) < max
	})
	return links
}
