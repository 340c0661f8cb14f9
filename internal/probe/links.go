package probe

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pfrederiksen/venue-recon/internal/urlutil"
)

// CandidateLinks collects anchors whose href or text looks like an event
// listing, resolved against base, de-duplicated in page order and capped at max.
func CandidateLinks(doc *goquery.Document, base *url.URL, keywords *regexp.Regexp, max int) []string {
	links := make([]string, 0)
	if keywords == nil || max <= 0 {
		return links
	}

	seen := make(map[string]bool)
	doc.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		href, _ := a.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" || strings.HasPrefix(href, "#") || strings.HasPrefix(strings.ToLower(href), "mailto:") {
			return true
		}

		if !keywords.MatchString(href) && !keywords.MatchString(strings.TrimSpace(a.Text())) {
			return true
		}

		full, err := urlutil.Resolve(base, href)
		if err != nil || seen[full] {
			return true
		}
		seen[full] = true
		links = append(links, full)

		return len(links) < max
	})

	return links
}
