package discovery

import (
	"fmt"
	"strings"

	"github.com/pfrederiksen/venue-recon/internal/config"
	"github.com/pfrederiksen/venue-recon/internal/directory"
	"github.com/pfrederiksen/venue-recon/internal/registry"
	"github.com/pfrederiksen/venue-recon/internal/urlutil"
	"github.com/pfrederiksen/venue-recon/internal/venue"
)

// Reason names why an entry was excluded
type Reason string

const (
	ReasonNoURL             Reason = "no-url"
	ReasonSkipDomain        Reason = "social-or-ticketing"
	ReasonAlreadyConfigured Reason = "already-configured"
	ReasonNonArts           Reason = "non-arts"
)

// Reasons returns every exclusion reason in the order checks are applied
func Reasons() []Reason {
	return []Reason{ReasonNoURL, ReasonSkipDomain, ReasonAlreadyConfigured, ReasonNonArts}
}

// Stats counts what the filter did
type Stats struct {
	Total    int            `json:"total"`
	Accepted int            `json:"accepted"`
	Excluded map[Reason]int `json:"excluded"`
}

func newStats() Stats {
	return Stats{Excluded: make(map[Reason]int)}
}

// String renders the one-line diagnostic
func (s Stats) String() string {
	return fmt.Sprintf("%d of %d entries accepted (skipped: %d non-arts, %d no-url, %d social-only, %d already-configured)",
		s.Accepted, s.Total,
		s.Excluded[ReasonNonArts], s.Excluded[ReasonNoURL],
		s.Excluded[ReasonSkipDomain], s.Excluded[ReasonAlreadyConfigured])
}

// Filter decides which directory entries are in scope
type Filter struct {
	rules      *config.Rules
	configured registry.Set
}

// NewFilter creates a filter over the compiled rules and configured domains
func NewFilter(rules *config.Rules, configured registry.Set) *Filter {
	if configured == nil {
		configured = registry.NewSet()
	}
	return &Filter{rules: rules, configured: configured}
}

// Apply returns the in-scope entries in directory order plus exclusion counts
func (f *Filter) Apply(entries []directory.Entry) ([]venue.CandidateEntry, Stats) {
	stats := newStats()
	out := make([]venue.CandidateEntry, 0, len(entries))

	for _, e := range entries {
		stats.Total++

		candidate, reason := f.check(e)
		if reason != "" {
			stats.Excluded[reason]++
			continue
		}

		stats.Accepted++
		out = append(out, candidate)
	}

	return out, stats
}

// check returns the first exclusion reason, or the candidate if none applies
func (f *Filter) check(e directory.Entry) (venue.CandidateEntry, Reason) {
	link := strings.TrimSpace(e.Link)
	if link == "" {
		return venue.CandidateEntry{}, ReasonNoURL
	}
	domain, err := urlutil.Domain(link)
	if err != nil {
		return venue.CandidateEntry{}, ReasonNoURL
	}

	if f.rules.SkipDomains != nil && f.rules.SkipDomains.MatchString(domain) {
		return venue.CandidateEntry{}, ReasonSkipDomain
	}

	if f.configured.Contains(domain) {
		return venue.CandidateEntry{}, ReasonAlreadyConfigured
	}

	if !f.isArts(e.Tags) {
		return venue.CandidateEntry{}, ReasonNonArts
	}

	return venue.CandidateEntry{
		Name:   e.Name,
		URL:    link,
		Domain: domain,
		Tags:   append([]string(nil), e.Tags...),
	}, ""
}

// isArts reports whether any tag begins with an arts/culture prefix
func (f *Filter) isArts(tags []string) bool {
	for _, tag := range tags {
		for _, prefix := range f.rules.ArtsTagPrefixes {
			if strings.HasPrefix(tag, prefix) {
				return true
			}
		}
	}
	return false
}

// Limit caps entries at n; n <= 0 means no cap
func Limit(entries []venue.CandidateEntry, n int) []venue.CandidateEntry {
	if n <= 0 || len(entries) <= n {
		return entries
	}
	return entries[:n]
}
