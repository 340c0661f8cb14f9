package report

import (
	"net"
	"sort"
	"strings"

	"github.com/pfrederiksen/venue-recon/internal/venue"
	"golang.org/x/net/publicsuffix"
)

// DuplicateGroup is a set of probed domains sharing one registrable label,
// e.g. example.com and example.org, or example.org and events.example.org.
type DuplicateGroup struct {
	Label   string   `json:"label"`
	Domains []string `json:"domains"`
}

// PossibleDuplicates groups distinct domains by registrable label. Only groups
// with more than one domain are returned, ordered by label.
func PossibleDuplicates(results []venue.ProbeResult) []DuplicateGroup {
	byLabel := make(map[string]map[string]bool)
	for _, r := range results {
		label, ok := registrableLabel(r.Domain)
		if !ok {
			continue
		}
		if byLabel[label] == nil {
			byLabel[label] = make(map[string]bool)
		}
		byLabel[label][r.Domain] = true
	}

	groups := make([]DuplicateGroup, 0)
	for label, domains := range byLabel {
		if len(domains) < 2 {
			continue
		}
		group := DuplicateGroup{Label: label}
		for d := range domains {
			group.Domains = append(group.Domains, d)
		}
		sort.Strings(group.Domains)
		groups = append(groups, group)
	}
	sort.Slice(groups, func(i, j int) bool {
		return groups[i].Label < groups[j].Label
	})
	return groups
}

// registrableLabel returns the eTLD+1 with its public suffix removed:
// "tickets.example.co.uk" -> "example".
func registrableLabel(domain string) (string, bool) {
	if domain == "" || net.ParseIP(domain) != nil {
		return "", false
	}
	etld1, err := publicsuffix.EffectiveTLDPlusOne(domain)
	if err != nil {
		return "", false
	}
	suffix, _ := publicsuffix.PublicSuffix(domain)
	label := strings.TrimSuffix(etld1, "."+suffix)
	if label == "" || label == etld1 {
		return "", false
	}
	return label, true
}
