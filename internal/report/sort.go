package report

import (
	"sort"

	"github.com/pfrederiksen/venue-recon/internal/venue"
)

// Sort orders results by tier (T0 first), then domain, then final URL
func Sort(results []venue.ProbeResult) {
	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if a.Tier.Rank() != b.Tier.Rank() {
			return a.Tier.Rank() < b.Tier.Rank()
		}
		if a.Domain != b.Domain {
			return a.Domain < b.Domain
		}
		return a.FinalURL < b.FinalURL
	})
}

// sorted returns a sorted copy, leaving the caller's slice alone
func sorted(results []venue.ProbeResult) []venue.ProbeResult {
	out := append([]venue.ProbeResult(nil), results...)
	Sort(out)
	return out
}
