package discovery

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/pfrederiksen/venue-recon/internal/registry"
	"github.com/pfrederiksen/venue-recon/internal/urlutil"
	"github.com/pfrederiksen/venue-recon/internal/venue"
)

// LoadURLList reads newline-delimited URLs to probe instead of the directory.
// Blank lines and lines starting with "#" are ignored. Invalid URLs and
// already-configured domains are excluded and counted like directory entries;
// tag and denylist checks do not apply to an explicit list.
func LoadURLList(r io.Reader, configured registry.Set) ([]venue.CandidateEntry, Stats, error) {
	stats := newStats()
	var out []venue.CandidateEntry

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		stats.Total++

		domain, err := urlutil.Domain(line)
		if err != nil {
			stats.Excluded[ReasonNoURL]++
			continue
		}
		if configured != nil && configured.Contains(domain) {
			stats.Excluded[ReasonAlreadyConfigured]++
			continue
		}

		stats.Accepted++
		out = append(out, venue.CandidateEntry{Name: domain, URL: line, Domain: domain})
	}
	if err := scanner.Err(); err != nil {
		return nil, stats, fmt.Errorf("reading url list: %w", err)
	}

	return out, stats, nil
}
