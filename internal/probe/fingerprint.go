package probe

import (
	"github.com/pfrederiksen/venue-recon/internal/config"
	"github.com/pfrederiksen/venue-recon/internal/venue"
)

// DetectTech returns the name of every fingerprint that matches body, in table
// order, or ["static"] when none do.
func DetectTech(fingerprints []config.CompiledFingerprint, body string) []string {
	found := make([]string, 0, 2)
	for _, fp := range fingerprints {
		if fp.Pattern.MatchString(body) {
			found = append(found, fp.Name)
		}
	}
	if len(found) == 0 {
		found = append(found, venue.TechStatic)
	}
	return found
}
