package report

import (
	"fmt"
	"os"
	"sort"

	"github.com/pfrederiksen/venue-recon/internal/venue"
)

// ChangeType names how a domain differs from the previous run
type ChangeType string

const (
	ChangeNew  ChangeType = "new"
	ChangeTier ChangeType = "tier"
	ChangeGone ChangeType = "gone"
)

// Change is one domain whose standing moved between two runs
type Change struct {
	Domain  string     `json:"domain"`
	Type    ChangeType `json:"change_type"`
	OldTier venue.Tier `json:"old_tier,omitempty"`
	NewTier venue.Tier `json:"new_tier,omitempty"`
}

// LoadPrevious reads an earlier run's TSV. A missing file is not an error
// and yields no results, so the first run compares against nothing.
func LoadPrevious(path string) ([]venue.ProbeResult, bool, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("reading previous run: %w", err)
	}
	defer f.Close()

	results, err := ParseTSV(f)
	if err != nil {
		return nil, false, fmt.Errorf("parsing previous run: %w", err)
	}
	return results, true, nil
}

// Diff compares two runs by domain. A domain probed more than once in a run
// is represented by its best tier.
func Diff(previous, current []venue.ProbeResult) []Change {
	before := bestTiers(previous)
	after := bestTiers(current)

	changes := make([]Change, 0)
	for domain, now := range after {
		was, existed := before[domain]
		switch {
		case !existed:
			changes = append(changes, Change{Domain: domain, Type: ChangeNew, NewTier: now})
		case was != now:
			changes = append(changes, Change{Domain: domain, Type: ChangeTier, OldTier: was, NewTier: now})
		}
	}
	for domain, was := range before {
		if _, ok := after[domain]; !ok {
			changes = append(changes, Change{Domain: domain, Type: ChangeGone, OldTier: was})
		}
	}

	// Sort for consistent output
	sort.Slice(changes, func(i, j int) bool {
		if changes[i].Type != changes[j].Type {
			return changeOrder(changes[i].Type) < changeOrder(changes[j].Type)
		}
		return changes[i].Domain < changes[j].Domain
	})
	return changes
}

func bestTiers(results []venue.ProbeResult) map[string]venue.Tier {
	best := make(map[string]venue.Tier, len(results))
	for _, r := range results {
		if t, ok := best[r.Domain]; !ok || r.Tier.Rank() < t.Rank() {
			best[r.Domain] = r.Tier
		}
	}
	return best
}

func changeOrder(t ChangeType) int {
	switch t {
	case ChangeTier:
		return 0
	case ChangeNew:
		return 1
	default:
		return 2
	}
}

// String renders the change for the text summary
func (c Change) String() string {
	switch c.Type {
	case ChangeNew:
		return fmt.Sprintf("new %s", c.NewTier)
	case ChangeTier:
		return fmt.Sprintf("%s -> %s", c.OldTier, c.NewTier)
	default:
		return fmt.Sprintf("gone (was %s)", c.OldTier)
	}
}
