// Package tier maps probe signals to a scraping-difficulty tier.
//
// Rules are evaluated top to bottom and the first match wins; the order is the
// contract. Reordering them changes which tier a site lands in.
package tier

import (
	"github.com/pfrederiksen/venue-recon/internal/config"
	"github.com/pfrederiksen/venue-recon/internal/venue"
)

// Signals are the probe observations classification depends on
type Signals struct {
	JSONLDEventCount int
	Tech             []string
	EventsSubpage    bool
	CandidateLinks   int
}

// FromResult extracts signals from a probe result
func FromResult(r venue.ProbeResult) Signals {
	return Signals{
		JSONLDEventCount: r.JSONLDEventCount,
		Tech:             r.TechStack,
		EventsSubpage:    r.EventsSubpage,
		CandidateLinks:   len(r.CandidateURLs),
	}
}

// Rule is one (predicate, tier) pair
type Rule struct {
	Name  string
	Tier  venue.Tier
	Match func(Signals) bool
}

// Fallthrough names the implicit final rule
const Fallthrough = "fallthrough"

// Classifier evaluates an ordered rule list
type Classifier struct {
	rules []Rule
}

// NewClassifier builds the standard rule list from the configured stack names
func NewClassifier(rules *config.Rules) *Classifier {
	structured := append([]string(nil), rules.StructuredCMS...)
	hard := append([]string(nil), rules.HardStacks...)

	return NewClassifierWithRules([]Rule{
		{
			Name:  "jsonld-events",
			Tier:  venue.TierT0,
			Match: func(s Signals) bool { return s.JSONLDEventCount > 0 },
		},
		{
			Name:  "cms-with-events-page",
			Tier:  venue.TierT1,
			Match: func(s Signals) bool { return hasAny(s.Tech, structured) && s.EventsSubpage },
		},
		{
			Name:  "js-heavy-stack",
			Tier:  venue.TierT2,
			Match: func(s Signals) bool { return hasAny(s.Tech, hard) },
		},
		{
			Name:  "event-links",
			Tier:  venue.TierT1,
			Match: func(s Signals) bool { return s.EventsSubpage || s.CandidateLinks > 0 },
		},
	})
}

// NewClassifierWithRules creates a classifier over an explicit rule list
func NewClassifierWithRules(rules []Rule) *Classifier {
	return &Classifier{rules: append([]Rule(nil), rules...)}
}

// Rules returns a copy of the rule list in evaluation order
func (c *Classifier) Rules() []Rule {
	return append([]Rule(nil), c.rules...)
}

// Classify returns the tier of the first matching rule, or SKIP
func (c *Classifier) Classify(s Signals) venue.Tier {
	t, _ := c.Explain(s)
	return t
}

// Explain is Classify plus the name of the rule that decided
func (c *Classifier) Explain(s Signals) (venue.Tier, string) {
	for _, r := range c.rules {
		if r.Match(s) {
			return r.Tier, r.Name
		}
	}
	return venue.TierSkip, Fallthrough
}

func hasAny(have, want []string) bool {
	for _, h := range have {
		for _, w := range want {
			if h == w {
				return true
			}
		}
	}
	return false
}
