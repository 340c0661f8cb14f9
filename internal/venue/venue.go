package venue

import (
	"fmt"
	"strings"
	"time"
)

// Tier is a coarse estimate of how easy a site is to scrape for events
type Tier string

const (
	TierT0   Tier = "T0"
	TierT1   Tier = "T1"
	TierT2   Tier = "T2"
	TierSkip Tier = "SKIP"
)

// Tiers returns every tier in report order
func Tiers() []Tier {
	return []Tier{TierT0, TierT1, TierT2, TierSkip}
}

// Rank orders tiers for sorting; unknown tiers sort last
func (t Tier) Rank() int {
	switch t {
	case TierT0:
		return 0
	case TierT1:
		return 1
	case TierT2:
		return 2
	case TierSkip:
		return 3
	default:
		return 4
	}
}

// ParseTier converts a report value back into a Tier
func ParseTier(s string) (Tier, error) {
	t := Tier(strings.ToUpper(strings.TrimSpace(s)))
	if t.Rank() > 3 {
		return "", fmt.Errorf("unknown tier: %q", s)
	}
	return t, nil
}

// ErrorKind tags the reason a probe failed
type ErrorKind string

const (
	ErrorNone       ErrorKind = ""
	ErrorTimeout    ErrorKind = "timeout"
	ErrorRedirects  ErrorKind = "too_many_redirects"
	ErrorHTTPStatus ErrorKind = "http_status"
	ErrorNetwork    ErrorKind = "network"
	ErrorPanic      ErrorKind = "panic"
)

// MaxErrorLength bounds free-form error text stored on a result
const MaxErrorLength = 80

const (
	// TechStatic is reported when the page was fingerprinted and nothing matched
	TechStatic = "static"
	// TechUnknown is reported when the page was never fingerprinted
	TechUnknown = "unknown"
)

// CandidateEntry is an organization selected for probing
type CandidateEntry struct {
	Name   string   `json:"name"`
	URL    string   `json:"url"`
	Domain string   `json:"domain"`
	Tags   []string `json:"tags,omitempty"`
}

// ProbeResult is the outcome of investigating one CandidateEntry
type ProbeResult struct {
	Name             string        `json:"name"`
	Domain           string        `json:"domain"`
	URL              string        `json:"url"`
	FinalURL         string        `json:"final_url"`
	Status           int           `json:"status"`
	TechStack        []string      `json:"tech_stack"`
	JSONLDEventCount int           `json:"jsonld_event_count"`
	EventsSubpage    bool          `json:"events_subpage"`
	TribeAPI         bool          `json:"tribe_api"`
	Tier             Tier          `json:"tier_guess"`
	CandidateURLs    []string      `json:"candidate_urls"`
	Error            string        `json:"error,omitempty"`
	ErrorKind        ErrorKind     `json:"error_kind,omitempty"`
	BodyBytes        int64         `json:"body_bytes,omitempty"` // diagnostics only
	Duration         time.Duration `json:"duration,omitempty"`   // diagnostics only
}

// NewResult creates the failure-default result for an entry.
// FinalURL falls back to the seed URL and the tier is SKIP until a probe says otherwise.
func NewResult(entry CandidateEntry) ProbeResult {
	return ProbeResult{
		Name:          entry.Name,
		Domain:        entry.Domain,
		URL:           entry.URL,
		FinalURL:      entry.URL,
		Tier:          TierSkip,
		TechStack:     []string{TechUnknown},
		CandidateURLs: []string{},
	}
}

// Fail records an error on the result and forces the SKIP tier
func (r *ProbeResult) Fail(kind ErrorKind, msg string) {
	r.ErrorKind = kind
	r.Error = Truncate(msg, MaxErrorLength)
	r.Tier = TierSkip
}

// Failed reports whether the probe recorded an error
func (r ProbeResult) Failed() bool {
	return r.Error != ""
}

// NetworkFailure reports an error where no HTTP response was received
func (r ProbeResult) NetworkFailure() bool {
	return r.Error != "" && r.Status == 0
}

// HasTech reports whether any of the given identifiers is in the tech stack
func (r ProbeResult) HasTech(names ...string) bool {
	for _, have := range r.TechStack {
		for _, want := range names {
			if have == want {
				return true
			}
		}
	}
	return false
}

// Truncate shortens s to at most n runes
func Truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
