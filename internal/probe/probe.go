package probe

import (
	"bytes"
	"context"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/pfrederiksen/venue-recon/internal/config"
	"github.com/pfrederiksen/venue-recon/internal/logger"
	"github.com/pfrederiksen/venue-recon/internal/tier"
	"github.com/pfrederiksen/venue-recon/internal/venue"
)

// Prober investigates candidate sites
type Prober struct {
	rules      *config.Rules
	classifier *tier.Classifier
	log        *logger.Logger
	newClient  func() *http.Client
}

// Option configures a Prober
type Option func(*Prober)

// WithClientFactory overrides how each probe builds its private HTTP client
func WithClientFactory(f func() *http.Client) Option {
	return func(p *Prober) {
		p.newClient = f
	}
}

// New creates a Prober over the compiled rules
func New(rules *config.Rules, classifier *tier.Classifier, log *logger.Logger, opts ...Option) *Prober {
	p := &Prober{
		rules:      rules,
		classifier: classifier,
		log:        log,
	}
	p.newClient = func() *http.Client {
		return newHTTPClient(rules.ProbeTimeout)
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Probe fetches entry's seed URL and derives every classification signal.
// Failures are recorded on the result, which always carries a tier.
func (pr *Prober) Probe(ctx context.Context, entry venue.CandidateEntry) (result venue.ProbeResult) {
	start := time.Now()
	result = venue.NewResult(entry)
	defer func() {
		result.Duration = time.Since(start)
	}()

	// connections are reused within this probe only
	client := pr.newClient()
	defer client.CloseIdleConnections()

	pg := pr.fetch(ctx, client, entry.URL)
	if pg.finalURL != nil {
		result.FinalURL = pg.finalURL.String()
	}
	result.Status = pg.status
	result.BodyBytes = int64(len(pg.body))

	if pg.failed() {
		result.Fail(pg.kind, pg.message())
		pr.log.Debug("Probe failed", logger.Fields{
			"domain": entry.Domain,
			"kind":   string(pg.kind),
			"error":  result.Error,
		})
		return result
	}

	result.TechStack = DetectTech(pr.rules.Fingerprints, string(pg.body))

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(pg.body))
	if err != nil {
		pr.log.Debug("Unparseable HTML", logger.Fields{"domain": entry.Domain, "error": err.Error()})
	} else {
		result.JSONLDEventCount = CountJSONLDEvents(doc)
		result.CandidateURLs = CandidateLinks(doc, pg.finalURL, pr.rules.LinkKeywords, pr.rules.MaxCandidateLinks)
	}

	result.EventsSubpage = pr.hasEventsSubpage(ctx, client, result.FinalURL)

	// the Tribe endpoint only exists on WordPress installs
	if pr.rules.IsTribeStack(result.TechStack) {
		result.TribeAPI = pr.hasTribeAPI(ctx, client, result.FinalURL)
	}

	var rule string
	result.Tier, rule = pr.classifier.Explain(tier.FromResult(result))

	pr.log.Debug("Probe classified", logger.Fields{
		"domain": entry.Domain,
		"tier":   string(result.Tier),
		"rule":   rule,
		"tech":   result.TechStack,
	})
	return result
}
