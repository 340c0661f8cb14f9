package probe

import (
	"context"
	"net/http"

	"github.com/pfrederiksen/venue-recon/internal/logger"
	"github.com/pfrederiksen/venue-recon/internal/urlutil"
)

// check is the outcome of one existence check
type check struct {
	url    string
	status int
	err    error
}

// found reports a plain 200; errors count as absent
func (c check) found() bool {
	return c.err == nil && c.status == http.StatusOK
}

// exists HEADs target, retrying with GET when the server refuses HEAD
func (pr *Prober) exists(ctx context.Context, client *http.Client, target string) check {
	status, err := pr.statusOf(ctx, client, http.MethodHead, target)
	if err == nil && status == http.StatusMethodNotAllowed {
		status, err = pr.statusOf(ctx, client, http.MethodGet, target)
	}
	return check{url: target, status: status, err: err}
}

// statusOf issues a request and returns only its status; the body is never read
func (pr *Prober) statusOf(ctx context.Context, client *http.Client, method, target string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, method, target, nil)
	if err != nil {
		return 0, err
	}
	pr.setHeaders(req)

	resp, err := client.Do(req)
	if err != nil {
		return 0, err
	}
	resp.Body.Close()
	return resp.StatusCode, nil
}

// hasEventsSubpage checks each configured path until one answers 200
func (pr *Prober) hasEventsSubpage(ctx context.Context, client *http.Client, pageURL string) bool {
	for _, path := range pr.rules.SubpagePaths {
		c := pr.exists(ctx, client, urlutil.JoinPath(pageURL, path))
		pr.log.Debug("Subpage checked", logger.Fields{"url": c.url, "status": c.status, "found": c.found()})
		if c.found() {
			return true
		}
	}
	return false
}

// hasTribeAPI checks the events-calendar REST endpoint
func (pr *Prober) hasTribeAPI(ctx context.Context, client *http.Client, pageURL string) bool {
	if pr.rules.TribeAPIPath == "" {
		return false
	}
	c := pr.exists(ctx, client, urlutil.JoinPath(pageURL, pr.rules.TribeAPIPath))
	pr.log.Debug("Tribe API checked", logger.Fields{"url": c.url, "status": c.status, "found": c.found()})
	return c.found()
}
