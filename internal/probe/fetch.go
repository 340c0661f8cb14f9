package probe

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/pfrederiksen/venue-recon/internal/venue"
)

// maxRedirects matches net/http's own default limit
const maxRedirects = 10

var errTooManyRedirects = errors.New("too many redirects")

// newHTTPClient builds the client a single probe uses for all its requests
func newHTTPClient(timeout time.Duration) *http.Client {
	tr := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		DialContext:         (&net.Dialer{Timeout: timeout, KeepAlive: 30 * time.Second}).DialContext,
		TLSHandshakeTimeout: timeout,
		MaxIdleConnsPerHost: 2,
		IdleConnTimeout:     30 * time.Second,
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: tr,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return errTooManyRedirects
			}
			return nil
		},
	}
}

// page is the outcome of the main GET
type page struct {
	finalURL *url.URL
	status   int
	body     []byte
	kind     venue.ErrorKind
	err      error
}

// message renders the short failure tag stored on the result
func (p page) message() string {
	switch p.kind {
	case venue.ErrorTimeout:
		return "timeout"
	case venue.ErrorRedirects:
		return "too_many_redirects"
	case venue.ErrorHTTPStatus:
		return fmt.Sprintf("HTTP %d", p.status)
	}
	if p.err != nil {
		return p.err.Error()
	}
	return ""
}

// failed reports whether the fetch should stop the probe
func (p page) failed() bool {
	return p.kind != venue.ErrorNone
}

// fetch GETs target, following redirects, and reads at most limit bytes
func (pr *Prober) fetch(ctx context.Context, client *http.Client, target string) page {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return page{kind: venue.ErrorNetwork, err: fmt.Errorf("creating request: %w", err)}
	}
	pr.setHeaders(req)

	resp, err := client.Do(req)
	if err != nil {
		return page{kind: classifyError(err), err: err}
	}
	defer resp.Body.Close()

	p := page{finalURL: resp.Request.URL, status: resp.StatusCode}
	if resp.StatusCode >= 400 {
		p.kind = venue.ErrorHTTPStatus
		return p
	}

	p.body, err = io.ReadAll(io.LimitReader(resp.Body, pr.rules.MaxBodyBytes))
	if err != nil {
		// a response arrived, but the body never completed
		p.finalURL = nil
		p.status = 0
		p.kind = classifyError(err)
		p.err = fmt.Errorf("reading body: %w", err)
	}
	return p
}

// classifyError maps a transport error to its failure tag
func classifyError(err error) venue.ErrorKind {
	if errors.Is(err, errTooManyRedirects) {
		return venue.ErrorRedirects
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return venue.ErrorTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return venue.ErrorTimeout
	}
	return venue.ErrorNetwork
}

func (pr *Prober) setHeaders(req *http.Request) {
	req.Header.Set("User-Agent", pr.rules.UserAgent)
	if pr.rules.Accept != "" {
		req.Header.Set("Accept", pr.rules.Accept)
	}
}
