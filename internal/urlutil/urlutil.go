// Package urlutil normalizes the URLs and host names the recon pipeline compares.
package urlutil

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ErrNotAbsolute is returned for links that are not absolute http(s) URLs
var ErrNotAbsolute = errors.New("url must be an absolute http or https url")

// Domain returns the lowercased host of rawURL without port or leading "www.".
func Domain(rawURL string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return "", fmt.Errorf("parsing url: %w", err)
	}

	scheme := strings.ToLower(u.Scheme)
	if !u.IsAbs() || (scheme != "http" && scheme != "https") || u.Hostname() == "" {
		return "", ErrNotAbsolute
	}

	return StripWWW(strings.ToLower(u.Hostname())), nil
}

// StripWWW removes a single literal "www." prefix.
func StripWWW(host string) string {
	return strings.TrimPrefix(host, "www.")
}

// Resolve resolves href against base and returns the absolute form.
func Resolve(base *url.URL, href string) (string, error) {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return "", fmt.Errorf("parsing href: %w", err)
	}
	return base.ResolveReference(ref).String(), nil
}

// JoinPath appends path to the page URL with any trailing slash, query and
// fragment dropped, e.g. https://example.org/home/ + /events/ gives
// https://example.org/home/events/.
func JoinPath(pageURL, path string) string {
	if u, err := url.Parse(pageURL); err == nil {
		u.RawQuery = ""
		u.Fragment = ""
		pageURL = u.String()
	}
	return strings.TrimRight(pageURL, "/") + path
}
