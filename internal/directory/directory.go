// Package directory fetches the community directory feed that seeds discovery.
package directory

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/dghubble/sling"
	"github.com/pfrederiksen/venue-recon/internal/logger"
)

// Entry is one community listed by the directory
type Entry struct {
	Name string   `json:"name"`
	Link string   `json:"link"`
	Tags []string `json:"tags"`
}

// Feed is the directory payload
type Feed struct {
	Communities []Entry `json:"communities"`
}

// Client retrieves the directory feed. It never retries.
type Client struct {
	url       string
	userAgent string
	base      *sling.Sling
	log       *logger.Logger
}

// NewClient creates a directory client for feedURL
func NewClient(feedURL, userAgent string, timeout time.Duration, log *logger.Logger) *Client {
	httpClient := &http.Client{Timeout: timeout}
	return &Client{
		url:       feedURL,
		userAgent: userAgent,
		base: sling.New().
			Client(httpClient).
			Set("User-Agent", userAgent).
			Set("Accept", "application/json"),
		log: log,
	}
}

// Fetch performs the single GET and decodes the feed
func (c *Client) Fetch(ctx context.Context) ([]Entry, error) {
	s := c.base.New().Get(c.url)

	req, err := s.Request()
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	var feed Feed
	resp, err := s.Do(req.WithContext(ctx), &feed, nil)
	if err != nil {
		return nil, fmt.Errorf("fetching directory: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("directory returned status %d", resp.StatusCode)
	}

	return feed.Communities, nil
}

// Communities fetches the feed, degrading to an empty list on any failure so a
// static input list can stand in.
func (c *Client) Communities(ctx context.Context) []Entry {
	c.log.Info("Fetching directory", logger.Fields{"url": c.url})

	entries, err := c.Fetch(ctx)
	if err != nil {
		c.log.Error("Directory fetch failed", logger.Fields{"url": c.url}, err)
		return []Entry{}
	}

	c.log.Info("Directory fetched", logger.Fields{"communities": len(entries)})
	return entries
}
