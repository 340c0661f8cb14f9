// Package config holds the recon tool's tunables and compiles them into the
// immutable rule set passed to the filter, prober, and classifier.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Directory configures the community directory feed.
type Directory struct {
	URL            string `toml:"url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Probe configures per-site investigation.
type Probe struct {
	UserAgent         string   `toml:"user_agent"`
	Accept            string   `toml:"accept"`
	TimeoutSeconds    int      `toml:"timeout_seconds"`
	Workers           int      `toml:"workers"`
	MaxCandidateLinks int      `toml:"max_candidate_links"`
	MaxBodyBytes      int64    `toml:"max_body_bytes"`
	SubpagePaths      []string `toml:"subpage_paths"`
	TribeAPIPath      string   `toml:"tribe_api_path"`
	TribeStacks       []string `toml:"tribe_stacks"`
	LinkKeywords      string   `toml:"link_keywords"`
}

// Filter configures which directory entries are in scope.
type Filter struct {
	ArtsTagPrefixes    []string `toml:"arts_tag_prefixes"`
	SkipDomainPatterns []string `toml:"skip_domain_patterns"`
}

// Fingerprint is one named technology detection rule.
type Fingerprint struct {
	Name    string `toml:"name"`
	Pattern string `toml:"pattern"`
}

// Classifier names the stacks the tier rules look for.
type Classifier struct {
	StructuredCMS []string `toml:"structured_cms"`
	HardStacks    []string `toml:"hard_stacks"`
}

// Paths contains filesystem locations.
type Paths struct {
	SourcesDir string `toml:"sources_dir"`
	Output     string `toml:"output"`
}

// Config is the full recon configuration.
type Config struct {
	Directory    Directory     `toml:"directory"`
	Probe        Probe         `toml:"probe"`
	Filter       Filter        `toml:"filter"`
	Fingerprints []Fingerprint `toml:"fingerprint"`
	Classifier   Classifier    `toml:"classifier"`
	Paths        Paths         `toml:"paths"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Directory: Directory{
			URL:            "https://t0ronto.ca/all.json",
			TimeoutSeconds: 30,
		},
		Probe: Probe{
			UserAgent:         "Mozilla/5.0 (compatible; venue-recon/1.0; +https://github.com/pfrederiksen/venue-recon)",
			Accept:            "text/html,application/xhtml+xml,*/*",
			TimeoutSeconds:    10,
			Workers:           10,
			MaxCandidateLinks: 10,
			MaxBodyBytes:      5 << 20,
			SubpagePaths:      []string{"/events/", "/calendar/"},
			TribeAPIPath:      "/wp-json/tribe/events/v1/events",
			TribeStacks:       []string{"wordpress", "tribe-events"},
			LinkKeywords:      `event|calendar|concert|performance|season|program|show|whats-on|what-s-on|what's on`,
		},
		Filter: Filter{
			ArtsTagPrefixes: []string{
				"topic/art-form",
				"instance-of/event/festival",
				"instance-of/place/event-venue",
				"instance-of/place/gallery",
				"instance-of/place/theatre",
				"instance-of/organization",
			},
			SkipDomainPatterns: []string{
				`instagram\.com`, `facebook\.com`, `twitter\.com`, `x\.com`, `tiktok\.com`,
				`youtube\.com`, `linkedin\.com`, `eventbrite\.com`, `ticketmaster\.com`,
				`meetup\.com`, `bsky\.app`, `luma\.com`, `discord\.gg`, `substack\.com`,
				`wikipedia\.org`, `toronto\.ca`, `canada\.ca`,
			},
		},
		Fingerprints: []Fingerprint{
			{Name: "wordpress", Pattern: `wp-content|wp-includes|wordpress`},
			{Name: "tribe-events", Pattern: `tribe[_-]events|tribe/events|the-events-calendar`},
			{Name: "squarespace", Pattern: `squarespace`},
			{Name: "wix", Pattern: `wix\.com|wixsite|wixstatic`},
			{Name: "webflow", Pattern: `webflow\.io|webflow\.com`},
			{Name: "nextjs", Pattern: `__NEXT_DATA__|next/static|_next/static`},
			{Name: "drupal", Pattern: `drupal|sites/default/files`},
			{Name: "elementor", Pattern: `elementor`},
		},
		Classifier: Classifier{
			StructuredCMS: []string{"wordpress", "drupal"},
			HardStacks:    []string{"squarespace", "wix", "nextjs", "elementor", "webflow"},
		},
		Paths: Paths{
			SourcesDir: "configs/sources",
			Output:     "recon-output.tsv",
		},
	}
}

// Load reads a TOML config over the defaults. A missing file is not an error;
// the returned bool reports whether the file existed.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	if strings.TrimSpace(path) == "" {
		if err := cfg.Validate(); err != nil {
			return nil, "", false, err
		}
		return &cfg, "", false, nil
	}

	resolved, err := ExpandPath(path)
	if err != nil {
		return nil, "", false, err
	}

	file, err := os.Open(resolved)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		if err := cfg.Validate(); err != nil {
			return nil, "", false, err
		}
		return &cfg, resolved, false, nil
	case err != nil:
		return nil, "", false, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	// [[fingerprint]] tables append on decode, so a file that declares any
	// replaces the built-in table wholesale.
	defaultFingerprints := cfg.Fingerprints
	cfg.Fingerprints = nil

	decoder := toml.NewDecoder(file)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&cfg); err != nil {
		return nil, "", false, fmt.Errorf("parse config: %w", err)
	}
	if len(cfg.Fingerprints) == 0 {
		cfg.Fingerprints = defaultFingerprints
	}

	cfg.Paths.SourcesDir, err = ExpandPath(cfg.Paths.SourcesDir)
	if err != nil {
		return nil, "", false, err
	}
	cfg.Paths.Output, err = ExpandPath(cfg.Paths.Output)
	if err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}
	return &cfg, resolved, true, nil
}

// Validate checks the configuration for values the pipeline cannot run with.
func (c Config) Validate() error {
	var problems []string

	if strings.TrimSpace(c.Directory.URL) == "" {
		problems = append(problems, "directory.url is required")
	}
	if c.Directory.TimeoutSeconds <= 0 {
		problems = append(problems, "directory.timeout_seconds must be positive")
	}
	if c.Probe.TimeoutSeconds <= 0 {
		problems = append(problems, "probe.timeout_seconds must be positive")
	}
	if c.Probe.Workers < 1 {
		problems = append(problems, "probe.workers must be at least 1")
	}
	if c.Probe.MaxCandidateLinks < 0 {
		problems = append(problems, "probe.max_candidate_links must not be negative")
	}
	if c.Probe.MaxBodyBytes <= 0 {
		problems = append(problems, "probe.max_body_bytes must be positive")
	}
	if len(c.Fingerprints) == 0 {
		problems = append(problems, "at least one [[fingerprint]] is required")
	}
	for i, fp := range c.Fingerprints {
		if strings.TrimSpace(fp.Name) == "" || strings.TrimSpace(fp.Pattern) == "" {
			problems = append(problems, fmt.Sprintf("fingerprint %d needs a name and pattern", i+1))
			continue
		}
		if _, err := compileFold(fp.Pattern); err != nil {
			problems = append(problems, fmt.Sprintf("fingerprint %q: %v", fp.Name, err))
		}
	}
	if c.Probe.LinkKeywords != "" {
		if _, err := compileFold(c.Probe.LinkKeywords); err != nil {
			problems = append(problems, fmt.Sprintf("probe.link_keywords: %v", err))
		}
	}
	for _, pattern := range c.Filter.SkipDomainPatterns {
		if _, err := compileFold(pattern); err != nil {
			problems = append(problems, fmt.Sprintf("filter.skip_domain_patterns %q: %v", pattern, err))
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
	}
	return nil
}

// ExpandPath replaces a leading "~/" with the user's home directory
func ExpandPath(path string) (string, error) {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting home directory: %w", err)
		}
		return filepath.Join(home, path[2:]), nil
	}
	return path, nil
}
