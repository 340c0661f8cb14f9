package config

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// CompiledFingerprint is a fingerprint with its pattern compiled.
type CompiledFingerprint struct {
	Name    string
	Pattern *regexp.Regexp
}

// Rules is the compiled, read-only form of Config. It is built once per run
// and shared by every stage; nothing may modify it after Compile returns.
type Rules struct {
	DirectoryURL     string
	DirectoryTimeout time.Duration

	UserAgent         string
	Accept            string
	ProbeTimeout      time.Duration
	Workers           int
	MaxCandidateLinks int
	MaxBodyBytes      int64
	SubpagePaths      []string
	TribeAPIPath      string
	TribeStacks       []string
	LinkKeywords      *regexp.Regexp

	ArtsTagPrefixes []string
	SkipDomains     *regexp.Regexp

	Fingerprints  []CompiledFingerprint
	StructuredCMS []string
	HardStacks    []string
}

// Compile validates the config and compiles every pattern case-insensitively.
func (c Config) Compile() (*Rules, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	rules := &Rules{
		DirectoryURL:      c.Directory.URL,
		DirectoryTimeout:  time.Duration(c.Directory.TimeoutSeconds) * time.Second,
		UserAgent:         c.Probe.UserAgent,
		Accept:            c.Probe.Accept,
		ProbeTimeout:      time.Duration(c.Probe.TimeoutSeconds) * time.Second,
		Workers:           c.Probe.Workers,
		MaxCandidateLinks: c.Probe.MaxCandidateLinks,
		MaxBodyBytes:      c.Probe.MaxBodyBytes,
		SubpagePaths:      append([]string(nil), c.Probe.SubpagePaths...),
		TribeAPIPath:      c.Probe.TribeAPIPath,
		TribeStacks:       append([]string(nil), c.Probe.TribeStacks...),
		ArtsTagPrefixes:   append([]string(nil), c.Filter.ArtsTagPrefixes...),
		StructuredCMS:     append([]string(nil), c.Classifier.StructuredCMS...),
		HardStacks:        append([]string(nil), c.Classifier.HardStacks...),
	}

	var err error
	if c.Probe.LinkKeywords != "" {
		if rules.LinkKeywords, err = compileFold(c.Probe.LinkKeywords); err != nil {
			return nil, fmt.Errorf("compiling link_keywords: %w", err)
		}
	}

	if len(c.Filter.SkipDomainPatterns) > 0 {
		joined := strings.Join(c.Filter.SkipDomainPatterns, "|")
		if rules.SkipDomains, err = compileFold(joined); err != nil {
			return nil, fmt.Errorf("compiling skip_domain_patterns: %w", err)
		}
	}

	rules.Fingerprints = make([]CompiledFingerprint, 0, len(c.Fingerprints))
	for _, fp := range c.Fingerprints {
		re, err := compileFold(fp.Pattern)
		if err != nil {
			return nil, fmt.Errorf("compiling fingerprint %q: %w", fp.Name, err)
		}
		rules.Fingerprints = append(rules.Fingerprints, CompiledFingerprint{Name: fp.Name, Pattern: re})
	}

	return rules, nil
}

// MustCompile is like Compile but panics on error. Intended for tests and
// the built-in defaults.
func (c Config) MustCompile() *Rules {
	rules, err := c.Compile()
	if err != nil {
		panic(err)
	}
	return rules
}

// IsTribeStack reports whether the tech stack warrants a Tribe REST API check.
func (r *Rules) IsTribeStack(tech []string) bool {
	return containsAny(tech, r.TribeStacks)
}

func compileFold(pattern string) (*regexp.Regexp, error) {
	return regexp.Compile("(?i)(?:" + pattern + ")")
}

func containsAny(have, want []string) bool {
	for _, h := range have {
		for _, w := range want {
			if h == w {
				return true
			}
		}
	}
	return false
}
