// Package registry loads the domains existing scraper source configs already cover.
package registry

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/pfrederiksen/venue-recon/internal/logger"
	"github.com/pfrederiksen/venue-recon/internal/urlutil"
)

// urlField matches a `url:` field whose value is an http(s) URL, optionally quoted
var urlField = regexp.MustCompile(`^\s*url:\s*["']?(https?://[^\s"']+)`)

// Set is a set of normalized domains
type Set map[string]struct{}

// NewSet builds a Set from already-normalized domains
func NewSet(domains ...string) Set {
	s := make(Set, len(domains))
	for _, d := range domains {
		s[urlutil.StripWWW(strings.ToLower(d))] = struct{}{}
	}
	return s
}

// Contains reports whether domain, with or without a leading "www.", is in the set
func (s Set) Contains(domain string) bool {
	domain = strings.ToLower(domain)
	if _, ok := s[domain]; ok {
		return true
	}
	_, ok := s[urlutil.StripWWW(domain)]
	return ok
}

// Len returns the number of domains
func (s Set) Len() int {
	return len(s)
}

// Sorted returns the domains in lexical order
func (s Set) Sorted() []string {
	out := make([]string, 0, len(s))
	for d := range s {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}

// Load scans every source config in dir and returns the domains they target.
// A missing directory yields an empty set. Files whose name starts with "_"
// are ignored; unreadable files and lines without a URL field are skipped.
func Load(dir string, log *logger.Logger) (Set, error) {
	set := make(Set)

	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return set, nil
		}
		return nil, fmt.Errorf("reading sources directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), "_") {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		if err := scanFile(path, set); err != nil {
			log.Debug("Skipping unreadable source config", logger.Fields{"path": path, "error": err.Error()})
		}
	}

	return set, nil
}

func scanFile(path string, set Set) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		m := urlField.FindStringSubmatch(scanner.Text())
		if m == nil {
			continue
		}
		domain, err := urlutil.Domain(m[1])
		if err != nil {
			continue
		}
		set[domain] = struct{}{}
	}
	return scanner.Err()
}
