package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultValidates(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.toml")

	cfg, resolved, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if exists {
		t.Error("exists = true for a missing file")
	}
	if resolved != path {
		t.Errorf("resolved = %q, want %q", resolved, path)
	}
	if cfg.Probe.Workers != 10 {
		t.Errorf("Workers = %d, want 10", cfg.Probe.Workers)
	}
}

func TestLoad_EmptyPath(t *testing.T) {
	cfg, _, exists, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") unexpected error: %v", err)
	}
	if exists {
		t.Error("exists = true for empty path")
	}
	if cfg.Directory.TimeoutSeconds != 30 {
		t.Errorf("Directory.TimeoutSeconds = %d, want 30", cfg.Directory.TimeoutSeconds)
	}
}

func TestLoad_Overrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "recon.toml")
	content := `
[probe]
workers = 4
timeout_seconds = 3

[paths]
output = "out.tsv"

[[fingerprint]]
name = "ghost"
pattern = "ghost\\.io"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, _, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if !exists {
		t.Error("exists = false for an existing file")
	}
	if cfg.Probe.Workers != 4 {
		t.Errorf("Workers = %d, want 4", cfg.Probe.Workers)
	}
	if cfg.Probe.MaxCandidateLinks != 10 {
		t.Errorf("MaxCandidateLinks = %d, want default 10", cfg.Probe.MaxCandidateLinks)
	}
	if cfg.Paths.Output != "out.tsv" {
		t.Errorf("Output = %q, want out.tsv", cfg.Paths.Output)
	}
	if len(cfg.Fingerprints) != 1 || cfg.Fingerprints[0].Name != "ghost" {
		t.Errorf("Fingerprints = %+v, want only ghost", cfg.Fingerprints)
	}
}

func TestLoad_UnknownKeyRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "recon.toml")
	if err := os.WriteFile(path, []byte("[probe]\nworkerz = 4\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, _, _, err := Load(path); err == nil {
		t.Fatal("Load() expected error for unknown key")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "zero workers", mutate: func(c *Config) { c.Probe.Workers = 0 }, wantErr: "workers"},
		{name: "zero timeout", mutate: func(c *Config) { c.Probe.TimeoutSeconds = 0 }, wantErr: "probe.timeout_seconds"},
		{name: "no fingerprints", mutate: func(c *Config) { c.Fingerprints = nil }, wantErr: "fingerprint"},
		{name: "blank fingerprint", mutate: func(c *Config) { c.Fingerprints[0].Pattern = "" }, wantErr: "fingerprint 1"},
		{name: "no directory url", mutate: func(c *Config) { c.Directory.URL = " " }, wantErr: "directory.url"},
		{name: "bad fingerprint pattern", mutate: func(c *Config) { c.Fingerprints[2].Pattern = "squarespace(" }, wantErr: `fingerprint "squarespace"`},
		{name: "bad link keywords", mutate: func(c *Config) { c.Probe.LinkKeywords = "event|[" }, wantErr: "probe.link_keywords"},
		{name: "bad skip domain", mutate: func(c *Config) { c.Filter.SkipDomainPatterns = append(c.Filter.SkipDomainPatterns, `*\.example`) }, wantErr: "filter.skip_domain_patterns"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("Validate() expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}
}

func TestCompile(t *testing.T) {
	rules, err := Default().Compile()
	if err != nil {
		t.Fatalf("Compile() unexpected error: %v", err)
	}

	if rules.ProbeTimeout != 10*time.Second {
		t.Errorf("ProbeTimeout = %v, want 10s", rules.ProbeTimeout)
	}
	if rules.DirectoryTimeout != 30*time.Second {
		t.Errorf("DirectoryTimeout = %v, want 30s", rules.DirectoryTimeout)
	}
	if len(rules.Fingerprints) != 8 {
		t.Fatalf("len(Fingerprints) = %d, want 8", len(rules.Fingerprints))
	}
	if rules.Fingerprints[0].Name != "wordpress" {
		t.Errorf("first fingerprint = %q, want wordpress", rules.Fingerprints[0].Name)
	}
	if !rules.Fingerprints[5].Pattern.MatchString(`<script id="__next_data__">`) {
		t.Error("fingerprints should match case-insensitively")
	}
	if !rules.SkipDomains.MatchString("m.Facebook.com") {
		t.Error("skip domains should match facebook.com")
	}
	if rules.SkipDomains.MatchString("masseyhall.com") {
		t.Error("skip domains should not match masseyhall.com")
	}
	if !rules.LinkKeywords.MatchString("What's On") {
		t.Error("link keywords should match \"What's On\"")
	}
	if !rules.IsTribeStack([]string{"static", "tribe-events"}) {
		t.Error("tribe-events should be a tribe stack")
	}
}

func TestCompile_BadPattern(t *testing.T) {
	cfg := Default()
	cfg.Fingerprints = []Fingerprint{{Name: "broken", Pattern: "("}}

	if _, err := cfg.Compile(); err == nil {
		t.Fatal("Compile() expected error for invalid regexp")
	}
}

func TestExpandPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	tests := []struct {
		in   string
		want string
	}{
		{"~/recon.tsv", filepath.Join(home, "recon.tsv")},
		{"/tmp/recon.tsv", "/tmp/recon.tsv"},
		{"relative/recon.tsv", "relative/recon.tsv"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ExpandPath(tt.in)
			if err != nil {
				t.Fatalf("ExpandPath(%q) error = %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ExpandPath(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
