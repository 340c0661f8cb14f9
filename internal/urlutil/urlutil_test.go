package urlutil

import (
	"errors"
	"net/url"
	"testing"
)

func TestDomain(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "strips www", input: "https://www.Soulpepper.ca/shows", want: "soulpepper.ca"},
		{name: "drops port", input: "http://example.org:8080/", want: "example.org"},
		{name: "keeps leading w in host", input: "https://webflow-site.com", want: "webflow-site.com"},
		{name: "keeps other subdomains", input: "https://events.example.org", want: "events.example.org"},
		{name: "relative", input: "/events", wantErr: true},
		{name: "mailto", input: "mailto:box@example.org", wantErr: true},
		{name: "ftp", input: "ftp://example.org", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Domain(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Domain(%q) expected error, got %q", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("Domain(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("Domain(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestDomain_NotAbsoluteSentinel(t *testing.T) {
	_, err := Domain("example.org/path")
	if !errors.Is(err, ErrNotAbsolute) {
		t.Errorf("error = %v, want ErrNotAbsolute", err)
	}
}

func TestResolve(t *testing.T) {
	base, _ := url.Parse("https://example.org/about/")

	tests := []struct {
		href string
		want string
	}{
		{"/events", "https://example.org/events"},
		{"calendar", "https://example.org/about/calendar"},
		{"https://tickets.example.com/show", "https://tickets.example.com/show"},
		{"  /whats-on  ", "https://example.org/whats-on"},
	}

	for _, tt := range tests {
		t.Run(tt.href, func(t *testing.T) {
			got, err := Resolve(base, tt.href)
			if err != nil {
				t.Fatalf("Resolve(%q) unexpected error: %v", tt.href, err)
			}
			if got != tt.want {
				t.Errorf("Resolve(%q) = %q, want %q", tt.href, got, tt.want)
			}
		})
	}
}

func TestJoinPath(t *testing.T) {
	tests := []struct {
		page string
		want string
	}{
		{"https://example.org/", "https://example.org/events/"},
		{"https://example.org", "https://example.org/events/"},
		{"https://example.org/home/?lang=en#top", "https://example.org/home/events/"},
	}

	for _, tt := range tests {
		if got := JoinPath(tt.page, "/events/"); got != tt.want {
			t.Errorf("JoinPath(%q) = %q, want %q", tt.page, got, tt.want)
		}
	}
}
