package tier

import (
	"testing"

	"github.com/pfrederiksen/venue-recon/internal/config"
	"github.com/pfrederiksen/venue-recon/internal/venue"
)

func newClassifier() *Classifier {
	return NewClassifier(config.Default().MustCompile())
}

func TestClassify(t *testing.T) {
	c := newClassifier()

	tests := []struct {
		name     string
		signals  Signals
		want     venue.Tier
		wantRule string
	}{
		{
			name:     "json-ld beats everything",
			signals:  Signals{JSONLDEventCount: 2, Tech: []string{"squarespace"}, EventsSubpage: true},
			want:     venue.TierT0,
			wantRule: "jsonld-events",
		},
		{
			name:     "wordpress with events page",
			signals:  Signals{Tech: []string{"wordpress", "elementor"}, EventsSubpage: true},
			want:     venue.TierT1,
			wantRule: "cms-with-events-page",
		},
		{
			name:     "drupal with events page",
			signals:  Signals{Tech: []string{"drupal"}, EventsSubpage: true},
			want:     venue.TierT1,
			wantRule: "cms-with-events-page",
		},
		{
			name:     "wordpress with elementor but no events page is T2",
			signals:  Signals{Tech: []string{"wordpress", "elementor"}, CandidateLinks: 3},
			want:     venue.TierT2,
			wantRule: "js-heavy-stack",
		},
		{
			name:     "squarespace without subpages",
			signals:  Signals{Tech: []string{"squarespace"}},
			want:     venue.TierT2,
			wantRule: "js-heavy-stack",
		},
		{
			name:     "squarespace with events page is still T2",
			signals:  Signals{Tech: []string{"squarespace"}, EventsSubpage: true},
			want:     venue.TierT2,
			wantRule: "js-heavy-stack",
		},
		{
			name:     "static site with event links",
			signals:  Signals{Tech: []string{"static"}, CandidateLinks: 1},
			want:     venue.TierT1,
			wantRule: "event-links",
		},
		{
			name:     "plain wordpress with no event signal",
			signals:  Signals{Tech: []string{"wordpress"}},
			want:     venue.TierSkip,
			wantRule: Fallthrough,
		},
		{
			name:     "nothing at all",
			signals:  Signals{Tech: []string{"static"}},
			want:     venue.TierSkip,
			wantRule: Fallthrough,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, rule := c.Explain(tt.signals)
			if got != tt.want {
				t.Errorf("Explain() tier = %s, want %s", got, tt.want)
			}
			if rule != tt.wantRule {
				t.Errorf("Explain() rule = %q, want %q", rule, tt.wantRule)
			}
		})
	}
}

func TestClassify_Idempotent(t *testing.T) {
	c := newClassifier()
	s := Signals{Tech: []string{"wix"}, EventsSubpage: true, CandidateLinks: 4}

	first := c.Classify(s)
	for i := 0; i < 5; i++ {
		if got := c.Classify(s); got != first {
			t.Fatalf("Classify() call %d = %s, first = %s", i+2, got, first)
		}
	}
}

func TestClassify_T0OnlyFromJSONLD(t *testing.T) {
	c := newClassifier()
	techs := [][]string{{"static"}, {"wordpress"}, {"drupal"}, {"wix"}, {"nextjs", "tribe-events"}}

	for _, tech := range techs {
		for _, sub := range []bool{false, true} {
			for _, links := range []int{0, 3} {
				for _, count := range []int{0, 1} {
					s := Signals{JSONLDEventCount: count, Tech: tech, EventsSubpage: sub, CandidateLinks: links}
					got := c.Classify(s)
					if (got == venue.TierT0) != (count > 0) {
						t.Errorf("Classify(%+v) = %s; T0 must hold exactly when count > 0", s, got)
					}
				}
			}
		}
	}
}

func TestRuleOrder(t *testing.T) {
	rules := newClassifier().Rules()
	want := []string{"jsonld-events", "cms-with-events-page", "js-heavy-stack", "event-links"}

	if len(rules) != len(want) {
		t.Fatalf("got %d rules, want %d", len(rules), len(want))
	}
	for i, r := range rules {
		if r.Name != want[i] {
			t.Errorf("rule %d = %q, want %q", i, r.Name, want[i])
		}
	}
}

func TestNewClassifierWithRules(t *testing.T) {
	c := NewClassifierWithRules([]Rule{
		{Name: "always-t2", Tier: venue.TierT2, Match: func(Signals) bool { return true }},
	})
	if got := c.Classify(Signals{JSONLDEventCount: 5}); got != venue.TierT2 {
		t.Errorf("Classify() = %s, want T2 from substituted rule list", got)
	}
}

func TestFromResult(t *testing.T) {
	r := venue.ProbeResult{
		JSONLDEventCount: 1,
		TechStack:        []string{"wordpress"},
		EventsSubpage:    true,
		CandidateURLs:    []string{"https://a.example.org/events"},
	}
	s := FromResult(r)
	if s.JSONLDEventCount != 1 || !s.EventsSubpage || s.CandidateLinks != 1 || len(s.Tech) != 1 {
		t.Errorf("FromResult() = %+v", s)
	}
}
