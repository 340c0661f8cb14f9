package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"
	"github.com/pfrederiksen/venue-recon/internal/venue"
)

// OutputFormat specifies the summary format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// ParseFormat validates a --format value
func ParseFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(strings.ToLower(s)); f {
	case FormatText, FormatJSON:
		return f, nil
	}
	return "", fmt.Errorf("unknown format: %s (want text or json)", s)
}

// tierMeanings label the tier totals
var tierMeanings = map[venue.Tier]string{
	venue.TierT0:   "JSON-LD events found",
	venue.TierT1:   "CMS with events page or links",
	venue.TierT2:   "JS-heavy / hard to scrape",
	venue.TierSkip: "no event content / errors",
}

// ErrorLine is one entry of the probe-error listing
type ErrorLine struct {
	Name   string          `json:"name"`
	Domain string          `json:"domain"`
	Kind   venue.ErrorKind `json:"kind,omitempty"`
	Error  string          `json:"error"`
}

// Summary is the end-of-run report
type Summary struct {
	RunID        string                             `json:"run_id,omitempty"`
	GeneratedAt  time.Time                          `json:"generated_at"`
	Total        int                                `json:"total"`
	Counts       map[venue.Tier]int                 `json:"counts"`
	ProbeErrors  []ErrorLine                        `json:"probe_errors"`
	ByTier       map[venue.Tier][]venue.ProbeResult `json:"by_tier"`
	BytesFetched int64                              `json:"bytes_fetched"`
	Duplicates   []DuplicateGroup                   `json:"possible_duplicates"`
	Changes      []Change                           `json:"changes,omitempty"`
	Output       string                             `json:"output,omitempty"`
}

// NewSummary aggregates results. Probe errors list only failures where no
// HTTP response arrived; HTTP error statuses show up under SKIP.
func NewSummary(runID string, results []venue.ProbeResult) *Summary {
	s := &Summary{
		RunID:       runID,
		GeneratedAt: time.Now().UTC(),
		Total:       len(results),
		Counts:      make(map[venue.Tier]int),
		ProbeErrors: []ErrorLine{},
		ByTier:      make(map[venue.Tier][]venue.ProbeResult),
		Duplicates:  PossibleDuplicates(results),
	}
	for _, t := range venue.Tiers() {
		s.Counts[t] = 0
	}

	for _, r := range sorted(results) {
		s.Counts[r.Tier]++
		s.BytesFetched += r.BodyBytes
		if r.Tier != venue.TierSkip {
			s.ByTier[r.Tier] = append(s.ByTier[r.Tier], r)
		}
		if r.NetworkFailure() {
			s.ProbeErrors = append(s.ProbeErrors, ErrorLine{
				Name:   r.Name,
				Domain: r.Domain,
				Kind:   r.ErrorKind,
				Error:  r.Error,
			})
		}
	}
	return s
}

// WriteSummary writes the summary in the specified format
func WriteSummary(w io.Writer, s *Summary, format OutputFormat) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, s)
	case FormatText:
		return writeText(w, s)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

func writeJSON(w io.Writer, s *Summary) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(s)
}

func writeText(w io.Writer, s *Summary) error {
	rule := strings.Repeat("=", 70)
	fmt.Fprintf(w, "\n%s\nRECON SUMMARY\n%s\n", rule, rule)
	fmt.Fprintf(w, "Total probed: %d\n", s.Total)
	fmt.Fprintln(w, renderTierTable(s, shouldDecorate(w)))
	fmt.Fprintf(w, "Fetched %s of HTML\n", humanize.Bytes(uint64(s.BytesFetched)))
	if s.Output != "" {
		fmt.Fprintf(w, "Wrote %s\n", s.Output)
	}

	for _, t := range []venue.Tier{venue.TierT0, venue.TierT1, venue.TierT2} {
		results := s.ByTier[t]
		if len(results) == 0 {
			continue
		}
		fmt.Fprintf(w, "\n--- %s ---\n", t)
		for _, r := range results {
			fmt.Fprintf(w, "  %-45s  %s%s\n", r.Name, r.Domain, annotations(r))
		}
	}

	if len(s.ProbeErrors) > 0 {
		fmt.Fprintln(w, "\n--- PROBE ERRORS ---")
		for _, e := range s.ProbeErrors {
			fmt.Fprintf(w, "  %-45s  %s\n", e.Name, e.Error)
		}
	}

	if len(s.Duplicates) > 0 {
		fmt.Fprintln(w, "\n--- POSSIBLE DUPLICATES ---")
		for _, g := range s.Duplicates {
			fmt.Fprintf(w, "  %-45s  %s\n", g.Label, strings.Join(g.Domains, ", "))
		}
	}

	if s.Changes != nil {
		fmt.Fprintln(w, "\n--- CHANGES SINCE PREVIOUS RUN ---")
		if len(s.Changes) == 0 {
			fmt.Fprintln(w, "  (none)")
		}
		for _, c := range s.Changes {
			fmt.Fprintf(w, "  %-45s  %s\n", c.Domain, c)
		}
	}
	return nil
}

func annotations(r venue.ProbeResult) string {
	var b strings.Builder
	if r.JSONLDEventCount > 0 {
		fmt.Fprintf(&b, " [%d JSON-LD]", r.JSONLDEventCount)
	}
	if r.TribeAPI {
		b.WriteString(" [tribe-api]")
	}
	if r.EventsSubpage {
		b.WriteString(" [/events/]")
	}
	return b.String()
}

func renderTierTable(s *Summary, decorate bool) string {
	tw := table.NewWriter()
	if decorate {
		tw.SetStyle(table.StyleRounded)
	} else {
		tw.SetStyle(table.StyleDefault)
	}
	tw.AppendHeader(table.Row{"Tier", "Meaning", "Count"})
	for _, t := range venue.Tiers() {
		tw.AppendRow(table.Row{string(t), tierMeanings[t], s.Counts[t]})
	}
	tw.AppendFooter(table.Row{"", "Probe errors", len(s.ProbeErrors)})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight, AlignFooter: text.AlignRight},
	})
	return tw.Render()
}

// shouldDecorate reports whether w is an interactive terminal
func shouldDecorate(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
