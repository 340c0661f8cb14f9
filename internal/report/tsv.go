package report

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/gofrs/flock"
	"github.com/pfrederiksen/venue-recon/internal/venue"
)

// Columns is the fixed TSV column order
var Columns = []string{
	"domain",
	"final_url",
	"status",
	"tech_stack",
	"jsonld_event_count",
	"events_subpage",
	"tribe_api",
	"tier_guess",
	"candidate_urls",
}

// Row renders one result in column order
func Row(r venue.ProbeResult) []string {
	return []string{
		r.Domain,
		r.FinalURL,
		strconv.Itoa(r.Status),
		strings.Join(r.TechStack, ","),
		strconv.Itoa(r.JSONLDEventCount),
		yesNo(r.EventsSubpage),
		yesNo(r.TribeAPI),
		string(r.Tier),
		joinCandidates(r.CandidateURLs),
	}
}

// joinCandidates joins URLs with "|", percent-encoding any "|" inside a URL
// so the column splits back into the same list.
func joinCandidates(urls []string) string {
	escaped := make([]string, len(urls))
	for i, u := range urls {
		escaped[i] = strings.ReplaceAll(u, "|", "%7C")
	}
	return strings.Join(escaped, "|")
}

// WriteTSV writes the header and one sorted row per result
func WriteTSV(w io.Writer, results []venue.ProbeResult) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintln(bw, strings.Join(Columns, "\t")); err != nil {
		return err
	}
	for _, r := range sorted(results) {
		if _, err := fmt.Fprintln(bw, strings.Join(Row(r), "\t")); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteTSVFile writes the TSV to path while holding an advisory lock on
// path+".lock", so two runs pointed at the same output cannot interleave.
// The lock file is removed once the write finishes.
func WriteTSVFile(path string, results []venue.ProbeResult) error {
	lock := flock.New(path + ".lock")
	ok, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire output lock: %w", err)
	}
	if !ok {
		return fmt.Errorf("another run is writing %s", path)
	}
	defer func() {
		lock.Unlock()
		os.Remove(lock.Path())
	}()

	var buf bytes.Buffer
	if err := WriteTSV(&buf, results); err != nil {
		return fmt.Errorf("encoding TSV: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("writing TSV: %w", err)
	}
	return nil
}

// ParseTSV reads a TSV written by WriteTSV back into results. Only the
// columns in the file are restored; name, error and diagnostics are not.
func ParseTSV(r io.Reader) ([]venue.ProbeResult, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("reading header: %w", err)
		}
		return nil, fmt.Errorf("empty TSV")
	}
	if header := scanner.Text(); header != strings.Join(Columns, "\t") {
		return nil, fmt.Errorf("unexpected header: %q", header)
	}

	var results []venue.ProbeResult
	line := 1
	for scanner.Scan() {
		line++
		text := scanner.Text()
		if text == "" {
			continue
		}
		res, err := parseRow(strings.Split(text, "\t"))
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		results = append(results, res)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading TSV: %w", err)
	}
	return results, nil
}

func parseRow(cols []string) (venue.ProbeResult, error) {
	if len(cols) != len(Columns) {
		return venue.ProbeResult{}, fmt.Errorf("got %d columns, want %d", len(cols), len(Columns))
	}

	status, err := strconv.Atoi(cols[2])
	if err != nil {
		return venue.ProbeResult{}, fmt.Errorf("status: %w", err)
	}
	count, err := strconv.Atoi(cols[4])
	if err != nil {
		return venue.ProbeResult{}, fmt.Errorf("jsonld_event_count: %w", err)
	}
	subpage, err := parseYesNo(cols[5])
	if err != nil {
		return venue.ProbeResult{}, fmt.Errorf("events_subpage: %w", err)
	}
	tribe, err := parseYesNo(cols[6])
	if err != nil {
		return venue.ProbeResult{}, fmt.Errorf("tribe_api: %w", err)
	}
	tier, err := venue.ParseTier(cols[7])
	if err != nil {
		return venue.ProbeResult{}, err
	}

	return venue.ProbeResult{
		Domain:           cols[0],
		FinalURL:         cols[1],
		Status:           status,
		TechStack:        splitNonEmpty(cols[3], ","),
		JSONLDEventCount: count,
		EventsSubpage:    subpage,
		TribeAPI:         tribe,
		Tier:             tier,
		CandidateURLs:    splitNonEmpty(cols[8], "|"),
	}, nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func parseYesNo(s string) (bool, error) {
	switch s {
	case "yes":
		return true, nil
	case "no":
		return false, nil
	}
	return false, fmt.Errorf("want yes or no, got %q", s)
}

func splitNonEmpty(s, sep string) []string {
	if s == "" {
		return []string{}
	}
	return strings.Split(s, sep)
}
