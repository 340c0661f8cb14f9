// Package runner probes every candidate with a fixed number of workers and
// gathers one result per candidate.
package runner

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/pfrederiksen/venue-recon/internal/logger"
	"github.com/pfrederiksen/venue-recon/internal/venue"
)

// ProbeFunc investigates one candidate
type ProbeFunc func(ctx context.Context, entry venue.CandidateEntry) venue.ProbeResult

// ProgressFunc is told about each result as it completes. It is only ever
// called from the goroutine running Run.
type ProgressFunc func(done, total int, r venue.ProbeResult)

// Runner fans candidates out to a bounded pool of probes
type Runner struct {
	workers  int
	probe    ProbeFunc
	progress ProgressFunc
	log      *logger.Logger
}

// New creates a Runner with the given pool width. A nil log uses the
// package-level default logger.
func New(workers int, probe ProbeFunc, log *logger.Logger) *Runner {
	if workers < 1 {
		workers = 1
	}
	if log == nil {
		log = logger.Default()
	}
	return &Runner{workers: workers, probe: probe, log: log}
}

// OnProgress registers the progress callback
func (r *Runner) OnProgress(fn ProgressFunc) *Runner {
	r.progress = fn
	return r
}

// Run probes every entry and returns the results in completion order.
// Exactly one result is produced per entry, even when a probe panics.
func (r *Runner) Run(ctx context.Context, entries []venue.CandidateEntry) []venue.ProbeResult {
	total := len(entries)
	results := make([]venue.ProbeResult, 0, total)
	if total == 0 {
		return results
	}

	jobs := make(chan venue.CandidateEntry)
	done := make(chan venue.ProbeResult)

	var wg sync.WaitGroup
	for i := 0; i < min(r.workers, total); i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for entry := range jobs {
				done <- r.safeProbe(ctx, entry)
			}
		}()
	}

	go func() {
		for _, entry := range entries {
			jobs <- entry
		}
		close(jobs)
	}()

	go func() {
		wg.Wait()
		close(done)
	}()

	for result := range done {
		results = append(results, result)
		if r.progress != nil {
			r.progress(len(results), total, result)
		}
	}

	return results
}

// safeProbe converts a panicking probe into a SKIP result
func (r *Runner) safeProbe(ctx context.Context, entry venue.CandidateEntry) (result venue.ProbeResult) {
	defer func() {
		if p := recover(); p != nil {
			result = venue.NewResult(entry)
			result.Fail(venue.ErrorPanic, fmt.Sprint(p))
			r.log.Error("Probe panicked", logger.Fields{"domain": entry.Domain}, fmt.Errorf("%v", p))
		}
	}()
	return r.probe(ctx, entry)
}

// LinePrinter writes one progress line per completed probe, e.g.
//
//	[  3/120] T1    example.org ERROR: timeout
func LinePrinter(w io.Writer) ProgressFunc {
	return func(done, total int, r venue.ProbeResult) {
		errText := ""
		if r.Error != "" {
			errText = " ERROR: " + r.Error
		}
		fmt.Fprintf(w, "[%3d/%d] %-4s  %s%s\n", done, total, r.Tier, r.Domain, errText)
	}
}
