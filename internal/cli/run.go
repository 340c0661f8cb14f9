package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/pfrederiksen/venue-recon/internal/config"
	"github.com/pfrederiksen/venue-recon/internal/directory"
	"github.com/pfrederiksen/venue-recon/internal/discovery"
	"github.com/pfrederiksen/venue-recon/internal/logger"
	"github.com/pfrederiksen/venue-recon/internal/metrics"
	"github.com/pfrederiksen/venue-recon/internal/probe"
	"github.com/pfrederiksen/venue-recon/internal/registry"
	"github.com/pfrederiksen/venue-recon/internal/report"
	"github.com/pfrederiksen/venue-recon/internal/runner"
	"github.com/pfrederiksen/venue-recon/internal/tier"
	"github.com/pfrederiksen/venue-recon/internal/venue"
	"github.com/spf13/cobra"
)

// run is the main command logic
func (o *options) run(cmd *cobra.Command) error {
	stdout := cmd.OutOrStdout()
	stderr := cmd.ErrOrStderr()

	// Validate flags before touching the network
	format, err := report.ParseFormat(o.format)
	if err != nil {
		return err
	}
	if o.limit < 0 {
		return fmt.Errorf("--limit must be >= 0, got %d", o.limit)
	}
	level, err := logger.ParseLevel(o.logLevel)
	if err != nil {
		return err
	}
	if o.verbose {
		level = logger.LevelDebug
	}
	if err := o.expandPaths(); err != nil {
		return err
	}

	cfg, configPath, configFound, err := config.Load(o.configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if o.sourcesDir != "" {
		cfg.Paths.SourcesDir = o.sourcesDir
	}
	if o.output != "" {
		cfg.Paths.Output = o.output
	}
	rules, err := cfg.Compile()
	if err != nil {
		return fmt.Errorf("compiling config: %w", err)
	}

	runID := uuid.NewString()
	log := logger.New(level, stderr).With(logger.Fields{"run_id": runID})
	logger.SetDefault(log)

	log.Debug("Config loaded", logger.Fields{
		"path":        configPath,
		"found":       configFound,
		"sources_dir": cfg.Paths.SourcesDir,
		"output":      cfg.Paths.Output,
		"workers":     rules.Workers,
	})

	rec := metrics.New()

	configured, err := registry.Load(cfg.Paths.SourcesDir, log)
	if err != nil {
		return fmt.Errorf("loading configured sources: %w", err)
	}
	rec.SetConfiguredDomains(configured.Len())
	log.Info("Configured domains loaded", logger.Fields{
		"sources_dir": cfg.Paths.SourcesDir,
		"domains":     configured.Len(),
	})

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	candidates, stats, err := o.candidates(ctx, cmd.InOrStdin(), rules, configured, log)
	if err != nil {
		return err
	}
	for _, reason := range discovery.Reasons() {
		rec.ObserveExcluded(string(reason), stats.Excluded[reason])
	}
	log.Info("Candidates selected", logger.Fields{
		"total":    stats.Total,
		"accepted": stats.Accepted,
		"excluded": stats.Excluded,
	})

	// Progress lines go to stdout unless stdout carries the JSON summary
	progress := stdout
	if format == report.FormatJSON {
		progress = stderr
	}
	fmt.Fprintln(progress, stats.String())

	candidates = discovery.Limit(candidates, o.limit)
	if len(candidates) == 0 {
		return &exitError{code: ExitNoCandidates, msg: "no candidates to probe"}
	}

	workers := rules.Workers
	if workers > len(candidates) {
		workers = len(candidates)
	}
	fmt.Fprintf(progress, "Probing %d candidates with %d workers...\n\n", len(candidates), workers)

	prober := probe.New(rules, tier.NewClassifier(rules), log)
	results := runner.New(rules.Workers, prober.Probe, log).
		OnProgress(runner.LinePrinter(progress)).
		Run(ctx, candidates)

	for _, r := range results {
		rec.ObserveResult(r)
	}
	report.Sort(results)

	// Read the previous run before the TSV is overwritten
	var changes []report.Change
	if o.compare != "" {
		previous, found, err := report.LoadPrevious(o.compare)
		if err != nil {
			return err
		}
		if !found {
			log.Warn("Previous run not found, every domain is new", logger.Fields{"path": o.compare})
		}
		changes = report.Diff(previous, results)
	}

	if err := o.writeArtifacts(cfg.Paths.Output, results, rec, log); err != nil {
		return err
	}

	summary := report.NewSummary(runID, results)
	summary.Output = cfg.Paths.Output
	summary.Changes = changes
	if err := report.WriteSummary(stdout, summary, format); err != nil {
		return fmt.Errorf("writing summary: %w", err)
	}
	return nil
}

// expandPaths applies the config file's "~/" expansion to path flags
func (o *options) expandPaths() error {
	for _, p := range []*string{&o.input, &o.sourcesDir, &o.output, &o.xlsx, &o.metricsFile, &o.compare} {
		expanded, err := config.ExpandPath(*p)
		if err != nil {
			return err
		}
		*p = expanded
	}
	return nil
}

// candidates builds the probe list from --input or the directory feed
func (o *options) candidates(ctx context.Context, stdin io.Reader, rules *config.Rules, configured registry.Set, log *logger.Logger) ([]venue.CandidateEntry, discovery.Stats, error) {
	if o.input != "" {
		r := stdin
		if o.input != "-" {
			f, err := os.Open(o.input)
			if err != nil {
				return nil, discovery.Stats{}, fmt.Errorf("opening input: %w", err)
			}
			defer f.Close()
			r = f
		}
		return discovery.LoadURLList(r, configured)
	}

	client := directory.NewClient(rules.DirectoryURL, rules.UserAgent, rules.DirectoryTimeout, log)
	entries := client.Communities(ctx)
	candidates, stats := discovery.NewFilter(rules, configured).Apply(entries)
	return candidates, stats, nil
}

// writeArtifacts writes the TSV and, when requested, the XLSX and metrics files
func (o *options) writeArtifacts(output string, results []venue.ProbeResult, rec *metrics.Recorder, log *logger.Logger) error {
	if err := report.WriteTSVFile(output, results); err != nil {
		return fmt.Errorf("writing %s: %w", output, err)
	}
	log.Info("TSV written", logger.Fields{"path": output, "rows": len(results)})

	if o.xlsx != "" {
		if err := report.WriteXLSX(o.xlsx, results); err != nil {
			return fmt.Errorf("writing %s: %w", o.xlsx, err)
		}
		log.Info("XLSX written", logger.Fields{"path": o.xlsx})
	}

	if o.metricsFile != "" {
		if err := rec.WriteTextfile(o.metricsFile); err != nil {
			return fmt.Errorf("writing %s: %w", o.metricsFile, err)
		}
		log.Debug("Metrics written", logger.Fields{"path": o.metricsFile})
	}
	return nil
}
