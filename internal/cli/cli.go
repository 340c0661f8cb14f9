package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const (
	ExitSuccess      = 0
	ExitError        = 1
	ExitNoCandidates = 2
)

// exitError carries a specific process exit code out of RunE
type exitError struct {
	code int
	msg  string
}

func (e *exitError) Error() string {
	return e.msg
}

// ExitCode maps an error returned by the root command to a process exit code
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return ExitError
}

// options holds the parsed flags of one invocation
type options struct {
	limit       int
	input       string
	configPath  string
	sourcesDir  string
	output      string
	xlsx        string
	metricsFile string
	compare     string
	format      string
	logLevel    string
	verbose     bool
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "venue-recon",
		Short: "Probe arts venue websites and estimate how scrapable their events are",
		Long: `Fetches the community directory, keeps arts organizations that are not yet
configured as scraper sources, probes each website, and writes a TSV ranking
every site by scraping difficulty (T0 structured data, T1 CMS events page,
T2 JavaScript-heavy, SKIP nothing usable).`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd)
		},
	}

	// Define flags
	cmd.Flags().IntVar(&opts.limit, "limit", 0, "Probe at most N candidates (0 = all)")
	cmd.Flags().StringVar(&opts.input, "input", "", "Newline-delimited URL list to probe instead of the directory ('-' for stdin)")
	cmd.Flags().StringVar(&opts.configPath, "config", "venue-recon.toml", "Path to TOML config (missing file uses defaults)")
	cmd.Flags().StringVar(&opts.sourcesDir, "sources-dir", "", "Directory of configured scraper sources (overrides config)")
	cmd.Flags().StringVar(&opts.output, "output", "", "TSV output path (overrides config); a <path>.lock file exists only while it is written")
	cmd.Flags().StringVar(&opts.xlsx, "xlsx", "", "Also write results to this XLSX workbook")
	cmd.Flags().StringVar(&opts.metricsFile, "metrics-file", "", "Write Prometheus textfile metrics to this path")
	cmd.Flags().StringVar(&opts.compare, "compare", "", "Previous run's TSV to report tier changes against (may equal --output)")
	cmd.Flags().StringVar(&opts.format, "format", "text", "Summary format: text or json")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "info", "Log level: debug, info, warn or error")
	cmd.Flags().BoolVar(&opts.verbose, "verbose", false, "Enable debug logging (same as --log-level debug)")

	return cmd
}

// Execute runs the CLI and exits the process
func Execute() {
	err := NewRootCmd().Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	os.Exit(ExitCode(err))
}
