// Package cli implements the command-line interface for venue-recon.
//
// The cli package provides the Cobra-based root command. It loads the TOML
// configuration, collects configured domains from the sources directory, builds
// the candidate list from the directory feed (or an explicit URL list), probes
// every candidate with a bounded worker pool, and writes the TSV, optional XLSX
// and metrics artifacts before printing the run summary.
package cli
