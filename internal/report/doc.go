// Package report writes the artifacts of a recon run: the TSV consumed by
// scraper authors, an optional XLSX copy, and the human summary printed at the
// end of a run.
//
// Results arrive in completion order; every writer here sorts them first (by
// tier, then domain) so artifacts are stable across runs.
package report
