// Package probe investigates a single candidate site and derives the signals
// used to classify it.
//
// One Probe call makes one page fetch plus a handful of HEAD checks, all
// through an HTTP client owned by that call alone. Every failure is converted
// into data on the returned venue.ProbeResult; Probe never returns an error and
// never panics on bad input from the network.
package probe
