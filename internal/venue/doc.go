// Package venue provides the types shared by every stage of the recon pipeline.
//
// A CandidateEntry is an organization selected for probing; a ProbeResult is the
// outcome of investigating one. Tiers are the coarse scraping-difficulty guesses
// attached to every result, T0 meaning structured event data is already present
// and SKIP meaning the site is not worth a scraper.
package venue
