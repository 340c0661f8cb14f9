// Package discovery turns raw directory entries, or an explicit URL list, into
// the candidate entries worth probing.
//
// Directory entries pass through four exclusion checks applied in a fixed
// order: a usable absolute link, the social/ticketing denylist, the registry of
// already-configured domains, and the arts/culture tag prefixes. The first
// failing check is the one counted, so every rejected entry appears in exactly
// one bucket of Stats.
package discovery
