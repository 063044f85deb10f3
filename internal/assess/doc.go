// Package assess implements the site-assessment engine: it probes a site's
// robots.txt, sitemap, and feed endpoints, heuristically classifies its
// rendering technology, and aggregates the signals into a 0-100 crawlability
// score with a recommended crawling method.
//
// The engine is a library with no network surface of its own. Callers hand
// the Runner an ordered list of URLs; it fans assessments out over a bounded
// worker pool and returns one immutable SiteAssessment per input, in input
// order. A single unreachable site never fails the batch; each sub-probe
// degrades independently to a documented safe default.
package assess
