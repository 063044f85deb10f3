package assess

import (
	"bufio"
	"context"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

// RobotsEvaluator retrieves and interprets a site's robots.txt for a generic
// crawler identity. Absence of the file, or any failure fetching it, is
// treated as implicit permission per the robots-exclusion convention.
type RobotsEvaluator struct {
	fetcher Fetcher
	agent   string
	logger  *zap.Logger
}

// NewRobotsEvaluator builds an evaluator matching groups against agent.
func NewRobotsEvaluator(fetcher Fetcher, agent string, logger *zap.Logger) *RobotsEvaluator {
	return &RobotsEvaluator{
		fetcher: fetcher,
		agent:   agent,
		logger:  logger,
	}
}

// Evaluate fetches {origin}/robots.txt and derives the crawl verdict for the
// root path along with the declared sitemap URLs.
func (e *RobotsEvaluator) Evaluate(ctx context.Context, origin string) RobotsResult {
	out := e.fetcher.Fetch(ctx, origin+"/robots.txt")
	if !out.Succeeded() {
		e.logger.Debug("robots.txt unavailable; assuming permissive",
			zap.String("origin", origin),
			zap.Int("status", out.StatusCode),
			zap.String("error_kind", string(out.Err)),
		)
		return RobotsResult{
			Fetched:         false,
			StatusCode:      out.StatusCode,
			CrawlingAllowed: true,
		}
	}

	parsed := parseRobots(string(out.Body), e.agent)
	return RobotsResult{
		Fetched:          true,
		StatusCode:       out.StatusCode,
		CrawlingAllowed:  parsed.allowedFor("/"),
		CrawlDelay:       parsed.crawlDelay,
		AllowedPaths:     parsed.allowedPaths(),
		DisallowedPaths:  parsed.disallowedPaths(),
		DeclaredSitemaps: parsed.sitemaps,
	}
}

// robotsRule is one Allow/Disallow directive from an applicable group, kept
// in file order.
type robotsRule struct {
	allow bool
	path  string
}

type robotsRules struct {
	rules      []robotsRule
	sitemaps   []string
	crawlDelay time.Duration
}

// parseRobots scans line-oriented robots.txt directives. Groups apply when a
// User-agent value is "*" or contains the configured agent token
// (case-insensitive). Malformed lines are skipped, never fatal. Sitemap
// directives are collected regardless of grouping.
func parseRobots(content, agent string) robotsRules {
	var (
		parsed robotsRules
		// A run of consecutive User-agent lines opens a new group; the
		// first rule line closes the run.
		collectingAgents bool
		groupApplies     bool
	)
	agentToken := strings.ToLower(strings.TrimSpace(agent))

	scanner := bufio.NewScanner(strings.NewReader(content))
	for scanner.Scan() {
		line := scanner.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		directive, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		directive = strings.ToLower(strings.TrimSpace(directive))
		value = strings.TrimSpace(value)

		switch directive {
		case "user-agent":
			if !collectingAgents {
				collectingAgents = true
				groupApplies = false
			}
			if agentMatches(value, agentToken) {
				groupApplies = true
			}
		case "allow", "disallow":
			collectingAgents = false
			if !groupApplies {
				continue
			}
			parsed.rules = append(parsed.rules, robotsRule{
				allow: directive == "allow",
				path:  value,
			})
		case "crawl-delay":
			collectingAgents = false
			if !groupApplies {
				continue
			}
			if secs, err := strconv.ParseFloat(value, 64); err == nil && secs > 0 {
				parsed.crawlDelay = time.Duration(secs * float64(time.Second))
			}
		case "sitemap":
			if value != "" {
				parsed.sitemaps = append(parsed.sitemaps, value)
			}
		}
	}

	return parsed
}

func agentMatches(value, agentToken string) bool {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "*" {
		return true
	}
	if agentToken == "" {
		return false
	}
	return strings.Contains(agentToken, value) || strings.Contains(value, agentToken)
}

// allowedFor applies robots-exclusion precedence for the given path: the
// longest matching rule prefix wins, and on equal length the later directive
// wins. No matching rule means allowed.
func (r robotsRules) allowedFor(path string) bool {
	allowed := true
	bestLen := -1
	for _, rule := range r.rules {
		if rule.path == "" {
			// An empty value matches nothing; "Disallow:" is the
			// conventional allow-everything form.
			continue
		}
		if !strings.HasPrefix(path, rule.path) {
			continue
		}
		if len(rule.path) >= bestLen {
			bestLen = len(rule.path)
			allowed = rule.allow
		}
	}
	return allowed
}

func (r robotsRules) allowedPaths() []string {
	var out []string
	for _, rule := range r.rules {
		if rule.allow && rule.path != "" {
			out = append(out, rule.path)
		}
	}
	return out
}

func (r robotsRules) disallowedPaths() []string {
	var out []string
	for _, rule := range r.rules {
		if !rule.allow && rule.path != "" {
			out = append(out, rule.path)
		}
	}
	return out
}
