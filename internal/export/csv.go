// Package export renders assessment results for the presentation layer.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mizatrix/crawlability-checker/internal/assess"
)

// Notes within a single CSV field are joined with a non-comma delimiter so
// they stay unambiguous under standard CSV quoting.
const noteDelimiter = ";"

// Header is the stable CSV column order.
var Header = []string{
	"url",
	"crawlingAllowed",
	"sitemapFound",
	"feedFound",
	"likelyJsHeavy",
	"score",
	"recommendedMethod",
	"notes",
}

// WriteCSV writes one row per assessment, preserving input order.
func WriteCSV(w io.Writer, results []assess.SiteAssessment) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, result := range results {
		if err := cw.Write(Record(result)); err != nil {
			return fmt.Errorf("write csv row for %s: %w", result.URL, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// Record flattens one assessment into the Header column order.
func Record(a assess.SiteAssessment) []string {
	return []string{
		a.URL,
		strconv.FormatBool(a.Robots.CrawlingAllowed),
		strconv.FormatBool(a.Sitemap.Found),
		strconv.FormatBool(a.Feed.Found),
		strconv.FormatBool(a.Rendering.Known && a.Rendering.LikelyJSHeavy),
		strconv.Itoa(a.Score),
		string(a.Method),
		strings.Join(a.Notes, noteDelimiter),
	}
}
