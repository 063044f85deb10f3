package assess

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// RenderingClassifier heuristically decides whether a homepage depends on
// client-side script execution, without running any JavaScript. It weighs the
// visible-text ratio of the document against its script-tag density.
type RenderingClassifier struct {
	thresholds RenderingThresholds
}

// NewRenderingClassifier constructs a classifier with the given cutoffs.
func NewRenderingClassifier(thresholds RenderingThresholds) *RenderingClassifier {
	return &RenderingClassifier{thresholds: thresholds}
}

// Classify inspects the homepage fetch outcome. A failed fetch yields an
// unknown verdict (Known=false) so the aggregator treats it as a missing
// signal rather than a confident "not JS-heavy".
func (c *RenderingClassifier) Classify(out FetchOutcome) RenderingResult {
	if !out.Succeeded() || len(out.Body) == 0 {
		return RenderingResult{Known: false, Strength: SignalLow}
	}

	ratio := visibleTextRatio(out.Body)
	scripts := strings.Count(strings.ToLower(string(out.Body)), "<script")

	t := c.thresholds
	result := RenderingResult{
		Known:       true,
		TextRatio:   ratio,
		ScriptCount: scripts,
	}
	switch {
	case ratio < t.HighTextRatio && scripts >= t.HighScriptCount:
		result.LikelyJSHeavy = true
		result.Strength = SignalHigh
	case ratio < t.MediumTextRatio || scripts >= t.MediumScriptCount:
		result.LikelyJSHeavy = true
		result.Strength = SignalMedium
	default:
		result.Strength = SignalLow
	}
	return result
}

// visibleTextRatio compares the length of the document's rendered text,
// scripts and styles excluded, against the raw HTML length.
func visibleTextRatio(body []byte) float64 {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return 0
	}
	doc.Find("script, style, noscript").Remove()

	text := doc.Find("body").Text()
	if text == "" {
		text = doc.Text()
	}
	compact := strings.Join(strings.Fields(text), " ")
	if len(body) == 0 {
		return 0
	}
	return float64(len(compact)) / float64(len(body))
}
